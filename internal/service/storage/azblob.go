package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"thesisvault/internal/domain"
)

// AzureBlobBackend хранит документы в blob-контейнере Azure.
// Ключ — путь внутри контейнера.
type AzureBlobBackend struct {
	client    *azblob.Client
	container string
}

func NewAzureBlobBackend(conf AzureBlobConfig) (*AzureBlobBackend, error) {
	if conf.ConnectionString == "" || conf.Container == "" {
		return nil, fmt.Errorf("%w: connectionString and container are required", ErrUnconfigured)
	}

	client, err := azblob.NewClientFromConnectionString(conf.ConnectionString, nil)
	if err != nil {
		return nil, newBackendError(BackendNameAzureBlob, "init", err)
	}

	return &AzureBlobBackend{client: client, container: conf.Container}, nil
}

func (b *AzureBlobBackend) Name() string { return BackendNameAzureBlob }

func (b *AzureBlobBackend) Upload(ctx context.Context, in UploadInput, folder string) (*domain.DocumentRecord, error) {
	if in.StagingPath == "" || in.OriginalName == "" {
		return nil, newBackendError(b.Name(), "upload", fmt.Errorf("staging path and original name are required"))
	}

	f, err := os.Open(in.StagingPath)
	if err != nil {
		return nil, newBackendError(b.Name(), "open-staging", err)
	}
	defer f.Close()

	key := GenerateKey(folder, in.OriginalName)

	uctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	if _, err := b.client.UploadStream(uctx, b.container, key, f, nil); err != nil {
		return nil, newBackendError(b.Name(), "upload-stream", err)
	}

	f.Close()
	removeStaging(in.StagingPath)

	return &domain.DocumentRecord{
		StorageKey:   key,
		OriginalName: in.OriginalName,
		MIMEType:     in.MIMEType,
		SizeBytes:    in.SizeBytes,
		LocationKind: domain.LocationRemoteURL,
		UploadedAt:   time.Now(),
	}, nil
}

func (b *AzureBlobBackend) Delete(ctx context.Context, storageKey string) (bool, error) {
	dctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	if _, err := b.client.DeleteBlob(dctx, b.container, storageKey, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return false, nil
		}
		return false, newBackendError(b.Name(), "delete-blob", err)
	}
	return true, nil
}

func (b *AzureBlobBackend) ResolveURL(storageKey string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(b.client.URL(), "/"), b.container, storageKey)
}
