package storage

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"thesisvault/internal/domain"
)

// CloudinaryBackend хранит документы в медиахранилище Cloudinary.
// Ключ — назначенный провайдером public id. Загрузка потоковая:
// staging-файл передаётся SDK как reader, без чтения в память.
type CloudinaryBackend struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

func NewCloudinaryBackend(conf CloudinaryConfig) (*CloudinaryBackend, error) {
	if conf.CloudName == "" || conf.APIKey == "" || conf.APISecret == "" {
		return nil, fmt.Errorf("%w: cloudName, apiKey and apiSecret are required", ErrUnconfigured)
	}

	cld, err := cloudinary.NewFromParams(conf.CloudName, conf.APIKey, conf.APISecret)
	if err != nil {
		return nil, newBackendError(BackendNameCloudinary, "init", err)
	}

	return &CloudinaryBackend{cld: cld, cloudName: conf.CloudName}, nil
}

func (b *CloudinaryBackend) Name() string { return BackendNameCloudinary }

func (b *CloudinaryBackend) Upload(ctx context.Context, in UploadInput, folder string) (*domain.DocumentRecord, error) {
	if in.StagingPath == "" || in.OriginalName == "" {
		return nil, newBackendError(b.Name(), "upload", fmt.Errorf("staging path and original name are required"))
	}

	f, err := os.Open(in.StagingPath)
	if err != nil {
		return nil, newBackendError(b.Name(), "open-staging", err)
	}
	defer f.Close()

	uctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	overwrite := false
	resp, err := b.cld.Upload.Upload(uctx, f, uploader.UploadParams{
		PublicID:     GenerateKey(folder, in.OriginalName),
		ResourceType: "raw",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return nil, newBackendError(b.Name(), "upload", err)
	}
	if resp.Error.Message != "" {
		return nil, newBackendError(b.Name(), "upload", fmt.Errorf("%s", resp.Error.Message))
	}

	f.Close()
	removeStaging(in.StagingPath)

	return &domain.DocumentRecord{
		StorageKey:   resp.PublicID,
		OriginalName: in.OriginalName,
		MIMEType:     in.MIMEType,
		SizeBytes:    in.SizeBytes,
		LocationKind: domain.LocationRemoteURL,
		UploadedAt:   time.Now(),
	}, nil
}

func (b *CloudinaryBackend) Delete(ctx context.Context, storageKey string) (bool, error) {
	dctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	resp, err := b.cld.Upload.Destroy(dctx, uploader.DestroyParams{
		PublicID:     storageKey,
		ResourceType: "raw",
	})
	if err != nil {
		return false, newBackendError(b.Name(), "destroy", err)
	}
	// Провайдер сообщает "not found" как результат, а не ошибку
	if resp.Result == "not found" {
		return false, nil
	}
	if resp.Result != "ok" {
		return false, newBackendError(b.Name(), "destroy", fmt.Errorf("unexpected result %q", resp.Result))
	}
	return true, nil
}

func (b *CloudinaryBackend) ResolveURL(storageKey string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/raw/upload/%s", b.cloudName, storageKey)
}
