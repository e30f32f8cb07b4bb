package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"thesisvault/internal/domain"
)

const (
	// Метаданные (HeadBucket/HeadObject) ограничены коротким таймаутом,
	// чтобы неисправный провайдер не подвешивал запрос
	metadataTimeout = 10 * time.Second
	uploadTimeout   = 10 * time.Minute
)

// S3Backend хранит документы в S3-совместимом хранилище.
// Ключ — ключ бакета; контрольная сумма не ведётся, транспорту доверяем.
type S3Backend struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// NewS3Backend создает клиента и проверяет доступ к бакету
func NewS3Backend(conf S3Config) (*S3Backend, error) {
	if conf.AccessKeyID == "" || conf.SecretAccessKey == "" || conf.Bucket == "" {
		return nil, fmt.Errorf("%w: accessKeyID, secretAccessKey and bucket are required", ErrUnconfigured)
	}

	creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(
		conf.AccessKeyID,
		conf.SecretAccessKey,
		"",
	))

	client := s3.New(s3.Options{
		BaseEndpoint:     aws.String(conf.Endpoint),
		Region:           conf.Region,
		Credentials:      creds,
		RetryMode:        aws.RetryModeAdaptive,
		RetryMaxAttempts: 3,
	})

	backend := &S3Backend{
		client:   client,
		bucket:   conf.Bucket,
		endpoint: strings.TrimSuffix(conf.Endpoint, "/"),
	}

	// Проверяем подключение к бакету
	ctx, cancel := context.WithTimeout(context.Background(), metadataTimeout)
	defer cancel()

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(conf.Bucket),
	}); err != nil {
		return nil, newBackendError(BackendNameS3, "head-bucket", err)
	}

	return backend, nil
}

func (b *S3Backend) Name() string { return BackendNameS3 }

func (b *S3Backend) Upload(ctx context.Context, in UploadInput, folder string) (*domain.DocumentRecord, error) {
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

	if _, err := b.client.PutObject(uctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(in.MIMEType),
	}); err != nil {
		return nil, newBackendError(b.Name(), "put-object", err)
	}

	// Авторитетная копия подтверждена, staging больше не нужен
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

func (b *S3Backend) Delete(ctx context.Context, storageKey string) (bool, error) {
	dctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()

	// Проверяем существование объекта перед удалением
	_, err := b.client.HeadObject(dctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(storageKey),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, newBackendError(b.Name(), "head-object", err)
	}

	if _, err := b.client.DeleteObject(dctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(storageKey),
	}); err != nil {
		return false, newBackendError(b.Name(), "delete-object", err)
	}

	return true, nil
}

// ResolveURL строит публичный URL объекта без обращения к провайдеру
func (b *S3Backend) ResolveURL(storageKey string) string {
	if b.endpoint == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", b.endpoint, b.bucket, storageKey)
}

func isS3NotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
