package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	storage_go "github.com/supabase-community/storage-go"

	"thesisvault/internal/domain"
)

// SupabaseBackend хранит документы в managed object storage Supabase.
// Ключ — путь внутри бакета с уникальным суффиксом (время + случайность).
//
// Единственный бэкенд с деградацией вместо fail-fast: при отсутствии
// конфигурации и при неудачной удалённой записи загрузка уходит в локальный
// бэкенд с предупреждением в логе. Целевая площадка развёртывания держит
// эфемерный локальный диск, поэтому локальная копия — известное
// деградированное, но не фатальное состояние.
type SupabaseBackend struct {
	client     *storage_go.Client
	bucket     string
	fallback   *LocalBackend
	configured bool
}

// NewSupabaseBackend не возвращает ошибку конфигурации: неполные учётные
// данные переводят бэкенд в режим постоянного локального fallback.
func NewSupabaseBackend(conf SupabaseConfig, fallback *LocalBackend) *SupabaseBackend {
	b := &SupabaseBackend{bucket: conf.Bucket, fallback: fallback}

	if conf.URL == "" || conf.ServiceKey == "" || conf.Bucket == "" {
		log.Warn().Msg("supabase storage is not configured, uploads will fall back to local storage")
		return b
	}

	b.client = storage_go.NewClient(
		strings.TrimSuffix(conf.URL, "/")+"/storage/v1",
		conf.ServiceKey,
		nil,
	)
	b.configured = true
	return b
}

func (b *SupabaseBackend) Name() string { return BackendNameSupabase }

func (b *SupabaseBackend) Upload(ctx context.Context, in UploadInput, folder string) (*domain.DocumentRecord, error) {
	if !b.configured {
		// Отсутствие бакета или ключей — отдельное невосстановимое
		// состояние конфигурации, без повторных попыток
		log.Warn().
			Str("backend", b.Name()).
			Str("file", in.OriginalName).
			Msg("supabase is unconfigured, uploading to local fallback")
		return b.fallback.Upload(ctx, in, folder)
	}

	rec, err := b.uploadRemote(ctx, in, folder)
	if err != nil {
		// Двухэтапная попытка: неудача удалённой записи видна здесь,
		// а не проглатывается, и только затем уходит в fallback
		log.Warn().
			Err(err).
			Str("backend", b.Name()).
			Str("file", in.OriginalName).
			Msg("supabase upload failed, falling back to local storage")
		return b.fallback.Upload(ctx, in, folder)
	}
	return rec, nil
}

func (b *SupabaseBackend) uploadRemote(ctx context.Context, in UploadInput, folder string) (*domain.DocumentRecord, error) {
	if in.StagingPath == "" || in.OriginalName == "" {
		return nil, newBackendError(b.Name(), "upload", fmt.Errorf("staging path and original name are required"))
	}

	f, err := os.Open(in.StagingPath)
	if err != nil {
		return nil, newBackendError(b.Name(), "open-staging", err)
	}
	defer f.Close()

	key := GenerateKey(folder, in.OriginalName)
	contentType := in.MIMEType

	if _, err := b.client.UploadFile(b.bucket, key, f, storage_go.FileOptions{
		ContentType: &contentType,
	}); err != nil {
		return nil, newBackendError(b.Name(), "upload-file", err)
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

func (b *SupabaseBackend) Delete(ctx context.Context, storageKey string) (bool, error) {
	if !b.configured {
		return b.fallback.Delete(ctx, storageKey)
	}

	if _, err := b.client.RemoveFile(b.bucket, []string{storageKey}); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return false, nil
		}
		return false, newBackendError(b.Name(), "remove-file", err)
	}
	return true, nil
}

func (b *SupabaseBackend) ResolveURL(storageKey string) string {
	if !b.configured {
		return ""
	}
	return b.client.GetPublicUrl(b.bucket, storageKey).SignedURL
}
