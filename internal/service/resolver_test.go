package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"thesisvault/internal/domain"
	"thesisvault/internal/service/storage"
)

// stubBackend отдаёт заранее заданный URL; остальное не нужно резолверу
type stubBackend struct {
	url string
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) Upload(ctx context.Context, in storage.UploadInput, folder string) (*domain.DocumentRecord, error) {
	return nil, nil
}

func (b *stubBackend) Delete(ctx context.Context, key string) (bool, error) { return false, nil }

func (b *stubBackend) ResolveURL(key string) string { return b.url }

func newResolverFixture(t *testing.T, url string) (*ResolverService, *fakeDocumentStore, string) {
	t.Helper()
	docs := newFakeDocumentStore()
	root := t.TempDir()
	return NewResolverService(docs, &stubBackend{url: url}, root), docs, root
}

func localRecord(t *testing.T, root, key string, data []byte) *domain.DocumentRecord {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))

	sum := storage.Checksum(data)
	return &domain.DocumentRecord{
		UUID:         uuid.New(),
		StorageKey:   key,
		LocationKind: domain.LocationLocal,
		Checksum:     &sum,
	}
}

func TestResolveRemoteRedirects(t *testing.T) {
	svc, docs, _ := newResolverFixture(t, "https://cdn.example.com/raw/theses/key.pdf")

	rec := &domain.DocumentRecord{
		UUID:         uuid.New(),
		StorageKey:   "theses/key.pdf",
		LocationKind: domain.LocationRemoteURL,
	}

	res, err := svc.Resolve(context.Background(), rec, IntentView)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/raw/theses/key.pdf", res.RedirectURL)
	require.Empty(t, res.LocalPath)
	require.Equal(t, 1, docs.views[rec.UUID])
}

func TestResolveRemoteFallsBackToKeyAsURL(t *testing.T) {
	// Бэкенд без публичных URL: ключ сам является полным адресом
	svc, _, _ := newResolverFixture(t, "")

	rec := &domain.DocumentRecord{
		UUID:         uuid.New(),
		StorageKey:   "https://stored.example.com/direct/file.pdf",
		LocationKind: domain.LocationRemoteURL,
	}

	res, err := svc.Resolve(context.Background(), rec, IntentDownload)
	require.NoError(t, err)
	require.Equal(t, rec.StorageKey, res.RedirectURL)
}

func TestResolveLocalServesVerifiedPath(t *testing.T) {
	svc, docs, root := newResolverFixture(t, "")
	rec := localRecord(t, root, "theses/t1/report.pdf", []byte("content"))

	res, err := svc.Resolve(context.Background(), rec, IntentDownload)
	require.NoError(t, err)
	require.Empty(t, res.RedirectURL)
	require.Equal(t, filepath.Join(root, "theses", "t1", "report.pdf"), res.LocalPath)
	require.Equal(t, 1, docs.downloads[rec.UUID])
	require.Equal(t, 0, docs.views[rec.UUID])
}

func TestResolveRecoversByBaseName(t *testing.T) {
	svc, _, root := newResolverFixture(t, "")

	// Файл лежит не там, куда указывает запись, но базовое имя совпадает
	rec := localRecord(t, root, "old-prefix/report-123.pdf", []byte("misplaced"))
	moved := filepath.Join(root, "theses", "t9", "report-123.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(moved), 0o755))
	require.NoError(t, os.Rename(filepath.Join(root, "old-prefix", "report-123.pdf"), moved))

	res, err := svc.Resolve(context.Background(), rec, IntentView)
	require.NoError(t, err)
	require.Equal(t, moved, res.LocalPath)
}

func TestResolveMissingLocalFile(t *testing.T) {
	svc, docs, _ := newResolverFixture(t, "")

	rec := &domain.DocumentRecord{
		UUID:         uuid.New(),
		StorageKey:   "theses/gone/missing.pdf",
		LocationKind: domain.LocationLocal,
	}

	_, err := svc.Resolve(context.Background(), rec, IntentView)

	var nfErr *NotFoundError
	require.ErrorAs(t, err, &nfErr)
	require.Equal(t, rec.StorageKey, nfErr.Key)
	require.NotEmpty(t, nfErr.Reason)

	// Неудачное разрешение счётчики не трогает
	require.Equal(t, 0, docs.views[rec.UUID])
}

func TestResolveCorruptedLocalFileNeverServed(t *testing.T) {
	svc, docs, root := newResolverFixture(t, "")
	rec := localRecord(t, root, "theses/t2/doc.pdf", []byte("original"))

	path := filepath.Join(root, "theses", "t2", "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("tampered"), 0o644))

	_, err := svc.Resolve(context.Background(), rec, IntentDownload)

	var iErr *IntegrityError
	require.ErrorAs(t, err, &iErr)
	require.Equal(t, path, iErr.Path)
	require.Equal(t, 0, docs.downloads[rec.UUID])
}

func TestResolveLocalWithoutChecksumSkipsVerification(t *testing.T) {
	// Исторические записи без контрольной суммы выдаются как есть
	svc, _, root := newResolverFixture(t, "")
	rec := localRecord(t, root, "theses/t3/legacy.pdf", []byte("legacy"))
	rec.Checksum = nil

	res, err := svc.Resolve(context.Background(), rec, IntentView)
	require.NoError(t, err)
	require.NotEmpty(t, res.LocalPath)
}
