package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"thesisvault/internal/domain"
)

func writeStaging(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staging.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLocalBackendRoundTrip(t *testing.T) {
	root := t.TempDir()
	backend, err := NewLocalBackend(root)
	require.NoError(t, err)

	data := []byte("thesis main document bytes")
	rec, err := backend.Upload(context.Background(), UploadInput{
		OriginalName: "thesis.pdf",
		MIMEType:     "application/pdf",
		SizeBytes:    int64(len(data)),
		StagingPath:  writeStaging(t, data),
	}, "theses/t1")
	require.NoError(t, err)

	require.Equal(t, domain.LocationLocal, rec.LocationKind)
	require.NotNil(t, rec.Checksum)
	require.Equal(t, Checksum(data), *rec.Checksum)

	// Загруженное читается обратно байт в байт
	stored := filepath.Join(root, filepath.FromSlash(rec.StorageKey))
	got, err := os.ReadFile(stored)
	require.NoError(t, err)
	require.Equal(t, data, got)

	// Записанная контрольная сумма сходится с файлом на диске
	require.True(t, Verify(stored, *rec.Checksum))
}

func TestLocalBackendDeleteIdempotent(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	require.NoError(t, err)

	data := []byte("to be deleted")
	rec, err := backend.Upload(context.Background(), UploadInput{
		OriginalName: "tmp.bin",
		SizeBytes:    int64(len(data)),
		StagingPath:  writeStaging(t, data),
	}, "theses/t2")
	require.NoError(t, err)

	existed, err := backend.Delete(context.Background(), rec.StorageKey)
	require.NoError(t, err)
	require.True(t, existed)

	// Повторное удаление — false без ошибки
	existed, err = backend.Delete(context.Background(), rec.StorageKey)
	require.NoError(t, err)
	require.False(t, existed)
}

func TestLocalBackendCorruptionDetectedByVerify(t *testing.T) {
	root := t.TempDir()
	backend, err := NewLocalBackend(root)
	require.NoError(t, err)

	data := []byte("pristine content")
	rec, err := backend.Upload(context.Background(), UploadInput{
		OriginalName: "doc.bin",
		SizeBytes:    int64(len(data)),
		StagingPath:  writeStaging(t, data),
	}, "theses/t3")
	require.NoError(t, err)

	stored := filepath.Join(root, filepath.FromSlash(rec.StorageKey))

	// Портим один байт
	raw, err := os.ReadFile(stored)
	require.NoError(t, err)
	raw[0] ^= 0xFF
	require.NoError(t, os.WriteFile(stored, raw, 0o644))

	require.False(t, Verify(stored, *rec.Checksum))
}

func TestLocalBackendResolveURLIsEmpty(t *testing.T) {
	backend, err := NewLocalBackend(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, backend.ResolveURL("theses/t1/key.pdf"))
}
