package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"thesisvault/internal/domain"
)

// LocalBackend хранит документы под управляемым корнем на локальном диске.
// Ключ — относительный путь от корня. Единственный бэкенд, который
// записывает контрольную сумму: для остальных авторитет байтов — провайдер.
type LocalBackend struct {
	root string
}

func NewLocalBackend(root string) (*LocalBackend, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: local root is empty", ErrUnconfigured)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads root %s: %w", root, err)
	}
	return &LocalBackend{root: root}, nil
}

func (b *LocalBackend) Name() string { return BackendNameLocal }

// Root возвращает управляемый корень; его же использует резолвер документов
func (b *LocalBackend) Root() string { return b.root }

func (b *LocalBackend) Upload(ctx context.Context, in UploadInput, folder string) (*domain.DocumentRecord, error) {
	if in.StagingPath == "" || in.OriginalName == "" {
		return nil, newBackendError(b.Name(), "upload", fmt.Errorf("staging path and original name are required"))
	}

	// Считаем дайджест до перемещения: после него staging-файла уже нет
	sum, err := ChecksumFile(in.StagingPath)
	if err != nil {
		return nil, newBackendError(b.Name(), "checksum", err)
	}

	key := GenerateKey(folder, in.OriginalName)
	dst := filepath.Join(b.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, newBackendError(b.Name(), "mkdir", err)
	}

	// Staging-файл становится файлом назначения, удалять после нечего
	if err := os.Rename(in.StagingPath, dst); err != nil {
		if err := copyFile(in.StagingPath, dst); err != nil {
			return nil, newBackendError(b.Name(), "write", err)
		}
		removeStaging(in.StagingPath)
	}

	return &domain.DocumentRecord{
		StorageKey:   key,
		OriginalName: in.OriginalName,
		MIMEType:     in.MIMEType,
		SizeBytes:    in.SizeBytes,
		LocationKind: domain.LocationLocal,
		Checksum:     &sum,
		UploadedAt:   time.Now(),
	}, nil
}

func (b *LocalBackend) Delete(ctx context.Context, storageKey string) (bool, error) {
	path := filepath.Join(b.root, filepath.FromSlash(storageKey))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, newBackendError(b.Name(), "delete", err)
	}
	return true, nil
}

// ResolveURL для локального бэкенда пуст: байты отдаёт резолвер документов
func (b *LocalBackend) ResolveURL(storageKey string) string { return "" }

// copyFile — запасной путь для os.Rename через границы файловых систем
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
