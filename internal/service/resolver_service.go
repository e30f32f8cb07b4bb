package service

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"thesisvault/internal/domain"
	"thesisvault/internal/service/storage"
)

// Intent — цель обращения к документу
type Intent string

const (
	IntentView     Intent = "view"
	IntentDownload Intent = "download"
)

// Resolution — результат разрешения документа: либо URL для редиректа
// (удалённые бэкенды), либо проверенный локальный путь.
type Resolution struct {
	RedirectURL string
	LocalPath   string
	Record      *domain.DocumentRecord
}

// ResolverService отдаёт содержимое документа для просмотра и скачивания.
// Для локальных записей перед выдачей пересчитывается контрольная сумма;
// удалённые записи перенаправляются к провайдеру без проверки — авторитет
// их байтов провайдер, а не эта система.
type ResolverService struct {
	docs        DocumentStore
	backend     storage.Backend
	uploadsRoot string
}

func NewResolverService(docs DocumentStore, backend storage.Backend, uploadsRoot string) *ResolverService {
	return &ResolverService{
		docs:        docs,
		backend:     backend,
		uploadsRoot: uploadsRoot,
	}
}

// Resolve выполняет алгоритм выдачи документа.
// Счётчики обращений инкрементируются один раз на успешное разрешение;
// их отказ логируется и не мешает выдаче.
func (s *ResolverService) Resolve(ctx context.Context, rec *domain.DocumentRecord, intent Intent) (*Resolution, error) {
	if rec.LocationKind == domain.LocationRemoteURL {
		url := s.backend.ResolveURL(rec.StorageKey)
		if url == "" {
			// Бэкенды, хранящие полный URL прямо в ключе
			url = rec.StorageKey
		}
		s.bumpCounter(ctx, rec, intent)
		return &Resolution{RedirectURL: url, Record: rec}, nil
	}

	path := filepath.Join(s.uploadsRoot, filepath.FromSlash(rec.StorageKey))

	if _, err := os.Stat(path); err != nil {
		// Одна попытка восстановления: ищем файл с тем же базовым именем
		// под корнем загрузок. Это лечит исторически криво записанные пути,
		// не переписывая провенанс в самой записи.
		recovered := s.searchByBaseName(filepath.Base(path))
		if recovered == "" {
			return nil, &NotFoundError{
				Key: rec.StorageKey,
				Reason: "file is absent from local storage; either the ephemeral " +
					"hosting storage was wiped on redeploy or the document was never re-uploaded",
			}
		}
		path = recovered
	}

	if rec.Checksum != nil {
		if !storage.Verify(path, *rec.Checksum) {
			return nil, &IntegrityError{Path: path, Expected: *rec.Checksum}
		}
	}

	s.bumpCounter(ctx, rec, intent)
	return &Resolution{LocalPath: path, Record: rec}, nil
}

func (s *ResolverService) bumpCounter(ctx context.Context, rec *domain.DocumentRecord, intent Intent) {
	var err error
	if intent == IntentDownload {
		err = s.docs.IncrementDownloadCount(ctx, rec.UUID)
	} else {
		err = s.docs.IncrementViewCount(ctx, rec.UUID)
	}
	if err != nil {
		log.Warn().Err(err).Str("document", rec.UUID.String()).
			Msg("failed to increment usage counter")
	}
}

// searchByBaseName обходит корень загрузок в поисках файла с таким же
// базовым именем; пустая строка — не нашли
func (s *ResolverService) searchByBaseName(baseName string) string {
	if baseName == "" || baseName == "." {
		return ""
	}

	found := ""
	filepath.WalkDir(s.uploadsRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if d.Name() == baseName {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
