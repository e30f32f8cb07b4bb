package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"thesisvault/internal/domain"
	"thesisvault/internal/service/storage"
)

// Максимальный размер загружаемого документа
const maxFileSize = 100 * 1024 * 1024 // 100MB

// DocumentStore — операции над записями документов
type DocumentStore interface {
	Create(ctx context.Context, doc *domain.DocumentRecord) error
	GetByUUID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error)
	GetMainByThesis(ctx context.Context, thesisID uuid.UUID) (*domain.DocumentRecord, error)
	ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.DocumentRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	IncrementDownloadCount(ctx context.Context, id uuid.UUID) error
}

// DocumentService управляет жизненным циклом сохранённых артефактов:
// загрузка через активный бэкенд, замена главного документа, удаление.
type DocumentService struct {
	docs    DocumentStore
	theses  ThesisStore
	backend storage.Backend
	audit   *AuditService
}

func NewDocumentService(
	docs DocumentStore,
	theses ThesisStore,
	backend storage.Backend,
	audit *AuditService,
) *DocumentService {
	return &DocumentService{
		docs:    docs,
		theses:  theses,
		backend: backend,
		audit:   audit,
	}
}

// Upload сохраняет документ работы. При kind = main прежний главный документ
// заменяется: новая запись создаётся, старый объект бэкенда удаляется
// по мере возможности (повторная очистка безопасна — delete идемпотентен).
func (s *DocumentService) Upload(
	ctx context.Context,
	thesisID uuid.UUID,
	in storage.UploadInput,
	kind domain.DocumentKind,
	actor domain.Principal,
) (*domain.DocumentRecord, error) {
	if in.OriginalName == "" || in.StagingPath == "" {
		return nil, fmt.Errorf("%w: missing required parameters", ErrInvalidFile)
	}
	if in.SizeBytes > maxFileSize {
		return nil, fmt.Errorf("%w: max size is %d bytes", ErrFileTooLarge, maxFileSize)
	}

	thesis, err := s.theses.GetByID(ctx, thesisID)
	if err != nil {
		return nil, err
	}

	// Загружать может автор работы или администратор
	if !thesis.HasAuthor(actor.UserID) && actor.Role != domain.RoleAdmin {
		return nil, ErrAccessDenied
	}

	folder := fmt.Sprintf("theses/%s", thesis.ID)

	rec, err := s.backend.Upload(ctx, in, folder)
	if err != nil {
		s.audit.RecordError(ctx, actor.UserID, "document.upload", "thesis", thesis.ID.String(), err)
		return nil, err
	}

	rec.UUID = uuid.New()
	rec.ThesisID = thesis.ID
	rec.Kind = kind

	var prior *domain.DocumentRecord
	if kind == domain.DocumentKindMain {
		prior, err = s.docs.GetMainByThesis(ctx, thesis.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.docs.Create(ctx, rec); err != nil {
		// Компенсируем: запись не создана, объект в хранилище не нужен
		if _, delErr := s.backend.Delete(ctx, rec.StorageKey); delErr != nil {
			log.Warn().Err(delErr).Str("key", rec.StorageKey).
				Msg("failed to delete storage object after db error")
		}
		s.audit.RecordError(ctx, actor.UserID, "document.upload", "thesis", thesis.ID.String(), err)
		return nil, err
	}

	// Прежний главный документ заменён: запись и объект удаляются best-effort
	if prior != nil {
		if err := s.docs.Delete(ctx, prior.UUID); err != nil {
			log.Warn().Err(err).Str("document", prior.UUID.String()).
				Msg("failed to delete replaced document record")
		}
		if _, err := s.backend.Delete(ctx, prior.StorageKey); err != nil {
			log.Warn().Err(err).Str("key", prior.StorageKey).
				Msg("failed to delete replaced storage object")
		}
	}

	s.audit.Record(ctx, domain.AuditEvent{
		ActorID:      actor.UserID,
		Action:       "document.upload",
		ResourceType: "document",
		ResourceID:   rec.UUID.String(),
		Status:       "ok",
	})

	return rec, nil
}

func (s *DocumentService) Get(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	return s.docs.GetByUUID(ctx, id)
}

// IsPubliclyAccessible сообщает, опубликована ли владеющая документом работа.
// Публичность — производное от статуса published, других источников нет.
func (s *DocumentService) IsPubliclyAccessible(ctx context.Context, doc *domain.DocumentRecord) (bool, error) {
	thesis, err := s.theses.GetByID(ctx, doc.ThesisID)
	if err != nil {
		return false, err
	}
	return thesis.IsPublic, nil
}

// Delete удаляет документ: объект бэкенда и запись.
// Возвращает, существовал ли объект физически.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID, actor domain.Principal) (bool, error) {
	doc, err := s.docs.GetByUUID(ctx, id)
	if err != nil {
		return false, err
	}

	thesis, err := s.theses.GetByID(ctx, doc.ThesisID)
	if err != nil {
		return false, err
	}
	if !thesis.HasAuthor(actor.UserID) && actor.Role != domain.RoleAdmin {
		return false, ErrAccessDenied
	}

	existed, err := s.backend.Delete(ctx, doc.StorageKey)
	if err != nil {
		s.audit.RecordError(ctx, actor.UserID, "document.delete", "document", id.String(), err)
		return false, err
	}

	if err := s.docs.Delete(ctx, id); err != nil {
		return existed, err
	}

	s.audit.Record(ctx, domain.AuditEvent{
		ActorID:      actor.UserID,
		Action:       "document.delete",
		ResourceType: "document",
		ResourceID:   id.String(),
		Status:       "ok",
	})

	return existed, nil
}

// DeleteThesis удаляет работу вместе с объектами её документов.
// Удаление объектов — best-effort: записи каскадируются схемой,
// а delete бэкенда идемпотентен и переживает повторную очистку.
func (s *DocumentService) DeleteThesis(ctx context.Context, thesisID uuid.UUID, actor domain.Principal) error {
	if actor.Role != domain.RoleAdmin {
		return ErrAccessDenied
	}

	docs, err := s.docs.ListByThesis(ctx, thesisID)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if _, err := s.backend.Delete(ctx, doc.StorageKey); err != nil {
			log.Warn().Err(err).Str("key", doc.StorageKey).
				Msg("failed to delete storage object while destroying thesis")
		}
	}

	if err := s.theses.Delete(ctx, thesisID); err != nil {
		s.audit.RecordError(ctx, actor.UserID, "thesis.delete", "thesis", thesisID.String(), err)
		return err
	}

	s.audit.Record(ctx, domain.AuditEvent{
		ActorID:      actor.UserID,
		Action:       "thesis.delete",
		ResourceType: "thesis",
		ResourceID:   thesisID.String(),
		Status:       "ok",
	})

	return nil
}
