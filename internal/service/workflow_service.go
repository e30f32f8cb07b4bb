package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"thesisvault/internal/domain"
)

// ThesisStore — операции над записями работ, нужные конвейеру
type ThesisStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Thesis, error)
	UpdateStatus(ctx context.Context, thesis *domain.Thesis, expectedVersion int) error
	Create(ctx context.Context, thesis *domain.Thesis) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TransitionRequest — запрошенный переход с необязательными полями рецензии
type TransitionRequest struct {
	To       domain.ThesisStatus
	Comments *string
	Score    *int
}

// TransitionResult — применённый переход.
// Warning — мягкий сигнал (например, отправка на рецензию без главного
// документа); он возвращается вызывающему, но не блокирует переход.
type TransitionResult struct {
	Thesis  *domain.Thesis
	Warning string
}

// WorkflowService — конечный автомат статусов дипломной работы.
// Вся ролевая авторизация переходов живёт здесь, в одном месте.
//
// Утверждение и публикация намеренно разнесены по двум ролям:
// руководитель подтверждает содержание, администратор управляет публичным
// выпуском. Ни один актор не может одновременно заверить и опубликовать.
type WorkflowService struct {
	theses    ThesisStore
	documents DocumentStore
	audit     *AuditService
}

func NewWorkflowService(theses ThesisStore, documents DocumentStore, audit *AuditService) *WorkflowService {
	return &WorkflowService{
		theses:    theses,
		documents: documents,
		audit:     audit,
	}
}

// Transition применяет переход статуса атомарно: либо выставляются все поля
// перехода, либо ни одно. Одновременные переходы одной работы сериализуются
// оптимистической версией, проигравший получает repository.ErrVersionConflict.
func (s *WorkflowService) Transition(
	ctx context.Context,
	thesisID uuid.UUID,
	req TransitionRequest,
	actor domain.Principal,
) (*TransitionResult, error) {
	thesis, err := s.theses.GetByID(ctx, thesisID)
	if err != nil {
		return nil, err
	}

	from := thesis.Status
	expectedVersion := thesis.Version
	now := time.Now()
	warning := ""

	switch req.To {
	case domain.StatusUnderReview:
		// Автор отправляет черновик на рецензию
		if from != domain.StatusDraft {
			return nil, s.reject(ctx, thesis, actor, req.To, "only a draft can be submitted for review")
		}
		if !actor.Role.CanAuthor() || !thesis.HasAuthor(actor.UserID) {
			return nil, s.reject(ctx, thesis, actor, req.To, "only a listed author may submit for review")
		}
		thesis.SubmittedAt = &now

		// Отсутствие главного документа — предупреждение, не блокировка
		main, derr := s.documents.GetMainByThesis(ctx, thesis.ID)
		if derr == nil && main == nil {
			warning = "thesis has no main document attached"
		}

	case domain.StatusApproved, domain.StatusRejected:
		// Решение принимает руководитель той же кафедры
		if from != domain.StatusUnderReview {
			return nil, s.reject(ctx, thesis, actor, req.To, "only a thesis under review can be decided")
		}
		if actor.Role != domain.RoleAdviser {
			return nil, s.reject(ctx, thesis, actor, req.To, "approval is adviser-exclusive")
		}
		if actor.Department != thesis.Department {
			return nil, s.reject(ctx, thesis, actor, req.To, "adviser department does not match thesis department")
		}
		reviewerID := actor.UserID
		thesis.ReviewerID = &reviewerID
		thesis.ReviewedAt = &now
		thesis.ReviewComments = req.Comments
		thesis.ReviewScore = req.Score

	case domain.StatusPublished:
		// Публичный выпуск — исключительно администратор, и только после
		// утверждения руководителем. IsPublic выставляется только здесь.
		if actor.Role != domain.RoleAdmin {
			return nil, s.reject(ctx, thesis, actor, req.To, "publication is administrator-exclusive")
		}
		if from != domain.StatusApproved {
			return nil, s.reject(ctx, thesis, actor, req.To, "only an approved thesis may be published")
		}
		thesis.PublishedAt = &now
		thesis.IsPublic = true

	case domain.StatusDraft:
		// Явная повторная подача автором после отклонения
		if from != domain.StatusRejected {
			return nil, s.reject(ctx, thesis, actor, req.To, "only a rejected thesis may be resubmitted as draft")
		}
		if !actor.Role.CanAuthor() || !thesis.HasAuthor(actor.UserID) {
			return nil, s.reject(ctx, thesis, actor, req.To, "only a listed author may resubmit")
		}
		thesis.ReviewerID = nil
		thesis.ReviewedAt = nil
		thesis.ReviewComments = nil
		thesis.ReviewScore = nil
		thesis.SubmittedAt = nil

	default:
		return nil, s.reject(ctx, thesis, actor, req.To, fmt.Sprintf("unknown status %q", req.To))
	}

	thesis.Status = req.To

	if err := s.theses.UpdateStatus(ctx, thesis, expectedVersion); err != nil {
		s.audit.RecordError(ctx, actor.UserID, "thesis.transition", "thesis", thesis.ID.String(), err)
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditEvent{
		ActorID:      actor.UserID,
		Action:       fmt.Sprintf("thesis.transition.%s", req.To),
		ResourceType: "thesis",
		ResourceID:   thesis.ID.String(),
		Status:       "ok",
	})

	return &TransitionResult{Thesis: thesis, Warning: warning}, nil
}

// reject фиксирует отказ в журнале и возвращает типизированную ошибку
func (s *WorkflowService) reject(
	ctx context.Context,
	thesis *domain.Thesis,
	actor domain.Principal,
	to domain.ThesisStatus,
	reason string,
) error {
	err := &InvalidTransitionError{From: thesis.Status, To: to, Reason: reason}
	s.audit.RecordError(ctx, actor.UserID, "thesis.transition", "thesis", thesis.ID.String(), err)
	return err
}

// Get возвращает работу по идентификатору
func (s *WorkflowService) Get(ctx context.Context, id uuid.UUID) (*domain.Thesis, error) {
	return s.theses.GetByID(ctx, id)
}

// CreateDraft создает новую работу в статусе draft от имени автора
func (s *WorkflowService) CreateDraft(
	ctx context.Context,
	title, abstract string,
	authors []string,
	adviserID *string,
	actor domain.Principal,
) (*domain.Thesis, error) {
	if !actor.Role.CanAuthor() {
		return nil, fmt.Errorf("%w: role %s cannot create a thesis", ErrAccessDenied, actor.Role)
	}

	// Создатель всегда числится автором
	hasCreator := false
	for _, id := range authors {
		if id == actor.UserID {
			hasCreator = true
			break
		}
	}
	if !hasCreator {
		authors = append(authors, actor.UserID)
	}

	thesis := &domain.Thesis{
		ID:         uuid.New(),
		Title:      title,
		Abstract:   abstract,
		Department: actor.Department,
		Status:     domain.StatusDraft,
		Authors:    authors,
		AdviserID:  adviserID,
	}

	if err := s.theses.Create(ctx, thesis); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.AuditEvent{
		ActorID:      actor.UserID,
		Action:       "thesis.create",
		ResourceType: "thesis",
		ResourceID:   thesis.ID.String(),
		Status:       "ok",
	})

	return thesis, nil
}
