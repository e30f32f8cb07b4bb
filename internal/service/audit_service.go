package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"thesisvault/internal/domain"
)

// AuditStore — приёмник записей журнала аудита
type AuditStore interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService пишет журнал в режиме fire-and-forget:
// отказ приёмника логируется и никогда не доходит до вызывающего кода.
type AuditService struct {
	store AuditStore
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store}
}

func (s *AuditService) Record(ctx context.Context, event domain.AuditEvent) {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Insert(ctx, &event); err != nil {
		log.Warn().
			Err(err).
			Str("action", event.Action).
			Str("resource", event.ResourceID).
			Msg("failed to record audit event")
	}
}

// RecordError — запись о неудачной операции
func (s *AuditService) RecordError(ctx context.Context, actorID, action, resourceType, resourceID string, opErr error) {
	msg := opErr.Error()
	s.Record(ctx, domain.AuditEvent{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Status:       "failed",
		ErrorMessage: &msg,
	})
}
