package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"thesisvault/internal/domain"
)

// AuditRepository — таблица журнала аудита, только вставка
type AuditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	query := `
        INSERT INTO audit_events (actor_id, action, resource_type, resource_id, status, error_message)
        VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(
		ctx,
		query,
		event.ActorID,
		event.Action,
		event.ResourceType,
		event.ResourceID,
		event.Status,
		event.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}
