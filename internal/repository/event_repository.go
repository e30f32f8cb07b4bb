package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"thesisvault/internal/domain"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.CalendarEvent) error {
	query := `
        INSERT INTO calendar_events (title, department, start_time, end_time, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		event.Title,
		event.Department,
		event.StartTime,
		event.EndTime,
		event.Status,
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}

	return nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.CalendarEvent) error {
	query := `
        UPDATE calendar_events
        SET title = $1, department = $2, start_time = $3, end_time = $4, status = $5
        WHERE id = $6`

	result, err := r.db.ExecContext(
		ctx,
		query,
		event.Title,
		event.Department,
		event.StartTime,
		event.EndTime,
		event.Status,
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: event %d", ErrNotFound, event.ID)
	}

	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	query := `SELECT * FROM calendar_events WHERE id = $1`

	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: event %d", ErrNotFound, id)
		}
		return nil, err
	}

	return &event, nil
}

// ListScheduledByDepartment — кандидаты для поиска пересечений:
// только события той же кафедры со статусом scheduled
func (r *EventRepository) ListScheduledByDepartment(ctx context.Context, department string) ([]domain.CalendarEvent, error) {
	var events []domain.CalendarEvent
	query := `
        SELECT * FROM calendar_events
        WHERE department = $1 AND status = $2
        ORDER BY start_time`

	err := r.db.SelectContext(ctx, &events, query, department, domain.EventStatusScheduled)
	if err != nil {
		return nil, err
	}

	return events, nil
}
