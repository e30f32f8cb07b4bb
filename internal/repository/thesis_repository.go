package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"thesisvault/internal/domain"
)

var (
	// ErrNotFound — запись отсутствует в базе
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict — гонка одновременных обновлений одной работы;
	// проигравший получает эту ошибку вместо тихой перезаписи
	ErrVersionConflict = errors.New("thesis was modified concurrently")
)

type ThesisRepository struct {
	db *sqlx.DB
}

func NewThesisRepository(db *sqlx.DB) *ThesisRepository {
	return &ThesisRepository{db: db}
}

func (r *ThesisRepository) Create(ctx context.Context, thesis *domain.Thesis) error {
	query := `
        INSERT INTO theses (id, title, abstract, department, status, authors, adviser_id, version)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
        RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		thesis.ID,
		thesis.Title,
		thesis.Abstract,
		thesis.Department,
		thesis.Status,
		thesis.Authors,
		thesis.AdviserID,
	).Scan(&thesis.CreatedAt, &thesis.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create thesis: %w", err)
	}
	thesis.Version = 1

	return nil
}

func (r *ThesisRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thesis, error) {
	var thesis domain.Thesis
	query := `SELECT * FROM theses WHERE id = $1`

	err := r.db.GetContext(ctx, &thesis, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: thesis %s", ErrNotFound, id)
		}
		return nil, err
	}

	return &thesis, nil
}

// UpdateStatus применяет переход статуса одним защищённым UPDATE.
// Условие по version сериализует одновременные переходы: при нуле
// затронутых строк проигравший получает ErrVersionConflict.
func (r *ThesisRepository) UpdateStatus(ctx context.Context, thesis *domain.Thesis, expectedVersion int) error {
	query := `
        UPDATE theses
        SET status = $1,
            reviewer_id = $2,
            reviewed_at = $3,
            review_comments = $4,
            review_score = $5,
            is_public = $6,
            submitted_at = $7,
            published_at = $8,
            version = version + 1,
            updated_at = CURRENT_TIMESTAMP
        WHERE id = $9 AND version = $10`

	result, err := r.db.ExecContext(
		ctx,
		query,
		thesis.Status,
		thesis.ReviewerID,
		thesis.ReviewedAt,
		thesis.ReviewComments,
		thesis.ReviewScore,
		thesis.IsPublic,
		thesis.SubmittedAt,
		thesis.PublishedAt,
		thesis.ID,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update thesis status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: thesis %s version %d", ErrVersionConflict, thesis.ID, expectedVersion)
	}
	thesis.Version = expectedVersion + 1

	return nil
}

// Delete удаляет работу; записи документов каскадируются на уровне схемы
func (r *ThesisRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM theses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete thesis: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: thesis %s", ErrNotFound, id)
	}

	return nil
}
