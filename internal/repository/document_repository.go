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

type DocumentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.DocumentRecord) error {
	query := `
        INSERT INTO documents
            (uuid, thesis_id, storage_key, original_name, mime_type, size_bytes,
             location_kind, checksum, kind)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING uploaded_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		doc.UUID,
		doc.ThesisID,
		doc.StorageKey,
		doc.OriginalName,
		doc.MIMEType,
		doc.SizeBytes,
		doc.LocationKind,
		doc.Checksum,
		doc.Kind,
	).Scan(&doc.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to create document record: %w", err)
	}

	return nil
}

func (r *DocumentRepository) GetByUUID(ctx context.Context, id uuid.UUID) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	query := `SELECT * FROM documents WHERE uuid = $1`

	err := r.db.GetContext(ctx, &doc, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
		}
		return nil, err
	}

	return &doc, nil
}

// GetMainByThesis возвращает главный документ работы или nil, если его нет
func (r *DocumentRepository) GetMainByThesis(ctx context.Context, thesisID uuid.UUID) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	query := `SELECT * FROM documents WHERE thesis_id = $1 AND kind = $2 ORDER BY uploaded_at DESC LIMIT 1`

	err := r.db.GetContext(ctx, &doc, query, thesisID, domain.DocumentKindMain)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &doc, nil
}

func (r *DocumentRepository) ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]domain.DocumentRecord, error) {
	var docs []domain.DocumentRecord
	query := `SELECT * FROM documents WHERE thesis_id = $1 ORDER BY uploaded_at`

	if err := r.db.SelectContext(ctx, &docs, query, thesisID); err != nil {
		return nil, err
	}

	return docs, nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE uuid = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}
	return nil
}

func (r *DocumentRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE documents SET view_count = view_count + 1 WHERE uuid = $1`, id)
	return err
}

func (r *DocumentRepository) IncrementDownloadCount(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE documents SET download_count = download_count + 1 WHERE uuid = $1`, id)
	return err
}
