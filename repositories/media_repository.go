package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linkai-agency/cms/models"
)

// MediaRepository defines media metadata database operations. The binary
// files themselves live on disk and are not this layer's concern.
type MediaRepository interface {
	GetAll(ctx context.Context) ([]models.Media, error)
	GetByID(ctx context.Context, id int64) (*models.Media, error)
	Create(ctx context.Context, media *models.Media) error
	UpdateAltText(ctx context.Context, id int64, altText string) error
	Delete(ctx context.Context, id int64) error
}

type mediaRepository struct {
	q Querier
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(q Querier) MediaRepository {
	return &mediaRepository{q: q}
}

// GetAll retrieves all media metadata with uploader emails, newest first
func (r *mediaRepository) GetAll(ctx context.Context) ([]models.Media, error) {
	query := `
		SELECT m.id, m.filename, m.original_name, m.alt_text, m.mime_type,
		       m.size, m.usage, m.uploaded_at, m.uploaded_by, u.email
		FROM media m
		LEFT JOIN users u ON m.uploaded_by = u.id
		ORDER BY m.uploaded_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		var media models.Media
		var originalName, mimeType, usage, email sql.NullString
		var uploadedBy sql.NullInt64
		var size sql.NullInt64

		err := rows.Scan(
			&media.ID,
			&media.Filename,
			&originalName,
			&media.AltText,
			&mimeType,
			&size,
			&usage,
			&media.UploadedAt,
			&uploadedBy,
			&email,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}

		media.OriginalName = originalName.String
		media.MimeType = mimeType.String
		media.Size = size.Int64
		media.Usage = usage.String
		media.UploadedByEmail = email.String
		if uploadedBy.Valid {
			media.UploadedBy = &uploadedBy.Int64
		}

		items = append(items, media)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media: %w", err)
	}

	return items, nil
}

// GetByID retrieves media metadata by ID, or nil when no such row exists
func (r *mediaRepository) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	query := `
		SELECT id, filename, original_name, alt_text, mime_type, size, usage, uploaded_at, uploaded_by
		FROM media
		WHERE id = ?
	`

	var media models.Media
	var originalName, mimeType, usage sql.NullString
	var uploadedBy, size sql.NullInt64

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&media.ID,
		&media.Filename,
		&originalName,
		&media.AltText,
		&mimeType,
		&size,
		&usage,
		&media.UploadedAt,
		&uploadedBy,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}

	media.OriginalName = originalName.String
	media.MimeType = mimeType.String
	media.Size = size.Int64
	media.Usage = usage.String
	if uploadedBy.Valid {
		media.UploadedBy = &uploadedBy.Int64
	}

	return &media, nil
}

// Create inserts media metadata and sets the generated ID
func (r *mediaRepository) Create(ctx context.Context, media *models.Media) error {
	query := `
		INSERT INTO media (filename, original_name, alt_text, mime_type, size, uploaded_by)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var uploadedBy sql.NullInt64
	if media.UploadedBy != nil {
		uploadedBy = sql.NullInt64{Int64: *media.UploadedBy, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		media.Filename,
		media.OriginalName,
		media.AltText,
		media.MimeType,
		media.Size,
		uploadedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted media ID: %w", err)
	}

	media.ID = id
	return nil
}

// UpdateAltText replaces the alt text for a media row
func (r *mediaRepository) UpdateAltText(ctx context.Context, id int64, altText string) error {
	result, err := r.q.ExecContext(ctx, "UPDATE media SET alt_text = ? WHERE id = ?", altText, id)
	if err != nil {
		return fmt.Errorf("failed to update alt text: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("media with ID %d not found", id)
	}

	return nil
}

// Delete removes a media row by ID
func (r *mediaRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM media WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("media with ID %d not found", id)
	}

	return nil
}
