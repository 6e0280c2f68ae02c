package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linkai-agency/cms/models"
)

// ContentRepository is the version store: an append-only log of content
// snapshots partitioned by state. Rows are only ever inserted.
type ContentRepository interface {
	// Latest returns the highest-version snapshot for a state, or nil when
	// the partition is empty.
	Latest(ctx context.Context, state string) (*models.ContentSnapshot, error)
	// SnapshotAt returns the snapshot at an exact version within a state, or
	// nil when no such row exists.
	SnapshotAt(ctx context.Context, state string, version int) (*models.ContentSnapshot, error)
	// Insert appends a new snapshot row and returns its ID.
	Insert(ctx context.Context, content, state string, version int, createdBy *int64) (int64, error)
	// History returns published snapshot metadata, newest first, with the
	// author's email resolved where a user row still exists.
	History(ctx context.Context, limit int) ([]models.VersionMeta, error)
}

type contentRepository struct {
	q Querier
}

// NewContentRepository creates a new content repository
func NewContentRepository(q Querier) ContentRepository {
	return &contentRepository{q: q}
}

const snapshotColumns = "id, content, state, version, created_at, created_by"

func (r *contentRepository) Latest(ctx context.Context, state string) (*models.ContentSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM content_versions
		WHERE state = ?
		ORDER BY version DESC
		LIMIT 1
	`
	return r.scanSnapshot(r.q.QueryRowContext(ctx, query, state))
}

func (r *contentRepository) SnapshotAt(ctx context.Context, state string, version int) (*models.ContentSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM content_versions
		WHERE state = ? AND version = ?
	`
	return r.scanSnapshot(r.q.QueryRowContext(ctx, query, state, version))
}

func (r *contentRepository) scanSnapshot(row *sql.Row) (*models.ContentSnapshot, error) {
	var snapshot models.ContentSnapshot
	var createdBy sql.NullInt64

	err := row.Scan(
		&snapshot.ID,
		&snapshot.Content,
		&snapshot.State,
		&snapshot.Version,
		&snapshot.CreatedAt,
		&createdBy,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan content snapshot: %w", err)
	}

	if createdBy.Valid {
		snapshot.CreatedBy = &createdBy.Int64
	}

	return &snapshot, nil
}

func (r *contentRepository) Insert(ctx context.Context, content, state string, version int, createdBy *int64) (int64, error) {
	query := `
		INSERT INTO content_versions (content, state, version, created_by)
		VALUES (?, ?, ?, ?)
	`

	var author sql.NullInt64
	if createdBy != nil {
		author = sql.NullInt64{Int64: *createdBy, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query, content, state, version, author)
	if err != nil {
		return 0, fmt.Errorf("failed to insert content snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted snapshot ID: %w", err)
	}

	return id, nil
}

func (r *contentRepository) History(ctx context.Context, limit int) ([]models.VersionMeta, error) {
	query := `
		SELECT cv.id, cv.version, cv.state, cv.created_at, u.email
		FROM content_versions cv
		LEFT JOIN users u ON cv.created_by = u.id
		WHERE cv.state = ?
		ORDER BY cv.version DESC
		LIMIT ?
	`

	rows, err := r.q.QueryContext(ctx, query, models.StatePublished, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query version history: %w", err)
	}
	defer rows.Close()

	var versions []models.VersionMeta
	for rows.Next() {
		var meta models.VersionMeta
		var email sql.NullString

		err := rows.Scan(&meta.ID, &meta.Version, &meta.State, &meta.CreatedAt, &email)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version metadata: %w", err)
		}

		if email.Valid {
			meta.CreatedBy = email.String
		}

		versions = append(versions, meta)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating version history: %w", err)
	}

	return versions, nil
}
