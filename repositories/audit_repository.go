package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/linkai-agency/cms/models"
)

// AuditRepository handles audit log persistence. Entries are append-only;
// there is no update or delete.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	Recent(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

type sqliteAuditRepository struct {
	q Querier
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(q Querier) AuditRepository {
	return &sqliteAuditRepository{q: q}
}

// Create inserts a new audit log entry
func (r *sqliteAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (user_id, user_email, action, field_path, old_value, new_value, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	var userID sql.NullInt64
	if entry.UserID != nil {
		userID = sql.NullInt64{Int64: *entry.UserID, Valid: true}
	}

	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	_, err := r.q.ExecContext(
		ctx,
		query,
		userID,
		entry.UserEmail,
		entry.Action,
		nullString(entry.FieldPath),
		nullString(entry.OldValue),
		nullString(entry.NewValue),
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	return nil
}

// Recent returns audit entries ordered newest-first
func (r *sqliteAuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	query := `
		SELECT id, user_id, user_email, action, field_path, old_value, new_value, timestamp
		FROM audit_log
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`

	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		var userID sql.NullInt64
		var userEmail, fieldPath, oldValue, newValue sql.NullString

		err := rows.Scan(
			&entry.ID,
			&userID,
			&userEmail,
			&entry.Action,
			&fieldPath,
			&oldValue,
			&newValue,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}

		if userID.Valid {
			entry.UserID = &userID.Int64
		}
		entry.UserEmail = userEmail.String
		entry.FieldPath = fieldPath.String
		entry.OldValue = oldValue.String
		entry.NewValue = newValue.String

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}

	return entries, nil
}

// nullString maps empty strings to SQL NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
