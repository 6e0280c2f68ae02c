package models

import "time"

// Audit actions. Every state-mutating operation records exactly one entry
// (one per changed field for multi-field edits).
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionPasswordChange = "password_change"
	ActionEdit           = "edit"
	ActionPublish        = "publish"
	ActionRollback       = "rollback"
	ActionMediaUpload    = "media_upload"
	ActionMediaAltUpdate = "media_alt_update"
	ActionMediaDelete    = "media_delete"
)

// AuditLogEntry is an immutable record of a single mutating action. The
// acting user's email is snapshotted because user records can change later.
type AuditLogEntry struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	UserEmail string    `json:"user_email"`
	Action    string    `json:"action"`
	FieldPath string    `json:"field_path,omitempty"` // dotted path or synthetic label like "version_7"
	OldValue  string    `json:"old_value,omitempty"`  // JSON-serialized
	NewValue  string    `json:"new_value,omitempty"`  // JSON-serialized
	Timestamp time.Time `json:"timestamp"`
}
