package services

import "errors"

// Sentinel errors surfaced to controllers. Validation failures carry their
// own type (schema.FieldError) with the offending path.
var (
	// ErrNoDraft means publish was requested before any draft row exists.
	ErrNoDraft = errors.New("no draft to publish")

	// ErrVersionNotFound means rollback targeted a version that was never
	// published.
	ErrVersionNotFound = errors.New("version not found")

	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately without distinguishing the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword means a new password fails the strength policy.
	ErrWeakPassword = errors.New("weak password")

	// ErrMediaNotFound means the media row does not exist.
	ErrMediaNotFound = errors.New("media not found")

	// ErrMediaInUse means the file is still referenced by content and cannot
	// be deleted.
	ErrMediaInUse = errors.New("media is in use")

	// ErrAltTextRequired means an upload or alt-text update came without alt
	// text.
	ErrAltTextRequired = errors.New("alt text is required")

	// ErrUnsupportedMedia means the uploaded file is not JPG, PNG, or WebP.
	ErrUnsupportedMedia = errors.New("invalid file type, only JPG, PNG, and WebP are allowed")
)
