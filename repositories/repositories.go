package repositories

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql satisfied by both *sql.DB and
// *sql.Tx. Repositories are built over it so a service can bind the whole
// set to one transaction for a read-modify-write sequence.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories struct holds all repository interfaces
type Repositories struct {
	Content ContentRepository
	Audit   AuditRepository
	User    UserRepository
	Media   MediaRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(q Querier) *Repositories {
	return &Repositories{
		Content: NewContentRepository(q),
		Audit:   NewAuditRepository(q),
		User:    NewUserRepository(q),
		Media:   NewMediaRepository(q),
	}
}

// WithTx returns a repository set bound to the given transaction. The
// receiver is unchanged.
func (r *Repositories) WithTx(tx *sql.Tx) *Repositories {
	return NewRepositories(tx)
}
