package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linkai-agency/cms/repositories"
)

// Services holds all service instances
type Services struct {
	Content ContentService
	Auth    AuthService
	Media   MediaService
}

// NewServices creates and initializes all service instances
func NewServices(db *sql.DB, repos *repositories.Repositories, uploadDir string) *Services {
	return &Services{
		Content: NewContentService(db, repos),
		Auth:    NewAuthService(db, repos),
		Media:   NewMediaService(db, repos, uploadDir),
	}
}

// runInTx runs fn against a repository set bound to one transaction. The
// content mutation and its audit entries commit or roll back together; an
// audit write failure aborts the whole operation.
func runInTx(ctx context.Context, db *sql.DB, repos *repositories.Repositories, fn func(r *repositories.Repositories) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(repos.WithTx(tx)); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
