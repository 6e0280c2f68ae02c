package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/linkai-agency/cms/models"
	"github.com/linkai-agency/cms/repositories"
	"github.com/linkai-agency/cms/schema"
)

const bcryptCost = 12

// AuthService defines account and session-producing business logic. Session
// storage itself belongs to the HTTP layer; this service owns credential
// checks and their audit entries.
type AuthService interface {
	// Login verifies credentials and returns the user. Unknown email and
	// wrong password both come back as ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*models.User, error)
	// Logout records the logout audit entry.
	Logout(ctx context.Context, actor models.Actor) error
	// ChangePassword verifies the current password, enforces the strength
	// policy on the new one, and rehashes.
	ChangePassword(ctx context.Context, actor models.Actor, currentPassword, newPassword string) error
}

type authService struct {
	db    *sql.DB
	repos *repositories.Repositories
}

// NewAuthService creates a new auth service
func NewAuthService(db *sql.DB, repos *repositories.Repositories) AuthService {
	return &authService{db: db, repos: repos}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if !schema.IsValidEmail(email) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repos.User.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	err = runInTx(ctx, s.db, s.repos, func(r *repositories.Repositories) error {
		if err := r.User.UpdateLastLogin(ctx, user.ID); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &models.AuditLogEntry{
			UserID:    &user.ID,
			UserEmail: user.Email,
			Action:    models.ActionLogin,
		})
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, actor models.Actor) error {
	return s.repos.Audit.Create(ctx, &models.AuditLogEntry{
		UserID:    &actor.ID,
		UserEmail: actor.Email,
		Action:    models.ActionLogout,
	})
}

func (s *authService) ChangePassword(ctx context.Context, actor models.Actor, currentPassword, newPassword string) error {
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	user, err := s.repos.User.GetByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	return runInTx(ctx, s.db, s.repos, func(r *repositories.Repositories) error {
		if err := r.User.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &models.AuditLogEntry{
			UserID:    &user.ID,
			UserEmail: user.Email,
			Action:    models.ActionPasswordChange,
		})
	})
}

// validateNewPassword enforces the password strength policy: at least 12
// characters with uppercase, lowercase, digit, and symbol.
func validateNewPassword(password string) error {
	if len(password) < 12 {
		return fmt.Errorf("%w: must be at least 12 characters", ErrWeakPassword)
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return fmt.Errorf("%w: must contain uppercase, lowercase, numbers, and symbols", ErrWeakPassword)
	}

	return nil
}
