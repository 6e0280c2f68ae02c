package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/linkai-agency/cms/models"
	"github.com/linkai-agency/cms/repositories"
)

// MaxUploadSize caps uploads at 5 MB.
const MaxUploadSize = 5 << 20

// allowedMediaTypes maps accepted mime types to the extension used when the
// original filename carries none.
var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Upload carries one incoming file. The bytes are stored as-is; image
// processing is not this subsystem's job.
type Upload struct {
	Data         []byte
	OriginalName string
	MimeType     string
	AltText      string
}

// MediaService manages uploaded files as opaque blobs plus metadata. Every
// mutation records an audit entry in the same transaction as its row change.
type MediaService interface {
	List(ctx context.Context) ([]models.Media, error)
	Upload(ctx context.Context, upload Upload, actor models.Actor) (*models.Media, error)
	// FilePath resolves a stored filename to its on-disk path, refusing
	// traversal outside the upload directory.
	FilePath(filename string) (string, error)
	UpdateAltText(ctx context.Context, id int64, altText string, actor models.Actor) error
	Delete(ctx context.Context, id int64, actor models.Actor) error
}

type mediaService struct {
	db        *sql.DB
	repos     *repositories.Repositories
	uploadDir string
}

// NewMediaService creates a new media service
func NewMediaService(db *sql.DB, repos *repositories.Repositories, uploadDir string) MediaService {
	return &mediaService{db: db, repos: repos, uploadDir: uploadDir}
}

func (s *mediaService) List(ctx context.Context) ([]models.Media, error) {
	return s.repos.Media.GetAll(ctx)
}

func (s *mediaService) Upload(ctx context.Context, upload Upload, actor models.Actor) (*models.Media, error) {
	altText := strings.TrimSpace(upload.AltText)
	if altText == "" {
		return nil, ErrAltTextRequired
	}

	ext, ok := allowedMediaTypes[upload.MimeType]
	if !ok {
		return nil, ErrUnsupportedMedia
	}
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("no file uploaded")
	}
	if len(upload.Data) > MaxUploadSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", MaxUploadSize)
	}

	if originalExt := strings.ToLower(filepath.Ext(upload.OriginalName)); originalExt != "" {
		ext = originalExt
	}
	filename := uuid.NewString() + ext

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	path := filepath.Join(s.uploadDir, filename)
	if err := os.WriteFile(path, upload.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	media := &models.Media{
		Filename:     filename,
		OriginalName: upload.OriginalName,
		AltText:      altText,
		MimeType:     upload.MimeType,
		Size:         int64(len(upload.Data)),
		UploadedBy:   &actor.ID,
	}

	err := runInTx(ctx, s.db, s.repos, func(r *repositories.Repositories) error {
		if err := r.Media.Create(ctx, media); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &models.AuditLogEntry{
			UserID:    &actor.ID,
			UserEmail: actor.Email,
			Action:    models.ActionMediaUpload,
			FieldPath: filename,
		})
	})
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return media, nil
}

func (s *mediaService) FilePath(filename string) (string, error) {
	// Drop any directory components to prevent path traversal.
	safe := filepath.Base(filename)
	if safe == "." || safe == ".." || safe == string(filepath.Separator) {
		return "", ErrMediaNotFound
	}

	path := filepath.Join(s.uploadDir, safe)
	if _, err := os.Stat(path); err != nil {
		return "", ErrMediaNotFound
	}
	return path, nil
}

func (s *mediaService) UpdateAltText(ctx context.Context, id int64, altText string, actor models.Actor) error {
	altText = strings.TrimSpace(altText)
	if altText == "" {
		return ErrAltTextRequired
	}

	media, err := s.repos.Media.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return ErrMediaNotFound
	}

	return runInTx(ctx, s.db, s.repos, func(r *repositories.Repositories) error {
		if err := r.Media.UpdateAltText(ctx, id, altText); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &models.AuditLogEntry{
			UserID:    &actor.ID,
			UserEmail: actor.Email,
			Action:    models.ActionMediaAltUpdate,
			FieldPath: media.Filename,
			OldValue:  media.AltText,
			NewValue:  altText,
		})
	})
}

func (s *mediaService) Delete(ctx context.Context, id int64, actor models.Actor) error {
	media, err := s.repos.Media.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if media == nil {
		return ErrMediaNotFound
	}
	if media.InUse() {
		return ErrMediaInUse
	}

	err = runInTx(ctx, s.db, s.repos, func(r *repositories.Repositories) error {
		if err := r.Media.Delete(ctx, id); err != nil {
			return err
		}
		return r.Audit.Create(ctx, &models.AuditLogEntry{
			UserID:    &actor.ID,
			UserEmail: actor.Email,
			Action:    models.ActionMediaDelete,
			FieldPath: media.Filename,
		})
	})
	if err != nil {
		return err
	}

	// Remove the blob after the row is gone; a missing file is not an error.
	path := filepath.Join(s.uploadDir, media.Filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}
