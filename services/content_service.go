package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/linkai-agency/cms/models"
	"github.com/linkai-agency/cms/repositories"
	"github.com/linkai-agency/cms/schema"
)

// ContentService is the publish/rollback workflow: it ties the schema
// validator, version store, and audit log together per request. Every
// mutating operation is all-or-nothing inside one transaction.
type ContentService interface {
	// Published returns the latest published document. It never fails; any
	// read problem degrades to the built-in default document so the public
	// site stays renderable.
	Published(ctx context.Context) models.Document
	// Draft returns the latest draft document, or the default document when
	// no draft row exists yet.
	Draft(ctx context.Context) (models.Document, error)
	// ApplyDraftPatch validates every entry of the patch, overlays it onto
	// the current draft, and appends a new draft row at the next version.
	// Any invalid field rejects the whole patch with no write. One audit
	// entry is recorded per patched field. Returns the new draft version.
	ApplyDraftPatch(ctx context.Context, patch map[string]any, actor models.Actor) (int, error)
	// Publish copies the current draft verbatim into the published partition
	// at its next version. Returns the new published version.
	Publish(ctx context.Context, actor models.Actor) (int, error)
	// Rollback copies the published snapshot at targetVersion forward into
	// both partitions, each at its own next version number. Returns the new
	// published version.
	Rollback(ctx context.Context, targetVersion int, actor models.Actor) (int, error)
	// History returns published snapshot metadata, newest first.
	History(ctx context.Context, limit int) ([]models.VersionMeta, error)
	// AuditLog returns audit entries, newest first.
	AuditLog(ctx context.Context, limit int) ([]models.AuditLogEntry, error)
}

type contentService struct {
	db     *sql.DB
	repos  *repositories.Repositories
	schema schema.Group
}

// NewContentService creates a new content service
func NewContentService(db *sql.DB, repos *repositories.Repositories) ContentService {
	return &contentService{
		db:     db,
		repos:  repos,
		schema: schema.Content,
	}
}

func (s *contentService) Published(ctx context.Context) models.Document {
	snapshot, err := s.repos.Content.Latest(ctx, models.StatePublished)
	if err != nil {
		log.Printf("Error fetching published content, serving defaults: %v", err)
		return models.DefaultContent()
	}
	if snapshot == nil {
		return models.DefaultContent()
	}

	doc, err := snapshot.Document()
	if err != nil {
		log.Printf("Error parsing published content, serving defaults: %v", err)
		return models.DefaultContent()
	}
	return doc
}

func (s *contentService) Draft(ctx context.Context) (models.Document, error) {
	snapshot, err := s.repos.Content.Latest(ctx, models.StateDraft)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return models.DefaultContent(), nil
	}
	return snapshot.Document()
}

func (s *contentService) ApplyDraftPatch(ctx context.Context, patch map[string]any, actor models.Actor) (int, error) {
	if len(patch) == 0 {
		return 0, &schema.FieldError{Path: "", Message: "empty update"}
	}

	// Validate the whole patch before touching anything. Paths are walked in
	// sorted order so the surfaced first error is deterministic.
	paths := make([]string, 0, len(patch))
	for path := range patch {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	sanitized := make(map[string]any, len(patch))
	for _, path := range paths {
		value, err := s.schema.Validate(path, patch[path])
		if err != nil {
			return 0, err
		}
		sanitized[path] = value
	}

	var newVersion int
	err := runInTx(ctx, s.db, s.repos, func(r *repositories.Repositories) error {
		current, err := r.Content.Latest(ctx, models.StateDraft)
		if err != nil {
			return err
		}

		doc := models.DefaultContent()
		currentVersion := 0
		if current != nil {
			if doc, err = current.Document(); err != nil {
				return err
			}
			currentVersion = current.Version
		}

		for _, path := range paths {
			oldValue, _ := doc.Get(path)
			doc.Set(path, sanitized[path])

			entry := &models.AuditLogEntry{
				UserID:    &actor.ID,
				UserEmail: actor.Email,
				Action:    models.ActionEdit,
				FieldPath: path,
				OldValue:  serializeValue(oldValue),
				NewValue:  serializeValue(sanitized[path]),
			}
			if err := r.Audit.Create(ctx, entry); err != nil {
				return err
			}
		}

		content, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to serialize draft: %w", err)
		}

		newVersion = currentVersion + 1
		_, err = r.Content.Insert(ctx, string(content), models.StateDraft, newVersion, &actor.ID)
		return err
	})
	if err != nil {
		return 0, err
	}

	return newVersion, nil
}

func (s *contentService) Publish(ctx context.Context, actor models.Actor) (int, error) {
	var newVersion int
	err := runInTx(ctx, s.db, s.repos, func(r *repositories.Repositories) error {
		draft, err := r.Content.Latest(ctx, models.StateDraft)
		if err != nil {
			return err
		}
		if draft == nil {
			return ErrNoDraft
		}

		published, err := r.Content.Latest(ctx, models.StatePublished)
		if err != nil {
			return err
		}

		publishedVersion := 0
		if published != nil {
			publishedVersion = published.Version
		}
		newVersion = publishedVersion + 1

		// Copy, don't mutate: the draft content goes in verbatim.
		if _, err := r.Content.Insert(ctx, draft.Content, models.StatePublished, newVersion, &actor.ID); err != nil {
			return err
		}

		return r.Audit.Create(ctx, &models.AuditLogEntry{
			UserID:    &actor.ID,
			UserEmail: actor.Email,
			Action:    models.ActionPublish,
			FieldPath: fmt.Sprintf("version_%d", newVersion),
		})
	})
	if err != nil {
		return 0, err
	}

	return newVersion, nil
}

func (s *contentService) Rollback(ctx context.Context, targetVersion int, actor models.Actor) (int, error) {
	var newVersion int
	err := runInTx(ctx, s.db, s.repos, func(r *repositories.Repositories) error {
		target, err := r.Content.SnapshotAt(ctx, models.StatePublished, targetVersion)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrVersionNotFound
		}

		published, err := r.Content.Latest(ctx, models.StatePublished)
		if err != nil {
			return err
		}
		draft, err := r.Content.Latest(ctx, models.StateDraft)
		if err != nil {
			return err
		}

		// Each partition advances by its own counter; target's version number
		// is never reused.
		newVersion = published.Version + 1
		newDraftVersion := 1
		if draft != nil {
			newDraftVersion = draft.Version + 1
		}

		if _, err := r.Content.Insert(ctx, target.Content, models.StatePublished, newVersion, &actor.ID); err != nil {
			return err
		}
		if _, err := r.Content.Insert(ctx, target.Content, models.StateDraft, newDraftVersion, &actor.ID); err != nil {
			return err
		}

		return r.Audit.Create(ctx, &models.AuditLogEntry{
			UserID:    &actor.ID,
			UserEmail: actor.Email,
			Action:    models.ActionRollback,
			FieldPath: fmt.Sprintf("from_v%d_to_v%d", targetVersion, newVersion),
		})
	})
	if err != nil {
		return 0, err
	}

	return newVersion, nil
}

func (s *contentService) History(ctx context.Context, limit int) ([]models.VersionMeta, error) {
	return s.repos.Content.History(ctx, limit)
}

func (s *contentService) AuditLog(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	return s.repos.Audit.Recent(ctx, limit)
}

// serializeValue JSON-encodes an audit value; nil (field not previously set)
// serializes to "null" like any other value.
func serializeValue(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(data)
}
