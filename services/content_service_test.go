package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkai-agency/cms/database"
	"github.com/linkai-agency/cms/models"
	"github.com/linkai-agency/cms/repositories"
	"github.com/linkai-agency/cms/schema"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "Testing_Admin_2024!"
)

// newTestEnv builds a service stack over a real temp database. The spec's
// properties are cross-table effects (atomicity, version monotonicity, audit
// counts), so the tests exercise actual transactions rather than mocks.
func newTestEnv(t *testing.T, seedContent bool) (*sql.DB, *repositories.Repositories, ContentService, models.Actor) {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to initialize test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.SeedAdmin(db, testAdminEmail, testAdminPassword))
	if seedContent {
		require.NoError(t, database.SeedContent(db))
	}

	repos := repositories.NewRepositories(db)
	service := NewContentService(db, repos)

	user, err := repos.User.GetByEmail(context.Background(), testAdminEmail)
	require.NoError(t, err)
	require.NotNil(t, user, "Expected seeded admin")

	return db, repos, service, models.Actor{ID: user.ID, Email: user.Email, Role: user.Role}
}

func draftVersion(t *testing.T, repos *repositories.Repositories) int {
	t.Helper()
	snapshot, err := repos.Content.Latest(context.Background(), models.StateDraft)
	require.NoError(t, err)
	if snapshot == nil {
		return 0
	}
	return snapshot.Version
}

func publishedVersion(t *testing.T, repos *repositories.Repositories) int {
	t.Helper()
	snapshot, err := repos.Content.Latest(context.Background(), models.StatePublished)
	require.NoError(t, err)
	if snapshot == nil {
		return 0
	}
	return snapshot.Version
}

func auditCount(t *testing.T, db *sql.DB, action string) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM audit_log WHERE action = ?", action).Scan(&count))
	return count
}

func TestApplyDraftPatchOverlaysDraft(t *testing.T) {
	_, repos, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	before, err := service.Draft(ctx)
	require.NoError(t, err)

	version, err := service.ApplyDraftPatch(ctx, map[string]any{
		"contact.title":          "Reach Out",
		"home.nav.servicesLabel": "Offerings",
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	after, err := service.Draft(ctx)
	require.NoError(t, err)

	// Patched fields changed
	title, _ := after.Get("contact.title")
	assert.Equal(t, "Reach Out", title)
	label, _ := after.Get("home.nav.servicesLabel")
	assert.Equal(t, "Offerings", label)

	// Everything else is the prior draft
	subtitle, _ := after.Get("contact.subtitle")
	expected, _ := before.Get("contact.subtitle")
	assert.Equal(t, expected, subtitle)

	assert.Equal(t, 2, draftVersion(t, repos))
	assert.Equal(t, 1, publishedVersion(t, repos), "Draft edits must not touch the published partition")
}

func TestApplyDraftPatchVersionIncrementsByOne(t *testing.T) {
	_, repos, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		before := draftVersion(t, repos)
		version, err := service.ApplyDraftPatch(ctx, map[string]any{"contact.title": "Edit"}, actor)
		require.NoError(t, err)
		assert.Equal(t, before+1, version)
	}
}

func TestApplyDraftPatchRejectsUnknownField(t *testing.T) {
	db, repos, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	_, err := service.ApplyDraftPatch(ctx, map[string]any{"contact.bogus": "value"}, actor)
	require.Error(t, err)

	var fieldErr *schema.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "contact.bogus", fieldErr.Path)

	assert.Equal(t, 1, draftVersion(t, repos), "Failed patch must not advance the draft version")
	assert.Equal(t, 0, auditCount(t, db, models.ActionEdit), "Failed patch must not write audit entries")
}

func TestApplyDraftPatchIsAllOrNothing(t *testing.T) {
	db, repos, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	// One valid field plus one unknown field: the valid one must not land.
	_, err := service.ApplyDraftPatch(ctx, map[string]any{
		"contact.title": "Reach Out",
		"nope.title":    "value",
	}, actor)
	require.Error(t, err)

	doc, err := service.Draft(ctx)
	require.NoError(t, err)
	title, _ := doc.Get("contact.title")
	assert.Equal(t, "Get in Touch", title, "Valid field from a rejected patch must not be applied")
	assert.Equal(t, 1, draftVersion(t, repos))
	assert.Equal(t, 0, auditCount(t, db, models.ActionEdit))
}

func TestApplyDraftPatchAuditsEveryChangedField(t *testing.T) {
	db, _, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	_, err := service.ApplyDraftPatch(ctx, map[string]any{
		"contact.title":    "Reach Out",
		"contact.subtitle": "We reply fast",
		"services.title":   "What We Do",
	}, actor)
	require.NoError(t, err)

	assert.Equal(t, 3, auditCount(t, db, models.ActionEdit))

	entries, err := service.AuditLog(ctx, 100)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byPath := make(map[string]models.AuditLogEntry)
	for _, entry := range entries {
		assert.Equal(t, models.ActionEdit, entry.Action)
		assert.Equal(t, testAdminEmail, entry.UserEmail)
		byPath[entry.FieldPath] = entry
	}
	title := byPath["contact.title"]
	assert.Equal(t, `"Get in Touch"`, title.OldValue)
	assert.Equal(t, `"Reach Out"`, title.NewValue)
}

func TestApplyDraftPatchSanitizesStoredValue(t *testing.T) {
	_, _, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	_, err := service.ApplyDraftPatch(ctx, map[string]any{"contact.title": "<b>Hi</b>"}, actor)
	require.NoError(t, err)

	doc, err := service.Draft(ctx)
	require.NoError(t, err)
	title, _ := doc.Get("contact.title")
	assert.Equal(t, "&lt;b&gt;Hi&lt;&#x2F;b&gt;", title)
}

func TestPublishCopiesDraftVerbatim(t *testing.T) {
	db, repos, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	_, err := service.ApplyDraftPatch(ctx, map[string]any{"contact.title": "Reach Out"}, actor)
	require.NoError(t, err)

	version, err := service.Publish(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	draft, err := repos.Content.Latest(ctx, models.StateDraft)
	require.NoError(t, err)
	published, err := repos.Content.Latest(ctx, models.StatePublished)
	require.NoError(t, err)

	assert.Equal(t, draft.Content, published.Content, "Published content must equal the draft byte for byte")
	assert.Equal(t, 2, draft.Version, "Publish must not advance the draft version")
	assert.Equal(t, 1, auditCount(t, db, models.ActionPublish))

	entries, err := service.AuditLog(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "version_2", entries[0].FieldPath)
}

func TestPublishWithoutDraftFails(t *testing.T) {
	_, repos, service, actor := newTestEnv(t, false)
	ctx := context.Background()

	_, err := service.Publish(ctx, actor)
	require.ErrorIs(t, err, ErrNoDraft)
	assert.Equal(t, 0, publishedVersion(t, repos), "Failed publish must leave the published partition untouched")
}

func TestRollbackRestoresBothPartitions(t *testing.T) {
	db, repos, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	// Build some history beyond the seed
	_, err := service.ApplyDraftPatch(ctx, map[string]any{"contact.title": "Reach Out"}, actor)
	require.NoError(t, err)
	_, err = service.Publish(ctx, actor)
	require.NoError(t, err)

	target, err := repos.Content.SnapshotAt(ctx, models.StatePublished, 1)
	require.NoError(t, err)
	require.NotNil(t, target)

	version, err := service.Rollback(ctx, 1, actor)
	require.NoError(t, err)
	assert.Equal(t, 3, version, "Rollback must mint a fresh published version, never reuse the target")

	published, err := repos.Content.Latest(ctx, models.StatePublished)
	require.NoError(t, err)
	draft, err := repos.Content.Latest(ctx, models.StateDraft)
	require.NoError(t, err)

	assert.Equal(t, target.Content, published.Content, "Published content must be bit-identical to the target snapshot")
	assert.Equal(t, target.Content, draft.Content, "Draft content must be bit-identical to the target snapshot")
	assert.Equal(t, 3, published.Version)
	assert.Equal(t, 3, draft.Version, "Draft advances by its own counter")

	assert.Equal(t, 1, auditCount(t, db, models.ActionRollback))
	entries, err := service.AuditLog(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "from_v1_to_v3", entries[0].FieldPath)
}

func TestRollbackToUnknownVersionFails(t *testing.T) {
	_, repos, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	_, err := service.Rollback(ctx, 999, actor)
	require.ErrorIs(t, err, ErrVersionNotFound)

	assert.Equal(t, 1, draftVersion(t, repos), "Failed rollback must leave the draft partition untouched")
	assert.Equal(t, 1, publishedVersion(t, repos), "Failed rollback must leave the published partition untouched")
}

func TestPublishedDegradesToDefaults(t *testing.T) {
	_, _, service, _ := newTestEnv(t, false)
	ctx := context.Background()

	// No published row exists yet; the public read path serves defaults.
	doc := service.Published(ctx)
	title, _ := doc.Get("contact.title")
	assert.Equal(t, "Get in Touch", title)
}

func TestDraftFallsBackToDefaults(t *testing.T) {
	_, _, service, _ := newTestEnv(t, false)
	ctx := context.Background()

	doc, err := service.Draft(ctx)
	require.NoError(t, err)
	title, _ := doc.Get("contact.title")
	assert.Equal(t, "Get in Touch", title)
}

func TestHistoryListsPublishedNewestFirst(t *testing.T) {
	_, _, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	_, err := service.ApplyDraftPatch(ctx, map[string]any{"contact.title": "Reach Out"}, actor)
	require.NoError(t, err)
	_, err = service.Publish(ctx, actor)
	require.NoError(t, err)

	history, err := service.History(ctx, 20)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].Version)
	assert.Equal(t, testAdminEmail, history[0].CreatedBy)
	assert.Equal(t, 1, history[1].Version)
	assert.Empty(t, history[1].CreatedBy, "Seeded rows have no author")
}

// TestEditPublishRollbackScenario walks the full workflow: edit, publish,
// edit again, roll back to the original.
func TestEditPublishRollbackScenario(t *testing.T) {
	_, repos, service, actor := newTestEnv(t, true)
	ctx := context.Background()

	// Seed state: draft v1 and published v1 with "Get in Touch".
	// Edit: draft v2 with "Reach Out".
	version, err := service.ApplyDraftPatch(ctx, map[string]any{"contact.title": "Reach Out"}, actor)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	// Publish: published v2 with the same.
	version, err = service.Publish(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	published := service.Published(ctx)
	title, _ := published.Get("contact.title")
	assert.Equal(t, "Reach Out", title)

	// Edit again: draft v3, published stays at v2.
	version, err = service.ApplyDraftPatch(ctx, map[string]any{"contact.title": "Talk to Us"}, actor)
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.Equal(t, 2, publishedVersion(t, repos))
	title, _ = service.Published(ctx).Get("contact.title")
	assert.Equal(t, "Reach Out", title)

	// Rollback to published v1: draft v4 and published v3, both "Get in Touch".
	version, err = service.Rollback(ctx, 1, actor)
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	assert.Equal(t, 4, draftVersion(t, repos))

	title, _ = service.Published(ctx).Get("contact.title")
	assert.Equal(t, "Get in Touch", title)
	draft, err := service.Draft(ctx)
	require.NoError(t, err)
	title, _ = draft.Get("contact.title")
	assert.Equal(t, "Get in Touch", title)
}
