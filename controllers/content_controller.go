package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linkai-agency/cms/schema"
	"github.com/linkai-agency/cms/services"
	"github.com/linkai-agency/cms/userctx"
)

// Listing bounds for the history and audit endpoints.
const (
	versionHistoryLimit = 20
	auditLogLimit       = 100
)

// ContentController exposes the content versioning and publish/rollback
// workflow over JSON.
type ContentController struct {
	content services.ContentService
}

// NewContentController creates a new content controller
func NewContentController(services *services.Services) *ContentController {
	return &ContentController{content: services.Content}
}

// Published returns the latest published document. Public; never fails —
// the service degrades to the default document.
func (cc *ContentController) Published(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cc.content.Published(r.Context()))
}

// Draft returns the latest draft document
func (cc *ContentController) Draft(w http.ResponseWriter, r *http.Request) {
	doc, err := cc.content.Draft(r.Context())
	if err != nil {
		respondServerError(w, "Failed to fetch draft", err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// UpdateDraft applies a partial update: body = mapping of dotted field path
// to new value. Any invalid field rejects the whole request.
func (cc *ContentController) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.GetActor(r.Context())

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	version, err := cc.content.ApplyDraftPatch(r.Context(), patch, actor)
	if err != nil {
		var fieldErr *schema.FieldError
		if errors.As(err, &fieldErr) {
			respondError(w, http.StatusBadRequest, fieldErr.Error())
			return
		}
		respondServerError(w, "Failed to update draft", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "version": version})
}

// Publish copies the current draft into the published partition
func (cc *ContentController) Publish(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.GetActor(r.Context())

	version, err := cc.content.Publish(r.Context(), actor)
	if err != nil {
		if errors.Is(err, services.ErrNoDraft) {
			respondError(w, http.StatusBadRequest, "No draft to publish")
			return
		}
		respondServerError(w, "Failed to publish", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "version": version})
}

// Rollback restores a previously published version into both partitions
func (cc *ContentController) Rollback(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.GetActor(r.Context())

	target, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || target < 1 {
		respondError(w, http.StatusBadRequest, "Invalid version")
		return
	}

	version, err := cc.content.Rollback(r.Context(), target, actor)
	if err != nil {
		if errors.Is(err, services.ErrVersionNotFound) {
			respondError(w, http.StatusNotFound, "Version not found")
			return
		}
		respondServerError(w, "Failed to rollback", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true, "version": version})
}

// Versions lists recent published snapshot metadata
func (cc *ContentController) Versions(w http.ResponseWriter, r *http.Request) {
	versions, err := cc.content.History(r.Context(), versionHistoryLimit)
	if err != nil {
		respondServerError(w, "Failed to fetch versions", err)
		return
	}
	respondJSON(w, http.StatusOK, versions)
}

// AuditLog lists recent audit entries
func (cc *ContentController) AuditLog(w http.ResponseWriter, r *http.Request) {
	entries, err := cc.content.AuditLog(r.Context(), auditLogLimit)
	if err != nil {
		respondServerError(w, "Failed to fetch audit log", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
