package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/linkai-agency/cms/services"
	"github.com/linkai-agency/cms/userctx"
)

// MediaController handles media metadata and file serving.
type MediaController struct {
	media services.MediaService
}

// NewMediaController creates a new media controller
func NewMediaController(services *services.Services) *MediaController {
	return &MediaController{media: services.Media}
}

// List returns all media metadata
func (mc *MediaController) List(w http.ResponseWriter, r *http.Request) {
	items, err := mc.media.List(r.Context())
	if err != nil {
		respondServerError(w, "Failed to fetch media", err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Upload accepts a multipart file plus alt text
func (mc *MediaController) Upload(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.GetActor(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize)
	if err := r.ParseMultipartForm(services.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "File too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondServerError(w, "Failed to read upload", err)
		return
	}

	media, err := mc.media.Upload(r.Context(), services.Upload{
		Data:         data,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		AltText:      r.FormValue("altText"),
	}, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAltTextRequired):
			respondError(w, http.StatusBadRequest, "Alt text is required")
		case errors.Is(err, services.ErrUnsupportedMedia):
			respondError(w, http.StatusBadRequest, "Invalid file type. Only JPG, PNG, and WebP are allowed.")
		default:
			respondServerError(w, "Failed to upload media", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"media": map[string]any{
			"id":       media.ID,
			"filename": media.Filename,
			"altText":  media.AltText,
			"url":      "/api/media/file/" + media.Filename,
		},
	})
}

// ServeFile serves an uploaded file by stored filename
func (mc *MediaController) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := mc.media.FilePath(filename)
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}

	http.ServeFile(w, r, path)
}

// UpdateAlt replaces a media item's alt text
func (mc *MediaController) UpdateAlt(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.GetActor(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid media ID")
		return
	}

	var req struct {
		AltText string `json:"altText"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := mc.media.UpdateAltText(r.Context(), id, req.AltText, actor); err != nil {
		switch {
		case errors.Is(err, services.ErrAltTextRequired):
			respondError(w, http.StatusBadRequest, "Alt text is required")
		case errors.Is(err, services.ErrMediaNotFound):
			respondError(w, http.StatusNotFound, "Media not found")
		default:
			respondServerError(w, "Failed to update alt text", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Delete removes a media item that is not referenced by content
func (mc *MediaController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := userctx.GetActor(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid media ID")
		return
	}

	if err := mc.media.Delete(r.Context(), id, actor); err != nil {
		switch {
		case errors.Is(err, services.ErrMediaNotFound):
			respondError(w, http.StatusNotFound, "Media not found")
		case errors.Is(err, services.ErrMediaInUse):
			respondError(w, http.StatusBadRequest, "Cannot delete media that is in use")
		default:
			respondServerError(w, "Failed to delete media", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
