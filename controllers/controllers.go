package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/linkai-agency/cms/services"
)

// Controllers holds all controller instances
type Controllers struct {
	Auth    *AuthController
	Content *ContentController
	Media   *MediaController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Auth:    NewAuthController(services),
		Content: NewContentController(services),
		Media:   NewMediaController(services),
	}
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError writes a JSON error body
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

// respondServerError logs the detailed cause server-side and returns a
// generic message to the client
func respondServerError(w http.ResponseWriter, message string, err error) {
	log.Printf("%s: %v", message, err)
	respondError(w, http.StatusInternalServerError, message)
}
