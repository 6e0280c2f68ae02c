package middleware

import (
	"encoding/json"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/linkai-agency/cms/models"
	"github.com/linkai-agency/cms/userctx"
)

// Session keys written at login and read on every authenticated request.
const (
	SessionUserID    = "user_id"
	SessionUserEmail = "user_email"
	SessionUserRole  = "user_role"
)

// RequireAuth ensures the request carries an authenticated session. This is
// a JSON API, so unauthenticated requests get 401 rather than a redirect.
// The actor identity is copied into the request context for the services.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromSession(r)
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
			return
		}

		next.ServeHTTP(w, r.WithContext(userctx.WithActor(r.Context(), actor)))
	})
}

// ActorFromSession reads the logged-in identity out of the session store.
func ActorFromSession(r *http.Request) (models.Actor, bool) {
	sess := session.GetSession(r)
	if sess == nil {
		return models.Actor{}, false
	}

	id, ok := sess.Get(SessionUserID).(int64)
	if !ok {
		return models.Actor{}, false
	}
	email, _ := sess.Get(SessionUserEmail).(string)
	role, _ := sess.Get(SessionUserRole).(string)

	return models.Actor{ID: id, Email: email, Role: role}, true
}
