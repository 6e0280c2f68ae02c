package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/linkai-agency/cms/controllers"
	"github.com/linkai-agency/cms/database"
	authmiddleware "github.com/linkai-agency/cms/middleware"
	"github.com/linkai-agency/cms/repositories"
	"github.com/linkai-agency/cms/services"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	dbPath := envOrDefault("DB_PATH", "content.db")
	uploadDir := envOrDefault("UPLOAD_DIR", "uploads")
	adminEmail := envOrDefault("ADMIN_EMAIL", "admin@linkai.agency")
	adminPassword := envOrDefault("ADMIN_PASSWORD", "LinkAI_Admin_2024!")

	// Initialize database
	db, err := database.Initialize(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// First-run seeding: super admin account and content version 1
	if err := database.Seed(db, adminEmail, adminPassword); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Initialize repositories
	repos := repositories.NewRepositories(db)

	// Initialize services
	srvs := services.NewServices(db, repos, uploadDir)

	// Initialize controllers
	ctrl := controllers.NewControllers(srvs)

	// Set up router
	r, err := setupRouter(ctrl)
	if err != nil {
		log.Fatalf("Failed to setup router: %v", err)
	}

	port := envOrDefault("PORT", "3000")

	fmt.Printf("🚀 CMS server starting on port %s\n", port)
	fmt.Printf("📂 Admin panel: http://localhost:%s/admin\n", port)
	fmt.Printf("🗃️  Database: %s\n", dbPath)

	log.Fatal(http.ListenAndServe(":"+port, r))
}

// setupRouter configures all routes
func setupRouter(ctrl *controllers.Controllers) (*chi.Mux, error) {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	// Secure cookies when served over HTTPS (production)
	useSecureCookies := os.Getenv("USE_HTTPS") == "true"

	// Session middleware
	sessionHandler, err := session.Sessioner(session.Options{
		Provider:       "memory",
		ProviderConfig: "",
		CookieName:     "cms_session",
		Secure:         useSecureCookies,
		Gclifetime:     1800, // 30 minute sessions, matching the editing workflow
		Maxlifetime:    1800,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}
	r.Use(sessionHandler)

	// Static files: public site and admin panel assets
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static/"))))
	r.Handle("/admin/*", http.StripPrefix("/admin/", http.FileServer(http.Dir("admin/"))))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "service": "cms"}`)
	})

	// Auth routes, rate-limited against credential stuffing
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(5, 15*time.Minute))

		r.Post("/login", ctrl.Auth.Login)
		r.Post("/logout", ctrl.Auth.Logout)
		r.Get("/status", ctrl.Auth.Status)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAuth)
			r.Post("/change-password", ctrl.Auth.ChangePassword)
		})
	})

	// Content routes
	r.Route("/api/content", func(r chi.Router) {
		// PUBLIC: the site render path, never hard-fails
		r.Get("/published", ctrl.Content.Published)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAuth)

			r.Get("/draft", ctrl.Content.Draft)
			r.Put("/draft", ctrl.Content.UpdateDraft)
			r.Post("/publish", ctrl.Content.Publish)
			r.Get("/versions", ctrl.Content.Versions)
			r.Post("/rollback/{version}", ctrl.Content.Rollback)
			r.Get("/audit-log", ctrl.Content.AuditLog)
		})
	})

	// Media routes
	r.Route("/api/media", func(r chi.Router) {
		// PUBLIC: uploaded files are referenced by the rendered site
		r.Get("/file/{filename}", ctrl.Media.ServeFile)

		r.Group(func(r chi.Router) {
			r.Use(authmiddleware.RequireAuth)

			r.Get("/", ctrl.Media.List)
			r.Post("/upload", ctrl.Media.Upload)
			r.Put("/{id}/alt", ctrl.Media.UpdateAlt)
			r.Delete("/{id}", ctrl.Media.Delete)
		})
	})

	return r, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
