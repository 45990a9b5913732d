package router

import (
	"net/http"

	"github.com/eksdesign/stand-platform/internal/catalog"
	"github.com/eksdesign/stand-platform/internal/channels/instagram"
	"github.com/eksdesign/stand-platform/internal/contacts"
	"github.com/eksdesign/stand-platform/internal/http/handlers"
	httpmiddleware "github.com/eksdesign/stand-platform/internal/http/middleware"
	"github.com/eksdesign/stand-platform/internal/intake"
	"github.com/eksdesign/stand-platform/internal/media"
	"github.com/eksdesign/stand-platform/internal/quotes"
	"github.com/eksdesign/stand-platform/pkg/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Config holds router configuration. Contacts and Quotes are required; the
// remaining handlers are mounted only when set.
type Config struct {
	Logger             *logging.Logger
	Contacts           *contacts.Handler
	Quotes             *quotes.Handler
	Catalog            *catalog.Handler
	Instagram          *instagram.Handler
	Media              *media.Handler
	AdminDashboard     *handlers.AdminDashboardHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	r.Use(httpmiddleware.Recoverer(cfg.Logger))

	r.Group(func(public chi.Router) {
		public.Get("/health", health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		public.Post("/contact", cfg.Contacts.Submit)
		public.Post("/quote-request", cfg.Quotes.Submit)

		if cfg.Catalog != nil {
			public.Get("/stand-types", cfg.Catalog.PublicStandTypes)
			public.Get("/stand-types/{slug}", cfg.Catalog.PublicStandType)
			public.Get("/services", cfg.Catalog.PublicServices)
			public.Get("/services/{slug}", cfg.Catalog.PublicService)
			public.Get("/projects", cfg.Catalog.PublicProjects)
			public.Get("/projects/{slug}", cfg.Catalog.PublicProject)
		}
		if cfg.Instagram != nil {
			public.Get("/instagram/feed", cfg.Instagram.Feed)
		}
	})

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))

		admin.Route("/contacts", func(r chi.Router) {
			r.Get("/", cfg.Contacts.List)
			r.Get("/{id}", cfg.Contacts.Get)
			r.Patch("/{id}", cfg.Contacts.UpdateStatus)
			r.Delete("/{id}", cfg.Contacts.Delete)
		})
		admin.Route("/quotes", func(r chi.Router) {
			r.Get("/", cfg.Quotes.List)
			r.Get("/{id}", cfg.Quotes.Get)
			r.Patch("/{id}", cfg.Quotes.UpdateStatus)
			r.Delete("/{id}", cfg.Quotes.Delete)
		})

		if cfg.Catalog != nil {
			admin.Route("/stand-types", func(r chi.Router) {
				r.Get("/", cfg.Catalog.AdminListStandTypes)
				r.Post("/", cfg.Catalog.CreateStandType)
				r.Put("/{id}", cfg.Catalog.UpdateStandType)
				r.Delete("/{id}", cfg.Catalog.DeleteStandType)
			})
			admin.Route("/services", func(r chi.Router) {
				r.Get("/", cfg.Catalog.AdminListServices)
				r.Post("/", cfg.Catalog.CreateService)
				r.Put("/{id}", cfg.Catalog.UpdateService)
				r.Delete("/{id}", cfg.Catalog.DeleteService)
			})
			admin.Route("/projects", func(r chi.Router) {
				r.Get("/", cfg.Catalog.AdminListProjects)
				r.Post("/", cfg.Catalog.CreateProject)
				r.Put("/{id}", cfg.Catalog.UpdateProject)
				r.Delete("/{id}", cfg.Catalog.DeleteProject)
			})
		}
		if cfg.Media != nil {
			admin.Post("/uploads", cfg.Media.Upload)
		}
		if cfg.AdminDashboard != nil {
			admin.Get("/dashboard", cfg.AdminDashboard.GetDashboardOverview)
			admin.With(httpmiddleware.RequireRole(httpmiddleware.RoleAdmin)).Get("/users", cfg.AdminDashboard.ListUsers)
		}
	})

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	intake.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
