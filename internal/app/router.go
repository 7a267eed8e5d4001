package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haven-app/haven/internal/alerts"
	"github.com/haven-app/haven/internal/auth"
	"github.com/haven-app/haven/internal/cart"
	"github.com/haven-app/haven/internal/catalog"
	"github.com/haven-app/haven/internal/guardians"
	"github.com/haven-app/haven/internal/observability"
	"github.com/haven-app/haven/internal/shared"
	"github.com/haven-app/haven/internal/users"
	"github.com/haven-app/haven/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	AuthHandler     *auth.Handler
	UsersHandler    *users.Handler
	GuardianHandler *guardians.Handler
	AlertHandler    *alerts.Handler
	CatalogHandler  *catalog.Handler
	CartHandler     *cart.Handler
	JobHandler      *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Haven defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)
		r.Route("/guardians", params.GuardianHandler.MountRoutes)
		r.Route("/profile", params.UsersHandler.MountRoutes)
		r.Route("/alert", params.AlertHandler.MountAlertRoutes)
		r.Route("/share-location", params.AlertHandler.MountShareLocationRoutes)
		r.Route("/products", params.CatalogHandler.MountRoutes)
		r.Route("/cart", params.CartHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
