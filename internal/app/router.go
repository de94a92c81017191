package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/gestao-facil/gestao-facil/internal/auth"
	"github.com/gestao-facil/gestao-facil/internal/backup"
	"github.com/gestao-facil/gestao-facil/internal/clients"
	"github.com/gestao-facil/gestao-facil/internal/finance"
	"github.com/gestao-facil/gestao-facil/internal/lowstock"
	"github.com/gestao-facil/gestao-facil/internal/observability"
	"github.com/gestao-facil/gestao-facil/internal/products"
	"github.com/gestao-facil/gestao-facil/internal/shared"
	"github.com/gestao-facil/gestao-facil/internal/taxonomy"
	"github.com/gestao-facil/gestao-facil/internal/transactions"
	"github.com/gestao-facil/gestao-facil/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler         *auth.Handler
	ProductsHandler     *products.Handler
	ClientsHandler      *clients.Handler
	TransactionsHandler *transactions.Handler
	TaxonomyHandler     *taxonomy.Handler
	FinanceHandler      *finance.Handler
	LowStockHandler     *lowstock.Handler
	BackupHandler       *backup.Handler
	JobHandler          *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		params.AuthHandler.MountRoutes(api)

		api.Group(func(priv chi.Router) {
			priv.Use(RequireAuth)
			params.ProductsHandler.MountRoutes(priv)
			params.ClientsHandler.MountRoutes(priv)
			params.TransactionsHandler.MountRoutes(priv)
			params.TaxonomyHandler.MountRoutes(priv)
			params.FinanceHandler.MountRoutes(priv)
			params.LowStockHandler.MountRoutes(priv)
			priv.Route("/data", params.BackupHandler.MountRoutes)
			if params.JobHandler != nil {
				priv.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}
