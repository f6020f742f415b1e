package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stockbook/stockbook/internal/inventory"
	"github.com/stockbook/stockbook/internal/masterdata/products"
	"github.com/stockbook/stockbook/internal/masterdata/schedules"
	"github.com/stockbook/stockbook/internal/masterdata/suppliers"
	"github.com/stockbook/stockbook/internal/masterdata/warehouses"
	"github.com/stockbook/stockbook/internal/observability"
	"github.com/stockbook/stockbook/internal/payments"
	"github.com/stockbook/stockbook/internal/rbac"
	"github.com/stockbook/stockbook/internal/shared"
	"github.com/stockbook/stockbook/internal/summary"
	"github.com/stockbook/stockbook/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	InventoryHandler   *inventory.Handler
	PaymentsHandler    *payments.Handler
	WebhookHandler     http.Handler
	CronHandler        *summary.CronHandler
	ProductsHandler    *products.Handler
	SuppliersHandler   *suppliers.Handler
	WarehousesHandler  *warehouses.Handler
	SchedulesHandler   *schedules.Handler
	PermissionsHandler *rbac.PermissionsHandler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with Stockbook defaults.
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

	r.Route("/actions", func(r chi.Router) {
		if params.InventoryHandler != nil {
			r.Route("/inventory", params.InventoryHandler.MountRoutes)
		}
		if params.PaymentsHandler != nil {
			r.Route("/payments", params.PaymentsHandler.MountRoutes)
		}
	})

	r.Route("/api", func(r chi.Router) {
		if params.ProductsHandler != nil {
			r.Route("/products", params.ProductsHandler.MountRoutes)
		}
		if params.SuppliersHandler != nil {
			r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
		}
		if params.WarehousesHandler != nil {
			r.Route("/warehouses", params.WarehousesHandler.MountRoutes)
		}
		if params.SchedulesHandler != nil {
			r.Route("/schedules", params.SchedulesHandler.MountRoutes)
		}
		if params.WebhookHandler != nil {
			r.Method(http.MethodPost, "/stripe/connect/webhook", params.WebhookHandler)
		}
		if params.CronHandler != nil {
			r.Method(http.MethodGet, "/cron/metrics", params.CronHandler)
			r.Method(http.MethodPost, "/cron/metrics", params.CronHandler)
		}
	})

	if params.PermissionsHandler != nil {
		params.PermissionsHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
