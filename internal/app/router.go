package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	billinghttp "github.com/melitech/docengine/internal/billing/http"
	"github.com/melitech/docengine/internal/company"
	numberinghttp "github.com/melitech/docengine/internal/numbering/http"
	"github.com/melitech/docengine/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	NumberingHandler *numberinghttp.Handler
	BillingHandler   *billinghttp.Handler
	CompanyHandler   *company.Handler
	ReportHandler    *report.Handler
}

// NewRouter constructs the chi.Router with engine defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Everything below operates within a tenant scope.
	r.Group(func(r chi.Router) {
		r.Use(TenantMiddleware)

		r.Route("/settings/document-numbers", params.NumberingHandler.MountRoutes)
		r.Route("/settings/company", params.CompanyHandler.MountRoutes)
		r.Route("/documents", params.BillingHandler.MountRoutes)
	})

	r.Route("/report", params.ReportHandler.MountRoutes)

	return r
}
