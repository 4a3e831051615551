package api

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/events"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/merchant"
)

// Deps are the collaborators the HTTP surface needs. Console and Ledger are
// optional; their routes are skipped when nil.
type Deps struct {
	Catalog       catalog.Source
	Orders        OrderCreator
	Publisher     events.Publisher
	Console       *merchant.Console
	Ledger        *events.Ledger
	Logger        *slog.Logger
	AllowedOrigin string
}

// NewHandler assembles every route behind request-id, access-log and CORS
// middleware.
func NewHandler(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	RegisterOrderRoutes(mux, d.Orders, d.Publisher)
	RegisterStoreRoutes(mux, d.Catalog)
	if d.Console != nil {
		RegisterMerchantRoutes(mux, d.Console)
	}
	if d.Ledger != nil {
		mux.Handle("GET /api/simulations/stats", otelhttp.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, d.Ledger.Snapshot())
		}), "simulation-stats"))
	}

	return withCORS(d.AllowedOrigin, withRequestID(d.Logger, withAccessLog(mux)))
}
