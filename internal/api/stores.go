package api

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/logging"
)

// RegisterStoreRoutes exposes the storefront directory.
// - GET /api/stores?filter=exclusive|bonus10|paypay&q=text&payment=PayPay
// - GET /api/stores/{slug}
func RegisterStoreRoutes(mux *http.ServeMux, src catalog.Source) {
	mux.Handle("GET /api/stores", otelhttp.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()
		filter, err := catalog.ParseFilter(params.Get("filter"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "Unknown filter")
			return
		}
		payment := catalog.PaymentMethod(params.Get("payment"))
		if payment != "" && !payment.Valid() {
			respondError(w, http.StatusBadRequest, "Unknown payment method")
			return
		}
		stores, err := src.List(r.Context())
		if err != nil {
			logging.FromContext(r.Context()).Error("list storefronts", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		respondJSON(w, http.StatusOK, catalog.Search(stores, catalog.Query{
			Filter:  filter,
			Text:    params.Get("q"),
			Payment: payment,
		}))
	}), "stores-list"))

	mux.Handle("GET /api/stores/{slug}", otelhttp.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, err := src.Lookup(r.Context(), r.PathValue("slug"))
		if errors.Is(err, catalog.ErrStoreNotFound) {
			respondError(w, http.StatusNotFound, "Store not found")
			return
		}
		if err != nil {
			logging.FromContext(r.Context()).Error("lookup storefront", slog.Any("error", err))
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		respondJSON(w, http.StatusOK, store)
	}), "stores-detail"))
}
