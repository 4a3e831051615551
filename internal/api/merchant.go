package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/merchant"
)

type workspaceView struct {
	merchant.Workspace
	PromoCopy    string `json:"promoCopy"`
	BonusAverage int    `json:"bonusAverage"`
}

func viewOf(ws merchant.Workspace) workspaceView {
	return workspaceView{Workspace: ws, PromoCopy: ws.PromoCopy(), BonusAverage: ws.BonusAverage()}
}

// RegisterMerchantRoutes wires the merchant console endpoints into the mux.
func RegisterMerchantRoutes(mux *http.ServeMux, console *merchant.Console) {
	handle := func(pattern, name string, fn http.HandlerFunc) {
		mux.Handle(pattern, otelhttp.NewHandler(fn, name))
	}

	handle("GET /api/merchant/workspace", "merchant-workspace", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, viewOf(console.Workspace()))
	})

	handle("PUT /api/merchant/workspace/profile", "merchant-profile", func(w http.ResponseWriter, r *http.Request) {
		var u merchant.ProfileUpdate
		if !decode(w, r, &u) {
			return
		}
		respondJSON(w, http.StatusOK, viewOf(console.UpdateProfile(u)))
	})

	handle("PUT /api/merchant/workspace/webhook", "merchant-webhook", func(w http.ResponseWriter, r *http.Request) {
		var u merchant.WebhookUpdate
		if !decode(w, r, &u) {
			return
		}
		ws, err := console.UpdateWebhook(u)
		if err != nil {
			respondMerchantError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, viewOf(ws))
	})

	handle("PUT /api/merchant/workspace/settlement", "merchant-settlement", func(w http.ResponseWriter, r *http.Request) {
		var u merchant.SettlementUpdate
		if !decode(w, r, &u) {
			return
		}
		respondJSON(w, http.StatusOK, viewOf(console.UpdateSettlement(u)))
	})

	handle("POST /api/merchant/workspace/products", "merchant-products", func(w http.ResponseWriter, r *http.Request) {
		var d merchant.ProductDraft
		if !decode(w, r, &d) {
			return
		}
		ws, err := console.AddProduct(d)
		if err != nil {
			respondMerchantError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, viewOf(ws))
	})

	handle("POST /api/merchant/workspace/publish", "merchant-publish", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, viewOf(console.Publish()))
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func respondMerchantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, merchant.ErrIncompleteDraft):
		respondError(w, http.StatusBadRequest, "Product name, price and game item ID are required")
	case errors.Is(err, merchant.ErrInvalidRetries):
		respondError(w, http.StatusBadRequest, "Webhook retries must not be negative")
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
