package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/events"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/logging"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
)

// OrderCreator turns an intent into a simulated order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in order.Intent) (*order.Response, error)
}

// RegisterOrderRoutes wires POST /api/orders. A successful order is also
// published to pub; publish failures are logged and never fail the request.
func RegisterOrderRoutes(mux *http.ServeMux, orders OrderCreator, pub events.Publisher) {
	if pub == nil {
		pub = events.Noop{}
	}
	mux.Handle("POST /api/orders", otelhttp.NewHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleCreateOrder(orders, pub, w, r)
	}), "create-order"))
}

const maxOrderBody = 1 << 20

var errEmptyIntent = errors.New("request body is null")

// decodeIntent reads exactly one JSON object from body.
func decodeIntent(body io.Reader) (*order.Intent, error) {
	dec := json.NewDecoder(body)
	var in *order.Intent
	if err := dec.Decode(&in); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errEmptyIntent
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after request body")
	}
	return in, nil
}

func handleCreateOrder(orders OrderCreator, pub events.Publisher, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	in, err := decodeIntent(http.MaxBytesReader(w, r.Body, maxOrderBody))
	if err != nil {
		err = &order.MalformedRequestError{Err: err}
		logger.Warn("rejecting order request", slog.Any("error", err))
		respondError(w, order.HTTPStatus(err), order.PublicMessage(err))
		return
	}

	resp, err := orders.CreateOrder(ctx, *in)
	if err != nil {
		status := order.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Error("create order failed", slog.Any("error", err))
		} else {
			logger.Info("order rejected", slog.String("store", in.StoreSlug), slog.String("product", in.ProductID), slog.Any("error", err))
		}
		respondError(w, status, order.PublicMessage(err))
		return
	}

	if err := pub.Publish(ctx, resp.OrderID, events.OrderSimulated(resp)); err != nil {
		logger.Warn("publish OrderSimulated failed", slog.String("order_id", resp.OrderID), slog.Any("error", err))
	}

	logger.Info("order simulated",
		slog.String("order_id", resp.OrderID),
		slog.String("payment_intent_id", resp.PaymentIntentID),
		slog.String("outcome", string(resp.WebhookPayload.Body.Status)),
	)
	respondJSON(w, http.StatusOK, resp)
}
