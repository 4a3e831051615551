// Package order validates purchase intents against the catalog and
// synthesizes the simulated payment lifecycle returned to the shopper.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
)

const (
	DefaultPaymentBaseURL = "https://mock.app-pay.dev/pay"
	paymentIDSpace        = 1_000_000
)

// Options tunes the synthesis. Zero values fall back to the defaults.
type Options struct {
	PaymentBaseURL string
	Delays         *Delays
	OrderIDs       IDGenerator
	PaymentIDs     IDGenerator
	Failure        FailurePolicy
}

// Processor turns intents into simulated order responses. It holds no
// per-request state and is safe for concurrent use.
type Processor struct {
	catalog    catalog.Source
	baseURL    string
	delays     Delays
	orderIDs   IDGenerator
	paymentIDs IDGenerator
	failure    FailurePolicy
	tracer     trace.Tracer
}

func NewProcessor(src catalog.Source, opts Options) *Processor {
	p := &Processor{
		catalog:    src,
		baseURL:    strings.TrimRight(opts.PaymentBaseURL, "/"),
		delays:     DefaultDelays(),
		orderIDs:   opts.OrderIDs,
		paymentIDs: opts.PaymentIDs,
		failure:    opts.Failure,
		tracer:     otel.Tracer("storefront-order-simulator/order"),
	}
	if p.baseURL == "" {
		p.baseURL = DefaultPaymentBaseURL
	}
	if opts.Delays != nil {
		p.delays = opts.Delays.normalized()
	}
	if p.orderIDs == nil {
		p.orderIDs = NewTimestampIDs("ORD-")
	}
	if p.paymentIDs == nil {
		p.paymentIDs = NewRandomIDs("PAY-", paymentIDSpace)
	}
	if p.failure == nil {
		p.failure = NeverFail{}
	}
	return p
}

// CreateOrder validates in and, when it passes, returns a freshly synthesized
// response. Nothing is persisted.
func (p *Processor) CreateOrder(ctx context.Context, in Intent) (*Response, error) {
	ctx, span := p.tracer.Start(ctx, "order.CreateOrder", trace.WithAttributes(
		attribute.String("store.slug", in.StoreSlug),
		attribute.String("product.id", in.ProductID),
		attribute.String("payment.method", string(in.PaymentMethod)),
	))
	defer span.End()

	store, product, err := p.Validate(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	resp := p.Synthesize(in, store, product)
	span.SetAttributes(
		attribute.String("order.id", resp.OrderID),
		attribute.String("payment.intent_id", resp.PaymentIntentID),
	)
	return &resp, nil
}

// Validate runs the ordered checks and resolves the store and product.
// The first failing check wins.
func (p *Processor) Validate(ctx context.Context, in Intent) (catalog.Storefront, catalog.Product, error) {
	if blank(in.StoreSlug) || blank(in.ProductID) || blank(in.UserID) || blank(string(in.PaymentMethod)) {
		return catalog.Storefront{}, catalog.Product{}, errMissingFields
	}

	store, err := p.catalog.Lookup(ctx, in.StoreSlug)
	if errors.Is(err, catalog.ErrStoreNotFound) {
		return catalog.Storefront{}, catalog.Product{}, errStoreNotFound
	}
	if err != nil {
		return catalog.Storefront{}, catalog.Product{}, fmt.Errorf("lookup store %s: %w", in.StoreSlug, err)
	}

	product, ok := store.Product(in.ProductID)
	if !ok {
		return catalog.Storefront{}, catalog.Product{}, errProductNotFound
	}

	if !store.Accepts(in.PaymentMethod) {
		return catalog.Storefront{}, catalog.Product{}, errUnsupportedMethod
	}
	return store, product, nil
}

// Synthesize builds the response for an already validated intent. It draws
// fresh identifiers on every call.
func (p *Processor) Synthesize(in Intent, store catalog.Storefront, product catalog.Product) Response {
	orderID := p.orderIDs.NextID()
	paymentIntentID := p.paymentIDs.NextID()
	failed := p.failure.ShouldFail(in)

	status := WebhookPaid
	if failed {
		status = WebhookFailed
	}

	return Response{
		OrderID:         orderID,
		PaymentIntentID: paymentIntentID,
		Amount:          product.Price,
		Currency:        product.Currency,
		PaymentMethod:   in.PaymentMethod,
		Store:           StoreRef{Slug: store.Slug, Name: store.DisplayName},
		Product:         ProductRef{ID: product.ID, Name: product.Name},
		UserID:          in.UserID,
		PaymentURL:      p.baseURL + "/" + paymentIntentID,
		Timeline:        buildTimeline(p.delays, orderID, in.PaymentMethod, store, failed),
		WebhookPayload: WebhookPayload{
			Endpoint: WebhookEndpoint(store.StorefrontURL),
			Body: WebhookBody{
				OrderID:         orderID,
				PlatformOrderID: paymentIntentID,
				UserID:          in.UserID,
				ProductID:       product.ID,
				Amount:          product.Price,
				Currency:        product.Currency,
				Status:          status,
				Signature:       "wh_" + paymentIntentID + "_sig",
			},
		},
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
