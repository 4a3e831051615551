package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/events"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/merchant"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
)

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, string, events.Envelope) error {
	p.calls++
	return errors.New("kafka down")
}

func (p *failingPublisher) Close() error { return nil }

func newTestHandler(t *testing.T, pub events.Publisher) (http.Handler, *events.Ledger) {
	t.Helper()
	src := catalog.NewMemory(catalog.Seed())
	ledger := events.NewLedger()
	if pub == nil {
		pub = ledger
	}
	now := time.Date(2025, 11, 8, 6, 30, 0, 0, time.UTC)
	return NewHandler(Deps{
		Catalog:   src,
		Orders:    order.NewProcessor(src, order.Options{}),
		Publisher: pub,
		Console:   merchant.NewConsole(merchant.DefaultWorkspace(now), func() time.Time { return now }, func() string { return "draft-1" }),
		Ledger:    ledger,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), ledger
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestCreateOrderSuccess(t *testing.T) {
	h, ledger := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/orders",
		`{"storeSlug":"a3-official","productId":"pack-limited-01","userId":"p1","paymentMethod":"PayPay"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var resp order.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, 10000, resp.Amount)
	assert.Equal(t, "JPY", resp.Currency)
	require.Len(t, resp.Timeline, 5)
	assert.Equal(t, 600*time.Millisecond, resp.Timeline[0].Delay)
	assert.Equal(t, order.WebhookPaid, resp.WebhookPayload.Body.Status)

	stats := ledger.Snapshot()
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, resp.OrderID, stats.LastOrder)
}

func TestCreateOrderWireFormat(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/orders",
		`{"storeSlug":"mirage-saga","productId":"mirage-bundle-top","userId":"u","paymentMethod":"Visa"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, key := range []string{"orderId", "paymentIntentId", "amount", "currency", "paymentMethod", "store", "product", "userId", "paymentUrl", "timeline", "webhookPayload"} {
		assert.Contains(t, raw, key)
	}
	first := raw["timeline"].([]any)[0].(map[string]any)
	assert.Contains(t, first, "delayMs")
}

func TestCreateOrderErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"malformed", `{"storeSlug":`, http.StatusBadRequest, "Invalid request body"},
		{"wrong_type", `{"storeSlug":1}`, http.StatusBadRequest, "Invalid request body"},
		{"null", `null`, http.StatusBadRequest, "Invalid request body"},
		{"array", `[]`, http.StatusBadRequest, "Invalid request body"},
		{"trailing_data", `{"storeSlug":"a3-official","productId":"pack-limited-01","userId":"p1","paymentMethod":"PayPay"} trailing`, http.StatusBadRequest, "Invalid request body"},
		{"two_objects", `{"storeSlug":"a3-official"}{"storeSlug":"a3-official"}`, http.StatusBadRequest, "Invalid request body"},
		{"oversized", `{"storeSlug":"` + strings.Repeat("a", maxOrderBody) + `"}`, http.StatusBadRequest, "Invalid request body"},
		{"missing_fields", `{"storeSlug":"a3-official"}`, http.StatusBadRequest, "Missing required fields"},
		{"unknown_store", `{"storeSlug":"nope","productId":"x","userId":"p1","paymentMethod":"PayPay"}`, http.StatusNotFound, "Store not found"},
		{"unknown_product", `{"storeSlug":"a3-official","productId":"x","userId":"p1","paymentMethod":"PayPay"}`, http.StatusNotFound, "Product not found"},
		{"unsupported_method", `{"storeSlug":"a3-official","productId":"pack-limited-01","userId":"p1","paymentMethod":"Line Pay"}`, http.StatusBadRequest, "Payment method not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ledger := newTestHandler(t, nil)
			rec := do(t, h, http.MethodPost, "/api/orders", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, errorMessage(t, rec))
			assert.Zero(t, ledger.Snapshot().Total)
		})
	}
}

func TestCreateOrderSurvivesPublishFailure(t *testing.T) {
	pub := &failingPublisher{}
	h, _ := newTestHandler(t, pub)

	rec := do(t, h, http.MethodPost, "/api/orders",
		`{"storeSlug":"a3-official","productId":"pack-limited-01","userId":"p1","paymentMethod":"PayPay"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, pub.calls)
}

func TestOrdersRejectsOtherMethods(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	rec := do(t, h, http.MethodGet, "/api/orders", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStoreDirectory(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"a3-official", "stella-stage", "mirage-saga"}},
		{"filter=exclusive", []string{"a3-official"}},
		{"filter=paypay", []string{"a3-official", "mirage-saga"}},
		{"filter=bonus10", []string{"a3-official"}},
		{"q=stella", []string{"stella-stage"}},
		{"q=WALLETS+IN+JAPAN", []string{"mirage-saga"}},
		{"payment=Konbini", []string{"stella-stage", "mirage-saga"}},
		{"payment=Line+Pay", []string{"stella-stage"}},
		{"filter=paypay&payment=Konbini", []string{"mirage-saga"}},
		{"filter=bonus10&payment=Konbini", []string{}},
		{"q=japan&payment=Apple+Pay", []string{"a3-official"}},
	}
	for _, tt := range tests {
		rec := do(t, h, http.MethodGet, "/api/stores?"+tt.query, "")
		require.Equal(t, http.StatusOK, rec.Code, tt.query)

		var stores []catalog.Storefront
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stores))
		got := make([]string, len(stores))
		for i, s := range stores {
			got[i] = s.Slug
		}
		assert.Equal(t, tt.want, got, "query=%q", tt.query)
	}

	rec := do(t, h, http.MethodGet, "/api/stores?filter=cheap", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/stores?payment=Bitcoin", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown payment method", errorMessage(t, rec))
}

func TestStoreDetail(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(t, h, http.MethodGet, "/api/stores/stella-stage", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var store catalog.Storefront
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &store))
	assert.Equal(t, "Stella Stage Exchange", store.DisplayName)

	rec = do(t, h, http.MethodGet, "/api/stores/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Store not found", errorMessage(t, rec))
}

func TestMerchantWorkspaceRoutes(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(t, h, http.MethodGet, "/api/merchant/workspace", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.EqualValues(t, 12, view["bonusAverage"])
	assert.Equal(t, "2025-11-08T15:30:00+09:00", view["lastPublish"])

	rec = do(t, h, http.MethodPut, "/api/merchant/workspace/profile", `{"displayName":"A3! Pop-up"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"displayName":"A3! Pop-up"`)

	rec = do(t, h, http.MethodPut, "/api/merchant/workspace/webhook", `{"retries":-2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/merchant/workspace/settlement", `{"bankName":"SMBC"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	rec = do(t, h, http.MethodPost, "/api/merchant/workspace/products", `{"name":"Diamond 50","price":500,"gameItemId":"A3_DIA_50"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"draft-1"`)

	rec = do(t, h, http.MethodPost, "/api/merchant/workspace/products", `{"name":"Diamond 50"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/merchant/workspace/publish", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lastPublish":"2025-11-08T06:30:00Z"`)

	rec = do(t, h, http.MethodPut, "/api/merchant/workspace/profile", `nope`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// the shared catalog never sees console edits
	rec = do(t, h, http.MethodGet, "/api/stores/a3-official", "")
	assert.Contains(t, rec.Body.String(), `"displayName":"A3! Official Store"`)
}

func TestHealthAndCORS(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	rec := do(t, h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodOptions, "/api/orders", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestSimulationStats(t *testing.T) {
	h, _ := newTestHandler(t, nil)

	body := `{"storeSlug":"a3-official","productId":"pack-limited-01","userId":"p1","paymentMethod":"PayPay"}`
	for range 2 {
		require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/orders", body).Code)
	}

	rec := do(t, h, http.MethodGet, "/api/simulations/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats events.Stats
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 2, stats.ByStore["a3-official"])
	assert.Equal(t, 2, stats.ByOutcome["paid"])
}
