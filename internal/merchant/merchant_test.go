package merchant

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	restate "github.com/restatedev/sdk-go"
	"github.com/restatedev/sdk-go/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
)

var fixedNow = time.Date(2025, 11, 8, 6, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestDefaultWorkspace(t *testing.T) {
	ws := DefaultWorkspace(fixedNow)

	assert.Equal(t, "a3-official", ws.Store.Slug)
	assert.Equal(t, "https://hooks.a3-app.jp/v1/order", ws.Webhook.URL)
	assert.Equal(t, "gameId", ws.Webhook.UserIDField)
	assert.Equal(t, 3, ws.Webhook.Retries)
	assert.Equal(t, "2025-11-08T06:30:00Z", ws.Webhook.LastDeliveryAt)
	assert.Equal(t, SettlementVerified, ws.Settlement.Status)
	assert.Equal(t, "2025-11-08T15:30:00+09:00", ws.LastPublish)
}

func TestWorkspaceInsights(t *testing.T) {
	ws := DefaultWorkspace(fixedNow)

	assert.Equal(t, "Full Bloom Celebration Pack: 18% better than in-game / Diamond 720: 9% bonus / Starter Pack: 12% bonus", ws.PromoCopy())
	// 15%, 8% and 12%
	assert.Equal(t, 12, ws.BonusAverage())

	empty := NewWorkspace(catalog.Storefront{Slug: "x"})
	assert.Equal(t, defaultCopy, empty.PromoCopy())
	assert.Zero(t, empty.BonusAverage())
}

func TestConsoleEditsDoNotLeak(t *testing.T) {
	seed := DefaultWorkspace(fixedNow)
	c := NewConsole(seed, func() time.Time { return fixedNow }, nil)

	got := c.UpdateProfile(ProfileUpdate{DisplayName: ptr("A3! Pop-up"), Tagline: ptr("")})
	assert.Equal(t, "A3! Pop-up", got.Store.DisplayName)
	assert.Empty(t, got.Store.Tagline)
	assert.Equal(t, seed.Store.CompanyName, got.Store.CompanyName)

	assert.Equal(t, "A3! Official Store", seed.Store.DisplayName)
	assert.Equal(t, "A3! Official Store", catalog.Seed()[0].DisplayName)

	got.Store.Products[0].Name = "mutated"
	assert.Equal(t, "Full Bloom Celebration Pack", c.Workspace().Store.Products[0].Name)
}

func TestConsoleWebhook(t *testing.T) {
	c := NewConsole(DefaultWorkspace(fixedNow), nil, nil)

	ws, err := c.UpdateWebhook(WebhookUpdate{URL: ptr("https://merchant.example/hook"), Retries: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, "https://merchant.example/hook", ws.Webhook.URL)
	assert.Equal(t, 5, ws.Webhook.Retries)
	assert.Equal(t, "whsec_live_x2vy-merchant", ws.Webhook.Secret)

	_, err = c.UpdateWebhook(WebhookUpdate{Retries: ptr(-1)})
	require.ErrorIs(t, err, ErrInvalidRetries)
	assert.Equal(t, 5, c.Workspace().Webhook.Retries)
}

func TestConsoleSettlementResetsVerification(t *testing.T) {
	c := NewConsole(DefaultWorkspace(fixedNow), nil, nil)

	ws := c.UpdateSettlement(SettlementUpdate{PayoutSchedule: ptr("T+3")})
	assert.Equal(t, SettlementVerified, ws.Settlement.Status)

	ws = c.UpdateSettlement(SettlementUpdate{AccountNumber: ptr("7654321")})
	assert.Equal(t, SettlementPending, ws.Settlement.Status)
	assert.Equal(t, "7654321", ws.Settlement.AccountNumber)
}

func TestConsoleAddProduct(t *testing.T) {
	c := NewConsole(DefaultWorkspace(fixedNow), nil, func() string { return "draft-1" })

	ws, err := c.AddProduct(ProductDraft{Name: "Diamond 50", Price: 500, GameItemID: "A3_DIA_50", BaseAmount: -3})
	require.NoError(t, err)
	require.Len(t, ws.Store.Products, 4)

	p := ws.Store.Products[0]
	assert.Equal(t, "draft-1", p.ID)
	assert.Equal(t, "Standard top-up", p.Category)
	assert.Equal(t, "JPY", p.Currency)
	assert.Zero(t, p.BaseAmount)

	for _, d := range []ProductDraft{
		{Price: 500, GameItemID: "X"},
		{Name: "n", GameItemID: "X"},
		{Name: "n", Price: 500, GameItemID: "  "},
	} {
		_, err := c.AddProduct(d)
		assert.ErrorIs(t, err, ErrIncompleteDraft)
	}
	assert.Len(t, c.Workspace().Store.Products, 4)
}

func TestConsolePublish(t *testing.T) {
	c := NewConsole(DefaultWorkspace(fixedNow), func() time.Time { return fixedNow }, nil)
	assert.Equal(t, "2025-11-08T06:30:00Z", c.Publish().LastPublish)
}

func TestConsoleConcurrentEdits(t *testing.T) {
	c := NewConsole(DefaultWorkspace(fixedNow), nil, nil)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.UpdateWebhook(WebhookUpdate{Retries: ptr(i)})
			_ = c.Workspace()
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, c.Workspace().Webhook.Retries, 0)
}

type stubRunContext struct {
	context.Context
}

func (s stubRunContext) Log() *slog.Logger { return slog.Default() }

func (s stubRunContext) Request() *restate.Request { return &restate.Request{} }

func interceptRun(t *testing.T, mockCtx *mocks.MockContext) {
	respond := func(args mock.Arguments) {
		fn := args[0].(func(restate.RunContext) (any, error))
		result, err := fn(stubRunContext{Context: context.Background()})
		require.NoError(t, err)

		out := reflect.ValueOf(args[1])
		if out.Kind() != reflect.Ptr || out.IsNil() || result == nil {
			return
		}
		val := reflect.ValueOf(result)
		if val.Type().AssignableTo(out.Elem().Type()) {
			out.Elem().Set(val)
		}
	}
	mockCtx.On("Run", mock.Anything, mock.Anything).Maybe().Run(respond).Return(nil)
	mockCtx.On("Run", mock.Anything, mock.Anything, mock.Anything).Maybe().Run(respond).Return(nil)
}

func TestObjectStartsFromCatalog(t *testing.T) {
	obj := NewObject(catalog.NewMemory(catalog.Seed()))

	mockCtx := mocks.NewMockContext(t)
	mockCtx.EXPECT().Key().Return("stella-stage")
	mockCtx.EXPECT().Get(stateKey, mock.Anything).Return(false, nil)

	ws, err := obj.GetWorkspace(restate.WithMockContext(mockCtx), restate.Void{})
	require.NoError(t, err)
	assert.Equal(t, "stella-stage", ws.Store.Slug)
	assert.Equal(t, SettlementPending, ws.Settlement.Status)
}

func TestObjectUnknownStore(t *testing.T) {
	obj := NewObject(catalog.NewMemory(catalog.Seed()))

	mockCtx := mocks.NewMockContext(t)
	mockCtx.EXPECT().Key().Return("nope")
	mockCtx.EXPECT().Get(stateKey, mock.Anything).Return(false, nil)

	_, err := obj.GetWorkspace(restate.WithMockContext(mockCtx), restate.Void{})
	require.Error(t, err)
	assert.True(t, restate.IsTerminalError(err))
}

func TestObjectUpdateWebhookPersists(t *testing.T) {
	obj := NewObject(catalog.NewMemory(catalog.Seed()))
	stored := DefaultWorkspace(fixedNow)

	mockCtx := mocks.NewMockContext(t)
	mockCtx.EXPECT().Key().Return("a3-official")
	mockCtx.On("Get", stateKey, mock.Anything).Run(func(args mock.Arguments) {
		if p, ok := args[1].(**Workspace); ok {
			*p = &stored
		}
	}).Return(true, nil)
	mockCtx.EXPECT().Set(stateKey, mock.MatchedBy(func(ws Workspace) bool {
		return ws.Webhook.Secret == "whsec_rotated" && ws.Webhook.URL == stored.Webhook.URL
	}))

	ws, err := obj.UpdateWebhook(restate.WithMockContext(mockCtx), WebhookUpdate{Secret: ptr("whsec_rotated")})
	require.NoError(t, err)
	assert.Equal(t, "whsec_rotated", ws.Webhook.Secret)
}

func TestObjectAddProductRejectsIncompleteDraft(t *testing.T) {
	obj := NewObject(catalog.NewMemory(catalog.Seed()))

	mockCtx := mocks.NewMockContext(t)
	mockCtx.EXPECT().Key().Return("a3-official")
	mockCtx.EXPECT().Get(stateKey, mock.Anything).Return(false, nil)
	interceptRun(t, mockCtx)

	_, err := obj.AddProduct(restate.WithMockContext(mockCtx), ProductDraft{Name: "no price"})
	require.Error(t, err)
	assert.True(t, restate.IsTerminalError(err))
	assert.Contains(t, err.Error(), ErrIncompleteDraft.Error())
}

func TestObjectPublish(t *testing.T) {
	obj := NewObject(catalog.NewMemory(catalog.Seed()))

	mockCtx := mocks.NewMockContext(t)
	mockCtx.EXPECT().Key().Return("a3-official")
	mockCtx.EXPECT().Get(stateKey, mock.Anything).Return(false, nil)
	interceptRun(t, mockCtx)
	mockCtx.EXPECT().Set(stateKey, mock.Anything)

	ws, err := obj.Publish(restate.WithMockContext(mockCtx), restate.Void{})
	require.NoError(t, err)
	_, perr := time.Parse(time.RFC3339, ws.LastPublish)
	assert.NoError(t, perr)
}
