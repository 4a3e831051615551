package bdd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cucumber/godog"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/playback"
)

type countingClient struct {
	next  playback.OrderClient
	calls atomic.Int32
}

func (c *countingClient) CreateOrder(ctx context.Context, in order.Intent) (*order.Response, error) {
	c.calls.Add(1)
	return c.next.CreateOrder(ctx, in)
}

// declinedClient replays a real order with its completion replaced by a
// failed phase at the same position.
type declinedClient struct {
	next playback.OrderClient
}

func (c declinedClient) CreateOrder(ctx context.Context, in order.Intent) (*order.Response, error) {
	resp, err := c.next.CreateOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	tl := resp.Timeline[:2:2]
	tl = append(tl, order.TimelineEntry{Phase: order.PhaseFailed, Message: "Card declined"})
	resp.Timeline = append(tl, order.TimelineEntry{Phase: order.PhaseCompleted, Message: "never shown"})
	return resp, nil
}

func (w *StorefrontWorld) registerPlaybackSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a shopper on store "([^"]*)"$`, w.shopperOnStore)
	sc.Step(`^a shopper on store "([^"]*)" whose payments are declined$`, w.shopperOnDecliningStore)
	sc.Step(`^the shopper enters player ID "([^"]*)"$`, w.enterPlayerID)
	sc.Step(`^the shopper buys "([^"]*)" with "([^"]*)"$`, w.buy)
	sc.Step(`^the purchase succeeds$`, w.assertPurchaseSucceeded)
	sc.Step(`^the purchase fails$`, w.assertPurchaseFailed)
	sc.Step(`^the shopper sees "([^"]*)"$`, w.assertShownMessage)
	sc.Step(`^the playback ends in state "([^"]*)"$`, w.assertFinalState)
	sc.Step(`^the shopper saw phases "([^"]*)"$`, w.assertSeenPhases)
	sc.Step(`^playback waited:$`, w.assertWaits)
	sc.Step(`^no order request was sent$`, w.assertNoRequest)
}

func (w *StorefrontWorld) startSession(store string, wrap func(playback.OrderClient) playback.OrderClient) error {
	c, err := w.newClient()
	if err != nil {
		return err
	}
	counter := &countingClient{next: wrap(c)}
	w.orders = counter
	w.session = playback.NewSession(counter, store, playback.SchedulerFunc(w.recordWait))
	w.session.Subscribe(w.recordSnapshot)
	return nil
}

func (w *StorefrontWorld) shopperOnStore(store string) error {
	return w.startSession(store, func(c playback.OrderClient) playback.OrderClient { return c })
}

func (w *StorefrontWorld) shopperOnDecliningStore(store string) error {
	return w.startSession(store, func(c playback.OrderClient) playback.OrderClient { return declinedClient{next: c} })
}

func (w *StorefrontWorld) enterPlayerID(id string) error {
	if w.session == nil {
		return fmt.Errorf("no shopper session")
	}
	w.session.SetUserID(id)
	return nil
}

func (w *StorefrontWorld) buy(productID, method string) error {
	if w.session == nil {
		return fmt.Errorf("no shopper session")
	}
	_, w.purchase = w.session.Purchase(context.Background(), productID, catalog.PaymentMethod(method))
	return nil
}

func (w *StorefrontWorld) assertPurchaseSucceeded() error {
	if w.purchase != nil {
		return fmt.Errorf("expected purchase to succeed: %v", w.purchase)
	}
	return nil
}

func (w *StorefrontWorld) assertPurchaseFailed() error {
	if w.purchase == nil {
		return fmt.Errorf("expected purchase to fail")
	}
	return nil
}

func (w *StorefrontWorld) assertShownMessage(msg string) error {
	if got := w.session.Snapshot().Message; got != msg {
		return fmt.Errorf("expected message %q got %q", msg, got)
	}
	return nil
}

func (w *StorefrontWorld) assertFinalState(state string) error {
	if got := w.session.Snapshot().State; string(got) != state {
		return fmt.Errorf("expected state %s got %s", state, got)
	}
	return nil
}

func (w *StorefrontWorld) assertSeenPhases(csv string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var seen []string
	for _, s := range w.snapshots {
		if s.Phase == "" {
			continue
		}
		if n := len(seen); n > 0 && seen[n-1] == string(s.Phase) {
			continue
		}
		seen = append(seen, string(s.Phase))
	}
	got := fmt.Sprint(seen)
	want := fmt.Sprint(splitList(csv))
	if got != want {
		return fmt.Errorf("expected phases %s got %s", want, got)
	}
	return nil
}

func (w *StorefrontWorld) assertWaits(table *godog.Table) error {
	rows, err := tableToMaps(table)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(rows) != len(w.waits) {
		return fmt.Errorf("expected %d waits got %v", len(rows), w.waits)
	}
	for i, row := range rows {
		ms, err := strconv.Atoi(row["delay_ms"])
		if err != nil {
			return fmt.Errorf("bad delay_ms %q", row["delay_ms"])
		}
		if w.waits[i] != time.Duration(ms)*time.Millisecond {
			return fmt.Errorf("wait %d: expected %dms got %s", i, ms, w.waits[i])
		}
	}
	return nil
}

func (w *StorefrontWorld) assertNoRequest() error {
	if c := w.orders; c != nil && c.calls.Load() != 0 {
		return fmt.Errorf("expected no order request, saw %d", c.calls.Load())
	}
	return nil
}

func splitList(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
