package bdd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/client"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/order"
	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/playback"
)

// StorefrontWorld is the per-scenario state shared by every step.
type StorefrontWorld struct {
	t *testing.T

	apiBase string

	// HTTP capture
	httpStatus int
	httpJSON   map[string]any
	orderResp  *order.Response

	// playback
	session   *playback.Session
	orders    *countingClient
	snapshots []playback.Snapshot
	waits     []time.Duration
	purchase  error
	mu        sync.Mutex
}

func NewStorefrontWorld(t *testing.T) *StorefrontWorld {
	return &StorefrontWorld{t: t, apiBase: getenv("API_BASE", "http://localhost:3000")}
}

func (w *StorefrontWorld) Register(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		w.resetScenarioState()
		return ctx, nil
	})

	w.registerOrderSteps(sc)
	w.registerPlaybackSteps(sc)
}

func (w *StorefrontWorld) resetScenarioState() {
	w.httpStatus = 0
	w.httpJSON = nil
	w.orderResp = nil
	w.session = nil
	w.orders = nil
	w.snapshots = nil
	w.waits = nil
	w.purchase = nil
}

func (w *StorefrontWorld) debugf(format string, args ...any) {
	if os.Getenv("BDD_DEBUG") != "" {
		w.t.Logf(format, args...)
	}
}

func (w *StorefrontWorld) newClient() (*client.Client, error) {
	return client.New(w.apiBase, nil)
}

// recordWait is a playback scheduler that logs the requested delay and
// returns at once.
func (w *StorefrontWorld) recordWait(_ context.Context, d time.Duration) error {
	w.mu.Lock()
	w.waits = append(w.waits, d)
	w.mu.Unlock()
	return nil
}

func (w *StorefrontWorld) recordSnapshot(s playback.Snapshot) {
	w.mu.Lock()
	w.snapshots = append(w.snapshots, s)
	w.mu.Unlock()
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func tableToMaps(table *godog.Table) ([]map[string]string, error) {
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table must have at least one row")
	}

	headers := make([]string, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		headers[i] = strings.ToLower(strings.TrimSpace(cell.Value))
	}

	var rows []map[string]string
	for _, row := range table.Rows[1:] {
		if len(row.Cells) != len(headers) {
			return nil, fmt.Errorf("row column mismatch")
		}
		record := make(map[string]string, len(headers))
		for i, cell := range row.Cells {
			record[headers[i]] = strings.TrimSpace(cell.Value)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
