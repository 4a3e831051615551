package order

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampIDsMonotonic(t *testing.T) {
	now := time.UnixMilli(1_000)
	g := &TimestampIDs{Prefix: "ORD-", Now: func() time.Time { return now }}

	assert.Equal(t, "ORD-1000", g.NextID())
	assert.Equal(t, "ORD-1001", g.NextID())

	now = time.UnixMilli(5_000)
	assert.Equal(t, "ORD-5000", g.NextID())

	// clock going backwards still yields a larger id
	now = time.UnixMilli(10)
	assert.Equal(t, "ORD-5001", g.NextID())
}

func TestRandomIDsBounded(t *testing.T) {
	var asked int64
	g := &RandomIDs{Prefix: "PAY-", Max: 1_000_000, IntN: func(n int64) int64 { asked = n; return 42 }}

	assert.Equal(t, "PAY-42", g.NextID())
	assert.EqualValues(t, 1_000_000, asked)

	gen := NewRandomIDs("PAY-", 10)
	for range 50 {
		id := gen.NextID()
		require.True(t, strings.HasPrefix(id, "PAY-"))
		assert.Len(t, id, len("PAY-")+1)
	}
}

func TestRatioFailurePolicy(t *testing.T) {
	assert.False(t, NeverFail{}.ShouldFail(Intent{}))
	assert.False(t, RatioFailurePolicy{Rate: 0}.ShouldFail(Intent{}))
	assert.True(t, RatioFailurePolicy{Rate: 1}.ShouldFail(Intent{}))

	p := RatioFailurePolicy{Rate: 0.25, Float: func() float64 { return 0.2 }}
	assert.True(t, p.ShouldFail(Intent{}))
	p.Float = func() float64 { return 0.3 }
	assert.False(t, p.ShouldFail(Intent{}))
}

func TestTimelineEntryJSON(t *testing.T) {
	e := TimelineEntry{Phase: PhaseWebhook, Message: "hi", Delay: 800 * time.Millisecond, Meta: map[string]string{"endpoint": "x"}}

	b, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"webhook","message":"hi","delayMs":800,"meta":{"endpoint":"x"}}`, string(b))

	var back TimelineEntry
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, e, back)

	require.NoError(t, json.Unmarshal([]byte(`{"phase":"created","message":"m","delayMs":-5}`), &back))
	assert.Zero(t, back.Delay)
	assert.Nil(t, back.Meta)
}

func TestWebhookEndpoint(t *testing.T) {
	assert.Equal(t, "https://pay.waffo.jp/hooks/mirage-saga", WebhookEndpoint("https://pay.waffo.jp/store/mirage-saga"))
	assert.Equal(t, "https://merchant.example/shop", WebhookEndpoint("https://merchant.example/shop"))
}
