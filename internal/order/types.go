package order

import (
	"encoding/json"
	"time"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
)

// Phase is one stage of the simulated payment lifecycle.
type Phase string

const (
	PhaseCreated    Phase = "created"
	PhaseRedirect   Phase = "redirect"
	PhaseProcessing Phase = "processing"
	PhaseWebhook    Phase = "webhook"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

// Intent is a shopper's request to buy one product with one payment method.
// It is never stored.
type Intent struct {
	StoreSlug     string                `json:"storeSlug"`
	ProductID     string                `json:"productId"`
	UserID        string                `json:"userId"`
	PaymentMethod catalog.PaymentMethod `json:"paymentMethod"`
}

// TimelineEntry describes one phase and how long to stay in it before moving on.
type TimelineEntry struct {
	Phase   Phase
	Message string
	Delay   time.Duration
	Meta    map[string]string
}

type timelineEntryJSON struct {
	Phase   Phase             `json:"phase"`
	Message string            `json:"message"`
	DelayMS int64             `json:"delayMs"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// MarshalJSON encodes Delay as whole milliseconds in "delayMs".
func (e TimelineEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(timelineEntryJSON{
		Phase:   e.Phase,
		Message: e.Message,
		DelayMS: e.Delay.Milliseconds(),
		Meta:    e.Meta,
	})
}

func (e *TimelineEntry) UnmarshalJSON(b []byte) error {
	var w timelineEntryJSON
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	delay := time.Duration(w.DelayMS) * time.Millisecond
	if delay < 0 {
		delay = 0
	}
	*e = TimelineEntry{Phase: w.Phase, Message: w.Message, Delay: delay, Meta: w.Meta}
	return nil
}

type StoreRef struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type ProductRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type WebhookStatus string

const (
	WebhookPaid   WebhookStatus = "paid"
	WebhookFailed WebhookStatus = "failed"
)

// WebhookBody is what the merchant endpoint would receive for this order.
type WebhookBody struct {
	OrderID         string        `json:"orderId"`
	PlatformOrderID string        `json:"platformOrderId"`
	UserID          string        `json:"userId"`
	ProductID       string        `json:"productId"`
	Amount          int64         `json:"amount"`
	Currency        string        `json:"currency"`
	Status          WebhookStatus `json:"status"`
	Signature       string        `json:"signature"`
}

type WebhookPayload struct {
	Endpoint string      `json:"endpoint"`
	Body     WebhookBody `json:"body"`
}

// Response is the full synthesized result of one Intent.
type Response struct {
	OrderID         string                `json:"orderId"`
	PaymentIntentID string                `json:"paymentIntentId"`
	Amount          int64                 `json:"amount"`
	Currency        string                `json:"currency"`
	PaymentMethod   catalog.PaymentMethod `json:"paymentMethod"`
	Store           StoreRef              `json:"store"`
	Product         ProductRef            `json:"product"`
	UserID          string                `json:"userId"`
	PaymentURL      string                `json:"paymentUrl"`
	Timeline        []TimelineEntry       `json:"timeline"`
	WebhookPayload  WebhookPayload        `json:"webhookPayload"`
}
