package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
)

// Delays sets how long each phase of the canonical timeline lasts.
type Delays struct {
	Created    time.Duration
	Redirect   time.Duration
	Processing time.Duration
	Webhook    time.Duration
	Completed  time.Duration
}

func DefaultDelays() Delays {
	return Delays{
		Created:    600 * time.Millisecond,
		Redirect:   900 * time.Millisecond,
		Processing: 1000 * time.Millisecond,
		Webhook:    800 * time.Millisecond,
		Completed:  0,
	}
}

// normalized clamps negative delays to zero.
func (d Delays) normalized() Delays {
	clamp := func(v time.Duration) time.Duration { return max(v, 0) }
	return Delays{
		Created:    clamp(d.Created),
		Redirect:   clamp(d.Redirect),
		Processing: clamp(d.Processing),
		Webhook:    clamp(d.Webhook),
		Completed:  clamp(d.Completed),
	}
}

// WebhookEndpoint derives the merchant hook URL from the public storefront URL.
func WebhookEndpoint(storefrontURL string) string {
	return strings.Replace(storefrontURL, "/store/", "/hooks/", 1)
}

func buildTimeline(d Delays, orderID string, method catalog.PaymentMethod, store catalog.Storefront, failed bool) []TimelineEntry {
	entries := []TimelineEntry{
		{
			Phase:   PhaseCreated,
			Message: "Order created. Waiting for you to confirm payment.",
			Delay:   d.Created,
			Meta:    map[string]string{"orderId": orderID},
		},
		{
			Phase:   PhaseRedirect,
			Message: fmt.Sprintf("%s checkout is ready. Complete the bank or 3D Secure step.", method),
			Delay:   d.Redirect,
		},
		{
			Phase:   PhaseProcessing,
			Message: "Payment captured. Clearing network is confirming settlement...",
			Delay:   d.Processing,
		},
	}
	if failed {
		return append(entries, TimelineEntry{
			Phase:   PhaseFailed,
			Message: fmt.Sprintf("%s declined the payment. No charge was made.", method),
		})
	}
	return append(entries,
		TimelineEntry{
			Phase:   PhaseWebhook,
			Message: fmt.Sprintf("Notifying %s. Waiting for delivery confirmation...", store.CompanyName),
			Delay:   d.Webhook,
			Meta:    map[string]string{"endpoint": store.StorefrontURL},
		},
		TimelineEntry{
			Phase:   PhaseCompleted,
			Message: "Order complete. Items will reach your inbox shortly.",
			Delay:   d.Completed,
		},
	)
}
