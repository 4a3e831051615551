// Package merchant holds the editable merchant console workspace: a private
// copy of one storefront plus its webhook and settlement configuration.
package merchant

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
)

var (
	ErrIncompleteDraft = errors.New("product draft needs a name, a positive price and a game item id")
	ErrInvalidRetries  = errors.New("webhook retries must not be negative")
)

type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "pending"
	SettlementVerified SettlementStatus = "verified"
)

type WebhookConfig struct {
	URL            string  `json:"url"`
	Secret         string  `json:"secret"`
	UserIDField    string  `json:"userIdField"`
	Retries        int     `json:"retries"`
	LastLatencyMs  int     `json:"lastLatencyMs"`
	Reliability    float64 `json:"reliability"`
	LastDeliveryAt string  `json:"lastDeliveryAt"`
}

type SettlementProfile struct {
	BankName       string           `json:"bankName"`
	AccountName    string           `json:"accountName"`
	AccountNumber  string           `json:"accountNumber"`
	Branch         string           `json:"branch"`
	Currency       string           `json:"currency"`
	PayoutSchedule string           `json:"payoutSchedule"`
	Status         SettlementStatus `json:"status"`
}

// Workspace is the merchant's working copy. Edits never reach the shared
// catalog.
type Workspace struct {
	Store       catalog.Storefront `json:"store"`
	Webhook     WebhookConfig      `json:"webhook"`
	Settlement  SettlementProfile  `json:"settlement"`
	LastPublish string             `json:"lastPublish"`
}

// DefaultWorkspace is the demo workspace for the first seeded store.
func DefaultWorkspace(now time.Time) Workspace {
	return Workspace{
		Store: catalog.Seed()[0],
		Webhook: WebhookConfig{
			URL:            "https://hooks.a3-app.jp/v1/order",
			Secret:         "whsec_live_x2vy-merchant",
			UserIDField:    "gameId",
			Retries:        3,
			LastLatencyMs:  1480,
			Reliability:    99.995,
			LastDeliveryAt: now.UTC().Format(time.RFC3339),
		},
		Settlement: SettlementProfile{
			BankName:       "MUFG Bank",
			AccountName:    "Liber Entertainment",
			AccountNumber:  "1234567",
			Branch:         "Shibuya Central",
			Currency:       "JPY",
			PayoutSchedule: "T+5 rolling",
			Status:         SettlementVerified,
		},
		LastPublish: "2025-11-08T15:30:00+09:00",
	}
}

// NewWorkspace starts an unconfigured workspace for store.
func NewWorkspace(store catalog.Storefront) Workspace {
	return Workspace{
		Store:      store.Clone(),
		Webhook:    WebhookConfig{UserIDField: "userId", Retries: 3},
		Settlement: SettlementProfile{Currency: "JPY", Status: SettlementPending},
	}
}

// Clone returns a deep copy.
func (w Workspace) Clone() Workspace {
	out := w
	out.Store = w.Store.Clone()
	return out
}

// ProfileUpdate carries the storefront fields a merchant may edit. Nil fields
// are left untouched.
type ProfileUpdate struct {
	DisplayName     *string `json:"displayName,omitempty"`
	CompanyName     *string `json:"companyName,omitempty"`
	Logo            *string `json:"logo,omitempty"`
	HeroImage       *string `json:"heroImage,omitempty"`
	Tagline         *string `json:"tagline,omitempty"`
	SupportChannel  *string `json:"supportChannel,omitempty"`
	ContactEmail    *string `json:"contactEmail,omitempty"`
	HighlightSlogan *string `json:"highlightSlogan,omitempty"`
	Summary         *string `json:"summary,omitempty"`
}

func (w *Workspace) ApplyProfile(u ProfileUpdate) {
	s := &w.Store
	set(&s.DisplayName, u.DisplayName)
	set(&s.CompanyName, u.CompanyName)
	set(&s.Logo, u.Logo)
	set(&s.HeroImage, u.HeroImage)
	set(&s.Tagline, u.Tagline)
	set(&s.SupportChannel, u.SupportChannel)
	set(&s.ContactEmail, u.ContactEmail)
	set(&s.HighlightSlogan, u.HighlightSlogan)
	set(&s.Summary, u.Summary)
}

type WebhookUpdate struct {
	URL         *string `json:"url,omitempty"`
	Secret      *string `json:"secret,omitempty"`
	UserIDField *string `json:"userIdField,omitempty"`
	Retries     *int    `json:"retries,omitempty"`
}

func (w *Workspace) ApplyWebhook(u WebhookUpdate) error {
	if u.Retries != nil && *u.Retries < 0 {
		return ErrInvalidRetries
	}
	set(&w.Webhook.URL, u.URL)
	set(&w.Webhook.Secret, u.Secret)
	set(&w.Webhook.UserIDField, u.UserIDField)
	set(&w.Webhook.Retries, u.Retries)
	return nil
}

type SettlementUpdate struct {
	BankName       *string `json:"bankName,omitempty"`
	AccountName    *string `json:"accountName,omitempty"`
	AccountNumber  *string `json:"accountNumber,omitempty"`
	Branch         *string `json:"branch,omitempty"`
	Currency       *string `json:"currency,omitempty"`
	PayoutSchedule *string `json:"payoutSchedule,omitempty"`
}

// ApplySettlement edits the payout account. Changing where money goes puts a
// verified profile back to pending.
func (w *Workspace) ApplySettlement(u SettlementUpdate) {
	st := &w.Settlement
	before := st.BankName + "|" + st.AccountNumber + "|" + st.Branch
	set(&st.BankName, u.BankName)
	set(&st.AccountName, u.AccountName)
	set(&st.AccountNumber, u.AccountNumber)
	set(&st.Branch, u.Branch)
	set(&st.Currency, u.Currency)
	set(&st.PayoutSchedule, u.PayoutSchedule)
	if st.BankName+"|"+st.AccountNumber+"|"+st.Branch != before {
		st.Status = SettlementPending
	}
}

// ProductDraft is a new SKU as typed into the console.
type ProductDraft struct {
	Name         string             `json:"name"`
	Category     string             `json:"category,omitempty"`
	Price        int64              `json:"price"`
	Currency     string             `json:"currency,omitempty"`
	BaseAmount   int64              `json:"baseAmount,omitempty"`
	BonusAmount  int64              `json:"bonusAmount,omitempty"`
	Description  string             `json:"description,omitempty"`
	Icon         string             `json:"icon,omitempty"`
	GameItemID   string             `json:"gameItemId"`
	Limited      bool               `json:"limited,omitempty"`
	Subscription bool               `json:"subscription,omitempty"`
	Promotion    *catalog.Promotion `json:"promotion,omitempty"`
}

// AddProduct validates d and puts it at the top of the product list under id.
func (w *Workspace) AddProduct(id string, d ProductDraft) (catalog.Product, error) {
	if strings.TrimSpace(d.Name) == "" || d.Price <= 0 || strings.TrimSpace(d.GameItemID) == "" {
		return catalog.Product{}, ErrIncompleteDraft
	}
	p := catalog.Product{
		ID:           id,
		Name:         d.Name,
		Category:     d.Category,
		Price:        d.Price,
		Currency:     d.Currency,
		BaseAmount:   max(d.BaseAmount, 0),
		BonusAmount:  max(d.BonusAmount, 0),
		Description:  d.Description,
		Icon:         d.Icon,
		GameItemID:   d.GameItemID,
		Limited:      d.Limited,
		Subscription: d.Subscription,
	}
	if p.Category == "" {
		p.Category = "Standard top-up"
	}
	if p.Currency == "" {
		p.Currency = "JPY"
	}
	if d.Promotion != nil {
		promo := *d.Promotion
		p.Promotion = &promo
	}
	w.Store.Products = append([]catalog.Product{p}, w.Store.Products...)
	return p, nil
}

// MarkPublished stamps the publish time.
func (w *Workspace) MarkPublished(at time.Time) {
	w.LastPublish = at.Format(time.RFC3339)
}

const defaultCopy = "Better value than in-game purchases!!"

// PromoCopy joins up to three product promotions into one banner line.
func (w Workspace) PromoCopy() string {
	var parts []string
	for _, p := range w.Store.Products {
		if p.Promotion == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", p.Name, p.Promotion.Copy))
		if len(parts) == 3 {
			break
		}
	}
	if len(parts) == 0 {
		return defaultCopy
	}
	return strings.Join(parts, " / ")
}

// BonusAverage is the rounded mean bonus percent across products that carry
// a bonus.
func (w Workspace) BonusAverage() int {
	sum, n := 0, 0
	for _, p := range w.Store.Products {
		if pct, ok := catalog.BonusPercent(p.BaseAmount, p.BonusAmount); ok && pct > 0 {
			sum += pct
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return (sum + n/2) / n
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
