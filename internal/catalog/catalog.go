// Package catalog holds the read-only storefront reference data: stores, their
// products and the payment methods each store accepts.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrStoreNotFound    = errors.New("store not found")
	ErrNoPaymentMethods = errors.New("storefront accepts no payment methods")
)

// PaymentMethod is one of the checkout options a storefront can enable.
type PaymentMethod string

const (
	Visa       PaymentMethod = "Visa"
	Mastercard PaymentMethod = "Mastercard"
	JCB        PaymentMethod = "JCB"
	AMEX       PaymentMethod = "AMEX"
	PayPay     PaymentMethod = "PayPay"
	LinePay    PaymentMethod = "Line Pay"
	ApplePay   PaymentMethod = "Apple Pay"
	GooglePay  PaymentMethod = "Google Pay"
	Konbini    PaymentMethod = "Konbini"
)

// PaymentMethods lists every method the platform knows about, in display order.
var PaymentMethods = []PaymentMethod{Visa, Mastercard, JCB, AMEX, PayPay, LinePay, ApplePay, GooglePay, Konbini}

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return slices.Contains(PaymentMethods, m)
}

type LegalLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type PromotionType string

const (
	PromotionBonus    PromotionType = "bonus"
	PromotionDiscount PromotionType = "discount"
)

type Promotion struct {
	Type      PromotionType `json:"type"`
	Value     int           `json:"value"`
	Copy      string        `json:"copy"`
	Badge     string        `json:"badge,omitempty"`
	Highlight string        `json:"highlight,omitempty"`
}

// Product is a purchasable SKU. Price is a whole amount in Currency with no
// minor units.
type Product struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Category     string     `json:"category"`
	Price        int64      `json:"price"`
	Currency     string     `json:"currency"`
	BaseAmount   int64      `json:"baseAmount"`
	BonusAmount  int64      `json:"bonusAmount,omitempty"`
	Description  string     `json:"description,omitempty"`
	Icon         string     `json:"icon,omitempty"`
	GameItemID   string     `json:"gameItemId"`
	Limited      bool       `json:"limited,omitempty"`
	Subscription bool       `json:"subscription,omitempty"`
	Promotion    *Promotion `json:"promotion,omitempty"`
}

type Filters struct {
	CategoryTags    []string `json:"categoryTags"`
	MinBonusPercent int      `json:"minBonusPercent,omitempty"`
	Exclusive       bool     `json:"exclusive,omitempty"`
}

// Storefront is a merchant's shop keyed by Slug. PaymentMethods is never empty
// and is the source of truth for server-side order validation.
type Storefront struct {
	Slug                string          `json:"slug"`
	DisplayName         string          `json:"displayName"`
	GameTitle           string          `json:"gameTitle"`
	Logo                string          `json:"logo"`
	HeroImage           string          `json:"heroImage"`
	Tagline             string          `json:"tagline"`
	HighlightSlogan     string          `json:"highlightSlogan"`
	Summary             string          `json:"summary"`
	CompanyName         string          `json:"companyName"`
	ContactEmail        string          `json:"contactEmail"`
	SupportChannel      string          `json:"supportChannel"`
	StorefrontURL       string          `json:"storefrontUrl"`
	PrimaryColor        string          `json:"primaryColor"`
	PaymentMethods      []PaymentMethod `json:"paymentMethods"`
	Features            []string        `json:"features"`
	UserIdentifierLabel string          `json:"userIdentifierLabel"`
	UserIdentifierHint  string          `json:"userIdentifierHint"`
	LegalLinks          []LegalLink     `json:"legalLinks"`
	Products            []Product       `json:"products"`
	Filters             Filters         `json:"filters"`
}

// Product returns the product with the given id, if the store lists it.
func (s *Storefront) Product(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Accepts reports whether the store takes payment method m.
func (s *Storefront) Accepts(m PaymentMethod) bool {
	return slices.Contains(s.PaymentMethods, m)
}

// Validate checks what every loaded storefront must hold: a slug and at least
// one known payment method.
func (s *Storefront) Validate() error {
	if s.Slug == "" {
		return errors.New("storefront has no slug")
	}
	if len(s.PaymentMethods) == 0 {
		return fmt.Errorf("%s: %w", s.Slug, ErrNoPaymentMethods)
	}
	for _, m := range s.PaymentMethods {
		if !m.Valid() {
			return fmt.Errorf("%s: unknown payment method %q", s.Slug, m)
		}
	}
	return nil
}

// Clone returns a deep copy; the reference data is never handed out mutable.
func (s Storefront) Clone() Storefront {
	out := s
	out.PaymentMethods = slices.Clone(s.PaymentMethods)
	out.Features = slices.Clone(s.Features)
	out.LegalLinks = slices.Clone(s.LegalLinks)
	out.Filters.CategoryTags = slices.Clone(s.Filters.CategoryTags)
	out.Products = make([]Product, len(s.Products))
	for i, p := range s.Products {
		if p.Promotion != nil {
			promo := *p.Promotion
			p.Promotion = &promo
		}
		out.Products[i] = p
	}
	return out
}

// Source resolves storefronts. Implementations must treat the data as
// immutable for the duration of a request.
type Source interface {
	Lookup(ctx context.Context, slug string) (Storefront, error)
	List(ctx context.Context) ([]Storefront, error)
}

// Memory is a Source backed by an in-process slice.
type Memory struct {
	stores []Storefront
	index  map[string]int
}

// NewMemory copies stores into a new in-memory catalog.
func NewMemory(stores []Storefront) *Memory {
	m := &Memory{
		stores: make([]Storefront, len(stores)),
		index:  make(map[string]int, len(stores)),
	}
	for i, s := range stores {
		m.stores[i] = s.Clone()
		m.index[s.Slug] = i
	}
	return m
}

func (m *Memory) Lookup(_ context.Context, slug string) (Storefront, error) {
	i, ok := m.index[slug]
	if !ok {
		return Storefront{}, ErrStoreNotFound
	}
	return m.stores[i].Clone(), nil
}

func (m *Memory) List(_ context.Context) ([]Storefront, error) {
	out := make([]Storefront, len(m.stores))
	for i, s := range m.stores {
		out[i] = s.Clone()
	}
	return out, nil
}
