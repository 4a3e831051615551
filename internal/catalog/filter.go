package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Filter narrows the storefront directory.
type Filter string

const (
	FilterNone      Filter = ""
	FilterExclusive Filter = "exclusive"
	FilterBonus10   Filter = "bonus10"
	FilterPayPay    Filter = "paypay"
)

// ParseFilter validates a directory filter value from a query string.
func ParseFilter(raw string) (Filter, error) {
	switch f := Filter(raw); f {
	case FilterNone, FilterExclusive, FilterBonus10, FilterPayPay:
		return f, nil
	default:
		return FilterNone, fmt.Errorf("unknown filter %q", raw)
	}
}

// BonusPercent is the bonus amount as a rounded share of the base amount.
// It reports false when the product carries no bonus.
func BonusPercent(base, bonus int64) (int, bool) {
	if bonus == 0 || base == 0 {
		return 0, false
	}
	return int(math.Round(float64(bonus) / float64(base) * 100)), true
}

// Match reports whether s passes filter f.
func (f Filter) Match(s Storefront) bool {
	switch f {
	case FilterExclusive:
		return s.Filters.Exclusive
	case FilterBonus10:
		return s.Filters.MinBonusPercent >= 10
	case FilterPayPay:
		return s.Accepts(PayPay)
	default:
		return true
	}
}

// Apply returns the stores that pass f, preserving order.
func Apply(stores []Storefront, f Filter) []Storefront {
	return Search(stores, Query{Filter: f})
}

// Query is a directory search. Every non-zero field must match.
type Query struct {
	Filter Filter
	// Text is matched case-insensitively against the display name, game
	// title and summary.
	Text    string
	Payment PaymentMethod
}

// Match reports whether s satisfies every part of q.
func (q Query) Match(s Storefront) bool {
	if q.Text != "" {
		haystack := strings.ToLower(strings.Join([]string{s.DisplayName, s.GameTitle, s.Summary}, " "))
		if !strings.Contains(haystack, strings.ToLower(q.Text)) {
			return false
		}
	}
	if q.Payment != "" && !s.Accepts(q.Payment) {
		return false
	}
	return q.Filter.Match(s)
}

// Search returns the stores matching q, preserving order.
func Search(stores []Storefront, q Query) []Storefront {
	out := make([]Storefront, 0, len(stores))
	for _, s := range stores {
		if q.Match(s) {
			out = append(out, s)
		}
	}
	return out
}
