package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestSeedInvariants(t *testing.T) {
	for _, s := range Seed() {
		assert.NoError(t, s.Validate())
		seen := map[string]bool{}
		for _, p := range s.Products {
			assert.False(t, seen[p.ID], "duplicate product %s in %s", p.ID, s.Slug)
			seen[p.ID] = true
			assert.Positive(t, p.Price)
		}
		for _, m := range s.PaymentMethods {
			assert.True(t, m.Valid(), "unknown payment method %q", m)
		}
	}
}

func TestValidateRejectsBrokenStores(t *testing.T) {
	s := Seed()[0]
	s.PaymentMethods = nil
	assert.ErrorIs(t, s.Validate(), ErrNoPaymentMethods)

	s = Seed()[0]
	s.PaymentMethods = []PaymentMethod{"Bitcoin"}
	assert.ErrorContains(t, s.Validate(), "unknown payment method")

	s = Seed()[0]
	s.Slug = ""
	assert.Error(t, s.Validate())
}

func TestMemoryLookup(t *testing.T) {
	m := NewMemory(Seed())

	s, err := m.Lookup(context.Background(), "a3-official")
	require.NoError(t, err)
	assert.Equal(t, "A3! Official Store", s.DisplayName)

	p, ok := s.Product("pack-limited-01")
	require.True(t, ok)
	assert.EqualValues(t, 10000, p.Price)
	assert.True(t, s.Accepts(PayPay))
	assert.False(t, s.Accepts(LinePay))

	_, err = m.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory(Seed())
	ctx := context.Background()

	s, err := m.Lookup(ctx, "a3-official")
	require.NoError(t, err)
	s.PaymentMethods[0] = LinePay
	s.Products[0].Promotion.Value = 99

	again, err := m.Lookup(ctx, "a3-official")
	require.NoError(t, err)
	assert.Equal(t, Visa, again.PaymentMethods[0])
	assert.Equal(t, 18, again.Products[0].Promotion.Value)
}

func TestFilters(t *testing.T) {
	stores := Seed()

	slugs := func(in []Storefront) []string {
		var out []string
		for _, s := range in {
			out = append(out, s.Slug)
		}
		return out
	}

	assert.Equal(t, []string{"a3-official"}, slugs(Apply(stores, FilterExclusive)))
	assert.Equal(t, []string{"a3-official", "mirage-saga"}, slugs(Apply(stores, FilterPayPay)))
	assert.Equal(t, []string{"a3-official"}, slugs(Apply(stores, FilterBonus10)))
	assert.Len(t, Apply(stores, FilterNone), 3)

	_, err := ParseFilter("cheapest")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	stores := Seed()

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"empty", Query{}, []string{"a3-official", "stella-stage", "mirage-saga"}},
		{"text_case_insensitive", Query{Text: "MIRAGE"}, []string{"mirage-saga"}},
		{"text_in_summary", Query{Text: "line pay installments"}, []string{"stella-stage"}},
		{"text_in_game_title", Query{Text: "act! addict"}, []string{"a3-official"}},
		{"text_no_match", Query{Text: "zzz"}, nil},
		{"payment", Query{Payment: Konbini}, []string{"stella-stage", "mirage-saga"}},
		{"payment_and_filter", Query{Filter: FilterPayPay, Payment: Konbini}, []string{"mirage-saga"}},
		{"text_and_payment", Query{Text: "japan", Payment: GooglePay}, []string{"mirage-saga"}},
		{"bonus10_and_payment", Query{Filter: FilterBonus10, Payment: Konbini}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range Search(stores, tt.query) {
				got = append(got, s.Slug)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBonusPercent(t *testing.T) {
	pct, ok := BonusPercent(820, 120)
	assert.True(t, ok)
	assert.Equal(t, 15, pct)

	_, ok = BonusPercent(1, 0)
	assert.False(t, ok)
	_, ok = BonusPercent(0, 10)
	assert.False(t, ok)
}

func TestFormatPriceRejectsUnknownCurrency(t *testing.T) {
	_, err := FormatPrice(100, "???", language.Japanese)
	assert.Error(t, err)

	out, err := FormatPrice(10000, "JPY", language.English)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
