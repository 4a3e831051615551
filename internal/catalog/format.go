package catalog

import (
	"fmt"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPrice renders amount in the ISO currency code for the given locale,
// e.g. "¥ 10,000" for JPY. Unknown codes are an error.
func FormatPrice(amount int64, code string, tag language.Tag) (string, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("parse currency %q: %w", code, err)
	}
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(amount))), nil
}
