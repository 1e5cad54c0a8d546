package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const defaultCurrency = "USD"

// SpeechSummary renders the one-line answer the voice assistant reads out
// for a product.
func SpeechSummary(p DisplayProduct) string {
	currency := p.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	price := decimal.NewFromFloat(p.Price).StringFixed(2)

	var b strings.Builder
	fmt.Fprintf(&b, "I found the %s.", p.Name)
	if p.VoiceDescription != nil {
		if vd := strings.TrimSpace(*p.VoiceDescription); vd != "" {
			b.WriteString(" ")
			b.WriteString(strings.TrimRight(vd, "."))
			b.WriteString(".")
		}
	}
	fmt.Fprintf(&b, " It costs %s %s.", currency, price)
	return b.String()
}
