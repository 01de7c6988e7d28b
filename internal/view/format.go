package view

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders d the pt-BR way with two fraction digits: 1.299,90.
// Halves round away from zero.
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	intPart, frac, _ := strings.Cut(strings.TrimPrefix(s, "-"), ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// FormatBRL renders d as a real amount: R$ 1.299,90.
func FormatBRL(d decimal.Decimal) string {
	amount := FormatAmount(d)
	if rest, ok := strings.CutPrefix(amount, "-"); ok {
		return "-R$ " + rest
	}
	return "R$ " + amount
}
