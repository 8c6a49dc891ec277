package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders v as Brazilian reais, e.g. "R$ 12.000,00".
func FormatBRL(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	return "R$ " + sign + b.String() + "," + frac
}
