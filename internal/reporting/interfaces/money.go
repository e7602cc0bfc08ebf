package interfaces

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySuffix is appended to formatted amounts.
const DefaultCurrencySuffix = "FG"

// FormatMoney renders an amount with a space every three integer digits and
// the currency suffix, e.g. "1 250 000 FG". Fractional digits are kept as is.
func FormatMoney(amount decimal.Decimal, suffix string) string {
	text := amount.String()
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(text, ".")

	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(' ')
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	if suffix != "" {
		b.WriteByte(' ')
		b.WriteString(suffix)
	}
	return b.String()
}
