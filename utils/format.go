package utils

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount as "$1,234,567.89" ("-$100.00" when negative).
func FormatCurrency(amount decimal.Decimal) string {
	return formatMoney(amount.Round(2), 2)
}

// FormatCurrencyExact keeps every significant decimal beyond the cents, so
// "$123.456789" is not shown as "$123.46".
func FormatCurrencyExact(amount decimal.Decimal) string {
	places := -amount.Exponent()
	if places < 2 {
		places = 2
	}
	return formatMoney(amount, places)
}

func formatMoney(amount decimal.Decimal, places int32) string {
	intPart, frac, _ := strings.Cut(amount.Abs().StringFixed(places), ".")
	frac = strings.TrimRight(frac, "0")
	for len(frac) < 2 {
		frac += "0"
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if amount.IsNegative() && !amount.Round(places).IsZero() {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}

// FormatPercent renders a percent value with four decimals, e.g. "5.2500%".
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(4) + "%"
}

func FormatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// FormatDate renders a date the way notices print it (MM/DD/YYYY).
func FormatDate(d civil.Date) string {
	return d.In(time.UTC).Format("01/02/2006")
}
