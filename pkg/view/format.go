package view

import (
	"strings"
	"time"

	"github.com/Sternrassler/payments-view/pkg/i18n"
	"github.com/Sternrassler/payments-view/pkg/payments"
	"github.com/shopspring/decimal"
)

// DateLayout renders payment dates as dd/MM/yyyy, HH:mm:ss.
const DateLayout = "02/01/2006, 15:04:05"

// FormatDate renders an RFC 3339 timestamp in UTC. Input that does not parse
// is returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format(DateLayout)
}

// FormatAmount renders an amount with en-GB digit grouping and between two and
// three fraction digits, e.g. 1234.5 as "1,234.50".
func FormatAmount(d decimal.Decimal) string {
	s := d.Round(3).StringFixed(3)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	for len(frac) < 2 {
		frac += "0"
	}

	if sign == "-" && strings.Trim(intPart+frac, "0") == "" {
		sign = ""
	}

	return sign + groupThousands(intPart) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Customer returns the customer name or its placeholder.
func Customer(p payments.Payment) string {
	if p.CustomerName == "" {
		return i18n.EmptyCustomer
	}
	return p.CustomerName
}

// Currency returns the currency code or its placeholder.
func Currency(p payments.Payment) string {
	if p.Currency == "" {
		return i18n.EmptyCurrency
	}
	return p.Currency
}
