package render

import (
	"strings"

	"github.com/shopspring/decimal"

	"billgen/internal/bill"
)

// FormatINR formats an amount in Indian Rupee notation with two decimals,
// grouping digits the Indian way (₹1,23,45,678.90).
func FormatINR(amount float64) string {
	return formatIndian(decimal.NewFromFloat(amount), "₹")
}

// FormatRupees is FormatINR spelled with "Rs." for the PDF core fonts, which
// have no rupee glyph.
func FormatRupees(amount float64) string {
	return formatIndian(decimal.NewFromFloat(amount), "Rs. ")
}

// FormatAmount is FormatINR without the currency symbol, for table cells.
func FormatAmount(amount int64) string {
	return formatIndian(decimal.NewFromInt(amount), "")
}

func formatIndian(d decimal.Decimal, symbol string) string {
	negative := d.IsNegative()
	raw := d.Abs().StringFixed(2)

	intPart, decPart, _ := strings.Cut(raw, ".")
	result := symbol + applyIndianGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyIndianGrouping keeps the last three digits together and groups the
// rest in pairs.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}

// FormatQty prints whole quantities without decimals and anything else
// with two.
func FormatQty(qty float64) string {
	d := decimal.NewFromFloat(qty)
	if d.IsInteger() {
		return d.String()
	}
	return d.StringFixed(2)
}

func optQty(v bill.Opt[float64]) string {
	q, ok := v.Get()
	if !ok {
		return ""
	}
	return FormatQty(q)
}

func optAmount(v bill.Opt[int64]) string {
	a, ok := v.Get()
	if !ok {
		return ""
	}
	return FormatAmount(a)
}

func premiumLabel(p bill.PremiumTerms) string {
	pct := decimal.NewFromFloat(p.Percent).Shift(2)
	return "Tender Premium @ " + pct.StringFixed(2) + "% " + string(p.Type)
}
