package templates

import (
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatCurrency renders an amount with thousands separators and exactly two decimals.
// An empty currency is treated as USD; unknown codes are printed as a prefix.
func FormatCurrency(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "USD"
	}

	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}

	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	// Group the integer part exactly; float conversion loses cents on large amounts.
	_, cents, _ := strings.Cut(rounded.StringFixed(2), ".")
	return sign + symbol + humanize.BigComma(rounded.Truncate(0).BigInt()) + "." + cents
}

// FormatNumber renders a float with thousands separators and two decimals
func FormatNumber(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// FormatPercent renders a percentage figure, or "N/A" when absent
func FormatPercent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return humanize.FormatFloat("#,###.##", *v) + "%"
}

// FormatRatio renders a ratio with two decimals
func FormatRatio(v float64) string {
	return humanize.FormatFloat("#.##", v)
}

// Funcs are available to every prompt template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"currency": FormatCurrency,
		"number":   FormatNumber,
		"percent":  FormatPercent,
		"ratio":    FormatRatio,
		"join":     strings.Join,
	}
}
