package domain

import "fmt"

// TaxRate is one selected tax, expressed in basis points (725 = 7.25%).
type TaxRate struct {
	Code    string
	RateBps int
}

// TaxLine is one computed entry of the tax breakdown.
type TaxLine struct {
	Code        string
	RateBps     int
	AmountMinor int64
}

// Totals holds the derived monetary summary of a draft.
type Totals struct {
	SubtotalMinor   int64
	TaxTotalMinor   int64
	GrandTotalMinor int64
	TaxBreakdown    []TaxLine
}

// FormatMinor renders a minor-unit amount as "USD 1234.56".
func FormatMinor(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, minor/100, minor%100)
}
