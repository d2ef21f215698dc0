package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatEuros renders a decimal amount for chart and dashboard labels.
func FormatEuros(d decimal.Decimal) string {
	return fmt.Sprintf("%s €", d.StringFixed(2))
}

// FormatEurosCompact drops the cents, used on crowded chart annotations.
func FormatEurosCompact(d decimal.Decimal) string {
	return fmt.Sprintf("%s €", d.Round(0).String())
}
