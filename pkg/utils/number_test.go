package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatEuros(t *testing.T) {
	assert.Equal(t, "1243.50 €", FormatEuros(decimal.RequireFromString("1243.5")))
	assert.Equal(t, "0.00 €", FormatEuros(decimal.Zero))
}

func TestFormatEurosCompact(t *testing.T) {
	assert.Equal(t, "1244 €", FormatEurosCompact(decimal.RequireFromString("1243.50")))
	assert.Equal(t, "18 €", FormatEurosCompact(decimal.RequireFromString("18.00")))
}
