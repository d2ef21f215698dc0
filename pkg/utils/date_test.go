package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), *date)

	date, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, date.IsZero())

	_, err = ParseDate("15/03/2025")
	assert.Error(t, err)
}

func TestMonthKey(t *testing.T) {
	date := time.Date(2025, 3, 15, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03", MonthKey(date))

	january := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01", MonthKey(january))
}

func TestValidMonthKey(t *testing.T) {
	assert.True(t, ValidMonthKey("2025-03"))
	assert.True(t, ValidMonthKey("1999-12"))

	assert.False(t, ValidMonthKey("2025-3"))
	assert.False(t, ValidMonthKey("2025-13"))
	assert.False(t, ValidMonthKey("03-2025"))
	assert.False(t, ValidMonthKey("2025-03-15"))
	assert.False(t, ValidMonthKey(""))
}
