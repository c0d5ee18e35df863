package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234567, "-1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatThousands(tt.in))
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1234.56", FormatCurrency(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "0.14", FormatCurrency(decimal.RequireFromString("0.1387")))
	assert.Equal(t, "1.00", FormatCurrency(decimal.RequireFromString("1")))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0.72%", FormatPercent(0.72))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "5.00%", FormatPercent(5.004))
}

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 5.0, RoundWithTwoDecimalPlace(5.001))
	assert.Equal(t, 5.01, RoundWithTwoDecimalPlace(5.005))
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
}
