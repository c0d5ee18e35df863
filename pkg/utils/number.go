package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// FormatCurrency formata um valor monetário com duas casas decimais
func FormatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatPercent formata um percentual com duas casas decimais e sufixo %
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", RoundWithTwoDecimalPlace(f))
}

// FormatThousands formata um inteiro com separador de milhar
func FormatThousands(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return sign + digits
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return sign + strings.Join(groups, ",")
}
