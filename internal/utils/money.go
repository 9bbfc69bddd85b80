package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCents renders integer cents as "$1,234.56". Negative amounts keep
// the sign ahead of the currency symbol.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, formatThousand(cents/100), cents%100)
}

// DollarsToCents converts a float dollar amount to integer cents, rounding
// half away from zero.
func DollarsToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CentsToDollars is the inverse of DollarsToCents for gateway payloads that
// speak in float units.
func CentsToDollars(cents int64) float64 {
	return float64(cents) / 100
}

// ParseDollarsToCents parses "$1,234.56" or "1234.56" into cents.
func ParseDollarsToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, fmt.Errorf("invalid amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %w", err)
	}
	return DollarsToCents(f), nil
}

func formatThousand(n int64) string {
	if n == 0 {
		return "0"
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}
