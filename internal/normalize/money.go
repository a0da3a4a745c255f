package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CleanAmount strips every character that is not a digit or decimal point,
// so "11.38 GBP" and "£1,001.00" both parse. A value that strips to nothing
// is zero.
func CleanAmount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmountCents parses a raw amount into integer cents, rounding half up.
func ParseAmountCents(raw string) (int64, bool) {
	s := CleanAmount(raw)
	if s == "" {
		return 0, true // treated as zero, not an error
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Floor(f*100 + 0.5)), true
}

// FormatCents renders integer cents as a 2-decimal string.
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}

// SplitTotal decomposes gross cents into net and tax at the given rate using
// round-half-up on the net share. Tax is the exact remainder, so
// net + tax == gross always holds at 2-decimal precision.
func SplitTotal(grossCents int64, rate float64) (netCents, taxCents int64) {
	if rate <= 0 {
		return grossCents, 0
	}
	netCents = int64(math.Floor(float64(grossCents)/(1+rate) + 0.5))
	taxCents = grossCents - netCents
	return netCents, taxCents
}
