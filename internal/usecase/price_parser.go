package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// priceRunRegex matches the first numeric run of a free-text price, e.g.
// "1 299,00" in "1 299,00 kr" or "1,299.99" in "$1,299.99".
var priceRunRegex = regexp.MustCompile(`-?\d[\d\s.,'\x{00A0}\x{202F}]*`)

// ParsePrice normalizes a free-text price into a number.
//
// Whitespace and apostrophes are grouping. Of the '.' and ',' separators, the
// last one is the decimal point when both kinds appear, or when it appears once
// and is not followed by exactly three digits ("19,95", "12.5"). Everything
// else is grouping ("1,299", "1.234.567"). Returns false when no digits are
// found or the result is not a finite, nonnegative number.
func ParsePrice(raw string) (float64, bool) {
	run := priceRunRegex.FindString(raw)
	if run == "" {
		return 0, false
	}

	compact := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			return r
		default:
			return -1
		}
	}, run)
	compact = strings.TrimRight(compact, ".,")

	decimalAt := decimalSeparatorIndex(compact)

	var b strings.Builder
	for i, r := range compact {
		switch {
		case r == '-' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case i == decimalAt:
			b.WriteByte('.')
		}
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return validPrice(value)
}

// decimalSeparatorIndex returns the byte index of the decimal separator in s,
// or -1 when every separator is grouping.
func decimalSeparatorIndex(s string) int {
	last := strings.LastIndexAny(s, ".,")
	if last < 0 {
		return -1
	}

	sep := s[last]
	other := byte(',')
	if sep == ',' {
		other = '.'
	}
	head := s[:last]

	if strings.IndexByte(head, other) >= 0 {
		return last
	}
	if strings.IndexByte(head, sep) >= 0 {
		return -1
	}
	if len(s)-last-1 != 3 || strings.TrimLeft(head, "-") == "0" {
		return last
	}
	return -1
}

// parseStructuredPrice parses a machine-readable price (schema.org uses '.'
// as decimal point) and falls back to free-text parsing.
func parseStructuredPrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		return validPrice(value)
	}
	return ParsePrice(raw)
}

// validPrice keeps finite, nonnegative prices.
func validPrice(value float64) (float64, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0, false
	}
	if value == 0 {
		return 0, true
	}
	return value, true
}
