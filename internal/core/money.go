// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and rendering cents as dollar strings.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxCents bounds parsed amounts so that sums over a dataset stay in int64.
const maxCents = int64(1) << 53

// ParseDecimalToCents converts a decimal string to cents with half-up rounding.
//
// The decimal separator is a dot; commas are only accepted as thousands
// separators. Only strictly positive amounts are accepted, which is what
// entry forms need.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("1,234.50") -> 123450, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
//	ParseDecimalToCents("12,34") -> 0, ErrInvalidAmount
func ParseDecimalToCents(s string) (int64, error) {
	m, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	if m.Cents == 0 {
		return 0, ErrInvalidAmount
	}
	return m.Cents, nil
}

// ParseAmount parses a non-negative decimal amount, rounding half-up to cents.
// It accepts the format String produces: an optional "$" and comma-grouped
// thousands ("$1,234.56").
func ParseAmount(s string) (Money, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	s, ok := stripThousands(s)
	if !ok {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	if cents.IsNegative() || cents.GreaterThan(decimal.NewFromInt(maxCents)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Decimal returns the amount in dollars as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Dollars returns the value as a float64 for charting.
// Use cents for calculations.
func (m Money) Dollars() float64 {
	return m.Decimal().InexactFloat64()
}

// String renders "$1,234.56".
func (m Money) String() string {
	return "$" + groupThousands(m.Decimal().StringFixed(2))
}

// Compact renders whole dollars, "$12,580", for stat cards.
func (m Money) Compact() string {
	return "$" + groupThousands(m.Decimal().Round(0).StringFixed(0))
}

// stripThousands removes comma separators from the integer part. Every group
// after the first must have exactly three digits and the first must not
// start with 0, so "1,23" or "12,34" are rejected rather than misread.
func stripThousands(s string) (string, bool) {
	if !strings.Contains(s, ",") {
		return s, true
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if strings.Contains(frac, ",") {
		return "", false
	}
	groups := strings.Split(intPart, ",")
	first := groups[0]
	if len(first) == 0 || len(first) > 3 || first[0] == '0' {
		return "", false
	}
	for i, g := range groups {
		if i > 0 && len(g) != 3 {
			return "", false
		}
		for _, r := range g {
			if r < '0' || r > '9' {
				return "", false
			}
		}
	}
	out := strings.Join(groups, "")
	if hasFrac {
		out += "." + frac
	}
	return out, true
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if hasFrac {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
