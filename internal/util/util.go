// Package util provides the text formatting and parsing shared by the panel
// widgets.
package util

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by ParseNumber for text that is not a finite number.
var ErrNotANumber = errors.New("not a number")

// FormatRounded renders v rounded to the nearest integer, halves towards
// positive infinity, without a sign on zero.
func FormatRounded(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	r := math.Floor(v + 0.5)
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}

// FormatNumber renders v with the fewest digits that round-trip.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseNumber parses operator input into a finite float.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNotANumber
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	return v, nil
}

// ShipSummary is the list row text for a ship: "<speed>kts / <heading>°".
func ShipSummary(speed, heading float64) string {
	var b strings.Builder
	b.WriteString(FormatRounded(speed))
	b.WriteString("kts / ")
	b.WriteString(FormatRounded(heading))
	b.WriteString("°")
	return b.String()
}

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
