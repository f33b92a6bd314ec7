// Package mortality builds the enriched 2019 non-fetal mortality dataset for
// Colombia and computes the ranked aggregates that feed the dashboard views.
// It has no I/O of its own: raw tables come in through a Loader.
package mortality

import (
	"math"
	"strconv"
	"strings"
)

// NullString is a string cell that may be absent. Joins and groupings treat
// an invalid value as "unmatched".
type NullString struct {
	String string
	Valid  bool
}

// NewString wraps a known-present value.
func NewString(s string) NullString {
	return NullString{String: s, Valid: true}
}

// Or returns the value, or def when the cell is absent.
func (ns NullString) Or(def string) string {
	if ns.Valid {
		return ns.String
	}
	return def
}

// NormalizeNumericCode converts a raw code cell into a canonical fixed-width
// string. Source tables store the same codes as ints, floats with a trailing
// ".0" or plain strings; all three must normalize to the same join key.
// Malformed or empty input never fails, it becomes an absent value.
func NormalizeNumericCode(raw string, width int) NullString {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NullString{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return NullString{}
	}
	code := strconv.FormatInt(int64(f), 10)
	for width > 0 && len(code) < width {
		code = "0" + code
	}
	return NewString(code)
}

// CleanString trims surrounding whitespace. Case folding is up to the caller,
// some fields only need trimming.
func CleanString(raw string) string {
	return strings.Trim(raw, " \n\t\r")
}

// cleanCell trims a raw cell and treats an empty result as absent.
func cleanCell(raw string) NullString {
	s := CleanString(raw)
	if s == "" {
		return NullString{}
	}
	return NewString(s)
}

// upperCell uppercases a cell, preserving absence.
func upperCell(ns NullString) NullString {
	if !ns.Valid {
		return ns
	}
	return NewString(strings.ToUpper(ns.String))
}
