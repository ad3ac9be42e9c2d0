// Copyright 2026 The Overweight Authors
// SPDX-License-Identifier: Apache-2.0

// Package sizeunit parses human-readable size strings ("10 kB",
// "2MiB", "1024") into byte counts and formats byte counts and signed
// deltas back into display strings.
//
// Parsing and formatting are independent operations: Format is lossy
// and human-oriented, so Format(Parse(s)) does not round-trip.
package sizeunit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// sizePattern matches a numeric value followed by an optional unit
// token. Whitespace is stripped before matching, so "10 kB" and
// "10kb" parse identically.
var sizePattern = regexp.MustCompile(`^(-?\d+(?:\.\d+)?(?:e[+-]?\d+)?)([a-z]*)$`)

// unitMultipliers maps lowercase unit tokens to their byte
// multipliers. Decimal units scale by powers of 1000, binary units
// (the *ib forms) by powers of 1024. A missing unit means bytes.
var unitMultipliers = map[string]float64{
	"":      1,
	"b":     1,
	"byte":  1,
	"bytes": 1,
	"k":     1000,
	"kb":    1000,
	"kib":   1024,
	"m":     1000 * 1000,
	"mb":    1000 * 1000,
	"mib":   1024 * 1024,
	"g":     1000 * 1000 * 1000,
	"gb":    1000 * 1000 * 1000,
	"gib":   1024 * 1024 * 1024,
}

// Parse converts a size string into a byte count, rounding to the
// nearest integer. Returns an error when the string does not match
// the <number><unit> shape, the unit is unrecognized, or the numeric
// part is not finite. Negative values parse successfully; callers
// that require non-negative budgets reject them with their own error.
func Parse(value string) (int64, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(value), ""))

	match := sizePattern.FindStringSubmatch(normalized)
	if match == nil {
		return 0, fmt.Errorf("sizeunit: cannot parse %q as a size", value)
	}

	number, err := strconv.ParseFloat(match[1], 64)
	if err != nil || math.IsInf(number, 0) || math.IsNaN(number) {
		return 0, fmt.Errorf("sizeunit: %q is not a finite number", value)
	}

	multiplier, ok := unitMultipliers[match[2]]
	if !ok {
		return 0, fmt.Errorf("sizeunit: unrecognized unit %q in %q", match[2], value)
	}

	return int64(math.Round(number * multiplier)), nil
}

// ParseValue converts a size of any supported dynamic type into a
// byte count. Numbers pass through unchanged (already bytes, rounded
// for floats); strings go through Parse. Any other type is an error.
func ParseValue(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float32:
		return ParseValue(float64(v))
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, fmt.Errorf("sizeunit: %v is not a finite number", v)
		}
		return int64(math.Round(v)), nil
	case string:
		return Parse(v)
	default:
		return 0, fmt.Errorf("sizeunit: unsupported size type %T", value)
	}
}

// decimalUnits are the display units used by Format, in ascending
// order of magnitude.
var decimalUnits = []string{"B", "kB", "MB", "GB", "TB"}

// Format renders a byte count as a human-readable decimal (1000-based)
// size string. Negative input is clamped to 0.
func Format(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	if bytes < 1000 {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	unit := 0
	for value >= 1000 && unit < len(decimalUnits)-1 {
		value /= 1000
		unit++
	}

	// Two fractional digits, trailing zeros trimmed: 1.5 kB, 1.25 MB.
	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	formatted = strings.TrimRight(formatted, "0")
	formatted = strings.TrimRight(formatted, ".")
	return formatted + " " + decimalUnits[unit]
}

// FormatDiff renders a signed byte delta: "0 B" for zero, otherwise
// an explicit +/- sign followed by the formatted magnitude.
func FormatDiff(diff int64) string {
	switch {
	case diff == 0:
		return "0 B"
	case diff > 0:
		return "+" + Format(diff)
	default:
		return "-" + Format(-diff)
	}
}
