// Package display renders the engine's raw display string into a
// bounded-width form suitable for presentation. Formatting is one way:
// the engine keeps parsing its own raw string, never the rendered one.
package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Thresholds beyond which a value is shown in scientific notation.
const (
	maxPlain      = 999999999
	minPlain      = 0.000001
	maxLiteralLen = 12
)

// Format maps a raw display string to its rendered form. The error
// marker and anything that fails to parse pass through unchanged.
func Format(text string) string {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text
	}

	abs := math.Abs(v)
	if abs > maxPlain || (abs < minPlain && v != 0) {
		return fmt.Sprintf("%e", v)
	}

	if strings.Contains(text, ".") && len(text) > maxLiteralLen {
		fixed := strconv.FormatFloat(v, 'f', 8, 64)
		fixed = strings.TrimRight(fixed, "0")
		return strings.TrimSuffix(fixed, ".")
	}

	return text
}
