// Package util provides small parsing helpers shared by the UI bridges.
package util

import (
	"fmt"
	"strconv"
	"strings"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// ParsePositionArray parses a bracketed numeric array like "[12.5, 3.75]"
// or "[12.5,3.75,140]" into its components. Two or three components are
// accepted; anything else is an error.
func ParsePositionArray(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("not a bracketed array: %q", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("expected 2 or 3 components, got %d", len(parts))
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// FormatPositionArray renders components back into the bracketed form the
// bridges speak.
func FormatPositionArray(components []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range components {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}
