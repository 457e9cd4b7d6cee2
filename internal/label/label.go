// Package label builds the human-readable text for measurement labels:
// cycling segment letters, distance/area formatting, and running totals.
package label

import "fmt"

// Letter returns the segment letter for the nth issued label. Letters cycle
// a..z and then repeat; the numeric group suffix keeps labels unique.
func Letter(n int) byte {
	if n < 0 {
		n = 0
	}
	return byte('a' + n%26)
}

// Segment composes a per-segment label: "<letter><groupIndex>: <distance>".
func Segment(lettersIssued, groupIndex int, meters float64) string {
	return fmt.Sprintf("%c%d: %s", Letter(lettersIssued), groupIndex, FormatDistance(meters))
}

// Total composes the running-total label anchored at a chain's last point.
func Total(meters float64) string {
	return "Total: " + FormatDistance(meters)
}

// FormatDistance renders meters below 1000 as "X.XXm", else "X.XXkm".
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.2fm", meters)
	}
	return fmt.Sprintf("%.2fkm", meters/1000)
}

// FormatArea renders square meters below 1,000,000 as "X.XXm²", else "X.XXkm²".
func FormatArea(squareMeters float64) string {
	if squareMeters < 1_000_000 {
		return fmt.Sprintf("%.2fm²", squareMeters)
	}
	return fmt.Sprintf("%.2fkm²", squareMeters/1_000_000)
}

// Area composes a polygon's area label.
func Area(squareMeters float64) string {
	return "Area: " + FormatArea(squareMeters)
}
