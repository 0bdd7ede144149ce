package render

import (
	"fmt"
	"math"
	"strings"
)

// minContrastRatio is the WCAG AA threshold for normal text.
const minContrastRatio = 4.5

// EnsureReadable returns color unchanged when it meets the minimum contrast
// ratio against a white background, otherwise a deterministically darkened
// variant that does. Malformed colors are returned unchanged; the renderer
// treats them as it always has.
func EnsureReadable(color string) string {
	r, g, b, ok := parseHex(color)
	if !ok {
		return color
	}
	if contrastAgainstWhite(r, g, b) >= minContrastRatio {
		return color
	}

	// Darken in fixed integer steps until readable. Integer math keeps the
	// substitution bit-for-bit identical across renderers.
	for i := 0; i < 16; i++ {
		r, g, b = r*4/5, g*4/5, b*4/5
		if contrastAgainstWhite(r, g, b) >= minContrastRatio {
			break
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// ContrastAgainstWhite exposes the ratio for validation and tests.
func ContrastAgainstWhite(color string) (float64, bool) {
	r, g, b, ok := parseHex(color)
	if !ok {
		return 0, false
	}
	return contrastAgainstWhite(r, g, b), true
}

func contrastAgainstWhite(r, g, b int) float64 {
	l := relativeLuminance(r, g, b)
	return 1.05 / (l + 0.05)
}

// relativeLuminance implements the WCAG 2.x formula.
func relativeLuminance(r, g, b int) float64 {
	return 0.2126*channel(r) + 0.7152*channel(g) + 0.0722*channel(b)
}

func channel(v int) float64 {
	s := float64(v) / 255.0
	if s <= 0.03928 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

func parseHex(color string) (int, int, int, bool) {
	c := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(color), "#"))
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return 0, 0, 0, false
	}
	var r, g, b int
	if _, err := fmt.Sscanf(strings.ToLower(c), "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, false
	}
	return r, g, b, true
}
