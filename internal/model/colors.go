package model

import (
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MasterPalette is the superset palette that resizing slices from.
// Growing the palette restores previously truncated entries, so it must
// hold at least MaxPaletteSize colors.
var MasterPalette = []string{
	"#ef4444", // red
	"#3b82f6", // blue
	"#22c55e", // green
	"#eab308", // yellow
	"#8b5cf6", // violet
	"#f97316", // orange
	"#14b8a6", // teal
	"#ec4899", // pink
}

// Text colors used on top of a group's background.
const (
	TextDark  = "#1e293b" // slate-800
	TextLight = "#f1f5f9" // slate-100
)

// ExportBackground is the canvas color behind exported group blocks.
const ExportBackground = "#1e293b"

var hexColorRegex = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// IsValidColor reports whether s is a 3 or 6 digit hex color, with or without '#'.
func IsValidColor(s string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(s))
}

// NormalizeColor returns the lowercase "#rrggbb" form of a hex color.
// Three digit forms are expanded. Returns false if s is not a hex color.
func NormalizeColor(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !hexColorRegex.MatchString(s) {
		return "", false
	}
	digits := strings.ToLower(strings.TrimPrefix(s, "#"))
	if len(digits) == 3 {
		var b strings.Builder
		for _, r := range digits {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		digits = b.String()
	}
	return "#" + digits, true
}

// ColorsEqual compares two colors, accepting both 3 and 6 digit forms and
// an optional '#'. Values that aren't hex colors only match exactly.
func ColorsEqual(a, b string) bool {
	na, okA := NormalizeColor(a)
	nb, okB := NormalizeColor(b)
	if okA && okB {
		return na == nb
	}
	return a == b
}

// ContainsColor returns true if palette holds a color equal to c.
func ContainsColor(palette []string, c string) bool {
	return IndexOfColor(palette, c) >= 0
}

// IndexOfColor returns the first palette index whose color equals c, or -1.
func IndexOfColor(palette []string, c string) int {
	for i, p := range palette {
		if ColorsEqual(p, c) {
			return i
		}
	}
	return -1
}

// ParseColor converts a hex color into a colorful.Color.
func ParseColor(s string) (colorful.Color, bool) {
	hex, ok := NormalizeColor(s)
	if !ok {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// TextColorFor picks dark or light text for readability on the given background.
// Empty or invalid backgrounds get light text.
func TextColorFor(background string) string {
	c, ok := ParseColor(background)
	if !ok {
		return TextLight
	}
	r, g, b := c.RGB255()
	luminance := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255
	if luminance > 0.6 {
		return TextDark
	}
	return TextLight
}
