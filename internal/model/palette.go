package model

import "fmt"

// Palette size bounds. A fresh or reset session starts with InitialPaletteSize colors.
const (
	MinPaletteSize     = 2
	MaxPaletteSize     = 8
	InitialPaletteSize = MinPaletteSize
)

// ValidateMasterPalette checks that a custom master palette can back every
// palette size up to MaxPaletteSize and that each entry is a hex color.
func ValidateMasterPalette(colors []string) error {
	if len(colors) < MaxPaletteSize {
		return fmt.Errorf("palette needs at least %d colors, got %d", MaxPaletteSize, len(colors))
	}
	for i, c := range colors {
		if !IsValidColor(c) {
			return fmt.Errorf("palette entry %d is not a hex color: %q", i, c)
		}
	}
	return nil
}

// NormalizePalette returns a copy of colors in "#rrggbb" form.
// Entries that aren't hex colors are copied unchanged.
func NormalizePalette(colors []string) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		if n, ok := NormalizeColor(c); ok {
			out[i] = n
		} else {
			out[i] = c
		}
	}
	return out
}
