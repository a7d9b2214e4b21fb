package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/amterp/teams/internal/model"
)

// GenerateFaviconSVG creates an SVG favicon with one vertical stripe per color.
// Invalid colors are skipped; with none left the master palette's first two are used.
func GenerateFaviconSVG(colors []string) string {
	valid := make([]string, 0, len(colors))
	for _, c := range colors {
		if hex, ok := model.NormalizeColor(c); ok {
			valid = append(valid, hex)
		}
	}
	if len(valid) == 0 {
		valid = model.MasterPalette[:model.MinPaletteSize]
	}

	var stripes strings.Builder
	width := 32.0 / float64(len(valid))
	for i, c := range valid {
		fmt.Fprintf(&stripes, `<rect x="%.2f" width="%.2f" height="32" fill="%s"/>`,
			float64(i)*width, width+0.01, c)
	}

	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 32 32"><clipPath id="r"><rect width="32" height="32" rx="6"/></clipPath><g clip-path="url(#r)">%s</g></svg>`,
		stripes.String(),
	)
}

// GetFavicon serves a favicon showing the current palette.
func (h *Handler) GetFavicon(w http.ResponseWriter, r *http.Request) {
	svg := GenerateFaviconSVG(h.engine.Snapshot().Palette)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(svg))
}
