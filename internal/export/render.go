// Package export renders the assigned groups to an image and saves it.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"github.com/amterp/teams/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Capturer turns a session into an encoded image of its groups.
type Capturer interface {
	Capture(s model.Session) ([]byte, error)
	Ext() string
}

// Layout controls the geometry of rendered images, in pixels.
type Layout struct {
	BlockWidth int
	MaxColumns int
	Padding    int // inside each block
	Gap        int // between blocks and around the canvas
	LineHeight int
	FontSize   float64
	TitleSize  float64
}

// DefaultLayout mirrors the on-screen grid: 240px wide blocks, up to four per row.
func DefaultLayout() Layout {
	return Layout{
		BlockWidth: 240,
		MaxColumns: 4,
		Padding:    24,
		Gap:        24,
		LineHeight: 24,
		FontSize:   16,
		TitleSize:  22,
	}
}

// PNGRenderer draws one colored block per palette slot listing its members
// as "1. Name". Unassigned people and controls are not part of the image.
type PNGRenderer struct {
	layout Layout
	title  func() string

	// Parsed fonts are shared. Faces hold glyph buffers, so each render makes its own.
	once    sync.Once
	fontErr error
	regular *opentype.Font
	bold    *opentype.Font
}

// faces is the set of font faces used by one render.
type faces struct {
	body  font.Face
	title font.Face
}

func (f faces) Close() {
	f.body.Close()
	f.title.Close()
}

// NewPNGRenderer creates a renderer. title is called on every render, so it can
// follow the current language. A nil title, or one returning "", draws no heading.
func NewPNGRenderer(layout Layout, title func() string) *PNGRenderer {
	return &PNGRenderer{layout: layout, title: title}
}

// Ext returns the file extension of rendered images.
func (r *PNGRenderer) Ext() string {
	return "png"
}

// Capture renders s and encodes it as PNG.
func (r *PNGRenderer) Capture(s model.Session) ([]byte, error) {
	img, err := r.Render(s)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Render draws s onto a new image.
func (r *PNGRenderer) Render(s model.Session) (*image.RGBA, error) {
	groups := s.Groups()
	if len(groups) == 0 {
		return nil, fmt.Errorf("nothing to render: palette is empty")
	}

	ff, err := r.newFaces()
	if err != nil {
		return nil, err
	}
	defer ff.Close()

	l := r.layout
	cols := min(len(groups), l.MaxColumns)
	rows := (len(groups) + cols - 1) / cols

	// Each row is as tall as its longest group. Empty groups keep one line.
	rowHeights := make([]int, rows)
	for i, g := range groups {
		lines := max(len(g.Members), 1)
		h := 2*l.Padding + lines*l.LineHeight
		rowHeights[i/cols] = max(rowHeights[i/cols], h)
	}

	title := ""
	if r.title != nil {
		title = r.title()
	}

	titleHeight := 0
	if title != "" {
		titleHeight = int(l.TitleSize) + l.Gap
	}

	width := l.Gap + cols*(l.BlockWidth+l.Gap)
	height := l.Gap + titleHeight
	for _, h := range rowHeights {
		height += h + l.Gap
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, img.Bounds(), mustColor(model.ExportBackground))

	if title != "" {
		drawText(img, ff.title, mustColor(model.TextLight), l.Gap, l.Gap+int(l.TitleSize)-4, title)
	}

	y := l.Gap + titleHeight
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			i := row*cols + col
			if i >= len(groups) {
				break
			}
			x := l.Gap + col*(l.BlockWidth+l.Gap)
			r.drawGroup(img, ff.body, groups[i], image.Rect(x, y, x+l.BlockWidth, y+rowHeights[row]))
		}
		y += rowHeights[row] + l.Gap
	}

	return img, nil
}

func (r *PNGRenderer) drawGroup(img *image.RGBA, face font.Face, g model.Group, rect image.Rectangle) {
	l := r.layout
	bg, ok := model.ParseColor(g.Color)
	if !ok {
		// Unparseable colors can only come from SetActiveColor; draw them neutral.
		bg, _ = model.ParseColor(model.TextDark)
	}
	fill(img, rect, bg)

	textColor := mustColor(g.TextColor)
	maxWidth := l.BlockWidth - 2*l.Padding
	for n, p := range g.Members {
		line := fmt.Sprintf("%d. %s", n+1, p.Name)
		line = truncate(face, line, maxWidth)
		baseline := rect.Min.Y + l.Padding + (n+1)*l.LineHeight - l.LineHeight/4
		drawText(img, face, textColor, rect.Min.X+l.Padding, baseline, line)
	}
}

func (r *PNGRenderer) loadFonts() error {
	r.once.Do(func() {
		r.regular, r.fontErr = parseFont(goregular.TTF)
		if r.fontErr != nil {
			return
		}
		r.bold, r.fontErr = parseFont(gobold.TTF)
	})
	return r.fontErr
}

func (r *PNGRenderer) newFaces() (faces, error) {
	if err := r.loadFonts(); err != nil {
		return faces{}, err
	}
	body, err := newFace(r.regular, r.layout.FontSize)
	if err != nil {
		return faces{}, err
	}
	title, err := newFace(r.bold, r.layout.TitleSize)
	if err != nil {
		body.Close()
		return faces{}, err
	}
	return faces{body: body, title: title}, nil
}

func parseFont(ttf []byte) (*opentype.Font, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return f, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func fill(img *image.RGBA, rect image.Rectangle, c color.Color) {
	draw.Draw(img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawText(img *image.RGBA, face font.Face, c color.Color, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// truncate shortens s with an ellipsis until it fits maxWidth pixels.
func truncate(face font.Face, s string, maxWidth int) string {
	if font.MeasureString(face, s).Ceil() <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "…"
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			return candidate
		}
	}
	return "…"
}

func mustColor(hex string) color.Color {
	c, ok := model.ParseColor(hex)
	if !ok {
		panic(fmt.Sprintf("invalid built-in color %q", hex))
	}
	return c
}
