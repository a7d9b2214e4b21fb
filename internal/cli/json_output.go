package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/amterp/teams/internal/export"
	"github.com/amterp/teams/internal/i18n"
	"github.com/amterp/teams/internal/model"
)

// personJson is a person without the color, which the enclosing group already gives.
type personJson struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// groupJson is one palette slot and its members for JSON output.
type groupJson struct {
	Index     int          `json:"index"`
	Color     string       `json:"color"`
	TextColor string       `json:"text_color"`
	Members   []personJson `json:"members"`
}

func toPeopleJson(people []model.Person) []personJson {
	result := make([]personJson, 0, len(people))
	for _, p := range people {
		result = append(result, personJson{ID: p.ID, Name: p.Name})
	}
	return result
}

func groupToJson(g model.Group) groupJson {
	return groupJson{
		Index:     g.Index,
		Color:     g.Color,
		TextColor: g.TextColor,
		Members:   toPeopleJson(g.Members),
	}
}

// SessionOutput wraps the result of a split for JSON output.
type SessionOutput struct {
	RosterID    string         `json:"roster_id"`
	Palette     []string       `json:"palette"`
	ActiveColor string         `json:"active_color"`
	Groups      []groupJson    `json:"groups"`
	Unassigned  []personJson   `json:"unassigned"`
	Progress    model.Progress `json:"progress"`
	Export      *export.Result `json:"export,omitempty"`
}

// NewSessionOutput creates a SessionOutput from a session.
// Always returns empty arrays (not null) for groups and people.
func NewSessionOutput(s model.Session, exported *export.Result) SessionOutput {
	groups := s.Groups()
	result := make([]groupJson, len(groups))
	for i, g := range groups {
		result[i] = groupToJson(g)
	}

	palette := s.Palette
	if palette == nil {
		palette = []string{}
	}

	return SessionOutput{
		RosterID:    s.RosterID,
		Palette:     palette,
		ActiveColor: s.ActiveColor,
		Groups:      result,
		Unassigned:  toPeopleJson(s.Unassigned()),
		Progress:    s.Progress(),
		Export:      exported,
	}
}

// PaletteColor is one master palette entry for JSON output.
type PaletteColor struct {
	Index     int    `json:"index"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
	Initial   bool   `json:"initial"` // part of a fresh session's palette
}

// PaletteOutput wraps the master palette for JSON output.
type PaletteOutput struct {
	Colors  []PaletteColor `json:"colors"`
	MinSize int            `json:"min_size"`
	MaxSize int            `json:"max_size"`
	Custom  bool           `json:"custom"`
}

// NewPaletteOutput creates a PaletteOutput from the master palette and initial size.
func NewPaletteOutput(master []string, initialSize int, custom bool) PaletteOutput {
	colors := make([]PaletteColor, len(master))
	for i, c := range master {
		colors[i] = PaletteColor{
			Index:     i,
			Color:     c,
			TextColor: model.TextColorFor(c),
			Initial:   i < initialSize,
		}
	}
	return PaletteOutput{
		Colors:  colors,
		MinSize: model.MinPaletteSize,
		MaxSize: model.MaxPaletteSize,
		Custom:  custom,
	}
}

// LanguageOutput wraps the language setting for JSON output.
type LanguageOutput struct {
	Language  i18n.Language   `json:"language"`
	Name      string          `json:"name"`
	Supported []i18n.Language `json:"supported"`
	Saved     bool            `json:"saved,omitempty"`
}

// NewLanguageOutput creates a LanguageOutput for lang.
func NewLanguageOutput(lang i18n.Language, saved bool) LanguageOutput {
	return LanguageOutput{
		Language:  lang,
		Name:      i18n.Names[lang],
		Supported: i18n.Supported,
		Saved:     saved,
	}
}

// printJson marshals the value as indented JSON and prints it to stdout.
func printJson(v any) error {
	return writeJson(os.Stdout, v)
}

func writeJson(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
