// Package engine holds the assignment state machine: palette sizing and
// recoloring, manual toggling, random auto-assignment and reset.
//
// Every transition takes a session and returns a new one. The input is
// never modified, so a half-applied transition can't be observed.
package engine

import (
	"math/rand/v2"
	"slices"

	"github.com/amterp/teams/internal/id"
	"github.com/amterp/teams/internal/model"
	"github.com/amterp/teams/internal/roster"
)

// Machine applies transitions to sessions. It is not safe for concurrent
// use because it owns the random source; Engine serializes access.
type Machine struct {
	master      []string
	initialSize int
	rand        *rand.Rand
	newRosterID func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithMasterPalette replaces the default master palette. The caller is
// expected to validate it with model.ValidateMasterPalette.
func WithMasterPalette(colors []string) Option {
	return func(m *Machine) {
		m.master = model.NormalizePalette(colors)
	}
}

// WithInitialSize sets the palette size of a fresh session.
// Sizes outside the allowed range are ignored.
func WithInitialSize(size int) Option {
	return func(m *Machine) {
		if size >= model.MinPaletteSize && size <= model.MaxPaletteSize {
			m.initialSize = size
		}
	}
}

// WithRand injects the random source used by AutoAssign.
func WithRand(r *rand.Rand) Option {
	return func(m *Machine) {
		m.rand = r
	}
}

// WithRosterIDs injects the generator for roster IDs.
func WithRosterIDs(fn func() string) Option {
	return func(m *Machine) {
		m.newRosterID = fn
	}
}

// NewMachine creates a machine backed by model.MasterPalette unless overridden.
func NewMachine(opts ...Option) *Machine {
	m := &Machine{
		master:      model.NormalizePalette(model.MasterPalette),
		initialSize: model.InitialPaletteSize,
		newRosterID: id.Generate,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rand == nil {
		m.rand = NewRand(0)
	}
	return m
}

// MasterPalette returns a copy of the palette that resizing slices from.
func (m *Machine) MasterPalette() []string {
	return slices.Clone(m.master)
}

// Initial returns the state of a fresh session: no roster, the smallest
// palette and its first color active.
func (m *Machine) Initial() model.Session {
	palette := slices.Clone(m.master[:m.initialSize])
	return model.Session{
		Roster:      []model.Person{},
		Palette:     palette,
		ActiveColor: palette[0],
	}
}

// Apply dispatches an event to its transition. Unknown events leave the
// session unchanged.
func (m *Machine) Apply(ev Event, s model.Session) model.Session {
	switch e := ev.(type) {
	case BuildRoster:
		return m.BuildRoster(s, e.Text)
	case ResizePalette:
		return m.ResizePalette(s, e.Size)
	case RecolorSlot:
		return m.RecolorSlot(s, e.Index, e.Color)
	case ToggleAssign:
		// Ids restart with every roster, so an id from an older one names someone else.
		if e.RosterID != "" && e.RosterID != s.RosterID {
			return s
		}
		return m.ToggleAssign(s, e.PersonID)
	case SetActiveColor:
		return m.SetActiveColor(s, e.Color)
	case AutoAssign:
		return m.AutoAssign(s)
	case Reset:
		return m.Reset(s)
	default:
		return s
	}
}

// BuildRoster replaces the roster with people parsed from text.
// Old ids are discarded and a new roster id is issued.
func (m *Machine) BuildRoster(s model.Session, text string) model.Session {
	next := s.Clone()
	next.Roster = roster.Build(text)
	next.RosterID = m.newRosterID()
	return next
}

// ResizePalette takes the first size colors of the master palette.
// The active color falls back to the first slot if it was dropped, and
// people holding a dropped color become unassigned.
func (m *Machine) ResizePalette(s model.Session, size int) model.Session {
	if size < model.MinPaletteSize || size > model.MaxPaletteSize || size > len(m.master) {
		return s
	}

	next := s.Clone()
	next.Palette = slices.Clone(m.master[:size])

	if !model.ContainsColor(next.Palette, next.ActiveColor) {
		next.ActiveColor = next.Palette[0]
	}

	for i, p := range next.Roster {
		if p.Assigned() && !model.ContainsColor(next.Palette, p.Color) {
			next.Roster[i].Color = ""
		}
	}
	return next
}

// RecolorSlot replaces the color at index. People with the old color move
// to the new one, and so does the active color.
//
// Colors are matched by value, so with duplicate palette entries every slot
// sharing the old color loses its members to the new color.
func (m *Machine) RecolorSlot(s model.Session, index int, color string) model.Session {
	if index < 0 || index >= len(s.Palette) {
		return s
	}
	newColor, ok := model.NormalizeColor(color)
	if !ok {
		return s
	}

	next := s.Clone()
	oldColor := next.Palette[index]
	next.Palette[index] = newColor

	for i, p := range next.Roster {
		if p.Assigned() && model.ColorsEqual(p.Color, oldColor) {
			next.Roster[i].Color = newColor
		}
	}

	if model.ColorsEqual(next.ActiveColor, oldColor) {
		next.ActiveColor = newColor
	}
	return next
}

// ToggleAssign unassigns a person who has any color, otherwise gives them
// the active color.
func (m *Machine) ToggleAssign(s model.Session, personID int) model.Session {
	idx := slices.IndexFunc(s.Roster, func(p model.Person) bool { return p.ID == personID })
	if idx < 0 {
		return s
	}

	next := s.Clone()
	if next.Roster[idx].Assigned() {
		next.Roster[idx].Color = ""
	} else {
		next.Roster[idx].Color = next.ActiveColor
	}
	return next
}

// SetActiveColor selects the color for manual assignment. No validation.
func (m *Machine) SetActiveColor(s model.Session, color string) model.Session {
	next := s.Clone()
	next.ActiveColor = color
	return next
}

// AutoAssign shuffles the unassigned people and deals palette colors to them
// round-robin. Assigned people keep their color. The roster comes back
// sorted by id.
func (m *Machine) AutoAssign(s model.Session) model.Session {
	if len(s.Palette) == 0 {
		return s
	}

	var assigned, unassigned []model.Person
	for _, p := range s.Roster {
		if p.Assigned() {
			assigned = append(assigned, p)
		} else {
			unassigned = append(unassigned, p)
		}
	}
	if len(unassigned) == 0 {
		return s
	}

	Shuffle(m.rand, unassigned)
	for k := range unassigned {
		unassigned[k].Color = s.Palette[k%len(s.Palette)]
	}

	next := s.Clone()
	next.Roster = append(assigned, unassigned...)
	slices.SortFunc(next.Roster, func(a, b model.Person) int { return a.ID - b.ID })
	return next
}

// Reset discards everything and returns the initial session.
func (m *Machine) Reset(model.Session) model.Session {
	return m.Initial()
}
