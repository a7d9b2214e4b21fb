package model

// Session is the whole assignment state: the roster, the current palette
// and the color used for manual assignment.
type Session struct {
	// RosterID changes every time a roster is built. Empty before the first build.
	RosterID    string   `json:"roster_id"`
	Roster      []Person `json:"roster"`
	Palette     []string `json:"palette"`
	ActiveColor string   `json:"active_color"`
}

// Group is the derived view of one palette slot and the people assigned to its color.
type Group struct {
	Index     int      `json:"index"`
	Color     string   `json:"color"`
	TextColor string   `json:"text_color"`
	Members   []Person `json:"members"`
}

// Progress counts assigned people against the roster size.
type Progress struct {
	Assigned int `json:"assigned"`
	Total    int `json:"total"`
}

// Clone returns a deep copy. Export works on clones so later transitions
// can't change an image that is being rendered.
func (s Session) Clone() Session {
	c := s
	if s.Roster != nil {
		c.Roster = make([]Person, len(s.Roster))
		copy(c.Roster, s.Roster)
	}
	if s.Palette != nil {
		c.Palette = make([]string, len(s.Palette))
		copy(c.Palette, s.Palette)
	}
	return c
}

// Person returns the roster entry with the given id.
func (s Session) Person(id int) (Person, bool) {
	for _, p := range s.Roster {
		if p.ID == id {
			return p, true
		}
	}
	return Person{}, false
}

// Groups returns one group per palette slot, in palette order.
// With duplicate palette colors, both slots list the same members.
func (s Session) Groups() []Group {
	groups := make([]Group, len(s.Palette))
	for i, color := range s.Palette {
		groups[i] = Group{
			Index:     i,
			Color:     color,
			TextColor: TextColorFor(color),
			Members:   []Person{},
		}
		for _, p := range s.Roster {
			if p.Assigned() && ColorsEqual(p.Color, color) {
				groups[i].Members = append(groups[i].Members, p)
			}
		}
	}
	return groups
}

// Unassigned returns the people without a color, in roster order.
func (s Session) Unassigned() []Person {
	out := []Person{}
	for _, p := range s.Roster {
		if !p.Assigned() {
			out = append(out, p)
		}
	}
	return out
}

// Progress returns how many people have a color.
func (s Session) Progress() Progress {
	prog := Progress{Total: len(s.Roster)}
	for _, p := range s.Roster {
		if p.Assigned() {
			prog.Assigned++
		}
	}
	return prog
}

// HasRoster returns true once names have been processed.
func (s Session) HasRoster() bool {
	return len(s.Roster) > 0
}
