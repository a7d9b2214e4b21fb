package model

// Person is one entry of the roster.
// Color is empty while the person is unassigned.
type Person struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Assigned returns true if the person has a color.
func (p Person) Assigned() bool {
	return p.Color != ""
}
