package engine

import (
	"encoding/json"
	"fmt"

	teamserr "github.com/amterp/teams/internal/errors"
)

// EventType names an event on the wire.
type EventType string

const (
	EventBuildRoster    EventType = "build_roster"
	EventResizePalette  EventType = "resize_palette"
	EventRecolorSlot    EventType = "recolor_slot"
	EventToggleAssign   EventType = "toggle_assign"
	EventSetActiveColor EventType = "set_active_color"
	EventAutoAssign     EventType = "auto_assign"
	EventReset          EventType = "reset"
)

// Event is a user action understood by Machine.Apply.
type Event interface {
	Type() EventType
}

// BuildRoster processes pasted names into a new roster.
type BuildRoster struct {
	Text string `json:"text"`
}

// ResizePalette changes the number of colors.
type ResizePalette struct {
	Size int `json:"size"`
}

// RecolorSlot changes one palette entry.
type RecolorSlot struct {
	Index int    `json:"index"`
	Color string `json:"color"`
}

// ToggleAssign assigns or unassigns one person. A non-empty RosterID pins
// the event to the roster the person id was read from.
type ToggleAssign struct {
	PersonID int    `json:"person_id"`
	RosterID string `json:"roster_id,omitempty"`
}

// SetActiveColor selects the color used by ToggleAssign.
type SetActiveColor struct {
	Color string `json:"color"`
}

// AutoAssign randomly distributes unassigned people.
type AutoAssign struct{}

// Reset returns to the initial state.
type Reset struct{}

func (BuildRoster) Type() EventType    { return EventBuildRoster }
func (ResizePalette) Type() EventType  { return EventResizePalette }
func (RecolorSlot) Type() EventType    { return EventRecolorSlot }
func (ToggleAssign) Type() EventType   { return EventToggleAssign }
func (SetActiveColor) Type() EventType { return EventSetActiveColor }
func (AutoAssign) Type() EventType     { return EventAutoAssign }
func (Reset) Type() EventType          { return EventReset }

// wireEvent is the union of every event's fields. Pointers distinguish a
// missing field from a zero value.
type wireEvent struct {
	Type     EventType `json:"type"`
	Text     *string   `json:"text,omitempty"`
	Size     *int      `json:"size,omitempty"`
	Index    *int      `json:"index,omitempty"`
	Color    *string   `json:"color,omitempty"`
	PersonID *int      `json:"person_id,omitempty"`
	RosterID string    `json:"roster_id,omitempty"`
}

// DecodeEvent parses the JSON form of an event, e.g.
// {"type": "toggle_assign", "person_id": 3}.
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, teamserr.InvalidField("event", fmt.Sprintf("malformed JSON: %v", err))
	}

	switch w.Type {
	case EventBuildRoster:
		if w.Text == nil {
			return nil, missingField(w.Type, "text")
		}
		return BuildRoster{Text: *w.Text}, nil
	case EventResizePalette:
		if w.Size == nil {
			return nil, missingField(w.Type, "size")
		}
		return ResizePalette{Size: *w.Size}, nil
	case EventRecolorSlot:
		if w.Index == nil || w.Color == nil {
			return nil, missingField(w.Type, "index and color")
		}
		return RecolorSlot{Index: *w.Index, Color: *w.Color}, nil
	case EventToggleAssign:
		if w.PersonID == nil {
			return nil, missingField(w.Type, "person_id")
		}
		return ToggleAssign{PersonID: *w.PersonID, RosterID: w.RosterID}, nil
	case EventSetActiveColor:
		if w.Color == nil {
			return nil, missingField(w.Type, "color")
		}
		return SetActiveColor{Color: *w.Color}, nil
	case EventAutoAssign:
		return AutoAssign{}, nil
	case EventReset:
		return Reset{}, nil
	case "":
		return nil, teamserr.InvalidField("event", "missing type")
	default:
		return nil, teamserr.InvalidField("event", fmt.Sprintf("unknown type %q", w.Type))
	}
}

// EncodeEvent returns the JSON form accepted by DecodeEvent.
func EncodeEvent(ev Event) ([]byte, error) {
	w := wireEvent{Type: ev.Type()}
	switch e := ev.(type) {
	case BuildRoster:
		w.Text = &e.Text
	case ResizePalette:
		w.Size = &e.Size
	case RecolorSlot:
		w.Index = &e.Index
		w.Color = &e.Color
	case ToggleAssign:
		w.PersonID = &e.PersonID
		w.RosterID = e.RosterID
	case SetActiveColor:
		w.Color = &e.Color
	}
	return json.Marshal(w)
}

func missingField(t EventType, field string) error {
	return teamserr.InvalidField("event", fmt.Sprintf("%s requires %s", t, field))
}
