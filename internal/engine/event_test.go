package engine

import (
	"testing"

	teamserr "github.com/amterp/teams/internal/errors"
	"github.com/google/go-cmp/cmp"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Event
	}{
		{"build roster", `{"type":"build_roster","text":"Alice\nBob"}`, BuildRoster{Text: "Alice\nBob"}},
		{"resize", `{"type":"resize_palette","size":4}`, ResizePalette{Size: 4}},
		{"recolor", `{"type":"recolor_slot","index":0,"color":"#abc"}`, RecolorSlot{Index: 0, Color: "#abc"}},
		{"toggle zero id", `{"type":"toggle_assign","person_id":0}`, ToggleAssign{PersonID: 0}},
		{"toggle pinned", `{"type":"toggle_assign","person_id":2,"roster_id":"r7"}`, ToggleAssign{PersonID: 2, RosterID: "r7"}},
		{"active", `{"type":"set_active_color","color":"#3b82f6"}`, SetActiveColor{Color: "#3b82f6"}},
		{"auto", `{"type":"auto_assign"}`, AutoAssign{}},
		{"reset", `{"type":"reset"}`, Reset{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.json))
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("event mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeEvent_Invalid(t *testing.T) {
	inputs := []string{
		`not json`,
		`{}`,
		`{"type":"explode"}`,
		`{"type":"toggle_assign"}`,
		`{"type":"resize_palette"}`,
		`{"type":"recolor_slot","index":1}`,
		`{"type":"set_active_color"}`,
		`{"type":"build_roster"}`,
	}

	for _, in := range inputs {
		_, err := DecodeEvent([]byte(in))
		if err == nil {
			t.Errorf("DecodeEvent(%s): expected error", in)
			continue
		}
		if !teamserr.IsValidationError(err) {
			t.Errorf("DecodeEvent(%s): expected validation error, got %v", in, err)
		}
	}
}

func TestEncodeEvent_AcceptedByDecode(t *testing.T) {
	ev := RecolorSlot{Index: 2, Color: "#fff"}

	data, err := EncodeEvent(ev)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	got, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}
	if got != Event(ev) {
		t.Errorf("Expected %+v, got %+v", ev, got)
	}
}
