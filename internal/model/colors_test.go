package model

import "testing"

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#ef4444", "#ef4444", true},
		{"ef4444", "#ef4444", true},
		{"#EF4444", "#ef4444", true},
		{"#abc", "#aabbcc", true},
		{"ABC", "#aabbcc", true},
		{" #abc ", "#aabbcc", true},
		{"", "", false},
		{"#abcd", "", false},
		{"#gggggg", "", false},
		{"##abc", "", false},
		{"red", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeColor(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizeColor(%q) = (%q, %v), expected (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestColorsEqual(t *testing.T) {
	if !ColorsEqual("#fff", "FFFFFF") {
		t.Error("Expected short and long forms to be equal")
	}
	if ColorsEqual("#fff", "#fffffe") {
		t.Error("Expected different colors to differ")
	}
	if !ColorsEqual("bogus", "bogus") {
		t.Error("Expected identical non-hex values to match")
	}
	if ColorsEqual("bogus", "#bogus") {
		t.Error("Expected different non-hex values to differ")
	}
}

func TestIndexOfColor(t *testing.T) {
	palette := []string{"#ef4444", "#3b82f6", "#ef4444"}
	if got := IndexOfColor(palette, "EF4444"); got != 0 {
		t.Errorf("Expected first match at 0, got %d", got)
	}
	if got := IndexOfColor(palette, "#000"); got != -1 {
		t.Errorf("Expected -1 for missing color, got %d", got)
	}
}

func TestTextColorFor(t *testing.T) {
	tests := []struct {
		bg   string
		want string
	}{
		{"#eab308", TextDark},  // yellow is light
		{"#ffffff", TextDark},  // white
		{"#fff", TextDark},     // short form is expanded first
		{"#ef4444", TextLight}, // red
		{"#3b82f6", TextLight}, // blue
		{"#000", TextLight},
		{"", TextLight},
		{"nope", TextLight},
	}

	for _, tt := range tests {
		if got := TextColorFor(tt.bg); got != tt.want {
			t.Errorf("TextColorFor(%q) = %q, expected %q", tt.bg, got, tt.want)
		}
	}
}

func TestValidateMasterPalette(t *testing.T) {
	if err := ValidateMasterPalette(MasterPalette); err != nil {
		t.Errorf("Default palette should be valid: %v", err)
	}
	if err := ValidateMasterPalette(MasterPalette[:3]); err == nil {
		t.Error("Expected error for a palette shorter than the max size")
	}

	bad := append([]string{}, MasterPalette...)
	bad[4] = "purple"
	if err := ValidateMasterPalette(bad); err == nil {
		t.Error("Expected error for a non-hex entry")
	}
}
