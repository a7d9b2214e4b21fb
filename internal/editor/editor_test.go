package editor

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolve_Order(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := NewEditor("").Resolve(); got != "vim" {
		t.Errorf("Expected vim fallback, got %q", got)
	}

	t.Setenv("EDITOR", "nano")
	if got := NewEditor("").Resolve(); got != "nano" {
		t.Errorf("Expected $EDITOR, got %q", got)
	}

	t.Setenv("VISUAL", "emacs")
	if got := NewEditor("").Resolve(); got != "emacs" {
		t.Errorf("Expected $VISUAL over $EDITOR, got %q", got)
	}

	if got := NewEditor("hx").Resolve(); got != "hx" {
		t.Errorf("Expected configured editor to win, got %q", got)
	}
}

func TestEdit_UnchangedContent(t *testing.T) {
	got, err := NewEditor("true").Edit("Alice\nBob\n")
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if got != "Alice\nBob\n" {
		t.Errorf("Expected content back unchanged, got %q", got)
	}
}

func TestEdit_ReadsWhatTheEditorSaved(t *testing.T) {
	script := filepath.Join(t.TempDir(), "fake-editor")
	body := "#!/bin/sh\nprintf 'Jānis\\nДмитрий\\n' > \"$1\"\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := NewEditor(script).Edit("")
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if got != "Jānis\nДмитрий\n" {
		t.Errorf("Unexpected content %q", got)
	}
}

func TestEdit_EditorFailure(t *testing.T) {
	if _, err := NewEditor("false").Edit("Alice"); err == nil {
		t.Fatal("Expected error when the editor exits non-zero")
	}
}
