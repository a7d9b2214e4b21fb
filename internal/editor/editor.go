package editor

import (
	"os"
	"os/exec"
	"strings"
)

// Editor handles editor resolution and invocation.
type Editor struct {
	configured string
}

// NewEditor creates a new Editor. configured is the editor from settings and may be empty.
func NewEditor(configured string) *Editor {
	return &Editor{configured: configured}
}

// Resolve returns the editor command to use.
// Order: settings > $VISUAL > $EDITOR > vim
func (e *Editor) Resolve() string {
	if e.configured != "" {
		return e.configured
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	return "vim"
}

// Edit opens the editor on a temp file holding content and returns what was saved.
func (e *Editor) Edit(content string) (string, error) {
	tmpFile, err := os.CreateTemp("", "teams-names-*.txt")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	// Editors configured with arguments, e.g. "code --wait"
	fields := strings.Fields(e.Resolve())
	cmd := exec.Command(fields[0], append(fields[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}
	return string(edited), nil
}
