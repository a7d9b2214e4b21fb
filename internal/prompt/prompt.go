package prompt

import "errors"

// ErrNonInteractive is returned when prompting in non-interactive mode.
var ErrNonInteractive = errors.New("cannot prompt in non-interactive mode")

// Option is a choice shown to the user. Label is displayed, Value is returned.
type Option struct {
	Label string
	Value string
}

// Options builds options whose label and value are the same.
func Options(values ...string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Label: v, Value: v}
	}
	return opts
}

// Prompter defines the interface for interactive user prompts.
type Prompter interface {
	// Select presents options and returns the selected value.
	Select(title string, options []Option) (string, error)

	// Input prompts for a single line of text.
	Input(title string, defaultValue string) (string, error)

	// Text prompts for multi-line text, such as one name per line.
	Text(title string, placeholder string) (string, error)

	// Confirm prompts for yes/no.
	Confirm(title string, defaultValue bool) (bool, error)

	// MultiSelect allows selecting multiple options.
	MultiSelect(title string, options []Option) ([]string, error)
}

// NoopPrompter returns errors for all prompts (non-interactive mode).
type NoopPrompter struct{}

func (p *NoopPrompter) Select(title string, options []Option) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Input(title string, defaultValue string) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Text(title string, placeholder string) (string, error) {
	return "", ErrNonInteractive
}

func (p *NoopPrompter) Confirm(title string, defaultValue bool) (bool, error) {
	return false, ErrNonInteractive
}

func (p *NoopPrompter) MultiSelect(title string, options []Option) ([]string, error) {
	return nil, ErrNonInteractive
}
