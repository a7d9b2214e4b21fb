// Package roster turns pasted text into people.
package roster

import (
	"strings"

	"github.com/amterp/teams/internal/model"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Build splits text into lines, trims them and drops blank ones. Each
// remaining line becomes an unassigned person with a sequential id starting
// at zero. Duplicate names are kept.
func Build(text string) []model.Person {
	lines := strings.Split(lineBreaks.Replace(text), "\n")

	people := make([]model.Person, 0, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		people = append(people, model.Person{ID: len(people), Name: name})
	}
	return people
}

// IsBlank reports whether text has no names at all.
// Surfaces use it to refuse processing an empty list.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
