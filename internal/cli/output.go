package cli

import (
	"fmt"
	"io"

	"github.com/amterp/teams/internal/i18n"
	"github.com/amterp/teams/internal/model"
)

// printSession writes the groups, the unassigned list and progress.
func printSession(w io.Writer, s model.Session, locale *i18n.Locale) {
	for _, g := range s.Groups() {
		header := fmt.Sprintf("%s %d", locale.T(i18n.KeyGroup), g.Index+1)
		active := ""
		if model.ColorsEqual(g.Color, s.ActiveColor) {
			active = " " + StyleBold.Render("●")
		}
		fmt.Fprintf(w, "\n%s %s%s\n", RenderChip(header, g.Color),
			RenderMuted(fmt.Sprintf("%s (%d)", g.Color, len(g.Members))), active)

		if len(g.Members) == 0 {
			fmt.Fprintf(w, "  %s\n", RenderMuted("-"))
			continue
		}
		for n, p := range g.Members {
			fmt.Fprintf(w, "  %d. %s\n", n+1, p.Name)
		}
	}

	unassigned := s.Unassigned()
	if len(unassigned) > 0 {
		fmt.Fprintf(w, "\n%s %s\n", RenderBold(locale.T(i18n.KeyUnassignedListTitle)),
			RenderMuted(fmt.Sprintf("(%d)", len(unassigned))))
		for _, p := range unassigned {
			fmt.Fprintf(w, "  %s  %s\n", RenderID(p.ID), p.Name)
		}
	}

	fmt.Fprintf(w, "\n%s\n", RenderProgress(locale.T(i18n.KeyAssignedProgress), s.Progress()))
}
