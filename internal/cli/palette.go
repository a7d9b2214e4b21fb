package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/amterp/ra"
)

func registerPalette(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("palette")
	cmd.SetDescription("Show the master color palette")

	ctx.PaletteJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.PaletteUsed, _ = parent.RegisterCmd(cmd)
}

func runPalette(jsonOutput bool, global globalFlags) {
	app, err := NewApp(global.options())
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	machine := app.Engine.Machine()
	out := NewPaletteOutput(machine.MasterPalette(), len(machine.Initial().Palette), app.Settings.HasCustomPalette())

	if jsonOutput {
		if err := printJson(out); err != nil {
			Fatal(err)
		}
		return
	}
	printPalette(os.Stdout, out)
}

func printPalette(w io.Writer, p PaletteOutput) {
	for _, c := range p.Colors {
		line := fmt.Sprintf("%s %d  %s", ColorSwatch(c.Color), c.Index+1, c.Color)
		if c.Initial {
			line += RenderMuted("  (initial)")
		}
		fmt.Fprintln(w, line)
	}

	source := "built-in"
	if p.Custom {
		source = "custom"
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, LabelValue("Sizes", fmt.Sprintf("%d to %d", p.MinSize, p.MaxSize), 8))
	fmt.Fprintln(w, LabelValue("Source", source, 8))
}
