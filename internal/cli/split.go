package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/amterp/ra"
	"github.com/amterp/teams/internal/engine"
	teamserr "github.com/amterp/teams/internal/errors"
	"github.com/amterp/teams/internal/export"
	"github.com/amterp/teams/internal/i18n"
	"github.com/amterp/teams/internal/model"
	"github.com/amterp/teams/internal/roster"
)

func registerSplit(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("split")
	cmd.SetDescription("Split names from a file or stdin into groups")

	ctx.SplitFile, _ = ra.NewString("file").
		SetOptional(true).
		SetDefault("").
		SetUsage("File with one name per line (default: stdin)").
		Register(cmd)

	ctx.SplitColors, _ = ra.NewInt("colors").
		SetShort("c").
		SetOptional(true).
		SetDefault(0).
		SetFlagOnly(true).
		SetUsage(fmt.Sprintf("Number of groups, %d to %d", model.MinPaletteSize, model.MaxPaletteSize)).
		Register(cmd)

	ctx.SplitPalette, _ = ra.NewStringSlice("palette").
		SetShort("p").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Group colors in order, e.g. -p '#ff0000' -p 0f0 (repeatable)").
		Register(cmd)

	ctx.SplitAuto, _ = ra.NewBool("auto").
		SetShort("a").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Randomly assign everyone to a group").
		Register(cmd)

	ctx.SplitSeed, _ = ra.NewInt("seed").
		SetOptional(true).
		SetDefault(0).
		SetFlagOnly(true).
		SetUsage("Seed for --auto, for repeatable results (0 = random)").
		Register(cmd)

	ctx.SplitExport, _ = ra.NewString("export").
		SetShort("e").
		SetOptional(true).
		SetDefault("").
		SetFlagOnly(true).
		SetUsage("Write a PNG of the groups into this directory, or '-' for stdout").
		Register(cmd)

	ctx.SplitSave, _ = ra.NewBool("save").
		SetShort("s").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Save a PNG of the groups into the configured export directory").
		Register(cmd)

	ctx.SplitJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(cmd)

	ctx.SplitUsed, _ = parent.RegisterCmd(cmd)
}

type splitFlags struct {
	file    string
	colors  int
	palette []string
	auto    bool
	seed    int
	export  string
	save    bool
	json    bool
}

func runSplit(flags splitFlags, global globalFlags) {
	if flags.export != "" && flags.save {
		Fatalf("--export and --save can't be combined")
	}

	text, err := readNames(flags.file, os.Stdin)
	if err != nil {
		Fatal(err)
	}

	opts := global.options()
	opts.Seed = uint64(flags.seed)
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	s, err := splitNames(app.Engine, text, flags)
	if err != nil {
		Fatal(err)
	}

	// With the image on stdout, everything else goes to stderr.
	out := io.Writer(os.Stdout)
	if flags.export == "-" {
		out = os.Stderr
	}

	var exported *export.Result
	if sink := splitSink(flags, app.ExportDir); sink != nil {
		// Details are logged by the exporter; the user gets the one generic message.
		res, err := app.Exporter.Export(context.Background(), s, sink)
		if err != nil {
			Fatalf("%s", app.Locale.T(i18n.KeyImageError))
		}
		exported = &res
	}

	if flags.json {
		if err := writeJson(out, NewSessionOutput(s, exported)); err != nil {
			Fatal(err)
		}
		return
	}

	printSession(out, s, app.Locale)
	if exported != nil && flags.export != "-" {
		fmt.Fprintln(out)
		PrintSuccess("%s %s", app.Locale.T(i18n.KeyImageSavedToDownloads), RenderURL(exported.Location))
	}
}

// readNames reads the names file, or r when file is empty or "-".
func readNames(file string, r io.Reader) (string, error) {
	var data []byte
	var err error
	if file == "" || file == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read names: %w", err)
	}

	text := string(data)
	if roster.IsBlank(text) {
		return "", teamserr.EmptyRoster()
	}
	return text, nil
}

// splitNames drives the engine through a whole non-interactive session.
func splitNames(eng *engine.Engine, text string, flags splitFlags) (model.Session, error) {
	size := flags.colors
	if size == 0 && len(flags.palette) > 0 {
		size = max(len(flags.palette), model.MinPaletteSize)
	}
	if size != 0 && (size < model.MinPaletteSize || size > model.MaxPaletteSize) {
		return model.Session{}, teamserr.InvalidField("colors",
			fmt.Sprintf("must be between %d and %d, got %d", model.MinPaletteSize, model.MaxPaletteSize, size))
	}
	if len(flags.palette) > max(size, len(eng.Snapshot().Palette)) {
		return model.Session{}, teamserr.InvalidField("palette",
			fmt.Sprintf("%d colors given for %d groups", len(flags.palette), size))
	}

	colors := make([]string, len(flags.palette))
	for i, c := range flags.palette {
		hex, ok := model.NormalizeColor(c)
		if !ok {
			return model.Session{}, teamserr.InvalidField("palette", fmt.Sprintf("%q is not a hex color", c))
		}
		colors[i] = hex
	}

	if size != 0 {
		eng.Dispatch(engine.ResizePalette{Size: size})
	}
	for i, c := range colors {
		eng.Dispatch(engine.RecolorSlot{Index: i, Color: c})
	}

	s := eng.Dispatch(engine.BuildRoster{Text: text})
	if flags.auto {
		s = eng.Dispatch(engine.AutoAssign{})
	}
	return s, nil
}

func splitSink(flags splitFlags, exportDir string) export.Sink {
	switch {
	case flags.export == "-":
		return export.WriterSink{W: os.Stdout}
	case flags.export != "":
		return export.DirSink{Dir: flags.export}
	case flags.save:
		return export.DirSink{Dir: exportDir}
	default:
		return nil
	}
}
