package cli

import (
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// Global flags
	Verbose *bool
	Lang    *string

	// split command
	SplitUsed    *bool
	SplitFile    *string
	SplitColors  *int
	SplitPalette *[]string
	SplitAuto    *bool
	SplitSeed    *int
	SplitExport  *string
	SplitSave    *bool
	SplitJson    *bool

	// sort command
	SortUsed   *bool
	SortFile   *string
	SortSeed   *int
	SortEditor *bool

	// serve command
	ServeUsed   *bool
	ServePort   *int
	ServeNoOpen *bool
	ServeWatch  *string
	ServeSeed   *int

	// palette command
	PaletteUsed *bool
	PaletteJson *bool

	// lang command
	LangUsed    *bool
	LangSetUsed *bool
	LangSetCode *string
	LangSetJson *bool
	LangGetUsed *bool
	LangGetJson *bool

	// completion command
	CompletionUsed  *bool
	CompletionShell *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("teams")
	cmd.SetDescription("Split a list of names into color-coded groups")

	ctx.Verbose, _ = ra.NewBool("verbose").
		SetShort("v").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Log debug output to stderr").
		Register(cmd, ra.WithGlobal(true))

	ctx.Lang, _ = ra.NewString("lang").
		SetShort("L").
		SetOptional(true).
		SetFlagOnly(true).
		SetDefault("").
		SetUsage("Display language for this run (en, lv, ru)").
		SetCompletionFunc(completeLanguages).
		Register(cmd, ra.WithGlobal(true))

	// Register all subcommands
	registerSplit(cmd, ctx)
	registerSort(cmd, ctx)
	registerServe(cmd, ctx)
	registerPalette(cmd, ctx)
	registerLang(cmd, ctx)
	registerCompletion(cmd, ctx)

	// Parse command line
	cmd.ParseOrExit(os.Args[1:])

	// Execute the appropriate command
	executeCommand(ctx, cmd)
}

func executeCommand(ctx *CommandContext, rootCmd *ra.Cmd) {
	global := globalFlags{verbose: *ctx.Verbose, lang: *ctx.Lang}

	switch {
	case *ctx.SplitUsed:
		runSplit(splitFlags{
			file:    *ctx.SplitFile,
			colors:  *ctx.SplitColors,
			palette: *ctx.SplitPalette,
			auto:    *ctx.SplitAuto,
			seed:    *ctx.SplitSeed,
			export:  *ctx.SplitExport,
			save:    *ctx.SplitSave,
			json:    *ctx.SplitJson,
		}, global)

	case *ctx.SortUsed:
		runSort(*ctx.SortFile, *ctx.SortSeed, *ctx.SortEditor, global)

	case *ctx.ServeUsed:
		runServe(*ctx.ServePort, *ctx.ServeNoOpen, *ctx.ServeWatch, *ctx.ServeSeed, global)

	case *ctx.PaletteUsed:
		runPalette(*ctx.PaletteJson, global)

	case *ctx.LangSetUsed:
		runLangSet(*ctx.LangSetCode, *ctx.LangSetJson, global)

	case *ctx.LangGetUsed:
		runLangGet(*ctx.LangGetJson, global)

	case *ctx.LangUsed:
		runLangGet(false, global)

	case *ctx.CompletionUsed:
		runCompletion(*ctx.CompletionShell, rootCmd)
	}
}

// globalFlags are the flags every command accepts.
type globalFlags struct {
	verbose bool
	lang    string
}

func (g globalFlags) options() AppOptions {
	return AppOptions{Verbose: g.verbose, Lang: g.lang}
}
