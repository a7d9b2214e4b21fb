package cli

import (
	"fmt"
	"os"

	"github.com/amterp/teams/internal/config"
	"github.com/amterp/teams/internal/engine"
	"github.com/amterp/teams/internal/export"
	"github.com/amterp/teams/internal/i18n"
	"github.com/amterp/teams/internal/logging"
	"github.com/amterp/teams/internal/model"
	"github.com/amterp/teams/internal/prompt"
	"github.com/amterp/teams/internal/store"
	"go.uber.org/zap"
)

// AppOptions are the per-run settings taken from global and command flags.
type AppOptions struct {
	Interactive bool
	Server      bool
	Verbose     bool
	Lang        string // overrides the configured language for this run
	Seed        uint64 // 0 picks a random seed
}

// App holds all the dependencies for the CLI.
type App struct {
	Paths         *config.Paths
	SettingsStore store.SettingsStore
	Settings      *model.Settings
	Locale        *i18n.Locale
	Logger        *zap.Logger
	Prompter      prompt.Prompter
	Engine        *engine.Engine
	Exporter      *export.Exporter
	ExportDir     string
}

// NewApp creates a new App with all dependencies wired up.
// If interactive is false, uses NoopPrompter that fails on prompts.
func NewApp(opts AppOptions) (*App, error) {
	return newApp(opts, config.DefaultPaths())
}

func newApp(opts AppOptions, paths *config.Paths) (*App, error) {
	level := logging.CLILevel
	if opts.Server {
		level = logging.ServerLevel
	}
	logger, err := logging.New(level, opts.Verbose)
	if err != nil {
		return nil, err
	}

	settingsStore := store.NewSettingsStore(paths.ConfigPath())

	// Load settings with warnings (don't silently ignore errors)
	settings, err := settingsStore.Load()
	if err != nil {
		PrintWarning("failed to load settings: %v", err)
		settings = &model.Settings{}
	}

	lang, err := resolveLanguage(opts.Lang, settings)
	if err != nil {
		return nil, err
	}
	locale := i18n.Global()
	locale.Set(lang)

	machine := engine.NewMachine(machineOptions(settings, opts.Seed)...)
	eng := engine.New(machine, logger.Named("engine"))

	renderer := export.NewPNGRenderer(export.DefaultLayout(), func() string {
		return locale.T(i18n.KeyShareTitle)
	})
	exporter := export.NewExporter(renderer, logger.Named("export"))

	var prompter prompt.Prompter
	if opts.Interactive {
		prompter = prompt.NewHuhPrompter()
	} else {
		prompter = &prompt.NoopPrompter{}
	}

	return &App{
		Paths:         paths,
		SettingsStore: settingsStore,
		Settings:      settings,
		Locale:        locale,
		Logger:        logger,
		Prompter:      prompter,
		Engine:        eng,
		Exporter:      exporter,
		ExportDir:     exportDir(paths, settings),
	}, nil
}

// resolveLanguage picks the flag value, then the configured language, then the default.
// A bad flag is an error; a bad config value only warns.
func resolveLanguage(flag string, settings *model.Settings) (i18n.Language, error) {
	if flag != "" {
		return i18n.Parse(flag)
	}
	if settings.Language != "" {
		lang, err := i18n.Parse(settings.Language)
		if err != nil {
			PrintWarning("ignoring configured language: %v", err)
			return i18n.Default, nil
		}
		return lang, nil
	}
	return i18n.Default, nil
}

func machineOptions(settings *model.Settings, seed uint64) []engine.Option {
	opts := []engine.Option{engine.WithRand(engine.NewRand(seed))}

	if settings.HasCustomPalette() {
		if err := model.ValidateMasterPalette(settings.Palette); err != nil {
			PrintWarning("ignoring configured palette: %v", err)
		} else {
			opts = append(opts, engine.WithMasterPalette(settings.Palette))
		}
	}
	if settings.InitialSize != 0 {
		if settings.InitialSize < model.MinPaletteSize || settings.InitialSize > model.MaxPaletteSize {
			PrintWarning("ignoring initial_size %d: must be between %d and %d",
				settings.InitialSize, model.MinPaletteSize, model.MaxPaletteSize)
		} else {
			opts = append(opts, engine.WithInitialSize(settings.InitialSize))
		}
	}
	return opts
}

func exportDir(paths *config.Paths, settings *model.Settings) string {
	if settings.ExportDir != "" {
		return paths.ExpandHome(settings.ExportDir)
	}
	if dir := paths.DocumentsDir(); dir != "" {
		return dir
	}
	return "."
}

// SaveLanguage stores lang as the configured language.
// Settings are reloaded first so edits made since startup are kept.
func (a *App) SaveLanguage(lang i18n.Language) error {
	settings, err := a.SettingsStore.Load()
	if err != nil {
		return err
	}
	settings.Language = string(lang)
	if err := a.SettingsStore.Save(settings); err != nil {
		return err
	}
	a.Settings = settings
	return nil
}

// Close flushes buffered log entries.
func (a *App) Close() {
	_ = a.Logger.Sync()
}

// Fatal prints an error and exits.
func Fatal(err error) {
	PrintError("%v", err)
	os.Exit(1)
}

// Fatalf formats an error and exits.
func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
