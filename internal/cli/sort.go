package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/amterp/ra"
	"github.com/amterp/teams/internal/editor"
	"github.com/amterp/teams/internal/engine"
	"github.com/amterp/teams/internal/export"
	"github.com/amterp/teams/internal/i18n"
	"github.com/amterp/teams/internal/model"
	"github.com/amterp/teams/internal/prompt"
	"github.com/amterp/teams/internal/roster"
	"github.com/charmbracelet/huh"
)

func registerSort(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("sort")
	cmd.SetDescription("Sort names into groups interactively")

	ctx.SortFile, _ = ra.NewString("file").
		SetOptional(true).
		SetDefault("").
		SetUsage("File with one name per line (default: paste them in)").
		Register(cmd)

	ctx.SortSeed, _ = ra.NewInt("seed").
		SetOptional(true).
		SetDefault(0).
		SetFlagOnly(true).
		SetUsage("Seed for auto assign, for repeatable results (0 = random)").
		Register(cmd)

	ctx.SortEditor, _ = ra.NewBool("editor").
		SetShort("E").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Type names in your editor instead of the prompt").
		Register(cmd)

	ctx.SortUsed, _ = parent.RegisterCmd(cmd)
}

// sortAction is a menu entry of the interactive session.
type sortAction string

const (
	actionToggle      sortAction = "toggle"
	actionSelectColor sortAction = "select-color"
	actionResize      sortAction = "resize"
	actionRecolor     sortAction = "recolor"
	actionAutoAssign  sortAction = "auto-assign"
	actionExport      sortAction = "export"
	actionLanguage    sortAction = "language"
	actionStartOver   sortAction = "start-over"
	actionQuit        sortAction = "quit"
)

func runSort(file string, seed int, useEditor bool, global globalFlags) {
	opts := global.options()
	opts.Interactive = true
	opts.Seed = uint64(seed)
	app, err := NewApp(opts)
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	session := newSortSession(app, os.Stdout)
	if useEditor {
		session.editNames = editor.NewEditor(app.Settings.Editor).Edit
	}

	if file == "-" {
		Fatalf("sort needs stdin for prompts; pass a file or use split")
	}
	if file != "" {
		text, err := readNames(file, nil)
		if err != nil {
			Fatal(err)
		}
		app.Engine.Dispatch(engine.BuildRoster{Text: text})
	}

	if err := session.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return
		}
		Fatal(err)
	}
}

// sortSession runs the prompt loop over one engine.
type sortSession struct {
	engine    *engine.Engine
	prompter  prompt.Prompter
	locale    *i18n.Locale
	exporter  *export.Exporter
	exportDir string
	saveLang  func(i18n.Language) error
	editNames func(content string) (string, error) // nil uses the prompter
	out       io.Writer
}

func newSortSession(app *App, out io.Writer) *sortSession {
	return &sortSession{
		engine:    app.Engine,
		prompter:  app.Prompter,
		locale:    app.Locale,
		exporter:  app.Exporter,
		exportDir: app.ExportDir,
		saveLang:  app.SaveLanguage,
		out:       out,
	}
}

// Run prompts until the user quits.
func (s *sortSession) Run() error {
	for {
		done, err := s.step()
		if err != nil || done {
			return err
		}
	}
}

// step asks for names when there are none, otherwise shows the groups and runs one action.
func (s *sortSession) step() (bool, error) {
	state := s.engine.Snapshot()
	if !state.HasRoster() {
		return false, s.askNames()
	}

	printSession(s.out, state, s.locale)
	fmt.Fprintln(s.out)

	choice, err := s.prompter.Select(s.locale.T(i18n.KeyChooseAction), s.actionOptions(state))
	if err != nil {
		return false, err
	}

	switch sortAction(choice) {
	case actionToggle:
		return false, s.toggle(state)
	case actionSelectColor:
		return false, s.selectColor(state)
	case actionResize:
		return false, s.resize(state)
	case actionRecolor:
		return false, s.recolor(state)
	case actionAutoAssign:
		s.engine.Dispatch(engine.AutoAssign{})
	case actionExport:
		s.export()
	case actionLanguage:
		return false, s.language()
	case actionStartOver:
		return false, s.startOver()
	case actionQuit:
		return true, nil
	}
	return false, nil
}

func (s *sortSession) actionOptions(state model.Session) []prompt.Option {
	toggle := fmt.Sprintf("%s %s", s.locale.T(i18n.KeyTogglePerson), ColorSwatch(state.ActiveColor))
	opts := []prompt.Option{
		{Label: toggle, Value: string(actionToggle)},
		{Label: s.locale.T(i18n.KeySelectColor), Value: string(actionSelectColor)},
		{Label: s.locale.T(i18n.KeyNumColorsLabel), Value: string(actionResize)},
		{Label: s.locale.T(i18n.KeyChangeColorTitle), Value: string(actionRecolor)},
	}
	if len(state.Unassigned()) > 0 {
		opts = append(opts, prompt.Option{Label: s.locale.T(i18n.KeyAutoAssignButton), Value: string(actionAutoAssign)})
	}
	return append(opts,
		prompt.Option{Label: s.locale.T(i18n.KeyShareImageButton), Value: string(actionExport)},
		prompt.Option{Label: "Language / Valoda / Язык", Value: string(actionLanguage)},
		prompt.Option{Label: s.locale.T(i18n.KeyStartOverButton), Value: string(actionStartOver)},
		prompt.Option{Label: s.locale.T(i18n.KeyQuit), Value: string(actionQuit)},
	)
}

func (s *sortSession) askNames() error {
	fmt.Fprintln(s.out, TitleBox(s.locale.T(i18n.KeyAppTitle)))
	fmt.Fprintln(s.out, RenderMuted(s.locale.T(i18n.KeyStep1Description)))

	var text string
	var err error
	if s.editNames != nil {
		text, err = s.editNames("")
	} else {
		text, err = s.prompter.Text(s.locale.T(i18n.KeyStep1Title), s.locale.T(i18n.KeyTextareaPlaceholder))
	}
	if err != nil {
		return err
	}
	if roster.IsBlank(text) {
		PrintWarning("%s", s.locale.T(i18n.KeyEmptyList))
		return nil
	}
	s.engine.Dispatch(engine.BuildRoster{Text: text})
	return nil
}

func (s *sortSession) paletteOptions(state model.Session) []prompt.Option {
	opts := make([]prompt.Option, len(state.Palette))
	for i, c := range state.Palette {
		label := fmt.Sprintf("%s %s %d  %s", ColorSwatch(c), s.locale.T(i18n.KeyGroup), i+1, RenderMuted(c))
		opts[i] = prompt.Option{Label: label, Value: strconv.Itoa(i)}
	}
	return opts
}

func (s *sortSession) toggle(state model.Session) error {
	opts := make([]prompt.Option, len(state.Roster))
	for i, p := range state.Roster {
		label := p.Name
		if p.Assigned() {
			label = fmt.Sprintf("%s %s", ColorSwatch(p.Color), p.Name)
		}
		opts[i] = prompt.Option{Label: label, Value: strconv.Itoa(p.ID)}
	}

	title := fmt.Sprintf("%s %s", s.locale.T(i18n.KeyTogglePerson), ColorSwatch(state.ActiveColor))
	ids, err := s.prompter.MultiSelect(title, opts)
	if err != nil {
		return err
	}
	for _, v := range ids {
		id, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		s.engine.Dispatch(engine.ToggleAssign{PersonID: id})
	}
	return nil
}

func (s *sortSession) selectColor(state model.Session) error {
	v, err := s.prompter.Select(s.locale.T(i18n.KeySelectColor), s.paletteOptions(state))
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 || i >= len(state.Palette) {
		return nil
	}
	s.engine.Dispatch(engine.SetActiveColor{Color: state.Palette[i]})
	return nil
}

func (s *sortSession) resize(state model.Session) error {
	var opts []prompt.Option
	for n := model.MinPaletteSize; n <= model.MaxPaletteSize; n++ {
		label := fmt.Sprintf("%d %s", n, s.locale.T(i18n.KeyColors))
		opts = append(opts, prompt.Option{Label: label, Value: strconv.Itoa(n)})
	}

	v, err := s.prompter.Select(s.locale.T(i18n.KeyNumColorsLabel), opts)
	if err != nil {
		return err
	}
	size, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	s.engine.Dispatch(engine.ResizePalette{Size: size})
	return nil
}

func (s *sortSession) recolor(state model.Session) error {
	v, err := s.prompter.Select(s.locale.T(i18n.KeyChangeColorTitle), s.paletteOptions(state))
	if err != nil {
		return err
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 || i >= len(state.Palette) {
		return nil
	}

	color, err := s.prompter.Input(s.locale.T(i18n.KeyChangeColorTitle), state.Palette[i])
	if err != nil {
		return err
	}
	if !model.IsValidColor(color) {
		PrintWarning("%q is not a hex color", color)
		return nil
	}
	s.engine.Dispatch(engine.RecolorSlot{Index: i, Color: color})
	return nil
}

func (s *sortSession) startOver() error {
	ok, err := s.prompter.Confirm(s.locale.T(i18n.KeyStartOverButton)+"?", false)
	if err != nil {
		return err
	}
	if ok {
		s.engine.Dispatch(engine.Reset{})
	}
	return nil
}

func (s *sortSession) export() {
	res, err := s.exporter.Export(context.Background(), s.engine.Snapshot(), export.DirSink{Dir: s.exportDir})
	if err != nil {
		PrintError("%s", s.locale.T(i18n.KeyImageError))
		return
	}
	PrintSuccess("%s %s", s.locale.T(i18n.KeyImageSavedToDownloads), RenderURL(res.Location))
}

func (s *sortSession) language() error {
	opts := make([]prompt.Option, len(i18n.Supported))
	for i, l := range i18n.Supported {
		opts[i] = prompt.Option{Label: i18n.Names[l], Value: string(l)}
	}

	v, err := s.prompter.Select("Language / Valoda / Язык", opts)
	if err != nil {
		return err
	}
	lang, err := i18n.Parse(v)
	if err != nil {
		return nil
	}
	s.locale.Set(lang)
	if s.saveLang != nil {
		if err := s.saveLang(lang); err != nil {
			PrintWarning("failed to save language: %v", err)
		}
	}
	return nil
}
