package cli

import (
	"fmt"

	"github.com/amterp/ra"
	"github.com/amterp/teams/internal/i18n"
)

func registerLang(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("lang")
	cmd.SetDescription("Show or change the display language")

	getCmd := ra.NewCmd("get")
	getCmd.SetDescription("Show the current language")
	ctx.LangGetJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(getCmd)
	ctx.LangGetUsed, _ = cmd.RegisterCmd(getCmd)

	setCmd := ra.NewCmd("set")
	setCmd.SetDescription("Save the display language (en, lv, ru)")
	ctx.LangSetCode, _ = ra.NewString("code").
		SetUsage("Language code").
		SetCompletionFunc(completeLanguages).
		Register(setCmd)
	ctx.LangSetJson, _ = ra.NewBool("json").
		SetOptional(true).
		SetFlagOnly(true).
		SetUsage("Output as JSON").
		Register(setCmd)
	ctx.LangSetUsed, _ = cmd.RegisterCmd(setCmd)

	ctx.LangUsed, _ = parent.RegisterCmd(cmd)
}

func runLangGet(jsonOutput bool, global globalFlags) {
	app, err := NewApp(global.options())
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	printLanguage(NewLanguageOutput(app.Locale.Current(), false), jsonOutput)
}

func runLangSet(code string, jsonOutput bool, global globalFlags) {
	lang, err := i18n.Parse(code)
	if err != nil {
		Fatal(err)
	}

	app, err := NewApp(global.options())
	if err != nil {
		Fatal(err)
	}
	defer app.Close()

	if err := app.SaveLanguage(lang); err != nil {
		Fatalf("failed to save language: %v", err)
	}
	app.Locale.Set(lang)

	printLanguage(NewLanguageOutput(lang, true), jsonOutput)
}

func printLanguage(out LanguageOutput, jsonOutput bool) {
	if jsonOutput {
		if err := printJson(out); err != nil {
			Fatal(err)
		}
		return
	}
	if out.Saved {
		PrintSuccess("Language set to %s (%s)", out.Name, out.Language)
		return
	}
	fmt.Println(LabelValue("Language", fmt.Sprintf("%s (%s)", out.Name, out.Language), 10))
}
