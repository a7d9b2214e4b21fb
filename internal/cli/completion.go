package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/amterp/ra"
	"github.com/amterp/teams/internal/i18n"
)

// completeLanguages returns supported language codes matching the given prefix.
func completeLanguages(toComplete string) ([]string, ra.CompletionDirective) {
	var result []string
	for _, lang := range i18n.Supported {
		if strings.HasPrefix(string(lang), strings.ToLower(toComplete)) {
			result = append(result, string(lang))
		}
	}
	return result, ra.CompletionDirectiveNoFileComp
}

// registerCompletion adds the "teams completion <shell>" command.
func registerCompletion(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("completion")
	cmd.SetDescription("Output shell completion script")

	ctx.CompletionShell, _ = ra.NewString("shell").
		SetUsage("Shell type").
		SetEnumConstraint([]string{"bash", "zsh"}).
		Register(cmd)

	ctx.CompletionUsed, _ = parent.RegisterCmd(cmd)
}

// runCompletion outputs the shell completion script to stdout.
func runCompletion(shell string, rootCmd *ra.Cmd) {
	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletion(os.Stdout)
	case "zsh":
		err = rootCmd.GenZshCompletion(os.Stdout)
	default:
		Fatal(fmt.Errorf("unsupported shell: %s (supported: bash, zsh)", shell))
	}
	if err != nil {
		Fatal(fmt.Errorf("failed to generate completion script: %w", err))
	}
}
