package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCompletion(t *testing.T, shell string) string {
	t.Helper()
	var buf bytes.Buffer
	completionCmd.SetOut(&buf)
	t.Cleanup(func() { completionCmd.SetOut(nil) })

	require.NoError(t, completionCmd.RunE(completionCmd, []string{shell}))
	return buf.String()
}

func TestCompletionBash(t *testing.T) {
	output := runCompletion(t, "bash")
	assert.Contains(t, output, "# bash completion")
	assert.Contains(t, output, "healthboard")
}

func TestCompletionZsh(t *testing.T) {
	output := runCompletion(t, "zsh")
	assert.Contains(t, output, "#compdef healthboard")
}

func TestCompletionFish(t *testing.T) {
	output := runCompletion(t, "fish")
	assert.Contains(t, output, "complete -c healthboard")
}

func TestCompletionPowershell(t *testing.T) {
	output := runCompletion(t, "powershell")
	assert.Contains(t, strings.ToLower(output), "powershell completion")
	assert.Contains(t, output, "Register-ArgumentCompleter")
}

func TestCompletionUnknownShell(t *testing.T) {
	err := completionCmd.RunE(completionCmd, []string{"tcsh"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unknown shell: tcsh")
}

func TestCompletionArgsValidation(t *testing.T) {
	assert.Error(t, completionCmd.Args(completionCmd, []string{}))
	assert.Error(t, completionCmd.Args(completionCmd, []string{"bash", "zsh"}))
	assert.Error(t, completionCmd.Args(completionCmd, []string{"tcsh"}))
	assert.NoError(t, completionCmd.Args(completionCmd, []string{"fish"}))
}

func TestRootCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"watch", "check", "init", "doctor", "version", "completion"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

func TestCommandFlagDefaults(t *testing.T) {
	assert.Equal(t, FormatText, checkCmd.Flags().Lookup("format").DefValue)
	assert.Equal(t, "offline", checkCmd.Flags().Lookup("fail-on").DefValue)
	assert.Equal(t, "false", watchCmd.Flags().Lookup("no-reload").DefValue)
	assert.Equal(t, "f", initCmd.Flags().Lookup("force").Shorthand)
	assert.Equal(t, "false", doctorCmd.Flags().Lookup("fix").DefValue)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("no-color"))
}
