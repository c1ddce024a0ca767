package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/healthboard/internal/config"
	"github.com/rileyhilliard/healthboard/internal/doctor"
	"github.com/rileyhilliard/healthboard/internal/errors"
	"github.com/rileyhilliard/healthboard/internal/logger"
	"github.com/rileyhilliard/healthboard/internal/ui"
)

// doctorParallelism bounds how many checks probe at once.
const doctorParallelism = 4

var (
	doctorJSON bool
	doctorFix  bool
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	ConfigPath string
	JSON       bool
	Fix        bool
	Out        io.Writer
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	Fixable  int  `json:"fixable"`
	AllClear bool `json:"all_clear"`
}

// doctorCmd diagnoses the setup
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, backend, and service problems",
	Long: `Run diagnostics and report what stands between you and a green dashboard:
the config file, whether the backend accepts connections, one probe per
service, and whether this terminal can host the dashboard.

Exits with status 1 when any check fails. Warnings do not change the exit
status.

Examples:
  healthboard doctor
  healthboard doctor --fix
  healthboard doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return Doctor(ctx, DoctorOptions{
			ConfigPath: cfgFile,
			JSON:       doctorJSON,
			Fix:        doctorFix,
			Out:        cmd.OutOrStdout(),
		})
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "attempt automatic fixes where possible")
	rootCmd.AddCommand(doctorCmd)
}

// Doctor runs every diagnostic and writes the report to opts.Out.
func Doctor(ctx context.Context, opts DoctorOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	checks := collectChecks(opts.ConfigPath)
	results := doctor.RunAllParallel(ctx, checks, doctorParallelism)

	if opts.Fix {
		results = doctor.AttemptFixes(ctx, checks, results)
	}

	if opts.JSON {
		if err := WriteJSONSuccess(out, buildDoctorOutput(checks, results)); err != nil {
			return err
		}
	} else {
		if !isTerminal(out) {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
		fmt.Fprint(out, renderDoctorText(checks, results, opts.Fix))
	}

	if doctor.HasFailures(results) {
		return errors.NewExitError(1)
	}
	return nil
}

// collectChecks builds the check list. Backend and service checks need a
// loadable config; when it is broken the config checks report why.
func collectChecks(configPath string) []doctor.Check {
	checks := doctor.NewConfigChecks(configPath)

	if cfg, _, err := config.LoadOrDefault(configPath); err == nil {
		if engine, err := cfg.Engine(logger.Noop()); err == nil {
			checks = append(checks, &doctor.BaseURLCheck{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
			checks = append(checks, doctor.NewServiceChecks(engine)...)
		}
	}

	return append(checks, doctor.NewTerminalCheck())
}

func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped := doctor.GroupByCategory(checks)

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(grouped)),
	}
	for _, cat := range doctor.CategoryOrder {
		indices := grouped[cat]
		if len(indices) == 0 {
			continue
		}
		co := CategoryOutput{Name: cat}
		for _, idx := range indices {
			co.Results = append(co.Results, results[idx])
		}
		output.Categories = append(output.Categories, co)
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		Fixable:  doctor.FixableCount(results),
		AllClear: !doctor.HasIssues(results),
	}
	return output
}

func renderDoctorText(checks []doctor.Check, results []doctor.CheckResult, fixed bool) string {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render("healthboard diagnostic report") + "\n\n")

	grouped := doctor.GroupByCategory(checks)
	for _, category := range doctor.CategoryOrder {
		indices := grouped[category]
		if len(indices) == 0 {
			continue
		}
		b.WriteString(headerStyle.Render(category) + "\n")
		for _, idx := range indices {
			b.WriteString(renderCheckResult(results[idx]))
		}
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("━", 60) + "\n\n")

	if !doctor.HasIssues(results) {
		b.WriteString(successStyle.Render(ui.SymbolSuccess) + " " + doctor.Summary(results) + "\n")
	} else {
		b.WriteString(errorStyle.Render(ui.SymbolFail) + " " + doctor.Summary(results) + "\n")
		if doctor.FixableCount(results) > 0 && !fixed {
			fmt.Fprintf(&b, "\n  Run with %s to attempt automatic fixes where possible.\n",
				mutedStyle.Render("--fix"))
		}
	}
	b.WriteString("\n")
	return b.String()
}

// renderCheckResult renders a single check result.
func renderCheckResult(result doctor.CheckResult) string {
	var symbol string
	var color lipgloss.Color

	switch result.Status {
	case doctor.StatusPass:
		symbol, color = ui.SymbolComplete, ui.ColorSuccess
	case doctor.StatusWarn:
		symbol, color = ui.SymbolProgress, ui.ColorWarning
	default:
		symbol, color = ui.SymbolFail, ui.ColorError
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n", lipgloss.NewStyle().Foreground(color).Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
		for _, line := range strings.Split(result.Suggestion, "\n") {
			fmt.Fprintf(&b, "    %s\n", muted.Render(line))
		}
	}
	return b.String()
}
