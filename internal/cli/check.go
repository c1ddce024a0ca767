package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/healthboard/internal/config"
	"github.com/rileyhilliard/healthboard/internal/errors"
	"github.com/rileyhilliard/healthboard/internal/health"
	"github.com/rileyhilliard/healthboard/internal/logger"
	"github.com/rileyhilliard/healthboard/internal/ui"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	ConfigPath string
	Format     string // text, json, or yaml
	FailOn     string // degraded, offline, or never
}

// CheckReport is the machine-readable result of one check.
type CheckReport struct {
	BaseURL  string          `json:"base_url" yaml:"base_url"`
	Config   string          `json:"config,omitempty" yaml:"config,omitempty"`
	At       time.Time       `json:"at" yaml:"at"`
	Overall  health.Verdict  `json:"overall" yaml:"overall"`
	Counts   map[string]int  `json:"counts" yaml:"counts"`
	Services []ServiceResult `json:"services" yaml:"services"`
}

// ServiceResult is one service's line in a CheckReport.
type ServiceResult struct {
	Key           string         `json:"key" yaml:"key"`
	Name          string         `json:"name" yaml:"name"`
	Verdict       health.Verdict `json:"verdict" yaml:"verdict"`
	Status        health.Status  `json:"status" yaml:"status"`
	LatencyMs     *int64         `json:"latency_ms,omitempty" yaml:"latency_ms,omitempty"`
	LastSuccessAt *time.Time     `json:"last_success_at,omitempty" yaml:"last_success_at,omitempty"`
	Error         string         `json:"error,omitempty" yaml:"error,omitempty"`
	Payload       map[string]any `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Check runs exactly one refresh cycle and writes the result to out.
// It returns an UNHEALTHY error when the overall verdict reaches the
// --fail-on threshold. In json and yaml modes the failure is already part
// of the output, so only an exit code is returned.
func Check(ctx context.Context, out io.Writer, opts CheckOptions) error {
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	threshold, failEnabled, err := ParseFailOn(opts.FailOn)
	if err != nil {
		return err
	}

	cfg, path, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	// Probe failures are in the report; only surface scheduler logs when debugging.
	log := logger.Noop()
	if logger.DebugEnabled() {
		log = logger.NewEnvLogger("[check]")
	}
	engine, err := cfg.Engine(log)
	if err != nil {
		return err
	}
	sched, err := health.NewScheduler(engine.Options)
	if err != nil {
		return err
	}

	snap, err := sched.RunOnce(ctx)
	if err != nil {
		return err
	}

	report := buildReport(snap, cfg.BaseURL, path)
	unhealthy := failEnabled && snap.Overall.AtLeast(threshold)

	switch format {
	case FormatJSON:
		if unhealthy {
			if err := WriteJSONError(out, ErrCodeUnhealthy, unhealthyMessage(snap), "", report); err != nil {
				return err
			}
			return errors.NewExitError(1)
		}
		return WriteJSONSuccess(out, report)

	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "Failed to encode report")
		}
		if err := enc.Close(); err != nil {
			return err
		}
		if unhealthy {
			return errors.NewExitError(1)
		}
		return nil
	}

	if !isTerminal(out) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	fmt.Fprint(out, renderCheckText(snap, cfg.BaseURL))

	if unhealthy {
		return errors.New(errors.ErrUnhealthy,
			unhealthyMessage(snap),
			fmt.Sprintf("Run 'healthboard' to watch it live, or pass --fail-on %s to relax the check.", relaxedFailOn(threshold)))
	}
	return nil
}

func buildReport(snap health.Snapshot, baseURL, path string) CheckReport {
	counts := make(map[string]int)
	for v, n := range snap.Counts() {
		counts[v.String()] = n
	}

	report := CheckReport{
		BaseURL: baseURL,
		Config:  path,
		At:      snap.At,
		Overall: snap.Overall,
		Counts:  counts,
	}

	for _, r := range snap.Ordered() {
		res := ServiceResult{
			Key:     r.Key,
			Name:    r.Name,
			Verdict: r.Verdict,
			Status:  r.Status,
			Payload: r.LastPayload,
		}
		if latest, ok := r.Latest(); ok {
			res.LatencyMs = latest.LatencyMs
			res.Error = latest.Error
		}
		if r.HasSucceeded() {
			at := r.LastSuccessAt
			res.LastSuccessAt = &at
		}
		report.Services = append(report.Services, res)
	}
	return report
}

func renderCheckText(snap health.Snapshot, baseURL string) string {
	rows := make([]ui.StatusTableRow, 0, len(snap.Keys))
	for _, r := range snap.Ordered() {
		row := ui.StatusTableRow{
			Verdict: r.Verdict,
			Name:    r.Name,
			Key:     r.Key,
			Latency: "-",
		}
		if latest, ok := r.Latest(); ok {
			row.Latency = ui.FormatLatency(latest.LatencyMs)
			row.Detail = latest.Error
		}
		rows = append(rows, row)
	}

	counts := snap.Counts()
	summary := fmt.Sprintf("%s  %d online, %d degraded, %d offline",
		ui.RenderVerdict(snap.Overall),
		counts[health.VerdictOnline],
		counts[health.VerdictDegraded],
		counts[health.VerdictOffline])

	return ui.RenderHeader(ui.HeaderInfo{Version: formatVersion(version), Target: baseURL}) +
		"\n" + ui.RenderStatusTable(rows) + "\n" + summary + "\n"
}

func unhealthyMessage(snap health.Snapshot) string {
	counts := snap.Counts()
	return fmt.Sprintf("Overall status is %s (%d degraded, %d offline)",
		snap.Overall, counts[health.VerdictDegraded], counts[health.VerdictOffline])
}

func relaxedFailOn(threshold health.Verdict) string {
	if threshold == health.VerdictDegraded {
		return string(health.VerdictOffline)
	}
	return FailNever
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
