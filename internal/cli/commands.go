package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/rileyhilliard/healthboard/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	watchIntervalFlag  string
	watchLogFileFlag   string
	watchNoReload      bool
	checkFormatFlag    string
	checkFailOnFlag    string
	initBaseURLFlag    string
	initIntervalFlag   string
	initForce          bool
	initNonInteractive bool
)

// watchCmd starts the TUI dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of service health",
	Long: `Start an interactive dashboard that probes every configured service on
an interval and shows it as online, degraded, or offline.

Edits to the config file are picked up while the dashboard runs: thresholds
and the interval change in place, the service list stays as it was.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now
  i           Cycle refresh interval (2s/5s/10s/30s)
  s           Cycle sort order (config/name/status/latency)
  up/k        Select previous service
  down/j      Select next service
  Enter       Show service details
  Esc         Go back
  ?           Show help

Examples:
  healthboard watch
  healthboard watch --interval 5s
  HEALTHBOARD_BASE_URL=https://staging.example.com healthboard watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := ParseInterval(watchIntervalFlag)
		if err != nil {
			return err
		}
		return Watch(WatchOptions{
			ConfigPath: cfgFile,
			Interval:   interval,
			LogFile:    watchLogFileFlag,
			NoReload:   watchNoReload,
		})
	},
}

// checkCmd runs one refresh cycle and reports
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every service once and report",
	Long: `Run a single refresh cycle and print each service's verdict.

Exits with status 1 when the overall verdict is at or beyond --fail-on,
which makes it usable as a CI gate or container health check.

Examples:
  healthboard check
  healthboard check --format json
  healthboard check --fail-on degraded`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		return Check(ctx, cmd.OutOrStdout(), CheckOptions{
			ConfigPath: cfgFile,
			Format:     checkFormatFlag,
			FailOn:     checkFailOnFlag,
		})
	},
}

// initCmd creates a new .healthboard.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .healthboard.yaml configuration",
	Long: `Write a .healthboard.yaml in the current directory with the default
services (backend, api, graphql, database, cache).

Prompts for the backend URL and refresh interval unless --non-interactive
is given or stdin is not a terminal.

Examples:
  healthboard init
  healthboard init --base-url http://localhost:9000 --non-interactive
  healthboard init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, err := ParseInterval(initIntervalFlag)
		if err != nil {
			return err
		}
		return Init(InitOptions{
			Path:           cfgFile,
			BaseURL:        initBaseURLFlag,
			Interval:       interval,
			Overwrite:      initForce,
			NonInteractive: initNonInteractive,
			Out:            cmd.OutOrStdout(),
		})
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for healthboard.

Examples:
  # Bash
  healthboard completion bash > /etc/bash_completion.d/healthboard

  # Zsh
  healthboard completion zsh > "${fpath[1]}/_healthboard"

  # Fish
  healthboard completion fish > ~/.config/fish/completions/healthboard.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	// watch command flags
	watchCmd.Flags().StringVar(&watchIntervalFlag, "interval", "", "refresh interval (e.g., 2s, 10s, 1m); overrides the config")
	watchCmd.Flags().StringVar(&watchLogFileFlag, "log-file", "", "write logs to this file (default "+defaultLogFile+" when HEALTHBOARD_DEBUG is set)")
	watchCmd.Flags().BoolVar(&watchNoReload, "no-reload", false, "don't reload thresholds when the config file changes")

	// check command flags
	checkCmd.Flags().StringVar(&checkFormatFlag, "format", FormatText, "output format: text, json, or yaml")
	checkCmd.Flags().StringVar(&checkFailOnFlag, "fail-on", "offline", "exit 1 when overall status reaches: degraded, offline, or never")

	// init command flags
	initCmd.Flags().StringVar(&initBaseURLFlag, "base-url", "", "backend base URL")
	initCmd.Flags().StringVar(&initIntervalFlag, "interval", "", "refresh interval")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "skip prompts, use flags and defaults")

	// Register all commands
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
