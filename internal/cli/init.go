package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/rileyhilliard/healthboard/internal/config"
	"github.com/rileyhilliard/healthboard/internal/errors"
	"github.com/rileyhilliard/healthboard/internal/ui"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string        // Target file; defaults to ./.healthboard.yaml
	BaseURL        string        // Pre-specified backend base URL
	Interval       time.Duration // Pre-specified refresh interval
	Overwrite      bool          // Overwrite existing config without asking
	NonInteractive bool          // Skip prompts, use defaults
	Out            io.Writer
}

// initDefaults holds values picked up from the environment.
type initDefaults struct {
	BaseURL        string
	NonInteractive bool
}

// getInitDefaults reads HEALTHBOARD_BASE_URL and treats CI or
// HEALTHBOARD_NON_INTERACTIVE as a request to skip prompts.
func getInitDefaults() initDefaults {
	return initDefaults{
		BaseURL:        os.Getenv("HEALTHBOARD_BASE_URL"),
		NonInteractive: os.Getenv("HEALTHBOARD_NON_INTERACTIVE") == "true" || os.Getenv("CI") != "",
	}
}

// mergeInitOptions fills empty flags from the environment. Flags win.
func mergeInitOptions(opts InitOptions) InitOptions {
	defaults := getInitDefaults()
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	if defaults.NonInteractive {
		opts.NonInteractive = true
	}
	return opts
}

// Init writes a starter .healthboard.yaml with the default services.
func Init(opts InitOptions) error {
	opts = mergeInitOptions(opts)
	if !opts.NonInteractive && !term.IsTerminal(int(os.Stdin.Fd())) {
		opts.NonInteractive = true
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	configPath := opts.Path
	if configPath == "" {
		configPath = config.ConfigFileName
	}

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimSpace(opts.BaseURL)
	}
	if opts.Interval > 0 {
		cfg.Interval = opts.Interval
	}

	if !opts.NonInteractive {
		if err := promptInit(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Existence was settled above, so always let Write replace the file.
	if err := config.Write(configPath, cfg, true); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  healthboard         - Watch the dashboard")
	fmt.Fprintln(out, "  healthboard check   - Probe once and report")

	return nil
}

// promptInit asks for the base URL and refresh interval, editing cfg in place.
func promptInit(cfg *config.Config) error {
	baseURL := cfg.BaseURL
	interval := cfg.Interval

	options := make([]huh.Option[time.Duration], 0, len(config.IntervalChoices)+1)
	seen := false
	for _, d := range config.IntervalChoices {
		options = append(options, huh.NewOption(ui.FormatInterval(d), d))
		if d == interval {
			seen = true
		}
	}
	if !seen {
		options = append(options, huh.NewOption(ui.FormatInterval(interval), interval))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend base URL").
				Description("Service paths such as /api/health/ are appended to this").
				Placeholder(cfg.BaseURL).
				Value(&baseURL).
				Validate(func(s string) error {
					probe := *cfg
					probe.BaseURL = strings.TrimSpace(s)
					if probe.BaseURL == "" {
						return fmt.Errorf("base URL is required")
					}
					if err := config.Validate(&probe); err != nil {
						return fmt.Errorf("must be an absolute http(s) URL")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[time.Duration]().
				Title("Refresh interval").
				Description("How often every service is probed").
				Options(options...).
				Value(&interval),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}

	cfg.BaseURL = strings.TrimSpace(baseURL)
	cfg.Interval = interval
	return nil
}
