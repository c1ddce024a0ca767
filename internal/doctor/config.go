package doctor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rileyhilliard/healthboard/internal/config"
)

// ConfigFileCheck reports which config file is in effect. Running on
// built-in defaults is a warning that --fix resolves by writing one.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
	FixPath    string // Where Fix writes; defaults to ./.healthboard.yaml
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return CategoryConfig }

func (c *ConfigFileCheck) Run(context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", firstLine(err)),
			Suggestion: "Check the --config path, or run 'healthboard init' to create one",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, using built-in defaults",
			Suggestion: "Run 'healthboard init' to create a " + config.ConfigFileName,
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", filepath.Base(path)),
	}
}

// Fix writes the default config. It never replaces an existing file.
func (c *ConfigFileCheck) Fix() error {
	path := c.FixPath
	if path == "" {
		path = config.ConfigFileName
	}
	if err := config.Write(path, config.DefaultConfig(), false); err != nil {
		return err
	}
	if c.ConfigPath == "" {
		c.ConfigPath = path
	}
	return nil
}

// ConfigSchemaCheck loads the effective config and validates it.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return CategoryConfig }

func (c *ConfigSchemaCheck) Run(context.Context) CheckResult {
	cfg, _, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %s", firstLine(err)),
			Suggestion: "Check the YAML syntax in your config file",
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Schema error: %s", firstLine(err)),
			Suggestion: "Fix the configuration errors in your " + config.ConfigFileName,
		}
	}

	probed, derived := 0, 0
	for _, svc := range cfg.Services {
		if svc.IsDerived() {
			derived++
		} else {
			probed++
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Schema valid: %d services (%d probed, %d derived)", len(cfg.Services), probed, derived),
	}
}

func (c *ConfigSchemaCheck) Fix() error {
	return nil // Schema issues require manual intervention
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
	}
}
