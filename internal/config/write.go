package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/healthboard/internal/errors"
	"gopkg.in/yaml.v3"
)

const fileHeader = `# healthboard configuration
# Durations use Go syntax (800ms, 10s, 1m). Any scalar setting can be
# overridden with a HEALTHBOARD_ environment variable, e.g. HEALTHBOARD_BASE_URL.
`

// document is the on-disk shape. Durations are written as strings because
// yaml.v3 would otherwise encode time.Duration as nanoseconds.
type document struct {
	Version      int             `yaml:"version"`
	BaseURL      string          `yaml:"base_url"`
	Interval     string          `yaml:"interval"`
	Timeout      string          `yaml:"timeout"`
	HistoryLen   int             `yaml:"history_len"`
	DegradedPing string          `yaml:"degraded_ping"`
	OfflineGrace string          `yaml:"offline_grace"`
	Services     []ServiceConfig `yaml:"services"`
}

// Marshal renders cfg as YAML with a short header comment.
func Marshal(cfg *Config) ([]byte, error) {
	doc := document{
		Version:      cfg.Version,
		BaseURL:      cfg.BaseURL,
		Interval:     cfg.Interval.String(),
		Timeout:      cfg.Timeout.String(),
		HistoryLen:   cfg.HistoryLen,
		DegradedPing: cfg.DegradedPing.String(),
		OfflineGrace: cfg.OfflineGrace.String(),
		Services:     cfg.Services,
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves cfg to path. It refuses to replace an existing file unless
// force is set.
func Write(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrConfig,
				"Config file already exists: "+path,
				"Use --force to overwrite it.")
		}
	}

	data, err := Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to render config", "")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot create config directory "+dir,
				"Check directory permissions")
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+path,
			"Check file permissions")
	}
	return nil
}
