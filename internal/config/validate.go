package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/healthboard/internal/errors"
)

// MinInterval mirrors the scheduler's lower bound so bad files fail at load.
const MinInterval = 500 * time.Millisecond

var validMethods = map[string]bool{
	"GET":  true,
	"POST": true,
	"HEAD": true,
}

var validExpectKinds = map[string]bool{
	"":                true,
	ExpectHTTPOK:      true,
	ExpectFieldEquals: true,
	ExpectNonNull:     true,
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but healthboard only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade healthboard or lower 'version' in your config.")
	}

	if err := validateBaseURL(cfg.BaseURL); err != nil {
		return err
	}

	if err := validateTiming(cfg); err != nil {
		return err
	}

	return validateServices(cfg.Services)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("base_url '%s' is not an absolute http(s) URL", raw),
			"Use something like 'http://localhost:8000'.")
	}
	return nil
}

func validateTiming(cfg *Config) error {
	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("interval %s is too short", cfg.Interval),
			fmt.Sprintf("Use at least %s, e.g. 'interval: 10s'.", MinInterval))
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"timeout", cfg.Timeout},
		{"degraded_ping", cfg.DegradedPing},
		{"offline_grace", cfg.OfflineGrace},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be positive, got %s", p.name, p.value),
				fmt.Sprintf("Set '%s' to a duration like '5s' or '800ms'.", p.name))
		}
	}

	if cfg.HistoryLen <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_len must be positive, got %d", cfg.HistoryLen),
			"The default is 40 samples per service.")
	}

	return nil
}

func validateServices(services []ServiceConfig) error {
	if len(services) == 0 {
		return errors.New(errors.ErrConfig,
			"No services configured",
			"Add at least one entry under 'services', or remove the key to use the defaults.")
	}

	independent := make(map[string]bool)
	seen := make(map[string]bool)
	for i, svc := range services {
		if strings.TrimSpace(svc.Key) == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Service #%d has no key", i+1),
				"Give every service a unique 'key'.")
		}
		if seen[svc.Key] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Service '%s' is configured twice", svc.Key),
				"Service keys must be unique.")
		}
		seen[svc.Key] = true

		if err := validateService(svc); err != nil {
			return err
		}
		if !svc.IsDerived() {
			independent[svc.Key] = true
		}
	}

	for _, svc := range services {
		if svc.IsDerived() && !independent[svc.Derive.From] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Service '%s' derives from '%s', which is not a probed service", svc.Key, svc.Derive.From),
				"Point 'derive.from' at a service that has its own 'path'.")
		}
	}

	return nil
}

func validateService(svc ServiceConfig) error {
	hasPath := svc.Path != ""
	if hasPath == svc.IsDerived() {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Service '%s' must have either 'path' or 'derive', not both or neither", svc.Key),
			"Set 'path' for a probed service or 'derive.from' for a derived one.")
	}

	if svc.IsDerived() {
		if svc.Derive.From == "" || svc.Derive.Field == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Service '%s' needs both 'derive.from' and 'derive.field'", svc.Key),
				"Example: derive: {from: backend, field: db_status}")
		}
		return nil
	}

	if svc.Method != "" && !validMethods[strings.ToUpper(svc.Method)] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Service '%s' has unsupported method '%s'", svc.Key, svc.Method),
			"Use GET, POST, or HEAD.")
	}

	if !validExpectKinds[svc.Expect.Kind] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Service '%s' has unknown expect kind '%s'", svc.Key, svc.Expect.Kind),
			"Use http_ok, field_equals, or non_null.")
	}
	if (svc.Expect.Kind == ExpectFieldEquals || svc.Expect.Kind == ExpectNonNull) && svc.Expect.Field == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Service '%s' expect kind '%s' needs a 'field'", svc.Key, svc.Expect.Kind),
			"Example: expect: {kind: field_equals, field: status, value: ok}")
	}

	return nil
}
