package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/rileyhilliard/healthboard/internal/errors"
	"github.com/rileyhilliard/healthboard/internal/health"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FailNever disables the unhealthy exit status in --fail-on.
const FailNever = "never"

// ParseInterval parses a refresh interval flag.
// Returns zero duration if the flag is empty.
func ParseInterval(flag string) (time.Duration, error) {
	if flag == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 2s, 10s, or 1m.")
	}
	if d < health.MinInterval {
		return 0, errors.New(errors.ErrConfig,
			"Interval too short",
			fmt.Sprintf("Minimum interval is %s to avoid hammering the backend.", health.MinInterval))
	}
	return d, nil
}

// ParseFormat validates an output format flag.
func ParseFormat(flag string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(flag))
	switch f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown output format '%s'", flag),
		"Use one of: text, json, yaml.")
}

// ParseFailOn parses the --fail-on threshold. ok is false for "never".
func ParseFailOn(flag string) (threshold health.Verdict, ok bool, err error) {
	f := strings.ToLower(strings.TrimSpace(flag))
	if f == FailNever {
		return "", false, nil
	}
	if f == "" {
		return health.VerdictOffline, true, nil
	}
	v, valid := health.ParseVerdict(f)
	if !valid || v == health.VerdictOnline {
		return "", false, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown --fail-on value '%s'", flag),
			"Use one of: degraded, offline, never.")
	}
	return v, true, nil
}
