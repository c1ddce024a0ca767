package config

import (
	"net/http"
	"strings"
	"time"

	"github.com/rileyhilliard/healthboard/internal/health"
	"github.com/rileyhilliard/healthboard/internal/logger"
)

// Engine is a validated config translated into scheduler inputs.
type Engine struct {
	Options  health.Options
	Interval time.Duration
}

// Classifier returns the thresholds from the config.
func (c *Config) Classifier() health.Classifier {
	return health.Classifier{
		DegradedPing: c.DegradedPing,
		OfflineGrace: c.OfflineGrace,
	}
}

// Engine validates the config and builds probers and derivations for every
// service. extra options are applied to every HTTP prober after the
// config-derived ones.
func (c *Config) Engine(log logger.Logger, extra ...health.ProberOption) (*Engine, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}

	specs := make([]health.ServiceSpec, 0, len(c.Services))
	for _, svc := range c.Services {
		spec := health.ServiceSpec{Key: svc.Key, Name: svc.DisplayName()}
		if svc.IsDerived() {
			spec.Derive = &health.Derivation{
				Source: svc.Derive.From,
				Field:  svc.Derive.Field,
				Expect: health.FieldEquals(svc.Derive.Field, deriveValue(svc.Derive)),
			}
		} else {
			spec.Prober = c.prober(svc, extra)
		}
		specs = append(specs, spec)
	}

	return &Engine{
		Options: health.Options{
			Services:    specs,
			HistorySize: c.HistoryLen,
			Classifier:  c.Classifier(),
			Logger:      log,
		},
		Interval: c.Interval,
	}, nil
}

func (c *Config) prober(svc ServiceConfig, extra []health.ProberOption) *health.HTTPProber {
	opts := []health.ProberOption{
		health.WithTimeout(c.Timeout),
		health.WithPredicate(predicate(svc.Expect)),
	}
	if svc.Method != "" {
		opts = append(opts, health.WithMethod(svc.Method))
	} else if svc.Body != "" {
		opts = append(opts, health.WithMethod(http.MethodPost))
	}
	if svc.Body != "" {
		opts = append(opts, health.WithBody([]byte(svc.Body)))
	}
	for k, v := range svc.Headers {
		opts = append(opts, health.WithHeader(k, v))
	}
	opts = append(opts, extra...)

	return health.NewHTTPProber(svc.Key, JoinURL(c.BaseURL, svc.Path), opts...)
}

func predicate(e ExpectConfig) health.Predicate {
	switch strings.ToLower(e.Kind) {
	case ExpectFieldEquals:
		return health.FieldEquals(e.Field, e.Value)
	case ExpectNonNull:
		return health.FieldNotNull(e.Field)
	default:
		return health.HTTPOK()
	}
}

func deriveValue(d *DeriveConfig) string {
	if d.Value == "" {
		return "ok"
	}
	return d.Value
}
