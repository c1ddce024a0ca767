package doctor

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/healthboard/internal/config"
	"github.com/rileyhilliard/healthboard/internal/health"
	"github.com/rileyhilliard/healthboard/internal/ui"
)

// ServiceCheck probes one service once and grades the sample with the
// configured thresholds. Derived services probe their source and apply the
// derivation, the same way a refresh cycle does.
type ServiceCheck struct {
	Key        string
	Label      string
	Prober     health.Prober
	Derive     *health.Derivation
	Classifier health.Classifier
}

func (c *ServiceCheck) Name() string     { return "service_" + c.Key }
func (c *ServiceCheck) Category() string { return CategoryServices }

func (c *ServiceCheck) Run(ctx context.Context) CheckResult {
	if c.Prober == nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: fmt.Sprintf("%s: nothing to probe", c.Label),
		}
	}

	sample := c.Prober.Probe(ctx)
	if c.Derive != nil {
		sample = c.Derive.Derive(sample)
	}

	if !sample.Success {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s: %s", c.Label, sample.Error),
			Suggestion: c.suggestion(),
		}
	}

	latency, _ := sample.Latency()
	if latency >= c.Classifier.DegradedPing {
		return CheckResult{
			Name:   c.Name(),
			Status: StatusWarn,
			Message: fmt.Sprintf("%s: %s, degraded at %d ms", c.Label,
				ui.FormatLatency(sample.LatencyMs), c.Classifier.DegradedPing.Milliseconds()),
			Suggestion: "Raise degraded_ping if this latency is normal for this service",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s: %s", c.Label, ui.FormatLatency(sample.LatencyMs)),
	}
}

func (c *ServiceCheck) suggestion() string {
	if c.Derive != nil {
		return fmt.Sprintf("Check that %q reports %q in its payload", c.Derive.Source, c.Derive.Field)
	}
	return "Check the service path and expect settings in your config"
}

func (c *ServiceCheck) Fix() error {
	return nil
}

// NewServiceChecks creates one check per configured service, in config order.
func NewServiceChecks(engine *config.Engine) []Check {
	probers := make(map[string]health.Prober)
	for _, spec := range engine.Options.Services {
		if spec.Prober != nil {
			probers[spec.Key] = spec.Prober
		}
	}

	checks := make([]Check, 0, len(engine.Options.Services))
	for _, spec := range engine.Options.Services {
		check := &ServiceCheck{
			Key:        spec.Key,
			Label:      spec.Name,
			Prober:     spec.Prober,
			Classifier: engine.Options.Classifier,
		}
		if spec.Derive != nil {
			check.Derive = spec.Derive
			check.Prober = probers[spec.Derive.Source]
		}
		checks = append(checks, check)
	}
	return checks
}
