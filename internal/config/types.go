package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Expectation kinds for probed services.
const (
	ExpectHTTPOK      = "http_ok"
	ExpectFieldEquals = "field_equals"
	ExpectNonNull     = "non_null"
)

// IntervalChoices are the refresh intervals offered by init and the
// dashboard's interval toggle.
var IntervalChoices = []time.Duration{
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	30 * time.Second,
}

// Config represents the complete .healthboard.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// BaseURL is prepended to every service path that is not already absolute.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Interval is the time between refresh cycles.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout bounds each individual probe.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// HistoryLen is how many samples are kept per service.
	HistoryLen int `yaml:"history_len" mapstructure:"history_len"`

	// DegradedPing is the latency at or above which a service is degraded.
	DegradedPing time.Duration `yaml:"degraded_ping" mapstructure:"degraded_ping"`

	// OfflineGrace is how long a service may go without a success before
	// it is reported offline.
	OfflineGrace time.Duration `yaml:"offline_grace" mapstructure:"offline_grace"`

	Services []ServiceConfig `yaml:"services" mapstructure:"services"`
}

// ServiceConfig declares one monitored service. A service either has its own
// endpoint (Path) or is derived from another service's response (Derive).
type ServiceConfig struct {
	Key  string `yaml:"key" mapstructure:"key"`
	Name string `yaml:"name,omitempty" mapstructure:"name"`

	// Path is appended to BaseURL, or used as-is when it is an absolute URL.
	Path    string            `yaml:"path,omitempty" mapstructure:"path"`
	Method  string            `yaml:"method,omitempty" mapstructure:"method"`
	Body    string            `yaml:"body,omitempty" mapstructure:"body"`
	Headers map[string]string `yaml:"headers,omitempty" mapstructure:"headers"`
	Expect  ExpectConfig      `yaml:"expect,omitempty" mapstructure:"expect"`

	Derive *DeriveConfig `yaml:"derive,omitempty" mapstructure:"derive"`
}

// ExpectConfig selects the success predicate for a probed service.
type ExpectConfig struct {
	// Kind is http_ok, field_equals, or non_null. Empty means http_ok.
	Kind  string `yaml:"kind,omitempty" mapstructure:"kind"`
	Field string `yaml:"field,omitempty" mapstructure:"field"`
	Value string `yaml:"value,omitempty" mapstructure:"value"`
}

// DeriveConfig reads a derived service's health from a field of another
// service's response.
type DeriveConfig struct {
	From  string `yaml:"from" mapstructure:"from"`
	Field string `yaml:"field" mapstructure:"field"`
	// Value is the field value that means healthy. Empty means "ok".
	Value string `yaml:"value,omitempty" mapstructure:"value"`
}

// IsDerived reports whether the service has no endpoint of its own.
func (s ServiceConfig) IsDerived() bool {
	return s.Derive != nil
}

// DisplayName returns Name, falling back to Key.
func (s ServiceConfig) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}

// DefaultServices returns the services of a stack with a REST backend that
// reports its database and cache, a ping endpoint, and a GraphQL endpoint.
func DefaultServices() []ServiceConfig {
	return []ServiceConfig{
		{
			Key:    "backend",
			Name:   "Backend",
			Path:   "/health/",
			Expect: ExpectConfig{Kind: ExpectFieldEquals, Field: "status", Value: "ok"},
		},
		{
			Key:    "api",
			Name:   "API",
			Path:   "/api/ping",
			Expect: ExpectConfig{Kind: ExpectHTTPOK},
		},
		{
			Key:    "graphql",
			Name:   "GraphQL",
			Method: "POST",
			Path:   "/graphql",
			Body:   `{"query":"{ __typename }"}`,
			Expect: ExpectConfig{Kind: ExpectNonNull, Field: "data"},
		},
		{
			Key:    "database",
			Name:   "Database",
			Derive: &DeriveConfig{From: "backend", Field: "db_status", Value: "ok"},
		},
		{
			Key:    "cache",
			Name:   "Redis",
			Derive: &DeriveConfig{From: "backend", Field: "redis_status", Value: "ok"},
		},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:      CurrentConfigVersion,
		BaseURL:      "http://localhost:8000",
		Interval:     10 * time.Second,
		Timeout:      5 * time.Second,
		HistoryLen:   40,
		DegradedPing: 800 * time.Millisecond,
		OfflineGrace: 30 * time.Second,
		Services:     DefaultServices(),
	}
}
