package doctor

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// DefaultDialTimeout bounds the backend reachability check.
const DefaultDialTimeout = 5 * time.Second

// BaseURLCheck resolves the backend host and opens a TCP connection to it,
// separating "nothing is listening" from "the health endpoints are broken".
type BaseURLCheck struct {
	BaseURL string
	Timeout time.Duration
}

func (c *BaseURLCheck) Name() string     { return "backend_reachable" }
func (c *BaseURLCheck) Category() string { return CategoryBackend }

func (c *BaseURLCheck) Run(ctx context.Context) CheckResult {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Hostname() == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Invalid base URL %q", c.BaseURL),
			Suggestion: "Set base_url to something like http://localhost:8000",
		}
	}

	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if net.ParseIP(host) == nil {
		if _, err := net.DefaultResolver.LookupHost(ctx, host); err != nil {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    fmt.Sprintf("Cannot resolve %s", host),
				Suggestion: "Check the hostname in base_url or HEALTHBOARD_BASE_URL",
			}
		}
	}

	addr := net.JoinHostPort(host, port)
	start := time.Now()
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot connect to %s: %v", addr, err),
			Suggestion: "Is the backend running? Start it, or point base_url at the right host",
		}
	}
	elapsed := time.Since(start)
	_ = conn.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Reachable: %s (connected in %d ms)", addr, elapsed.Milliseconds()),
	}
}

func (c *BaseURLCheck) Fix() error {
	return nil
}
