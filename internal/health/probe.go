package health

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds a single probe when no timeout is configured.
const DefaultProbeTimeout = 5 * time.Second

// maxBodyBytes caps how much of a response body is decoded.
const maxBodyBytes = 1 << 20

//go:generate mockgen -destination=mock_prober.go -package=health github.com/rileyhilliard/healthboard/internal/health Prober

// Prober performs one probe against a service. Probe never panics and never
// returns an error: every failure is recorded in the returned Sample.
type Prober interface {
	Key() string
	Probe(ctx context.Context) Sample
}

// Response is the decoded response handed to a Predicate.
type Response struct {
	StatusCode int
	Body       map[string]any
}

// Predicate decides whether a decoded response means the service is healthy.
// A nil error means healthy; the error text is kept on the Sample.
type Predicate func(resp Response) error

// HTTPOK accepts any 2xx response without reading the body, so plain-text
// and HTML bodies pass. The prober has already rejected non-2xx codes.
func HTTPOK() Predicate {
	return func(Response) error { return nil }
}

// FieldEquals requires the field at path to render as want.
func FieldEquals(path, want string) Predicate {
	return func(resp Response) error {
		got, ok := Lookup(resp.Body, path)
		if !ok {
			return fmt.Errorf("field %q missing from response", path)
		}
		if fmt.Sprint(got) != want {
			return fmt.Errorf("field %q is %q, want %q", path, fmt.Sprint(got), want)
		}
		return nil
	}
}

// FieldNotNull requires the field at path to be present and non-null.
func FieldNotNull(path string) Predicate {
	return func(resp Response) error {
		got, ok := Lookup(resp.Body, path)
		if !ok || got == nil {
			return fmt.Errorf("field %q is null or missing", path)
		}
		return nil
	}
}

// Lookup resolves a dotted path such as "checks.db" inside a decoded body.
func Lookup(body map[string]any, path string) (any, bool) {
	if body == nil || path == "" {
		return nil, false
	}

	var cur any = body
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// HTTPProber probes a service with a single HTTP request.
type HTTPProber struct {
	key     string
	url     string
	method  string
	body    []byte
	headers map[string]string
	timeout time.Duration
	expect  Predicate
	client  *http.Client
	clock   Clock
}

// ProberOption configures an HTTPProber.
type ProberOption func(*HTTPProber)

// WithMethod sets the request method (default GET).
func WithMethod(method string) ProberOption {
	return func(p *HTTPProber) {
		p.method = strings.ToUpper(method)
	}
}

// WithBody sets a JSON request body.
func WithBody(body []byte) ProberOption {
	return func(p *HTTPProber) {
		p.body = body
	}
}

// WithHeader adds a request header.
func WithHeader(key, value string) ProberOption {
	return func(p *HTTPProber) {
		p.headers[key] = value
	}
}

// WithTimeout bounds each probe.
func WithTimeout(d time.Duration) ProberOption {
	return func(p *HTTPProber) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPredicate sets the success predicate (default HTTPOK).
func WithPredicate(pred Predicate) ProberOption {
	return func(p *HTTPProber) {
		if pred != nil {
			p.expect = pred
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) ProberOption {
	return func(p *HTTPProber) {
		if c != nil {
			p.client = c
		}
	}
}

// WithClock replaces the clock used for timestamps and latency.
func WithClock(c Clock) ProberOption {
	return func(p *HTTPProber) {
		if c != nil {
			p.clock = c
		}
	}
}

// NewHTTPProber creates a prober for the service key at url.
func NewHTTPProber(key, url string, opts ...ProberOption) *HTTPProber {
	p := &HTTPProber{
		key:     key,
		url:     url,
		method:  http.MethodGet,
		headers: make(map[string]string),
		timeout: DefaultProbeTimeout,
		expect:  HTTPOK(),
		client:  &http.Client{},
		clock:   RealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Key returns the service key.
func (p *HTTPProber) Key() string {
	return p.key
}

// URL returns the probed address.
func (p *HTTPProber) URL() string {
	return p.url
}

// Probe sends one request and measures the time from dispatch until the
// body is decoded. Transport failures leave LatencyMs unset, as do decode
// failures when the predicate needs the body.
func (p *HTTPProber) Probe(ctx context.Context) (sample Sample) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := p.clock.Now()
	sample.Timestamp = start

	defer func() {
		if r := recover(); r != nil {
			sample = Sample{
				Timestamp: p.clock.Now(),
				Error:     fmt.Sprintf("probe panicked: %v", r),
			}
		}
	}()

	var reader io.Reader
	if len(p.body) > 0 {
		reader = bytes.NewReader(p.body)
	}

	req, err := http.NewRequestWithContext(ctx, p.method, p.url, reader)
	if err != nil {
		sample.Error = fmt.Sprintf("build request: %v", err)
		return sample
	}
	req.Header.Set("Accept", "application/json")
	if len(p.body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		sample.Timestamp = p.clock.Now()
		sample.Error = p.describeTransportError(ctx, err)
		return sample
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	end := p.clock.Now()
	sample.Timestamp = end
	if err != nil {
		if ctx.Err() != nil {
			sample.Error = p.describeTransportError(ctx, err)
		} else {
			sample.Error = fmt.Sprintf("read response: %v", err)
		}
		return sample
	}
	payload, decodeErr := decodeBody(raw)
	latency := latencyPtr(end.Sub(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		sample.LatencyMs = latency
		sample.Payload = payload
		sample.Error = fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode)
		return sample
	}

	// A body that is not JSON reaches the predicate as a nil Body. Predicates
	// that ignore the body (HTTPOK) still pass; the rest fail on the decode.
	if err := p.expect(Response{StatusCode: resp.StatusCode, Body: payload}); err != nil {
		if decodeErr != nil {
			sample.Error = fmt.Sprintf("decode response: %v", decodeErr)
			return sample
		}
		sample.LatencyMs = latency
		sample.Payload = payload
		sample.Error = err.Error()
		return sample
	}

	sample.LatencyMs = latency
	sample.Payload = payload
	sample.Success = true
	return sample
}

func (p *HTTPProber) describeTransportError(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Sprintf("timed out after %s", p.timeout)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return "probe cancelled"
	}
	return err.Error()
}

// decodeBody decodes a JSON object. An empty body decodes to nil.
func decodeBody(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	return body, nil
}
