package health

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPProber_Success(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"status":"ok","database":"ok"}`)

	p := NewHTTPProber("backend", srv.URL, WithPredicate(FieldEquals("status", "ok")))
	s := p.Probe(context.Background())

	assert.True(t, s.Success)
	assert.Empty(t, s.Error)
	require.NotNil(t, s.LatencyMs)
	assert.GreaterOrEqual(t, *s.LatencyMs, int64(0))
	assert.Equal(t, "ok", s.Payload["database"])
	assert.False(t, s.Timestamp.IsZero())
	assert.Equal(t, "backend", p.Key())
	assert.Equal(t, srv.URL, p.URL())
}

func TestHTTPProber_PredicateFailure(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"status":"starting"}`)

	s := NewHTTPProber("backend", srv.URL, WithPredicate(FieldEquals("status", "ok"))).Probe(context.Background())

	assert.False(t, s.Success)
	assert.True(t, s.Responded(), "a rejected response still has latency")
	assert.Contains(t, s.Error, `field "status" is "starting"`)
	assert.Equal(t, "starting", s.Payload["status"])
}

func TestHTTPProber_Non2xx(t *testing.T) {
	srv := jsonServer(t, http.StatusServiceUnavailable, `{"status":"down"}`)

	s := NewHTTPProber("api", srv.URL).Probe(context.Background())

	assert.False(t, s.Success)
	assert.True(t, s.Responded())
	assert.Equal(t, "unexpected HTTP status 503", s.Error)
}

func TestHTTPProber_DecodeFailure(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `<html>not json</html>`)

	s := NewHTTPProber("backend", srv.URL, WithPredicate(FieldEquals("status", "ok"))).Probe(context.Background())

	assert.False(t, s.Success)
	assert.False(t, s.Responded(), "undecodable body has no latency")
	assert.Contains(t, s.Error, "decode response")
}

func TestHTTPProber_PlainTextBodyWithHTTPOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "pong")
	}))
	t.Cleanup(srv.Close)

	s := NewHTTPProber("api", srv.URL, WithPredicate(HTTPOK())).Probe(context.Background())

	assert.True(t, s.Success, s.Error)
	assert.Empty(t, s.Error)
	assert.True(t, s.Responded())
	assert.Nil(t, s.Payload)
}

func TestHTTPProber_Non2xxHTMLBody(t *testing.T) {
	srv := jsonServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)

	s := NewHTTPProber("api", srv.URL).Probe(context.Background())

	assert.False(t, s.Success)
	assert.True(t, s.Responded(), "the server answered, so latency is kept")
	assert.Equal(t, "unexpected HTTP status 502", s.Error)
}

func TestHTTPProber_EmptyBody(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, "")

	s := NewHTTPProber("api", srv.URL).Probe(context.Background())

	assert.True(t, s.Success)
	assert.Nil(t, s.Payload)
}

func TestHTTPProber_ConnectionRefused(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	s := NewHTTPProber("api", url).Probe(context.Background())

	assert.False(t, s.Success)
	assert.False(t, s.Responded())
	assert.NotEmpty(t, s.Error)
}

func TestHTTPProber_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s := NewHTTPProber("slow", srv.URL, WithTimeout(50*time.Millisecond)).Probe(context.Background())

	assert.False(t, s.Success)
	assert.False(t, s.Responded())
	assert.Equal(t, "timed out after 50ms", s.Error)
}

func TestHTTPProber_Cancelled(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewHTTPProber("api", srv.URL).Probe(ctx)

	assert.False(t, s.Success)
	assert.Equal(t, "probe cancelled", s.Error)
}

func TestHTTPProber_PostWithBody(t *testing.T) {
	var gotMethod, gotType, gotHeader string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotHeader = r.Header.Get("X-Probe")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{"data":{"__typename":"Query"}}`)
	}))
	defer srv.Close()

	p := NewHTTPProber("graphql", srv.URL,
		WithMethod("post"),
		WithBody([]byte(`{"query":"{ __typename }"}`)),
		WithHeader("X-Probe", "healthboard"),
		WithPredicate(FieldNotNull("data")),
	)
	s := p.Probe(context.Background())

	assert.True(t, s.Success)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "healthboard", gotHeader)
	assert.Equal(t, "{ __typename }", gotBody["query"])
}

func TestHTTPProber_NullDataFails(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"data":null,"errors":[{"message":"boom"}]}`)

	s := NewHTTPProber("graphql", srv.URL, WithPredicate(FieldNotNull("data"))).Probe(context.Background())

	assert.False(t, s.Success)
	assert.Contains(t, s.Error, "null or missing")
}

func TestLookup(t *testing.T) {
	body := map[string]any{
		"status": "ok",
		"checks": map[string]any{
			"db":    "ok",
			"count": float64(3),
		},
	}

	tests := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{"top level", "status", "ok", true},
		{"nested", "checks.db", "ok", true},
		{"nested number", "checks.count", float64(3), true},
		{"missing", "redis", nil, false},
		{"through a scalar", "status.inner", nil, false},
		{"empty path", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(body, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Lookup(nil, "status")
	assert.False(t, ok)
}

func TestFieldEquals_NonString(t *testing.T) {
	pred := FieldEquals("checks.count", "3")
	assert.NoError(t, pred(Response{Body: map[string]any{"checks": map[string]any{"count": float64(3)}}}))
	assert.Error(t, pred(Response{Body: map[string]any{}}))
}
