package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatLatency(t *testing.T) {
	assert.Equal(t, "-", FormatLatency(nil))
	assert.Equal(t, "0 ms", FormatLatency(ms(0)))
	assert.Equal(t, "123 ms", FormatLatency(ms(123)))
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "never"},
		{"sub-second", now.Add(-300 * time.Millisecond), "just now"},
		{"seconds", now.Add(-42 * time.Second), "42s ago"},
		{"minutes", now.Add(-3 * time.Minute), "3m ago"},
		{"hours", now.Add(-5 * time.Hour), "5h ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(tt.t, now))
		})
	}
}

func TestFormatInterval(t *testing.T) {
	assert.Equal(t, "off", FormatInterval(0))
	assert.Equal(t, "10s", FormatInterval(10*time.Second))
	assert.Equal(t, "2m", FormatInterval(2*time.Minute))
	assert.Equal(t, "1.5s", FormatInterval(1500*time.Millisecond))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "hell…", Truncate("hello world", 5))
	assert.Equal(t, "h", Truncate("hello", 1))
	assert.Equal(t, "", Truncate("hello", 0))
}
