package ui

import "github.com/rileyhilliard/healthboard/internal/health"

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Operation completed
	SymbolFail     = "✗" // Operation failed
	SymbolPending  = "○" // No data yet
	SymbolProgress = "◐" // Refresh in flight
	SymbolComplete = "●" // Filled dot
	SymbolMissing  = "·" // Sample without a latency
)

// Verdict symbols. Degraded shares the half-filled glyph with progress.
const (
	SymbolOnline   = SymbolComplete
	SymbolDegraded = SymbolProgress
	SymbolOffline  = SymbolFail
)

// VerdictSymbol returns the glyph for a verdict.
func VerdictSymbol(v health.Verdict) string {
	switch v {
	case health.VerdictOnline:
		return SymbolOnline
	case health.VerdictDegraded:
		return SymbolDegraded
	default:
		return SymbolOffline
	}
}
