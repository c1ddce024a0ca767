// Package ui provides the shared terminal rendering helpers for healthboard:
// the color palette, verdict symbols, latency sparklines, the status table
// printed by `healthboard check`, and the refresh spinner used by the
// dashboard.
//
// # Color Scheme
//
// Colors are ANSI codes so output follows the terminal theme:
//
//	ColorSuccess (green)  - online
//	ColorWarning (yellow) - degraded
//	ColorError   (red)    - offline
//	ColorMuted   (gray)   - secondary text, timing info
//
// # Symbols
//
//	SymbolOnline   (filled dot) - online
//	SymbolDegraded (half-fill)  - degraded
//	SymbolOffline  (X)          - offline
//	SymbolMissing  (middle dot) - sparkline sample with no response
//
// Rendering goes through lipgloss, which drops styling automatically when
// output is not a terminal.
package ui
