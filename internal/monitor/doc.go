// Package monitor implements the interactive health dashboard shown by
// `healthboard watch`.
//
// The dashboard is a Bubble Tea program that renders snapshots published by
// a health.Scheduler. It never probes anything itself: a Feed subscribes to
// the scheduler and hands the newest snapshot to the event loop, and the
// model re-classifies that snapshot once a second so grace windows expire on
// screen even between refresh cycles.
//
// # Keyboard Controls
//
//	q / Ctrl+C  - Quit
//	r           - Refresh now (ignored while a cycle is in flight)
//	i           - Cycle the refresh interval
//	s           - Cycle sort order (config, name, status, latency)
//	up / k      - Select previous service
//	down / j    - Select next service
//	Home / End  - Jump to first or last service
//	Enter       - Show service details
//	Esc         - Back / close help
//	?           - Toggle help overlay
//
// # Layout
//
// Below 80 columns each service gets one line. Wider terminals get cards
// holding the verdict, latest latency, time since the last success, a
// latency sparkline, and the most recent error. The detail view adds a
// braille latency graph, the recent probe log, and the last JSON payload in
// a scrollable viewport.
package monitor
