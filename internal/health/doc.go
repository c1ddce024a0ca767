// Package health implements the polling engine behind the healthboard
// dashboard: it probes a fixed set of services, keeps a bounded history of
// samples per service, classifies each service and publishes one consistent
// snapshot per refresh cycle.
//
// # Key Components
//
//	Sample      - Immutable outcome of one probe (timestamp, latency, success, payload)
//	History     - Fixed-capacity ring buffer of Samples per service
//	Classifier  - Pure mapping from ServiceState to a Verdict
//	HTTPProber  - One timed HTTP round-trip with a success Predicate
//	Derivation  - A service computed from a field of another service's Sample
//	Scheduler   - Periodic, cancellable, single-flight refresh cycles
//	Aggregate   - Worst-of reduction of all verdicts
//
// # Refresh Cycle
//
//  1. A tick or RefreshNow starts a cycle (ignored if one is already running)
//  2. Independent probers run concurrently, each bounded by its own timeout
//  3. Derived services are computed once their source sample is available
//  4. Samples are appended to history and raw status is updated
//  5. One Snapshot for all services is published to every subscriber
//
// Stop discards the results of any cycle still in flight.
package health
