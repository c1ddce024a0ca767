package health

// Aggregate reduces per-service verdicts to one overall verdict: offline if
// any service is offline, degraded if any is not online, otherwise online.
// An empty set is online. Unrecognised verdicts count as offline.
func Aggregate(verdicts map[string]Verdict) Verdict {
	overall := VerdictOnline
	for _, v := range verdicts {
		switch {
		case v == VerdictDegraded && overall == VerdictOnline:
			overall = VerdictDegraded
		case v.severity() == VerdictOffline.severity():
			overall = VerdictOffline
		}
		if overall == VerdictOffline {
			break
		}
	}
	return overall
}
