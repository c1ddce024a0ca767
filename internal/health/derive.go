package health

import "fmt"

// Derivation describes a service without its own endpoint whose health is
// read from a field of another service's response, such as a database
// status embedded in a backend health payload.
type Derivation struct {
	// Key identifies the derived service.
	Key string
	// Source is the key of the independent service whose sample is read.
	Source string
	// Field is a dotted path into the source payload.
	Field string
	// Expect decides success from the embedded field. Defaults to
	// FieldEquals(Field, "ok").
	Expect Predicate
}

// Derive builds this service's sample from the source sample. It shares the
// source timestamp and latency. A failed source fails every dependent.
func (d Derivation) Derive(src Sample) Sample {
	out := Sample{
		Timestamp: src.Timestamp,
		LatencyMs: src.LatencyMs,
	}

	if !src.Success {
		reason := src.Error
		if reason == "" {
			reason = "probe failed"
		}
		out.Error = fmt.Sprintf("source %q failed: %s", d.Source, reason)
		return out
	}

	if v, ok := Lookup(src.Payload, d.Field); ok {
		out.Payload = map[string]any{d.Field: v}
	}

	expect := d.Expect
	if expect == nil {
		expect = FieldEquals(d.Field, "ok")
	}
	if err := expect(Response{StatusCode: 200, Body: src.Payload}); err != nil {
		out.Error = err.Error()
		return out
	}

	out.Success = true
	return out
}
