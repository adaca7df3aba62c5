// Package metrics defines the recorder interface the payment core emits
// counters and latencies through, with Prometheus and no-op backends.
package metrics

import "time"

// Recorder receives payment events and operation latencies.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
