// Package metrics defines the recording contract for verification
// outcome counters and latency observations.
package metrics

import "time"

// Event names recorded by the verification service.
const (
	EventAccepted = "verification_accepted"
	EventRejected = "verification_rejected"
	EventErrored  = "verification_errored"

	OpConfirmationWait = "confirmation_wait"
)

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}
