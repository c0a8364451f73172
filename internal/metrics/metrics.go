package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Registry holds the fulfillment counters exposed on /metrics.
type Registry struct {
	DeliveriesCreated   Counter
	TransitionsApplied  Counter
	TransitionsRejected Counter
	ProofsAttached      Counter
	OnboardingRedirects Counter
	OnboardingFailsOpen Counter
	RequestsServed      Counter
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Snapshot returns the current counter values keyed by metric name.
func (r *Registry) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"deliveries_created":    r.DeliveriesCreated.Load(),
		"transitions_applied":   r.TransitionsApplied.Load(),
		"transitions_rejected":  r.TransitionsRejected.Load(),
		"proofs_attached":       r.ProofsAttached.Load(),
		"onboarding_redirects":  r.OnboardingRedirects.Load(),
		"onboarding_fails_open": r.OnboardingFailsOpen.Load(),
		"requests_served":       r.RequestsServed.Load(),
	}
}
