// Package retry computes inter-attempt delays for the three retry
// strategies spec §4.7 defines. It is grounded on the teacher's
// internal/orchestrator/resilience.go, which drives
// backoff.ExponentialBackOff the same way for its own retry loop; here
// the library only supplies the EXPONENTIAL curve, since FIXED and
// IMMEDIATE aren't curves at all.
package retry

import (
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Strategy mirrors frameloop.RetryStrategy without importing the root
// package (which imports this one), avoiding an import cycle.
type Strategy int

const (
	Fixed Strategy = iota
	Immediate
	Exponential
)

// Delay returns the delay to wait after `attempt` attempts have been
// made (1-indexed: attempt 1 gives the delay before the first retry).
// base and maxDelay of zero fall back to sensible defaults; maxDelay of
// zero for Exponential means uncapped.
func Delay(strategy Strategy, attempt int, base, maxDelay time.Duration) time.Duration {
	if base <= 0 {
		base = 100 * time.Millisecond
	}

	switch strategy {
	case Immediate:
		return 0
	case Exponential:
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = base
		b.Multiplier = 2.0
		b.RandomizationFactor = 0 // deterministic delays, spec §8 property 5 requires strict monotonicity
		if maxDelay > 0 {
			b.MaxInterval = maxDelay
		} else {
			b.MaxInterval = time.Duration(math.MaxInt64)
		}
		b.MaxElapsedTime = 0 // never return backoff.Stop
		b.Reset()
		var d time.Duration
		// NextBackOff's k-th call (1-indexed) returns base*multiplier^(k-1);
		// spec §4.7 wants base*2^(attempts-1) before retry number `attempt`,
		// so calling it `attempt` times lands on the right delay.
		steps := attempt
		if steps < 1 {
			steps = 1
		}
		for i := 0; i < steps; i++ {
			d = b.NextBackOff()
		}
		if maxDelay > 0 && d > maxDelay {
			d = maxDelay
		}
		return d
	case Fixed:
		fallthrough
	default:
		return base
	}
}
