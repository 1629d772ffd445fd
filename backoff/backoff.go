// Package backoff provides retry delay policies for job execution.
// A Policy is a serializable value carried in job options so that the
// delay rule survives the round trip through the queue store. All
// policies are safe for concurrent use (they are stateless).
package backoff

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Kind selects the delay growth rule of a Policy.
type Kind string

const (
	// KindFixed applies the same delay to every retry attempt.
	KindFixed Kind = "fixed"
	// KindExponential doubles the delay each attempt.
	KindExponential Kind = "exponential"
)

// Policy computes the delay before a retry attempt. The zero value is
// not valid; use Fixed, Exponential, or Default.
type Policy struct {
	// Kind selects fixed or exponential growth.
	Kind Kind `json:"kind"`

	// Base is the delay for attempt 1.
	Base time.Duration `json:"base"`

	// Max caps the computed delay. Zero means no cap.
	Max time.Duration `json:"max,omitempty"`

	// Jitter, when set, randomizes the delay to a value in
	// [0, computed]. Prevents thundering herd when many retries become
	// due simultaneously.
	Jitter bool `json:"jitter,omitempty"`
}

// Fixed returns a policy with the same delay for every attempt.
func Fixed(delay time.Duration) Policy {
	return Policy{Kind: KindFixed, Base: delay}
}

// Exponential returns a policy that doubles the delay each attempt,
// capped at max. Zero max means uncapped.
func Exponential(base, max time.Duration) Policy {
	return Policy{Kind: KindExponential, Base: base, Max: max}
}

// Default returns the policy used when job options specify none:
// exponential with jitter, 1s base, 1m cap.
func Default() Policy {
	return Policy{Kind: KindExponential, Base: time.Second, Max: time.Minute, Jitter: true}
}

// Delay returns how long to wait before retry attempt n (1-indexed).
// Attempt 1 is the first retry after the initial failure. Unknown kinds
// fall back to fixed behavior.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := p.Base
	if p.Kind == KindExponential {
		d = time.Duration(float64(p.Base) * math.Pow(2, float64(attempt-1)))
	}
	if p.Max > 0 && d > p.Max {
		d = p.Max
	}
	if p.Jitter && d > 0 {
		d = time.Duration(rand.Float64() * float64(d)) //nolint:gosec // jitter intentionally uses non-crypto rand
	}
	return d
}

// Validate reports whether the policy is well-formed.
func (p Policy) Validate() error {
	switch p.Kind {
	case KindFixed, KindExponential:
	default:
		return fmt.Errorf("backoff: unknown kind %q", p.Kind)
	}
	if p.Base < 0 {
		return fmt.Errorf("backoff: negative base %v", p.Base)
	}
	return nil
}
