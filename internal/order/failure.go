package order

import "math/rand/v2"

// FailurePolicy decides whether a valid intent should simulate a declined
// payment.
type FailurePolicy interface {
	ShouldFail(Intent) bool
}

// NeverFail is the default policy: every valid intent completes.
type NeverFail struct{}

func (NeverFail) ShouldFail(Intent) bool { return false }

// RatioFailurePolicy declines roughly Rate of all attempts. Rate <= 0 never
// fails and Rate >= 1 always fails.
type RatioFailurePolicy struct {
	Rate  float64
	Float func() float64
}

func (p RatioFailurePolicy) ShouldFail(Intent) bool {
	if p.Rate <= 0 {
		return false
	}
	if p.Rate >= 1 {
		return true
	}
	f := p.Float
	if f == nil {
		f = rand.Float64
	}
	return f() < p.Rate
}
