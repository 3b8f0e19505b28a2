package resilience

import "time"

// Policy bounds retries and circuit breaking for one executor. The zero
// value is usable: normalize fills every unset knob from DefaultPolicy.
type Policy struct {
	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	RetryMultiplier     float64

	BreakerEnabled          bool
	BreakerMinRequests      uint32
	BreakerFailureRatio     float64
	BreakerOpenTimeout      time.Duration
	BreakerHalfOpenMaxCalls uint32
}

func DefaultPolicy() Policy {
	return Policy{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 100 * time.Millisecond,
		RetryMaxBackoff:     500 * time.Millisecond,
		RetryMultiplier:     2.0,

		BreakerEnabled:          true,
		BreakerMinRequests:      10,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenMaxCalls: 2,
	}
}

func (p Policy) normalize() Policy {
	def := DefaultPolicy()

	p.RetryMaxAttempts = defaultIfNotPositive(p.RetryMaxAttempts, def.RetryMaxAttempts)
	p.RetryInitialBackoff = defaultIfNotPositive(p.RetryInitialBackoff, def.RetryInitialBackoff)
	p.RetryMaxBackoff = defaultIfNotPositive(p.RetryMaxBackoff, def.RetryMaxBackoff)
	p.RetryMaxBackoff = max(p.RetryMaxBackoff, p.RetryInitialBackoff)
	if p.RetryMultiplier < 1.0 {
		p.RetryMultiplier = def.RetryMultiplier
	}

	if p.BreakerMinRequests == 0 {
		p.BreakerMinRequests = def.BreakerMinRequests
	}
	if p.BreakerFailureRatio <= 0 || p.BreakerFailureRatio > 1 {
		p.BreakerFailureRatio = def.BreakerFailureRatio
	}
	p.BreakerOpenTimeout = defaultIfNotPositive(p.BreakerOpenTimeout, def.BreakerOpenTimeout)
	if p.BreakerHalfOpenMaxCalls == 0 {
		p.BreakerHalfOpenMaxCalls = def.BreakerHalfOpenMaxCalls
	}

	return p
}

func defaultIfNotPositive[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
