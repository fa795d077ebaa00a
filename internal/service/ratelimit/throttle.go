package ratelimit

import (
	"context"
	"time"
)

// Clock is the time source used by Throttle.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Throttle serializes calls and spaces them at least interval apart, measured
// from the completion of the previous call. Each instance owns its own state.
type Throttle struct {
	interval time.Duration
	clock    Clock
	sem      chan struct{}
	last     time.Time // completion time of the previous call; zero before the first
}

type ThrottleOption func(*Throttle)

// WithClock replaces the wall clock.
func WithClock(c Clock) ThrottleOption {
	return func(t *Throttle) {
		if c != nil {
			t.clock = c
		}
	}
}

// NewThrottle creates a throttle with the given minimum interval.
func NewThrottle(interval time.Duration, opts ...ThrottleOption) *Throttle {
	t := &Throttle{
		interval: interval,
		clock:    realClock{},
		sem:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Interval returns the configured minimum spacing.
func (t *Throttle) Interval() time.Duration { return t.interval }

// Do waits for the remainder of the interval, runs fn, then records the
// completion time. Only one fn runs at a time. The completion time is recorded
// regardless of what fn did; it is not recorded if ctx ends before fn starts.
func (t *Throttle) Do(ctx context.Context, fn func(context.Context)) error {
	select {
	case t.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-t.sem }()

	if !t.last.IsZero() {
		if wait := t.interval - t.clock.Now().Sub(t.last); wait > 0 {
			select {
			case <-t.clock.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	fn(ctx)
	t.last = t.clock.Now()
	return nil
}

// Last returns the completion time of the most recent call.
func (t *Throttle) Last() time.Time {
	t.sem <- struct{}{}
	defer func() { <-t.sem }()
	return t.last
}
