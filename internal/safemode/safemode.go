// Package safemode implements the submission circuit breaker: a two-state
// machine (NORMAL/LOCKED) over the incident stream. Repeated incidents trip
// a lockdown that auto-clears after a fixed cooldown window.
package safemode

import (
	"sync"
	"time"
)

// Defaults for the breaker. Exposed so consumers can report them.
const (
	DefaultIncidentThreshold = 3
	DefaultCooldown          = 30 * time.Second
)

// State is a read-only snapshot of the breaker.
type State struct {
	Active        bool  `json:"active"`
	ActivatedAtMs int64 `json:"activated_at_ms,omitempty"`
	CooldownMs    int64 `json:"cooldown_ms"`
}

// Controller is the safe-mode state machine. The session drives it from a
// single logical thread; the internal mutex only guards against the
// scheduled reset firing on the timer goroutine. Not persisted across
// restarts.
//
// Time is passed explicitly so tests advance it deterministically; the
// scheduled auto-reset goes through an injectable hook for the same reason.
type Controller struct {
	threshold int
	cooldown  time.Duration

	mu          sync.Mutex
	active      bool
	activatedAt time.Time
	timer       *time.Timer

	// schedule arranges fn to run after d. Defaults to time.AfterFunc.
	schedule func(d time.Duration, fn func()) *time.Timer

	// onClear, if set, is invoked whenever the breaker returns to NORMAL,
	// whether via the scheduled reset or a lazily observed lapse.
	onClear func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithSchedule overrides the timer hook, for deterministic tests.
func WithSchedule(fn func(d time.Duration, f func()) *time.Timer) Option {
	return func(c *Controller) { c.schedule = fn }
}

// WithOnClear registers a callback fired on each return to NORMAL.
func WithOnClear(fn func()) Option {
	return func(c *Controller) { c.onClear = fn }
}

// New creates a controller in NORMAL state. Non-positive threshold or
// cooldown fall back to the defaults.
func New(threshold int, cooldown time.Duration, opts ...Option) *Controller {
	if threshold <= 0 {
		threshold = DefaultIncidentThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	c := &Controller{
		threshold: threshold,
		cooldown:  cooldown,
		schedule:  time.AfterFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NoteIncident runs the lockdown check for one incident append.
// priorCount is the number of incidents already stored before this append;
// the breaker trips when that stale count exceeds the threshold. The check
// deliberately reads pre-append state, so in practice the transition fires
// on the (threshold+2)-th incident as observed at the next append. Returns
// true when this call performed the NORMAL → LOCKED transition.
func (c *Controller) NoteIncident(priorCount int, now time.Time) bool {
	c.mu.Lock()
	cleared := c.lapseLocked(now)
	tripped := false
	if !c.active && priorCount > c.threshold {
		c.active = true
		c.activatedAt = now
		c.timer = c.schedule(c.cooldown, c.clear)
		tripped = true
	}
	fn := c.onClear
	c.mu.Unlock()

	if cleared && fn != nil {
		fn()
	}
	return tripped
}

// Active reports whether the breaker is LOCKED at the given instant. A
// lapsed cooldown is observed as NORMAL even before the scheduled reset
// fires, so callers never see a stale lockdown.
func (c *Controller) Active(now time.Time) bool {
	c.mu.Lock()
	cleared := c.lapseLocked(now)
	active := c.active
	fn := c.onClear
	c.mu.Unlock()

	if cleared && fn != nil {
		fn()
	}
	return active
}

// lapseLocked releases a lockdown whose cooldown has elapsed. Returns
// true when this call performed the reset; the caller fires onClear
// after dropping the lock.
func (c *Controller) lapseLocked(now time.Time) bool {
	if c.active && now.Sub(c.activatedAt) >= c.cooldown {
		c.resetLocked()
		return true
	}
	return false
}

// clear is the scheduled cooldown expiry. Idempotent: firing when already
// NORMAL is a no-op.
func (c *Controller) clear() {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	fn := c.onClear
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (c *Controller) resetLocked() {
	c.active = false
	c.activatedAt = time.Time{}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Stop cancels the pending auto-reset, for session teardown.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Snapshot returns the current breaker state.
func (c *Controller) Snapshot(now time.Time) State {
	c.mu.Lock()
	cleared := c.lapseLocked(now)
	s := State{CooldownMs: c.cooldown.Milliseconds()}
	if c.active {
		s.Active = true
		s.ActivatedAtMs = c.activatedAt.UnixMilli()
	}
	fn := c.onClear
	c.mu.Unlock()

	if cleared && fn != nil {
		fn()
	}
	return s
}
