package sim

import (
	"fmt"
	"math"
)

// TickEvent is a generic event that periodic tasks use to wake themselves up.
type TickEvent struct {
	EventBase
}

// MakeTickEvent creates a new TickEvent
func MakeTickEvent(handler Handler, time VTimeInSec) TickEvent {
	return TickEvent{EventBase: MakeEventBase(time, handler)}
}

// A Ticker is an object that updates states with ticks.
type Ticker interface {
	Tick(now VTimeInSec) error
}

// A PeriodicTicker invokes a Ticker at a fixed interval until the run horizon.
//
// Tick times are computed as start + k*interval so that they do not drift.
// The next tick is scheduled only after the current one completes, and only
// if it falls at or before the horizon, so a periodic task can never overlap
// with itself and never outlives the run.
type PeriodicTicker struct {
	name      string
	engine    EventScheduler
	ticker    Ticker
	interval  VTimeInSec
	horizon   VTimeInSec
	secondary bool

	start   VTimeInSec
	count   uint64
	pending bool
}

// NewPeriodicTicker creates a ticker that schedules primary tick events.
func NewPeriodicTicker(
	name string,
	engine EventScheduler,
	interval, horizon VTimeInSec,
	ticker Ticker,
) *PeriodicTicker {
	if interval <= 0 {
		panic(fmt.Sprintf("periodic ticker %s: interval must be positive", name))
	}

	return &PeriodicTicker{
		name:     name,
		engine:   engine,
		ticker:   ticker,
		interval: interval,
		horizon:  horizon,
	}
}

// NewSecondaryPeriodicTicker creates a ticker whose tick events run after
// all same-time primary events.
func NewSecondaryPeriodicTicker(
	name string,
	engine EventScheduler,
	interval, horizon VTimeInSec,
	ticker Ticker,
) *PeriodicTicker {
	t := NewPeriodicTicker(name, engine, interval, horizon, ticker)
	t.secondary = true

	return t
}

// Name returns the name of the ticker.
func (t *PeriodicTicker) Name() string {
	return t.name
}

// Interval returns the time between two ticks.
func (t *PeriodicTicker) Interval() VTimeInSec {
	return t.interval
}

// Start schedules the first tick one interval after the given time. Calling
// Start while a tick is pending has no effect.
func (t *PeriodicTicker) Start(at VTimeInSec) {
	if t.pending {
		return
	}

	t.start = at
	t.count = 0
	t.scheduleNext()
}

// Handle runs the ticker and schedules the next tick.
func (t *PeriodicTicker) Handle(e Event) error {
	t.pending = false

	err := t.ticker.Tick(e.Time())
	if err != nil {
		return fmt.Errorf("%s: %w", t.name, err)
	}

	t.scheduleNext()

	return nil
}

func (t *PeriodicTicker) scheduleNext() {
	next := t.start + VTimeInSec(float64(t.count+1)*float64(t.interval))
	if !withinHorizon(next, t.horizon) {
		return
	}

	t.count++

	evt := MakeTickEvent(t, next)
	evt.secondary = t.secondary
	t.pending = true
	t.engine.Schedule(evt)
}

// withinHorizon tolerates the rounding error of the start + k*interval
// computation.
func withinHorizon(t, horizon VTimeInSec) bool {
	return float64(t) <= float64(horizon)+1e-9*math.Max(1, float64(horizon))
}
