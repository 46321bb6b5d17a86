package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/ampductl/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string
	Name       string
	StartTime  time.Time
	Total      uint64
	Finished   uint64
	InProgress uint64
}

// ProgressBarState is a copy of a bar taken under its lock.
type ProgressBarState struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// State returns a snapshot of the bar.
func (b *ProgressBar) State() ProgressBarState {
	b.Lock()
	defer b.Unlock()

	return ProgressBarState{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// SetFinished moves the finished count forward to amount, capped at Total.
func (b *ProgressBar) SetFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	amount = min(amount, b.Total)
	if amount > b.Finished {
		b.Finished = amount
	}
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// SimTimeProgress is a hook that tracks simulated time on a bar in
// milliseconds.
type SimTimeProgress struct {
	bar *ProgressBar
}

// NewSimTimeProgress creates a bar for a run that ends at horizon and returns
// the hook that keeps it current.
func NewSimTimeProgress(
	m *Monitor,
	horizon sim.VTimeInSec,
) *SimTimeProgress {
	return &SimTimeProgress{
		bar: m.CreateProgressBar("simulated time (ms)", toMillis(horizon)),
	}
}

// Bar returns the tracked bar.
func (p *SimTimeProgress) Bar() *ProgressBar {
	return p.bar
}

// Func moves the bar after every handled event.
func (p *SimTimeProgress) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent {
		return
	}

	evt, ok := ctx.Item.(sim.Event)
	if !ok {
		return
	}

	p.bar.SetFinished(toMillis(evt.Time()))
}

func toMillis(t sim.VTimeInSec) uint64 {
	return uint64(float64(t)*1000 + 0.5)
}
