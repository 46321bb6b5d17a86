package scenario

import (
	"fmt"

	"github.com/sarchlab/ampductl/association"
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

// A ScriptedTransition is one scheduled association change.
type ScriptedTransition struct {
	Time       sim.VTimeInSec
	Station    wlan.NodeID
	AP         wlan.NodeID
	Transition association.Transition
}

// ScheduleTransitions schedules one association event per transition, to be
// handled by the given handler.
func ScheduleTransitions(
	engine sim.EventScheduler,
	dir *wlan.Directory,
	handler sim.Handler,
	transitions []ScriptedTransition,
) error {
	for _, t := range transitions {
		ap, err := dir.AP(t.AP)
		if err != nil {
			return fmt.Errorf("transition at %.3f: %w", float64(t.Time), err)
		}

		engine.Schedule(association.NewEvent(
			t.Time, handler, t.Transition, t.Station, ap.MAC))
	}

	return nil
}
