package association

import (
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

// Transition is the kind of an association event.
type Transition int

// Transitions.
const (
	Associate Transition = iota
	Deassociate
)

func (t Transition) String() string {
	if t == Associate {
		return "associate"
	}

	return "deassociate"
}

// Event notifies that a station associated to or left an access point.
type Event struct {
	sim.EventBase

	Transition Transition
	Station    wlan.NodeID
	AP         wlan.MAC
}

// NewEvent creates an association event.
func NewEvent(
	time sim.VTimeInSec,
	handler sim.Handler,
	transition Transition,
	station wlan.NodeID,
	ap wlan.MAC,
) *Event {
	return &Event{
		EventBase:  sim.MakeEventBase(time, handler),
		Transition: transition,
		Station:    station,
		AP:         ap,
	}
}
