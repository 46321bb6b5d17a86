package association

import (
	"fmt"
	"strings"
)

// Policy configures the disable-on-voice behavior.
type Policy struct {
	DisableOnVoice bool

	// LimitedSize is the aggregation size used while a voice station is
	// associated. It may be zero.
	LimitedSize uint32

	// FullSize is the aggregation size restored when no voice station
	// remains.
	FullSize uint32
}

// HandoffMode selects what a station does with its radio after an
// association transition.
type HandoffMode int

// Handoff modes.
const (
	HandoffNone HandoffMode = iota
	HandoffChannelSwitch
)

var handoffModeNames = map[HandoffMode]string{
	HandoffNone:          "none",
	HandoffChannelSwitch: "channel-switch",
}

func (m HandoffMode) String() string {
	if name, ok := handoffModeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("HandoffMode(%d)", int(m))
}

// ParseHandoffMode converts a name such as "channel-switch" into a
// HandoffMode. The empty string means HandoffNone.
func ParseHandoffMode(s string) (HandoffMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return HandoffNone, nil
	}

	for mode, name := range handoffModeNames {
		if name == s {
			return mode, nil
		}
	}

	return HandoffNone, fmt.Errorf("unknown handoff mode %q", s)
}
