package association

import (
	"log/slog"
	"slices"

	"github.com/sarchlab/ampductl/actuator"
	"github.com/sarchlab/ampductl/wlan"
)

// A Builder can build Trackers.
type Builder struct {
	dir      *wlan.Directory
	actuator *actuator.Actuator
	mobility wlan.Mobility
	logger   *slog.Logger
	policy   Policy
	channels []wlan.Channel
	handoff  HandoffMode
}

// MakeBuilder returns a Builder with the policy turned off.
func MakeBuilder() Builder {
	return Builder{
		policy: Policy{FullSize: 65535},
	}
}

// WithDirectory sets the directory the tracker updates.
func (b Builder) WithDirectory(dir *wlan.Directory) Builder {
	b.dir = dir
	return b
}

// WithActuator sets how aggregation sizes and channels reach the devices.
func (b Builder) WithActuator(a *actuator.Actuator) Builder {
	b.actuator = a
	return b
}

// WithMobility sets where station positions come from. It is only needed
// for channel-switch handoff.
func (b Builder) WithMobility(m wlan.Mobility) Builder {
	b.mobility = m
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithPolicy sets the disable-on-voice policy.
func (b Builder) WithPolicy(p Policy) Builder {
	b.policy = p
	return b
}

// WithChannels sets the operational channels of the run.
func (b Builder) WithChannels(channels []wlan.Channel) Builder {
	b.channels = slices.Clone(channels)
	return b
}

// WithHandoffMode sets what stations do after an association transition.
func (b Builder) WithHandoffMode(mode HandoffMode) Builder {
	b.handoff = mode
	return b
}

// Build creates a Tracker.
func (b Builder) Build(name string) *Tracker {
	if b.dir == nil {
		panic("association tracker requires a directory")
	}

	if b.actuator == nil {
		panic("association tracker requires an actuator")
	}

	if b.handoff == HandoffChannelSwitch && b.mobility == nil {
		panic("channel-switch handoff requires mobility")
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{
		name:     name,
		dir:      b.dir,
		actuator: b.actuator,
		mobility: b.mobility,
		logger:   logger.With("component", name),
		policy:   b.policy,
		channels: b.channels,
		handoff:  b.handoff,
	}
}
