package control

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/ampductl/actuator"
	"github.com/sarchlab/ampductl/wlan"
)

// A Builder can build Controllers.
type Builder struct {
	dir      *wlan.Directory
	actuator *actuator.Actuator
	delays   DelaySource
	logger   *slog.Logger
	law      Law
	params   Params
}

// MakeBuilder returns a Builder with the linear law and the default
// constants of an 802.11n run with a 1500 byte MTU.
func MakeBuilder() Builder {
	return Builder{
		law: LawLinear,
		params: Params{
			Step:           1000,
			Minimum:        1600,
			MaxSize:        65535,
			Aggressiveness: 10,
		},
	}
}

// WithDirectory sets the directory that lists the access points.
func (b Builder) WithDirectory(dir *wlan.Directory) Builder {
	b.dir = dir
	return b
}

// WithActuator sets how new sizes reach the devices.
func (b Builder) WithActuator(a *actuator.Actuator) Builder {
	b.actuator = a
	return b
}

// WithDelaySource sets where last-interval delays come from.
func (b Builder) WithDelaySource(d DelaySource) Builder {
	b.delays = d
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithLaw sets the control law.
func (b Builder) WithLaw(law Law) Builder {
	b.law = law
	return b
}

// WithParams sets the constants of the control laws.
func (b Builder) WithParams(p Params) Builder {
	b.params = p
	return b
}

// Build creates a Controller.
func (b Builder) Build(name string) (*Controller, error) {
	if b.dir == nil {
		panic("controller requires a directory")
	}

	if b.actuator == nil {
		panic("controller requires an actuator")
	}

	if b.delays == nil {
		panic("controller requires a delay source")
	}

	if _, ok := lawFuncs[b.law]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLaw, int(b.law))
	}

	if b.params.Minimum > b.params.MaxSize {
		return nil, fmt.Errorf("minimum %d above maximum %d",
			b.params.Minimum, b.params.MaxSize)
	}

	if b.params.Budget <= 0 {
		return nil, errors.New("controller requires a positive latency budget")
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		name:     name,
		dir:      b.dir,
		actuator: b.actuator,
		delays:   b.delays,
		logger:   logger.With("component", name),
		law:      b.law,
		params:   b.params,
		bounds:   InitialBounds(b.params),
	}, nil
}
