package kpi

import (
	"log/slog"

	"github.com/sarchlab/ampductl/report"
	"github.com/sarchlab/ampductl/sim"
)

// A Builder can build Aggregators.
type Builder struct {
	monitor  FlowMonitor
	plan     PortPlan
	recorder report.KPIRecorder
	logger   *slog.Logger
	start    sim.VTimeInSec
}

// MakeBuilder returns a Builder with the default port plan.
func MakeBuilder() Builder {
	return Builder{
		plan:     DefaultPortPlan(),
		recorder: report.Discard,
	}
}

// WithFlowMonitor sets where the counters come from.
func (b Builder) WithFlowMonitor(m FlowMonitor) Builder {
	b.monitor = m
	return b
}

// WithPortPlan sets how destination ports map to flows.
func (b Builder) WithPortPlan(p PortPlan) Builder {
	b.plan = p
	return b
}

// WithRecorder sets where snapshots and summaries are written.
func (b Builder) WithRecorder(r report.KPIRecorder) Builder {
	b.recorder = r
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

// WithStartTime sets the time the counters started from zero.
func (b Builder) WithStartTime(t sim.VTimeInSec) Builder {
	b.start = t
	return b
}

// Build creates an Aggregator.
func (b Builder) Build(name string) (*Aggregator, error) {
	if b.monitor == nil {
		panic("kpi aggregator requires a flow monitor")
	}

	err := b.plan.Validate()
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	recorder := b.recorder
	if recorder == nil {
		recorder = report.Discard
	}

	return &Aggregator{
		name:     name,
		monitor:  b.monitor,
		plan:     b.plan,
		recorder: recorder,
		logger:   logger.With("component", name),
		start:    b.start,
		lastPoll: b.start,
		flows:    make(map[FlowKey]*FlowStatistics),
	}, nil
}
