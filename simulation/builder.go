package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/sarchlab/ampductl/actuator"
	"github.com/sarchlab/ampductl/association"
	"github.com/sarchlab/ampductl/config"
	"github.com/sarchlab/ampductl/control"
	"github.com/sarchlab/ampductl/kpi"
	"github.com/sarchlab/ampductl/monitoring"
	"github.com/sarchlab/ampductl/report"
	"github.com/sarchlab/ampductl/scenario"
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

// Builder can be used to build a simulation.
type Builder struct {
	cfg            *config.Config
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	outputFileName string
	recorder       report.DataRecorder
	logger         *slog.Logger
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithConfig sets the configuration of the run. Monitor settings are taken
// from the configuration and can be overridden by later calls.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	b.monitorOn = cfg.Monitor.Enabled
	b.monitorPort = cfg.Monitor.Port
	b.openBrowser = cfg.Monitor.OpenBrowser

	return b
}

// WithMonitoring turns the HTTP monitor on.
func (b Builder) WithMonitoring() Builder {
	b.monitorOn = true
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	b.monitorPort = 0

	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithOutputFileName sets the prefix of the report files, replacing the
// configured prefix.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithDataRecorder makes the run write its rows into the recorder instead of
// the configured backends.
func (b Builder) WithDataRecorder(r report.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithLogger sets the logger passed to every component.
func (b Builder) WithLogger(logger *slog.Logger) Builder {
	b.logger = logger
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.cfg == nil {
		panic("simulation requires a configuration")
	}

	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}
}

// Build validates the configuration and wires every component of a run.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	cfg := b.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Simulation{
		id:            sim.NewRunID(),
		cfg:           cfg,
		logger:        logger,
		horizon:       sim.VTimeInSec(cfg.Simulation.Time),
		compNameIndex: make(map[string]int),
	}

	engine := sim.NewSerialEngine()
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		engine.AcceptHook(sim.NewEventLogger(logger))
	}
	s.engine = engine

	err := b.buildDirectory(s)
	if err != nil {
		return nil, err
	}

	err = b.buildReporter(s)
	if err != nil {
		return nil, err
	}

	err = b.buildComponents(s)
	if err != nil {
		s.reporter.Close()
		return nil, err
	}

	if b.monitorOn {
		err = b.buildMonitor(s)
		if err != nil {
			s.reporter.Close()
			return nil, err
		}
	}

	return s, nil
}

func (b Builder) buildDirectory(s *Simulation) error {
	s.dir = wlan.NewDirectory()

	for _, apCfg := range s.cfg.Topology.APs {
		ap, err := s.cfg.APRecord(apCfg)
		if err != nil {
			return err
		}

		err = s.dir.RegisterAP(ap)
		if err != nil {
			return err
		}
	}

	for _, stCfg := range s.cfg.Topology.Stations {
		st, err := s.cfg.StationRecord(stCfg)
		if err != nil {
			return err
		}

		err = s.dir.RegisterStation(st)
		if err != nil {
			return err
		}
	}

	return nil
}

func (b Builder) buildReporter(s *Simulation) error {
	recorder := b.recorder
	if recorder == nil {
		var err error

		recorder, err = b.configuredRecorder(s)
		if err != nil {
			return err
		}
	}

	s.reporter = report.NewRowWriter(recorder)

	return nil
}

func (b Builder) configuredRecorder(s *Simulation) (report.DataRecorder, error) {
	cfg := s.cfg.Report

	prefix := b.outputFileName
	if prefix == "" {
		prefix = cfg.Prefix
	}
	if prefix == "" {
		prefix = "ampdu_" + s.id
	}

	recorders := make([]report.DataRecorder, 0, len(cfg.Backends))

	for _, backend := range cfg.Backends {
		switch backend {
		case config.BackendTSV:
			r, err := report.NewTSVRecorder(cfg.Dir, prefix)
			if err != nil {
				return nil, err
			}

			recorders = append(recorders, r)
		case config.BackendSQLite:
			recorders = append(recorders,
				report.NewSQLiteRecorder(filepath.Join(cfg.Dir, prefix)))
		case config.BackendClickHouse:
			r, err := report.NewClickHouseRecorder(s.cfg.ClickHouseOptions())
			if err != nil {
				return nil, err
			}

			recorders = append(recorders, r)
		default:
			return nil, fmt.Errorf("report backend %q: %w", backend, config.ErrInvalid)
		}
	}

	if len(recorders) == 1 {
		return recorders[0], nil
	}

	return report.NewMultiRecorder(recorders...), nil
}

func (b Builder) buildComponents(s *Simulation) error {
	cfg := s.cfg

	plan, err := cfg.PortPlan()
	if err != nil {
		return err
	}

	t := cfg.Simulation.Traffic
	s.network, err = scenario.NewNetwork(s.dir, s.engine, plan, scenario.Traffic{
		VoicePacketRate: t.VoicePacketRate,
		VoicePacketSize: t.VoicePacketSize,
		BulkPacketRate:  t.BulkPacketRate,
		BulkPacketSize:  t.BulkPacketSize,
		BaseDelay:       t.BaseDelay,
		DelayPerKB:      t.DelayPerKB,
		LossRate:        t.LossRate,
	}, uint64(cfg.Simulation.Seed))
	if err != nil {
		return err
	}

	s.mobility = scenario.NewLinearMobility(s.engine)
	for _, st := range cfg.Topology.Stations {
		s.mobility.Place(wlan.NodeID(st.ID), st.Position, st.Velocity)
	}

	act := actuator.New(s.dir, s.network, s.engine, s.reporter)

	err = b.buildTracker(s, act)
	if err != nil {
		return err
	}

	err = b.buildAggregator(s, plan)
	if err != nil {
		return err
	}

	if cfg.DynamicEnabled() {
		err = b.buildController(s, act)
		if err != nil {
			return err
		}
	}

	if cfg.Report.PositionInterval > 0 {
		positions := report.NewPositionReporter(s.dir, s.mobility, s.reporter)
		s.tickers = append(s.tickers, sim.NewSecondaryPeriodicTicker(
			"PositionReporter.Ticker", s.engine,
			sim.VTimeInSec(cfg.Report.PositionInterval), s.horizon, positions))
	}

	return b.scheduleEvents(s)
}

func (b Builder) buildTracker(s *Simulation, act *actuator.Actuator) error {
	handoff, err := s.cfg.HandoffMode()
	if err != nil {
		return err
	}

	s.tracker = association.MakeBuilder().
		WithDirectory(s.dir).
		WithActuator(act).
		WithMobility(s.mobility).
		WithLogger(s.logger).
		WithPolicy(s.cfg.Policy()).
		WithChannels(s.cfg.Channels()).
		WithHandoffMode(handoff).
		Build("Tracker")
	s.RegisterComponent(s.tracker)

	return nil
}

func (b Builder) buildAggregator(s *Simulation, plan kpi.PortPlan) error {
	var err error

	s.aggregator, err = kpi.MakeBuilder().
		WithFlowMonitor(s.network).
		WithPortPlan(plan).
		WithRecorder(s.reporter).
		WithLogger(s.logger).
		Build("KPIAggregator")
	if err != nil {
		return err
	}

	s.RegisterComponent(s.aggregator)
	s.engine.RegisterSimulationEndHandler(s.aggregator)

	s.tickers = append(s.tickers, sim.NewPeriodicTicker(
		"KPIAggregator.Ticker", s.engine,
		sim.VTimeInSec(s.cfg.KPI.PollInterval), s.horizon, s.aggregator))

	return nil
}

func (b Builder) buildController(s *Simulation, act *actuator.Actuator) error {
	law, err := s.cfg.Law()
	if err != nil {
		return err
	}

	s.controller, err = control.MakeBuilder().
		WithDirectory(s.dir).
		WithActuator(act).
		WithDelaySource(s.aggregator).
		WithLogger(s.logger).
		WithLaw(law).
		WithParams(s.cfg.ControlParams()).
		Build("Controller")
	if err != nil {
		return err
	}

	s.RegisterComponent(s.controller)

	// The controller must see the poll taken at the same time.
	s.tickers = append(s.tickers, sim.NewSecondaryPeriodicTicker(
		"Controller.Ticker", s.engine,
		sim.VTimeInSec(s.cfg.Aggregation.Interval), s.horizon, s.controller))

	return nil
}

func (b Builder) scheduleEvents(s *Simulation) error {
	transitions := make([]scenario.ScriptedTransition, 0,
		len(s.cfg.Topology.Events))

	for _, e := range s.cfg.Topology.Events {
		transition := association.Associate
		if e.Action == config.ActionDeassociate {
			transition = association.Deassociate
		}

		transitions = append(transitions, scenario.ScriptedTransition{
			Time:       sim.VTimeInSec(e.Time),
			Station:    wlan.NodeID(e.Station),
			AP:         wlan.NodeID(e.AP),
			Transition: transition,
		})
	}

	err := scenario.ScheduleTransitions(s.engine, s.dir, s.tracker, transitions)
	if err != nil {
		return err
	}

	s.engine.Schedule(&horizonEvent{EventBase: sim.MakeEventBase(s.horizon, s)})

	return nil
}

func (b Builder) buildMonitor(s *Simulation) error {
	m := monitoring.NewMonitor().
		WithLogger(s.logger).
		WithPortNumber(b.monitorPort).
		WithBrowser(b.openBrowser)

	m.RegisterEngine(s.engine)
	m.RegisterDirectory(s.dir)

	for _, c := range s.components {
		m.RegisterComponent(c)
	}

	s.progress = monitoring.NewSimTimeProgress(m, s.horizon)
	s.engine.AcceptHook(s.progress)

	_, err := m.StartServer()
	if err != nil {
		return err
	}

	s.monitor = m

	return nil
}
