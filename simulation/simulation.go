// Package simulation wires a configured run: the engine, the directory, the
// association tracker, the KPI aggregator, the controller, the reports and
// the optional monitor.
package simulation

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

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

// A Simulation is one fully wired run.
type Simulation struct {
	id      string
	cfg     *config.Config
	logger  *slog.Logger
	horizon sim.VTimeInSec

	engine   sim.Engine
	dir      *wlan.Directory
	reporter *report.RowWriter
	network  *scenario.Network
	mobility *scenario.LinearMobility

	tracker    *association.Tracker
	aggregator *kpi.Aggregator
	controller *control.Controller
	tickers    []*sim.PeriodicTicker

	monitor  *monitoring.Monitor
	progress *monitoring.SimTimeProgress

	components    []monitoring.Component
	compNameIndex map[string]int
}

type horizonEvent struct {
	sim.EventBase
}

// Handle marks the end of the run. The engine clock reaches the horizon even
// when no other event falls on it.
func (s *Simulation) Handle(_ sim.Event) error {
	return nil
}

// ID returns the unique id of the run.
func (s *Simulation) ID() string {
	return s.id
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetDirectory returns the directory of the run.
func (s *Simulation) GetDirectory() *wlan.Directory {
	return s.dir
}

// GetMonitor returns the monitor, or nil when monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetAggregator returns the KPI aggregator.
func (s *Simulation) GetAggregator() *kpi.Aggregator {
	return s.aggregator
}

// GetController returns the controller, or nil when dynamic control is off.
func (s *Simulation) GetController() *control.Controller {
	return s.controller
}

// RegisterComponent registers a component with the simulation.
func (s *Simulation) RegisterComponent(c monitoring.Component) {
	compName := c.Name()
	if _, ok := s.compNameIndex[compName]; ok {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1
}

// GetComponentByName returns the component with the given name.
func (s *Simulation) GetComponentByName(name string) (monitoring.Component, bool) {
	i, ok := s.compNameIndex[name]
	if !ok {
		return nil, false
	}

	return s.components[i], true
}

// Run processes every event up to the horizon and then lets the end
// handlers write the flow summaries.
func (s *Simulation) Run() error {
	s.logDirectory("directory at start")

	for _, t := range s.tickers {
		t.Start(0)
	}

	start := time.Now()

	err := s.engine.Run()
	if err != nil {
		return err
	}

	s.engine.Finished()
	s.reporter.Flush()

	s.logDirectory("directory at end")
	s.logger.Info("simulation finished",
		"id", s.id,
		"time", float64(s.engine.CurrentTime()),
		"wall", time.Since(start))

	return nil
}

func (s *Simulation) logDirectory(msg string) {
	if !s.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	buf := new(strings.Builder)
	if err := s.dir.ListAll(buf); err != nil {
		s.logger.Warn("cannot list directory", "error", err)
		return
	}

	s.logger.Debug(msg, "listing", "\n"+buf.String())
}

// Terminate closes the report backends and stops the monitor.
func (s *Simulation) Terminate() error {
	var errs []error

	if s.monitor != nil {
		s.monitor.CompleteProgressBar(s.progress.Bar())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		errs = append(errs, s.monitor.Shutdown(ctx))
	}

	errs = append(errs, s.reporter.Close())

	return errors.Join(errs...)
}
