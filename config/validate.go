package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sarchlab/ampductl/association"
	"github.com/sarchlab/ampductl/control"
	"github.com/sarchlab/ampductl/wlan"
)

// ErrInvalid marks every configuration error.
var ErrInvalid = errors.New("invalid configuration")

// Report backends.
const (
	BackendTSV        = "tsv"
	BackendSQLite     = "sqlite"
	BackendClickHouse = "clickhouse"
)

// Event actions.
const (
	ActionAssociate   = "associate"
	ActionDeassociate = "deassociate"
)

type validator struct {
	errs []error
}

func (v *validator) check(ok bool, format string, args ...any) {
	if !ok {
		v.fail(format, args...)
	}
}

func (v *validator) fail(format string, args ...any) {
	v.errs = append(v.errs,
		fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
}

func (v *validator) wrap(err error, format string, args ...any) {
	if err != nil {
		v.errs = append(v.errs, fmt.Errorf("%w: %s: %w",
			ErrInvalid, fmt.Sprintf(format, args...), err))
	}
}

// Validate reports every problem that would stop the run. The returned error
// matches ErrInvalid.
func (c *Config) Validate() error {
	v := &validator{}

	v.check(c.Simulation.Time > 0, "simulation time must be positive")

	c.validateAggregation(v)
	c.validateKPI(v)
	c.validateReport(v)
	c.validateTopology(v)

	_, err := c.LogLevel()
	v.wrap(err, "log level")

	return errors.Join(v.errs...)
}

func (c *Config) validateAggregation(v *validator) {
	a := c.Aggregation

	v.check(!(a.DisableOnVoice && a.Dynamic),
		"disable_on_voice and dynamic cannot both be on")
	v.check(a.Interval >= 0, "aggregation interval must not be negative")

	_, err := control.ParseLaw(a.Law)
	v.wrap(err, "aggregation law")

	v.check(a.LimitedSize <= a.FullSize,
		"limited size %d above full size %d", a.LimitedSize, a.FullSize)
	v.check(a.MTU+100 <= a.FullSize,
		"minimum size %d above full size %d", a.MTU+100, a.FullSize)

	if c.DynamicEnabled() {
		v.check(a.Budget > 0, "dynamic control requires a latency budget")
		v.check(a.Step > 0, "dynamic control requires a positive step")
	}
}

func (c *Config) validateKPI(v *validator) {
	v.check(c.KPI.PollInterval > 0, "kpi poll interval must be positive")

	plan, err := c.PortPlan()
	if err != nil {
		v.wrap(err, "kpi ports")
		return
	}

	v.wrap(plan.Validate(), "kpi ports")
}

func (c *Config) validateReport(v *validator) {
	v.check(c.Report.PositionInterval >= 0,
		"position interval must not be negative")

	known := []string{BackendTSV, BackendSQLite, BackendClickHouse}
	for _, b := range c.Report.Backends {
		v.check(slices.Contains(known, b), "unknown report backend %q", b)
	}
}

func (c *Config) validateTopology(v *validator) {
	t := c.Topology

	_, err := association.ParseHandoffMode(t.Handoff)
	v.wrap(err, "handoff")

	for _, ch := range t.Channels {
		_, err := wlan.Channel(ch).Band()
		v.wrap(err, "channel %d", ch)
	}

	ids := make(map[int]bool)
	aps := make(map[int]bool)

	for _, ap := range t.APs {
		v.check(!ids[ap.ID], "node id %d used twice", ap.ID)
		ids[ap.ID] = true
		aps[ap.ID] = true

		_, err := wlan.Channel(ap.Channel).Band()
		v.wrap(err, "ap %d", ap.ID)

		if ap.MAC != "" {
			_, err := wlan.ParseMAC(ap.MAC)
			v.wrap(err, "ap %d", ap.ID)
		}
	}

	stations := make(map[int]bool)

	for _, st := range t.Stations {
		v.check(!ids[st.ID], "node id %d used twice", st.ID)
		ids[st.ID] = true
		stations[st.ID] = true

		_, err := wlan.ParseApplicationType(st.Application)
		v.wrap(err, "station %d", st.ID)

		_, err = wlan.StationBand(channels(st.Radios))
		v.wrap(err, "station %d", st.ID)

		v.check(st.ID >= 0 && st.ID < int(c.KPI.BlockSize),
			"station %d does not fit a block of %d ports", st.ID, c.KPI.BlockSize)
	}

	for i, e := range t.Events {
		v.check(stations[e.Station], "event %d: unknown station %d", i, e.Station)
		v.check(aps[e.AP], "event %d: unknown ap %d", i, e.AP)
		v.check(e.Action == ActionAssociate || e.Action == ActionDeassociate,
			"event %d: unknown action %q", i, e.Action)
		v.check(e.Time >= 0 && e.Time <= c.Simulation.Time,
			"event %d: time %g outside the run", i, e.Time)
	}
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Log.Level))

	return level, err
}

func channels(radios []uint8) []wlan.Channel {
	chs := make([]wlan.Channel, len(radios))
	for i, r := range radios {
		chs[i] = wlan.Channel(r)
	}

	return chs
}
