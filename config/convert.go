package config

import (
	"fmt"

	"github.com/sarchlab/ampductl/association"
	"github.com/sarchlab/ampductl/control"
	"github.com/sarchlab/ampductl/kpi"
	"github.com/sarchlab/ampductl/report"
	"github.com/sarchlab/ampductl/wlan"
)

// Policy returns the disable-on-voice policy.
func (c *Config) Policy() association.Policy {
	return association.Policy{
		DisableOnVoice: c.Aggregation.DisableOnVoice,
		LimitedSize:    c.Aggregation.LimitedSize,
		FullSize:       c.Aggregation.FullSize,
	}
}

// Law returns the configured control law.
func (c *Config) Law() (control.Law, error) {
	return control.ParseLaw(c.Aggregation.Law)
}

// ControlParams returns the constants of the control laws.
func (c *Config) ControlParams() control.Params {
	a := c.Aggregation

	return control.Params{
		Step:           a.Step,
		Minimum:        a.MTU + 100,
		MaxSize:        a.FullSize,
		Aggressiveness: a.Aggressiveness,
		Budget:         a.Budget,
	}
}

// PortPlan returns the destination port plan.
func (c *Config) PortPlan() (kpi.PortPlan, error) {
	plan := kpi.PortPlan{
		Bases:     make(map[wlan.ApplicationType]uint16),
		BlockSize: c.KPI.BlockSize,
		AckPort:   c.KPI.AckPort,
	}

	for name, base := range c.KPI.Ports {
		app, err := wlan.ParseApplicationType(name)
		if err != nil {
			return kpi.PortPlan{}, err
		}

		plan.Bases[app] = base
	}

	return plan, nil
}

// HandoffMode returns the handoff mode.
func (c *Config) HandoffMode() (association.HandoffMode, error) {
	return association.ParseHandoffMode(c.Topology.Handoff)
}

// Channels returns the operational channels. Without an explicit list, they
// are the distinct channels of the access points.
func (c *Config) Channels() []wlan.Channel {
	if len(c.Topology.Channels) > 0 {
		return channels(c.Topology.Channels)
	}

	var chs []wlan.Channel

	seen := make(map[wlan.Channel]bool)
	for _, ap := range c.Topology.APs {
		ch := wlan.Channel(ap.Channel)
		if !seen[ch] {
			seen[ch] = true
			chs = append(chs, ch)
		}
	}

	return chs
}

// APRecord converts an access point entry. Access points start at the full
// aggregation size.
func (c *Config) APRecord(ap APConfig) (wlan.APRecord, error) {
	mac := wlan.MACFromID(wlan.NodeID(ap.ID))

	if ap.MAC != "" {
		var err error

		mac, err = wlan.ParseMAC(ap.MAC)
		if err != nil {
			return wlan.APRecord{}, fmt.Errorf("ap %d: %w", ap.ID, err)
		}
	}

	return wlan.APRecord{
		ID:                 wlan.NodeID(ap.ID),
		MAC:                mac,
		Channel:            wlan.Channel(ap.Channel),
		Position:           ap.Position,
		MaxAggregationSize: c.Aggregation.FullSize,
	}, nil
}

// StationRecord converts a station entry. Voice stations start without
// aggregation when the disable-on-voice policy is on; every other station
// starts at the full size.
func (c *Config) StationRecord(st StationConfig) (wlan.StationRecord, error) {
	app, err := wlan.ParseApplicationType(st.Application)
	if err != nil {
		return wlan.StationRecord{}, fmt.Errorf("station %d: %w", st.ID, err)
	}

	size := c.Aggregation.FullSize
	if app.IsVoice() && c.Aggregation.DisableOnVoice {
		size = 0
	}

	return wlan.StationRecord{
		ID:              wlan.NodeID(st.ID),
		ApplicationType: app,
		Radios:          channels(st.Radios),
		AggregationSize: size,
	}, nil
}

// ClickHouseOptions returns the options of the clickhouse backend.
func (c *Config) ClickHouseOptions() report.ClickHouseOptions {
	ch := c.Report.ClickHouse

	return report.ClickHouseOptions{
		Host:     ch.Host,
		Port:     ch.Port,
		Database: ch.Database,
		Username: ch.Username,
		Password: ch.Password,
	}
}
