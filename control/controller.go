package control

import (
	"log/slog"

	"github.com/sarchlab/ampductl/actuator"
	"github.com/sarchlab/ampductl/kpi"
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

// CauseDynamic marks aggregation changes made by the controller.
const CauseDynamic = "dynamic"

// A DelaySource reports the last-interval delay of a flow. ok is false when
// the delay is undefined.
type DelaySource interface {
	LastIntervalDelay(key kpi.FlowKey) (delay float64, ok bool)
}

// Controller adjusts the aggregation size of every access point once per
// tick.
type Controller struct {
	name     string
	dir      *wlan.Directory
	actuator *actuator.Actuator
	delays   DelaySource
	logger   *slog.Logger

	law    Law
	params Params
	bounds Bounds
}

// Name returns the name of the controller.
func (c *Controller) Name() string {
	return c.name
}

// Law returns the control law in use.
func (c *Controller) Law() Law {
	return c.law
}

// Params returns the constants the controller runs with.
func (c *Controller) Params() Params {
	return c.params
}

// Bounds returns the current bisection bounds.
func (c *Controller) Bounds() Bounds {
	return c.bounds
}

// Tick runs the control law for every access point in registration order.
func (c *Controller) Tick(now sim.VTimeInSec) error {
	for _, ap := range c.dir.APs() {
		err := c.adjust(now, ap)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Controller) adjust(now sim.VTimeInSec, ap wlan.APRecord) error {
	worst := c.WorstVoiceDelay(ap.MAC)

	next, bounds, err := Next(c.law, ap.MaxAggregationSize, worst,
		c.params, c.bounds)
	if err != nil {
		return err
	}

	c.bounds = bounds

	changed, err := c.actuator.SetAPAndNonVoiceStations(ap.ID, next, CauseDynamic)
	if err != nil {
		return err
	}

	if !changed {
		c.logger.Debug("aggregation unchanged",
			"time", float64(now), "ap", ap.ID, "value", next,
			"worst_voice_delay", worst)

		return nil
	}

	c.logger.Debug("aggregation changed",
		"time", float64(now), "ap", ap.ID,
		"from", ap.MaxAggregationSize, "to", next,
		"worst_voice_delay", worst)

	return nil
}

// WorstVoiceDelay returns the highest last-interval delay among the voice
// stations associated to the access point. Undefined delays are skipped.
// It is zero if no voice station has a defined delay.
func (c *Controller) WorstVoiceDelay(apMAC wlan.MAC) float64 {
	worst := 0.0

	for _, st := range c.dir.StationsAssociatedTo(apMAC) {
		if !st.ApplicationType.IsVoice() {
			continue
		}

		delay, ok := c.delays.LastIntervalDelay(kpi.StationFlow(st))
		if !ok {
			c.logger.Debug("delay not defined this period", "station", st.ID)
			continue
		}

		worst = max(worst, delay)
	}

	return worst
}
