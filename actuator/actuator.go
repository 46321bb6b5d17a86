// Package actuator pushes aggregation sizes to devices and keeps the
// directory and the report in step with what was pushed.
package actuator

import (
	"github.com/sarchlab/ampductl/report"
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

// An Actuator applies aggregation sizes to access points and stations. A
// value equal to the last one pushed is not pushed again.
type Actuator struct {
	dir      *wlan.Directory
	device   wlan.Device
	time     sim.TimeTeller
	recorder report.AggregationRecorder
}

// New creates an Actuator.
func New(
	dir *wlan.Directory,
	device wlan.Device,
	time sim.TimeTeller,
	recorder report.AggregationRecorder,
) *Actuator {
	if recorder == nil {
		recorder = report.Discard
	}

	return &Actuator{
		dir:      dir,
		device:   device,
		time:     time,
		recorder: recorder,
	}
}

// SetAP applies the value to the access point. It reports whether the device
// was touched.
func (a *Actuator) SetAP(apID wlan.NodeID, value uint32, cause string) (bool, error) {
	ap, err := a.dir.AP(apID)
	if err != nil {
		return false, err
	}

	if ap.MaxAggregationSize == value {
		return false, nil
	}

	a.device.ApplyAggregationSize(apID, value)

	err = a.dir.SetAPAggregation(apID, value)
	if err != nil {
		return false, err
	}

	a.recorder.RecordAggregationChange(report.AggregationChange{
		Time:       float64(a.time.CurrentTime()),
		EntityID:   int(apID),
		EntityType: report.EntityAP,
		APID:       int(apID),
		Value:      value,
		Cause:      cause,
	})

	return true, nil
}

// SetStation applies the value to the station. The station is reported
// under the access point apID.
func (a *Actuator) SetStation(
	staID, apID wlan.NodeID,
	value uint32,
	cause string,
) (bool, error) {
	st, err := a.dir.Station(staID)
	if err != nil {
		return false, err
	}

	if st.AggregationSize == value {
		return false, nil
	}

	a.device.ApplyAggregationSize(staID, value)

	err = a.dir.SetStationAggregation(staID, value)
	if err != nil {
		return false, err
	}

	a.recorder.RecordAggregationChange(report.AggregationChange{
		Time:       float64(a.time.CurrentTime()),
		EntityID:   int(staID),
		EntityType: report.EntityStation,
		APID:       int(apID),
		Value:      value,
		Cause:      cause,
	})

	return true, nil
}

// SetNonVoiceStations applies the value to every non-voice station
// associated to the access point.
func (a *Actuator) SetNonVoiceStations(
	apID wlan.NodeID,
	value uint32,
	cause string,
) error {
	ap, err := a.dir.AP(apID)
	if err != nil {
		return err
	}

	for _, st := range a.dir.StationsAssociatedTo(ap.MAC) {
		if st.ApplicationType.IsVoice() {
			continue
		}

		_, err := a.SetStation(st.ID, apID, value, cause)
		if err != nil {
			return err
		}
	}

	return nil
}

// SetAPAndNonVoiceStations applies the value to the access point and, if the
// access point changed, to its non-voice stations. It reports whether the
// access point changed.
func (a *Actuator) SetAPAndNonVoiceStations(
	apID wlan.NodeID,
	value uint32,
	cause string,
) (bool, error) {
	changed, err := a.SetAP(apID, value, cause)
	if err != nil || !changed {
		return false, err
	}

	return true, a.SetNonVoiceStations(apID, value, cause)
}

// SetChannel switches the station's radio to the channel. It reports
// whether the device was touched.
func (a *Actuator) SetChannel(staID wlan.NodeID, channel wlan.Channel) (bool, error) {
	st, err := a.dir.Station(staID)
	if err != nil {
		return false, err
	}

	if st.Channel == channel {
		return false, nil
	}

	a.device.SetDeviceChannel(staID, channel)

	return true, a.dir.SetStationChannel(staID, channel)
}
