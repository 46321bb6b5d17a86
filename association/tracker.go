package association

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sarchlab/ampductl/actuator"
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

// ErrNotAssociated is returned when a station leaves an access point it was
// not associated to.
var ErrNotAssociated = errors.New("station not associated to ap")

// Causes recorded with aggregation changes.
const (
	CauseVoiceAssociated    = "voice-associated"
	CauseVoiceDeparted      = "voice-departed"
	CauseNonVoiceAssociated = "non-voice-associated"
	CauseNonVoiceDeparted   = "non-voice-departed"
)

// A Listener is notified about association transitions. Calls arrive in
// chronological order, exactly once per transition.
type Listener interface {
	OnAssociate(station wlan.NodeID, ap wlan.MAC) error
	OnDeassociate(station wlan.NodeID, ap wlan.MAC) error
}

// Tracker keeps the directory's association state and applies the
// disable-on-voice policy.
type Tracker struct {
	name     string
	dir      *wlan.Directory
	actuator *actuator.Actuator
	mobility wlan.Mobility
	logger   *slog.Logger

	policy   Policy
	channels []wlan.Channel
	handoff  HandoffMode
}

// Name returns the name of the tracker.
func (t *Tracker) Name() string {
	return t.name
}

// Policy returns the disable-on-voice policy in use.
func (t *Tracker) Policy() Policy {
	return t.policy
}

// Handle dispatches association events.
func (t *Tracker) Handle(e sim.Event) error {
	switch e := e.(type) {
	case *Event:
		if e.Transition == Associate {
			return t.OnAssociate(e.Station, e.AP)
		}

		return t.OnDeassociate(e.Station, e.AP)
	default:
		return fmt.Errorf("%s: cannot handle event of type %T", t.name, e)
	}
}

// OnAssociate records that the station joined the access point.
func (t *Tracker) OnAssociate(station wlan.NodeID, apMAC wlan.MAC) error {
	apID, err := t.dir.LookupAPByMAC(apMAC)
	if err != nil {
		return err
	}

	channel, err := t.dir.APChannel(apID)
	if err != nil {
		return err
	}

	st, err := t.dir.Station(station)
	if err != nil {
		return err
	}

	err = t.dir.SetStationAssociation(station, apMAC)
	if err != nil {
		return err
	}

	t.logger.Debug("station associated",
		"station", station, "ap", apID, "channel", channel,
		"application", st.ApplicationType)

	if t.policy.DisableOnVoice {
		err = t.applyOnAssociate(st, apID)
		if err != nil {
			return err
		}
	}

	return t.reassignChannel(st)
}

func (t *Tracker) applyOnAssociate(st wlan.StationRecord, apID wlan.NodeID) error {
	ap, err := t.dir.AP(apID)
	if err != nil {
		return err
	}

	if st.ApplicationType.IsVoice() {
		_, err = t.actuator.SetStation(st.ID, apID, 0, CauseVoiceAssociated)
		if err != nil {
			return err
		}

		if ap.MaxAggregationSize == 0 {
			return nil
		}

		_, err = t.actuator.SetAP(apID, t.policy.LimitedSize, CauseVoiceAssociated)
		if err != nil {
			return err
		}

		return t.actuator.SetNonVoiceStations(
			apID, t.policy.LimitedSize, CauseVoiceAssociated)
	}

	value := ap.MaxAggregationSize
	if t.apLimited(ap) {
		value = t.policy.LimitedSize
	}

	_, err = t.actuator.SetStation(st.ID, apID, value, CauseNonVoiceAssociated)

	return err
}

// OnDeassociate records that the station left the access point.
func (t *Tracker) OnDeassociate(station wlan.NodeID, apMAC wlan.MAC) error {
	apID, err := t.dir.LookupAPByMAC(apMAC)
	if err != nil {
		return err
	}

	st, err := t.dir.Station(station)
	if err != nil {
		return err
	}

	if !st.IsAssociatedTo(apMAC) {
		return fmt.Errorf("station %d, ap %s: %w",
			station, apMAC, ErrNotAssociated)
	}

	err = t.dir.SetStationAssociation(station, wlan.NullMAC)
	if err != nil {
		return err
	}

	t.logger.Debug("station deassociated",
		"station", station, "ap", apID, "application", st.ApplicationType)

	if t.policy.DisableOnVoice {
		err = t.applyOnDeassociate(st, apID, apMAC)
		if err != nil {
			return err
		}
	}

	return t.reassignChannel(st)
}

func (t *Tracker) applyOnDeassociate(
	st wlan.StationRecord,
	apID wlan.NodeID,
	apMAC wlan.MAC,
) error {
	if st.ApplicationType.IsVoice() {
		for _, other := range t.dir.StationsAssociatedTo(apMAC) {
			if other.ApplicationType.IsVoice() {
				return nil
			}
		}

		_, err := t.actuator.SetAP(apID, t.policy.FullSize, CauseVoiceDeparted)
		if err != nil {
			return err
		}

		return t.actuator.SetNonVoiceStations(
			apID, t.policy.FullSize, CauseVoiceDeparted)
	}

	ap, err := t.dir.AP(apID)
	if err != nil {
		return err
	}

	if !t.apLimited(ap) {
		return nil
	}

	// Only the access point is restored. The remaining non-voice stations
	// keep the limited value.
	_, err = t.actuator.SetAP(apID, t.policy.FullSize, CauseNonVoiceDeparted)

	return err
}

// apLimited tells if the access point currently runs at the limited value.
func (t *Tracker) apLimited(ap wlan.APRecord) bool {
	return ap.MaxAggregationSize == t.policy.LimitedSize
}

// reassignChannel moves the station's radio to the channel of the nearest
// access point in its band.
func (t *Tracker) reassignChannel(st wlan.StationRecord) error {
	if len(t.channels) <= 1 || t.handoff != HandoffChannelSwitch {
		return nil
	}

	band, err := wlan.StationBand(st.Radios)
	if err != nil {
		return fmt.Errorf("station %d: %w", st.ID, err)
	}

	pos := t.mobility.Position(st.ID)

	nearest, distance, err := wlan.NearestAP(t.dir.APs(), pos, band)
	if err != nil {
		return fmt.Errorf("station %d: %w", st.ID, err)
	}

	switched, err := t.actuator.SetChannel(st.ID, nearest.Channel)
	if err != nil {
		return err
	}

	if switched {
		t.logger.Debug("station switched channel",
			"station", st.ID, "channel", nearest.Channel,
			"nearest_ap", nearest.ID, "distance", distance)
	}

	return nil
}
