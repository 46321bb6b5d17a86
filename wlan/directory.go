package wlan

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
)

var (
	// ErrNotFound is returned when a lookup references an unknown AP or
	// station. It means the event stream and the directory disagree, which
	// the run cannot recover from.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when registering an id or MAC twice.
	ErrDuplicate = errors.New("already registered")
)

// Directory is the registry of all access points and stations.
type Directory struct {
	aps      []APRecord
	stations []StationRecord

	apByMAC map[MAC]int
	apByID  map[NodeID]int
	staByID map[NodeID]int
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		apByMAC: make(map[MAC]int),
		apByID:  make(map[NodeID]int),
		staByID: make(map[NodeID]int),
	}
}

func (d *Directory) idTaken(id NodeID) bool {
	_, isAP := d.apByID[id]
	_, isStation := d.staByID[id]

	return isAP || isStation
}

// RegisterAP adds an access point. The id and the MAC must be unique and the
// MAC must not be the null address.
func (d *Directory) RegisterAP(ap APRecord) error {
	if ap.MAC.IsNull() {
		return fmt.Errorf("ap %d: null mac", ap.ID)
	}

	if d.idTaken(ap.ID) {
		return fmt.Errorf("node %d: %w", ap.ID, ErrDuplicate)
	}

	if _, ok := d.apByMAC[ap.MAC]; ok {
		return fmt.Errorf("mac %s: %w", ap.MAC, ErrDuplicate)
	}

	if _, err := ap.Channel.Band(); err != nil {
		return fmt.Errorf("ap %d: %w", ap.ID, err)
	}

	d.aps = append(d.aps, ap)
	d.apByMAC[ap.MAC] = len(d.aps) - 1
	d.apByID[ap.ID] = len(d.aps) - 1

	return nil
}

// RegisterStation adds a station. New stations always start unassociated.
func (d *Directory) RegisterStation(st StationRecord) error {
	if d.idTaken(st.ID) {
		return fmt.Errorf("node %d: %w", st.ID, ErrDuplicate)
	}

	if _, err := StationBand(st.Radios); err != nil {
		return fmt.Errorf("station %d: %w", st.ID, err)
	}

	st = st.clone()
	st.Associated = false
	st.APMAC = NullMAC

	if st.Channel == 0 {
		st.Channel = st.Radios[0]
	}

	d.stations = append(d.stations, st)
	d.staByID[st.ID] = len(d.stations) - 1

	return nil
}

// LookupAPByMAC returns the id of the access point with the given MAC.
func (d *Directory) LookupAPByMAC(mac MAC) (NodeID, error) {
	i, ok := d.apByMAC[mac]
	if !ok {
		return 0, fmt.Errorf("ap %s: %w", mac, ErrNotFound)
	}

	return d.aps[i].ID, nil
}

// AP returns a copy of the access point record.
func (d *Directory) AP(id NodeID) (APRecord, error) {
	i, ok := d.apByID[id]
	if !ok {
		return APRecord{}, fmt.Errorf("ap %d: %w", id, ErrNotFound)
	}

	return d.aps[i], nil
}

// APChannel returns the channel the access point operates on.
func (d *Directory) APChannel(id NodeID) (Channel, error) {
	ap, err := d.AP(id)
	if err != nil {
		return 0, err
	}

	return ap.Channel, nil
}

// SetAPAggregation records a new aggregation size for the access point.
func (d *Directory) SetAPAggregation(id NodeID, value uint32) error {
	i, ok := d.apByID[id]
	if !ok {
		return fmt.Errorf("ap %d: %w", id, ErrNotFound)
	}

	d.aps[i].MaxAggregationSize = value

	return nil
}

// CountAPs returns the number of registered access points.
func (d *Directory) CountAPs() int {
	return len(d.aps)
}

// APs returns copies of all access point records in registration order.
func (d *Directory) APs() []APRecord {
	aps := make([]APRecord, len(d.aps))
	copy(aps, d.aps)

	return aps
}

// Station returns a copy of the station record.
func (d *Directory) Station(id NodeID) (StationRecord, error) {
	i, ok := d.staByID[id]
	if !ok {
		return StationRecord{}, fmt.Errorf("station %d: %w", id, ErrNotFound)
	}

	return d.stations[i].clone(), nil
}

// Stations returns copies of all station records in registration order.
func (d *Directory) Stations() []StationRecord {
	stations := make([]StationRecord, 0, len(d.stations))
	for _, st := range d.stations {
		stations = append(stations, st.clone())
	}

	return stations
}

// StationsAssociatedTo returns the stations currently associated to the AP, in
// registration order.
func (d *Directory) StationsAssociatedTo(mac MAC) []StationRecord {
	var stations []StationRecord

	for _, st := range d.stations {
		if st.IsAssociatedTo(mac) {
			stations = append(stations, st.clone())
		}
	}

	return stations
}

func (d *Directory) station(id NodeID) (*StationRecord, error) {
	i, ok := d.staByID[id]
	if !ok {
		return nil, fmt.Errorf("station %d: %w", id, ErrNotFound)
	}

	return &d.stations[i], nil
}

// SetStationAssociation marks the station associated to the AP, or
// unassociated if mac is NullMAC.
func (d *Directory) SetStationAssociation(id NodeID, mac MAC) error {
	st, err := d.station(id)
	if err != nil {
		return err
	}

	st.Associated = !mac.IsNull()
	st.APMAC = mac

	return nil
}

// SetStationAggregation records the aggregation size pushed to the station.
func (d *Directory) SetStationAggregation(id NodeID, value uint32) error {
	st, err := d.station(id)
	if err != nil {
		return err
	}

	st.AggregationSize = value

	return nil
}

// SetStationChannel records the channel the station operates on.
func (d *Directory) SetStationChannel(id NodeID, channel Channel) error {
	st, err := d.station(id)
	if err != nil {
		return err
	}

	st.Channel = channel

	return nil
}

// ListAll writes a tab separated dump of every record.
func (d *Directory) ListAll(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, '\t', 0)

	fmt.Fprintln(tw, "kind\tid\tmac/ap\tchannel\taggregation\tapplication")

	for _, ap := range d.aps {
		fmt.Fprintf(tw, "AP\t%d\t%s\t%d\t%d\t-\n",
			ap.ID, ap.MAC, ap.Channel, ap.MaxAggregationSize)
	}

	for _, st := range d.stations {
		apMAC := "-"
		if st.Associated {
			apMAC = st.APMAC.String()
		}

		fmt.Fprintf(tw, "STA\t%d\t%s\t%d\t%d\t%s\n",
			st.ID, apMAC, st.Channel, st.AggregationSize, st.ApplicationType)
	}

	return tw.Flush()
}
