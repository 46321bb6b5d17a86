package wlan

import "slices"

// APRecord describes one access point.
type APRecord struct {
	ID       NodeID
	MAC      MAC
	Channel  Channel
	Position Vector

	// MaxAggregationSize is the aggregation burst limit in bytes. Zero
	// disables aggregation.
	MaxAggregationSize uint32
}

// StationRecord describes one client station.
type StationRecord struct {
	ID              NodeID
	ApplicationType ApplicationType
	Radios          []Channel

	Associated bool
	APMAC      MAC

	// AggregationSize is the last value pushed to the station's device.
	AggregationSize uint32

	// Channel is the channel the station currently operates on.
	Channel Channel
}

func (s StationRecord) clone() StationRecord {
	s.Radios = slices.Clone(s.Radios)
	return s
}

// IsAssociatedTo tells if the station is currently associated to the AP.
func (s StationRecord) IsAssociatedTo(mac MAC) bool {
	return s.Associated && s.APMAC == mac
}

// Device is the boundary to the radios. Both calls take effect
// synchronously and cannot fail.
type Device interface {
	// ApplyAggregationSize sets the maximum aggregation size of the node's
	// queues.
	ApplyAggregationSize(id NodeID, size uint32)

	// SetDeviceChannel switches the node's radio to the channel.
	SetDeviceChannel(id NodeID, channel Channel)
}

// Mobility reports where a node currently is.
type Mobility interface {
	Position(id NodeID) Vector
}
