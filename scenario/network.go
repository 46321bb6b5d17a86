package scenario

import (
	"math"
	"math/rand/v2"

	"github.com/sarchlab/ampductl/kpi"
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

// Traffic parameterizes the synthetic flows.
type Traffic struct {
	VoicePacketRate float64
	VoicePacketSize int
	BulkPacketRate  float64
	BulkPacketSize  int
	BaseDelay       float64
	DelayPerKB      float64
	LossRate        float64
}

type flowState struct {
	key      kpi.FlowKey
	port     uint16
	counters kpi.Counters

	carry     float64
	lostCarry float64
}

// Network is a synthetic radio network. It applies aggregation sizes and
// channels as a device would and produces cumulative flow counters for the
// stations in the directory.
//
// Every associated station has one flow. Packets of every flow behind an
// access point wait for the bursts of its aggregating stations, so delay
// grows with the aggregation size in use. Bulk and streaming flows in turn
// deliver more packets when they aggregate.
type Network struct {
	dir     *wlan.Directory
	time    sim.TimeTeller
	traffic Traffic
	ackPort uint16
	rng     *rand.Rand

	aggregation map[wlan.NodeID]uint32
	channels    map[wlan.NodeID]wlan.Channel
	flows       []*flowState
	lastAdvance sim.VTimeInSec
}

// NewNetwork creates a network for every station registered in the
// directory. Devices start with the aggregation sizes and channels the
// directory holds.
func NewNetwork(
	dir *wlan.Directory,
	time sim.TimeTeller,
	plan kpi.PortPlan,
	traffic Traffic,
	seed uint64,
) (*Network, error) {
	n := &Network{
		dir:         dir,
		time:        time,
		traffic:     traffic,
		ackPort:     plan.AckPort,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		aggregation: make(map[wlan.NodeID]uint32),
		channels:    make(map[wlan.NodeID]wlan.Channel),
	}

	for _, ap := range dir.APs() {
		n.aggregation[ap.ID] = ap.MaxAggregationSize
		n.channels[ap.ID] = ap.Channel
	}

	for _, st := range dir.Stations() {
		n.aggregation[st.ID] = st.AggregationSize
		n.channels[st.ID] = st.Channel

		key := kpi.StationFlow(st)

		port, err := plan.Port(key)
		if err != nil {
			return nil, err
		}

		n.flows = append(n.flows, &flowState{key: key, port: port})
	}

	return n, nil
}

// ApplyAggregationSize sets the aggregation size of a node's queues.
func (n *Network) ApplyAggregationSize(id wlan.NodeID, size uint32) {
	n.advance()
	n.aggregation[id] = size
}

// SetDeviceChannel tunes a node's radio.
func (n *Network) SetDeviceChannel(id wlan.NodeID, channel wlan.Channel) {
	n.channels[id] = channel
}

// AggregationSize returns the value last applied to the node.
func (n *Network) AggregationSize(id wlan.NodeID) uint32 {
	return n.aggregation[id]
}

// Channel returns the channel the node's radio is tuned to.
func (n *Network) Channel(id wlan.NodeID) wlan.Channel {
	return n.channels[id]
}

// PollFlowCounters returns the cumulative counters of every flow. Bulk and
// streaming flows also report their ACK sub-flow.
func (n *Network) PollFlowCounters() []kpi.FlowSample {
	n.advance()

	samples := make([]kpi.FlowSample, 0, 2*len(n.flows))
	acks := kpi.Counters{}

	for _, f := range n.flows {
		samples = append(samples, kpi.FlowSample{
			DstPort:  f.port,
			Counters: f.counters,
		})

		if !f.key.Category.IsVoice() {
			acks.RxPackets += f.counters.RxPackets / 2
			acks.RxBytes += f.counters.RxPackets / 2 * 40
		}
	}

	if acks.RxPackets > 0 {
		samples = append(samples, kpi.FlowSample{DstPort: n.ackPort, Counters: acks})
	}

	return samples
}

// advance accrues traffic from the last advance until now under the current
// aggregation sizes.
func (n *Network) advance() {
	now := n.time.CurrentTime()
	dt := float64(now - n.lastAdvance)

	if dt <= 0 {
		return
	}

	n.lastAdvance = now

	for _, f := range n.flows {
		st, err := n.dir.Station(wlan.NodeID(f.key.Seq))
		if err != nil || !st.Associated {
			f.carry = 0
			continue
		}

		n.accrue(f, st, dt)
	}
}

func (n *Network) accrue(f *flowState, st wlan.StationRecord, dt float64) {
	rate, size := n.traffic.VoicePacketRate, n.traffic.VoicePacketSize
	if !st.ApplicationType.IsVoice() {
		rate, size = n.traffic.BulkPacketRate, n.traffic.BulkPacketSize
		rate *= n.aggregationGain(st.ID)
	}

	expected := rate*dt + f.carry
	sent := math.Floor(expected)
	f.carry = expected - sent

	lostExpected := sent*n.traffic.LossRate + f.lostCarry
	lost := math.Floor(lostExpected)
	f.lostCarry = lostExpected - lost

	received := uint64(sent - lost)
	if received == 0 && lost == 0 {
		return
	}

	delay := n.delay(st)
	jitter := math.Abs(n.rng.NormFloat64()) * 0.1 * delay

	c := &f.counters
	c.RxPackets += received
	c.RxBytes += received * uint64(size)
	c.LostPackets += uint64(lost)
	c.DelaySum += float64(received) * delay
	c.JitterSum += float64(received) * jitter
}

// aggregationGain is the throughput factor of a station's aggregation size,
// from 0.5 without aggregation to 1 at the protocol maximum.
func (n *Network) aggregationGain(id wlan.NodeID) float64 {
	return 0.5 + 0.5*math.Min(float64(n.aggregation[id])/65535, 1)
}

// delay is the per-packet delay a station sees behind its access point.
func (n *Network) delay(st wlan.StationRecord) float64 {
	apID, err := n.dir.LookupAPByMAC(st.APMAC)
	if err != nil {
		return n.traffic.BaseDelay
	}

	apSize := n.aggregation[apID]
	loadKB := 0.0

	for _, other := range n.dir.StationsAssociatedTo(st.APMAC) {
		if other.ApplicationType.IsVoice() {
			continue
		}

		loadKB += float64(min(n.aggregation[other.ID], apSize)) / 1024
	}

	return n.traffic.BaseDelay + n.traffic.DelayPerKB*loadKB
}
