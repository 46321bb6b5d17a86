// Package kpi turns cumulative per-flow counters into last-interval delay,
// jitter and throughput values.
package kpi

import (
	"fmt"

	"github.com/sarchlab/ampductl/wlan"
)

// FlowKey identifies a flow by its traffic category and the sequence number
// it was given inside that category. The sequence number of a station's flow
// is the station's node id.
type FlowKey struct {
	Category wlan.ApplicationType
	Seq      int
}

// StationFlow returns the key of the flow that serves the station.
func StationFlow(st wlan.StationRecord) FlowKey {
	return FlowKey{Category: st.ApplicationType, Seq: int(st.ID)}
}

func (k FlowKey) String() string {
	return fmt.Sprintf("%s/%d", k.Category, k.Seq)
}

// Counters are the cumulative-since-start values of a flow. DelaySum and
// JitterSum are in seconds.
type Counters struct {
	RxPackets   uint64
	RxBytes     uint64
	LostPackets uint64
	DelaySum    float64
	JitterSum   float64
}

// regressedFrom tells if any counter went backwards compared to prev.
func (c Counters) regressedFrom(prev Counters) bool {
	return c.RxPackets < prev.RxPackets ||
		c.RxBytes < prev.RxBytes ||
		c.LostPackets < prev.LostPackets ||
		c.DelaySum < prev.DelaySum ||
		c.JitterSum < prev.JitterSum
}

// FlowSample is the state of one flow at poll time.
type FlowSample struct {
	DstPort uint16
	Counters
}

// A FlowMonitor takes point-in-time snapshots of all flow counters.
type FlowMonitor interface {
	PollFlowCounters() []FlowSample
}
