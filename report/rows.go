package report

// Entity types of an aggregation change.
const (
	EntityAP      = "AP"
	EntityStation = "STA"
)

// AggregationChange records a new aggregation size pushed to a device.
type AggregationChange struct {
	Time       float64
	EntityID   int
	EntityType string
	APID       int
	Value      uint32
	Cause      string
}

// KPISnapshot records the last-interval values of one flow. Undefined values
// are NaN.
type KPISnapshot struct {
	Time          float64
	Category      string
	FlowSeq       int
	Delay         float64
	Jitter        float64
	RxBytes       uint64
	LostPackets   uint64
	ThroughputBps float64
}

// Position records where a station is and which AP is closest to it.
type Position struct {
	Time            float64
	StationID       int
	X               float64
	Y               float64
	Associated      bool
	AssociatedAPID  int
	NearestAPID     int
	NearestDistance float64
	NearestChannel  int
}

// FlowSummary records the totals of one flow at the end of the run.
type FlowSummary struct {
	Category      string
	FlowSeq       int
	RxPackets     uint64
	LostPackets   uint64
	RxBytes       uint64
	MeanDelay     float64
	MeanJitter    float64
	ThroughputBps float64
}

// Table names.
const (
	TableAggregationChanges = "aggregation_changes"
	TableKPISnapshots       = "kpi_snapshots"
	TablePositions          = "positions"
	TableFlowSummaries      = "flow_summaries"
)
