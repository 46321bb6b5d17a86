package kpi

import (
	"log/slog"
	"math"
	"sort"

	"github.com/sarchlab/ampductl/report"
	"github.com/sarchlab/ampductl/sim"
)

// FlowStatistics holds the counters of one flow and the values derived from
// the last polling interval. Undefined values are NaN.
type FlowStatistics struct {
	Key        FlowKey
	Cumulative Counters

	LastDelay       float64
	LastJitter      float64
	LastRxPackets   uint64
	LastRxBytes     uint64
	LastLostPackets uint64
	LastThroughput  float64

	prev Counters
}

func newFlowStatistics(key FlowKey) *FlowStatistics {
	s := &FlowStatistics{Key: key}
	s.clearInterval()

	return s
}

func (s *FlowStatistics) clearInterval() {
	s.LastDelay = math.NaN()
	s.LastJitter = math.NaN()
	s.LastRxPackets = 0
	s.LastRxBytes = 0
	s.LastLostPackets = 0
	s.LastThroughput = 0
}

// update derives the interval values from a new cumulative sample. It
// reports false if the counters went backwards, in which case the sample
// becomes the new baseline and the interval stays undefined.
func (s *FlowStatistics) update(c Counters, interval float64) bool {
	s.clearInterval()

	regressed := c.regressedFrom(s.prev)

	s.Cumulative = c
	prev := s.prev
	s.prev = c

	if regressed {
		return false
	}

	s.LastRxPackets = c.RxPackets - prev.RxPackets
	s.LastRxBytes = c.RxBytes - prev.RxBytes
	s.LastLostPackets = c.LostPackets - prev.LostPackets

	if interval > 0 {
		s.LastThroughput = float64(s.LastRxBytes) * 8 / interval
	}

	if s.LastRxPackets > 0 {
		n := float64(s.LastRxPackets)
		s.LastDelay = (c.DelaySum - prev.DelaySum) / n
		s.LastJitter = (c.JitterSum - prev.JitterSum) / n
	}

	return true
}

// Aggregator polls a FlowMonitor and keeps per-flow statistics.
type Aggregator struct {
	name     string
	monitor  FlowMonitor
	plan     PortPlan
	recorder report.KPIRecorder
	logger   *slog.Logger

	start    sim.VTimeInSec
	lastPoll sim.VTimeInSec
	flows    map[FlowKey]*FlowStatistics
}

// Name returns the name of the aggregator.
func (a *Aggregator) Name() string {
	return a.name
}

// Tick polls the flow counters and recomputes the interval values.
func (a *Aggregator) Tick(now sim.VTimeInSec) error {
	interval := float64(now - a.lastPoll)
	a.lastPoll = now

	seen := make(map[FlowKey]bool)

	for _, sample := range a.monitor.PollFlowCounters() {
		key, ok := a.plan.Classify(sample.DstPort)
		if !ok {
			continue
		}

		seen[key] = true

		stats, found := a.flows[key]
		if !found {
			stats = newFlowStatistics(key)
			a.flows[key] = stats
		}

		if !stats.update(sample.Counters, interval) {
			a.logger.Warn("flow counters went backwards, rebasing",
				"flow", key, "time", float64(now))
		}
	}

	for key, stats := range a.flows {
		if !seen[key] {
			stats.clearInterval()
		}
	}

	for _, stats := range a.sortedFlows() {
		if math.IsNaN(stats.LastDelay) {
			a.logger.Debug("delay not defined this period",
				"flow", stats.Key, "time", float64(now))
		}

		a.recorder.RecordKPISnapshot(report.KPISnapshot{
			Time:          float64(now),
			Category:      stats.Key.Category.String(),
			FlowSeq:       stats.Key.Seq,
			Delay:         stats.LastDelay,
			Jitter:        stats.LastJitter,
			RxBytes:       stats.LastRxBytes,
			LostPackets:   stats.LastLostPackets,
			ThroughputBps: stats.LastThroughput,
		})
	}

	return nil
}

func (a *Aggregator) sortedFlows() []*FlowStatistics {
	flows := make([]*FlowStatistics, 0, len(a.flows))
	for _, s := range a.flows {
		flows = append(flows, s)
	}

	sort.Slice(flows, func(i, j int) bool {
		if flows[i].Key.Category != flows[j].Key.Category {
			return flows[i].Key.Category < flows[j].Key.Category
		}

		return flows[i].Key.Seq < flows[j].Key.Seq
	})

	return flows
}

// LastIntervalDelay returns the mean per-packet delay of the flow during the
// last interval. ok is false if the flow is unknown or received nothing.
func (a *Aggregator) LastIntervalDelay(key FlowKey) (delay float64, ok bool) {
	s, found := a.flows[key]
	if !found || math.IsNaN(s.LastDelay) {
		return math.NaN(), false
	}

	return s.LastDelay, true
}

// LastIntervalJitter returns the mean per-packet jitter of the flow during
// the last interval.
func (a *Aggregator) LastIntervalJitter(key FlowKey) (jitter float64, ok bool) {
	s, found := a.flows[key]
	if !found || math.IsNaN(s.LastJitter) {
		return math.NaN(), false
	}

	return s.LastJitter, true
}

// LastIntervalRxBytes returns the bytes the flow received during the last
// interval.
func (a *Aggregator) LastIntervalRxBytes(key FlowKey) (bytes uint64, ok bool) {
	s, found := a.flows[key]
	if !found {
		return 0, false
	}

	return s.LastRxBytes, true
}

// LastIntervalThroughput returns the throughput of the flow during the last
// interval in bits per second.
func (a *Aggregator) LastIntervalThroughput(key FlowKey) (bps float64, ok bool) {
	s, found := a.flows[key]
	if !found {
		return 0, false
	}

	return s.LastThroughput, true
}

// Flow returns a copy of the statistics of a flow.
func (a *Aggregator) Flow(key FlowKey) (FlowStatistics, bool) {
	s, found := a.flows[key]
	if !found {
		return FlowStatistics{}, false
	}

	return *s, true
}

// Flows returns copies of the statistics of all flows, ordered by category
// and sequence number.
func (a *Aggregator) Flows() []FlowStatistics {
	sorted := a.sortedFlows()

	flows := make([]FlowStatistics, len(sorted))
	for i, s := range sorted {
		flows[i] = *s
	}

	return flows
}

// Summarize writes one summary row per flow covering the run up to now.
func (a *Aggregator) Summarize(now sim.VTimeInSec) {
	duration := float64(now - a.start)

	for _, s := range a.sortedFlows() {
		c := s.Cumulative

		row := report.FlowSummary{
			Category:    s.Key.Category.String(),
			FlowSeq:     s.Key.Seq,
			RxPackets:   c.RxPackets,
			LostPackets: c.LostPackets,
			RxBytes:     c.RxBytes,
			MeanDelay:   math.NaN(),
			MeanJitter:  math.NaN(),
		}

		if c.RxPackets > 0 {
			row.MeanDelay = c.DelaySum / float64(c.RxPackets)
		}

		// Jitter is measured between consecutive packets.
		if c.RxPackets > 1 {
			row.MeanJitter = c.JitterSum / float64(c.RxPackets-1)
		}

		if duration > 0 {
			row.ThroughputBps = float64(c.RxBytes) * 8 / duration
		}

		a.recorder.RecordFlowSummary(row)
	}
}

// Handle writes the flow summaries when the simulation ends.
func (a *Aggregator) Handle(now sim.VTimeInSec) {
	a.Summarize(now)
}
