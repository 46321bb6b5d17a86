package kpi

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/ampductl/report"
	"github.com/sarchlab/ampductl/sim"
	"github.com/sarchlab/ampductl/wlan"
)

type rowLog struct {
	snapshots []report.KPISnapshot
	summaries []report.FlowSummary
}

func (l *rowLog) RecordKPISnapshot(row report.KPISnapshot) {
	l.snapshots = append(l.snapshots, row)
}

func (l *rowLog) RecordFlowSummary(row report.FlowSummary) {
	l.summaries = append(l.summaries, row)
}

var _ = Describe("Aggregator", func() {
	var (
		mockCtrl   *gomock.Controller
		monitor    *MockFlowMonitor
		rows       *rowLog
		aggregator *Aggregator
		voice      FlowKey
		bulk       FlowKey
	)

	poll := func(samples ...FlowSample) {
		monitor.EXPECT().PollFlowCounters().Return(samples)
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		monitor = NewMockFlowMonitor(mockCtrl)
		rows = &rowLog{}
		voice = FlowKey{Category: wlan.VoiceUpload, Seq: 1}
		bulk = FlowKey{Category: wlan.BulkDownload, Seq: 2}

		var err error
		aggregator, err = MakeBuilder().
			WithFlowMonitor(monitor).
			WithRecorder(rows).
			Build("KPI")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should compute interval values from cumulative counters", func() {
		poll(FlowSample{DstPort: 10001, Counters: Counters{
			RxPackets: 10, RxBytes: 1000, DelaySum: 0.2, JitterSum: 0.05,
		}})

		Expect(aggregator.Tick(0.1)).To(Succeed())

		delay, ok := aggregator.LastIntervalDelay(voice)
		Expect(ok).To(BeTrue())
		Expect(delay).To(BeNumerically("~", 0.02, 1e-12))

		jitter, ok := aggregator.LastIntervalJitter(voice)
		Expect(ok).To(BeTrue())
		Expect(jitter).To(BeNumerically("~", 0.005, 1e-12))

		bytes, ok := aggregator.LastIntervalRxBytes(voice)
		Expect(ok).To(BeTrue())
		Expect(bytes).To(Equal(uint64(1000)))

		bps, ok := aggregator.LastIntervalThroughput(voice)
		Expect(ok).To(BeTrue())
		Expect(bps).To(BeNumerically("~", 80000, 1e-6))
	})

	It("should report undefined delay when nothing arrived", func() {
		counters := Counters{RxPackets: 10, RxBytes: 1000, DelaySum: 0.2}
		poll(FlowSample{DstPort: 10001, Counters: counters})
		poll(FlowSample{DstPort: 10001, Counters: counters})

		Expect(aggregator.Tick(0.1)).To(Succeed())
		Expect(aggregator.Tick(0.2)).To(Succeed())

		delay, ok := aggregator.LastIntervalDelay(voice)
		Expect(ok).To(BeFalse())
		Expect(math.IsNaN(delay)).To(BeTrue())

		bytes, _ := aggregator.LastIntervalRxBytes(voice)
		Expect(bytes).To(BeZero())

		Expect(rows.snapshots).To(HaveLen(2))
		Expect(math.IsNaN(rows.snapshots[1].Delay)).To(BeTrue())
	})

	It("should not know flows that were never seen", func() {
		_, ok := aggregator.LastIntervalDelay(voice)
		Expect(ok).To(BeFalse())

		_, ok = aggregator.LastIntervalThroughput(voice)
		Expect(ok).To(BeFalse())
	})

	It("should skip ack and unknown ports", func() {
		poll(
			FlowSample{DstPort: 9, Counters: Counters{RxPackets: 5}},
			FlowSample{DstPort: 62000, Counters: Counters{RxPackets: 5}},
		)

		Expect(aggregator.Tick(0.1)).To(Succeed())

		Expect(aggregator.Flows()).To(BeEmpty())
		Expect(rows.snapshots).To(BeEmpty())
	})

	It("should treat a missing flow as silent", func() {
		poll(FlowSample{DstPort: 10001, Counters: Counters{RxPackets: 1, DelaySum: 0.01}})
		poll()

		Expect(aggregator.Tick(0.1)).To(Succeed())
		Expect(aggregator.Tick(0.2)).To(Succeed())

		_, ok := aggregator.LastIntervalDelay(voice)
		Expect(ok).To(BeFalse())
	})

	It("should rebase counters that went backwards", func() {
		poll(FlowSample{DstPort: 10001, Counters: Counters{RxPackets: 10, DelaySum: 0.2}})
		poll(FlowSample{DstPort: 10001, Counters: Counters{RxPackets: 4, DelaySum: 0.08}})
		poll(FlowSample{DstPort: 10001, Counters: Counters{RxPackets: 6, DelaySum: 0.14}})

		Expect(aggregator.Tick(0.1)).To(Succeed())
		Expect(aggregator.Tick(0.2)).To(Succeed())

		_, ok := aggregator.LastIntervalDelay(voice)
		Expect(ok).To(BeFalse())

		stats, _ := aggregator.Flow(voice)
		Expect(stats.LastRxPackets).To(BeZero())

		Expect(aggregator.Tick(0.3)).To(Succeed())

		delay, ok := aggregator.LastIntervalDelay(voice)
		Expect(ok).To(BeTrue())
		Expect(delay).To(BeNumerically("~", 0.03, 1e-12))
	})

	It("should keep interval values non-negative", func() {
		counters := Counters{RxPackets: 10, RxBytes: 100, LostPackets: 1, DelaySum: 1, JitterSum: 1}
		for i := 0; i < 5; i++ {
			poll(FlowSample{DstPort: 40002, Counters: counters})
			counters.RxPackets += uint64(i)
			counters.RxBytes += uint64(100 * i)
			counters.DelaySum += 0.01 * float64(i)
		}

		for i := 1; i <= 5; i++ {
			Expect(aggregator.Tick(sim.VTimeInSec(0.1 * float64(i)))).To(Succeed())

			stats, ok := aggregator.Flow(bulk)
			Expect(ok).To(BeTrue())
			Expect(stats.LastThroughput).To(BeNumerically(">=", 0))
			if !math.IsNaN(stats.LastDelay) {
				Expect(stats.LastDelay).To(BeNumerically(">=", 0))
			}
		}
	})

	It("should order snapshots by category and sequence", func() {
		poll(
			FlowSample{DstPort: 40002, Counters: Counters{RxPackets: 1}},
			FlowSample{DstPort: 10003, Counters: Counters{RxPackets: 1}},
			FlowSample{DstPort: 10001, Counters: Counters{RxPackets: 1}},
		)

		Expect(aggregator.Tick(0.1)).To(Succeed())

		Expect(rows.snapshots).To(HaveLen(3))
		Expect(rows.snapshots[0].FlowSeq).To(Equal(1))
		Expect(rows.snapshots[1].FlowSeq).To(Equal(3))
		Expect(rows.snapshots[2].Category).To(Equal("bulk-download"))
	})

	It("should summarize every flow at the end of the run", func() {
		poll(
			FlowSample{DstPort: 10001, Counters: Counters{
				RxPackets: 11, RxBytes: 2000, LostPackets: 2,
				DelaySum: 0.22, JitterSum: 0.1,
			}},
			FlowSample{DstPort: 40002, Counters: Counters{}},
		)
		Expect(aggregator.Tick(1)).To(Succeed())

		aggregator.Handle(2)

		Expect(rows.summaries).To(HaveLen(2))

		s := rows.summaries[0]
		Expect(s.Category).To(Equal("voice-upload"))
		Expect(s.RxPackets).To(Equal(uint64(11)))
		Expect(s.LostPackets).To(Equal(uint64(2)))
		Expect(s.MeanDelay).To(BeNumerically("~", 0.02, 1e-12))
		Expect(s.MeanJitter).To(BeNumerically("~", 0.01, 1e-12))
		Expect(s.ThroughputBps).To(BeNumerically("~", 8000, 1e-9))

		Expect(math.IsNaN(rows.summaries[1].MeanDelay)).To(BeTrue())
	})

	It("should drop rows when built without a recorder", func() {
		quiet, err := MakeBuilder().
			WithFlowMonitor(monitor).
			WithRecorder(nil).
			Build("Quiet")
		Expect(err).NotTo(HaveOccurred())

		poll(FlowSample{DstPort: 10001, Counters: Counters{RxPackets: 1, RxBytes: 100}})

		Expect(quiet.Tick(0.1)).To(Succeed())
		Expect(func() { quiet.Summarize(0.1) }).NotTo(Panic())
	})

	It("should refuse an invalid port plan", func() {
		plan := DefaultPortPlan()
		plan.BlockSize = 0

		_, err := MakeBuilder().
			WithFlowMonitor(monitor).
			WithPortPlan(plan).
			Build("KPI")

		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("StationFlow", func() {
	It("should key a station's flow by its id", func() {
		key := StationFlow(wlan.StationRecord{ID: 7, ApplicationType: wlan.VoiceDownload})

		Expect(key).To(Equal(FlowKey{Category: wlan.VoiceDownload, Seq: 7}))
		Expect(key.String()).To(Equal("voice-download/7"))
	})
})
