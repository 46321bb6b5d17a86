package report

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/ampductl/wlan"
)

var _ = Describe("RowWriter", func() {
	var (
		mockCtrl *gomock.Controller
		recorder *MockDataRecorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should create one table per row kind", func() {
		recorder.EXPECT().CreateTable(TableAggregationChanges, AggregationChange{})
		recorder.EXPECT().CreateTable(TableKPISnapshots, KPISnapshot{})
		recorder.EXPECT().CreateTable(TablePositions, Position{})
		recorder.EXPECT().CreateTable(TableFlowSummaries, FlowSummary{})

		NewRowWriter(recorder)
	})

	It("should route rows to their tables", func() {
		recorder.EXPECT().CreateTable(gomock.Any(), gomock.Any()).Times(4)
		r := NewRowWriter(recorder)

		row := AggregationChange{Time: 1, EntityID: 3, EntityType: EntityAP, APID: 3, Value: 8000}
		recorder.EXPECT().InsertData(TableAggregationChanges, row)
		r.RecordAggregationChange(row)

		summary := FlowSummary{Category: "bulk-download", FlowSeq: 4}
		recorder.EXPECT().InsertData(TableFlowSummaries, summary)
		r.RecordFlowSummary(summary)
	})
})

var _ = Describe("MultiRecorder", func() {
	var (
		mockCtrl *gomock.Controller
		r1, r2   *MockDataRecorder
		multi    DataRecorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		r1 = NewMockDataRecorder(mockCtrl)
		r2 = NewMockDataRecorder(mockCtrl)
		multi = NewMultiRecorder(r1, r2)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should fan out inserts", func() {
		r1.EXPECT().InsertData("t", 1)
		r2.EXPECT().InsertData("t", 1)

		multi.InsertData("t", 1)
	})

	It("should merge table lists", func() {
		r1.EXPECT().ListTables().Return([]string{"a", "b"})
		r2.EXPECT().ListTables().Return([]string{"b", "c"})

		Expect(multi.ListTables()).To(Equal([]string{"a", "b", "c"}))
	})

	It("should close every recorder", func() {
		r1.EXPECT().Close().Return(nil)
		r2.EXPECT().Close().Return(nil)

		Expect(multi.Close()).To(Succeed())
	})
})

type staticMobility map[wlan.NodeID]wlan.Vector

func (m staticMobility) Position(id wlan.NodeID) wlan.Vector {
	return m[id]
}

var _ = Describe("PositionReporter", func() {
	var (
		mockCtrl *gomock.Controller
		sink     *MockPositionRecorder
		dir      *wlan.Directory
		reporter *PositionReporter
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		sink = NewMockPositionRecorder(mockCtrl)
		dir = wlan.NewDirectory()

		Expect(dir.RegisterAP(wlan.APRecord{
			ID: 0, MAC: wlan.MACFromID(0), Channel: 1,
			Position: wlan.Vector{X: 0, Y: 0},
		})).To(Succeed())
		Expect(dir.RegisterAP(wlan.APRecord{
			ID: 1, MAC: wlan.MACFromID(1), Channel: 36,
			Position: wlan.Vector{X: 5, Y: 0},
		})).To(Succeed())
		Expect(dir.RegisterStation(wlan.StationRecord{
			ID: 2, ApplicationType: wlan.VoiceDownload,
			Radios: []wlan.Channel{1},
		})).To(Succeed())
		Expect(dir.SetStationAssociation(2, wlan.MACFromID(0))).To(Succeed())

		mobility := staticMobility{2: {X: 4, Y: 0}}
		reporter = NewPositionReporter(dir, mobility, sink)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should report the nearest access point in the station's band", func() {
		sink.EXPECT().RecordPosition(Position{
			Time:            2.5,
			StationID:       2,
			X:               4,
			Associated:      true,
			AssociatedAPID:  0,
			NearestAPID:     0,
			NearestDistance: 4,
			NearestChannel:  1,
		})

		Expect(reporter.Tick(2.5)).To(Succeed())
	})
})
