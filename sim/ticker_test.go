package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("PeriodicTicker", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *MockEventScheduler
		ticker   *MockTicker
		pt       *PeriodicTicker
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewMockEventScheduler(mockCtrl)
		ticker = NewMockTicker(mockCtrl)
		pt = NewPeriodicTicker("Poller", engine, 0.5, 1.0, ticker)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should schedule the first tick one interval after start", func() {
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.Time()).To(Equal(VTimeInSec(0.5)))
				Expect(e.Handler()).To(BeIdenticalTo(pt))
				Expect(e.IsSecondary()).To(BeFalse())
			})

		pt.Start(0)
	})

	It("should not schedule twice while a tick is pending", func() {
		engine.EXPECT().Schedule(gomock.Any()).Times(1)

		pt.Start(0)
		pt.Start(0)
	})

	It("should reschedule after each tick until the horizon", func() {
		var scheduled []Event
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) { scheduled = append(scheduled, e) }).
			Times(2)
		ticker.EXPECT().Tick(VTimeInSec(0.5)).Return(nil)
		ticker.EXPECT().Tick(VTimeInSec(1.0)).Return(nil)

		pt.Start(0)
		Expect(pt.Handle(scheduled[0])).To(Succeed())
		Expect(scheduled[1].Time()).To(Equal(VTimeInSec(1.0)))
		Expect(pt.Handle(scheduled[1])).To(Succeed())
		Expect(scheduled).To(HaveLen(2))
	})

	It("should not start beyond the horizon", func() {
		pt.Start(0.8)
	})

	It("should stop and report ticker errors", func() {
		var scheduled Event
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) { scheduled = e })
		ticker.EXPECT().Tick(VTimeInSec(0.5)).Return(errors.New("boom"))

		pt.Start(0)
		err := pt.Handle(scheduled)

		Expect(err).To(MatchError(ContainSubstring("Poller: boom")))
	})

	It("should mark secondary ticks", func() {
		pt = NewSecondaryPeriodicTicker("Controller", engine, 0.5, 1.0, ticker)
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) {
				Expect(e.IsSecondary()).To(BeTrue())
			})

		pt.Start(0)
	})

	It("should keep tick times free of drift", func() {
		pt = NewPeriodicTicker("Poller", engine, 0.1, 10, ticker)
		var last Event
		engine.EXPECT().Schedule(gomock.Any()).
			Do(func(e Event) { last = e }).
			Times(100)
		ticker.EXPECT().Tick(gomock.Any()).Return(nil).Times(100)

		pt.Start(0)
		for i := 0; i < 100; i++ {
			Expect(pt.Handle(last)).To(Succeed())
		}

		Expect(float64(last.Time())).To(BeNumerically("~", 10.0, 1e-9))
	})
})
