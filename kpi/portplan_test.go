package kpi

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ampductl/wlan"
)

var _ = Describe("PortPlan", func() {
	var plan PortPlan

	BeforeEach(func() {
		plan = DefaultPortPlan()
	})

	It("should accept the default plan", func() {
		Expect(plan.Validate()).To(Succeed())
	})

	It("should classify ports by block", func() {
		key, ok := plan.Classify(20007)

		Expect(ok).To(BeTrue())
		Expect(key).To(Equal(FlowKey{Category: wlan.VoiceDownload, Seq: 7}))
	})

	It("should skip the ack port", func() {
		_, ok := plan.Classify(plan.AckPort)

		Expect(ok).To(BeFalse())
	})

	It("should skip ports outside every block", func() {
		_, ok := plan.Classify(61000)

		Expect(ok).To(BeFalse())
	})

	It("should map flows back to ports", func() {
		port, err := plan.Port(FlowKey{Category: wlan.BulkUpload, Seq: 12})

		Expect(err).NotTo(HaveOccurred())
		Expect(port).To(Equal(uint16(30012)))
	})

	It("should reject sequence numbers outside the block", func() {
		_, err := plan.Port(FlowKey{Category: wlan.BulkUpload, Seq: 1000})

		Expect(err).To(HaveOccurred())
	})

	It("should reject overlapping blocks", func() {
		plan.Bases[wlan.VoiceDownload] = 10500

		Expect(plan.Validate()).To(MatchError(ErrPortOverlap))
	})

	It("should reject an ack port inside a block", func() {
		plan.AckPort = 40001

		Expect(plan.Validate()).To(MatchError(ErrPortOverlap))
	})

	It("should reject a missing category", func() {
		delete(plan.Bases, wlan.StreamingDownload)

		Expect(plan.Validate()).NotTo(Succeed())
	})

	It("should reject blocks past the last port", func() {
		plan.Bases[wlan.StreamingDownload] = 65000

		Expect(plan.Validate()).NotTo(Succeed())
	})
})
