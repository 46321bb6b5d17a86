package wlan

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Directory", func() {
	var (
		dir *Directory
	)

	BeforeEach(func() {
		dir = NewDirectory()

		Expect(dir.RegisterAP(APRecord{
			ID: 0, MAC: MACFromID(0), Channel: 1, MaxAggregationSize: 65535,
		})).To(Succeed())
		Expect(dir.RegisterAP(APRecord{
			ID: 1, MAC: MACFromID(1), Channel: 36, MaxAggregationSize: 65535,
		})).To(Succeed())
		Expect(dir.RegisterStation(StationRecord{
			ID: 2, ApplicationType: VoiceUpload, Radios: []Channel{1},
		})).To(Succeed())
		Expect(dir.RegisterStation(StationRecord{
			ID: 3, ApplicationType: BulkDownload, Radios: []Channel{1, 36},
		})).To(Succeed())
	})

	It("should look up access points by mac", func() {
		id, err := dir.LookupAPByMAC(MACFromID(1))

		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(NodeID(1)))
	})

	It("should fail to look up an unknown mac", func() {
		_, err := dir.LookupAPByMAC(MACFromID(7))

		Expect(err).To(MatchError(ErrNotFound))
	})

	It("should return the channel of an access point", func() {
		ch, err := dir.APChannel(1)

		Expect(err).NotTo(HaveOccurred())
		Expect(ch).To(Equal(Channel(36)))
	})

	It("should reject duplicated ids and macs", func() {
		Expect(dir.RegisterAP(APRecord{ID: 2, MAC: MACFromID(9), Channel: 1})).
			To(MatchError(ErrDuplicate))
		Expect(dir.RegisterAP(APRecord{ID: 9, MAC: MACFromID(0), Channel: 1})).
			To(MatchError(ErrDuplicate))
	})

	It("should reject a station whose radios share a band", func() {
		err := dir.RegisterStation(StationRecord{
			ID: 5, Radios: []Channel{1, 6},
		})

		Expect(err).To(MatchError(ErrSameBand))
	})

	It("should update the aggregation of an access point", func() {
		Expect(dir.SetAPAggregation(0, 8000)).To(Succeed())

		ap, err := dir.AP(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(ap.MaxAggregationSize).To(Equal(uint32(8000)))
		Expect(dir.CountAPs()).To(Equal(2))
	})

	It("should track associations", func() {
		Expect(dir.SetStationAssociation(2, MACFromID(0))).To(Succeed())
		Expect(dir.SetStationAssociation(3, MACFromID(0))).To(Succeed())

		Expect(dir.StationsAssociatedTo(MACFromID(0))).To(HaveLen(2))

		Expect(dir.SetStationAssociation(2, NullMAC)).To(Succeed())

		st, err := dir.Station(2)
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Associated).To(BeFalse())
		Expect(st.APMAC.IsNull()).To(BeTrue())
		Expect(dir.StationsAssociatedTo(MACFromID(0))).To(HaveLen(1))
	})

	It("should not leak internal state through returned records", func() {
		st, _ := dir.Station(3)
		st.Radios[0] = 11
		st.AggregationSize = 1

		again, _ := dir.Station(3)
		Expect(again.Radios[0]).To(Equal(Channel(1)))
		Expect(again.AggregationSize).To(Equal(uint32(0)))
	})

	It("should dump all records", func() {
		buf := new(bytes.Buffer)

		Expect(dir.ListAll(buf)).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("voice-upload"))
		Expect(buf.String()).To(ContainSubstring(MACFromID(1).String()))
	})
})

var _ = Describe("MAC", func() {
	It("should round trip through its text form", func() {
		mac := MACFromID(41)

		parsed, err := ParseMAC(mac.String())

		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(Equal(mac))
		Expect(mac.IsNull()).To(BeFalse())
	})
})
