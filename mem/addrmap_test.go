package mem_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxcore/mem"
)

var _ = Describe("Address translation", func() {
	DescribeTable("Mask",
		func(logical, physical uint32) {
			Expect(mem.Mask(logical)).To(Equal(physical))
		},
		Entry("KUSEG RAM", uint32(0x00001000), uint32(0x00001000)),
		Entry("KUSEG upper", uint32(0x7FFFFFFC), uint32(0x7FFFFFFC)),
		Entry("KSEG0 RAM", uint32(0x80001000), uint32(0x00001000)),
		Entry("KSEG1 RAM", uint32(0xA0001000), uint32(0x00001000)),
		Entry("KSEG1 BIOS entry", uint32(mem.BIOSEntry), uint32(mem.BIOSAddr)),
		Entry("KSEG0 BIOS", uint32(0x9FC00000), uint32(mem.BIOSAddr)),
		Entry("KSEG2 cache control", uint32(mem.CacheControlAddr), uint32(mem.CacheControlAddr)),
		Entry("KSEG2 lower", uint32(0xC0000000), uint32(0xC0000000)),
	)

	It("should classify segments by the top three bits", func() {
		Expect(mem.SegmentOf(0x00000000)).To(Equal(mem.KUSEG))
		Expect(mem.SegmentOf(0x60000000)).To(Equal(mem.KUSEG))
		Expect(mem.SegmentOf(0x80000000)).To(Equal(mem.KSEG0))
		Expect(mem.SegmentOf(0xBFC00000)).To(Equal(mem.KSEG1))
		Expect(mem.SegmentOf(0xFFFE0130)).To(Equal(mem.KSEG2))
		Expect(mem.KSEG1.String()).To(Equal("KSEG1"))
	})

	It("should report only KUSEG and KSEG0 as cached", func() {
		Expect(mem.Cached(0x00001000)).To(BeTrue())
		Expect(mem.Cached(0x80001000)).To(BeTrue())
		Expect(mem.Cached(0xA0001000)).To(BeFalse())
		Expect(mem.Cached(0xFFFE0130)).To(BeFalse())
	})

	Describe("Range", func() {
		It("should contain addresses in [start, start+size)", func() {
			r := mem.NewRange(0x1F801810, 8)
			Expect(r.Contains(0x1F801810)).To(BeTrue())
			Expect(r.Contains(0x1F801817)).To(BeTrue())
			Expect(r.Contains(0x1F801818)).To(BeFalse())
			Expect(r.Contains(0x1F80180F)).To(BeFalse())
			Expect(r.Offset(0x1F801814)).To(Equal(uint32(4)))
		})

		It("should handle ranges ending at the top of the address space", func() {
			r := mem.NewRange(0xFFFFFFF0, 0x10)
			Expect(r.Contains(0xFFFFFFFF)).To(BeTrue())
			Expect(r.Contains(0x00000000)).To(BeFalse())
			Expect(r.String()).To(Equal("[0xFFFFFFF0, 0x100000000)"))
		})
	})
})
