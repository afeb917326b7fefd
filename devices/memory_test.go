package devices_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxcore/devices"
	"github.com/sarchlab/psxcore/mem"
)

var _ = Describe("RAM", func() {
	var ram *devices.RAM

	BeforeEach(func() {
		ram = devices.NewRAM()
	})

	It("should be 2 MiB of zeroes", func() {
		Expect(ram.Size()).To(Equal(2 * 1024 * 1024))
		Expect(ram.Fetch32(0x1000)).To(BeZero())
	})

	It("should store little-endian words", func() {
		ram.Store32(0x100, 0x11223344)

		Expect(ram.Fetch8(0x100)).To(Equal(uint8(0x44)))
		Expect(ram.Fetch8(0x103)).To(Equal(uint8(0x11)))
		Expect(ram.Fetch16(0x100)).To(Equal(uint16(0x3344)))
		Expect(ram.Fetch16(0x102)).To(Equal(uint16(0x1122)))
	})

	It("should merge narrow stores into words", func() {
		ram.Store32(0x200, 0xFFFFFFFF)
		ram.Store8(0x201, 0x00)
		ram.Store16(0x202, 0xABCD)

		Expect(ram.Fetch32(0x200)).To(Equal(uint32(0xABCD00FF)))
	})

	It("should load images and reject overflowing ones", func() {
		Expect(ram.Load(0x10, []byte{1, 2, 3, 4})).To(Succeed())
		Expect(ram.Fetch32(0x10)).To(Equal(uint32(0x04030201)))

		Expect(ram.Load(devices.RAMSize-2, []byte{1, 2, 3})).NotTo(Succeed())
	})

	It("should round-trip through MarshalBinary", func() {
		ram.Store32(0x1FFFFC, 0xCAFEBABE)
		image, err := ram.MarshalBinary()
		Expect(err).NotTo(HaveOccurred())

		other := devices.NewRAM()
		Expect(other.UnmarshalBinary(image)).To(Succeed())
		Expect(other.Fetch32(0x1FFFFC)).To(Equal(uint32(0xCAFEBABE)))

		Expect(other.UnmarshalBinary(image[:10])).NotTo(Succeed())
	})

	It("should clear on Reset", func() {
		ram.Store8(5, 9)
		ram.Reset()
		Expect(ram.Fetch8(5)).To(BeZero())
	})

	It("should be reachable through every segment on a bus", func() {
		bus := mem.NewBus()
		bus.Connect(mem.NewRange(mem.RAMAddr, mem.RAMSize), ram)

		Expect(bus.Store32(0xA0001000, 0x12345678)).To(Succeed())
		for _, addr := range []uint32{0x00001000, 0x80001000, 0xA0001000} {
			v, err := bus.Fetch32(addr)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint32(0x12345678)))
		}
	})
})

var _ = Describe("Scratchpad", func() {
	It("should be 1 KiB and answer every width", func() {
		sp := devices.NewScratchpad()
		Expect(sp.Size()).To(Equal(1024))
		Expect(sp.Name()).To(Equal("scratchpad"))

		sp.Store16(0x3FE, 0xBEEF)
		Expect(sp.Fetch8(0x3FF)).To(Equal(uint8(0xBE)))
	})
})

var _ = Describe("BIOS", func() {
	It("should reject images of the wrong size", func() {
		_, err := devices.NewBIOS(make([]byte, 1024))
		Expect(err).To(MatchError(devices.ErrBIOSSize))
	})

	It("should serve fetches and refuse stores on the bus", func() {
		image := make([]byte, devices.BIOSSize)
		image[0], image[1], image[2], image[3] = 0x00, 0x00, 0x08, 0x3C
		bios, err := devices.NewBIOS(image)
		Expect(err).NotTo(HaveOccurred())

		bus := mem.NewBus()
		bus.Connect(mem.NewRange(mem.BIOSAddr, mem.BIOSSize), bios)

		v, err := bus.Fetch32(mem.BIOSEntry)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0x3C080000)))

		Expect(bus.Store32(mem.BIOSEntry, 0)).To(MatchError(mem.ErrUnsupportedWidth))
	})

	It("should copy the image", func() {
		image := make([]byte, devices.BIOSSize)
		bios, _ := devices.NewBIOS(image)
		image[0] = 0xAA
		Expect(bios.Fetch8(0)).To(BeZero())
	})
})
