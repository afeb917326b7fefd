package console_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxcore/config"
	"github.com/sarchlab/psxcore/console"
	"github.com/sarchlab/psxcore/devices"
	"github.com/sarchlab/psxcore/diag"
	"github.com/sarchlab/psxcore/emu"
	"github.com/sarchlab/psxcore/insts"
	"github.com/sarchlab/psxcore/loader"
)

const (
	t0 = 8
	t1 = 9
	t2 = 10
)

// biosImage returns a 512 KiB ROM with words at its start.
func biosImage(words ...uint32) []byte {
	image := make([]byte, devices.BIOSSize)
	for i, w := range words {
		binary.LittleEndian.PutUint32(image[i*4:], w)
	}
	return image
}

// counterBIOS stores 0x42 to RAM, then increments RAM[0x104] forever.
func counterBIOS() []byte {
	return biosImage(
		insts.EncodeI(insts.OpcodeLUI, 0, t0, 0xA000),
		insts.EncodeI(insts.OpcodeADDIU, 0, t1, 0x42),
		insts.EncodeI(insts.OpcodeSW, t0, t1, 0x100),
		insts.EncodeI(insts.OpcodeLW, t0, t2, 0x104), // loop:
		0, // load delay slot
		insts.EncodeI(insts.OpcodeADDIU, t2, t2, 1),
		insts.EncodeI(insts.OpcodeBEQ, 0, 0, 0xFFFC),
		insts.EncodeI(insts.OpcodeSW, t0, t2, 0x104),
	)
}

// shellBIOS jumps straight to the shell entry point.
func shellBIOS() []byte {
	return biosImage(
		insts.EncodeI(insts.OpcodeLUI, 0, t0, 0x8003),
		insts.EncodeR(insts.FunctJR, t0, 0, 0, 0),
		0,
	)
}

func newConsole(image []byte, mutate func(*config.Config), opts ...console.Option) *console.Console {
	bios, err := devices.NewBIOS(image)
	Expect(err).NotTo(HaveOccurred())

	cfg := config.Default()
	cfg.InstructionsPerFrame = 100
	if mutate != nil {
		mutate(cfg)
	}

	c, err := console.New(cfg, append(opts, console.WithBIOS(bios))...)
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Console", func() {
	Describe("interconnect", func() {
		var c *console.Console

		BeforeEach(func() {
			c = newConsole(counterBIOS(), nil)
		})

		DescribeTable("address routing",
			func(addr uint32, device string) {
				bnd, _, ok := c.Bus().Resolve(addr)
				Expect(ok).To(BeTrue())
				Expect(bnd.Device.Name()).To(Equal(device))
			},
			Entry("cache control", uint32(0xFFFE0130), "nodevice"),
			Entry("SPU", uint32(0x1F801C00), "nodevice"),
			Entry("SPU end", uint32(0x1F801E7E), "nodevice"),
			Entry("expansion 2", uint32(0x1F802041), "nodevice"),
			Entry("interrupt control", uint32(0x1F801074), "nodevice"),
			Entry("timers", uint32(0x1F801120), "nodevice"),
			Entry("GPU", uint32(0x1F801814), "gpu"),
			Entry("DMA", uint32(0x1F8010F4), "dma"),
			Entry("BIOS through KSEG1", uint32(0xBFC00000), "bios"),
			Entry("RAM through KSEG0", uint32(0x801FFFFC), "ram"),
			Entry("scratchpad", uint32(0x1F800000), "scratchpad"),
			Entry("memory control", uint32(0x1F801000), "hardreg"),
			Entry("CD-ROM falls back to hardreg", uint32(0x1F801800), "hardreg"),
			Entry("expansion 1", uint32(0x1F000000), "expansion1"),
		)

		It("should leave the rest unmapped", func() {
			_, _, ok := c.Bus().Resolve(0x1F900000)
			Expect(ok).To(BeFalse())
		})

		It("should read GPUSTAT through the bus", func() {
			v, err := c.Bus().Fetch32(0x1F801814)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(c.GPU().Status()))
		})

		It("should read the DMA control register through the bus", func() {
			v, err := c.Bus().Fetch32(0x1F8010F0)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(devices.DMAControlReset))
		})
	})

	Describe("New", func() {
		It("should reject an invalid config", func() {
			cfg := config.Default()
			cfg.InstructionsPerFrame = 0
			_, err := console.New(cfg)
			Expect(err).To(MatchError(ContainSubstring("invalid config")))
		})

		It("should load the BIOS from the configured path", func() {
			dir := GinkgoT().TempDir()
			path := filepath.Join(dir, "bios.bin")
			Expect(os.WriteFile(path, counterBIOS(), 0644)).To(Succeed())

			cfg := config.Default()
			cfg.BIOSPath = path
			c, err := console.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.CPU().PC()).To(Equal(uint32(0xBFC00000)))
			Expect(c.CPU().State()).To(Equal(emu.Sleeping))
		})

		It("should fail when the BIOS is missing", func() {
			cfg := config.Default()
			cfg.BIOSPath = filepath.Join(GinkgoT().TempDir(), "none.bin")
			_, err := console.New(cfg)
			Expect(err).To(MatchError(os.ErrNotExist))
		})

		It("should install configured breakpoints and the icache", func() {
			c := newConsole(counterBIOS(), func(cfg *config.Config) {
				cfg.BreakpointAddrs = []string{"bfc00008"}
				cfg.ICache = true
			})
			Expect(c.CPU().Breakpoints()).To(Equal([]uint32{0xBFC00008}))
			Expect(c.ICache()).NotTo(BeNil())
		})
	})

	Describe("running", func() {
		It("should not run while asleep", func() {
			c := newConsole(counterBIOS(), nil)
			n, err := c.RunFrame()
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})

		It("should run a frame of instructions", func() {
			c := newConsole(counterBIOS(), nil)
			c.Start()

			n, err := c.RunFrame()
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(100))
			Expect(c.Frames()).To(Equal(uint64(1)))
			Expect(c.CPU().InstrCount()).To(Equal(uint64(100)))
			Expect(c.RAM().Fetch32(0x100)).To(Equal(uint32(0x42)))
			Expect(c.RAM().Fetch32(0x104)).To(BeNumerically(">", 0))
		})

		It("should stop at a breakpoint", func() {
			c := newConsole(counterBIOS(), func(cfg *config.Config) {
				cfg.BreakpointAddrs = []string{"0xBFC0000C"}
			})
			c.Start()

			n, err := c.RunUntilStateChange(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
			Expect(c.CPU().State()).To(Equal(emu.Sleeping))
		})

		It("should clear RAM on soft reset", func() {
			c := newConsole(counterBIOS(), nil)
			c.Start()
			_, err := c.RunFrame()
			Expect(err).NotTo(HaveOccurred())

			c.SoftReset()
			Expect(c.RAM().Fetch32(0x100)).To(BeZero())
			Expect(c.Frames()).To(BeZero())
			Expect(c.CPU().PC()).To(Equal(uint32(0xBFC00000)))
		})

		It("should restart instruction cache counters on soft reset", func() {
			c := newConsole(counterBIOS(), func(cfg *config.Config) {
				cfg.ICache = true
			})
			c.Start()
			_, err := c.RunFrame()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ICache().Stats().Fetches).To(BeZero())

			// Run from KSEG0 RAM so fetches go through the cache.
			Expect(c.SideLoad(&loader.EXE{
				PC:       0x80010000,
				TextAddr: 0x80010000,
				Text:     make([]byte, 16),
			})).To(Succeed())
			_, err = c.RunFrame()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ICache().Stats().Fetches).NotTo(BeZero())

			c.SoftReset()
			Expect(c.ICache().Stats()).To(BeZero())
			Expect(c.ICache().Contains(0x00010000)).To(BeTrue())
		})

		It("should let the CPU issue halfword stores to the DMA registers", func() {
			c := newConsole(biosImage(
				insts.EncodeI(insts.OpcodeLUI, 0, t0, 0x1F80),
				insts.EncodeI(insts.OpcodeSH, t0, 0, 0x10F6),
			), nil)
			c.Start()

			_, err := c.RunFrame()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.CPU().State()).To(Equal(emu.Running))
			Expect(c.DMA().Control()).To(Equal(uint32(0x00004321)))
		})

		It("should log accesses to placeholder devices", func() {
			log := diag.NewLog(diag.DefaultMaxEntries)
			c := newConsole(biosImage(
				insts.EncodeI(insts.OpcodeLUI, 0, t0, 0x1F80),
				insts.EncodeI(insts.OpcodeSW, t0, 0, 0x1074),
			), nil, console.WithSink(log))
			c.Start()
			_, err := c.RunFrame()
			Expect(err).NotTo(HaveOccurred())

			Expect(log.Entries(diag.Filter{Channel: diag.ChannelNoDevice})).To(HaveLen(1))
		})
	})

	Describe("side-loading", func() {
		exe := func() *loader.EXE {
			return &loader.EXE{
				PC:          0x80010000,
				GP:          0x8001F000,
				TextAddr:    0x80010000,
				Text:        []byte{0x34, 0x12, 0x08, 0x24}, // addiu t0, zero, 0x1234
				StackBase:   0x801FFF00,
				StackOffset: 0xF0,
			}
		}

		It("should copy the text and set up registers", func() {
			c := newConsole(counterBIOS(), nil)
			Expect(c.SideLoad(exe())).To(Succeed())

			Expect(c.RAM().Fetch32(0x10000)).To(Equal(uint32(0x24081234)))
			Expect(c.CPU().PC()).To(Equal(uint32(0x80010000)))
			Expect(c.CPU().Reg(28)).To(Equal(uint32(0x8001F000)))
			Expect(c.CPU().Reg(29)).To(Equal(uint32(0x801FFFF0)))
		})

		It("should reject text that does not fit in RAM", func() {
			c := newConsole(counterBIOS(), nil)
			e := exe()
			e.TextAddr = 0x801FFFFE
			Expect(c.SideLoad(e)).NotTo(Succeed())
		})

		It("should boot the BIOS to the shell and run the executable", func() {
			c := newConsole(shellBIOS(), nil)
			Expect(c.BootEXE(context.Background(), exe())).To(Succeed())

			Expect(c.CPU().State()).To(Equal(emu.Running))
			Expect(c.CPU().Breakpoints()).To(BeEmpty())

			_, err := c.CPU().RunTicks(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.CPU().Reg(t0)).To(Equal(uint32(0x1234)))
		})
	})

	Describe("save files", func() {
		var c *console.Console

		BeforeEach(func() {
			c = newConsole(counterBIOS(), nil)
			c.Start()
			_, err := c.RunFrame()
			Expect(err).NotTo(HaveOccurred())
		})

		It("should restore the machine", func() {
			path := filepath.Join(GinkgoT().TempDir(), "slot.state")
			Expect(c.SaveState(path)).To(Succeed())

			snap := c.CPU().Snapshot()
			counter := c.RAM().Fetch32(0x104)
			c.DMA().Store32(devices.DMAControl, 0)

			_, err := c.RunFrame()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.RAM().Fetch32(0x104)).NotTo(Equal(counter))

			Expect(c.LoadState(path)).To(Succeed())
			Expect(c.CPU().Snapshot()).To(Equal(snap))
			Expect(c.RAM().Fetch32(0x104)).To(Equal(counter))
			Expect(c.DMA().Control()).To(Equal(devices.DMAControlReset))
		})

		It("should use the configured state path", func() {
			path := filepath.Join(GinkgoT().TempDir(), "default.state")
			c = newConsole(counterBIOS(), func(cfg *config.Config) {
				cfg.StatePath = path
			})
			Expect(c.SaveState("")).To(Succeed())
			Expect(c.LoadState("")).To(Succeed())
			Expect(path).To(BeAnExistingFile())
		})

		It("should require a path", func() {
			Expect(c.SaveState("")).To(MatchError(ContainSubstring("no save file path")))
		})

		It("should reject other files", func() {
			Expect(c.ReadState(bytes.NewReader([]byte("not a save file")))).
				To(MatchError(console.ErrBadMagic))
		})

		It("should reject newer format versions", func() {
			var buf bytes.Buffer
			Expect(c.WriteState(&buf)).To(Succeed())

			data := buf.Bytes()
			copy(data[12:], "2.0.0")
			Expect(c.ReadState(bytes.NewReader(data))).To(MatchError(console.ErrIncompatibleVersion))
		})

		It("should reject truncated files without touching the machine", func() {
			var buf bytes.Buffer
			Expect(c.WriteState(&buf)).To(Succeed())

			c.CPU().SetPC(0x80001000)
			data := buf.Bytes()
			Expect(c.ReadState(bytes.NewReader(data[:len(data)-10]))).NotTo(Succeed())
			Expect(c.CPU().PC()).To(Equal(uint32(0x80001000)))
		})
	})
})
