package emu_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxcore/diag"
	"github.com/sarchlab/psxcore/emu"
	"github.com/sarchlab/psxcore/icache"
	"github.com/sarchlab/psxcore/insts"
	"github.com/sarchlab/psxcore/mem"
)

var _ = Describe("CPU", func() {
	var m *machine

	BeforeEach(func() {
		m = newMachine()
	})

	Describe("Reset", func() {
		It("should start at the BIOS entry, asleep", func() {
			cpu := emu.NewCPU(m.bus)

			Expect(cpu.PC()).To(Equal(uint32(0xBFC00000)))
			Expect(cpu.NPC()).To(Equal(uint32(0xBFC00004)))
			Expect(cpu.State()).To(Equal(emu.Sleeping))
			Expect(cpu.Cop0().Read(emu.Cop0PRID)).To(Equal(uint32(2)))
			Expect(cpu.Cop0().SR() & emu.SRBEV).NotTo(BeZero())
			Expect(cpu.InstrCount()).To(BeZero())
		})

		It("should keep breakpoints", func() {
			m.cpu.AddBreakpoint(0x1234)
			m.cpu.Reset()
			Expect(m.cpu.Breakpoints()).To(Equal([]uint32{0x1234}))
		})
	})

	Describe("register file", func() {
		It("should keep register 0 at zero", func() {
			m.load(codeBase, addiu(zero, zero, 5))
			m.ticks(1)
			Expect(m.reg(zero)).To(BeZero())

			m.setReg(zero, 0xFFFFFFFF)
			Expect(m.reg(zero)).To(BeZero())
		})

		It("should build a constant with LUI and ORI", func() {
			m.load(codeBase,
				lui(t0, 0x1234),
				ori(t0, t0, 0x5678),
			)
			m.ticks(2)
			Expect(m.reg(t0)).To(Equal(uint32(0x12345678)))
		})

		It("should show writes to the next instruction only", func() {
			m.load(codeBase,
				addiu(t0, zero, 1),
				addu(t1, t0, zero),
			)
			m.ticks(1)
			Expect(m.reg(t0)).To(Equal(uint32(1)))
			m.ticks(1)
			Expect(m.reg(t1)).To(Equal(uint32(1)))
		})
	})

	Describe("load delay slot", func() {
		BeforeEach(func() {
			m.poke32(dataBase, 0xDEADBEEF)
			m.setReg(t1, dataBase)
		})

		It("should hide a loaded value from the next instruction", func() {
			m.setReg(t0, 7)
			m.load(codeBase,
				lw(t0, t1, 0),
				addu(t2, t0, zero),
				addu(t3, t0, zero),
			)

			m.ticks(1)
			Expect(m.reg(t0)).To(Equal(uint32(7)))
			target, value := m.cpu.RegFile().PendingLoad()
			Expect(target).To(Equal(uint8(t0)))
			Expect(value).To(Equal(uint32(0xDEADBEEF)))

			m.ticks(2)
			Expect(m.reg(t2)).To(Equal(uint32(7)))
			Expect(m.reg(t3)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("should let the delay slot instruction win a write race", func() {
			m.load(codeBase,
				lw(t0, t1, 0),
				addiu(t0, zero, 3),
			)
			m.ticks(2)
			Expect(m.reg(t0)).To(Equal(uint32(3)))
		})

		It("should replace a pending load with a newer one", func() {
			m.poke32(dataBase+4, 0x11111111)
			m.load(codeBase,
				lw(t0, t1, 0),
				lw(t0, t1, 4),
				nop(),
			)
			m.ticks(2)
			Expect(m.reg(t0)).To(Equal(uint32(0xDEADBEEF)))
			m.ticks(1)
			Expect(m.reg(t0)).To(Equal(uint32(0x11111111)))
		})

		It("should delay MFC0", func() {
			m.cpu.Cop0().Write(emu.Cop0EPC, 0x80000123)
			m.load(codeBase,
				mfc0(t0, emu.Cop0EPC),
				addu(t2, t0, zero),
				addu(t3, t0, zero),
			)
			m.ticks(3)
			Expect(m.reg(t2)).To(BeZero())
			Expect(m.reg(t3)).To(Equal(uint32(0x80000123)))
		})
	})

	Describe("segment mirroring", func() {
		It("should reach the same RAM word through KUSEG, KSEG0 and KSEG1", func() {
			m.setReg(t1, 0xA0001800)
			m.setReg(t2, 0x00001800)
			m.setReg(t3, 0x80001800)
			m.setReg(t0, 0xCAFEF00D)
			m.load(codeBase,
				sw(t0, t1, 0),
				lw(t1, t2, 0),
				lw(t2, t3, 0),
				nop(),
			)
			m.ticks(4)

			Expect(m.reg(t1)).To(Equal(uint32(0xCAFEF00D)))
			Expect(m.reg(t2)).To(Equal(uint32(0xCAFEF00D)))
			Expect(m.peek32(0x1800)).To(Equal(uint32(0xCAFEF00D)))
		})
	})

	Describe("run control", func() {
		It("should not tick from RunUntilStateChange when not running", func() {
			m.cpu.SetState(emu.Sleeping)
			n, err := m.cpu.RunUntilStateChange(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})

		It("should stop at the tick cap", func() {
			m.load(codeBase,
				beq(zero, zero, -1),
				nop(),
			)
			n, err := m.cpu.RunUntilStateChange(context.Background(), 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(10))
			Expect(m.cpu.State()).To(Equal(emu.Running))
			Expect(m.cpu.InstrCount()).To(Equal(uint64(10)))
		})

		It("should stop when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			n, err := m.cpu.RunUntilStateChange(ctx, 0)
			Expect(err).To(MatchError(context.Canceled))
			Expect(n).To(BeZero())
		})

		It("should run a bounded number of ticks", func() {
			n, err := m.cpu.RunTicks(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(5))
			Expect(m.cpu.PC()).To(Equal(codeBase + 20))
		})
	})

	Describe("breakpoints", func() {
		It("should put the CPU to sleep when PC reaches one", func() {
			m.cpu.AddBreakpoint(codeBase + 12)

			n, err := m.cpu.RunUntilStateChange(context.Background(), 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(3))
			Expect(m.cpu.State()).To(Equal(emu.Sleeping))
			Expect(m.cpu.PC()).To(Equal(codeBase + 12))
		})

		It("should list and remove breakpoints", func() {
			m.cpu.AddBreakpoint(0x300)
			m.cpu.AddBreakpoint(0x100)
			m.cpu.AddBreakpoint(0x200)
			Expect(m.cpu.Breakpoints()).To(Equal([]uint32{0x100, 0x200, 0x300}))

			m.cpu.RemoveBreakpoint(0x200)
			m.cpu.RemoveBreakpoint(0x999)
			Expect(m.cpu.Breakpoints()).To(Equal([]uint32{0x100, 0x300}))
		})

		It("should accept breakpoints as an option", func() {
			cpu := emu.NewCPU(m.bus, emu.WithBreakpoints(0x20, 0x10))
			Expect(cpu.Breakpoints()).To(Equal([]uint32{0x10, 0x20}))
		})
	})

	Describe("host faults", func() {
		var log *diag.Log

		BeforeEach(func() {
			log = diag.NewLog(diag.DefaultMaxEntries)
			m = newMachine(emu.WithSink(log))
			m.poke32(dataBase, 0x55AA55AA)
			m.setReg(t3, dataBase)
			m.setReg(t1, 0x1F000000)
			m.load(codeBase,
				lw(t2, t3, 0),
				lw(t0, t1, 0),
				nop(),
			)
		})

		It("should halt with a typed error and leave the state untouched", func() {
			m.ticks(1)
			before := m.cpu.Snapshot()

			err := m.cpu.Tick()

			var fault *emu.HostFault
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.PC).To(Equal(codeBase + 4))
			Expect(fault.Word).To(Equal(lw(t0, t1, 0)))
			Expect(err).To(MatchError(mem.ErrUnmapped))

			after := m.cpu.Snapshot()
			Expect(after.State).To(Equal(emu.Halted))
			after.State = before.State
			Expect(after).To(Equal(before))

			Expect(log.Entries(diag.Filter{Channel: diag.ChannelCPU})).To(HaveLen(1))
			Expect(log.Tail(1)[0].Severity).To(Equal(diag.Error))
		})

		It("should resume when revived", func() {
			m.ticks(1)
			Expect(m.cpu.Tick()).NotTo(Succeed())

			m.setReg(t1, dataBase)
			m.cpu.SetState(emu.Running)
			m.ticks(2)

			Expect(m.reg(t2)).To(Equal(uint32(0x55AA55AA)))
			Expect(m.reg(t0)).To(Equal(uint32(0x55AA55AA)))
		})

		It("should stop RunUntilStateChange", func() {
			n, err := m.cpu.RunUntilStateChange(context.Background(), 100)
			Expect(err).To(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(m.cpu.State()).To(Equal(emu.Halted))
		})

		It("should fault on an unmapped fetch", func() {
			m.cpu.SetPC(0x1F000000)
			err := m.cpu.Tick()
			Expect(err).To(MatchError(mem.ErrUnmapped))
			Expect(m.cpu.PC()).To(Equal(uint32(0x1F000000)))
			Expect(m.cpu.InstrCount()).To(BeZero())
		})
	})

	Describe("diagnostics", func() {
		It("should trace instructions when verbose", func() {
			log := diag.NewLog(diag.DefaultMaxEntries)
			m = newMachine(emu.WithSink(log), emu.WithVerbose(true))
			m.load(codeBase, lui(t0, 0x1234))
			m.ticks(1)

			Expect(log.SpamLines()).To(HaveLen(1))
			Expect(log.SpamLines()[0]).To(ContainSubstring("lui"))
			Expect(log.Entries(diag.Filter{Contains: "lui"})).To(BeEmpty())
		})

		It("should push the trace as messages to sinks without a spam ring", func() {
			log := diag.NewLog(diag.DefaultMaxEntries)
			m = newMachine(emu.WithSink(diag.Tee{log}), emu.WithVerbose(true))
			m.load(codeBase, lui(t0, 0x1234))
			m.ticks(1)

			entries := log.Entries(diag.Filter{Contains: "lui"})
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Severity).To(Equal(diag.Message))
			Expect(entries[0].Channel).To(Equal(diag.ChannelCPU))
		})

		It("should stay quiet by default", func() {
			log := diag.NewLog(diag.DefaultMaxEntries)
			m = newMachine(emu.WithSink(log))
			m.ticks(4)
			Expect(log.Len()).To(BeZero())
		})
	})

	Describe("instruction cache", func() {
		var ic *icache.Cache

		BeforeEach(func() {
			ic = icache.New(icache.DefaultConfig())
			m = newMachine(emu.WithICache(ic))
		})

		It("should record fetches from cached segments", func() {
			m.ticks(8)
			stats := ic.Stats()
			Expect(stats.Fetches).To(Equal(uint64(8)))
			Expect(stats.Misses).To(Equal(uint64(2)))
			Expect(ic.Contains(mem.Mask(codeBase))).To(BeTrue())
		})

		It("should bypass the cache in KSEG1", func() {
			m.cpu.SetPC(0xA0001000)
			m.ticks(4)
			Expect(ic.Stats().Fetches).To(BeZero())
		})

		It("should invalidate lines on isolated stores", func() {
			m.ticks(1)
			Expect(ic.Contains(mem.Mask(codeBase))).To(BeTrue())

			m.cpu.Cop0().Write(emu.Cop0SR, emu.SRIsC)
			m.setReg(t0, 0x12345678)
			m.setReg(t1, codeBase)
			m.load(codeBase+4, sw(t0, t1, 0))
			m.ticks(1)

			Expect(ic.Contains(mem.Mask(codeBase))).To(BeFalse())
			Expect(m.peek32(codeBase)).To(BeZero())
		})
	})

	It("should decode through the insts package", func() {
		Expect(insts.Disassemble(lui(t0, 1), codeBase)).To(ContainSubstring("lui"))
	})
})
