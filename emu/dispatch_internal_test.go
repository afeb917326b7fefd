package emu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/psxcore/devices"
	"github.com/sarchlab/psxcore/insts"
	"github.com/sarchlab/psxcore/mem"
)

var _ = Describe("dispatch table", func() {
	It("should have a handler for every operation", func() {
		for op := insts.Op(0); op < insts.NumOps; op++ {
			Expect(handlers[op]).NotTo(BeNil(), op.String())
		}
	})

	Context("with a handler missing", func() {
		var saved handler

		BeforeEach(func() {
			saved = handlers[insts.OpADDU]
			handlers[insts.OpADDU] = nil
		})

		AfterEach(func() {
			handlers[insts.OpADDU] = saved
		})

		It("should halt with ErrUnimplemented", func() {
			bus := mem.NewBus()
			ram := devices.NewRAM()
			bus.Connect(mem.NewRange(mem.RAMAddr, mem.RAMSize), ram)
			ram.Store32(0x1000, insts.EncodeR(insts.FunctADDU, 1, 2, 3, 0))

			cpu := NewCPU(bus)
			cpu.SetPC(0x80001000)
			cpu.SetState(Running)

			err := cpu.Tick()
			Expect(err).To(MatchError(ErrUnimplemented))
			Expect(cpu.State()).To(Equal(Halted))
			Expect(cpu.PC()).To(Equal(uint32(0x80001000)))
		})
	})
})

var _ = Describe("RegFile", func() {
	var r *RegFile

	BeforeEach(func() {
		r = NewRegFile()
	})

	It("should apply the pending load before this tick's writes", func() {
		r.stageLoad(5, 1)
		r.commitLoad()
		r.stage(5, 2)
		Expect(r.Out(5)).To(Equal(uint32(2)))

		r.commit()
		Expect(r.ReadReg(5)).To(Equal(uint32(2)))
	})

	It("should drop writes to register 0", func() {
		r.stage(0, 9)
		r.stageLoad(0, 9)
		r.commitLoad()
		r.commit()
		Expect(r.ReadReg(0)).To(BeZero())
		Expect(r.Out(0)).To(BeZero())
	})

	It("should restore the pending load on discard", func() {
		r.stageLoad(4, 7)
		load := r.load
		r.commitLoad()
		r.stage(6, 1)

		r.discard(load)
		r.commit()

		Expect(r.ReadReg(4)).To(BeZero())
		Expect(r.ReadReg(6)).To(BeZero())
		target, value := r.PendingLoad()
		Expect(target).To(Equal(uint8(4)))
		Expect(value).To(Equal(uint32(7)))
	})
})
