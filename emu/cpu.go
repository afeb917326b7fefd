package emu

import (
	"context"
	"fmt"
	"sort"

	"github.com/sarchlab/psxcore/diag"
	"github.com/sarchlab/psxcore/icache"
	"github.com/sarchlab/psxcore/insts"
	"github.com/sarchlab/psxcore/mem"
)

// ResetVector is where the CPU starts fetching after Reset.
const ResetVector uint32 = 0xBFC00000

// State is the run state of the CPU.
type State uint8

// CPU run states.
const (
	// Sleeping CPUs do not tick until told to run.
	Sleeping State = iota
	// Running CPUs tick.
	Running
	// Halted CPUs hit a host fault and stay put until revived.
	Halted
)

func (s State) String() string {
	switch s {
	case Sleeping:
		return "sleeping"
	case Running:
		return "running"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Bus is the CPU's view of the address space. Every access either returns a
// value or an error; the CPU turns errors into host faults.
type Bus interface {
	Fetch8(addr uint32) (uint8, error)
	Fetch16(addr uint32) (uint16, error)
	Fetch32(addr uint32) (uint32, error)
	Store8(addr uint32, value uint8) error
	Store16(addr uint32, value uint16) error
	Store32(addr uint32, value uint32) error
}

// CPU interprets R3000A instructions one tick at a time.
type CPU struct {
	bus     Bus
	decoder *insts.Decoder
	regFile *RegFile
	cop0    Cop0

	hi, lo uint32

	// cpc is the address of the instruction being executed, pc the next one
	// and npc the one after that. Branches write npc.
	cpc, pc, npc uint32

	state        State
	instrExecCnt uint64
	breakpoints  map[uint32]struct{}

	icache  *icache.Cache
	sink    diag.Sink
	verbose bool

	lastException Exception
	exceptions    uint64
}

// Option is a functional option for configuring the CPU.
type Option func(*CPU)

// WithSink sets where the CPU reports diagnostics.
func WithSink(s diag.Sink) Option {
	return func(c *CPU) {
		c.sink = diag.OrNop(s)
	}
}

// WithVerbose makes the CPU trace every instruction and exception to its
// sink.
func WithVerbose(verbose bool) Option {
	return func(c *CPU) {
		c.verbose = verbose
	}
}

// WithICache attaches an instruction cache model. Fetches from cached
// segments are recorded in it; the data always comes from the bus.
func WithICache(ic *icache.Cache) Option {
	return func(c *CPU) {
		c.icache = ic
	}
}

// WithBreakpoints installs execution breakpoints.
func WithBreakpoints(addrs ...uint32) Option {
	return func(c *CPU) {
		for _, a := range addrs {
			c.breakpoints[a] = struct{}{}
		}
	}
}

// NewCPU creates a CPU attached to bus and resets it.
func NewCPU(bus Bus, opts ...Option) *CPU {
	c := &CPU{
		bus:         bus,
		decoder:     insts.NewDecoder(),
		regFile:     NewRegFile(),
		breakpoints: make(map[uint32]struct{}),
		sink:        diag.Nop{},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Reset()

	return c
}

// Reset puts the CPU in its power-on state: registers cleared, PC at the
// reset vector, Sleeping. Breakpoints survive a reset.
func (c *CPU) Reset() {
	c.regFile.reset()
	c.cop0.reset()
	c.hi, c.lo = 0, 0
	c.cpc = ResetVector
	c.pc = ResetVector
	c.npc = ResetVector + 4
	c.state = Sleeping
	c.instrExecCnt = 0
	c.exceptions = 0

	if c.icache != nil {
		c.icache.Reset()
	}
}

// RegFile returns the CPU's register file.
func (c *CPU) RegFile() *RegFile {
	return c.regFile
}

// Cop0 returns the system control coprocessor.
func (c *CPU) Cop0() *Cop0 {
	return &c.cop0
}

// Reg reads a general purpose register.
func (c *CPU) Reg(reg uint8) uint32 {
	return c.regFile.ReadReg(reg)
}

// HI returns the HI register.
func (c *CPU) HI() uint32 { return c.hi }

// LO returns the LO register.
func (c *CPU) LO() uint32 { return c.lo }

// PC returns the address of the next instruction to execute.
func (c *CPU) PC() uint32 { return c.pc }

// NPC returns the address of the instruction after PC.
func (c *CPU) NPC() uint32 { return c.npc }

// CurrentPC returns the address of the most recently fetched instruction.
func (c *CPU) CurrentPC() uint32 { return c.cpc }

// SetPC redirects execution to addr. Any pending branch is dropped.
func (c *CPU) SetPC(addr uint32) {
	c.cpc = addr
	c.pc = addr
	c.npc = addr + 4
}

// InstrCount returns the number of instructions executed since Reset.
func (c *CPU) InstrCount() uint64 {
	return c.instrExecCnt
}

// Exceptions returns how many exceptions were raised since Reset and the
// code of the last one.
func (c *CPU) Exceptions() (uint64, Exception) {
	return c.exceptions, c.lastException
}

// State returns the run state.
func (c *CPU) State() State {
	return c.state
}

// SetState changes the run state. Setting Running on a halted CPU revives
// it.
func (c *CPU) SetState(s State) {
	if s != c.state && c.verbose {
		c.logf(diag.Info, "state %s -> %s", c.state, s)
	}
	c.state = s
}

// AddBreakpoint stops the CPU after any tick that leaves PC at addr.
func (c *CPU) AddBreakpoint(addr uint32) {
	c.breakpoints[addr] = struct{}{}
}

// RemoveBreakpoint removes a breakpoint. Removing a missing breakpoint is a
// no-op.
func (c *CPU) RemoveBreakpoint(addr uint32) {
	delete(c.breakpoints, addr)
}

// Breakpoints returns the installed breakpoints in ascending order.
func (c *CPU) Breakpoints() []uint32 {
	addrs := make([]uint32, 0, len(c.breakpoints))
	for a := range c.breakpoints {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// Tick executes one instruction.
//
// Architectural faults become MIPS exceptions and Tick returns nil. A
// *HostFault is returned when the bus rejects an access; the CPU is then
// Halted and left exactly as it was before the tick.
func (c *CPU) Tick() error {
	prevCPC := c.cpc
	c.cpc = c.pc

	// 1. An unaligned PC faults before anything is fetched.
	if c.cpc%4 != 0 {
		c.cop0.regs[Cop0BadVaddr] = c.cpc
		// pc == cpc here, so the delay-slot rule would wrongly set BD.
		c.raiseAt(ExcAddressErrorLoad, false)
		return nil
	}

	// 2. Fetch
	word, err := c.fetch(c.cpc)
	if err != nil {
		c.cpc = prevCPC
		return c.hostFault(c.pc, 0, err)
	}

	// 3. Advance
	prevPC, prevNPC := c.pc, c.npc
	load := c.regFile.load
	c.pc = c.npc
	c.npc += 4

	// 4. The previous tick's load lands.
	c.regFile.commitLoad()

	// 5. Decode and execute
	inst := c.decoder.Decode(word)
	if c.verbose {
		c.trace("%08X: %s", c.cpc, insts.Disassemble(word, c.cpc))
	}

	if h := handlers[inst.Op]; h == nil {
		err = fmt.Errorf("%w: %s", ErrUnimplemented, inst.Op)
	} else {
		err = h(c, &inst)
	}

	if err != nil {
		c.regFile.discard(load)
		faultPC := c.cpc
		c.cpc, c.pc, c.npc = prevCPC, prevPC, prevNPC
		return c.hostFault(faultPC, word, err)
	}

	// 6. Commit
	c.regFile.commit()

	// 7. Account and check breakpoints.
	c.instrExecCnt++
	if _, ok := c.breakpoints[c.pc]; ok {
		c.state = Sleeping
		c.logf(diag.Info, "breakpoint at 0x%08X", c.pc)
	}

	return nil
}

// RunTicks ticks up to n times while the CPU is Running. It returns the
// number of ticks executed.
func (c *CPU) RunTicks(n int) (int, error) {
	done := 0
	for done < n && c.state == Running {
		if err := c.Tick(); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

// ctxCheckInterval is how many ticks RunUntilStateChange runs between
// context checks.
const ctxCheckInterval = 4096

// RunUntilStateChange ticks until the run state changes, maxTicks ticks
// have run, or ctx is done. A maxTicks of 0 or less means no cap. It returns
// the number of ticks executed. The CPU must already be Running.
func (c *CPU) RunUntilStateChange(ctx context.Context, maxTicks int) (int, error) {
	start := c.state
	if start != Running {
		return 0, nil
	}

	done := 0
	for c.state == start {
		if maxTicks > 0 && done >= maxTicks {
			break
		}
		if done%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return done, err
			}
		}
		if err := c.Tick(); err != nil {
			return done, err
		}
		done++
	}

	return done, nil
}

func (c *CPU) fetch(addr uint32) (uint32, error) {
	if c.icache != nil && mem.Cached(addr) && !c.cop0.CacheIsolated() {
		c.icache.Fetch(mem.Mask(addr))
	}
	return c.bus.Fetch32(addr)
}

func (c *CPU) hostFault(pc, word uint32, err error) error {
	f := &HostFault{PC: pc, Word: word, Err: err}
	c.state = Halted
	c.sink.Push(f.Error(), diag.Error, diag.ChannelCPU)
	return f
}

// trace reports one executed instruction. Sinks with a spam ring get it
// there so the trace does not push out the regular log.
func (c *CPU) trace(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if s, ok := c.sink.(diag.Spammer); ok {
		s.Spam(msg)
		return
	}
	c.sink.Push(msg, diag.Message, diag.ChannelCPU)
}

func (c *CPU) logf(sev diag.Severity, format string, args ...any) {
	c.sink.Push(fmt.Sprintf(format, args...), sev, diag.ChannelCPU)
}
