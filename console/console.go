// Package console wires the CPU, the bus and the peripherals into a
// PlayStation and drives it a frame at a time.
package console

import (
	"context"
	"fmt"

	"github.com/sarchlab/psxcore/config"
	"github.com/sarchlab/psxcore/devices"
	"github.com/sarchlab/psxcore/diag"
	"github.com/sarchlab/psxcore/emu"
	"github.com/sarchlab/psxcore/icache"
	"github.com/sarchlab/psxcore/loader"
	"github.com/sarchlab/psxcore/mem"
)

// ShellEntry is where the BIOS jumps into the shell once the kernel is set
// up. Executables are side-loaded when execution reaches it.
const ShellEntry uint32 = 0x80030000

// Register numbers touched by side-loading.
const (
	regGP = 28
	regSP = 29
	regFP = 30
)

// Console is a PlayStation: a CPU and the devices on its bus.
type Console struct {
	cfg  *config.Config
	sink diag.Sink

	bus        *mem.Bus
	cpu        *emu.CPU
	icache     *icache.Cache
	bios       *devices.BIOS
	ram        *devices.RAM
	scratchpad *devices.Scratchpad
	hardreg    *devices.HardReg
	expansion  *devices.Expansion1
	gpu        *devices.GPU
	dma        *devices.DMA
	nodevice   *devices.NoDevice

	frames uint64
}

// Option is a functional option for configuring the Console.
type Option func(*Console)

// WithSink sets where the console and its devices report diagnostics.
func WithSink(s diag.Sink) Option {
	return func(c *Console) {
		c.sink = diag.OrNop(s)
	}
}

// WithBIOS supplies the BIOS instead of loading cfg.BIOSPath.
func WithBIOS(b *devices.BIOS) Option {
	return func(c *Console) {
		c.bios = b
	}
}

// New builds a console from cfg and soft-resets it. The CPU starts
// Sleeping at the BIOS entry point.
func New(cfg *config.Config, opts ...Option) (*Console, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	c := &Console{
		cfg:  cfg.Clone(),
		sink: diag.Nop{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.bios == nil {
		bios, err := loader.LoadBIOS(cfg.BIOSPath)
		if err != nil {
			return nil, err
		}
		c.bios = bios
	}

	c.ram = devices.NewRAM()
	c.scratchpad = devices.NewScratchpad()
	c.hardreg = devices.NewHardReg(c.sink)
	c.expansion = devices.NewExpansion1()
	c.gpu = devices.NewGPU(c.sink)
	c.dma = devices.NewDMA(c.sink)
	c.nodevice = devices.NewNoDevice(c.sink)

	c.bus = mem.NewBus()
	c.interconnect()

	breakpoints, err := c.cfg.Breakpoints()
	if err != nil {
		return nil, err
	}

	cpuOpts := []emu.Option{
		emu.WithSink(c.sink),
		emu.WithVerbose(c.cfg.Verbose),
		emu.WithBreakpoints(breakpoints...),
	}
	if c.cfg.ICache {
		c.icache = icache.New(icache.DefaultConfig())
		cpuOpts = append(cpuOpts, emu.WithICache(c.icache))
	}
	c.cpu = emu.NewCPU(c.bus, cpuOpts...)

	c.SoftReset()

	return c, nil
}

// interconnect maps the devices. Bindings are searched in order, so the
// placeholder sub-ranges go first to carve holes out of the windows
// connected after them.
func (c *Console) interconnect() {
	c.bus.Connect(mem.NewRange(mem.CacheControlAddr, 4), c.nodevice)
	c.bus.Connect(mem.NewRange(0x1F801C00, 0x1F801E80-0x1F801C00), c.nodevice) // SPU
	c.bus.Connect(mem.NewRange(mem.Expansion2Addr, 0x42), c.nodevice)
	c.bus.Connect(mem.NewRange(0x1F801070, 8), c.nodevice)                     // interrupt control
	c.bus.Connect(mem.NewRange(0x1F801100, 0x1F80112F-0x1F801100), c.nodevice) // timers

	c.bus.Connect(mem.NewRange(0x1F801810, 8), c.gpu)
	c.bus.Connect(mem.NewRange(0x1F801080, 0x1F801100-0x1F801080), c.dma)

	c.bus.Connect(mem.NewRange(mem.BIOSAddr, mem.BIOSSize), c.bios)
	c.bus.Connect(mem.NewRange(mem.RAMAddr, mem.RAMSize), c.ram)
	c.bus.Connect(mem.NewRange(mem.ScratchpadAddr, mem.ScratchpadSize), c.scratchpad)
	c.bus.Connect(mem.NewRange(mem.HardRegAddr, mem.HardRegSize), c.hardreg)
	c.bus.Connect(mem.NewRange(mem.Expansion1Addr, mem.Expansion1Size), c.expansion)
}

// SoftReset resets the CPU and the volatile devices. The BIOS and the
// breakpoints are kept. Instruction cache lines survive, as they do on the
// console, but its counters restart.
func (c *Console) SoftReset() {
	c.cpu.Reset()
	c.ram.Reset()
	c.scratchpad.Reset()
	c.hardreg.Reset()
	c.gpu.Reset()
	c.dma.Reset()
	if c.icache != nil {
		c.icache.ResetStats()
	}
	c.frames = 0

	c.sink.Push("soft reset", diag.Info, diag.ChannelConsole)
}

// Bus returns the system bus.
func (c *Console) Bus() *mem.Bus { return c.bus }

// CPU returns the processor.
func (c *Console) CPU() *emu.CPU { return c.cpu }

// RAM returns main memory.
func (c *Console) RAM() *devices.RAM { return c.ram }

// GPU returns the GPU register stub.
func (c *Console) GPU() *devices.GPU { return c.gpu }

// DMA returns the DMA controller.
func (c *Console) DMA() *devices.DMA { return c.dma }

// ICache returns the instruction cache model, or nil when disabled.
func (c *Console) ICache() *icache.Cache { return c.icache }

// Config returns a copy of the session settings.
func (c *Console) Config() *config.Config { return c.cfg.Clone() }

// Frames returns the number of frames run since the last reset.
func (c *Console) Frames() uint64 { return c.frames }

// Start lets the CPU run.
func (c *Console) Start() {
	c.cpu.SetState(emu.Running)
}

// Stop puts the CPU to sleep.
func (c *Console) Stop() {
	c.cpu.SetState(emu.Sleeping)
}

// RunFrame runs one frame's worth of instructions. It stops early if the
// CPU leaves the Running state and returns the number of instructions run.
func (c *Console) RunFrame() (int, error) {
	n, err := c.cpu.RunTicks(int(c.cfg.InstructionsPerFrame))
	if err != nil {
		return n, err
	}
	c.frames++
	return n, nil
}

// RunUntilStateChange runs until a breakpoint, a host fault, ctx ending or
// the configured tick cap.
func (c *Console) RunUntilStateChange(ctx context.Context) (int, error) {
	return c.cpu.RunUntilStateChange(ctx, int(c.cfg.RunUntilCap))
}
