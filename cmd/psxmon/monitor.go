package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/psxcore/config"
	"github.com/sarchlab/psxcore/console"
	"github.com/sarchlab/psxcore/emu"
	"github.com/sarchlab/psxcore/insts"
)

// errQuit is returned by Exec when the user asks to leave.
var errQuit = errors.New("quit")

// errHalted is returned by commands that need a CPU that has not faulted.
var errHalted = errors.New("CPU is halted, use revive to resume or reset")

// defaultDisasmCount is how many instructions "dis" shows without a count.
const defaultDisasmCount = 8

type command struct {
	usage string
	run   func(m *Monitor, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"step":   {"step [n]            execute n instructions (default 1)", (*Monitor).step},
		"run":    {"run                 run until a breakpoint or fault", (*Monitor).run},
		"stop":   {"stop                put the CPU to sleep", (*Monitor).stop},
		"revive": {"revive              clear a halt after a host fault", (*Monitor).revive},
		"regs":   {"regs                show the registers", (*Monitor).regs},
		"break":  {"break [addr]        add a breakpoint, or list them", (*Monitor).addBreak},
		"clear":  {"clear <addr>        remove a breakpoint", (*Monitor).clearBreak},
		"dis":    {"dis [addr] [n]      disassemble n instructions", (*Monitor).disassemble},
		"save":   {"save [path]         write a save state", (*Monitor).save},
		"load":   {"load [path]         restore a save state", (*Monitor).load},
		"reset":  {"reset               soft reset the console", (*Monitor).reset},
		"help":   {"help                show this list", (*Monitor).help},
		"quit":   {"quit                leave the monitor", (*Monitor).quit},
	}
}

// Monitor interprets debugger commands against a console.
type Monitor struct {
	psx *console.Console
	out io.Writer
}

// NewMonitor creates a monitor that prints to out.
func NewMonitor(psx *console.Console, out io.Writer) *Monitor {
	return &Monitor{psx: psx, out: out}
}

// Exec runs one command line. Blank lines are ignored. It returns errQuit
// when the session should end.
func (m *Monitor) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	cmd, ok := commands[fields[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", fields[0])
	}
	return cmd.run(m, ctx, fields[1:])
}

func (m *Monitor) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func (m *Monitor) step(_ context.Context, args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		n = v
	}

	cpu := m.psx.CPU()
	if cpu.State() == emu.Halted {
		return errHalted
	}

	for i := 0; i < n; i++ {
		pc := cpu.PC()
		word, err := m.psx.Bus().Fetch32(pc)
		if err == nil {
			m.printf("%08X  %s\n", pc, insts.Disassemble(word, pc))
		}
		if err := cpu.Tick(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Monitor) run(ctx context.Context, _ []string) error {
	cpu := m.psx.CPU()
	if cpu.State() == emu.Halted {
		return errHalted
	}

	m.psx.Start()
	n, err := m.psx.RunUntilStateChange(ctx)
	m.printf("ran %d instructions, CPU %s at 0x%08X\n", n, cpu.State(), cpu.PC())
	return err
}

func (m *Monitor) stop(context.Context, []string) error {
	m.psx.Stop()
	return nil
}

// revive puts a halted CPU to sleep so it can be stepped or run again.
// PC still points at the instruction that faulted.
func (m *Monitor) revive(context.Context, []string) error {
	cpu := m.psx.CPU()
	if cpu.State() != emu.Halted {
		return fmt.Errorf("CPU is %s, not halted", cpu.State())
	}
	cpu.SetState(emu.Sleeping)
	m.printf("revived at 0x%08X\n", cpu.PC())
	return nil
}

func (m *Monitor) regs(context.Context, []string) error {
	s := m.psx.CPU().Snapshot()

	for r := 0; r < 32; r += 4 {
		for c := r; c < r+4; c++ {
			m.printf("%4s %08X  ", insts.RegNames[c], s.GPR[c])
		}
		m.printf("\n")
	}
	m.printf("  pc %08X    hi %08X    lo %08X\n", s.PC, s.HI, s.LO)
	m.printf("  sr %08X cause %08X   epc %08X\n",
		s.Cop0[emu.Cop0SR], s.Cop0[emu.Cop0Cause], s.Cop0[emu.Cop0EPC])
	if s.LoadTarget != 0 {
		m.printf("load pending: %s <- %08X\n", insts.RegNames[s.LoadTarget], s.LoadValue)
	}
	m.printf("%s, %d instructions\n", s.State, s.InstrCount)
	return nil
}

func (m *Monitor) addBreak(_ context.Context, args []string) error {
	cpu := m.psx.CPU()
	if len(args) == 0 {
		for _, a := range cpu.Breakpoints() {
			m.printf("%08X\n", a)
		}
		return nil
	}

	addr, err := parseWordAddr(args[0])
	if err != nil {
		return err
	}
	cpu.AddBreakpoint(addr)
	return nil
}

func (m *Monitor) clearBreak(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: clear <addr>")
	}
	addr, err := config.ParseAddr(args[0])
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", args[0], err)
	}
	m.psx.CPU().RemoveBreakpoint(addr)
	return nil
}

func (m *Monitor) disassemble(_ context.Context, args []string) error {
	addr := m.psx.CPU().PC()
	n := defaultDisasmCount

	if len(args) > 0 {
		a, err := parseWordAddr(args[0])
		if err != nil {
			return err
		}
		addr = a
	}
	if len(args) > 1 {
		v, err := strconv.Atoi(args[1])
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid count %q", args[1])
		}
		n = v
	}

	for i := 0; i < n; i++ {
		pc := addr + uint32(i)*4
		word, err := m.psx.Bus().Fetch32(pc)
		if err != nil {
			return err
		}
		m.printf("%08X  %08X  %s\n", pc, word, insts.Disassemble(word, pc))
	}
	return nil
}

func (m *Monitor) save(_ context.Context, args []string) error {
	return m.psx.SaveState(pathArg(args))
}

func (m *Monitor) load(_ context.Context, args []string) error {
	return m.psx.LoadState(pathArg(args))
}

func (m *Monitor) reset(context.Context, []string) error {
	m.psx.SoftReset()
	return nil
}

func (m *Monitor) help(context.Context, []string) error {
	for _, name := range []string{
		"step", "run", "stop", "revive", "regs", "break", "clear",
		"dis", "save", "load", "reset", "help", "quit",
	} {
		m.printf("  %s\n", commands[name].usage)
	}
	return nil
}

func (m *Monitor) quit(context.Context, []string) error {
	return errQuit
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func parseWordAddr(s string) (uint32, error) {
	addr, err := config.ParseAddr(s)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if addr%4 != 0 {
		return 0, fmt.Errorf("address 0x%08X is not word aligned", addr)
	}
	return addr, nil
}
