package emu

import (
	"errors"
	"fmt"
)

// ErrUnimplemented is reported when the dispatch table has no handler for a
// decoded operation.
var ErrUnimplemented = errors.New("unimplemented instruction")

// ErrSaveState is returned when a save-state image cannot be restored.
var ErrSaveState = errors.New("invalid save state")

// HostFault is returned by Tick when the emulator itself, not the guest
// program, cannot continue: the bus refused an access or the instruction
// has no handler. The CPU is halted with its state as it was before the
// faulting tick.
type HostFault struct {
	PC   uint32 // address of the faulting instruction
	Word uint32 // instruction word, 0 if the fetch itself failed
	Err  error
}

func (f *HostFault) Error() string {
	return fmt.Sprintf("host fault at PC=0x%08X (word 0x%08X): %v", f.PC, f.Word, f.Err)
}

func (f *HostFault) Unwrap() error {
	return f.Err
}
