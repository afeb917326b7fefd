// Package devices implements the peripherals that sit on the PS1 bus:
// main memory, the scratchpad, the BIOS ROM and the register blocks the
// BIOS touches while booting.
//
// Every device implements mem.Device plus whichever of the width-specific
// Fetcher/Storer interfaces the hardware answers to. Offsets are relative
// to the device's binding.
package devices

import (
	"fmt"

	"github.com/sarchlab/psxcore/diag"
)

func warnf(sink diag.Sink, channel, format string, args ...any) {
	sink.Push(fmt.Sprintf(format, args...), diag.Warning, channel)
}

func errorf(sink diag.Sink, channel, format string, args ...any) {
	sink.Push(fmt.Sprintf(format, args...), diag.Error, channel)
}

// lane locates a narrow access inside the 32-bit register holding it.
// width is 0xFF or 0xFFFF; the returned mask covers the accessed bytes.
func lane(offset, width uint32) (word, shift, mask uint32) {
	shift = (offset & 3) * 8
	return offset &^ 3, shift, width << shift
}

// merge replaces the bits of old selected by mask.
func merge(old, value, mask uint32) uint32 {
	return old&^mask | value&mask
}
