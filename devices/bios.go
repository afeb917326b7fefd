package devices

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/sarchlab/psxcore/mem"
)

// Sizes of the memory devices.
const (
	RAMSize        = mem.RAMSize
	ScratchpadSize = mem.ScratchpadSize
	BIOSSize       = mem.BIOSSize
)

// ErrBIOSSize is returned for a BIOS image that is not exactly BIOSSize
// bytes.
var ErrBIOSSize = errors.New("BIOS image size is invalid")

// BIOS is the 512 KiB boot ROM. It only answers fetches.
type BIOS struct {
	data []byte
}

// NewBIOS wraps a ROM image.
func NewBIOS(image []byte) (*BIOS, error) {
	if len(image) != BIOSSize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrBIOSSize, len(image), BIOSSize)
	}

	data := make([]byte, BIOSSize)
	copy(data, image)

	return &BIOS{data: data}, nil
}

// Name returns "bios".
func (b *BIOS) Name() string { return "bios" }

// Fetch8 reads a byte.
func (b *BIOS) Fetch8(offset uint32) uint8 {
	return b.data[offset]
}

// Fetch16 reads a little-endian halfword.
func (b *BIOS) Fetch16(offset uint32) uint16 {
	return binary.LittleEndian.Uint16(b.data[offset:])
}

// Fetch32 reads a little-endian word.
func (b *BIOS) Fetch32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(b.data[offset:])
}
