package loader

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// PS-X EXE layout.
const (
	EXEHeaderSize = 0x800

	exeMagic       = "PS-X EXE"
	exeOffPC       = 0x10
	exeOffGP       = 0x14
	exeOffTextAddr = 0x18
	exeOffTextSize = 0x1C
	exeOffBSSAddr  = 0x28
	exeOffBSSSize  = 0x2C
	exeOffStack    = 0x30
	exeOffStackOff = 0x34
	exeOffRegion   = 0x4C
)

// DefaultStackPointer is used when an executable does not name a stack.
const DefaultStackPointer uint32 = 0x801FFFF0

// Errors returned for malformed executables.
var (
	ErrNotEXE    = errors.New("not a PS-X EXE")
	ErrTruncated = errors.New("truncated PS-X EXE")
)

// EXE is a parsed PS-X EXE executable.
type EXE struct {
	// PC is the entry point.
	PC uint32
	// GP is the initial global pointer.
	GP uint32

	// TextAddr is where Text is copied.
	TextAddr uint32
	Text     []byte

	// BSSAddr and BSSSize describe memory to clear before running.
	BSSAddr uint32
	BSSSize uint32

	// StackBase and StackOffset give the initial stack pointer. A zero base
	// keeps the caller's stack.
	StackBase   uint32
	StackOffset uint32

	// Region is the licence marker string, if any.
	Region string
}

// StackPointer returns the initial SP.
func (e *EXE) StackPointer() uint32 {
	if e.StackBase == 0 {
		return DefaultStackPointer
	}
	return e.StackBase + e.StackOffset
}

// ParseEXE parses a PS-X EXE image.
func ParseEXE(data []byte) (*EXE, error) {
	if len(data) < EXEHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrTruncated, len(data))
	}
	if !bytes.Equal(data[:len(exeMagic)], []byte(exeMagic)) {
		return nil, ErrNotEXE
	}

	word := func(off int) uint32 { return binary.LittleEndian.Uint32(data[off:]) }

	exe := &EXE{
		PC:          word(exeOffPC),
		GP:          word(exeOffGP),
		TextAddr:    word(exeOffTextAddr),
		BSSAddr:     word(exeOffBSSAddr),
		BSSSize:     word(exeOffBSSSize),
		StackBase:   word(exeOffStack),
		StackOffset: word(exeOffStackOff),
	}

	region := data[exeOffRegion:EXEHeaderSize]
	if i := bytes.IndexByte(region, 0); i >= 0 {
		region = region[:i]
	}
	exe.Region = string(region)

	size := word(exeOffTextSize)
	if uint64(size) > uint64(len(data)-EXEHeaderSize) {
		return nil, fmt.Errorf("%w: text is %d bytes, file has %d",
			ErrTruncated, size, len(data)-EXEHeaderSize)
	}
	exe.Text = make([]byte, size)
	copy(exe.Text, data[EXEHeaderSize:])

	return exe, nil
}

// LoadEXE reads and parses a PS-X EXE file.
func LoadEXE(path string) (*EXE, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read EXE file: %w", err)
	}

	exe, err := ParseEXE(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return exe, nil
}

// Build encodes an executable as a PS-X EXE image. Text is padded to a
// multiple of 0x800 bytes.
func (e *EXE) Build() []byte {
	textSize := (len(e.Text) + EXEHeaderSize - 1) / EXEHeaderSize * EXEHeaderSize
	data := make([]byte, EXEHeaderSize+textSize)

	copy(data, exeMagic)
	put := func(off int, v uint32) { binary.LittleEndian.PutUint32(data[off:], v) }
	put(exeOffPC, e.PC)
	put(exeOffGP, e.GP)
	put(exeOffTextAddr, e.TextAddr)
	put(exeOffTextSize, uint32(textSize))
	put(exeOffBSSAddr, e.BSSAddr)
	put(exeOffBSSSize, e.BSSSize)
	put(exeOffStack, e.StackBase)
	put(exeOffStackOff, e.StackOffset)
	copy(data[exeOffRegion:EXEHeaderSize-1], e.Region)
	copy(data[EXEHeaderSize:], e.Text)

	return data
}
