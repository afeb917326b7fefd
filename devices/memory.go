package devices

import (
	"encoding/binary"
	"fmt"
)

// memoryBlock is a little-endian byte array answering every access width.
type memoryBlock struct {
	name string
	data []byte
}

func newMemoryBlock(name string, size int) memoryBlock {
	return memoryBlock{name: name, data: make([]byte, size)}
}

// Name returns the device name.
func (m *memoryBlock) Name() string { return m.name }

// Size returns the capacity in bytes.
func (m *memoryBlock) Size() int { return len(m.data) }

// Bytes exposes the backing array.
func (m *memoryBlock) Bytes() []byte { return m.data }

// Fetch8 reads a byte.
func (m *memoryBlock) Fetch8(offset uint32) uint8 {
	return m.data[offset]
}

// Fetch16 reads a little-endian halfword.
func (m *memoryBlock) Fetch16(offset uint32) uint16 {
	return binary.LittleEndian.Uint16(m.data[offset:])
}

// Fetch32 reads a little-endian word.
func (m *memoryBlock) Fetch32(offset uint32) uint32 {
	return binary.LittleEndian.Uint32(m.data[offset:])
}

// Store8 writes a byte.
func (m *memoryBlock) Store8(offset uint32, value uint8) {
	m.data[offset] = value
}

// Store16 writes a little-endian halfword.
func (m *memoryBlock) Store16(offset uint32, value uint16) {
	binary.LittleEndian.PutUint16(m.data[offset:], value)
}

// Store32 writes a little-endian word.
func (m *memoryBlock) Store32(offset uint32, value uint32) {
	binary.LittleEndian.PutUint32(m.data[offset:], value)
}

// Reset clears the contents.
func (m *memoryBlock) Reset() {
	clear(m.data)
}

// Load copies p into memory starting at offset.
func (m *memoryBlock) Load(offset uint32, p []byte) error {
	if uint64(offset)+uint64(len(p)) > uint64(len(m.data)) {
		return fmt.Errorf("%s: %d bytes at 0x%X do not fit in %d bytes",
			m.name, len(p), offset, len(m.data))
	}
	copy(m.data[offset:], p)
	return nil
}

// MarshalBinary returns a copy of the contents.
func (m *memoryBlock) MarshalBinary() ([]byte, error) {
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// UnmarshalBinary replaces the contents. p must be exactly Size bytes.
func (m *memoryBlock) UnmarshalBinary(p []byte) error {
	if len(p) != len(m.data) {
		return fmt.Errorf("%s: image is %d bytes, want %d", m.name, len(p), len(m.data))
	}
	copy(m.data, p)
	return nil
}

// RAM is the 2 MiB main memory.
type RAM struct {
	memoryBlock
}

// NewRAM creates zeroed main memory.
func NewRAM() *RAM {
	return &RAM{memoryBlock: newMemoryBlock("ram", RAMSize)}
}

// Scratchpad is the 1 KiB data cache used as fast RAM.
type Scratchpad struct {
	memoryBlock
}

// NewScratchpad creates a zeroed scratchpad.
func NewScratchpad() *Scratchpad {
	return &Scratchpad{memoryBlock: newMemoryBlock("scratchpad", ScratchpadSize)}
}
