package mem

import "fmt"

// Range is a half-open span of physical addresses [Start, Start+Size).
type Range struct {
	Start uint32
	Size  uint32
}

// NewRange creates a Range.
func NewRange(start, size uint32) Range {
	return Range{Start: start, Size: size}
}

// Offset returns addr relative to the start of the range. It does not check
// containment; an address below Start wraps to a large value.
func (r Range) Offset(addr uint32) uint32 {
	return addr - r.Start
}

// Contains reports whether addr lies inside the range.
func (r Range) Contains(addr uint32) bool {
	return r.Offset(addr) < r.Size
}

func (r Range) String() string {
	return fmt.Sprintf("[0x%08X, 0x%08X)", r.Start, uint64(r.Start)+uint64(r.Size))
}
