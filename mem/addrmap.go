package mem

// Physical address map.
const (
	RAMAddr = 0x00000000
	RAMSize = 2 * 1024 * 1024

	Expansion1Addr = 0x1F000000
	Expansion1Size = 8 * 1024 * 1024

	ScratchpadAddr = 0x1F800000
	ScratchpadSize = 1024

	HardRegAddr = 0x1F801000
	HardRegSize = 8 * 1024

	Expansion2Addr = 0x1F802000

	BIOSAddr = 0x1FC00000
	BIOSSize = 512 * 1024

	// BIOSEntry is the reset vector, the KSEG1 view of BIOSAddr.
	BIOSEntry = 0xBFC00000

	// CacheControlAddr is the cache control register. It lives in KSEG2,
	// so the full logical address is also the physical one.
	CacheControlAddr = 0xFFFE0130
)

// Segment masks.
const (
	MaskKUSEG uint32 = 0xFFFFFFFF
	MaskKSEG0 uint32 = 0x7FFFFFFF
	MaskKSEG1 uint32 = 0x1FFFFFFF
	MaskKSEG2 uint32 = 0xFFFFFFFF
)

// Segment identifies one of the logical address windows.
type Segment uint8

// Segments, in address order.
const (
	KUSEG Segment = iota
	KSEG0
	KSEG1
	KSEG2
)

var segmentNames = [...]string{"KUSEG", "KSEG0", "KSEG1", "KSEG2"}

func (s Segment) String() string {
	if int(s) < len(segmentNames) {
		return segmentNames[s]
	}
	return "invalid"
}

// Indexed by the top three address bits.
var segmentMasks = [8]uint32{
	MaskKUSEG, MaskKUSEG, MaskKUSEG, MaskKUSEG,
	MaskKSEG0,
	MaskKSEG1,
	MaskKSEG2, MaskKSEG2,
}

var segments = [8]Segment{
	KUSEG, KUSEG, KUSEG, KUSEG,
	KSEG0,
	KSEG1,
	KSEG2, KSEG2,
}

// Mask translates a logical address into a physical one by stripping the
// segment bits. The same physical word is reachable through KUSEG, KSEG0
// and KSEG1.
func Mask(addr uint32) uint32 {
	return addr & segmentMasks[addr>>29]
}

// SegmentOf returns the logical window an address falls into.
func SegmentOf(addr uint32) Segment {
	return segments[addr>>29]
}

// Cached reports whether instruction fetches from addr go through the
// instruction cache. KSEG1 is the uncached window and KSEG2 holds only I/O.
func Cached(addr uint32) bool {
	s := SegmentOf(addr)
	return s == KUSEG || s == KSEG0
}
