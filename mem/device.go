package mem

// Width is the size of a bus access in bits.
type Width uint8

// Access widths.
const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
)

// Device is anything the bus can route to. A device offers any subset of
// the width-specific capabilities below; the bus probes for them on each
// access and reports ErrUnsupportedWidth when one is missing. Offsets passed
// to a device are relative to the start of its binding.
type Device interface {
	// Name identifies the device in diagnostics.
	Name() string
}

// Fetcher8 reads a byte.
type Fetcher8 interface {
	Fetch8(offset uint32) uint8
}

// Fetcher16 reads a halfword.
type Fetcher16 interface {
	Fetch16(offset uint32) uint16
}

// Fetcher32 reads a word.
type Fetcher32 interface {
	Fetch32(offset uint32) uint32
}

// Storer8 writes a byte.
type Storer8 interface {
	Store8(offset uint32, value uint8)
}

// Storer16 writes a halfword.
type Storer16 interface {
	Store16(offset uint32, value uint16)
}

// Storer32 writes a word.
type Storer32 interface {
	Store32(offset uint32, value uint32)
}
