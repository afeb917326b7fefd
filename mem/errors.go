package mem

import (
	"errors"
	"fmt"
)

// Host-side bus faults. They point at a mapping or alignment bug in the
// emulator itself, never at a guest program error.
var (
	ErrUnmapped         = errors.New("unmapped address")
	ErrUnaligned        = errors.New("unaligned access")
	ErrUnsupportedWidth = errors.New("unsupported access width")
)

// AccessError describes a failed bus access.
type AccessError struct {
	Op     string // "fetch" or "store"
	Addr   uint32 // logical address as issued
	Width  Width
	Device string // empty when no binding matched
	Err    error
}

func (e *AccessError) Error() string {
	if e.Device != "" {
		return fmt.Sprintf("%s%d at 0x%08X (%s): %v", e.Op, e.Width, e.Addr, e.Device, e.Err)
	}
	return fmt.Sprintf("%s%d at 0x%08X: %v", e.Op, e.Width, e.Addr, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *AccessError) Unwrap() error {
	return e.Err
}
