package mem

// Binding pairs an address range with the device that serves it.
type Binding struct {
	Range  Range
	Device Device
}

// Bus routes accesses to devices. Bindings are scanned in registration
// order and the first one containing the physical address wins, so a
// binding for a sub-range must be connected before the window it overrides.
//
// The bus holds no ownership of its devices and is read-only once the
// console is wired.
type Bus struct {
	bindings []Binding
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Connect appends a binding. Overlaps are allowed and not validated.
func (b *Bus) Connect(rng Range, dev Device) {
	b.bindings = append(b.bindings, Binding{Range: rng, Device: dev})
}

// Bindings returns the bindings in lookup order.
func (b *Bus) Bindings() []Binding {
	out := make([]Binding, len(b.bindings))
	copy(out, b.bindings)
	return out
}

// Resolve returns the binding that would serve a logical address and the
// device-relative offset.
func (b *Bus) Resolve(addr uint32) (Binding, uint32, bool) {
	phys := Mask(addr)
	for _, bnd := range b.bindings {
		if bnd.Range.Contains(phys) {
			return bnd, bnd.Range.Offset(phys), true
		}
	}
	return Binding{}, 0, false
}

func (b *Bus) route(op string, addr uint32, w Width) (Device, uint32, error) {
	if (w == Width32 && addr&3 != 0) || (w == Width16 && addr&1 != 0) {
		return nil, 0, &AccessError{Op: op, Addr: addr, Width: w, Err: ErrUnaligned}
	}

	bnd, offset, ok := b.Resolve(addr)
	if !ok {
		return nil, 0, &AccessError{Op: op, Addr: addr, Width: w, Err: ErrUnmapped}
	}
	return bnd.Device, offset, nil
}

func unsupported(op string, addr uint32, w Width, dev Device) error {
	return &AccessError{Op: op, Addr: addr, Width: w, Device: dev.Name(), Err: ErrUnsupportedWidth}
}

// Fetch8 reads a byte.
func (b *Bus) Fetch8(addr uint32) (uint8, error) {
	dev, offset, err := b.route("fetch", addr, Width8)
	if err != nil {
		return 0, err
	}
	f, ok := dev.(Fetcher8)
	if !ok {
		return 0, unsupported("fetch", addr, Width8, dev)
	}
	return f.Fetch8(offset), nil
}

// Fetch16 reads a halfword. addr must be 2-byte aligned.
func (b *Bus) Fetch16(addr uint32) (uint16, error) {
	dev, offset, err := b.route("fetch", addr, Width16)
	if err != nil {
		return 0, err
	}
	f, ok := dev.(Fetcher16)
	if !ok {
		return 0, unsupported("fetch", addr, Width16, dev)
	}
	return f.Fetch16(offset), nil
}

// Fetch32 reads a word. addr must be 4-byte aligned.
func (b *Bus) Fetch32(addr uint32) (uint32, error) {
	dev, offset, err := b.route("fetch", addr, Width32)
	if err != nil {
		return 0, err
	}
	f, ok := dev.(Fetcher32)
	if !ok {
		return 0, unsupported("fetch", addr, Width32, dev)
	}
	return f.Fetch32(offset), nil
}

// Store8 writes a byte.
func (b *Bus) Store8(addr uint32, value uint8) error {
	dev, offset, err := b.route("store", addr, Width8)
	if err != nil {
		return err
	}
	s, ok := dev.(Storer8)
	if !ok {
		return unsupported("store", addr, Width8, dev)
	}
	s.Store8(offset, value)
	return nil
}

// Store16 writes a halfword. addr must be 2-byte aligned.
func (b *Bus) Store16(addr uint32, value uint16) error {
	dev, offset, err := b.route("store", addr, Width16)
	if err != nil {
		return err
	}
	s, ok := dev.(Storer16)
	if !ok {
		return unsupported("store", addr, Width16, dev)
	}
	s.Store16(offset, value)
	return nil
}

// Store32 writes a word. addr must be 4-byte aligned.
func (b *Bus) Store32(addr uint32, value uint32) error {
	dev, offset, err := b.route("store", addr, Width32)
	if err != nil {
		return err
	}
	s, ok := dev.(Storer32)
	if !ok {
		return unsupported("store", addr, Width32, dev)
	}
	s.Store32(offset, value)
	return nil
}
