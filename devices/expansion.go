package devices

// Expansion1 is the parallel port expansion window. Nothing is plugged in,
// so the open bus reads back as 0xFF.
type Expansion1 struct{}

// NewExpansion1 creates an empty expansion port.
func NewExpansion1() *Expansion1 { return &Expansion1{} }

// Name returns "expansion1".
func (e *Expansion1) Name() string { return "expansion1" }

// Fetch8 reads the open bus.
func (e *Expansion1) Fetch8(uint32) uint8 { return 0xFF }
