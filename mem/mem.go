// Package mem provides the PlayStation address space: segment translation,
// the physical address map, the memory-mapped device contract and the bus
// that routes CPU accesses to devices.
//
// Usage:
//
//	bus := mem.NewBus()
//	bus.Connect(mem.NewRange(mem.RAMAddr, mem.RAMSize), ram)
//	word, err := bus.Fetch32(0x80001000) // KSEG0 mirror of RAM
package mem
