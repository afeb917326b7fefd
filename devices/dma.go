package devices

import (
	"encoding/binary"
	"fmt"

	"github.com/sarchlab/psxcore/diag"
)

// DMAChannels is the number of DMA channels.
const DMAChannels = 7

// DMA register offsets. Channel n's registers start at n*0x10.
const (
	DMAChannelBase    = 0x0 // MADR
	DMAChannelBlock   = 0x4 // BCR
	DMAChannelControl = 0x8 // CHCR
	DMAControl        = 0x70
	DMAInterrupt      = 0x74
)

// DMAControlReset is the power-on channel priority word.
const DMAControlReset uint32 = 0x07654321

// Channel control bits.
const (
	DMAChannelStart   uint32 = 1 << 24
	DMAChannelTrigger uint32 = 1 << 28
)

// Interrupt register fields.
const (
	dmaIRQForce        uint32 = 1 << 15
	dmaIRQEnableShift         = 16
	dmaIRQMasterEnable uint32 = 1 << 23
	dmaIRQFlagShift           = 24
	dmaIRQFlagMask     uint32 = 0x7F << dmaIRQFlagShift
	dmaIRQMasterFlag   uint32 = 1 << 31
)

// DMAChannel holds the registers of one channel.
type DMAChannel struct {
	Base    uint32
	Block   uint32
	Control uint32
}

// DMA is the DMA controller's register block. Transfers are not performed:
// a channel that is started is logged and immediately reports completion.
type DMA struct {
	channels  [DMAChannels]DMAChannel
	control   uint32
	interrupt uint32
	sink      diag.Sink
}

// NewDMA creates a DMA controller in its power-on state.
func NewDMA(sink diag.Sink) *DMA {
	d := &DMA{sink: diag.OrNop(sink)}
	d.Reset()
	return d
}

// Name returns "dma".
func (d *DMA) Name() string { return "dma" }

// Reset clears every channel and restores the default priorities.
func (d *DMA) Reset() {
	d.channels = [DMAChannels]DMAChannel{}
	d.control = DMAControlReset
	d.interrupt = 0
}

// Channel returns a copy of channel n's registers.
func (d *DMA) Channel(n int) DMAChannel {
	return d.channels[n]
}

// Control returns the channel priority/enable register.
func (d *DMA) Control() uint32 { return d.control }

// Interrupt returns the interrupt register as the CPU reads it.
func (d *DMA) Interrupt() uint32 {
	v := d.interrupt &^ dmaIRQMasterFlag
	if d.masterFlag() {
		v |= dmaIRQMasterFlag
	}
	return v
}

// masterFlag is set when the IRQ is forced, or when the master enable is
// on and an enabled channel has its flag raised.
func (d *DMA) masterFlag() bool {
	if d.interrupt&dmaIRQForce != 0 {
		return true
	}
	if d.interrupt&dmaIRQMasterEnable == 0 {
		return false
	}
	enable := d.interrupt >> dmaIRQEnableShift & 0x7F
	flags := d.interrupt >> dmaIRQFlagShift & 0x7F
	return enable&flags != 0
}

// RaiseFlag sets the interrupt flag of channel n, as a completed transfer
// would.
func (d *DMA) RaiseFlag(n int) {
	d.interrupt |= 1 << (dmaIRQFlagShift + uint(n))
}

// Fetch32 reads a DMA register.
func (d *DMA) Fetch32(offset uint32) uint32 {
	switch offset {
	case DMAControl:
		return d.control
	case DMAInterrupt:
		return d.Interrupt()
	}

	ch, reg, ok := d.channelReg(offset)
	if !ok {
		warnf(d.sink, diag.ChannelDMA, "fetch from unknown DMA register +0x%X", offset)
		return 0
	}

	switch reg {
	case DMAChannelBase:
		return d.channels[ch].Base
	case DMAChannelBlock:
		return d.channels[ch].Block
	default:
		return d.channels[ch].Control
	}
}

// Store32 writes a DMA register. Interrupt flags are cleared by writing 1
// to them.
func (d *DMA) Store32(offset uint32, value uint32) {
	d.store(offset, value, 0xFFFFFFFF)
}

// Fetch16 reads half of a DMA register.
func (d *DMA) Fetch16(offset uint32) uint16 {
	word, shift, _ := lane(offset, 0xFFFF)
	return uint16(d.Fetch32(word) >> shift)
}

// Fetch8 reads one byte of a DMA register.
func (d *DMA) Fetch8(offset uint32) uint8 {
	word, shift, _ := lane(offset, 0xFF)
	return uint8(d.Fetch32(word) >> shift)
}

// Store16 writes half of a DMA register. The other half keeps its value.
func (d *DMA) Store16(offset uint32, value uint16) {
	word, shift, mask := lane(offset, 0xFFFF)
	d.store(word, uint32(value)<<shift, mask)
}

// Store8 writes one byte of a DMA register.
func (d *DMA) Store8(offset uint32, value uint8) {
	word, shift, mask := lane(offset, 0xFF)
	d.store(word, uint32(value)<<shift, mask)
}

// store writes the bits of value selected by mask. Only flags inside the
// mask can be acknowledged.
func (d *DMA) store(offset, value, mask uint32) {
	switch offset {
	case DMAControl:
		d.control = merge(d.control, value, mask)
		return
	case DMAInterrupt:
		ack := value & mask & dmaIRQFlagMask
		flags := d.interrupt & dmaIRQFlagMask &^ ack
		rest := merge(d.interrupt, value, mask) &^ (dmaIRQFlagMask | dmaIRQMasterFlag)
		d.interrupt = rest | flags
		return
	}

	ch, reg, ok := d.channelReg(offset)
	if !ok {
		warnf(d.sink, diag.ChannelDMA, "store to unknown DMA register +0x%X", offset)
		return
	}

	switch reg {
	case DMAChannelBase:
		d.channels[ch].Base = merge(d.channels[ch].Base, value, mask) & 0x00FFFFFF
	case DMAChannelBlock:
		d.channels[ch].Block = merge(d.channels[ch].Block, value, mask)
	default:
		v := merge(d.channels[ch].Control, value, mask)
		if v&(DMAChannelStart|DMAChannelTrigger) != 0 {
			warnf(d.sink, diag.ChannelDMA,
				"channel %d transfer requested (CHCR 0x%08X), transfers are not emulated", ch, v)
			v &^= DMAChannelStart | DMAChannelTrigger
		}
		d.channels[ch].Control = v
	}
}

func (d *DMA) channelReg(offset uint32) (int, uint32, bool) {
	ch := int(offset >> 4)
	reg := offset & 0xF
	if ch >= DMAChannels || reg > DMAChannelControl || reg%4 != 0 {
		return 0, 0, false
	}
	return ch, reg, true
}

const dmaStateWords = DMAChannels*3 + 2

// MarshalBinary encodes every register as little-endian words.
func (d *DMA) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, dmaStateWords*4)
	for _, ch := range d.channels {
		buf = binary.LittleEndian.AppendUint32(buf, ch.Base)
		buf = binary.LittleEndian.AppendUint32(buf, ch.Block)
		buf = binary.LittleEndian.AppendUint32(buf, ch.Control)
	}
	buf = binary.LittleEndian.AppendUint32(buf, d.control)
	buf = binary.LittleEndian.AppendUint32(buf, d.interrupt)
	return buf, nil
}

// UnmarshalBinary restores the registers.
func (d *DMA) UnmarshalBinary(p []byte) error {
	if len(p) != dmaStateWords*4 {
		return fmt.Errorf("dma: image is %d bytes, want %d", len(p), dmaStateWords*4)
	}

	word := func(i int) uint32 { return binary.LittleEndian.Uint32(p[i*4:]) }
	for i := range d.channels {
		d.channels[i] = DMAChannel{
			Base:    word(i * 3),
			Block:   word(i*3 + 1),
			Control: word(i*3 + 2),
		}
	}
	d.control = word(DMAChannels * 3)
	d.interrupt = word(DMAChannels*3 + 1)
	return nil
}
