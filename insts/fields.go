package insts

// Word is a raw instruction word. Field accessors use explicit shifts and
// masks so decoding does not depend on host bit-field layout.
type Word uint32

// Field positions and widths.
const (
	opcodeShift = 26
	rsShift     = 21
	rtShift     = 16
	rdShift     = 11
	shamtShift  = 6

	mask5  = 0x1F
	mask6  = 0x3F
	mask16 = 0xFFFF
	mask26 = 0x3FFFFFF
)

// Opcode returns bits [31:26].
func (w Word) Opcode() uint8 { return uint8(w>>opcodeShift) & mask6 }

// Rs returns bits [25:21].
func (w Word) Rs() uint8 { return uint8(w>>rsShift) & mask5 }

// Rt returns bits [20:16].
func (w Word) Rt() uint8 { return uint8(w>>rtShift) & mask5 }

// Rd returns bits [15:11].
func (w Word) Rd() uint8 { return uint8(w>>rdShift) & mask5 }

// Shamt returns bits [10:6].
func (w Word) Shamt() uint8 { return uint8(w>>shamtShift) & mask5 }

// Funct returns bits [5:0].
func (w Word) Funct() uint8 { return uint8(w) & mask6 }

// Imm16 returns bits [15:0].
func (w Word) Imm16() uint16 { return uint16(w & mask16) }

// Imm26 returns bits [25:0].
func (w Word) Imm26() uint32 { return uint32(w) & mask26 }

// SignExtend16 widens a 16-bit immediate to 32 bits preserving its sign.
func SignExtend16(imm uint16) uint32 {
	return uint32(int32(int16(imm)))
}
