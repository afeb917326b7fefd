package insts

// Primary opcodes, bits [31:26].
const (
	OpcodeSpecial = 0x00
	OpcodeBcondZ  = 0x01
	OpcodeJ       = 0x02
	OpcodeJAL     = 0x03
	OpcodeBEQ     = 0x04
	OpcodeBNE     = 0x05
	OpcodeBLEZ    = 0x06
	OpcodeBGTZ    = 0x07
	OpcodeADDI    = 0x08
	OpcodeADDIU   = 0x09
	OpcodeSLTI    = 0x0A
	OpcodeSLTIU   = 0x0B
	OpcodeANDI    = 0x0C
	OpcodeORI     = 0x0D
	OpcodeXORI    = 0x0E
	OpcodeLUI     = 0x0F
	OpcodeCOP0    = 0x10
	OpcodeCOP1    = 0x11
	OpcodeCOP2    = 0x12
	OpcodeCOP3    = 0x13
	OpcodeLB      = 0x20
	OpcodeLH      = 0x21
	OpcodeLWL     = 0x22
	OpcodeLW      = 0x23
	OpcodeLBU     = 0x24
	OpcodeLHU     = 0x25
	OpcodeLWR     = 0x26
	OpcodeSB      = 0x28
	OpcodeSH      = 0x29
	OpcodeSWL     = 0x2A
	OpcodeSW      = 0x2B
	OpcodeSWR     = 0x2E
	OpcodeLWC0    = 0x30
	OpcodeLWC3    = 0x33
	OpcodeSWC0    = 0x38
	OpcodeSWC3    = 0x3B
)

// SPECIAL function codes, bits [5:0].
const (
	FunctSLL     = 0x00
	FunctSRL     = 0x02
	FunctSRA     = 0x03
	FunctSLLV    = 0x04
	FunctSRLV    = 0x06
	FunctSRAV    = 0x07
	FunctJR      = 0x08
	FunctJALR    = 0x09
	FunctSYSCALL = 0x0C
	FunctBREAK   = 0x0D
	FunctMFHI    = 0x10
	FunctMTHI    = 0x11
	FunctMFLO    = 0x12
	FunctMTLO    = 0x13
	FunctMULT    = 0x18
	FunctMULTU   = 0x19
	FunctDIV     = 0x1A
	FunctDIVU    = 0x1B
	FunctADD     = 0x20
	FunctADDU    = 0x21
	FunctSUB     = 0x22
	FunctSUBU    = 0x23
	FunctAND     = 0x24
	FunctOR      = 0x25
	FunctXOR     = 0x26
	FunctNOR     = 0x27
	FunctSLT     = 0x2A
	FunctSLTU    = 0x2B
)

// Coprocessor sub-operations, selected by the rs field.
const (
	CopMF = 0x00
	CopMT = 0x04
	CopCO = 0x10 // with funct 0x10 on COP0: RFE

	FunctRFE = 0x10
)

// Op identifies a decoded operation.
type Op uint8

// R3000A operations.
const (
	OpUnknown Op = iota

	// Shifts
	OpSLL
	OpSRL
	OpSRA
	OpSLLV
	OpSRLV
	OpSRAV

	// Register jumps and traps
	OpJR
	OpJALR
	OpSYSCALL
	OpBREAK

	// HI/LO
	OpMFHI
	OpMTHI
	OpMFLO
	OpMTLO
	OpMULT
	OpMULTU
	OpDIV
	OpDIVU

	// Register ALU
	OpADD
	OpADDU
	OpSUB
	OpSUBU
	OpAND
	OpOR
	OpXOR
	OpNOR
	OpSLT
	OpSLTU

	// Branches and jumps
	OpBLTZ
	OpBGEZ
	OpBLTZAL
	OpBGEZAL
	OpJ
	OpJAL
	OpBEQ
	OpBNE
	OpBLEZ
	OpBGTZ

	// Immediate ALU
	OpADDI
	OpADDIU
	OpSLTI
	OpSLTIU
	OpANDI
	OpORI
	OpXORI
	OpLUI

	// Coprocessors
	OpMFC0
	OpMTC0
	OpRFE
	OpCOP // any COP1-COP3 operation, or an unrecognised COP0 one
	OpLWC
	OpSWC

	// Loads and stores
	OpLB
	OpLH
	OpLWL
	OpLW
	OpLBU
	OpLHU
	OpLWR
	OpSB
	OpSH
	OpSWL
	OpSW
	OpSWR

	// NumOps is the number of operations, for dense dispatch tables.
	NumOps
)

var opNames = [NumOps]string{
	OpUnknown: "???",
	OpSLL:     "sll", OpSRL: "srl", OpSRA: "sra",
	OpSLLV: "sllv", OpSRLV: "srlv", OpSRAV: "srav",
	OpJR: "jr", OpJALR: "jalr", OpSYSCALL: "syscall", OpBREAK: "break",
	OpMFHI: "mfhi", OpMTHI: "mthi", OpMFLO: "mflo", OpMTLO: "mtlo",
	OpMULT: "mult", OpMULTU: "multu", OpDIV: "div", OpDIVU: "divu",
	OpADD: "add", OpADDU: "addu", OpSUB: "sub", OpSUBU: "subu",
	OpAND: "and", OpOR: "or", OpXOR: "xor", OpNOR: "nor",
	OpSLT: "slt", OpSLTU: "sltu",
	OpBLTZ: "bltz", OpBGEZ: "bgez", OpBLTZAL: "bltzal", OpBGEZAL: "bgezal",
	OpJ: "j", OpJAL: "jal", OpBEQ: "beq", OpBNE: "bne",
	OpBLEZ: "blez", OpBGTZ: "bgtz",
	OpADDI: "addi", OpADDIU: "addiu", OpSLTI: "slti", OpSLTIU: "sltiu",
	OpANDI: "andi", OpORI: "ori", OpXORI: "xori", OpLUI: "lui",
	OpMFC0: "mfc0", OpMTC0: "mtc0", OpRFE: "rfe",
	OpCOP: "cop", OpLWC: "lwc", OpSWC: "swc",
	OpLB: "lb", OpLH: "lh", OpLWL: "lwl", OpLW: "lw",
	OpLBU: "lbu", OpLHU: "lhu", OpLWR: "lwr",
	OpSB: "sb", OpSH: "sh", OpSWL: "swl", OpSW: "sw", OpSWR: "swr",
}

func (op Op) String() string {
	if op < NumOps {
		return opNames[op]
	}
	return "invalid"
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR
	FormatI
	FormatJ
)
