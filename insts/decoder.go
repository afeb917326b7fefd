package insts

// Instruction represents a decoded R3000A instruction.
type Instruction struct {
	Word   Word   // Raw instruction word
	Op     Op     // Operation
	Format Format // Encoding format

	Rs    uint8  // First source register
	Rt    uint8  // Second source / load destination register
	Rd    uint8  // Destination register (R-format)
	Shamt uint8  // Shift amount (R-format)
	Imm   uint16 // Raw 16-bit immediate (I-format)

	// Target is the 26-bit jump index (J-format).
	Target uint32
}

// SImm returns the immediate sign-extended to 32 bits.
func (i *Instruction) SImm() uint32 {
	return SignExtend16(i.Imm)
}

// ZImm returns the immediate zero-extended to 32 bits.
func (i *Instruction) ZImm() uint32 {
	return uint32(i.Imm)
}

// Cop returns the coprocessor number for COPz, LWCz and SWCz operations.
func (i *Instruction) Cop() uint8 {
	return i.Word.Opcode() & 3
}

// Decoder decodes R3000A machine code into instructions. Both dispatch
// levels are dense 64-entry tables indexed directly by the field value.
type Decoder struct {
	primary [64]Op
	special [64]Op
}

// NewDecoder creates a new R3000A instruction decoder.
func NewDecoder() *Decoder {
	d := &Decoder{}

	d.primary[OpcodeJ] = OpJ
	d.primary[OpcodeJAL] = OpJAL
	d.primary[OpcodeBEQ] = OpBEQ
	d.primary[OpcodeBNE] = OpBNE
	d.primary[OpcodeBLEZ] = OpBLEZ
	d.primary[OpcodeBGTZ] = OpBGTZ
	d.primary[OpcodeADDI] = OpADDI
	d.primary[OpcodeADDIU] = OpADDIU
	d.primary[OpcodeSLTI] = OpSLTI
	d.primary[OpcodeSLTIU] = OpSLTIU
	d.primary[OpcodeANDI] = OpANDI
	d.primary[OpcodeORI] = OpORI
	d.primary[OpcodeXORI] = OpXORI
	d.primary[OpcodeLUI] = OpLUI
	d.primary[OpcodeCOP1] = OpCOP
	d.primary[OpcodeCOP2] = OpCOP
	d.primary[OpcodeCOP3] = OpCOP
	d.primary[OpcodeLB] = OpLB
	d.primary[OpcodeLH] = OpLH
	d.primary[OpcodeLWL] = OpLWL
	d.primary[OpcodeLW] = OpLW
	d.primary[OpcodeLBU] = OpLBU
	d.primary[OpcodeLHU] = OpLHU
	d.primary[OpcodeLWR] = OpLWR
	d.primary[OpcodeSB] = OpSB
	d.primary[OpcodeSH] = OpSH
	d.primary[OpcodeSWL] = OpSWL
	d.primary[OpcodeSW] = OpSW
	d.primary[OpcodeSWR] = OpSWR
	for op := OpcodeLWC0; op <= OpcodeLWC3; op++ {
		d.primary[op] = OpLWC
	}
	for op := OpcodeSWC0; op <= OpcodeSWC3; op++ {
		d.primary[op] = OpSWC
	}

	d.special[FunctSLL] = OpSLL
	d.special[FunctSRL] = OpSRL
	d.special[FunctSRA] = OpSRA
	d.special[FunctSLLV] = OpSLLV
	d.special[FunctSRLV] = OpSRLV
	d.special[FunctSRAV] = OpSRAV
	d.special[FunctJR] = OpJR
	d.special[FunctJALR] = OpJALR
	d.special[FunctSYSCALL] = OpSYSCALL
	d.special[FunctBREAK] = OpBREAK
	d.special[FunctMFHI] = OpMFHI
	d.special[FunctMTHI] = OpMTHI
	d.special[FunctMFLO] = OpMFLO
	d.special[FunctMTLO] = OpMTLO
	d.special[FunctMULT] = OpMULT
	d.special[FunctMULTU] = OpMULTU
	d.special[FunctDIV] = OpDIV
	d.special[FunctDIVU] = OpDIVU
	d.special[FunctADD] = OpADD
	d.special[FunctADDU] = OpADDU
	d.special[FunctSUB] = OpSUB
	d.special[FunctSUBU] = OpSUBU
	d.special[FunctAND] = OpAND
	d.special[FunctOR] = OpOR
	d.special[FunctXOR] = OpXOR
	d.special[FunctNOR] = OpNOR
	d.special[FunctSLT] = OpSLT
	d.special[FunctSLTU] = OpSLTU

	return d
}

// Decode decodes a 32-bit instruction word. Unassigned encodings decode to
// OpUnknown, which the CPU reports as a reserved-instruction exception.
func (d *Decoder) Decode(word uint32) Instruction {
	w := Word(word)
	inst := Instruction{
		Word:   w,
		Rs:     w.Rs(),
		Rt:     w.Rt(),
		Rd:     w.Rd(),
		Shamt:  w.Shamt(),
		Imm:    w.Imm16(),
		Target: w.Imm26(),
	}

	switch opcode := w.Opcode(); opcode {
	case OpcodeSpecial:
		inst.Op = d.special[w.Funct()]
		inst.Format = FormatR
	case OpcodeBcondZ:
		inst.Op = decodeBcondZ(inst.Rt)
		inst.Format = FormatI
	case OpcodeCOP0:
		inst.Op = decodeCop0(w)
		inst.Format = FormatR
	case OpcodeJ, OpcodeJAL:
		inst.Op = d.primary[opcode]
		inst.Format = FormatJ
	default:
		inst.Op = d.primary[opcode]
		inst.Format = FormatI
	}

	if inst.Op == OpUnknown {
		inst.Format = FormatUnknown
	}

	return inst
}

// decodeBcondZ decodes the BLTZ/BGEZ family. Bit 16 selects GEZ over LTZ
// and the link variants require rt[4:1] == 0b1000; every other rt value
// still decodes as a plain branch, as on the R3000A.
func decodeBcondZ(rt uint8) Op {
	gez := rt&1 != 0
	link := rt&0x1E == 0x10

	switch {
	case gez && link:
		return OpBGEZAL
	case gez:
		return OpBGEZ
	case link:
		return OpBLTZAL
	default:
		return OpBLTZ
	}
}

func decodeCop0(w Word) Op {
	switch w.Rs() {
	case CopMF:
		return OpMFC0
	case CopMT:
		return OpMTC0
	case CopCO:
		if w.Funct() == FunctRFE {
			return OpRFE
		}
	}
	return OpCOP
}
