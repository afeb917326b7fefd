package insts

// EncodeR builds an R-format (SPECIAL) instruction word.
func EncodeR(funct, rs, rt, rd, shamt uint8) uint32 {
	return uint32(rs&mask5)<<rsShift |
		uint32(rt&mask5)<<rtShift |
		uint32(rd&mask5)<<rdShift |
		uint32(shamt&mask5)<<shamtShift |
		uint32(funct&mask6)
}

// EncodeI builds an I-format instruction word.
func EncodeI(opcode, rs, rt uint8, imm uint16) uint32 {
	return uint32(opcode&mask6)<<opcodeShift |
		uint32(rs&mask5)<<rsShift |
		uint32(rt&mask5)<<rtShift |
		uint32(imm)
}

// EncodeJ builds a J-format instruction word. target is the byte address;
// only bits [27:2] are encoded.
func EncodeJ(opcode uint8, target uint32) uint32 {
	return uint32(opcode&mask6)<<opcodeShift | (target>>2)&mask26
}
