package insts

import "fmt"

// RegNames holds the conventional o32 names of the general purpose registers.
var RegNames = [32]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
}

var defaultDecoder = NewDecoder()

func reg(r uint8) string {
	return "$" + RegNames[r&mask5]
}

// Disassemble renders word as assembly. pc is the address of the
// instruction and is used to resolve branch and jump targets.
func Disassemble(word, pc uint32) string {
	inst := defaultDecoder.Decode(word)
	name := inst.Op.String()

	switch inst.Op {
	case OpUnknown:
		return fmt.Sprintf(".word 0x%08X", word)
	case OpSLL, OpSRL, OpSRA:
		if word == 0 {
			return "nop"
		}
		return fmt.Sprintf("%s %s, %s, %d", name, reg(inst.Rd), reg(inst.Rt), inst.Shamt)
	case OpSLLV, OpSRLV, OpSRAV:
		return fmt.Sprintf("%s %s, %s, %s", name, reg(inst.Rd), reg(inst.Rt), reg(inst.Rs))
	case OpJR, OpMTHI, OpMTLO:
		return fmt.Sprintf("%s %s", name, reg(inst.Rs))
	case OpJALR:
		return fmt.Sprintf("%s %s, %s", name, reg(inst.Rd), reg(inst.Rs))
	case OpSYSCALL, OpBREAK:
		return fmt.Sprintf("%s 0x%X", name, (word>>6)&0xFFFFF)
	case OpMFHI, OpMFLO:
		return fmt.Sprintf("%s %s", name, reg(inst.Rd))
	case OpMULT, OpMULTU, OpDIV, OpDIVU:
		return fmt.Sprintf("%s %s, %s", name, reg(inst.Rs), reg(inst.Rt))
	case OpADD, OpADDU, OpSUB, OpSUBU, OpAND, OpOR, OpXOR, OpNOR, OpSLT, OpSLTU:
		return fmt.Sprintf("%s %s, %s, %s", name, reg(inst.Rd), reg(inst.Rs), reg(inst.Rt))
	case OpBLTZ, OpBGEZ, OpBLTZAL, OpBGEZAL, OpBLEZ, OpBGTZ:
		return fmt.Sprintf("%s %s, 0x%08X", name, reg(inst.Rs), branchTarget(pc, inst.Imm))
	case OpBEQ, OpBNE:
		return fmt.Sprintf("%s %s, %s, 0x%08X", name, reg(inst.Rs), reg(inst.Rt), branchTarget(pc, inst.Imm))
	case OpJ, OpJAL:
		return fmt.Sprintf("%s 0x%08X", name, ((pc+4)&0xF0000000)|inst.Target<<2)
	case OpADDI, OpADDIU, OpSLTI, OpSLTIU:
		return fmt.Sprintf("%s %s, %s, %d", name, reg(inst.Rt), reg(inst.Rs), int16(inst.Imm))
	case OpANDI, OpORI, OpXORI:
		return fmt.Sprintf("%s %s, %s, 0x%X", name, reg(inst.Rt), reg(inst.Rs), inst.Imm)
	case OpLUI:
		return fmt.Sprintf("%s %s, 0x%X", name, reg(inst.Rt), inst.Imm)
	case OpMFC0, OpMTC0:
		return fmt.Sprintf("%s %s, $%d", name, reg(inst.Rt), inst.Rd)
	case OpRFE:
		return name
	case OpCOP:
		return fmt.Sprintf("cop%d 0x%07X", inst.Cop(), word&0x1FFFFFF)
	case OpLWC, OpSWC:
		return fmt.Sprintf("%s%d $%d, %d(%s)", name, inst.Cop(), inst.Rt, int16(inst.Imm), reg(inst.Rs))
	default:
		// loads and stores
		return fmt.Sprintf("%s %s, %d(%s)", name, reg(inst.Rt), int16(inst.Imm), reg(inst.Rs))
	}
}

func branchTarget(pc uint32, imm uint16) uint32 {
	return pc + 4 + SignExtend16(imm)<<2
}
