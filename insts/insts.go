// Package insts provides MIPS R3000A instruction definitions and decoding.
//
// This package turns 32-bit instruction words into structured instruction
// representations. Three layouts are selected by the top six bits:
//   - R-format: opcode(6) rs(5) rt(5) rd(5) shamt(5) funct(6), opcode 0
//   - I-format: opcode(6) rs(5) rt(5) imm16(16)
//   - J-format: opcode(6) imm26(26)
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst := decoder.Decode(0x24090005) // ADDIU $t1, $zero, 5
//	fmt.Printf("Op: %v, Rt: %d, Imm: %d\n", inst.Op, inst.Rt, inst.Imm)
package insts
