// Package cpu implements the instruction set core of the LC-3 style
// 16-bit register machine.
//
// The machine has eight 16-bit general-purpose registers (R0-R7), a program
// counter, a processor status register holding the privilege bit and the
// N/Z/P condition flags, and a word addressed 64K memory.
//
// Every instruction variant is described once, as an ordered list of bit
// fields (see Operand and Instruction). The same description is used by
// the Catalog to assemble mnemonics and operand tokens into machine words,
// and to decode machine words back into executable instructions.
package cpu
