package cpu

import (
	"fmt"
	"slices"
	"strings"
)

// Op is the architectural operation, which is also the 4-bit opcode.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_BR   = Op(0x0) // br
	OP_ADD  = Op(0x1) // add
	OP_LD   = Op(0x2) // ld
	OP_ST   = Op(0x3) // st
	OP_JSR  = Op(0x4) // jsr
	OP_AND  = Op(0x5) // and
	OP_LDR  = Op(0x6) // ldr
	OP_STR  = Op(0x7) // str
	OP_RTI  = Op(0x8) // rti
	OP_NOT  = Op(0x9) // not
	OP_LDI  = Op(0xa) // ldi
	OP_STI  = Op(0xb) // sti
	OP_JMP  = Op(0xc) // jmp
	OP_RES  = Op(0xd) // res
	OP_LEA  = Op(0xe) // lea
	OP_TRAP = Op(0xf) // trap
)

// WORD_BITS is the width of every instruction word.
const WORD_BITS = 16

// Instruction is an instruction template, or an instance cloned from one.
type Instruction struct {
	Op     Op        // Operation executed.
	Name   string    // Assembler mnemonic.
	Fields []Operand // Bit fields, most significant first.
}

// NewInstruction creates an instruction template.
func NewInstruction(op Op, name string, fields ...Operand) Instruction {
	return Instruction{Op: op, Name: name, Fields: fields}
}

// Clone returns an independent copy of the instruction.
func (inst *Instruction) Clone() *Instruction {
	return &Instruction{
		Op:     inst.Op,
		Name:   inst.Name,
		Fields: slices.Clone(inst.Fields),
	}
}

// Arity is the number of operand tokens the instruction takes.
func (inst *Instruction) Arity() (arity int) {
	for _, field := range inst.Fields {
		if field.Kind != OPERAND_FIXED {
			arity++
		}
	}
	return
}

// Width is the total width of all fields, in bits.
func (inst *Instruction) Width() (width uint) {
	for _, field := range inst.Fields {
		width += field.Width
	}
	return
}

// Shift returns the bit position of the least significant bit of field n.
func (inst *Instruction) Shift(n int) uint {
	used := uint(0)
	for _, field := range inst.Fields[:n+1] {
		used += field.Width
	}
	return WORD_BITS - used
}

// Args returns the variable (non-fixed) fields, in declaration order.
func (inst *Instruction) Args() (args []*Operand) {
	for n := range inst.Fields {
		if inst.Fields[n].Kind != OPERAND_FIXED {
			args = append(args, &inst.Fields[n])
		}
	}
	return
}

// SetArgs sets the variable fields, in declaration order.
func (inst *Instruction) SetArgs(values ...int) {
	for n, arg := range inst.Args() {
		if n >= len(values) {
			break
		}
		arg.Set(values[n])
	}
}

// Word packs the fields into an instruction word.
func (inst *Instruction) Word() (word uint16) {
	for n, field := range inst.Fields {
		word |= (field.Value & field.Mask()) << inst.Shift(n)
	}
	return
}

// Match returns true if all fixed fields equal the bits of the word.
func (inst *Instruction) Match(word uint16) bool {
	for n, field := range inst.Fields {
		if field.Kind != OPERAND_FIXED {
			continue
		}
		if !field.Decode(word >> inst.Shift(n)) {
			return false
		}
	}
	return true
}

// extract loads all variable fields from the word.
func (inst *Instruction) extract(word uint16) {
	for n := range inst.Fields {
		field := &inst.Fields[n]
		if field.Kind != OPERAND_FIXED {
			field.Decode(word >> inst.Shift(n))
		}
	}
}

// String returns the assembly language form of the instruction.
// Label fields are shown as their PC-relative offset.
func (inst *Instruction) String() string {
	var args []string
	for _, arg := range inst.Args() {
		switch arg.Kind {
		case OPERAND_REG:
			args = append(args, fmt.Sprintf("R%d", arg.Value))
		case OPERAND_IMM, OPERAND_LABEL:
			if arg.Signed {
				args = append(args, fmt.Sprintf("#%d", arg.Int()))
			} else {
				args = append(args, fmt.Sprintf("x%X", arg.Value))
			}
		}
	}

	if len(args) == 0 {
		return inst.Name
	}

	return inst.Name + " " + strings.Join(args, ", ")
}
