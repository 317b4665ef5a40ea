package cpu

import (
	"fmt"
	"slices"
	"strings"
)

// Trap vectors of the standard service routines.
const (
	TRAP_GETC  = 0x20 // Read a character into R0.
	TRAP_OUT   = 0x21 // Write the character in R0.
	TRAP_PUTS  = 0x22 // Write the string at R0.
	TRAP_IN    = 0x23 // Prompt for, and echo, a character into R0.
	TRAP_PUTSP = 0x24 // Write the packed string at R0.
	TRAP_HALT  = 0x25 // Halt the machine.
)

// Prototypes returns the instruction templates of the default catalog,
// in decode precedence order.
//
// Specializations (ret, the trap service aliases) precede the general
// template they specialize, so decode reports the specific name.
func Prototypes() []Instruction {
	return []Instruction{
		// ADD  |0001    |DR   |SR1  |0|00 |SR2  |
		// ADD  |0001    |DR   |SR1  |1|imm5     |
		NewInstruction(OP_ADD, "add", Fixed(4, 0x1), Reg(3), Reg(3), Fixed(3, 0x0), Reg(3)),
		NewInstruction(OP_ADD, "add", Fixed(4, 0x1), Reg(3), Reg(3), Fixed(1, 0x1), Imm(5, true)),
		// AND  |0101    |DR   |SR1  |0|00 |SR2  |
		// AND  |0101    |DR   |SR1  |1|imm5     |
		NewInstruction(OP_AND, "and", Fixed(4, 0x5), Reg(3), Reg(3), Fixed(3, 0x0), Reg(3)),
		NewInstruction(OP_AND, "and", Fixed(4, 0x5), Reg(3), Reg(3), Fixed(1, 0x1), Imm(5, true)),
		// NOT  |1001    |DR   |SR   |111111     |
		NewInstruction(OP_NOT, "not", Fixed(4, 0x9), Reg(3), Reg(3), Fixed(6, 0x3f)),
		// BR   |0000    |N|Z|P|PCoffset9        |
		NewInstruction(OP_BR, "nop", Fixed(4, 0x0), Fixed(3, 0x0), Fixed(9, 0x0)),
		NewInstruction(OP_BR, "br", Fixed(4, 0x0), Fixed(3, 0x7), Label(9)),
		NewInstruction(OP_BR, "brn", Fixed(4, 0x0), Fixed(3, 0x4), Label(9)),
		NewInstruction(OP_BR, "brz", Fixed(4, 0x0), Fixed(3, 0x2), Label(9)),
		NewInstruction(OP_BR, "brp", Fixed(4, 0x0), Fixed(3, 0x1), Label(9)),
		NewInstruction(OP_BR, "brnz", Fixed(4, 0x0), Fixed(3, 0x6), Label(9)),
		NewInstruction(OP_BR, "brnp", Fixed(4, 0x0), Fixed(3, 0x5), Label(9)),
		NewInstruction(OP_BR, "brzp", Fixed(4, 0x0), Fixed(3, 0x3), Label(9)),
		NewInstruction(OP_BR, "brnzp", Fixed(4, 0x0), Fixed(3, 0x7), Label(9)),
		// A branch with no condition bits is never taken.
		NewInstruction(OP_BR, "nop", Fixed(4, 0x0), Fixed(3, 0x0), Label(9)),
		// RET  |1100    |000  |111  |000000     |
		// JMP  |1100    |000  |BaseR|000000     |
		NewInstruction(OP_JMP, "ret", Fixed(4, 0xc), Fixed(3, 0x0), Fixed(3, 0x7), Fixed(6, 0x0)),
		NewInstruction(OP_JMP, "jmp", Fixed(4, 0xc), Fixed(3, 0x0), Reg(3), Fixed(6, 0x0)),
		// JSR  |0100    |1|PCoffset11           |
		// JSRR |0100    |0|00 |BaseR|000000     |
		NewInstruction(OP_JSR, "jsr", Fixed(4, 0x4), Fixed(1, 0x1), Label(11)),
		NewInstruction(OP_JSR, "jsrr", Fixed(4, 0x4), Fixed(1, 0x0), Fixed(2, 0x0), Reg(3), Fixed(6, 0x0)),
		// LD   |0010    |DR   |PCoffset9        |
		NewInstruction(OP_LD, "ld", Fixed(4, 0x2), Reg(3), Label(9)),
		// LDI  |1010    |DR   |PCoffset9        |
		NewInstruction(OP_LDI, "ldi", Fixed(4, 0xa), Reg(3), Label(9)),
		// LDR  |0110    |DR   |BaseR|offset6    |
		NewInstruction(OP_LDR, "ldr", Fixed(4, 0x6), Reg(3), Reg(3), Imm(6, true)),
		// LEA  |1110    |DR   |PCoffset9        |
		NewInstruction(OP_LEA, "lea", Fixed(4, 0xe), Reg(3), Label(9)),
		// ST   |0011    |SR   |PCoffset9        |
		NewInstruction(OP_ST, "st", Fixed(4, 0x3), Reg(3), Label(9)),
		// STI  |1011    |SR   |PCoffset9        |
		NewInstruction(OP_STI, "sti", Fixed(4, 0xb), Reg(3), Label(9)),
		// STR  |0111    |SR   |BaseR|offset6    |
		NewInstruction(OP_STR, "str", Fixed(4, 0x7), Reg(3), Reg(3), Imm(6, true)),
		// RTI  |1000    |000000000000           |
		NewInstruction(OP_RTI, "rti", Fixed(4, 0x8), Fixed(12, 0x0)),
		// TRAP |1111    |0000   |trapvect8      |
		NewInstruction(OP_TRAP, "getc", Fixed(4, 0xf), Fixed(4, 0x0), Fixed(8, TRAP_GETC)),
		NewInstruction(OP_TRAP, "out", Fixed(4, 0xf), Fixed(4, 0x0), Fixed(8, TRAP_OUT)),
		NewInstruction(OP_TRAP, "puts", Fixed(4, 0xf), Fixed(4, 0x0), Fixed(8, TRAP_PUTS)),
		NewInstruction(OP_TRAP, "in", Fixed(4, 0xf), Fixed(4, 0x0), Fixed(8, TRAP_IN)),
		NewInstruction(OP_TRAP, "putsp", Fixed(4, 0xf), Fixed(4, 0x0), Fixed(8, TRAP_PUTSP)),
		NewInstruction(OP_TRAP, "halt", Fixed(4, 0xf), Fixed(4, 0x0), Fixed(8, TRAP_HALT)),
		NewInstruction(OP_TRAP, "trap", Fixed(4, 0xf), Fixed(4, 0x0), Imm(8, false)),
	}
}

// Default is the catalog of the standard instruction set.
var Default = MustCatalog(Prototypes()...)

// Catalog is an immutable set of instruction templates.
// It is safe for concurrent use.
type Catalog struct {
	Registers Registers // Register names to indexes.

	protos []Instruction
	byName map[string][]int
}

// NewCatalog creates a catalog from instruction templates, in decode
// precedence order. Each template is validated.
func NewCatalog(protos ...Instruction) (cat *Catalog, err error) {
	if len(protos) == 0 {
		err = ErrTemplateEmpty
		return
	}

	cat = &Catalog{
		Registers: make(Registers, 8),
		byName:    make(map[string][]int),
	}

	for n := range 8 {
		cat.Registers[fmt.Sprintf("R%d", n)] = uint16(n)
	}

	for n, proto := range protos {
		err = validate(&proto)
		if err != nil {
			cat = nil
			return
		}
		clone := proto.Clone()
		cat.protos = append(cat.protos, *clone)
		name := strings.ToLower(clone.Name)
		cat.byName[name] = append(cat.byName[name], n)
	}

	return
}

// MustCatalog creates a catalog, and panics if a template is invalid.
func MustCatalog(protos ...Instruction) *Catalog {
	cat, err := NewCatalog(protos...)
	if err != nil {
		panic(err)
	}
	return cat
}

// validate checks the layout of a template.
func validate(proto *Instruction) (err error) {
	for n, field := range proto.Fields {
		switch {
		case field.Width < 1 || field.Width > WORD_BITS:
			err = ErrTemplate{Name: proto.Name, Field: n, Err: ErrTemplateField}
		case field.Kind == OPERAND_REG && field.Width != 3:
			err = ErrTemplate{Name: proto.Name, Field: n, Err: ErrTemplateRegister}
		case field.Kind == OPERAND_FIXED && field.Value&^field.Mask() != 0:
			err = ErrTemplate{Name: proto.Name, Field: n, Err: ErrTemplateFixed}
		}
		if err != nil {
			return
		}
	}

	if proto.Width() != WORD_BITS {
		err = ErrTemplate{Name: proto.Name, Field: len(proto.Fields), Err: ErrTemplateWidth}
	}

	return
}

// Len returns the number of templates.
func (cat *Catalog) Len() int {
	return len(cat.protos)
}

// Prototype returns a clone of template n.
func (cat *Catalog) Prototype(n int) *Instruction {
	return cat.protos[n].Clone()
}

// Index returns the catalog position of the first template with the
// given mnemonic, or -1.
func (cat *Catalog) Index(name string) int {
	list := cat.byName[strings.ToLower(name)]
	if len(list) == 0 {
		return -1
	}
	return list[0]
}

// IsMnemonic returns true if the name is an instruction mnemonic.
func (cat *Catalog) IsMnemonic(name string) bool {
	_, ok := cat.byName[strings.ToLower(name)]
	return ok
}

// Mnemonics returns all instruction mnemonics, sorted.
func (cat *Catalog) Mnemonics() (names []string) {
	for name := range cat.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return
}
