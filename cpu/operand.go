package cpu

import (
	"strings"
)

// OperandKind is the kind of an instruction bit field.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_FIXED = OperandKind(0) // fixed
	OPERAND_REG   = OperandKind(1) // reg
	OPERAND_IMM   = OperandKind(2) // imm
	OPERAND_LABEL = OperandKind(3) // label
)

// Operand is one bit field of an instruction word.
type Operand struct {
	Kind   OperandKind // Kind of field.
	Width  uint        // Width of the field, in bits.
	Value  uint16      // Raw field bits.
	Signed bool        // If set, an immediate is sign extended.
}

// Fixed creates a constant field.
func Fixed(width uint, value uint16) Operand {
	return Operand{Kind: OPERAND_FIXED, Width: width, Value: value}
}

// Reg creates a register index field.
func Reg(width uint) Operand {
	return Operand{Kind: OPERAND_REG, Width: width}
}

// Imm creates an immediate value field.
func Imm(width uint, signed bool) Operand {
	return Operand{Kind: OPERAND_IMM, Width: width, Signed: signed}
}

// Label creates a PC-relative offset field.
func Label(width uint) Operand {
	return Operand{Kind: OPERAND_LABEL, Width: width, Signed: true}
}

// Mask returns the mask of the field bits, right justified.
func (op Operand) Mask() uint16 {
	return uint16((uint32(1) << op.Width) - 1)
}

// Range returns the legal range of the field's value.
func (op Operand) Range() (min, max int) {
	switch op.Kind {
	case OPERAND_FIXED:
		min = int(op.Value)
		max = int(op.Value)
	case OPERAND_REG:
		max = int(op.Mask())
	case OPERAND_IMM, OPERAND_LABEL:
		if !op.Signed {
			max = int(op.Mask())
			break
		}
		half := 1 << (op.Width - 1)
		min = -half
		max = half - 1
	}

	return
}

// Int returns the value of the field, sign extended if signed.
func (op Operand) Int() int {
	if op.Signed {
		return SignExtend(op.Value, op.Width)
	}

	return int(op.Value & op.Mask())
}

// Set stores a value into the field, truncated to the field width.
// Fixed fields are never modified.
func (op *Operand) Set(value int) {
	if op.Kind == OPERAND_FIXED {
		return
	}
	op.Value = uint16(value) & op.Mask()
}

// SignExtend sign extends the low 'width' bits of value.
func SignExtend(value uint16, width uint) int {
	shift := 16 - width
	return int(int16(value<<shift) >> shift)
}

// Encode converts operand text into the field's bits.
// The operand itself is not modified.
func (op Operand) Encode(token Token, regs Registers, env Env) (bits uint16, err error) {
	text := token.Text
	reg, is_reg := regs.Lookup(text)

	switch op.Kind {
	case OPERAND_FIXED:
		bits = op.Value
		return
	case OPERAND_REG:
		if is_reg {
			bits = reg & op.Mask()
			return
		}
		_, nerr := ParseNumber(text)
		if nerr == nil || strings.HasPrefix(text, "\"") {
			err = ErrOperandType{Field: op.Kind, Text: text}
			return
		}
		err = ErrRegister(text)
		return
	case OPERAND_IMM:
		if is_reg {
			err = ErrOperandType{Field: op.Kind, Text: text}
			return
		}
		var value int
		value, err = ParseNumber(text)
		if err != nil {
			err = ErrOperandType{Field: op.Kind, Text: text}
			return
		}
		bits, err = op.fit(text, value)
		return
	case OPERAND_LABEL:
		if is_reg {
			err = ErrOperandType{Field: op.Kind, Text: text}
			return
		}
		target, is_label := env.Labels[text]
		if !is_label {
			value, nerr := ParseNumber(text)
			if nerr == nil {
				// Explicit PC relative offset.
				bits, err = op.fit(text, value)
				return
			}
			if strings.HasPrefix(text, "\"") {
				err = ErrOperandType{Field: op.Kind, Text: text}
				return
			}
			err = ErrLabelUndefined(text)
			return
		}
		offset := int(target) - (int(env.Address) + 1)
		min, max := op.Range()
		if offset < min || offset > max {
			err = ErrLabelRange{Label: text, Offset: offset, Min: min, Max: max}
			return
		}
		bits = uint16(offset) & op.Mask()
		return
	}

	panic("unknown operand kind")
}

// fit range checks a literal value for the field.
func (op Operand) fit(text string, value int) (bits uint16, err error) {
	min, max := op.Range()
	if value < min || value > max {
		err = ErrImmediateRange{Text: text, Min: min, Max: max}
		return
	}

	bits = uint16(value) & op.Mask()
	return
}

// Decode loads the field from its right justified bits.
// A fixed field matches only if the bits equal its constant.
func (op *Operand) Decode(bits uint16) (ok bool) {
	bits &= op.Mask()

	switch op.Kind {
	case OPERAND_FIXED:
		return bits == op.Value
	case OPERAND_REG, OPERAND_IMM, OPERAND_LABEL:
		op.Value = bits
		return true
	}

	panic("unknown operand kind")
}

// Registers maps register names to register indexes.
type Registers map[string]uint16

// Lookup finds a register by name, ignoring case.
func (regs Registers) Lookup(name string) (index uint16, ok bool) {
	index, ok = regs[strings.ToUpper(name)]
	return
}
