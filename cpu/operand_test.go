package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperandRange(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		op   Operand
		min  int
		max  int
	}){
		{"fixed", Fixed(3, 5), 5, 5},
		{"reg", Reg(3), 0, 7},
		{"imm5", Imm(5, true), -16, 15},
		{"uimm8", Imm(8, false), 0, 255},
		{"label9", Label(9), -256, 255},
		{"label11", Label(11), -1024, 1023},
		{"imm16", Imm(16, true), -32768, 32767},
	}

	for _, entry := range table {
		min, max := entry.op.Range()
		assert.Equal(entry.min, min, entry.name)
		assert.Equal(entry.max, max, entry.name)
	}
}

func TestSignExtend(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(-1, SignExtend(0x1f, 5))
	assert.Equal(15, SignExtend(0x0f, 5))
	assert.Equal(-16, SignExtend(0x10, 5))
	assert.Equal(-256, SignExtend(0x100, 9))
	assert.Equal(-1, SignExtend(0xffff, 16))
	assert.Equal(0x7fff, SignExtend(0x7fff, 16))
}

func TestOperandEncode(t *testing.T) {
	assert := assert.New(t)

	env := Env{
		Address: 0x3000,
		Labels:  map[string]uint16{"LOOP": 0x3005, "BACK": 0x2ffe, "FAR": 0x4000},
	}

	table := [](struct {
		name string
		op   Operand
		text string
		bits uint16
		kind Kind
	}){
		{"fixed ignores token", Fixed(4, 0xc), "R1", 0xc, KIND_NONE},
		{"reg", Reg(3), "R5", 5, KIND_NONE},
		{"reg lower case", Reg(3), "r7", 7, KIND_NONE},
		{"reg unknown", Reg(3), "R8", 0, KIND_UNKNOWN_REGISTER},
		{"reg not a name", Reg(3), "LOOP", 0, KIND_UNKNOWN_REGISTER},
		{"reg given number", Reg(3), "#1", 0, KIND_OPERAND_TYPE},
		{"imm", Imm(5, true), "#15", 15, KIND_NONE},
		{"imm negative", Imm(5, true), "#-16", 0x10, KIND_NONE},
		{"imm too small", Imm(5, true), "#-17", 0, KIND_IMMEDIATE_RANGE},
		{"imm too large", Imm(5, true), "#16", 0, KIND_IMMEDIATE_RANGE},
		{"imm hex", Imm(8, false), "x25", 0x25, KIND_NONE},
		{"uimm negative", Imm(8, false), "#-1", 0, KIND_IMMEDIATE_RANGE},
		{"imm given register", Imm(5, true), "R1", 0, KIND_OPERAND_TYPE},
		{"imm given word", Imm(5, true), "LOOP", 0, KIND_OPERAND_TYPE},
		{"label forward", Label(9), "LOOP", 0x4, KIND_NONE},
		{"label backward", Label(9), "BACK", 0x1fd, KIND_NONE},
		{"label too far", Label(9), "FAR", 0, KIND_LABEL_RANGE},
		{"label far enough", Label(11), "LOOP", 0x4, KIND_NONE},
		{"label undefined", Label(9), "NOWHERE", 0, KIND_UNDEFINED_LABEL},
		{"label given register", Label(9), "R2", 0, KIND_OPERAND_TYPE},
		{"label explicit offset", Label(9), "#-2", 0x1fe, KIND_NONE},
		{"label explicit offset range", Label(9), "#256", 0, KIND_IMMEDIATE_RANGE},
	}

	for _, entry := range table {
		before := entry.op
		bits, err := entry.op.Encode(Token{Text: entry.text}, Default.Registers, env)
		assert.Equal(entry.kind, KindOf(err), entry.name)
		if entry.kind == KIND_NONE {
			assert.NoError(err, entry.name)
			assert.Equal(entry.bits, bits, entry.name)
		}
		assert.Equal(before, entry.op, entry.name)
	}
}

func TestOperandEncodeRangeMessage(t *testing.T) {
	assert := assert.New(t)

	_, err := Imm(5, true).Encode(Token{Text: "#-17"}, Default.Registers, Env{})

	var rerr ErrImmediateRange
	assert.ErrorAs(err, &rerr)
	assert.Equal(-16, rerr.Min)
	assert.Equal(15, rerr.Max)
	assert.Equal("#-17", rerr.Text)
}

func TestOperandDecode(t *testing.T) {
	assert := assert.New(t)

	fixed := Fixed(3, 0x5)
	assert.True(fixed.Decode(0x5))
	assert.True(fixed.Decode(0xfd)) // upper bits are not part of the field
	assert.False(fixed.Decode(0x4))
	assert.Equal(uint16(0x5), fixed.Value)

	imm := Imm(5, true)
	assert.True(imm.Decode(0xfff0))
	assert.Equal(uint16(0x10), imm.Value)
	assert.Equal(-16, imm.Int())

	label := Label(9)
	assert.True(label.Decode(0x1ff))
	assert.Equal(-1, label.Int())

	trap := Imm(8, false)
	assert.True(trap.Decode(0xff))
	assert.Equal(255, trap.Int())
}

func TestOperandSet(t *testing.T) {
	assert := assert.New(t)

	imm := Imm(5, true)
	imm.Set(-1)
	assert.Equal(uint16(0x1f), imm.Value)

	fixed := Fixed(4, 0x9)
	fixed.Set(3)
	assert.Equal(uint16(0x9), fixed.Value)
}

func TestParseNumber(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text  string
		value int
		ok    bool
	}){
		{"#10", 10, true},
		{"10", 10, true},
		{"#-10", -10, true},
		{"-10", -10, true},
		{"x1F", 31, true},
		{"X1f", 31, true},
		{"0x3000", 0x3000, true},
		{"-x10", -16, true},
		{"#x10", 16, true},
		{"b101", 5, true},
		{"0b101", 5, true},
		{"", 0, false},
		{"#", 0, false},
		{"x", 0, false},
		{"LOOP", 0, false},
		{"xyz", 0, false},
		{"--1", 0, false},
		{"12ab", 0, false},
	}

	for _, entry := range table {
		value, err := ParseNumber(entry.text)
		if entry.ok {
			assert.NoError(err, entry.text)
			assert.Equal(entry.value, value, entry.text)
		} else {
			assert.ErrorIs(err, ErrParseNumber(entry.text), entry.text)
		}
	}
}
