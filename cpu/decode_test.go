package cpu

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word uint16
		name string
		text string
	}){
		{0x1283, "add", "add R1, R2, R3"},
		{0x12bd, "add", "add R1, R2, #-3"},
		{0x92bf, "not", "not R1, R2"},
		{0x0000, "nop", "nop"},
		{0x0005, "nop", "nop #5"},
		{0x01ff, "nop", "nop #-1"},
		{0x0e04, "br", "br #4"},
		{0x05fd, "brz", "brz #-3"},
		{0xc1c0, "ret", "ret"},
		{0xc080, "jmp", "jmp R2"},
		{0x48ff, "jsr", "jsr #255"},
		{0x40c0, "jsrr", "jsrr R3"},
		{0x62bf, "ldr", "ldr R1, R2, #-1"},
		{0x8000, "rti", "rti"},
		{0xf025, "halt", "halt"},
		{0xf0ff, "trap", "trap xFF"},
	}

	for _, entry := range table {
		inst, err := Default.Decode(entry.word)
		assert.NoError(err, entry.name)
		if err != nil {
			continue
		}
		assert.Equal(entry.name, inst.Name)
		assert.Equal(entry.word, inst.Word(), entry.name)
		assert.Equal(entry.text, inst.String())
	}
}

func TestDecodeIllegal(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []uint16{0xd000, 0xdfff, 0x9000, 0x8001, 0x1208, 0xc001, 0xf100} {
		inst, err := Default.Decode(word)
		assert.Nil(inst)
		assert.ErrorIs(err, ErrIllegalOpcode(0))
		assert.Equal(KIND_ILLEGAL_OPCODE, KindOf(err))
		assert.Equal(ErrIllegalOpcode(word), err)
	}
}

func TestDecodeOrder(t *testing.T) {
	assert := assert.New(t)

	ret := NewInstruction(OP_JMP, "ret", Fixed(4, 0xc), Fixed(3, 0x0), Fixed(3, 0x7), Fixed(6, 0x0))
	jmp := NewInstruction(OP_JMP, "jmp", Fixed(4, 0xc), Fixed(3, 0x0), Reg(3), Fixed(6, 0x0))

	first := MustCatalog(ret, jmp)
	second := MustCatalog(jmp, ret)

	a, err := first.Decode(0xc1c0)
	assert.NoError(err)
	assert.Equal("ret", a.Name)

	b, err := second.Decode(0xc1c0)
	assert.NoError(err)
	assert.Equal("jmp", b.Name)

	sa := newTestState()
	sa.reg[7] = 0x1234
	sb := sa.clone()

	assert.NoError(a.Execute(sa))
	assert.NoError(b.Execute(sb))
	assert.Equal(sa, sb)
	assert.Equal(uint16(0x1234), sa.pc)
}

func TestDecodeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	rng := rand.New(rand.NewSource(1))

	for n := range Default.Len() {
		for range 16 {
			inst := Default.Prototype(n)
			for _, arg := range inst.Args() {
				arg.Set(rng.Int())
			}
			word := inst.Word()

			decoded, err := Default.Decode(word)
			assert.NoError(err, inst.Name)
			if err != nil {
				continue
			}
			assert.Equal(word, decoded.Word(), inst.Name)
			assert.Equal(inst.Op, decoded.Op, inst.Name)
			if decoded.Name != inst.Name {
				// A specialization earlier in the catalog
				assert.Less(Default.Index(decoded.Name), n, "%v as %v", inst.Name, decoded.Name)
			}

			// Disassembly reassembles to the same word.
			words := strings.FieldsFunc(decoded.String(), func(r rune) bool { return r == ' ' || r == ',' })
			var operands []Token
			for _, text := range words[1:] {
				operands = append(operands, Token{Text: text})
			}
			again, err := Default.Assemble(Token{Text: words[0]}, operands, Env{})
			assert.NoError(err, decoded.String())
			assert.Equal(word, again, decoded.String())
		}
	}
}
