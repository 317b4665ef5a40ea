package cpu

import (
	"slices"
	"strings"
)

// Token is a word of assembler source text, with its position.
type Token struct {
	Text   string
	Line   int // Line number, starting at 1.
	Column int // Column number, starting at 1.
}

// Env is the assembly context of a single instruction.
type Env struct {
	Address uint16            // Address of the instruction being encoded.
	Labels  map[string]uint16 // Resolved label addresses.
}

// specificity ranks encode failures. When every candidate template of a
// mnemonic fails, the most specific failure is reported. A type mismatch
// names the wrong variant, so it outranks a range failure.
func specificity(err error) int {
	switch KindOf(err) {
	case KIND_IMMEDIATE_RANGE, KIND_LABEL_RANGE:
		return 1
	case KIND_UNKNOWN_REGISTER, KIND_UNDEFINED_LABEL:
		return 2
	case KIND_OPERAND_TYPE:
		return 3
	}
	return 0
}

// Encode selects the template for a mnemonic and its operand tokens, and
// returns an instance holding the encoded operand values.
//
// Candidates sharing the mnemonic are tried in catalog order; the first
// that encodes every operand is selected.
func (cat *Catalog) Encode(mnemonic Token, operands []Token, env Env) (inst *Instruction, err error) {
	name := strings.ToLower(mnemonic.Text)
	candidates, ok := cat.byName[name]
	if !ok {
		err = ErrMnemonic(mnemonic.Text)
		return
	}

	var arities []int
	var failure error
	tried := false
	for _, index := range candidates {
		proto := &cat.protos[index]
		arity := proto.Arity()
		if arity != len(operands) {
			if !slices.Contains(arities, arity) {
				arities = append(arities, arity)
			}
			continue
		}

		tried = true
		var cerr error
		inst, cerr = cat.encodeWith(proto, operands, env)
		if cerr == nil {
			return
		}
		if failure == nil || specificity(cerr) > specificity(failure) {
			failure = cerr
		}
	}

	inst = nil
	if !tried {
		slices.Sort(arities)
		err = ErrArity{Mnemonic: name, Want: arities, Got: len(operands)}
		return
	}

	err = failure
	return
}

// encodeWith encodes the operands into a clone of a template.
func (cat *Catalog) encodeWith(proto *Instruction, operands []Token, env Env) (inst *Instruction, err error) {
	inst = proto.Clone()

	for n, arg := range inst.Args() {
		var bits uint16
		bits, err = arg.Encode(operands[n], cat.Registers, env)
		if err != nil {
			err = ErrOperand{Token: operands[n], Err: err}
			inst = nil
			return
		}
		arg.Value = bits
	}

	return
}

// Assemble encodes a single instruction into its machine word.
func (cat *Catalog) Assemble(mnemonic Token, operands []Token, env Env) (word uint16, err error) {
	inst, err := cat.Encode(mnemonic, operands, env)
	if err != nil {
		return
	}

	word = inst.Word()
	return
}
