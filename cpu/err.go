package cpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

// Kind classifies instruction core errors.
type Kind int

//go:generate go tool stringer -linecomment -type=Kind
const (
	KIND_NONE             = Kind(0)  // None
	KIND_UNKNOWN_MNEMONIC = Kind(1)  // UnknownMnemonic
	KIND_ARITY_MISMATCH   = Kind(2)  // ArityMismatch
	KIND_OPERAND_TYPE     = Kind(3)  // OperandTypeMismatch
	KIND_UNKNOWN_REGISTER = Kind(4)  // UnknownRegister
	KIND_IMMEDIATE_RANGE  = Kind(5)  // ImmediateOutOfRange
	KIND_UNDEFINED_LABEL  = Kind(6)  // UndefinedLabel
	KIND_LABEL_RANGE      = Kind(7)  // LabelOutOfRange
	KIND_PRIVILEGE        = Kind(8)  // PrivilegeViolation
	KIND_ILLEGAL_OPCODE   = Kind(9)  // IllegalOpcode
	KIND_TEMPLATE         = Kind(10) // InvalidTemplate
)

// KindOf returns the Kind of the first error in the chain that has one.
func KindOf(err error) Kind {
	var kinded interface{ Kind() Kind }
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}

	return KIND_NONE
}

var (
	// Template construction errors
	ErrTemplateWidth    = errors.New(f("field widths do not sum to 16"))
	ErrTemplateField    = errors.New(f("field width out of range"))
	ErrTemplateRegister = errors.New(f("register field is not 3 bits"))
	ErrTemplateFixed    = errors.New(f("fixed value exceeds field width"))
	ErrTemplateEmpty    = errors.New(f("catalog is empty"))
)

type ErrTemplate struct {
	Name  string
	Field int
	Err   error
}

func (err ErrTemplate) Error() string {
	return f("template %v field %d: %v", err.Name, err.Field, err.Err)
}

func (err ErrTemplate) Unwrap() error {
	return err.Err
}

func (err ErrTemplate) Kind() Kind {
	return KIND_TEMPLATE
}

type ErrMnemonic string

func (err ErrMnemonic) Error() string {
	return f("unknown mnemonic '%v'", string(err))
}

func (err ErrMnemonic) Kind() Kind {
	return KIND_UNKNOWN_MNEMONIC
}

type ErrArity struct {
	Mnemonic string
	Want     []int
	Got      int
}

func (err ErrArity) Error() string {
	want := make([]string, len(err.Want))
	for n, arity := range err.Want {
		want[n] = fmt.Sprint(arity)
	}
	return f("'%v' takes %v operands, got %d", err.Mnemonic, strings.Join(want, " or "), err.Got)
}

func (err ErrArity) Kind() Kind {
	return KIND_ARITY_MISMATCH
}

type ErrOperandType struct {
	Field OperandKind
	Text  string
}

func (err ErrOperandType) Error() string {
	return f("'%v' is not a valid %v operand", err.Text, err.Field.String())
}

func (err ErrOperandType) Kind() Kind {
	return KIND_OPERAND_TYPE
}

type ErrRegister string

func (err ErrRegister) Error() string {
	return f("unknown register '%v'", string(err))
}

func (err ErrRegister) Kind() Kind {
	return KIND_UNKNOWN_REGISTER
}

type ErrImmediateRange struct {
	Text string
	Min  int
	Max  int
}

func (err ErrImmediateRange) Error() string {
	return f("immediate %v out of range [%d, %d]", err.Text, err.Min, err.Max)
}

func (err ErrImmediateRange) Kind() Kind {
	return KIND_IMMEDIATE_RANGE
}

type ErrLabelUndefined string

func (err ErrLabelUndefined) Error() string {
	return f("label '%v' undefined", string(err))
}

func (err ErrLabelUndefined) Kind() Kind {
	return KIND_UNDEFINED_LABEL
}

type ErrLabelRange struct {
	Label  string
	Offset int
	Min    int
	Max    int
}

func (err ErrLabelRange) Error() string {
	return f("label '%v' offset %d out of range [%d, %d]", err.Label, err.Offset, err.Min, err.Max)
}

func (err ErrLabelRange) Kind() Kind {
	return KIND_LABEL_RANGE
}

// ErrOperand locates an operand error at its source token.
type ErrOperand struct {
	Token Token
	Err   error
}

func (err ErrOperand) Error() string {
	return f("column %d: %v", err.Token.Column, err.Err)
}

func (err ErrOperand) Unwrap() error {
	return err.Err
}

// ErrPrivilege is the word of an instruction that requires supervisor mode.
type ErrPrivilege uint16

func (err ErrPrivilege) Error() string {
	return f("privilege violation 0x%04x", uint16(err))
}

func (err ErrPrivilege) Is(target error) (ok bool) {
	_, ok = target.(ErrPrivilege)
	return
}

func (err ErrPrivilege) Kind() Kind {
	return KIND_PRIVILEGE
}

// ErrIllegalOpcode is a word that matches no instruction template.
type ErrIllegalOpcode uint16

func (err ErrIllegalOpcode) Error() string {
	return f("illegal opcode 0x%04x", uint16(err))
}

func (err ErrIllegalOpcode) Is(target error) (ok bool) {
	_, ok = target.(ErrIllegalOpcode)
	return
}

func (err ErrIllegalOpcode) Kind() Kind {
	return KIND_ILLEGAL_OPCODE
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
