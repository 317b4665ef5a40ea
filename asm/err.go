package asm

import (
	"errors"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOrigMissing        = errors.New(f("code before .orig"))
	ErrOrigDuplicate      = errors.New(f(".orig duplicated"))
	ErrDirectiveArgs      = errors.New(f("directive argument count"))
	ErrDirectiveInvalid   = errors.New(f("directive invalid"))
	ErrBlockSize          = errors.New(f(".blkw size invalid"))
	ErrStringSyntax       = errors.New(f(".stringz requires a quoted string"))
	ErrStringEscape       = errors.New(f("invalid string escape"))
	ErrStringUnterminated = errors.New(f("unterminated string"))
	ErrAddressOverflow    = errors.New(f("program exceeds address space"))
	ErrLabelInvalid       = errors.New(f("label invalid"))

	// Object file errors
	ErrObjectEmpty     = errors.New(f("object file empty"))
	ErrObjectTruncated = errors.New(f("object file truncated"))
)

type ErrLabelDuplicate string

func (err ErrLabelDuplicate) Error() string {
	return f("label '%v' duplicated", string(err))
}

type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("can't parse '%v' as a character", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("can't parse '%v' as an integer expression", string(err))
}

// ErrSyntax locates an assembly error at its source line.
type ErrSyntax struct {
	Filename string
	LineNo   int
	Line     string
	Err      error
}

func (err ErrSyntax) Error() string {
	return f("%v:%d: '%v' %v", err.Filename, err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}
