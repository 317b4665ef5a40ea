package emulator

import (
	"errors"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Emulator errors
	ErrTickLimit = errors.New(f("tick limit reached"))
)

// ErrTrapUnhandled is a trap vector with no service routine.
type ErrTrapUnhandled uint16

func (err ErrTrapUnhandled) Error() string {
	return f("trap x%02X has no service routine", uint16(err))
}

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Pc     uint16
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (pc x%04X) %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
