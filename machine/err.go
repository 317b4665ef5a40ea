package machine

import (
	"errors"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrLoadOverflow = errors.New(f("image exceeds memory"))
)

// ErrPortConflict is a device register address already in use.
type ErrPortConflict uint16

func (err ErrPortConflict) Error() string {
	return f("device port 0x%04x already attached", uint16(err))
}

// ErrPortRange is a device register address outside of device space.
type ErrPortRange uint16

func (err ErrPortRange) Error() string {
	return f("device port 0x%04x outside of device space", uint16(err))
}
