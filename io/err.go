package io

import (
	"errors"

	"github.com/ezrec/lc3/translate"
)

var f = translate.From

var (
	// Device errors
	ErrInputEmpty = errors.New(f("console input exhausted"))
)
