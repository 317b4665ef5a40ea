package cpu

import (
	"strconv"
	"strings"
)

// ParseNumber parses a numeric literal.
//
// Accepted forms are decimal (#10, 10, #-10, -10), hexadecimal
// (x1F, 0x1F, -x1F) and binary (b101, 0b101).
func ParseNumber(text string) (value int, err error) {
	word := strings.TrimPrefix(text, "#")

	negative := false
	switch {
	case strings.HasPrefix(word, "-"):
		negative = true
		word = word[1:]
	case strings.HasPrefix(word, "+"):
		word = word[1:]
	}

	base := 10
	lower := strings.ToLower(word)
	switch {
	case strings.HasPrefix(lower, "0x"):
		base = 16
		word = word[2:]
	case strings.HasPrefix(lower, "x"):
		base = 16
		word = word[1:]
	case strings.HasPrefix(lower, "0b"):
		base = 2
		word = word[2:]
	case strings.HasPrefix(lower, "b"):
		base = 2
		word = word[1:]
	}

	if len(word) == 0 || word[0] == '-' || word[0] == '+' {
		err = ErrParseNumber(text)
		return
	}

	v64, err := strconv.ParseInt(word, base, 32)
	if err != nil {
		err = ErrParseNumber(text)
		return
	}

	if negative {
		v64 = -v64
	}

	value = int(v64)
	return
}
