package io

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
)

// Console provides the keyboard and display registers over byte streams.
// It wraps an io.Reader for keyboard input and io.Writer for display
// output.
type Console struct {
	Input  io.Reader
	Output io.Writer

	hasInput  bool
	lastInput byte
	status    uint16 // Keyboard status bits written by the program.
	err       error
}

var _ Device = (*Console)(nil)

// Ports returns the keyboard and display register addresses.
func (con *Console) Ports() []uint16 {
	return []uint16{PORT_KBSR, PORT_KBDR, PORT_DSR, PORT_DDR}
}

// Defines returns an iter of defines for the console.
func (con *Console) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"KBSR": fmt.Sprintf("x%04X", PORT_KBSR),
		"KBDR": fmt.Sprintf("x%04X", PORT_KBDR),
		"DSR":  fmt.Sprintf("x%04X", PORT_DSR),
		"DDR":  fmt.Sprintf("x%04X", PORT_DDR),
	})
}

// Rewind discards any pending keyboard input.
func (con *Console) Rewind() {
	con.hasInput = false
	con.status = 0
	con.err = nil
}

// Err returns the first error seen on the input or output streams.
func (con *Console) Err() error {
	return con.err
}

// poll fetches the next keyboard byte, if there is none pending.
func (con *Console) poll() {
	if con.hasInput || con.err != nil || con.Input == nil {
		return
	}

	var one [1]byte
	_, err := io.ReadFull(con.Input, one[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrInputEmpty
		}
		con.err = err
		return
	}

	con.lastInput = one[0]
	con.hasInput = true
}

// Load reads a console register.
// Reading the keyboard data register consumes the pending byte.
func (con *Console) Load(port uint16) (value uint16) {
	switch port {
	case PORT_KBSR:
		con.poll()
		value = con.status & STATUS_IE
		if con.hasInput {
			value |= STATUS_READY
		}
	case PORT_KBDR:
		con.poll()
		if con.hasInput {
			value = uint16(con.lastInput)
			con.hasInput = false
		}
	case PORT_DSR:
		value = STATUS_READY
	}

	return
}

// Store writes a console register.
// Writing the display data register outputs the low byte.
func (con *Console) Store(port uint16, value uint16) {
	switch port {
	case PORT_KBSR:
		con.status = value & STATUS_IE
	case PORT_DDR:
		err := con.WriteByte(byte(value))
		if err != nil && con.err == nil {
			con.err = err
		}
	}
}

// ReadByte reads the next keyboard byte, waiting for it if needed.
func (con *Console) ReadByte() (b byte, err error) {
	con.poll()
	if !con.hasInput {
		err = con.err
		if err == nil {
			err = ErrInputEmpty
		}
		return
	}

	b = con.lastInput
	con.hasInput = false
	return
}

// WriteByte writes a byte to the display.
func (con *Console) WriteByte(b byte) (err error) {
	if con.Output == nil {
		return
	}

	_, err = con.Output.Write([]byte{b})
	return
}
