package io

import (
	"fmt"
	"iter"
	"maps"
)

// Control provides the machine control register.
// Clearing the clock enable bit stops the machine.
type Control struct {
	value uint16
}

var _ Device = (*Control)(nil)

// MCR_CLOCK is the clock enable bit of the machine control register.
const MCR_CLOCK = uint16(1 << 15)

// Ports returns the machine control register address.
func (mc *Control) Ports() []uint16 {
	return []uint16{PORT_MCR}
}

// Defines returns an iter of defines for the control register.
func (mc *Control) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MCR": fmt.Sprintf("x%04X", PORT_MCR),
	})
}

// Rewind starts the clock.
func (mc *Control) Rewind() {
	mc.value = MCR_CLOCK
}

// Running returns true while the clock is enabled.
func (mc *Control) Running() bool {
	return mc.value&MCR_CLOCK != 0
}

// Halt stops the clock.
func (mc *Control) Halt() {
	mc.value &^= MCR_CLOCK
}

// Load reads the control register.
func (mc *Control) Load(port uint16) uint16 {
	return mc.value
}

// Store writes the control register.
func (mc *Control) Store(port uint16, value uint16) {
	mc.value = value
}
