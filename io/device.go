// Package io provides the memory mapped devices of the LC-3 machine.
// It includes the console keyboard and display (Console), and the machine
// control register (Control).
package io

import (
	"iter"
)

// Device defines the interface for all memory mapped devices.
// A device owns one or more ports in the device register space, and is
// accessed a word at a time.
type Device interface {
	// Ports returns the addresses of the device registers.
	Ports() []uint16
	// Defines returns the assembler names of the device registers.
	Defines() iter.Seq2[string, string]
	// Rewind resets the device to its initial state.
	Rewind()
	// Load reads a device register.
	Load(port uint16) uint16
	// Store writes a device register.
	Store(port uint16, value uint16)
}

// Device register addresses.
const (
	PORT_KBSR = uint16(0xfe00) // Keyboard status.
	PORT_KBDR = uint16(0xfe02) // Keyboard data.
	PORT_DSR  = uint16(0xfe04) // Display status.
	PORT_DDR  = uint16(0xfe06) // Display data.
	PORT_MCR  = uint16(0xfffe) // Machine control.
)

// STATUS_READY is the ready bit of a status register.
const STATUS_READY = uint16(1 << 15)

// STATUS_IE is the interrupt enable bit of a status register.
const STATUS_IE = uint16(1 << 14)
