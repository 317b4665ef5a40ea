// Package machine implements the architectural state of the LC-3 machine:
// registers, the processor status register, memory and memory mapped
// devices.
package machine

import (
	"fmt"
	goio "io"
	"iter"
	"maps"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ezrec/lc3/asm"
	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/internal"
	"github.com/ezrec/lc3/io"
)

// Memory map.
const (
	TRAP_TABLE       = 0x0000 // Trap vector table.
	INTERRUPT_TABLE  = 0x0100 // Interrupt and exception vector table.
	SUPERVISOR_SPACE = 0x0200 // Operating system code and data.
	USER_SPACE       = 0x3000 // User programs.
	DEVICE_SPACE     = 0xfe00 // Device registers.
	MEMORY_SIZE      = 0x10000
)

// Exception vectors.
const (
	VECTOR_PRIVILEGE = 0x00 // Privilege mode violation.
	VECTOR_ILLEGAL   = 0x01 // Illegal opcode.
)

// Machine is the register, memory and device state of an LC-3.
type Machine struct {
	Register [8]uint16
	Pc       uint16
	Psr      uint16
	SavedSSP uint16 // Supervisor stack pointer, while in user mode.
	SavedUSP uint16 // User stack pointer, while in supervisor mode.
	Memory   []uint16

	devices  map[uint16]io.Device
	attached []io.Device
}

var _ cpu.State = (*Machine)(nil)

// NewMachine creates a machine with cleared memory, and no devices.
func NewMachine() (m *Machine) {
	m = &Machine{
		Memory:  make([]uint16, MEMORY_SIZE),
		devices: make(map[uint16]io.Device),
	}
	m.Reset()

	return
}

// Reset resets the registers and all devices. Memory is not modified.
func (m *Machine) Reset() {
	clear(m.Register[:])
	m.Pc = USER_SPACE
	m.Psr = cpu.PSR_USER | cpu.FLAG_Z
	m.SavedSSP = USER_SPACE
	m.SavedUSP = DEVICE_SPACE
	m.Register[cpu.REG_STACK] = DEVICE_SPACE

	for _, dev := range m.attached {
		dev.Rewind()
	}
}

// Clear zeroes all of memory.
func (m *Machine) Clear() {
	clear(m.Memory)
}

// Attach maps a device into the device register space.
func (m *Machine) Attach(dev io.Device) (err error) {
	for _, port := range dev.Ports() {
		if port < DEVICE_SPACE {
			err = ErrPortRange(port)
			return
		}
		_, ok := m.devices[port]
		if ok {
			err = ErrPortConflict(port)
			return
		}
	}

	for _, port := range dev.Ports() {
		m.devices[port] = dev
	}
	m.attached = append(m.attached, dev)
	dev.Rewind()

	return
}

// Devices returns the attached devices, in order of attachment.
func (m *Machine) Devices() []io.Device {
	return m.attached
}

// Defines returns an iter of the memory map and device register names.
func (m *Machine) Defines() iter.Seq2[string, string] {
	seqs := []iter.Seq2[string, string]{
		maps.All(map[string]string{
			"TRAP_TABLE":       fmt.Sprintf("x%04X", TRAP_TABLE),
			"INTERRUPT_TABLE":  fmt.Sprintf("x%04X", INTERRUPT_TABLE),
			"SUPERVISOR_SPACE": fmt.Sprintf("x%04X", SUPERVISOR_SPACE),
			"USER_SPACE":       fmt.Sprintf("x%04X", USER_SPACE),
			"DEVICE_SPACE":     fmt.Sprintf("x%04X", DEVICE_SPACE),
		}),
	}
	for _, dev := range m.attached {
		seqs = append(seqs, dev.Defines())
	}

	return internal.IterSeq2Concat(seqs...)
}

// Reg returns general purpose register n.
func (m *Machine) Reg(n uint16) uint16 {
	return m.Register[n&7]
}

// SetReg sets general purpose register n.
func (m *Machine) SetReg(n uint16, value uint16) {
	m.Register[n&7] = value
}

// PC returns the program counter.
func (m *Machine) PC() uint16 {
	return m.Pc
}

// SetPC sets the program counter.
func (m *Machine) SetPC(pc uint16) {
	m.Pc = pc
}

// PSR returns the processor status register.
func (m *Machine) PSR() uint16 {
	return m.Psr
}

// SetPSR sets the processor status register.
// Changing the privilege mode swaps the stack pointer in R6.
func (m *Machine) SetPSR(psr uint16) {
	was_user := m.Psr&cpu.PSR_USER != 0
	is_user := psr&cpu.PSR_USER != 0

	switch {
	case was_user && !is_user:
		m.SavedUSP = m.Register[cpu.REG_STACK]
		m.Register[cpu.REG_STACK] = m.SavedSSP
	case !was_user && is_user:
		m.SavedSSP = m.Register[cpu.REG_STACK]
		m.Register[cpu.REG_STACK] = m.SavedUSP
	}

	m.Psr = psr
}

// Read reads a word of memory, or a device register.
func (m *Machine) Read(addr uint16) uint16 {
	if addr >= DEVICE_SPACE {
		dev, ok := m.devices[addr]
		if ok {
			return dev.Load(addr)
		}
	}

	return m.Memory[addr]
}

// Write writes a word of memory, or a device register.
func (m *Machine) Write(addr uint16, value uint16) {
	if addr >= DEVICE_SPACE {
		dev, ok := m.devices[addr]
		if ok {
			dev.Store(addr, value)
			return
		}
	}

	m.Memory[addr] = value
}

// Push pushes a word onto the stack in R6.
func (m *Machine) Push(value uint16) {
	m.Register[cpu.REG_STACK]--
	m.Write(m.Register[cpu.REG_STACK], value)
}

// Pop pops a word from the stack in R6.
func (m *Machine) Pop() (value uint16) {
	value = m.Read(m.Register[cpu.REG_STACK])
	m.Register[cpu.REG_STACK]++
	return
}

// RaiseException enters supervisor mode at the given priority, saves the
// status register and program counter on the supervisor stack, and
// continues at the handler in the interrupt vector table.
func (m *Machine) RaiseException(vector uint8, priority uint16) {
	psr := m.Psr
	pc := m.Pc

	m.SetPSR((psr &^ (cpu.PSR_USER | cpu.PSR_PRIO)) | ((priority << 8) & cpu.PSR_PRIO))
	m.Push(psr)
	m.Push(pc)
	m.Pc = m.Read(INTERRUPT_TABLE + uint16(vector))
}

// Vector returns the handler address of an interrupt vector.
func (m *Machine) Vector(vector uint8) uint16 {
	return m.Memory[INTERRUPT_TABLE+uint16(vector)]
}

// Load copies an image into memory at origin.
func (m *Machine) Load(origin uint16, words []uint16) (err error) {
	if int(origin)+len(words) > MEMORY_SIZE {
		err = ErrLoadOverflow
		return
	}

	copy(m.Memory[origin:], words)
	return
}

// LoadProgram copies an assembled program into memory.
func (m *Machine) LoadProgram(prog *asm.Program) (err error) {
	err = m.Load(prog.Origin, prog.Binary()[1:])
	return
}

// LoadObject reads an object image into memory, and returns its
// disassembled program.
func (m *Machine) LoadObject(r goio.Reader) (prog *asm.Program, err error) {
	prog, err = asm.ReadObject(r)
	if err != nil {
		return
	}

	err = m.LoadProgram(prog)
	if err != nil {
		prog = nil
		return
	}

	return
}

// flags renders the condition flags of the status register.
func flags(psr uint16) (text string) {
	for _, flag := range []struct {
		bit  uint16
		name string
	}{{cpu.FLAG_N, "N"}, {cpu.FLAG_Z, "Z"}, {cpu.FLAG_P, "P"}} {
		if psr&flag.bit != 0 {
			text += flag.name
		} else {
			text += "-"
		}
	}
	return
}

// String returns a table of the machine registers.
func (m *Machine) String() string {
	tw := table.NewWriter()

	header := table.Row{}
	row := table.Row{}
	for n, reg := range m.Register {
		header = append(header, fmt.Sprintf("R%d", n))
		row = append(row, fmt.Sprintf("x%04X", reg))
	}

	mode := "user"
	if cpu.Privileged(m.Psr) {
		mode = "super"
	}

	header = append(header, "PC", "PSR", "CC", "Mode")
	row = append(row, fmt.Sprintf("x%04X", m.Pc), fmt.Sprintf("x%04X", m.Psr), flags(m.Psr), mode)

	tw.AppendHeader(header)
	tw.AppendRow(row)

	return tw.Render()
}
