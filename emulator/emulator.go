// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/lc3/asm"
	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/internal"
	"github.com/ezrec/lc3/io"
	"github.com/ezrec/lc3/machine"
)

var _emulator_defines = map[string]string{
	"TRAP_GETC":  fmt.Sprintf("x%02X", cpu.TRAP_GETC),
	"TRAP_OUT":   fmt.Sprintf("x%02X", cpu.TRAP_OUT),
	"TRAP_PUTS":  fmt.Sprintf("x%02X", cpu.TRAP_PUTS),
	"TRAP_IN":    fmt.Sprintf("x%02X", cpu.TRAP_IN),
	"TRAP_PUTSP": fmt.Sprintf("x%02X", cpu.TRAP_PUTSP),
	"TRAP_HALT":  fmt.Sprintf("x%02X", cpu.TRAP_HALT),
}

// Emulator state. CPU + machine + devices.
type Emulator struct {
	Verbose  bool             // If set, enables verbose logging.
	Config   Config           // Machine configuration.
	*cpu.Cpu                  // Reference to the CPU simulation.
	Machine  *machine.Machine // Registers, memory and devices.
	Program  *asm.Program     // Reference to the currently running program listing.

	Console io.Console // Keyboard and display.
	Control io.Control // Machine control register.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Config:  DefaultConfig(),
		Machine: machine.NewMachine(),
		Program: &asm.Program{Origin: machine.USER_SPACE},
	}

	emu.Cpu = cpu.NewCpu(emu.Machine)

	for _, dev := range []io.Device{&emu.Console, &emu.Control} {
		err := emu.Machine.Attach(dev)
		if err != nil {
			panic(err)
		}
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
		maps.All(emu.Config.Predefine),
	)
}

// Assembler returns an assembler with the emulator's defines.
func (emu *Emulator) Assembler() (as *asm.Assembler) {
	as = &asm.Assembler{
		Verbose: emu.Verbose,
		Catalog: emu.Cpu.Catalog,
	}

	for name, value := range emu.Defines() {
		as.Predefine(name, value)
	}

	return
}

// Reset clears memory, loads the program, and starts at its origin.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Clear()
	emu.Machine.Reset()

	err = emu.Machine.LoadProgram(emu.Program)
	if err != nil {
		return
	}

	emu.Machine.SetPC(emu.Program.Origin)
	emu.Cpu.Ticks = 0

	return
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Machine.PC())
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Done returns true once the machine has halted.
func (emu *Emulator) Done() bool {
	return !emu.Control.Running()
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Done() {
		done = true
		return
	}

	lineno := emu.LineNo()
	pc := emu.Machine.PC()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
		done = emu.Done()
	}()

	inst, err := emu.Cpu.Fetch()
	if err == nil && inst.Op == cpu.OP_TRAP && emu.Config.NativeTraps {
		vector := inst.Fields[len(inst.Fields)-1].Value
		if emu.Machine.Read(machine.TRAP_TABLE+vector) == 0 {
			err = emu.nativeTrap(vector)
			if err != nil {
				return
			}
			emu.Machine.SetReg(cpu.REG_RETURN, pc+1)
			emu.Machine.SetPC(pc + 1)
			emu.Cpu.Ticks++
			return
		}
	}

	if err == nil {
		err = emu.Cpu.Step(inst)
	}

	if err != nil && emu.Config.Exceptions {
		err = emu.exception(err)
		if err != nil {
			return
		}
	}

	if err == nil {
		err = emu.Console.Err()
	}

	return
}

// exception raises an exception for an instruction error, if the machine
// has a handler for it.
func (emu *Emulator) exception(fault error) (err error) {
	var vector uint8
	switch {
	case errors.Is(fault, cpu.ErrPrivilege(0)):
		vector = machine.VECTOR_PRIVILEGE
	case errors.Is(fault, cpu.ErrIllegalOpcode(0)):
		vector = machine.VECTOR_ILLEGAL
	default:
		err = fault
		return
	}

	if emu.Machine.Vector(vector) == 0 {
		err = fault
		return
	}

	if emu.Verbose {
		log.Printf("%04x: exception x%02X: %v", emu.Machine.PC(), vector, fault)
	}

	priority := (emu.Machine.PSR() & cpu.PSR_PRIO) >> 8
	emu.Machine.SetPC(emu.Machine.PC() + 1)
	emu.Machine.RaiseException(vector, priority)
	emu.Cpu.Ticks++

	return
}

// nativeTrap performs a trap service routine in the emulator.
func (emu *Emulator) nativeTrap(vector uint16) (err error) {
	m := emu.Machine
	con := &emu.Console

	if emu.Verbose {
		log.Printf("%04x: native trap x%02X", m.PC(), vector)
	}

	switch vector {
	case cpu.TRAP_GETC:
		var b byte
		b, err = con.ReadByte()
		if err != nil {
			return
		}
		m.SetReg(0, uint16(b))
	case cpu.TRAP_OUT:
		err = con.WriteByte(byte(m.Reg(0)))
	case cpu.TRAP_PUTS:
		addr := m.Reg(0)
		for n := 0; n < machine.MEMORY_SIZE && err == nil; n++ {
			word := m.Read(addr + uint16(n))
			if word == 0 {
				break
			}
			err = con.WriteByte(byte(word))
		}
	case cpu.TRAP_IN:
		for n := 0; n < len(emu.Config.Prompt) && err == nil; n++ {
			err = con.WriteByte(emu.Config.Prompt[n])
		}
		if err != nil {
			return
		}
		var b byte
		b, err = con.ReadByte()
		if err != nil {
			return
		}
		m.SetReg(0, uint16(b))
		err = con.WriteByte(b)
	case cpu.TRAP_PUTSP:
		addr := m.Reg(0)
		for n := 0; n < machine.MEMORY_SIZE && err == nil; n++ {
			word := m.Read(addr + uint16(n))
			lo, hi := byte(word), byte(word>>8)
			if lo == 0 {
				break
			}
			err = con.WriteByte(lo)
			if hi == 0 || err != nil {
				break
			}
			err = con.WriteByte(hi)
		}
	case cpu.TRAP_HALT:
		emu.Control.Halt()
	default:
		err = ErrTrapUnhandled(vector)
	}

	return
}

// Run ticks the emulator until it halts, or an error occurs.
// A positive tick limit overrides the configured limit.
func (emu *Emulator) Run(maxTicks int) (err error) {
	if maxTicks <= 0 {
		maxTicks = emu.Config.MaxTicks
	}

	for ticks := 0; maxTicks <= 0 || ticks < maxTicks; ticks++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = &ErrRuntime{LineNo: emu.LineNo(), Pc: emu.Machine.PC(), Err: ErrTickLimit}
	return
}
