// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"log"
)

// Cpu is the fetch, decode and execute loop over a machine state.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Catalog *Catalog // Instruction set in use.
	State   State    // Machine state.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a CPU for the default instruction set.
func NewCpu(state State) (cpu *Cpu) {
	cpu = &Cpu{
		Catalog: Default,
		State:   state,
	}

	return
}

// Fetch decodes the instruction at the program counter.
func (cpu *Cpu) Fetch() (inst *Instruction, err error) {
	word := cpu.State.Read(cpu.State.PC())
	inst, err = cpu.Catalog.Decode(word)
	return
}

// Tick executes a single instruction.
//
// On error the program counter is left at the failing instruction, and
// the instruction has no effect.
func (cpu *Cpu) Tick() (inst *Instruction, err error) {
	inst, err = cpu.Fetch()
	if err != nil {
		return
	}

	err = cpu.Step(inst)
	return
}

// Step executes an instruction already fetched from the program counter.
//
// On error the program counter is left at the failing instruction.
func (cpu *Cpu) Step(inst *Instruction) (err error) {
	pc := cpu.State.PC()

	if cpu.Verbose {
		log.Printf("%04x: %04x %v", pc, inst.Word(), inst)
	}

	cpu.State.SetPC(pc + 1)
	err = inst.Execute(cpu.State)
	if err != nil {
		cpu.State.SetPC(pc)
		return
	}

	cpu.Ticks += 1

	return
}
