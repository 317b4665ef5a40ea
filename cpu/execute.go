package cpu

// Processor status register bits.
const (
	FLAG_P     = uint16(1 << 0) // Last result was positive.
	FLAG_Z     = uint16(1 << 1) // Last result was zero.
	FLAG_N     = uint16(1 << 2) // Last result was negative.
	FLAG_MASK  = FLAG_N | FLAG_Z | FLAG_P
	PSR_PRIO   = uint16(0x7 << 8) // Priority level.
	PSR_USER   = uint16(1 << 15)  // Set when in user (unprivileged) mode.
	REG_STACK  = 6                // Stack pointer register.
	REG_RETURN = 7                // Return address register.
)

// State is the architectural state an instruction executes against.
type State interface {
	Reg(n uint16) uint16
	SetReg(n uint16, value uint16)
	PC() uint16
	SetPC(pc uint16)
	PSR() uint16
	SetPSR(psr uint16)
	Read(addr uint16) uint16
	Write(addr uint16, value uint16)
}

// Flags returns the condition flag for a result value.
func Flags(value uint16) uint16 {
	switch {
	case value == 0:
		return FLAG_Z
	case value&0x8000 != 0:
		return FLAG_N
	default:
		return FLAG_P
	}
}

// Privileged returns true if the status register is in supervisor mode.
func Privileged(psr uint16) bool {
	return psr&PSR_USER == 0
}

// result writes a register and updates the condition flags.
func result(st State, dr uint16, value uint16) {
	st.SetReg(dr, value)
	st.SetPSR((st.PSR() &^ FLAG_MASK) | Flags(value))
}

// source2 is the second ALU source: a register or an immediate.
func (inst *Instruction) source2(st State) uint16 {
	arg := inst.Fields[len(inst.Fields)-1]
	if arg.Kind == OPERAND_REG {
		return st.Reg(arg.Value)
	}
	return uint16(arg.Int())
}

// Execute performs the instruction against the state.
// The program counter must already point past the instruction.
func (inst *Instruction) Execute(st State) (err error) {
	fields := inst.Fields
	pc := st.PC()

	switch inst.Op {
	case OP_ADD:
		result(st, fields[1].Value, st.Reg(fields[2].Value)+inst.source2(st))
	case OP_AND:
		result(st, fields[1].Value, st.Reg(fields[2].Value)&inst.source2(st))
	case OP_NOT:
		result(st, fields[1].Value, ^st.Reg(fields[2].Value))
	case OP_BR:
		nzp := fields[1].Value
		if nzp&st.PSR()&FLAG_MASK != 0 {
			st.SetPC(pc + uint16(fields[2].Int()))
		}
	case OP_JMP:
		st.SetPC(st.Reg(fields[2].Value))
	case OP_JSR:
		target := pc
		link := fields[len(fields)-1]
		if link.Kind == OPERAND_LABEL {
			target += uint16(link.Int())
		} else {
			target = st.Reg(fields[3].Value)
		}
		st.SetReg(REG_RETURN, pc)
		st.SetPC(target)
	case OP_LD:
		result(st, fields[1].Value, st.Read(pc+uint16(fields[2].Int())))
	case OP_LDI:
		result(st, fields[1].Value, st.Read(st.Read(pc+uint16(fields[2].Int()))))
	case OP_LDR:
		result(st, fields[1].Value, st.Read(st.Reg(fields[2].Value)+uint16(fields[3].Int())))
	case OP_LEA:
		result(st, fields[1].Value, pc+uint16(fields[2].Int()))
	case OP_ST:
		st.Write(pc+uint16(fields[2].Int()), st.Reg(fields[1].Value))
	case OP_STI:
		st.Write(st.Read(pc+uint16(fields[2].Int())), st.Reg(fields[1].Value))
	case OP_STR:
		st.Write(st.Reg(fields[2].Value)+uint16(fields[3].Int()), st.Reg(fields[1].Value))
	case OP_TRAP:
		vector := fields[len(fields)-1].Value
		st.SetReg(REG_RETURN, pc)
		st.SetPC(st.Read(vector))
	case OP_RTI:
		if !Privileged(st.PSR()) {
			err = ErrPrivilege(inst.Word())
			return
		}
		sp := st.Reg(REG_STACK)
		next_pc := st.Read(sp)
		next_psr := st.Read(sp + 1)
		st.SetReg(REG_STACK, sp+2)
		st.SetPC(next_pc)
		st.SetPSR(next_psr)
	case OP_RES:
		err = ErrIllegalOpcode(inst.Word())
	default:
		err = ErrIllegalOpcode(inst.Word())
	}

	return
}
