package cpu

import (
	"maps"
)

// testState is a minimal State for instruction tests.
type testState struct {
	reg    [8]uint16
	pc     uint16
	psr    uint16
	mem    map[uint16]uint16
	writes int
}

var _ State = (*testState)(nil)

func newTestState() *testState {
	return &testState{
		pc:  0x3000,
		psr: PSR_USER | FLAG_Z,
		mem: map[uint16]uint16{},
	}
}

func (st *testState) Reg(n uint16) uint16           { return st.reg[n&7] }
func (st *testState) SetReg(n uint16, value uint16) { st.reg[n&7] = value }
func (st *testState) PC() uint16                    { return st.pc }
func (st *testState) SetPC(pc uint16)               { st.pc = pc }
func (st *testState) PSR() uint16                   { return st.psr }
func (st *testState) SetPSR(psr uint16)             { st.psr = psr }
func (st *testState) Read(addr uint16) uint16       { return st.mem[addr] }

func (st *testState) Write(addr uint16, value uint16) {
	st.writes++
	st.mem[addr] = value
}

func (st *testState) clone() *testState {
	dup := *st
	dup.mem = maps.Clone(st.mem)
	return &dup
}
