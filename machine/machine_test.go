package machine_test

import (
	"bytes"
	"maps"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/lc3/cpu"
	"github.com/ezrec/lc3/io"
	"github.com/ezrec/lc3/machine"
)

var _ = Describe("Machine", func() {
	var (
		mockCtrl *gomock.Controller
		m        *machine.Machine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		m = machine.NewMachine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Describe("Reset", func() {
		It("should start in user mode at the user space", func() {
			Expect(m.PC()).To(Equal(uint16(machine.USER_SPACE)))
			Expect(cpu.Privileged(m.PSR())).To(BeFalse())
			Expect(m.PSR() & cpu.FLAG_MASK).To(Equal(cpu.FLAG_Z))
			Expect(m.Reg(cpu.REG_STACK)).To(Equal(uint16(machine.DEVICE_SPACE)))
			Expect(m.Memory).To(HaveLen(machine.MEMORY_SIZE))
		})

		It("should keep memory", func() {
			m.Memory[0x3000] = 0x1234
			m.SetReg(3, 7)
			m.Reset()
			Expect(m.Memory[0x3000]).To(Equal(uint16(0x1234)))
			Expect(m.Reg(3)).To(Equal(uint16(0)))

			m.Clear()
			Expect(m.Memory[0x3000]).To(Equal(uint16(0)))
		})
	})

	Describe("SetPSR", func() {
		It("should swap stacks on a mode change", func() {
			m.SetReg(cpu.REG_STACK, 0xf000)
			m.SavedSSP = 0x2800

			m.SetPSR(cpu.FLAG_P)
			Expect(m.Reg(cpu.REG_STACK)).To(Equal(uint16(0x2800)))
			Expect(m.SavedUSP).To(Equal(uint16(0xf000)))

			m.SetReg(cpu.REG_STACK, 0x2700)
			m.SetPSR(cpu.PSR_USER | cpu.FLAG_N)
			Expect(m.Reg(cpu.REG_STACK)).To(Equal(uint16(0xf000)))
			Expect(m.SavedSSP).To(Equal(uint16(0x2700)))
			Expect(m.PSR()).To(Equal(cpu.PSR_USER | cpu.FLAG_N))
		})

		It("should not swap stacks within a mode", func() {
			m.SetReg(cpu.REG_STACK, 0xf000)
			m.SetPSR(cpu.PSR_USER | cpu.FLAG_P)
			Expect(m.Reg(cpu.REG_STACK)).To(Equal(uint16(0xf000)))
		})
	})

	Describe("Stack", func() {
		It("should push down and pop up", func() {
			m.SetReg(cpu.REG_STACK, 0x4000)
			m.Push(1)
			m.Push(2)
			Expect(m.Reg(cpu.REG_STACK)).To(Equal(uint16(0x3ffe)))
			Expect(m.Memory[0x3fff]).To(Equal(uint16(1)))
			Expect(m.Pop()).To(Equal(uint16(2)))
			Expect(m.Pop()).To(Equal(uint16(1)))
			Expect(m.Reg(cpu.REG_STACK)).To(Equal(uint16(0x4000)))
		})
	})

	Describe("RaiseException", func() {
		BeforeEach(func() {
			m.Memory[machine.INTERRUPT_TABLE+machine.VECTOR_ILLEGAL] = 0x1000
			m.SetPC(0x3005)
			m.SetPSR(cpu.PSR_USER | cpu.FLAG_N)
			m.SetReg(cpu.REG_STACK, 0xf000)
		})

		It("should enter supervisor mode at the handler", func() {
			m.RaiseException(machine.VECTOR_ILLEGAL, 4)

			Expect(m.PC()).To(Equal(uint16(0x1000)))
			Expect(cpu.Privileged(m.PSR())).To(BeTrue())
			Expect(m.PSR() & cpu.PSR_PRIO).To(Equal(uint16(0x0400)))
			Expect(m.Reg(cpu.REG_STACK)).To(Equal(uint16(machine.USER_SPACE - 2)))
			Expect(m.Memory[machine.USER_SPACE-2]).To(Equal(uint16(0x3005)))
			Expect(m.Memory[machine.USER_SPACE-1]).To(Equal(cpu.PSR_USER | cpu.FLAG_N))
			Expect(m.SavedUSP).To(Equal(uint16(0xf000)))
			Expect(m.Vector(machine.VECTOR_ILLEGAL)).To(Equal(uint16(0x1000)))
		})

		It("should return with RTI", func() {
			m.RaiseException(machine.VECTOR_ILLEGAL, 4)

			rti, err := cpu.Default.Decode(0x8000)
			Expect(err).NotTo(HaveOccurred())
			Expect(rti.Execute(m)).To(Succeed())

			Expect(m.PC()).To(Equal(uint16(0x3005)))
			Expect(m.PSR()).To(Equal(cpu.PSR_USER | cpu.FLAG_N))
			Expect(m.Reg(cpu.REG_STACK)).To(Equal(uint16(0xf000)))
			Expect(m.SavedSSP).To(Equal(uint16(machine.USER_SPACE)))
		})
	})

	Describe("Devices", func() {
		var dev *MockDevice

		BeforeEach(func() {
			dev = NewMockDevice(mockCtrl)
			dev.EXPECT().Ports().Return([]uint16{0xfe10, 0xfe12}).AnyTimes()
			dev.EXPECT().Rewind()
			Expect(m.Attach(dev)).To(Succeed())
		})

		It("should route device register accesses", func() {
			dev.EXPECT().Load(uint16(0xfe10)).Return(uint16(0x42))
			dev.EXPECT().Store(uint16(0xfe12), uint16(7))

			Expect(m.Read(0xfe10)).To(Equal(uint16(0x42)))
			m.Write(0xfe12, 7)

			m.Write(0xfe14, 9)
			Expect(m.Read(0xfe14)).To(Equal(uint16(9)))
			Expect(m.Memory[0xfe12]).To(Equal(uint16(0)))
		})

		It("should reject a port conflict", func() {
			other := NewMockDevice(mockCtrl)
			other.EXPECT().Ports().Return([]uint16{0xfe20, 0xfe12}).AnyTimes()

			err := m.Attach(other)
			Expect(err).To(MatchError(machine.ErrPortConflict(0xfe12)))
			Expect(m.Devices()).To(HaveLen(1))
		})

		It("should reject a port outside of device space", func() {
			other := NewMockDevice(mockCtrl)
			other.EXPECT().Ports().Return([]uint16{0x4000}).AnyTimes()

			Expect(m.Attach(other)).To(MatchError(machine.ErrPortRange(0x4000)))
		})

		It("should rewind devices on reset", func() {
			dev.EXPECT().Rewind()
			m.Reset()
		})

		It("should execute loads from a device", func() {
			dev.EXPECT().Load(uint16(0xfe10)).Return(uint16(0x8000))

			m.Memory[0x3000] = 0x6040 // ldr R0, R1, #0
			m.SetReg(1, 0xfe10)

			_, err := cpu.NewCpu(m).Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Reg(0)).To(Equal(uint16(0x8000)))
			Expect(m.PSR() & cpu.FLAG_MASK).To(Equal(cpu.FLAG_N))
			Expect(m.PC()).To(Equal(uint16(0x3001)))
		})

		It("should include device defines", func() {
			dev.EXPECT().Defines().Return(maps.All(map[string]string{"PORT": "xFE10"}))

			defines := maps.Collect(m.Defines())
			Expect(defines).To(HaveKeyWithValue("PORT", "xFE10"))
			Expect(defines).To(HaveKeyWithValue("USER_SPACE", "x3000"))
			Expect(defines).To(HaveKeyWithValue("INTERRUPT_TABLE", "x0100"))
		})
	})

	Describe("Console", func() {
		It("should export the console registers", func() {
			Expect(m.Attach(&io.Console{})).To(Succeed())
			Expect(m.Attach(&io.Control{})).To(Succeed())

			defines := maps.Collect(m.Defines())
			Expect(defines).To(HaveKeyWithValue("KBSR", "xFE00"))
			Expect(defines).To(HaveKeyWithValue("MCR", "xFFFE"))
			Expect(m.Read(io.PORT_DSR)).To(Equal(io.STATUS_READY))
			Expect(m.Read(io.PORT_MCR)).To(Equal(io.MCR_CLOCK))
		})
	})

	Describe("Load", func() {
		It("should copy an image", func() {
			Expect(m.Load(0x3000, []uint16{1, 2, 3})).To(Succeed())
			Expect(m.Memory[0x3000:0x3003]).To(Equal([]uint16{1, 2, 3}))
		})

		It("should reject an image past the end of memory", func() {
			Expect(m.Load(0xffff, []uint16{1, 2})).To(MatchError(machine.ErrLoadOverflow))
		})

		It("should load an object image", func() {
			obj := []byte{0x30, 0x00, 0xf0, 0x25, 0x12, 0x34}
			prog, err := m.LoadObject(bytes.NewReader(obj))
			Expect(err).NotTo(HaveOccurred())
			Expect(prog.Origin).To(Equal(uint16(0x3000)))
			Expect(prog.Lines[0].Text).To(Equal("halt"))
			Expect(m.Memory[0x3000]).To(Equal(uint16(0xf025)))
			Expect(m.Memory[0x3001]).To(Equal(uint16(0x1234)))
		})

		It("should reject an object image past the end of memory", func() {
			obj := []byte{0xff, 0xff, 0xf0, 0x25, 0x12, 0x34}
			prog, err := m.LoadObject(bytes.NewReader(obj))
			Expect(err).To(MatchError(machine.ErrLoadOverflow))
			Expect(prog).To(BeNil())
		})
	})

	Describe("String", func() {
		It("should render the registers", func() {
			m.SetReg(2, 0xbeef)
			text := m.String()
			Expect(text).To(ContainSubstring("R7"))
			Expect(text).To(ContainSubstring("xBEEF"))
			Expect(text).To(ContainSubstring("x3000"))
			Expect(text).To(ContainSubstring("-Z-"))
			Expect(text).To(ContainSubstring("user"))
		})
	})
})
