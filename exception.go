package m68k

import "log"

// Exception vector numbers, shared by both models.
const (
	vecResetSSP           = 0
	vecResetPC            = 1
	vecBusError           = 2
	vecAddressError       = 3
	vecIllegalInstruction = 4
	vecDivideByZero       = 5
	vecCHK                = 6
	vecTRAPV              = 7
	vecPrivilegeViolation = 8
	vecTrace              = 9
	vecLineA              = 10
	vecLineF              = 11
	vecFormatError        = 14 // 68030 only: RTE popped an unknown frame format
	vecUninitialized      = 15
	vecSpuriousInterrupt  = 24
	vecAutoVector1        = 25
	vecTrap0              = 32 // TRAP #0 through TRAP #15 = vectors 32-47
)

// isFormat2Vector reports whether a vector uses the 68030 Format $2 frame
// (adds the faulting instruction's address below the usual PC/SR fields).
// Per spec these are divide-by-zero, CHK/CHK2, TRAPV/TRAPcc, and trace;
// every other vector on the 68030 uses Format $0, identical in content to
// the plain 68000 frame plus a trailing format/vector word.
func isFormat2Vector(vector int) bool {
	switch vector {
	case vecDivideByZero, vecCHK, vecTRAPV, vecTrace:
		return true
	}
	return false
}

// instructionPC returns the address of the first word of the instruction
// currently executing (or that just raised an exception). It is latched
// once per Step, before dispatch, and exception()/processInterrupt() never
// write it, so it stays unchanged for every exception raised while that
// instruction runs. A trace exception never follows another exception in
// the same Step, because exception entry clears the trace bits.
func (c *CPU) instructionPC() uint32 {
	return c.prevPC
}

// vectorTableBase returns the base address of the exception vector table:
// VBR-relative on the 68030, absolute on the 68000 (which has no VBR).
func (c *CPU) vectorTableBase() uint32 {
	if c.has030() {
		return c.reg.VBR
	}
	return 0
}

// exception processes a synchronous exception: enters supervisor mode
// (and leaves master mode on the 68030), pushes the return frame, reads
// the vector, and jumps to the handler.
func (c *CPU) exception(vector int) {
	// Log error exceptions (vectors 2-11) for diagnostics
	if vector >= vecBusError && vector <= vecLineF {
		log.Printf("[m68k] exception %d at PC=%06x SR=%04x", vector, c.reg.PC, c.reg.SR)
	}

	// Determine the PC to push. For group 1 fault exceptions (illegal
	// instruction, privilege violation, Line-A, Line-F), the processor
	// pushes the address of the faulting instruction. For all other
	// exceptions (group 2: TRAP, TRAPV, CHK, divide-by-zero; and
	// interrupts/trace), it pushes the next instruction address.
	pushPC := c.reg.PC
	switch vector {
	case vecIllegalInstruction, vecPrivilegeViolation, vecLineA, vecLineF:
		pushPC = c.prevPC
	}

	c.enterExceptionFrame(vector, pushPC)
}

// enterExceptionFrame performs the mode switch, stack frame push, and
// vector dispatch shared by exception() and processInterrupt(). oldSR is
// captured from the live register before any mode bits change.
func (c *CPU) enterExceptionFrame(vector int, pushPC uint32) {
	oldSR := c.reg.SR
	oldS := c.supervisor()
	oldM := c.master()

	*c.activeSP(oldS, oldM) = c.reg.A[7]
	c.reg.A[7] = *c.activeSP(true, false)
	c.reg.SR = (c.reg.SR | flagS) &^ (flagM | flagT | flagT0)

	if c.has030() && isFormat2Vector(vector) {
		c.pushLong(c.instructionPC())
	}
	if c.has030() {
		formatVector := uint16(vector*4) & 0x0FFF
		if isFormat2Vector(vector) {
			formatVector |= 0x2000
		}
		c.pushWord(formatVector)
	}
	c.pushLong(pushPC)
	c.pushWord(oldSR)

	base := c.vectorTableBase()
	addr := c.readBus(Long, base+uint32(vector)*4)
	if addr == 0 {
		// Uninitialized vector: try the uninitialized-interrupt vector
		addr = c.readBus(Long, base+vecUninitialized*4)
		if addr == 0 {
			// Double fault on uninitialized vectors: halt
			c.halted = true
			return
		}
	}
	c.reg.PC = addr

	c.cycles += 34
}
