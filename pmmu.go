package m68k

// MMU is the PMMU collaborator a 68030 host may provide to back address
// translation. The core treats it as an opaque handle: a nil MMU makes
// every PMMU opcode a no-op rather than a fault, matching the external
// contract that table walks and TLB management live outside this core.
type MMU interface {
	PMove(ext uint16, addr uint32)
	PFlush(ext uint16)
	PTest(ext uint16, addr uint32)
	PLoad(ext uint16, addr uint32)
}

func init() {
	registerPMMU()
}

// registerPMMU wires the CpID=0 F-line opcode space (bits 11-9 of the
// opcode word clear) to the PMMU dispatcher on the 68030. Any other CpID
// in the F-line space is left unregistered, so the default decode path
// (no 68030 override, no 68000 entry) raises the F-line exception.
func registerPMMU() {
	for mode := uint16(0); mode < 8; mode++ {
		if mode == 1 {
			continue
		}
		for reg := uint16(0); reg < 8; reg++ {
			if mode == 7 && reg > 4 {
				continue
			}
			opcode := 0xF000 | mode<<3 | reg
			opcodeTable030[opcode] = opPMMU
		}
	}
}

// opPMMU reads the PMMU extension word and forwards to the installed MMU
// collaborator. Bits 10-8 of the extension word select the operation
// class (PMOVE/PFLUSH/PTEST/PLOAD); an absent mmu still consumes the
// extension word and operand EA but performs no side effect.
func opPMMU(c *CPU) {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	ext := c.fetchPC()
	opEA := c.resolveEA(mode, reg, Long)

	if c.mmu != nil {
		switch (ext >> 8) & 7 {
		case 0, 1:
			c.mmu.PMove(ext, opEA.address())
		case 2:
			c.mmu.PFlush(ext)
		case 3:
			c.mmu.PTest(ext, opEA.address())
		case 4:
			c.mmu.PLoad(ext, opEA.address())
		}
	}

	c.cycles += 4
}
