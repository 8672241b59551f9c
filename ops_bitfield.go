package m68k

import "math/bits"

func init() {
	registerBitfield()
}

// Bit-field instruction family (68030 only): BFTST/BFEXTU/BFCHG/BFEXTS/
// BFCLR/BFFFO/BFSET/BFINS. Encoding: 1110 1ooo 11mm mrrr, followed by a
// control extension word carrying the offset/width pair and, for the
// extract/insert/find forms, the data register involved.
func registerBitfield() {
	handlers := [8]opFunc{opBFTST, opBFEXTU, opBFCHG, opBFEXTS, opBFCLR, opBFFFO, opBFSET, opBFINS}
	writable := [8]bool{false, false, true, false, true, false, true, true}

	for op := uint16(0); op < 8; op++ {
		handler := handlers[op]
		for mode := uint16(0); mode < 8; mode++ {
			if mode == 1 || mode == 3 || mode == 4 {
				continue
			}
			for reg := uint16(0); reg < 8; reg++ {
				if mode == 7 {
					if writable[op] && reg > 1 {
						continue
					}
					if !writable[op] && reg > 3 {
						continue
					}
				}
				opcode := 0xE8C0 | op<<8 | mode<<3 | reg
				opcodeTable030[opcode] = handler
			}
		}
	}
}

// bfOperand is a decoded bit-field instruction: the base operand (a data
// register or a memory effective address), the starting offset (bit 0 is
// the MSB of the field), the field width in bits (1-32), and the data
// register used by the extract/insert/find forms.
type bfOperand struct {
	dst    ea
	offset int32
	width  uint8
	dn     uint8
}

func (c *CPU) decodeBitfield() bfOperand {
	mode := uint8((c.ir >> 3) & 7)
	reg := uint8(c.ir & 7)
	ext := c.fetchPC()

	var dst ea
	if mode == 0 {
		dst = ea{mode: eaDataReg, reg: reg}
	} else {
		dst = c.resolveEA(mode, reg, Byte)
	}

	var offset int32
	if ext&0x0800 != 0 {
		offset = int32(c.reg.D[(ext>>8)&7])
	} else {
		offset = int32((ext >> 6) & 0x1F)
	}

	var width uint8
	if ext&0x0020 != 0 {
		width = uint8(c.reg.D[ext&7] & 0x1F)
	} else {
		width = uint8(ext & 0x1F)
	}
	if width == 0 {
		width = 32
	}

	return bfOperand{dst: dst, offset: offset, width: width, dn: uint8((ext >> 12) & 7)}
}

// bfFieldAddr turns a byte base address plus a possibly out-of-range,
// possibly negative bit offset into the byte address holding the first
// bit of the field and that bit's position (0-7) within the byte.
func (c *CPU) bfFieldAddr(base uint32, offset int32) (addr uint32, bitOff uint8) {
	byteOff := offset >> 3
	bo := offset & 7
	if bo < 0 {
		bo += 8
		byteOff--
	}
	return uint32(int32(base) + byteOff), uint8(bo)
}

// bfRead extracts the field value, right-justified and zero-extended. A
// data-register base rotates rather than spills, since there is nowhere
// for an out-of-range field to go; a memory base reads the minimal byte
// span (up to five bytes) that contains it.
func (c *CPU) bfRead(b bfOperand) uint32 {
	if b.dst.mode == eaDataReg {
		rotated := bits.RotateLeft32(c.reg.D[b.dst.reg], int(b.offset))
		return rotated >> (32 - b.width)
	}
	addr, bitOff := c.bfFieldAddr(b.dst.addr, b.offset)
	return c.bfReadMem(addr, bitOff, b.width)
}

func (c *CPU) bfWrite(b bfOperand, value uint32) {
	if b.dst.mode == eaDataReg {
		mask := ^uint32(0) >> (32 - b.width)
		rotated := bits.RotateLeft32(c.reg.D[b.dst.reg], int(b.offset))
		rotated = (rotated &^ (mask << (32 - b.width))) | ((value & mask) << (32 - b.width))
		c.reg.D[b.dst.reg] = bits.RotateLeft32(rotated, -int(b.offset))
		return
	}
	addr, bitOff := c.bfFieldAddr(b.dst.addr, b.offset)
	c.bfWriteMem(addr, bitOff, b.width, value)
}

func (c *CPU) bfReadMem(addr uint32, bitOff uint8, width uint8) uint32 {
	nbytes := int(bitOff+width+7) / 8
	var acc uint64
	for i := 0; i < nbytes; i++ {
		acc = acc<<8 | uint64(c.readBus(Byte, addr+uint32(i)))
	}
	shift := nbytes*8 - int(bitOff) - int(width)
	mask := uint64(1)<<uint(width) - 1
	return uint32((acc >> uint(shift)) & mask)
}

func (c *CPU) bfWriteMem(addr uint32, bitOff uint8, width uint8, value uint32) {
	nbytes := int(bitOff+width+7) / 8
	var acc uint64
	for i := 0; i < nbytes; i++ {
		acc = acc<<8 | uint64(c.readBus(Byte, addr+uint32(i)))
	}
	shift := nbytes*8 - int(bitOff) - int(width)
	mask := (uint64(1)<<uint(width) - 1) << uint(shift)
	acc = (acc &^ mask) | ((uint64(value) << uint(shift)) & mask)
	for i := 0; i < nbytes; i++ {
		b := uint8(acc >> uint((nbytes-1-i)*8))
		c.writeBus(Byte, addr+uint32(i), uint32(b))
	}
}

// setBitfieldFlags sets N/Z from a field value: the field as read before
// any modification, or for BFINS the value being inserted. C and V are
// always cleared.
func (c *CPU) setBitfieldFlags(value uint32, width uint8) {
	c.reg.SR &^= flagN | flagZ | flagC | flagV
	if value == 0 {
		c.reg.SR |= flagZ
	}
	if value&(1<<(width-1)) != 0 {
		c.reg.SR |= flagN
	}
}

func opBFTST(c *CPU) {
	b := c.decodeBitfield()
	v := c.bfRead(b)
	c.setBitfieldFlags(v, b.width)
	c.cycles += 10
}

func opBFEXTU(c *CPU) {
	b := c.decodeBitfield()
	v := c.bfRead(b)
	c.setBitfieldFlags(v, b.width)
	c.reg.D[b.dn] = v
	c.cycles += 12
}

func opBFEXTS(c *CPU) {
	b := c.decodeBitfield()
	v := c.bfRead(b)
	c.setBitfieldFlags(v, b.width)
	shift := 32 - b.width
	c.reg.D[b.dn] = uint32(int32(v<<shift) >> shift)
	c.cycles += 12
}

func opBFCHG(c *CPU) {
	b := c.decodeBitfield()
	v := c.bfRead(b)
	c.setBitfieldFlags(v, b.width)
	mask := ^uint32(0) >> (32 - b.width)
	c.bfWrite(b, ^v&mask)
	c.cycles += 12
}

func opBFCLR(c *CPU) {
	b := c.decodeBitfield()
	v := c.bfRead(b)
	c.setBitfieldFlags(v, b.width)
	c.bfWrite(b, 0)
	c.cycles += 12
}

func opBFSET(c *CPU) {
	b := c.decodeBitfield()
	v := c.bfRead(b)
	c.setBitfieldFlags(v, b.width)
	mask := ^uint32(0) >> (32 - b.width)
	c.bfWrite(b, mask)
	c.cycles += 12
}

// opBFFFO scans the field from its MSB toward its LSB for the first set
// bit and stores the bit's absolute offset (field offset plus its
// position within the field) into Dn; a field of all zero bits stores
// offset+width, one past the end of the field.
func opBFFFO(c *CPU) {
	b := c.decodeBitfield()
	v := c.bfRead(b)
	c.setBitfieldFlags(v, b.width)
	pos := uint8(0)
	for pos < b.width && v&(1<<(b.width-1-pos)) == 0 {
		pos++
	}
	c.reg.D[b.dn] = uint32(b.offset) + uint32(pos)
	c.cycles += 18
}

func opBFINS(c *CPU) {
	b := c.decodeBitfield()
	mask := ^uint32(0) >> (32 - b.width)
	value := c.reg.D[b.dn] & mask
	c.setBitfieldFlags(value, b.width)
	c.bfWrite(b, value)
	c.cycles += 12
}
