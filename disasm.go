package m68k

import "fmt"

// Disassemble decodes a single instruction starting at words[0] and
// returns its text and the number of 16-bit words it consumed (always at
// least 1). Patterns this table does not recognize fall back to a raw
// ".DCW $xxxx" listing the same way an assembler lists data it can't
// decode as code, the way rcornwell-S370's table-driven disassembler
// falls back to printing raw data for unmapped opcodes. An effective
// address that uses a 68030 full extension word renders as
// "EXT(base,$xxxx)"; see ea.
func Disassemble(words []uint16) (string, int) {
	if len(words) == 0 {
		return "", 0
	}
	ir := words[0]
	d := &disasmState{words: words, idx: 1}

	text := d.decode(ir)
	return text, d.idx
}

var ccNames = [16]string{
	"T", "F", "HI", "LS", "CC", "CS", "NE", "EQ",
	"VC", "VS", "PL", "MI", "GE", "LT", "GT", "LE",
}

var sizeSuffix = [3]string{".B", ".W", ".L"}

type disasmState struct {
	words []uint16
	idx   int
}

func (d *disasmState) next() uint16 {
	if d.idx >= len(d.words) {
		return 0
	}
	w := d.words[d.idx]
	d.idx++
	return w
}

func (d *disasmState) nextLong() uint32 {
	hi := d.next()
	lo := d.next()
	return uint32(hi)<<16 | uint32(lo)
}

// ea renders the textual form of an effective address. Full 68030
// extension words (bit 8 set on a d8(An,Xn)/d8(PC,Xn) mode) are not
// expanded here; they render as "EXT(base,$xxxx)" showing the base
// register and the extension word only. The base and outer displacement
// words are consumed but not shown.
func (d *disasmState) ea(mode, reg uint8) string {
	switch mode {
	case 0:
		return fmt.Sprintf("D%d", reg)
	case 1:
		return fmt.Sprintf("A%d", reg)
	case 2:
		return fmt.Sprintf("(A%d)", reg)
	case 3:
		return fmt.Sprintf("(A%d)+", reg)
	case 4:
		return fmt.Sprintf("-(A%d)", reg)
	case 5:
		disp := int16(d.next())
		return fmt.Sprintf("%d(A%d)", disp, reg)
	case 6:
		ext := d.next()
		if ext&0x0100 != 0 {
			return d.fullExt(fmt.Sprintf("A%d", reg), ext)
		}
		return indexText(fmt.Sprintf("A%d", reg), ext)
	case 7:
		switch reg {
		case 0:
			return fmt.Sprintf("$%04X.W", d.next())
		case 1:
			return fmt.Sprintf("$%08X.L", d.nextLong())
		case 2:
			disp := int16(d.next())
			return fmt.Sprintf("%d(PC)", disp)
		case 3:
			ext := d.next()
			if ext&0x0100 != 0 {
				return d.fullExt("PC", ext)
			}
			return indexText("PC", ext)
		case 4:
			return "#imm"
		}
	}
	return "?"
}

func (d *disasmState) fullExt(base string, ext uint16) string {
	bdSize := (ext >> 4) & 3
	if bdSize == 2 {
		d.next()
	} else if bdSize == 3 {
		d.nextLong()
	}
	if ext&7 != 0 {
		switch (ext & 7) & 3 {
		case 2:
			d.next()
		case 3:
			d.nextLong()
		}
	}
	return fmt.Sprintf("EXT(%s,$%04X)", base, ext)
}

func indexText(base string, ext uint16) string {
	reg := "D"
	if ext&0x8000 != 0 {
		reg = "A"
	}
	size := "W"
	if ext&0x0800 != 0 {
		size = "L"
	}
	disp := int8(ext & 0xFF)
	return fmt.Sprintf("%d(%s,%s%d.%s)", disp, base, reg, (ext>>12)&7, size)
}

func (d *disasmState) decode(ir uint16) string {
	switch ir >> 12 {
	case 0x0:
		return d.decodeImmediateBit(ir)
	case 0x1, 0x2, 0x3:
		return d.decodeMove(ir)
	case 0x4:
		return d.decodeMisc(ir)
	case 0x5:
		return d.decodeAddqSubqScc(ir)
	case 0x6:
		return d.decodeBranch(ir)
	case 0x7:
		return fmt.Sprintf("MOVEQ #%d,D%d", int8(ir&0xFF), (ir>>9)&7)
	case 0x8:
		return d.decodeOrDivSbcd(ir, "OR")
	case 0x9:
		return d.decodeAddSub(ir, "SUB")
	case 0xB:
		return d.decodeCmpEor(ir)
	case 0xC:
		return d.decodeAndMulAbcd(ir)
	case 0xD:
		return d.decodeAddSub(ir, "ADD")
	case 0xE:
		return d.decodeShiftBitfield(ir)
	}
	return fmt.Sprintf(".DCW $%04X", ir)
}

func (d *disasmState) decodeImmediateBit(ir uint16) string {
	switch ir {
	case 0x003C:
		return fmt.Sprintf("ORI #$%02X,CCR", d.next()&0xFF)
	case 0x007C:
		return fmt.Sprintf("ORI #$%04X,SR", d.next())
	case 0x023C:
		return fmt.Sprintf("ANDI #$%02X,CCR", d.next()&0xFF)
	case 0x027C:
		return fmt.Sprintf("ANDI #$%04X,SR", d.next())
	case 0x0A3C:
		return fmt.Sprintf("EORI #$%02X,CCR", d.next()&0xFF)
	case 0x0A7C:
		return fmt.Sprintf("EORI #$%04X,SR", d.next())
	}

	mode := uint8((ir >> 3) & 7)
	reg := uint8(ir & 7)
	szBits := (ir >> 6) & 3

	if ir&0x0100 != 0 && ir&0x0038 != 0x0008 {
		// Dynamic bit op: BTST/BCHG/BCLR/BSET Dn,<ea>
		ops := [4]string{"BTST", "BCHG", "BCLR", "BSET"}
		return fmt.Sprintf("%s D%d,%s", ops[szBits], (ir>>9)&7, d.ea(mode, reg))
	}
	if ir&0x0F00 == 0x0800 {
		ops := [4]string{"BTST", "BCHG", "BCLR", "BSET"}
		imm := d.next() & 0xFF
		return fmt.Sprintf("%s #%d,%s", ops[szBits], imm, d.ea(mode, reg))
	}

	names := [4]string{"ORI", "ANDI", "SUBI", "ADDI"}
	group := (ir >> 9) & 7
	if int(group) < len(names) {
		sz := Size(1 << szBits)
		var imm uint32
		if sz == Long {
			imm = d.nextLong()
		} else {
			imm = uint32(d.next()) & sz.Mask()
		}
		return fmt.Sprintf("%s%s #$%X,%s", names[group], sizeSuffix[szBits], imm, d.ea(mode, reg))
	}
	return fmt.Sprintf(".DCW $%04X", ir)
}

func (d *disasmState) decodeMove(ir uint16) string {
	szBits := (ir >> 12) & 3
	var suffix string
	switch szBits {
	case 1:
		suffix = ".B"
	case 3:
		suffix = ".W"
	case 2:
		suffix = ".L"
	}
	srcMode := uint8((ir >> 3) & 7)
	srcReg := uint8(ir & 7)
	dstReg := uint8((ir >> 9) & 7)
	dstMode := uint8((ir >> 6) & 7)

	src := d.ea(srcMode, srcReg)
	if dstMode == 1 {
		return fmt.Sprintf("MOVEA%s %s,A%d", suffix, src, dstReg)
	}
	dst := d.ea(dstMode, dstReg)
	return fmt.Sprintf("MOVE%s %s,%s", suffix, src, dst)
}

func (d *disasmState) decodeMisc(ir uint16) string {
	switch ir {
	case 0x4E71:
		return "NOP"
	case 0x4E70:
		return "RESET"
	case 0x4E72:
		return fmt.Sprintf("STOP #$%04X", d.next())
	case 0x4E73:
		return "RTE"
	case 0x4E75:
		return "RTS"
	case 0x4E76:
		return "TRAPV"
	case 0x4E77:
		return "RTR"
	case 0x4E74:
		return fmt.Sprintf("RTD #%d", int16(d.next()))
	}
	if ir&0xFFF0 == 0x4E40 {
		return fmt.Sprintf("TRAP #%d", ir&0xF)
	}
	if ir&0xFFF8 == 0x4E50 {
		return fmt.Sprintf("LINK A%d,#%d", ir&7, int16(d.next()))
	}
	if ir&0xFFF8 == 0x4808 {
		return fmt.Sprintf("LINK.L A%d,#%d", ir&7, int32(d.nextLong()))
	}
	if ir&0xFFF8 == 0x4E58 {
		return fmt.Sprintf("UNLK A%d", ir&7)
	}
	if ir&0xFFF8 == 0x4E60 {
		return fmt.Sprintf("MOVE A%d,USP", ir&7)
	}
	if ir&0xFFF8 == 0x4E68 {
		return fmt.Sprintf("MOVE USP,A%d", ir&7)
	}
	mode := uint8((ir >> 3) & 7)
	reg := uint8(ir & 7)
	if ir&0xFFC0 == 0x4840 {
		return fmt.Sprintf("PEA %s", d.ea(mode, reg))
	}
	if ir&0xFFC0 == 0x4AC0 {
		return fmt.Sprintf("TAS %s", d.ea(mode, reg))
	}
	if ir&0xFFC0 == 0x40C0 {
		return fmt.Sprintf("MOVE SR,%s", d.ea(mode, reg))
	}
	if ir&0xFFC0 == 0x44C0 {
		return fmt.Sprintf("MOVE %s,CCR", d.ea(mode, reg))
	}
	if ir&0xFFC0 == 0x46C0 {
		return fmt.Sprintf("MOVE %s,SR", d.ea(mode, reg))
	}
	if ir&0xFF00 == 0x4000 {
		sz := (ir >> 6) & 3
		return fmt.Sprintf("NEGX%s %s", sizeSuffix[sz], d.ea(mode, reg))
	}
	if ir&0xFF00 == 0x4200 {
		sz := (ir >> 6) & 3
		return fmt.Sprintf("CLR%s %s", sizeSuffix[sz], d.ea(mode, reg))
	}
	if ir&0xFF00 == 0x4400 {
		sz := (ir >> 6) & 3
		return fmt.Sprintf("NEG%s %s", sizeSuffix[sz], d.ea(mode, reg))
	}
	if ir&0xFF00 == 0x4600 {
		sz := (ir >> 6) & 3
		return fmt.Sprintf("NOT%s %s", sizeSuffix[sz], d.ea(mode, reg))
	}
	if ir&0xFFC0 == 0x4880 && ir&0x38 != 0 {
		return fmt.Sprintf("EXT.W D%d", ir&7)
	}
	if ir&0xFFC0 == 0x48C0 {
		return fmt.Sprintf("EXT.L D%d", ir&7)
	}
	if ir&0xFFF8 == 0x49C0 {
		return fmt.Sprintf("EXTB.L D%d", ir&7)
	}
	if ir&0xFF80 == 0x4880 && ir&0x38 == 0 {
		return fmt.Sprintf("MOVEM.W #$%04X,%s", d.next(), d.ea(mode, reg))
	}
	if ir&0xFB80 == 0x4880 {
		listAtStart := ir&0x0400 == 0
		var list string
		if listAtStart {
			list = fmt.Sprintf("#$%04X", d.next())
			return fmt.Sprintf("MOVEM.W %s,%s", list, d.ea(mode, reg))
		}
		return fmt.Sprintf("MOVEM.W %s,#$%04X", d.ea(mode, reg), d.next())
	}
	if ir&0xF1C0 == 0x41C0 {
		return fmt.Sprintf("LEA %s,A%d", d.ea(mode, reg), (ir>>9)&7)
	}
	if ir&0xF1C0 == 0x4180 {
		return fmt.Sprintf("CHK %s,D%d", d.ea(mode, reg), (ir>>9)&7)
	}
	if ir&0xFFC0 == 0x4EC0 {
		return fmt.Sprintf("JMP %s", d.ea(mode, reg))
	}
	if ir&0xFFC0 == 0x4E80 {
		return fmt.Sprintf("JSR %s", d.ea(mode, reg))
	}
	if ir&0xFF00 == 0x4A00 {
		sz := (ir >> 6) & 3
		return fmt.Sprintf("TST%s %s", sizeSuffix[sz], d.ea(mode, reg))
	}
	return fmt.Sprintf(".DCW $%04X", ir)
}

func (d *disasmState) decodeAddqSubqScc(ir uint16) string {
	if ir&0x00C0 == 0x00C0 {
		mode := uint8((ir >> 3) & 7)
		reg := uint8(ir & 7)
		cc := (ir >> 8) & 0xF
		if mode == 1 {
			return fmt.Sprintf("DB%s D%d,#%d", ccNames[cc], reg, int16(d.next()))
		}
		return fmt.Sprintf("S%s %s", ccNames[cc], d.ea(mode, reg))
	}
	data := (ir >> 9) & 7
	if data == 0 {
		data = 8
	}
	sz := (ir >> 6) & 3
	mode := uint8((ir >> 3) & 7)
	reg := uint8(ir & 7)
	mnem := "ADDQ"
	if ir&0x0100 != 0 {
		mnem = "SUBQ"
	}
	return fmt.Sprintf("%s%s #%d,%s", mnem, sizeSuffix[sz], data, d.ea(mode, reg))
}

func (d *disasmState) decodeBranch(ir uint16) string {
	cc := (ir >> 8) & 0xF
	disp := int32(int8(ir & 0xFF))
	extra := ""
	if disp == 0 {
		disp = int32(int16(d.next()))
		extra = ".W"
	}
	switch cc {
	case 0:
		return fmt.Sprintf("BRA%s %d", extra, disp)
	case 1:
		return fmt.Sprintf("BSR%s %d", extra, disp)
	default:
		return fmt.Sprintf("B%s%s %d", ccNames[cc], extra, disp)
	}
}

func (d *disasmState) decodeOrDivSbcd(ir uint16, _ string) string {
	mode := uint8((ir >> 3) & 7)
	reg := uint8(ir & 7)
	dn := (ir >> 9) & 7
	opmode := (ir >> 6) & 7
	switch opmode {
	case 3:
		return fmt.Sprintf("DIVU %s,D%d", d.ea(mode, reg), dn)
	case 7:
		return fmt.Sprintf("DIVS %s,D%d", d.ea(mode, reg), dn)
	case 4:
		if ir&0x30 == 0x00 {
			return fmt.Sprintf("SBCD D%d,D%d", ir&7, dn)
		}
		return fmt.Sprintf("SBCD -(A%d),-(A%d)", ir&7, dn)
	}
	if opmode >= 4 {
		return fmt.Sprintf("OR%s D%d,%s", sizeSuffix[opmode-4], dn, d.ea(mode, reg))
	}
	return fmt.Sprintf("OR%s %s,D%d", sizeSuffix[opmode], d.ea(mode, reg), dn)
}

func (d *disasmState) decodeAddSub(ir uint16, mnem string) string {
	mode := uint8((ir >> 3) & 7)
	reg := uint8(ir & 7)
	rn := (ir >> 9) & 7
	opmode := (ir >> 6) & 7
	if opmode == 3 || opmode == 7 {
		sz := ".W"
		if opmode == 7 {
			sz = ".L"
		}
		return fmt.Sprintf("%sA%s %s,A%d", mnem, sz, d.ea(mode, reg), rn)
	}
	if mode == 0 && (opmode == 4 || opmode == 5 || opmode == 6) {
		return fmt.Sprintf("%sX%s D%d,D%d", mnem, sizeSuffix[opmode-4], ir&7, rn)
	}
	if mode == 1 && (opmode == 4 || opmode == 5 || opmode == 6) {
		return fmt.Sprintf("%sX%s -(A%d),-(A%d)", mnem, sizeSuffix[opmode-4], ir&7, rn)
	}
	if opmode >= 4 {
		return fmt.Sprintf("%s%s D%d,%s", mnem, sizeSuffix[opmode-4], rn, d.ea(mode, reg))
	}
	return fmt.Sprintf("%s%s %s,D%d", mnem, sizeSuffix[opmode], d.ea(mode, reg), rn)
}

func (d *disasmState) decodeCmpEor(ir uint16) string {
	mode := uint8((ir >> 3) & 7)
	reg := uint8(ir & 7)
	rn := (ir >> 9) & 7
	opmode := (ir >> 6) & 7
	if opmode == 3 || opmode == 7 {
		sz := ".W"
		if opmode == 7 {
			sz = ".L"
		}
		return fmt.Sprintf("CMPA%s %s,A%d", sz, d.ea(mode, reg), rn)
	}
	if mode == 1 && opmode <= 2 {
		return fmt.Sprintf("CMPM%s (A%d)+,(A%d)+", sizeSuffix[opmode], ir&7, rn)
	}
	if opmode >= 4 {
		return fmt.Sprintf("EOR%s D%d,%s", sizeSuffix[opmode-4], rn, d.ea(mode, reg))
	}
	return fmt.Sprintf("CMP%s %s,D%d", sizeSuffix[opmode], d.ea(mode, reg), rn)
}

func (d *disasmState) decodeAndMulAbcd(ir uint16) string {
	mode := uint8((ir >> 3) & 7)
	reg := uint8(ir & 7)
	dn := (ir >> 9) & 7
	opmode := (ir >> 6) & 7
	switch opmode {
	case 3:
		return fmt.Sprintf("MULU %s,D%d", d.ea(mode, reg), dn)
	case 7:
		return fmt.Sprintf("MULS %s,D%d", d.ea(mode, reg), dn)
	case 4:
		if ir&0x30 == 0 {
			return fmt.Sprintf("ABCD D%d,D%d", ir&7, dn)
		}
		return fmt.Sprintf("ABCD -(A%d),-(A%d)", ir&7, dn)
	}
	if opmode >= 4 {
		return fmt.Sprintf("AND%s D%d,%s", sizeSuffix[opmode-4], dn, d.ea(mode, reg))
	}
	return fmt.Sprintf("AND%s %s,D%d", sizeSuffix[opmode], d.ea(mode, reg), dn)
}

func (d *disasmState) decodeShiftBitfield(ir uint16) string {
	if ir&0xF800 == 0xE800 && ir&0x00C0 == 0x00C0 {
		op := (ir >> 8) & 7
		ops := [8]string{"BFTST", "BFEXTU", "BFCHG", "BFEXTS", "BFCLR", "BFFFO", "BFSET", "BFINS"}
		mode := uint8((ir >> 3) & 7)
		reg := uint8(ir & 7)
		ext := d.next()
		base := d.ea(mode, reg)
		return fmt.Sprintf("%s %s {%d:%d}", ops[op], base, (ext>>6)&0x1F, ext&0x1F)
	}

	if ir&0xF000 == 0xE000 && ir&0x00C0 == 0x00C0 {
		mode := uint8((ir >> 3) & 7)
		reg := uint8(ir & 7)
		dir := "R"
		if ir&0x0100 != 0 {
			dir = "L"
		}
		kind := [4]string{"AS", "LS", "ROX", "RO"}[(ir>>9)&3]
		return fmt.Sprintf("%s%s %s", kind, dir, d.ea(mode, reg))
	}

	if ir&0xF000 == 0xE000 {
		count := (ir >> 9) & 7
		countIsReg := ir&0x20 != 0
		dir := "R"
		if ir&0x0100 != 0 {
			dir = "L"
		}
		kind := [4]string{"AS", "LS", "ROX", "RO"}[(ir>>3)&3]
		sz := (ir >> 6) & 3
		dn := ir & 7
		if countIsReg {
			return fmt.Sprintf("%s%s%s D%d,D%d", kind, dir, sizeSuffix[sz], count, dn)
		}
		if count == 0 {
			count = 8
		}
		return fmt.Sprintf("%s%s%s #%d,D%d", kind, dir, sizeSuffix[sz], count, dn)
	}

	return fmt.Sprintf(".DCW $%04X", ir)
}
