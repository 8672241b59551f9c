package m68k

// resolveEAFull decodes a 68030 full extension word (bit 8 set) following
// a brief-extension-eligible mode (d8(An,Xn) or d8(PC,Xn)). base is the
// address register or PC value the brief form would have indexed from.
//
// Layout of ext: D/A(1) Reg(3) W/L(1) Scale(2) 1(full) BS(1) IS(1)
// BDSize(2) 0(1) IIS(3).
//
// The result is computed per the documented formula:
// ((base ⊕ suppress) + (index·scale ⊕ suppress) + bd) → optional memory
// indirect load → + od, where the index is added before the memory
// indirect load for preindexed forms and after it for postindexed forms.
func (c *CPU) resolveEAFull(base uint32, ext uint16) uint32 {
	baseSuppress := ext&0x0080 != 0
	indexSuppress := ext&0x0040 != 0
	bdSize := (ext >> 4) & 3
	iis := ext & 7

	var bd int32
	switch bdSize {
	case 2:
		bd = int32(int16(c.fetchPC()))
	case 3:
		bd = int32(c.fetchPCLong())
	default:
		bd = 0 // 0 (reserved) and 1 (null) both contribute nothing
	}

	var index int32
	if !indexSuppress {
		xn := (ext >> 12) & 7
		var v int32
		if ext&0x8000 != 0 {
			v = int32(c.reg.A[xn])
		} else {
			v = int32(c.reg.D[xn])
		}
		if ext&0x0800 == 0 {
			v = int32(int16(v))
		}
		scale := int32(1) << ((ext >> 9) & 3)
		index = v * scale
	}

	var baseVal int32
	if !baseSuppress {
		baseVal = int32(base)
	}

	if iis == 0 {
		return uint32(baseVal + index + bd)
	}

	var od int32
	switch iis & 3 {
	case 2:
		od = int32(int16(c.fetchPC()))
	case 3:
		od = int32(c.fetchPCLong())
	default:
		od = 0
	}

	if iis <= 3 {
		// Preindexed: index is folded in before the memory indirect load.
		indirect := uint32(baseVal + bd + index)
		mem := int32(c.readBus(Long, indirect))
		return uint32(mem + od)
	}

	// Postindexed: the memory indirect load happens on base+bd alone,
	// with the index added to the loaded value afterward.
	indirect := uint32(baseVal + bd)
	mem := int32(c.readBus(Long, indirect))
	return uint32(mem + index + od)
}
