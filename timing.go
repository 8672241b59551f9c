package m68k

// eaBaseCycles is the PRM Table 8-1 addressing-mode cost shared by
// eaFetchCycles and eaWriteCycles: modes 0-6 cost the same on both the
// read and write side except -(An), supplied via predecCost, and mode 7
// (the absolute/PC-relative/immediate family) whose valid sub-cases
// differ between a source and a destination, supplied via mode7.
func eaBaseCycles(mode, reg uint8, predecCost uint64, mode7 func(reg uint8) uint64) uint64 {
	switch mode {
	case 0, 1: // Dn, An
		return 0
	case 2, 3: // (An), (An)+
		return 4
	case 4: // -(An)
		return predecCost
	case 5: // d16(An)
		return 8
	case 6: // d8(An,Xn)
		return 10
	case 7:
		return mode7(reg)
	}
	return 0
}

// eaFetchCycles returns the source operand EA timing (PRM Table 8-1).
// For register-direct modes (Dn, An) returns 0.
// For memory/immediate modes returns the fetch cost.
// Long adds 4 to all non-zero values.
func eaFetchCycles(mode, reg uint8, sz Size) uint64 {
	base := eaBaseCycles(mode, reg, 6, func(reg uint8) uint64 {
		switch reg {
		case 0: // abs.W
			return 8
		case 1: // abs.L
			return 12
		case 2: // d16(PC)
			return 8
		case 3: // d8(PC,Xn)
			return 10
		case 4: // #imm
			return 4
		}
		return 0
	})
	if sz == Long && base > 0 {
		base += 4
	}
	return base
}

// eaWriteCycles returns the destination EA write timing.
// Same as eaFetchCycles except -(An) costs 4 (not 6), and mode 7 only
// has abs.W/abs.L destinations (PC-relative and immediate are never
// write targets).
func eaWriteCycles(mode, reg uint8, sz Size) uint64 {
	base := eaBaseCycles(mode, reg, 4, func(reg uint8) uint64 {
		switch reg {
		case 0: // abs.W
			return 8
		case 1: // abs.L
			return 12
		}
		return 0
	})
	if sz == Long && base > 0 {
		base += 4
	}
	return base
}
