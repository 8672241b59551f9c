package m68k

// CPUModel selects which member of the 68000 family the core emulates.
// The decoder, exception engine, and effective-address engine each read
// this tag to select the handful of behaviors that diverge between the
// two supported processors; everything else is shared.
type CPUModel int

const (
	// M68000 is the original 16-bit-bus processor: one-bit trace, no
	// master mode, brief extension words only, absolute vector table.
	M68000 CPUModel = iota
	// M68030 adds two-bit trace, master mode with its own stack pointer,
	// a VBR-relative vector table, full extension words, bit-field
	// instructions, 32-bit multiply/divide, and a PMMU F-line space.
	M68030
)

func (m CPUModel) String() string {
	switch m {
	case M68000:
		return "68000"
	case M68030:
		return "68030"
	default:
		return "unknown"
	}
}

// has030 reports whether the model is the 68030 (or a future superset).
// Kept as a named predicate rather than scattering model == M68030
// comparisons, mirroring how the teacher keeps supervisor()/halted() as
// named boolean queries instead of inline field tests.
func (c *CPU) has030() bool {
	return c.model == M68030
}
