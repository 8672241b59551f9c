package dbgshell

import "github.com/ptarmigan-systems/m68kcore"

// FlatBus is a flat 16MB byte-addressable memory, the simplest Bus
// m68k.CPU can be wired to: enough to load a ROM image and single-step
// it under the debugger, with no device model behind it.
type FlatBus struct {
	mem [16 * 1024 * 1024]byte
}

func (b *FlatBus) Read(sz m68k.Size, addr uint32) uint32 {
	addr &= 0xFFFFFF
	switch sz {
	case m68k.Byte:
		return uint32(b.mem[addr])
	case m68k.Word:
		return uint32(b.mem[addr])<<8 | uint32(b.mem[addr+1])
	case m68k.Long:
		return uint32(b.mem[addr])<<24 | uint32(b.mem[addr+1])<<16 |
			uint32(b.mem[addr+2])<<8 | uint32(b.mem[addr+3])
	}
	return 0
}

func (b *FlatBus) Write(sz m68k.Size, addr uint32, val uint32) {
	addr &= 0xFFFFFF
	switch sz {
	case m68k.Byte:
		b.mem[addr] = byte(val)
	case m68k.Word:
		b.mem[addr] = byte(val >> 8)
		b.mem[addr+1] = byte(val)
	case m68k.Long:
		b.mem[addr] = byte(val >> 24)
		b.mem[addr+1] = byte(val >> 16)
		b.mem[addr+2] = byte(val >> 8)
		b.mem[addr+3] = byte(val)
	}
}

func (b *FlatBus) Reset() {}

// Load copies data into memory starting at addr, for ROM/program loading.
func (b *FlatBus) Load(addr uint32, data []byte) {
	copy(b.mem[addr&0xFFFFFF:], data)
}
