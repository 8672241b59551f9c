package dbgshell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptarmigan-systems/m68kcore"
)

func newTestShell() *Shell {
	bus := &FlatBus{}
	// MOVEQ #$12,D0 then NOP: no test steps past these two instructions.
	bus.Load(0x400, []byte{0x70, 0x12, 0x4E, 0x71})
	cpu := m68k.New(bus, m68k.M68000)
	cpu.SetState(m68k.Registers{PC: 0x400, SR: 0x2700, A: cpu.Registers().A})
	return New(cpu, bus)
}

func TestProcessUnknownCommand(t *testing.T) {
	s := newTestShell()
	quit, err := s.Process("bogus")
	require.Error(t, err)
	assert.False(t, quit)
}

func TestProcessQuit(t *testing.T) {
	s := newTestShell()
	quit, err := s.Process("quit")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestProcessStepAdvancesPC(t *testing.T) {
	s := newTestShell()
	_, err := s.Process("step")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x402), s.CPU.Registers().PC)
}

func TestProcessStepWithCount(t *testing.T) {
	s := newTestShell()
	_, err := s.Process("step 2")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x404), s.CPU.Registers().PC)
}

func TestProcessBreakStopsContinue(t *testing.T) {
	s := newTestShell()
	_, err := s.Process("break $404")
	require.NoError(t, err)
	_, err = s.Process("continue")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x404), s.CPU.Registers().PC)
}

func TestMatchCommandPrefix(t *testing.T) {
	matches := matchList("s")
	require.Len(t, matches, 1)
	assert.Equal(t, "step", matches[0].name)
}

func TestMatchCommandAmbiguous(t *testing.T) {
	// "re" matches both "regs" and "reset".
	matches := matchList("re")
	assert.GreaterOrEqual(t, len(matches), 2)
}

func TestCompleteCmd(t *testing.T) {
	got := CompleteCmd("br")
	assert.Contains(t, got, "break")
}
