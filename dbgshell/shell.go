// Package dbgshell is an interactive register/memory debugger for the
// m68k core: a small REPL with step/regs/disasm/break/cont/reset/load/quit
// commands, built the way rcornwell-S370's command/reader and
// command/parser packages build the S370 console.
package dbgshell

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/ptarmigan-systems/m68kcore"
)

// Shell wires a CPU and its backing FlatBus to the command table.
type Shell struct {
	CPU  *m68k.CPU
	Bus  *FlatBus
	Brk  map[uint32]bool
	quit bool
}

// New creates a Shell around cpu/bus, with no breakpoints set.
func New(cpu *m68k.CPU, bus *FlatBus) *Shell {
	return &Shell{CPU: cpu, Bus: bus, Brk: map[uint32]bool{}}
}

type cmd struct {
	name     string
	min      int
	process  func(*Shell, *cmdLine) error
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

func (l *cmdLine) skipSpace() {
	for !l.isEOL() && l.line[l.pos] == ' ' {
		l.pos++
	}
}

// getWord returns the next whitespace-delimited token and advances pos.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for !l.isEOL() && l.line[l.pos] != ' ' {
		l.pos++
	}
	return l.line[start:l.pos]
}

var cmdList = []cmd{
	{name: "step", min: 1, process: cmdStep},
	{name: "regs", min: 1, process: cmdRegs},
	{name: "disasm", min: 2, process: cmdDisasm},
	{name: "break", min: 2, process: cmdBreak},
	{name: "continue", min: 1, process: cmdContinue},
	{name: "reset", min: 2, process: cmdReset},
	{name: "load", min: 1, process: cmdLoad},
	{name: "quit", min: 1, process: cmdQuit},
}

// matchCommand reports whether command matches name down to its
// minimum unambiguous prefix length (e.g. "s" matches "step").
func matchCommand(c cmd, command string) bool {
	if len(command) > len(c.name) || len(command) < c.min {
		return false
	}
	return c.name[:len(command)] == command
}

func matchList(command string) []cmd {
	var out []cmd
	for _, c := range cmdList {
		if matchCommand(c, command) {
			out = append(out, c)
		}
	}
	return out
}

// Process executes one command line against the shell's CPU/bus.
// Returns (quit, err): quit is true once "quit" has been processed.
func (s *Shell) Process(line string) (bool, error) {
	cl := &cmdLine{line: line}
	word := cl.getWord()
	if word == "" {
		return false, nil
	}

	match := matchList(word)
	switch {
	case len(match) == 0:
		return false, errors.New("command not found: " + word)
	case len(match) > 1:
		return false, errors.New("ambiguous command: " + word)
	}

	if err := match[0].process(s, cl); err != nil {
		return s.quit, err
	}
	return s.quit, nil
}

// CompleteCmd returns tab-completion candidates for line, used by
// liner's SetCompleter.
func CompleteCmd(line string) []string {
	cl := &cmdLine{line: line}
	name := cl.getWord()

	matches := matchList(name)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.name)
	}
	return out
}

func cmdQuit(s *Shell, _ *cmdLine) error {
	s.quit = true
	return nil
}

func cmdStep(s *Shell, l *cmdLine) error {
	n := 1
	if w := l.getWord(); w != "" {
		v, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("step: bad count %q: %w", w, err)
		}
		n = v
	}
	for i := 0; i < n && !s.CPU.Halted(); i++ {
		s.CPU.Step()
		pc := s.CPU.Registers().PC
		if s.Brk[pc] {
			slog.Info("breakpoint hit", "pc", fmt.Sprintf("%06x", pc))
			break
		}
	}
	return nil
}

func cmdContinue(s *Shell, _ *cmdLine) error {
	for !s.CPU.Halted() {
		s.CPU.Step()
		pc := s.CPU.Registers().PC
		if s.Brk[pc] {
			slog.Info("breakpoint hit", "pc", fmt.Sprintf("%06x", pc))
			return nil
		}
	}
	return nil
}

func cmdRegs(s *Shell, _ *cmdLine) error {
	fmt.Print(spew.Sdump(s.CPU.Registers()))
	return nil
}

func cmdDisasm(s *Shell, l *cmdLine) error {
	addr, err := parseHex(l.getWord())
	if err != nil {
		return fmt.Errorf("disasm: %w", err)
	}
	n := 1
	if w := l.getWord(); w != "" {
		if v, err := strconv.Atoi(w); err == nil {
			n = v
		}
	}
	for i := 0; i < n; i++ {
		words := []uint16{
			uint16(s.Bus.Read(m68k.Word, addr)),
			uint16(s.Bus.Read(m68k.Word, addr+2)),
			uint16(s.Bus.Read(m68k.Word, addr+4)),
		}
		text, consumed := m68k.Disassemble(words)
		fmt.Printf("%06x  %s\n", addr, text)
		addr += uint32(consumed) * 2
	}
	return nil
}

func cmdBreak(s *Shell, l *cmdLine) error {
	addr, err := parseHex(l.getWord())
	if err != nil {
		return fmt.Errorf("break: %w", err)
	}
	s.Brk[addr] = true
	return nil
}

func cmdReset(s *Shell, _ *cmdLine) error {
	s.CPU.Reset()
	return nil
}

func cmdLoad(s *Shell, l *cmdLine) error {
	_ = l
	return errors.New("load: use m68kdbg -rom instead of the shell command")
}

func parseHex(w string) (uint32, error) {
	w = strings.TrimPrefix(strings.TrimPrefix(w, "0x"), "$")
	v, err := strconv.ParseUint(w, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad hex address %q: %w", w, err)
	}
	return uint32(v), nil
}
