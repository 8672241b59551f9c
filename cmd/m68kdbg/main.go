// Command m68kdbg is a thin register/memory debugger around the m68k
// core: it loads a ROM image into a flat bus, wires up a CPU of the
// requested model, and drops into an interactive shell. It is the
// "driver" spec.md describes, not a second emulator: no video, sound,
// SCC, SCSI, floppy, VIA, or scheduler live here.
package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/ptarmigan-systems/m68kcore"
	"github.com/ptarmigan-systems/m68kcore/dbglog"
	"github.com/ptarmigan-systems/m68kcore/dbgshell"
)

func main() {
	optROM := getopt.StringLong("rom", 'r', "", "ROM image to load at address 0")
	optModel := getopt.StringLong("model", 'm', "68000", "CPU model: 68000 or 68030")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror all log levels to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("can't create log file", "path", *optLogFile, "err", err)
			os.Exit(1)
		}
	}

	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	logger := slog.New(dbglog.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, *optDebug))
	slog.SetDefault(logger)

	var model m68k.CPUModel
	switch *optModel {
	case "68000":
		model = m68k.M68000
	case "68030":
		model = m68k.M68030
	default:
		slog.Error("unknown -model", "model", *optModel)
		os.Exit(1)
	}

	bus := &dbgshell.FlatBus{}
	if *optROM != "" {
		data, err := os.ReadFile(*optROM)
		if err != nil {
			slog.Error("can't read ROM", "path", *optROM, "err", err)
			os.Exit(1)
		}
		bus.Load(0, data)
	}

	cpu := m68k.New(bus, model)
	slog.Info("m68kdbg started", "model", model.String(), "pc", cpu.Registers().PC)

	shell := dbgshell.New(cpu, bus)
	shell.Run()
}
