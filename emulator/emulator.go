// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs token programs on the register machine.
package emulator

import (
	"context"
	"errors"
	"iter"
	"log"
	"strconv"

	"github.com/ezrec/regvm/cpu"
	"github.com/ezrec/regvm/internal"
	"github.com/ezrec/regvm/io"
)

// Emulator state. CPU + program + console.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program.

	Console io.Console // Default console, attached at creation.
}

// NewEmulator creates a new emulator using its own Console.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Program: &cpu.Program{},
	}
	emu.Cpu = cpu.NewCpu(&emu.Console)

	return
}

// Attach replaces the console used by the machine.
func (emu *Emulator) Attach(port io.Port) {
	emu.Cpu.Port = port
}

// Reset the machine to the running state at the start of the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	if emu.Verbose {
		log.Printf("emulator: reset, %d tokens", emu.Program.Len())
	}

	return
}

// Ip returns the current program counter.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Pc
}

// LineNo returns the current line number for the executing token.
func (emu *Emulator) LineNo() int {
	return emu.Program.LineNo(emu.Cpu.Pc)
}

// Tick performs a single instruction of the emulator.
// done is set once the machine has halted.
func (emu *Emulator) Tick(ctx context.Context) (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick(ctx, emu.Program)
	if errors.Is(err, cpu.ErrHalted) {
		err = nil
		done = true
		return
	}
	if err != nil {
		return
	}

	done = emu.Cpu.Halted

	return
}

// Run ticks until the machine halts. Cancelling ctx halts the machine,
// including while it waits for input.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for {
		var done bool
		done, err = emu.Tick(ctx)
		if err != nil || done {
			break
		}
	}

	if emu.Verbose {
		log.Printf("emulator: halted after %d ticks", emu.Cpu.Ticks)
	}

	return
}

// State returns an iterator over the machine state, as text.
func (emu *Emulator) State() iter.Seq2[string, string] {
	state := "running"
	if emu.Cpu.Halted {
		state = "halted"
	}

	control := [][2]string{
		{"state", state},
		{"pc", strconv.Itoa(emu.Cpu.Pc)},
		{"flag", strconv.Itoa(emu.Cpu.Flag)},
		{"ticks", strconv.Itoa(emu.Cpu.Ticks)},
	}

	return internal.IterSeq2Concat[string, string](
		func(yield func(string, string) bool) {
			for _, kv := range control {
				if !yield(kv[0], kv[1]) {
					return
				}
			}
		},
		internal.IterSeq2Map(emu.Cpu.Registers.All(), io.FormatNumber),
	)
}
