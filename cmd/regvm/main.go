// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/ezrec/regvm/cpu"
	"github.com/ezrec/regvm/emulator"
)

type defineList map[string]string

func (dl defineList) String() string { return "" }
func (dl defineList) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("define %q is not NAME=VALUE", s)
	}
	dl[name] = value
	return nil
}

func main() {
	var program string
	var input string
	var output string
	var verbose bool
	var dump bool
	defines := defineList{}

	flag.StringVar(&program, "c", "", "token program file to run")
	flag.StringVar(&input, "i", "-", "in_int input")
	flag.StringVar(&output, "o", "-", "cat output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "dump", false, "Dump machine state on exit")
	flag.Var(defines, "D", "Predefine `NAME=VALUE` for $(...) expressions (repeatable)")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(program) == 0 {
		log.Fatalf("%v: no program, use -c", os.Args[0])
	}

	inf, err := os.Open(program)
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	ld := &cpu.Loader{Verbose: verbose}
	for name, value := range defines {
		ld.Predefine(name, value)
	}
	prog, err := ld.Parse(inf)
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", program, err)
	}

	emu := emulator.NewEmulator()
	emu.Program = prog
	emu.Verbose = verbose

	if input == "-" {
		emu.Console.Input = os.Stdin
	} else {
		inf, err := os.Open(input)
		if err != nil {
			log.Fatalf("%v: %v", input, err)
		}
		defer inf.Close()
		emu.Console.Input = inf
	}

	if output == "-" {
		emu.Console.Output = os.Stdout
	} else {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Console.Output = ouf
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Reset()
	if err == nil {
		err = emu.Run(ctx)
	}

	if dump {
		for name, value := range emu.State() {
			fmt.Fprintf(os.Stderr, "% 5s: %v\n", name, value)
		}
	}

	if err != nil {
		log.Printf("%v: %v", program, err)
		stop()
		os.Exit(1)
	}
}
