package cpu

import (
	"iter"
)

// Register names one of the general purpose registers.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_AX = Register(0) // ax
	REG_BX = Register(1) // bx
	REG_CX = Register(2) // cx
	REG_DX = Register(3) // dx
	REG_EX = Register(4) // ex
	REG_FX = Register(5) // fx
	REG_GX = Register(6) // gx
	REG_HX = Register(7) // hx
)

// REG_COUNT is the number of general purpose registers.
const REG_COUNT = 8

// REG_SIGIL prefixes a register reference token.
const REG_SIGIL = '%'

var regByName = func() map[string]Register {
	names := make(map[string]Register, REG_COUNT)
	for reg := range Register(REG_COUNT) {
		names[reg.String()] = reg
	}
	return names
}()

// RegisterOf returns the register for a bare name such as "ax".
func RegisterOf(name string) (reg Register, ok bool) {
	reg, ok = regByName[name]
	return
}

// Registers is the register file: the general purpose bank, the program
// counter and the condition flag.
type Registers struct {
	Bank [REG_COUNT]float64 // General purpose registers.
	Pc   int                // Program counter, a token index.
	Flag int                // Condition flag, 0 or 1.
}

// Reset zeroes the register file.
func (regs *Registers) Reset() {
	clear(regs.Bank[:])
	regs.Pc = 0
	regs.Flag = 0
}

// Get returns the value of a register.
func (regs *Registers) Get(reg Register) float64 {
	return regs.Bank[reg]
}

// Set assigns the value of a register.
func (regs *Registers) Set(reg Register, value float64) {
	regs.Bank[reg] = value
}

// All yields each general purpose register name and value, in bank order.
func (regs *Registers) All() iter.Seq2[string, float64] {
	return func(yield func(name string, value float64) bool) {
		for n, value := range regs.Bank {
			if !yield(Register(n).String(), value) {
				return
			}
		}
	}
}
