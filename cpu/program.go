package cpu

import (
	"iter"
	"slices"
)

// Program is the token memory of the machine. It is never modified by
// execution.
type Program struct {
	Tokens []string // Opcode names, register references and literals.
	Lines  []int    // Source line of each token, if known.
}

// NewProgram creates a program from a token list.
func NewProgram(tokens ...string) *Program {
	return &Program{Tokens: tokens}
}

// Len returns the number of tokens in the program.
func (prog *Program) Len() int {
	return len(prog.Tokens)
}

// Token returns the token at pc.
func (prog *Program) Token(pc int) (token string, ok bool) {
	if pc < 0 || pc >= len(prog.Tokens) {
		return
	}

	return prog.Tokens[pc], true
}

// LineNo returns the source line of the token at pc, or 0 if unknown.
func (prog *Program) LineNo(pc int) int {
	if pc < 0 || pc >= len(prog.Lines) {
		return 0
	}

	return prog.Lines[pc]
}

// All yields each token index and token.
func (prog *Program) All() iter.Seq2[int, string] {
	return slices.All(prog.Tokens)
}

func (prog *Program) append(lineno int, tokens ...string) {
	prog.Tokens = append(prog.Tokens, tokens...)
	for range tokens {
		prog.Lines = append(prog.Lines, lineno)
	}
}
