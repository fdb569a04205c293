// Package cpu implements the register machine and its program loader.
//
// The machine consists of a program counter indexing a read-only token
// program, eight general-purpose registers (%ax-%hx) holding float64
// values, and a condition flag set by cmp and tested by jeq and jne.
// Each opcode occupies a fixed number of tokens; handlers advance the
// program counter past their own instruction, except jmp which assigns
// it directly.
//
// The loader reads whitespace separated tokens, supporting comments and
// compile-time $(...) expressions. It does not resolve labels.
package cpu
