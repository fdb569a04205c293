package cpu

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted          = errors.New(f("halted"))
	ErrPcRange         = errors.New(f("pc out of range"))
	ErrOpcodeUndefined = errors.New(f("opcode undefined"))
	ErrOperandMissing  = errors.New(f("operand missing"))
	ErrPortMissing     = errors.New(f("port missing"))

	// Operand errors
	ErrOperandArg1 = errors.New(f("arg1"))
	ErrOperandArg2 = errors.New(f("arg2"))

	// Loader errors
	ErrTokenInvalid = errors.New(f("token invalid"))
)

// ErrOpcode identifies the instruction that failed.
type ErrOpcode struct {
	Pc    int
	Token string
}

func (eo ErrOpcode) Error() string {
	if len(eo.Token) == 0 {
		return f("pc %d", eo.Pc)
	}
	return f("opcode '%v' at %d", eo.Token, eo.Pc)
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrRegisterInvalid is a register reference outside of the register file.
type ErrRegisterInvalid string

func (er ErrRegisterInvalid) Error() string {
	return f("register '%v' invalid", string(er))
}

// ErrOperandNotWritable is an assignment to something other than a register.
type ErrOperandNotWritable string

func (ew ErrOperandNotWritable) Error() string {
	return f("'%v' is not a register", string(ew))
}

// ErrJumpTarget is a jump to a value that is not a token index.
type ErrJumpTarget float64

func (ej ErrJumpTarget) Error() string {
	return f("jump target %v invalid", float64(ej))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
