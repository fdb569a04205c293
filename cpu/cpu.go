package cpu

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/ezrec/regvm/io"
)

// Port is the console attached to the machine.
type Port io.Port

// handler executes one decoded instruction. Every handler leaves the
// program counter at the next instruction to fetch.
type handler func(cpu *Cpu, ctx context.Context, args []Operand) error

var opHandler = [OP_COUNT]handler{
	OP_EXIT:   (*Cpu).opExit,
	OP_IN_INT: (*Cpu).opInInt,
	OP_MOV:    (*Cpu).opMov,
	OP_CAT:    (*Cpu).opCat,
	OP_ADD:    arith(func(a, b float64) float64 { return a + b }),
	OP_SUB:    arith(func(a, b float64) float64 { return a - b }),
	OP_MUL:    arith(func(a, b float64) float64 { return a * b }),
	OP_MOD:    arith(math.Mod),
	OP_INC:    step(1),
	OP_DEC:    step(-1),
	OP_MIN:    arith(math.Min),
	OP_MAX:    arith(math.Max),
	OP_CMP:    (*Cpu).opCmp,
	OP_PASS:   (*Cpu).opPass,
	OP_JMP:    (*Cpu).opJmp,
	OP_JEQ:    (*Cpu).opJeq,
	OP_JNE:    (*Cpu).opJne,
}

// Cpu is the simulation context for the register machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Registers      // Register file.
	Halted    bool // Set once the machine stops.
	Port      Port // Console used by in_int and cat.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new machine attached to a console.
func NewCpu(port Port) (cpu *Cpu) {
	cpu = &Cpu{
		Port: port,
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	state := "running"
	if cpu.Halted {
		state = "halted"
	}

	text += fmt.Sprintf("% 5s: %v\n", "state", state)
	text += fmt.Sprintf("% 5s: %d\n", "pc", cpu.Pc)
	text += fmt.Sprintf("% 5s: %d\n", "flag", cpu.Flag)
	for name, value := range cpu.Registers.All() {
		text += fmt.Sprintf("% 5s: %v\n", name, io.FormatNumber(value))
	}

	return
}

// Reset the CPU state.
// - Clears the registers, program counter and condition flag.
// - Zeros the tick counter.
// - Returns the machine to the running state.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Halted = false
	cpu.Ticks = 0
}

// Fetch decodes the opcode at the program counter.
func (cpu *Cpu) Fetch(prog *Program) (op Opcode, err error) {
	token, ok := prog.Token(cpu.Pc)
	if !ok {
		err = errors.Join(ErrOpcode{Pc: cpu.Pc}, ErrPcRange)
		return
	}

	op, ok = OpcodeOf(token)
	if !ok {
		err = errors.Join(ErrOpcode{Pc: cpu.Pc, Token: token}, ErrOpcodeUndefined)
		return
	}

	return
}

// Tick executes a single instruction cycle.
// Any failure, including cancellation of ctx, halts the machine.
func (cpu *Cpu) Tick(ctx context.Context, prog *Program) (err error) {
	if cpu.Halted {
		err = ErrHalted
		return
	}

	defer func() {
		if err != nil {
			cpu.Halted = true
			if cpu.Verbose {
				log.Printf("cpu: halted: %v", err)
			}
		}
	}()

	err = ctx.Err()
	if err != nil {
		return
	}

	op, err := cpu.Fetch(prog)
	if err != nil {
		return
	}

	err = cpu.Execute(ctx, prog, op)
	return
}

// Execute executes the instruction at the program counter as op.
func (cpu *Cpu) Execute(ctx context.Context, prog *Program, op Opcode) (err error) {
	pc := cpu.Pc
	defer func() {
		if err != nil {
			token, _ := prog.Token(pc)
			err = errors.Join(ErrOpcode{Pc: pc, Token: token}, err)
		}
	}()

	if !op.Valid() {
		err = ErrOpcodeUndefined
		return
	}

	args, err := cpu.operands(prog, op)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("%04d: %v %v", pc, op, args)
	}

	err = opHandler[op](cpu, ctx, args)
	if err != nil {
		return
	}

	cpu.Ticks++

	return
}

// operands decodes the operand tokens following the opcode at the program counter.
func (cpu *Cpu) operands(prog *Program, op Opcode) (args []Operand, err error) {
	args = make([]Operand, op.Args())
	for n := range args {
		token, ok := prog.Token(cpu.Pc + 1 + n)
		if !ok {
			err = ErrOperandMissing
			return
		}
		args[n] = ParseOperand(token)
	}

	return
}

// getValue resolves an operand for reading.
func (cpu *Cpu) getValue(arg Operand) (value float64, err error) {
	switch arg.Kind {
	case OPERAND_REGISTER:
		value = cpu.Get(arg.Register)
	case OPERAND_LITERAL:
		value = arg.Value
	default:
		err = ErrRegisterInvalid(arg.Token)
	}

	return
}

// setValue resolves an operand for writing.
func (cpu *Cpu) setValue(arg Operand, value float64) (err error) {
	switch arg.Kind {
	case OPERAND_REGISTER:
		cpu.Set(arg.Register, value)
	case OPERAND_LITERAL:
		err = ErrOperandNotWritable(arg.Token)
	default:
		err = ErrRegisterInvalid(arg.Token)
	}

	return
}

// jump assigns the program counter from an operand.
func (cpu *Cpu) jump(arg Operand) (err error) {
	target, err := cpu.getValue(arg)
	if err != nil {
		return
	}

	// NaN fails the integral check.
	if target < 0 || target > math.MaxInt32 || target != math.Trunc(target) {
		err = errors.Join(ErrPcRange, ErrJumpTarget(target))
		return
	}

	cpu.Pc = int(target)

	return
}

// arith is a two operand instruction: arg1 = fn(arg1, arg2).
func arith(fn func(a, b float64) float64) handler {
	return func(cpu *Cpu, _ context.Context, args []Operand) (err error) {
		cpu.Pc += 3

		a, err := cpu.getValue(args[0])
		if err != nil {
			err = errors.Join(ErrOperandArg1, err)
			return
		}
		b, err := cpu.getValue(args[1])
		if err != nil {
			err = errors.Join(ErrOperandArg2, err)
			return
		}

		err = cpu.setValue(args[0], fn(a, b))
		if err != nil {
			err = errors.Join(ErrOperandArg1, err)
		}
		return
	}
}

// step is a one operand instruction: arg1 = arg1 + delta.
func step(delta float64) handler {
	return func(cpu *Cpu, _ context.Context, args []Operand) (err error) {
		cpu.Pc += 2

		a, err := cpu.getValue(args[0])
		if err == nil {
			err = cpu.setValue(args[0], a+delta)
		}
		if err != nil {
			err = errors.Join(ErrOperandArg1, err)
		}
		return
	}
}

func (cpu *Cpu) opExit(_ context.Context, _ []Operand) (err error) {
	cpu.Pc += 1
	cpu.Halted = true
	return
}

// opInInt suspends until the console supplies a line.
func (cpu *Cpu) opInInt(ctx context.Context, args []Operand) (err error) {
	cpu.Pc += 2

	// Fail before consuming input.
	if !args[0].Writable() {
		err = errors.Join(ErrOperandArg1, cpu.setValue(args[0], 0))
		return
	}

	if cpu.Port == nil {
		err = ErrPortMissing
		return
	}

	line, err := cpu.Port.RequestLine(ctx)
	if err != nil {
		return
	}

	err = cpu.setValue(args[0], ToNumber(line))
	return
}

func (cpu *Cpu) opMov(_ context.Context, args []Operand) (err error) {
	cpu.Pc += 3

	value, err := cpu.getValue(args[1])
	if err != nil {
		err = errors.Join(ErrOperandArg2, err)
		return
	}

	err = cpu.setValue(args[0], value)
	if err != nil {
		err = errors.Join(ErrOperandArg1, err)
	}
	return
}

func (cpu *Cpu) opCat(_ context.Context, args []Operand) (err error) {
	cpu.Pc += 2

	value, err := cpu.getValue(args[0])
	if err != nil {
		err = errors.Join(ErrOperandArg1, err)
		return
	}

	if cpu.Port == nil {
		err = ErrPortMissing
		return
	}

	err = cpu.Port.Emit(value)
	return
}

// opCmp sets the flag on numeric equality. NaN is never equal.
func (cpu *Cpu) opCmp(_ context.Context, args []Operand) (err error) {
	cpu.Pc += 3

	a, err := cpu.getValue(args[0])
	if err != nil {
		err = errors.Join(ErrOperandArg1, err)
		return
	}
	b, err := cpu.getValue(args[1])
	if err != nil {
		err = errors.Join(ErrOperandArg2, err)
		return
	}

	cpu.Flag = 0
	if a == b {
		cpu.Flag = 1
	}
	return
}

func (cpu *Cpu) opPass(_ context.Context, _ []Operand) (err error) {
	cpu.Pc += 1
	return
}

// opJmp assigns the program counter without advancing past the instruction.
func (cpu *Cpu) opJmp(_ context.Context, args []Operand) (err error) {
	err = cpu.jump(args[0])
	if err != nil {
		err = errors.Join(ErrOperandArg1, err)
	}
	return
}

// opJeq advances, then jumps if the flag is set.
func (cpu *Cpu) opJeq(_ context.Context, args []Operand) (err error) {
	cpu.Pc += 2

	if cpu.Flag != 0 {
		err = cpu.jump(args[0])
		if err != nil {
			err = errors.Join(ErrOperandArg1, err)
		}
	}
	return
}

// opJne advances, then jumps if the flag is clear.
func (cpu *Cpu) opJne(_ context.Context, args []Operand) (err error) {
	cpu.Pc += 2

	if cpu.Flag == 0 {
		err = cpu.jump(args[0])
		if err != nil {
			err = errors.Join(ErrOperandArg1, err)
		}
	}
	return
}
