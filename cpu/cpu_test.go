package cpu

import (
	"bytes"
	"context"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/regvm/io"
)

// scriptPort replays input lines and records emitted values.
type scriptPort struct {
	input  []string
	output []float64
}

func (sp *scriptPort) RequestLine(ctx context.Context) (line string, err error) {
	if len(sp.input) == 0 {
		err = io.ErrInputClosed
		return
	}
	line = sp.input[0]
	sp.input = sp.input[1:]
	return
}

func (sp *scriptPort) Emit(value float64) error {
	sp.output = append(sp.output, value)
	return nil
}

// runProgram ticks until the machine halts, or fails the test if it does not.
func runProgram(t *testing.T, cpu *Cpu, prog *Program) (err error) {
	t.Helper()

	for range 10000 {
		err = cpu.Tick(context.Background(), prog)
		if err != nil || cpu.Halted {
			return
		}
	}

	t.Fatalf("program did not halt, pc %d", cpu.Pc)
	return
}

func num(value float64) string {
	if math.IsNaN(value) {
		return "NaN"
	}
	return io.FormatNumber(value)
}

func TestPassExit(t *testing.T) {
	assert := assert.New(t)

	for n := range 6 {
		tokens := slices.Repeat([]string{"pass"}, n)
		tokens = append(tokens, "exit")
		prog := NewProgram(tokens...)

		cpu := NewCpu(&scriptPort{})
		err := runProgram(t, cpu, prog)
		assert.NoError(err)

		assert.True(cpu.Halted)
		assert.Equal(prog.Len(), cpu.Pc)
		assert.Equal(n+1, cpu.Ticks)
		assert.Equal(0, cpu.Flag)
		for name, value := range cpu.Registers.All() {
			assert.Equal(0.0, value, name)
		}
	}
}

func TestArith(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op       string
		a, b     float64
		expected float64
	}){
		{"add", 2, 3, 5},
		{"add", -1.5, 0.25, -1.25},
		{"sub", 2, 3, -1},
		{"mul", -4, 2.5, -10},
		{"mod", 7, 3, 1},
		{"mod", -7, 3, -1},
		{"mod", 7, -3, 1},
		{"mod", 5.5, 2, 1.5},
		{"mod", 1, 0, math.NaN()},
		{"min", 4, -2, -2},
		{"max", 4, -2, 4},
		{"add", math.NaN(), 1, math.NaN()},
		{"min", math.NaN(), 1, math.NaN()},
		{"max", 1, math.NaN(), math.NaN()},
	}

	for _, entry := range table {
		prog := NewProgram(
			"mov", "%ax", num(entry.a),
			"mov", "%bx", num(entry.b),
			entry.op, "%ax", "%bx",
			"exit",
		)

		cpu := NewCpu(&scriptPort{})
		err := runProgram(t, cpu, prog)
		assert.NoError(err, entry.op)

		ax := cpu.Get(REG_AX)
		if math.IsNaN(entry.expected) {
			assert.True(math.IsNaN(ax), "%v %v %v", entry.op, entry.a, entry.b)
		} else {
			assert.Equal(entry.expected, ax, "%v %v %v", entry.op, entry.a, entry.b)
		}
		if !math.IsNaN(entry.b) {
			assert.Equal(entry.b, cpu.Get(REG_BX), entry.op)
		}
	}
}

func TestArith_Literal(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(
		"mov", "%dx", "10",
		"sub", "%dx", "0x4",
		"mul", "%dx", " 2 ",
		"exit",
	)

	cpu := NewCpu(&scriptPort{})
	assert.NoError(runProgram(t, cpu, prog))
	assert.Equal(12.0, cpu.Get(REG_DX))
}

func TestIncDec(t *testing.T) {
	assert := assert.New(t)

	for _, start := range []float64{0, -3, 2.5, 1e9} {
		prog := NewProgram(
			"mov", "%hx", num(start),
			"inc", "%hx",
			"dec", "%hx",
			"exit",
		)

		cpu := NewCpu(&scriptPort{})
		assert.NoError(runProgram(t, cpu, prog))
		assert.Equal(start, cpu.Get(REG_HX))
	}

	prog := NewProgram("inc", "%ax", "inc", "%ax", "dec", "%bx", "exit")
	cpu := NewCpu(&scriptPort{})
	assert.NoError(runProgram(t, cpu, prog))
	assert.Equal(2.0, cpu.Get(REG_AX))
	assert.Equal(-1.0, cpu.Get(REG_BX))
}

func TestCmpJump(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		a, b  string
		equal bool
	}){
		{"3", "3", true},
		{"3", "4", false},
		{"0", "-0", true},
		{"0x10", "16", true},
		{"x", "x", false},
		{"", "0", true},
	}

	for _, jump := range []string{"jeq", "jne"} {
		for _, entry := range table {
			prog := NewProgram(
				"mov", "%ax", entry.a, // 0
				"mov", "%bx", entry.b, // 3
				"cmp", "%ax", "%bx", // 6
				jump, "15", // 9
				"mov", "%cx", "1", // 11
				"exit",            // 14
				"mov", "%cx", "2", // 15
				"exit", // 18
			)

			cpu := NewCpu(&scriptPort{})
			assert.NoError(runProgram(t, cpu, prog))

			taken := entry.equal
			if jump == "jne" {
				taken = !entry.equal
			}

			flag := 0
			if entry.equal {
				flag = 1
			}
			assert.Equal(flag, cpu.Flag, "%v %q %q", jump, entry.a, entry.b)

			if taken {
				assert.Equal(2.0, cpu.Get(REG_CX), "%v %q %q", jump, entry.a, entry.b)
				assert.Equal(19, cpu.Pc)
			} else {
				assert.Equal(1.0, cpu.Get(REG_CX), "%v %q %q", jump, entry.a, entry.b)
				assert.Equal(15, cpu.Pc)
			}
		}
	}
}

func TestJeq_NotTaken(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(
		"mov", "%ax", "3", "mov", "%bx", "4",
		"cmp", "%ax", "%bx",
		"jeq", "9",
		"mov", "%ax", "0", "exit",
		"mov", "%ax", "1", "exit",
	)

	cpu := NewCpu(&scriptPort{})
	assert.NoError(runProgram(t, cpu, prog))
	assert.Equal(0.0, cpu.Get(REG_AX))
}

func TestJeq_SelfTarget(t *testing.T) {
	assert := assert.New(t)

	// Target 9 is the jeq itself, so a taken jump spins.
	prog := NewProgram(
		"mov", "%ax", "3", "mov", "%bx", "3",
		"cmp", "%ax", "%bx",
		"jeq", "9",
		"mov", "%ax", "0", "exit",
		"mov", "%ax", "1", "exit",
	)

	cpu := NewCpu(&scriptPort{})
	for range 50 {
		assert.NoError(cpu.Tick(context.Background(), prog))
	}
	assert.False(cpu.Halted)
	assert.Equal(9, cpu.Pc)
	assert.Equal(3.0, cpu.Get(REG_AX))
}

func TestJmp(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(
		"jmp", "5", // 0
		"inc", "%ax", // 2
		"exit",       // 4
		"inc", "%bx", // 5
		"mov", "%cx", "2", // 7
		"jmp", "%cx", // 10
	)

	cpu := NewCpu(&scriptPort{})
	assert.NoError(runProgram(t, cpu, prog))
	assert.Equal(1.0, cpu.Get(REG_AX))
	assert.Equal(1.0, cpu.Get(REG_BX))
	assert.Equal(5, cpu.Pc)
}

func TestJmp_NoAdvance(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram("jmp", "0")

	cpu := NewCpu(&scriptPort{})
	for range 3 {
		assert.NoError(cpu.Tick(context.Background(), prog))
		assert.Equal(0, cpu.Pc)
	}
	assert.Equal(3, cpu.Ticks)
}

func TestCat(t *testing.T) {
	assert := assert.New(t)

	port := &scriptPort{}
	cpu := NewCpu(port)
	prog := NewProgram("mov", "%ax", "5", "cat", "%ax", "exit")
	assert.NoError(runProgram(t, cpu, prog))
	assert.Equal([]float64{5}, port.output)

	out := &bytes.Buffer{}
	cpu = NewCpu(&io.Console{Output: out})
	prog = NewProgram("mov", "%ax", "5", "cat", "%ax", "cat", "7", "cat", "%bx", "exit")
	assert.NoError(runProgram(t, cpu, prog))
	assert.Equal("5\n7\n0\n", out.String())
}

func TestInInt(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line     string
		expected float64
	}){
		{"42", 42},
		{" -7 ", -7},
		{"", 0},
		{"1e3", 1000},
		{"0b101", 5},
		{"Infinity", math.Inf(1)},
		{"abc", math.NaN()},
		{"12abc", math.NaN()},
	}

	for _, entry := range table {
		port := &scriptPort{input: []string{entry.line}}
		cpu := NewCpu(port)
		prog := NewProgram("in_int", "%gx", "inc", "%ax", "exit")
		assert.NoError(runProgram(t, cpu, prog), entry.line)

		gx := cpu.Get(REG_GX)
		if math.IsNaN(entry.expected) {
			assert.True(math.IsNaN(gx), entry.line)
		} else {
			assert.Equal(entry.expected, gx, entry.line)
		}
		assert.Equal(1.0, cpu.Get(REG_AX), entry.line)
		assert.True(cpu.Halted)
	}
}

func TestInInt_Console(t *testing.T) {
	assert := assert.New(t)

	out := &bytes.Buffer{}
	cpu := NewCpu(&io.Console{Input: strings.NewReader("6\n7\n"), Output: out})
	prog := NewProgram(
		"in_int", "%ax",
		"in_int", "%bx",
		"mul", "%ax", "%bx",
		"cat", "%ax",
		"exit",
	)
	assert.NoError(runProgram(t, cpu, prog))
	assert.Equal("42\n", out.String())
}

func TestInInt_Closed(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(&scriptPort{})
	prog := NewProgram("in_int", "%ax", "exit")
	err := runProgram(t, cpu, prog)
	assert.ErrorIs(err, io.ErrInputClosed)
	assert.ErrorIs(err, ErrOpcode{})
	assert.True(cpu.Halted)

	assert.ErrorIs(cpu.Tick(context.Background(), prog), ErrHalted)
}

func TestInInt_Suspend(t *testing.T) {
	assert := assert.New(t)

	lines := make(chan string)
	output := make(chan string, 1)
	cpu := NewCpu(&io.Async{Lines: lines, Output: output})
	prog := NewProgram("in_int", "%ax", "cat", "%ax", "exit")

	done := make(chan error)
	go func() {
		var err error
		for err == nil && !cpu.Halted {
			err = cpu.Tick(context.Background(), prog)
		}
		done <- err
	}()

	select {
	case <-done:
		t.Fatal("in_int did not wait for input")
	case <-time.After(20 * time.Millisecond):
	}

	lines <- "9"
	assert.NoError(<-done)
	assert.Equal("9", <-output)
}

func TestInInt_Canceled(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(&io.Async{Lines: make(chan string)})
	prog := NewProgram("in_int", "%ax", "exit")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := cpu.Tick(ctx, prog)
	assert.ErrorIs(err, context.DeadlineExceeded)
	assert.True(cpu.Halted)
}

func TestTick_Canceled(t *testing.T) {
	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cpu := NewCpu(&scriptPort{})
	err := cpu.Tick(ctx, NewProgram("exit"))
	assert.ErrorIs(err, context.Canceled)
	assert.True(cpu.Halted)
	assert.Equal(0, cpu.Pc)
}

func TestErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name     string
		program  []string
		expected error
		pc       int
	}){
		{"undefined", []string{"pass", "nop"}, ErrOpcodeUndefined, 1},
		{"empty", []string{}, ErrPcRange, 0},
		{"fall_off", []string{"pass"}, ErrPcRange, 1},
		{"jump_past", []string{"jmp", "100"}, ErrPcRange, 100},
		{"jump_negative", []string{"jmp", "-1"}, ErrPcRange, 0},
		{"jump_fraction", []string{"jmp", "1.5"}, ErrPcRange, 0},
		{"jump_nan", []string{"jmp", "here"}, ErrPcRange, 0},
		{"jeq_nan", []string{"cmp", "1", "1", "jeq", "x"}, ErrPcRange, 5},
		{"operand_missing", []string{"mov", "%ax"}, ErrOperandMissing, 0},
		{"not_writable", []string{"mov", "5", "%ax"}, ErrOperandNotWritable("5"), 3},
		{"inc_literal", []string{"inc", "5"}, ErrOperandNotWritable("5"), 2},
		{"register_read", []string{"cat", "%pc"}, ErrRegisterInvalid("%pc"), 2},
		{"register_write", []string{"mov", "%zz", "1"}, ErrRegisterInvalid("%zz"), 3},
		{"in_int_literal", []string{"in_int", "7"}, ErrOperandNotWritable("7"), 2},
	}

	for _, entry := range table {
		port := &scriptPort{input: []string{"1"}}
		cpu := NewCpu(port)
		err := runProgram(t, cpu, NewProgram(entry.program...))
		assert.ErrorIs(err, entry.expected, entry.name)
		assert.ErrorIs(err, ErrOpcode{}, entry.name)
		assert.True(cpu.Halted, entry.name)
		assert.Equal(entry.pc, cpu.Pc, entry.name)
	}

	// Input is not consumed by a failing in_int.
	port := &scriptPort{input: []string{"1"}}
	cpu := NewCpu(port)
	_ = runProgram(t, cpu, NewProgram("in_int", "7"))
	assert.Equal([]string{"1"}, port.input)
}

func TestErrors_Position(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(&scriptPort{})
	err := runProgram(t, cpu, NewProgram("pass", "pass", "bogus"))

	var eo ErrOpcode
	assert.ErrorAs(err, &eo)
	assert.Equal(ErrOpcode{Pc: 2, Token: "bogus"}, eo)
	assert.ErrorContains(err, "bogus")
}

func TestPortMissing(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(nil)
	assert.ErrorIs(runProgram(t, cpu, NewProgram("cat", "1")), ErrPortMissing)

	cpu = NewCpu(nil)
	assert.ErrorIs(runProgram(t, cpu, NewProgram("in_int", "%ax")), ErrPortMissing)
}

func TestExecute_Invalid(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(&scriptPort{})
	err := cpu.Execute(context.Background(), NewProgram("exit"), Opcode(OP_COUNT))
	assert.ErrorIs(err, ErrOpcodeUndefined)
}

func TestReset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(&scriptPort{})
	prog := NewProgram("mov", "%ax", "3", "cmp", "%ax", "3", "exit")
	assert.NoError(runProgram(t, cpu, prog))
	assert.True(cpu.Halted)
	assert.Equal(1, cpu.Flag)

	cpu.Reset()
	assert.False(cpu.Halted)
	assert.Equal(0, cpu.Pc)
	assert.Equal(0, cpu.Flag)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(0.0, cpu.Get(REG_AX))
}

func TestString(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(&scriptPort{})
	cpu.Set(REG_BX, 2.5)
	cpu.Set(REG_CX, math.NaN())

	text := cpu.String()
	assert.Contains(text, "state: running\n")
	assert.Contains(text, "   pc: 0\n")
	assert.Contains(text, "   bx: 2.5\n")
	assert.Contains(text, "   cx: NaN\n")
	assert.Equal(3+REG_COUNT, strings.Count(text, "\n"))
}
