package cpu

// Opcode is an instruction selected by the token at the program counter.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_EXIT   = Opcode(0)  // exit
	OP_IN_INT = Opcode(1)  // in_int
	OP_MOV    = Opcode(2)  // mov
	OP_CAT    = Opcode(3)  // cat
	OP_ADD    = Opcode(4)  // add
	OP_SUB    = Opcode(5)  // sub
	OP_MUL    = Opcode(6)  // mul
	OP_MOD    = Opcode(7)  // mod
	OP_INC    = Opcode(8)  // inc
	OP_DEC    = Opcode(9)  // dec
	OP_MIN    = Opcode(10) // min
	OP_MAX    = Opcode(11) // max
	OP_CMP    = Opcode(12) // cmp
	OP_PASS   = Opcode(13) // pass
	OP_JMP    = Opcode(14) // jmp
	OP_JEQ    = Opcode(15) // jeq
	OP_JNE    = Opcode(16) // jne
)

// OP_COUNT is the number of defined opcodes.
const OP_COUNT = 17

// opWidth is the number of tokens, opcode included, of each instruction.
var opWidth = [OP_COUNT]int{
	OP_EXIT:   1,
	OP_IN_INT: 2,
	OP_MOV:    3,
	OP_CAT:    2,
	OP_ADD:    3,
	OP_SUB:    3,
	OP_MUL:    3,
	OP_MOD:    3,
	OP_INC:    2,
	OP_DEC:    2,
	OP_MIN:    3,
	OP_MAX:    3,
	OP_CMP:    3,
	OP_PASS:   1,
	OP_JMP:    2,
	OP_JEQ:    2,
	OP_JNE:    2,
}

var opByName = func() map[string]Opcode {
	names := make(map[string]Opcode, OP_COUNT)
	for op := range Opcode(OP_COUNT) {
		names[op.String()] = op
	}
	return names
}()

// OpcodeOf returns the opcode named by token.
func OpcodeOf(token string) (op Opcode, ok bool) {
	op, ok = opByName[token]
	return
}

// Valid returns true if the opcode is defined.
func (op Opcode) Valid() bool {
	return op >= 0 && op < OP_COUNT
}

// Width returns the number of program tokens occupied by the instruction.
// The jump opcodes still occupy their full width even though jmp never
// advances past it.
func (op Opcode) Width() int {
	if !op.Valid() {
		return 0
	}
	return opWidth[op]
}

// Args returns the number of operand tokens following the opcode.
func (op Opcode) Args() int {
	return op.Width() - 1
}
