package cpu

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// OperandKind is the decoded form of an operand token.
type OperandKind int

const (
	OPERAND_LITERAL  = OperandKind(0) // Numeric literal.
	OPERAND_REGISTER = OperandKind(1) // Register reference.
	OPERAND_UNKNOWN  = OperandKind(2) // Sigil with a name outside the register file.
)

// Operand is a decoded operand token.
type Operand struct {
	Kind     OperandKind
	Register Register // Valid for OPERAND_REGISTER.
	Value    float64  // Valid for OPERAND_LITERAL.
	Token    string   // Source token.
}

// ParseOperand decodes a token as a register reference or a number.
func ParseOperand(token string) (op Operand) {
	op.Token = token

	if len(token) > 0 && token[0] == REG_SIGIL {
		reg, ok := RegisterOf(token[1:])
		if !ok {
			op.Kind = OPERAND_UNKNOWN
			return
		}
		op.Kind = OPERAND_REGISTER
		op.Register = reg
		return
	}

	op.Kind = OPERAND_LITERAL
	op.Value = ToNumber(token)
	return
}

func (op Operand) String() string {
	return op.Token
}

// Writable returns true if the operand can be assigned.
func (op Operand) Writable() bool {
	return op.Kind == OPERAND_REGISTER
}

var (
	decimalRe  = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
	infinityRe = regexp.MustCompile(`^[+-]?Infinity$`)
	radixRe    = regexp.MustCompile(`^0([xXoObB])([0-9a-fA-F]+)$`)
)

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// ToNumber converts text to a number the way a loosely typed console does.
//
//   - surrounding whitespace is ignored, and blank text is 0
//   - decimal numbers take an optional sign, fraction and exponent
//   - Infinity takes an optional sign
//   - unsigned 0x, 0o and 0b integers are accepted
//
// Anything else is NaN.
func ToNumber(text string) float64 {
	text = strings.TrimFunc(text, isSpace)

	switch {
	case len(text) == 0:
		return 0
	case decimalRe.MatchString(text):
		// ParseFloat rounds out of range values to 0 or ±Inf.
		value, _ := strconv.ParseFloat(text, 64)
		return value
	case infinityRe.MatchString(text):
		if text[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	match := radixRe.FindStringSubmatch(text)
	if match == nil {
		return math.NaN()
	}

	var base int
	switch match[1] {
	case "x", "X":
		base = 16
	case "o", "O":
		base = 8
	default:
		base = 2
	}

	n, ok := new(big.Int).SetString(match[2], base)
	if !ok {
		return math.NaN()
	}
	value, _ := new(big.Float).SetInt(n).Float64()
	return value
}
