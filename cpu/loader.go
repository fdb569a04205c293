// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Symbol for the token index of an expression.
const SYMBOL_HERE = "HERE"

var exprRe = regexp.MustCompile(`\$\([^\$]*\)`)

// Loader reads token programs.
//
// Tokens are separated by whitespace. A ';' or '#' starts a comment that
// runs to the end of the line. A $(...) group is evaluated as a Starlark
// expression when the line is read and replaced by its value; HERE is
// the token index the result will occupy, and predefined symbols are
// also visible. Jump targets are always plain token indexes.
type Loader struct {
	Verbose bool // If set, verbosely logs the loader actions.

	predefine map[string]string
}

// Predefine defines a new symbol or redefines an existing one.
func (ld *Loader) Predefine(name string, value string) {
	if ld.predefine == nil {
		ld.predefine = map[string]string{name: value}
	} else {
		ld.predefine[name] = value
	}
}

// symbols returns the Starlark globals for an expression at token index here.
func (ld *Loader) symbols(here int) (pred starlark.StringDict) {
	pred = starlark.StringDict{}
	for key, str := range ld.predefine {
		value := ToNumber(str)
		switch {
		case math.IsNaN(value):
			pred[key] = starlark.String(str)
		case value == math.Trunc(value) && math.Abs(value) < 1<<53:
			pred[key] = starlark.MakeInt64(int64(value))
		default:
			pred[key] = starlark.Float(value)
		}
	}
	pred[SYMBOL_HERE] = starlark.MakeInt(here)

	return
}

// evaluate does load-time $(...) evaluations.
func (ld *Loader) evaluate(expr string, here int) (token string, err error) {
	thread := starlark.Thread{Name: "loader"}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, ld.symbols(here))
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrParseExpression(expr), err)
		return
	}

	switch rc := dict["rc"].(type) {
	case starlark.Int:
		st_int64, ok := rc.Int64()
		if !ok {
			err = ErrParseExpression(expr)
			return
		}
		token = strconv.FormatInt(st_int64, 10)
	case starlark.Float:
		value := float64(rc)
		switch {
		case math.IsInf(value, 1):
			token = "Infinity"
		case math.IsInf(value, -1):
			token = "-Infinity"
		default:
			token = strconv.FormatFloat(value, 'g', -1, 64)
		}
	case starlark.String:
		token = string(rc)
		if len(token) == 0 || len(strings.Fields(token)) != 1 {
			err = fmt.Errorf("%w: %w", ErrParseExpression(expr), ErrTokenInvalid)
			return
		}
	default:
		err = ErrParseExpression(expr)
	}

	return
}

// expand replaces each $(...) group of line, first token at index here.
func (ld *Loader) expand(line string, here int) (text string, err error) {
	text = line
	for {
		loc := exprRe.FindStringIndex(text)
		if loc == nil {
			break
		}
		at := here + len(strings.Fields(text[:loc[0]]))
		var token string
		token, err = ld.evaluate(text[loc[0]+2:loc[1]-1], at)
		if err != nil {
			return
		}
		text = text[:loc[0]] + token + text[loc[1]:]
	}

	return
}

// Parse reads a program from a token stream.
func (ld *Loader) Parse(in io.Reader) (prog *Program, err error) {
	prog = &Program{}

	scanner := bufio.NewScanner(in)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		text, _, _ := strings.Cut(line, ";")
		text, _, _ = strings.Cut(text, "#")

		text, err = ld.expand(text, prog.Len())
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}

		words := strings.Fields(text)
		if len(words) == 0 {
			continue
		}

		if ld.Verbose {
			log.Printf("loader: %04d: %v", prog.Len(), words)
		}

		prog.append(lineno, words...)
	}

	err = scanner.Err()
	return
}
