package io

import (
	"context"
)

// Async is a Port fed by Go channels.
//
// RequestLine suspends the caller until a line arrives on Lines, Lines is
// closed, or the context is done. Each emitted value is sent on Output as
// its formatted text, so Output should be buffered or actively drained.
type Async struct {
	Lines  <-chan string
	Output chan<- string
}

// RequestLine waits for the next line on Lines.
func (ac *Async) RequestLine(ctx context.Context) (line string, err error) {
	if ac.Lines == nil {
		err = ErrInputClosed
		return
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case text, ok := <-ac.Lines:
		if !ok {
			err = ErrInputClosed
			return
		}
		line = text
	}

	return
}

// Emit sends the formatted value on Output.
func (ac *Async) Emit(value float64) (err error) {
	if ac.Output == nil {
		err = ErrOutputClosed
		return
	}

	ac.Output <- FormatNumber(value)

	return
}
