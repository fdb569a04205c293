// Package io provides the line-based I/O ports used by the regvm machine.
//
// A port supplies one line of text per input request and accepts one value
// per output. Input requests are the only place a running program may be
// suspended, so they take a context that the caller may cancel.
package io

import (
	"context"
)

// Port defines the interface between the machine and its console.
type Port interface {
	// RequestLine blocks until a line of input is available.
	// The trailing end-of-line marker is not part of the result.
	RequestLine(ctx context.Context) (line string, err error)
	// Emit writes the textual form of value as a single line.
	Emit(value float64) error
}
