package io

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Console is a Port over a byte stream input and output, such as a
// terminal or a pair of files.
//
// Input is read a line at a time. A final line without an end-of-line
// marker is still delivered; end of input after that is ErrInputClosed.
// A blocked read cannot be interrupted; the context is only checked
// before each request.
type Console struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
	source io.Reader
}

// RequestLine reads the next line from Input.
func (con *Console) RequestLine(ctx context.Context) (line string, err error) {
	err = ctx.Err()
	if err != nil {
		return
	}

	if con.Input == nil {
		err = ErrInputClosed
		return
	}

	// Input may be swapped between runs.
	if con.reader == nil || con.source != con.Input {
		con.reader = bufio.NewReader(con.Input)
		con.source = con.Input
	}

	line, err = con.reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if len(line) == 0 {
			err = ErrInputClosed
			return
		}
		err = nil
	}
	if err != nil {
		err = errors.Join(ErrInputClosed, err)
		return
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	return
}

// Emit writes value to Output, one value per line.
func (con *Console) Emit(value float64) (err error) {
	if con.Output == nil {
		err = ErrOutputClosed
		return
	}

	_, err = fmt.Fprintln(con.Output, FormatNumber(value))
	if err != nil {
		err = errors.Join(ErrOutputClosed, err)
	}

	return
}
