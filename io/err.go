package io

import (
	"errors"

	"github.com/ezrec/regvm/translate"
)

var f = translate.From

var (
	// Port errors
	ErrInputClosed  = errors.New(f("input closed"))
	ErrOutputClosed = errors.New(f("output closed"))
)
