package io

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber returns the console text of a machine value.
//
// Integral values print without a fraction, magnitudes outside
// [1e-6, 1e21) use a short exponent form such as 1e+21 or 1.5e-7,
// and the non-finite values print as NaN, Infinity and -Infinity.
func FormatNumber(value float64) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value == 0:
		if math.Signbit(value) {
			return "-0"
		}
		return "0"
	}

	mag := math.Abs(value)
	if mag >= 1e-6 && mag < 1e21 {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	text := strconv.FormatFloat(value, 'e', -1, 64)
	mant, exp, _ := strings.Cut(text, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")

	return mant + "e" + sign + exp
}
