// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"encoding/binary"
	"math"
)

const extBias = 16383

// extendedToFloat decodes an 80-bit IEEE 754 extended value: a sign bit,
// a 15-bit exponent and a 64-bit mantissa with an explicit integer bit.
func extendedToFloat(b [10]byte) float64 {
	se := binary.BigEndian.Uint16(b[0:])
	mant := binary.BigEndian.Uint64(b[2:])
	exp := int(se & 0x7fff)

	var v float64
	switch {
	case exp == 0 && mant == 0:
		v = 0
	case exp == 0x7fff:
		if mant<<1 != 0 {
			return math.NaN()
		}
		v = math.Inf(1)
	default:
		v = math.Ldexp(float64(mant), exp-extBias-63)
	}

	if se&0x8000 != 0 {
		v = -v
	}

	return v
}

// floatToExtended is the inverse of extendedToFloat. Every float64 has an
// exact extended representation.
func floatToExtended(v float64) [10]byte {
	var b [10]byte

	var sign uint16
	if math.Signbit(v) {
		sign = 0x8000
		v = -v
	}

	switch {
	case v == 0:
		binary.BigEndian.PutUint16(b[0:], sign)
		return b
	case math.IsNaN(v):
		binary.BigEndian.PutUint16(b[0:], sign|0x7fff)
		binary.BigEndian.PutUint64(b[2:], 0xC000000000000000)
		return b
	case math.IsInf(v, 0):
		binary.BigEndian.PutUint16(b[0:], sign|0x7fff)
		binary.BigEndian.PutUint64(b[2:], 1<<63)
		return b
	}

	// v = frac * 2^e with frac in [0.5, 1)
	frac, e := math.Frexp(v)
	mant := uint64(math.Ldexp(frac, 64))
	exp := e - 1 + extBias
	if exp <= 0 {
		mant >>= uint(1 - exp)
		exp = 0
	}

	binary.BigEndian.PutUint16(b[0:], sign|uint16(exp))
	binary.BigEndian.PutUint64(b[2:], mant)

	return b
}
