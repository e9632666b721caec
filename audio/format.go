// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"strings"
)

// SampleFormat encodes the byte size of a sample in its low four bits and
// the encoding in the flag bits above.
type SampleFormat int32

const (
	SizeMask SampleFormat = 0x0F

	FlagLinear    SampleFormat = 0
	FlagFloat     SampleFormat = 0x20
	FlagALaw      SampleFormat = 0x40
	FlagULaw      SampleFormat = 0x80
	FlagOffset    SampleFormat = 0x100
	FlagByteSwap  SampleFormat = 0x200
	FlagBottom3Qs SampleFormat = 0x400
)

const (
	SampleChar       = 1 | FlagLinear
	SampleCharOffset = 1 | FlagOffset
	SampleALaw       = 1 | FlagALaw
	SampleULaw       = 1 | FlagULaw
	SampleShort      = 2 | FlagLinear
	SampleShortSwab  = 2 | FlagByteSwap
	Sample24in32     = 4 | FlagBottom3Qs
	Sample24in32Swab = 4 | FlagBottom3Qs | FlagByteSwap
	SampleLong       = 4 | FlagLinear
	SampleLongSwab   = 4 | FlagByteSwap
	SampleFloat      = 4 | FlagFloat
	SampleDouble     = 8 | FlagFloat
)

var sampleFormatNames = map[SampleFormat]string{
	SampleChar:       "char",
	SampleCharOffset: "char-offset",
	SampleALaw:       "a-law",
	SampleULaw:       "mu-law",
	SampleShort:      "short",
	SampleShortSwab:  "short-swapped",
	Sample24in32:     "24-in-32",
	Sample24in32Swab: "24-in-32-swapped",
	SampleLong:       "long",
	SampleLongSwab:   "long-swapped",
	SampleFloat:      "float",
	SampleDouble:     "double",
}

// Size returns the number of bytes in one sample.
func (f SampleFormat) Size() int { return int(f & SizeMask) }

func (f SampleFormat) IsFloat() bool     { return f&FlagFloat != 0 }
func (f SampleFormat) IsCompanded() bool { return f&(FlagALaw|FlagULaw) != 0 }

// BitDepth returns the number of significant bits in a decoded sample.
func (f SampleFormat) BitDepth() int {
	switch {
	case f.IsCompanded():
		return 16
	case f&FlagBottom3Qs != 0:
		return 24
	default:
		return 8 * f.Size()
	}
}

// Valid reports whether f has a usable sample size.
func (f SampleFormat) Valid() bool {
	switch f.Size() {
	case 1, 2, 4, 8:
		return true
	}

	return false
}

func (f SampleFormat) String() string {
	if n, ok := sampleFormatNames[f]; ok {
		return n
	}

	var flags []string
	for _, fl := range []struct {
		bit  SampleFormat
		name string
	}{
		{FlagFloat, "float"}, {FlagALaw, "alaw"}, {FlagULaw, "ulaw"},
		{FlagOffset, "offset"}, {FlagByteSwap, "swab"}, {FlagBottom3Qs, "bottom3qs"},
	} {
		if f&fl.bit != 0 {
			flags = append(flags, fl.name)
		}
	}

	return fmt.Sprintf("SampleFormat(%d bytes %s)", f.Size(), strings.Join(flags, "|"))
}
