// SPDX-License-Identifier: EPL-2.0

package byteorder

import (
	"encoding/binary"
	"fmt"
	"sync"
)

// Mode is a byte permutation between a file and the host.
type Mode int

const (
	// Unset means no byte mode has been bound yet.
	Unset Mode = -1
	// InOrder leaves bytes untouched.
	InOrder Mode = 0
	// ByteRev swaps the bytes inside each 16-bit half.
	ByteRev Mode = 1
	// WordRev swaps the two 16-bit halves of a 32-bit cell.
	WordRev Mode = 2
	// ByteWordRev reverses all four bytes.
	ByteWordRev Mode = 3
)

func (m Mode) String() string {
	switch m {
	case Unset:
		return "unset"
	case InOrder:
		return "in-order"
	case ByteRev:
		return "byte-reversed"
	case WordRev:
		return "word-reversed"
	case ByteWordRev:
		return "byte-word-reversed"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the four concrete permutations.
func (m Mode) Valid() bool {
	return m >= InOrder && m <= ByteWordRev
}

var (
	hostOnce sync.Once
	hostMode Mode
)

const hostProbe = 0x01020304

// Host returns the mode that turns a big-endian value read natively on this
// machine into its real value. It panics if the host matches no mode.
func Host() Mode {
	hostOnce.Do(func() {
		cell := [4]byte{1, 2, 3, 4}
		hostMode = Match(binary.NativeEndian.Uint32(cell[:]), hostProbe)
		if hostMode == Unset {
			panic("byteorder: host byte order matches no known mode")
		}
	})

	return hostMode
}

// BigEndian is the mode for data stored big-endian on disk.
func BigEndian() Mode { return Host() }

// LittleEndian is the mode for data stored little-endian on disk.
func LittleEndian() Mode { return Host() ^ ByteWordRev }

// Swap16 applies the 16-bit part of m to v.
func Swap16(v uint16, m Mode) uint16 {
	if m.Valid() && m&ByteRev != 0 {
		return v<<8 | v>>8
	}

	return v
}

// Swap32 applies m to v.
func Swap32(v uint32, m Mode) uint32 {
	if !m.Valid() {
		return v
	}
	if m&ByteRev != 0 {
		v = (v&0x00FF00FF)<<8 | (v&0xFF00FF00)>>8
	}
	if m&WordRev != 0 {
		v = v<<16 | v>>16
	}

	return v
}

// Match returns the first mode under which red equals target, or Unset.
func Match(red, target uint32) Mode {
	for m := InOrder; m <= ByteWordRev; m++ {
		if Swap32(red, m) == target {
			return m
		}
	}

	return Unset
}

// ConvertBuffer permutes buf in place, treating it as a run of wordSize-byte
// cells. Trailing bytes that do not fill a cell are left alone.
func ConvertBuffer(buf []byte, wordSize int, m Mode) {
	if wordSize < 2 || !m.Valid() || m == InOrder {
		return
	}
	if m == WordRev && wordSize < 4 {
		return
	}

	switch wordSize {
	case 2:
		for i := 0; i+1 < len(buf); i += 2 {
			buf[i], buf[i+1] = buf[i+1], buf[i]
		}
	case 4:
		for i := 0; i+3 < len(buf); i += 4 {
			c := buf[i : i+4 : i+4]
			switch m {
			case ByteRev:
				c[0], c[1], c[2], c[3] = c[1], c[0], c[3], c[2]
			case WordRev:
				c[0], c[1], c[2], c[3] = c[2], c[3], c[0], c[1]
			case ByteWordRev:
				c[0], c[1], c[2], c[3] = c[3], c[2], c[1], c[0]
			}
		}
	case 8:
		for i := 0; i+7 < len(buf); i += 8 {
			c := buf[i : i+8 : i+8]
			switch m {
			case ByteRev:
				for j := 0; j < 8; j += 2 {
					c[j], c[j+1] = c[j+1], c[j]
				}
			case WordRev:
				c[0], c[1], c[6], c[7] = c[6], c[7], c[0], c[1]
				c[2], c[3], c[4], c[5] = c[4], c[5], c[2], c[3]
			case ByteWordRev:
				for j := range 4 {
					c[j], c[7-j] = c[7-j], c[j]
				}
			}
		}
	}
}

// Uint16 reads a 16-bit field stored under m.
func Uint16(b []byte, m Mode) uint16 {
	return Swap16(binary.NativeEndian.Uint16(b), m)
}

// PutUint16 stores v so that Uint16 under m returns it.
func PutUint16(b []byte, v uint16, m Mode) {
	binary.NativeEndian.PutUint16(b, Swap16(v, m))
}

// Uint32 reads a 32-bit field stored under m.
func Uint32(b []byte, m Mode) uint32 {
	return Swap32(binary.NativeEndian.Uint32(b), m)
}

// PutUint32 stores v so that Uint32 under m returns it.
func PutUint32(b []byte, v uint32, m Mode) {
	binary.NativeEndian.PutUint32(b, Swap32(v, m))
}
