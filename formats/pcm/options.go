// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
)

// Defaults describes headerless data.
type Defaults struct {
	Rate     int
	Channels int
	Format   audio.SampleFormat
	// Skip is the number of leading bytes ignored on read.
	Skip     int64
	ByteMode byteorder.Mode
	// Sentinel marks 16-bit streams ended by a 0x8000 sample.
	Sentinel bool
}

// Standard returns 16 kHz mono big-endian shorts.
func Standard() Defaults {
	return Defaults{
		Rate:     16000,
		Channels: 1,
		Format:   audio.SampleShort,
		ByteMode: byteorder.BigEndian(),
	}
}

// Usage is the option syntax accepted by ParseDefaults.
const Usage = "R<rate>C<chans>X<skip>E<b|l|n|s>F<s|c|f|l|m|u|a|o|d>Abb"

var kiloRates = map[int64]int64{
	8:  8000,
	11: 11025,
	16: 16000,
	22: 22050,
	24: 24000,
	32: 32000,
	44: 44100,
	48: 48000,
}

// ParseDefaults applies an option string such as "R8C2Fs" to d. Options
// not given keep their value, except Sentinel which is only set by an
// explicit "Abb". Bad options are logged and skipped.
func ParseDefaults(s string, d Defaults, logger *slog.Logger) Defaults {
	if logger == nil {
		logger = slog.Default()
	}
	warn := func(msg string, args ...any) {
		logger.Warn("PCM options: "+msg, append([]any{"options", s}, args...)...)
	}

	d.Sentinel = false

	for i := 0; i < len(s); {
		c := s[i]
		i++

		switch c {
		case 'A':
			if strings.HasPrefix(s[i:], "bb") {
				d.Sentinel = true
				i += 2
			} else {
				warn("'A' can only start 'Abb'")
			}
		case 'R', 'C', 'X':
			v, n := number(s[i:])
			if n == 0 {
				warn("option needs a number", "option", string(c))
				continue
			}
			i += n

			switch c {
			case 'R':
				if r, ok := kiloRates[v]; ok {
					v = r
				} else if v < 100 {
					v *= 1000
				}
				d.Rate = int(v)
			case 'C':
				if v == 0 {
					warn("zero channels ignored")
					continue
				}
				d.Channels = int(v)
			case 'X':
				d.Skip = v
			}
		case 'E':
			if i >= len(s) {
				warn("missing byte order")
				continue
			}
			switch s[i] {
			case 'b', 'B':
				d.ByteMode = byteorder.BigEndian()
			case 'l', 'L':
				d.ByteMode = byteorder.LittleEndian()
			case 'n', 'N':
				d.ByteMode = byteorder.InOrder
			case 's', 'S':
				d.ByteMode = byteorder.ByteWordRev
			default:
				warn("byte order is not b, l, n or s", "order", string(s[i]))
				continue
			}
			i++
		case 'F':
			f, n := formatCode(s[i:])
			if n == 0 {
				warn("unknown sample format", "format", s[i:min(i+1, len(s))])
				continue
			}
			d.Format = f
			i += n
		default:
			warn("unrecognised character ignored", "char", string(c))
		}
	}

	return d
}

// number parses a leading integer the way strtol does with base 0.
func number(s string) (int64, int) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := "0123456789"
	if strings.HasPrefix(s[i:], "0x") || strings.HasPrefix(s[i:], "0X") {
		i += 2
		digits += "abcdefABCDEF"
	}
	for i < len(s) && strings.IndexByte(digits, s[i]) >= 0 {
		i++
	}

	v, err := strconv.ParseInt(s[:i], 0, 64)
	if err != nil {
		return 0, 0
	}

	return v, i
}

func formatCode(s string) (audio.SampleFormat, int) {
	for _, w := range []struct {
		code string
		f    audio.SampleFormat
	}{
		{"16", audio.SampleShort},
		{"32", audio.SampleLong},
		{"24", audio.Sample24in32},
	} {
		if strings.HasPrefix(s, w.code) {
			return w.f, 2
		}
	}
	if s == "" {
		return 0, 0
	}

	switch s[0] {
	case 's', 'S':
		return audio.SampleShort, 1
	case 'c', 'C', '8':
		return audio.SampleChar, 1
	case 'f', 'F':
		return audio.SampleFloat, 1
	case 'l', 'L':
		return audio.SampleLong, 1
	case 'm', 'M':
		return audio.Sample24in32, 1
	case 'u', 'U':
		return audio.SampleULaw, 1
	case 'a', 'A':
		return audio.SampleALaw, 1
	case 'o', 'O':
		return audio.SampleCharOffset, 1
	case 'd', 'D':
		return audio.SampleDouble, 1
	}

	return 0, 0
}
