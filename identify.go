// SPDX-License-Identifier: EPL-2.0

package sndf

import (
	"encoding/binary"
	"io"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/formats/ircam"
	"github.com/ik5/sndf/formats/next"
	"github.com/ik5/sndf/pushback"
)

func word(tag string) uint32 { return binary.NativeEndian.Uint32([]byte(tag)) }

var magics = []struct {
	id    audio.FormatID
	magic uint32
}{
	{audio.FormatNeXT, next.Magic},
	{audio.FormatIRCAM, ircam.Magic},
	{audio.FormatAIFF, word("FORM")},
	{audio.FormatWAVE, word("RIFF")},
	{audio.FormatNIST, word("NIST")},
	{audio.FormatSTRUT, word("STRU")},
}

// Identify looks at the first word of s and names the format it starts,
// with the byte mode under which its magic matched. The word is pushed
// back. A stream with fewer than four bytes gives FormatZeroLength.
func Identify(s *pushback.Stream) (audio.FormatID, byteorder.Mode) {
	var b [4]byte
	n, _ := io.ReadFull(s, b[:])
	s.Push(b[:n])
	if n < len(b) {
		return audio.FormatZeroLength, byteorder.InOrder
	}

	red := binary.NativeEndian.Uint32(b[:])
	for _, m := range magics {
		if mode := byteorder.Match(red, m.magic); mode != byteorder.Unset {
			return m.id, mode
		}
	}

	return audio.FormatUnknown, byteorder.InOrder
}
