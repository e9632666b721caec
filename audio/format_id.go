// SPDX-License-Identifier: EPL-2.0

package audio

import "strconv"

// FormatID identifies a sound file container.
type FormatID int

const (
	FormatZeroLength FormatID = -2
	FormatUnknown    FormatID = -1
	FormatRaw        FormatID = 0
	FormatNeXT       FormatID = 1
	FormatAIFF       FormatID = 2
	FormatWAVE       FormatID = 3
	FormatNIST       FormatID = 4
	FormatIRCAM      FormatID = 5
	FormatESPS       FormatID = 6
	FormatPHONDAT    FormatID = 7
	FormatSTRUT      FormatID = 8
)

func (id FormatID) String() string {
	switch id {
	case FormatZeroLength:
		return "zero-length"
	case FormatUnknown:
		return "unknown"
	case FormatRaw:
		return "PCM"
	case FormatNeXT:
		return "NeXT"
	case FormatAIFF:
		return "AIFF"
	case FormatWAVE:
		return "MSWAVE"
	case FormatNIST:
		return "NIST"
	case FormatIRCAM:
		return "IRCAM"
	case FormatESPS:
		return "ESPS"
	case FormatPHONDAT:
		return "PHONDAT"
	case FormatSTRUT:
		return "STRUT"
	}

	return "FormatID(" + strconv.Itoa(int(id)) + ")"
}

// Known reports whether id names a real container.
func (id FormatID) Known() bool { return id >= FormatRaw }
