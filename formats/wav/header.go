// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
)

const (
	// HeaderSize is the size of a header written by this package.
	HeaderSize = 44

	fmtSize     = 16
	unknownSize = 0xFFFFFFFF

	formatPCM  = 1
	formatULaw = 7
)

// encodeHeader lays out the canonical 44-byte RIFF/WAVE header. A negative
// dataSize writes 0xFFFFFFFF to both the RIFF and data sizes.
func encodeHeader(format uint16, chans uint16, rate uint32, bits uint16, dataSize int64) []byte {
	byteRate := rate * uint32(chans) * uint32(bits/8)
	blockAlign := chans * (bits / 8)

	riffSize := uint32(unknownSize)
	dataLen := uint32(unknownSize)
	if dataSize >= 0 {
		dataLen = uint32(dataSize)
		riffSize = HeaderSize - 8 + dataLen
	}

	header := make([]byte, HeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], fmtSize)
	binary.LittleEndian.PutUint16(header[20:22], format)
	binary.LittleEndian.PutUint16(header[22:24], chans)
	binary.LittleEndian.PutUint32(header[24:28], rate)
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bits)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataLen)

	return header
}
