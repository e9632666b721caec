// SPDX-License-Identifier: EPL-2.0

package sndf

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/utils"
)

// DefaultBufSize is the number of samples ReadSamples callers are advised
// to ask for at a time.
const DefaultBufSize = 4096

var ne = binary.NativeEndian

// IntDepth returns the bit depth of the integers ReadInts produces for f.
// Companded and floating point samples are expanded to 16 bits.
func IntDepth(f audio.SampleFormat) int {
	if f.IsFloat() {
		return 16
	}

	return f.BitDepth()
}

func decodeInt(b []byte, f audio.SampleFormat) int {
	swab := f&audio.FlagByteSwap != 0

	switch f &^ audio.FlagByteSwap {
	case audio.SampleChar:
		return int(int8(b[0]))
	case audio.SampleCharOffset:
		return int(b[0]) - 128
	case audio.SampleULaw:
		return int(utils.ULawToLinear(b[0]))
	case audio.SampleALaw:
		return int(utils.ALawToLinear(b[0]))
	case audio.SampleShort:
		v := ne.Uint16(b)
		if swab {
			v = bits.ReverseBytes16(v)
		}
		return int(int16(v))
	case audio.Sample24in32, audio.SampleLong:
		v := ne.Uint32(b)
		if swab {
			v = bits.ReverseBytes32(v)
		}
		if f&audio.FlagBottom3Qs != 0 {
			return int(utils.Sign24(int32(v)))
		}
		return int(int32(v))
	case audio.SampleFloat:
		return int(utils.Float32ToInt16(math.Float32frombits(ne.Uint32(b))))
	case audio.SampleDouble:
		return int(utils.Float32ToInt16(float32(math.Float64frombits(ne.Uint64(b)))))
	}

	return 0
}

func encodeInt(b []byte, f audio.SampleFormat, v int) {
	swab := f&audio.FlagByteSwap != 0

	switch f &^ audio.FlagByteSwap {
	case audio.SampleChar:
		b[0] = byte(int8(v))
	case audio.SampleCharOffset:
		b[0] = byte(v + 128)
	case audio.SampleULaw:
		b[0] = utils.LinearToULaw(int16(v))
	case audio.SampleALaw:
		b[0] = utils.LinearToALaw(int16(v))
	case audio.SampleShort:
		u := uint16(int16(v))
		if swab {
			u = bits.ReverseBytes16(u)
		}
		ne.PutUint16(b, u)
	case audio.Sample24in32, audio.SampleLong:
		u := uint32(int32(v))
		if swab {
			u = bits.ReverseBytes32(u)
		}
		ne.PutUint32(b, u)
	case audio.SampleFloat:
		ne.PutUint32(b, math.Float32bits(float32(v)/32768))
	case audio.SampleDouble:
		ne.PutUint64(b, math.Float64bits(float64(v)/32768))
	}
}

func decodeFloat(b []byte, f audio.SampleFormat) float32 {
	switch f &^ audio.FlagByteSwap {
	case audio.SampleFloat:
		return math.Float32frombits(ne.Uint32(b))
	case audio.SampleDouble:
		return float32(math.Float64frombits(ne.Uint64(b)))
	case audio.SampleShort, audio.SampleULaw, audio.SampleALaw:
		return utils.Int16ToFloat32(int16(decodeInt(b, f)))
	case audio.SampleLong:
		return utils.Int32ToFloat32(int32(decodeInt(b, f)))
	}

	return float32(decodeInt(b, f)) / float32(int(1)<<(IntDepth(f)-1))
}

func (f *File) buffer(n int) []byte {
	if cap(f.scratch) < n {
		f.scratch = make([]byte, n)
	}

	return f.scratch[:n]
}

// ReadInts fills buf.Data with samples as integers of IntDepth bits and
// returns how many were read. buf.Format and buf.SourceBitDepth are set
// from the file.
func (f *File) ReadInts(buf *goaudio.IntBuffer) (int, error) {
	format := f.hdr.Format
	size := format.Size()
	raw := f.buffer(len(buf.Data) * size)

	n, err := f.ReadItems(raw)
	for i := range n {
		buf.Data[i] = decodeInt(raw[i*size:], format)
	}
	buf.Format = f.hdr.AudioFormat()
	buf.SourceBitDepth = IntDepth(format)

	return n, err
}

// WriteInts writes buf.Data, integers of IntDepth bits, in the file's
// sample format.
func (f *File) WriteInts(buf *goaudio.IntBuffer) (int, error) {
	format := f.hdr.Format
	size := format.Size()
	if size == 0 {
		return 0, fmt.Errorf("%w: bad sample format %v", audio.ErrNotSoundFile, format)
	}

	raw := f.buffer(len(buf.Data) * size)
	for i, v := range buf.Data {
		encodeInt(raw[i*size:], format, v)
	}

	return f.WriteItems(raw)
}

// ReadSamples reads interleaved samples scaled to [-1,1]. len(dst) must be
// a multiple of the channel count.
func (f *File) ReadSamples(dst []float32) (int, error) {
	if ch := f.Channels(); ch > 0 && len(dst)%ch != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	format := f.hdr.Format
	size := format.Size()
	raw := f.buffer(len(dst) * size)

	n, err := f.ReadItems(raw)
	for i := range n {
		dst[i] = decodeFloat(raw[i*size:], format)
	}

	return n, err
}

func (f *File) BufSize() int { return DefaultBufSize }

var _ audio.Source = (*File)(nil)
