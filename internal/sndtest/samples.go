// SPDX-License-Identifier: EPL-2.0

package sndtest

import (
	"encoding/binary"
	"math"
)

// Waveform returns the value of a sample in [-1,1].
type Waveform func(sample, channel int) float64

// Sine is a sine wave of freq Hz at rate Hz, identical on every channel.
func Sine(rate int, freq float64) Waveform {
	return func(sample, _ int) float64 {
		return math.Sin(2 * math.Pi * freq * float64(sample) / float64(rate))
	}
}

// Ramp steps linearly through the 16-bit range, offset per channel.
func Ramp(step int) Waveform {
	return func(sample, channel int) float64 {
		v := (sample*step + channel*1000) % 65536
		return float64(v-32768) / 32768
	}
}

// Shorts renders frames of w as interleaved int16 values.
func Shorts(w Waveform, frames, channels int) []int16 {
	out := make([]int16, 0, frames*channels)
	for i := range frames {
		for ch := range channels {
			v := w(i, ch)
			v = max(-1, min(1, v))
			out = append(out, int16(v*32767))
		}
	}

	return out
}

// ShortBytes encodes samples in the given byte order.
func ShortBytes(samples []int16, order binary.ByteOrder) []byte {
	out := make([]byte, 2*len(samples))
	for i, v := range samples {
		order.PutUint16(out[2*i:], uint16(v))
	}

	return out
}
