// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"fmt"

	goaudio "github.com/go-audio/audio"
)

const (
	// Magic marks a valid Header.
	Magic int32 = 107365
	// UnknownLen is stored in DataBsize when the data length is not known.
	UnknownLen int32 = -1
	// CoreSize is the size of the fixed header fields including the first
	// DefaultInfoBytes of info.
	CoreSize = 28
	// DefaultInfoBytes is the smallest info area.
	DefaultInfoBytes = 4
)

// Header describes a sound independently of the container it is stored in.
type Header struct {
	Magic        int32
	HeadBsize    int32
	DataBsize    int32
	Format       SampleFormat
	Channels     int32
	SamplingRate float32
	Info         []byte
}

// NewHeader allocates a header with at least infoBsize bytes of info,
// rounded up to a multiple of four.
func NewHeader(dataBsize int32, format SampleFormat, rate float32, chans int32, infoBsize int) *Header {
	size := roundInfo(infoBsize)

	return &Header{
		Magic:        Magic,
		HeadBsize:    int32(CoreSize + size - DefaultInfoBytes),
		DataBsize:    dataBsize,
		Format:       format,
		Channels:     chans,
		SamplingRate: rate,
		Info:         make([]byte, size),
	}
}

func roundInfo(n int) int {
	n = max(n, DefaultInfoBytes)

	return (n + 3) &^ 3
}

// InfoLimit rounds a caller's info budget down to a multiple of four and
// caps it at avail. A negative budget means no limit.
func InfoLimit(maxInfo, avail int) int {
	if maxInfo < 0 {
		return avail
	}

	return min(max(maxInfo, DefaultInfoBytes)&^3, avail)
}

// InfoSize returns the number of info bytes implied by HeadBsize. Info may
// hold fewer when a reader limited how much it fetched.
func (h *Header) InfoSize() int {
	return int(h.HeadBsize) - CoreSize + DefaultInfoBytes
}

// SetInfo replaces the info area with a padded copy of b.
func (h *Header) SetInfo(b []byte) {
	info := make([]byte, roundInfo(len(b)))
	copy(info, b)
	h.Info = info
	h.HeadBsize = int32(CoreSize + len(info) - DefaultInfoBytes)
}

// InfoText returns the info area up to its first NUL.
func (h *Header) InfoText() string {
	if i := bytes.IndexByte(h.Info, 0); i >= 0 {
		return string(h.Info[:i])
	}

	return string(h.Info)
}

// FrameSize returns the bytes in one frame of all channels.
func (h *Header) FrameSize() int {
	return int(h.Channels) * h.Format.Size()
}

// Frames returns the number of frames in the data, or -1 if unknown.
func (h *Header) Frames() int64 {
	fs := h.FrameSize()
	if h.DataBsize == UnknownLen || fs == 0 {
		return -1
	}

	return int64(h.DataBsize) / int64(fs)
}

// Validate checks the header for consistency.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("%w: %w: %d", ErrNotSoundFile, ErrBadMagic, h.Magic)
	}
	if h.HeadBsize < CoreSize {
		return fmt.Errorf("%w: header size %d below %d", ErrNotSoundFile, h.HeadBsize, CoreSize)
	}
	if !h.Format.Valid() {
		return fmt.Errorf("%w: bad sample format %v", ErrNotSoundFile, h.Format)
	}
	if h.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrNotSoundFile, h.Channels)
	}
	if h.DataBsize < 0 && h.DataBsize != UnknownLen {
		return fmt.Errorf("%w: data size %d", ErrNotSoundFile, h.DataBsize)
	}

	return nil
}

// AudioFormat returns the channel count and rate as a go-audio format.
func (h *Header) AudioFormat() *goaudio.Format {
	return &goaudio.Format{
		NumChannels: int(h.Channels),
		SampleRate:  int(h.SamplingRate + 0.5),
	}
}

// Clone returns a deep copy of h.
func (h *Header) Clone() *Header {
	c := *h
	c.Info = bytes.Clone(h.Info)

	return &c
}

func (h *Header) String() string {
	return fmt.Sprintf("%d ch, %.0f Hz, %v, %d data bytes", h.Channels, h.SamplingRate, h.Format, h.DataBsize)
}
