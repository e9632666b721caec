// SPDX-License-Identifier: EPL-2.0

// Package pcm handles headerless sample data. The layout comes from
// Defaults, usually parsed from a PCMFORMAT style option string.
package pcm

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
)

const (
	// Sentinel ends a stream of shorts in sentinel mode.
	Sentinel = 0x8000

	probeSize = 4
)

type Backend struct {
	defaults Defaults

	mtx *sync.Mutex
}

func New(d Defaults) *Backend {
	return &Backend{
		defaults: d,
		mtx:      &sync.Mutex{},
	}
}

func (b *Backend) Defaults() Defaults {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return b.defaults
}

func (b *Backend) SetDefaults(d Defaults) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	b.defaults = d
}

func (*Backend) ID() audio.FormatID { return audio.FormatRaw }
func (*Backend) Name() string       { return "PCM" }
func (*Backend) Ext() string        { return "pcm" }
func (*Backend) Options() string    { return Usage }

// bind copies the byte order and sentinel flag into the node.
func (b *Backend) bind(h *audio.Handle) Defaults {
	d := b.Defaults()
	h.Node.ByteMode = d.ByteMode
	if d.Sentinel {
		h.Node.Flags |= audio.FlagSentinel
	} else {
		h.Node.Flags &^= audio.FlagSentinel
	}

	return d
}

func (b *Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, _ int) error {
	var probe [probeSize]byte
	n, _ := io.ReadFull(h.Stream, probe[:])
	h.Stream.Push(probe[:n])
	if n < probeSize {
		return fmt.Errorf("%w: %d bytes of PCM", audio.ErrPrematureEOF, n)
	}

	d := b.bind(h)
	start := h.Stream.Tell()

	size := int64(audio.UnknownLen)
	if h.Node.FileLen >= 0 && !d.Sentinel {
		size = h.Node.FileLen - start
	}
	if d.Skip > 0 {
		if err := h.Skip(d.Skip); err != nil {
			return err
		}
		if size != int64(audio.UnknownLen) {
			size = max(0, size-d.Skip)
		}
	}

	hdr.Magic = audio.Magic
	hdr.HeadBsize = audio.CoreSize
	hdr.Info = make([]byte, audio.DefaultInfoBytes)
	hdr.Format = d.Format
	hdr.Channels = int32(d.Channels)
	hdr.SamplingRate = float32(d.Rate)
	hdr.DataBsize = int32(min(size, math.MaxInt32))

	start += d.Skip
	if size == int64(audio.UnknownLen) {
		h.Node.SetSeekEnds(start, size)
	} else {
		h.Node.SetSeekEnds(start, start+size)
	}

	return nil
}

func (*Backend) ReadExtraInfo(*audio.Handle, *audio.Header, int) error {
	return nil
}

// WriteHeader writes nothing for a header. The closing rewrite appends
// the sentinel in sentinel mode, on pipes too.
func (b *Backend) WriteHeader(h *audio.Handle, hdr *audio.Header, infoLimit int) error {
	if infoLimit < 0 && h.Node.Flags&audio.FlagSentinel != 0 {
		if err := writeSentinel(h); err != nil {
			return err
		}
	}
	if hdr == nil {
		return nil
	}
	if hdr.Magic != audio.Magic {
		return fmt.Errorf("%w: %w", audio.ErrNotSoundFile, audio.ErrBadMagic)
	}

	b.bind(h)
	if err := h.Rewind(); err != nil {
		return err
	}
	if hdr.DataBsize == audio.UnknownLen {
		h.Node.SetSeekEnds(0, int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(0, int64(hdr.DataBsize))
	}

	return nil
}

func writeSentinel(h *audio.Handle) error {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], Sentinel)
	byteorder.ConvertBuffer(b[:], 2, h.ByteMode(byteorder.BigEndian()))

	if h.Stream.Seekable() {
		if _, err := h.Stream.Seek(0, io.SeekEnd); err != nil {
			return fmt.Errorf("%w: %w", audio.ErrWrite, err)
		}
	}

	return h.Write(b[:])
}

func (*Backend) HeaderLen(h *audio.Handle) int64 {
	start, _ := h.Node.SeekEnds()

	return start
}

func (*Backend) TrailerLen(h *audio.Handle) int64 {
	if h.Node.Flags&audio.FlagSentinel != 0 {
		return 2
	}

	return 0
}

func (*Backend) LastValidOffset(h *audio.Handle) int64 {
	_, end := h.Node.SeekEnds()

	return end
}

func (*Backend) FixupSamples(h *audio.Handle, buf []byte, f audio.SampleFormat, n int, dir audio.Direction) int {
	sentinel := f == audio.SampleShort && h.Node.Flags&audio.FlagSentinel != 0
	if sentinel && dir == audio.DirWrite {
		clip(buf[:min(len(buf), n*2)])
	}

	audio.SwapSamples(h, buf, f, n, byteorder.BigEndian())

	if sentinel && dir == audio.DirRead {
		return untilSentinel(buf[:min(len(buf), n*2)])
	}

	return n
}

// clip moves host order 0x8000 samples to 0x8001.
func clip(b []byte) {
	for i := 0; i+1 < len(b); i += 2 {
		if binary.NativeEndian.Uint16(b[i:]) == Sentinel {
			binary.NativeEndian.PutUint16(b[i:], Sentinel+1)
		}
	}
}

// untilSentinel counts the host order samples before the first 0x8000.
func untilSentinel(b []byte) int {
	for i := 0; i+1 < len(b); i += 2 {
		if binary.NativeEndian.Uint16(b[i:]) == Sentinel {
			return i / 2
		}
	}

	return len(b) / 2
}
