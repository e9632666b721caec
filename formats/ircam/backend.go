// SPDX-License-Identifier: EPL-2.0

package ircam

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
)

const (
	Magic      = 107364
	HeaderSize = 1024
	infoOffset = 16
	InfoSize   = HeaderSize - infoOffset
)

// Pack modes as stored in the header.
const (
	packChar  = 1
	packALaw  = 1 + 64
	packULaw  = 1 + 128
	packShort = 2
	packLong  = 4 + 32
	packFloat = 4
)

var packToFormat = map[int32]audio.SampleFormat{
	packChar:  audio.SampleChar,
	packALaw:  audio.SampleALaw,
	packULaw:  audio.SampleULaw,
	packShort: audio.SampleShort,
	packLong:  audio.SampleLong,
	packFloat: audio.SampleFloat,
}

func formatToPack(f audio.SampleFormat) (int32, bool) {
	for p, sf := range packToFormat {
		if sf == f {
			return p, true
		}
	}

	return int32(f), false
}

type Backend struct{}

func (Backend) ID() audio.FormatID { return audio.FormatIRCAM }
func (Backend) Name() string       { return "IRCAM" }
func (Backend) Ext() string        { return "irc" }

func (Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, maxInfo int) error {
	buf := make([]byte, HeaderSize)
	if err := h.ReadFull(buf); err != nil {
		return err
	}

	mode := h.ByteMode(byteorder.BigEndian())
	byteorder.ConvertBuffer(buf, 4, mode)

	if magic := binary.NativeEndian.Uint32(buf[0:]); magic != Magic {
		return fmt.Errorf("%w: %w: magic %d", audio.ErrNotSoundFile, ErrNotIrcamFile, magic)
	}

	rate := math.Float32frombits(binary.NativeEndian.Uint32(buf[4:]))
	chans := int32(binary.NativeEndian.Uint32(buf[8:]))
	pack := int32(binary.NativeEndian.Uint32(buf[12:]))

	format, ok := packToFormat[pack]
	if !ok {
		h.Logger.Warn("unrecognised IRCAM pack mode", "packmode", pack)
		format = audio.SampleFormat(pack)
	}

	keep := audio.InfoLimit(maxInfo, InfoSize)
	hdr.Magic = audio.Magic
	hdr.HeadBsize = audio.CoreSize + InfoSize - audio.DefaultInfoBytes
	hdr.Info = append([]byte(nil), buf[infoOffset:infoOffset+keep]...)
	hdr.Format = format
	hdr.Channels = chans
	hdr.SamplingRate = rate

	fileLen := h.Node.FileLen
	if fileLen >= HeaderSize {
		hdr.DataBsize = int32(fileLen - HeaderSize)
		h.Node.SetSeekEnds(HeaderSize, fileLen)
	} else {
		hdr.DataBsize = audio.UnknownLen
		h.Node.SetSeekEnds(HeaderSize, int64(audio.UnknownLen))
	}

	return nil
}

func (Backend) ReadExtraInfo(h *audio.Handle, hdr *audio.Header, done int) error {
	rem := min(hdr.InfoSize(), InfoSize) - done
	if rem <= 0 {
		return nil
	}
	if !h.Stream.Seekable() {
		return fmt.Errorf("%w: %w", audio.ErrRead, ErrNoExtraInfo)
	}

	back := h.Stream.Tell()
	if _, err := h.Stream.Seek(int64(infoOffset+done), io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrRead, err)
	}

	extra := make([]byte, rem)
	if err := h.ReadFull(extra); err != nil {
		return err
	}
	byteorder.ConvertBuffer(extra, 4, h.ByteMode(byteorder.BigEndian()))

	hdr.Info = append(hdr.Info[:done], extra...)

	if _, err := h.Stream.Seek(back, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrRead, err)
	}

	return nil
}

func (Backend) WriteHeader(h *audio.Handle, hdr *audio.Header, infoLimit int) error {
	if hdr == nil {
		return nil
	}
	if hdr.Magic != audio.Magic {
		return fmt.Errorf("%w: %w", audio.ErrNotSoundFile, audio.ErrBadMagic)
	}
	if infoLimit < 0 && !h.Stream.Seekable() {
		return nil
	}
	if err := h.Rewind(); err != nil {
		return err
	}

	pack, ok := formatToPack(hdr.Format)
	if !ok {
		h.Logger.Warn("no IRCAM pack mode for sample format", "format", hdr.Format)
	}

	buf := make([]byte, HeaderSize)
	binary.NativeEndian.PutUint32(buf[0:], Magic)
	binary.NativeEndian.PutUint32(buf[4:], math.Float32bits(hdr.SamplingRate))
	binary.NativeEndian.PutUint32(buf[8:], uint32(hdr.Channels))
	binary.NativeEndian.PutUint32(buf[12:], uint32(pack))

	n := min(len(hdr.Info), InfoSize)
	if infoLimit > 0 {
		n = min(n, infoLimit)
	}
	copy(buf[infoOffset:], hdr.Info[:n])

	byteorder.ConvertBuffer(buf, 4, h.ByteMode(byteorder.BigEndian()))
	if err := h.Write(buf); err != nil {
		return err
	}

	if hdr.DataBsize == audio.UnknownLen {
		h.Node.SetSeekEnds(HeaderSize, int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(HeaderSize, HeaderSize+int64(hdr.DataBsize))
	}

	return nil
}

func (Backend) HeaderLen(*audio.Handle) int64       { return HeaderSize }
func (Backend) TrailerLen(*audio.Handle) int64      { return 0 }
func (Backend) LastValidOffset(*audio.Handle) int64 { return 0 }

func (Backend) FixupSamples(h *audio.Handle, buf []byte, f audio.SampleFormat, n int, _ audio.Direction) int {
	return audio.SwapSamples(h, buf, f, n, byteorder.BigEndian())
}
