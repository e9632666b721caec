// SPDX-License-Identifier: EPL-2.0

package next

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
)

const (
	Magic    = 0x2e736e64
	CoreSize = 24
)

// Encoding codes.
const (
	encMuLaw8   = 1
	encLinear8  = 2
	encLinear16 = 3
	encLinear32 = 5
	encFloat    = 6
	encDouble   = 7
)

var encToFormat = map[int32]audio.SampleFormat{
	encMuLaw8:   audio.SampleULaw,
	encLinear8:  audio.SampleChar,
	encLinear16: audio.SampleShort,
	encLinear32: audio.SampleLong,
	encFloat:    audio.SampleFloat,
	encDouble:   audio.SampleDouble,
}

func formatToEnc(f audio.SampleFormat) (int32, bool) {
	switch f {
	case audio.SampleChar:
		return encLinear8, true
	case audio.SampleALaw, audio.SampleULaw:
		// there is no A-law code; such data is labelled mu-law
		return encMuLaw8, true
	case audio.SampleShort:
		return encLinear16, true
	case audio.SampleLong:
		return encLinear32, true
	case audio.SampleFloat:
		return encFloat, true
	case audio.SampleDouble:
		return encDouble, true
	}

	return int32(f), false
}

type Backend struct{}

func (Backend) ID() audio.FormatID { return audio.FormatNeXT }
func (Backend) Name() string       { return "NeXT" }
func (Backend) Ext() string        { return "snd" }

func (Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, maxInfo int) error {
	core := make([]byte, CoreSize)
	if err := h.ReadFull(core); err != nil {
		return err
	}

	mode := h.ByteMode(byteorder.BigEndian())
	byteorder.ConvertBuffer(core, 4, mode)

	word := func(i int) int32 { return int32(binary.NativeEndian.Uint32(core[4*i:])) }
	if magic := uint32(word(0)); magic != Magic {
		return fmt.Errorf("%w: %w: magic %#x", audio.ErrNotSoundFile, ErrNotNextFile, magic)
	}

	dataLoc, dataSize, enc, rate, chans := word(1), word(2), word(3), word(4), word(5)
	if dataLoc < CoreSize {
		return fmt.Errorf("%w: %w: %d", audio.ErrNotSoundFile, ErrBadDataLocation, dataLoc)
	}
	if dataSize < 0 && dataSize != audio.UnknownLen {
		h.Logger.Warn("negative NeXT data size read as unknown", "size", dataSize)
		dataSize = audio.UnknownLen
	}

	format, ok := encToFormat[enc]
	if !ok {
		h.Logger.Warn("unrecognised NeXT encoding", "encoding", enc)
		format = audio.SampleFormat(enc)
	}

	infoSize := int(dataLoc) - CoreSize
	keep := audio.InfoLimit(maxInfo, infoSize)
	info := make([]byte, keep)
	if err := h.ReadFull(info); err != nil {
		return err
	}
	if err := h.SkipTo(int64(dataLoc)); err != nil {
		return err
	}

	hdr.Magic = audio.Magic
	hdr.HeadBsize = int32(audio.CoreSize + max(infoSize, audio.DefaultInfoBytes) - audio.DefaultInfoBytes)
	hdr.Info = info
	hdr.DataBsize = dataSize
	hdr.Format = format
	hdr.Channels = chans
	hdr.SamplingRate = float32(rate)

	if dataSize == audio.UnknownLen {
		h.Node.SetSeekEnds(int64(dataLoc), int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(int64(dataLoc), int64(dataLoc)+int64(dataSize))
	}

	return nil
}

func (Backend) ReadExtraInfo(h *audio.Handle, hdr *audio.Header, done int) error {
	rem := hdr.InfoSize() - done
	if rem <= 0 {
		return nil
	}
	if !h.Stream.Seekable() {
		return fmt.Errorf("%w: %w", audio.ErrRead, ErrNoExtraInfo)
	}

	back := h.Stream.Tell()
	if _, err := h.Stream.Seek(int64(CoreSize+done), io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrRead, err)
	}

	extra := make([]byte, rem)
	if err := h.ReadFull(extra); err != nil {
		return err
	}
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

	infoBytes := len(hdr.Info)
	if infoLimit >= audio.DefaultInfoBytes && infoLimit < infoBytes {
		infoBytes = infoLimit
	}
	infoBytes = max(infoBytes, audio.DefaultInfoBytes)
	dataLoc := CoreSize + infoBytes

	enc, ok := formatToEnc(hdr.Format)
	if !ok {
		h.Logger.Warn("no NeXT encoding for sample format", "format", hdr.Format)
	}

	buf := make([]byte, dataLoc)
	for i, v := range []int32{Magic, int32(dataLoc), hdr.DataBsize, enc, int32(hdr.SamplingRate), hdr.Channels} {
		binary.NativeEndian.PutUint32(buf[4*i:], uint32(v))
	}
	byteorder.ConvertBuffer(buf[:CoreSize], 4, h.ByteMode(byteorder.BigEndian()))
	copy(buf[CoreSize:], hdr.Info)

	if err := h.Write(buf); err != nil {
		return err
	}

	if hdr.DataBsize == audio.UnknownLen {
		h.Node.SetSeekEnds(int64(dataLoc), int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(int64(dataLoc), int64(dataLoc)+int64(hdr.DataBsize))
	}

	return nil
}

func (Backend) HeaderLen(h *audio.Handle) int64 {
	if start, _ := h.Node.SeekEnds(); start >= CoreSize {
		return start
	}

	return CoreSize + audio.DefaultInfoBytes
}

func (Backend) TrailerLen(*audio.Handle) int64      { return 0 }
func (Backend) LastValidOffset(*audio.Handle) int64 { return 0 }

func (Backend) FixupSamples(h *audio.Handle, buf []byte, f audio.SampleFormat, n int, _ audio.Direction) int {
	return audio.SwapSamples(h, buf, f, n, byteorder.BigEndian())
}
