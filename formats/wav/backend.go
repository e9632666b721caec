// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"

	"github.com/go-audio/riff"
	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
)

type Backend struct{}

func (Backend) ID() audio.FormatID { return audio.FormatWAVE }
func (Backend) Name() string       { return "MSWAVE" }
func (Backend) Ext() string        { return "wav" }

func (Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, _ int) error {
	h.Node.ByteMode = byteorder.LittleEndian()

	p := riff.New(h.Stream)
	if err := p.ParseHeaders(); err != nil {
		if p.ID != riff.RiffID || (h.Stream.Tell() >= 12 && p.Format != riff.WavFormatID) {
			return fmt.Errorf("%w: %w", audio.ErrNotSoundFile, ErrNotWavFile)
		}

		return fmt.Errorf("%w: %w", audio.ErrRead, err)
	}
	if p.ID != riff.RiffID || p.Format != riff.WavFormatID {
		return fmt.Errorf("%w: %w", audio.ErrNotSoundFile, ErrNotWavFile)
	}

	var haveFmt bool
	for {
		id, size, err := nextChunk(h, p)
		if err != nil {
			return err
		}
		start := h.Stream.Tell()
		h.Logger.Debug("WAV chunk", "id", string(id[:]), "size", size, "pos", start)

		if id == riff.DataFormatID {
			if !haveFmt {
				return fmt.Errorf("%w: %w: data before fmt", audio.ErrNotSoundFile, ErrUnsupportedWavLayout)
			}

			return dataChunk(h, hdr, start, size)
		}

		if id == riff.FmtID {
			ch := &riff.Chunk{ID: id, Size: int(size), R: h.Stream}
			if err := ch.DecodeWavHeader(p); err != nil {
				return fmt.Errorf("%w: %w", audio.ErrRead, err)
			}
			if err := fromFmt(h, hdr, p); err != nil {
				return err
			}
			haveFmt = true
		}

		end := start + int64(size)
		if size&1 != 0 {
			end++
		}
		if err := h.SkipTo(end); err != nil {
			return err
		}
	}
}

// nextChunk reads a chunk id and size. The riff parser drops the error of
// the size read, so a short read is detected from the stream position.
func nextChunk(h *audio.Handle, p *riff.Parser) ([4]byte, uint32, error) {
	before := h.Stream.Tell()
	id, size, err := p.IDnSize()
	if err == nil && h.Stream.Tell()-before < 8 {
		err = ErrTruncatedChunk
	}
	if err != nil {
		return id, 0, fmt.Errorf("%w: %w", audio.ErrRead, errors.Join(ErrTruncatedChunk, err))
	}

	return id, size, nil
}

func fromFmt(h *audio.Handle, hdr *audio.Header, p *riff.Parser) error {
	h.Logger.Debug("WAV fmt",
		"format", p.WavAudioFormat,
		"channels", p.NumChannels,
		"rate", p.SampleRate,
		"bits", p.BitsPerSample,
	)

	if p.WavAudioFormat != formatPCM && p.WavAudioFormat != formatULaw {
		return fmt.Errorf("%w: %w: format %d", audio.ErrNotSoundFile, ErrUnsupportedWavLayout, p.WavAudioFormat)
	}

	switch p.BitsPerSample {
	case 8:
		hdr.Format = audio.SampleChar
		if p.WavAudioFormat == formatULaw {
			hdr.Format = audio.SampleULaw
		}
	case 16:
		hdr.Format = audio.SampleShort
	case 32:
		hdr.Format = audio.SampleLong
	default:
		return fmt.Errorf("%w: %w: %d bits", audio.ErrNotSoundFile, ErrUnsupportedBitDepth, p.BitsPerSample)
	}
	if p.WavAudioFormat == formatULaw && p.BitsPerSample != 8 {
		return fmt.Errorf("%w: %w: mu-law with %d bits", audio.ErrNotSoundFile, ErrUnsupportedBitDepth, p.BitsPerSample)
	}

	hdr.Magic = audio.Magic
	hdr.HeadBsize = audio.CoreSize
	hdr.Info = make([]byte, audio.DefaultInfoBytes)
	hdr.Channels = int32(p.NumChannels)
	hdr.SamplingRate = float32(p.SampleRate)

	return nil
}

// dataChunk records the data extent. Piped encoders leave the size at 0
// or 0xFFFFFFFF, in which case the stream length is used when known.
func dataChunk(h *audio.Handle, hdr *audio.Header, start int64, size uint32) error {
	if size == 0 || size == unknownSize {
		h.Node.SetSeekEnds(start, int64(audio.UnknownLen))
		hdr.DataBsize = audio.UnknownLen
		if fl := h.Node.FileLen; fl >= start {
			hdr.DataBsize = int32(fl - start)
		}

		return nil
	}

	hdr.DataBsize = int32(size)
	h.Node.SetSeekEnds(start, start+int64(size))

	return nil
}

func (Backend) ReadExtraInfo(*audio.Handle, *audio.Header, int) error {
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
	h.Node.ByteMode = byteorder.LittleEndian()

	format := uint16(formatPCM)
	var bits uint16
	switch hdr.Format {
	case audio.SampleULaw:
		format, bits = formatULaw, 8
	case audio.SampleChar:
		bits = 8
	case audio.SampleShort:
		bits = 16
	case audio.SampleLong:
		bits = 32
	default:
		return fmt.Errorf("%w: %w: %v", audio.ErrNotSoundFile, ErrUnsupportedFormat, hdr.Format)
	}

	size := int64(hdr.DataBsize)
	b := encodeHeader(format, uint16(hdr.Channels), uint32(hdr.SamplingRate), bits, size)

	if err := h.Rewind(); err != nil {
		return err
	}
	if err := h.Write(b); err != nil {
		return err
	}

	if size < 0 {
		h.Node.SetSeekEnds(HeaderSize, int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(HeaderSize, HeaderSize+size)
	}

	return nil
}

func (Backend) HeaderLen(h *audio.Handle) int64 {
	start, _ := h.Node.SeekEnds()
	if start == 0 {
		return HeaderSize
	}

	return start
}

func (Backend) TrailerLen(*audio.Handle) int64 { return 0 }

func (Backend) LastValidOffset(h *audio.Handle) int64 {
	_, end := h.Node.SeekEnds()

	return end
}

// FixupSamples converts between the little-endian on-disk layout and host
// order. 8-bit PCM is stored with an offset of 128.
func (Backend) FixupSamples(h *audio.Handle, buf []byte, f audio.SampleFormat, n int, _ audio.Direction) int {
	switch f {
	case audio.SampleChar:
		for i := range buf[:min(len(buf), n)] {
			buf[i] ^= 0x80
		}
	case audio.SampleULaw:
	case audio.SampleShort, audio.SampleLong:
		byteorder.ConvertBuffer(buf[:min(len(buf), n*f.Size())], f.Size(), byteorder.LittleEndian())
	default:
		h.Logger.Warn("sample format not known for WAV", "format", f)

		return 0
	}

	return n
}
