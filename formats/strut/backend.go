// SPDX-License-Identifier: EPL-2.0

// Package strut reads and writes the Switchboard STRUT ASCII header: an
// "STRUT_1A" id, a length line and "name -type value" fields up to
// end_head, padded with spaces to 1024 bytes.
//
// Fields the backend does not interpret are kept, one per line, in the
// header's info area and written back out on the next WriteHeader.
package strut

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/formats/internal/sphere"
)

const Magic = "STRUT_1A"

type Backend struct{}

func (Backend) ID() audio.FormatID { return audio.FormatSTRUT }
func (Backend) Name() string       { return "STRUT" }
func (Backend) Ext() string        { return "str" }

func (Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, maxInfo int) error {
	hd, err := sphere.Read(h, Magic)
	if err != nil {
		return err
	}

	var (
		chans           int64 = 1
		frames, rate    int64
		nbytes, sigBits int64
		base            = audio.FlagLinear
		order           = byteorder.BigEndian()
		info            bytes.Buffer
	)

	for i, f := range hd.Fields {
		switch f.Name {
		case "channel_count":
			chans, _ = f.Int()
		case "sample_count":
			frames, _ = f.Int()
		case "sample_rate":
			rate, _ = f.Int()
		case "sample_n_bytes":
			nbytes, _ = f.Int()
		case "sample_sig_bits":
			sigBits, _ = f.Int()
		case "sample_checksum":
		case "sample_coding":
			base = coding(h, f.Value, base)
		case "sample_byte_format":
			order = byteFormat(h, f.Value, order)
		default:
			info.WriteString(hd.Lines[i])
			info.WriteByte('\n')
		}
	}

	if sigBits != 8*nbytes {
		h.Logger.Warn("STRUT sample bits do not match sample bytes", "bits", sigBits, "bytes", nbytes)
	}

	var format audio.SampleFormat
	switch {
	case nbytes == 1:
		format = base | 1
	case nbytes == 2 && base == audio.FlagLinear:
		format = audio.SampleShort
	default:
		return fmt.Errorf("%w: %w: %d bytes", audio.ErrNotSoundFile, ErrSampleSize, nbytes)
	}

	h.Node.ByteMode = order

	hdr.Magic = audio.Magic
	hdr.Format = format
	hdr.Channels = int32(chans)
	hdr.SamplingRate = float32(rate)
	hdr.DataBsize = int32(nbytes * frames * chans)
	if frames < 0 {
		hdr.DataBsize = audio.UnknownLen
	}
	sphere.KeepInfo(h, hdr, info.Bytes(), maxInfo)

	if hdr.DataBsize == audio.UnknownLen {
		h.Node.SetSeekEnds(hd.Size, int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(hd.Size, hd.Size+int64(hdr.DataBsize))
	}

	return nil
}

func coding(h *audio.Handle, v string, base audio.SampleFormat) audio.SampleFormat {
	switch {
	case v == "pcm":
		return audio.FlagLinear
	case strings.HasPrefix(v, "pcm,"):
		if !strings.HasPrefix(v[4:], "embedded-shorten-v2.") {
			h.Logger.Warn("extra sample coding ignored", "coding", v)
		}

		return audio.FlagLinear
	case v == "alaw":
		return audio.FlagALaw
	case v == "ulaw", v == "mu-law":
		return audio.FlagULaw
	case strings.HasPrefix(v, "ulaw"):
		h.Logger.Warn("extra sample coding ignored", "coding", v)

		return audio.FlagULaw
	}
	h.Logger.Warn("unknown sample coding ignored", "coding", v)

	return base
}

// byteFormat maps sample_byte_format to a byte mode: "10" is most
// significant byte first, "01" least significant first.
func byteFormat(h *audio.Handle, v string, cur byteorder.Mode) byteorder.Mode {
	switch v {
	case "10", "1":
		return byteorder.BigEndian()
	case "01":
		return byteorder.LittleEndian()
	case "mu-law":
		h.Logger.Warn("odd mu-law sample_byte_format")

		return byteorder.BigEndian()
	}
	h.Logger.Warn("unknown sample_byte_format ignored", "format", v)

	return cur
}

func (Backend) ReadExtraInfo(h *audio.Handle, hdr *audio.Header, done int) error {
	return sphere.ExtraInfo(h, hdr, done)
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

	size := hdr.Format.Size()
	frames := hdr.Frames()

	coding := "pcm"
	switch {
	case hdr.Format&audio.FlagULaw != 0:
		coding = "ulaw"
	case hdr.Format&audio.FlagALaw != 0:
		coding = "alaw"
	case hdr.Format.IsFloat():
		coding = "float"
	}

	fields := []sphere.Field{
		sphere.IntField("channel_count", int64(hdr.Channels)),
		sphere.StringField("sample_coding", coding),
		sphere.IntField("sample_count", frames),
		sphere.IntField("sample_rate", int64(hdr.SamplingRate)),
		sphere.IntField("sample_n_bytes", int64(size)),
		sphere.IntField("sample_sig_bits", int64(8*size)),
	}

	if !hdr.Format.IsCompanded() {
		endian, bf := "Big", "10"
		if !sphere.IsBigEndian(h.ByteMode(byteorder.InOrder)) {
			endian, bf = "Little", "01"
		}
		fields = append(fields,
			sphere.StringField("sample_byte_format", bf),
			sphere.StringField("data_format", endian+"Endian"),
			sphere.RealField("record_freq", float64(hdr.SamplingRate)),
			sphere.RealField("start_time", 0),
		)
	}

	extra := sphere.InfoText(hdr, infoLimit)
	if extra == nil {
		fields = append(fields,
			sphere.StringField("file_type", "samples"),
			sphere.IntField("data_offset", sphere.BlockSize),
			sphere.IntField("data_size", int64(hdr.DataBsize)),
		)
	}

	b := sphere.Encode(Magic, fields, extra)
	if err := h.Rewind(); err != nil {
		return err
	}
	if err := h.Write(b); err != nil {
		return err
	}

	start := int64(len(b))
	if hdr.DataBsize == audio.UnknownLen {
		h.Node.SetSeekEnds(start, int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(start, start+int64(hdr.DataBsize))
	}

	return nil
}

func (Backend) HeaderLen(h *audio.Handle) int64 {
	start, _ := h.Node.SeekEnds()

	return start
}

func (Backend) TrailerLen(*audio.Handle) int64 { return 0 }

func (Backend) LastValidOffset(h *audio.Handle) int64 {
	_, end := h.Node.SeekEnds()

	return end
}

func (Backend) FixupSamples(h *audio.Handle, buf []byte, f audio.SampleFormat, n int, _ audio.Direction) int {
	return audio.SwapSamples(h, buf, f, n, byteorder.BigEndian())
}
