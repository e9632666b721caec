// SPDX-License-Identifier: EPL-2.0

// Package nist handles NIST SPHERE files with linear or mu-law samples.
package nist

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/formats/internal/sphere"
)

const Magic = "NIST_1A"

// parsed is the set of fields the backend interprets.
var parsed = map[string]bool{
	"channel_count":      true,
	"sample_count":       true,
	"sample_rate":        true,
	"sample_n_bytes":     true,
	"sample_coding":      true,
	"sample_byte_format": true,
	"sample_sig_bits":    true,
	"sample_checksum":    true,
}

type Backend struct{}

func (Backend) ID() audio.FormatID { return audio.FormatNIST }
func (Backend) Name() string       { return "NIST" }
func (Backend) Ext() string        { return "sph" }

func (Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, maxInfo int) error {
	hd, err := sphere.Read(h, Magic)
	if err != nil {
		return err
	}

	get := func(name string, def int64) int64 {
		if f, ok := hd.Lookup(name); ok {
			if v, err := f.Int(); err == nil {
				return v
			}
			h.Logger.Warn("bad NIST integer field", "field", name, "value", f.Value)
		}

		return def
	}

	chans := get("channel_count", 1)
	perChan := get("sample_count", -1)
	rate := get("sample_rate", 0)
	nbytes := get("sample_n_bytes", 2)

	coding := "pcm"
	if f, ok := hd.Lookup("sample_coding"); ok {
		coding = f.Value
	}

	pcm := coding == "pcm" || strings.HasPrefix(coding, "pcm,")

	var format audio.SampleFormat
	switch {
	case pcm && nbytes == 1:
		format = audio.SampleChar
	case pcm && nbytes == 2:
		format = audio.SampleShort
	case pcm && nbytes == 4:
		format = audio.SampleLong
	case (coding == "ulaw" || coding == "mu-law") && nbytes == 1:
		format = audio.SampleULaw
	default:
		return fmt.Errorf("%w: %w: %s, %d bytes", audio.ErrNotSoundFile, ErrUnsupportedCoding, coding, nbytes)
	}

	order := byteorder.BigEndian()
	if f, ok := hd.Lookup("sample_byte_format"); ok && f.Value == "01" {
		order = byteorder.LittleEndian()
	}
	h.Node.ByteMode = order

	var info bytes.Buffer
	for i, f := range hd.Fields {
		if !parsed[f.Name] {
			info.WriteString(hd.Lines[i])
			info.WriteByte('\n')
		}
	}

	hdr.Magic = audio.Magic
	hdr.Format = format
	hdr.Channels = int32(chans)
	hdr.SamplingRate = float32(rate)
	hdr.DataBsize = audio.UnknownLen
	if perChan >= 0 {
		hdr.DataBsize = int32(perChan * chans * nbytes)
	}
	sphere.KeepInfo(h, hdr, info.Bytes(), maxInfo)

	if hdr.DataBsize == audio.UnknownLen {
		h.Node.SetSeekEnds(hd.Size, int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(hd.Size, hd.Size+int64(hdr.DataBsize))
	}

	return nil
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

	coding := "pcm"
	switch hdr.Format {
	case audio.SampleChar, audio.SampleShort, audio.SampleLong:
	case audio.SampleULaw:
		coding = "ulaw"
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, hdr.Format)
	}
	if infoLimit < 0 && !h.Stream.Seekable() {
		return nil
	}

	size := hdr.Format.Size()
	fields := []sphere.Field{
		sphere.StringField("database_id", "sndf"),
		sphere.IntField("sample_count", hdr.Frames()),
		sphere.IntField("channel_count", int64(hdr.Channels)),
		sphere.IntField("sample_n_bytes", int64(size)),
		sphere.IntField("sample_rate", int64(hdr.SamplingRate+0.5)),
	}
	if size > 1 {
		bf := "10"
		if !sphere.IsBigEndian(h.ByteMode(byteorder.InOrder)) {
			bf = "01"
		}
		fields = append(fields, sphere.StringField("sample_byte_format", bf))
	}
	fields = append(fields,
		sphere.StringField("sample_coding", coding),
		sphere.IntField("sample_sig_bits", int64(8*size)),
	)

	b := sphere.Encode(Magic, fields, sphere.InfoText(hdr, infoLimit))
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
