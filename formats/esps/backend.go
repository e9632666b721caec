// SPDX-License-Identifier: EPL-2.0

package esps

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/formats/internal/fields"
)

const (
	// CheckValue appears twice in every valid header.
	CheckValue = 0x6A1A

	fixedSize = 192
	gapSize   = 128
	recSize   = 13

	dateSize    = 26
	versionSize = 8
	progSize    = 16
	userSize    = 8
	spares      = 10

	maxNameLen = 1024
	maxDataLen = 4096
)

// Parameter block tags.
const (
	tagEnd      = 0x00
	tagFname    = 0x01
	tagBinary   = 0x04
	tagComment  = 0x0b
	tagNumParam = 0x0d
	tagDir      = 0x0f
)

// Parameter data types.
const (
	datDouble = 0x01
	datFloat  = 0x02
	datLong   = 0x03
	datShort  = 0x04
	datCoded  = 0x07
)

type fixedHeader struct {
	unk0, unk1, headerBsize, unk3 int32
	check1                        int32
	typ                           int16
	check                         int32
	ndrec                         int32
	ndouble, nfloat, nlong        int32
	nshort, nchar                 int32
	fixsiz, hsize                 int32
	edr, machine                  int16
}

func decodeFixed(b []byte, mode byteorder.Mode) fixedHeader {
	c := fields.New(b, mode)

	var f fixedHeader
	f.unk0 = c.Long()
	f.unk1 = c.Long()
	f.headerBsize = c.Long()
	f.unk3 = c.Long()
	f.check1 = c.Long()
	c.Skip(3 * 4)
	f.typ = c.Word()
	c.Skip(2)
	f.check = c.Long()
	c.Skip(dateSize + versionSize + progSize + versionSize + dateSize)
	f.ndrec = c.Long()
	c.Skip(2 + 2) // tag, pad
	f.ndouble = c.Long()
	f.nfloat = c.Long()
	f.nlong = c.Long()
	f.nshort = c.Long()
	f.nchar = c.Long()
	f.fixsiz = c.Long()
	f.hsize = c.Long()
	c.Skip(userSize)
	f.edr = c.Word()
	f.machine = c.Word()
	c.Skip(2 * spares)

	return f
}

type Backend struct{}

func (Backend) ID() audio.FormatID { return audio.FormatESPS }
func (Backend) Name() string       { return "ESPS" }
func (Backend) Ext() string        { return "sd" }

func (Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, _ int) error {
	mode := h.ByteMode(byteorder.BigEndian())

	buf := make([]byte, fixedSize)
	if err := h.ReadFull(buf); err != nil {
		return err
	}

	f := decodeFixed(buf, mode)
	if f.check1 != CheckValue {
		return fmt.Errorf("%w: %w: check %#x", audio.ErrNotSoundFile, ErrNotEspsFile, f.check1)
	}
	if f.unk0 != 4 || f.unk1 != 3000 || f.unk3 != 2 || f.typ != 13 {
		h.Logger.Debug("unusual ESPS preamble", "unk0", f.unk0, "unk1", f.unk1, "unk3", f.unk3, "type", f.typ)
	}

	format, count, err := datumFormat(h, f)
	if err != nil {
		return err
	}

	if err := h.Skip(gapSize); err != nil {
		return err
	}
	rec := make([]byte, recSize)
	if err := h.ReadFull(rec); err != nil {
		return err
	}
	if !bytes.HasPrefix(rec, []byte("samples\x00")) {
		return fmt.Errorf("%w: %w", audio.ErrNotSoundFile, ErrNoSamples)
	}

	p := &paramReader{h: h, mode: mode}
	if err := p.block(); err != nil {
		return err
	}

	if err := toData(h, int64(f.headerBsize)); err != nil {
		return err
	}

	hdr.Magic = audio.Magic
	hdr.HeadBsize = audio.CoreSize
	hdr.Info = make([]byte, audio.DefaultInfoBytes)
	hdr.Format = format
	hdr.Channels = count
	hdr.SamplingRate = float32(p.rate)
	hdr.DataBsize = audio.UnknownLen

	start := int64(f.headerBsize)
	fileLen := h.Node.FileLen
	if h.Stream.Seekable() && fileLen > start {
		frame := int64(count) * int64(format.Size())
		hdr.DataBsize = int32((fileLen - start) / frame * frame)
	}
	h.Node.SetSeekEnds(start, fileLen)

	return nil
}

// datumFormat picks the sample type from the datum counts. When more than
// one is set the last in the order double, float, long, short, char wins.
func datumFormat(h *audio.Handle, f fixedHeader) (audio.SampleFormat, int32, error) {
	var (
		format audio.SampleFormat
		count  int32
		set    bool
	)

	for _, d := range []struct {
		n      int32
		format audio.SampleFormat
	}{
		{f.ndouble, audio.SampleDouble},
		{f.nfloat, audio.SampleFloat},
		{f.nlong, audio.SampleLong},
		{f.nshort, audio.SampleShort},
		{f.nchar, audio.SampleChar},
	} {
		if d.n == 0 {
			continue
		}
		if set {
			h.Logger.Warn("ESPS declares several datum types", "previous", format, "next", d.format)
		}
		format, count, set = d.format, d.n, true
	}

	if !set || count < 1 {
		return 0, 0, fmt.Errorf("%w: %w", audio.ErrNotSoundFile, ErrNoDatum)
	}
	if count != 1 {
		h.Logger.Warn("ESPS datum count is not 1, using it as channels", "count", count)
	}

	return format, count, nil
}

func toData(h *audio.Handle, start int64) error {
	if h.Stream.Seekable() {
		if _, err := h.Stream.Seek(start, io.SeekStart); err != nil {
			return fmt.Errorf("%w: %w", audio.ErrRead, err)
		}

		return nil
	}

	return h.SkipTo(start)
}

type paramReader struct {
	h    *audio.Handle
	mode byteorder.Mode
	rate float64
}

func (p *paramReader) word() (int16, error) {
	var b [2]byte
	if err := p.h.ReadFull(b[:]); err != nil {
		return 0, err
	}

	return int16(byteorder.Uint16(b[:], p.mode)), nil
}

func (p *paramReader) long() (int32, error) {
	var b [4]byte
	if err := p.h.ReadFull(b[:]); err != nil {
		return 0, err
	}

	return int32(byteorder.Uint32(b[:], p.mode)), nil
}

func (p *paramReader) block() error {
	for {
		tag, err := p.word()
		if err != nil {
			return err
		}
		if tag == tagEnd {
			return nil
		}

		nameLen, err := p.word()
		if err != nil {
			return err
		}
		size := 4 * int(nameLen)
		if size < 0 || size >= maxNameLen {
			return fmt.Errorf("%w: %w: name length %d", audio.ErrNotSoundFile, ErrBadParam, nameLen)
		}

		switch tag {
		case tagBinary:
			p.h.Logger.Debug("ESPS binary parameter", "bytes", size)
			if err := p.h.Skip(int64(size)); err != nil {
				return err
			}
		case tagComment, tagNumParam, tagDir, tagFname:
			raw := make([]byte, size)
			if err := p.h.ReadFull(raw); err != nil {
				return err
			}
			name := string(raw)
			if i := bytes.IndexByte(raw, 0); i >= 0 {
				name = string(raw[:i])
			}

			if tag != tagNumParam {
				p.h.Logger.Debug("ESPS text parameter", "tag", tag, "text", name)

				continue
			}
			if err := p.numeric(name); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %w: unknown tag %d", audio.ErrNotSoundFile, ErrBadParam, tag)
		}
	}
}

func (p *paramReader) numeric(name string) error {
	count, err := p.long()
	if err != nil {
		return err
	}
	typ, err := p.word()
	if err != nil {
		return err
	}

	var size int
	switch typ {
	case datDouble:
		size = 8
	case datFloat, datLong:
		size = 4
	case datShort:
		size = 2
	case datCoded:
		return p.coded(name, int(count))
	default:
		return fmt.Errorf("%w: %w: data type %d", audio.ErrNotSoundFile, ErrBadParam, typ)
	}

	if count < 0 || size*int(count) >= maxDataLen {
		return fmt.Errorf("%w: %w: %d values of %d bytes", audio.ErrNotSoundFile, ErrBadParam, count, size)
	}

	data := make([]byte, size*int(count))
	if err := p.h.ReadFull(data); err != nil {
		return err
	}
	byteorder.ConvertBuffer(data, size, p.mode)

	values := make([]float64, count)
	for i := range values {
		v := data[i*size:]
		switch typ {
		case datDouble:
			values[i] = math.Float64frombits(binary.NativeEndian.Uint64(v))
		case datFloat:
			values[i] = float64(math.Float32frombits(binary.NativeEndian.Uint32(v)))
		case datLong:
			values[i] = float64(int32(binary.NativeEndian.Uint32(v)))
		case datShort:
			values[i] = float64(int16(binary.NativeEndian.Uint16(v)))
		}
	}
	p.h.Logger.Debug("ESPS parameter", "name", name, "type", typ, "values", values)

	if name == "record_freq" && typ == datDouble && count > 0 {
		p.rate = values[0]
	}

	return nil
}

// coded consumes a table of strings and count indices into it.
func (p *paramReader) coded(name string, count int) error {
	var table []string
	for {
		n, err := p.word()
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		if n < 0 || n >= 64 {
			return fmt.Errorf("%w: %w: coded string length %d", audio.ErrNotSoundFile, ErrBadParam, n)
		}

		s := make([]byte, n)
		if err := p.h.ReadFull(s); err != nil {
			return err
		}
		table = append(table, string(bytes.TrimRight(s, "\x00")))
	}

	values := make([]string, 0, count)
	for range count {
		v, err := p.word()
		if err != nil {
			return err
		}
		if v < 0 || int(v) >= len(table) {
			return fmt.Errorf("%w: %w: code %d outside table of %d", audio.ErrNotSoundFile, ErrBadParam, v, len(table))
		}
		values = append(values, table[v])
	}
	p.h.Logger.Debug("ESPS coded parameter", "name", name, "values", values)

	return nil
}

func (Backend) ReadExtraInfo(*audio.Handle, *audio.Header, int) error {
	return nil
}

func (Backend) WriteHeader(*audio.Handle, *audio.Header, int) error {
	return fmt.Errorf("ESPS: %w", audio.ErrWriteUnsupported)
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
