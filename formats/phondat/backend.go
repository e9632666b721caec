// SPDX-License-Identifier: EPL-2.0

// Package phondat reads VerbMobil PHONDAT headers: a 512-byte little-endian
// ILS-style block followed by mono 16-bit samples.
package phondat

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/formats/internal/fields"
)

const (
	// BlockSize is the unit of the header and data block counts.
	BlockSize = 512

	flagSamples = -32000
	version1    = 1
)

type header struct {
	dataBlocks   int32 // nspbk
	headerBlocks int32 // anz_header
	speaker      string
	rate         int32
	flagType     int32
	flagInit     int32
	filename     string
	day, month   byte
	year         int16
	sex          byte
	version      byte
	adcBits      int16
	words        int16
	repetition   int16
	absAmpl      int16
}

func decode(b []byte, mode byteorder.Mode) header {
	c := fields.New(b, mode)

	var hd header
	c.Skip(5 * 4)
	hd.dataBlocks = c.Long()
	hd.headerBlocks = c.Long()
	c.Skip(5 * 4)
	hd.speaker = string(c.Bytes(2))
	c.Skip(2)         // swdh
	c.Skip(3*4 + 6*4) // ifld1, unused
	c.Skip(4 * (2 + 2))
	c.Skip(35 * 4)
	hd.rate = c.Long()
	hd.flagType = c.Long()
	hd.flagInit = c.Long()
	name := c.Bytes(32)
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	hd.filename = string(name)
	hd.day = c.Byte()
	hd.month = c.Byte()
	hd.year = c.Word()
	hd.sex = c.Byte()
	hd.version = c.Byte()
	hd.adcBits = c.Word()
	hd.words = c.Word()
	c.Skip(50 * 4)
	hd.repetition = c.Word()
	hd.absAmpl = c.Word()

	return hd
}

type Backend struct{}

func (Backend) ID() audio.FormatID { return audio.FormatPHONDAT }
func (Backend) Name() string       { return "PHONDAT" }
func (Backend) Ext() string        { return "pdt" }

func (Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, _ int) error {
	mode := h.ByteMode(byteorder.LittleEndian())

	buf := make([]byte, BlockSize)
	if _, err := io.ReadFull(h.Stream, buf); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %w: empty stream", audio.ErrNotSoundFile, ErrNotPhondatFile)
		}

		return fmt.Errorf("%w: %w", audio.ErrRead, err)
	}

	hd := decode(buf, mode)
	h.Logger.Debug("PHONDAT header",
		"data_blocks", hd.dataBlocks,
		"header_blocks", hd.headerBlocks,
		"speaker", hd.speaker,
		"rate", hd.rate,
		"file", hd.filename,
		"date", fmt.Sprintf("%d-%02d-%02d", hd.year, hd.month, hd.day),
		"adc_bits", hd.adcBits,
	)

	if hd.flagType != flagSamples {
		return fmt.Errorf("%w: %w: flagtype %d", audio.ErrNotSoundFile, ErrNotPhondatFile, hd.flagType)
	}
	if hd.version != version1 {
		return fmt.Errorf("%w: %w: %d", audio.ErrNotSoundFile, ErrBadVersion, hd.version)
	}
	if hd.headerBlocks < 1 {
		return fmt.Errorf("%w: %w: %d header blocks", audio.ErrNotSoundFile, ErrNotPhondatFile, hd.headerBlocks)
	}

	if hd.dataBlocks < 0 || hd.dataBlocks > math.MaxInt32/BlockSize {
		return fmt.Errorf("%w: %w: %d data blocks", audio.ErrNotSoundFile, ErrNotPhondatFile, hd.dataBlocks)
	}

	start := int64(hd.headerBlocks) * BlockSize
	if err := h.SkipTo(start); err != nil {
		return err
	}

	hdr.Magic = audio.Magic
	hdr.HeadBsize = audio.CoreSize
	hdr.Info = make([]byte, audio.DefaultInfoBytes)
	hdr.Format = audio.SampleShort
	hdr.Channels = 1
	hdr.SamplingRate = float32(hd.rate)
	hdr.DataBsize = hd.dataBlocks * BlockSize

	fileLen := h.Node.FileLen
	if h.Stream.Seekable() && fileLen > 0 {
		size := int32((fileLen - start) / 2 * 2)
		if size != hdr.DataBsize {
			h.Logger.Warn("PHONDAT data size disagrees with file size", "header", hdr.DataBsize, "file", size)
			// the shorter wins, unless the header says zero
			if hdr.DataBsize == 0 || size < hdr.DataBsize {
				hdr.DataBsize = size
			}
		}
	}
	h.Node.SetSeekEnds(start, fileLen)

	return nil
}

func (Backend) ReadExtraInfo(*audio.Handle, *audio.Header, int) error {
	return nil
}

func (Backend) WriteHeader(*audio.Handle, *audio.Header, int) error {
	return fmt.Errorf("PHONDAT: %w", audio.ErrWriteUnsupported)
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
	return audio.SwapSamples(h, buf, f, n, byteorder.LittleEndian())
}
