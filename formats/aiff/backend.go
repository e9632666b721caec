// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
)

const (
	// HeaderSize is the size of a header written by this package.
	HeaderSize = 92

	commSize = 18
	markSize = 2
	instSize = 20
	ssndHead = 8

	fverStamp   = 0xA2805140
	unknownForm = 0xFFFFFFFF
)

type Backend struct{}

func (Backend) ID() audio.FormatID { return audio.FormatAIFF }
func (Backend) Name() string       { return "AIFF" }
func (Backend) Ext() string        { return "aif" }

func (Backend) ReadHeader(h *audio.Handle, hdr *audio.Header, _ int) error {
	h.Node.ByteMode = byteorder.BigEndian()

	var form [12]byte
	if err := h.ReadFull(form[:]); err != nil {
		return err
	}
	if string(form[0:4]) != "FORM" {
		return fmt.Errorf("%w: %w", audio.ErrNotSoundFile, ErrNotAiffFile)
	}

	formSize := binary.BigEndian.Uint32(form[4:])
	var aifc bool
	switch string(form[8:12]) {
	case "AIFF":
	case "AIFC":
		aifc = true
	default:
		return fmt.Errorf("%w: %w: %q", audio.ErrNotSoundFile, ErrBadFormType, form[8:12])
	}

	if formSize != unknownForm {
		h.Node.FileLen = int64(formSize) + 8
	}

	hdr.Magic = audio.Magic
	hdr.HeadBsize = audio.CoreSize
	hdr.Info = make([]byte, audio.DefaultInfoBytes)
	hdr.DataBsize = 0

	var commRead, ssndRead bool
	var dataStart int64

	for {
		var ck [8]byte
		if err := h.ReadFull(ck[:]); err != nil {
			return fmt.Errorf("%w: %w", audio.ErrNotSoundFile, ErrTruncatedHeader)
		}

		id := string(ck[:4])
		size := int64(int32(binary.BigEndian.Uint32(ck[4:])))
		if size < 0 {
			return fmt.Errorf("%w: %w: %s", audio.ErrNotSoundFile, ErrBadChunkSize, id)
		}
		start := h.Stream.Tell()
		h.Logger.Debug("AIFF chunk", "id", id, "size", size, "pos", start)

		switch id {
		case "COMM":
			if err := readComm(h, hdr, aifc); err != nil {
				return err
			}
			commRead = true
		case "FVER":
			var stamp [4]byte
			if err := h.ReadFull(stamp[:]); err != nil {
				return err
			}
			if binary.BigEndian.Uint32(stamp[:]) != fverStamp {
				return fmt.Errorf("%w: %w", audio.ErrNotSoundFile, ErrBadVersion)
			}
		case "SSND":
			var sd [ssndHead]byte
			if err := h.ReadFull(sd[:]); err != nil {
				return err
			}
			dataStart = start + ssndHead + int64(binary.BigEndian.Uint32(sd[0:]))
			if hdr.DataBsize == 0 && formSize == unknownForm {
				hdr.DataBsize = audio.UnknownLen
			}
			ssndRead = true
		}

		if commRead && ssndRead {
			return toData(h, hdr, dataStart)
		}

		if size&1 != 0 {
			size++
		}
		if err := h.SkipTo(start + size); err != nil {
			return err
		}
	}
}

func readComm(h *audio.Handle, hdr *audio.Header, aifc bool) error {
	var comm [commSize]byte
	if err := h.ReadFull(comm[:]); err != nil {
		return err
	}

	chans := int16(binary.BigEndian.Uint16(comm[0:]))
	frames := binary.BigEndian.Uint32(comm[2:])
	bits := int16(binary.BigEndian.Uint16(comm[6:]))
	var rate [10]byte
	copy(rate[:], comm[8:])

	if aifc {
		var compression [4]byte
		if err := h.ReadFull(compression[:]); err != nil {
			return err
		}
		name, err := readPstring(h)
		if err != nil {
			return err
		}
		if string(compression[:]) != "NONE" {
			h.Logger.Warn("cannot handle AIFC compression", "type", string(compression[:]), "name", name)
		}
	}

	switch {
	case bits <= 8:
		hdr.Format = audio.SampleChar
	case bits <= 16:
		hdr.Format = audio.SampleShort
	default:
		hdr.Format = audio.SampleLong
	}
	hdr.Channels = int32(chans)
	hdr.SamplingRate = float32(extendedToFloat(rate))
	hdr.DataBsize = int32(int64(frames) * int64(chans) * int64(hdr.Format.Size()))

	return nil
}

// readPstring reads a Pascal string padded to an even total length.
func readPstring(h *audio.Handle) (string, error) {
	var n [1]byte
	if err := h.ReadFull(n[:]); err != nil {
		return "", err
	}

	strLen := int(n[0])
	padded := strLen
	if strLen&1 == 0 {
		padded++
	}

	buf := make([]byte, padded)
	if err := h.ReadFull(buf); err != nil {
		return "", err
	}

	return string(buf[:strLen]), nil
}

func toData(h *audio.Handle, hdr *audio.Header, dataStart int64) error {
	if h.Stream.Tell() > dataStart {
		if _, err := h.Stream.Seek(dataStart, io.SeekStart); err != nil {
			return fmt.Errorf("%w: %w", audio.ErrRead, err)
		}
	} else if err := h.SkipTo(dataStart); err != nil {
		return err
	}

	if hdr.DataBsize == audio.UnknownLen {
		h.Node.SetSeekEnds(dataStart, int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(dataStart, dataStart+int64(hdr.DataBsize))
	}

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
	h.Node.ByteMode = byteorder.BigEndian()

	sampSize := hdr.Format.Size()
	var frames, ssndSize, formSize uint32
	if hdr.DataBsize != audio.UnknownLen {
		if fs := sampSize * int(hdr.Channels); fs > 0 {
			frames = uint32(int(hdr.DataBsize) / fs)
		}
		ssndSize = uint32(hdr.DataBsize) + ssndHead
		formSize = HeaderSize - 8 + uint32(hdr.DataBsize)
	} else {
		ssndSize = ssndHead
		formSize = unknownForm
	}

	be := binary.BigEndian
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize))
	chunk := func(id string, size uint32) {
		buf.WriteString(id)
		binary.Write(buf, be, size)
	}

	chunk("FORM", formSize)
	buf.WriteString("AIFF")

	chunk("COMM", commSize)
	binary.Write(buf, be, int16(hdr.Channels))
	binary.Write(buf, be, frames)
	binary.Write(buf, be, int16(sampSize*8))
	rate := floatToExtended(float64(hdr.SamplingRate))
	buf.Write(rate[:])

	chunk("MARK", markSize)
	binary.Write(buf, be, int16(0))

	chunk("INST", instSize)
	// baseNote, detune, lowNote, highNote, lowVelocity, highVelocity
	buf.Write([]byte{60, 0, 0, 127, 0, 127})
	// gain, then sustain and release loops: playMode, beginMark, endMark
	buf.Write(make([]byte, 2+6+6))

	chunk("SSND", ssndSize)
	binary.Write(buf, be, uint32(0))
	binary.Write(buf, be, uint32(0))

	if err := h.Rewind(); err != nil {
		return err
	}
	if err := h.Write(buf.Bytes()); err != nil {
		return err
	}

	if hdr.DataBsize == audio.UnknownLen {
		h.Node.SetSeekEnds(HeaderSize, int64(audio.UnknownLen))
	} else {
		h.Node.SetSeekEnds(HeaderSize, HeaderSize+int64(hdr.DataBsize))
	}

	return nil
}

func (Backend) HeaderLen(h *audio.Handle) int64 {
	start, _ := h.Node.SeekEnds()

	return start
}

func (Backend) TrailerLen(h *audio.Handle) int64 {
	_, end := h.Node.SeekEnds()
	if h.Node.FileLen >= 0 && end >= 0 {
		return h.Node.FileLen - end
	}

	return 0
}

func (Backend) LastValidOffset(h *audio.Handle) int64 {
	_, end := h.Node.SeekEnds()

	return end
}

func (Backend) FixupSamples(_ *audio.Handle, buf []byte, f audio.SampleFormat, n int, _ audio.Direction) int {
	size := f.Size()
	byteorder.ConvertBuffer(buf[:min(len(buf), n*size)], size, byteorder.BigEndian())

	return n
}
