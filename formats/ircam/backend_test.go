// SPDX-License-Identifier: EPL-2.0

package ircam

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/internal/sndtest"
	"github.com/ik5/sndf/pushback"
)

func buildHeader(order binary.ByteOrder, rate float32, chans, pack int32, info string) []byte {
	buf := make([]byte, HeaderSize)
	order.PutUint32(buf[0:], Magic)
	order.PutUint32(buf[4:], math.Float32bits(rate))
	order.PutUint32(buf[8:], uint32(chans))
	order.PutUint32(buf[12:], uint32(pack))
	copy(buf[16:], info)

	return buf
}

func TestReadHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		order binary.ByteOrder
		mode  byteorder.Mode
		pack  int32
		want  audio.SampleFormat
	}{
		{"big endian short", binary.BigEndian, byteorder.BigEndian(), packShort, audio.SampleShort},
		{"little endian float", binary.LittleEndian, byteorder.LittleEndian(), packFloat, audio.SampleFloat},
		{"big endian long", binary.BigEndian, byteorder.BigEndian(), packLong, audio.SampleLong},
		{"mu-law", binary.BigEndian, byteorder.BigEndian(), packULaw, audio.SampleULaw},
		{"a-law", binary.BigEndian, byteorder.BigEndian(), packALaw, audio.SampleALaw},
		{"char", binary.BigEndian, byteorder.BigEndian(), packChar, audio.SampleChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := append(buildHeader(tt.order, 22050, 2, tt.pack, ""), make([]byte, 400)...)
			h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)
			h.Node.ByteMode = tt.mode

			var hdr audio.Header
			if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
				t.Fatalf("ReadHeader() error = %v", err)
			}

			if hdr.Format != tt.want {
				t.Errorf("Format = %v, want %v", hdr.Format, tt.want)
			}
			if hdr.SamplingRate != 22050 || hdr.Channels != 2 {
				t.Errorf("rate, chans = %v, %d; want 22050, 2", hdr.SamplingRate, hdr.Channels)
			}
			if hdr.DataBsize != 400 {
				t.Errorf("DataBsize = %d, want 400", hdr.DataBsize)
			}
			if start, end := h.Node.SeekEnds(); start != HeaderSize || end != HeaderSize+400 {
				t.Errorf("SeekEnds() = %d, %d; want 1024, 1424", start, end)
			}
			if h.Stream.Tell() != HeaderSize {
				t.Errorf("Tell() = %d, want %d", h.Stream.Tell(), HeaderSize)
			}
		})
	}
}

func TestReadHeader_DefaultsToBigEndian(t *testing.T) {
	t.Parallel()

	file := buildHeader(binary.BigEndian, 8000, 1, packShort, "")
	h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)

	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, 0); err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if h.Node.ByteMode != byteorder.BigEndian() {
		t.Errorf("ByteMode = %v, want %v", h.Node.ByteMode, byteorder.BigEndian())
	}
	if len(hdr.Info) != audio.DefaultInfoBytes {
		t.Errorf("len(Info) = %d, want %d", len(hdr.Info), audio.DefaultInfoBytes)
	}
	if hdr.InfoSize() != InfoSize {
		t.Errorf("InfoSize() = %d, want %d", hdr.InfoSize(), InfoSize)
	}
}

func TestReadHeader_Pipe(t *testing.T) {
	t.Parallel()

	file := append(buildHeader(binary.BigEndian, 16000, 1, packShort, ""), 1, 2, 3, 4)
	h := audio.NewHandle(pushback.New(sndtest.NewPipeReader(file, 100)), nil)

	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if hdr.DataBsize != audio.UnknownLen {
		t.Errorf("DataBsize = %d, want unknown", hdr.DataBsize)
	}
	if _, end := h.Node.SeekEnds(); end != int64(audio.UnknownLen) {
		t.Errorf("End = %d, want unknown", end)
	}
}

func TestReadHeader_Errors(t *testing.T) {
	t.Parallel()

	bad := buildHeader(binary.BigEndian, 8000, 1, packShort, "")
	bad[3] ^= 0xFF
	h := audio.NewHandle(pushback.New(bytes.NewReader(bad)), nil)
	h.Node.ByteMode = byteorder.BigEndian()

	var hdr audio.Header
	err := (Backend{}).ReadHeader(h, &hdr, -1)
	if !errors.Is(err, audio.ErrNotSoundFile) || !errors.Is(err, ErrNotIrcamFile) {
		t.Errorf("ReadHeader(bad magic) error = %v", err)
	}

	short := audio.NewHandle(pushback.New(bytes.NewReader(bad[:100])), nil)
	if err := (Backend{}).ReadHeader(short, &hdr, -1); !errors.Is(err, audio.ErrRead) {
		t.Errorf("ReadHeader(short) error = %v, want ErrRead", err)
	}
}

func TestReadHeader_UnknownPackMode(t *testing.T) {
	t.Parallel()

	file := buildHeader(binary.BigEndian, 8000, 1, 99, "")
	h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)

	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if hdr.Format != 99 {
		t.Errorf("Format = %d, want 99 kept as-is", hdr.Format)
	}
}

func TestWriteThenRead(t *testing.T) {
	t.Parallel()

	for _, mode := range []byteorder.Mode{byteorder.BigEndian(), byteorder.LittleEndian()} {
		out := sndtest.NewSeekBuffer(nil)
		w := audio.NewHandle(pushback.New(out), nil)
		w.Node.ByteMode = mode

		src := audio.NewHeader(2000, audio.SampleShort, 11025, 1, 8)
		if err := (Backend{}).WriteHeader(w, src, 0); err != nil {
			t.Fatalf("WriteHeader() error = %v", err)
		}
		if len(out.Bytes()) != HeaderSize {
			t.Fatalf("header size = %d, want %d", len(out.Bytes()), HeaderSize)
		}
		if got := byteorder.Uint32(out.Bytes(), mode); got != Magic {
			t.Errorf("mode %v: magic on disk = %d, want %d", mode, got, Magic)
		}
		if _, end := w.Node.SeekEnds(); end != HeaderSize+2000 {
			t.Errorf("End = %d, want %d", end, HeaderSize+2000)
		}

		r := audio.NewHandle(pushback.New(bytes.NewReader(out.Bytes())), nil)
		r.Node.ByteMode = mode
		var hdr audio.Header
		if err := (Backend{}).ReadHeader(r, &hdr, -1); err != nil {
			t.Fatalf("ReadHeader() error = %v", err)
		}
		if hdr.SamplingRate != 11025 || hdr.Format != audio.SampleShort || hdr.Channels != 1 {
			t.Errorf("mode %v: read back %v", mode, &hdr)
		}
	}
}

func TestWriteHeader_Rejects(t *testing.T) {
	t.Parallel()

	h := audio.NewHandle(pushback.New(sndtest.NewSeekBuffer(nil)), nil)
	if err := (Backend{}).WriteHeader(h, nil, -1); err != nil {
		t.Errorf("WriteHeader(nil) error = %v, want nil", err)
	}

	hdr := audio.NewHeader(0, audio.SampleShort, 8000, 1, 0)
	hdr.Magic = 0
	if err := (Backend{}).WriteHeader(h, hdr, 0); !errors.Is(err, audio.ErrNotSoundFile) {
		t.Errorf("WriteHeader(bad magic) error = %v, want ErrNotSoundFile", err)
	}
}

func TestReadExtraInfo(t *testing.T) {
	t.Parallel()

	file := buildHeader(binary.BigEndian, 8000, 1, packShort, "")
	// info codes are 32-bit cells
	binary.BigEndian.PutUint32(file[16:], 0x11111111)
	binary.BigEndian.PutUint32(file[20:], 0x22222222)
	binary.BigEndian.PutUint32(file[24:], 0x33333333)

	h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)
	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, 8); err != nil {
		t.Fatal(err)
	}
	if len(hdr.Info) != 8 {
		t.Fatalf("len(Info) = %d, want 8", len(hdr.Info))
	}

	if err := (Backend{}).ReadExtraInfo(h, &hdr, 8); err != nil {
		t.Fatalf("ReadExtraInfo() error = %v", err)
	}
	if len(hdr.Info) != InfoSize {
		t.Errorf("len(Info) = %d, want %d", len(hdr.Info), InfoSize)
	}
	if got := binary.NativeEndian.Uint32(hdr.Info[8:]); got != 0x33333333 {
		t.Errorf("third info cell = %#x, want 0x33333333", got)
	}
	if h.Stream.Tell() != HeaderSize {
		t.Errorf("Tell() = %d, want %d", h.Stream.Tell(), HeaderSize)
	}
}

func TestFixupSamples(t *testing.T) {
	t.Parallel()

	h := audio.NewHandle(pushback.New(bytes.NewReader(nil)), nil)
	h.Node.ByteMode = byteorder.BigEndian()

	buf := []byte{0x12, 0x34, 0x56, 0x78}
	n := (Backend{}).FixupSamples(h, buf, audio.SampleShort, 2, audio.DirRead)
	if n != 2 {
		t.Errorf("FixupSamples() = %d, want 2", n)
	}
	if got := int16(binary.NativeEndian.Uint16(buf)); got != 0x1234 {
		t.Errorf("first sample = %#x, want 0x1234", got)
	}
}
