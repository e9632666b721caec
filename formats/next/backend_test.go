// SPDX-License-Identifier: EPL-2.0

package next

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/internal/sndtest"
	"github.com/ik5/sndf/pushback"
)

func buildHeader(order binary.ByteOrder, dataLoc, dataSize, enc, rate, chans uint32, info string) []byte {
	buf := new(bytes.Buffer)
	for _, v := range []uint32{Magic, dataLoc, dataSize, enc, rate, chans} {
		binary.Write(buf, order, v)
	}
	buf.WriteString(info)
	for buf.Len() < int(dataLoc) {
		buf.WriteByte(0)
	}

	return buf.Bytes()
}

func TestReadHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		enc  uint32
		want audio.SampleFormat
	}{
		{"mu-law", encMuLaw8, audio.SampleULaw},
		{"linear 8", encLinear8, audio.SampleChar},
		{"linear 16", encLinear16, audio.SampleShort},
		{"linear 32", encLinear32, audio.SampleLong},
		{"float", encFloat, audio.SampleFloat},
		{"double", encDouble, audio.SampleDouble},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := buildHeader(binary.BigEndian, 32, 100, tt.enc, 8000, 1, "comment")
			file = append(file, make([]byte, 100)...)

			h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)
			var hdr audio.Header
			if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
				t.Fatalf("ReadHeader() error = %v", err)
			}

			if hdr.Format != tt.want {
				t.Errorf("Format = %v, want %v", hdr.Format, tt.want)
			}
			if hdr.DataBsize != 100 || hdr.SamplingRate != 8000 || hdr.Channels != 1 {
				t.Errorf("header = %v", &hdr)
			}
			if hdr.InfoText() != "comment" {
				t.Errorf("InfoText() = %q, want %q", hdr.InfoText(), "comment")
			}
			if start, end := h.Node.SeekEnds(); start != 32 || end != 132 {
				t.Errorf("SeekEnds() = %d, %d; want 32, 132", start, end)
			}
			if h.Stream.Tell() != 32 {
				t.Errorf("Tell() = %d, want 32", h.Stream.Tell())
			}
		})
	}
}

func TestReadHeader_LittleEndianAndUnknownSize(t *testing.T) {
	t.Parallel()

	file := buildHeader(binary.LittleEndian, 28, 0xFFFFFFFF, encLinear16, 44100, 2, "")
	h := audio.NewHandle(pushback.New(sndtest.NewPipeReader(file, 5)), nil)
	h.Node.ByteMode = byteorder.LittleEndian()

	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if hdr.DataBsize != audio.UnknownLen {
		t.Errorf("DataBsize = %d, want unknown", hdr.DataBsize)
	}
	if hdr.SamplingRate != 44100 || hdr.Channels != 2 {
		t.Errorf("header = %v", &hdr)
	}
	if _, end := h.Node.SeekEnds(); end != int64(audio.UnknownLen) {
		t.Errorf("End = %d, want unknown", end)
	}
}

func TestReadHeader_NegativeSize(t *testing.T) {
	t.Parallel()

	file := buildHeader(binary.BigEndian, 28, 0xFFFFFFFE, encLinear16, 8000, 1, "")
	file = append(file, make([]byte, 8)...)
	h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)

	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if hdr.DataBsize != audio.UnknownLen {
		t.Errorf("DataBsize = %d, want unknown", hdr.DataBsize)
	}
	if start, end := h.Node.SeekEnds(); start != 28 || end != int64(audio.UnknownLen) {
		t.Errorf("SeekEnds() = %d, %d; want 28, unknown", start, end)
	}
}

func TestReadHeader_LimitedInfo(t *testing.T) {
	t.Parallel()

	file := buildHeader(binary.BigEndian, 40, 0, encLinear16, 8000, 1, "0123456789abcdef")
	h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)

	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, 6); err != nil {
		t.Fatal(err)
	}
	if string(hdr.Info) != "0123" {
		t.Errorf("Info = %q, want %q", hdr.Info, "0123")
	}
	if hdr.InfoSize() != 16 {
		t.Errorf("InfoSize() = %d, want 16", hdr.InfoSize())
	}
	if h.Stream.Tell() != 40 {
		t.Errorf("Tell() = %d, want 40", h.Stream.Tell())
	}

	if err := (Backend{}).ReadExtraInfo(h, &hdr, 4); err != nil {
		t.Fatal(err)
	}
	if string(hdr.Info) != "0123456789abcdef" {
		t.Errorf("Info after ReadExtraInfo = %q", hdr.Info)
	}
}

func TestReadHeader_Errors(t *testing.T) {
	t.Parallel()

	file := buildHeader(binary.BigEndian, 28, 0, encLinear16, 8000, 1, "")
	file[0] = 'X'
	h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)
	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, -1); !errors.Is(err, ErrNotNextFile) {
		t.Errorf("ReadHeader(bad magic) error = %v", err)
	}

	file = buildHeader(binary.BigEndian, 12, 0, encLinear16, 8000, 1, "")
	h = audio.NewHandle(pushback.New(bytes.NewReader(append(file, 0, 0, 0, 0))), nil)
	if err := (Backend{}).ReadHeader(h, &hdr, -1); !errors.Is(err, ErrBadDataLocation) {
		t.Errorf("ReadHeader(bad location) error = %v", err)
	}
}

func TestWriteHeader(t *testing.T) {
	t.Parallel()

	out := sndtest.NewSeekBuffer(nil)
	h := audio.NewHandle(pushback.New(out), nil)

	src := audio.NewHeader(audio.UnknownLen, audio.SampleALaw, 8000, 1, 0)
	src.SetInfo([]byte("recorded"))
	if err := (Backend{}).WriteHeader(h, src, 0); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}

	b := out.Bytes()
	want := []uint32{Magic, 32, 0xFFFFFFFF, encMuLaw8, 8000, 1}
	for i, w := range want {
		if got := binary.BigEndian.Uint32(b[4*i:]); got != w {
			t.Errorf("word %d = %#x, want %#x", i, got, w)
		}
	}
	if string(b[24:32]) != "recorded" {
		t.Errorf("info = %q, want %q", b[24:32], "recorded")
	}
	if start, _ := h.Node.SeekEnds(); start != 32 {
		t.Errorf("Start = %d, want 32", start)
	}
	if (Backend{}).HeaderLen(h) != 32 {
		t.Errorf("HeaderLen() = %d, want 32", (Backend{}).HeaderLen(h))
	}
}

func TestWriteHeader_Rewrite(t *testing.T) {
	t.Parallel()

	out := sndtest.NewSeekBuffer(nil)
	h := audio.NewHandle(pushback.New(out), nil)

	src := audio.NewHeader(audio.UnknownLen, audio.SampleShort, 16000, 1, 0)
	if err := (Backend{}).WriteHeader(h, src, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Stream.Write(make([]byte, 64)); err != nil {
		t.Fatal(err)
	}

	src.DataBsize = 64
	if err := (Backend{}).WriteHeader(h, src, -1); err != nil {
		t.Fatal(err)
	}
	if got := binary.BigEndian.Uint32(out.Bytes()[8:]); got != 64 {
		t.Errorf("data size after rewrite = %d, want 64", got)
	}
	if len(out.Bytes()) != 28+64 {
		t.Errorf("file length = %d, want %d", len(out.Bytes()), 28+64)
	}
}
