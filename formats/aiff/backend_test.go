// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/internal/sndtest"
	"github.com/ik5/sndf/pushback"
)

type chunkSpec struct {
	id   string
	body []byte
}

// buildForm assembles a FORM container. A zero formSize is replaced by the
// real size.
func buildForm(formType string, formSize uint32, chunks ...chunkSpec) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("FORM")
	binary.Write(buf, binary.BigEndian, formSize)
	buf.WriteString(formType)
	for _, c := range chunks {
		buf.WriteString(c.id)
		binary.Write(buf, binary.BigEndian, uint32(len(c.body)))
		buf.Write(c.body)
		if len(c.body)%2 == 1 {
			buf.WriteByte(0)
		}
	}

	b := buf.Bytes()
	if formSize == 0 {
		binary.BigEndian.PutUint32(b[4:], uint32(len(b)-8))
	}

	return b
}

func commBody(chans int16, frames uint32, bits int16, rate int) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, chans)
	binary.Write(buf, binary.BigEndian, frames)
	binary.Write(buf, binary.BigEndian, bits)
	r := goaudio.IntToIEEEFloat(rate)
	buf.Write(r[:])

	return buf.Bytes()
}

func ssndBody(offset uint32, data []byte) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, offset)
	binary.Write(buf, binary.BigEndian, uint32(0))
	buf.Write(make([]byte, offset))
	buf.Write(data)

	return buf.Bytes()
}

func TestReadHeader(t *testing.T) {
	t.Parallel()

	data := make([]byte, 40)
	file := buildForm("AIFF", 0,
		chunkSpec{"COMM", commBody(2, 10, 16, 44100)},
		chunkSpec{"APPL", []byte("odd")},
		chunkSpec{"SSND", ssndBody(4, data)},
	)

	for _, pipe := range []bool{false, true} {
		var s *pushback.Stream
		if pipe {
			s = pushback.New(sndtest.NewPipeReader(file, 3))
		} else {
			s = pushback.New(bytes.NewReader(file))
		}
		h := audio.NewHandle(s, nil)

		var hdr audio.Header
		if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
			t.Fatalf("pipe=%v: ReadHeader() error = %v", pipe, err)
		}

		if hdr.Format != audio.SampleShort || hdr.Channels != 2 || hdr.SamplingRate != 44100 {
			t.Errorf("pipe=%v: header = %v", pipe, &hdr)
		}
		if hdr.DataBsize != 40 {
			t.Errorf("pipe=%v: DataBsize = %d, want 40", pipe, hdr.DataBsize)
		}

		wantStart := int64(len(file) - len(data))
		if start, end := h.Node.SeekEnds(); start != wantStart || end != wantStart+40 {
			t.Errorf("pipe=%v: SeekEnds() = %d, %d; want %d, %d", pipe, start, end, wantStart, wantStart+40)
		}
		if s.Tell() != wantStart {
			t.Errorf("pipe=%v: Tell() = %d, want %d", pipe, s.Tell(), wantStart)
		}
	}
}

func TestReadHeader_AIFC(t *testing.T) {
	t.Parallel()

	comm := commBody(1, 100, 8, 8000)
	comm = append(comm, "NONE"...)
	comm = append(comm, 14)
	comm = append(comm, "not compressed"...)
	comm = append(comm, 0)

	stamp := make([]byte, 4)
	binary.BigEndian.PutUint32(stamp, fverStamp)

	file := buildForm("AIFC", 0xFFFFFFFF,
		chunkSpec{"FVER", stamp},
		chunkSpec{"COMM", comm},
		chunkSpec{"SSND", ssndBody(0, nil)},
	)

	h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)
	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
		t.Fatalf("ReadHeader() error = %v", err)
	}
	if hdr.Format != audio.SampleChar || hdr.SamplingRate != 8000 {
		t.Errorf("header = %v", &hdr)
	}
	if hdr.DataBsize != 100 {
		t.Errorf("DataBsize = %d, want 100", hdr.DataBsize)
	}
}

func TestReadHeader_UnknownLength(t *testing.T) {
	t.Parallel()

	file := buildForm("AIFF", 0xFFFFFFFF,
		chunkSpec{"COMM", commBody(1, 0, 16, 16000)},
		chunkSpec{"SSND", ssndBody(0, nil)},
	)

	h := audio.NewHandle(pushback.New(bytes.NewReader(file)), nil)
	var hdr audio.Header
	if err := (Backend{}).ReadHeader(h, &hdr, -1); err != nil {
		t.Fatal(err)
	}
	if hdr.DataBsize != audio.UnknownLen {
		t.Errorf("DataBsize = %d, want unknown", hdr.DataBsize)
	}
	if (Backend{}).LastValidOffset(h) != int64(audio.UnknownLen) {
		t.Errorf("LastValidOffset() = %d, want unknown", (Backend{}).LastValidOffset(h))
	}
}

func TestReadHeader_Errors(t *testing.T) {
	t.Parallel()

	stamp := make([]byte, 4)
	binary.BigEndian.PutUint32(stamp, 1)

	tests := []struct {
		name string
		file []byte
		want error
	}{
		{"not a form", []byte("RIFF\x00\x00\x00\x00WAVE"), ErrNotAiffFile},
		{"bad form type", buildForm("8SVX", 4), ErrBadFormType},
		{"no ssnd", buildForm("AIFF", 26, chunkSpec{"COMM", commBody(1, 1, 16, 8000)}), ErrTruncatedHeader},
		{"bad version", buildForm("AIFC", 12, chunkSpec{"FVER", stamp}), ErrBadVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := audio.NewHandle(pushback.New(bytes.NewReader(tt.file)), nil)
			var hdr audio.Header
			err := (Backend{}).ReadHeader(h, &hdr, -1)
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadHeader() error = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, audio.ErrNotSoundFile) {
				t.Errorf("ReadHeader() error = %v, want ErrNotSoundFile", err)
			}
		})
	}
}

func TestWriteHeader_Layout(t *testing.T) {
	t.Parallel()

	out := sndtest.NewSeekBuffer(nil)
	h := audio.NewHandle(pushback.New(out), nil)

	hdr := audio.NewHeader(400, audio.SampleShort, 22050, 2, 0)
	if err := (Backend{}).WriteHeader(h, hdr, 0); err != nil {
		t.Fatalf("WriteHeader() error = %v", err)
	}

	b := out.Bytes()
	if len(b) != HeaderSize {
		t.Fatalf("header size = %d, want %d", len(b), HeaderSize)
	}

	checks := []struct {
		off  int
		id   string
		size uint32
	}{
		{0, "FORM", HeaderSize - 8 + 400},
		{12, "COMM", commSize},
		{38, "MARK", markSize},
		{48, "INST", instSize},
		{76, "SSND", 400 + 8},
	}
	for _, c := range checks {
		if string(b[c.off:c.off+4]) != c.id {
			t.Errorf("chunk at %d = %q, want %q", c.off, b[c.off:c.off+4], c.id)
		}
		if got := binary.BigEndian.Uint32(b[c.off+4:]); got != c.size {
			t.Errorf("%s size = %d, want %d", c.id, got, c.size)
		}
	}
	if got := binary.BigEndian.Uint32(b[22:]); got != 100 {
		t.Errorf("frames = %d, want 100", got)
	}
	if b[56] != 60 || b[59] != 127 || b[61] != 127 {
		t.Errorf("INST notes = %v", b[56:62])
	}
	if start, end := h.Node.SeekEnds(); start != HeaderSize || end != HeaderSize+400 {
		t.Errorf("SeekEnds() = %d, %d", start, end)
	}
}

func TestWriteHeader_UnknownLength(t *testing.T) {
	t.Parallel()

	out := sndtest.NewSeekBuffer(nil)
	h := audio.NewHandle(pushback.New(out), nil)

	hdr := audio.NewHeader(audio.UnknownLen, audio.SampleShort, 8000, 1, 0)
	if err := (Backend{}).WriteHeader(h, hdr, 0); err != nil {
		t.Fatal(err)
	}

	b := out.Bytes()
	if got := binary.BigEndian.Uint32(b[4:]); got != unknownForm {
		t.Errorf("FORM size = %#x, want 0xffffffff", got)
	}
	if got := binary.BigEndian.Uint32(b[22:]); got != 0 {
		t.Errorf("frames = %d, want 0", got)
	}

	// and it reads back as unknown
	r := audio.NewHandle(pushback.New(bytes.NewReader(b)), nil)
	var back audio.Header
	if err := (Backend{}).ReadHeader(r, &back, -1); err != nil {
		t.Fatal(err)
	}
	if back.DataBsize != audio.UnknownLen {
		t.Errorf("DataBsize = %d, want unknown", back.DataBsize)
	}
}

func TestWriteHeader_DecodesWithGoAudio(t *testing.T) {
	t.Parallel()

	samples := sndtest.Shorts(sndtest.Sine(16000, 440), 160, 1)
	data := sndtest.ShortBytes(samples, binary.BigEndian)

	out := sndtest.NewSeekBuffer(nil)
	h := audio.NewHandle(pushback.New(out), nil)
	hdr := audio.NewHeader(int32(len(data)), audio.SampleShort, 16000, 1, 0)
	if err := (Backend{}).WriteHeader(h, hdr, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := out.Write(data); err != nil {
		t.Fatal(err)
	}

	dec := goaiff.NewDecoder(bytes.NewReader(out.Bytes()))
	if !dec.IsValidFile() {
		t.Fatal("go-audio decoder rejected the header")
	}
	dec.ReadInfo()
	f := dec.Format()
	if f.SampleRate != 16000 || f.NumChannels != 1 {
		t.Errorf("go-audio format = %+v", f)
	}
	if dec.BitDepth != 16 {
		t.Errorf("go-audio bit depth = %d, want 16", dec.BitDepth)
	}
}

func TestExtended(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{1, 8000, 11025, 22050, 44100, 96000} {
		if got, want := floatToExtended(float64(rate)), goaudio.IntToIEEEFloat(rate); got != want {
			t.Errorf("floatToExtended(%d) = %x, want %x", rate, got, want)
		}
	}

	for _, v := range []float64{0, 0.5, -3.25, 11127.27, 22254.545454, 1e-300, 1e300} {
		if got := extendedToFloat(floatToExtended(v)); got != v {
			t.Errorf("extended round trip of %g = %g", v, got)
		}
	}
}

func TestWriteHeader_FractionalRate(t *testing.T) {
	t.Parallel()

	for _, rate := range []float32{22254.545, 11127.27, 0.5, 8000} {
		out := sndtest.NewSeekBuffer(nil)
		h := audio.NewHandle(pushback.New(out), nil)
		if err := (Backend{}).WriteHeader(h, audio.NewHeader(0, audio.SampleShort, rate, 1, 0), 0); err != nil {
			t.Fatalf("WriteHeader(%g) error = %v", rate, err)
		}

		r := audio.NewHandle(pushback.New(bytes.NewReader(out.Bytes())), nil)
		var back audio.Header
		if err := (Backend{}).ReadHeader(r, &back, -1); err != nil {
			t.Fatalf("ReadHeader(%g) error = %v", rate, err)
		}
		if back.SamplingRate != rate {
			t.Errorf("SamplingRate = %g, want %g", back.SamplingRate, rate)
		}
	}
}

func TestTrailerLen(t *testing.T) {
	t.Parallel()

	h := audio.NewHandle(pushback.New(bytes.NewReader(nil)), nil)
	h.Node.FileLen = 1000
	h.Node.SetSeekEnds(92, 900)
	if got := (Backend{}).TrailerLen(h); got != 100 {
		t.Errorf("TrailerLen() = %d, want 100", got)
	}
	if got := (Backend{}).HeaderLen(h); got != 92 {
		t.Errorf("HeaderLen() = %d, want 92", got)
	}
}
