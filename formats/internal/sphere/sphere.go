// SPDX-License-Identifier: EPL-2.0

// Package sphere reads and writes the ASCII headers shared by the NIST
// SPHERE and Switchboard STRUT formats:
//
//	NIST_1A
//	   1024
//	sample_rate -i 8000
//	sample_coding -s3 pcm
//	end_head
//
// The second line gives the header length in bytes. The header is padded
// with spaces up to that length and the samples follow.
package sphere

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
)

const (
	// BlockSize is the header length unit.
	BlockSize = 1024

	EndHead = "end_head"

	maxLenLine = 64
	maxHeader  = 1 << 20
)

var (
	ErrBadMagic  = errors.New("wrong ASCII header id")
	ErrBadLength = errors.New("bad ASCII header length")
	ErrNoEndHead = errors.New("ASCII header has no end_head")

	ErrNoExtraInfo = errors.New("no header info held back")
)

// Field is one "name -type value" line.
type Field struct {
	Name  string
	Type  string
	Value string
}

// Int returns the value as an integer.
func (f Field) Int() (int64, error) {
	return strconv.ParseInt(f.Value, 10, 64)
}

// Float returns the value as a real number.
func (f Field) Float() (float64, error) {
	return strconv.ParseFloat(f.Value, 64)
}

func (f Field) String() string {
	if f.Type == "" {
		return f.Name + " " + f.Value
	}

	return f.Name + " " + f.Type + " " + f.Value
}

// IntField formats an integer field.
func IntField(name string, v int64) Field {
	return Field{Name: name, Type: "-i", Value: strconv.FormatInt(v, 10)}
}

// StringField formats a string field with its length in the type.
func StringField(name, v string) Field {
	return Field{Name: name, Type: "-s" + strconv.Itoa(len(v)), Value: v}
}

// RealField formats a real field with six decimals.
func RealField(name string, v float64) Field {
	return Field{Name: name, Type: "-r", Value: strconv.FormatFloat(v, 'f', 6, 64)}
}

// ParseField splits a header line. String values declared as -sN keep
// embedded spaces; other values end at the first blank.
func ParseField(line string) Field {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimLeft(rest, " \t")
	typ, rest, _ := strings.Cut(rest, " ")
	rest = strings.TrimLeft(rest, " \t")

	f := Field{Name: name, Type: typ}
	if n, err := strconv.Atoi(strings.TrimPrefix(typ, "-s")); err == nil && strings.HasPrefix(typ, "-s") && n <= len(rest) {
		f.Value = rest[:n]

		return f
	}
	f.Value, _, _ = strings.Cut(rest, " ")

	return f
}

// Header is a parsed ASCII header.
type Header struct {
	// Size is the declared header length and the offset of the samples.
	Size   int64
	Fields []Field
	// Lines holds the raw text of each field, parallel to Fields.
	Lines []string
}

// Lookup returns the first field called name.
func (hd *Header) Lookup(name string) (Field, bool) {
	for _, f := range hd.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// Read parses a header that starts with magic and leaves the stream at the
// first sample.
func Read(h *audio.Handle, magic string) (*Header, error) {
	id := make([]byte, len(magic)+1)
	n, err := io.ReadFull(h.Stream, id)
	if err != nil {
		if n == 0 {
			return nil, fmt.Errorf("%w: %w", audio.ErrZeroLength, err)
		}

		return nil, fmt.Errorf("%w: %w", audio.ErrPrematureEOF, err)
	}
	if got := strings.TrimRight(string(id), "\r\n"); got != magic {
		return nil, fmt.Errorf("%w: %w: %q", audio.ErrNotSoundFile, ErrBadMagic, got)
	}

	lenLine, err := readLine(h)
	if err != nil {
		return nil, err
	}
	size, err := strconv.ParseInt(strings.TrimSpace(lenLine), 10, 64)
	consumed := int64(len(id) + len(lenLine) + 1)
	if err != nil || size < consumed || size > maxHeader {
		return nil, fmt.Errorf("%w: %w: %q", audio.ErrNotSoundFile, ErrBadLength, lenLine)
	}

	body := make([]byte, size-consumed)
	got, err := io.ReadFull(h.Stream, body)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", audio.ErrRead, err)
	}

	hd := &Header{Size: size}
	sc := bufio.NewScanner(bytes.NewReader(body[:got]))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		f := ParseField(line)
		if f.Name == EndHead {
			if got < len(body) {
				return nil, fmt.Errorf("%w: header cut short", audio.ErrPrematureEOF)
			}

			return hd, nil
		}
		hd.Fields = append(hd.Fields, f)
		hd.Lines = append(hd.Lines, line)
	}

	return nil, fmt.Errorf("%w: %w", audio.ErrNotSoundFile, ErrNoEndHead)
}

func readLine(h *audio.Handle) (string, error) {
	var line []byte
	var b [1]byte
	for len(line) < maxLenLine {
		if err := h.ReadFull(b[:]); err != nil {
			return "", err
		}
		if b[0] == '\n' {
			return string(line), nil
		}
		line = append(line, b[0])
	}

	return "", fmt.Errorf("%w: %w: length line too long", audio.ErrNotSoundFile, ErrBadLength)
}

// Encode lays out a header: magic, length, fields, the raw extra text,
// end_head, then space padding up to a multiple of BlockSize.
func Encode(magic string, fields []Field, extra []byte) []byte {
	body := new(bytes.Buffer)
	for _, f := range fields {
		body.WriteString(f.String())
		body.WriteByte('\n')
	}
	body.Write(extra)
	body.WriteString(EndHead + "\n")

	head := magic + "\n"
	size := int64(BlockSize)
	for int64(len(head)+8+body.Len()) > size {
		size += BlockSize
	}

	out := bytes.NewBuffer(make([]byte, 0, size))
	out.WriteString(head)
	fmt.Fprintf(out, "%7d\n", size)
	out.Write(body.Bytes())
	out.Write(bytes.Repeat([]byte{' '}, int(size)-out.Len()))

	return out.Bytes()
}

// KeepInfo stores the unparsed header lines as info, zero padded to a word
// boundary. Only maxInfo bytes go into hdr.Info; the rest stays on the
// node for ReadExtraInfo.
func KeepInfo(h *audio.Handle, hdr *audio.Header, text []byte, maxInfo int) {
	full := make([]byte, (len(text)+3)&^3)
	copy(full, text)

	hdr.HeadBsize = audio.CoreSize + int32(max(0, len(full)-audio.DefaultInfoBytes))
	keep := audio.InfoLimit(maxInfo, max(len(full), audio.DefaultInfoBytes))
	hdr.Info = make([]byte, max(keep, audio.DefaultInfoBytes))
	copy(hdr.Info, full)
	h.Node.Info = full
}

// ExtraInfo copies the held-back info past done into hdr.
func ExtraInfo(h *audio.Handle, hdr *audio.Header, done int) error {
	done = max(done, audio.DefaultInfoBytes)
	want := hdr.InfoSize()
	if want <= done {
		return nil
	}
	if len(h.Node.Info) < want {
		return fmt.Errorf("%w: %w", audio.ErrRead, ErrNoExtraInfo)
	}

	info := make([]byte, want)
	copy(info, hdr.Info[:min(done, len(hdr.Info))])
	copy(info[done:], h.Node.Info[done:want])
	hdr.Info = info

	return nil
}

// InfoText returns the info bytes to write back as header lines, limited by
// infoLimit when it is at least the default size.
func InfoText(hdr *audio.Header, infoLimit int) []byte {
	n := min(hdr.InfoSize(), len(hdr.Info))
	if infoLimit >= audio.DefaultInfoBytes {
		n = min(infoLimit, len(hdr.Info))
	}
	if n <= audio.DefaultInfoBytes {
		return nil
	}

	text := hdr.Info[:n]
	if i := bytes.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}
	if len(text) > 0 && text[len(text)-1] != '\n' {
		text = append(bytes.Clone(text), '\n')
	}

	return text
}

// IsBigEndian reports whether data converted with m is stored most
// significant byte first.
func IsBigEndian(m byteorder.Mode) bool {
	return (m^byteorder.BigEndian())&byteorder.ByteRev == 0
}
