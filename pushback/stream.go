// SPDX-License-Identifier: EPL-2.0

package pushback

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
)

// Mode tells whether a Stream forwards calls or keeps a virtual position.
type Mode int

const (
	ModeBypass Mode = iota
	ModeVirtual
)

func (m Mode) String() string {
	if m == ModeBypass {
		return "bypass"
	}

	return "virtual"
}

// SkipChunk is the size of the scratch buffer used to skip by reading.
const SkipChunk = 256

// Stream is a byte stream with push-back and a re-basable position.
// A Stream is not safe for concurrent use.
type Stream struct {
	r io.Reader
	w io.Writer
	s io.Seeker
	c io.Closer

	logger *slog.Logger

	mode     Mode
	pushbuf  []byte
	pushpos  int
	seekable bool
	pos      int64
	skew     int64
	length   int64
	atEOF    bool
}

// Option configures a Stream.
type Option func(*Stream)

// WithLogger sets the logger used for push-back warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Stream) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wraps r. If r also implements io.Writer, io.Seeker or io.Closer those
// are used as well.
func New(r io.Reader, opts ...Option) *Stream {
	var w io.Writer
	if ww, ok := r.(io.Writer); ok {
		w = ww
	}

	return newStream(r, w, r, opts)
}

// NewWriter wraps a stream that may only support writing.
func NewWriter(w io.Writer, opts ...Option) *Stream {
	var r io.Reader
	if rr, ok := w.(io.Reader); ok {
		r = rr
	}

	return newStream(r, w, w, opts)
}

func newStream(r io.Reader, w io.Writer, base any, opts []Option) *Stream {
	s := &Stream{
		r:      r,
		w:      w,
		logger: slog.Default(),
		mode:   ModeBypass,
		length: -1,
	}

	if c, ok := base.(io.Closer); ok {
		s.c = c
	}

	if sk, ok := base.(io.Seeker); ok {
		s.s = sk
		s.probeSeek()
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Stream) probeSeek() {
	cur, err := s.s.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}

	end, err := s.s.Seek(0, io.SeekEnd)
	if err != nil {
		return
	}

	if _, err := s.s.Seek(cur, io.SeekStart); err != nil {
		return
	}

	s.seekable = true
	s.pos = cur
	s.length = end
}

// Mode returns the current mode.
func (s *Stream) Mode() Mode { return s.mode }

// Seekable reports whether the underlying stream supports seeking.
func (s *Stream) Seekable() bool { return s.seekable }

// Len returns the believed length in virtual coordinates, or -1.
func (s *Stream) Len() int64 { return s.length }

// Pending returns the number of pushed-back bytes not yet consumed.
func (s *Stream) Pending() int { return len(s.pushbuf) - s.pushpos }

// Read fills p from pushed-back bytes first and then from the underlying
// stream, looping until p is full or the stream runs out.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.r == nil {
		return 0, fmt.Errorf("pushback: read: %w", io.ErrClosedPipe)
	}

	n := 0
	if s.Pending() > 0 {
		n = copy(p, s.pushbuf[s.pushpos:])
		s.pushpos += n
		s.dropDrained()
	}

	var err error
	for n < len(p) {
		var m int
		m, err = s.r.Read(p[n:])
		n += m
		if err != nil {
			break
		}
		if m == 0 {
			break
		}
	}
	s.pos += int64(n)

	switch {
	case err == io.EOF:
		s.atEOF = true
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	case err != nil:
		return n, fmt.Errorf("pushback: read: %w", err)
	}

	return n, nil
}

// Write writes p to the underlying stream.
func (s *Stream) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotWritable
	}

	n, err := s.w.Write(p)
	s.pos += int64(n)
	if s.pos > s.length {
		s.length = s.pos
	}
	if err != nil {
		return n, fmt.Errorf("pushback: write: %w", err)
	}

	return n, nil
}

// Push returns p to the front of the stream. The next Read yields p, then
// whatever was pending before.
func (s *Stream) Push(p []byte) {
	n := len(p)
	if n == 0 {
		return
	}

	if s.pushpos >= n {
		start := s.pushpos - n
		if !bytes.Equal(s.pushbuf[start:s.pushpos], p) {
			s.logger.Warn("re-pushing different bytes", "count", n, "pos", s.pos)
			copy(s.pushbuf[start:s.pushpos], p)
		}
		s.pushpos = start
	} else {
		rest := s.pushbuf[s.pushpos:]
		buf := make([]byte, 0, n+len(rest))
		buf = append(buf, p...)
		buf = append(buf, rest...)
		s.pushbuf = buf
		s.pushpos = 0
	}

	s.pos -= int64(n)
	s.mode = ModeVirtual
}

// SetPos re-labels the current position as p without moving the stream.
func (s *Stream) SetPos(p int64) {
	step := s.pos - p
	s.skew += step
	s.pos = p
	if s.length >= 0 {
		s.length -= step
	}
	s.mode = ModeVirtual
}

// Tell returns the current position.
func (s *Stream) Tell() int64 {
	if s.mode == ModeBypass && s.seekable {
		if p, err := s.s.Seek(0, io.SeekCurrent); err == nil {
			s.pos = p
		}
	}

	return s.pos
}

// Seek moves to a position in virtual coordinates. On a non-seekable stream
// only forward moves are possible and are done by reading.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.Tell() + offset
	case io.SeekEnd:
		if s.length < 0 {
			return s.pos, ErrUnknownLength
		}
		target = s.length + offset
	default:
		return s.pos, ErrInvalidWhence
	}

	if target < 0 {
		return s.pos, ErrNegativePosition
	}

	if pending := int64(s.Pending()); pending > 0 {
		bufStart := s.pos - int64(s.pushpos)
		bufEnd := s.pos + pending
		if target >= bufStart && target <= bufEnd {
			s.pushpos = int(target - bufStart)
			s.pos = target
			s.dropDrained()

			return target, nil
		}

		// The pushed-back bytes are stale once we leave them.
		s.pos = bufEnd
		s.pushbuf = nil
		s.pushpos = 0
	}

	if !s.seekable {
		if target < s.pos {
			return s.pos, ErrBackwardSeek
		}

		want := target - s.pos
		got, err := s.SkipByRead(want)
		if err != nil {
			return s.pos, err
		}
		if got < want {
			return s.pos, io.ErrUnexpectedEOF
		}

		return s.pos, nil
	}

	if _, err := s.s.Seek(s.skew+target, io.SeekStart); err != nil {
		return s.pos, fmt.Errorf("pushback: seek: %w", err)
	}
	s.pos = target
	s.atEOF = false

	return target, nil
}

// dropDrained releases the push-back buffer once every byte in it was read.
func (s *Stream) dropDrained() {
	if s.pushbuf != nil && s.pushpos >= len(s.pushbuf) {
		s.pushbuf = nil
		s.pushpos = 0
	}
}

// SkipByRead discards up to n bytes by reading them.
func (s *Stream) SkipByRead(n int64) (int64, error) {
	var scratch [SkipChunk]byte

	var done int64
	for done < n {
		want := min(n-done, SkipChunk)
		m, err := s.Read(scratch[:want])
		done += int64(m)
		if err == io.EOF || m == 0 {
			break
		}
		if err != nil {
			return done, err
		}
	}

	return done, nil
}

// EOF reports whether no more bytes can be read.
func (s *Stream) EOF() bool {
	if s.Pending() > 0 {
		return false
	}

	return s.atEOF
}

// Close discards any pending bytes and closes the underlying stream.
func (s *Stream) Close() error {
	if pending := s.Pending(); pending > 0 {
		s.logger.Warn("discarding pending push-back bytes", "pending", pending, "size", len(s.pushbuf))
	}
	s.pushbuf = nil
	s.pushpos = 0

	if s.c == nil {
		return nil
	}

	return s.c.Close()
}
