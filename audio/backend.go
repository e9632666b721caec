// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/pushback"
)

// Direction of a sample fix-up.
type Direction int

const (
	// DirRead converts freshly read file bytes to host samples.
	DirRead Direction = iota
	// DirWrite converts host samples to file bytes.
	DirWrite
	// DirUnread undoes DirRead on samples that are about to be pushed back.
	DirUnread
)

// Backend reads and writes one container format.
type Backend interface {
	ID() FormatID
	Name() string
	Ext() string

	// ReadHeader parses the header at the current position into hdr,
	// storing at most maxInfo info bytes. It leaves the stream at the
	// first data byte.
	ReadHeader(h *Handle, hdr *Header, maxInfo int) error
	// WriteHeader emits a header for hdr. A negative infoLimit marks the
	// rewrite done when a file is finished, and hdr may then be nil.
	WriteHeader(h *Handle, hdr *Header, infoLimit int) error
	// ReadExtraInfo reads info bytes beyond the first done into hdr.
	ReadExtraInfo(h *Handle, hdr *Header, done int) error

	HeaderLen(h *Handle) int64
	TrailerLen(h *Handle) int64
	// LastValidOffset is the stream offset after the last sample, or 0.
	LastValidOffset(h *Handle) int64

	// FixupSamples converts n samples of format f in buf in place and
	// returns how many remain valid.
	FixupSamples(h *Handle, buf []byte, f SampleFormat, n int, dir Direction) int
}

// Handle is what a backend works on: a stream, its node and a logger.
type Handle struct {
	Stream *pushback.Stream
	Node   *Node
	Logger *slog.Logger
}

// NewHandle wraps s with a fresh, untracked node. A nil logger means
// slog.Default().
func NewHandle(s *pushback.Stream, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handle{
		Stream: s,
		Node: &Node{
			End:      int64(UnknownLen),
			ByteMode: byteorder.Unset,
			FileLen:  s.Len(),
		},
		Logger: logger,
	}
}

// ByteMode returns the node's byte mode, binding it to def first if unset.
func (h *Handle) ByteMode(def byteorder.Mode) byteorder.Mode {
	if h.Node.ByteMode == byteorder.Unset {
		h.Node.ByteMode = def
	}

	return h.Node.ByteMode
}

// ReadFull reads exactly len(b) bytes.
func (h *Handle) ReadFull(b []byte) error {
	if _, err := io.ReadFull(h.Stream, b); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}

	return nil
}

// Write writes all of b.
func (h *Handle) Write(b []byte) error {
	if _, err := h.Stream.Write(b); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

// Skip moves forward n bytes. Short skips and non-seekable streams are
// handled by reading.
func (h *Handle) Skip(n int64) error {
	if n <= 0 {
		return nil
	}

	if !h.Stream.Seekable() || n < pushback.SkipChunk {
		got, err := h.Stream.SkipByRead(n)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRead, err)
		}
		if got < n {
			return ErrPrematureEOF
		}

		return nil
	}

	if _, err := h.Stream.Seek(n, io.SeekCurrent); err != nil {
		return fmt.Errorf("%w: %w", ErrRead, err)
	}

	return nil
}

// SkipTo moves forward to the absolute offset pos.
func (h *Handle) SkipTo(pos int64) error {
	return h.Skip(pos - h.Stream.Tell())
}

// Rewind seeks a seekable stream back to offset 0 before a header write.
func (h *Handle) Rewind() error {
	if !h.Stream.Seekable() {
		return nil
	}
	if _, err := h.Stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

// SwapSamples converts n samples of format f in buf using the node's byte
// mode, or def if none is bound. It is the fix-up of every backend whose
// samples need nothing beyond byte reordering.
func SwapSamples(h *Handle, buf []byte, f SampleFormat, n int, def byteorder.Mode) int {
	mode := h.Node.ByteMode
	if mode == byteorder.Unset {
		mode = def
	}

	size := f.Size()
	byteorder.ConvertBuffer(buf[:min(len(buf), n*size)], size, mode)

	return n
}
