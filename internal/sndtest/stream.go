// SPDX-License-Identifier: EPL-2.0

// Package sndtest holds stream doubles and fixture helpers shared by the
// package tests.
package sndtest

import (
	"errors"
	"io"
)

// PipeReader is a non-seekable reader over a fixed byte slice. Every Read
// returns at most Chunk bytes, the way a pipe delivers data in pieces.
type PipeReader struct {
	data  []byte
	off   int
	Chunk int
}

// NewPipeReader creates a PipeReader that delivers b in chunks of chunk
// bytes. A chunk of 0 or less delivers as much as asked for.
func NewPipeReader(b []byte, chunk int) *PipeReader {
	return &PipeReader{data: b, Chunk: chunk}
}

func (p *PipeReader) Read(dst []byte) (int, error) {
	if p.off >= len(p.data) {
		return 0, io.EOF
	}
	if p.Chunk > 0 && len(dst) > p.Chunk {
		dst = dst[:p.Chunk]
	}

	n := copy(dst, p.data[p.off:])
	p.off += n

	return n, nil
}

// Remaining returns the bytes not yet delivered.
func (p *PipeReader) Remaining() int { return len(p.data) - p.off }

// SeekBuffer is an in-memory io.ReadWriteSeeker. Writes past the end grow it.
type SeekBuffer struct {
	data []byte
	off  int64
}

// NewSeekBuffer creates a SeekBuffer holding a copy of b.
func NewSeekBuffer(b []byte) *SeekBuffer {
	return &SeekBuffer{data: append([]byte(nil), b...)}
}

// Bytes returns the buffer contents.
func (b *SeekBuffer) Bytes() []byte { return b.data }

func (b *SeekBuffer) Read(p []byte) (int, error) {
	if b.off >= int64(len(b.data)) {
		return 0, io.EOF
	}

	n := copy(p, b.data[b.off:])
	b.off += int64(n)

	return n, nil
}

func (b *SeekBuffer) Write(p []byte) (int, error) {
	end := b.off + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}

	copy(b.data[b.off:end], p)
	b.off = end

	return len(p), nil
}

func (b *SeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.off + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("sndtest: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("sndtest: negative position")
	}

	b.off = abs

	return abs, nil
}

// WriteOnly hides everything but Write, like a pipe to another process.
type WriteOnly struct {
	W io.Writer
}

func (w WriteOnly) Write(p []byte) (int, error) { return w.W.Write(p) }
