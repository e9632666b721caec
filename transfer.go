// SPDX-License-Identifier: EPL-2.0

package sndf

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/sndf/audio"
)

// ReadItems reads whole samples of the file's format into buf, converted
// to host order, and returns the number of samples. Reading stops at the
// end of the sound data even if the stream goes on. At the end it returns
// 0 and io.EOF.
func (f *File) ReadItems(buf []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}

	format := f.hdr.Format
	size := format.Size()
	if size == 0 {
		return 0, fmt.Errorf("%w: bad sample format %v", audio.ErrNotSoundFile, format)
	}

	st := f.h.Stream
	b := f.h.Node.Backend
	want := len(buf) / size
	pos := st.Tell()
	if end := b.LastValidOffset(f.h); end > 0 {
		want = max(min(want, int((end-pos)/int64(size))), 0)
	}
	if want == 0 {
		return 0, io.EOF
	}

	n, err := io.ReadFull(st, buf[:want*size])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("%w: %w", audio.ErrRead, err)
	}
	red := n / size
	if partial := n - red*size; partial > 0 {
		st.Push(buf[red*size : n])
	}
	if red == 0 {
		return 0, io.EOF
	}

	got := b.FixupSamples(f.h, buf, format, red, audio.DirRead)
	if got < red {
		f.truncate(buf, got, red)
	}

	return got, nil
}

// truncate handles a fix-up that found the end of the data inside the
// samples just read. The end mark moves back to the first invalid sample
// and whatever follows the trailer goes back to the stream.
func (f *File) truncate(buf []byte, got, red int) {
	format := f.hdr.Format
	size := format.Size()
	st := f.h.Stream
	b := f.h.Node.Backend

	start, _ := f.h.Node.SeekEnds()
	end := st.Tell() - int64(size*(red-got))
	f.h.Node.SetSeekEnds(start, end)

	trail := int(b.TrailerLen(f.h))
	remains := buf[got*size : red*size]
	if trail >= len(remains) {
		return
	}
	remains = remains[trail:]
	b.FixupSamples(f.h, remains, format, len(remains)/size, audio.DirUnread)
	st.Push(remains)
	f.h.Logger.Debug("sound data ends early", "end", end, "pushed", len(remains))
}

// WriteItems writes n samples of the file's format from buf, which holds
// them in host order. buf is left as it was.
func (f *File) WriteItems(buf []byte) (int, error) {
	if f.closed {
		return 0, ErrClosed
	}
	if !f.writing {
		return 0, ErrNotWritable
	}

	format := f.hdr.Format
	size := format.Size()
	if size == 0 {
		return 0, fmt.Errorf("%w: bad sample format %v", audio.ErrNotSoundFile, format)
	}

	b := f.h.Node.Backend
	items := len(buf) / size
	data := buf[:items*size]

	b.FixupSamples(f.h, data, format, items, audio.DirWrite)
	n, err := f.h.Stream.Write(data)
	b.FixupSamples(f.h, data, format, items, audio.DirRead)
	if err != nil {
		return n / size, fmt.Errorf("%w: %w", audio.ErrWrite, err)
	}

	return n / size, nil
}

// Seek moves to a frame of the sound data. io.SeekStart counts from the
// first frame and io.SeekEnd from the end of the data, which must be known.
// It returns the new frame.
func (f *File) Seek(frames int64, whence int) (int64, error) {
	st := f.h.Stream
	b := f.h.Node.Backend
	off := frames * int64(f.hdr.FrameSize())

	var err error
	switch whence {
	case io.SeekStart:
		_, err = st.Seek(b.HeaderLen(f.h)+off, io.SeekStart)
	case io.SeekCurrent:
		_, err = st.Seek(off, io.SeekCurrent)
	case io.SeekEnd:
		_, end := f.h.Node.SeekEnds()
		if end <= 0 {
			return f.Tell(), ErrUnknownEnd
		}
		_, err = st.Seek(end+off, io.SeekStart)
	default:
		return f.Tell(), fmt.Errorf("sndf: seek: invalid whence %d", whence)
	}
	if err != nil {
		return f.Tell(), fmt.Errorf("%w: %w", audio.ErrRead, err)
	}

	return f.Tell(), nil
}

// Tell returns the current frame of the sound data.
func (f *File) Tell() int64 {
	pos := f.h.Stream.Tell()
	if hl := f.h.Node.Backend.HeaderLen(f.h); pos >= hl {
		pos -= hl
	}
	if fs := int64(f.hdr.FrameSize()); fs > 0 {
		return pos / fs
	}

	return pos
}

// EOF reports whether the sound data is used up.
func (f *File) EOF() bool {
	if _, end := f.h.Node.SeekEnds(); end > 0 {
		return f.h.Stream.Tell() >= end
	}

	return f.h.Stream.EOF()
}
