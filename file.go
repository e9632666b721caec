// SPDX-License-Identifier: EPL-2.0

package sndf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/pushback"
)

// StdioName opens stdin for reading and stdout for writing.
const StdioName = "-"

// File is an open sound: a stream, the format state bound to it and its
// header. A File must not be used from more than one goroutine.
type File struct {
	sess    *Session
	h       *audio.Handle
	hdr     *audio.Header
	name    string
	writing bool
	// owned is false once the stream has been handed to the next File.
	owned  bool
	closed bool

	scratch []byte
}

// OpenRead opens path and reads its header with all of its info.
func (s *Session) OpenRead(path string) (*File, error) {
	r, err := openIn(path)
	if err != nil {
		return nil, &audio.PathError{Op: "open", Path: path, Err: fmt.Errorf("%w: %w", audio.ErrNotOpenable, err)}
	}

	st := pushback.New(r, pushback.WithLogger(s.logger))
	f, err := s.openRead(st, path, -1)
	if err != nil {
		s.nodes.Remove(st)
		if path != StdioName {
			st.Close()
		}

		return nil, &audio.PathError{Op: "open", Path: path, Err: err}
	}

	return f, nil
}

// OpenReadStream reads a sound header from r. Closing the File closes r
// if it is an io.Closer.
func (s *Session) OpenReadStream(r io.Reader, name string) (*File, error) {
	st := pushback.New(r, pushback.WithLogger(s.logger))
	f, err := s.openRead(st, name, -1)
	if err != nil {
		s.nodes.Remove(st)

		return nil, err
	}

	return f, nil
}

func openIn(path string) (io.Reader, error) {
	if path == StdioName {
		return os.Stdin, nil
	}

	return os.Open(path)
}

func (s *Session) openRead(st *pushback.Stream, name string, maxInfo int) (*File, error) {
	h := s.nodes.Handle(st, s.logger.With("file", name))
	if err := s.bindRead(h); err != nil {
		return nil, err
	}

	hdr := &audio.Header{}
	if err := h.Node.Backend.ReadHeader(h, hdr, maxInfo); err != nil {
		return nil, err
	}
	if err := hdr.Validate(); err != nil {
		return nil, err
	}
	h.Logger.Debug("read sound header", "format", h.Node.Backend.Name(), "header", hdr)

	return &File{sess: s, h: h, hdr: hdr, name: name, owned: true}, nil
}

// OpenWrite creates path and writes hdr to it in the default format. The
// file is opened for reading as well so the header can be rewritten by
// FinishWrite.
func (s *Session) OpenWrite(path string, hdr *audio.Header) (*File, error) {
	var w io.Writer = os.Stdout
	if path != StdioName {
		fh, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, &audio.PathError{Op: "create", Path: path, Err: fmt.Errorf("%w: %w", audio.ErrNotOpenable, err)}
		}
		w = fh
	}

	st := pushback.NewWriter(w, pushback.WithLogger(s.logger))
	f, err := s.openWrite(st, path, hdr)
	if err != nil {
		s.nodes.Remove(st)
		if path != StdioName {
			st.Close()
		}

		return nil, &audio.PathError{Op: "create", Path: path, Err: err}
	}

	return f, nil
}

// OpenWriteStream writes hdr to w. A format bound to the stream with
// SetFormat takes precedence over the default.
func (s *Session) OpenWriteStream(w io.Writer, name string, hdr *audio.Header) (*File, error) {
	return s.OpenWriteTo(pushback.NewWriter(w, pushback.WithLogger(s.logger)), name, hdr)
}

// OpenWriteTo is OpenWriteStream on an existing stream, so that a format
// can be bound to it first.
func (s *Session) OpenWriteTo(st *pushback.Stream, name string, hdr *audio.Header) (*File, error) {
	f, err := s.openWrite(st, name, hdr)
	if err != nil {
		s.nodes.Remove(st)

		return nil, err
	}

	return f, nil
}

func (s *Session) openWrite(st *pushback.Stream, name string, hdr *audio.Header) (*File, error) {
	if hdr == nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrNotSoundFile, audio.ErrBadMagic)
	}
	if err := hdr.Validate(); err != nil {
		return nil, err
	}

	h := s.nodes.Handle(st, s.logger.With("file", name))
	s.bindWrite(h)
	if err := h.Node.Backend.WriteHeader(h, hdr, 0); err != nil {
		if errors.Is(err, audio.ErrWrite) || errors.Is(err, audio.ErrNotSoundFile) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", audio.ErrWrite, err)
	}
	h.Logger.Debug("wrote sound header", "format", h.Node.Backend.Name(), "header", hdr)

	return &File{sess: s, h: h, hdr: hdr, name: name, writing: true, owned: true}, nil
}

// Header returns the header. Changes to it are seen by FinishWrite.
func (f *File) Header() *audio.Header { return f.hdr }

func (f *File) Name() string { return f.name }

// Stream returns the underlying stream.
func (f *File) Stream() *pushback.Stream { return f.h.Stream }

// FormatID returns the container format of the file.
func (f *File) FormatID() audio.FormatID { return f.h.Node.Backend.ID() }

// Format returns the sample format.
func (f *File) Format() audio.SampleFormat { return f.hdr.Format }

func (f *File) Channels() int { return int(f.hdr.Channels) }

func (f *File) SampleRate() int { return int(f.hdr.SamplingRate + 0.5) }

func (f *File) SetFormat(format audio.SampleFormat) { f.hdr.Format = format }

func (f *File) SetChannels(n int) { f.hdr.Channels = int32(n) }

func (f *File) SetSampleRate(rate float32) { f.hdr.SamplingRate = rate }

// ReadExtraInfo fetches info bytes the header read left behind.
func (f *File) ReadExtraInfo() error {
	return f.h.Node.Backend.ReadExtraInfo(f.h, f.hdr, len(f.hdr.Info))
}

// FinishWrite rewrites the header with the amount of data written when the
// stream is seekable, and completes any trailer. The stream is left at its
// end with the position reset to zero, ready for another sound.
func (f *File) FinishWrite() error {
	if !f.writing {
		return ErrNotWritable
	}

	var (
		st  = f.h.Stream
		b   = f.h.Node.Backend
		err error
	)
	if st.Seekable() {
		n := st.Tell() - b.HeaderLen(f.h)
		if f.hdr.DataBsize == 0 || f.hdr.DataBsize == audio.UnknownLen {
			f.hdr.DataBsize = int32(n)
		}
		err = b.WriteHeader(f.h, f.hdr, -1)
	} else {
		err = b.WriteHeader(f.h, nil, -1)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", audio.ErrWrite, err)
	}

	if _, err := st.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrWrite, err)
	}
	st.SetPos(0)
	f.writing = false
	f.sess.nodes.Remove(st)

	return nil
}

// FlushToEOF skips the rest of the sound data and returns how many items
// of the sample format were passed over. The stream position is reset to
// zero so that a following sound on the same stream can be opened.
func (f *File) FlushToEOF() (int64, error) {
	st := f.h.Stream
	b := f.h.Node.Backend
	size := int64(max(f.hdr.Format.Size(), 1))

	var (
		skipped int64 = -1
		now           = st.Tell()
	)
	if _, end := f.h.Node.SeekEnds(); end >= 0 {
		trail := b.TrailerLen(f.h)
		if _, err := st.Seek(end+trail, io.SeekStart); err == nil {
			skipped = max(end-now, 0) / size
		}
	}

	if skipped < 0 {
		skipped = 0
		buf := make([]byte, 1024*size)
		for {
			n, err := f.ReadItems(buf)
			skipped += int64(n)
			if err != nil || n == 0 {
				break
			}
		}
	}

	f.sess.nodes.Remove(st)
	st.SetPos(0)

	return skipped, nil
}

// Next opens the sound that follows f on the same stream. The stream moves
// to the returned File. io.EOF means there is no further sound.
func (f *File) Next() (*File, error) {
	if f.closed || !f.owned {
		return nil, ErrClosed
	}
	if _, err := f.FlushToEOF(); err != nil {
		return nil, err
	}

	next, err := f.sess.openRead(f.h.Stream, f.name, -1)
	if err != nil {
		f.sess.nodes.Remove(f.h.Stream)
		if errors.Is(err, audio.ErrPrematureEOF) || errors.Is(err, audio.ErrNotSoundFile) {
			return nil, io.EOF
		}

		return nil, err
	}
	f.owned = false

	return next, nil
}

// Close forgets the format state and closes the stream. It does not
// finish a file being written.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if !f.owned {
		return nil
	}

	f.sess.nodes.Remove(f.h.Stream)
	if f.name == StdioName {
		return nil
	}

	return f.h.Stream.Close()
}
