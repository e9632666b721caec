// SPDX-License-Identifier: EPL-2.0

package sndf

import (
	"fmt"
	"io"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/pushback"
)

// ReadSound reads a whole sound file into memory. It returns the header
// with all of its info and the sample data in host order.
func (s *Session) ReadSound(path string) (*audio.Header, []byte, error) {
	r, err := openIn(path)
	if err != nil {
		return nil, nil, &audio.PathError{Op: "read", Path: path, Err: fmt.Errorf("%w: %w", audio.ErrNotOpenable, err)}
	}

	st := pushback.New(r, pushback.WithLogger(s.logger))
	if path != StdioName {
		defer st.Close()
	}

	f, err := s.openRead(st, path, audio.DefaultInfoBytes)
	if err != nil {
		s.nodes.Remove(st)

		return nil, nil, &audio.PathError{Op: "read", Path: path, Err: err}
	}
	defer s.nodes.Remove(st)

	if err := f.ReadExtraInfo(); err != nil {
		f.h.Logger.Debug("info beyond the header start not read", "error", err)
	}

	hdr := f.hdr
	if hdr.DataBsize < 0 {
		data, err := readAll(f)
		if err != nil {
			return nil, nil, &audio.PathError{Op: "read", Path: path, Err: err}
		}
		hdr.DataBsize = int32(len(data))

		return hdr, data, nil
	}

	data := make([]byte, hdr.DataBsize)
	size := max(hdr.Format.Size(), 1)
	want := len(data) / size
	got := 0
	for got < want {
		n, err := f.ReadItems(data[got*size:])
		got += n
		if err != nil || n == 0 {
			break
		}
	}
	if got < want {
		return nil, nil, &audio.PathError{Op: "read", Path: path, Err: fmt.Errorf("%w: %d of %d samples", audio.ErrRead, got, want)}
	}

	return hdr, data, nil
}

func readAll(f *File) ([]byte, error) {
	size := max(f.hdr.Format.Size(), 1)
	chunk := make([]byte, DefaultBufSize*size)

	var data []byte
	for {
		n, err := f.ReadItems(chunk)
		data = append(data, chunk[:n*size]...)
		if err == io.EOF || n == 0 {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// WriteSound writes hdr and data, samples in host order, to path.
func (s *Session) WriteSound(path string, hdr *audio.Header, data []byte) error {
	f, err := s.OpenWrite(path, hdr)
	if err != nil {
		return err
	}

	size := max(hdr.Format.Size(), 1)
	n, err := f.WriteItems(data)
	if err == nil && n < len(data)/size {
		err = fmt.Errorf("%w: %d of %d samples", audio.ErrWrite, n, len(data)/size)
	}
	if err == nil {
		err = f.FinishWrite()
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return &audio.PathError{Op: "write", Path: path, Err: err}
	}

	return nil
}

// Decode opens the sound in r for sample access.
func (s *Session) Decode(r io.Reader) (audio.Source, error) {
	return s.OpenReadStream(r, "")
}

var _ audio.Decoder = (*Session)(nil)
