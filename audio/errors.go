// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrNotOpenable  = errors.New("cannot open sound file")
	ErrNotSoundFile = errors.New("object/file not sound")
	ErrOutOfMemory  = errors.New("no memory for sound")
	ErrRead         = errors.New("error reading sound file")
	ErrWrite        = errors.New("error writing sound file")
	ErrPrematureEOF = errors.New("premature EOF in sound file")

	// ErrZeroLength is returned when a stream ends before a single header
	// word could be read. It matches ErrPrematureEOF.
	ErrZeroLength = fmt.Errorf("zero-length sound stream: %w", ErrPrematureEOF)
	// ErrWriteUnsupported matches ErrWrite.
	ErrWriteUnsupported = fmt.Errorf("format does not support writing: %w", ErrWrite)

	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrBadMagic       = errors.New("bad sound header magic")
)

// Legacy numeric error codes.
const (
	CodeOK          = 0
	CodeNotOpenable = -1
	CodeNotSound    = -2
	CodeNoMemory    = -3
	CodeRead        = -4
	CodeWrite       = -5
	CodeEOF         = -6
	CodeUnknown     = 1
)

var codeTable = []struct {
	code int
	err  error
}{
	{CodeNotOpenable, ErrNotOpenable},
	{CodeNotSound, ErrNotSoundFile},
	{CodeNoMemory, ErrOutOfMemory},
	{CodeRead, ErrRead},
	{CodeWrite, ErrWrite},
	{CodeEOF, ErrPrematureEOF},
}

// Code maps err to its legacy error number.
func Code(err error) int {
	if err == nil {
		return CodeOK
	}

	for _, c := range codeTable {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeUnknown
}

// Message returns the text for a legacy error number.
func Message(code int) string {
	if code == CodeOK {
		return "no error"
	}

	for _, c := range codeTable {
		if c.code == code {
			return c.err.Error()
		}
	}

	return "unknown sound file error"
}

// PathError records a sound file error together with the file it concerns.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }
