// SPDX-License-Identifier: EPL-2.0

package sndf

import "errors"

var (
	ErrUnknownFormat = errors.New("unknown sound file format")
	ErrUnknownEnd    = errors.New("end of sound data is not known")
	ErrClosed        = errors.New("sound file is closed")
	ErrNotWritable   = errors.New("sound file is not open for writing")
)
