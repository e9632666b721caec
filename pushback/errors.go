// SPDX-License-Identifier: EPL-2.0

package pushback

import "errors"

var (
	ErrBackwardSeek     = errors.New("cannot seek backwards on a non-seekable stream")
	ErrUnknownLength    = errors.New("stream length is unknown")
	ErrInvalidWhence    = errors.New("invalid whence")
	ErrNegativePosition = errors.New("negative position")
	ErrNotWritable      = errors.New("stream is not writable")
)
