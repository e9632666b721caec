// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrUnsupportedBitDepth  = errors.New("unsupported WAV sample size")
	ErrTruncatedChunk       = errors.New("truncated WAV chunk header")
	ErrUnsupportedFormat    = errors.New("sample format cannot go in WAV")
)
