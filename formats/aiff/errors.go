// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrNotAiffFile indicates the stream does not start with a FORM chunk
	ErrNotAiffFile = errors.New("not an AIFF file")

	// ErrBadFormType indicates a FORM that is neither AIFF nor AIFC
	ErrBadFormType = errors.New("bad AIFF form type")

	// ErrBadVersion indicates an AIFC FVER chunk other than version 1
	ErrBadVersion = errors.New("AIFC: not version 1")

	// ErrTruncatedHeader indicates the chunks ran out before COMM and SSND were seen
	ErrTruncatedHeader = errors.New("AIFF header ended before sound data")

	// ErrBadChunkSize indicates a negative chunk length
	ErrBadChunkSize = errors.New("bad AIFF chunk size")
)
