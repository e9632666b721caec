// SPDX-License-Identifier: EPL-2.0

package nist

import "errors"

var (
	ErrUnsupportedCoding = errors.New("unsupported NIST sample coding")
	ErrUnsupportedFormat = errors.New("NIST holds PCM or mu-law samples only")
)
