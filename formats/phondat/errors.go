// SPDX-License-Identifier: EPL-2.0

package phondat

import "errors"

var (
	ErrNotPhondatFile = errors.New("not a PHONDAT sampled-data file")
	ErrBadVersion     = errors.New("unsupported PHONDAT header version")
)
