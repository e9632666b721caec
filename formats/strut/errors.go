// SPDX-License-Identifier: EPL-2.0

package strut

import "errors"

var ErrSampleSize = errors.New("STRUT samples must be 1 or 2 bytes")
