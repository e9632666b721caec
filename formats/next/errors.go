// SPDX-License-Identifier: EPL-2.0

package next

import "errors"

var (
	ErrNotNextFile     = errors.New("not a NeXT/Sun sound file")
	ErrBadDataLocation = errors.New("NeXT data location inside header")
	ErrNoExtraInfo     = errors.New("cannot re-read NeXT info from a non-seekable stream")
)
