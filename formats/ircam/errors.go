// SPDX-License-Identifier: EPL-2.0

package ircam

import "errors"

var (
	ErrNotIrcamFile = errors.New("not an IRCAM file")
	ErrNoExtraInfo  = errors.New("cannot re-read IRCAM info from a non-seekable stream")
)
