// SPDX-License-Identifier: EPL-2.0

// Package pushback wraps a byte stream so that bytes already read can be
// returned to it, and so that the position reported to callers can be
// re-based independently of the physical stream.
//
// Sound file headers are identified by reading a few bytes and deciding what
// they are. On a pipe those bytes cannot be re-read, so they are pushed back
// instead:
//
//	s := pushback.New(os.Stdin)
//	magic := make([]byte, 4)
//	n, _ := io.ReadFull(s, magic)
//	s.Push(magic[:n])
//	// the next Read returns magic again
//
// A Stream starts in ModeBypass, where every call goes straight to the
// underlying stream. The first Push or SetPos switches it to ModeVirtual, in
// which the position is kept by the Stream itself as
//
//	physical position = virtual position + skew
//
// SetPos makes the current byte appear at an arbitrary offset, which lets a
// second logical file that follows the first in the same stream be addressed
// from zero.
package pushback
