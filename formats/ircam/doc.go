// SPDX-License-Identifier: EPL-2.0

// Package ircam reads and writes IRCAM/BICSF sound files.
//
// An IRCAM header is a fixed 1024-byte block: a magic number (107364), the
// sampling rate as a float, the channel count, a pack mode naming the sample
// encoding, and 1008 bytes of info codes. The whole block, info included, is
// stored in the byte order of the machine that wrote it and is converted as
// a run of 32-bit cells.
//
// Usage:
//
//	reg.Register(ircam.Backend{})
package ircam
