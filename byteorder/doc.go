// SPDX-License-Identifier: EPL-2.0

// Package byteorder converts multi-byte values between the byte order a
// sound file was written in and the byte order of the running host.
//
// A Mode describes the permutation that takes a 32-bit cell read from a file
// in native memory order to the big-endian reference value:
//
//	InOrder      b0 b1 b2 b3
//	ByteRev      b1 b0 b3 b2
//	WordRev      b2 b3 b0 b1
//	ByteWordRev  b3 b2 b1 b0
//
// Every mode is its own inverse, so the same Mode converts file data to host
// order and back again.
//
// # Detecting the order of a file
//
// Match compares a 32-bit value read natively against a known magic number
// and reports the mode under which they are equal:
//
//	red := binary.NativeEndian.Uint32(hdr[:4])
//	mode := byteorder.Match(red, 107364)
//	if mode == byteorder.Unset {
//	    // not this format
//	}
//
// BigEndian and LittleEndian return the modes for data stored in those orders
// on disk, relative to Host.
package byteorder
