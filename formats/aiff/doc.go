// SPDX-License-Identifier: EPL-2.0

// Package aiff reads and writes AIFF and AIFC sound file headers.
//
// AIFF is Apple's interchange format: a big-endian IFF "FORM" container
// whose chunks describe the sound. Only two chunks matter for reading:
//   - COMM holds the channel count, frame count, bits per sample and the
//     sampling rate as an 80-bit IEEE extended float
//   - SSND holds the sample data, preceded by an offset and block size
//
// AIFC files add a compression type to COMM and an FVER chunk. Only
// uncompressed ("NONE") data is understood; other compression types are
// reported and read as if linear.
//
// # Reading
//
// The reader walks the chunks in order, skipping anything it does not
// need. Small skips and skips on pipes are done by reading, so a header can
// be parsed from a stream that cannot seek.
//
// # Writing
//
// Written headers are always 92 bytes:
//
//	FORM/AIFF  12 bytes
//	COMM       26 bytes
//	MARK       10 bytes (no markers)
//	INST       28 bytes (base note 60, full key and velocity range)
//	SSND       16 bytes (offset 0, block size 0)
//
// When the data length is not known yet, the FORM size is written as -1 and
// the frame count as 0. Rewriting the header after the data is complete
// fills in the real values.
//
// # Sample Rates
//
// The 80-bit rate is decoded into a float64 and encoded back without loss,
// so fractional rates survive a round trip. For whole-hertz rates the bytes
// match github.com/go-audio/audio's IntToIEEEFloat.
package aiff
