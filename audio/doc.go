// SPDX-License-Identifier: EPL-2.0

// Package audio holds the types shared by the sound file formats.
//
// # Header
//
// A Header describes a sound independently of its container:
//
//	hdr := audio.NewHeader(audio.UnknownLen, audio.SampleShort, 16000, 1, 4)
//
// DataBsize is the size of the sample data in bytes, or UnknownLen. The
// info area holds free text, at least DefaultInfoBytes long and always a
// multiple of four; HeadBsize grows with it.
//
// # Sample formats
//
// A SampleFormat keeps the byte size of one sample in its low bits and the
// encoding in flag bits:
//   - linear integers: SampleChar, SampleShort, SampleLong, Sample24in32
//   - offset binary: SampleCharOffset
//   - G.711 companding: SampleULaw, SampleALaw
//   - IEEE floating point: SampleFloat, SampleDouble
//
// # Backends
//
// Each container format implements Backend. A backend parses and writes
// headers on a Handle, which pairs a pushback.Stream with the Node that
// records where the sound data lies and in which byte order:
//
//	h := audio.NewHandle(stream, logger)
//	var hdr audio.Header
//	err := backend.ReadHeader(h, &hdr, -1)
//	start, end := h.Node.SeekEnds()
//
// Backends are kept in a Registry and streams in a NodeTable. The sndf
// package ties them together.
//
// # Errors
//
// Errors wrap one of the sentinels in this package, so that errors.Is
// works whatever backend produced them. Code and Message translate them
// to and from the legacy numeric codes:
//
//	if audio.Code(err) == audio.CodeEOF { ... }
//
// # Sources
//
// Source and Decoder give normalized float access to decoded sound. Open
// sndf files implement Source.
package audio
