// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes Microsoft RIFF/WAVE headers.
//
// # Reading
//
// The RIFF preamble and the chunk headers are walked with
// github.com/go-audio/riff. The "fmt " chunk is decoded into the parser's
// wave fields; every other chunk before "data" is skipped, so files carrying
// "fact" or "LIST" chunks are accepted. Only two encodings are understood:
//   - format 1 (PCM) with 8, 16 or 32 bits per sample
//   - format 7 (mu-law) with 8 bits per sample
//
// Anything else is rejected with audio.ErrNotSoundFile.
//
// A "data" chunk declaring 0 or 0xFFFFFFFF bytes is treated as open-ended,
// which is what streaming encoders emit when writing to a pipe. The data
// size is then taken from the stream length when it is known.
//
// # Writing
//
// WriteHeader always emits the canonical 44-byte header with a 16-byte
// "fmt " chunk. Unknown lengths are written as 0xFFFFFFFF and patched when
// the file is finished on a seekable stream.
//
// # Samples
//
// Samples are little-endian on disk. 8-bit PCM is unsigned, so FixupSamples
// toggles the top bit to move it to and from signed bytes.
package wav
