// SPDX-License-Identifier: EPL-2.0

// Package sndf reads and writes sound files in a set of legacy container
// formats behind one header model.
//
// Every sound is described by an audio.Header: the sample format, channel
// count, sampling rate, data size and a free-form info area. A Session
// knows the formats and the state of each open stream, and opens Files:
//
//	sess, _ := sndf.NewSession(sndf.ConfigFromEnv())
//	f, _ := sess.OpenRead("speech.sph")
//	defer f.Close()
//
//	buf := make([]byte, 4096)
//	n, err := f.ReadItems(buf) // n samples in host byte order
//
// # Formats
//
//   - PCM: headerless samples, described by an options string such as
//     "R8000C1Fs" (see formats/pcm)
//   - NeXT/Sun .snd (formats/next)
//   - AIFF and AIFC (formats/aiff)
//   - RIFF WAVE (formats/wav)
//   - NIST SPHERE (formats/nist)
//   - IRCAM/BICSF (formats/ircam)
//   - ESPS sampled data, read only (formats/esps)
//   - PHONDAT, read only (formats/phondat)
//   - STRUT (formats/strut)
//
// On reading, the format is found from the first four bytes of the stream
// unless one was bound with SetFormat or chosen with SetDefaultFormat.
// Unrecognised streams are read as PCM. Writing uses the default format,
// taken from SNDFFTYPE when the session comes from ConfigFromEnv.
//
// # Streams
//
// Files work on pipes as well as on regular files. Headers are parsed by
// reading forward, and bytes read ahead are pushed back onto the stream.
// Several sounds may follow each other on one stream:
//
//	for f != nil {
//		process(f)
//		f, err = f.Next()
//	}
//
// When a file being written is finished on a seekable stream, its header
// is rewritten with the real data size.
package sndf
