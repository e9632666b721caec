// SPDX-License-Identifier: EPL-2.0

// Package next reads and writes NeXT/Sun ".snd" (".au") sound files.
//
// The header is six 32-bit words, normally big-endian: the magic ".snd",
// the offset of the sound data, its size in bytes (0xFFFFFFFF if unknown),
// an encoding code, an integer sampling rate and the channel count. Any
// bytes between the words and the data offset are free-form info.
package next
