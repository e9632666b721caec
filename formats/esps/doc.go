// SPDX-License-Identifier: EPL-2.0

// Package esps reads the headers of Entropic ESPS sampled-data (.sd) files.
//
// The fixed part of the header is decoded field by field. The sample type
// comes from whichever of the double, float, long, short and char datum
// counts is set, and that count is taken as the number of channels. The
// sampling rate lives in the "record_freq" entry of the tagged parameter
// block that follows the "samples" record.
//
// Writing is not supported.
package esps
