// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/formats/aiff"
	"github.com/ik5/sndf/internal/sndtest"
	"github.com/ik5/sndf/pushback"
)

// Example writes an AIFF header for one second of 16-bit stereo audio and
// parses it back.
func Example() {
	out := sndtest.NewSeekBuffer(nil)
	w := audio.NewHandle(pushback.New(out), nil)

	hdr := audio.NewHeader(44100*4, audio.SampleShort, 44100, 2, 0)
	if err := (aiff.Backend{}).WriteHeader(w, hdr, 0); err != nil {
		log.Fatal(err)
	}

	r := audio.NewHandle(pushback.New(bytes.NewReader(out.Bytes())), nil)
	var back audio.Header
	if err := (aiff.Backend{}).ReadHeader(r, &back, -1); err != nil {
		log.Fatal(err)
	}

	fmt.Println(len(out.Bytes()), back.Channels, back.SamplingRate, back.Format)
	fmt.Println("data bytes:", back.DataBsize)
	// Output:
	// 92 2 44100 short
	// data bytes: 176400
}
