// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	with := func(f func(*Defaults)) Defaults {
		d := Standard()
		f(&d)

		return d
	}

	tests := []struct {
		opts string
		want Defaults
	}{
		{"", Standard()},
		{"R8000C1X8Fs", with(func(d *Defaults) { d.Rate, d.Skip = 8000, 8 })},
		{"R44", with(func(d *Defaults) { d.Rate = 44100 })},
		{"R11C2", with(func(d *Defaults) { d.Rate, d.Channels = 11025, 2 })},
		{"R12", with(func(d *Defaults) { d.Rate = 12000 })},
		{"R200", with(func(d *Defaults) { d.Rate = 200 })},
		{"C0", Standard()},
		{"R", Standard()},
		{"El", with(func(d *Defaults) { d.ByteMode = byteorder.LittleEndian() })},
		{"En", with(func(d *Defaults) { d.ByteMode = byteorder.InOrder })},
		{"Es", with(func(d *Defaults) { d.ByteMode = byteorder.ByteWordRev })},
		{"Eq", Standard()},
		{"F24", with(func(d *Defaults) { d.Format = audio.Sample24in32 })},
		{"F32C2", with(func(d *Defaults) { d.Format, d.Channels = audio.SampleLong, 2 })},
		{"F8", with(func(d *Defaults) { d.Format = audio.SampleChar })},
		{"Fu", with(func(d *Defaults) { d.Format = audio.SampleULaw })},
		{"Fa", with(func(d *Defaults) { d.Format = audio.SampleALaw })},
		{"Fo", with(func(d *Defaults) { d.Format = audio.SampleCharOffset })},
		{"Fd", with(func(d *Defaults) { d.Format = audio.SampleDouble })},
		{"Ff", with(func(d *Defaults) { d.Format = audio.SampleFloat })},
		{"Fz", Standard()},
		{"Abb", with(func(d *Defaults) { d.Sentinel = true })},
		{"AbC2", with(func(d *Defaults) { d.Channels = 2 })},
		{"Q?R16", with(func(d *Defaults) { d.Rate = 16000 })},
	}

	for _, tt := range tests {
		t.Run(tt.opts, func(t *testing.T) {
			t.Parallel()

			if got := ParseDefaults(tt.opts, Standard(), quiet); got != tt.want {
				t.Errorf("ParseDefaults(%q) = %+v, want %+v", tt.opts, got, tt.want)
			}
		})
	}
}

func TestParseDefaults_SentinelResets(t *testing.T) {
	t.Parallel()

	d := ParseDefaults("AbbC2", Standard(), quiet)
	if !d.Sentinel || d.Channels != 2 {
		t.Fatalf("first parse = %+v", d)
	}

	d = ParseDefaults("R8", d, quiet)
	if d.Sentinel {
		t.Error("sentinel survived a parse without Abb")
	}
	if d.Channels != 2 || d.Rate != 8000 {
		t.Errorf("second parse = %+v", d)
	}
}
