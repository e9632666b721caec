// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// Registry of backends by format, kept in registration order.
type Registry struct {
	backends map[FormatID]Backend
	order    []FormatID

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[FormatID]Backend),
		mtx:      &sync.Mutex{},
	}
}

// Register adds b, replacing any backend with the same ID in place.
func (r *Registry) Register(b Backend) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.backends[b.ID()]; !ok {
		r.order = append(r.order, b.ID())
	}
	r.backends[b.ID()] = b
}

func (r *Registry) Get(id FormatID) (Backend, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	b, ok := r.backends[id]
	return b, ok
}

// ByName looks a backend up by name, ignoring case.
func (r *Registry) ByName(name string) (Backend, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, id := range r.order {
		if b := r.backends[id]; strings.EqualFold(b.Name(), name) {
			return b, true
		}
	}

	return nil, false
}

// List returns the backends in registration order.
func (r *Registry) List() []Backend {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	out := make([]Backend, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.backends[id])
	}

	return out
}

// IDs returns the registered format IDs in registration order.
func (r *Registry) IDs() []FormatID {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return slices.Clone(r.order)
}

// Names returns the backend names in registration order. A backend that
// takes options lists their syntax after a slash, as in "PCM/R<rate>".
func (r *Registry) Names() []string {
	var names []string
	for _, b := range r.List() {
		name := b.Name()
		if o, ok := b.(interface{ Options() string }); ok {
			name += "/" + o.Options()
		}
		names = append(names, name)
	}

	return names
}
