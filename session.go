// SPDX-License-Identifier: EPL-2.0

package sndf

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ik5/sndf/audio"
	"github.com/ik5/sndf/byteorder"
	"github.com/ik5/sndf/formats/aiff"
	"github.com/ik5/sndf/formats/esps"
	"github.com/ik5/sndf/formats/ircam"
	"github.com/ik5/sndf/formats/next"
	"github.com/ik5/sndf/formats/nist"
	"github.com/ik5/sndf/formats/pcm"
	"github.com/ik5/sndf/formats/phondat"
	"github.com/ik5/sndf/formats/strut"
	"github.com/ik5/sndf/formats/wav"
	"github.com/ik5/sndf/pushback"
)

// UnknownName is returned by FormatName for unregistered formats.
const UnknownName = "<UNKNOWN>"

// Session holds the format table, the per-stream state and the default
// format. Sessions are independent of each other.
type Session struct {
	nodes    *audio.NodeTable
	registry *audio.Registry
	pcm      *pcm.Backend
	logger   *slog.Logger

	pcmOptions string
	defaultID  audio.FormatID
	// current is the format chosen with SetDefaultFormat. When set, reads
	// use it instead of identifying the stream.
	current audio.Backend

	mtx *sync.Mutex
}

// NewSession registers every backend and applies cfg.
func NewSession(cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		nodes:      audio.NewNodeTable(),
		registry:   audio.NewRegistry(),
		pcm:        pcm.New(pcm.ParseDefaults(cfg.PCMFormat, pcm.Standard(), logger)),
		logger:     logger,
		pcmOptions: cfg.PCMFormat,
		defaultID:  audio.FormatRaw,
		mtx:        &sync.Mutex{},
	}

	for _, b := range []audio.Backend{
		s.pcm,
		next.Backend{},
		aiff.Backend{},
		wav.Backend{},
		nist.Backend{},
		ircam.Backend{},
		esps.Backend{},
		phondat.Backend{},
		strut.Backend{},
	} {
		s.registry.Register(b)
	}

	if cfg.DefaultFormat != "" {
		id, opts, err := s.lookup(cfg.DefaultFormat)
		if err != nil {
			return nil, fmt.Errorf("default format: %w", err)
		}
		s.defaultID = id
		if id == audio.FormatRaw && opts != "" {
			s.applyPCM(opts)
		}
	}

	return s, nil
}

func (s *Session) Logger() *slog.Logger { return s.logger }

// PCM returns the headerless backend, whose defaults may be changed.
func (s *Session) PCM() *pcm.Backend { return s.pcm }

func (s *Session) applyPCM(opts string) {
	s.pcm.SetDefaults(pcm.ParseDefaults(opts, s.pcm.Defaults(), s.logger))
}

// lookup splits "NAME/options" and finds NAME.
func (s *Session) lookup(name string) (audio.FormatID, string, error) {
	base, opts, _ := strings.Cut(name, "/")
	b, ok := s.registry.ByName(base)
	if !ok {
		return audio.FormatUnknown, "", fmt.Errorf("%w: %q", ErrUnknownFormat, base)
	}

	return b.ID(), opts, nil
}

// SetDefaultFormat makes id the format for new files, for reading as well
// as writing. An unknown id clears the choice so reads identify their
// format again.
func (s *Session) SetDefaultFormat(id audio.FormatID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	b, ok := s.registry.Get(id)
	if !ok {
		s.current = nil
		s.applyPCM("")

		return fmt.Errorf("%w: %v", ErrUnknownFormat, id)
	}

	s.current = b
	s.defaultID = id
	if id == audio.FormatRaw {
		s.applyPCM(s.pcmOptions)
	}

	return nil
}

// SetDefaultFormatByName is SetDefaultFormat by name. Options after a
// slash are applied to the PCM defaults, as in "PCM/R8000C1Fs".
func (s *Session) SetDefaultFormatByName(name string) error {
	id, opts, err := s.lookup(name)
	if err != nil {
		return err
	}
	if err := s.SetDefaultFormat(id); err != nil {
		return err
	}
	if id == audio.FormatRaw && opts != "" {
		s.applyPCM(opts)
	}

	return nil
}

// DefaultFormat returns the format new files are written in.
func (s *Session) DefaultFormat() audio.FormatID {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.defaultID
}

func (s *Session) defaultBackend() audio.Backend {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.current != nil {
		return s.current
	}
	b, _ := s.registry.Get(s.defaultID)

	return b
}

func (s *Session) currentBackend() audio.Backend {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.current
}

func (s *Session) FormatName(id audio.FormatID) string {
	if b, ok := s.registry.Get(id); ok {
		return b.Name()
	}

	return UnknownName
}

// FormatToID returns the id of a format name, ignoring any options after a
// slash, or FormatUnknown.
func (s *Session) FormatToID(name string) audio.FormatID {
	id, _, err := s.lookup(name)
	if err != nil {
		return audio.FormatUnknown
	}

	return id
}

// ListFormats names every format. PCM shows its option syntax.
func (s *Session) ListFormats() []string {
	return s.registry.Names()
}

// SetFormat binds a stream to a format and byte mode before it is opened.
// FormatUnknown means the default format.
func (s *Session) SetFormat(st *pushback.Stream, id audio.FormatID, mode byteorder.Mode) error {
	var b audio.Backend
	if id == audio.FormatUnknown {
		b = s.defaultBackend()
	} else {
		var ok bool
		if b, ok = s.registry.Get(id); !ok {
			return fmt.Errorf("%w: %v", ErrUnknownFormat, id)
		}
	}

	n := s.nodes.Find(st, true)
	n.Backend = b
	n.ByteMode = mode

	return nil
}

// SetFormatByName binds a stream by format name. PCM options after a
// slash also set the byte mode.
func (s *Session) SetFormatByName(st *pushback.Stream, name string) error {
	id, opts, err := s.lookup(name)
	if err != nil {
		return err
	}

	mode := byteorder.InOrder
	if id == audio.FormatRaw && opts != "" {
		s.applyPCM(opts)
		mode = s.pcm.Defaults().ByteMode
	}

	return s.SetFormat(st, id, mode)
}

// Format returns the format bound to st and its byte mode, or the default
// format if none is bound.
func (s *Session) Format(st *pushback.Stream) (audio.FormatID, byteorder.Mode) {
	if n := s.nodes.Find(st, false); n != nil && n.Backend != nil {
		return n.Backend.ID(), n.ByteMode
	}

	return s.defaultBackend().ID(), byteorder.InOrder
}

// bindRead picks the backend for reading: the bound one, the chosen
// default, the identified format, or the default format in that order.
func (s *Session) bindRead(h *audio.Handle) error {
	if h.Node.Backend != nil {
		return nil
	}
	if b := s.currentBackend(); b != nil {
		h.Node.Backend = b

		return nil
	}

	id, mode := Identify(h.Stream)
	switch id {
	case audio.FormatZeroLength:
		return audio.ErrZeroLength
	case audio.FormatUnknown:
		h.Node.Backend = s.defaultBackend()
	default:
		b, ok := s.registry.Get(id)
		if !ok {
			return fmt.Errorf("%w: %v", ErrUnknownFormat, id)
		}
		h.Node.Backend = b
		h.Node.ByteMode = mode
	}
	h.Logger.Debug("sound format", "format", h.Node.Backend.Name(), "mode", h.Node.ByteMode)

	return nil
}

func (s *Session) bindWrite(h *audio.Handle) {
	if h.Node.Backend == nil {
		h.Node.Backend = s.defaultBackend()
	}
}
