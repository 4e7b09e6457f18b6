// Package pipeline assembles events from a loaded stream: every read uses a
// fresh reader and registry over the shared, immutable document.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/ssargent/pfostream/pkg/doctree"
	"github.com/ssargent/pfostream/pkg/event"
	"github.com/ssargent/pfostream/pkg/pfo"
	"github.com/ssargent/pfostream/pkg/stream"
)

// Source is a loaded stream file
type Source struct {
	Path   string
	doc    *doctree.Document
	config stream.Config
}

// Result is an assembled event
type Result struct {
	Number   int
	Registry *event.Registry
	PFOs     []*pfo.ParticleFlowObject
}

// Summary summarizes the assembled objects
func (r *Result) Summary() event.Summary {
	return r.Registry.Summary()
}

// Load parses the stream at path
func Load(path string, config stream.Config) (*Source, error) {
	doc, err := doctree.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return NewSource(path, doc, config), nil
}

// NewSource wraps an already parsed document
func NewSource(path string, doc *doctree.Document, config stream.Config) *Source {
	return &Source{Path: path, doc: doc, config: config}
}

// Name returns the path the source was loaded from
func (s *Source) Name() string {
	return s.Path
}

func (s *Source) newReader(registry *event.Registry) *stream.Reader {
	return stream.New(s.doc, registry, s.config)
}

// Count returns the number of containers of kind
func (s *Source) Count(kind stream.ContainerKind) int {
	return s.newReader(event.NewRegistry()).Count(kind)
}

// Event seeks to and assembles the n-th event
func (s *Source) Event(n int) (*Result, error) {
	registry := event.NewRegistry()
	r := s.newReader(registry)

	if err := r.SeekEvent(n); err != nil {
		return nil, err
	}
	if err := r.ReadEvent(); err != nil {
		return nil, fmt.Errorf("event %d: %w", n, err)
	}
	return assemble(n, registry)
}

// Geometry seeks to and reads the n-th geometry container
func (s *Source) Geometry(n int) (*event.Registry, error) {
	registry := event.NewRegistry()
	r := s.newReader(registry)

	if err := r.SeekGeometry(n); err != nil {
		return nil, err
	}
	if err := r.ReadGeometry(); err != nil {
		return nil, fmt.Errorf("geometry %d: %w", n, err)
	}
	return registry, nil
}

// Events assembles every event in stream order and passes it to fn. The
// result is only valid during the call. Iteration stops at the first error.
func (s *Source) Events(fn func(res *Result) error) error {
	registry := event.NewRegistry()
	r := s.newReader(registry)

	for n := 0; ; n++ {
		registry.ResetEvent()

		err := r.ReadNextEvent()
		if errors.Is(err, stream.ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("event %d: %w", n, err)
		}

		res, err := assemble(n, registry)
		if err != nil {
			return err
		}
		if err := fn(res); err != nil {
			return err
		}
	}
}

func assemble(n int, registry *event.Registry) (*Result, error) {
	pfos, err := pfo.FromTracks(registry.Tracks())
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", n, err)
	}
	return &Result{Number: n, Registry: registry, PFOs: pfos}, nil
}
