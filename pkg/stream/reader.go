package stream

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ssargent/pfostream/pkg/codec"
	"github.com/ssargent/pfostream/pkg/doctree"
	"github.com/ssargent/pfostream/pkg/event"
)

// Builder creates objects from decoded parameter bundles and links them by
// address. Errors it returns are passed back to the caller unchanged.
type Builder interface {
	CreateSubDetector(p *event.SubDetectorParameters) error
	CreateBoxGap(p *event.BoxGapParameters) error
	CreateConcentricGap(p *event.ConcentricGapParameters) error
	CreateCaloHit(p *event.CaloHitParameters) error
	CreateTrack(p *event.TrackParameters) error
	CreateMCParticle(p *event.MCParticleParameters) error

	SetCaloHitToMCParticle(hit, mc codec.Address, weight float32) error
	SetTrackToMCParticle(track, mc codec.Address, weight float32) error
	SetMCParentDaughter(parent, daughter codec.Address) error
	SetTrackParentDaughter(parent, daughter codec.Address) error
	SetTrackSibling(a, b codec.Address) error
}

var _ Builder = (*event.Registry)(nil)

// Reader is a cursor over the containers and records of a document. A Reader
// is not safe for concurrent use.
type Reader struct {
	doc      *doctree.Document
	builder  Builder
	config   Config
	logger   *slog.Logger
	observer Observer

	containerKind ContainerKind
	container     *doctree.Node // nil when not yet positioned or past the end
	record        *doctree.Node // nil when the container has not been entered
	atStreamStart bool
	consumed      bool // the current container's header has been read

	index   *ContainerIndex
	pending []relationship
}

// Open loads the stream at path and creates a reader over it. A load failure
// is returned and no reader is created.
func Open(path string, builder Builder, config Config) (*Reader, error) {
	doc, err := doctree.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	return New(doc, builder, config), nil
}

// New creates a reader over an already parsed document
func New(doc *doctree.Document, builder Builder, config Config) *Reader {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var observer Observer = nopObserver{}
	if config.Observer != nil {
		observer = config.Observer
	}

	return &Reader{
		doc:           doc,
		builder:       builder,
		config:        config,
		logger:        logger,
		observer:      observer,
		atStreamStart: true,
	}
}

// ContainerKind returns the kind determined by the last ReadHeader
func (r *Reader) ContainerKind() ContainerKind {
	return r.containerKind
}

// Position returns the index of the current container and of the current
// record within it, -1 for either when there is none.
func (r *Reader) Position() (container, record int) {
	container, record = -1, -1
	if r.container != nil {
		container = r.container.Index()
	}
	if r.record != nil {
		record = r.record.Index()
	}
	return container, record
}

// ReadHeader determines the kind of the current container and marks it as
// consumed, so that the next navigation moves past it.
func (r *Reader) ReadHeader() error {
	r.discardPending()
	r.record = nil
	r.containerKind = UnknownContainer

	if r.atStreamStart {
		if err := r.AdvanceContainer(); err != nil {
			return err
		}
	}
	if r.container == nil {
		return ErrNotFound
	}

	r.consumed = true
	kind := containerKindOf(r.container.Name())
	if kind == UnknownContainer {
		return fmt.Errorf("%w: %q", ErrUnknownContainer, r.container.Name())
	}

	r.containerKind = kind
	r.observer.ObserveContainer(kind)
	r.logger.Debug("container header read", "kind", kind, "position", r.container.Index())
	return nil
}

// AdvanceContainer positions the reader on the first container at stream
// start and on the next sibling container otherwise. Relationships buffered
// for the container being left and not yet applied are discarded.
func (r *Reader) AdvanceContainer() error {
	r.discardPending()
	return r.advanceContainer()
}

func (r *Reader) advanceContainer() error {
	r.record = nil
	r.consumed = false
	r.containerKind = UnknownContainer

	if r.atStreamStart {
		r.container = r.doc.Root().FirstChild()
		r.atStreamStart = false
		return nil
	}
	if r.container == nil {
		return ErrNotFound
	}

	r.container = r.container.NextSibling()
	return nil
}

// AdvanceRecord enters the current container or steps to its next record.
// When the container is exhausted the reader moves to the next container and
// ErrNotFound is returned.
func (r *Reader) AdvanceRecord() (*doctree.Node, error) {
	if r.record == nil {
		if r.container != nil {
			r.record = r.container.FirstChild()
		}
	} else {
		r.record = r.record.NextSibling()
	}

	if r.record == nil {
		if err := r.advanceContainer(); err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return r.record, nil
}

// SeekEvent rewinds and positions the reader on the n-th event container
func (r *Reader) SeekEvent(n int) error {
	return r.seek(Event, n)
}

// SeekGeometry rewinds and positions the reader on the n-th geometry container
func (r *Reader) SeekGeometry(n int) error {
	return r.seek(Geometry, n)
}

// NextEvent positions the reader on the next unread event container
func (r *Reader) NextEvent() error {
	return r.nextContainerOfKind(Event)
}

// NextGeometry positions the reader on the next unread geometry container
func (r *Reader) NextGeometry() error {
	return r.nextContainerOfKind(Geometry)
}

// Count returns the number of containers of kind in the stream
func (r *Reader) Count(kind ContainerKind) int {
	return r.containerIndex().Count(kind)
}

func (r *Reader) seek(kind ContainerKind, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSeek, n)
	}
	r.rewind()

	if r.config.IndexedSeek {
		pos, ok := r.containerIndex().Position(kind, n)
		if !ok {
			return ErrNotFound
		}
		r.container = r.doc.Root().Children()[pos]
		r.atStreamStart = false
		return nil
	}

	for i := 0; ; i++ {
		if err := r.nextContainerOfKind(kind); err != nil {
			return err
		}
		if i == n {
			return nil
		}
		r.consumed = true
	}
}

func (r *Reader) nextContainerOfKind(kind ContainerKind) error {
	for {
		if r.atStreamStart || r.consumed {
			if err := r.AdvanceContainer(); err != nil {
				return err
			}
		}
		if r.container == nil {
			return ErrNotFound
		}
		if containerKindOf(r.container.Name()) == kind {
			return nil
		}
		r.consumed = true
	}
}

// discardPending drops relationships buffered for a container that was left
// without reaching its end
func (r *Reader) discardPending() {
	if len(r.pending) > 0 {
		r.logger.Warn("discarding unapplied relationships", "count", len(r.pending))
	}
	r.pending = nil
}

func (r *Reader) rewind() {
	r.discardPending()
	r.container = nil
	r.record = nil
	r.containerKind = UnknownContainer
	r.atStreamStart = true
	r.consumed = false
}

func (r *Reader) containerIndex() *ContainerIndex {
	if r.index == nil {
		r.index = BuildContainerIndex(r.doc)
		r.logger.Debug("container index built", "containers", r.index.Total())
	}
	return r.index
}

// ReadGeometry reads the current container as a geometry container
func (r *Reader) ReadGeometry() error {
	return r.readContainer(Geometry, r.ReadNextGeometryComponent)
}

// ReadEvent reads the current container as an event container
func (r *Reader) ReadEvent() error {
	return r.readContainer(Event, r.ReadNextEventComponent)
}

// ReadNextGeometry moves to the next geometry container and reads it
func (r *Reader) ReadNextGeometry() error {
	if err := r.NextGeometry(); err != nil {
		return err
	}
	return r.ReadGeometry()
}

// ReadNextEvent moves to the next event container and reads it
func (r *Reader) ReadNextEvent() error {
	if err := r.NextEvent(); err != nil {
		return err
	}
	return r.ReadEvent()
}

func (r *Reader) readContainer(want ContainerKind, next func() error) error {
	if err := r.ReadHeader(); err != nil {
		return err
	}
	if r.containerKind != want {
		return fmt.Errorf("%w: expected %s, found %s", ErrWrongContainer, want, r.containerKind)
	}

	for {
		err := next()
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
