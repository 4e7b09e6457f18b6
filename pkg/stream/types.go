package stream

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ContainerKind is the kind of a top-level container
type ContainerKind int

const (
	UnknownContainer ContainerKind = iota
	Geometry
	Event
)

func (k ContainerKind) String() string {
	switch k {
	case Geometry:
		return "Geometry"
	case Event:
		return "Event"
	}
	return "Unknown"
}

// containerKindOf maps a container element name to its kind
func containerKindOf(name string) ContainerKind {
	switch name {
	case "Geometry":
		return Geometry
	case "Event":
		return Event
	}
	return UnknownContainer
}

// RelationshipMode controls when relationship records are applied
type RelationshipMode int

const (
	// DeferredRelationships buffers relationship records and applies them, in
	// stream order, once every record of the container has been read
	DeferredRelationships RelationshipMode = iota
	// InlineRelationships applies each relationship record as it is read
	InlineRelationships
)

func (m RelationshipMode) String() string {
	if m == InlineRelationships {
		return "inline"
	}
	return "deferred"
}

// ParseRelationshipMode parses "deferred" or "inline"
func ParseRelationshipMode(s string) (RelationshipMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "deferred":
		return DeferredRelationships, nil
	case "inline":
		return InlineRelationships, nil
	}
	return 0, fmt.Errorf("unknown relationship mode: %s", s)
}

// Config holds configuration for a reader
type Config struct {
	Relationships RelationshipMode // When relationship records are applied
	IndexedSeek   bool             // Seek through a container index built on first use
	Hooks         *Hooks           // Extension hooks, nil for none
	Logger        *slog.Logger     // nil discards
	Observer      Observer         // nil ignores
}

// Observer is notified of reader progress. ObserveRelationship is called with
// deferred set when a relationship is buffered and again, with deferred unset,
// when any relationship is applied.
type Observer interface {
	ObserveContainer(kind ContainerKind)
	ObserveRecord(record string, err error)
	ObserveRelationship(id RelationshipID, deferred bool, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveContainer(ContainerKind)                  {}
func (nopObserver) ObserveRecord(string, error)                     {}
func (nopObserver) ObserveRelationship(RelationshipID, bool, error) {}

// Errors
var (
	ErrNotFound = &ReadError{Message: "not found"}

	ErrFailure             = &ReadError{Message: "read failure", failure: true}
	ErrUnknownContainer    = &ReadError{Message: "unknown container", failure: true}
	ErrWrongContainer      = &ReadError{Message: "record not allowed in this container", failure: true}
	ErrUnknownRecord       = &ReadError{Message: "unknown record", failure: true}
	ErrUnknownRelationship = &ReadError{Message: "unknown relationship", failure: true}
	ErrLayerCountMismatch  = &ReadError{Message: "layer count mismatch", failure: true}
	ErrFieldAbsent         = &ReadError{Message: "field absent", failure: true}
	ErrMalformedField      = &ReadError{Message: "malformed field", failure: true}
	ErrNoRecord            = &ReadError{Message: "no current record", failure: true}
	ErrInvalidSeek         = &ReadError{Message: "invalid seek target", failure: true}
)

// ReadError represents a reader error. Every ReadError except ErrNotFound
// matches ErrFailure under errors.Is.
type ReadError struct {
	Message string
	failure bool
}

func (e *ReadError) Error() string {
	return e.Message
}

// Is reports whether the error belongs to the failure class
func (e *ReadError) Is(target error) bool {
	return e.failure && target == ErrFailure
}

// FieldError reports a field that could not be decoded
type FieldError struct {
	Name string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Name, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// RecordError reports a record that could not be read. It always matches
// ErrFailure as well as its cause, except that a cause matching ErrNotFound
// is not exposed: a failed record never reads as an exhausted container.
type RecordError struct {
	Record string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Record, e.Err)
}

func (e *RecordError) Unwrap() []error {
	if errors.Is(e.Err, ErrNotFound) {
		return []error{ErrFailure}
	}
	return []error{ErrFailure, e.Err}
}
