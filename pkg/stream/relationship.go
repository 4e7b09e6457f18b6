package stream

import (
	"errors"
	"fmt"

	"github.com/ssargent/pfostream/pkg/codec"
)

// RelationshipID identifies the kind of link a Relationship record expresses
type RelationshipID uint32

const (
	CaloHitToMC RelationshipID = iota
	TrackToMC
	MCParentDaughter
	TrackParentDaughter
	TrackSibling
)

var relationshipIDs = codec.NewEnumTable("relationship id",
	"CALO_HIT_TO_MC", "TRACK_TO_MC", "MC_PARENT_DAUGHTER", "TRACK_PARENT_DAUGHTER", "TRACK_SIBLING")

func (id RelationshipID) String() string { return relationshipIDs.Name(uint32(id)) }

// Valid reports whether id is a known relationship kind
func (id RelationshipID) Valid() bool { return relationshipIDs.Valid(uint32(id)) }

// MarshalText implements encoding.TextMarshaler
func (id RelationshipID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (id *RelationshipID) UnmarshalText(text []byte) error {
	v, err := relationshipIDs.Parse(string(text))
	if err != nil {
		return err
	}
	*id = RelationshipID(v)
	return nil
}

type relationship struct {
	id       RelationshipID
	address1 codec.Address
	address2 codec.Address
	weight   float32
}

func (rel relationship) String() string {
	return fmt.Sprintf("%s %s -> %s", rel.id, rel.address1, rel.address2)
}

func (r *Reader) readRelationship() error {
	const record = "Relationship"
	if r.containerKind != Event {
		return &RecordError{Record: record, Err: ErrWrongContainer}
	}

	rel := relationship{weight: 1}
	if err := r.readFields(record, []field{
		{"RelationshipId", &rel.id},
		{"Address1", &rel.address1},
		{"Address2", &rel.address2},
	}); err != nil {
		return err
	}
	if err := r.ReadVariable("Weight", &rel.weight); err != nil && !errors.Is(err, ErrFieldAbsent) {
		return &RecordError{Record: record, Err: err}
	}
	if !rel.id.Valid() {
		return &RecordError{Record: record, Err: fmt.Errorf("%w: %d", ErrUnknownRelationship, uint32(rel.id))}
	}

	if r.config.Relationships == DeferredRelationships {
		r.pending = append(r.pending, rel)
		r.observer.ObserveRelationship(rel.id, true, nil)
		return nil
	}

	err := r.applyRelationship(rel)
	r.observer.ObserveRelationship(rel.id, false, err)
	return err
}

func (r *Reader) applyRelationship(rel relationship) error {
	switch rel.id {
	case CaloHitToMC:
		return r.builder.SetCaloHitToMCParticle(rel.address1, rel.address2, rel.weight)
	case TrackToMC:
		return r.builder.SetTrackToMCParticle(rel.address1, rel.address2, rel.weight)
	case MCParentDaughter:
		return r.builder.SetMCParentDaughter(rel.address1, rel.address2)
	case TrackParentDaughter:
		return r.builder.SetTrackParentDaughter(rel.address1, rel.address2)
	case TrackSibling:
		return r.builder.SetTrackSibling(rel.address1, rel.address2)
	}
	return fmt.Errorf("%w: %d", ErrUnknownRelationship, uint32(rel.id))
}

// flushRelationships applies the relationships buffered for the container
// just read, in stream order, stopping at the first failure.
func (r *Reader) flushRelationships() error {
	pending := r.pending
	r.pending = nil

	for _, rel := range pending {
		err := r.applyRelationship(rel)
		r.observer.ObserveRelationship(rel.id, false, err)
		if err != nil {
			r.logger.Warn("deferred relationship failed", "relationship", rel.String(), "error", err)
			return fmt.Errorf("deferred relationship %s: %w", rel, err)
		}
	}
	if len(pending) > 0 {
		r.logger.Debug("deferred relationships applied", "count", len(pending))
	}
	return nil
}
