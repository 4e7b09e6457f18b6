package event

import (
	"fmt"

	"github.com/ssargent/pfostream/pkg/codec"
)

// Errors
var (
	ErrDuplicateAddress     = &RegistryError{"duplicate address"}
	ErrUnresolvedAddress    = &RegistryError{"unresolved address"}
	ErrDuplicateSubDetector = &RegistryError{"duplicate sub detector name"}
	ErrSelfRelationship     = &RegistryError{"object related to itself"}
)

// RegistryError represents an object construction error
type RegistryError struct {
	Message string
}

func (e *RegistryError) Error() string {
	return e.Message
}

// Registry creates objects from parameter bundles and records them under the
// address the producer gave them, so that relationship records can find them
// later. Geometry survives ResetEvent; event objects do not.
type Registry struct {
	subDetectors   []*SubDetector
	subDetectorIdx map[string]*SubDetector
	boxGaps        []*BoxGap
	concentricGaps []*ConcentricGap

	caloHits    []*CaloHit
	caloHitIdx  map[codec.Address]*CaloHit
	tracks      []*Track
	trackIdx    map[codec.Address]*Track
	mcParticles []*MCParticle
	mcIdx       map[codec.Address]*MCParticle

	relationships int
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	r := &Registry{
		subDetectorIdx: make(map[string]*SubDetector),
	}
	r.ResetEvent()
	return r
}

// ResetEvent drops every event object and keeps the geometry
func (r *Registry) ResetEvent() {
	r.caloHits = nil
	r.caloHitIdx = make(map[codec.Address]*CaloHit)
	r.tracks = nil
	r.trackIdx = make(map[codec.Address]*Track)
	r.mcParticles = nil
	r.mcIdx = make(map[codec.Address]*MCParticle)
	r.relationships = 0
}

// ResetGeometry drops every geometry object
func (r *Registry) ResetGeometry() {
	r.subDetectors = nil
	r.subDetectorIdx = make(map[string]*SubDetector)
	r.boxGaps = nil
	r.concentricGaps = nil
}

// CreateSubDetector creates a sub detector, unique by name
func (r *Registry) CreateSubDetector(p *SubDetectorParameters) error {
	if _, exists := r.subDetectorIdx[p.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSubDetector, p.Name)
	}
	sd := &SubDetector{SubDetectorParameters: *p}
	r.subDetectors = append(r.subDetectors, sd)
	r.subDetectorIdx[p.Name] = sd
	return nil
}

// CreateBoxGap creates a box gap
func (r *Registry) CreateBoxGap(p *BoxGapParameters) error {
	r.boxGaps = append(r.boxGaps, &BoxGap{BoxGapParameters: *p})
	return nil
}

// CreateConcentricGap creates a concentric gap
func (r *Registry) CreateConcentricGap(p *ConcentricGapParameters) error {
	r.concentricGaps = append(r.concentricGaps, &ConcentricGap{ConcentricGapParameters: *p})
	return nil
}

// CreateCaloHit creates a calorimeter hit keyed by its parent address
func (r *Registry) CreateCaloHit(p *CaloHitParameters) error {
	if _, exists := r.caloHitIdx[p.ParentAddress]; exists {
		return fmt.Errorf("%w: calo hit %s", ErrDuplicateAddress, p.ParentAddress)
	}
	h := &CaloHit{CaloHitParameters: *p, mc: make(mcWeights)}
	r.caloHits = append(r.caloHits, h)
	r.caloHitIdx[p.ParentAddress] = h
	return nil
}

// CreateTrack creates a track keyed by its parent address
func (r *Registry) CreateTrack(p *TrackParameters) error {
	if _, exists := r.trackIdx[p.ParentAddress]; exists {
		return fmt.Errorf("%w: track %s", ErrDuplicateAddress, p.ParentAddress)
	}
	t := &Track{TrackParameters: *p, mc: make(mcWeights)}
	r.tracks = append(r.tracks, t)
	r.trackIdx[p.ParentAddress] = t
	return nil
}

// CreateMCParticle creates a Monte-Carlo particle keyed by its uid
func (r *Registry) CreateMCParticle(p *MCParticleParameters) error {
	if _, exists := r.mcIdx[p.UID]; exists {
		return fmt.Errorf("%w: mc particle %s", ErrDuplicateAddress, p.UID)
	}
	m := &MCParticle{MCParticleParameters: *p}
	r.mcParticles = append(r.mcParticles, m)
	r.mcIdx[p.UID] = m
	return nil
}

// SetCaloHitToMCParticle links a hit to the particle that deposited it
func (r *Registry) SetCaloHitToMCParticle(hitAddress, mcAddress codec.Address, weight float32) error {
	h, err := lookup(r.caloHitIdx, "calo hit", hitAddress)
	if err != nil {
		return err
	}
	m, err := lookup(r.mcIdx, "mc particle", mcAddress)
	if err != nil {
		return err
	}
	h.mc[m] = weight
	r.relationships++
	return nil
}

// SetTrackToMCParticle links a track to the particle that produced it
func (r *Registry) SetTrackToMCParticle(trackAddress, mcAddress codec.Address, weight float32) error {
	t, err := lookup(r.trackIdx, "track", trackAddress)
	if err != nil {
		return err
	}
	m, err := lookup(r.mcIdx, "mc particle", mcAddress)
	if err != nil {
		return err
	}
	t.mc[m] = weight
	r.relationships++
	return nil
}

// SetMCParentDaughter links two particles in both directions
func (r *Registry) SetMCParentDaughter(parentAddress, daughterAddress codec.Address) error {
	parent, err := lookup(r.mcIdx, "mc particle", parentAddress)
	if err != nil {
		return err
	}
	daughter, err := lookup(r.mcIdx, "mc particle", daughterAddress)
	if err != nil {
		return err
	}
	if parent == daughter {
		return fmt.Errorf("%w: mc particle %s", ErrSelfRelationship, parentAddress)
	}
	parent.daughters = appendUnique(parent.daughters, daughter)
	daughter.parents = appendUnique(daughter.parents, parent)
	r.relationships++
	return nil
}

// SetTrackParentDaughter links two tracks in both directions
func (r *Registry) SetTrackParentDaughter(parentAddress, daughterAddress codec.Address) error {
	parent, err := lookup(r.trackIdx, "track", parentAddress)
	if err != nil {
		return err
	}
	daughter, err := lookup(r.trackIdx, "track", daughterAddress)
	if err != nil {
		return err
	}
	if parent == daughter {
		return fmt.Errorf("%w: track %s", ErrSelfRelationship, parentAddress)
	}
	parent.daughters = appendUnique(parent.daughters, daughter)
	daughter.parents = appendUnique(daughter.parents, parent)
	r.relationships++
	return nil
}

// SetTrackSibling links two tracks as siblings of each other
func (r *Registry) SetTrackSibling(address1, address2 codec.Address) error {
	t1, err := lookup(r.trackIdx, "track", address1)
	if err != nil {
		return err
	}
	t2, err := lookup(r.trackIdx, "track", address2)
	if err != nil {
		return err
	}
	if t1 == t2 {
		return fmt.Errorf("%w: track %s", ErrSelfRelationship, address1)
	}
	t1.siblings = appendUnique(t1.siblings, t2)
	t2.siblings = appendUnique(t2.siblings, t1)
	r.relationships++
	return nil
}

func lookup[T any](idx map[codec.Address]*T, what string, address codec.Address) (*T, error) {
	v, ok := idx[address]
	if !ok {
		return nil, fmt.Errorf("%w: %s %s", ErrUnresolvedAddress, what, address)
	}
	return v, nil
}

// SubDetectors returns the sub detectors in creation order
func (r *Registry) SubDetectors() []*SubDetector { return r.subDetectors }

// SubDetector returns the sub detector with the given name
func (r *Registry) SubDetector(name string) (*SubDetector, bool) {
	sd, ok := r.subDetectorIdx[name]
	return sd, ok
}

// BoxGaps returns the box gaps in creation order
func (r *Registry) BoxGaps() []*BoxGap { return r.boxGaps }

// ConcentricGaps returns the concentric gaps in creation order
func (r *Registry) ConcentricGaps() []*ConcentricGap { return r.concentricGaps }

// CaloHits returns the hits in creation order
func (r *Registry) CaloHits() []*CaloHit { return r.caloHits }

// CaloHit returns the hit created under address
func (r *Registry) CaloHit(address codec.Address) (*CaloHit, bool) {
	h, ok := r.caloHitIdx[address]
	return h, ok
}

// Tracks returns the tracks in creation order
func (r *Registry) Tracks() []*Track { return r.tracks }

// Track returns the track created under address
func (r *Registry) Track(address codec.Address) (*Track, bool) {
	t, ok := r.trackIdx[address]
	return t, ok
}

// MCParticles returns the Monte-Carlo particles in creation order
func (r *Registry) MCParticles() []*MCParticle { return r.mcParticles }

// MCParticle returns the particle created under uid
func (r *Registry) MCParticle(uid codec.Address) (*MCParticle, bool) {
	m, ok := r.mcIdx[uid]
	return m, ok
}

// Relationships returns the number of relationships applied since the last event reset
func (r *Registry) Relationships() int { return r.relationships }
