package event

import (
	"sort"

	"github.com/ssargent/pfostream/pkg/codec"
)

// SubDetector is a created geometry sub detector
type SubDetector struct {
	SubDetectorParameters
}

// BoxGap is a created box-shaped gap in the detector
type BoxGap struct {
	BoxGapParameters
}

// ConcentricGap is a created gap between two concentric polygons
type ConcentricGap struct {
	ConcentricGapParameters
}

// MCWeight is a weighted link from a hit or track to a Monte-Carlo particle
type MCWeight struct {
	Particle *MCParticle
	Weight   float32
}

type mcWeights map[*MCParticle]float32

func (w mcWeights) sorted() []MCWeight {
	out := make([]MCWeight, 0, len(w))
	for p, weight := range w {
		out = append(out, MCWeight{Particle: p, Weight: weight})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Particle.UID < out[j].Particle.UID
	})
	return out
}

// CaloHit is a created calorimeter hit
type CaloHit struct {
	CaloHitParameters
	mc mcWeights
}

// ParentCaloHitAddress returns the producer's address for the hit
func (h *CaloHit) ParentCaloHitAddress() codec.Address {
	return h.ParentAddress
}

// MCParticles returns the weighted Monte-Carlo links, ordered by particle uid
func (h *CaloHit) MCParticles() []MCWeight {
	return h.mc.sorted()
}

// Track is a created track
type Track struct {
	TrackParameters
	parents   []*Track
	daughters []*Track
	siblings  []*Track
	mc        mcWeights
}

// ParentTrackAddress returns the producer's address for the track
func (t *Track) ParentTrackAddress() codec.Address {
	return t.ParentAddress
}

// Parents returns the parent tracks in link order
func (t *Track) Parents() []*Track { return t.parents }

// Daughters returns the daughter tracks in link order
func (t *Track) Daughters() []*Track { return t.daughters }

// Siblings returns the sibling tracks in link order
func (t *Track) Siblings() []*Track { return t.siblings }

// MCParticles returns the weighted Monte-Carlo links, ordered by particle uid
func (t *Track) MCParticles() []MCWeight {
	return t.mc.sorted()
}

// MemberKind implements Member
func (*Track) MemberKind() MemberKind { return TrackMember }

// MCParticle is a created Monte-Carlo truth particle
type MCParticle struct {
	MCParticleParameters
	parents   []*MCParticle
	daughters []*MCParticle
}

// Parents returns the parent particles in link order
func (m *MCParticle) Parents() []*MCParticle { return m.parents }

// Daughters returns the daughter particles in link order
func (m *MCParticle) Daughters() []*MCParticle { return m.daughters }

func appendUnique[T comparable](list []T, v T) []T {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
