// Package pfo models particle flow objects: composites that aggregate tracks,
// clusters and vertices they do not own, linked to each other through a
// general parent/daughter graph.
package pfo

import (
	"fmt"
	"math"

	"github.com/ssargent/pfostream/pkg/codec"
	"github.com/ssargent/pfostream/pkg/event"
)

// Errors
var (
	ErrAlreadyPresent   = &MembershipError{"already present"}
	ErrNotFound         = &MembershipError{"not found"}
	ErrInvalidParameter = &MembershipError{"invalid parameter"}
)

// MembershipError represents a failed membership change
type MembershipError struct {
	Message string
}

func (e *MembershipError) Error() string {
	return e.Message
}

// Parameters are the scalar attributes of a particle flow object
type Parameters struct {
	ParticleID int32         `json:"particle_id"`
	Charge     int32         `json:"charge"`
	Mass       float32       `json:"mass"`
	Energy     float32       `json:"energy"`
	Momentum   codec.Vector3 `json:"momentum"`
}

// ParticleFlowObject is a reconstructed particle. Its scalar attributes are
// fixed at construction; only its member and graph sets change afterwards.
//
// Parent and daughter edges are independent. Linking A as the parent of B
// takes both a.AddDaughter(b) and b.AddParent(a).
type ParticleFlowObject struct {
	params Parameters

	tracks    orderedSet[*event.Track]
	clusters  orderedSet[*event.Cluster]
	vertices  orderedSet[*event.Vertex]
	parents   orderedSet[*ParticleFlowObject]
	daughters orderedSet[*ParticleFlowObject]
}

// New creates a particle flow object with no members
func New(params Parameters) (*ParticleFlowObject, error) {
	for name, v := range map[string]float32{
		"mass":       params.Mass,
		"energy":     params.Energy,
		"momentum.x": params.Momentum.X,
		"momentum.y": params.Momentum.Y,
		"momentum.z": params.Momentum.Z,
	} {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("%w: %s is %v", ErrInvalidParameter, name, v)
		}
	}
	return &ParticleFlowObject{params: params}, nil
}

// ParticleID returns the PDG code
func (p *ParticleFlowObject) ParticleID() int32 { return p.params.ParticleID }

// Charge returns the charge
func (p *ParticleFlowObject) Charge() int32 { return p.params.Charge }

// Mass returns the mass
func (p *ParticleFlowObject) Mass() float32 { return p.params.Mass }

// Energy returns the energy
func (p *ParticleFlowObject) Energy() float32 { return p.params.Energy }

// Momentum returns the momentum vector
func (p *ParticleFlowObject) Momentum() codec.Vector3 { return p.params.Momentum }

// Parameters returns the scalar attributes
func (p *ParticleFlowObject) Parameters() Parameters { return p.params }

// Tracks returns the member tracks in insertion order
func (p *ParticleFlowObject) Tracks() []*event.Track { return p.tracks.list() }

// Clusters returns the member clusters in insertion order
func (p *ParticleFlowObject) Clusters() []*event.Cluster { return p.clusters.list() }

// Vertices returns the member vertices in insertion order
func (p *ParticleFlowObject) Vertices() []*event.Vertex { return p.vertices.list() }

// Parents returns the parent PFOs in insertion order
func (p *ParticleFlowObject) Parents() []*ParticleFlowObject { return p.parents.list() }

// Daughters returns the daughter PFOs in insertion order
func (p *ParticleFlowObject) Daughters() []*ParticleFlowObject { return p.daughters.list() }

// NMembers returns the size of the member set for kind
func (p *ParticleFlowObject) NMembers(kind event.MemberKind) int {
	switch kind {
	case event.TrackMember:
		return p.tracks.len()
	case event.ClusterMember:
		return p.clusters.len()
	case event.VertexMember:
		return p.vertices.len()
	}
	return 0
}

// AddMember adds a track, cluster or vertex. Adding a member twice fails with
// ErrAlreadyPresent and leaves the set unchanged.
func (p *ParticleFlowObject) AddMember(m event.Member) error {
	switch v := m.(type) {
	case *event.Track:
		if v != nil {
			return p.tracks.add(v)
		}
	case *event.Cluster:
		if v != nil {
			return p.clusters.add(v)
		}
	case *event.Vertex:
		if v != nil {
			return p.vertices.add(v)
		}
	}
	return ErrInvalidParameter
}

// RemoveMember removes a track, cluster or vertex. Removing an absent member
// fails with ErrNotFound.
func (p *ParticleFlowObject) RemoveMember(m event.Member) error {
	switch v := m.(type) {
	case *event.Track:
		if v != nil {
			return p.tracks.remove(v)
		}
	case *event.Cluster:
		if v != nil {
			return p.clusters.remove(v)
		}
	case *event.Vertex:
		if v != nil {
			return p.vertices.remove(v)
		}
	}
	return ErrInvalidParameter
}

// AddParent records parent as a parent of p. The daughter edge on parent is
// not added.
func (p *ParticleFlowObject) AddParent(parent *ParticleFlowObject) error {
	if parent == nil {
		return ErrInvalidParameter
	}
	return p.parents.add(parent)
}

// AddDaughter records daughter as a daughter of p. The parent edge on
// daughter is not added.
func (p *ParticleFlowObject) AddDaughter(daughter *ParticleFlowObject) error {
	if daughter == nil {
		return ErrInvalidParameter
	}
	return p.daughters.add(daughter)
}

// RemoveParent removes parent from the parents of p. The daughter edge on
// parent is not removed.
func (p *ParticleFlowObject) RemoveParent(parent *ParticleFlowObject) error {
	return p.parents.remove(parent)
}

// RemoveDaughter removes daughter from the daughters of p. The parent edge on
// daughter is not removed.
func (p *ParticleFlowObject) RemoveDaughter(daughter *ParticleFlowObject) error {
	return p.daughters.remove(daughter)
}

// TrackAddresses returns the producer address of every track, in the order
// the tracks were added
func (p *ParticleFlowObject) TrackAddresses() []codec.Address {
	addresses := make([]codec.Address, 0, p.tracks.len())
	for _, t := range p.tracks.items {
		addresses = append(addresses, t.ParentTrackAddress())
	}
	return addresses
}

// ClusterAddresses returns, for every cluster, the producer addresses of its
// hits ordered by ascending layer. Isolated hits are merged into their layer.
func (p *ParticleFlowObject) ClusterAddresses() [][]codec.Address {
	addresses := make([][]codec.Address, 0, p.clusters.len())
	for _, c := range p.clusters.items {
		addresses = append(addresses, c.HitAddresses())
	}
	return addresses
}
