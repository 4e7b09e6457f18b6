package event

import (
	"errors"
	"sort"

	"github.com/ssargent/pfostream/pkg/codec"
)

// ErrHitInCluster is returned when a hit is added to a cluster that already holds it
var ErrHitInCluster = errors.New("calo hit already in cluster")

// MemberKind identifies the collection a particle flow object member belongs to
type MemberKind int

const (
	TrackMember MemberKind = iota
	ClusterMember
	VertexMember
)

func (k MemberKind) String() string {
	switch k {
	case TrackMember:
		return "track"
	case ClusterMember:
		return "cluster"
	case VertexMember:
		return "vertex"
	}
	return "unknown"
}

// Member is an object a particle flow object can aggregate without owning it
type Member interface {
	MemberKind() MemberKind
}

// LayerHits is the group of hits a cluster holds in one calorimeter layer
type LayerHits struct {
	Layer uint32
	Hits  []*CaloHit
}

// Cluster groups calorimeter hits by layer. Isolated hits are held apart
// from the main body of the cluster.
type Cluster struct {
	layers   map[uint32][]*CaloHit
	isolated []*CaloHit
	members  map[*CaloHit]struct{}
}

// NewCluster creates a cluster holding hits
func NewCluster(hits ...*CaloHit) (*Cluster, error) {
	c := &Cluster{
		layers:  make(map[uint32][]*CaloHit),
		members: make(map[*CaloHit]struct{}),
	}
	for _, h := range hits {
		if err := c.AddHit(h); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddHit adds a hit to the layer it was recorded in
func (c *Cluster) AddHit(h *CaloHit) error {
	if _, ok := c.members[h]; ok {
		return ErrHitInCluster
	}
	c.members[h] = struct{}{}
	c.layers[h.Layer] = append(c.layers[h.Layer], h)
	return nil
}

// AddIsolatedHit adds a hit to the isolated hit list
func (c *Cluster) AddIsolatedHit(h *CaloHit) error {
	if _, ok := c.members[h]; ok {
		return ErrHitInCluster
	}
	c.members[h] = struct{}{}
	c.isolated = append(c.isolated, h)
	return nil
}

// NHits returns the number of hits, isolated hits included
func (c *Cluster) NHits() int {
	return len(c.members)
}

// IsolatedHits returns the isolated hits in insertion order
func (c *Cluster) IsolatedHits() []*CaloHit {
	return c.isolated
}

// OrderedHits returns the hits grouped by ascending layer, insertion order
// within a layer. With includeIsolated, isolated hits are merged into their
// layer's group after the regular hits.
func (c *Cluster) OrderedHits(includeIsolated bool) []LayerHits {
	merged := make(map[uint32][]*CaloHit, len(c.layers))
	for layer, hits := range c.layers {
		merged[layer] = append([]*CaloHit(nil), hits...)
	}
	if includeIsolated {
		for _, h := range c.isolated {
			merged[h.Layer] = append(merged[h.Layer], h)
		}
	}

	layers := make([]uint32, 0, len(merged))
	for layer := range merged {
		layers = append(layers, layer)
	}
	sort.Slice(layers, func(i, j int) bool { return layers[i] < layers[j] })

	out := make([]LayerHits, 0, len(layers))
	for _, layer := range layers {
		out = append(out, LayerHits{Layer: layer, Hits: merged[layer]})
	}
	return out
}

// HitAddresses flattens OrderedHits(true) into the producer addresses of the hits
func (c *Cluster) HitAddresses() []codec.Address {
	addresses := make([]codec.Address, 0, c.NHits())
	for _, group := range c.OrderedHits(true) {
		for _, h := range group.Hits {
			addresses = append(addresses, h.ParentCaloHitAddress())
		}
	}
	return addresses
}

// MemberKind implements Member
func (*Cluster) MemberKind() MemberKind { return ClusterMember }

// Vertex is an interaction point a particle flow object may be attached to
type Vertex struct {
	Position codec.Vector3
	Label    string
}

// NewVertex creates a vertex at position
func NewVertex(position codec.Vector3, label string) *Vertex {
	return &Vertex{Position: position, Label: label}
}

// MemberKind implements Member
func (*Vertex) MemberKind() MemberKind { return VertexMember }
