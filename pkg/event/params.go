package event

import (
	"math"

	"github.com/ssargent/pfostream/pkg/codec"
)

// RecordKind identifies the kind of record a parameter bundle was decoded from
type RecordKind int

const (
	SubDetectorRecord RecordKind = iota
	BoxGapRecord
	ConcentricGapRecord
	CaloHitRecord
	TrackRecord
	MCParticleRecord
)

var recordKindNames = [...]string{"SubDetector", "BoxGap", "ConcentricGap", "CaloHit", "Track", "MCParticle"}

// String returns the record name used in streams
func (k RecordKind) String() string {
	if k < 0 || int(k) >= len(recordKindNames) {
		return "Unknown"
	}
	return recordKindNames[k]
}

// DefaultMCParticleID is the particle id an MCParticle bundle starts with
const DefaultMCParticleID = -math.MaxInt32

// Extensions holds fields attached to a bundle by extension hooks
type Extensions map[string]any

// Parameters is implemented by every parameter bundle
type Parameters interface {
	Kind() RecordKind
	// Extensions returns the bundle's extension fields, creating the map on first use
	Extensions() Extensions
}

type extensible struct {
	Extra Extensions `json:"extensions,omitempty"`
}

func (e *extensible) Extensions() Extensions {
	if e.Extra == nil {
		e.Extra = make(Extensions)
	}
	return e.Extra
}

// LayerParameters describes one layer of a sub detector
type LayerParameters struct {
	ClosestDistanceToIP float32 `json:"closest_distance_to_ip"`
	NRadiationLengths   float32 `json:"n_radiation_lengths"`
	NInteractionLengths float32 `json:"n_interaction_lengths"`
}

// SubDetectorParameters is the bundle for a SubDetector record
type SubDetectorParameters struct {
	extensible
	Name               string            `json:"name"`
	Type               SubDetectorType   `json:"type"`
	InnerRCoordinate   float32           `json:"inner_r"`
	InnerZCoordinate   float32           `json:"inner_z"`
	InnerPhiCoordinate float32           `json:"inner_phi"`
	InnerSymmetryOrder uint32            `json:"inner_symmetry_order"`
	OuterRCoordinate   float32           `json:"outer_r"`
	OuterZCoordinate   float32           `json:"outer_z"`
	OuterPhiCoordinate float32           `json:"outer_phi"`
	OuterSymmetryOrder uint32            `json:"outer_symmetry_order"`
	IsMirroredInZ      bool              `json:"is_mirrored_in_z"`
	NLayers            uint32            `json:"n_layers"`
	Layers             []LayerParameters `json:"layers,omitempty"`
}

func (*SubDetectorParameters) Kind() RecordKind { return SubDetectorRecord }

// BoxGapParameters is the bundle for a BoxGap record
type BoxGapParameters struct {
	extensible
	Vertex codec.Vector3 `json:"vertex"`
	Side1  codec.Vector3 `json:"side1"`
	Side2  codec.Vector3 `json:"side2"`
	Side3  codec.Vector3 `json:"side3"`
}

func (*BoxGapParameters) Kind() RecordKind { return BoxGapRecord }

// ConcentricGapParameters is the bundle for a ConcentricGap record
type ConcentricGapParameters struct {
	extensible
	MinZCoordinate     float32 `json:"min_z"`
	MaxZCoordinate     float32 `json:"max_z"`
	InnerRCoordinate   float32 `json:"inner_r"`
	InnerPhiCoordinate float32 `json:"inner_phi"`
	InnerSymmetryOrder uint32  `json:"inner_symmetry_order"`
	OuterRCoordinate   float32 `json:"outer_r"`
	OuterPhiCoordinate float32 `json:"outer_phi"`
	OuterSymmetryOrder uint32  `json:"outer_symmetry_order"`
}

func (*ConcentricGapParameters) Kind() RecordKind { return ConcentricGapRecord }

// CaloHitParameters is the bundle for a CaloHit record
type CaloHitParameters struct {
	extensible
	CellGeometry            CellGeometry  `json:"cell_geometry"`
	PositionVector          codec.Vector3 `json:"position"`
	ExpectedDirection       codec.Vector3 `json:"expected_direction"`
	CellNormalVector        codec.Vector3 `json:"cell_normal"`
	CellThickness           float32       `json:"cell_thickness"`
	NCellRadiationLengths   float32       `json:"n_cell_radiation_lengths"`
	NCellInteractionLengths float32       `json:"n_cell_interaction_lengths"`
	Time                    float32       `json:"time"`
	InputEnergy             float32       `json:"input_energy"`
	MipEquivalentEnergy     float32       `json:"mip_equivalent_energy"`
	ElectromagneticEnergy   float32       `json:"electromagnetic_energy"`
	HadronicEnergy          float32       `json:"hadronic_energy"`
	IsDigital               bool          `json:"is_digital"`
	HitType                 HitType       `json:"hit_type"`
	HitRegion               HitRegion     `json:"hit_region"`
	Layer                   uint32        `json:"layer"`
	IsInOuterSamplingLayer  bool          `json:"is_in_outer_sampling_layer"`
	ParentAddress           codec.Address `json:"parent_address"`
	CellSize0               float32       `json:"cell_size0"`
	CellSize1               float32       `json:"cell_size1"`
}

func (*CaloHitParameters) Kind() RecordKind { return CaloHitRecord }

// TrackParameters is the bundle for a Track record
type TrackParameters struct {
	extensible
	D0                      float32          `json:"d0"`
	Z0                      float32          `json:"z0"`
	ParticleID              int32            `json:"particle_id"`
	Charge                  int32            `json:"charge"`
	Mass                    float32          `json:"mass"`
	MomentumAtDca           codec.Vector3    `json:"momentum_at_dca"`
	TrackStateAtStart       codec.TrackState `json:"track_state_at_start"`
	TrackStateAtEnd         codec.TrackState `json:"track_state_at_end"`
	TrackStateAtCalorimeter codec.TrackState `json:"track_state_at_calorimeter"`
	TimeAtCalorimeter       float32          `json:"time_at_calorimeter"`
	ReachesCalorimeter      bool             `json:"reaches_calorimeter"`
	IsProjectedToEndCap     bool             `json:"is_projected_to_endcap"`
	CanFormPfo              bool             `json:"can_form_pfo"`
	CanFormClusterlessPfo   bool             `json:"can_form_clusterless_pfo"`
	ParentAddress           codec.Address    `json:"parent_address"`
}

func (*TrackParameters) Kind() RecordKind { return TrackRecord }

// MCParticleParameters is the bundle for an MCParticle record
type MCParticleParameters struct {
	extensible
	Energy         float32        `json:"energy"`
	Momentum       codec.Vector3  `json:"momentum"`
	Vertex         codec.Vector3  `json:"vertex"`
	Endpoint       codec.Vector3  `json:"endpoint"`
	ParticleID     int32          `json:"particle_id"`
	MCParticleType MCParticleType `json:"mc_particle_type"`
	UID            codec.Address  `json:"uid"`
}

func (*MCParticleParameters) Kind() RecordKind { return MCParticleRecord }

// NewMCParticleParameters returns a bundle with the default particle id set
func NewMCParticleParameters() *MCParticleParameters {
	return &MCParticleParameters{ParticleID: DefaultMCParticleID}
}
