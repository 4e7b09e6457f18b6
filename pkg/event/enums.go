package event

import (
	"github.com/ssargent/pfostream/pkg/codec"
)

// SubDetectorType identifies a detector subsystem
type SubDetectorType uint32

const (
	InnerTracker SubDetectorType = iota
	ECalBarrel
	ECalEndCap
	HCalBarrel
	HCalEndCap
	Coil
	MuonBarrel
	MuonEndCap
	SubDetectorOther
)

var subDetectorTypes = codec.NewEnumTable("sub detector type",
	"INNER_TRACKER", "ECAL_BARREL", "ECAL_ENDCAP", "HCAL_BARREL", "HCAL_ENDCAP",
	"COIL", "MUON_BARREL", "MUON_ENDCAP", "SUB_DETECTOR_OTHER")

func (t SubDetectorType) String() string { return subDetectorTypes.Name(uint32(t)) }

// MarshalText implements encoding.TextMarshaler
func (t SubDetectorType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (t *SubDetectorType) UnmarshalText(text []byte) error {
	v, err := subDetectorTypes.Parse(string(text))
	if err != nil {
		return err
	}
	*t = SubDetectorType(v)
	return nil
}

// CellGeometry is the shape of a calorimeter cell
type CellGeometry uint32

const (
	Rectangular CellGeometry = iota
	Pointing
)

var cellGeometries = codec.NewEnumTable("cell geometry", "RECTANGULAR", "POINTING")

func (g CellGeometry) String() string { return cellGeometries.Name(uint32(g)) }

// MarshalText implements encoding.TextMarshaler
func (g CellGeometry) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (g *CellGeometry) UnmarshalText(text []byte) error {
	v, err := cellGeometries.Parse(string(text))
	if err != nil {
		return err
	}
	*g = CellGeometry(v)
	return nil
}

// HitType is the subsystem a calorimeter hit was recorded in
type HitType uint32

const (
	TrackerHit HitType = iota
	ECalHit
	HCalHit
	MuonHit
	TPCViewU
	TPCViewV
	TPCViewW
	TPC3D
	HitCustom
)

var hitTypes = codec.NewEnumTable("hit type",
	"TRACKER", "ECAL", "HCAL", "MUON", "TPC_VIEW_U", "TPC_VIEW_V", "TPC_VIEW_W", "TPC_3D", "HIT_CUSTOM")

func (h HitType) String() string { return hitTypes.Name(uint32(h)) }

// MarshalText implements encoding.TextMarshaler
func (h HitType) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (h *HitType) UnmarshalText(text []byte) error {
	v, err := hitTypes.Parse(string(text))
	if err != nil {
		return err
	}
	*h = HitType(v)
	return nil
}

// HitRegion is the detector region of a calorimeter hit
type HitRegion uint32

const (
	Barrel HitRegion = iota
	EndCap
	SingleRegion
)

var hitRegions = codec.NewEnumTable("hit region", "BARREL", "ENDCAP", "SINGLE_REGION")

func (r HitRegion) String() string { return hitRegions.Name(uint32(r)) }

// MarshalText implements encoding.TextMarshaler
func (r HitRegion) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (r *HitRegion) UnmarshalText(text []byte) error {
	v, err := hitRegions.Parse(string(text))
	if err != nil {
		return err
	}
	*r = HitRegion(v)
	return nil
}

// MCParticleType is the view a Monte-Carlo particle belongs to
type MCParticleType uint32

const (
	MCViewU MCParticleType = iota
	MCViewV
	MCViewW
	MC3D
)

var mcParticleTypes = codec.NewEnumTable("mc particle type", "MC_VIEW_U", "MC_VIEW_V", "MC_VIEW_W", "MC_3D")

func (m MCParticleType) String() string { return mcParticleTypes.Name(uint32(m)) }

// MarshalText implements encoding.TextMarshaler
func (m MCParticleType) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (m *MCParticleType) UnmarshalText(text []byte) error {
	v, err := mcParticleTypes.Parse(string(text))
	if err != nil {
		return err
	}
	*m = MCParticleType(v)
	return nil
}
