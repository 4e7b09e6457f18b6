package stream

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssargent/pfostream/pkg/codec"
	"github.com/ssargent/pfostream/pkg/doctree"
	"github.com/ssargent/pfostream/pkg/event"
)

type attr struct{ name, value string }

func subDetectorFields(name string, nLayers int, layerValues string) []attr {
	return []attr{
		{"SubDetectorName", name}, {"SubDetectorType", "ECAL_BARREL"},
		{"InnerRCoordinate", "1800"}, {"InnerZCoordinate", "0"}, {"InnerPhiCoordinate", "0"},
		{"InnerSymmetryOrder", "8"}, {"OuterRCoordinate", "2000"}, {"OuterZCoordinate", "2350"},
		{"OuterPhiCoordinate", "0"}, {"OuterSymmetryOrder", "8"}, {"IsMirroredInZ", "1"},
		{"NLayers", fmt.Sprint(nLayers)},
		{"ClosestDistanceToIp", layerValues}, {"NRadiationLengths", layerValues}, {"NInteractionLengths", layerValues},
	}
}

func boxGapFields() []attr {
	return []attr{{"Vertex", "0 0 0"}, {"Side1", "1 0 0"}, {"Side2", "0 1 0"}, {"Side3", "0 0 1"}}
}

func concentricGapFields() []attr {
	return []attr{
		{"MinZCoordinate", "-10"}, {"MaxZCoordinate", "10"}, {"InnerRCoordinate", "5"},
		{"InnerPhiCoordinate", "0"}, {"InnerSymmetryOrder", "0"}, {"OuterRCoordinate", "6"},
		{"OuterPhiCoordinate", "0"}, {"OuterSymmetryOrder", "0"},
	}
}

func caloHitFields(address string, layer int) []attr {
	return []attr{
		{"CellGeometry", "RECTANGULAR"}, {"PositionVector", "10 20 30"}, {"ExpectedDirection", "0 0 1"},
		{"CellNormalVector", "0 0 1"}, {"CellThickness", "1.5"}, {"NCellRadiationLengths", "0.5"},
		{"NCellInteractionLengths", "0.1"}, {"Time", "2"}, {"InputEnergy", "1.25"},
		{"MipEquivalentEnergy", "3"}, {"ElectromagneticEnergy", "1.25"}, {"HadronicEnergy", "1.1"},
		{"IsDigital", "0"}, {"HitType", "ECAL"}, {"HitRegion", "BARREL"}, {"Layer", fmt.Sprint(layer)},
		{"IsInOuterSamplingLayer", "false"}, {"ParentCaloHitAddress", address},
		{"CellSize0", "5"}, {"CellSize1", "5"},
	}
}

func trackFields(address string) []attr {
	return []attr{
		{"D0", "0.1"}, {"Z0", "-0.2"}, {"ParticleId", "211"}, {"Charge", "1"}, {"Mass", "0.1396"},
		{"MomentumAtDca", "1 2 3"}, {"TrackStateAtStart", "0 0 0 1 2 3"},
		{"TrackStateAtEnd", "10 10 10 1 2 3"}, {"TrackStateAtCalorimeter", "1800 0 0 1 2 3"},
		{"TimeAtCalorimeter", "6"}, {"ReachesCalorimeter", "1"}, {"IsProjectedToEndCap", "0"},
		{"CanFormPfo", "1"}, {"CanFormClusterlessPfo", "0"}, {"ParentTrackAddress", address},
	}
}

func mcParticleFields(uid string) []attr {
	return []attr{
		{"Energy", "10"}, {"Momentum", "1 2 3"}, {"Vertex", "0 0 0"}, {"Endpoint", "0 0 100"},
		{"ParticleId", "22"}, {"MCParticleType", "MC_3D"}, {"Uid", uid},
	}
}

func relationshipFields(id, address1, address2 string) []attr {
	return []attr{{"RelationshipId", id}, {"Address1", address1}, {"Address2", address2}}
}

// element renders a record with its fields as attributes, leaving out omit
func element(name string, fields []attr, omit string) string {
	var b strings.Builder
	b.WriteString("<" + name)
	for _, f := range fields {
		if f.name == omit {
			continue
		}
		fmt.Fprintf(&b, " %s=%q", f.name, f.value)
	}
	b.WriteString("/>")
	return b.String()
}

func container(name string, records ...string) string {
	return "<" + name + ">" + strings.Join(records, "") + "</" + name + ">"
}

func parseDoc(t *testing.T, containers ...string) *doctree.Document {
	t.Helper()
	doc, err := doctree.Parse(strings.NewReader(strings.Join(containers, "\n")))
	require.NoError(t, err)
	return doc
}

// spyBuilder records builder calls and forwards them to a registry
type spyBuilder struct {
	*event.Registry
	calls []string
}

func newSpyBuilder() *spyBuilder {
	return &spyBuilder{Registry: event.NewRegistry()}
}

func (s *spyBuilder) CreateSubDetector(p *event.SubDetectorParameters) error {
	s.calls = append(s.calls, "SubDetector")
	return s.Registry.CreateSubDetector(p)
}

func (s *spyBuilder) CreateBoxGap(p *event.BoxGapParameters) error {
	s.calls = append(s.calls, "BoxGap")
	return s.Registry.CreateBoxGap(p)
}

func (s *spyBuilder) CreateConcentricGap(p *event.ConcentricGapParameters) error {
	s.calls = append(s.calls, "ConcentricGap")
	return s.Registry.CreateConcentricGap(p)
}

func (s *spyBuilder) CreateCaloHit(p *event.CaloHitParameters) error {
	s.calls = append(s.calls, "CaloHit")
	return s.Registry.CreateCaloHit(p)
}

func (s *spyBuilder) CreateTrack(p *event.TrackParameters) error {
	s.calls = append(s.calls, "Track")
	return s.Registry.CreateTrack(p)
}

func (s *spyBuilder) CreateMCParticle(p *event.MCParticleParameters) error {
	s.calls = append(s.calls, "MCParticle")
	return s.Registry.CreateMCParticle(p)
}

func (s *spyBuilder) SetTrackToMCParticle(track, mc codec.Address, weight float32) error {
	s.calls = append(s.calls, "TrackToMC")
	return s.Registry.SetTrackToMCParticle(track, mc, weight)
}

// recordingObserver counts observer notifications
type recordingObserver struct {
	containers    []ContainerKind
	records       map[string]int
	failures      int
	buffered      int
	applied       int
	appliedFailed int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{records: make(map[string]int)}
}

func (o *recordingObserver) ObserveContainer(kind ContainerKind) {
	o.containers = append(o.containers, kind)
}

func (o *recordingObserver) ObserveRecord(record string, err error) {
	o.records[record]++
	if err != nil {
		o.failures++
	}
}

func (o *recordingObserver) ObserveRelationship(_ RelationshipID, deferred bool, err error) {
	switch {
	case deferred:
		o.buffered++
	case err != nil:
		o.appliedFailed++
	default:
		o.applied++
	}
}
