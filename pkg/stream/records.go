package stream

import (
	"errors"
	"fmt"

	"github.com/ssargent/pfostream/pkg/event"
)

type recordHandler func(r *Reader) error

var geometryHandlers = map[string]recordHandler{
	"SubDetector":   (*Reader).readSubDetector,
	"BoxGap":        (*Reader).readBoxGap,
	"ConcentricGap": (*Reader).readConcentricGap,
}

var eventHandlers = map[string]recordHandler{
	"CaloHit":      (*Reader).readCaloHit,
	"Track":        (*Reader).readTrack,
	"MCParticle":   (*Reader).readMCParticle,
	"Relationship": (*Reader).readRelationship,
}

// ReadNextGeometryComponent reads the next record of a geometry container. It
// returns ErrNotFound once the container is exhausted.
func (r *Reader) ReadNextGeometryComponent() error {
	return r.readNextComponent(geometryHandlers)
}

// ReadNextEventComponent reads the next record of an event container. It
// returns ErrNotFound once the container is exhausted, after any deferred
// relationships have been applied.
func (r *Reader) ReadNextEventComponent() error {
	return r.readNextComponent(eventHandlers)
}

func (r *Reader) readNextComponent(handlers map[string]recordHandler) error {
	node, err := r.AdvanceRecord()
	if errors.Is(err, ErrNotFound) {
		if ferr := r.flushRelationships(); ferr != nil {
			return ferr
		}
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	name := node.Name()
	handler, ok := handlers[name]
	if !ok {
		err = &RecordError{Record: name, Err: fmt.Errorf("%w in %s container", ErrUnknownRecord, r.containerKind)}
	} else {
		err = handler(r)
	}

	r.observer.ObserveRecord(name, err)
	if err != nil {
		r.logger.Warn("record failed", "record", name, "position", node.Index(), "error", err)
	}
	return err
}

// begin checks the container kind and runs the extension hook for params
func (r *Reader) begin(want ContainerKind, params event.Parameters) error {
	record := params.Kind().String()
	if r.containerKind != want {
		return &RecordError{Record: record, Err: ErrWrongContainer}
	}
	if err := r.config.Hooks.run(params, r); err != nil {
		return &RecordError{Record: record, Err: fmt.Errorf("extension hook: %w", err)}
	}
	return nil
}

func (r *Reader) readSubDetector() error {
	p := &event.SubDetectorParameters{}
	if err := r.begin(Geometry, p); err != nil {
		return err
	}

	const record = "SubDetector"
	if err := r.readFields(record, []field{
		{"SubDetectorName", &p.Name},
		{"SubDetectorType", &p.Type},
		{"InnerRCoordinate", &p.InnerRCoordinate},
		{"InnerZCoordinate", &p.InnerZCoordinate},
		{"InnerPhiCoordinate", &p.InnerPhiCoordinate},
		{"InnerSymmetryOrder", &p.InnerSymmetryOrder},
		{"OuterRCoordinate", &p.OuterRCoordinate},
		{"OuterZCoordinate", &p.OuterZCoordinate},
		{"OuterPhiCoordinate", &p.OuterPhiCoordinate},
		{"OuterSymmetryOrder", &p.OuterSymmetryOrder},
		{"IsMirroredInZ", &p.IsMirroredInZ},
		{"NLayers", &p.NLayers},
	}); err != nil {
		return err
	}

	if p.NLayers > 0 {
		var closest, radiation, interaction []float32
		if err := r.readFields(record, []field{
			{"ClosestDistanceToIp", &closest},
			{"NRadiationLengths", &radiation},
			{"NInteractionLengths", &interaction},
		}); err != nil {
			return err
		}

		n := int(p.NLayers)
		if len(closest) != n || len(radiation) != n || len(interaction) != n {
			return &RecordError{Record: record, Err: fmt.Errorf("%w: NLayers is %d, got %d/%d/%d values",
				ErrLayerCountMismatch, n, len(closest), len(radiation), len(interaction))}
		}

		p.Layers = make([]event.LayerParameters, n)
		for i := range p.Layers {
			p.Layers[i] = event.LayerParameters{
				ClosestDistanceToIP: closest[i],
				NRadiationLengths:   radiation[i],
				NInteractionLengths: interaction[i],
			}
		}
	}

	return r.builder.CreateSubDetector(p)
}

func (r *Reader) readBoxGap() error {
	p := &event.BoxGapParameters{}
	if err := r.begin(Geometry, p); err != nil {
		return err
	}

	if err := r.readFields("BoxGap", []field{
		{"Vertex", &p.Vertex},
		{"Side1", &p.Side1},
		{"Side2", &p.Side2},
		{"Side3", &p.Side3},
	}); err != nil {
		return err
	}
	return r.builder.CreateBoxGap(p)
}

func (r *Reader) readConcentricGap() error {
	p := &event.ConcentricGapParameters{}
	if err := r.begin(Geometry, p); err != nil {
		return err
	}

	if err := r.readFields("ConcentricGap", []field{
		{"MinZCoordinate", &p.MinZCoordinate},
		{"MaxZCoordinate", &p.MaxZCoordinate},
		{"InnerRCoordinate", &p.InnerRCoordinate},
		{"InnerPhiCoordinate", &p.InnerPhiCoordinate},
		{"InnerSymmetryOrder", &p.InnerSymmetryOrder},
		{"OuterRCoordinate", &p.OuterRCoordinate},
		{"OuterPhiCoordinate", &p.OuterPhiCoordinate},
		{"OuterSymmetryOrder", &p.OuterSymmetryOrder},
	}); err != nil {
		return err
	}
	return r.builder.CreateConcentricGap(p)
}

func (r *Reader) readCaloHit() error {
	p := &event.CaloHitParameters{}
	if err := r.begin(Event, p); err != nil {
		return err
	}

	if err := r.readFields("CaloHit", []field{
		{"CellGeometry", &p.CellGeometry},
		{"PositionVector", &p.PositionVector},
		{"ExpectedDirection", &p.ExpectedDirection},
		{"CellNormalVector", &p.CellNormalVector},
		{"CellThickness", &p.CellThickness},
		{"NCellRadiationLengths", &p.NCellRadiationLengths},
		{"NCellInteractionLengths", &p.NCellInteractionLengths},
		{"Time", &p.Time},
		{"InputEnergy", &p.InputEnergy},
		{"MipEquivalentEnergy", &p.MipEquivalentEnergy},
		{"ElectromagneticEnergy", &p.ElectromagneticEnergy},
		{"HadronicEnergy", &p.HadronicEnergy},
		{"IsDigital", &p.IsDigital},
		{"HitType", &p.HitType},
		{"HitRegion", &p.HitRegion},
		{"Layer", &p.Layer},
		{"IsInOuterSamplingLayer", &p.IsInOuterSamplingLayer},
		{"ParentCaloHitAddress", &p.ParentAddress},
		{"CellSize0", &p.CellSize0},
		{"CellSize1", &p.CellSize1},
	}); err != nil {
		return err
	}
	return r.builder.CreateCaloHit(p)
}

func (r *Reader) readTrack() error {
	p := &event.TrackParameters{}
	if err := r.begin(Event, p); err != nil {
		return err
	}

	if err := r.readFields("Track", []field{
		{"D0", &p.D0},
		{"Z0", &p.Z0},
		{"ParticleId", &p.ParticleID},
		{"Charge", &p.Charge},
		{"Mass", &p.Mass},
		{"MomentumAtDca", &p.MomentumAtDca},
		{"TrackStateAtStart", &p.TrackStateAtStart},
		{"TrackStateAtEnd", &p.TrackStateAtEnd},
		{"TrackStateAtCalorimeter", &p.TrackStateAtCalorimeter},
		{"TimeAtCalorimeter", &p.TimeAtCalorimeter},
		{"ReachesCalorimeter", &p.ReachesCalorimeter},
		{"IsProjectedToEndCap", &p.IsProjectedToEndCap},
		{"CanFormPfo", &p.CanFormPfo},
		{"CanFormClusterlessPfo", &p.CanFormClusterlessPfo},
		{"ParentTrackAddress", &p.ParentAddress},
	}); err != nil {
		return err
	}
	return r.builder.CreateTrack(p)
}

func (r *Reader) readMCParticle() error {
	p := event.NewMCParticleParameters()
	if err := r.begin(Event, p); err != nil {
		return err
	}

	if err := r.readFields("MCParticle", []field{
		{"Energy", &p.Energy},
		{"Momentum", &p.Momentum},
		{"Vertex", &p.Vertex},
		{"Endpoint", &p.Endpoint},
		{"ParticleId", &p.ParticleID},
		{"MCParticleType", &p.MCParticleType},
		{"Uid", &p.UID},
	}); err != nil {
		return err
	}
	return r.builder.CreateMCParticle(p)
}
