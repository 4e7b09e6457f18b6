package pfo

import (
	"fmt"
	"math"

	"github.com/ssargent/pfostream/pkg/event"
)

// FromTracks creates one charged particle flow object for every track that
// can form one, in track order. Parent and daughter edges are copied from the
// track graph, each edge added on both ends.
func FromTracks(tracks []*event.Track) ([]*ParticleFlowObject, error) {
	byTrack := make(map[*event.Track]*ParticleFlowObject, len(tracks))
	pfos := make([]*ParticleFlowObject, 0, len(tracks))

	for _, t := range tracks {
		if t == nil || !t.CanFormPfo {
			continue
		}

		p := t.MomentumAtDca.Magnitude()
		pfo, err := New(Parameters{
			ParticleID: t.ParticleID,
			Charge:     t.Charge,
			Mass:       t.Mass,
			Energy:     float32(math.Sqrt(float64(p*p + t.Mass*t.Mass))),
			Momentum:   t.MomentumAtDca,
		})
		if err != nil {
			return nil, fmt.Errorf("track %s: %w", t.ParentTrackAddress(), err)
		}
		if err := pfo.AddMember(t); err != nil {
			return nil, fmt.Errorf("track %s: %w", t.ParentTrackAddress(), err)
		}

		byTrack[t] = pfo
		pfos = append(pfos, pfo)
	}

	for _, t := range tracks {
		parent, ok := byTrack[t]
		if !ok {
			continue
		}
		for _, d := range t.Daughters() {
			daughter, ok := byTrack[d]
			if !ok {
				continue
			}
			if err := parent.AddDaughter(daughter); err != nil {
				return nil, fmt.Errorf("link %s -> %s: %w", t.ParentTrackAddress(), d.ParentTrackAddress(), err)
			}
			if err := daughter.AddParent(parent); err != nil {
				return nil, fmt.Errorf("link %s -> %s: %w", t.ParentTrackAddress(), d.ParentTrackAddress(), err)
			}
		}
	}

	return pfos, nil
}
