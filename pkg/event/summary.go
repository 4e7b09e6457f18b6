package event

// Summary is a compact description of what a registry holds
type Summary struct {
	SubDetectors   []string       `json:"sub_detectors,omitempty"`
	BoxGaps        int            `json:"box_gaps"`
	ConcentricGaps int            `json:"concentric_gaps"`
	CaloHits       int            `json:"calo_hits"`
	Tracks         int            `json:"tracks"`
	MCParticles    int            `json:"mc_particles"`
	Relationships  int            `json:"relationships"`
	TotalEnergy    float32        `json:"total_energy"`
	HitsByType     map[string]int `json:"hits_by_type,omitempty"`
}

// Summary describes the registry's current contents
func (r *Registry) Summary() Summary {
	s := Summary{
		BoxGaps:        len(r.boxGaps),
		ConcentricGaps: len(r.concentricGaps),
		CaloHits:       len(r.caloHits),
		Tracks:         len(r.tracks),
		MCParticles:    len(r.mcParticles),
		Relationships:  r.relationships,
	}
	for _, sd := range r.subDetectors {
		s.SubDetectors = append(s.SubDetectors, sd.Name)
	}
	if len(r.caloHits) > 0 {
		s.HitsByType = make(map[string]int)
	}
	for _, h := range r.caloHits {
		s.TotalEnergy += h.InputEnergy
		s.HitsByType[h.HitType.String()]++
	}
	return s
}
