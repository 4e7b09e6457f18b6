package api

import (
	"github.com/ssargent/pfostream/pkg/codec"
	"github.com/ssargent/pfostream/pkg/event"
	"github.com/ssargent/pfostream/pkg/pfo"
	"github.com/ssargent/pfostream/pkg/pipeline"
	"github.com/ssargent/pfostream/pkg/stream"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port        int
	Bind        string
	APIKey      string // empty disables authentication
	CORSOrigins []string
}

// StreamInfo describes the loaded stream
type StreamInfo struct {
	Path       string `json:"path"`
	Events     int    `json:"events"`
	Geometries int    `json:"geometries"`
}

// PFOView is the JSON form of a particle flow object
type PFOView struct {
	pfo.Parameters
	TrackAddresses   []codec.Address   `json:"track_addresses"`
	ClusterAddresses [][]codec.Address `json:"cluster_addresses,omitempty"`
	Parents          int               `json:"parents"`
	Daughters        int               `json:"daughters"`
}

// EventView is the JSON form of an assembled event
type EventView struct {
	Event   int           `json:"event"`
	Summary event.Summary `json:"summary"`
	PFOs    []PFOView     `json:"pfos"`
}

// GeometryView is the JSON form of a geometry container
type GeometryView struct {
	Geometry       int                  `json:"geometry"`
	SubDetectors   []*event.SubDetector `json:"sub_detectors"`
	BoxGaps        int                  `json:"box_gaps"`
	ConcentricGaps int                  `json:"concentric_gaps"`
}

// NewEventView converts an assembled event into its JSON form
func NewEventView(res *pipeline.Result) EventView {
	view := EventView{
		Event:   res.Number,
		Summary: res.Summary(),
		PFOs:    make([]PFOView, 0, len(res.PFOs)),
	}
	for _, p := range res.PFOs {
		view.PFOs = append(view.PFOs, PFOView{
			Parameters:       p.Parameters(),
			TrackAddresses:   p.TrackAddresses(),
			ClusterAddresses: p.ClusterAddresses(),
			Parents:          len(p.Parents()),
			Daughters:        len(p.Daughters()),
		})
	}
	return view
}

// NewGeometryView converts a geometry registry into its JSON form
func NewGeometryView(n int, registry *event.Registry) GeometryView {
	return GeometryView{
		Geometry:       n,
		SubDetectors:   registry.SubDetectors(),
		BoxGaps:        len(registry.BoxGaps()),
		ConcentricGaps: len(registry.ConcentricGaps()),
	}
}

func newStreamInfo(src EventSource) StreamInfo {
	return StreamInfo{
		Path:       src.Name(),
		Events:     src.Count(stream.Event),
		Geometries: src.Count(stream.Geometry),
	}
}
