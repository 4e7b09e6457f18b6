package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pfostream/pkg/storage"
	"github.com/ssargent/pfostream/pkg/stream"
)

// HealthStatus is the body of the health endpoint
type HealthStatus struct {
	Status    string      `json:"status"`
	Stream    *StreamInfo `json:"stream,omitempty"`
	Snapshots bool        `json:"snapshots"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	health := HealthStatus{Status: "healthy", Snapshots: s.snapshots != nil}
	if s.source != nil {
		info := newStreamInfo(s.source)
		health.Stream = &info
	}
	sendSuccess(w, health)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		sendError(w, "No stream loaded", http.StatusNotFound)
		return
	}
	sendSuccess(w, newStreamInfo(s.source))
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		sendError(w, "No stream loaded", http.StatusNotFound)
		return
	}
	n, ok := containerNumber(w, r)
	if !ok {
		return
	}

	res, err := s.source.Event(n)
	if err != nil {
		if !errors.Is(err, stream.ErrNotFound) {
			s.metrics.RecordEventAssembled(0, false)
		}
		s.sendReadError(w, "event", n, err)
		return
	}
	s.metrics.RecordEventAssembled(len(res.PFOs), true)
	sendSuccess(w, NewEventView(res))
}

func (s *Server) handleGeometry(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		sendError(w, "No stream loaded", http.StatusNotFound)
		return
	}
	n, ok := containerNumber(w, r)
	if !ok {
		return
	}

	registry, err := s.source.Geometry(n)
	if err != nil {
		s.sendReadError(w, "geometry", n, err)
		return
	}
	sendSuccess(w, NewGeometryView(n, registry))
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		sendError(w, "No snapshot store configured", http.StatusNotFound)
		return
	}
	runs, err := s.snapshots.Runs()
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		sendError(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}

	ids := make([]string, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.String())
	}
	sendSuccess(w, map[string]interface{}{"runs": ids})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		sendError(w, "No snapshot store configured", http.StatusNotFound)
		return
	}
	run, ok := runID(w, r)
	if !ok {
		return
	}

	snapshots, err := s.snapshots.List(run)
	if err != nil {
		s.logger.Error("failed to list snapshots", "run", run, "error", err)
		sendError(w, "Failed to list snapshots", http.StatusInternalServerError)
		return
	}
	if len(snapshots) == 0 {
		sendError(w, "Run not found", http.StatusNotFound)
		return
	}
	sendSuccess(w, snapshots)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		sendError(w, "No snapshot store configured", http.StatusNotFound)
		return
	}
	run, ok := runID(w, r)
	if !ok {
		return
	}
	n, ok := containerNumber(w, r)
	if !ok {
		return
	}

	snapshot, err := s.snapshots.Get(run, n)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		sendError(w, "Snapshot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("failed to read snapshot", "run", run, "event", n, "error", err)
		sendError(w, "Failed to read snapshot", http.StatusInternalServerError)
		return
	}
	sendSuccess(w, snapshot)
}

// sendReadError maps reader errors onto status codes: a container past the
// end is 404, a malformed stream is 422.
func (s *Server) sendReadError(w http.ResponseWriter, what string, n int, err error) {
	switch {
	case errors.Is(err, stream.ErrNotFound):
		sendError(w, what+" "+strconv.Itoa(n)+" not found", http.StatusNotFound)
	case errors.Is(err, stream.ErrFailure):
		s.logger.Warn("stream read failed", what, n, "error", err)
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.Error("stream read failed", what, n, "error", err)
		sendError(w, "Failed to read "+what, http.StatusInternalServerError)
	}
}

func containerNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 0 {
		sendError(w, "Container number must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func runID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "run"))
	if err != nil {
		sendError(w, "Invalid run id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}
