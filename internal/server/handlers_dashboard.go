package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jonathan/postsphere/internal/dashboard"
)

type applyRequest struct {
	State  json.RawMessage  `json:"state"`
	Action dashboard.Action `json:"action"`
}

type stateResponse struct {
	State   *dashboard.ViewModel `json:"state"`
	Receipt *dashboard.Receipt   `json:"receipt,omitempty"`
}

type stateRequest struct {
	State json.RawMessage `json:"state" validate:"required"`
}

// restoreState decodes the client-held view-model; an absent state starts fresh.
func restoreState(raw json.RawMessage) (*dashboard.ViewModel, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return dashboard.New(), nil
	}
	return dashboard.Restore(raw)
}

// handleApply runs one transition against the posted state and returns the
// resulting state. The server keeps nothing between requests.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	vm, err := restoreState(req.State)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if err := vm.Apply(req.Action); err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, stateResponse{State: vm})
}

// handleSchedule simulates scheduling the posted state.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.handlePublisherOp(w, r, s.publisher.Schedule)
}

// handlePublish simulates publishing the posted state.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	s.handlePublisherOp(w, r, s.publisher.Publish)
}

type publisherOp func(ctx context.Context, vm *dashboard.ViewModel) (dashboard.Receipt, error)

func (s *Server) handlePublisherOp(w http.ResponseWriter, r *http.Request, op publisherOp) {
	var req stateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	vm, err := dashboard.Restore(req.State)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	receipt, err := op(r.Context(), vm)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, stateResponse{State: vm, Receipt: &receipt})
}
