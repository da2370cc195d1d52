package server

import (
	"net/http"

	"github.com/jonathan/postsphere/internal/dashboard"
	"github.com/jonathan/postsphere/internal/generation"
	"github.com/jonathan/postsphere/internal/platform"
	"go.uber.org/zap"
)

// handlePlatforms returns the rules table in display order.
func (s *Server) handlePlatforms(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"platforms": platform.All()})
}

type normalizeRequest struct {
	Text     string      `json:"text"`
	Platform platform.ID `json:"platform" validate:"required"`
}

type normalizeResponse struct {
	Post   string          `json:"post"`
	Report platform.Report `json:"report"`
}

// handleNormalize reshapes text for a platform without calling the model.
// Unknown platforms get the text back unchanged.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	post := platform.Normalize(req.Text, req.Platform)
	s.jsonResponse(w, http.StatusOK, normalizeResponse{
		Post:   post,
		Report: platform.Analyze(post, req.Platform),
	})
}

type generateRequest struct {
	Content   string        `json:"content" validate:"max=280"`
	Platforms []platform.ID `json:"platforms" validate:"required,min=1,dive,required"`
}

type generateResponse struct {
	Contents map[platform.ID]string             `json:"contents"`
	Variants map[platform.ID]generation.Variant `json:"variants"`
	Errors   map[platform.ID]string             `json:"errors,omitempty"`
}

// handleGenerate drafts one variant per requested platform. Partial failures
// are reported per platform; the request only fails if nothing succeeded.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	batch := s.generator.GenerateAll(r.Context(), req.Content, req.Platforms)
	if len(batch.Variants) == 0 {
		s.handleError(w, r, firstError(batch, req.Platforms))
		return
	}

	s.jsonResponse(w, http.StatusOK, newGenerateResponse(batch))
}

func newGenerateResponse(batch generation.Batch) generateResponse {
	resp := generateResponse{
		Contents: batch.Contents(),
		Variants: batch.Variants,
	}
	if len(batch.Errors) > 0 {
		resp.Errors = make(map[platform.ID]string, len(batch.Errors))
		for id, err := range batch.Errors {
			resp.Errors[id] = publicMessage(err)
		}
	}
	return resp
}

// firstError picks the failure of the earliest requested platform so the
// response status is stable across runs.
func firstError(batch generation.Batch, ids []platform.ID) error {
	for _, id := range ids {
		if err, ok := batch.Errors[id]; ok {
			return err
		}
	}
	return dashboard.ErrNoPlatforms
}

// handleGenerateStream is handleGenerate over Server-Sent Events: a variant
// or error event per platform as each finishes, then a complete event.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	gen := s.generator.WithOnVariant(func(id platform.ID, v *generation.Variant, err error) {
		if err != nil {
			sse.WriteError(string(id), publicMessage(err))
			return
		}
		if werr := sse.WriteEvent("variant", v); werr != nil {
			s.logger.Debug("writing SSE event", zap.Error(werr))
		}
	})

	batch := gen.GenerateAll(r.Context(), req.Content, req.Platforms)
	sse.WriteComplete(len(batch.Variants), len(batch.Errors))
}
