package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/sententia/internal/engine"
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

type selectRequest struct {
	Parse   int    `json:"parse"`
	Reading string `json:"reading"`
}

type overrideRequest struct {
	POS     string `json:"pos"`
	Reading string `json:"reading"`
}

type rejectRequest struct {
	ID string `json:"id"` // e.g. "possession-1"
}

// wordControl decodes the body into req, then applies control to the word
// named in the URL and responds with the updated analysis.
func (s *Server) wordControl(w http.ResponseWriter, r *http.Request, req any, control func(e *engine.Engine, index int) error) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		jsonError(w, "word index must be an integer", http.StatusBadRequest)
		return
	}
	if req != nil {
		if err := decodeBody(r, req); err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	a, ok := s.analysis(w, r)
	if !ok {
		return
	}
	if err := a.Do(func(e *engine.Engine) error { return control(e, index) }); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a.Snapshot())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	s.wordControl(w, r, &req, func(e *engine.Engine, i int) error {
		return e.Select(i, req.Parse, req.Reading)
	})
}

func (s *Server) handleOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	s.wordControl(w, r, &req, func(e *engine.Engine, i int) error {
		return e.Override(i, morph.PartOfSpeech(req.POS), req.Reading)
	})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	s.wordControl(w, r, &req, func(e *engine.Engine, i int) error {
		return e.Reject(i, sentence.InferenceID(req.ID))
	})
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	s.wordControl(w, r, nil, func(e *engine.Engine, i int) error { return e.Confirm(i) })
}

func (s *Server) handleUnselect(w http.ResponseWriter, r *http.Request) {
	s.wordControl(w, r, nil, func(e *engine.Engine, i int) error { return e.Unselect(i) })
}
