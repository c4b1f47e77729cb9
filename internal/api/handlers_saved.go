package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListSaved(w http.ResponseWriter, r *http.Request) {
	list, err := s.saved.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": list})
}

// handleLoadSaved opens a saved document as a new ready analysis.
func (s *Server) handleLoadSaved(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sent, sv, err := s.saved.Load(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	a := s.analyses.Open(sv.Title, sent)
	writeJSON(w, http.StatusCreated, map[string]any{
		"analysis_id": a.ID,
		"saved_id":    sv.ID,
		"status":      a.Status(),
		"poll_url":    fmt.Sprintf("/api/analyses/%s", a.ID),
	})
}

func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := s.saved.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLookupStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil && s.cache == nil {
		jsonError(w, "lookup stats unavailable", http.StatusServiceUnavailable)
		return
	}
	body := map[string]any{}
	if s.stats != nil {
		body["service"] = s.stats.Snapshot()
	}
	if s.cache != nil {
		body["cache"] = s.cache.Stats()
	}
	writeJSON(w, http.StatusOK, body)
}
