package api

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/sententia/internal/analysis"
	"github.com/dgallion1/sententia/internal/engine"
	"github.com/dgallion1/sententia/internal/importer"
)

type createRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func queued(a *analysis.Analysis) map[string]any {
	return map[string]any{
		"analysis_id": a.ID,
		"title":       a.Title,
		"status":      a.Status(),
		"poll_url":    fmt.Sprintf("/api/analyses/%s", a.ID),
	}
}

func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	a, err := s.analyses.Submit(analysis.Request{Title: req.Title, Text: req.Text})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, queued(a))
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !importer.IsSupported(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	if header.Size > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	as, err := s.analyses.Import(file, filename, r.FormValue("title"))
	if err != nil && len(as) == 0 {
		fail(w, err)
		return
	}
	results := make([]map[string]any, 0, len(as))
	for _, a := range as {
		results = append(results, queued(a))
	}
	body := map[string]any{"filename": filename, "analyses": results}
	if err != nil {
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusAccepted, body)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	list := s.analyses.List()
	out := make([]map[string]any, 0, len(list))
	for _, a := range list {
		snap := a.Snapshot()
		out = append(out, map[string]any{
			"analysis_id": snap.ID,
			"title":       snap.Title,
			"text":        snap.Text,
			"status":      snap.Status,
			"unresolved":  snap.Progress.Unresolved,
			"updated_at":  snap.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"analyses": out})
}

func (s *Server) analysis(w http.ResponseWriter, r *http.Request) (*analysis.Analysis, bool) {
	a, err := s.analyses.Get(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err)
		return nil, false
	}
	return a, true
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	a, ok := s.analysis(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.Snapshot())
}

func (s *Server) handleCloseAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := s.analyses.Close(chi.URLParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type runRequest struct {
	Mode  string `json:"mode"` // all, one, incremental, range
	Pass  string `json:"pass,omitempty"`
	Index int    `json:"index,omitempty"`
	Start int    `json:"start,omitempty"`
	End   int    `json:"end,omitempty"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	var run func(context.Context, *engine.Engine) (engine.Report, error)
	switch req.Mode {
	case "", "all":
		run = func(ctx context.Context, e *engine.Engine) (engine.Report, error) { return e.RunAll(ctx, nil) }
	case "one":
		run = func(_ context.Context, e *engine.Engine) (engine.Report, error) { return e.RunPass(req.Pass) }
	case "incremental":
		run = func(_ context.Context, e *engine.Engine) (engine.Report, error) { return e.RunIncremental(req.Index) }
	case "range":
		run = func(ctx context.Context, e *engine.Engine) (engine.Report, error) {
			return e.RunRange(ctx, req.Start, req.End, nil)
		}
	default:
		jsonError(w, fmt.Sprintf("unknown mode %q", req.Mode), http.StatusBadRequest)
		return
	}
	s.runAndRespond(w, r, run)
}

func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	s.runAndRespond(w, r, func(ctx context.Context, e *engine.Engine) (engine.Report, error) {
		return e.Reanalyze(ctx, nil)
	})
}

func (s *Server) handleRerun(w http.ResponseWriter, r *http.Request) {
	s.runAndRespond(w, r, func(ctx context.Context, e *engine.Engine) (engine.Report, error) {
		return e.Rerun(ctx, nil)
	})
}

func (s *Server) runAndRespond(w http.ResponseWriter, r *http.Request, run func(context.Context, *engine.Engine) (engine.Report, error)) {
	a, ok := s.analysis(w, r)
	if !ok {
		return
	}
	var report engine.Report
	err := a.Do(func(e *engine.Engine) error {
		var err error
		report, err = run(r.Context(), e)
		return err
	})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report":   report,
		"analysis": a.Snapshot(),
	})
}

type saveRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	a, ok := s.analysis(w, r)
	if !ok {
		return
	}
	var req saveRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		req.Title = a.Title
	}
	data, err := a.Encode(time.Now())
	if err != nil {
		fail(w, err)
		return
	}
	sv, err := s.saved.Save(r.Context(), req.Title, data)
	if err != nil {
		fail(w, err)
		return
	}
	s.log.Info("analysis saved", "analysis_id", a.ID, "saved_id", sv.ID)
	writeJSON(w, http.StatusCreated, sv)
}
