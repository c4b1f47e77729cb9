package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/sententia/internal/analysis"
	"github.com/dgallion1/sententia/internal/engine"
	"github.com/dgallion1/sententia/internal/store"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// decodeBody reads an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrNotReady):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrQueueFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, engine.ErrIndexOutOfRange),
		errors.Is(err, engine.ErrNoSuchParse),
		errors.Is(err, engine.ErrNoSuchReading),
		errors.Is(err, engine.ErrUnknownPass),
		errors.Is(err, engine.ErrEmptyInference),
		errors.Is(err, analysis.ErrEmptyText),
		errors.Is(err, analysis.ErrNoSentence):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(w http.ResponseWriter, err error) {
	jsonError(w, err.Error(), statusFor(err))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
