package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/sententia/internal/analysis"
	"github.com/dgallion1/sententia/internal/config"
	"github.com/dgallion1/sententia/internal/lookup"
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/store"
)

const testKey = "secret"

var dictionary = map[string][]morph.CandidateParse{
	"puella":  {{POS: morph.POSNoun, Lemma: "puella", Readings: []string{"NOM S F", "ABL S F"}}},
	"ambulat": {{POS: morph.POSVerb, Lemma: "ambulo", Readings: []string{"PRES ACTIVE IND 3 S"}}},
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.APIKey = testKey
	cfg.CleanupSchedule = "@every 1h"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	lk := lookup.NewCache(lookup.Func(func(_ context.Context, w string) ([]morph.CandidateParse, error) {
		return dictionary[w], nil
	}))
	orch := analysis.NewOrchestrator(cfg, lk, log)
	require.NoError(t, orch.Start(context.Background()))
	t.Cleanup(orch.Stop)

	saved, err := store.Open(filepath.Join(t.TempDir(), "saved.db"))
	require.NoError(t, err)
	t.Cleanup(func() { saved.Close() })

	srv := httptest.NewServer(NewServer(orch, saved, log, cfg, WithLookupStats(lookup.NewStats(time.Hour), lk)))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", "application/json")
	return do(t, req)
}

func do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

// analyze submits text and waits for it to finish.
func analyze(t *testing.T, srv *httptest.Server, text string) string {
	t.Helper()
	code, body := call(t, srv, http.MethodPost, "/api/analyses", map[string]string{"title": "t", "text": text})
	require.Equal(t, http.StatusAccepted, code, body)
	id := body["analysis_id"].(string)
	require.Eventually(t, func() bool {
		_, got := call(t, srv, http.MethodGet, "/api/analyses/"+id, nil)
		return got["status"] == string(analysis.StatusReady)
	}, 5*time.Second, 20*time.Millisecond)
	return id
}

func words(t *testing.T, body map[string]any) []any {
	t.Helper()
	sent, ok := body["sentence"].(map[string]any)
	require.True(t, ok, "missing sentence in %v", body)
	return sent["words"].([]any)
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/analyses", nil)
	code, body := do(t, req)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "missing authorization", body["error"])

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/analyses", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	code, _ = do(t, req)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/analyses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCreateAndGetAnalysis(t *testing.T) {
	srv := newTestServer(t)
	id := analyze(t, srv, "puella ambulat")

	code, body := call(t, srv, http.MethodGet, "/api/analyses/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	ws := words(t, body)
	require.Len(t, ws, 2)
	assert.Equal(t, "subject", ws[0].(map[string]any)["inference"])

	code, body = call(t, srv, http.MethodGet, "/api/analyses", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["analyses"], 1)
}

func TestCreateRejectsEmptyText(t *testing.T) {
	srv := newTestServer(t)
	code, _ := call(t, srv, http.MethodPost, "/api/analyses", map[string]string{"text": " "})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetMissingAnalysis(t *testing.T) {
	srv := newTestServer(t)
	code, _ := call(t, srv, http.MethodGet, "/api/analyses/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWordControls(t *testing.T) {
	srv := newTestServer(t)
	id := analyze(t, srv, "puella ambulat")
	base := "/api/analyses/" + id + "/words/"

	code, body := call(t, srv, http.MethodPost, base+"0/select", map[string]any{"parse": 0, "reading": "ABL S F"})
	require.Equal(t, http.StatusOK, code, body)
	w0 := words(t, body)[0].(map[string]any)
	assert.Equal(t, "ABL S F", w0["selectedReading"])
	assert.Equal(t, false, w0["guessed"])

	code, _ = call(t, srv, http.MethodPost, base+"0/select", map[string]any{"parse": 3})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, srv, http.MethodPost, base+"9/unselect", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, srv, http.MethodPost, base+"x/unselect", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = call(t, srv, http.MethodPost, base+"0/override", map[string]any{"pos": "ADJ", "reading": "NOM S F"})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotNil(t, words(t, body)[0].(map[string]any)["manualOverride"])

	code, _ = call(t, srv, http.MethodPost, base+"0/unselect", nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, srv, http.MethodPost, base+"1/confirm", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, srv, http.MethodPost, base+"0/reject", map[string]any{"id": ""})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRejectSurvivesRerunUntilCleared(t *testing.T) {
	srv := newTestServer(t)
	id := analyze(t, srv, "puella ambulat")
	path := "/api/analyses/" + id

	code, body := call(t, srv, http.MethodPost, path+"/words/0/reject", map[string]any{"id": "subject-1"})
	require.Equal(t, http.StatusOK, code, body)

	code, body = call(t, srv, http.MethodPost, path+"/run", map[string]any{"mode": "all"})
	require.Equal(t, http.StatusOK, code, body)
	w0 := words(t, body["analysis"].(map[string]any))[0].(map[string]any)
	assert.NotEqual(t, "subject", w0["inference"])
	assert.Contains(t, w0["rejectedHeuristics"], "subject-1")

	code, body = call(t, srv, http.MethodPost, path+"/rerun", nil)
	require.Equal(t, http.StatusOK, code, body)
	w0 = words(t, body["analysis"].(map[string]any))[0].(map[string]any)
	assert.Equal(t, "subject", w0["inference"])
}

func TestRunModes(t *testing.T) {
	srv := newTestServer(t)
	id := analyze(t, srv, "puella ambulat")
	path := "/api/analyses/" + id + "/run"

	cases := []struct {
		body map[string]any
		code int
	}{
		{map[string]any{"mode": "one", "pass": "subject"}, http.StatusOK},
		{map[string]any{"mode": "one", "pass": "nope"}, http.StatusBadRequest},
		{map[string]any{"mode": "incremental", "index": 1}, http.StatusOK},
		{map[string]any{"mode": "incremental", "index": 7}, http.StatusBadRequest},
		{map[string]any{"mode": "range", "start": 0, "end": 1}, http.StatusOK},
		{map[string]any{"mode": "range", "start": 1, "end": 0}, http.StatusBadRequest},
		{map[string]any{"mode": "sideways"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		code, body := call(t, srv, http.MethodPost, path, tc.body)
		assert.Equal(t, tc.code, code, "%v: %v", tc.body, body)
	}

	code, body := call(t, srv, http.MethodPost, "/api/analyses/"+id+"/reanalyze", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "report")
}

func TestSaveListLoad(t *testing.T) {
	srv := newTestServer(t)
	id := analyze(t, srv, "puella ambulat")

	code, body := call(t, srv, http.MethodPost, "/api/analyses/"+id+"/words/0/select", map[string]any{"parse": 0, "reading": "ABL S F"})
	require.Equal(t, http.StatusOK, code, body)

	code, body = call(t, srv, http.MethodPost, "/api/analyses/"+id+"/save", map[string]any{"title": "prima"})
	require.Equal(t, http.StatusCreated, code, body)
	savedID := body["id"].(string)
	assert.Equal(t, "prima", body["title"])

	code, body = call(t, srv, http.MethodGet, "/api/saved", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["saved"], 1)

	code, body = call(t, srv, http.MethodPost, "/api/saved/"+savedID+"/load", nil)
	require.Equal(t, http.StatusCreated, code, body)
	loaded := body["analysis_id"].(string)
	assert.NotEqual(t, id, loaded)

	code, body = call(t, srv, http.MethodGet, "/api/analyses/"+loaded, nil)
	require.Equal(t, http.StatusOK, code)
	w0 := words(t, body)[0].(map[string]any)
	assert.Equal(t, "ABL S F", w0["selectedReading"])

	code, _ = call(t, srv, http.MethodDelete, "/api/saved/"+savedID, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = call(t, srv, http.MethodPost, "/api/saved/"+savedID+"/load", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpload(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "../fabula.txt")
	require.NoError(t, err)
	_, err = io.WriteString(fw, "Puella ambulat. Puella ambulat!")
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("title", "Fabula"))
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/analyses/upload", &buf)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, body := do(t, req)
	require.Equal(t, http.StatusAccepted, code, body)
	assert.Equal(t, "fabula.txt", body["filename"])
	require.Len(t, body["analyses"], 2)
	first := body["analyses"].([]any)[0].(map[string]any)
	assert.Equal(t, "Fabula #1", first["title"])
}

func TestUploadUnsupported(t *testing.T) {
	srv := newTestServer(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "notes.exe")
	io.WriteString(fw, "x")
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/analyses/upload", &buf)
	req.Header.Set("Authorization", "Bearer "+testKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, body := do(t, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, strings.Contains(body["error"].(string), ".exe"))
}

func TestCloseAnalysis(t *testing.T) {
	srv := newTestServer(t)
	id := analyze(t, srv, "puella")
	code, _ := call(t, srv, http.MethodDelete, "/api/analyses/"+id, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = call(t, srv, http.MethodDelete, "/api/analyses/"+id, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestLookupStats(t *testing.T) {
	srv := newTestServer(t)
	analyze(t, srv, "puella ambulat")
	code, body := call(t, srv, http.MethodGet, "/api/stats/lookup", nil)
	require.Equal(t, http.StatusOK, code)
	cache := body["cache"].(map[string]any)
	assert.EqualValues(t, 2, cache["entries"])
}
