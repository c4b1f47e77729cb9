package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/sententia/internal/analysis"
	"github.com/dgallion1/sententia/internal/config"
	"github.com/dgallion1/sententia/internal/lookup"
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/store"
)

var dictionary = map[string][]morph.CandidateParse{
	"romae":   {{POS: morph.POSNoun, Lemma: "Roma", Readings: []string{"GEN S F"}}},
	"puella":  {{POS: morph.POSNoun, Lemma: "puella", Readings: []string{"NOM S F", "ABL S F"}}},
	"ambulat": {{POS: morph.POSVerb, Lemma: "ambulo", Readings: []string{"PRES ACTIVE IND 3 S"}}},
}

func setup(t *testing.T) *mcp.ClientSession {
	t.Helper()
	cfg := config.Defaults()
	cfg.CleanupSchedule = "@every 1h"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := analysis.NewOrchestrator(cfg, lookup.Func(func(_ context.Context, w string) ([]morph.CandidateParse, error) {
		return dictionary[w], nil
	}), log)
	require.NoError(t, orch.Start(context.Background()))
	t.Cleanup(orch.Stop)

	saved, err := store.Open(filepath.Join(t.TempDir(), "saved.db"))
	require.NoError(t, err)
	t.Cleanup(func() { saved.Close() })

	srv := NewServer(&AnalysisTools{Analyses: orch, Saved: saved, Wait: 5 * time.Second}, "test")
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err = srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err, name)
	require.NotEmpty(t, result.Content, name)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text, result.IsError
}

type snapshotJSON struct {
	ID       string `json:"analysis_id"`
	Status   string `json:"status"`
	Sentence struct {
		Words []struct {
			Reading     string   `json:"selectedReading"`
			Inference   string   `json:"inference"`
			Guessed     bool     `json:"guessed"`
			Rejected    []string `json:"rejectedHeuristics"`
			Annotations []struct {
				Kind string `json:"kind"`
			} `json:"annotations"`
		} `json:"words"`
	} `json:"sentence"`
}

func decode(t *testing.T, text string) snapshotJSON {
	t.Helper()
	var s snapshotJSON
	require.NoError(t, json.Unmarshal([]byte(text), &s), text)
	return s
}

func TestListTools(t *testing.T) {
	session := setup(t)
	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{
		"analyze_sentence", "get_analysis", "select_reading", "override_word",
		"reject_inference", "run_passes", "confirm_word", "unselect_word",
		"save_analysis", "list_saved", "load_analysis",
	} {
		assert.Contains(t, names, want)
	}
}

func TestAnalyzeAndControl(t *testing.T) {
	session := setup(t)

	text, isErr := callTool(t, session, "analyze_sentence", map[string]any{"text": "puella ambulat"})
	require.False(t, isErr, text)
	snap := decode(t, text)
	assert.Equal(t, "ready", snap.Status)
	require.Len(t, snap.Sentence.Words, 2)
	assert.Equal(t, "subject", snap.Sentence.Words[0].Inference)

	text, isErr = callTool(t, session, "reject_inference", map[string]any{
		"analysis_id": snap.ID, "word": 0, "inference_id": "subject-1",
	})
	require.False(t, isErr, text)
	after := decode(t, text)
	assert.Empty(t, after.Sentence.Words[0].Inference)
	assert.Equal(t, []string{"subject-1"}, after.Sentence.Words[0].Rejected)

	text, isErr = callTool(t, session, "select_reading", map[string]any{
		"analysis_id": snap.ID, "word": 0, "parse": 0, "reading": "ABL S F",
	})
	require.False(t, isErr, text)
	after = decode(t, text)
	assert.Equal(t, "ABL S F", after.Sentence.Words[0].Reading)
	assert.False(t, after.Sentence.Words[0].Guessed)

	text, isErr = callTool(t, session, "override_word", map[string]any{
		"analysis_id": snap.ID, "word": 1, "pos": "ZZZ",
	})
	assert.True(t, isErr, text)
}

func TestPossessionRejectSurvivesRuns(t *testing.T) {
	session := setup(t)

	text, isErr := callTool(t, session, "analyze_sentence", map[string]any{"text": "romae puella"})
	require.False(t, isErr, text)
	snap := decode(t, text)
	require.True(t, hasPossession(snap), text)

	text, isErr = callTool(t, session, "reject_inference", map[string]any{
		"analysis_id": snap.ID, "word": 0, "inference_id": "possession-1",
	})
	require.False(t, isErr, text)

	for _, mode := range []string{"all", "incremental"} {
		text, isErr = callTool(t, session, "run_passes", map[string]any{"analysis_id": snap.ID, "mode": mode, "index": 0})
		require.False(t, isErr, text)
		var out struct {
			Analysis snapshotJSON `json:"analysis"`
		}
		require.NoError(t, json.Unmarshal([]byte(text), &out))
		assert.False(t, hasPossession(out.Analysis), mode)
	}
}

func hasPossession(s snapshotJSON) bool {
	for _, a := range s.Sentence.Words[0].Annotations {
		if a.Kind == "possession" {
			return true
		}
	}
	return false
}

func TestRunPassesErrors(t *testing.T) {
	session := setup(t)
	text, _ := callTool(t, session, "analyze_sentence", map[string]any{"text": "puella ambulat"})
	id := decode(t, text).ID

	_, isErr := callTool(t, session, "run_passes", map[string]any{"analysis_id": id, "mode": "sideways"})
	assert.True(t, isErr)
	_, isErr = callTool(t, session, "run_passes", map[string]any{"analysis_id": id, "mode": "one", "pass": "nope"})
	assert.True(t, isErr)
	_, isErr = callTool(t, session, "get_analysis", map[string]any{"analysis_id": "missing"})
	assert.True(t, isErr)
}

func TestSaveAndLoad(t *testing.T) {
	session := setup(t)
	text, _ := callTool(t, session, "analyze_sentence", map[string]any{"text": "puella ambulat", "title": "prima"})
	id := decode(t, text).ID

	text, isErr := callTool(t, session, "save_analysis", map[string]any{"analysis_id": id})
	require.False(t, isErr, text)
	var sv store.Saved
	require.NoError(t, json.Unmarshal([]byte(text), &sv))
	assert.Equal(t, "prima", sv.Title)

	text, isErr = callTool(t, session, "list_saved", map[string]any{})
	require.False(t, isErr, text)
	assert.Contains(t, text, sv.ID)

	text, isErr = callTool(t, session, "load_analysis", map[string]any{"saved_id": sv.ID})
	require.False(t, isErr, text)
	loaded := decode(t, text)
	assert.NotEqual(t, id, loaded.ID)
	assert.Equal(t, "subject", loaded.Sentence.Words[0].Inference)
}
