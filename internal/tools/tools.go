// Package tools exposes analysis sessions and operator controls as MCP
// tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/sententia/internal/analysis"
	"github.com/dgallion1/sententia/internal/engine"
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
	"github.com/dgallion1/sententia/internal/store"
)

// AnalysisTools holds references needed by the tool handlers. Saved may be
// nil, in which case the save and load tools report an error.
type AnalysisTools struct {
	Analyses *analysis.Orchestrator
	Saved    *store.Store
	Wait     time.Duration // how long analyze_sentence waits for resolution
}

// --- Input types ---

type AnalyzeInput struct {
	Text  string `json:"text" jsonschema:"Latin sentence to analyze"`
	Title string `json:"title,omitempty" jsonschema:"Optional label for the analysis"`
}

type AnalysisInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"Id returned by analyze_sentence"`
}

type SelectInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"Id returned by analyze_sentence"`
	Word       int    `json:"word" jsonschema:"Zero-based word index"`
	Parse      int    `json:"parse" jsonschema:"Zero-based index into the word's candidates"`
	Reading    string `json:"reading" jsonschema:"One of the parse's readings, e.g. NOM S F"`
}

type OverrideInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"Id returned by analyze_sentence"`
	Word       int    `json:"word" jsonschema:"Zero-based word index"`
	POS        string `json:"pos" jsonschema:"Part of speech code: N, V, ADJ, ADV, PRON, PREP, CONJ, ..."`
	Reading    string `json:"reading,omitempty" jsonschema:"Reading to assign, e.g. ACC P M"`
}

type RejectInput struct {
	AnalysisID  string `json:"analysis_id" jsonschema:"Id returned by analyze_sentence"`
	Word        int    `json:"word" jsonschema:"Zero-based word index"`
	InferenceID string `json:"inference_id" jsonschema:"Inference to reject, e.g. possession-1 or subject-3"`
}

type WordInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"Id returned by analyze_sentence"`
	Word       int    `json:"word" jsonschema:"Zero-based word index"`
}

type RunInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"Id returned by analyze_sentence"`
	Mode       string `json:"mode,omitempty" jsonschema:"all (default), one, incremental, range, reanalyze or rerun"`
	Pass       string `json:"pass,omitempty" jsonschema:"Pass name for mode one"`
	Index      int    `json:"index,omitempty" jsonschema:"Changed word for mode incremental"`
	Start      int    `json:"start,omitempty" jsonschema:"First word for mode range"`
	End        int    `json:"end,omitempty" jsonschema:"Last word for mode range"`
}

type SaveInput struct {
	AnalysisID string `json:"analysis_id" jsonschema:"Id returned by analyze_sentence"`
	Title      string `json:"title,omitempty" jsonschema:"Optional title for the saved copy"`
}

type LoadInput struct {
	SavedID string `json:"saved_id" jsonschema:"Id returned by save_analysis"`
}

type ListSavedInput struct{}

// --- Handlers ---

func (t *AnalysisTools) AnalyzeSentence(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	a, err := t.Analyses.Submit(analysis.Request{Title: input.Title, Text: input.Text})
	if err != nil {
		return toolError("Failed to analyze: %v", err), nil, nil
	}
	if err := t.wait(ctx, a); err != nil {
		return toolError("Analysis %s did not finish: %v", a.ID, err), nil, nil
	}
	return toolJSON(a.Snapshot())
}

func (t *AnalysisTools) GetAnalysis(_ context.Context, _ *mcp.CallToolRequest, input AnalysisInput) (*mcp.CallToolResult, any, error) {
	a, err := t.Analyses.Get(input.AnalysisID)
	if err != nil {
		return toolError("%v", err), nil, nil
	}
	return toolJSON(a.Snapshot())
}

func (t *AnalysisTools) SelectReading(_ context.Context, _ *mcp.CallToolRequest, input SelectInput) (*mcp.CallToolResult, any, error) {
	return t.control(input.AnalysisID, func(e *engine.Engine) error {
		return e.Select(input.Word, input.Parse, input.Reading)
	})
}

func (t *AnalysisTools) OverrideWord(_ context.Context, _ *mcp.CallToolRequest, input OverrideInput) (*mcp.CallToolResult, any, error) {
	return t.control(input.AnalysisID, func(e *engine.Engine) error {
		return e.Override(input.Word, morph.PartOfSpeech(input.POS), input.Reading)
	})
}

func (t *AnalysisTools) RejectInference(_ context.Context, _ *mcp.CallToolRequest, input RejectInput) (*mcp.CallToolResult, any, error) {
	return t.control(input.AnalysisID, func(e *engine.Engine) error {
		return e.Reject(input.Word, sentence.InferenceID(input.InferenceID))
	})
}

func (t *AnalysisTools) ConfirmWord(_ context.Context, _ *mcp.CallToolRequest, input WordInput) (*mcp.CallToolResult, any, error) {
	return t.control(input.AnalysisID, func(e *engine.Engine) error { return e.Confirm(input.Word) })
}

func (t *AnalysisTools) UnselectWord(_ context.Context, _ *mcp.CallToolRequest, input WordInput) (*mcp.CallToolResult, any, error) {
	return t.control(input.AnalysisID, func(e *engine.Engine) error { return e.Unselect(input.Word) })
}

func (t *AnalysisTools) RunPasses(ctx context.Context, _ *mcp.CallToolRequest, input RunInput) (*mcp.CallToolResult, any, error) {
	var run func(*engine.Engine) (engine.Report, error)
	switch input.Mode {
	case "", "all":
		run = func(e *engine.Engine) (engine.Report, error) { return e.RunAll(ctx, nil) }
	case "one":
		run = func(e *engine.Engine) (engine.Report, error) { return e.RunPass(input.Pass) }
	case "incremental":
		run = func(e *engine.Engine) (engine.Report, error) { return e.RunIncremental(input.Index) }
	case "range":
		run = func(e *engine.Engine) (engine.Report, error) { return e.RunRange(ctx, input.Start, input.End, nil) }
	case "reanalyze":
		run = func(e *engine.Engine) (engine.Report, error) { return e.Reanalyze(ctx, nil) }
	case "rerun":
		run = func(e *engine.Engine) (engine.Report, error) { return e.Rerun(ctx, nil) }
	default:
		return toolError("Unknown mode %q", input.Mode), nil, nil
	}

	a, err := t.Analyses.Get(input.AnalysisID)
	if err != nil {
		return toolError("%v", err), nil, nil
	}
	var report engine.Report
	err = a.Do(func(e *engine.Engine) error {
		var err error
		report, err = run(e)
		return err
	})
	if err != nil {
		return toolError("Run failed: %v", err), nil, nil
	}
	return toolJSON(map[string]any{"report": report, "analysis": a.Snapshot()})
}

func (t *AnalysisTools) SaveAnalysis(ctx context.Context, _ *mcp.CallToolRequest, input SaveInput) (*mcp.CallToolResult, any, error) {
	if t.Saved == nil {
		return toolError("Saving is not configured"), nil, nil
	}
	a, err := t.Analyses.Get(input.AnalysisID)
	if err != nil {
		return toolError("%v", err), nil, nil
	}
	title := input.Title
	if title == "" {
		title = a.Title
	}
	data, err := a.Encode(time.Now())
	if err != nil {
		return toolError("Failed to encode: %v", err), nil, nil
	}
	sv, err := t.Saved.Save(ctx, title, data)
	if err != nil {
		return toolError("Failed to save: %v", err), nil, nil
	}
	return toolJSON(sv)
}

func (t *AnalysisTools) ListSaved(ctx context.Context, _ *mcp.CallToolRequest, _ ListSavedInput) (*mcp.CallToolResult, any, error) {
	if t.Saved == nil {
		return toolError("Saving is not configured"), nil, nil
	}
	list, err := t.Saved.List(ctx)
	if err != nil {
		return toolError("Failed to list saved analyses: %v", err), nil, nil
	}
	return toolJSON(list)
}

func (t *AnalysisTools) LoadAnalysis(ctx context.Context, _ *mcp.CallToolRequest, input LoadInput) (*mcp.CallToolResult, any, error) {
	if t.Saved == nil {
		return toolError("Saving is not configured"), nil, nil
	}
	sent, sv, err := t.Saved.Load(ctx, input.SavedID)
	if err != nil {
		return toolError("Failed to load: %v", err), nil, nil
	}
	return toolJSON(t.Analyses.Open(sv.Title, sent).Snapshot())
}

// control applies fn to a ready analysis and returns its new state.
func (t *AnalysisTools) control(id string, fn func(*engine.Engine) error) (*mcp.CallToolResult, any, error) {
	a, err := t.Analyses.Get(id)
	if err != nil {
		return toolError("%v", err), nil, nil
	}
	if err := a.Do(fn); err != nil {
		return toolError("%v", err), nil, nil
	}
	return toolJSON(a.Snapshot())
}

// wait polls until a leaves the pipeline.
func (t *AnalysisTools) wait(ctx context.Context, a *analysis.Analysis) error {
	limit := t.Wait
	if limit <= 0 {
		limit = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		switch a.Status() {
		case analysis.StatusReady, analysis.StatusPartial, analysis.StatusFailed:
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
