package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with every tool registered.
func NewServer(t *AnalysisTools, version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "sententia",
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_sentence",
		Description: "Tokenize a Latin sentence, look up every word and run all heuristic passes; returns the resolved analysis",
	}, t.AnalyzeSentence)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_analysis",
		Description: "Get the current state of an analysis, including every word's resolution, annotations and rejected inferences",
	}, t.GetAnalysis)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "select_reading",
		Description: "Manually resolve a word to one of its candidate parses and readings; stale guesses that relied on it are stripped",
	}, t.SelectReading)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "override_word",
		Description: "Manually resolve a word to a part of speech and reading that need not be among its candidates",
	}, t.OverrideWord)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "reject_inference",
		Description: "Reject a guessed inference on a word so passes never recreate it until rejections are cleared",
	}, t.RejectInference)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "confirm_word",
		Description: "Turn a word's guessed resolution and annotations into manual ones",
	}, t.ConfirmWord)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "unselect_word",
		Description: "Clear a word's resolution",
	}, t.UnselectWord)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "run_passes",
		Description: "Run heuristic passes: all, one named pass, incremental around a word, a word range, reanalyze (discard guesses) or rerun (clear rejections)",
	}, t.RunPasses)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "save_analysis",
		Description: "Save an analysis so it can be loaded later",
	}, t.SaveAnalysis)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_saved",
		Description: "List saved analyses, newest first",
	}, t.ListSaved)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "load_analysis",
		Description: "Open a saved analysis as a new session",
	}, t.LoadAnalysis)

	return srv
}
