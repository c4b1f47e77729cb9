package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/sententia/internal/engine"
	"github.com/dgallion1/sententia/internal/lookup"
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
	"github.com/dgallion1/sententia/internal/tokenize"
)

// Worker processes a single analysis.
type Worker struct {
	lookup lookup.Lookup
	log    *slog.Logger
	radius int

	maxConcurrentLookup int
}

func NewWorker(lk lookup.Lookup, log *slog.Logger, maxLookup, radius int) *Worker {
	if maxLookup < 1 {
		maxLookup = 1
	}
	return &Worker{
		lookup:              lk,
		log:                 log,
		radius:              radius,
		maxConcurrentLookup: maxLookup,
	}
}

// Process tokenizes the text, looks up every distinct word form, builds the
// sentence and runs all passes over it.
func (w *Worker) Process(ctx context.Context, a *Analysis) {
	log := w.log.With("analysis_id", a.ID)

	// Phase 1: Tokenize
	a.SetStatus(StatusTokenizing, "tokenizing")
	tokens := tokenize.Words(a.Text)
	a.setTokens(len(tokens))
	if len(tokens) == 0 {
		a.AddError("no words")
		a.SetStatus(StatusFailed, "tokenizing")
		return
	}

	// Phase 2: Look up each distinct form with bounded concurrency.
	a.SetStatus(StatusLookingUp, "looking_up")
	var forms []string
	seen := make(map[string]bool)
	for _, t := range tokens {
		if t.Punct || seen[t.Clean] {
			continue
		}
		seen[t.Clean] = true
		forms = append(forms, t.Clean)
	}

	type lookupResult struct {
		form   string
		parses []morph.CandidateParse
		err    error
	}
	results := make(chan lookupResult, len(forms))
	sem := make(chan struct{}, w.maxConcurrentLookup)
	for _, form := range forms {
		sem <- struct{}{}
		go func(form string) {
			defer func() { <-sem }()
			ps, err := w.lookup.Lookup(ctx, form)
			results <- lookupResult{form: form, parses: ps, err: err}
		}(form)
	}

	candidates := make(map[string][]morph.CandidateParse, len(forms))
	hadErrors := false
	for range forms {
		r := <-results
		a.lookedUp(r.err != nil || len(r.parses) == 0)
		if r.err != nil {
			log.Error("lookup failed", "word", r.form, "error", r.err)
			a.AddError(fmt.Sprintf("lookup %s: %s", r.form, r.err))
			hadErrors = true
			continue
		}
		candidates[r.form] = r.parses
	}
	if err := ctx.Err(); err != nil {
		a.AddError(err.Error())
		a.SetStatus(StatusFailed, "looking_up")
		return
	}

	words := make([]*sentence.Word, len(tokens))
	for i, t := range tokens {
		var cands []morph.CandidateParse
		if !t.Punct {
			cands = candidates[t.Clean]
		}
		words[i] = sentence.NewWord(i, t.Original, t.Clean, cands)
	}
	s := sentence.New(a.Text, words)

	// Phase 3: Resolve
	a.SetStatus(StatusResolving, "resolving")
	e := engine.New(s, engine.WithLogger(log), engine.WithRadius(w.radius))
	report, err := e.RunAll(ctx, func(_ string, done, total int) {
		a.passDone(done, total)
	})
	if err != nil {
		log.Warn("resolution interrupted", "error", err, "passes", report.Passes)
		a.AddError(err.Error())
		a.SetStatus(StatusFailed, "resolving")
		return
	}
	log.Info("analysis resolved", "words", s.Len(), "changes", report.Changes, "unresolved", report.Unresolved)

	if hadErrors {
		a.attach(e, report, StatusPartial)
	} else {
		a.attach(e, report, StatusReady)
	}
}
