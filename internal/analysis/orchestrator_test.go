package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/sententia/internal/config"
	"github.com/dgallion1/sententia/internal/engine"
	"github.com/dgallion1/sententia/internal/lookup"
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

var dictionary = map[string][]morph.CandidateParse{
	"puella":  {{POS: morph.POSNoun, Lemma: "puella", Readings: []string{"NOM S F", "ABL S F"}}},
	"ambulat": {{POS: morph.POSVerb, Lemma: "ambulo", Readings: []string{"PRES ACTIVE IND 3 S"}}},
	"romae":   {{POS: morph.POSNoun, Lemma: "Roma", Readings: []string{"GEN S F", "LOC S F"}}},
}

func dictLookup(_ context.Context, word string) ([]morph.CandidateParse, error) {
	if word == "boom" {
		return nil, errors.New("service down")
	}
	return dictionary[word], nil
}

func testOrchestrator(t *testing.T, lk lookup.Lookup, mutate func(*config.Config)) *Orchestrator {
	t.Helper()
	cfg := config.Defaults()
	cfg.CleanupSchedule = "@every 1h"
	if mutate != nil {
		mutate(&cfg)
	}
	o := NewOrchestrator(cfg, lk, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return o
}

func started(t *testing.T, o *Orchestrator) {
	t.Helper()
	require.NoError(t, o.Start(context.Background()))
	t.Cleanup(o.Stop)
}

func waitDone(t *testing.T, a *Analysis) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		switch a.Status() {
		case StatusReady, StatusPartial, StatusFailed:
			return true
		}
		return false
	}, 5*time.Second, 10*time.Millisecond)
	return a.Snapshot()
}

func TestSubmitResolvesSentence(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), nil)
	started(t, o)

	a, err := o.Submit(Request{Title: "t", Text: "Puella ambulat."})
	require.NoError(t, err)
	snap := waitDone(t, a)

	assert.Equal(t, StatusReady, snap.Status)
	assert.Equal(t, 3, snap.Progress.Tokens)
	assert.Equal(t, 2, snap.Progress.TokensLookedUp)
	assert.Equal(t, snap.Progress.PassesTotal, snap.Progress.PassesRun)
	assert.Empty(t, snap.Progress.Errors)

	require.NoError(t, a.Do(func(e *engine.Engine) error {
		s := e.Sentence()
		assert.Equal(t, sentence.KindSubject, s.At(0).Kind)
		assert.True(t, s.At(2).Unknown(), "punctuation has no candidates")
		return nil
	}))
}

func TestSubmitLookupFailureIsPartial(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), nil)
	started(t, o)

	a, err := o.Submit(Request{Text: "puella boom ambulat"})
	require.NoError(t, err)
	snap := waitDone(t, a)

	assert.Equal(t, StatusPartial, snap.Status)
	assert.Equal(t, 1, snap.Progress.UnknownWords)
	require.Len(t, snap.Progress.Errors, 1)
	assert.Contains(t, snap.Progress.Errors[0], "boom")
	assert.NoError(t, a.Do(func(e *engine.Engine) error {
		assert.True(t, e.Sentence().At(1).Unknown())
		return nil
	}))
}

func TestSubmitRejectsEmptyText(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), nil)
	_, err := o.Submit(Request{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestSubmitQueueFull(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), func(c *config.Config) { c.MaxQueueSize = 1 })

	_, err := o.Submit(Request{Text: "puella"})
	require.NoError(t, err)
	a, err := o.Submit(Request{Text: "ambulat"})
	require.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, StatusFailed, a.Status())
	assert.Equal(t, 1, o.QueueDepth())
}

func TestImportQueuesEachSentence(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), func(c *config.Config) { c.MaxSentencesPerUpload = 2 })
	started(t, o)

	doc := "# Liber I\n\nPuella ambulat. Romae puella ambulat. Puella."
	as, err := o.Import(strings.NewReader(doc), "fabula.md", "")
	require.NoError(t, err)
	require.Len(t, as, 2)

	first := waitDone(t, as[0])
	assert.Equal(t, "Puella ambulat.", first.Text)
	assert.Equal(t, []string{"Liber I"}, first.Breadcrumb)
	assert.Equal(t, "fabula #1", first.Title)
	second := waitDone(t, as[1])
	assert.Equal(t, StatusReady, second.Status)
}

func TestImportErrors(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), nil)

	_, err := o.Import(strings.NewReader("x"), "notes.xyz", "")
	assert.Error(t, err)

	_, err = o.Import(strings.NewReader("   \n\n  "), "empty.txt", "")
	assert.ErrorIs(t, err, ErrNoSentence)
}

func TestOpenIsReadyWithoutRunning(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), nil)
	s := sentence.New("puella", []*sentence.Word{
		sentence.NewWord(0, "puella", "puella", dictionary["puella"]),
	})

	a := o.Open("saved", s)
	got, err := o.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	snap := a.Snapshot()
	assert.Equal(t, StatusReady, snap.Status)
	assert.Equal(t, 1, snap.Progress.Unresolved)
	assert.Zero(t, snap.Report.Passes)
}

func TestGetAndCloseMissing(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), nil)
	_, err := o.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, o.Close("nope"), ErrNotFound)

	a := o.Open("x", sentence.New("", nil))
	require.NoError(t, o.Close(a.ID))
	assert.Empty(t, o.List())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	o := testOrchestrator(t, lookup.Func(dictLookup), func(c *config.Config) { c.CleanupSchedule = "whenever" })
	assert.Error(t, o.Start(context.Background()))
}
