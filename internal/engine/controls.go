package engine

import (
	"context"
	"fmt"

	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

func (e *Engine) word(i int) (*sentence.Word, error) {
	w := e.s.At(i)
	if w == nil {
		return nil, fmt.Errorf("word %d: %w", i, ErrIndexOutOfRange)
	}
	return w, nil
}

// Select manually resolves the word at index to one of its candidate parses
// and readings. Guessed state that relied on the previous interpretation is
// stripped.
func (e *Engine) Select(index, parseIndex int, reading string) error {
	w, err := e.word(index)
	if err != nil {
		return err
	}
	if parseIndex < 0 || parseIndex >= len(w.Candidates) {
		return fmt.Errorf("word %d parse %d: %w", index, parseIndex, ErrNoSuchParse)
	}
	p := w.Candidates[parseIndex]
	if !p.HasReading(reading) && !(reading == "" && len(p.Readings) == 0) {
		return fmt.Errorf("word %d reading %q: %w", index, reading, ErrNoSuchReading)
	}
	before, beforeReading := w.Selected, w.Reading
	w.Override = nil
	w.Resolve(p, reading, false, sentence.KindManual, sentence.NoAnchor, "Selected manually")
	e.afterManualChange("select", w, before, beforeReading)
	return nil
}

// Override manually resolves the word at index to an interpretation that
// need not appear among its candidates.
func (e *Engine) Override(index int, pos morph.PartOfSpeech, reading string) error {
	w, err := e.word(index)
	if err != nil {
		return err
	}
	pos = morph.ParsePOS(string(pos))
	if pos == morph.POSUnknown {
		return fmt.Errorf("word %d override: unknown part of speech: %w", index, ErrNoSuchParse)
	}
	p := morph.CandidateParse{POS: pos}
	if reading != "" {
		p.Readings = []string{reading}
	}
	before, beforeReading := w.Selected, w.Reading
	w.Override = &sentence.Override{POS: pos, Reading: reading}
	w.Resolve(p, reading, false, sentence.KindManual, sentence.NoAnchor, "Manual override")
	e.afterManualChange("override", w, before, beforeReading)
	return nil
}

// Unselect clears the resolution of the word at index. Later runs may guess
// it again.
func (e *Engine) Unselect(index int) error {
	w, err := e.word(index)
	if err != nil {
		return err
	}
	before, beforeReading := w.Selected, w.Reading
	w.ClearResolution()
	w.Override = nil
	e.afterManualChange("unselect", w, before, beforeReading)
	return nil
}

func (e *Engine) afterManualChange(action string, w *sentence.Word, before *morph.CandidateParse, beforeReading string) {
	changed := changedCategories(w, before, beforeReading)
	stripped := e.invalidate(w.Index, changed)
	e.s.RebuildDependencies()
	e.log.Info("manual change", "action", action, "word", w.Index, "changed", int(changed), "stripped", stripped)
}

// Reject records id in the ledger of the word at index and removes the
// guessed resolution, annotation or flag it names. Passes will not recreate
// it until the ledger is cleared.
func (e *Engine) Reject(index int, id sentence.InferenceID) error {
	w, err := e.word(index)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("reject word %d: %w", index, ErrEmptyInference)
	}
	w.Reject(id)

	var stripped []int
	if w.Resolved() && w.Guessed && w.ResolutionID() == id {
		w.ClearResolution()
		w.RemoveAnnotations(func(a sentence.Annotation) bool { return a.Guessed })
		stripped = e.invalidate(w.Index, sentence.CatAll)
	}
	w.RemoveAnnotations(func(a sentence.Annotation) bool { return a.Guessed && a.ID() == id })
	if id == sentence.ID(sentence.KindEnclitic, sentence.NoAnchor) && w.EtGuessed {
		w.HasEt = false
		w.EtGuessed = false
	}
	e.s.RebuildDependencies()
	e.log.Info("inference rejected", "word", index, "id", string(id), "stripped", stripped)
	return nil
}

// Confirm turns the guessed resolution, annotations and flags of the word
// at index into manual ones.
func (e *Engine) Confirm(index int) error {
	w, err := e.word(index)
	if err != nil {
		return err
	}
	if w.Resolved() {
		w.Guessed = false
	}
	for i := range w.Annotations {
		w.Annotations[i].Guessed = false
	}
	w.EtGuessed = false
	e.log.Info("word confirmed", "word", index)
	return nil
}

// Reanalyze discards every guessed resolution, annotation and flag and
// every rejection, keeps manual state, and runs all passes again.
func (e *Engine) Reanalyze(ctx context.Context, cp Checkpoint) (Report, error) {
	for _, w := range e.s.Words {
		if w.Resolved() && w.Guessed {
			w.ClearResolution()
		}
		w.RemoveAnnotations(func(a sentence.Annotation) bool { return a.Guessed })
		if w.EtGuessed {
			w.HasEt = false
			w.EtGuessed = false
		}
		w.ClearRejections()
	}
	e.s.RebuildDependencies()
	e.log.Info("reanalyze")
	return e.RunAll(ctx, cp)
}

// Rerun clears every rejection ledger and runs all passes, keeping all
// existing state.
func (e *Engine) Rerun(ctx context.Context, cp Checkpoint) (Report, error) {
	for _, w := range e.s.Words {
		w.ClearRejections()
	}
	e.log.Info("rerun")
	return e.RunAll(ctx, cp)
}
