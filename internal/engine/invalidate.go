package engine

import (
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

// changedCategories compares a word's interpretation before a manual change
// with its current one. An unresolved word is compared through what every
// one of its candidates agreed on, since that is all a pass could have used.
func changedCategories(w *sentence.Word, before *morph.CandidateParse, beforeReading string) sentence.Category {
	after := w.Selected
	switch {
	case before == nil && after == nil:
		return 0
	case after == nil:
		return sentence.CatAll
	case before == nil:
		return changedFromCandidates(w.Candidates, *after, w.Reading)
	}
	if before.POS != after.POS {
		return sentence.CatAll
	}
	c := featureChange(morph.ParseReading(beforeReading), morph.ParseReading(w.Reading))
	if morph.Headword(before.Lemma) != morph.Headword(after.Lemma) {
		c |= sentence.CatPOS
	}
	return c
}

func featureChange(a, b morph.Features) sentence.Category {
	var c sentence.Category
	if a.Case != b.Case {
		c |= sentence.CatCase
	}
	if a.Gender != b.Gender {
		c |= sentence.CatGender
	}
	if a.Number != b.Number {
		c |= sentence.CatNumber
	}
	if a.Person != b.Person || a.Mood != b.Mood || a.Voice != b.Voice || a.Tense != b.Tense || a.Degree != b.Degree {
		c |= sentence.CatPerson
	}
	return c
}

// changedFromCandidates reports the categories in which the new selection
// differs from something at least one candidate allowed.
func changedFromCandidates(cands []morph.CandidateParse, after morph.CandidateParse, reading string) sentence.Category {
	if len(cands) == 0 {
		return sentence.CatAll
	}
	var c sentence.Category
	now := morph.ParseReading(reading)
	for _, p := range cands {
		if p.POS != after.POS {
			return sentence.CatAll
		}
		if morph.Headword(p.Lemma) != morph.Headword(after.Lemma) {
			c |= sentence.CatPOS
		}
		if len(p.Readings) == 0 {
			c |= featureChange(morph.Features{}, now)
		}
		for _, r := range p.Readings {
			c |= featureChange(morph.ParseReading(r), now)
		}
	}
	return c
}

type staleWord struct {
	index   int
	changed sentence.Category
}

// invalidate strips guessed state that relied on the changed categories of
// the word at idx, then cascades through the dependents of every word it
// touched. Manual state and rejection ledgers are left alone. It returns the
// indices whose state was stripped.
func (e *Engine) invalidate(idx int, changed sentence.Category) []int {
	if changed == 0 {
		return nil
	}
	w := e.s.At(idx)
	w.RemoveAnnotations(func(a sentence.Annotation) bool {
		return a.Guessed && a.Inference.Categories()&changed != 0
	})

	var stripped []int
	visited := map[int]bool{idx: true}
	queue := []staleWord{{idx, changed}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range e.s.At(cur.index).Dependents() {
			dw := e.s.At(d)
			if dw == nil {
				continue
			}
			hit := false
			if dw.Resolved() && dw.Guessed && dw.Anchor == cur.index && dw.Kind.Categories()&cur.changed != 0 {
				dw.ClearResolution()
				dw.RemoveAnnotations(func(a sentence.Annotation) bool { return a.Guessed })
				hit = true
			}
			removed := dw.RemoveAnnotations(func(a sentence.Annotation) bool {
				return a.Guessed && a.Covers(cur.index) && a.Inference.Categories()&cur.changed != 0
			})
			if len(removed) > 0 {
				hit = true
			}
			if hit && !visited[d] {
				visited[d] = true
				stripped = append(stripped, d)
				queue = append(queue, staleWord{d, sentence.CatAll})
			}
		}
	}
	e.s.RebuildDependencies()
	return stripped
}
