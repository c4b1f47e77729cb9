// Package heuristics implements the inference passes that resolve words and
// link them with annotations. Each pass scans a View of the sentence in
// increasing index order and commits guessed state through the helpers in
// this file, which enforce manual supremacy, the rejection ledger and
// idempotence, and register dependency edges.
package heuristics

import (
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

// View restricts a pass to the words in [Lo, Hi]. Words outside the range
// are neither read nor written.
type View struct {
	s  *sentence.Sentence
	Lo int
	Hi int
}

// Whole returns a view over every word of s.
func Whole(s *sentence.Sentence) View {
	return View{s: s, Lo: 0, Hi: s.Len() - 1}
}

// Range returns a view over [lo, hi] clamped to the sentence.
func Range(s *sentence.Sentence, lo, hi int) View {
	if lo < 0 {
		lo = 0
	}
	if hi > s.Len()-1 {
		hi = s.Len() - 1
	}
	return View{s: s, Lo: lo, Hi: hi}
}

// In reports whether i is inside the view.
func (v View) In(i int) bool {
	return i >= v.Lo && i <= v.Hi && v.s.Valid(i)
}

// At returns the word at i, or nil outside the view.
func (v View) At(i int) *sentence.Word {
	if !v.In(i) {
		return nil
	}
	return v.s.Words[i]
}

// open reports whether w may receive a guessed resolution.
func open(w *sentence.Word) bool {
	return w != nil && !w.Resolved() && len(w.Candidates) > 0
}

// resolve commits o as a guessed resolution of w. anchor is the word the
// inference was drawn from, or sentence.NoAnchor.
func (v View) resolve(w *sentence.Word, o sentence.Option, kind sentence.InferenceKind, anchor int, rationale string) bool {
	if !open(w) || w.IsRejected(sentence.ID(kind, anchor)) {
		return false
	}
	if anchor != sentence.NoAnchor && !v.In(anchor) {
		return false
	}
	w.Resolve(o.Parse, o.Reading, true, kind, anchor, rationale)
	if anchor != sentence.NoAnchor {
		v.s.AddDependency(anchor, w.Index)
	}
	return true
}

// annotate adds a guessed edge owned by w unless an edge of the same kind
// to the same target exists or the operator rejected it.
func (v View) annotate(w *sentence.Word, a sentence.Annotation) bool {
	if w == nil || a.Target == w.Index || !v.In(a.Target) {
		return false
	}
	if w.HasAnnotation(a.Kind, a.Target) || w.IsRejected(a.ID()) {
		return false
	}
	a.Guessed = true
	w.Annotations = append(w.Annotations, a)
	v.s.AddAnnotationDependencies(w.Index, a)
	return true
}

// modify builds a modify edge.
func modify(target int, kind sentence.InferenceKind, rationale string) sentence.Annotation {
	return sentence.Annotation{Kind: sentence.AnnotationModify, Target: target, Inference: kind, Rationale: rationale}
}

// firstOption returns the first open interpretation of w satisfying pred.
func firstOption(w *sentence.Word, pred func(sentence.Option) bool) (sentence.Option, bool) {
	for _, o := range sentence.Options(w) {
		if pred(o) {
			return o, true
		}
	}
	return sentence.Option{}, false
}

// hasOption reports whether some interpretation of w satisfies pred.
func hasOption(w *sentence.Word, pred func(sentence.Option) bool) bool {
	_, ok := firstOption(w, pred)
	return ok
}

// cgn returns the case/gender/number of a resolved declinable word.
func cgn(w *sentence.Word) (morph.CGN, bool) {
	if w == nil || !w.Resolved() || !morph.IsDeclinable(*w.Selected) {
		return morph.CGN{}, false
	}
	return morph.ExtractCGN(w.Reading)
}

// resolvedAs reports whether w is resolved to a parse satisfying pred.
func resolvedAs(w *sentence.Word, pred func(morph.CandidateParse) bool) bool {
	return w != nil && w.Resolved() && pred(*w.Selected)
}

func hasModify(w *sentence.Word) bool {
	for _, a := range w.Annotations {
		if a.Kind == sentence.AnnotationModify {
			return true
		}
	}
	return false
}

// inferred reports whether some word in the view already carries an
// inference of kind drawn from, or pointing at, the word at i.
func (v View) inferred(i int, kind sentence.InferenceKind) bool {
	for j := v.Lo; j <= v.Hi; j++ {
		w := v.At(j)
		if w.Resolved() && w.Kind == kind && w.Anchor == i {
			return true
		}
		for _, a := range w.Annotations {
			if a.Inference == kind && a.Target == i {
				return true
			}
		}
	}
	return false
}

// linked reports whether a modify edge joins a and b in either direction.
func linked(a, b *sentence.Word) bool {
	return a.HasAnnotation(sentence.AnnotationModify, b.Index) || b.HasAnnotation(sentence.AnnotationModify, a.Index)
}

// nearest returns the index closest to i within window satisfying match,
// looking left before right at equal distance. A direction is abandoned at
// the first word for which stop is true or at the edge of the view.
func (v View) nearest(i, window int, stop, match func(*sentence.Word) bool) int {
	left, right := true, true
	for d := 1; d <= window && (left || right); d++ {
		if left {
			w := v.At(i - d)
			switch {
			case w == nil || stop(w):
				left = false
			case match(w):
				return i - d
			}
		}
		if right {
			w := v.At(i + d)
			switch {
			case w == nil || stop(w):
				right = false
			case match(w):
				return i + d
			}
		}
	}
	return -1
}

// boundary reports whether w ends a clause: sentence-final punctuation or a
// finite verb.
func boundary(w *sentence.Word) bool {
	return sentence.IsSentenceFinal(w) || sentence.IsFiniteVerb(w)
}

// clause returns the span around the finite verb at i, from just after the
// previous boundary to just before the next one.
func (v View) clause(i int) (int, int) {
	lo := i
	for j := i - 1; j >= v.Lo; j-- {
		if boundary(v.At(j)) {
			break
		}
		lo = j
	}
	hi := i
	for j := i + 1; j <= v.Hi; j++ {
		if boundary(v.At(j)) {
			break
		}
		hi = j
	}
	return lo, hi
}

// thirdPersonNumbers returns the numbers of w's third-person finite verb
// interpretations.
func thirdPersonNumbers(w *sentence.Word) map[morph.Number]bool {
	if !sentence.IsFiniteVerb(w) {
		return nil
	}
	out := make(map[morph.Number]bool)
	for _, o := range sentence.Options(w) {
		if !morph.IsVerbLike(o.Parse) || !morph.IsFinite(o.Reading) {
			continue
		}
		if pn, ok := morph.ExtractVerbPersonNumber(o.Reading); ok && pn.Person == 3 {
			out[pn.Number] = true
		}
	}
	return out
}

// lemmaIn reports whether w is (or can only be) a verb whose headword is in
// set.
func lemmaIn(w *sentence.Word, set map[string]bool) bool {
	return sentence.Any(w, func(p morph.CandidateParse) bool {
		return morph.IsVerbLike(p) && set[morph.Headword(p.Lemma)]
	}) && sentence.Every(w, morph.IsVerbLike)
}

// hasMood reports whether w has a verb interpretation in mood m.
func hasMood(w *sentence.Word, m morph.Mood) bool {
	return hasOption(w, func(o sentence.Option) bool {
		return morph.IsVerbLike(o.Parse) && o.Features.Mood == m
	})
}

func quoted(w *sentence.Word) string {
	return "\"" + w.Original + "\""
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
