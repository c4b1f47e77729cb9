package heuristics

import (
	"fmt"

	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

// objectLookahead bounds the forward search for a prepositional object.
const objectLookahead = 8

// casePreference orders cases when a preposition could govern several.
var casePreference = []morph.Case{morph.CaseAccusative, morph.CaseAblative, morph.CaseGenitive, morph.CaseDative}

// prepositionCases returns the cases the preposition parses of w can
// govern.
func prepositionCases(w *sentence.Word) []morph.Case {
	var out []morph.Case
	seen := make(map[morph.Case]bool)
	for _, p := range w.Candidates {
		if p.POS != morph.POSPreposition {
			continue
		}
		for _, c := range morph.CasesOf(p) {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

// prepositionOption returns the preposition reading of w in case c.
func prepositionOption(w *sentence.Word, c morph.Case) (sentence.Option, bool) {
	return firstOption(w, func(o sentence.Option) bool {
		return o.Parse.POS == morph.POSPreposition && o.Features.Case == c
	})
}

func containsCase(cs []morph.Case, c morph.Case) bool {
	for _, have := range cs {
		if have == c {
			return true
		}
	}
	return false
}

// PrepositionIdentification resolves preposition candidates whose case is
// certain: a single governable case (when the word is only a preposition or
// the next word can take that case), or the one case the next word is
// guaranteed to be in.
func PrepositionIdentification(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !open(w) || !sentence.IsPotentialPreposition(w) {
			continue
		}
		cases := prepositionCases(w)
		next := v.At(i + 1)
		switch {
		case len(cases) == 1:
			c := cases[0]
			anchor := sentence.NoAnchor
			if !sentence.IsGuaranteedPreposition(w) {
				if !sentence.CanTakeCase(next, c) {
					continue
				}
				anchor = next.Index
			}
			o, _ := prepositionOption(w, c)
			if v.resolve(w, o, sentence.KindPreposition, anchor, fmt.Sprintf("Preposition taking the %s", c.Name())) {
				n++
			}
		case len(cases) > 1:
			c, ok := sentence.GuaranteedCase(next)
			if !ok || !containsCase(cases, c) {
				continue
			}
			o, _ := prepositionOption(w, c)
			if v.resolve(w, o, sentence.KindPreposition, next.Index, fmt.Sprintf("Preposition governing %s %s", c.Name(), quoted(next))) {
				n++
			}
		}
	}
	return n
}

// PrepositionCase resolves the remaining preposition candidates from the
// cases the next word can take, preferring accusative, then ablative,
// genitive and dative. A word that can only be a preposition falls back to
// its first reading.
func PrepositionCase(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !open(w) || !sentence.IsPotentialPreposition(w) {
			continue
		}
		cases := prepositionCases(w)
		next := v.At(i + 1)
		done := false
		for _, c := range casePreference {
			if !containsCase(cases, c) || !sentence.CanTakeCase(next, c) {
				continue
			}
			o, _ := prepositionOption(w, c)
			if v.resolve(w, o, sentence.KindPrepositionCase, next.Index, fmt.Sprintf("Preposition with %s %s", c.Name(), quoted(next))) {
				n++
				done = true
				break
			}
		}
		if done || !sentence.IsGuaranteedPreposition(w) {
			continue
		}
		o := sentence.Options(w)[0]
		if v.resolve(w, o, sentence.KindPrepositionCase, sentence.NoAnchor, "Preposition (default case)") {
			n++
		}
	}
	return n
}

// governedCase returns the case a resolved preposition requires.
func governedCase(w *sentence.Word) (morph.Case, bool) {
	if !resolvedAs(w, func(p morph.CandidateParse) bool { return p.POS == morph.POSPreposition }) {
		return morph.CaseNone, false
	}
	c := w.Features().Case
	return c, c != morph.CaseNone
}

func resolvedGenitive(w *sentence.Word) bool {
	c, ok := cgn(w)
	return ok && c.Case == morph.CaseGenitive
}

// PrepositionalObject walks forward from each resolved preposition, past
// resolved genitives, to the first word that can take the governed case
// and resolves it to that case. The walk stops at the first word that
// cannot.
func PrepositionalObject(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		p := v.At(i)
		c, ok := governedCase(p)
		if !ok {
			continue
		}
		for j := i + 1; j <= i+objectLookahead; j++ {
			w := v.At(j)
			if w == nil {
				break
			}
			if resolvedGenitive(w) {
				continue
			}
			if !open(w) {
				break
			}
			o, ok := firstOption(w, func(o sentence.Option) bool {
				return morph.IsDeclinable(o.Parse) && o.Features.Case == c
			})
			if !ok {
				break
			}
			if v.resolve(w, o, sentence.KindPrepositionObject, i, fmt.Sprintf("Object of %s", quoted(p))) {
				n++
			}
			break
		}
	}
	return n
}

// sharesCaseNumber reports whether every interpretation of w is declinable
// in case c and, when n is set, number n.
func sharesCaseNumber(w *sentence.Word, c morph.Case, n morph.Number) bool {
	opts := sentence.Options(w)
	if len(opts) == 0 {
		return false
	}
	for _, o := range opts {
		if !morph.IsDeclinable(o.Parse) || o.Features.Case != c {
			return false
		}
		if n != morph.NumberNone && o.Features.Number != n {
			return false
		}
	}
	return true
}

// isConjunction reports whether w can only be a conjunction.
func isConjunction(w *sentence.Word) bool {
	return sentence.IsGuaranteed(w, morph.POSConjunction)
}

// extend grows end through following words agreeing in case and number.
func (v View) extend(end int, c morph.Case, n morph.Number) int {
	for sharesCaseNumber(v.At(end+1), c, n) {
		end++
	}
	return end
}

// PrepositionalScope brackets each resolved preposition's phrase: from its
// object through following words in the same case and number, and across
// one coordinating conjunction (or a -que word) sharing the case.
func PrepositionalScope(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		p := v.At(i)
		c, ok := governedCase(p)
		if !ok {
			continue
		}
		obj := -1
		for j := i + 1; j <= i+objectLookahead; j++ {
			w := v.At(j)
			if w == nil {
				break
			}
			if oc, ok := cgn(w); ok && oc.Case == c {
				obj = j
				break
			}
			if !resolvedGenitive(w) {
				break
			}
		}
		if obj < 0 {
			continue
		}
		end := v.extend(obj, c, v.At(obj).Features().Number)
		switch next := v.At(end + 1); {
		case isConjunction(next):
			if after := v.At(end + 2); sharesCaseNumber(after, c, morph.NumberNone) {
				end = v.extend(end+2, c, after.Features().Number)
			}
		case next != nil && next.HasEt && sharesCaseNumber(next, c, morph.NumberNone):
			end = v.extend(end+1, c, next.Features().Number)
		}
		if v.scope(p, obj, end, c) {
			n++
		}
	}
	return n
}

// scope adds the bracket or widens an existing guessed one.
func (v View) scope(p *sentence.Word, obj, end int, c morph.Case) bool {
	for k := range p.Annotations {
		a := &p.Annotations[k]
		if a.Kind != sentence.AnnotationScope || a.Target != obj {
			continue
		}
		if !a.Guessed || a.End >= end || !v.In(end) {
			return false
		}
		a.End = end
		v.s.AddAnnotationDependencies(p.Index, *a)
		return true
	}
	return v.annotate(p, sentence.Annotation{
		Kind:      sentence.AnnotationScope,
		Target:    obj,
		End:       end,
		Inference: sentence.KindPrepositionScope,
		Rationale: fmt.Sprintf("Prepositional phrase in the %s", c.Name()),
	})
}
