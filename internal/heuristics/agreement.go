package heuristics

import (
	"fmt"

	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

const (
	possessionWindow = 5
	agreementWindow  = 3
	appositionWindow = 3
)

// blocksGenitive reports whether possession search must stop at w.
func blocksGenitive(w *sentence.Word) bool {
	return sentence.IsPunctuation(w) ||
		sentence.IsSentenceFinal(w) ||
		sentence.IsPotentialPreposition(w) ||
		sentence.IsPotentialConjunction(w) ||
		sentence.IsRelativeForm(w)
}

// genitiveNoun reports whether w is a noun that can only be genitive.
func genitiveNoun(w *sentence.Word) bool {
	if !sentence.IsGuaranteed(w, morph.POSNoun) {
		return false
	}
	c, ok := sentence.GuaranteedCase(w)
	return ok && c == morph.CaseGenitive
}

// GenitivePossession links a genitive noun to the nearest guaranteed noun,
// searching backward first and then forward, never crossing punctuation,
// prepositions, conjunctions or relative pronouns. An unresolved genitive is
// resolved as part of the same inference.
func GenitivePossession(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !genitiveNoun(w) || hasPossession(w) {
			continue
		}
		owner := v.possessor(w, -1)
		if owner < 0 {
			owner = v.possessor(w, +1)
		}
		if owner < 0 {
			continue
		}
		o := v.At(owner)
		rationale := fmt.Sprintf("Possessed by %s", quoted(o))
		if open(w) {
			opt, _ := firstOption(w, func(o sentence.Option) bool { return o.Features.Case == morph.CaseGenitive })
			if !v.resolve(w, opt, sentence.KindPossession, owner, rationale) {
				continue
			}
		}
		if v.annotate(w, sentence.Annotation{
			Kind:      sentence.AnnotationPossession,
			Target:    owner,
			Inference: sentence.KindPossession,
			Rationale: rationale,
		}) {
			n++
		}
	}
	return n
}

func hasPossession(w *sentence.Word) bool {
	for _, a := range w.Annotations {
		if a.Kind == sentence.AnnotationPossession {
			return true
		}
	}
	return false
}

// possessor searches in direction dir for an owner of the genitive w.
func (v View) possessor(w *sentence.Word, dir int) int {
	for d := 1; d <= possessionWindow; d++ {
		j := w.Index + dir*d
		t := v.At(j)
		if t == nil || blocksGenitive(t) {
			return -1
		}
		if sentence.IsGuaranteed(t, morph.POSNoun) && !w.IsRejected(sentence.ID(sentence.KindPossession, j)) {
			return j
		}
	}
	return -1
}

// nounHead returns the case/gender/number of a resolved noun-like word.
func nounHead(w *sentence.Word) (morph.CGN, bool) {
	if !resolvedAs(w, morph.IsNounLike) {
		return morph.CGN{}, false
	}
	return cgn(w)
}

// AdjectiveResolution resolves a word that can only be adjectival to the
// reading agreeing with a resolved noun next to it.
func AdjectiveResolution(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !open(w) || !sentence.Every(w, morph.IsAdjectival) {
			continue
		}
		for _, j := range []int{i - 1, i + 1} {
			head, ok := nounHead(v.At(j))
			if !ok {
				continue
			}
			o, ok := firstOption(w, func(o sentence.Option) bool {
				c, ok := morph.ExtractCGN(o.Reading)
				return ok && c.Agrees(head)
			})
			if ok && v.resolve(w, o, sentence.KindAdjectiveResolution, j, fmt.Sprintf("Agrees with %s", quoted(v.At(j)))) {
				n++
				break
			}
		}
	}
	return n
}

// agreementStop ends an agreement search in one direction.
func agreementStop(w *sentence.Word) bool {
	return sentence.IsPunctuation(w) || sentence.IsFiniteVerb(w) || isConjunction(w) || sentence.IsGuaranteedPreposition(w)
}

// AdjectiveAgreement links each resolved adjective or participle to the
// nearest resolved noun agreeing in case, number and gender.
func AdjectiveAgreement(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !resolvedAs(w, morph.IsAdjectival) || hasModify(w) {
			continue
		}
		mine, ok := cgn(w)
		if !ok {
			continue
		}
		j := v.nearest(i, agreementWindow, agreementStop, func(t *sentence.Word) bool {
			head, ok := nounHead(t)
			return ok && head.Agrees(mine) && !w.IsRejected(sentence.ID(sentence.KindAdjectiveAgreement, t.Index))
		})
		if j < 0 {
			continue
		}
		if v.annotate(w, modify(j, sentence.KindAdjectiveAgreement, fmt.Sprintf("Modifies %s", quoted(v.At(j))))) {
			n++
		}
	}
	return n
}

// AdjacentAgreement links neighboring resolved declinable words that agree,
// whatever their class. The adjectival word modifies the other; otherwise
// the later word modifies the earlier.
func AdjacentAgreement(v View) int {
	n := 0
	for i := v.Lo; i < v.Hi; i++ {
		a, b := v.At(i), v.At(i+1)
		ca, ok := cgn(a)
		if !ok {
			continue
		}
		cb, ok := cgn(b)
		if !ok || !ca.Agrees(cb) || linked(a, b) {
			continue
		}
		owner, target := b, a
		if morph.IsAdjectival(*a.Selected) && !morph.IsAdjectival(*b.Selected) {
			owner, target = a, b
		}
		if hasModify(owner) {
			continue
		}
		if v.annotate(owner, modify(target.Index, sentence.KindAdjacentAgreement, fmt.Sprintf("Agrees with adjacent %s", quoted(target)))) {
			n++
		}
	}
	return n
}

// Apposition links a noun to an earlier noun in the same case, number and
// gender a few words back, skipping adjectival words in between.
func Apposition(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		head := v.At(i)
		if !resolvedAs(head, func(p morph.CandidateParse) bool { return p.POS == morph.POSNoun }) {
			continue
		}
		hc, ok := cgn(head)
		if !ok {
			continue
		}
		for j := i + 1; j <= i+appositionWindow; j++ {
			w := v.At(j)
			if w == nil {
				break
			}
			if sentence.Every(w, morph.IsAdjectival) {
				continue
			}
			if !resolvedAs(w, func(p morph.CandidateParse) bool { return p.POS == morph.POSNoun }) {
				break
			}
			wc, _ := cgn(w)
			if wc.Agrees(hc) && !hasModify(w) && v.annotate(w, modify(i, sentence.KindApposition, fmt.Sprintf("In apposition to %s", quoted(head)))) {
				n++
			}
			break
		}
	}
	return n
}
