package heuristics

import (
	"fmt"

	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

// nominativeIn returns a predicate matching nominative interpretations in
// one of nums, restricted to parses satisfying class.
func nominativeIn(nums map[morph.Number]bool, class func(morph.CandidateParse) bool) func(sentence.Option) bool {
	return func(o sentence.Option) bool {
		return class(o.Parse) && o.Features.Case == morph.CaseNominative && nums[o.Features.Number]
	}
}

// hasSubject reports whether the clause [lo, hi] already holds a resolved
// nominative that agrees with the verb at vi.
func (v View) hasSubject(lo, hi, vi int, nums map[morph.Number]bool) bool {
	for j := lo; j <= hi; j++ {
		if j == vi {
			continue
		}
		c, ok := cgn(v.At(j))
		if ok && c.Case == morph.CaseNominative && nums[c.Number] {
			return true
		}
	}
	return false
}

// subjectOf resolves a nominative subject for the third-person verb at vi
// inside its clause. With substantive set, an adjective or participle may
// stand in when no noun qualifies.
func (v View) subjectOf(vi int, nums map[morph.Number]bool, kind sentence.InferenceKind, substantive bool) int {
	verb := v.At(vi)
	lo, hi := v.clause(vi)
	if v.hasSubject(lo, hi, vi, nums) {
		return 0
	}
	nounNom := nominativeIn(nums, morph.IsNounLike)
	for j := lo; j <= hi; j++ {
		w := v.At(j)
		if j == vi || !open(w) || !sentence.Every(w, morph.IsNounLike) {
			continue
		}
		if o, ok := firstOption(w, nounNom); ok && v.resolve(w, o, kind, vi, fmt.Sprintf("Subject of %s", quoted(verb))) {
			return 1
		}
	}
	if !substantive {
		return 0
	}
	adjNom := nominativeIn(nums, morph.IsAdjectival)
	for j := lo; j <= hi; j++ {
		w := v.At(j)
		if j == vi || !open(w) {
			continue
		}
		if o, ok := firstOption(w, adjNom); ok && v.resolve(w, o, sentence.KindSubstantiveSubject, vi, fmt.Sprintf("Substantive subject of %s", quoted(verb))) {
			return 1
		}
	}
	return 0
}

// Subject finds the first third-person finite verb and resolves the first
// guaranteed noun in its clause with a nominative reading matching the
// verb's number, falling back to a substantive adjective.
func Subject(v View) int {
	for i := v.Lo; i <= v.Hi; i++ {
		if nums := thirdPersonNumbers(v.At(i)); len(nums) > 0 {
			return v.subjectOf(i, nums, sentence.KindSubject, true)
		}
	}
	return 0
}

// DependentSubject does the same for every later third-person finite verb,
// each bounded by its own clause.
func DependentSubject(v View) int {
	n := 0
	first := true
	for i := v.Lo; i <= v.Hi; i++ {
		nums := thirdPersonNumbers(v.At(i))
		if len(nums) == 0 {
			continue
		}
		if first {
			first = false
			continue
		}
		n += v.subjectOf(i, nums, sentence.KindDependentSubject, false)
	}
	return n
}

// isCopula reports whether w is a form of "sum" acting as a verb.
func isCopula(w *sentence.Word) bool {
	if w == nil {
		return false
	}
	if w.Resolved() {
		return isCopulaParse(*w.Selected) && (copulaForms[w.Clean] || w.Selected.Lemma != "")
	}
	return copulaForms[w.Clean] && sentence.Any(w, isCopulaParse)
}

// PredicateNominative resolves the second nominative in a clause whose verb
// is "sum" and whose subject is already known, linking it to the subject
// when they agree.
func PredicateNominative(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		verb := v.At(i)
		if !isCopula(verb) || v.inferred(i, sentence.KindPredicateNominative) {
			continue
		}
		nums := thirdPersonNumbers(verb)
		if len(nums) == 0 {
			continue
		}
		lo, hi := v.clause(i)
		subj := -1
		for j := lo; j <= hi; j++ {
			if c, ok := cgn(v.At(j)); ok && c.Case == morph.CaseNominative && nums[c.Number] {
				subj = j
				break
			}
		}
		if subj < 0 {
			continue
		}
		subject := v.At(subj)
		rationale := fmt.Sprintf("Predicate nominative with %s", quoted(verb))
		for j := lo; j <= hi; j++ {
			w := v.At(j)
			if j == i || j == subj || !open(w) {
				continue
			}
			o, ok := firstOption(w, nominativeIn(nums, morph.IsDeclinable))
			if !ok || !v.resolve(w, o, sentence.KindPredicateNominative, i, rationale) {
				continue
			}
			n++
			sc, _ := cgn(subject)
			if wc, ok := cgn(w); ok && wc.Agrees(sc) {
				v.annotate(w, modify(subj, sentence.KindPredicateNominative, fmt.Sprintf("Describes %s", quoted(subject))))
			}
			break
		}
	}
	return n
}
