package heuristics

import (
	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

var copulaForms = set(
	"sum", "es", "est", "sumus", "estis", "sunt",
	"eram", "eras", "erat", "eramus", "eratis", "erant",
	"ero", "eris", "erit", "erimus", "eritis", "erunt",
	"fui", "fuisti", "fuit", "fuimus", "fuistis", "fuerunt",
	"sim", "sis", "sit", "simus", "sitis", "sint",
	"essem", "esses", "esset", "essemus", "essetis", "essent",
	"esse", "fuisse",
)

// isCopulaParse reports whether p belongs to "sum".
func isCopulaParse(p morph.CandidateParse) bool {
	return morph.IsVerbLike(p) && (p.Lemma == "" || morph.Headword(p.Lemma) == "sum")
}

// Copula selects the "sum" parse of closed-list forms of "to be",
// preferring a finite reading.
func Copula(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !open(w) || !copulaForms[w.Clean] {
			continue
		}
		o, ok := firstOption(w, func(o sentence.Option) bool {
			return isCopulaParse(o.Parse) && morph.IsFinite(o.Reading)
		})
		if !ok {
			o, ok = firstOption(w, func(o sentence.Option) bool { return isCopulaParse(o.Parse) })
		}
		if ok && v.resolve(w, o, sentence.KindCopula, sentence.NoAnchor, "Form of \"sum\"") {
			n++
		}
	}
	return n
}

// Infinitive prefers an infinitive reading whenever one is offered.
func Infinitive(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !open(w) {
			continue
		}
		o, ok := firstOption(w, func(o sentence.Option) bool {
			return morph.IsVerbLike(o.Parse) && morph.IsInfinitive(o.Reading)
		})
		if ok && v.resolve(w, o, sentence.KindInfinitive, sentence.NoAnchor, "Infinitive form") {
			n++
		}
	}
	return n
}

const encliticConjunction = "que"

// EncliticQue marks words whose every parse carries -que as having an
// implicit leading "et".
func EncliticQue(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if w == nil || w.HasEt || w.IsRejected(sentence.ID(sentence.KindEnclitic, sentence.NoAnchor)) {
			continue
		}
		if !sentence.Every(w, func(p morph.CandidateParse) bool { return p.HasModification(encliticConjunction) }) {
			continue
		}
		w.HasEt = true
		w.EtGuessed = true
		n++
	}
	return n
}

var indeclinable = map[morph.PartOfSpeech]string{
	morph.POSAdverb:       "Only possible as an adverb",
	morph.POSConjunction:  "Only possible as a conjunction",
	morph.POSInterjection: "Only possible as an interjection",
}

// Indeclinable resolves words that can only be an adverb, conjunction or
// interjection to their first parse.
func Indeclinable(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !open(w) {
			continue
		}
		pos, ok := sentence.GuaranteedPOS(w)
		if !ok {
			continue
		}
		rationale, ok := indeclinable[pos]
		if !ok {
			continue
		}
		o := sentence.Options(w)[0]
		if v.resolve(w, o, sentence.KindIndeclinable, sentence.NoAnchor, rationale) {
			n++
		}
	}
	return n
}
