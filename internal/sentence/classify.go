package sentence

import (
	"unicode"

	"github.com/dgallion1/sententia/internal/morph"
)

// Option is one (parse, reading) pair a word can still take.
type Option struct {
	Parse      morph.CandidateParse
	ParseIndex int
	Reading    string
	Features   morph.Features
}

// Options lists the interpretations still open to w: the selected one when
// resolved, otherwise every reading of every candidate in lookup order.
func Options(w *Word) []Option {
	if w == nil {
		return nil
	}
	if w.Selected != nil {
		return []Option{{
			Parse:      *w.Selected,
			ParseIndex: w.selectedIndex(),
			Reading:    w.Reading,
			Features:   morph.ParseReading(w.Reading),
		}}
	}
	var out []Option
	for pi, p := range w.Candidates {
		if len(p.Readings) == 0 {
			out = append(out, Option{Parse: p, ParseIndex: pi})
			continue
		}
		for _, r := range p.Readings {
			out = append(out, Option{Parse: p, ParseIndex: pi, Reading: r, Features: morph.ParseReading(r)})
		}
	}
	return out
}

func (w *Word) selectedIndex() int {
	if w.Selected == nil {
		return -1
	}
	for i, p := range w.Candidates {
		if p.Equal(*w.Selected) {
			return i
		}
	}
	return -1
}

// parses returns the parses a classifier should look at. A manual selection
// or override narrows the word to that parse; a guessed one does not, so a
// guarantee never rests on another heuristic's guess.
func parses(w *Word) []morph.CandidateParse {
	if w == nil {
		return nil
	}
	if w.Selected != nil && (!w.Guessed || len(w.Candidates) == 0) {
		return []morph.CandidateParse{*w.Selected}
	}
	return w.Candidates
}

// Every reports whether pred holds for every parse of w. Unknown words
// satisfy nothing.
func Every(w *Word, pred func(morph.CandidateParse) bool) bool {
	ps := parses(w)
	if len(ps) == 0 {
		return false
	}
	for _, p := range ps {
		if !pred(p) {
			return false
		}
	}
	return true
}

// Any reports whether pred holds for some parse of w.
func Any(w *Word, pred func(morph.CandidateParse) bool) bool {
	for _, p := range parses(w) {
		if pred(p) {
			return true
		}
	}
	return false
}

// GuaranteedPOS returns the part of speech shared by every candidate parse
// of w (or its manual selection). It reports false for unknown words and for mixed
// candidates.
func GuaranteedPOS(w *Word) (morph.PartOfSpeech, bool) {
	ps := parses(w)
	if len(ps) == 0 {
		return "", false
	}
	pos := ps[0].POS
	for _, p := range ps[1:] {
		if p.POS != pos {
			return "", false
		}
	}
	return pos, true
}

// IsGuaranteed reports whether every candidate of w is pos.
func IsGuaranteed(w *Word, pos morph.PartOfSpeech) bool {
	got, ok := GuaranteedPOS(w)
	return ok && got == pos
}

// CanBe reports whether any candidate of w is pos.
func CanBe(w *Word, pos morph.PartOfSpeech) bool {
	for _, p := range parses(w) {
		if p.POS == pos {
			return true
		}
	}
	return false
}

// IsGuaranteedPreposition reports whether w can only be a preposition.
func IsGuaranteedPreposition(w *Word) bool {
	return IsGuaranteed(w, morph.POSPreposition)
}

// IsPotentialPreposition reports whether w might be a preposition.
func IsPotentialPreposition(w *Word) bool {
	return CanBe(w, morph.POSPreposition)
}

// IsPotentialConjunction reports whether w might be a conjunction.
func IsPotentialConjunction(w *Word) bool {
	return CanBe(w, morph.POSConjunction)
}

// IsPunctuation reports whether the token is made only of punctuation.
func IsPunctuation(w *Word) bool {
	if w == nil || w.Clean == "" {
		return false
	}
	for _, r := range w.Clean {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

var sentenceFinal = map[string]bool{".": true, "!": true, "?": true, ";": true, ":": true}

// IsSentenceFinal reports whether the token ends a clause-level unit.
func IsSentenceFinal(w *Word) bool {
	return w != nil && sentenceFinal[w.Clean]
}

var relativeForms = map[string]bool{
	"qui": true, "quae": true, "quod": true,
	"cuius": true, "cui": true,
	"quem": true, "quam": true, "quo": true, "qua": true,
	"quorum": true, "quarum": true, "quibus": true, "quos": true, "quas": true,
}

// IsRelativeForm reports whether the token is an inflected form of the
// relative pronoun.
func IsRelativeForm(w *Word) bool {
	return w != nil && relativeForms[w.Clean]
}

// IsFiniteVerb reports whether w is resolved to, or can only be, a finite
// verb form.
func IsFiniteVerb(w *Word) bool {
	opts := Options(w)
	if len(opts) == 0 {
		return false
	}
	if w.Resolved() {
		return morph.IsVerbLike(opts[0].Parse) && morph.IsFinite(opts[0].Reading)
	}
	if !IsGuaranteed(w, morph.POSVerb) {
		return false
	}
	for _, o := range opts {
		if morph.IsFinite(o.Reading) {
			return true
		}
	}
	return false
}

// DeclinableCases returns the distinct cases available to w through
// declinable options, in option order.
func DeclinableCases(w *Word) []morph.Case {
	var out []morph.Case
	seen := make(map[morph.Case]bool)
	for _, o := range Options(w) {
		if !morph.IsDeclinable(o.Parse) || o.Features.Case == morph.CaseNone {
			continue
		}
		if !seen[o.Features.Case] {
			seen[o.Features.Case] = true
			out = append(out, o.Features.Case)
		}
	}
	return out
}

// GuaranteedCase returns the single case every declinable option of w
// shares.
func GuaranteedCase(w *Word) (morph.Case, bool) {
	cs := DeclinableCases(w)
	if len(cs) != 1 {
		return morph.CaseNone, false
	}
	return cs[0], true
}

// CanTakeCase reports whether a declinable option of w is in case c.
func CanTakeCase(w *Word, c morph.Case) bool {
	for _, have := range DeclinableCases(w) {
		if have == c {
			return true
		}
	}
	return false
}
