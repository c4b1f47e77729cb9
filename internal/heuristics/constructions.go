package heuristics

import (
	"fmt"

	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/sentence"
)

const (
	infinitiveWindow = 6
	objectWindow     = 5
	clauseWindow     = 8
	vocativeWindow   = 4
	relativeWindow   = 6
	comparisonWindow = 3
)

var (
	complementaryVerbs = set(
		"possum", "debeo", "volo", "nolo", "malo", "cupio", "audeo",
		"conor", "incipio", "coepi", "soleo", "studeo", "statuo", "constituo",
	)
	sayingVerbs = set(
		"dico", "puto", "credo", "scio", "nescio", "nego", "video", "audio",
		"sentio", "arbitror", "existimo", "intellego", "nuntio", "spero", "iubeo",
	)
	givingVerbs = set(
		"do", "dono", "trado", "mitto", "dico", "narro", "ostendo", "monstro",
		"persuadeo", "impero", "respondeo", "nuntio", "promitto", "reddo",
	)
	agentPrepositions  = set("a", "ab", "abs")
	purposeMarkers     = set("ut", "uti", "ne")
	temporalMarkers    = set("cum", "postquam", "ubi", "dum", "antequam", "priusquam", "simul", "donec", "quando")
	comparativeMarkers = set("quam", "tamquam", "quasi", "velut", "sicut")
)

func isInfinitiveWord(w *sentence.Word) bool {
	return resolvedAs(w, morph.IsVerbLike) && morph.IsInfinitive(w.Reading)
}

// firstVerbAfter returns the first verb after i, within window, that has an
// interpretation satisfying pred. Sentence-final punctuation ends the scan.
func (v View) firstVerbAfter(i, window int, pred func(sentence.Option) bool) int {
	for j := i + 1; j <= i+window; j++ {
		w := v.At(j)
		if w == nil || sentence.IsSentenceFinal(w) {
			return -1
		}
		if sentence.Every(w, morph.IsVerbLike) && hasOption(w, pred) {
			return j
		}
	}
	return -1
}

// ComplementaryInfinitive links an infinitive to a nearby verb such as
// "possum" or "debeo" that it completes.
func ComplementaryInfinitive(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		verb := v.At(i)
		if !lemmaIn(verb, complementaryVerbs) || v.inferred(i, sentence.KindComplementaryInfinitive) {
			continue
		}
		j := v.nearest(i, infinitiveWindow, sentence.IsSentenceFinal, func(w *sentence.Word) bool {
			return isInfinitiveWord(w) && !hasModify(w)
		})
		if j < 0 {
			continue
		}
		if v.annotate(v.At(j), modify(i, sentence.KindComplementaryInfinitive, fmt.Sprintf("Completes %s", quoted(verb)))) {
			n++
		}
	}
	return n
}

// AccusativeInfinitive finds an infinitive after a verb of saying or
// thinking and gives it an accusative subject from the words between them.
func AccusativeInfinitive(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		if !lemmaIn(v.At(i), sayingVerbs) {
			continue
		}
		inf := -1
		for j := i + 1; j <= i+infinitiveWindow; j++ {
			w := v.At(j)
			if w == nil || sentence.IsSentenceFinal(w) {
				break
			}
			if isInfinitiveWord(w) {
				inf = j
				break
			}
		}
		if inf < 0 || v.inferred(inf, sentence.KindAccusativeInfinitive) {
			continue
		}
		infinitive := v.At(inf)
		rationale := fmt.Sprintf("Accusative subject of %s", quoted(infinitive))
		for j := i + 1; j < inf; j++ {
			w := v.At(j)
			if hasModify(w) {
				continue
			}
			if c, ok := cgn(w); ok && c.Case == morph.CaseAccusative && morph.IsNounLike(*w.Selected) {
				if v.annotate(w, modify(inf, sentence.KindAccusativeInfinitive, rationale)) {
					n++
					break
				}
				continue
			}
			if !open(w) || !sentence.Every(w, morph.IsNounLike) {
				continue
			}
			o, ok := firstOption(w, func(o sentence.Option) bool { return o.Features.Case == morph.CaseAccusative })
			if ok && v.resolve(w, o, sentence.KindAccusativeInfinitive, inf, rationale) {
				v.annotate(w, modify(inf, sentence.KindAccusativeInfinitive, rationale))
				n++
				break
			}
		}
	}
	return n
}

// IndirectObject resolves a dative noun near a verb of giving or telling
// and links it to the verb.
func IndirectObject(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		verb := v.At(i)
		if !lemmaIn(verb, givingVerbs) || v.inferred(i, sentence.KindIndirectObject) {
			continue
		}
		rationale := fmt.Sprintf("Indirect object of %s", quoted(verb))
		j := v.nearest(i, objectWindow, sentence.IsSentenceFinal, func(w *sentence.Word) bool {
			if hasModify(w) || w.IsRejected(sentence.ID(sentence.KindIndirectObject, i)) {
				return false
			}
			if c, ok := cgn(w); ok {
				return c.Case == morph.CaseDative && morph.IsNounLike(*w.Selected)
			}
			return open(w) && sentence.Every(w, morph.IsNounLike) && sentence.CanTakeCase(w, morph.CaseDative)
		})
		if j < 0 {
			continue
		}
		w := v.At(j)
		if open(w) {
			o, _ := firstOption(w, func(o sentence.Option) bool { return o.Features.Case == morph.CaseDative })
			if !v.resolve(w, o, sentence.KindIndirectObject, i, rationale) {
				continue
			}
		}
		if v.annotate(w, modify(i, sentence.KindIndirectObject, rationale)) {
			n++
		}
	}
	return n
}

// ablativeOptions returns w's ablative interpretations whose parse
// satisfies class.
func ablativeOptions(w *sentence.Word, class func(morph.CandidateParse) bool) []sentence.Option {
	var out []sentence.Option
	for _, o := range sentence.Options(w) {
		if class(o.Parse) && o.Features.Case == morph.CaseAblative {
			out = append(out, o)
		}
	}
	return out
}

func isParticiple(p morph.CandidateParse) bool { return p.POS == morph.POSParticiple }

// AblativeAbsolute pairs an ablative participle with an adjacent noun that
// agrees with it, resolving both and linking the participle to the noun.
func AblativeAbsolute(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		p := v.At(i)
		if p == nil || hasModify(p) || !sentence.Every(p, isParticiple) {
			continue
		}
		parts := ablativeOptions(p, isParticiple)
		if len(parts) == 0 {
			continue
		}
		for _, j := range []int{i - 1, i + 1} {
			noun := v.At(j)
			if noun == nil || !sentence.Every(noun, morph.IsNounLike) {
				continue
			}
			po, no, ok := agreeingPair(parts, ablativeOptions(noun, morph.IsNounLike))
			if !ok || p.IsRejected(sentence.ID(sentence.KindAblativeAbsolute, j)) {
				continue
			}
			rationale := fmt.Sprintf("Ablative absolute with %s", quoted(noun))
			if open(noun) && !v.resolve(noun, no, sentence.KindAblativeAbsolute, i, fmt.Sprintf("Ablative absolute with %s", quoted(p))) {
				continue
			}
			if open(p) {
				v.resolve(p, po, sentence.KindAblativeAbsolute, j, rationale)
			}
			if v.annotate(p, modify(j, sentence.KindAblativeAbsolute, rationale)) {
				n++
			}
			break
		}
	}
	return n
}

// agreeingPair returns the first options from as and bs whose case, number
// and gender agree.
func agreeingPair(as, bs []sentence.Option) (sentence.Option, sentence.Option, bool) {
	for _, a := range as {
		ac, ok := morph.ExtractCGN(a.Reading)
		if !ok {
			continue
		}
		for _, b := range bs {
			if bc, ok := morph.ExtractCGN(b.Reading); ok && ac.Agrees(bc) {
				return a, b, true
			}
		}
	}
	return sentence.Option{}, sentence.Option{}, false
}

// isPassiveFinite matches passive finite verb interpretations.
func isPassiveFinite(o sentence.Option) bool {
	return morph.IsVerbLike(o.Parse) && morph.IsFinite(o.Reading) && o.Features.Voice == morph.VoicePassive
}

// AblativeAgent links the object of "a"/"ab" to a passive verb in the same
// clause.
func AblativeAgent(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		p := v.At(i)
		if c, ok := governedCase(p); !ok || c != morph.CaseAblative || !agentPrepositions[p.Clean] {
			continue
		}
		obj := v.At(i + 1)
		if c, ok := cgn(obj); !ok || c.Case != morph.CaseAblative || hasModify(obj) {
			continue
		}
		verb := -1
		for j := i + 2; j <= i+clauseWindow; j++ {
			w := v.At(j)
			if w == nil || sentence.IsSentenceFinal(w) {
				break
			}
			if sentence.Every(w, morph.IsVerbLike) && hasOption(w, isPassiveFinite) {
				verb = j
				break
			}
		}
		if verb < 0 {
			continue
		}
		if v.annotate(obj, modify(verb, sentence.KindAblativeAgent, fmt.Sprintf("Agent of passive %s", quoted(v.At(verb))))) {
			n++
		}
	}
	return n
}

// AblativeMeans resolves a noun that can only be ablative (or the
// ambiguous dative/ablative plural) and is not governed by a preposition to
// the ablative, linking it to the finite verb of its clause.
func AblativeMeans(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		w := v.At(i)
		if !open(w) || !sentence.IsGuaranteed(w, morph.POSNoun) {
			continue
		}
		cases := sentence.DeclinableCases(w)
		if !onlyCases(cases, morph.CaseAblative, morph.CaseDative) || !sentence.CanTakeCase(w, morph.CaseAblative) {
			continue
		}
		if prev := v.At(i - 1); prev != nil && sentence.IsPotentialPreposition(prev) {
			continue
		}
		verb := v.nearest(i, clauseWindow, sentence.IsSentenceFinal, sentence.IsFiniteVerb)
		if verb < 0 {
			continue
		}
		rationale := fmt.Sprintf("Means of %s", quoted(v.At(verb)))
		o, _ := firstOption(w, func(o sentence.Option) bool { return o.Features.Case == morph.CaseAblative })
		if v.resolve(w, o, sentence.KindAblativeMeans, verb, rationale) {
			v.annotate(w, modify(verb, sentence.KindAblativeMeans, rationale))
			n++
		}
	}
	return n
}

func onlyCases(have []morph.Case, allowed ...morph.Case) bool {
	if len(have) == 0 {
		return false
	}
	for _, c := range have {
		if !containsCase(allowed, c) {
			return false
		}
	}
	return true
}

// RelativeAntecedent links a relative pronoun to the nearest earlier
// resolved noun agreeing with it in gender and number.
func RelativeAntecedent(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		r := v.At(i)
		if !sentence.IsRelativeForm(r) || hasModify(r) {
			continue
		}
		var forms []morph.Features
		for _, o := range sentence.Options(r) {
			if o.Parse.POS == morph.POSPronoun || o.Parse.POS == morph.POSAdjective {
				forms = append(forms, o.Features)
			}
		}
		if len(forms) == 0 {
			continue
		}
		for j := i - 1; j >= i-relativeWindow; j-- {
			t := v.At(j)
			if t == nil || sentence.IsSentenceFinal(t) {
				break
			}
			head, ok := nounHead(t)
			if !ok || r.IsRejected(sentence.ID(sentence.KindRelativeAntecedent, j)) {
				continue
			}
			if !agreesGenderNumber(forms, head) {
				continue
			}
			if v.annotate(r, modify(j, sentence.KindRelativeAntecedent, fmt.Sprintf("Refers to %s", quoted(t)))) {
				n++
			}
			break
		}
	}
	return n
}

func agreesGenderNumber(forms []morph.Features, head morph.CGN) bool {
	for _, f := range forms {
		if f.Number == head.Number && morph.GendersAgree(f.Gender, head.Gender) {
			return true
		}
	}
	return false
}

// isSubjunctive matches subjunctive verb interpretations.
func isSubjunctive(o sentence.Option) bool {
	return morph.IsVerbLike(o.Parse) && o.Features.Mood == morph.MoodSubjunctive
}

// isFiniteOption matches finite verb interpretations.
func isFiniteOption(o sentence.Option) bool {
	return morph.IsVerbLike(o.Parse) && morph.IsFinite(o.Reading)
}

// markerWord reports whether w is one of markers and is not resolved to a
// preposition or a pronoun.
func markerWord(w *sentence.Word, markers map[string]bool) bool {
	if w == nil || !markers[w.Clean] {
		return false
	}
	return !resolvedAs(w, func(p morph.CandidateParse) bool {
		return p.POS == morph.POSPreposition || p.POS == morph.POSPronoun
	})
}

// PurposeClause links "ut"/"ne" to the following subjunctive verb and
// resolves that verb to its subjunctive reading.
func PurposeClause(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		m := v.At(i)
		if !markerWord(m, purposeMarkers) || hasModify(m) {
			continue
		}
		j := v.firstVerbAfter(i, clauseWindow, isSubjunctive)
		if j < 0 {
			continue
		}
		verb := v.At(j)
		rationale := fmt.Sprintf("Purpose clause introduced by %s", quoted(m))
		if open(verb) {
			o, _ := firstOption(verb, isSubjunctive)
			v.resolve(verb, o, sentence.KindPurposeClause, i, rationale)
		}
		if v.annotate(m, modify(j, sentence.KindPurposeClause, fmt.Sprintf("Introduces purpose clause %s", quoted(verb)))) {
			n++
		}
	}
	return n
}

// TemporalClause links a temporal conjunction to the next finite verb.
func TemporalClause(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		m := v.At(i)
		if !markerWord(m, temporalMarkers) || hasModify(m) {
			continue
		}
		j := v.firstVerbAfter(i, clauseWindow, isFiniteOption)
		if j >= 0 && v.annotate(m, modify(j, sentence.KindTemporalClause, fmt.Sprintf("Temporal clause %s", quoted(v.At(j))))) {
			n++
		}
	}
	return n
}

// hasComparative reports whether a comparative adjective or adverb occurs
// shortly before i.
func (v View) hasComparative(i int) bool {
	for j := i - 1; j >= i-comparisonWindow; j-- {
		w := v.At(j)
		if w == nil {
			return false
		}
		if hasOption(w, func(o sentence.Option) bool { return o.Features.Degree == morph.DegreeComparative }) {
			return true
		}
	}
	return false
}

// ComparativeClause links a comparison marker to the next finite verb.
// "quam" only counts after a comparative.
func ComparativeClause(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		m := v.At(i)
		if !markerWord(m, comparativeMarkers) || hasModify(m) {
			continue
		}
		if m.Clean == "quam" && !v.hasComparative(i) {
			continue
		}
		j := v.firstVerbAfter(i, clauseWindow, isFiniteOption)
		if j >= 0 && v.annotate(m, modify(j, sentence.KindComparativeClause, fmt.Sprintf("Comparison with %s", quoted(v.At(j))))) {
			n++
		}
	}
	return n
}

// Vocative resolves a noun near an imperative to the vocative and links it
// to the verb.
func Vocative(v View) int {
	n := 0
	for i := v.Lo; i <= v.Hi; i++ {
		verb := v.At(i)
		if !sentence.Every(verb, morph.IsVerbLike) || !hasMood(verb, morph.MoodImperative) || v.inferred(i, sentence.KindVocative) {
			continue
		}
		rationale := fmt.Sprintf("Addressed by %s", quoted(verb))
		j := v.nearest(i, vocativeWindow, sentence.IsSentenceFinal, func(w *sentence.Word) bool {
			if hasModify(w) || w.IsRejected(sentence.ID(sentence.KindVocative, i)) {
				return false
			}
			if c, ok := cgn(w); ok {
				return c.Case == morph.CaseVocative
			}
			return open(w) && sentence.Every(w, morph.IsNounLike) && sentence.CanTakeCase(w, morph.CaseVocative)
		})
		if j < 0 {
			continue
		}
		w := v.At(j)
		if open(w) {
			o, _ := firstOption(w, func(o sentence.Option) bool { return o.Features.Case == morph.CaseVocative })
			if !v.resolve(w, o, sentence.KindVocative, i, rationale) {
				continue
			}
		}
		if v.annotate(w, modify(i, sentence.KindVocative, rationale)) {
			n++
		}
	}
	return n
}
