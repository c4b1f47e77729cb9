package morph

// IsAdjectival reports whether the parse describes something: adjectives
// and participles are treated alike.
func IsAdjectival(p CandidateParse) bool {
	return p.POS == POSAdjective || p.POS == POSParticiple
}

// IsNounLike reports whether the parse can head a noun phrase.
func IsNounLike(p CandidateParse) bool {
	return p.POS == POSNoun || p.POS == POSPronoun
}

// IsDeclinable is the union of IsAdjectival and IsNounLike.
func IsDeclinable(p CandidateParse) bool {
	return IsAdjectival(p) || IsNounLike(p)
}

// IsVerbLike reports whether the parse is a verb (participles excluded).
func IsVerbLike(p CandidateParse) bool {
	return p.POS == POSVerb
}

// IsFinite reports whether reading is an indicative, subjunctive or
// imperative verb form with a person.
func IsFinite(reading string) bool {
	f := ParseReading(reading)
	switch f.Mood {
	case MoodIndicative, MoodSubjunctive, MoodImperative:
		return f.Person != 0
	}
	return false
}

// IsInfinitive reports whether reading is an infinitive.
func IsInfinitive(reading string) bool {
	return ParseReading(reading).Mood == MoodInfinitive
}

// CasesOf returns the distinct cases that p's readings can take, in reading
// order.
func CasesOf(p CandidateParse) []Case {
	var out []Case
	seen := make(map[Case]bool)
	for _, r := range p.Readings {
		c := ParseReading(r).Case
		if c == CaseNone || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// ReadingWithCase returns the first reading of p in case c.
func ReadingWithCase(p CandidateParse, c Case) (string, bool) {
	for _, r := range p.Readings {
		if ParseReading(r).Case == c {
			return r, true
		}
	}
	return "", false
}
