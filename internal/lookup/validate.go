package lookup

import (
	"strings"

	"github.com/dgallion1/sententia/internal/morph"
)

// maxParses caps the candidates kept for one word.
const maxParses = 64

// ValidateParses normalizes parses from an untrusted source. Parts of
// speech are canonicalized and unknown ones dropped, readings are
// whitespace-collapsed and uppercased, empty readings and duplicate parses
// are removed.
func ValidateParses(in []morph.CandidateParse) []morph.CandidateParse {
	var out []morph.CandidateParse
	for _, p := range in {
		p.POS = morph.ParsePOS(string(p.POS))
		if p.POS == morph.POSUnknown {
			continue
		}
		p.Lemma = strings.TrimSpace(p.Lemma)
		p.Gloss = strings.TrimSpace(p.Gloss)
		readings := make([]string, 0, len(p.Readings))
		for _, r := range p.Readings {
			r = strings.ToUpper(strings.Join(strings.Fields(r), " "))
			if r != "" && !contains(readings, r) {
				readings = append(readings, r)
			}
		}
		p.Readings = readings
		if duplicate(out, p) {
			continue
		}
		out = append(out, p)
		if len(out) == maxParses {
			break
		}
	}
	return out
}

func contains(ss []string, s string) bool {
	for _, have := range ss {
		if have == s {
			return true
		}
	}
	return false
}

func duplicate(ps []morph.CandidateParse, p morph.CandidateParse) bool {
	for _, have := range ps {
		if have.Equal(p) {
			return true
		}
	}
	return false
}
