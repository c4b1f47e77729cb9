// Package morph holds the morphological tag vocabulary used by the lookup
// service and the pure predicates the heuristic passes build on.
package morph

import "strings"

// PartOfSpeech is the dictionary's part-of-speech code for a candidate parse.
type PartOfSpeech string

const (
	POSNoun         PartOfSpeech = "N"
	POSVerb         PartOfSpeech = "V"
	POSAdjective    PartOfSpeech = "ADJ"
	POSAdverb       PartOfSpeech = "ADV"
	POSParticiple   PartOfSpeech = "VPAR"
	POSPronoun      PartOfSpeech = "PRON"
	POSPreposition  PartOfSpeech = "PREP"
	POSConjunction  PartOfSpeech = "CONJ"
	POSInterjection PartOfSpeech = "INTERJ"
	POSTackon       PartOfSpeech = "TACKON"
	POSPrefix       PartOfSpeech = "PREFIX"
	POSSuffix       PartOfSpeech = "SUFFIX"
	POSUnknown      PartOfSpeech = "X"
)

var knownPOS = map[PartOfSpeech]bool{
	POSNoun: true, POSVerb: true, POSAdjective: true, POSAdverb: true,
	POSParticiple: true, POSPronoun: true, POSPreposition: true,
	POSConjunction: true, POSInterjection: true, POSTackon: true,
	POSPrefix: true, POSSuffix: true,
}

// ParsePOS maps a dictionary code (case-insensitive) to a PartOfSpeech.
// Unrecognized codes map to POSUnknown.
func ParsePOS(s string) PartOfSpeech {
	p := PartOfSpeech(strings.ToUpper(strings.TrimSpace(s)))
	if knownPOS[p] {
		return p
	}
	return POSUnknown
}

// Name returns a lowercase English label, used in rationale text.
func (p PartOfSpeech) Name() string {
	switch p {
	case POSNoun:
		return "noun"
	case POSVerb:
		return "verb"
	case POSAdjective:
		return "adjective"
	case POSAdverb:
		return "adverb"
	case POSParticiple:
		return "participle"
	case POSPronoun:
		return "pronoun"
	case POSPreposition:
		return "preposition"
	case POSConjunction:
		return "conjunction"
	case POSInterjection:
		return "interjection"
	case POSTackon:
		return "tackon"
	case POSPrefix:
		return "prefix"
	case POSSuffix:
		return "suffix"
	default:
		return "unknown"
	}
}

// Modification is an enclitic, prefix or suffix attached to a parse.
type Modification struct {
	Kind  PartOfSpeech `json:"kind" yaml:"kind"`
	Form  string       `json:"form" yaml:"form"`
	Gloss string       `json:"gloss,omitempty" yaml:"gloss,omitempty"`
}

// CandidateParse is one interpretation of a word as returned by lookup.
// Readings are tag strings such as "NOM S F" or "PRES ACTIVE IND 3 S".
type CandidateParse struct {
	POS           PartOfSpeech   `json:"pos" yaml:"pos"`
	Lemma         string         `json:"lemma,omitempty" yaml:"lemma,omitempty"`
	Gloss         string         `json:"gloss,omitempty" yaml:"gloss,omitempty"`
	Readings      []string       `json:"readings" yaml:"readings"`
	Modifications []Modification `json:"modifications,omitempty" yaml:"modifications,omitempty"`
}

// Headword returns the lowercase dictionary form from a lemma line such as
// "sum, esse, fui, futurus".
func Headword(lemma string) string {
	if i := strings.IndexByte(lemma, ','); i >= 0 {
		lemma = lemma[:i]
	}
	return strings.ToLower(strings.TrimSpace(lemma))
}

// HasReading reports whether r is one of the parse's readings.
func (c CandidateParse) HasReading(r string) bool {
	for _, have := range c.Readings {
		if have == r {
			return true
		}
	}
	return false
}

// HasModification reports whether the parse carries a modification whose
// form equals form, ignoring case.
func (c CandidateParse) HasModification(form string) bool {
	for _, m := range c.Modifications {
		if strings.EqualFold(m.Form, form) {
			return true
		}
	}
	return false
}

// Equal compares two parses field by field.
func (c CandidateParse) Equal(o CandidateParse) bool {
	if c.POS != o.POS || c.Lemma != o.Lemma || c.Gloss != o.Gloss {
		return false
	}
	if len(c.Readings) != len(o.Readings) || len(c.Modifications) != len(o.Modifications) {
		return false
	}
	for i := range c.Readings {
		if c.Readings[i] != o.Readings[i] {
			return false
		}
	}
	for i := range c.Modifications {
		if c.Modifications[i] != o.Modifications[i] {
			return false
		}
	}
	return true
}
