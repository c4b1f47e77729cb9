package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReading(t *testing.T) {
	tests := []struct {
		in   string
		want Features
	}{
		{"NOM S F", Features{Case: CaseNominative, Number: NumberSingular, Gender: GenderFeminine}},
		{"acc p n", Features{Case: CaseAccusative, Number: NumberPlural, Gender: GenderNeuter}},
		{"PRES ACTIVE IND 3 S", Features{Tense: "PRES", Voice: VoiceActive, Mood: MoodIndicative, Person: 3, Number: NumberSingular}},
		{"PRES ACTIVE INF 0 X", Features{Tense: "PRES", Voice: VoiceActive, Mood: MoodInfinitive}},
		{"ABL P M PERF PASSIVE PPL", Features{Case: CaseAblative, Number: NumberPlural, Gender: GenderMasculine, Tense: "PERF", Voice: VoicePassive, Mood: MoodParticiple}},
		{"1 1 NOM S F", Features{Case: CaseNominative, Number: NumberSingular, Gender: GenderFeminine}},
		{"ACC", Features{Case: CaseAccusative}},
		{"NOM S F COMP", Features{Case: CaseNominative, Number: NumberSingular, Gender: GenderFeminine, Degree: DegreeComparative}},
		{"", Features{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseReading(tt.in), "ParseReading(%q)", tt.in)
	}
}

func TestExtractCGN(t *testing.T) {
	cgn, ok := ExtractCGN("GEN S F")
	assert.True(t, ok)
	assert.Equal(t, CGN{Case: CaseGenitive, Gender: GenderFeminine, Number: NumberSingular}, cgn)

	cgn, ok = ExtractCGN("DAT P X")
	assert.True(t, ok)
	assert.Equal(t, GenderNone, cgn.Gender)

	_, ok = ExtractCGN("ACC")
	assert.False(t, ok, "preposition readings carry no number")

	_, ok = ExtractCGN("PRES ACTIVE IND 3 S")
	assert.False(t, ok)
}

func TestExtractVerbPersonNumber(t *testing.T) {
	pn, ok := ExtractVerbPersonNumber("PRES ACTIVE IND 3 S")
	assert.True(t, ok)
	assert.Equal(t, PersonNumber{Person: 3, Number: NumberSingular}, pn)

	_, ok = ExtractVerbPersonNumber("PRES ACTIVE INF 0 X")
	assert.False(t, ok)
	_, ok = ExtractVerbPersonNumber("NOM S F")
	assert.False(t, ok)
}

func TestGendersAgree(t *testing.T) {
	assert.True(t, GendersAgree(GenderFeminine, GenderFeminine))
	assert.True(t, GendersAgree(GenderNone, GenderNeuter))
	assert.True(t, GendersAgree(GenderCommon, GenderMasculine))
	assert.False(t, GendersAgree(GenderCommon, GenderNeuter))
	assert.False(t, GendersAgree(GenderMasculine, GenderFeminine))
}

func TestCGNAgrees(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"ACC S F", "ACC S F", true},
		{"ACC S F", "NOM S F", false},
		{"ACC S F", "ACC P F", false},
		{"ACC S F", "ACC S M", false},
		{"DAT P X", "DAT P C", true},
		{"ABL P C", "ABL P M", true},
		{"GEN S N", "GEN P N", false},
	}
	for _, tt := range tests {
		a, ok := ExtractCGN(tt.a)
		assert.True(t, ok, tt.a)
		b, ok := ExtractCGN(tt.b)
		assert.True(t, ok, tt.b)
		assert.Equal(t, tt.want, a.Agrees(b), "%s vs %s", tt.a, tt.b)
		assert.Equal(t, tt.want, b.Agrees(a), "%s vs %s", tt.b, tt.a)
	}
}

func TestClassPredicates(t *testing.T) {
	noun := CandidateParse{POS: POSNoun}
	pron := CandidateParse{POS: POSPronoun}
	adj := CandidateParse{POS: POSAdjective}
	part := CandidateParse{POS: POSParticiple}
	verb := CandidateParse{POS: POSVerb}
	prep := CandidateParse{POS: POSPreposition}

	assert.True(t, IsNounLike(noun))
	assert.True(t, IsNounLike(pron))
	assert.False(t, IsNounLike(adj))
	assert.True(t, IsAdjectival(adj))
	assert.True(t, IsAdjectival(part))
	assert.False(t, IsAdjectival(verb))
	assert.True(t, IsDeclinable(part))
	assert.False(t, IsDeclinable(prep))
	assert.True(t, IsVerbLike(verb))
	assert.False(t, IsVerbLike(part))
}

func TestCasesOf(t *testing.T) {
	p := CandidateParse{POS: POSNoun, Readings: []string{"NOM S F", "ABL S F", "VOC S F", "NOM S F"}}
	assert.Equal(t, []Case{CaseNominative, CaseAblative, CaseVocative}, CasesOf(p))

	r, ok := ReadingWithCase(p, CaseAblative)
	assert.True(t, ok)
	assert.Equal(t, "ABL S F", r)
	_, ok = ReadingWithCase(p, CaseDative)
	assert.False(t, ok)
}

func TestFiniteAndInfinitive(t *testing.T) {
	assert.True(t, IsFinite("PRES ACTIVE IND 3 S"))
	assert.True(t, IsFinite("PRES ACTIVE IMP 2 S"))
	assert.False(t, IsFinite("PRES ACTIVE INF 0 X"))
	assert.True(t, IsInfinitive("PRES ACTIVE INF 0 X"))
	assert.False(t, IsInfinitive("NOM S F"))
}

func TestParsePOS(t *testing.T) {
	assert.Equal(t, POSParticiple, ParsePOS("vpar"))
	assert.Equal(t, POSUnknown, ParsePOS("PACK"))
	assert.Equal(t, "preposition", ParsePOS("PREP").Name())
}

func TestCandidateParseHelpers(t *testing.T) {
	p := CandidateParse{
		POS:           POSNoun,
		Readings:      []string{"NOM S M"},
		Modifications: []Modification{{Kind: POSTackon, Form: "QUE"}},
	}
	assert.True(t, p.HasModification("que"))
	assert.False(t, p.HasModification("ne"))
	assert.True(t, p.HasReading("NOM S M"))
	assert.True(t, p.Equal(p))
	q := p
	q.Readings = []string{"ACC S M"}
	assert.False(t, p.Equal(q))
}

func TestHeadword(t *testing.T) {
	assert.Equal(t, "sum", Headword("sum, esse, fui, futurus"))
	assert.Equal(t, "possum", Headword("  Possum "))
	assert.Equal(t, "", Headword(""))
}
