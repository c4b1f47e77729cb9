package morph

import "strings"

// Case is the grammatical case of a declinable reading.
type Case string

const (
	CaseNone       Case = ""
	CaseNominative Case = "NOM"
	CaseGenitive   Case = "GEN"
	CaseDative     Case = "DAT"
	CaseAccusative Case = "ACC"
	CaseAblative   Case = "ABL"
	CaseVocative   Case = "VOC"
	CaseLocative   Case = "LOC"
)

// Gender is the grammatical gender; C is common.
type Gender string

const (
	GenderNone      Gender = ""
	GenderMasculine Gender = "M"
	GenderFeminine  Gender = "F"
	GenderNeuter    Gender = "N"
	GenderCommon    Gender = "C"
)

// Number is singular or plural.
type Number string

const (
	NumberNone     Number = ""
	NumberSingular Number = "S"
	NumberPlural   Number = "P"
)

// Mood is the mood of a verb form, including infinitive and participle.
type Mood string

const (
	MoodNone        Mood = ""
	MoodIndicative  Mood = "IND"
	MoodSubjunctive Mood = "SUB"
	MoodImperative  Mood = "IMP"
	MoodInfinitive  Mood = "INF"
	MoodParticiple  Mood = "PPL"
)

// Voice is the voice of a verb form.
type Voice string

const (
	VoiceNone    Voice = ""
	VoiceActive  Voice = "ACTIVE"
	VoicePassive Voice = "PASSIVE"
)

// Degree is the comparison grade of adjectives and adverbs.
type Degree string

const (
	DegreeNone        Degree = ""
	DegreePositive    Degree = "POS"
	DegreeComparative Degree = "COMP"
	DegreeSuperlative Degree = "SUPER"
)

var (
	cases = map[string]Case{
		"NOM": CaseNominative, "GEN": CaseGenitive, "DAT": CaseDative,
		"ACC": CaseAccusative, "ABL": CaseAblative, "VOC": CaseVocative,
		"LOC": CaseLocative,
	}
	genders = map[string]Gender{
		"M": GenderMasculine, "F": GenderFeminine, "N": GenderNeuter, "C": GenderCommon,
	}
	numbers = map[string]Number{"S": NumberSingular, "P": NumberPlural}
	moods   = map[string]Mood{
		"IND": MoodIndicative, "SUB": MoodSubjunctive, "IMP": MoodImperative,
		"INF": MoodInfinitive, "PPL": MoodParticiple,
	}
	voices  = map[string]Voice{"ACTIVE": VoiceActive, "PASSIVE": VoicePassive}
	tenses  = map[string]bool{"PRES": true, "IMPF": true, "FUT": true, "PERF": true, "PLUP": true, "FUTP": true}
	persons = map[string]int{"1": 1, "2": 2, "3": 3}
	degrees = map[string]Degree{"POS": DegreePositive, "COMP": DegreeComparative, "SUPER": DegreeSuperlative}
)

// Features is the decoded content of a reading string. Fields that the
// reading does not mention are left at their zero value.
type Features struct {
	Case   Case
	Gender Gender
	Number Number
	Person int
	Mood   Mood
	Voice  Voice
	Tense  string
	Degree Degree
}

// ParseReading decodes a whitespace-separated tag string. Unknown tags are
// ignored and the first occurrence of each category wins. "X" never fills a
// slot, so "NOM S X" has no gender.
func ParseReading(reading string) Features {
	var f Features
	for _, tok := range strings.Fields(strings.ToUpper(reading)) {
		if c, ok := cases[tok]; ok && f.Case == CaseNone {
			f.Case = c
			continue
		}
		if m, ok := moods[tok]; ok && f.Mood == MoodNone {
			f.Mood = m
			continue
		}
		if v, ok := voices[tok]; ok && f.Voice == VoiceNone {
			f.Voice = v
			continue
		}
		if d, ok := degrees[tok]; ok && f.Degree == DegreeNone {
			f.Degree = d
			continue
		}
		if tenses[tok] && f.Tense == "" {
			f.Tense = tok
			continue
		}
		// Person digits only count after a mood; declension and
		// conjugation numbers precede the case tags.
		if p, ok := persons[tok]; ok && f.Person == 0 && f.Mood != MoodNone {
			f.Person = p
			continue
		}
		if n, ok := numbers[tok]; ok && f.Number == NumberNone {
			f.Number = n
			continue
		}
		if g, ok := genders[tok]; ok && f.Gender == GenderNone {
			f.Gender = g
		}
	}
	return f
}

// CGN is the case, gender, number triple of a declined reading.
type CGN struct {
	Case   Case
	Gender Gender
	Number Number
}

// PersonNumber is the person and number of a finite verb reading.
type PersonNumber struct {
	Person int
	Number Number
}

// ExtractCGN returns the case/gender/number of reading. It reports false when
// the reading carries no case or no number. Gender may be GenderNone.
func ExtractCGN(reading string) (CGN, bool) {
	f := ParseReading(reading)
	if f.Case == CaseNone || f.Number == NumberNone {
		return CGN{}, false
	}
	return CGN{Case: f.Case, Gender: f.Gender, Number: f.Number}, true
}

// ExtractVerbPersonNumber returns person and number of a finite reading.
func ExtractVerbPersonNumber(reading string) (PersonNumber, bool) {
	f := ParseReading(reading)
	if f.Person == 0 || f.Number == NumberNone {
		return PersonNumber{}, false
	}
	return PersonNumber{Person: f.Person, Number: f.Number}, true
}

// GendersAgree is true when both genders are specified and compatible, or
// when either side leaves gender unspecified. Common gender agrees with
// masculine and feminine.
func GendersAgree(a, b Gender) bool {
	if a == GenderNone || b == GenderNone || a == b {
		return true
	}
	if a == GenderCommon {
		return b == GenderMasculine || b == GenderFeminine
	}
	if b == GenderCommon {
		return a == GenderMasculine || a == GenderFeminine
	}
	return false
}

// Agrees reports case and number equality plus gender compatibility.
func (c CGN) Agrees(o CGN) bool {
	return c.Case == o.Case && c.Number == o.Number && GendersAgree(c.Gender, o.Gender)
}

// Name returns the lowercase grammatical name of the case.
func (c Case) Name() string {
	switch c {
	case CaseNominative:
		return "nominative"
	case CaseGenitive:
		return "genitive"
	case CaseDative:
		return "dative"
	case CaseAccusative:
		return "accusative"
	case CaseAblative:
		return "ablative"
	case CaseVocative:
		return "vocative"
	case CaseLocative:
		return "locative"
	}
	return "caseless"
}
