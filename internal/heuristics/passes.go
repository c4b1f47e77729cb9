package heuristics

import "github.com/dgallion1/sententia/internal/sentence"

// Tier groups passes by the kind of evidence they rely on. Lower tiers run
// first and give later tiers resolved anchors to work from.
type Tier int

const (
	TierClosedClass Tier = iota + 1
	TierPrepositions
	TierPossession
	TierAgreement
	TierSubject
	TierConstructions
)

func (t Tier) String() string {
	switch t {
	case TierClosedClass:
		return "closed-class"
	case TierPrepositions:
		return "prepositions"
	case TierPossession:
		return "possession"
	case TierAgreement:
		return "agreement"
	case TierSubject:
		return "subject"
	case TierConstructions:
		return "constructions"
	}
	return "unknown"
}

// Pass is one entry of the fixed priority table. Run returns the number of
// resolutions, annotations and flags it committed.
type Pass struct {
	Name string
	Tier Tier
	Kind sentence.InferenceKind
	Run  func(View) int
}

// Incremental reports whether the pass takes part in neighborhood re-runs
// after a single manual change.
func (p Pass) Incremental() bool {
	return p.Tier >= TierPrepositions && p.Tier <= TierAgreement
}

var passes = []Pass{
	{"copula", TierClosedClass, sentence.KindCopula, Copula},
	{"infinitive", TierClosedClass, sentence.KindInfinitive, Infinitive},
	{"enclitic-que", TierClosedClass, sentence.KindEnclitic, EncliticQue},
	{"indeclinable", TierClosedClass, sentence.KindIndeclinable, Indeclinable},

	{"preposition-identification", TierPrepositions, sentence.KindPreposition, PrepositionIdentification},
	{"preposition-case", TierPrepositions, sentence.KindPrepositionCase, PrepositionCase},
	{"prepositional-object", TierPrepositions, sentence.KindPrepositionObject, PrepositionalObject},
	{"prepositional-scope", TierPrepositions, sentence.KindPrepositionScope, PrepositionalScope},

	{"genitive-possession", TierPossession, sentence.KindPossession, GenitivePossession},

	{"adjective-resolution", TierAgreement, sentence.KindAdjectiveResolution, AdjectiveResolution},
	{"adjective-agreement", TierAgreement, sentence.KindAdjectiveAgreement, AdjectiveAgreement},
	{"adjacent-agreement", TierAgreement, sentence.KindAdjacentAgreement, AdjacentAgreement},
	{"apposition", TierAgreement, sentence.KindApposition, Apposition},

	{"subject", TierSubject, sentence.KindSubject, Subject},
	{"dependent-subject", TierSubject, sentence.KindDependentSubject, DependentSubject},
	{"predicate-nominative", TierSubject, sentence.KindPredicateNominative, PredicateNominative},

	{"complementary-infinitive", TierConstructions, sentence.KindComplementaryInfinitive, ComplementaryInfinitive},
	{"accusative-infinitive", TierConstructions, sentence.KindAccusativeInfinitive, AccusativeInfinitive},
	{"indirect-object", TierConstructions, sentence.KindIndirectObject, IndirectObject},
	{"ablative-absolute", TierConstructions, sentence.KindAblativeAbsolute, AblativeAbsolute},
	{"ablative-agent", TierConstructions, sentence.KindAblativeAgent, AblativeAgent},
	{"ablative-means", TierConstructions, sentence.KindAblativeMeans, AblativeMeans},
	{"relative-antecedent", TierConstructions, sentence.KindRelativeAntecedent, RelativeAntecedent},
	{"purpose-clause", TierConstructions, sentence.KindPurposeClause, PurposeClause},
	{"temporal-clause", TierConstructions, sentence.KindTemporalClause, TemporalClause},
	{"comparative-clause", TierConstructions, sentence.KindComparativeClause, ComparativeClause},
	{"vocative", TierConstructions, sentence.KindVocative, Vocative},
}

// All returns the passes in priority order.
func All() []Pass {
	out := make([]Pass, len(passes))
	copy(out, passes)
	return out
}

// Lookup returns the pass registered under name.
func Lookup(name string) (Pass, bool) {
	for _, p := range passes {
		if p.Name == name {
			return p, true
		}
	}
	return Pass{}, false
}

// Names lists pass names in priority order.
func Names() []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = p.Name
	}
	return out
}
