package sentence

import (
	"fmt"
	"strconv"
	"strings"
)

// InferenceKind names the heuristic (or operator action) that produced a
// resolution, annotation or flag. Control logic switches on the kind; the
// rationale text next to it is for display only.
type InferenceKind string

const (
	KindManual InferenceKind = "manual"

	KindCopula       InferenceKind = "copula"
	KindInfinitive   InferenceKind = "infinitive"
	KindEnclitic     InferenceKind = "enclitic"
	KindIndeclinable InferenceKind = "indeclinable"

	KindPreposition       InferenceKind = "preposition"
	KindPrepositionCase   InferenceKind = "preposition-case"
	KindPrepositionObject InferenceKind = "prepositional-object"
	KindPrepositionScope  InferenceKind = "prepositional-scope"

	KindPossession InferenceKind = "possession"

	KindAdjectiveResolution InferenceKind = "adjective-resolution"
	KindAdjectiveAgreement  InferenceKind = "adjective-agreement"
	KindAdjacentAgreement   InferenceKind = "adjacent-agreement"
	KindApposition          InferenceKind = "apposition"

	KindSubject             InferenceKind = "subject"
	KindSubstantiveSubject  InferenceKind = "substantive-subject"
	KindDependentSubject    InferenceKind = "dependent-subject"
	KindPredicateNominative InferenceKind = "predicate-nominative"

	KindComplementaryInfinitive InferenceKind = "complementary-infinitive"
	KindAccusativeInfinitive    InferenceKind = "accusative-infinitive"
	KindIndirectObject          InferenceKind = "indirect-object"
	KindAblativeAbsolute        InferenceKind = "ablative-absolute"
	KindAblativeAgent           InferenceKind = "ablative-agent"
	KindAblativeMeans           InferenceKind = "ablative-means"
	KindRelativeAntecedent      InferenceKind = "relative-antecedent"
	KindPurposeClause           InferenceKind = "purpose-clause"
	KindTemporalClause          InferenceKind = "temporal-clause"
	KindComparativeClause       InferenceKind = "comparative-clause"
	KindVocative                InferenceKind = "vocative"
)

// Category is a bit set of the grammatical properties an inference relied
// on. Invalidation intersects it with what actually changed on a word.
type Category uint8

const (
	CatCase Category = 1 << iota
	CatGender
	CatNumber
	CatPerson
	CatPOS

	CatAll = CatCase | CatGender | CatNumber | CatPerson | CatPOS
)

var kindCategories = map[InferenceKind]Category{
	KindCopula:       CatPOS,
	KindInfinitive:   CatPOS,
	KindEnclitic:     CatPOS,
	KindIndeclinable: CatPOS,

	KindPreposition:       CatCase | CatPOS,
	KindPrepositionCase:   CatCase | CatPOS,
	KindPrepositionObject: CatCase | CatPOS,
	KindPrepositionScope:  CatCase | CatNumber | CatPOS,

	KindPossession: CatPOS,

	KindAdjectiveResolution: CatCase | CatGender | CatNumber | CatPOS,
	KindAdjectiveAgreement:  CatCase | CatGender | CatNumber | CatPOS,
	KindAdjacentAgreement:   CatCase | CatGender | CatNumber | CatPOS,
	KindApposition:          CatCase | CatPOS,

	KindSubject:             CatCase | CatNumber | CatPerson | CatPOS,
	KindSubstantiveSubject:  CatCase | CatNumber | CatPerson | CatPOS,
	KindDependentSubject:    CatCase | CatNumber | CatPerson | CatPOS,
	KindPredicateNominative: CatCase | CatNumber | CatPOS,

	KindComplementaryInfinitive: CatPOS,
	KindAccusativeInfinitive:    CatCase | CatPOS,
	KindIndirectObject:          CatCase | CatPOS,
	KindAblativeAbsolute:        CatCase | CatGender | CatNumber | CatPOS,
	KindAblativeAgent:           CatCase | CatPOS,
	KindAblativeMeans:           CatCase | CatPOS,
	KindRelativeAntecedent:      CatGender | CatNumber | CatPOS,
	KindPurposeClause:           CatPerson | CatPOS,
	KindTemporalClause:          CatPerson | CatPOS,
	KindComparativeClause:       CatPerson | CatPOS,
	KindVocative:                CatCase | CatPerson | CatPOS,
}

// Categories returns the properties the kind depends on. Unknown kinds
// depend on everything.
func (k InferenceKind) Categories() Category {
	if c, ok := kindCategories[k]; ok {
		return c
	}
	return CatAll
}

// Known reports whether k is one of the declared kinds.
func (k InferenceKind) Known() bool {
	if k == KindManual {
		return true
	}
	_, ok := kindCategories[k]
	return ok
}

// InferenceID identifies one inference on one word for the rejection
// ledger: the kind alone, or "<kind>-<index>" when the inference points at
// (or was derived from) another word.
type InferenceID string

// NoAnchor marks an inference that used no other word.
const NoAnchor = -1

// ID builds the identifier of kind anchored at index (NoAnchor for none).
func ID(kind InferenceKind, index int) InferenceID {
	if index < 0 {
		return InferenceID(kind)
	}
	return InferenceID(fmt.Sprintf("%s-%d", kind, index))
}

// Split recovers the kind and index from an identifier.
func (id InferenceID) Split() (InferenceKind, int) {
	s := string(id)
	if i := strings.LastIndex(s, "-"); i > 0 {
		if n, err := strconv.Atoi(s[i+1:]); err == nil && n >= 0 {
			return InferenceKind(s[:i]), n
		}
	}
	return InferenceKind(s), NoAnchor
}
