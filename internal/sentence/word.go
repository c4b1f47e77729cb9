package sentence

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/dgallion1/sententia/internal/morph"
)

// AnnotationKind is the type of a directed edge between two words.
type AnnotationKind string

const (
	AnnotationModify     AnnotationKind = "modify"
	AnnotationPossession AnnotationKind = "possession"
	AnnotationScope      AnnotationKind = "preposition-scope"
)

// Annotation is an edge from its owning word to Target. For scope edges
// End is the last index the bracket covers.
type Annotation struct {
	Kind      AnnotationKind `json:"kind"`
	Target    int            `json:"target"`
	End       int            `json:"endIndex,omitempty"`
	Guessed   bool           `json:"guessed"`
	Inference InferenceKind  `json:"inference"`
	Rationale string         `json:"heuristic"`
}

// ID is the ledger identifier of the inference that created a.
func (a Annotation) ID() InferenceID {
	return ID(a.Inference, a.Target)
}

// Covers reports whether the edge relies on the word at i: its target, or
// any word inside a scope bracket.
func (a Annotation) Covers(i int) bool {
	if a.Kind == AnnotationScope && a.End > a.Target {
		return i >= a.Target && i <= a.End
	}
	return i == a.Target
}

// Override is an operator-supplied interpretation that bypasses lookup data.
type Override struct {
	POS     morph.PartOfSpeech `json:"pos"`
	Reading string             `json:"reading"`
}

// Word is one token of the sentence and its mutable resolution state.
type Word struct {
	ID         string                 `json:"id"`
	Index      int                    `json:"index"`
	Original   string                 `json:"original"`
	Clean      string                 `json:"clean"`
	Candidates []morph.CandidateParse `json:"candidates"`

	// Resolution. Selected is nil while the word is unresolved. Anchor is
	// only meaningful while Kind is set.
	Selected  *morph.CandidateParse `json:"selectedEntry,omitempty"`
	Reading   string                `json:"selectedReading,omitempty"`
	Guessed   bool                  `json:"guessed"`
	Kind      InferenceKind         `json:"inference,omitempty"`
	Anchor    int                   `json:"anchor"`
	Rationale string                `json:"heuristic,omitempty"`

	Annotations []Annotation `json:"annotations"`

	// Implicit "et" prepended for a -que enclitic.
	HasEt     bool `json:"hasEt"`
	EtGuessed bool `json:"etGuessed"`

	Override *Override `json:"manualOverride,omitempty"`

	rejected   map[InferenceID]struct{}
	dependents map[int]struct{}
}

// NewWord creates an unresolved word with a fresh identity.
func NewWord(index int, original, clean string, candidates []morph.CandidateParse) *Word {
	return &Word{
		ID:         uuid.New().String(),
		Index:      index,
		Original:   original,
		Clean:      clean,
		Candidates: candidates,
		Anchor:     NoAnchor,
		rejected:   make(map[InferenceID]struct{}),
		dependents: make(map[int]struct{}),
	}
}

// Resolved reports whether the word has a selected interpretation.
func (w *Word) Resolved() bool {
	return w.Selected != nil
}

// Manual reports whether the resolution was chosen by the operator.
func (w *Word) Manual() bool {
	return w.Selected != nil && !w.Guessed
}

// Unknown reports whether lookup produced nothing for this word.
func (w *Word) Unknown() bool {
	return len(w.Candidates) == 0 && w.Override == nil
}

// Resolve sets the word's interpretation.
func (w *Word) Resolve(parse morph.CandidateParse, reading string, guessed bool, kind InferenceKind, anchor int, rationale string) {
	p := parse
	w.Selected = &p
	w.Reading = reading
	w.Guessed = guessed
	w.Kind = kind
	w.Anchor = anchor
	w.Rationale = rationale
}

// ClearResolution drops the interpretation; the override record is kept.
func (w *Word) ClearResolution() {
	w.Selected = nil
	w.Reading = ""
	w.Guessed = false
	w.Kind = ""
	w.Anchor = NoAnchor
	w.Rationale = ""
}

// ResolutionID is the ledger identifier of the current resolution.
func (w *Word) ResolutionID() InferenceID {
	return ID(w.Kind, w.Anchor)
}

// Features decodes the selected reading; zero when unresolved.
func (w *Word) Features() morph.Features {
	if w.Selected == nil {
		return morph.Features{}
	}
	return morph.ParseReading(w.Reading)
}

// HasAnnotation reports whether an edge of kind to target already exists.
func (w *Word) HasAnnotation(kind AnnotationKind, target int) bool {
	for _, a := range w.Annotations {
		if a.Kind == kind && a.Target == target {
			return true
		}
	}
	return false
}

// RemoveAnnotations deletes every annotation for which drop returns true
// and returns the removed edges.
func (w *Word) RemoveAnnotations(drop func(Annotation) bool) []Annotation {
	var kept, removed []Annotation
	for _, a := range w.Annotations {
		if drop(a) {
			removed = append(removed, a)
		} else {
			kept = append(kept, a)
		}
	}
	w.Annotations = kept
	return removed
}

// Reject records id in the word's rejection ledger.
func (w *Word) Reject(id InferenceID) {
	w.ensureSets()
	w.rejected[id] = struct{}{}
}

// IsRejected reports whether the operator rejected id on this word.
func (w *Word) IsRejected(id InferenceID) bool {
	_, ok := w.rejected[id]
	return ok
}

// ClearRejections empties the ledger.
func (w *Word) ClearRejections() {
	w.rejected = make(map[InferenceID]struct{})
}

// Rejections returns the ledger sorted.
func (w *Word) Rejections() []InferenceID {
	out := make([]InferenceID, 0, len(w.rejected))
	for id := range w.rejected {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AddDependent records that word i's state was inferred from this word.
func (w *Word) AddDependent(i int) {
	w.ensureSets()
	w.dependents[i] = struct{}{}
}

// RemoveDependent drops i from the dependent set.
func (w *Word) RemoveDependent(i int) {
	delete(w.dependents, i)
}

// HasDependent reports whether i depends on this word.
func (w *Word) HasDependent(i int) bool {
	_, ok := w.dependents[i]
	return ok
}

// Dependents returns the dependent indices in increasing order.
func (w *Word) Dependents() []int {
	out := make([]int, 0, len(w.dependents))
	for i := range w.dependents {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (w *Word) clearDependents() {
	w.dependents = make(map[int]struct{})
}

func (w *Word) ensureSets() {
	if w.rejected == nil {
		w.rejected = make(map[InferenceID]struct{})
	}
	if w.dependents == nil {
		w.dependents = make(map[int]struct{})
	}
}

// wordJSON is the persisted form: sets become sorted arrays.
type wordJSON struct {
	*wordAlias
	Rejected   []InferenceID `json:"rejectedHeuristics"`
	Dependents []int         `json:"dependentWords"`
}

type wordAlias Word

func (w *Word) MarshalJSON() ([]byte, error) {
	annotations := w.Annotations
	if annotations == nil {
		annotations = []Annotation{}
	}
	alias := wordAlias(*w)
	alias.Annotations = annotations
	return json.Marshal(wordJSON{
		wordAlias:  &alias,
		Rejected:   w.Rejections(),
		Dependents: w.Dependents(),
	})
}

func (w *Word) UnmarshalJSON(data []byte) error {
	aux := wordJSON{wordAlias: (*wordAlias)(w)}
	w.Anchor = NoAnchor
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	w.rejected = make(map[InferenceID]struct{}, len(aux.Rejected))
	for _, id := range aux.Rejected {
		w.rejected[id] = struct{}{}
	}
	w.dependents = make(map[int]struct{}, len(aux.Dependents))
	for _, i := range aux.Dependents {
		w.dependents[i] = struct{}{}
	}
	return nil
}
