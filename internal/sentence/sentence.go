// Package sentence holds the word arena the heuristic passes mutate: words
// addressed by stable index, annotation edges and dependency edges that
// reference positions rather than pointers, and the per-word rejection
// ledger.
package sentence

// Sentence is a flat, stably indexed sequence of words.
type Sentence struct {
	Input string
	Words []*Word
}

// New builds a sentence and renumbers the words to their slot positions.
func New(input string, words []*Word) *Sentence {
	for i, w := range words {
		w.Index = i
		w.ensureSets()
	}
	return &Sentence{Input: input, Words: words}
}

// Len returns the number of words.
func (s *Sentence) Len() int {
	return len(s.Words)
}

// Valid reports whether i addresses a word.
func (s *Sentence) Valid(i int) bool {
	return i >= 0 && i < len(s.Words)
}

// At returns the word at i, or nil when i is out of range.
func (s *Sentence) At(i int) *Word {
	if !s.Valid(i) {
		return nil
	}
	return s.Words[i]
}

// AddDependency records that the word at dependent was inferred using the
// word at on. Out-of-range or self edges are ignored.
func (s *Sentence) AddDependency(on, dependent int) {
	if on == dependent || !s.Valid(on) || !s.Valid(dependent) {
		return
	}
	s.Words[on].AddDependent(dependent)
}

// AddAnnotationDependencies records that the edge a owned by the word at
// owner relies on every word it covers.
func (s *Sentence) AddAnnotationDependencies(owner int, a Annotation) {
	end := a.Target
	if a.Kind == AnnotationScope && a.End > end {
		end = a.End
	}
	for i := a.Target; i <= end; i++ {
		s.AddDependency(i, owner)
	}
}

// RebuildDependencies recomputes every dependency edge from the resolution
// anchors and annotations currently present.
func (s *Sentence) RebuildDependencies() {
	for _, w := range s.Words {
		w.clearDependents()
	}
	for _, w := range s.Words {
		if w.Resolved() && w.Kind != "" && w.Anchor != NoAnchor {
			s.AddDependency(w.Anchor, w.Index)
		}
		for _, a := range w.Annotations {
			s.AddAnnotationDependencies(w.Index, a)
		}
	}
}

// Unresolved counts words that have candidates but no selection.
func (s *Sentence) Unresolved() int {
	n := 0
	for _, w := range s.Words {
		if !w.Resolved() && !w.Unknown() {
			n++
		}
	}
	return n
}
