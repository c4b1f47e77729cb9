package sentence

import (
	"encoding/json"
	"fmt"
	"time"
)

// DocumentVersion is the only persisted layout understood by Decode.
const DocumentVersion = 1

// Document is the durable form of a sentence's engine state.
type Document struct {
	Version   int       `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Input     string    `json:"input"`
	Words     []*Word   `json:"words"`
}

// Document snapshots the sentence for saving.
func (s *Sentence) Document(now time.Time) Document {
	return Document{
		Version:   DocumentVersion,
		Timestamp: now.UTC(),
		Input:     s.Input,
		Words:     s.Words,
	}
}

// Encode marshals the sentence as a version-1 document.
func Encode(s *Sentence, now time.Time) ([]byte, error) {
	data, err := json.Marshal(s.Document(now))
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// Decode parses a saved document and rebuilds the sentence. Annotations
// whose target or scope end fall outside the sentence are dropped, as are
// such dependency indices.
func Decode(data []byte) (*Sentence, time.Time, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode document: %w", err)
	}
	if doc.Version != DocumentVersion {
		return nil, time.Time{}, fmt.Errorf("unsupported document version %d", doc.Version)
	}
	for i, w := range doc.Words {
		if w == nil {
			return nil, time.Time{}, fmt.Errorf("decode document: word %d is null", i)
		}
	}
	s := New(doc.Input, doc.Words)
	for _, w := range s.Words {
		w.RemoveAnnotations(func(a Annotation) bool {
			return !s.Valid(a.Target) || (a.Kind == AnnotationScope && !s.Valid(a.End))
		})
		for _, d := range w.Dependents() {
			if !s.Valid(d) {
				w.RemoveDependent(d)
			}
		}
	}
	return s, doc.Timestamp, nil
}
