package lookup

import (
	"context"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/sententia/internal/morph"
	"github.com/dgallion1/sententia/internal/tokenize"
)

// Lexicon is a fixed word list loaded from YAML:
//
//	puella:
//	  - pos: N
//	    lemma: puella, puellae
//	    readings: [NOM S F, ABL S F, VOC S F]
//
// Keys are cleaned the same way tokens are, so "Puellā" and "puella" share
// an entry.
type Lexicon struct {
	entries map[string][]morph.CandidateParse
}

// LoadLexicon reads a YAML lexicon file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes YAML lexicon data.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var raw map[string][]morph.CandidateParse
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	lx := &Lexicon{entries: make(map[string][]morph.CandidateParse, len(raw))}
	for form, ps := range raw {
		key := tokenize.Clean(form)
		lx.entries[key] = append(lx.entries[key], ValidateParses(ps)...)
	}
	return lx, nil
}

// Len returns the number of forms.
func (lx *Lexicon) Len() int {
	return len(lx.entries)
}

func (lx *Lexicon) Lookup(_ context.Context, word string) ([]morph.CandidateParse, error) {
	return slices.Clone(lx.entries[tokenize.Clean(word)]), nil
}
