// Package lookup turns cleaned word forms into candidate parses. A word the
// dictionary does not know yields no parses and no error.
package lookup

import (
	"context"
	"errors"

	"github.com/dgallion1/sententia/internal/morph"
)

// Lookup resolves one cleaned word form.
type Lookup interface {
	Lookup(ctx context.Context, word string) ([]morph.CandidateParse, error)
}

// Func adapts a function to Lookup.
type Func func(ctx context.Context, word string) ([]morph.CandidateParse, error)

func (f Func) Lookup(ctx context.Context, word string) ([]morph.CandidateParse, error) {
	return f(ctx, word)
}

// Chain asks each lookup in turn and returns the first non-empty answer.
// A failing lookup is skipped; its error is returned only when no later
// lookup knows the word.
type Chain []Lookup

func (c Chain) Lookup(ctx context.Context, word string) ([]morph.CandidateParse, error) {
	var errs []error
	for _, l := range c {
		ps, err := l.Lookup(ctx, word)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if len(ps) > 0 {
			return ps, nil
		}
	}
	return nil, errors.Join(errs...)
}
