// Package engine drives the heuristic passes over one sentence and applies
// operator controls, stripping stale inferences when a word changes.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/sententia/internal/heuristics"
	"github.com/dgallion1/sententia/internal/sentence"
)

var (
	ErrIndexOutOfRange = errors.New("word index out of range")
	ErrNoSuchParse     = errors.New("no such candidate parse")
	ErrNoSuchReading   = errors.New("no such reading")
	ErrUnknownPass     = errors.New("unknown pass")
	ErrEmptyInference  = errors.New("empty inference id")
)

// DefaultRadius is the half-width of the neighborhood re-run after a single
// manual change.
const DefaultRadius = 4

// Checkpoint is called between passes of a bulk or range run.
type Checkpoint func(pass string, done, total int)

// Report summarizes one run.
type Report struct {
	Passes     int `json:"passes"`
	Changes    int `json:"changes"`
	Unresolved int `json:"unresolved"`
}

// Engine owns a sentence and is not safe for concurrent use; callers
// serialize access.
type Engine struct {
	s      *sentence.Sentence
	log    *slog.Logger
	radius int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRadius sets the incremental neighborhood half-width.
func WithRadius(r int) Option {
	return func(e *Engine) {
		if r > 0 {
			e.radius = r
		}
	}
}

// New wraps s.
func New(s *sentence.Sentence, opts ...Option) *Engine {
	e := &Engine{
		s:      s,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		radius: DefaultRadius,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sentence returns the sentence being resolved.
func (e *Engine) Sentence() *sentence.Sentence {
	return e.s
}

// RunAll runs every pass over the whole sentence in priority order. ctx is
// only checked between passes.
func (e *Engine) RunAll(ctx context.Context, cp Checkpoint) (Report, error) {
	return e.run(ctx, heuristics.Whole(e.s), heuristics.All(), cp)
}

// RunPass runs the named pass over the whole sentence.
func (e *Engine) RunPass(name string) (Report, error) {
	p, ok := heuristics.Lookup(name)
	if !ok {
		return Report{}, fmt.Errorf("%q: %w", name, ErrUnknownPass)
	}
	return e.run(context.Background(), heuristics.Whole(e.s), []heuristics.Pass{p}, nil)
}

// RunIncremental re-runs the preposition, possession and agreement tiers
// over the neighborhood of a changed word.
func (e *Engine) RunIncremental(changed int) (Report, error) {
	if !e.s.Valid(changed) {
		return Report{}, fmt.Errorf("run incremental %d: %w", changed, ErrIndexOutOfRange)
	}
	var ps []heuristics.Pass
	for _, p := range heuristics.All() {
		if p.Incremental() {
			ps = append(ps, p)
		}
	}
	v := heuristics.Range(e.s, changed-e.radius, changed+e.radius)
	return e.run(context.Background(), v, ps, nil)
}

// RunRange runs every pass restricted to [start, end].
func (e *Engine) RunRange(ctx context.Context, start, end int, cp Checkpoint) (Report, error) {
	if start > end || !e.s.Valid(start) || !e.s.Valid(end) {
		return Report{}, fmt.Errorf("run range [%d, %d]: %w", start, end, ErrIndexOutOfRange)
	}
	return e.run(ctx, heuristics.Range(e.s, start, end), heuristics.All(), cp)
}

func (e *Engine) run(ctx context.Context, v heuristics.View, ps []heuristics.Pass, cp Checkpoint) (Report, error) {
	var r Report
	for i, p := range ps {
		if err := ctx.Err(); err != nil {
			r.Unresolved = e.s.Unresolved()
			return r, err
		}
		n := p.Run(v)
		r.Passes++
		r.Changes += n
		e.log.Debug("pass complete", "pass", p.Name, "tier", p.Tier.String(), "changes", n, "lo", v.Lo, "hi", v.Hi)
		if cp != nil {
			cp(p.Name, i+1, len(ps))
		}
	}
	r.Unresolved = e.s.Unresolved()
	return r, nil
}
