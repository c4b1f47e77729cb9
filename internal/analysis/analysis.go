// Package analysis runs sentences through tokenizing, dictionary lookup and
// the heuristic engine on a worker pool, and keeps the resulting sessions
// for operators to refine.
package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/sententia/internal/engine"
	"github.com/dgallion1/sententia/internal/sentence"
)

// Status represents the state of an analysis.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusTokenizing Status = "tokenizing"
	StatusLookingUp  Status = "looking_up"
	StatusResolving  Status = "resolving"
	StatusReady      Status = "ready"
	StatusPartial    Status = "partial"
	StatusFailed     Status = "failed"
)

var (
	ErrNotFound   = errors.New("analysis not found")
	ErrNotReady   = errors.New("analysis not ready")
	ErrQueueFull  = errors.New("analysis queue is full")
	ErrEmptyText  = errors.New("no text to analyze")
	ErrNoSentence = errors.New("document contains no sentences")
)

// Analysis is one sentence under resolution.
type Analysis struct {
	mu sync.Mutex

	ID         string
	Title      string
	Text       string
	Breadcrumb []string
	Source     int

	status    Status
	phase     string
	progress  Progress
	report    engine.Report
	createdAt time.Time
	updatedAt time.Time

	engine *engine.Engine
	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	Tokens         int      `json:"tokens"`
	TokensLookedUp int      `json:"tokens_looked_up"`
	UnknownWords   int      `json:"unknown_words"`
	PassesRun      int      `json:"passes_run"`
	PassesTotal    int      `json:"passes_total"`
	Unresolved     int      `json:"unresolved"`
	Errors         []string `json:"errors"`
}

// Request describes text to analyze.
type Request struct {
	Title      string
	Text       string
	Breadcrumb []string
	Source     int
}

func newAnalysis(req Request, now time.Time) *Analysis {
	return &Analysis{
		ID:         generateULID(),
		Title:      req.Title,
		Text:       req.Text,
		Breadcrumb: req.Breadcrumb,
		Source:     req.Source,
		status:     StatusQueued,
		phase:      "queued",
		createdAt:  now,
		updatedAt:  now,
	}
}

// SetStatus updates status atomically.
func (a *Analysis) SetStatus(status Status, phase string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
	a.phase = phase
	a.updatedAt = time.Now()
}

// Status returns the current status.
func (a *Analysis) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// AddError records an error.
func (a *Analysis) AddError(err string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors = append(a.errors, err)
	a.updatedAt = time.Now()
}

func (a *Analysis) setTokens(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progress.Tokens = n
	a.updatedAt = time.Now()
}

func (a *Analysis) lookedUp(unknown bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progress.TokensLookedUp++
	if unknown {
		a.progress.UnknownWords++
	}
	a.updatedAt = time.Now()
}

func (a *Analysis) passDone(done, total int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progress.PassesRun = done
	a.progress.PassesTotal = total
	a.updatedAt = time.Now()
}

// attach hands the resolved engine to operators.
func (a *Analysis) attach(e *engine.Engine, r engine.Report, status Status) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine = e
	a.report = r
	a.progress.Unresolved = r.Unresolved
	a.status = status
	a.phase = "done"
	a.updatedAt = time.Now()
}

// Do runs fn with exclusive access to the engine. It fails with ErrNotReady
// until the first bulk run has finished.
func (a *Analysis) Do(fn func(*engine.Engine) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.engine == nil {
		return fmt.Errorf("analysis %s is %s: %w", a.ID, a.status, ErrNotReady)
	}
	err := fn(a.engine)
	a.progress.Unresolved = a.engine.Sentence().Unresolved()
	a.updatedAt = time.Now()
	return err
}

// Encode returns the saved-document form of the sentence.
func (a *Analysis) Encode(now time.Time) ([]byte, error) {
	var data []byte
	err := a.Do(func(e *engine.Engine) error {
		var err error
		data, err = sentence.Encode(e.Sentence(), now)
		return err
	})
	return data, err
}

// Snapshot is a read-only, JSON-safe copy of analysis state.
type Snapshot struct {
	ID         string          `json:"analysis_id"`
	Title      string          `json:"title"`
	Text       string          `json:"text"`
	Breadcrumb []string        `json:"breadcrumb,omitempty"`
	Source     int             `json:"source,omitempty"`
	Status     Status          `json:"status"`
	Phase      string          `json:"phase"`
	Progress   Progress        `json:"progress"`
	Report     engine.Report   `json:"report"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Sentence   json.RawMessage `json:"sentence,omitempty"`
}

// Snapshot returns a JSON-safe copy of the analysis. The sentence document
// is encoded while the lock is held.
func (a *Analysis) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	errs := make([]string, len(a.errors))
	copy(errs, a.errors)
	p := a.progress
	p.Errors = errs
	snap := Snapshot{
		ID:         a.ID,
		Title:      a.Title,
		Text:       a.Text,
		Breadcrumb: a.Breadcrumb,
		Source:     a.Source,
		Status:     a.status,
		Phase:      a.phase,
		Progress:   p,
		Report:     a.report,
		CreatedAt:  a.createdAt,
		UpdatedAt:  a.updatedAt,
	}
	if a.engine != nil {
		if data, err := sentence.Encode(a.engine.Sentence(), a.updatedAt); err == nil {
			snap.Sentence = data
		}
	}
	return snap
}

func (a *Analysis) lastUpdate() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.updatedAt
}
