package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dgallion1/sententia/internal/config"
	"github.com/dgallion1/sententia/internal/engine"
	"github.com/dgallion1/sententia/internal/importer"
	"github.com/dgallion1/sententia/internal/lookup"
	"github.com/dgallion1/sententia/internal/sentence"
	"github.com/dgallion1/sententia/internal/tokenize"
)

// Orchestrator manages the analysis worker pool and the session store.
type Orchestrator struct {
	analyses *Store
	queue    chan *Analysis
	lookup   lookup.Lookup
	log      *slog.Logger
	cfg      config.Config
	cron     *cron.Cron

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, lk lookup.Lookup, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		analyses: NewStore(cfg.SessionTTL),
		queue:    make(chan *Analysis, cfg.MaxQueueSize),
		lookup:   lk,
		log:      log,
		cfg:      cfg,
		cron:     cron.New(),
	}
}

// Start launches worker goroutines and schedules the idle-session sweep.
func (o *Orchestrator) Start(ctx context.Context) error {
	schedule, err := cron.ParseStandard(o.cfg.CleanupSchedule)
	if err != nil {
		return fmt.Errorf("cleanup schedule %q: %w", o.cfg.CleanupSchedule, err)
	}

	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.lookup, o.log, o.cfg.MaxConcurrentLookup, o.cfg.IncrementalRadius)
			for {
				select {
				case <-workerCtx.Done():
					return
				case a, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, a)
				}
			}
		}()
	}

	o.cron.Schedule(schedule, cron.FuncJob(func() {
		if n := o.analyses.Cleanup(); n > 0 {
			o.log.Info("evicted idle analyses", "count", n)
		}
	}))
	o.cron.Start()
	return nil
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	<-o.cron.Stop().Done()
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues text for analysis.
func (o *Orchestrator) Submit(req Request) (*Analysis, error) {
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return nil, ErrEmptyText
	}
	a := newAnalysis(req, time.Now())
	o.analyses.Put(a)
	select {
	case o.queue <- a:
		o.log.Info("analysis queued", "analysis_id", a.ID, "title", a.Title)
		return a, nil
	default:
		a.AddError("queue full")
		a.SetStatus(StatusFailed, "queue_full")
		return a, fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// Import splits a document into sentences and queues each one. When the
// queue fills, the analyses queued so far are returned with the error.
func (o *Orchestrator) Import(r io.Reader, filename, title string) ([]*Analysis, error) {
	imp, err := importer.ForFile(filename)
	if err != nil {
		return nil, err
	}
	if p, ok := imp.(*importer.PDFImporter); ok {
		p.FallbackPdftotext = o.cfg.PDFFallbackPdftotext
	}
	tree, err := imp.Import(r, filename)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", filename, err)
	}
	if title != "" {
		tree.Title = title
	}

	spans := tokenize.Spans(tree, o.cfg.MaxSentencesPerUpload)
	if len(spans) == 0 {
		return nil, ErrNoSentence
	}
	o.log.Info("document imported", "filename", filename, "sentences", len(spans))

	var out []*Analysis
	for i, sp := range spans {
		a, err := o.Submit(Request{
			Title:      fmt.Sprintf("%s #%d", tree.Title, i+1),
			Text:       sp.Text,
			Breadcrumb: sp.Breadcrumb,
			Source:     sp.Source,
		})
		if errors.Is(err, ErrQueueFull) {
			return out, err
		}
		if err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Open registers an already built sentence, such as a loaded save, as a
// ready analysis. No passes are run.
func (o *Orchestrator) Open(title string, s *sentence.Sentence) *Analysis {
	a := newAnalysis(Request{Title: title, Text: s.Input}, time.Now())
	log := o.log.With("analysis_id", a.ID)
	e := engine.New(s, engine.WithLogger(log), engine.WithRadius(o.cfg.IncrementalRadius))
	a.setTokens(s.Len())
	a.attach(e, engine.Report{Unresolved: s.Unresolved()}, StatusReady)
	o.analyses.Put(a)
	log.Info("analysis opened", "title", title, "words", s.Len())
	return a
}

// Get returns an analysis by id.
func (o *Orchestrator) Get(id string) (*Analysis, error) {
	a := o.analyses.Get(id)
	if a == nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return a, nil
}

// Close discards an analysis.
func (o *Orchestrator) Close(id string) error {
	if !o.analyses.Delete(id) {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// List returns every live analysis, oldest first.
func (o *Orchestrator) List() []*Analysis {
	return o.analyses.List()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
