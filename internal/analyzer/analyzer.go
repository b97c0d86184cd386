// Package analyzer wires extraction, segmentation, caching, ranking and the
// answering model into the question pipeline, and owns the process-wide
// loaded-document state shared across requests.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgallion1/filingqa/internal/answer"
	"github.com/dgallion1/filingqa/internal/assemble"
	"github.com/dgallion1/filingqa/internal/config"
	"github.com/dgallion1/filingqa/internal/doccache"
	"github.com/dgallion1/filingqa/internal/extract"
	"github.com/dgallion1/filingqa/internal/rank"
	"github.com/dgallion1/filingqa/internal/segment"
)

// Analyzer answers questions about a single document.
type Analyzer struct {
	cfg    config.Config
	log    *slog.Logger
	client answer.Client
	cache  *doccache.Cache
	stats  *answer.Stats

	mu       sync.Mutex
	loaded   bool
	fullText string
	sections []segment.Section

	stale atomic.Bool
}

// New builds an Analyzer. The document is not loaded until Load or the first
// question.
func New(cfg config.Config, client answer.Client, log *slog.Logger) (*Analyzer, error) {
	seg, err := segment.FromFile(cfg.PatternsFile)
	if err != nil {
		return nil, fmt.Errorf("configure segmenter: %w", err)
	}
	return &Analyzer{
		cfg:    cfg,
		log:    log,
		client: client,
		cache:  doccache.New(cfg.CachePath, seg, log),
		stats:  answer.NewStats(time.Hour),
	}, nil
}

// Result is the outcome of one question.
type Result struct {
	Question          string
	Answer            string
	SectionsUsed      int
	NoRelevantContent bool
	Degraded          bool
	Duration          time.Duration
}

// Load extracts (or loads from cache) and segments the document. Safe to
// call concurrently; at most one load runs at a time.
func (a *Analyzer) Load() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadLocked()
}

func (a *Analyzer) loadLocked() error {
	text, sections, err := a.cache.LoadOrBuild(a.cfg.DocumentPath, func(path string) (string, error) {
		return extract.File(path, extract.Options{
			PDFFallbackPdftotext: a.cfg.PDFFallbackPdftotext,
		})
	})
	if err != nil {
		return err
	}
	a.fullText = text
	a.sections = sections
	a.loaded = true
	a.stale.Store(false)
	return nil
}

// snapshot returns the loaded document, initializing or refreshing it first
// when needed. After a failed reload, a previously loaded document keeps
// serving.
func (a *Analyzer) snapshot() (string, []segment.Section, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.loaded || a.stale.Load() {
		if err := a.loadLocked(); err != nil {
			if a.loaded {
				a.log.Warn("document reload failed, serving previous version", "error", err)
				return a.fullText, a.sections, nil
			}
			return "", nil, err
		}
	}
	return a.fullText, a.sections, nil
}

// Ask runs the full pipeline for one question. Failures of the answering
// model degrade into a textual answer rather than an error; only an
// unavailable document is an error.
func (a *Analyzer) Ask(ctx context.Context, question string) (Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Result{}, fmt.Errorf("question is required")
	}

	_, sections, err := a.snapshot()
	if err != nil {
		return Result{}, fmt.Errorf("load document: %w", err)
	}

	start := time.Now()

	selected := rank.Rank(sections, question, a.cfg.MaxSections)
	if len(selected) == 0 {
		return Result{
			Question:          question,
			Answer:            assemble.NoRelevantContent,
			NoRelevantContent: true,
			Duration:          time.Since(start),
		}, nil
	}

	docContext := assemble.Context(selected, a.cfg.SectionCharLimit, a.cfg.ContextCharLimit)

	callStart := time.Now()
	text, err := a.client.Answer(ctx, question, docContext)
	a.stats.Record(time.Since(callStart).Milliseconds())
	if err != nil {
		a.log.Error("answering call failed", "error", err)
		return Result{
			Question:     question,
			Answer:       "analysis error: " + err.Error(),
			SectionsUsed: len(selected),
			Degraded:     true,
			Duration:     time.Since(start),
		}, nil
	}

	return Result{
		Question:     question,
		Answer:       text,
		SectionsUsed: len(selected),
		Duration:     time.Since(start),
	}, nil
}

// DocStats describes the loaded document.
type DocStats struct {
	TotalSections   int
	TotalCharacters int
	Ready           bool
}

func (a *Analyzer) Stats() DocStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		return DocStats{}
	}
	return DocStats{
		TotalSections:   len(a.sections),
		TotalCharacters: len(a.fullText),
		Ready:           true,
	}
}

// LLMStats exposes answering-call latency aggregates.
func (a *Analyzer) LLMStats() *answer.Stats { return a.stats }

// ModelName identifies the answering model in use.
func (a *Analyzer) ModelName() string { return a.client.Model() }
