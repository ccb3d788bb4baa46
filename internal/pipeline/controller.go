package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/finsent/newsradar/pkg/logger"
	"github.com/finsent/newsradar/pkg/models"
)

// RunOptions carries per-run overrides from the trigger request. Empty
// fields fall back to configured defaults inside the extractor factory.
type RunOptions struct {
	Provider  string
	ModelName string
	APIKey    string
	Scrapers  []string
}

// ExtractorFactory builds the extractor for one run from its options.
type ExtractorFactory func(opts RunOptions) (Extractor, error)

// ScraperRegistry resolves a run's scraper selection. An empty selection
// means all registered scrapers.
type ScraperRegistry interface {
	Select(names []string) []Scraper
}

// Controller owns the single-run lifecycle: at most one pipeline run
// exists at a time, concurrent triggers are rejected, and every exit
// path releases the run slot.
type Controller struct {
	repo         Repository
	scrapers     ScraperRegistry
	newExtractor ExtractorFactory
	notifier     Notifier
	tracker      *Tracker

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewController wires the pipeline controller. notifier may be nil.
func NewController(repo Repository, scrapers ScraperRegistry, newExtractor ExtractorFactory, notifier Notifier) *Controller {
	return &Controller{
		repo:         repo,
		scrapers:     scrapers,
		newExtractor: newExtractor,
		notifier:     notifier,
		tracker:      NewTracker(),
	}
}

// Trigger starts a run in the background. It returns ErrAlreadyRunning
// while a run is in progress; a second trigger is never queued.
func (c *Controller) Trigger(opts RunOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return ErrAlreadyRunning
	}

	extractor, err := c.newExtractor(opts)
	if err != nil {
		return fmt.Errorf("build extractor: %w", err)
	}

	scrapers := c.scrapers.Select(opts.Scrapers)

	ctx, cancel := context.WithCancel(context.Background())
	c.running = true
	c.cancel = cancel
	c.tracker.Begin()

	logger.Info("pipeline run triggered",
		zap.String("provider", extractor.ProviderName()),
		zap.Int("scrapers", len(scrapers)),
	)

	go c.run(ctx, scrapers, extractor)

	return nil
}

// Stop requests cooperative cancellation of the current run. The run
// keeps its slot until the in-flight operation returns.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return ErrNotRunning
	}

	c.cancel()
	c.tracker.SetStatus(statusStopping)
	logger.Info("pipeline stop requested")
	return nil
}

// Status returns a copy of the live progress snapshot.
func (c *Controller) Status() models.PipelineStatus {
	return c.tracker.Snapshot()
}

// run executes both stages and records the terminal run row. It is the
// only writer of the tracker while active.
func (c *Controller) run(ctx context.Context, scrapers []Scraper, extractor Extractor) {
	started := time.Now().UTC()

	var (
		scrape  scrapeStats
		analyze analyzeStats
		status  = models.RunStatusCompleted
		err     error
	)

	defer func() {
		if r := recover(); r != nil {
			status = fmt.Sprintf("Failed: %v", r)
			logger.Error("pipeline run panicked", zap.Any("panic", r))
		}
		c.finish(started, scrape, analyze, status)
	}()

	scrape, err = runScrapeStage(ctx, c.repo, scrapers, c.tracker)
	if err != nil {
		status = fmt.Sprintf("Failed: %v", err)
		logger.Error("scrape stage failed", zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		status = models.RunStatusStopped
		return
	}

	analyze, err = runAnalysisStage(ctx, c.repo, extractor, c.tracker)
	if err != nil {
		status = fmt.Sprintf("Failed: %v", err)
		logger.Error("analysis stage failed", zap.Error(err))
		return
	}
	if ctx.Err() != nil {
		status = models.RunStatusStopped
		return
	}
}

// finish persists the run record, fires the notifier, and releases the
// run slot. It runs on every exit path, panics included, and uses a
// background context because the run context may already be cancelled.
func (c *Controller) finish(started time.Time, scrape scrapeStats, analyze analyzeStats, status string) {
	run := models.PipelineRun{
		RunTimestamp:     started,
		NewLinksFound:    scrape.NewLinksFound,
		ArticlesScraped:  scrape.ArticlesScraped,
		EntitiesAnalyzed: analyze.EntitiesAnalyzed,
		Status:           status,
	}

	ctx, cancelWrite := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelWrite()

	if err := c.repo.AddPipelineRun(ctx, run); err != nil {
		logger.Error("failed to record pipeline run", zap.Error(err))
	}

	if c.notifier != nil {
		if err := c.notifier.NotifyRunFinished(ctx, run); err != nil {
			logger.Warn("run notification failed", zap.Error(err))
		}
	}

	logger.Info("pipeline run finished",
		zap.String("status", status),
		zap.Int("new_links", scrape.NewLinksFound),
		zap.Int("articles_scraped", scrape.ArticlesScraped),
		zap.Int("entities_analyzed", analyze.EntitiesAnalyzed),
	)

	// Reset before releasing the slot: a Trigger accepted right after the
	// unlock calls tracker.Begin(), and a late Reset would clobber it.
	c.mu.Lock()
	c.tracker.Reset()
	c.running = false
	c.cancel = nil
	c.mu.Unlock()
}
