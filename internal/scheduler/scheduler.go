package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/finsent/newsradar/internal/pipeline"
	"github.com/finsent/newsradar/pkg/logger"
)

// Trigger starts a pipeline run with default options.
type Trigger interface {
	Trigger(opts pipeline.RunOptions) error
}

// Scheduler fires the pipeline once per day at a configurable HH:MM UTC.
// Reschedule swaps the cron entry at runtime.
type Scheduler struct {
	cron    *cron.Cron
	trigger Trigger

	mu      sync.Mutex
	entryID cron.EntryID
	hhmm    string
}

// New creates a scheduler firing at hhmm UTC each day. The cron loop is
// not started until Start is called.
func New(trigger Trigger, hhmm string) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		trigger: trigger,
	}

	if err := s.schedule(hhmm); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("scheduler started", zap.String("daily_at_utc", s.hhmm))
}

// Stop halts the cron loop; a pipeline run already in flight continues.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Reschedule moves the daily trigger to a new HH:MM UTC time.
func (s *Scheduler) Reschedule(hhmm string) error {
	if err := s.schedule(hhmm); err != nil {
		return err
	}
	logger.Info("scheduler rescheduled", zap.String("daily_at_utc", hhmm))
	return nil
}

func (s *Scheduler) schedule(hhmm string) error {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return fmt.Errorf("invalid schedule time %q, want HH:MM: %w", hhmm, err)
	}
	spec := fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
	}

	id, err := s.cron.AddFunc(spec, s.fire)
	if err != nil {
		return fmt.Errorf("add cron entry %q: %w", spec, err)
	}

	s.entryID = id
	s.hhmm = hhmm
	return nil
}

// fire triggers a run with default options. An already running pipeline
// is not an error for the schedule, just a skipped slot.
func (s *Scheduler) fire() {
	err := s.trigger.Trigger(pipeline.RunOptions{})
	if errors.Is(err, pipeline.ErrAlreadyRunning) {
		logger.Info("scheduled run skipped, pipeline already running")
		return
	}
	if err != nil {
		logger.Error("scheduled run failed to start", zap.Error(err))
		return
	}
	logger.Info("scheduled pipeline run started")
}
