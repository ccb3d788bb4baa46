package pipeline

import (
	"sync"

	"github.com/finsent/newsradar/pkg/models"
)

const (
	statusIdle             = "Idle"
	statusScrapingLinks    = "Scraping links"
	statusScrapingArticles = "Scraping articles"
	statusAnalyzing        = "Analyzing sentiment"
	statusStopping         = "Stopping..."
)

// Tracker owns the live progress snapshot of the pipeline. Only the
// running worker writes to it; API handlers read copies. Readers may see
// a snapshot that is one update behind, which is acceptable.
type Tracker struct {
	mu    sync.RWMutex
	state models.PipelineStatus
}

// NewTracker creates a tracker in the idle state.
func NewTracker() *Tracker {
	return &Tracker{
		state: models.PipelineStatus{Status: statusIdle, CurrentTask: "N/A"},
	}
}

// Begin marks the start of a run.
func (t *Tracker) Begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = models.PipelineStatus{IsRunning: true, Status: statusIdle, CurrentTask: "N/A"}
}

// Reset returns the tracker to the idle state. Called on every run exit
// path.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = models.PipelineStatus{Status: statusIdle, CurrentTask: "N/A"}
}

// SetPhase switches the status line and restarts the progress counter.
func (t *Tracker) SetPhase(status string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Status = status
	t.state.Progress = 0
	t.state.Total = total
}

// SetStatus updates only the status line.
func (t *Tracker) SetStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Status = status
}

// SetProgress updates the progress counter.
func (t *Tracker) SetProgress(progress int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Progress = progress
}

// SetTask updates the human-readable current task line.
func (t *Tracker) SetTask(task string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.CurrentTask = task
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() models.PipelineStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}
