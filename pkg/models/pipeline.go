package models

import "time"

// Pipeline run terminal statuses. A failed run records "Failed: <reason>".
const (
	RunStatusCompleted = "Completed"
	RunStatusStopped   = "Stopped by user"
)

// PipelineRun aggregates the statistics of one end-to-end pipeline
// execution. Exactly one row is written per controller invocation,
// whether the run completed, was stopped, or failed.
type PipelineRun struct {
	ID               int64     `json:"id" db:"id"`
	RunTimestamp     time.Time `json:"run_timestamp" db:"run_timestamp"`
	NewLinksFound    int       `json:"new_links_found" db:"new_links_found"`
	ArticlesScraped  int       `json:"articles_scraped" db:"articles_scraped"`
	EntitiesAnalyzed int       `json:"entities_analyzed" db:"entities_analyzed"`
	Status           string    `json:"status" db:"status"`
}

// PipelineStatus is the live progress snapshot of the current (or idle)
// pipeline. Written only by the running worker, read by API handlers;
// readers may observe a slightly stale snapshot.
type PipelineStatus struct {
	IsRunning   bool   `json:"is_running"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	Total       int    `json:"total"`
	CurrentTask string `json:"current_task"`
}
