package scheduler

import (
	"context"
	"time"
)

const historyLimit = 100

// Job is a unit of scheduled work
// ⭐ SSOT: scheduled work implements this interface and nothing else
type Job interface {
	Name() string

	Run(ctx context.Context) error

	// Schedule is a cron expression, with an optional seconds field,
	// or a descriptor such as "@daily"
	Schedule() string
}

// JobResult is one execution of a job
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Attempts  int           `json:"attempts"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the most recent results of one job, oldest first
type JobHistory struct {
	Results []JobResult
}

// Add records a result, dropping the oldest beyond the limit
func (h *JobHistory) Add(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historyLimit {
		h.Results = h.Results[len(h.Results)-historyLimit:]
	}
}

// Latest returns up to n newest results, oldest first
func (h *JobHistory) Latest(n int) []JobResult {
	if n > len(h.Results) {
		n = len(h.Results)
	}
	out := make([]JobResult, n)
	copy(out, h.Results[len(h.Results)-n:])
	return out
}

// Failures counts failed results
func (h *JobHistory) Failures() int {
	failed := 0
	for _, r := range h.Results {
		if !r.Success {
			failed++
		}
	}
	return failed
}

// SuccessRate is in [0, 1]; zero without results
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0
	}
	return float64(len(h.Results)-h.Failures()) / float64(len(h.Results))
}
