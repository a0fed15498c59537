package batch

import (
	"time"

	"github.com/kailas-cloud/cvdex/internal/domain/candidate"
)

// Run is the aggregated outcome of one analysis run: exactly one Result per file.
type Run struct {
	id         string
	startedAt  time.Time
	finishedAt time.Time
	results    []Result
}

// NewRun assembles a finished run.
func NewRun(id string, startedAt, finishedAt time.Time, results []Result) *Run {
	r := make([]Result, len(results))
	copy(r, results)
	return &Run{id: id, startedAt: startedAt, finishedAt: finishedAt, results: r}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// StartedAt returns when the run began.
func (r *Run) StartedAt() time.Time { return r.startedAt }

// FinishedAt returns when the last file completed.
func (r *Run) FinishedAt() time.Time { return r.finishedAt }

// Duration returns the wall time of the run.
func (r *Run) Duration() time.Duration { return r.finishedAt.Sub(r.startedAt) }

// Len returns the number of files in the run.
func (r *Run) Len() int { return len(r.results) }

// Results returns a copy of the per-file results in run order.
func (r *Run) Results() []Result {
	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

// Records projects the run onto one record per file, empty placeholders included.
func (r *Run) Records() []candidate.Record {
	out := make([]candidate.Record, len(r.results))
	for i, res := range r.results {
		out[i] = res.Record()
	}
	return out
}

// Count returns how many files finished with the given status.
func (r *Run) Count(status ItemStatus) int {
	n := 0
	for _, res := range r.results {
		if res.Status() == status {
			n++
		}
	}
	return n
}

// Find returns the result for fileName.
func (r *Run) Find(fileName string) (Result, bool) {
	for _, res := range r.results {
		if res.FileName() == fileName {
			return res, true
		}
	}
	return Result{}, false
}
