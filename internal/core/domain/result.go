package domain

import "time"

// Status is the reported outcome of a single item.
type Status string

const (
	StatusUpToDate Status = "up to date"
	StatusCompiled Status = "compiled"
	StatusFailed   Status = "failed"
)

// ItemResult is the outcome of processing one source.
type ItemResult struct {
	Directive Directive
	Status    Status
	Err       error
	Duration  time.Duration
}

// Summary aggregates the results of a run.
type Summary struct {
	Results []ItemResult
}

// Add appends a result.
func (s *Summary) Add(r ItemResult) {
	s.Results = append(s.Results, r)
}

// Count returns the number of results with the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failed returns the failed results in processing order.
func (s *Summary) Failed() []ItemResult {
	var failed []ItemResult
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Total returns the number of processed items.
func (s *Summary) Total() int {
	return len(s.Results)
}
