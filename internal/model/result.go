// Package model provides shared result types used across the engine,
// reporting, and CLI packages. It exists to keep those packages free of
// imports on each other.
package model

import "time"

// Status is the terminal verdict of executing one spec.
type Status string

const (
	StatusPassed           Status = "passed"
	StatusFailed           Status = "failed"
	StatusGenerateRequired Status = "generate_required"
)

// GenerateInfo describes a test artifact that does not exist yet and must
// be authored before the spec can run.
type GenerateInfo struct {
	TargetPath  string `json:"target_path"`
	Description string `json:"description,omitempty"`
	Framework   string `json:"framework,omitempty"`
	Command     string `json:"command"`
}

// SpecResult is the outcome of executing one spec. IDs are unique within a
// process run and monotonically increasing.
type SpecResult struct {
	ID       string
	Name     string
	Status   Status
	Output   string // captured stdout of the test command
	ExitCode int
	Error    string // failure reason, empty on success
	Duration time.Duration
	Generate *GenerateInfo // set only for StatusGenerateRequired
}

// RunSummary aggregates a result sequence.
type RunSummary struct {
	Total            int
	Passed           int
	Failed           int
	GenerateRequired int
	TotalDuration    time.Duration
}

// Summarize folds results into a RunSummary.
func Summarize(results []*SpecResult) RunSummary {
	var s RunSummary
	for _, r := range results {
		s.Total++
		switch r.Status {
		case StatusPassed:
			s.Passed++
		case StatusGenerateRequired:
			s.GenerateRequired++
		default:
			s.Failed++
		}
		s.TotalDuration += r.Duration
	}
	return s
}
