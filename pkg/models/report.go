package models

import (
	"time"
)

// OutcomeAction is what the executor actually did with a file
type OutcomeAction string

const (
	// OutcomeCopied means content and metadata were copied
	OutcomeCopied OutcomeAction = "copied"
	// OutcomeValidated means an existing copy was only checked
	OutcomeValidated OutcomeAction = "validated"
	// OutcomeSkipped means the file was left alone
	OutcomeSkipped OutcomeAction = "skipped"
)

// SyncOutcome is the execution result for one decision
type SyncOutcome struct {
	RelativePath string
	Direction    Direction
	Action       OutcomeAction
	Succeeded    bool
	Kind         ErrorKind
	Err          error
	BytesCopied  int64
	Duration     time.Duration
}

// PairSummary accumulates the outcomes of one executed decision list
type PairSummary struct {
	TotalConsidered int
	Succeeded       int
	Outcomes        []SyncOutcome
}

// Failed returns the outcomes that did not succeed
func (s *PairSummary) Failed() []SyncOutcome {
	var failed []SyncOutcome
	for _, o := range s.Outcomes {
		if !o.Succeeded {
			failed = append(failed, o)
		}
	}
	return failed
}

// Count returns the number of successful outcomes with the given action
func (s *PairSummary) Count(action OutcomeAction) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Succeeded && o.Action == action {
			n++
		}
	}
	return n
}

// BytesCopied sums the bytes copied across all outcomes
func (s *PairSummary) BytesCopied() int64 {
	var total int64
	for _, o := range s.Outcomes {
		total += o.BytesCopied
	}
	return total
}

// RunState tracks a pair through one run
type RunState string

const (
	StateIdle      RunState = "idle"
	StateScanning  RunState = "scanning"
	StateExecuting RunState = "executing"
	StateCompleted RunState = "completed"
	StateFailed    RunState = "failed"
	StateCancelled RunState = "cancelled"
)

// PairReport is the result of running one folder pair
type PairReport struct {
	ID    string
	Pair  FolderPair
	State RunState

	// Summary is nil when the pair failed before execution
	Summary *PairSummary

	// Err is the pair-level failure, if any
	Err error

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// FileError is a per-file failure surfaced in the run summary
type FileError struct {
	Pair    FolderPair `json:"pair"`
	Path    string     `json:"path"`
	Kind    ErrorKind  `json:"kind"`
	Message string     `json:"message"`
}

// PairFailure is a pair-level failure surfaced in the run summary
type PairFailure struct {
	Pair    FolderPair `json:"pair"`
	Kind    ErrorKind  `json:"kind"`
	Message string     `json:"message"`
}

// RunSummary aggregates every pair of one run
type RunSummary struct {
	ID       string
	TwoWay   bool
	Validate bool

	Pairs []*PairReport

	// TotalFiles counts every decision considered across pairs
	TotalFiles int
	// CopiedOrValidated counts successful copies and validations
	CopiedOrValidated int

	Errors       []FileError
	PairFailures []PairFailure

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	Status SyncStatus
}

// Add folds a pair report into the run totals
func (r *RunSummary) Add(report *PairReport) {
	r.Pairs = append(r.Pairs, report)

	if report.Err != nil {
		r.PairFailures = append(r.PairFailures, PairFailure{
			Pair:    report.Pair,
			Kind:    KindOf(report.Err),
			Message: report.Err.Error(),
		})
	}

	if report.Summary == nil {
		return
	}

	r.TotalFiles += report.Summary.TotalConsidered
	r.CopiedOrValidated += report.Summary.Count(OutcomeCopied) + report.Summary.Count(OutcomeValidated)
	for _, o := range report.Summary.Failed() {
		msg := ""
		if o.Err != nil {
			msg = o.Err.Error()
		}
		r.Errors = append(r.Errors, FileError{
			Pair:    report.Pair,
			Path:    o.RelativePath,
			Kind:    o.Kind,
			Message: msg,
		})
	}
}

// Finalize stamps the end time and derives the overall status
func (r *RunSummary) Finalize(cancelled bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)

	switch {
	case cancelled:
		r.Status = StatusCancelled
	case len(r.Errors) == 0 && len(r.PairFailures) == 0:
		r.Status = StatusSuccess
	case len(r.PairFailures) == len(r.Pairs) && len(r.Pairs) > 0:
		r.Status = StatusFailed
	default:
		r.Status = StatusPartial
	}
}

// SyncStatus represents the overall result
type SyncStatus string

const (
	// StatusSuccess indicates all operations completed successfully
	StatusSuccess SyncStatus = "success"
	// StatusPartial indicates some operations failed
	StatusPartial SyncStatus = "partial"
	// StatusFailed indicates every pair failed
	StatusFailed SyncStatus = "failed"
	// StatusCancelled indicates the operation was cancelled
	StatusCancelled SyncStatus = "cancelled"
)

// ExitCode returns the appropriate exit code for the sync status
func (s SyncStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 1
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
