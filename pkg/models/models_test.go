package models

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestSyncDecisionEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		decision SyncDecision
		from     string
		to       string
	}{
		{
			name:     "CopyForward",
			decision: SyncDecision{Action: ActionCopyForward, Direction: DirectionForward, SourcePath: "/s/a", TargetPath: "/t/a"},
			from:     "/s/a",
			to:       "/t/a",
		},
		{
			name:     "CopyBackward",
			decision: SyncDecision{Action: ActionCopyBackward, Direction: DirectionBackward, SourcePath: "/s/a", TargetPath: "/t/a"},
			from:     "/t/a",
			to:       "/s/a",
		},
		{
			name:     "ValidateOnlyBackwardScan",
			decision: SyncDecision{Action: ActionValidateOnly, Direction: DirectionBackward, SourcePath: "/s/a", TargetPath: "/t/a"},
			from:     "/t/a",
			to:       "/s/a",
		},
		{
			name:     "SkipForwardScan",
			decision: SyncDecision{Action: ActionSkip, Direction: DirectionForward, SourcePath: "/s/a", TargetPath: "/t/a"},
			from:     "/s/a",
			to:       "/t/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decision.From(); got != tt.from {
				t.Errorf("From() = %s, want %s", got, tt.from)
			}
			if got := tt.decision.To(); got != tt.to {
				t.Errorf("To() = %s, want %s", got, tt.to)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	pair := FolderPair{Source: "/a", Target: "/a/b"}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"Nil", nil, KindNone},
		{"InvalidPair", &InvalidPairError{Pair: pair, Err: ErrNestedTarget}, KindInvalidPair},
		{"WrappedInvalidPair", fmt.Errorf("pair 1: %w", &InvalidPairError{Pair: pair, Err: ErrMissingSource}), KindInvalidPair},
		{"IO", &IOError{Op: "copy", Path: "/x", Err: errors.New("boom")}, KindIO},
		{"Validation", &ValidationError{Path: "/x", OtherPath: "/y"}, KindValidation},
		{"Configuration", &ConfigurationError{Field: "pairs[0].source", Message: "is empty"}, KindConfiguration},
		{"Cancelled", context.Canceled, KindCancelled},
		{"Unknown", errors.New("anything"), KindIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIOErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *IOError
		want string
	}{
		{
			"SamePathError",
			&IOError{Op: "stat", Path: "/x/gone.txt", Err: &fs.PathError{Op: "stat", Path: "/x/gone.txt", Err: fs.ErrNotExist}},
			"stat /x/gone.txt: file does not exist",
		},
		{
			"OtherPathError",
			&IOError{Op: "mkdir", Path: "/x/a", Err: &fs.PathError{Op: "mkdir", Path: "/x", Err: fs.ErrPermission}},
			"mkdir /x/a: mkdir /x: permission denied",
		},
		{
			"PlainError",
			&IOError{Op: "copy", Path: "/x", Err: errors.New("boom")},
			"copy /x: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, tt.err.Err) {
				t.Error("errors.Is should still reach the wrapped error")
			}
		})
	}
}

func TestInvalidPairErrorUnwrap(t *testing.T) {
	err := &InvalidPairError{Pair: FolderPair{Source: "/a", Target: "/a/b"}, Err: ErrNestedTarget}
	if !errors.Is(err, ErrNestedTarget) {
		t.Error("errors.Is should find ErrNestedTarget")
	}
	if errors.Is(err, ErrMissingSource) {
		t.Error("errors.Is should not find ErrMissingSource")
	}
}

func TestRunSummaryAggregation(t *testing.T) {
	good := FolderPair{Source: "/s1", Target: "/t1"}
	bad := FolderPair{Source: "/s2", Target: "/s2/t"}

	summary := &RunSummary{}
	summary.Add(&PairReport{
		Pair:  good,
		State: StateCompleted,
		Summary: &PairSummary{
			TotalConsidered: 4,
			Succeeded:       3,
			Outcomes: []SyncOutcome{
				{RelativePath: "a", Action: OutcomeCopied, Succeeded: true},
				{RelativePath: "b", Action: OutcomeValidated, Succeeded: true},
				{RelativePath: "c", Action: OutcomeSkipped, Succeeded: true},
				{RelativePath: "d", Action: OutcomeCopied, Kind: KindIO, Err: errors.New("disk full")},
			},
		},
	})
	summary.Add(&PairReport{
		Pair:  bad,
		State: StateFailed,
		Err:   &InvalidPairError{Pair: bad, Err: ErrNestedTarget},
	})
	summary.Finalize(false)

	if summary.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", summary.TotalFiles)
	}
	if summary.CopiedOrValidated != 2 {
		t.Errorf("CopiedOrValidated = %d, want 2", summary.CopiedOrValidated)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].Path != "d" || summary.Errors[0].Message != "disk full" {
		t.Errorf("Errors = %+v, want one error for d", summary.Errors)
	}
	if len(summary.PairFailures) != 1 || summary.PairFailures[0].Kind != KindInvalidPair {
		t.Errorf("PairFailures = %+v, want one invalid-pair failure", summary.PairFailures)
	}
	if summary.Status != StatusPartial {
		t.Errorf("Status = %s, want partial", summary.Status)
	}
}

func TestRunSummaryStatus(t *testing.T) {
	t.Run("EmptyRunSucceeds", func(t *testing.T) {
		s := &RunSummary{}
		s.Finalize(false)
		if s.Status != StatusSuccess {
			t.Errorf("Status = %s, want success", s.Status)
		}
	})

	t.Run("AllPairsFailed", func(t *testing.T) {
		s := &RunSummary{}
		s.Add(&PairReport{State: StateFailed, Err: &ConfigurationError{Field: "source", Message: "is empty"}})
		s.Finalize(false)
		if s.Status != StatusFailed {
			t.Errorf("Status = %s, want failed", s.Status)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		s := &RunSummary{}
		s.Finalize(true)
		if s.Status != StatusCancelled {
			t.Errorf("Status = %s, want cancelled", s.Status)
		}
	})
}

func TestSyncStatusExitCode(t *testing.T) {
	tests := []struct {
		status SyncStatus
		want   int
	}{
		{StatusSuccess, 0},
		{StatusPartial, 1},
		{StatusFailed, 2},
		{StatusCancelled, 3},
		{SyncStatus("unknown"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
