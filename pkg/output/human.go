package output

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/foldermirror/pkg/models"
)

var (
	headerColor  = color.New(color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

// HumanFormatter writes one line per processed file
type HumanFormatter struct {
	writer io.Writer
	quiet  bool
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter(w io.Writer, quiet bool) *HumanFormatter {
	if w == nil {
		w = io.Discard
	}
	return &HumanFormatter{writer: w, quiet: quiet}
}

// PairStarted prints the pair header
func (f *HumanFormatter) PairStarted(pair models.FolderPair, index, total int) {
	if f.quiet {
		return
	}
	headerColor.Fprintf(f.writer, "[%d/%d] %s\n", index+1, total, pair)
}

// Progress prints the status line for one file
func (f *HumanFormatter) Progress(fraction float64, message string) {
	if f.quiet {
		return
	}
	fmt.Fprintf(f.writer, "  %3.0f%% %s\n", fraction*100, message)
}

// PairFinished prints the pair's failed files, even when quiet, then
// the pair result
func (f *HumanFormatter) PairFinished(report *models.PairReport) {
	if report.Err != nil {
		errorColor.Fprintf(f.writer, "  ✗ %s\n", report.Err)
		return
	}
	if report.Summary == nil {
		return
	}

	s := report.Summary
	for _, o := range s.Failed() {
		errorColor.Fprintf(f.writer, "  ✗ %s [%s]: %v\n", o.RelativePath, o.Kind, o.Err)
	}
	if f.quiet {
		return
	}

	line := fmt.Sprintf("  ✓ %d files: %d copied, %d validated, %d skipped (%s) in %s",
		s.TotalConsidered,
		s.Count(models.OutcomeCopied),
		s.Count(models.OutcomeValidated),
		s.Count(models.OutcomeSkipped),
		formatBytes(s.BytesCopied()),
		report.Duration.Round(time.Millisecond))

	if failed := len(s.Failed()); failed > 0 {
		warnColor.Fprintf(f.writer, "%s, %d failed\n", line, failed)
		return
	}
	successColor.Fprintln(f.writer, line)
}

// Complete prints the run summary
func (f *HumanFormatter) Complete(summary *models.RunSummary) error {
	w := f.writer

	fmt.Fprintf(w, "\n")
	headerColor.Fprintf(w, "Sync completed in %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Pairs:               %d (%d failed)\n", len(summary.Pairs), len(summary.PairFailures))
	fmt.Fprintf(w, "  Files considered:    %d\n", summary.TotalFiles)
	fmt.Fprintf(w, "  Copied or validated: %d\n", summary.CopiedOrValidated)
	fmt.Fprintf(w, "  Errors:              %d\n", len(summary.Errors))
	fmt.Fprintf(w, "  Data copied:         %s\n", formatBytes(bytesCopied(summary)))

	if secs := summary.Duration.Seconds(); secs > 0 {
		fmt.Fprintf(w, "  Average speed:       %s/s\n", formatBytes(int64(float64(bytesCopied(summary))/secs)))
	}

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Status: ")
	statusColor(summary.Status).Fprintf(w, "%s\n", summary.Status)

	if len(summary.PairFailures) > 0 {
		fmt.Fprintf(w, "\nPair failures:\n")
		for _, p := range summary.PairFailures {
			errorColor.Fprintf(w, "  %s [%s]: %s\n", p.Pair, p.Kind, p.Message)
		}
	}

	if len(summary.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, e := range summary.Errors {
			errorColor.Fprintf(w, "  %s [%s]: %s\n", e.Path, e.Kind, e.Message)
			dimColor.Fprintf(w, "    in %s\n", e.Pair)
		}
	}

	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	errorColor.Fprintf(f.writer, "Error: %v\n", err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func statusColor(status models.SyncStatus) *color.Color {
	switch status {
	case models.StatusSuccess:
		return successColor
	case models.StatusPartial, models.StatusCancelled:
		return warnColor
	default:
		return errorColor
	}
}
