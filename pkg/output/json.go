package output

import (
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/sdejongh/foldermirror/pkg/models"
)

// JSONFormatter stays silent while running and writes one document
// describing the whole run when it completes
type JSONFormatter struct {
	writer io.Writer
}

// JSONReport is the document written by JSONFormatter
type JSONReport struct {
	ID                string               `json:"id"`
	Status            models.SyncStatus    `json:"status"`
	ExitCode          int                  `json:"exit_code"`
	TwoWay            bool                 `json:"two_way"`
	Validate          bool                 `json:"validate"`
	StartTime         time.Time            `json:"start_time"`
	EndTime           time.Time            `json:"end_time"`
	Duration          string               `json:"duration"`
	DurationMs        int64                `json:"duration_ms"`
	TotalFiles        int                  `json:"total_files"`
	CopiedOrValidated int                  `json:"copied_or_validated"`
	BytesCopied       int64                `json:"bytes_copied"`
	BytesCopiedStr    string               `json:"bytes_copied_human"`
	Pairs             []JSONPairData       `json:"pairs"`
	Errors            []models.FileError   `json:"errors"`
	PairFailures      []models.PairFailure `json:"pair_failures"`
}

// JSONPairData summarises one pair
type JSONPairData struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Target      string          `json:"target"`
	State       models.RunState `json:"state"`
	Considered  int             `json:"considered"`
	Succeeded   int             `json:"succeeded"`
	Copied      int             `json:"copied"`
	Validated   int             `json:"validated"`
	Skipped     int             `json:"skipped"`
	Failed      int             `json:"failed"`
	BytesCopied int64           `json:"bytes_copied"`
	DurationMs  int64           `json:"duration_ms"`
	Error       string          `json:"error,omitempty"`
}

// JSONErrorData is written by Error
type JSONErrorData struct {
	Error string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONFormatter{writer: w}
}

// PairStarted does nothing
func (f *JSONFormatter) PairStarted(pair models.FolderPair, index, total int) {}

// Progress does nothing
func (f *JSONFormatter) Progress(fraction float64, message string) {}

// PairFinished does nothing
func (f *JSONFormatter) PairFinished(report *models.PairReport) {}

// Complete writes the run document
func (f *JSONFormatter) Complete(summary *models.RunSummary) error {
	return f.encode(NewJSONReport(summary))
}

// Error writes an error document
func (f *JSONFormatter) Error(err error) error {
	return f.encode(JSONErrorData{Error: err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

func (f *JSONFormatter) encode(v any) error {
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewJSONReport converts a run summary to its JSON document
func NewJSONReport(summary *models.RunSummary) JSONReport {
	copied := bytesCopied(summary)
	report := JSONReport{
		ID:                summary.ID,
		Status:            summary.Status,
		ExitCode:          summary.Status.ExitCode(),
		TwoWay:            summary.TwoWay,
		Validate:          summary.Validate,
		StartTime:         summary.StartTime,
		EndTime:           summary.EndTime,
		Duration:          summary.Duration.String(),
		DurationMs:        summary.Duration.Milliseconds(),
		TotalFiles:        summary.TotalFiles,
		CopiedOrValidated: summary.CopiedOrValidated,
		BytesCopied:       copied,
		BytesCopiedStr:    formatBytes(copied),
		Pairs:             make([]JSONPairData, 0, len(summary.Pairs)),
		Errors:            summary.Errors,
		PairFailures:      summary.PairFailures,
	}
	if report.Errors == nil {
		report.Errors = []models.FileError{}
	}
	if report.PairFailures == nil {
		report.PairFailures = []models.PairFailure{}
	}

	for _, p := range summary.Pairs {
		data := JSONPairData{
			ID:         p.ID,
			Source:     p.Pair.Source,
			Target:     p.Pair.Target,
			State:      p.State,
			DurationMs: p.Duration.Milliseconds(),
		}
		if p.Err != nil {
			data.Error = p.Err.Error()
		}
		if s := p.Summary; s != nil {
			data.Considered = s.TotalConsidered
			data.Succeeded = s.Succeeded
			data.Copied = s.Count(models.OutcomeCopied)
			data.Validated = s.Count(models.OutcomeValidated)
			data.Skipped = s.Count(models.OutcomeSkipped)
			data.Failed = len(s.Failed())
			data.BytesCopied = s.BytesCopied()
		}
		report.Pairs = append(report.Pairs, data)
	}

	return report
}
