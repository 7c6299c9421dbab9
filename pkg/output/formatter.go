package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/sdejongh/foldermirror/pkg/models"
)

// Formatter renders one run: per-item progress while pairs execute,
// then the run summary. Formatters satisfy the engine's progress sink
// and pair observer interfaces.
type Formatter interface {
	// Progress reports completion of the current pair and a status line
	Progress(fraction float64, message string)

	// PairStarted is called before a pair is scanned
	PairStarted(pair models.FolderPair, index, total int)

	// PairFinished is called once a pair has completed or failed
	PairFinished(report *models.PairReport)

	// Complete displays the run summary
	Complete(summary *models.RunSummary) error

	// Error reports an error outside any pair
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// Options selects and configures a formatter
type Options struct {
	// Format is "human" or "json"
	Format string
	// Progress asks for progress bars when the writer is a terminal
	Progress bool
	// Quiet suppresses everything but errors and the summary
	Quiet bool
}

// New returns the formatter for opts writing to w. Progress bars are
// only used on terminals; elsewhere the human formatter is used.
func New(w io.Writer, opts Options) (Formatter, error) {
	switch opts.Format {
	case "json":
		return NewJSONFormatter(w), nil
	case "", "human":
		if opts.Progress && !opts.Quiet && IsTerminal(w) {
			return NewProgressFormatter(w), nil
		}
		return NewHumanFormatter(w, opts.Quiet), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (use: human, json)", opts.Format)
	}
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// bytesCopied sums copied bytes over every executed pair
func bytesCopied(summary *models.RunSummary) int64 {
	var total int64
	for _, p := range summary.Pairs {
		if p.Summary != nil {
			total += p.Summary.BytesCopied()
		}
	}
	return total
}

func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
