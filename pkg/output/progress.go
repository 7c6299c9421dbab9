package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/foldermirror/pkg/models"
)

const (
	// barScale is the bar total; fractions are mapped onto it
	barScale = 1000

	barTemplate = `{{string . "prefix"}} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{string . "status"}}`

	// room left for the prefix, bar and percentage
	barReserved = 60
)

// ProgressFormatter draws one progress bar per pair. Per-file failures
// are printed under the bar when the pair finishes.
type ProgressFormatter struct {
	*HumanFormatter

	writer    io.Writer
	termWidth int
	bar       *pb.ProgressBar
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter(w io.Writer) *ProgressFormatter {
	if w == nil {
		w = os.Stdout
	}

	width := 120
	if file, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(file.Fd())); err == nil && tw > 0 {
			width = tw
		}
	}

	return &ProgressFormatter{
		HumanFormatter: NewHumanFormatter(w, false),
		writer:         w,
		termWidth:      width,
	}
}

// PairStarted starts a fresh bar for the pair
func (f *ProgressFormatter) PairStarted(pair models.FolderPair, index, total int) {
	f.finishBar()

	f.bar = pb.New64(barScale).
		SetTemplateString(barTemplate).
		SetWriter(f.writer).
		SetWidth(f.termWidth).
		SetRefreshRate(100*time.Millisecond).
		Set("prefix", fmt.Sprintf("[%d/%d]", index+1, total)).
		Set("status", f.fit("scanning "+pair.String())).
		Start()
}

// Progress moves the bar and shows the latest status line
func (f *ProgressFormatter) Progress(fraction float64, message string) {
	if f.bar == nil {
		return
	}
	f.bar.SetCurrent(int64(fraction * barScale))
	f.bar.Set("status", f.fit(message))
}

// PairFinished completes the bar and prints the pair's failures
func (f *ProgressFormatter) PairFinished(report *models.PairReport) {
	if f.bar != nil {
		if report.Err == nil {
			f.bar.SetCurrent(barScale)
			f.bar.Set("status", f.fit(report.Pair.String()))
		} else {
			f.bar.Set("status", f.fit(string(report.State)))
		}
	}
	f.finishBar()
	f.HumanFormatter.PairFinished(report)
}

// Complete prints the run summary below the last bar
func (f *ProgressFormatter) Complete(summary *models.RunSummary) error {
	f.finishBar()
	return f.HumanFormatter.Complete(summary)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) finishBar() {
	if f.bar == nil {
		return
	}
	f.bar.Finish()
	f.bar = nil
}

// fit shortens s so the whole bar stays on one terminal line
func (f *ProgressFormatter) fit(s string) string {
	limit := f.termWidth - barReserved
	if limit < 10 {
		limit = 10
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return "…" + string(r[len(r)-limit+1:])
}
