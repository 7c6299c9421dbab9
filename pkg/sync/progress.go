package sync

import "github.com/sdejongh/foldermirror/pkg/models"

// ProgressSink receives fractional completion and a status line after
// every processed item. Calls are synchronous.
type ProgressSink interface {
	Progress(fraction float64, message string)
}

// ProgressFunc adapts a plain function to ProgressSink
type ProgressFunc func(fraction float64, message string)

// Progress calls f
func (f ProgressFunc) Progress(fraction float64, message string) {
	f(fraction, message)
}

// PairObserver is implemented by sinks that want pair boundaries,
// for example to draw one progress bar per pair
type PairObserver interface {
	PairStarted(pair models.FolderPair, index, total int)
	PairFinished(report *models.PairReport)
}

type discardSink struct{}

func (discardSink) Progress(float64, string) {}

func sinkOrDiscard(sink ProgressSink) ProgressSink {
	if sink == nil {
		return discardSink{}
	}
	return sink
}
