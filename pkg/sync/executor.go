package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sdejongh/foldermirror/pkg/compare"
	"github.com/sdejongh/foldermirror/pkg/logging"
	"github.com/sdejongh/foldermirror/pkg/models"
	"github.com/sdejongh/foldermirror/pkg/storage"
)

// Executor carries out a decision list one item at a time
type Executor struct {
	copier   *storage.Copier
	verifier *compare.HashVerifier
	twoWay   bool
	logger   logging.Logger
}

// NewExecutor creates an executor. twoWay only changes progress messages,
// which then carry a direction marker.
func NewExecutor(copier *storage.Copier, verifier *compare.HashVerifier, twoWay bool, logger logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Executor{
		copier:   copier,
		verifier: verifier,
		twoWay:   twoWay,
		logger:   logger,
	}
}

// Execute runs decisions in order. A failing item is recorded in the
// summary and never stops the batch. sink is called after every item.
// When ctx is cancelled the summary so far is returned with ctx.Err().
func (x *Executor) Execute(ctx context.Context, decisions []models.SyncDecision, validateAll bool, sink ProgressSink) (*models.PairSummary, error) {
	sink = sinkOrDiscard(sink)
	summary := &models.PairSummary{}

	total := len(decisions)
	if total == 0 {
		sink.Progress(1.0, "nothing to do")
		return summary, nil
	}

	for i, decision := range decisions {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome := x.executeOne(ctx, decision, validateAll)
		if !outcome.Succeeded && ctx.Err() != nil {
			outcome.Kind = models.KindCancelled
		}

		summary.TotalConsidered++
		if outcome.Succeeded {
			summary.Succeeded++
		}
		summary.Outcomes = append(summary.Outcomes, outcome)

		sink.Progress(float64(i+1)/float64(total), x.message(decision, outcome, i+1, total))
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (x *Executor) executeOne(ctx context.Context, d models.SyncDecision, validateAll bool) models.SyncOutcome {
	start := time.Now()
	outcome := models.SyncOutcome{
		RelativePath: d.RelativePath,
		Direction:    d.Direction,
	}

	var err error
	switch {
	case d.Action.IsCopy():
		outcome.Action = models.OutcomeCopied
		outcome.BytesCopied, err = x.copier.CopyFile(ctx, d.From(), d.To())
	case d.Action == models.ActionValidateOnly && validateAll:
		outcome.Action = models.OutcomeValidated
	default:
		outcome.Action = models.OutcomeSkipped
	}

	if err == nil && validateAll && outcome.Action != models.OutcomeSkipped {
		err = x.verifier.Check(ctx, d.From(), d.To())
	}

	outcome.Duration = time.Since(start)
	if err != nil {
		outcome.Err = err
		outcome.Kind = models.KindOf(err)
		x.logger.Error(ctx, "File failed", err, logging.Fields{
			"path":      d.RelativePath,
			"action":    string(d.Action),
			"direction": string(d.Direction),
		})
		return outcome
	}

	outcome.Succeeded = true
	x.logger.Debug(ctx, "File processed", logging.Fields{
		"path":     d.RelativePath,
		"action":   string(outcome.Action),
		"bytes":    outcome.BytesCopied,
		"duration": outcome.Duration.String(),
	})
	return outcome
}

func (x *Executor) message(d models.SyncDecision, outcome models.SyncOutcome, n, total int) string {
	verb := "Skipping"
	switch outcome.Action {
	case models.OutcomeCopied:
		verb = "Copying"
	case models.OutcomeValidated:
		verb = "Validating"
	}

	item := fmt.Sprintf("%s (%d/%d)", filepath.Base(d.RelativePath), n, total)
	if x.twoWay {
		item += " " + d.Direction.Arrow()
	}

	if !outcome.Succeeded {
		return fmt.Sprintf("Error %s %s: %v", strings.ToLower(verb), item, outcome.Err)
	}
	return verb + " " + item
}
