package sync

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/foldermirror/pkg/compare"
	"github.com/sdejongh/foldermirror/pkg/logging"
	"github.com/sdejongh/foldermirror/pkg/models"
	"github.com/sdejongh/foldermirror/pkg/ratelimit"
	"github.com/sdejongh/foldermirror/pkg/storage"
)

// Options controls one engine
type Options struct {
	// TwoWay also mirrors the target back onto the source
	TwoWay bool
	// Validate compares digests of both sides for every copied or
	// up-to-date file
	Validate bool
	// MaxPathLength drops files whose destination path is at least this long
	MaxPathLength int
	// BlockSize is the hashing read size
	BlockSize int
	// Hash is the digest algorithm used for validation
	Hash compare.Algorithm
	// BufferSize is the copy buffer size
	BufferSize int
	// BandwidthLimit caps copy throughput in bytes per second (0 = unlimited)
	BandwidthLimit int64
	// Exclude holds gitignore-style patterns left out of every scan
	Exclude []string
}

// DefaultOptions returns one-way, unvalidated mirroring
func DefaultOptions() Options {
	return Options{
		MaxPathLength: DefaultMaxPathLength,
		BlockSize:     compare.DefaultBlockSize,
		Hash:          compare.MD5,
		BufferSize:    storage.DefaultBufferSize,
	}
}

// Engine mirrors folder pairs one after another
type Engine struct {
	opts     Options
	differ   *Differ
	executor *Executor
	logger   logging.Logger
}

// NewEngine creates a new sync engine
func NewEngine(opts Options, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	copier := storage.NewCopier(opts.BufferSize, ratelimit.NewLimiter(opts.BandwidthLimit))
	verifier := compare.NewHashVerifier(opts.Hash, opts.BlockSize)

	return &Engine{
		opts:     opts,
		differ:   NewDiffer(opts.MaxPathLength, NewExcludeFilter(opts.Exclude), logger),
		executor: NewExecutor(copier, verifier, opts.TwoWay, logger),
		logger:   logger,
	}
}

// Run syncs every pair in order and aggregates the results. A failing
// pair is recorded and the next pair still runs. When ctx is cancelled
// the remaining pairs are not started and the partial summary is
// returned together with ctx.Err().
func (e *Engine) Run(ctx context.Context, pairs []models.FolderPair, sink ProgressSink) (*models.RunSummary, error) {
	summary := &models.RunSummary{
		ID:        uuid.New().String(),
		TwoWay:    e.opts.TwoWay,
		Validate:  e.opts.Validate,
		StartTime: time.Now(),
	}

	e.logger.Info(ctx, "Starting run", logging.Fields{
		"run_id":   summary.ID,
		"pairs":    len(pairs),
		"two_way":  e.opts.TwoWay,
		"validate": e.opts.Validate,
		"hash":     string(e.opts.Hash),
	})

	observer, _ := sink.(PairObserver)
	for i, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		if observer != nil {
			observer.PairStarted(pair, i, len(pairs))
		}

		report := e.SyncPair(ctx, pair, sink)
		summary.Add(report)

		if observer != nil {
			observer.PairFinished(report)
		}
	}

	cancelled := ctx.Err() != nil
	summary.Finalize(cancelled)

	e.logger.Info(ctx, "Run finished", logging.Fields{
		"run_id":              summary.ID,
		"status":              string(summary.Status),
		"total_files":         summary.TotalFiles,
		"copied_or_validated": summary.CopiedOrValidated,
		"errors":              len(summary.Errors),
		"pair_failures":       len(summary.PairFailures),
		"duration":            summary.Duration.String(),
	})

	if cancelled {
		return summary, ctx.Err()
	}
	return summary, nil
}

// SyncPair scans, decides and executes a single pair. Pair-level
// failures end up in the report's Err and State, never as a panic or a
// returned error.
func (e *Engine) SyncPair(ctx context.Context, pair models.FolderPair, sink ProgressSink) *models.PairReport {
	report := &models.PairReport{
		ID:        uuid.New().String(),
		Pair:      pair,
		State:     models.StateIdle,
		StartTime: time.Now(),
	}
	defer func() {
		report.EndTime = time.Now()
		report.Duration = report.EndTime.Sub(report.StartTime)
	}()

	fail := func(err error) *models.PairReport {
		report.Err = err
		report.State = models.StateFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			report.State = models.StateCancelled
		}
		e.logger.Error(ctx, "Pair failed", err, logging.Fields{
			"pair_id": report.ID,
			"pair":    pair.String(),
			"kind":    string(models.KindOf(err)),
		})
		return report
	}

	report.State = models.StateScanning
	e.logger.Info(ctx, "Scanning pair", logging.Fields{
		"pair_id": report.ID,
		"source":  pair.Source,
		"target":  pair.Target,
	})

	canonical, decisions, err := e.plan(ctx, pair)
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(canonical.Target, 0755); err != nil {
		return fail(&models.IOError{Op: "mkdir", Path: canonical.Target, Err: err})
	}

	report.State = models.StateExecuting
	e.logger.Info(ctx, "Executing pair", logging.Fields{
		"pair_id":   report.ID,
		"decisions": len(decisions),
	})

	summary, err := e.executor.Execute(ctx, decisions, e.opts.Validate, sink)
	report.Summary = summary
	if err != nil {
		return fail(err)
	}

	report.State = models.StateCompleted
	e.logger.Info(ctx, "Pair completed", logging.Fields{
		"pair_id":   report.ID,
		"succeeded": summary.Succeeded,
		"failed":    len(summary.Failed()),
	})
	return report
}

// Plan returns the decisions a sync of pair would execute without
// touching either tree
func (e *Engine) Plan(ctx context.Context, pair models.FolderPair) ([]models.SyncDecision, error) {
	_, decisions, err := e.plan(ctx, pair)
	return decisions, err
}

func (e *Engine) plan(ctx context.Context, pair models.FolderPair) (models.FolderPair, []models.SyncDecision, error) {
	if pair.Source == "" || pair.Target == "" {
		return pair, nil, &models.ConfigurationError{
			Field:   "pairs",
			Message: "source and target must both be set",
		}
	}

	canonical, err := ValidatePair(pair)
	if err != nil {
		return pair, nil, err
	}
	if e.opts.TwoWay {
		if err := validateTwoWay(pair, canonical); err != nil {
			return pair, nil, err
		}
	}

	decisions, err := e.differ.Diff(ctx, canonical.Source, canonical.Target, models.DirectionForward, e.opts.Validate)
	if err != nil {
		return canonical, nil, err
	}

	if e.opts.TwoWay {
		backward, err := e.differ.Diff(ctx, canonical.Target, canonical.Source, models.DirectionBackward, e.opts.Validate)
		if err != nil {
			return canonical, nil, err
		}
		decisions = append(decisions, backward...)
	}

	return canonical, decisions, nil
}
