package sync

import (
	"context"
	"path/filepath"

	"github.com/sdejongh/foldermirror/internal/platform"
	"github.com/sdejongh/foldermirror/pkg/logging"
	"github.com/sdejongh/foldermirror/pkg/models"
	"github.com/sdejongh/foldermirror/pkg/storage"
)

// DefaultMaxPathLength is the destination path length (in characters)
// at which files are left out of a run
const DefaultMaxPathLength = 260

// Differ turns one scanned tree into a decision list against its mirror
type Differ struct {
	maxPathLength int
	exclude       storage.Filter
	logger        logging.Logger
}

// NewDiffer creates a differ. A non-positive maxPathLength selects
// DefaultMaxPathLength.
func NewDiffer(maxPathLength int, exclude storage.Filter, logger logging.Logger) *Differ {
	if maxPathLength <= 0 {
		maxPathLength = DefaultMaxPathLength
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Differ{
		maxPathLength: maxPathLength,
		exclude:       exclude,
		logger:        logger,
	}
}

// Diff scans origin and decides, per file, what to do with its mirror
// under opposite. dir records which side origin is. Only modification
// times decide: a missing mirror or a strictly newer origin is copied,
// anything else is skipped (or validated when validateAll is set).
// A missing origin directory yields no decisions.
func (d *Differ) Diff(ctx context.Context, origin, opposite string, dir models.Direction, validateAll bool) ([]models.SyncDecision, error) {
	tree, err := storage.NewLocal(origin)
	if err != nil {
		if exists, _, statErr := platform.IsDir(origin); statErr == nil && !exists {
			return nil, nil
		}
		return nil, &models.IOError{Op: "scan", Path: origin, Err: err}
	}
	tree.SetExclude(d.exclude)
	tree.SetErrorHandler(func(path string, err error) {
		d.logger.Warn(ctx, "Skipping unreadable entry", logging.Fields{
			"path":  path,
			"error": err.Error(),
		})
	})

	copyAction := models.ActionCopyForward
	if dir == models.DirectionBackward {
		copyAction = models.ActionCopyBackward
	}
	idle := models.ActionSkip
	if validateAll {
		idle = models.ActionValidateOnly
	}

	var decisions []models.SyncDecision
	for entry, err := range tree.Scan(ctx) {
		if err != nil {
			return nil, err
		}

		mirror := filepath.Join(opposite, entry.RelativePath)
		if platform.PathLength(mirror) >= d.maxPathLength {
			d.logger.Debug(ctx, "Path too long, leaving file out", logging.Fields{
				"path":   mirror,
				"length": platform.PathLength(mirror),
			})
			continue
		}

		action := idle
		other, exists, statErr := storage.Stat(mirror)
		switch {
		case statErr != nil:
			// the copy will surface the error for this file alone
			action = copyAction
		case !exists:
			action = copyAction
		case entry.ModTime.After(other.ModTime):
			action = copyAction
		}

		decision := models.SyncDecision{
			Action:       action,
			Direction:    dir,
			RelativePath: entry.RelativePath,
			SourcePath:   entry.AbsolutePath,
			TargetPath:   mirror,
		}
		if dir == models.DirectionBackward {
			decision.SourcePath, decision.TargetPath = mirror, entry.AbsolutePath
		}
		decisions = append(decisions, decision)
	}

	return decisions, nil
}
