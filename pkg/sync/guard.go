package sync

import (
	"github.com/sdejongh/foldermirror/internal/platform"
	"github.com/sdejongh/foldermirror/pkg/models"
)

// ValidatePair checks a folder pair before anything is scanned and
// returns it in canonical form. The source must be an existing directory
// and the target must not be the source or lie below it.
func ValidatePair(pair models.FolderPair) (models.FolderPair, error) {
	invalid := func(err error) error {
		return &models.InvalidPairError{Pair: pair, Err: err}
	}

	source, err := platform.Canonical(pair.Source)
	if err != nil {
		return pair, invalid(err)
	}

	exists, isDir, err := platform.IsDir(source)
	if err != nil {
		return pair, invalid(err)
	}
	if !exists {
		return pair, invalid(models.ErrMissingSource)
	}
	if !isDir {
		return pair, invalid(models.ErrSourceNotDir)
	}

	target, err := platform.Canonical(pair.Target)
	if err != nil {
		return pair, invalid(err)
	}

	if platform.IsWithin(source, target) {
		return pair, invalid(models.ErrNestedTarget)
	}

	return models.FolderPair{Source: source, Target: target}, nil
}

// validateTwoWay additionally rejects a source inside the target, since
// the reverse scan would then walk its own output. pair must be canonical.
func validateTwoWay(original, pair models.FolderPair) error {
	if platform.IsWithin(pair.Target, pair.Source) {
		return &models.InvalidPairError{Pair: original, Err: models.ErrNestedSource}
	}
	return nil
}
