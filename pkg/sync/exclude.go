package sync

import (
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/sdejongh/foldermirror/pkg/storage"
)

// NewExcludeFilter compiles gitignore-style patterns into a scan filter.
// Supported forms include globs (*.tmp), directories (.git/), anchored
// paths (/build) and ** wildcards. It returns nil when there is nothing
// to exclude.
func NewExcludeFilter(patterns []string) storage.Filter {
	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, filepath.ToSlash(p))
		}
	}
	if len(lines) == 0 {
		return nil
	}

	matcher := gitignore.CompileIgnoreLines(lines...)
	return func(relativePath string) bool {
		return matcher.MatchesPath(filepath.ToSlash(relativePath))
	}
}
