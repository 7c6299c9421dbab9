package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"github.com/sdejongh/foldermirror/pkg/models"
)

// Filter decides whether a relative path is dropped from a scan
type Filter func(relativePath string) bool

// ErrorHandler is told about entries a scan had to leave out
type ErrorHandler func(path string, err error)

// Local is a filesystem-rooted tree
type Local struct {
	rootPath string
	exclude  Filter
	onError  ErrorHandler
}

// entryInfo is replaced in tests to simulate entries vanishing mid-walk
var entryInfo = func(d fs.DirEntry) (fs.FileInfo, error) {
	return d.Info()
}

// NewLocal creates a new local tree rooted at rootPath
func NewLocal(rootPath string) (*Local, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	return &Local{rootPath: absPath}, nil
}

// Root returns the absolute root path
func (l *Local) Root() string {
	return l.rootPath
}

// SetExclude installs a filter applied to every scanned file
func (l *Local) SetExclude(filter Filter) {
	l.exclude = filter
}

// SetErrorHandler installs a callback for unreadable entries below the root
func (l *Local) SetErrorHandler(handler ErrorHandler) {
	l.onError = handler
}

// Scan lazily walks the tree and yields one entry per regular file.
// Directories produce no entries. Each range over the returned sequence
// walks the tree again from scratch. Unreadable entries below the root
// are reported to the error handler and left out, along with everything
// under an unreadable directory. Only a failure on the root itself or a
// cancelled ctx is yielded, and it ends the sequence.
func (l *Local) Scan(ctx context.Context) iter.Seq2[models.FileEntry, error] {
	return func(yield func(models.FileEntry, error) bool) {
		stopped := errors.New("stopped")

		err := filepath.WalkDir(l.rootPath, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if p == l.rootPath {
					return &models.IOError{Op: "scan", Path: p, Err: err}
				}
				l.skip(p, &models.IOError{Op: "scan", Path: p, Err: err})
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if d.IsDir() {
				return nil
			}

			info, ok, err := regularFileInfo(p, d)
			if err != nil {
				l.skip(p, &models.IOError{Op: "stat", Path: p, Err: err})
				return nil
			}
			if !ok {
				return nil
			}

			relPath, err := filepath.Rel(l.rootPath, p)
			if err != nil {
				return err
			}
			if l.exclude != nil && l.exclude(relPath) {
				return nil
			}

			entry := models.FileEntry{
				RelativePath: relPath,
				AbsolutePath: p,
				ModTime:      info.ModTime(),
				Size:         info.Size(),
				Permissions:  uint32(info.Mode().Perm()),
			}
			if !yield(entry, nil) {
				return stopped
			}
			return nil
		})

		if err != nil && !errors.Is(err, stopped) {
			yield(models.FileEntry{}, err)
		}
	}
}

func (l *Local) skip(path string, err error) {
	if l.onError != nil {
		l.onError(path, err)
	}
}

// regularFileInfo returns the file info for regular files and for
// symlinks that resolve to regular files
func regularFileInfo(p string, d fs.DirEntry) (fs.FileInfo, bool, error) {
	switch {
	case d.Type().IsRegular():
		info, err := entryInfo(d)
		return info, err == nil, err
	case d.Type()&fs.ModeSymlink != 0:
		info, err := os.Stat(p)
		if err != nil {
			// dangling links are not files
			return nil, false, nil
		}
		return info, info.Mode().IsRegular(), nil
	default:
		return nil, false, nil
	}
}

// Stat returns metadata for an absolute path. exists is false when the
// path is missing; any other failure is returned as an error.
func Stat(path string) (entry models.FileEntry, exists bool, err error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.FileEntry{}, false, nil
	}
	if err != nil {
		return models.FileEntry{}, false, &models.IOError{Op: "stat", Path: path, Err: err}
	}

	return models.FileEntry{
		AbsolutePath: path,
		ModTime:      info.ModTime(),
		Size:         info.Size(),
		Permissions:  uint32(info.Mode().Perm()),
	}, true, nil
}
