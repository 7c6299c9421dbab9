package models

import (
	"time"
)

// FolderPair is a configured source/target directory association
type FolderPair struct {
	// Source is the directory mirrored from
	Source string `yaml:"source" json:"source"`
	// Target is the directory mirrored to
	Target string `yaml:"target" json:"target"`
}

// String renders the pair as "source -> target"
func (p FolderPair) String() string {
	return p.Source + " -> " + p.Target
}

// FileEntry represents a regular file found under a scanned root
type FileEntry struct {
	// RelativePath is the path relative to the scanned root.
	// It is the join key between source-side and target-side entries.
	RelativePath string

	// AbsolutePath is the full path on the filesystem
	AbsolutePath string

	// ModTime is the last modification time
	ModTime time.Time

	// Size in bytes
	Size int64

	// Permissions are the file mode bits
	Permissions uint32
}
