package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"

	"github.com/sdejongh/foldermirror/pkg/models"
	"github.com/sdejongh/foldermirror/pkg/ratelimit"
)

// DefaultBufferSize is the copy buffer size when none is configured
const DefaultBufferSize = 64 * 1024

// Copier copies single files between absolute paths, preserving
// modification time and permission bits
type Copier struct {
	bufferPool *sync.Pool
	limiter    *rate.Limiter
}

// NewCopier creates a copier using buffers of bufferSize bytes.
// A nil limiter disables bandwidth limiting.
func NewCopier(bufferSize int, limiter *rate.Limiter) *Copier {
	if bufferSize < 4096 {
		bufferSize = DefaultBufferSize
	}
	return &Copier{
		limiter: limiter,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// CopyFile copies src to dst, creating dst's parent directories as needed.
// It returns the number of bytes written. Failures are *models.IOError.
func (c *Copier) CopyFile(ctx context.Context, src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, &models.IOError{Op: "stat", Path: src, Err: err}
	}
	if !info.Mode().IsRegular() {
		return 0, &models.IOError{Op: "copy", Path: src, Err: fmt.Errorf("not a regular file")}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, &models.IOError{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
	}

	written, err := c.copyContent(ctx, src, dst, info.Mode().Perm())
	if err != nil {
		return written, err
	}

	if written != info.Size() {
		return written, &models.IOError{
			Op:   "copy",
			Path: dst,
			Err:  fmt.Errorf("incomplete write: expected %d bytes, wrote %d", info.Size(), written),
		}
	}

	// Metadata goes last so nothing touches dst after its mtime is set
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return written, &models.IOError{Op: "chmod", Path: dst, Err: err}
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return written, &models.IOError{Op: "chtimes", Path: dst, Err: err}
	}

	return written, nil
}

func (c *Copier) copyContent(ctx context.Context, src, dst string, perm os.FileMode) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, &models.IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm|0200)
	if err != nil {
		return 0, &models.IOError{Op: "create", Path: dst, Err: err}
	}

	bufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(bufPtr)

	reader := ratelimit.NewReader(ctx, in, c.limiter)
	written, copyErr := io.CopyBuffer(out, reader, *bufPtr)
	closeErr := out.Close()

	if copyErr != nil {
		return written, &models.IOError{Op: "write", Path: dst, Err: copyErr}
	}
	if closeErr != nil {
		return written, &models.IOError{Op: "close", Path: dst, Err: closeErr}
	}
	return written, nil
}
