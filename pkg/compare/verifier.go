package compare

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sync"

	"github.com/sdejongh/foldermirror/pkg/models"
)

// DefaultBlockSize is the read size used while hashing
const DefaultBlockSize = 4096

// Algorithm names a supported digest
type Algorithm string

const (
	// MD5 is fast and sufficient for content equality
	MD5 Algorithm = "md5"
	// SHA256 is slower but collision resistant
	SHA256 Algorithm = "sha256"
)

// ParseAlgorithm validates an algorithm name. Empty selects MD5.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "", MD5:
		return MD5, nil
	case SHA256:
		return SHA256, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm: %s (use: md5, sha256)", name)
	}
}

// HashVerifier computes streamed file digests and compares files by them
type HashVerifier struct {
	algorithm  Algorithm
	blockSize  int
	bufferPool *sync.Pool
}

// NewHashVerifier creates a verifier reading blockSize bytes at a time
func NewHashVerifier(algorithm Algorithm, blockSize int) *HashVerifier {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	if algorithm == "" {
		algorithm = MD5
	}
	return &HashVerifier{
		algorithm: algorithm,
		blockSize: blockSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, blockSize)
				return &buf
			},
		},
	}
}

func (v *HashVerifier) newHash() hash.Hash {
	if v.algorithm == SHA256 {
		return sha256.New()
	}
	return md5.New()
}

// Digest returns the hex digest of the file at path. The file is read in
// fixed-size blocks and never held in memory whole. Read failures are
// returned as *models.IOError.
func (v *HashVerifier) Digest(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", &models.IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	h := v.newHash()
	bufPtr := v.bufferPool.Get().(*[]byte)
	defer v.bufferPool.Put(bufPtr)
	buf := *bufPtr

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := file.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &models.IOError{Op: "read", Path: path, Err: err}
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether both files have the same digest
func (v *HashVerifier) Verify(ctx context.Context, pathA, pathB string) (bool, error) {
	a, b, err := v.digests(ctx, pathA, pathB)
	if err != nil {
		return false, err
	}
	return a == b, nil
}

// Check returns a *models.ValidationError when the files differ
func (v *HashVerifier) Check(ctx context.Context, pathA, pathB string) error {
	a, b, err := v.digests(ctx, pathA, pathB)
	if err != nil {
		return err
	}
	if a != b {
		return &models.ValidationError{Path: pathA, OtherPath: pathB, Digest: a, OtherDigest: b}
	}
	return nil
}

func (v *HashVerifier) digests(ctx context.Context, pathA, pathB string) (string, string, error) {
	a, err := v.Digest(ctx, pathA)
	if err != nil {
		return "", "", err
	}
	b, err := v.Digest(ctx, pathB)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}
