package compare

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/foldermirror/pkg/models"
)

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"", MD5, false},
		{"md5", MD5, false},
		{"sha256", SHA256, false},
		{"crc32", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDigestKnownValues(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello.txt", []byte("hello"))

	md5v := NewHashVerifier(MD5, 0)
	got, err := md5v.Digest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", got)

	shav := NewHashVerifier(SHA256, 0)
	got, err = shav.Digest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got)
}

func TestDigestStreamsAcrossBlocks(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("0123456789"), 5000) // spans many 4096-byte blocks
	path := writeFile(t, dir, "big.bin", content)

	small := NewHashVerifier(MD5, 7)
	large := NewHashVerifier(MD5, DefaultBlockSize)

	a, err := small.Digest(context.Background(), path)
	require.NoError(t, err)
	b, err := large.Digest(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, a, b, "digest must not depend on block size")
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("same content"))
	b := writeFile(t, dir, "b.txt", []byte("same content"))
	c := writeFile(t, dir, "c.txt", []byte("other content"))

	v := NewHashVerifier(MD5, 0)
	ctx := context.Background()

	t.Run("Identical", func(t *testing.T) {
		ok, err := v.Verify(ctx, a, b)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, v.Check(ctx, a, b))
	})

	t.Run("Different", func(t *testing.T) {
		ok, err := v.Verify(ctx, a, c)
		require.NoError(t, err)
		assert.False(t, ok)

		var valErr *models.ValidationError
		require.ErrorAs(t, v.Check(ctx, a, c), &valErr)
		assert.Equal(t, a, valErr.Path)
		assert.Equal(t, c, valErr.OtherPath)
	})

	t.Run("UnreadableIsIOErrorNotMismatch", func(t *testing.T) {
		ok, err := v.Verify(ctx, a, filepath.Join(dir, "missing"))
		assert.False(t, ok)
		var ioErr *models.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, models.KindIO, models.KindOf(err))

		var valErr *models.ValidationError
		assert.False(t, errors.As(v.Check(ctx, a, filepath.Join(dir, "missing")), &valErr))
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := v.Digest(cctx, a)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
