package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sdejongh/foldermirror/pkg/models"
)

// fixture is a source/target pair under a fresh temp dir
type fixture struct {
	t      *testing.T
	source string
	target string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		t:      t,
		source: filepath.Join(root, "source"),
		target: filepath.Join(root, "target"),
	}
	require.NoError(t, os.MkdirAll(f.source, 0755))
	require.NoError(t, os.MkdirAll(f.target, 0755))
	return f
}

func (f *fixture) pair() models.FolderPair {
	return models.FolderPair{Source: f.source, Target: f.target}
}

func writeAt(t *testing.T, path, content string, mtime int64) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	ts := time.Unix(mtime, 0)
	require.NoError(t, os.Chtimes(path, ts, ts))
}

func (f *fixture) writeSource(rel, content string, mtime int64) {
	writeAt(f.t, filepath.Join(f.source, rel), content, mtime)
}

func (f *fixture) writeTarget(rel, content string, mtime int64) {
	writeAt(f.t, filepath.Join(f.target, rel), content, mtime)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func modTime(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime().Unix()
}

func actions(decisions []models.SyncDecision) []models.Action {
	out := make([]models.Action, len(decisions))
	for i, d := range decisions {
		out[i] = d.Action
	}
	return out
}

func countCopies(decisions []models.SyncDecision) int {
	n := 0
	for _, d := range decisions {
		if d.Action.IsCopy() {
			n++
		}
	}
	return n
}

// progressRecorder captures every progress call and pair boundary
type progressRecorder struct {
	fractions []float64
	messages  []string
	started   []models.FolderPair
	finished  []*models.PairReport
}

func (r *progressRecorder) Progress(fraction float64, message string) {
	r.fractions = append(r.fractions, fraction)
	r.messages = append(r.messages, message)
}

func (r *progressRecorder) PairStarted(pair models.FolderPair, index, total int) {
	r.started = append(r.started, pair)
}

func (r *progressRecorder) PairFinished(report *models.PairReport) {
	r.finished = append(r.finished, report)
}
