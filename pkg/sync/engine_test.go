package sync

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/foldermirror/pkg/models"
)

func newTestEngine(twoWay, validate bool) *Engine {
	opts := DefaultOptions()
	opts.TwoWay = twoWay
	opts.Validate = validate
	return NewEngine(opts, nil)
}

func TestScenarioCopyForward(t *testing.T) {
	f := newFixture(t)
	f.writeSource("x.txt", "hello", 100)
	engine := newTestEngine(false, false)

	decisions, err := engine.Plan(context.Background(), f.pair())
	require.NoError(t, err)
	assert.Equal(t, []models.Action{models.ActionCopyForward}, actions(decisions))

	summary, err := engine.Run(context.Background(), []models.FolderPair{f.pair()}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, summary.Status)
	assert.Equal(t, 1, summary.TotalFiles)
	assert.Equal(t, 1, summary.CopiedOrValidated)

	dst := filepath.Join(f.target, "x.txt")
	assert.Equal(t, "hello", readFile(t, dst))
	assert.Equal(t, int64(100), modTime(t, dst))
}

func TestScenarioSkipOnEqualTimestamps(t *testing.T) {
	f := newFixture(t)
	f.writeSource("x.txt", "source side", 100)
	f.writeTarget("x.txt", "target side", 100)
	engine := newTestEngine(false, false)

	decisions, err := engine.Plan(context.Background(), f.pair())
	require.NoError(t, err)
	assert.Equal(t, []models.Action{models.ActionSkip}, actions(decisions))

	summary, err := engine.Run(context.Background(), []models.FolderPair{f.pair()}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, summary.Status)
	assert.Equal(t, 0, summary.CopiedOrValidated)
	assert.Equal(t, "target side", readFile(t, filepath.Join(f.target, "x.txt")))
}

func TestScenarioCopyBackward(t *testing.T) {
	f := newFixture(t)
	f.writeSource("y.txt", "stale", 50)
	f.writeTarget("y.txt", "current", 200)
	engine := newTestEngine(true, false)

	decisions, err := engine.Plan(context.Background(), f.pair())
	require.NoError(t, err)
	assert.Equal(t, []models.Action{models.ActionSkip, models.ActionCopyBackward}, actions(decisions))

	summary, err := engine.Run(context.Background(), []models.FolderPair{f.pair()}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, summary.Status)

	src := filepath.Join(f.source, "y.txt")
	assert.Equal(t, "current", readFile(t, src))
	assert.Equal(t, int64(200), modTime(t, src))
}

func TestIdempotence(t *testing.T) {
	tests := []struct {
		name     string
		twoWay   bool
		validate bool
		idle     models.Action
	}{
		{"OneWay", false, false, models.ActionSkip},
		{"TwoWay", true, false, models.ActionSkip},
		{"Validated", false, true, models.ActionValidateOnly},
		{"TwoWayValidated", true, true, models.ActionValidateOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.writeSource("a.txt", "a", 100)
			f.writeSource("nested/b.txt", "b", 150)
			f.writeTarget("c.txt", "c", 120)
			f.writeSource("shared.txt", "new", 300)
			f.writeTarget("shared.txt", "old", 200)

			engine := newTestEngine(tt.twoWay, tt.validate)
			pairs := []models.FolderPair{f.pair()}

			first, err := engine.Run(context.Background(), pairs, nil)
			require.NoError(t, err)
			require.Empty(t, first.Errors)

			decisions, err := engine.Plan(context.Background(), f.pair())
			require.NoError(t, err)
			assert.Zero(t, countCopies(decisions))
			for _, d := range decisions {
				assert.Equal(t, tt.idle, d.Action, d.RelativePath)
			}

			second, err := engine.Run(context.Background(), pairs, nil)
			require.NoError(t, err)
			assert.Equal(t, models.StatusSuccess, second.Status)
			assert.Empty(t, second.Errors)
		})
	}
}

func TestTwoWayTieBreak(t *testing.T) {
	f := newFixture(t)
	f.writeSource("tie.txt", "left", 100)
	f.writeTarget("tie.txt", "right", 100)

	decisions, err := newTestEngine(true, false).Plan(context.Background(), f.pair())
	require.NoError(t, err)
	assert.Zero(t, countCopies(decisions))
}

func TestTwoWayRejectsSourceInsideTarget(t *testing.T) {
	root := t.TempDir()
	pair := models.FolderPair{Source: filepath.Join(root, "t", "s"), Target: filepath.Join(root, "t")}
	writeAt(t, filepath.Join(pair.Source, "f.txt"), "x", 100)

	_, err := newTestEngine(true, false).Plan(context.Background(), pair)
	assert.ErrorIs(t, err, models.ErrNestedSource)

	_, err = newTestEngine(false, false).Plan(context.Background(), pair)
	assert.NoError(t, err)
}

func TestPathLengthGuardLeavesNoOutcome(t *testing.T) {
	f := newFixture(t)
	f.writeSource("ok.txt", "ok", 100)
	f.writeSource("this-name-is-far-too-long-for-the-limit.txt", "long", 100)

	opts := DefaultOptions()
	opts.MaxPathLength = len([]rune(filepath.Join(f.target, "ok.txt"))) + 1
	engine := NewEngine(opts, nil)

	summary, err := engine.Run(context.Background(), []models.FolderPair{f.pair()}, nil)
	require.NoError(t, err)
	require.Len(t, summary.Pairs, 1)

	outcomes := summary.Pairs[0].Summary.Outcomes
	require.Len(t, outcomes, 1)
	assert.Equal(t, "ok.txt", outcomes[0].RelativePath)
}

func TestPathLengthGuardMeasuresResolvedTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}
	f := newFixture(t)
	f.writeSource("x.txt", "x", 100)

	root := filepath.Dir(f.target)
	realTarget := filepath.Join(root, strings.Repeat("r", 40))
	require.NoError(t, os.MkdirAll(realTarget, 0755))
	link := filepath.Join(root, "l")
	require.NoError(t, os.Symlink(realTarget, link))

	resolved, err := filepath.EvalSymlinks(realTarget)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MaxPathLength = len([]rune(filepath.Join(resolved, "x.txt")))
	require.Less(t, len([]rune(filepath.Join(link, "x.txt"))), opts.MaxPathLength)

	decisions, err := NewEngine(opts, nil).Plan(context.Background(), models.FolderPair{Source: f.source, Target: link})
	require.NoError(t, err)
	assert.Empty(t, decisions, "the resolved destination path reaches the limit")
}

func TestRunCreatesMissingTarget(t *testing.T) {
	f := newFixture(t)
	pair := models.FolderPair{Source: f.source, Target: filepath.Join(f.target, "fresh", "mirror")}

	summary, err := newTestEngine(true, false).Run(context.Background(), []models.FolderPair{pair}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, summary.Status)
	assert.DirExists(t, pair.Target)
}

func TestRunPairFailuresAreIsolated(t *testing.T) {
	good := newFixture(t)
	good.writeSource("a.txt", "a", 100)

	pairs := []models.FolderPair{
		{Source: "", Target: good.target},
		{Source: filepath.Join(good.source, "missing"), Target: good.target},
		{Source: good.source, Target: filepath.Join(good.source, "inner")},
		good.pair(),
	}

	rec := &progressRecorder{}
	summary, err := newTestEngine(false, false).Run(context.Background(), pairs, rec)
	require.NoError(t, err)

	require.Len(t, summary.Pairs, 4)
	require.Len(t, summary.PairFailures, 3)
	assert.Equal(t, models.KindConfiguration, summary.PairFailures[0].Kind)
	assert.Equal(t, models.KindInvalidPair, summary.PairFailures[1].Kind)
	assert.Equal(t, models.KindInvalidPair, summary.PairFailures[2].Kind)

	for _, report := range summary.Pairs[:3] {
		assert.Equal(t, models.StateFailed, report.State)
		assert.Nil(t, report.Summary, "failed pairs are never executed")
	}
	assert.Equal(t, models.StateCompleted, summary.Pairs[3].State)
	assert.Equal(t, "a", readFile(t, filepath.Join(good.target, "a.txt")))

	assert.Equal(t, models.StatusPartial, summary.Status)
	assert.Len(t, rec.started, 4)
	assert.Len(t, rec.finished, 4)
}

func TestRunAllPairsFail(t *testing.T) {
	root := t.TempDir()
	pairs := []models.FolderPair{
		{Source: filepath.Join(root, "nope"), Target: filepath.Join(root, "out")},
		{Source: root, Target: ""},
	}

	summary, err := newTestEngine(false, false).Run(context.Background(), pairs, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, summary.Status)
	assert.Equal(t, 2, summary.Status.ExitCode())
}

func TestRunFileErrorsArePartial(t *testing.T) {
	f := newFixture(t)
	f.writeSource("ok.txt", "fine", 100)
	f.writeSource("blocked/file.txt", "x", 100)
	// a file where a directory must be created makes that one copy fail
	f.writeTarget("blocked", "not a dir", 100)

	summary, err := newTestEngine(false, false).Run(context.Background(), []models.FolderPair{f.pair()}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.StateCompleted, summary.Pairs[0].State, "item failures never fail the pair")
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, filepath.Join("blocked", "file.txt"), summary.Errors[0].Path)
	assert.Equal(t, models.KindIO, summary.Errors[0].Kind)
	assert.Equal(t, models.StatusPartial, summary.Status)
	assert.Equal(t, "fine", readFile(t, filepath.Join(f.target, "ok.txt")))
}

func TestRunSkipsUnreadableSubdirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	f := newFixture(t)
	f.writeSource("a.txt", "alpha", 100)
	f.writeSource(filepath.Join("locked", "b.txt"), "beta", 100)
	locked := filepath.Join(f.source, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	summary, err := newTestEngine(false, false).Run(context.Background(), []models.FolderPair{f.pair()}, nil)
	require.NoError(t, err)

	report := summary.Pairs[0]
	assert.Equal(t, models.StateCompleted, report.State)
	assert.NoError(t, report.Err)
	assert.Equal(t, models.StatusSuccess, summary.Status)
	assert.Equal(t, "alpha", readFile(t, filepath.Join(f.target, "a.txt")))
	assert.NoFileExists(t, filepath.Join(f.target, "locked", "b.txt"))
}

func TestRunEmptyPairList(t *testing.T) {
	summary, err := newTestEngine(false, false).Run(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSuccess, summary.Status)
	assert.NotEmpty(t, summary.ID)
}

func TestRunCancellation(t *testing.T) {
	first := newFixture(t)
	for _, name := range []string{"a", "b", "c"} {
		first.writeSource(name, name, 100)
	}
	second := newFixture(t)
	second.writeSource("z", "z", 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sink := ProgressFunc(func(fraction float64, message string) { cancel() })

	summary, err := newTestEngine(false, false).Run(ctx, []models.FolderPair{first.pair(), second.pair()}, sink)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.StatusCancelled, summary.Status)
	assert.Equal(t, 3, summary.Status.ExitCode())

	require.Len(t, summary.Pairs, 1, "pairs after cancellation are not started")
	assert.Equal(t, models.StateCancelled, summary.Pairs[0].State)
	assert.Len(t, summary.Pairs[0].Summary.Outcomes, 1)
	assert.NoFileExists(t, filepath.Join(second.target, "z"))
}

func TestRunAlreadyCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := newTestEngine(false, false).Run(ctx, []models.FolderPair{f.pair()}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.StatusCancelled, summary.Status)
	assert.Empty(t, summary.Pairs)
}
