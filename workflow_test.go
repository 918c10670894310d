package dagger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/htcdag/dagger/condor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmit(executable string) *condor.Submit {
	s := condor.NewSubmit(nil)
	s.Set("executable", executable)
	return s
}

func TestNew(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wf")
	w, err := New(dir, "test")
	require.NoError(t, err)

	assert.Equal(t, "test", w.Name())
	assert.Equal(t, dir, w.Dir())
	assert.Empty(t, w.LayerNames())
	// The directory appears when Write runs, not before.
	assert.NoDirExists(t, dir)

	require.NoError(t, w.Write(context.Background()))
	assert.DirExists(t, dir)
}

func TestNew_EmptyNameRejected(t *testing.T) {
	_, err := New(t.TempDir(), "")
	assert.ErrorContains(t, err, "must not be empty")
}

func TestWrite_OverwriteClearsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.sub"), []byte("old"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "outputs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "outputs", "result.txt"), []byte("keep"), 0o644))

	w, err := New(dir, "test", WithOverwrite())
	require.NoError(t, err)
	// Construction alone clears nothing.
	assert.FileExists(t, filepath.Join(dir, "stale.sub"))

	require.NoError(t, w.Write(context.Background()))

	assert.NoFileExists(t, filepath.Join(dir, "stale.sub"))
	// Subdirectories survive an overwrite.
	assert.FileExists(t, filepath.Join(dir, "outputs", "result.txt"))
}

func TestWrite_WithoutOverwriteKeepsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.sub"), []byte("old"), 0o644))

	w, err := New(dir, "test")
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background()))
	assert.FileExists(t, filepath.Join(dir, "stale.sub"))
}

func TestAddLayer(t *testing.T) {
	w, err := New(t.TempDir(), "test")
	require.NoError(t, err)

	layer, err := w.AddLayer(newSubmit("a.sh"), nil, WithName("first"))
	require.NoError(t, err)
	assert.Equal(t, "first", layer.Name)
	assert.Equal(t, []string{"first"}, w.LayerNames())

	_, ok := w.Submits()["first"]
	assert.True(t, ok)
}

func TestAddLayer_AutoNaming(t *testing.T) {
	w, err := New(t.TempDir(), "test")
	require.NoError(t, err)

	l1, err := w.AddLayer(newSubmit("a.sh"), nil)
	require.NoError(t, err)
	assert.Equal(t, "layer_1", l1.Name)

	// A named layer still advances the counter.
	_, err = w.AddLayer(newSubmit("b.sh"), nil, WithName("named"))
	require.NoError(t, err)

	l3, err := w.AddLayer(newSubmit("c.sh"), nil)
	require.NoError(t, err)
	assert.Equal(t, "layer_3", l3.Name)
}

func TestAddLayer_WithParents(t *testing.T) {
	w, err := New(t.TempDir(), "test")
	require.NoError(t, err)

	_, err = w.AddLayer(newSubmit("a.sh"), nil, WithName("parent"))
	require.NoError(t, err)

	child, err := w.AddLayer(newSubmit("b.sh"), nil, WithName("child"), WithParents("parent"))
	require.NoError(t, err)
	assert.Equal(t, "child", child.Name)
	assert.Equal(t, []string{"parent", "child"}, w.LayerNames())
}

func TestAddLayer_UnknownParentRejected(t *testing.T) {
	w, err := New(t.TempDir(), "test")
	require.NoError(t, err)

	_, err = w.AddLayer(newSubmit("a.sh"), nil, WithParents("nonexistent"))
	require.Error(t, err)
	assert.ErrorContains(t, err, `parent layer "nonexistent" does not exist`)
}

func TestAddLayer_NilSubmitRejected(t *testing.T) {
	w, err := New(t.TempDir(), "test")
	require.NoError(t, err)

	_, err = w.AddLayer(nil, nil)
	assert.ErrorContains(t, err, "must not be nil")
}

func TestAddLayer_DirectivesReachTheLayer(t *testing.T) {
	w, err := New(t.TempDir(), "test")
	require.NoError(t, err)

	layer, err := w.AddLayer(newSubmit("a.sh"),
		[]map[string]string{{"x": "1"}, {"x": "2"}},
		WithName("work"),
		WithRetry(3),
		WithPriority(5),
		WithPreScript("pre.sh"),
		WithPostScript("post.sh"),
	)
	require.NoError(t, err)
	assert.Equal(t, 3, layer.Retry)
	assert.Equal(t, 5, layer.Priority)
	assert.Equal(t, "pre.sh", layer.Pre)
	assert.Equal(t, "post.sh", layer.Post)
	assert.Equal(t, 2, layer.NodeCount())
}

func TestWrite_FullWorkflow(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, "full_test")
	require.NoError(t, err)

	_, err = w.AddLayer(newSubmit("step1.sh"),
		[]map[string]string{{"input_data": "test"}},
		WithName("process"),
	)
	require.NoError(t, err)

	_, err = w.AddLayer(newSubmit("step2.sh"), nil,
		WithName("final"),
		WithParents("process"),
	)
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "full_test.dag"))
	require.NoError(t, err)
	dagFile := string(data)
	assert.Contains(t, dagFile, "JOB process process.sub")
	assert.Contains(t, dagFile, "JOB final final.sub")
	assert.Contains(t, dagFile, "PARENT process CHILD final")
	assert.FileExists(t, filepath.Join(dir, "process.sub"))
	assert.FileExists(t, filepath.Join(dir, "final.sub"))
}

func TestWrite_EmptyWorkflow(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, "empty")
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background()))
	assert.FileExists(t, filepath.Join(dir, "empty.dag"))
}

func TestWrite_WithDAGManConfig(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, "cfg",
		WithDAGManConfig(map[string]string{"DAGMAN_MAX_JOBS_SUBMITTED": "50"}),
		WithNodeStatusFile("cfg.status"),
	)
	require.NoError(t, err)

	_, err = w.AddLayer(newSubmit("a.sh"), nil)
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "cfg.dag"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "CONFIG cfg.dag.config")
	assert.Contains(t, string(data), "NODE_STATUS_FILE cfg.status")
	assert.FileExists(t, filepath.Join(dir, "cfg.dag.config"))
}
