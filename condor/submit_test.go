package condor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmit(t *testing.T) {
	s := NewSubmit(map[string]string{
		"executable":   "job.sh",
		"request_cpus": "1",
		"arguments":    "--fast",
	})
	// Construction from a map inserts keys in sorted order.
	assert.Equal(t, []string{"arguments", "executable", "request_cpus"}, s.Keys())
	assert.Equal(t, 3, s.Len())
}

func TestSubmit_SetPreservesInsertionOrder(t *testing.T) {
	s := NewSubmit(nil)
	s.Set("executable", "job.sh")
	s.Set("arguments", "one")
	s.Set("request_memory", "2G")
	assert.Equal(t, []string{"executable", "arguments", "request_memory"}, s.Keys())

	// Updating an existing key keeps its position.
	s.Set("arguments", "two")
	assert.Equal(t, []string{"executable", "arguments", "request_memory"}, s.Keys())
	v, ok := s.Get("arguments")
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestSubmit_Merge(t *testing.T) {
	s := NewSubmit(nil)
	s.Set("executable", "job.sh")
	s.Set("request_cpus", "1")

	other := NewSubmit(nil)
	other.Set("request_cpus", "8")
	other.Set("+WantOSPool", "true")
	other.AddRawLine("# site-specific")

	s.Merge(other)

	v, _ := s.Get("request_cpus")
	assert.Equal(t, "8", v, "the merged descriptor should win on conflicts")
	_, ok := s.Get("+WantOSPool")
	assert.True(t, ok)
	assert.Contains(t, s.Render(), "# site-specific\n")

	// Merging nil is a no-op.
	s.Merge(nil)
	assert.Equal(t, 3, s.Len())
}

func TestSubmit_Render(t *testing.T) {
	t.Run("empty descriptor renders just the queue statement", func(t *testing.T) {
		s := NewSubmit(nil)
		assert.Equal(t, "queue\n", s.Render())
	})

	t.Run("commands then raw lines then queue", func(t *testing.T) {
		s := NewSubmit(nil)
		s.Set("executable", "tclean.py")
		s.Set("arguments", "$(input) --jobid $(Process)")
		s.AddRawLine("accounting_group_user = someone")

		want := "executable = tclean.py\n" +
			"arguments = $(input) --jobid $(Process)\n" +
			"accounting_group_user = someone\n" +
			"queue\n"
		assert.Equal(t, want, s.Render())
	})
}

func TestSubmit_WriteFile(t *testing.T) {
	s := NewSubmit(nil)
	s.Set("executable", "job.sh")

	path := filepath.Join(t.TempDir(), "job.sub")
	require.NoError(t, s.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "executable = job.sh\nqueue\n", string(data))
}
