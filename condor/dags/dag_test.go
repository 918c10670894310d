package dags

import (
	"testing"

	"github.com/htcdag/dagger/condor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layer(name string, vars ...map[string]string) *NodeLayer {
	s := condor.NewSubmit(nil)
	s.Set("executable", name+".sh")
	return &NodeLayer{Name: name, Submit: s, Vars: vars}
}

func TestAddLayer(t *testing.T) {
	d := New()

	require.NoError(t, d.AddLayer(layer("a")))
	require.NoError(t, d.AddLayer(layer("b")))
	assert.Equal(t, []string{"a", "b"}, d.LayerNames())
	assert.NotNil(t, d.Layer("a"))
	assert.Nil(t, d.Layer("dne"))

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := d.AddLayer(layer("a"))
		assert.ErrorContains(t, err, `duplicate layer name "a"`)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := d.AddLayer(layer(""))
		assert.ErrorContains(t, err, "must not be empty")
	})

	t.Run("missing submit descriptor rejected", func(t *testing.T) {
		err := d.AddLayer(&NodeLayer{Name: "c"})
		assert.ErrorContains(t, err, "no submit descriptor")
	})
}

func TestAddDependency(t *testing.T) {
	d := New()
	require.NoError(t, d.AddLayer(layer("a")))
	require.NoError(t, d.AddLayer(layer("b")))

	require.NoError(t, d.AddDependency("a", "b"))

	err := d.AddDependency("dne", "b")
	assert.ErrorContains(t, err, "parent layer not found")

	err = d.AddDependency("a", "dne")
	assert.ErrorContains(t, err, "child layer not found")

	err = d.AddDependency("a", "a")
	assert.ErrorContains(t, err, "self-referential")
}

func TestNodeNames(t *testing.T) {
	d := New()

	single := layer("solo")
	fanout := layer("fan",
		map[string]string{"i": "0"},
		map[string]string{"i": "1"},
		map[string]string{"i": "2"},
	)
	require.NoError(t, d.AddLayer(single))
	require.NoError(t, d.AddLayer(fanout))

	assert.Equal(t, []string{"solo"}, d.NodeNames(single))
	assert.Equal(t, []string{"fan_0", "fan_1", "fan_2"}, d.NodeNames(fanout))

	t.Run("custom formatter", func(t *testing.T) {
		d.Formatter = SimpleFormatter{Separator: "."}
		assert.Equal(t, []string{"fan.0", "fan.1", "fan.2"}, d.NodeNames(fanout))
	})
}

func TestNodeCount(t *testing.T) {
	assert.Equal(t, 1, layer("a").NodeCount(), "a layer without vars still has one node")
	assert.Equal(t, 2, layer("a", map[string]string{}, map[string]string{}).NodeCount())
}

func TestValidate(t *testing.T) {
	t.Run("empty dag is valid", func(t *testing.T) {
		assert.NoError(t, New().Validate())
	})

	t.Run("valid dag", func(t *testing.T) {
		d := New()
		for _, n := range []string{"a", "b", "c", "d"} {
			require.NoError(t, d.AddLayer(layer(n)))
		}
		require.NoError(t, d.AddDependency("a", "b"))
		require.NoError(t, d.AddDependency("b", "c"))
		require.NoError(t, d.AddDependency("a", "c")) // Transitive edge
		require.NoError(t, d.AddDependency("c", "d"))
		assert.NoError(t, d.Validate())
	})

	t.Run("cycle is detected", func(t *testing.T) {
		d := New()
		for _, n := range []string{"a", "b", "c"} {
			require.NoError(t, d.AddLayer(layer(n)))
		}
		require.NoError(t, d.AddDependency("a", "b"))
		require.NoError(t, d.AddDependency("b", "c"))
		require.NoError(t, d.AddDependency("c", "a"))
		err := d.Validate()
		assert.ErrorContains(t, err, "cycle detected")
	})
}
