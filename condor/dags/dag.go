package dags

import (
	"fmt"

	"github.com/htcdag/dagger/condor"
)

// NodeLayer is a group of DAGMan nodes sharing one submit descriptor.
type NodeLayer struct {
	// Name identifies the layer and prefixes its node names.
	Name string
	// Submit is the descriptor rendered into the layer's submit file.
	Submit *condor.Submit
	// SubmitFile is the file name the nodes' JOB lines reference. Defaults
	// to "<Name>.sub" when empty.
	SubmitFile string
	// Vars holds one variable map per node. An empty slice still produces
	// a single node without VARS lines.
	Vars []map[string]string
	// Retry is the per-node RETRY count. Zero emits no RETRY line.
	Retry int
	// Priority is the per-node PRIORITY. Zero emits no PRIORITY line.
	Priority int
	// Pre and Post name executables for SCRIPT PRE / SCRIPT POST lines.
	Pre  string
	Post string
}

// NodeCount returns the number of DAGMan nodes the layer expands to.
func (l *NodeLayer) NodeCount() int {
	if len(l.Vars) == 0 {
		return 1
	}
	return len(l.Vars)
}

// submitFile returns the effective submit file name for the layer.
func (l *NodeLayer) submitFile() string {
	if l.SubmitFile != "" {
		return l.SubmitFile
	}
	return l.Name + ".sub"
}

// edge is a parent→child relationship between two registered layers.
type edge struct {
	parent string
	child  string
}

// DAG is an ordered collection of node layers and the dependency edges
// between them.
type DAG struct {
	layers []*NodeLayer
	index  map[string]*NodeLayer
	edges  []edge
	// Formatter controls how multi-node layers name their nodes. When nil,
	// DefaultFormatter is used.
	Formatter NodeNameFormatter
}

// New returns an initialized, empty DAG.
func New() *DAG {
	return &DAG{index: make(map[string]*NodeLayer)}
}

// AddLayer registers a layer. Layer names must be unique within the DAG and
// non-empty, since node names and submit file names derive from them.
func (d *DAG) AddLayer(layer *NodeLayer) error {
	if layer.Name == "" {
		return fmt.Errorf("layer name must not be empty")
	}
	if layer.Submit == nil {
		return fmt.Errorf("layer %q has no submit descriptor", layer.Name)
	}
	if _, ok := d.index[layer.Name]; ok {
		return fmt.Errorf("duplicate layer name %q", layer.Name)
	}
	d.layers = append(d.layers, layer)
	d.index[layer.Name] = layer
	return nil
}

// AddDependency records that every node of the child layer waits for every
// node of the parent layer. Both layers must already be registered.
func (d *DAG) AddDependency(parent, child string) error {
	if parent == child {
		return fmt.Errorf("self-referential dependency not allowed: %s -> %s", parent, parent)
	}
	if _, ok := d.index[parent]; !ok {
		return fmt.Errorf("parent layer not found: %s", parent)
	}
	if _, ok := d.index[child]; !ok {
		return fmt.Errorf("child layer not found: %s", child)
	}
	d.edges = append(d.edges, edge{parent: parent, child: child})
	return nil
}

// Layer returns the registered layer with the given name, or nil.
func (d *DAG) Layer(name string) *NodeLayer {
	return d.index[name]
}

// Layers returns the registered layers in insertion order.
func (d *DAG) Layers() []*NodeLayer {
	out := make([]*NodeLayer, len(d.layers))
	copy(out, d.layers)
	return out
}

// LayerNames returns the layer names in insertion order.
func (d *DAG) LayerNames() []string {
	names := make([]string, len(d.layers))
	for i, l := range d.layers {
		names[i] = l.Name
	}
	return names
}

// NodeNames returns the DAGMan node names a layer expands to.
func (d *DAG) NodeNames(layer *NodeLayer) []string {
	f := d.Formatter
	if f == nil {
		f = DefaultFormatter
	}
	names := make([]string, layer.NodeCount())
	for i := range names {
		names[i] = f.NodeName(layer.Name, i, layer.NodeCount())
	}
	return names
}

// Validate checks that the layer graph is acyclic. DAGMan would reject a
// cyclic workflow at submission time; catching it here keeps the error close
// to the definition that caused it.
func (d *DAG) Validate() error {
	// Classic three-color depth-first search over the layer graph.
	children := make(map[string][]string, len(d.layers))
	for _, e := range d.edges {
		children[e.parent] = append(children[e.parent], e.child)
	}

	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if permanent[name] {
			return nil
		}
		if temporary[name] {
			return fmt.Errorf("cycle detected involving layer '%s'", name)
		}
		temporary[name] = true
		for _, child := range children[name] {
			if err := visit(child); err != nil {
				return err
			}
		}
		delete(temporary, name)
		permanent[name] = true
		return nil
	}

	for _, l := range d.layers {
		if !permanent[l.Name] {
			if err := visit(l.Name); err != nil {
				return err
			}
		}
	}
	return nil
}
