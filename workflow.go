// Package dagger assembles HTCondor DAGMan workflows from job descriptions.
//
// A Workflow owns an output directory and a name. Jobs are added as layers:
// each layer couples a submit descriptor with per-node variable maps and
// optional parent layers. Write renders the DAG file, the submit files, and
// any generated scripts into the workflow directory, ready for
// condor_submit_dag.
package dagger

import (
	"context"
	"fmt"

	"github.com/htcdag/dagger/condor"
	"github.com/htcdag/dagger/condor/dags"
	"github.com/htcdag/dagger/internal/ctxlog"
	"github.com/htcdag/dagger/internal/fsutil"
)

// Workflow accumulates layers and writes them out as a DAGMan workflow.
// Nothing touches the file system until Write runs: scripts added through
// AddScript or ScriptLayer are queued and materialised together with the
// DAG and submit files.
type Workflow struct {
	dir       string
	name      string
	dag       *dags.DAG
	submits   map[string]*condor.Submit
	scripts   []Script
	nlayers   int
	overwrite bool
	config    map[string]string
	statusLog string
}

// Option configures a Workflow at construction time.
type Option func(*options)

type options struct {
	overwrite      bool
	config         map[string]string
	nodeStatusFile string
}

// WithOverwrite clears regular files already present in the workflow
// directory when Write runs. Subdirectories are left alone.
func WithOverwrite() Option {
	return func(o *options) { o.overwrite = true }
}

// WithDAGManConfig attaches DAGMan configuration knobs, written to a config
// file referenced from the DAG.
func WithDAGManConfig(cfg map[string]string) Option {
	return func(o *options) { o.config = cfg }
}

// WithNodeStatusFile asks DAGMan to maintain a node status file with the
// given name while the workflow runs.
func WithNodeStatusFile(name string) Option {
	return func(o *options) { o.nodeStatusFile = name }
}

// New creates a workflow rooted at dir. The directory itself is prepared
// when Write runs, so constructing and inspecting a workflow leaves no
// trace on disk.
func New(dir, name string, opts ...Option) (*Workflow, error) {
	if name == "" {
		return nil, fmt.Errorf("workflow name must not be empty")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Workflow{
		dir:       dir,
		name:      name,
		dag:       dags.New(),
		submits:   make(map[string]*condor.Submit),
		nlayers:   1,
		overwrite: o.overwrite,
		config:    o.config,
		statusLog: o.nodeStatusFile,
	}, nil
}

// Dir returns the workflow output directory.
func (w *Workflow) Dir() string { return w.dir }

// Name returns the workflow name. The DAG file is written as "<name>.dag".
func (w *Workflow) Name() string { return w.name }

// LayerNames returns the names of all added layers in insertion order.
func (w *Workflow) LayerNames() []string { return w.dag.LayerNames() }

// Layers returns all added layers in insertion order.
func (w *Workflow) Layers() []*dags.NodeLayer { return w.dag.Layers() }

// Submits maps layer names to their submit descriptors, for inspection.
func (w *Workflow) Submits() map[string]*condor.Submit {
	out := make(map[string]*condor.Submit, len(w.submits))
	for k, v := range w.submits {
		out[k] = v
	}
	return out
}

// LayerOption configures a single layer.
type LayerOption func(*layerOptions)

type layerOptions struct {
	name     string
	parents  []string
	retry    int
	priority int
	pre      string
	post     string
}

// WithName sets the layer name. Unnamed layers get "layer_N", where N counts
// up from 1 across the workflow.
func WithName(name string) LayerOption {
	return func(o *layerOptions) { o.name = name }
}

// WithParents links the layer after the named parent layers. Every parent
// must have been added already.
func WithParents(names ...string) LayerOption {
	return func(o *layerOptions) { o.parents = append(o.parents, names...) }
}

// WithRetry sets the DAGMan RETRY count for each node of the layer.
func WithRetry(n int) LayerOption {
	return func(o *layerOptions) { o.retry = n }
}

// WithPriority sets the DAGMan PRIORITY for each node of the layer.
func WithPriority(p int) LayerOption {
	return func(o *layerOptions) { o.priority = p }
}

// WithPreScript attaches a SCRIPT PRE executable to each node of the layer.
func WithPreScript(script string) LayerOption {
	return func(o *layerOptions) { o.pre = script }
}

// WithPostScript attaches a SCRIPT POST executable to each node of the layer.
func WithPostScript(script string) LayerOption {
	return func(o *layerOptions) { o.post = script }
}

// AddLayer registers a submit descriptor as a new layer. Each entry of vars
// parameterises one node of the layer; a nil vars yields a single node.
func (w *Workflow) AddLayer(submit *condor.Submit, vars []map[string]string, opts ...LayerOption) (*dags.NodeLayer, error) {
	if submit == nil {
		return nil, fmt.Errorf("submit descriptor must not be nil")
	}
	var o layerOptions
	for _, opt := range opts {
		opt(&o)
	}

	name := o.name
	if name == "" {
		name = fmt.Sprintf("layer_%d", w.nlayers)
	}

	// Parents have to exist before any child can point at them.
	for _, parent := range o.parents {
		if w.dag.Layer(parent) == nil {
			return nil, fmt.Errorf("parent layer %q does not exist in the workflow; define it before adding children", parent)
		}
	}

	layer := &dags.NodeLayer{
		Name:     name,
		Submit:   submit,
		Vars:     vars,
		Retry:    o.retry,
		Priority: o.priority,
		Pre:      o.pre,
		Post:     o.post,
	}
	if err := w.dag.AddLayer(layer); err != nil {
		return nil, err
	}
	for _, parent := range o.parents {
		if err := w.dag.AddDependency(parent, name); err != nil {
			return nil, err
		}
	}

	w.nlayers++
	w.submits[name] = submit
	return layer, nil
}

// Write renders every artifact of the workflow into its directory: the
// directory is created (and, with WithOverwrite, cleared of regular files),
// queued scripts are materialised, and the submit files plus the
// "<name>.dag" file are produced.
func (w *Workflow) Write(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if err := fsutil.PrepareDir(w.dir, w.overwrite); err != nil {
		return fmt.Errorf("failed to prepare workflow directory: %w", err)
	}
	for _, s := range w.scripts {
		if err := w.writeScript(s); err != nil {
			return err
		}
	}

	opts := []dags.WriteOption{dags.WithFileName(w.name + ".dag")}
	if len(w.config) > 0 {
		opts = append(opts, dags.WithConfig(w.config))
	}
	if w.statusLog != "" {
		opts = append(opts, dags.WithNodeStatusFile(w.statusLog))
	}

	if len(w.dag.Layers()) == 0 {
		logger.Warn("Workflow has no layers; writing an empty DAG file.", "workflow", w.name)
	}

	if err := dags.WriteDAG(w.dag, w.dir, opts...); err != nil {
		return fmt.Errorf("failed to write workflow %q: %w", w.name, err)
	}
	logger.Debug("Workflow written.", "workflow", w.name, "dir", w.dir, "layers", len(w.dag.Layers()))
	return nil
}
