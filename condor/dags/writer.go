package dags

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// writeOptions collects the optional knobs for WriteDAG.
type writeOptions struct {
	fileName       string
	config         map[string]string
	nodeStatusFile string
}

// WriteOption customises WriteDAG output.
type WriteOption func(*writeOptions)

// WithFileName overrides the DAG file name (default "workflow.dag").
func WithFileName(name string) WriteOption {
	return func(o *writeOptions) { o.fileName = name }
}

// WithConfig adds DAGMan configuration knobs. They are written to a
// "<dagfile>.config" file referenced by a CONFIG line.
func WithConfig(cfg map[string]string) WriteOption {
	return func(o *writeOptions) { o.config = cfg }
}

// WithNodeStatusFile adds a NODE_STATUS_FILE line so DAGMan maintains a
// machine-readable progress file alongside the workflow.
func WithNodeStatusFile(name string) WriteOption {
	return func(o *writeOptions) { o.nodeStatusFile = name }
}

// WriteDAG renders the DAG and its submit files into dir. The directory must
// already exist. Rendering is deterministic: layers appear in insertion
// order, VARS keys are sorted, and edges appear in declaration order.
func WriteDAG(d *DAG, dir string, opts ...WriteOption) error {
	o := writeOptions{fileName: "workflow.dag"}
	for _, opt := range opts {
		opt(&o)
	}

	if err := d.Validate(); err != nil {
		return fmt.Errorf("refusing to write invalid workflow: %w", err)
	}

	var b strings.Builder

	if len(o.config) > 0 {
		configName := o.fileName + ".config"
		if err := writeConfigFile(filepath.Join(dir, configName), o.config); err != nil {
			return err
		}
		fmt.Fprintf(&b, "CONFIG %s\n\n", configName)
	}
	if o.nodeStatusFile != "" {
		fmt.Fprintf(&b, "NODE_STATUS_FILE %s\n\n", o.nodeStatusFile)
	}

	for _, layer := range d.layers {
		submitFile := layer.submitFile()
		if err := layer.Submit.WriteFile(filepath.Join(dir, submitFile)); err != nil {
			return fmt.Errorf("layer %q: %w", layer.Name, err)
		}

		for i, node := range d.NodeNames(layer) {
			fmt.Fprintf(&b, "JOB %s %s\n", node, submitFile)
			if len(layer.Vars) > 0 {
				if line := varsLine(node, layer.Vars[i]); line != "" {
					b.WriteString(line)
				}
			}
			if layer.Retry > 0 {
				fmt.Fprintf(&b, "RETRY %s %d\n", node, layer.Retry)
			}
			if layer.Priority != 0 {
				fmt.Fprintf(&b, "PRIORITY %s %d\n", node, layer.Priority)
			}
			if layer.Pre != "" {
				fmt.Fprintf(&b, "SCRIPT PRE %s %s\n", node, layer.Pre)
			}
			if layer.Post != "" {
				fmt.Fprintf(&b, "SCRIPT POST %s %s\n", node, layer.Post)
			}
		}
		b.WriteString("\n")
	}

	for _, e := range d.edges {
		parents := strings.Join(d.NodeNames(d.index[e.parent]), " ")
		children := strings.Join(d.NodeNames(d.index[e.child]), " ")
		fmt.Fprintf(&b, "PARENT %s CHILD %s\n", parents, children)
	}

	dagPath := filepath.Join(dir, o.fileName)
	if err := os.WriteFile(dagPath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write DAG file: %w", err)
	}
	return nil
}

// varsLine renders a single VARS line with sorted keys. Double quotes inside
// values are escaped for the DAGMan parser.
func varsLine(node string, vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "VARS %s", node)
	for _, k := range keys {
		escaped := strings.ReplaceAll(vars[k], `"`, `\"`)
		fmt.Fprintf(&b, " %s=\"%s\"", k, escaped)
	}
	b.WriteString("\n")
	return b.String()
}

// writeConfigFile renders DAGMan configuration knobs as KEY = value lines.
func writeConfigFile(path string, cfg map[string]string) error {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s = %s\n", k, cfg[k])
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write DAGMan config file: %w", err)
	}
	return nil
}
