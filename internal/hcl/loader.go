package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/htcdag/dagger/internal/config"
	"github.com/htcdag/dagger/internal/ctxlog"
	"github.com/htcdag/dagger/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates an HCL workflow definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from the given paths and merges the
// result into a single model. Files are processed in sorted path order so
// that merging is deterministic regardless of directory walk order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findDefinitionFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl workflow definitions found in %v", paths)
	}
	logger.Debug("Discovered definition files.", "count", len(files))

	evalCtx := evalContext()
	parser := hclparse.NewParser()

	model := &config.Model{Defaults: make(map[string]string)}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}

		for _, w := range root.Workflows {
			if model.Workflow != nil {
				return nil, fmt.Errorf("%s: multiple workflow blocks defined (%q and %q); exactly one is allowed", file, model.Workflow.Name, w.Name)
			}
			wf, err := translateWorkflow(w, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Workflow = wf
		}

		if root.Defaults != nil {
			defaults, err := exprToStringMap(root.Defaults, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid defaults attribute: %w", file, err)
			}
			for k, v := range defaults {
				model.Defaults[k] = v
			}
		}

		for _, j := range root.Jobs {
			job, err := translateJob(j, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			model.Jobs = append(model.Jobs, job)
		}
	}

	if model.Workflow == nil {
		return nil, fmt.Errorf("no workflow block found in %v", paths)
	}

	logger.Debug("HCL loading complete.",
		"workflow", model.Workflow.Name,
		"jobs", len(model.Jobs),
		"defaults", len(model.Defaults),
	)
	return model, nil
}

// findDefinitionFiles flattens the given paths into a sorted, de-duplicated
// list of .hcl files.
func (l *Loader) findDefinitionFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var all []string
	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			all = append(all, f)
		}
	}
	sort.Strings(all)
	return all, nil
}
