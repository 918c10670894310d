// Package builder compiles the format-agnostic workflow model into a
// dagger.Workflow. It owns the submit attribute merge order and validates
// the dependency structure before anything touches the file system.
package builder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/htcdag/dagger"
	"github.com/htcdag/dagger/condor"
	"github.com/htcdag/dagger/internal/config"
	"github.com/htcdag/dagger/internal/ctxlog"
	"github.com/htcdag/dagger/internal/graph"
)

// Options adjusts compilation beyond what the model itself specifies.
type Options struct {
	// DirOverride replaces the workflow's output directory when non-empty.
	DirOverride string
	// ProfileAttrs are submit attributes from a TOML profile. They sit at
	// the bottom of the merge order: model defaults and per-job attributes
	// both override them.
	ProfileAttrs map[string]string
}

// Build validates the model and compiles it into a ready-to-write workflow.
// It touches nothing on disk: the directory is prepared and scripts are
// materialised only when the workflow's Write method runs, so a dry run can
// stop after compilation.
func Build(ctx context.Context, model *config.Model, opts Options) (*dagger.Workflow, error) {
	logger := ctxlog.FromContext(ctx)

	if model.Workflow == nil {
		return nil, fmt.Errorf("model has no workflow")
	}
	if err := validateJobs(model); err != nil {
		return nil, err
	}
	logger.Debug("Workflow model validated.", "jobs", len(model.Jobs))

	dir := model.Workflow.Dir
	if opts.DirOverride != "" {
		dir = opts.DirOverride
	}

	var wfOpts []dagger.Option
	if model.Workflow.Overwrite {
		wfOpts = append(wfOpts, dagger.WithOverwrite())
	}
	if len(model.Workflow.Config) > 0 {
		wfOpts = append(wfOpts, dagger.WithDAGManConfig(model.Workflow.Config))
	}
	if model.Workflow.NodeStatusFile != "" {
		wfOpts = append(wfOpts, dagger.WithNodeStatusFile(model.Workflow.NodeStatusFile))
	}

	wf, err := dagger.New(dir, model.Workflow.Name, wfOpts...)
	if err != nil {
		return nil, err
	}

	// Layers must be registered parents-first, but definition files are free
	// to list jobs in any order.
	for _, job := range orderJobs(model.Jobs) {
		if err := addJob(wf, job, model.Defaults, opts.ProfileAttrs); err != nil {
			return nil, err
		}
	}

	logger.Debug("Workflow compiled.", "workflow", wf.Name(), "layers", len(wf.LayerNames()))
	return wf, nil
}

// addJob compiles one job into a workflow layer.
func addJob(wf *dagger.Workflow, job *config.Job, defaults, profileAttrs map[string]string) error {
	// Merge order, lowest precedence first: profile, shared defaults, the
	// job's own submit attributes, then the explicit fields.
	submit := condor.NewSubmit(profileAttrs)
	submit.Merge(condor.NewSubmit(defaults))
	submit.Merge(condor.NewSubmit(job.Submit))

	if job.Script != nil {
		name := job.Script.Name
		if name == "" {
			name = job.Name + ".sh"
		}
		path, err := wf.AddScript(dagger.Script{
			Name:    name,
			Shebang: job.Script.Shebang,
			Body:    job.Script.Body,
		})
		if err != nil {
			return fmt.Errorf("job %q: %w", job.Name, err)
		}
		if job.Executable == "" {
			submit.Set("executable", filepath.Base(path))
		}
	}
	if job.Executable != "" {
		submit.Set("executable", job.Executable)
	}
	if job.Arguments != "" {
		submit.Set("arguments", job.Arguments)
	}

	if _, ok := submit.Get("executable"); !ok {
		return fmt.Errorf("job %q has no executable: set one directly, via defaults, or through a script block", job.Name)
	}

	layerOpts := []dagger.LayerOption{dagger.WithName(job.Name)}
	if len(job.DependsOn) > 0 {
		layerOpts = append(layerOpts, dagger.WithParents(job.DependsOn...))
	}
	if job.Retry > 0 {
		layerOpts = append(layerOpts, dagger.WithRetry(job.Retry))
	}
	if job.Priority != 0 {
		layerOpts = append(layerOpts, dagger.WithPriority(job.Priority))
	}
	if job.PreScript != "" {
		layerOpts = append(layerOpts, dagger.WithPreScript(job.PreScript))
	}
	if job.PostScript != "" {
		layerOpts = append(layerOpts, dagger.WithPostScript(job.PostScript))
	}

	if _, err := wf.AddLayer(submit, job.Vars, layerOpts...); err != nil {
		return fmt.Errorf("job %q: %w", job.Name, err)
	}
	return nil
}

// orderJobs returns the jobs sorted so that every job follows all of its
// dependencies, keeping definition order among jobs that are ready at the
// same time. Called after validation, so the graph is known to be acyclic.
func orderJobs(jobs []*config.Job) []*config.Job {
	placed := make(map[string]bool, len(jobs))
	remaining := make([]*config.Job, len(jobs))
	copy(remaining, jobs)

	ordered := make([]*config.Job, 0, len(jobs))
	for len(remaining) > 0 {
		var next []*config.Job
		for _, job := range remaining {
			ready := true
			for _, dep := range job.DependsOn {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				ordered = append(ordered, job)
				placed[job.Name] = true
			} else {
				next = append(next, job)
			}
		}
		remaining = next
	}
	return ordered
}

// validateJobs checks names and the dependency structure of the model.
func validateJobs(model *config.Model) error {
	g := graph.New()
	seen := make(map[string]bool, len(model.Jobs))
	for _, job := range model.Jobs {
		if job.Name == "" {
			return fmt.Errorf("job with empty name")
		}
		if seen[job.Name] {
			return fmt.Errorf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = true
		g.AddNode(job.Name)
	}

	for _, job := range model.Jobs {
		for _, dep := range job.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("job %q depends on unknown job %q; it does not exist in the workflow", job.Name, dep)
			}
			if err := g.AddEdge(dep, job.Name); err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
		}
	}

	if err := g.DetectCycles(); err != nil {
		return fmt.Errorf("error validating dependency graph: %w", err)
	}
	return nil
}
