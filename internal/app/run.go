package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/htcdag/dagger/internal/builder"
	"github.com/htcdag/dagger/internal/ctxlog"
	"github.com/htcdag/dagger/internal/submit"
)

// Run executes the application: compile the model into a workflow, write
// its artifacts, and optionally hand the DAG to HTCondor.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	wf, err := builder.Build(ctx, a.model, builder.Options{
		DirOverride:  a.config.OutputDir,
		ProfileAttrs: a.profile,
	})
	if err != nil {
		return fmt.Errorf("failed to build workflow: %w", err)
	}
	a.logger.Info("Workflow compiled.", "workflow", wf.Name(), "layers", len(wf.LayerNames()))

	if a.config.DryRun {
		a.logger.Info("Dry run requested; no artifacts written.")
		return nil
	}

	if err := wf.Write(ctx); err != nil {
		return err
	}
	dagFile := filepath.Join(wf.Dir(), wf.Name()+".dag")
	a.logger.Info("Workflow artifacts written.", "dag", dagFile, "dir", wf.Dir())

	if a.config.Submit {
		submitter := submit.New()
		if a.config.CondorBinary != "" {
			submitter.Binary = a.config.CondorBinary
		}
		result, err := submitter.Submit(ctx, dagFile, a.config.BatchName)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "Submitted %s to cluster %d (batch %s)\n", dagFile, result.Cluster, result.BatchName)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
