// Package submit hands a generated DAG file to HTCondor by invoking
// condor_submit_dag. Transient scheduler failures (an unreachable or busy
// schedd) are retried with capped exponential backoff.
package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/htcdag/dagger/internal/ctxlog"
)

// DefaultBinary is the submission tool invoked when none is configured.
const DefaultBinary = "condor_submit_dag"

// Result describes a successful submission.
type Result struct {
	// Cluster is the DAGMan scheduler universe job's cluster ID.
	Cluster int
	// BatchName is the batch name the workflow was submitted under.
	BatchName string
}

// runner executes the submission command and returns its combined output.
// Injectable so tests never need a schedd.
type runner func(ctx context.Context, bin string, args ...string) ([]byte, error)

// Submitter drives condor_submit_dag.
type Submitter struct {
	// Binary is the submission tool. Defaults to DefaultBinary.
	Binary string
	// MaxElapsed bounds the total retry window. Defaults to 30 seconds.
	MaxElapsed time.Duration
	// Force passes -f so an existing DAGMan instance for the same DAG file
	// is superseded.
	Force bool

	run runner
}

// New creates a Submitter with the default command runner.
func New() *Submitter {
	return &Submitter{run: execRunner}
}

// Submit runs the submission tool on dagFile. An empty batchName is
// replaced by "<dag base name>-<short unique suffix>" so that concurrent
// submissions of the same workflow stay distinguishable in condor_q.
func (s *Submitter) Submit(ctx context.Context, dagFile, batchName string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	bin := s.Binary
	if bin == "" {
		bin = DefaultBinary
	}
	if batchName == "" {
		base := filepath.Base(dagFile)
		batchName = fmt.Sprintf("%s-%s", base[:len(base)-len(filepath.Ext(base))], uuid.NewString()[:8])
	}

	args := []string{"-batch-name", batchName}
	if s.Force {
		args = append(args, "-f")
	}
	args = append(args, dagFile)

	run := s.run
	if run == nil {
		run = execRunner
	}

	maxElapsed := s.MaxElapsed
	if maxElapsed == 0 {
		maxElapsed = 30 * time.Second
	}
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = maxElapsed

	var out []byte
	operation := func() error {
		var err error
		out, err = run(ctx, bin, args...)
		if err != nil {
			// A missing submission tool never recovers on its own.
			if errors.Is(err, exec.ErrNotFound) {
				logger.Error("Submission tool not found.", "binary", bin, "error", err)
				return backoff.Permanent(err)
			}
			logger.Warn("Submission attempt failed, will retry.", "error", err, "output", string(out))
			return err
		}
		return nil
	}
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, fmt.Errorf("failed to submit %s: %w", dagFile, err)
	}

	cluster, err := ParseCluster(out)
	if err != nil {
		return nil, fmt.Errorf("submission of %s succeeded but its reply was not understood: %w", dagFile, err)
	}

	logger.Info("Workflow submitted.", "dag", dagFile, "cluster", cluster, "batch_name", batchName)
	return &Result{Cluster: cluster, BatchName: batchName}, nil
}

// clusterRe matches the schedd's submission reply, e.g.
// "1 job(s) submitted to cluster 4711.".
var clusterRe = regexp.MustCompile(`submitted to cluster (\d+)`)

// ParseCluster extracts the cluster ID from condor_submit_dag output.
func ParseCluster(output []byte) (int, error) {
	m := clusterRe.FindSubmatch(output)
	if m == nil {
		return 0, fmt.Errorf("no cluster ID in output: %q", bytes.TrimSpace(output))
	}
	cluster, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, err
	}
	return cluster, nil
}

// execRunner is the production runner backed by os/exec.
func execRunner(ctx context.Context, bin string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, bin, args...).CombinedOutput()
}
