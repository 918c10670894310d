package dagger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/htcdag/dagger/condor"
	"github.com/htcdag/dagger/condor/dags"
)

// Script is an inline job payload. It is materialised as a standalone
// executable file inside the workflow directory, and the generated submit
// descriptor points at it by base name: HTCondor resolves the executable
// relative to the submission directory, so an absolute path would break
// once the job is shipped to an execute node.
type Script struct {
	// Name is the file name of the script within the workflow directory.
	Name string
	// Shebang is the interpreter line. Defaults to "#!/bin/bash".
	Shebang string
	// Body is the script text placed below the shebang.
	Body string
}

// DefaultShebang is used when a Script carries no interpreter line.
const DefaultShebang = "#!/bin/bash"

// AddScript queues the script for materialisation and returns the full path
// it will occupy. The file itself is written with execute permissions when
// Write runs.
func (w *Workflow) AddScript(s Script) (string, error) {
	if s.Name == "" {
		return "", fmt.Errorf("script name must not be empty")
	}
	w.scripts = append(w.scripts, s)
	return filepath.Join(w.dir, s.Name), nil
}

// writeScript materialises one queued script in the workflow directory.
func (w *Workflow) writeScript(s Script) error {
	shebang := s.Shebang
	if shebang == "" {
		shebang = DefaultShebang
	}

	var b strings.Builder
	b.WriteString(shebang)
	b.WriteString("\n")
	b.WriteString(s.Body)
	if !strings.HasSuffix(s.Body, "\n") {
		b.WriteString("\n")
	}

	path := filepath.Join(w.dir, s.Name)
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		return fmt.Errorf("failed to write script %q: %w", s.Name, err)
	}
	return nil
}

// ScriptLayer queues an inline script, wraps it in a submit descriptor, and
// adds the result as a layer. Extra submit attributes are merged on top of
// the generated executable line. It is the one-call path from payload to
// workflow layer.
func (w *Workflow) ScriptLayer(s Script, submitAttrs map[string]string, vars []map[string]string, opts ...LayerOption) (*dags.NodeLayer, error) {
	path, err := w.AddScript(s)
	if err != nil {
		return nil, err
	}

	submit := condor.NewSubmit(nil)
	submit.Set("executable", filepath.Base(path))
	submit.Merge(condor.NewSubmit(submitAttrs))

	return w.AddLayer(submit, vars, opts...)
}
