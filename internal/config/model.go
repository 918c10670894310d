package config

// Model is the unified representation of a workflow definition: one
// workflow block, optional shared submit defaults, and the jobs.
type Model struct {
	Workflow *Workflow
	// Defaults are submit attributes applied to every job, below the job's
	// own submit attributes in precedence.
	Defaults map[string]string
	Jobs     []*Job
}

// Workflow carries the workflow-level settings.
type Workflow struct {
	Name string
	// Dir is the output directory for all generated artifacts.
	Dir       string
	Overwrite bool
	// Config holds DAGMan configuration knobs written to a config file
	// referenced from the DAG.
	Config map[string]string
	// NodeStatusFile, when set, asks DAGMan to maintain a progress file.
	NodeStatusFile string
}

// Job describes one workflow layer.
type Job struct {
	Name string
	// Executable and Arguments feed the submit descriptor directly. When a
	// Script is present the executable defaults to the script file.
	Executable string
	Arguments  string
	// Script is an optional inline payload materialised as an executable
	// file in the workflow directory.
	Script *Script
	// Submit holds extra submit attributes for this job.
	Submit map[string]string
	// Vars parameterises the job's nodes: one map per node.
	Vars []map[string]string
	// DependsOn names the parent jobs.
	DependsOn []string
	Retry     int
	Priority  int
	// PreScript and PostScript name executables run by DAGMan around each
	// node of this job.
	PreScript  string
	PostScript string
}

// Script is an inline job payload.
type Script struct {
	Name    string
	Shebang string
	Body    string
}
