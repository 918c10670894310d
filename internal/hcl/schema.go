package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all recognised top-level blocks and attributes from a
// single definition file.
type fileRoot struct {
	Workflows []*workflowBlock `hcl:"workflow,block"`
	Jobs      []*jobBlock      `hcl:"job,block"`
	Defaults  hcl.Expression   `hcl:"defaults,optional"`
	Remain    hcl.Body         `hcl:",remain"`
}

// workflowBlock is the `workflow "<name>" { ... }` block.
type workflowBlock struct {
	Name           string         `hcl:"name,label"`
	Dir            string         `hcl:"dir,optional"`
	Overwrite      bool           `hcl:"overwrite,optional"`
	Config         hcl.Expression `hcl:"config,optional"`
	NodeStatusFile string         `hcl:"node_status_file,optional"`
}

// jobBlock is the `job "<name>" { ... }` block.
type jobBlock struct {
	Name       string         `hcl:"name,label"`
	Executable string         `hcl:"executable,optional"`
	Arguments  string         `hcl:"arguments,optional"`
	Script     *scriptBlock   `hcl:"script,block"`
	Submit     hcl.Expression `hcl:"submit,optional"`
	Vars       hcl.Expression `hcl:"vars,optional"`
	DependsOn  []string       `hcl:"depends_on,optional"`
	Retry      int            `hcl:"retry,optional"`
	Priority   int            `hcl:"priority,optional"`
	PreScript  string         `hcl:"pre_script,optional"`
	PostScript string         `hcl:"post_script,optional"`
}

// scriptBlock is an inline payload within a job block.
type scriptBlock struct {
	Name    string `hcl:"name,optional"`
	Shebang string `hcl:"shebang,optional"`
	Body    string `hcl:"body"`
}
