package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/htcdag/dagger/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translateWorkflow converts a decoded workflow block into the model. The
// output directory defaults to the workflow name.
func translateWorkflow(w *workflowBlock, evalCtx *hcl.EvalContext) (*config.Workflow, error) {
	cfg, err := exprToStringMap(w.Config, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("workflow %q: invalid config attribute: %w", w.Name, err)
	}
	dir := w.Dir
	if dir == "" {
		dir = w.Name
	}
	return &config.Workflow{
		Name:           w.Name,
		Dir:            dir,
		Overwrite:      w.Overwrite,
		Config:         cfg,
		NodeStatusFile: w.NodeStatusFile,
	}, nil
}

// translateJob converts a decoded job block into the model.
func translateJob(j *jobBlock, evalCtx *hcl.EvalContext) (*config.Job, error) {
	submit, err := exprToStringMap(j.Submit, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("job %q: invalid submit attribute: %w", j.Name, err)
	}
	vars, err := exprToVarsList(j.Vars, evalCtx)
	if err != nil {
		return nil, fmt.Errorf("job %q: invalid vars attribute: %w", j.Name, err)
	}

	job := &config.Job{
		Name:       j.Name,
		Executable: j.Executable,
		Arguments:  j.Arguments,
		Submit:     submit,
		Vars:       vars,
		DependsOn:  j.DependsOn,
		Retry:      j.Retry,
		Priority:   j.Priority,
		PreScript:  j.PreScript,
		PostScript: j.PostScript,
	}
	if j.Script != nil {
		job.Script = &config.Script{
			Name:    j.Script.Name,
			Shebang: j.Script.Shebang,
			Body:    j.Script.Body,
		}
	}
	return job, nil
}

// exprToStringMap evaluates an object expression into a string map. All
// values are converted to strings, since the submit language is untyped.
func exprToStringMap(expr hcl.Expression, evalCtx *hcl.EvalContext) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	return valueToStringMap(val)
}

// exprToVarsList evaluates a list-of-objects expression into per-node
// variable maps.
func exprToVarsList(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("expected a list of objects, got %s", val.Type().FriendlyName())
	}

	var out []map[string]string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		m, err := valueToStringMap(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// valueToStringMap converts an object or map value into map[string]string.
func valueToStringMap(val cty.Value) (map[string]string, error) {
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("expected an object, got %s", ty.FriendlyName())
	}
	out := make(map[string]string)
	for key, v := range val.AsValueMap() {
		str, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: cannot convert %s to string: %w", key, v.Type().FriendlyName(), err)
		}
		if str.IsNull() {
			return nil, fmt.Errorf("attribute %q: value must not be null", key)
		}
		out[key] = str.AsString()
	}
	return out, nil
}
