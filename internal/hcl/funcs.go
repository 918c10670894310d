package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// evalContext builds the evaluation context shared by every definition
// file. There are no variables; only the function table below.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"format":     stdlib.FormatFunc,
			"formatlist": stdlib.FormatListFunc,
			"join":       stdlib.JoinFunc,
			"upper":      stdlib.UpperFunc,
			"lower":      stdlib.LowerFunc,
			"range":      stdlib.RangeFunc,
			"chunks":     chunksFunc,
		},
	}
}

// chunksFunc splits the index range [0, total) into near-equal selection
// strings of the form "start~end" (end inclusive), one per batch job. The
// chunk width is total divided by parts, so a total that does not divide
// evenly produces a tail chunk rather than silently dropping indices.
var chunksFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "total", Type: cty.Number},
		{Name: "parts", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.List(cty.String)),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		var total, parts int
		if err := intArg(args[0], &total); err != nil {
			return cty.NilVal, fmt.Errorf("total: %w", err)
		}
		if err := intArg(args[1], &parts); err != nil {
			return cty.NilVal, fmt.Errorf("parts: %w", err)
		}
		if total <= 0 {
			return cty.NilVal, fmt.Errorf("total must be positive, got %d", total)
		}
		if parts <= 0 {
			return cty.NilVal, fmt.Errorf("parts must be positive, got %d", parts)
		}

		width := total / parts
		if width == 0 {
			width = 1
		}

		var out []cty.Value
		for start := 0; start < total; start += width {
			end := start + width - 1
			if end > total-1 {
				end = total - 1
			}
			out = append(out, cty.StringVal(fmt.Sprintf("%d~%d", start, end)))
		}
		return cty.ListVal(out), nil
	},
})

// intArg extracts an integral cty.Number argument.
func intArg(v cty.Value, out *int) error {
	bf := v.AsBigFloat()
	if !bf.IsInt() {
		return fmt.Errorf("must be an integer, got %s", bf.String())
	}
	i, _ := bf.Int64()
	*out = int(i)
	return nil
}
