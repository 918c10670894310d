package dags

import "fmt"

// NodeNameFormatter maps a layer name and node index to a DAGMan node name.
type NodeNameFormatter interface {
	NodeName(layer string, index, total int) string
}

// SimpleFormatter joins the layer name and node index with a separator. A
// layer that expands to a single node keeps the bare layer name.
type SimpleFormatter struct {
	Separator string
}

// NodeName implements NodeNameFormatter.
func (f SimpleFormatter) NodeName(layer string, index, total int) string {
	if total <= 1 {
		return layer
	}
	return fmt.Sprintf("%s%s%d", layer, f.Separator, index)
}

// DefaultFormatter is the formatter used when a DAG has none configured.
// Underscore keeps node names within DAGMan's conservative identifier rules.
var DefaultFormatter NodeNameFormatter = SimpleFormatter{Separator: "_"}
