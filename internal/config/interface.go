package config

import "context"

// Loader turns configuration files into the unified workflow model. Paths
// may be individual files or directories that are searched recursively.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
