package app

import "errors"

// Config holds everything an App instance needs to run.
type Config struct {
	// DefinitionPath points at a .hcl file or a directory of them.
	DefinitionPath string
	// OutputDir overrides the workflow's own output directory when set.
	OutputDir string
	// ProfilePath names an optional TOML submit attribute profile.
	ProfilePath string

	// DryRun stops after compilation: nothing is written or submitted.
	DryRun bool
	// Submit hands the generated DAG to condor_submit_dag after writing.
	Submit bool
	// BatchName overrides the generated batch name used on submission.
	BatchName string
	// CondorBinary overrides the submission tool, mainly for testing.
	CondorBinary string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DefinitionPath == "" {
		return nil, errors.New("DefinitionPath is a required configuration field and cannot be empty")
	}
	if cfg.DryRun && cfg.Submit {
		return nil, errors.New("dry-run and submit are mutually exclusive")
	}
	return &cfg, nil
}
