package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/htcdag/dagger/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app
// Config, a boolean indicating the program should exit cleanly (help was
// requested or no path was given), or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("dagger", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
dagger - generate HTCondor DAGMan workflows from declarative definitions.

Usage:
  dagger [options] [DEFINITION_PATH]

Arguments:
  DEFINITION_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	definitionFlag := flagSet.String("workflow", "", "Path to the workflow definition file or directory.")
	wFlag := flagSet.String("w", "", "Path to the workflow definition file or directory (shorthand).")
	outDirFlag := flagSet.String("out", "", "Override the workflow's output directory.")
	profileFlag := flagSet.String("profile", "", "Path to a TOML submit attribute profile.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Validate and compile the workflow without writing anything.")
	submitFlag := flagSet.Bool("submit", false, "Submit the generated DAG with condor_submit_dag.")
	batchNameFlag := flagSet.String("batch-name", "", "Batch name to submit under. Empty generates one.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *definitionFlag != "" {
		path = *definitionFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Definition path determined.", "path", path)

	if path == "" {
		slog.Debug("No definition path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		DefinitionPath: path,
		OutputDir:      *outDirFlag,
		ProfilePath:    *profileFlag,
		DryRun:         *dryRunFlag,
		Submit:         *submitFlag,
		BatchName:      *batchNameFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
