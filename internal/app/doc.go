// Package app wires the application together: logger, definition loader,
// workflow compilation, artifact writing, and optional submission. The CLI
// builds a Config and hands it to NewApp; everything else happens in Run.
package app
