// Package cli parses command-line arguments into an app.Config and maps
// usage errors to exit codes.
package cli
