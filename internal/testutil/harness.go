// Package testutil provides the shared harness for integration tests: it
// materialises workflow definitions in a temporary directory, runs the
// application against them, and hands back the generated artifacts.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/htcdag/dagger/internal/app"
	"github.com/htcdag/dagger/internal/hcl"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	// OutDir is the directory the workflow artifacts were written into.
	OutDir string
}

// RunIntegrationTest writes the given files (relative path -> contents)
// into a temp directory, runs the app on it, and returns the result. The
// workflow output directory is overridden to live inside the temp root.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithConfig(context.Background(), t, files, nil)
}

// RunIntegrationTestWithConfig is RunIntegrationTest with a hook to adjust
// the app configuration before the run.
func RunIntegrationTestWithConfig(ctx context.Context, t *testing.T, files map[string]string, adjust func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	defsDir := filepath.Join(tmpDir, "defs")
	outDir := filepath.Join(tmpDir, "out")
	require.NoError(t, os.Mkdir(defsDir, 0o755))

	for name, content := range files {
		filePath := filepath.Join(defsDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	appConfig := &app.Config{
		DefinitionPath: defsDir,
		OutputDir:      outDir,
		LogLevel:       "debug",
		LogFormat:      "text",
	}
	if adjust != nil {
		adjust(appConfig)
	}

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, appConfig, hcl.NewLoader())
	}()

	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			OutDir:    outDir,
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("DAGGER_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		OutDir:    outDir,
	}
}

// ReadArtifact returns the contents of a generated file in the output
// directory, failing the test if it does not exist.
func ReadArtifact(t *testing.T, result *HarnessResult, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(result.OutDir, name))
	require.NoError(t, err, "expected artifact %s to exist", name)
	return string(data)
}
