package integration_tests

import (
	"testing"

	"github.com/htcdag/dagger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test for: retry, priority, and pre/post scripts show up as node-level
// DAGMan directives.
func TestGeneration_NodeDirectives(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
workflow "directives" {}

job "flaky" {
  executable  = "flaky.sh"
  retry       = 3
  priority    = 10
  pre_script  = "stage_in.sh"
  post_script = "stage_out.sh"
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err)

	dagFile := testutil.ReadArtifact(t, result, "directives.dag")
	assert.Contains(t, dagFile, "RETRY flaky 3\n")
	assert.Contains(t, dagFile, "PRIORITY flaky 10\n")
	assert.Contains(t, dagFile, "SCRIPT PRE flaky stage_in.sh\n")
	assert.Contains(t, dagFile, "SCRIPT POST flaky stage_out.sh\n")
}
