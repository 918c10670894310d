package integration_tests

import (
	"testing"

	"github.com/htcdag/dagger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test for: the chunks() function partitions an index range into one DAG
// node per selection string.
func TestHclFeatures_ChunksFanout(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{
		"main.hcl": `
workflow "partition" {}

job "process" {
  executable = "process.sh"
  arguments  = "--spw $(selection)"
  vars       = [for sel in chunks(8, 4) : { selection = sel }]
}
`,
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err)

	dagFile := testutil.ReadArtifact(t, result, "partition.dag")
	assert.Contains(t, dagFile, `VARS process_0 selection="0~1"`+"\n")
	assert.Contains(t, dagFile, `VARS process_1 selection="2~3"`+"\n")
	assert.Contains(t, dagFile, `VARS process_2 selection="4~5"`+"\n")
	assert.Contains(t, dagFile, `VARS process_3 selection="6~7"`+"\n")
	assert.NotContains(t, dagFile, "process_4")
}
