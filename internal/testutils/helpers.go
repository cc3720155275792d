package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/stanza/pkg/adapters/file"
	"github.com/aretw0/stanza/pkg/adapters/memory"
	"github.com/aretw0/stanza/pkg/chain"
	"github.com/aretw0/stanza/pkg/domain"
	"github.com/stretchr/testify/require"
)

// DemoChainID names the chain served by DemoLoader.
const DemoChainID = "demo"

// DemoLoader returns a memory loader holding the built-in fallback chain under DemoChainID.
// It fails the test immediately on error.
func DemoLoader(t *testing.T) *memory.Loader {
	t.Helper()
	loader, err := memory.NewFromNodes(map[string]*domain.Node{DemoChainID: chain.Fallback()})
	require.NoError(t, err, "Failed to build demo loader")
	return loader
}

// ChainDir creates a temporary directory holding one chain_<id>.json file per entry of docs.
// It returns the absolute path to the directory.
func ChainDir(t *testing.T, docs map[string]string) string {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	for id, doc := range docs {
		WriteChain(t, dir, id, doc)
	}
	return dir
}

// WriteChain writes (or replaces) chain id in dir.
func WriteChain(t *testing.T, dir, id, doc string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, file.ChainFile(id)), []byte(doc), 0o644)
	require.NoError(t, err, "Failed to write chain %s", id)
}
