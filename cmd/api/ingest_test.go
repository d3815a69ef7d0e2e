package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectPDFs(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "2025", "q3")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	for _, name := range []string{
		filepath.Join(dir, "roads.pdf"),
		filepath.Join(nested, "SECURITY.PDF"),
		filepath.Join(nested, "notes.txt"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("%PDF"), 0o644))
	}
	loose := filepath.Join(t.TempDir(), "brief.docx")
	require.NoError(t, os.WriteFile(loose, []byte("doc"), 0o644))

	files, err := collectPDFs([]string{dir, loose})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "roads.pdf"),
		filepath.Join(nested, "SECURITY.PDF"),
		loose,
	}, files)

	_, err = collectPDFs([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
