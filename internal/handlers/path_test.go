package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsideDir(t *testing.T) {
	base := t.TempDir()
	assert.True(t, insideDir(base, filepath.Join(base, "1", "a.pdf")))
	assert.False(t, insideDir(base, filepath.Join(base, "..", "etc", "passwd")))
	assert.False(t, insideDir(base, base+"-other/a.pdf"))
}

func TestEnsureDirAndFileExists(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "7")
	require.NoError(t, ensureDir(dir))
	require.NoError(t, ensureDir(dir))
	assert.False(t, fileExists(dir))

	file := filepath.Join(dir, "doc.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0o644))
	assert.True(t, fileExists(file))
	assert.Error(t, ensureDir(file))
	assert.Error(t, ensureDir(""))
}
