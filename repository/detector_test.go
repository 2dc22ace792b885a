package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetector_DetectRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module github.com/acme/demo\n\ngo 1.23\n"), 0o644))
	nested := filepath.Join(root, "pkg", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	source := filepath.Join(nested, "main.go")
	require.NoError(t, os.WriteFile(source, []byte("package deep\n"), 0o644))

	project, err := New().DetectRoot(source)
	require.NoError(t, err)
	assert.Equal(t, root, project.RootPath)
	assert.Equal(t, "go", project.Type)
	assert.Equal(t, "github.com/acme/demo", project.Name)
}

func TestDetector_DetectRootJavascript(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(`{"name": "demo-app", "version": "1.0.0"}`), 0o644))

	project, err := New().DetectRoot(root)
	require.NoError(t, err)
	assert.Equal(t, "javascript", project.Type)
	assert.Equal(t, "demo-app", project.Name)
}

func TestDetector_DetectRootMissingPath(t *testing.T) {
	_, err := New().DetectRoot(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
