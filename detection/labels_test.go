package detection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCOCOLabels(t *testing.T) {
	labels := COCOLabels()
	assert.Len(t, labels, 80)
	assert.Equal(t, "person", labels[0])
	assert.Equal(t, "boat", labels[8])
	assert.Equal(t, "toothbrush", labels[79])

	// Callers get a copy, not the shared table.
	labels[0] = "mutated"
	assert.Equal(t, "person", COCOLabels()[0])
}

func TestLoadLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("cat\ndog\n\n  bird \n"), 0o644))

	labels, err := LoadLabels(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "bird"}, labels)
}

func TestLoadLabelsErrors(t *testing.T) {
	_, err := LoadLabels(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n\n"), 0o644))
	_, err = LoadLabels(empty)
	assert.Error(t, err)
}

func TestClassName(t *testing.T) {
	labels := []string{"cat", "dog"}

	assert.Equal(t, "cat", ClassName(labels, 0))
	assert.Equal(t, "dog", ClassName(labels, 1))
	assert.Equal(t, "class2", ClassName(labels, 2))
	assert.Equal(t, "class-1", ClassName(labels, -1))
}
