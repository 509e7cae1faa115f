package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketbrief/internal/domain"
)

func TestFileWriter_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "daily", "brief.md")

	require.NoError(t, NewFileWriter(path).Write("# Brief\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Brief\n", string(data))
}

func TestFileWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brief.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, NewFileWriter(path).Write("new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileWriter_ErrorIsWriteKind(t *testing.T) {
	// parent "dir" is a regular file, so MkdirAll must fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewFileWriter(filepath.Join(blocker, "brief.md")).Write("doc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWrite))
	assert.Equal(t, "write", domain.ErrKind(err))
}

func TestStdoutWriter(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, (&StdoutWriter{Out: &buf}).Write("# Brief\n"))
	assert.Equal(t, "# Brief\n", buf.String())
}
