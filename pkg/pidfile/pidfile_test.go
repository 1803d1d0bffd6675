package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEmptyPathIsNoop(t *testing.T) {
	p := New()
	require.NoError(t, p.Write(""))
	assert.Empty(t, p.Path())
	require.NoError(t, p.Close())
}

func TestWriteCreatesLockedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.pid")

	p := New()
	require.NoError(t, p.Write(path))
	assert.Equal(t, path, p.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))

	require.NoError(t, p.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFailureLeavesNothingTracked(t *testing.T) {
	p := New()

	err := p.Write(filepath.Join(t.TempDir(), "no-such-dir", "stream.pid"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, p.Path())
	assert.Nil(t, p.file)

	// nothing tracked, so Close has nothing to do
	require.NoError(t, p.Close())
}

func TestRewriteReplacesTrackedFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.pid")
	second := filepath.Join(dir, "b.pid")

	p := New()
	require.NoError(t, p.Write(first))
	require.NoError(t, p.Write(second))
	assert.Equal(t, second, p.Path())

	require.NoError(t, p.Close())
	_, err := os.Stat(second)
	assert.True(t, os.IsNotExist(err))

	// only the tracked file is removed; the earlier one stays behind
	_, err = os.Stat(first)
	assert.NoError(t, err)
}

func TestCloseSkipsForeignOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.pid")

	p := New()
	require.NoError(t, p.Write(path))

	// simulate the view of a forked child: the recorded owner is some
	// other process, so Close must leave the file alone
	p.owner = os.Getpid() + 1
	require.NoError(t, p.Close())
	_, err := os.Stat(path)
	require.NoError(t, err)

	p.owner = os.Getpid()
	require.NoError(t, p.Close())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.pid")

	p := New()
	require.NoError(t, p.Write(path))
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
}
