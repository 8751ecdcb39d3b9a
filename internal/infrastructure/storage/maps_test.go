package storage

import (
	"io"
	"io/fs"
	"os"
	"testing"
	"testing/fstest"

	"github.com/krakowski/BombermanVR/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitWithOutput(io.Discard)
	os.Exit(m.Run())
}

func TestBuiltinMaps(t *testing.T) {
	store := Builtin()

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"arena", "duel"}, names)

	text, err := store.Load(DefaultMap)
	require.NoError(t, err)
	assert.Contains(t, text, "P")
	assert.Contains(t, text, "E")
}

func TestLoadErrors(t *testing.T) {
	store := Builtin()

	_, err := store.Load("nowhere")
	assert.ErrorIs(t, err, ErrMapNotFound)

	for _, name := range []string{"", "../secret", `a\b`, ".."} {
		_, err := store.Load(name)
		assert.ErrorIs(t, err, ErrInvalidMapName, "name %q", name)
	}
}

func TestEarlierSourceShadows(t *testing.T) {
	custom := fstest.MapFS{
		"arena.map": {Data: []byte("BBB\nBEB\nBBB")},
		"tiny.map":  {Data: []byte("BB\nBB")},
		"notes.txt": {Data: []byte("ignored")},
	}
	store := NewMapStore(append([]fs.FS{custom}, Builtin().sources...)...)

	text, err := store.Load("arena")
	require.NoError(t, err)
	assert.Equal(t, "BBB\nBEB\nBBB", text)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"arena", "duel", "tiny"}, names)
}

func TestWithDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/custom.map", []byte("BBB\nBPB\nBBB\n"), 0o644))

	store := WithDir(dir)
	text, err := store.Load("custom")
	require.NoError(t, err)
	assert.Equal(t, "BBB\nBPB\nBBB\n", text)

	_, err = store.Load(DefaultMap)
	assert.NoError(t, err, "built-ins stay reachable")

	missing := WithDir(dir + "/missing")
	_, err = missing.Load("custom")
	assert.ErrorIs(t, err, ErrMapNotFound)
}
