package control

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStoreNotifiesListeners(t *testing.T) {
	cs := NewConfigStore(Default())

	var got []string
	cs.OnReload(func(old, cur Config) {
		got = append(got, old.Rename.BaseName+"->"+cur.Rename.BaseName)
	})

	next := Default()
	next.Rename.BaseName = "net"
	cs.Set(next)

	assert.Equal(t, []string{"worker->net"}, got)
	assert.Equal(t, "net", cs.Snapshot().Rename.BaseName)
}

func TestWatcherReloadKeepsStoreOnInvalidFile(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "rename:\n  base_name: first\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	cs := NewConfigStore(cfg)

	w, err := NewWatcher(p, cs, log.Logger{Writer: &log.IOWriter{Writer: &bytes.Buffer{}}})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(p, []byte("rename:\n  base_name: \"\"\n"), 0o644))
	assert.False(t, w.Reload())
	assert.Equal(t, "first", cs.Snapshot().Rename.BaseName)

	require.NoError(t, os.WriteFile(p, []byte("rename:\n  base_name: second\n"), 0o644))
	assert.True(t, w.Reload())
	assert.Equal(t, "second", cs.Snapshot().Rename.BaseName)
}

func TestWatcherReloadSkipsEmptyFile(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "rename:\n  base_name: first\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	cs := NewConfigStore(cfg)

	var reloads int
	cs.OnReload(func(_, _ Config) { reloads++ })

	w, err := NewWatcher(p, cs, log.Logger{Writer: &log.IOWriter{Writer: &bytes.Buffer{}}})
	require.NoError(t, err)
	defer w.Close()

	for _, content := range []string{"", "  \n\t\n"} {
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		assert.False(t, w.Reload())
	}
	assert.Equal(t, 0, reloads)
	assert.Equal(t, "first", cs.Snapshot().Rename.BaseName)

	require.NoError(t, os.WriteFile(p, []byte("rename:\n  base_name: second\n"), 0o644))
	assert.True(t, w.Reload())
	assert.Equal(t, 1, reloads)
	assert.Equal(t, "second", cs.Snapshot().Rename.BaseName)
}

func TestWatcherPicksUpFileChanges(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "rename:\n  base_name: before\n")
	cs := NewConfigStore(Default())

	reloaded := make(chan string, 8)
	cs.OnReload(func(_, cur Config) { reloaded <- cur.Rename.BaseName })

	w, err := NewWatcher(p, cs, log.Logger{Writer: &log.IOWriter{Writer: &bytes.Buffer{}}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, os.WriteFile(p, []byte("rename:\n  base_name: after\n"), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case name := <-reloaded:
			if name == "after" {
				return
			}
		case <-deadline:
			t.Fatal("config change not picked up")
		}
	}
}
