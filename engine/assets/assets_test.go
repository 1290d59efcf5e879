package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/tessera/engine/assets/loaders"
	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAssetResolvesAgainstRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shaders"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "shaders", "a.frag"), []byte("void main() {}"), 0o644))

	am := NewAssetManager(root)
	defer am.Close()

	res, err := am.LoadAsset("shaders/a.frag", loaders.ResourceTypeShader, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "shaders", "a.frag"), res.FullPath)

	info, ok := am.Info("shaders/a.frag")
	require.True(t, ok)
	assert.Equal(t, loaders.ResourceTypeShader, info.Type)

	require.NoError(t, am.UnloadAsset(res))
	_, ok = am.Info("shaders/a.frag")
	assert.False(t, ok)
}

func TestLoadAssetErrors(t *testing.T) {
	am := NewAssetManager(t.TempDir())
	defer am.Close()

	_, err := am.LoadAsset("missing.png", loaders.ResourceTypeImage, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAssetLoad))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var loadErr *core.AssetLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "missing.png", filepath.Base(loadErr.Path))

	_, err = am.LoadAsset("x", loaders.ResourceTypeNone, nil)
	assert.True(t, errors.Is(err, core.ErrAssetLoad))
}

func TestDetermineAssetType(t *testing.T) {
	assert.Equal(t, loaders.ResourceTypeImage, DetermineAssetType("a/b.png"))
	assert.Equal(t, loaders.ResourceTypeShader, DetermineAssetType("x.frag"))
	assert.Equal(t, loaders.ResourceTypeBitmapFont, DetermineAssetType("x.fnt"))
	assert.Equal(t, loaders.ResourceTypeVectorFont, DetermineAssetType("x.ttf"))
	assert.Equal(t, loaders.ResourceTypeNone, DetermineAssetType("x.txt"))
}

func TestHotReload(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.frag")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}"), 0o644))

	am := NewAssetManager(root)
	defer am.Close()
	require.NoError(t, am.EnableHotReload())
	assert.True(t, am.HotReloadEnabled())

	var reloaded []string
	am.Watch("a.frag", func(p string) error {
		reloaded = append(reloaded, p)
		return nil
	})

	require.NoError(t, os.WriteFile(path, []byte("void main() { }"), 0o644))

	require.Eventually(t, func() bool {
		am.ApplyChanges()
		return len(reloaded) > 0
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, reloaded[0])

	am.Unwatch("a.frag")
	require.NoError(t, os.WriteFile(path, []byte("void main() {  }"), 0o644))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, am.ApplyChanges())
}

func TestFailedReloadIsNotFatal(t *testing.T) {
	am := NewAssetManager(t.TempDir())
	defer am.Close()

	calls := 0
	am.Watch("a.png", func(string) error {
		calls++
		return errors.New("half written")
	})
	am.notify(am.Resolve("a.png"))
	am.notify(am.Resolve("a.png"))

	assert.Equal(t, 0, am.ApplyChanges())
	assert.Equal(t, 1, calls)
}

func TestLoadAssetAsync(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.vert"), []byte("void main() {}"), 0o644))

	am := NewAssetManager(root)
	defer am.Close()
	assert.Equal(t, 0, am.ApplyCompletedLoads())

	var loaded *loaders.Resource
	var failure error
	require.NoError(t, am.LoadAssetAsync("a.vert", loaders.ResourceTypeShader, nil, func(res *loaders.Resource, err error) {
		loaded = res
	}))
	require.NoError(t, am.LoadAssetAsync("missing.vert", loaders.ResourceTypeShader, nil, func(res *loaders.Resource, err error) {
		failure = err
	}))

	handed := 0
	require.Eventually(t, func() bool {
		handed += am.ApplyCompletedLoads()
		return handed == 2
	}, time.Second, time.Millisecond)

	require.NotNil(t, loaded)
	assert.Equal(t, filepath.Join(root, "a.vert"), loaded.FullPath)
	assert.ErrorIs(t, failure, core.ErrAssetLoad)
	assert.Equal(t, 0, am.PendingLoads())

	require.NoError(t, am.Close())
	assert.Error(t, am.LoadAssetAsync("a.vert", loaders.ResourceTypeShader, nil, func(*loaders.Resource, error) {}))
}

func TestWatchCancelRemovesOneCallback(t *testing.T) {
	am := NewAssetManager(t.TempDir())
	defer am.Close()

	var calls []string
	cancelFirst := am.Watch("a.png", func(string) error { calls = append(calls, "first"); return nil })
	am.Watch("a.png", func(string) error { calls = append(calls, "second"); return nil })
	assert.Equal(t, 2, am.Watching("a.png"))

	cancelFirst()
	cancelFirst()
	assert.Equal(t, 1, am.Watching("a.png"))

	am.notify(am.Resolve("a.png"))
	assert.Equal(t, 1, am.ApplyChanges())
	assert.Equal(t, []string{"second"}, calls)
}
