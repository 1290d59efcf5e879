package assets

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/tessera/engine/assets/loaders"
	"github.com/spaghettifunk/tessera/engine/core"
)

type AssetInfo struct {
	Path       string
	Type       loaders.ResourceType
	LastLoaded time.Time
}

// ReloadFunc is invoked on the main loop when a watched file changed on disk.
type ReloadFunc func(path string) error

// AssetManager resolves asset paths, dispatches to the registered loaders and,
// when hot reload is enabled, watches the asset root for changes. The watcher
// goroutine only forwards paths; reload callbacks run on the caller of
// ApplyChanges.
type AssetManager struct {
	root    string
	assets  map[string]AssetInfo
	loaders map[loaders.ResourceType]Loader
	watches map[string][]watch
	watchID uint64

	mutex sync.RWMutex

	done     chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
	changes  chan string
	wg       sync.WaitGroup

	jobs *JobSystem
}

type watch struct {
	id uint64
	fn ReloadFunc
}

// LoadedFunc receives the outcome of LoadAssetAsync on the loop goroutine.
type LoadedFunc func(res *loaders.Resource, err error)

const ASYNC_LOAD_QUEUE_SIZE = 64

func NewAssetManager(root string) *AssetManager {
	am := &AssetManager{
		root:    root,
		assets:  make(map[string]AssetInfo),
		loaders: make(map[loaders.ResourceType]Loader),
		watches: make(map[string][]watch),
		changes: make(chan string, 64),
		done:    make(chan struct{}),
	}

	// Register loaders
	am.RegisterLoader(loaders.ResourceTypeImage, &loaders.ImageLoader{})
	am.RegisterLoader(loaders.ResourceTypeShader, &loaders.ShaderLoader{})
	am.RegisterLoader(loaders.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})
	am.RegisterLoader(loaders.ResourceTypeVectorFont, &loaders.VectorFontLoader{})

	return am
}

// Register loaders for each asset type
func (am *AssetManager) RegisterLoader(assetType loaders.ResourceType, loader Loader) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.loaders[assetType] = loader
}

func (am *AssetManager) Root() string {
	return am.root
}

// Resolve turns a path relative to the asset root into an absolute, cleaned path.
func (am *AssetManager) Resolve(path string) string {
	if !filepath.IsAbs(path) && am.root != "" {
		path = filepath.Join(am.root, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// LoadAsset loads an asset using the loader registered for its type. Every
// failure is reported as a *core.AssetLoadError.
func (am *AssetManager) LoadAsset(path string, assetType loaders.ResourceType, params interface{}) (*loaders.Resource, error) {
	full := am.Resolve(path)

	am.mutex.RLock()
	loader, exists := am.loaders[assetType]
	am.mutex.RUnlock()
	if !exists {
		return nil, core.NewAssetLoadError(full, errors.New("no loader registered for asset type "+assetType.String()))
	}

	res, err := loader.Load(full, assetType, params)
	if err != nil {
		core.LogWarn("failed to load %s '%s': %s", assetType, full, err)
		return nil, core.NewAssetLoadError(full, err)
	}

	am.mutex.Lock()
	am.assets[full] = AssetInfo{Path: full, Type: assetType, LastLoaded: time.Now()}
	am.mutex.Unlock()

	core.LogDebug("loaded %s '%s' (%d bytes)", assetType, full, res.DataSize)
	return res, nil
}

// LoadAssetAsync decodes the asset on a worker goroutine. done runs on the
// goroutine calling ApplyCompletedLoads, which the context does once per frame.
func (am *AssetManager) LoadAssetAsync(path string, assetType loaders.ResourceType, params interface{}, done LoadedFunc) error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	if am.jobs == nil {
		js, err := NewJobSystem(max(runtime.NumCPU()-1, 1), ASYNC_LOAD_QUEUE_SIZE)
		if err != nil {
			return err
		}
		am.jobs = js
	}
	return am.jobs.Submit(JobTask{
		OnStart: func() (interface{}, error) {
			return am.LoadAsset(path, assetType, params)
		},
		OnComplete: func(result interface{}) {
			done(result.(*loaders.Resource), nil)
		},
		OnFailure: func(err error) {
			done(nil, err)
		},
	})
}

// ApplyCompletedLoads runs the callbacks of finished asynchronous loads.
func (am *AssetManager) ApplyCompletedLoads() int {
	if am.jobs == nil {
		return 0
	}
	return am.jobs.Update()
}

// PendingLoads is the number of asynchronous loads not handed back yet.
func (am *AssetManager) PendingLoads() int {
	if am.jobs == nil {
		return 0
	}
	return am.jobs.Pending()
}

func (am *AssetManager) UnloadAsset(res *loaders.Resource) error {
	am.mutex.Lock()
	loader, exists := am.loaders[res.Type]
	delete(am.assets, res.FullPath)
	am.mutex.Unlock()
	if !exists {
		return nil
	}
	return loader.Unload(res)
}

// Info returns what is known about a previously loaded asset.
func (am *AssetManager) Info(path string) (AssetInfo, bool) {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	info, ok := am.assets[am.Resolve(path)]
	return info, ok
}

// EnableHotReload starts watching the asset root and all sub-directories.
func (am *AssetManager) EnableHotReload() error {
	if am.isClosed {
		return errors.New("asset manager already closed")
	}
	if am.fsnotify != nil {
		return nil
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	am.fsnotify = fsWatch

	root := am.root
	if root == "" {
		root = "."
	}
	if err := am.watchRecursive(root); err != nil {
		fsWatch.Close()
		am.fsnotify = nil
		return err
	}

	am.wg.Add(1)
	go am.start()
	core.LogInfo("hot reload enabled for '%s'", root)
	return nil
}

func (am *AssetManager) HotReloadEnabled() bool {
	return am.fsnotify != nil
}

// Watch registers fn to run when the file at path changes. The returned
// function removes that registration only.
func (am *AssetManager) Watch(path string, fn ReloadFunc) func() {
	full := am.Resolve(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.watchID++
	id := am.watchID
	am.watches[full] = append(am.watches[full], watch{id: id, fn: fn})
	return func() { am.unwatchID(full, id) }
}

func (am *AssetManager) unwatchID(full string, id uint64) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	ws := am.watches[full]
	for i, w := range ws {
		if w.id == id {
			ws = append(ws[:i:i], ws[i+1:]...)
			break
		}
	}
	if len(ws) == 0 {
		delete(am.watches, full)
		return
	}
	am.watches[full] = ws
}

// Watching is the number of callbacks registered for path.
func (am *AssetManager) Watching(path string) int {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	return len(am.watches[am.Resolve(path)])
}

// Unwatch drops every callback registered for path.
func (am *AssetManager) Unwatch(path string) {
	full := am.Resolve(path)
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.watches, full)
}

// PollChanges drains the changed paths reported so far without blocking.
// Repeated notifications for the same file are collapsed.
func (am *AssetManager) PollChanges() []string {
	var out []string
	seen := map[string]struct{}{}
	for {
		select {
		case p := <-am.changes:
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		default:
			return out
		}
	}
}

// ApplyChanges runs the reload callbacks of every changed file. A failed reload
// keeps the previous resource; the error is logged and the rest still run.
func (am *AssetManager) ApplyChanges() int {
	applied := 0
	for _, p := range am.PollChanges() {
		am.mutex.RLock()
		ws := append([]watch(nil), am.watches[p]...)
		am.mutex.RUnlock()
		for _, w := range ws {
			if err := w.fn(p); err != nil {
				core.LogWarn("failed to reload '%s': %s", p, err)
				continue
			}
			applied++
		}
		if len(ws) > 0 {
			core.LogInfo("reloaded '%s'", p)
		}
	}
	return applied
}

func (am *AssetManager) Close() error {
	if am.isClosed {
		return nil
	}
	am.isClosed = true
	close(am.done)
	am.wg.Wait()
	if am.jobs != nil {
		return am.jobs.Shutdown()
	}
	return nil
}

func (am *AssetManager) notify(path string) {
	select {
	case am.changes <- path:
	default:
		core.LogWarn("asset change queue full, dropping '%s'", path)
	}
}

func (am *AssetManager) start() {
	defer am.wg.Done()
	for {
		select {

		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s != nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("failed to watch '%s': %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 && DetermineAssetType(e.Name) != loaders.ResourceTypeNone {
				if abs, err := filepath.Abs(e.Name); err == nil {
					am.notify(abs)
				}
			}
			//Can't stat a deleted directory, so just try to remove it from the watch list
			if e.Op&fsnotify.Remove != 0 {
				am.removeAsset(e.Name)
				_ = am.fsnotify.Remove(e.Name)
			}

		case e, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(e.Error())

		case <-am.done:
			am.fsnotify.Close()
			return
		}
	}
}

// watchRecursive adds all directories under the given one to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return nil
		}
		return am.fsnotify.Add(walkPath)
	})
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, abs)
}

// DetermineAssetType guesses the resource type from the file extension.
func DetermineAssetType(path string) loaders.ResourceType {
	switch filepath.Ext(path) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp":
		return loaders.ResourceTypeImage
	case ".vert", ".frag", ".glsl":
		return loaders.ResourceTypeShader
	case ".fnt":
		return loaders.ResourceTypeBitmapFont
	case ".ttf", ".otf", ".ttc":
		return loaders.ResourceTypeVectorFont
	default:
		return loaders.ResourceTypeNone
	}
}
