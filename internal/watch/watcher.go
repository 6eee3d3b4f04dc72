// Package watch re-runs verification when configuration or sources change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/opencode-ai/tsverify/internal/config"
	"github.com/opencode-ai/tsverify/internal/logging"
	"github.com/opencode-ai/tsverify/internal/scan"
	"github.com/opencode-ai/tsverify/internal/tsconfig"
)

// DefaultDebounce is the quiet period after the last change before a run.
const DefaultDebounce = 200 * time.Millisecond

// RunFunc performs one verification. Its error is logged; watching goes on.
type RunFunc func(ctx context.Context) error

// Watcher watches every file of the configuration chain and the source
// directory. Runs never overlap.
type Watcher struct {
	watcher  *fsnotify.Watcher
	paths    config.Paths
	resolver *tsconfig.Resolver
	debounce time.Duration
	run      RunFunc

	mu      sync.RWMutex
	chain   map[string]bool
	watched map[string]bool
}

// New creates a watcher for the application at paths. The configuration
// chain is read from the OS filesystem.
func New(paths config.Paths, debounce time.Duration, run RunFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		paths:    paths,
		resolver: tsconfig.NewResolver(afero.NewOsFs()),
		debounce: debounce,
		run:      run,
		chain:    make(map[string]bool),
		watched:  make(map[string]bool),
	}
	w.refresh()
	return w, nil
}

// Watch runs once, then again after every burst of relevant changes, until
// ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()

	w.runOnce(ctx)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				w.watchNewDir(ev.Name)
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.forget(ev.Name)
			}
			if !w.Relevant(ev.Name) {
				continue
			}
			logging.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("change detected")
			if pending && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			pending = true
		case <-timer.C:
			pending = false
			w.runOnce(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	if err := w.run(ctx); err != nil {
		logging.Debug().Err(err).Msg("verification failed")
	}
	w.refresh()
}

// Relevant reports whether a change to name can affect verification.
func (w *Watcher) Relevant(name string) bool {
	name = filepath.Clean(name)

	w.mu.RLock()
	inChain := w.chain[name]
	w.mu.RUnlock()
	if inChain || name == w.paths.AppTSConfig || name == w.paths.AppTypeDeclarations {
		return true
	}

	rel, err := filepath.Rel(w.paths.AppSrc, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, p := range scan.TypeScriptExcludes {
		if ok, _ := doublestar.Match(p, rel); ok {
			return false
		}
	}
	for _, p := range scan.TypeScriptSources {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// watchedDirs returns the directories currently watched.
func (w *Watcher) watchedDirs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	dirs := make([]string, 0, len(w.watched))
	for dir := range w.watched {
		dirs = append(dirs, dir)
	}
	return dirs
}

// refresh re-reads the configuration chain and updates the watched set.
func (w *Watcher) refresh() {
	chain := []string{w.paths.AppTSConfig}
	if _, files, err := w.resolver.ResolveChain(w.paths.AppTSConfig); err == nil {
		chain = files
	} else if tsconfig.KindOf(err) != tsconfig.KindNotFound {
		logging.Debug().Err(err).Msg("cannot resolve configuration chain")
	}

	w.mu.Lock()
	w.chain = make(map[string]bool, len(chain))
	for _, file := range chain {
		w.chain[filepath.Clean(file)] = true
	}
	w.mu.Unlock()

	dirs := map[string]bool{w.paths.AppPath: true, filepath.Dir(w.paths.AppTypeDeclarations): true}
	for _, file := range chain {
		dirs[filepath.Dir(file)] = true
	}
	for dir := range dirs {
		w.add(dir)
	}
	w.watchTree(w.paths.AppSrc)
}

// watchTree adds root and its subdirectories, skipping node_modules.
func (w *Watcher) watchTree(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if info.Name() == "node_modules" {
			return filepath.SkipDir
		}
		w.add(path)
		return nil
	})
}

func (w *Watcher) watchNewDir(path string) {
	rel, err := filepath.Rel(w.paths.AppSrc, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		w.watchTree(path)
	}
}

func (w *Watcher) add(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		return
	}
	w.watched[dir] = true
}

// forget drops a removed directory; fsnotify stops watching it on its own.
func (w *Watcher) forget(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.watched, filepath.Clean(dir))
}
