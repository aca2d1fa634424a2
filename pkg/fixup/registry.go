package fixup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/lexhun/pkg/lines"
)

// Registry holds the fixup sets of a directory, one YAML file per act.
// Watch keeps it in sync with the directory while fixups are being
// authored; lookups stay safe during reloads.
type Registry struct {
	mu    sync.RWMutex
	sets  map[string][]Op   // act identifier to ops
	files map[string]string // file path to act identifier

	dir      string
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(act string)
	logger   *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sets:   make(map[string][]Op),
		files:  make(map[string]string),
		logger: logger,
	}
}

// NewRegistryWithDirectory creates a registry and loads every fixup file
// from the directory.
func NewRegistryWithDirectory(dir string, logger *zap.Logger) (*Registry, error) {
	r := NewRegistry(logger)
	r.dir = dir
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// OpsFor returns the ops registered for an act, in application order.
func (r *Registry) OpsFor(act string) []Op {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ops := r.sets[act]
	out := make([]Op, len(ops))
	copy(out, ops)
	return out
}

// Acts returns the act identifiers with registered fixups, sorted.
func (r *Registry) Acts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acts := make([]string, 0, len(r.sets))
	for act := range r.sets {
		acts = append(acts, act)
	}
	sort.Strings(acts)
	return acts
}

// Apply runs the act's registered fixups over the extracted lines. Acts
// without fixups pass through unchanged.
func (r *Registry) Apply(act string, ls []lines.Line) ([]lines.Line, error) {
	ops := r.OpsFor(act)
	if len(ops) == 0 {
		return ls, nil
	}
	out, err := Apply(ops, ls)
	if err != nil {
		return nil, fmt.Errorf("fixups for %s: %w", act, err)
	}
	return out, nil
}

// LoadDirectory loads every .yaml/.yml file in the directory.
func (r *Registry) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []string
	for _, entry := range entries {
		if entry.IsDir() || !isFixupFile(entry.Name()) {
			continue
		}
		if err := r.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("%s: %v", entry.Name(), err))
		}
	}
	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading fixups: %s", strings.Join(loadErrors, "; "))
	}
	return nil
}

// LoadFile loads one fixup file, replacing whatever it contributed before.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if err := set.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if previous, ok := r.files[path]; ok && previous != set.Act {
		delete(r.sets, previous)
	}
	if other, ok := r.fileFor(set.Act); ok && other != path {
		r.logger.Warn("act already has fixups from another file, replacing",
			zap.String("act", set.Act),
			zap.String("file", path),
			zap.String("previous", other))
		delete(r.files, other)
	}
	r.files[path] = set.Act
	r.sets[set.Act] = set.Ops
	return nil
}

// fileFor finds the file currently contributing an act's fixups. Caller
// holds the lock.
func (r *Registry) fileFor(act string) (string, bool) {
	for path, a := range r.files {
		if a == act {
			return path, true
		}
	}
	return "", false
}

// Reload drops everything and loads the configured directory again.
func (r *Registry) Reload() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for reload")
	}
	r.mu.Lock()
	r.sets = make(map[string][]Op)
	r.files = make(map[string]string)
	r.mu.Unlock()
	return r.LoadDirectory(r.dir)
}

// SetOnChange sets a callback invoked with the act identifier whenever a
// watched fixup file changes.
func (r *Registry) SetOnChange(fn func(act string)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Watch starts watching the configured directory for fixup file changes.
func (r *Registry) Watch() error {
	if r.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	r.watcher = watcher
	r.stopChan = make(chan struct{})

	go r.watchLoop()

	if err := watcher.Add(r.dir); err != nil {
		r.watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}
	return nil
}

// StopWatch stops the directory watcher.
func (r *Registry) StopWatch() {
	if r.watcher == nil {
		return
	}
	close(r.stopChan)
	r.watcher.Close()
	r.watcher = nil
}

func (r *Registry) watchLoop() {
	for {
		select {
		case <-r.stopChan:
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !isFixupFile(event.Name) {
				continue
			}
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Write == fsnotify.Write:
				r.handleFileChange(event.Name)

			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				r.handleFileRemove(event.Name)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warn("fixup watcher error", zap.Error(err))
		}
	}
}

func (r *Registry) handleFileChange(path string) {
	if err := r.LoadFile(path); err != nil {
		r.logger.Warn("fixup file did not load", zap.String("file", path), zap.Error(err))
		return
	}
	r.mu.RLock()
	act := r.files[path]
	onChange := r.onChange
	r.mu.RUnlock()
	r.logger.Info("fixups reloaded", zap.String("file", path), zap.String("act", act))
	if onChange != nil {
		onChange(act)
	}
}

func (r *Registry) handleFileRemove(path string) {
	r.mu.Lock()
	act, ok := r.files[path]
	if ok {
		delete(r.files, path)
		delete(r.sets, act)
	}
	onChange := r.onChange
	r.mu.Unlock()
	if !ok {
		return
	}
	r.logger.Info("fixups removed", zap.String("file", path), zap.String("act", act))
	if onChange != nil {
		onChange(act)
	}
}

func isFixupFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
