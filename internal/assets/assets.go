// Package assets locates document files on a list of search paths and keeps
// parsed documents cached until their files change.
package assets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/fbxscene/pkg/fbx"
)

// ErrNotFound is returned when no search path holds the requested document.
var ErrNotFound = errors.New("document not found")

// Manager loads documents from search paths.
type Manager struct {
	dirs  []string
	cache *Cache
	log   *zap.Logger
	mu    sync.RWMutex
}

// NewManager creates a new document manager. log may be nil.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		cache: NewCache(),
		log:   log,
	}
}

// AddSearchPath adds a directory to the manager.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddSearchPath(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("search path %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("search path %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("search path %s: not a directory", dir)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, abs)
	m.mu.Unlock()
	return nil
}

// SearchPaths returns the search directories in priority order.
func (m *Manager) SearchPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.dirs))
	for i := len(m.dirs) - 1; i >= 0; i-- {
		out = append(out, m.dirs[i])
	}
	return out
}

// Resolve returns the absolute path of a document. Absolute names are used as
// given; relative names are looked up in the search paths.
func (m *Manager) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return filepath.Clean(name), nil
	}

	for _, dir := range m.SearchPaths() {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Load returns the parsed document, from cache when it was loaded before.
func (m *Manager) Load(name string) (*fbx.Document, error) {
	path, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}

	if doc, ok := m.cache.Get(path); ok {
		return doc, nil
	}

	doc, err := fbx.LoadFile(path)
	if err != nil {
		return nil, err
	}
	m.cache.Set(path, doc)
	m.log.Debug("loaded document",
		zap.String("path", path),
		zap.Int("objects", len(doc.Objects())),
		zap.Int("connections", len(doc.Connections())))
	return doc, nil
}

// Invalidate drops the cached document for path.
func (m *Manager) Invalidate(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	m.cache.Delete(path)
}

// Cache returns the manager's document cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Watch invalidates cached documents whose files change in any search path
// or in the directory of any of files, and reports each changed document to
// changed, until ctx is done. The watcher is running when Watch returns.
func (m *Manager) Watch(ctx context.Context, files []string, changed func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range m.watchDirs(files) {
		if err := w.Add(dir); err != nil {
			w.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if !IsDocument(event.Name) {
					continue
				}
				m.Invalidate(event.Name)
				m.log.Debug("document changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))
				if changed != nil {
					changed(event.Name)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				m.log.Warn("watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

// watchDirs lists the search paths followed by the parent directories of
// files, without duplicates. fsnotify does not descend into subdirectories,
// so a document below a search path needs its own directory watched.
func (m *Manager) watchDirs(files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, dir := range m.SearchPaths() {
		add(dir)
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		add(filepath.Dir(abs))
	}
	return dirs
}

// Close drops all search paths and cached documents.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirs = nil
	m.cache.Clear()
}

// IsDocument reports whether path names a document description file.
func IsDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Cache is an in-memory cache of parsed documents keyed by absolute path.
type Cache struct {
	docs map[string]*fbx.Document
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		docs: make(map[string]*fbx.Document),
	}
}

// Get retrieves a document from cache.
func (c *Cache) Get(key string) (*fbx.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return doc, ok
}

// Set stores a document in cache.
func (c *Cache) Set(key string, doc *fbx.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[key] = doc
}

// Delete removes a document from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, key)
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = make(map[string]*fbx.Document)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
