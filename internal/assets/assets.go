// Package assets handles OBJ model loading and caching.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/pkg/formats"
)

// ErrNotFound is returned when a model path cannot be resolved.
var ErrNotFound = errors.New("model not found")

// maxLoggedDiagnostics caps per-line warnings for a single file.
const maxLoggedDiagnostics = 20

// Options controls how a model is decoded and built.
type Options struct {
	Charset string
	Build   model.BuildOptions
}

// Model is a loaded OBJ file together with its GPU-ready mesh.
type Model struct {
	Path        string
	OBJ         *formats.OBJ
	Diagnostics []formats.OBJDiagnostic
	Mesh        *model.Mesh
}

// parsed is the cached result of parsing one file.
type parsed struct {
	obj   *formats.OBJ
	diags []formats.OBJDiagnostic
}

// Manager resolves model paths against search directories and caches
// parsed files. Building the mesh is repeated on every Load so callers
// can change normals or colour options without re-reading the file.
type Manager struct {
	dirs  []string
	cache *Cache
	log   *zap.Logger
	mu    sync.RWMutex
}

// NewManager creates a new model manager. A nil logger discards output.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		cache: NewCache(),
		log:   log,
	}
}

// AddSearchDir adds a directory that relative model paths are looked up in.
// Directories are searched in reverse order (last added = highest priority).
func (m *Manager) AddSearchDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("adding search dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("adding search dir %s: not a directory", dir)
	}

	m.mu.Lock()
	m.dirs = append(m.dirs, dir)
	m.mu.Unlock()

	return nil
}

// Resolve returns the absolute path a model would be loaded from. The
// result is also the cache key, so one file is cached once however it
// was named.
func (m *Manager) Resolve(path string) (string, error) {
	if fileExists(path) {
		return absPath(path)
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.dirs) - 1; i >= 0; i-- {
		candidate := filepath.Join(m.dirs[i], path)
		if fileExists(candidate) {
			return absPath(candidate)
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Load parses (or fetches from cache) the OBJ file at path and builds its mesh.
func (m *Manager) Load(path string, opts Options) (*Model, error) {
	resolved, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}

	key := cacheKey(resolved, opts.Charset)
	p, ok := m.cache.get(key)
	if !ok {
		obj, diags, err := formats.ParseOBJFile(resolved, opts.Charset)
		if err != nil {
			return nil, err
		}
		p = &parsed{obj: obj, diags: diags}
		m.cache.set(key, p)

		m.log.Info("parsed model",
			zap.String("path", resolved),
			zap.Int("vertices", len(obj.Vertices)),
			zap.Int("normals", len(obj.Normals)),
			zap.Int("faces", len(obj.Faces)),
			zap.Int("groups", len(obj.GroupFaceCounts)),
		)
		LogDiagnostics(m.log, resolved, diags)
	}

	mesh, err := model.Build(p.obj, opts.Build)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", resolved, err)
	}

	return &Model{
		Path:        resolved,
		OBJ:         p.obj,
		Diagnostics: p.diags,
		Mesh:        mesh,
	}, nil
}

// Invalidate drops every cached parse of path so the next Load re-reads it.
func (m *Manager) Invalidate(path string) {
	if resolved, err := m.Resolve(path); err == nil {
		path = resolved
	}
	m.cache.DeletePrefix(path + "|")
}

// Close clears the cache and forgets search directories.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dirs = nil
	m.cache.Clear()
}

// Cache returns the manager's parse cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// LogDiagnostics writes parse diagnostics as warnings, then a summary
// line when there were more than can usefully be listed.
func LogDiagnostics(log *zap.Logger, path string, diags []formats.OBJDiagnostic) {
	for i, d := range diags {
		if i == maxLoggedDiagnostics {
			break
		}
		log.Warn("skipped OBJ data",
			zap.String("path", path),
			zap.Int("line", d.Line),
			zap.Stringer("kind", d.Kind),
			zap.String("token", d.Token),
		)
	}
	if len(diags) > maxLoggedDiagnostics {
		counts := formats.CountDiagnostics(diags)
		fields := []zap.Field{
			zap.String("path", path),
			zap.Int("total", len(diags)),
		}
		for kind, n := range counts {
			fields = append(fields, zap.Int(kind.String(), n))
		}
		log.Warn("more OBJ diagnostics suppressed", fields...)
	}
}

func cacheKey(path, charset string) string {
	return path + "|" + charset
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Cache is a simple in-memory cache of parsed models.
type Cache struct {
	data map[string]*parsed
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*parsed),
	}
}

// get retrieves an item from cache.
func (c *Cache) get(key string) (*parsed, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return p, ok
}

// set stores an item in cache.
func (c *Cache) set(key string, p *parsed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = p
}

// DeletePrefix removes every entry whose key starts with prefix.
func (c *Cache) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*parsed)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
