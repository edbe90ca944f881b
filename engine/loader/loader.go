// Package loader imports meshes from disk into geometry.MeshData and caches them by path.
package loader

import (
	"io"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/pkg/errors"
)

// LoaderBackendType selects a mesh file format.
type LoaderBackendType int

const (
	// BackendTypeMesh is the little-endian binary .mesh format.
	BackendTypeMesh LoaderBackendType = iota
)

// extensions lists the file extensions each backend accepts.
var extensions = map[LoaderBackendType][]string{
	BackendTypeMesh: {".mesh"},
}

// ErrUnsupportedFormat is returned when no backend handles a file extension.
var ErrUnsupportedFormat = errors.New("loader: unsupported mesh format")

type mesh = geometry.MeshData[geometry.Vertex]

// Loader decodes mesh files and remembers every mesh it has produced.
type Loader interface {
	// Load decodes the file at path, or returns the mesh cached under that path.
	//
	// Parameters:
	//   - path: a file with an extension the backend accepts
	//
	// Returns:
	//   - geometry.MeshData[geometry.Vertex]: the mesh
	//   - error: error if the file is missing, truncated or in an unknown format
	Load(path string) (geometry.MeshData[geometry.Vertex], error)

	// LoadReader decodes a stream and caches it under name. A cached name is returned
	// without reading r.
	//
	// Parameters:
	//   - name: the cache key
	//   - r: the encoded mesh
	//
	// Returns:
	//   - geometry.MeshData[geometry.Vertex]: the mesh
	//   - error: error if decoding fails
	LoadReader(name string, r io.Reader) (geometry.MeshData[geometry.Vertex], error)

	// Get returns a cached mesh.
	Get(name string) (geometry.MeshData[geometry.Vertex], bool)

	// Meshes returns a snapshot of the cache.
	Meshes() map[string]geometry.MeshData[geometry.Vertex]
}

type loader struct {
	mu      sync.RWMutex
	cache   map[string]mesh
	backend loaderBackend
	exts    []string
}

var _ Loader = &loader{}

// NewLoader creates a loader for one file format.
//
// Parameters:
//   - backendType: the format to decode
//   - options: functional options applied after the backend is chosen
//
// Returns:
//   - Loader: the loader
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		cache: make(map[string]mesh),
		exts:  extensions[backendType],
	}
	switch backendType {
	case BackendTypeMesh:
		l.backend = newMeshLoaderBackend()
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !l.accepts(ext) {
		return mesh{}, errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	return l.cached(path, func() (mesh, error) {
		m, err := l.backend.Load(path)
		return m, errors.Wrapf(err, "failed to load %s", path)
	})
}

func (l *loader) LoadReader(name string, r io.Reader) (mesh, error) {
	return l.cached(name, func() (mesh, error) {
		m, err := l.backend.LoadReader(r)
		return m, errors.Wrapf(err, "failed to load from reader %q", name)
	})
}

func (l *loader) Get(name string) (mesh, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.cache[name]
	return m, ok
}

func (l *loader) Meshes() map[string]mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.cache)
}

func (l *loader) accepts(ext string) bool {
	for _, e := range l.exts {
		if e == ext {
			return l.backend != nil
		}
	}
	return false
}

// cached returns the mesh stored under key or decodes and stores it. Decoding runs
// outside the lock; concurrent misses on one key both decode and the last one wins.
func (l *loader) cached(key string, decode func() (mesh, error)) (mesh, error) {
	if m, ok := l.Get(key); ok {
		return m, nil
	}
	m, err := decode()
	if err != nil {
		return mesh{}, err
	}
	l.mu.Lock()
	l.cache[key] = m
	l.mu.Unlock()
	return m, nil
}
