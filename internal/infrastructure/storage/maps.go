// Package storage loads map assets.
package storage

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/krakowski/BombermanVR/pkg/logger"
)

// DefaultMap is the map used when none is configured.
const DefaultMap = "arena"

const mapExt = ".map"

var (
	// ErrMapNotFound is returned when no store has the requested map.
	ErrMapNotFound = errors.New("map not found")
	// ErrInvalidMapName rejects names that would escape the store root.
	ErrInvalidMapName = errors.New("invalid map name")
)

//go:embed maps/*.map
var builtin embed.FS

// MapStore reads map text files from one or more file systems. Earlier
// sources shadow later ones.
type MapStore struct {
	sources []fs.FS
}

// NewMapStore builds a store over the given file systems, first match wins.
func NewMapStore(sources ...fs.FS) *MapStore {
	return &MapStore{sources: sources}
}

// Builtin returns a store over the maps compiled into the binary.
func Builtin() *MapStore {
	sub, err := fs.Sub(builtin, "maps")
	if err != nil {
		panic(fmt.Sprintf("embedded maps: %v", err))
	}
	return NewMapStore(sub)
}

// WithDir returns a store that looks in dir before the built-in maps. An
// empty dir yields just the built-ins.
func WithDir(dir string) *MapStore {
	store := Builtin()
	if dir == "" {
		return store
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Log.WithField("dir", dir).Warn("Map directory not usable, using built-in maps only")
		return store
	}
	store.sources = append([]fs.FS{os.DirFS(dir)}, store.sources...)
	return store
}

// Load returns the text of map name (without extension).
func (s *MapStore) Load(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%q: %w", name, ErrInvalidMapName)
	}

	file := name + mapExt
	for _, src := range s.sources {
		data, err := fs.ReadFile(src, file)
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read map %q: %w", name, err)
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrMapNotFound)
}

// List returns the names of all available maps, sorted and deduplicated.
func (s *MapStore) List() ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, src := range s.sources {
		matches, err := fs.Glob(src, "*"+mapExt)
		if err != nil {
			return nil, fmt.Errorf("list maps: %w", err)
		}
		for _, m := range matches {
			name := strings.TrimSuffix(path.Base(m), mapExt)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}
