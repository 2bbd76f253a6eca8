// Package backend turns optimized IR apps into generated source trees.
// Concrete targets register themselves under a stable id; the batch
// driver in this package resolves targets, prepares apps and streams the
// resulting file records to the caller.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/styx-api/styx-go/ir"
)

// File is one generated output file: a path relative to the output root
// plus its full text content. Backends never touch the filesystem.
type File struct {
	Path    string
	Content string
}

// JSONFile builds a File by JSON-encoding content with two-space
// indentation.
func JSONFile(path string, content any) (File, error) {
	b, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return File{}, fmt.Errorf("encode %s: %w", path, err)
	}
	return File{Path: path, Content: string(b)}, nil
}

// EmitFunc receives generated files as they are produced. Returning an
// error aborts the backend's compilation.
type EmitFunc func(File) error

// PackageApps pairs a package with the apps it contains.
type PackageApps struct {
	Package ir.Package
	Apps    []*ir.App
}

// Descriptor describes a registered backend.
type Descriptor struct {
	// ID is the stable identifier used to select the backend.
	ID string
	// Name is the human readable name.
	Name string
	// Description of the backend.
	Description string
}

// Backend compiles a project's apps into file records.
type Backend interface {
	Descriptor() Descriptor
	Compile(ctx context.Context, project ir.Project, packages []PackageApps, emit EmitFunc) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Backend)
)

// Register makes a backend available under its descriptor id. It panics
// if the id is already taken; registration happens in package init
// functions where a collision is a programming error.
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	id := b.Descriptor().ID
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("styx: backend %q registered twice", id))
	}
	registry[id] = b
}

// Get returns the backend registered under id.
func Get(id string) (Backend, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[id]
	return b, ok
}

// Backends lists all registered backends sorted by id.
func Backends() []Descriptor {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ds := make([]Descriptor, 0, len(registry))
	for _, b := range registry {
		ds = append(ds, b.Descriptor())
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i].ID < ds[j].ID })
	return ds
}
