// Package sink receives generated source text. A Filer creates one output unit
// per generated class, named by its qualified class name.
package sink

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Filer creates output units for generated classes
type Filer interface {
	// Create opens a new unit for the class with the given qualified name.
	// The caller must close the returned writer.
	Create(qualifiedName string) (io.WriteCloser, error)
}

// SourcePath maps a qualified class name to its relative source file path,
// e.g. com.acme.Person_ -> com/acme/Person_.java
func SourcePath(qualifiedName string) string {
	return path.Join(strings.Split(qualifiedName, ".")...) + ".java"
}

// FSFiler writes units as .java files under a root directory of an afero filesystem
type FSFiler struct {
	fs   afero.Fs
	root string
}

// NewFSFiler creates a filer rooted at dir
func NewFSFiler(fs afero.Fs, dir string) *FSFiler {
	return &FSFiler{fs: fs, root: dir}
}

// NewOSFiler creates a filer writing to the real filesystem
func NewOSFiler(dir string) *FSFiler {
	return NewFSFiler(afero.NewOsFs(), dir)
}

// Path returns the file path a unit is written to
func (f *FSFiler) Path(qualifiedName string) string {
	return filepath.Join(f.root, filepath.FromSlash(SourcePath(qualifiedName)))
}

// Create opens the unit's file, creating parent directories as needed
func (f *FSFiler) Create(qualifiedName string) (io.WriteCloser, error) {
	if qualifiedName == "" {
		return nil, fmt.Errorf("empty class name")
	}
	target := f.Path(qualifiedName)
	if err := f.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", qualifiedName, err)
	}
	file, err := f.fs.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", target, err)
	}
	return file, nil
}

// DiscardFiler accepts units and drops their contents, recording the names
type DiscardFiler struct {
	mu    sync.Mutex
	names []string
}

// Create records the name and returns a writer that discards everything
func (d *DiscardFiler) Create(qualifiedName string) (io.WriteCloser, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.names = append(d.names, qualifiedName)
	return nopCloser{io.Discard}, nil
}

// Names returns the recorded unit names, sorted
func (d *DiscardFiler) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := append([]string(nil), d.names...)
	sort.Strings(out)
	return out
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
