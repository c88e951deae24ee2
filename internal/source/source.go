// Package source discovers type source files and loads them into a single
// introspect.Snapshot.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	errs "github.com/conduit-lang/metagen/internal/errors"
	"github.com/conduit-lang/metagen/internal/introspect"
	"github.com/conduit-lang/metagen/internal/introspect/javasrc"
	"github.com/conduit-lang/metagen/internal/introspect/manifest"
)

// Format selects which files a load reads
type Format string

const (
	FormatAuto     Format = "auto"
	FormatManifest Format = "manifest"
	FormatJava     Format = "java"
)

// ParseFormat validates a format name; empty means auto
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatManifest:
		return FormatManifest, nil
	case FormatJava:
		return FormatJava, nil
	default:
		return "", fmt.Errorf("unknown source format %q (expected auto, manifest or java)", s)
	}
}

// Loader reads type sources from a filesystem
type Loader struct {
	fs     afero.Fs
	format Format
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger discards output.
func NewLoader(fs afero.Fs, format Format, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if format == "" {
		format = FormatAuto
	}
	return &Loader{fs: fs, format: format, logger: logger}
}

// Files expands paths into the source files to read. Directories are walked
// recursively in lexical order; files named explicitly are kept even when
// their extension does not match the format.
func (l *Loader) Files(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := l.fs.Stat(root)
		if err != nil {
			return nil, errs.New(errs.PhaseLoad, errs.ErrSourceLoad, fmt.Sprintf("cannot read source %s: %v", root, err), errs.Error).
				WithCause(err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && l.accepts(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errs.New(errs.PhaseLoad, errs.ErrSourceLoad, fmt.Sprintf("cannot walk %s: %v", root, err), errs.Error).
				WithCause(err)
		}
	}
	return files, nil
}

func (l *Loader) accepts(path string) bool {
	isJava := strings.EqualFold(filepath.Ext(path), ".java")
	_, isManifest := manifest.FormatOf(path)
	switch l.format {
	case FormatJava:
		return isJava
	case FormatManifest:
		return isManifest
	default:
		return isJava || isManifest
	}
}

// Load reads every source file under paths and links them into a Snapshot
func (l *Loader) Load(paths []string) (*introspect.Snapshot, error) {
	files, err := l.Files(paths)
	if err != nil {
		return nil, err
	}

	var java *javasrc.Parser
	defer func() {
		if java != nil {
			java.Close()
		}
	}()

	units := make([]*introspect.Unit, 0, len(files))
	for _, path := range files {
		data, err := afero.ReadFile(l.fs, path)
		if err != nil {
			return nil, errs.New(errs.PhaseLoad, errs.ErrSourceLoad, fmt.Sprintf("cannot read %s: %v", path, err), errs.Error).
				WithCause(err)
		}

		var unit *introspect.Unit
		if format, ok := manifest.FormatOf(path); ok && l.format != FormatJava {
			unit, err = manifest.Parse(data, format, path)
		} else {
			if java == nil {
				if java, err = javasrc.NewParser(); err != nil {
					return nil, err
				}
			}
			unit, err = java.Parse(data, path)
		}
		if err != nil {
			return nil, err
		}

		l.logger.Debug("loaded type source", zap.String("file", path), zap.Int("types", len(unit.Decls)))
		units = append(units, unit)
	}

	snapshot, err := introspect.Link(units...)
	if err != nil {
		return nil, err
	}
	l.logger.Info("type sources loaded", zap.Int("files", len(files)), zap.Int("types", snapshot.Len()))
	return snapshot, nil
}
