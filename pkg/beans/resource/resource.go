// Package resource locates and reads bean definition documents.
//
// A Loader maps resource names to bytes. FileLoader reads from the local file
// system below a base directory; FSLoader reads from any fs.FS, which is how
// embedded or bundled definitions (the classpath analogue) are served.
package resource

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	beanErrors "mercator-hq/beans/pkg/beans/errors"
	"mercator-hq/beans/pkg/xmldoc"
)

// DefaultMaxFileSize bounds the size of a single document (10MB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// ClasspathPrefix is accepted and ignored by FSLoader.
const ClasspathPrefix = "classpath:"

// Resource is a named document body.
type Resource struct {
	Name string
	Data []byte
}

// Parse parses the resource as an XML document.
func (r *Resource) Parse() (*xmldoc.Document, error) {
	doc, err := xmldoc.Parse(bytes.NewReader(r.Data), r.Name)
	if err != nil {
		perr := &beanErrors.ParseError{Resource: r.Name, Cause: err}
		var syn *xmldoc.SyntaxError
		if errors.As(err, &syn) {
			perr.Line = syn.Line
			perr.Column = syn.Column
			perr.Cause = syn.Err
		}
		return nil, perr
	}
	return doc, nil
}

// Loader reads resources by name.
type Loader interface {
	// Load reads the named resource.
	Load(name string) (*Resource, error)

	// Resolve returns the name of rel relative to the resource base.
	Resolve(base, rel string) string
}

// FileLoader loads resources from the file system.
type FileLoader struct {
	// BaseDir anchors relative names. Empty means the working directory.
	BaseDir string

	// MaxFileSize is the largest accepted file in bytes. Zero uses
	// DefaultMaxFileSize.
	MaxFileSize int64
}

// NewFileLoader creates a file loader rooted at baseDir.
func NewFileLoader(baseDir string) *FileLoader {
	return &FileLoader{BaseDir: baseDir, MaxFileSize: DefaultMaxFileSize}
}

// Load reads the named file, validating size and encoding.
func (l *FileLoader) Load(name string) (*Resource, error) {
	p, err := l.path(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(p)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, &beanErrors.LoadError{Resource: name, Message: "file not found", Cause: err}
		case os.IsPermission(err):
			return nil, &beanErrors.LoadError{Resource: name, Message: "permission denied", Cause: err}
		default:
			return nil, &beanErrors.LoadError{Resource: name, Message: "failed to access file", Cause: err}
		}
	}
	if !info.Mode().IsRegular() {
		return nil, &beanErrors.LoadError{Resource: name, Message: "not a regular file"}
	}

	maxSize := l.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if info.Size() > maxSize {
		return nil, &beanErrors.LoadError{
			Resource: name,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", info.Size(), maxSize),
		}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, &beanErrors.LoadError{Resource: name, Message: "failed to read file", Cause: err}
	}
	if !utf8.Valid(data) {
		return nil, &beanErrors.LoadError{Resource: name, Message: "file contains invalid UTF-8 encoding"}
	}

	return &Resource{Name: name, Data: data}, nil
}

// Resolve joins rel onto the directory of base. Absolute names are kept.
func (l *FileLoader) Resolve(base, rel string) string {
	if filepath.IsAbs(rel) || base == "" {
		return filepath.Clean(rel)
	}
	return filepath.Join(filepath.Dir(base), rel)
}

// path maps a resource name to a file path, refusing names that escape
// BaseDir.
func (l *FileLoader) path(name string) (string, error) {
	if name == "" {
		return "", &beanErrors.LoadError{Resource: name, Message: "empty resource name"}
	}
	if l.BaseDir == "" || filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}

	p := filepath.Join(l.BaseDir, name)
	rel, err := filepath.Rel(l.BaseDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &beanErrors.LoadError{Resource: name, Message: "resource escapes base directory"}
	}
	return p, nil
}

// FSLoader loads resources from a file system such as embed.FS.
type FSLoader struct {
	FS fs.FS

	// MaxFileSize is the largest accepted file in bytes. Zero uses
	// DefaultMaxFileSize.
	MaxFileSize int64
}

// NewFSLoader creates a loader reading from fsys.
func NewFSLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{FS: fsys, MaxFileSize: DefaultMaxFileSize}
}

// Load reads the named file from the file system.
func (l *FSLoader) Load(name string) (*Resource, error) {
	p := fsPath(name)
	if !fs.ValidPath(p) {
		return nil, &beanErrors.LoadError{Resource: name, Message: "invalid resource path"}
	}

	data, err := fs.ReadFile(l.FS, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &beanErrors.LoadError{Resource: name, Message: "file not found", Cause: err}
		}
		return nil, &beanErrors.LoadError{Resource: name, Message: "failed to read file", Cause: err}
	}

	maxSize := l.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if int64(len(data)) > maxSize {
		return nil, &beanErrors.LoadError{
			Resource: name,
			Message:  fmt.Sprintf("file size %d bytes exceeds maximum %d bytes", len(data), maxSize),
		}
	}
	if !utf8.Valid(data) {
		return nil, &beanErrors.LoadError{Resource: name, Message: "file contains invalid UTF-8 encoding"}
	}

	return &Resource{Name: p, Data: data}, nil
}

// Resolve joins rel onto the directory of base using slash paths.
func (l *FSLoader) Resolve(base, rel string) string {
	rel = strings.TrimPrefix(rel, ClasspathPrefix)
	if strings.HasPrefix(rel, "/") || base == "" {
		return fsPath(rel)
	}
	return path.Join(path.Dir(fsPath(base)), rel)
}

func fsPath(name string) string {
	name = strings.TrimPrefix(name, ClasspathPrefix)
	name = strings.TrimLeft(name, "/")
	return path.Clean(name)
}
