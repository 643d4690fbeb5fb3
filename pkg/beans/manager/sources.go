package manager

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// expandSources turns the configured sources into resource names relative
// to the base directory, expanding directories into their matching files.
func (m *Manager) expandSources() ([]string, error) {
	if len(m.config.Sources) == 0 {
		return nil, ErrNoSources
	}

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, src := range m.config.Sources {
		path := m.fsPath(src)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", src, err)
		}
		if !info.IsDir() {
			add(filepath.Clean(src))
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := p != path && strings.HasPrefix(d.Name(), ".")
			if d.IsDir() {
				if hidden {
					return filepath.SkipDir
				}
				return nil
			}
			if hidden || !m.hasExtension(p) {
				return nil
			}
			rel, err := filepath.Rel(path, p)
			if err != nil {
				return err
			}
			found = append(found, filepath.Join(src, rel))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", src, err)
		}
		slices.Sort(found)
		for _, f := range found {
			add(filepath.Clean(f))
		}
	}
	return names, nil
}

// fsPath maps a source to its path on disk.
func (m *Manager) fsPath(src string) string {
	if filepath.IsAbs(src) || m.config.BaseDir == "" {
		return src
	}
	return filepath.Join(m.config.BaseDir, src)
}

func (m *Manager) hasExtension(path string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(m.extensions(), func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func (m *Manager) extensions() []string {
	if len(m.config.FileExtensions) == 0 {
		return []string{".xml"}
	}
	return m.config.FileExtensions
}
