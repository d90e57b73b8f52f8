package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project is the clasp.yaml configuration of a source tree.
type Project struct {
	// Entry is the file run when no file is given on the command line.
	Entry string `yaml:"entry,omitempty"`

	// SourceRoot is the directory imports are resolved against, relative
	// to clasp.yaml. Defaults to the directory of clasp.yaml.
	SourceRoot string `yaml:"source_root,omitempty"`

	// LibraryPaths are extra files linked ahead of every program, after
	// the built-in prelude.
	LibraryPaths []string `yaml:"library_paths,omitempty"`

	EntryClass  string `yaml:"entry_class,omitempty"`
	EntryMethod string `yaml:"entry_method,omitempty"`

	// Cache is the path of the SQLite source cache. Empty disables it.
	Cache string `yaml:"cache,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Dir is the directory holding clasp.yaml.
	Dir string `yaml:"-"`
}

// DefaultProject is used when no clasp.yaml exists.
func DefaultProject(dir string) *Project {
	p := &Project{Dir: dir}
	p.setDefaults()
	return p
}

// LoadProject reads clasp.yaml from dir. A missing file yields defaults.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, ProjectFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultProject(dir), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseProject(data, path)
}

// ParseProject parses clasp.yaml content. path locates the file for
// relative paths and error messages.
func ParseProject(data []byte, path string) (*Project, error) {
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p.Dir = filepath.Dir(path)
	if err := p.validate(path); err != nil {
		return nil, err
	}
	p.setDefaults()
	return &p, nil
}

func (p *Project) validate(path string) error {
	switch strings.ToLower(p.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: log_level %q is not one of debug, info, warn, error", path, p.LogLevel)
	}
	if p.Entry != "" && filepath.Ext(p.Entry) != SourceFileExt {
		return fmt.Errorf("%s: entry %q must be a %s file", path, p.Entry, SourceFileExt)
	}
	for i, lib := range p.LibraryPaths {
		if lib == "" {
			return fmt.Errorf("%s: library_paths[%d] is empty", path, i)
		}
	}
	return nil
}

func (p *Project) setDefaults() {
	if p.EntryClass == "" {
		p.EntryClass = DefaultEntryClass
	}
	if p.EntryMethod == "" {
		p.EntryMethod = DefaultEntryMethod
	}
	if p.LogLevel == "" {
		p.LogLevel = "warn"
	}
	p.LogLevel = strings.ToLower(p.LogLevel)
}

// Root is the absolute-or-relative directory imports resolve against.
func (p *Project) Root() string {
	if p.SourceRoot == "" {
		return p.Dir
	}
	if filepath.IsAbs(p.SourceRoot) {
		return p.SourceRoot
	}
	return filepath.Join(p.Dir, p.SourceRoot)
}

// CachePath returns the cache database path, or "" when caching is off.
func (p *Project) CachePath() string {
	if p.Cache == "" || filepath.IsAbs(p.Cache) {
		return p.Cache
	}
	return filepath.Join(p.Dir, p.Cache)
}

// FindProject walks up from dir looking for clasp.yaml and returns the
// directory holding it, or "" when there is none.
func FindProject(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
