package modules

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/parser"
	"github.com/funvibe/clasp/internal/token"
)

// DefaultCacheSize is the number of parsed files kept between resolutions.
const DefaultCacheSize = 256

// Unit is one parsed source file of a program.
type Unit struct {
	Path    string
	Source  string
	Program *ast.Program
	Library bool // default library, linked ahead of everything else
}

// Resolver collects the import closure of an entry file.
type Resolver struct {
	Loader    Loader
	Libraries []string

	logger *zap.Logger
	parsed *lru.Cache[string, *ast.Program]
}

func NewResolver(loader Loader, logger *zap.Logger, libraries ...string) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, *ast.Program](DefaultCacheSize)
	if err != nil {
		panic(err)
	}
	return &Resolver{Loader: loader, Libraries: libraries, logger: logger, parsed: cache}
}

// pending is a path scheduled for fetching and the import that asked for
// it. from is nil for default libraries.
type pending struct {
	path string
	from *Unit
	stmt *ast.ImportStatement
}

// Resolve walks the imports of entry breadth first. Each level is fetched
// and parsed concurrently; a path is fetched at most once, which also
// ends import cycles. Units are returned in discovery order: libraries,
// then entry, then its dependencies.
func (r *Resolver) Resolve(ctx context.Context, entry *Unit) ([]*Unit, error) {
	seen := map[string]bool{entry.Path: true}
	var level []pending
	for _, lib := range r.Libraries {
		if !seen[lib] {
			seen[lib] = true
			level = append(level, pending{path: lib})
		}
	}

	libs, err := r.fetchLevel(ctx, level)
	if err != nil {
		return nil, err
	}
	for _, u := range libs {
		u.Library = true
	}
	units := append(libs, entry)
	current := units

	for len(current) > 0 {
		level = level[:0]
		for _, u := range current {
			for _, imp := range u.Program.Imports() {
				p := ImportPath(u.Path, imp.Path.Value)
				if seen[p] {
					continue
				}
				seen[p] = true
				level = append(level, pending{path: p, from: u, stmt: imp})
			}
		}
		next, err := r.fetchLevel(ctx, level)
		if err != nil {
			return nil, err
		}
		units = append(units, next...)
		current = next
	}

	if err := checkImports(units); err != nil {
		return nil, err
	}
	r.logger.Debug("resolved imports", zap.String("entry", entry.Path), zap.Int("units", len(units)))
	return units, nil
}

func (r *Resolver) fetchLevel(ctx context.Context, level []pending) ([]*Unit, error) {
	units := make([]*Unit, len(level))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range level {
		i, p := i, p
		g.Go(func() error {
			u, err := r.fetch(gctx, p)
			units[i] = u
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func (r *Resolver) fetch(ctx context.Context, p pending) (*Unit, error) {
	r.logger.Debug("fetching module", zap.String("path", p.path))
	src, err := r.Loader.Load(ctx, p.path)
	if err != nil {
		return nil, r.loadError(p, err)
	}
	program, err := r.parse(p.path, src)
	if err != nil {
		return nil, err
	}
	return &Unit{Path: p.path, Source: src, Program: program}, nil
}

// parse memoises programs by path and content hash.
func (r *Resolver) parse(file, src string) (*ast.Program, error) {
	sum := sha256.Sum256([]byte(src))
	key := file + "\x00" + hex.EncodeToString(sum[:])
	if program, ok := r.parsed.Get(key); ok {
		return program, nil
	}
	program, err := parser.ParseSource(file, src)
	if err != nil {
		return nil, err
	}
	r.parsed.Add(key, program)
	return program, nil
}

func (r *Resolver) loadError(p pending, err error) *diagnostics.DiagnosticError {
	if p.from == nil {
		de := diagnostics.Wrap(diagnostics.DependencyError, diagnostics.ErrD001, token.Span{}, err)
		de.Message = "cannot load library " + p.path + ": " + err.Error()
		return de
	}
	de := diagnostics.NewError(diagnostics.DependencyError, diagnostics.ErrD001, p.stmt.Path.Span(),
		"cannot load module %s: %v", p.path, err)
	de.File = p.from.Path
	de.Cause = err
	return de
}

// checkImports requires every named import to be declared by its module.
func checkImports(units []*Unit) error {
	byPath := make(map[string]*Unit, len(units))
	for _, u := range units {
		byPath[u.Path] = u
	}
	for _, u := range units {
		for _, imp := range u.Program.Imports() {
			target, ok := byPath[ImportPath(u.Path, imp.Path.Value)]
			if !ok {
				continue
			}
			declared := Declarations(target.Program)
			for _, name := range imp.Names {
				if !declared[name.Value] {
					de := diagnostics.NewError(diagnostics.DependencyError, diagnostics.ErrD002, name.Span(),
						"%s does not declare %s", target.Path, name.Value)
					de.File = u.Path
					return de
				}
			}
		}
	}
	return nil
}

// Declarations returns the names of the top-level classes and interfaces
// of program.
func Declarations(program *ast.Program) map[string]bool {
	names := make(map[string]bool)
	for _, stmt := range program.Statements {
		switch d := stmt.(type) {
		case *ast.ClassDeclaration:
			names[d.Name.Value] = true
		case *ast.InterfaceDeclaration:
			names[d.Name.Value] = true
		}
	}
	return names
}

// ImportPath resolves an import written in file from. Paths starting with
// ./ or ../ are relative to the importing file; others to the source root.
// A missing extension defaults to the source extension.
func ImportPath(from, imported string) string {
	p := imported
	if strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		p = path.Join(path.Dir(from), p)
	} else {
		p = path.Clean(p)
	}
	if path.Ext(p) == "" {
		p += config.SourceFileExt
	}
	return p
}
