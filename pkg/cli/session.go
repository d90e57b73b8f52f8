package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/funvibe/clasp/internal/analyzer"
	"github.com/funvibe/clasp/internal/config"
	"github.com/funvibe/clasp/internal/evaluator"
	"github.com/funvibe/clasp/internal/lexer"
	"github.com/funvibe/clasp/internal/modules"
	"github.com/funvibe/clasp/internal/natives"
	"github.com/funvibe/clasp/internal/parser"
	"github.com/funvibe/clasp/internal/pipeline"
)

// Session holds what every command shares: the project, the logger and
// the module loader.
type Session struct {
	Project *config.Project
	Logger  *zap.Logger
	Out     io.Writer

	resolver *modules.Resolver
	cache    *modules.CachedLoader
}

// NewSession wires the loaders of project. verbose forces debug logging.
func NewSession(project *config.Project, out, logOut io.Writer, verbose bool) (*Session, error) {
	level := project.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := newLogger(level, logOut)
	if err != nil {
		return nil, err
	}

	var loader modules.Loader = modules.ChainLoader{
		&modules.FSLoader{FS: natives.LibraryFS()},
		&modules.FileLoader{Root: project.Root()},
	}
	s := &Session{Project: project, Logger: logger, Out: out}
	if path := project.CachePath(); path != "" {
		cache, err := modules.OpenCache(path, loader, logger)
		if err != nil {
			return nil, err
		}
		s.cache = cache
		loader = cache
	}
	libs := append([]string{config.PreludePath}, project.LibraryPaths...)
	s.resolver = modules.NewResolver(loader, logger, libs...)
	return s, nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func (s *Session) Close() error {
	_ = s.Logger.Sync()
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// modulePath expresses file relative to the source root so that imports
// resolve against the loader. Files outside the root keep their absolute
// path.
func (s *Session) modulePath(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	root, err := filepath.Abs(s.Project.Root())
	if err != nil {
		return filepath.ToSlash(abs)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func (s *Session) newContext(ctx context.Context, source, file string) *pipeline.PipelineContext {
	pc := pipeline.NewPipelineContext(source)
	pc.Context = ctx
	pc.FilePath = file
	return pc.WithLogger(s.Logger)
}

// Check lexes, parses, resolves and type-checks source.
func (s *Session) Check(ctx context.Context, source, file string) *pipeline.PipelineContext {
	return pipeline.New(s.front()...).Run(s.newContext(ctx, source, file))
}

// Execute runs the full pipeline with System output sent to out.
func (s *Session) Execute(ctx context.Context, source, file string, out io.Writer) *pipeline.PipelineContext {
	processors := append(s.front(), &evaluator.EvaluatorProcessor{
		Natives:     natives.Standard(natives.Options{Out: out}),
		EntryClass:  s.Project.EntryClass,
		EntryMethod: s.Project.EntryMethod,
	})
	return pipeline.New(processors...).Run(s.newContext(ctx, source, file))
}

func (s *Session) front() []pipeline.Processor {
	return []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&modules.ResolverProcessor{Resolver: s.resolver},
		&analyzer.SemanticAnalyzerProcessor{},
	}
}
