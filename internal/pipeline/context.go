package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/ast"
	"github.com/funvibe/clasp/internal/diagnostics"
	"github.com/funvibe/clasp/internal/symbols"
	"github.com/funvibe/clasp/internal/token"
	"github.com/funvibe/clasp/internal/typesystem"
)

// Processor is a single pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries the state handed from one stage to the next.
type PipelineContext struct {
	Context    context.Context
	RunID      uuid.UUID
	Logger     *zap.Logger
	SourceCode string
	FilePath   string

	Tokens  []token.Token
	AstRoot *ast.Program // entry file as parsed
	Linked  *ast.Program // entry plus its import closure and default libraries
	Sources map[string]string

	Registry *symbols.Registry
	TypeMap  map[ast.Expression]typesystem.Type // erased

	Result any // value produced by the evaluator stage

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(sourceCode string) *PipelineContext {
	runID := uuid.New()
	return &PipelineContext{
		Context:    context.Background(),
		RunID:      runID,
		Logger:     zap.NewNop(),
		SourceCode: sourceCode,
		Sources:    make(map[string]string),
	}
}

// WithLogger attaches logger, tagged with the run id.
func (c *PipelineContext) WithLogger(logger *zap.Logger) *PipelineContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.Logger = logger.With(zap.String("run", c.RunID.String()))
	return c
}

// Err returns the first recorded error, if any.
func (c *PipelineContext) Err() *diagnostics.DiagnosticError {
	if len(c.Errors) == 0 {
		return nil
	}
	return c.Errors[0]
}

// AddError records err, stamping the current file when the error has none.
func (c *PipelineContext) AddError(err error) {
	if err == nil {
		return
	}
	de, ok := diagnostics.As(err)
	if !ok {
		de = diagnostics.Wrap(diagnostics.InternalError, diagnostics.ErrI001, token.Span{}, err)
	}
	if de.File == "" {
		de.File = c.FilePath
	}
	c.Errors = append(c.Errors, de)
}

// Program returns the linked program when module resolution ran, otherwise
// the entry file alone.
func (c *PipelineContext) Program() *ast.Program {
	if c.Linked != nil {
		return c.Linked
	}
	return c.AstRoot
}

// SourceFor returns the text of file, falling back to the entry source.
func (c *PipelineContext) SourceFor(file string) string {
	if src, ok := c.Sources[file]; ok {
		return src
	}
	return c.SourceCode
}
