package analyzer

import (
	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/pipeline"
)

// SemanticAnalyzerProcessor type-checks the linked program.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program := ctx.Program()
	if program == nil {
		return ctx
	}
	result, err := New(ctx.Logger).Analyze(program)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Registry = result.Registry
	ctx.TypeMap = result.Types
	ctx.Logger.Debug("checked",
		zap.String("file", ctx.FilePath),
		zap.Int("declarations", len(result.Registry.Declarations())))
	return ctx
}
