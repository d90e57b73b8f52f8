package evaluator

import (
	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/natives"
	"github.com/funvibe/clasp/internal/pipeline"
)

// EvaluatorProcessor runs the checked program. When the top-level
// statements finish without a return and EntryClass declares EntryMethod,
// that method is invoked and its value becomes the result.
type EvaluatorProcessor struct {
	Natives     *natives.Registry
	EntryClass  string
	EntryMethod string
}

func (ep *EvaluatorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program := ctx.Program()
	if program == nil {
		return ctx
	}
	interp := New(ep.Natives, ctx.Logger)
	result, err := interp.Run(ctx.Context, program)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	if result == Void && ep.EntryClass != "" && interp.HasMethod(ep.EntryClass, ep.EntryMethod) {
		ctx.Logger.Debug("invoking entry point",
			zap.String("class", ep.EntryClass),
			zap.String("method", ep.EntryMethod))
		result, err = interp.Invoke(ctx.Context, ep.EntryClass, ep.EntryMethod)
		if err != nil {
			ctx.AddError(err)
			return ctx
		}
	}
	ctx.Result = result
	return ctx
}
