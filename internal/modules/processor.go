package modules

import (
	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/pipeline"
)

// ResolverProcessor loads the import closure of the parsed entry file and
// links it with the default libraries.
type ResolverProcessor struct {
	Resolver *Resolver
}

func (rp *ResolverProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}
	entry := &Unit{Path: ctx.FilePath, Source: ctx.SourceCode, Program: ctx.AstRoot}
	units, err := rp.Resolver.Resolve(ctx.Context, entry)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	for _, u := range units {
		ctx.Sources[u.Path] = u.Source
	}
	ctx.Linked = Link(units)
	ctx.Logger.Debug("linked",
		zap.String("file", ctx.FilePath),
		zap.Int("units", len(units)),
		zap.Int("statements", len(ctx.Linked.Statements)))
	return ctx
}
