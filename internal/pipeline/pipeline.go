package pipeline

import "go.uber.org/zap"

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline. Every stage aborts on its first error, so the
// pipeline stops at the first stage that reports one.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		if err := ctx.Err(); err != nil {
			ctx.Logger.Debug("pipeline stopped",
				zap.String("kind", string(err.Kind)),
				zap.String("code", string(err.Code)),
				zap.String("message", err.Message))
			break
		}
	}
	return ctx
}
