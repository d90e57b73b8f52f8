package lexer

import (
	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/pipeline"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	tokens, err := Tokenize(ctx.SourceCode)
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.Tokens = tokens
	if ctx.FilePath != "" {
		ctx.Sources[ctx.FilePath] = ctx.SourceCode
	}
	ctx.Logger.Debug("lexed", zap.String("file", ctx.FilePath), zap.Int("tokens", len(tokens)))
	return ctx
}
