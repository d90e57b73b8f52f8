package parser

import (
	"go.uber.org/zap"

	"github.com/funvibe/clasp/internal/lexer"
	"github.com/funvibe/clasp/internal/pipeline"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	parser := New(lexer.NewStream(ctx.Tokens), ctx.FilePath)
	program, err := parser.ParseProgram()
	if err != nil {
		ctx.AddError(err)
		return ctx
	}
	ctx.AstRoot = program
	ctx.Logger.Debug("parsed", zap.String("file", ctx.FilePath), zap.Int("statements", len(program.Statements)))
	return ctx
}
