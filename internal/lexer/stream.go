package lexer

import "github.com/funvibe/clasp/internal/token"

// Stream is an index-based cursor over a finished token slice. Seek allows
// the parser to scan ahead and rewind without re-lexing.
type Stream struct {
	tokens []token.Token
	pos    int
}

// NewStream wraps tokens, dropping comments. The slice must end with EOF.
func NewStream(tokens []token.Token) *Stream {
	filtered := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == token.COMMENT {
			continue
		}
		filtered = append(filtered, tok)
	}
	if len(filtered) == 0 || filtered[len(filtered)-1].Type != token.EOF {
		var span token.Span
		if len(filtered) > 0 {
			last := filtered[len(filtered)-1].Span
			span = token.Span{Start: last.End, End: last.End, Line: last.Line, Column: last.Column + (last.End - last.Start)}
		}
		filtered = append(filtered, token.Token{Type: token.EOF, Span: span})
	}
	return &Stream{tokens: filtered}
}

// Peek returns up to n tokens starting at the cursor without consuming them.
func (s *Stream) Peek(n int) []token.Token {
	end := s.pos + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	return s.tokens[s.pos:end]
}

// At returns the token offset positions ahead of the cursor, clamped to EOF.
func (s *Stream) At(offset int) token.Token {
	i := s.pos + offset
	if i >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[i]
}

// Next consumes and returns the current token. At EOF it keeps returning EOF.
func (s *Stream) Next() token.Token {
	tok := s.tokens[s.pos]
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok
}

func (s *Stream) Position() int {
	return s.pos
}

func (s *Stream) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos >= len(s.tokens) {
		pos = len(s.tokens) - 1
	}
	s.pos = pos
}

func (s *Stream) Len() int {
	return len(s.tokens)
}
