package pipeline

import (
	"iter"
	"strings"
)

// Comment markers recognized by the lexer.
const (
	commentOpen  = "<!--"
	commentClose = "-->"
)

// TokenKind classifies a lexer token.
type TokenKind int

// Token kinds. Head and comment tokens are discarded; only char tokens
// are emitted.
const (
	TokenHead TokenKind = iota
	TokenComment
	TokenChar
)

// String returns the kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenHead:
		return "head"
	case TokenComment:
		return "comment"
	case TokenChar:
		return "char"
	default:
		return "unknown"
	}
}

// Token is a span of the source matched by one lexer step.
type Token struct {
	Kind  TokenKind
	Value string
	Start int // byte offset, inclusive
	End   int // byte offset, exclusive
}

// LexerState is the active rule set of the lexer.
type LexerState int

// Lexer states.
const (
	StateHead LexerState = iota
	StateComment
	StateBody
)

// String returns the state name.
func (s LexerState) String() string {
	switch s {
	case StateHead:
		return "head"
	case StateComment:
		return "comment"
	case StateBody:
		return "body"
	default:
		return "unknown"
	}
}

// Lexer strips the comments and text that precede the first element tag.
//
// Every step consumes one bounded chunk: a comment marker, a run of text up
// to the next '<' (head) or '-' (comment), or a single character. No step
// scans past the chunk it consumes, so total work is linear in the input
// length however long the comment is or however many dashes it contains.
//
// A Lexer is single-use and not safe for concurrent use.
type Lexer struct {
	src   string
	pos   int
	stack []LexerState
	steps int
	done  bool

	// OnDiscard, when set, receives every discarded head and comment token.
	OnDiscard func(Token)
}

// NewLexer returns a lexer positioned at the start of src in the head state.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, stack: []LexerState{StateHead}}
}

// State returns the active state.
func (l *Lexer) State() LexerState {
	return l.stack[len(l.stack)-1]
}

// Steps returns the number of lexer steps taken so far.
func (l *Lexer) Steps() int {
	return l.steps
}

// Next returns the next emitted token. It returns false once the input is
// exhausted; a lexer that never reaches the body emits nothing.
func (l *Lexer) Next() (Token, bool) {
	for !l.done {
		if l.pos >= len(l.src) {
			l.done = true
			break
		}
		l.steps++

		switch l.State() {
		case StateHead:
			l.scanHead()
		case StateComment:
			l.scanComment()
		case StateBody:
			tok := Token{Kind: TokenChar, Value: l.src[l.pos:], Start: l.pos, End: len(l.src)}
			l.pos = len(l.src)
			l.done = true
			return tok, true
		}
	}
	return Token{}, false
}

// Tokens returns the remaining emitted tokens as a sequence. The sequence
// shares the lexer position and cannot be restarted.
func (l *Lexer) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := l.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

func (l *Lexer) scanHead() {
	rest := l.src[l.pos:]
	switch {
	case strings.HasPrefix(rest, commentOpen):
		l.discard(TokenComment, len(commentOpen))
		l.stack = append(l.stack, StateComment)
	case isTagStart(rest):
		// Switch without consuming: the tag opening is rescanned as body.
		l.stack[len(l.stack)-1] = StateBody
	case rest[0] == '<':
		l.discard(TokenHead, 1)
	default:
		n := strings.IndexByte(rest, '<')
		if n < 0 {
			n = len(rest)
		}
		l.discard(TokenHead, n)
	}
}

func (l *Lexer) scanComment() {
	rest := l.src[l.pos:]
	switch {
	case strings.HasPrefix(rest, commentClose):
		l.discard(TokenComment, len(commentClose))
		l.stack = l.stack[:len(l.stack)-1]
	case rest[0] == '-':
		l.discard(TokenComment, 1)
	default:
		n := strings.IndexByte(rest, '-')
		if n < 0 {
			n = len(rest)
		}
		l.discard(TokenComment, n)
	}
}

func (l *Lexer) discard(kind TokenKind, n int) {
	if l.OnDiscard != nil {
		l.OnDiscard(Token{Kind: kind, Value: l.src[l.pos : l.pos+n], Start: l.pos, End: l.pos + n})
	}
	l.pos += n
}

// isTagStart reports whether s begins with '<' followed by an ASCII letter,
// the start tags the markup tokenizer recognizes.
func isTagStart(s string) bool {
	if len(s) < 2 || s[0] != '<' {
		return false
	}
	c := s[1]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Collect drains the lexer and returns the concatenated emitted text.
func (l *Lexer) Collect() string {
	var sb strings.Builder
	for tok := range l.Tokens() {
		sb.WriteString(tok.Value)
	}
	return sb.String()
}

// StripLeadingComments returns src from its first element tag onward,
// dropping the comments and whitespace before it. Input without an element
// outside a comment yields the empty string.
func StripLeadingComments(src string) string {
	return NewLexer(src).Collect()
}
