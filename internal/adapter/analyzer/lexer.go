package analyzer

import (
	"strings"
	"unicode"

	"docseek/internal/domain"
)

type TokenKind int

const (
	Number TokenKind = iota
	Word
	Punct
)

func (k TokenKind) String() string {
	switch k {
	case Number:
		return "number"
	case Word:
		return "word"
	default:
		return "punct"
	}
}

// Token is a view into the lexer buffer: runes [Start, End).
type Token struct {
	Kind  TokenKind
	Start int
	End   int
}

// Lexer splits text into numbers, words and single punctuation runes.
// It keeps nothing but the remaining buffer, so a fresh Lexer (or Reset)
// is all it takes to lex another document.
type Lexer struct {
	content []rune
	pos     int
}

func NewLexer(text string) *Lexer {
	return &Lexer{content: []rune(text)}
}

// Reset points the lexer at a new buffer.
func (l *Lexer) Reset(text string) {
	l.content = []rune(text)
	l.pos = 0
}

// Next returns the next token, or false once the buffer is exhausted.
func (l *Lexer) Next() (Token, bool) {
	l.trimLeft()
	if l.pos >= len(l.content) {
		return Token{}, false
	}

	start := l.pos
	r := l.content[l.pos]
	switch {
	case unicode.IsNumber(r):
		l.chop(unicode.IsNumber)
		return Token{Kind: Number, Start: start, End: l.pos}, true
	case unicode.IsLetter(r):
		l.chop(isAlphanumeric)
		return Token{Kind: Word, Start: start, End: l.pos}, true
	default:
		l.pos++
		return Token{Kind: Punct, Start: start, End: l.pos}, true
	}
}

// Text materializes a token into an owned string.
func (l *Lexer) Text(tok Token) string {
	return string(l.content[tok.Start:tok.End])
}

func (l *Lexer) trimLeft() {
	for l.pos < len(l.content) && unicode.IsSpace(l.content[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) chop(keep func(rune) bool) {
	for l.pos < len(l.content) && keep(l.content[l.pos]) {
		l.pos++
	}
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Normalize folds a token into the term used as index key.
func Normalize(token string) domain.Term {
	return domain.Term(strings.ToUpper(token))
}

// Terms lexes text and returns the normalized term of every token.
func Terms(text string) []domain.Term {
	lex := NewLexer(text)
	var terms []domain.Term
	for tok, ok := lex.Next(); ok; tok, ok = lex.Next() {
		terms = append(terms, Normalize(lex.Text(tok)))
	}
	return terms
}

// Tokens returns the raw token strings of text.
func Tokens(text string) []string {
	lex := NewLexer(text)
	var tokens []string
	for tok, ok := lex.Next(); ok; tok, ok = lex.Next() {
		tokens = append(tokens, lex.Text(tok))
	}
	return tokens
}

// Count lexes text into a term frequency map and the total token count.
// Only the normalized term is allocated; the token itself stays a view.
func Count(text string) (domain.TermFreq, int) {
	lex := NewLexer(text)
	tf := make(domain.TermFreq)
	total := 0
	for tok, ok := lex.Next(); ok; tok, ok = lex.Next() {
		tf[Normalize(lex.Text(tok))]++
		total++
	}
	return tf, total
}
