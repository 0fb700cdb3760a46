package analyzer

import (
	"reflect"
	"testing"

	"docseek/internal/domain"
)

func TestLexer_Example(t *testing.T) {
	got := Tokens("abc123 45 #")
	want := []string{"abc123", "45", "#"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
}

func TestLexer_Rules(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"   \t\n ", nil},
		{"123abc", []string{"123", "abc"}},
		{"glClear(GL_COLOR_BUFFER_BIT);", []string{"glClear", "(", "GL", "_", "COLOR", "_", "BUFFER", "_", "BIT", ")", ";"}},
		{"a+b", []string{"a", "+", "b"}},
		{"x1y2 3z", []string{"x1y2", "3", "z"}},
		{"  trailing   ", []string{"trailing"}},
		{"->", []string{"-", ">"}},
		{"café 42", []string{"café", "42"}},
	}

	for _, tt := range tests {
		got := Tokens(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokens(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLexer_Kinds(t *testing.T) {
	lex := NewLexer("gl 10 ,")
	want := []TokenKind{Word, Number, Punct}

	for i, kind := range want {
		tok, ok := lex.Next()
		if !ok {
			t.Fatalf("token %d: lexer exhausted early", i)
		}
		if tok.Kind != kind {
			t.Errorf("token %d: kind %s, want %s", i, tok.Kind, kind)
		}
	}
	if _, ok := lex.Next(); ok {
		t.Error("expected lexer to be exhausted")
	}
	if _, ok := lex.Next(); ok {
		t.Error("exhausted lexer must keep returning false")
	}
}

func TestLexer_OffsetsIntoSource(t *testing.T) {
	lex := NewLexer("  héllo wörld")
	tok, ok := lex.Next()
	if !ok {
		t.Fatal("expected a token")
	}
	if tok.Start != 2 || tok.End != 7 {
		t.Errorf("expected rune offsets [2,7), got [%d,%d)", tok.Start, tok.End)
	}
	if lex.Text(tok) != "héllo" {
		t.Errorf("unexpected text %q", lex.Text(tok))
	}
}

func TestLexer_Reset(t *testing.T) {
	lex := NewLexer("first")
	lex.Next()
	lex.Reset("second doc")

	tok, ok := lex.Next()
	if !ok || lex.Text(tok) != "second" {
		t.Errorf("expected lexer to restart on the new buffer, got %q", lex.Text(tok))
	}
}

func TestCount(t *testing.T) {
	tf, total := Count("glClear glClear void")

	if total != 3 {
		t.Errorf("expected 3 tokens, got %d", total)
	}
	want := domain.TermFreq{"GLCLEAR": 2, "VOID": 1}
	if !reflect.DeepEqual(tf, want) {
		t.Errorf("Count = %v, want %v", tf, want)
	}
}

func TestTerms_CaseFold(t *testing.T) {
	got := Terms("GlClear glclear GLCLEAR")
	for _, term := range got {
		if term != "GLCLEAR" {
			t.Errorf("expected every spelling to fold to GLCLEAR, got %q", term)
		}
	}
	if len(got) != 3 {
		t.Errorf("expected 3 terms, got %d", len(got))
	}
}
