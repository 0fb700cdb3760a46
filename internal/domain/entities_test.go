package domain

import (
	"errors"
	"io/fs"
	"testing"
)

func sampleIndex() *Index {
	idx := NewIndex()
	idx.Docs["a.xhtml"] = &Document{Path: "a.xhtml", Terms: TermFreq{"GLCLEAR": 2, "VOID": 1}, TotalTokens: 3}
	idx.Docs["b.xhtml"] = &Document{Path: "b.xhtml", Terms: TermFreq{"GLBEGIN": 1, "VOID": 1}, TotalTokens: 2}
	return idx
}

func TestIndex_DocFreq(t *testing.T) {
	idx := sampleIndex()

	tests := []struct {
		term Term
		want int
	}{
		{"VOID", 2},
		{"GLCLEAR", 1},
		{"MISSING", 0},
	}
	for _, tt := range tests {
		if got := idx.DocFreq(tt.term); got != tt.want {
			t.Errorf("DocFreq(%q) = %d, want %d", tt.term, got, tt.want)
		}
	}

	var empty *Index
	if empty.DocFreq("VOID") != 0 {
		t.Error("nil index should report zero document frequency")
	}
}

func TestIndex_Equal(t *testing.T) {
	a := sampleIndex()
	b := sampleIndex()
	if !a.Equal(b) {
		t.Fatal("identical indexes should be equal")
	}

	b.Docs["a.xhtml"].Terms["VOID"] = 2
	if a.Equal(b) {
		t.Error("indexes with different counts should not be equal")
	}

	if !NewIndex().Equal(&Index{}) {
		t.Error("empty indexes should be equal regardless of map allocation")
	}
}

func TestIndex_Stats(t *testing.T) {
	stats := sampleIndex().Stats()

	if stats.Documents != 2 {
		t.Errorf("expected 2 documents, got %d", stats.Documents)
	}
	if stats.Terms != 3 {
		t.Errorf("expected 3 distinct terms, got %d", stats.Terms)
	}
	if stats.Tokens != 5 {
		t.Errorf("expected 5 tokens, got %d", stats.Tokens)
	}
	if len(stats.PerDocument) != 2 || stats.PerDocument[0].Path != "a.xhtml" {
		t.Fatalf("unexpected per-document stats: %+v", stats.PerDocument)
	}
	if stats.PerDocument[0].UniqueTerms != 2 {
		t.Errorf("expected 2 unique terms for a.xhtml, got %d", stats.PerDocument[0].UniqueTerms)
	}
}

func TestPathError_Is(t *testing.T) {
	err := NewIOError("load", "/tmp/index.json", fs.ErrNotExist)

	if !errors.Is(err, ErrIO) {
		t.Error("expected errors.Is(err, ErrIO)")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected the cause to stay reachable")
	}
	if errors.Is(err, ErrFormat) {
		t.Error("io error must not match ErrFormat")
	}
	if got := err.Error(); got != "load /tmp/index.json: file does not exist" {
		t.Errorf("unexpected message %q", got)
	}

	dup := NewDuplicateError("a.xhtml")
	if !errors.Is(dup, ErrDuplicateDocument) {
		t.Error("expected duplicate document kind")
	}
}
