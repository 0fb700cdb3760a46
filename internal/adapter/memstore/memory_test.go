package memstore

import (
	"errors"
	"io/fs"
	"testing"

	"docseek/internal/domain"
)

func TestMemoryStore_SaveLoad(t *testing.T) {
	s := NewMemoryStore()
	idx := domain.NewIndex()
	idx.Docs["a.xhtml"] = &domain.Document{Path: "a.xhtml", Terms: domain.TermFreq{"GLCLEAR": 1}, TotalTokens: 1}

	if err := s.Save("index.json", idx); err != nil {
		t.Fatal(err)
	}
	idx.Docs["a.xhtml"].Terms["GLCLEAR"] = 99

	loaded, err := s.Load("index.json")
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded.Docs["a.xhtml"].Terms["GLCLEAR"]; got != 1 {
		t.Errorf("saved copy changed: GLCLEAR = %d", got)
	}

	loaded.Docs["a.xhtml"].TotalTokens = 7
	again, _ := s.Load("index.json")
	if again.Docs["a.xhtml"].TotalTokens != 1 {
		t.Error("Load must return an independent copy")
	}
}

func TestMemoryStore_Missing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Load("nope")
	if !errors.Is(err, domain.ErrIO) || !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected io error wrapping ErrNotExist, got %v", err)
	}
}

func TestMemoryStore_SaveNil(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Save("empty", nil); err != nil {
		t.Fatal(err)
	}
	idx, err := s.Load("empty")
	if err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 0 {
		t.Errorf("expected an empty index, got %d documents", idx.Len())
	}
}
