package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"docseek/internal/domain"
)

// Codec converts an Index to and from a single structural document.
type Codec interface {
	Encode(idx *domain.Index) ([]byte, error)
	Decode(data []byte) (*domain.Index, error)
	Name() string
}

// indexFile is the persisted schema shared by every text codec.
type indexFile struct {
	Version   int                 `json:"version" yaml:"version"`
	Documents map[string]docEntry `json:"documents" yaml:"documents"`
}

type docEntry struct {
	TotalTokens int            `json:"total_tokens" yaml:"total_tokens"`
	Terms       map[string]int `json:"terms" yaml:"terms"`
}

func toFile(idx *domain.Index) indexFile {
	f := indexFile{
		Version:   CurrentSchemaVersion,
		Documents: make(map[string]docEntry, idx.Len()),
	}
	if idx == nil {
		return f
	}
	for path, doc := range idx.Docs {
		terms := make(map[string]int, len(doc.Terms))
		for term, count := range doc.Terms {
			terms[string(term)] = count
		}
		f.Documents[path] = docEntry{TotalTokens: doc.TotalTokens, Terms: terms}
	}
	return f
}

func fromFile(f indexFile) (*domain.Index, error) {
	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	idx := domain.NewIndex()
	for path, entry := range f.Documents {
		doc, err := toDocument(path, entry.TotalTokens, entry.Terms)
		if err != nil {
			return nil, err
		}
		idx.Docs[path] = doc
	}
	return idx, nil
}

func toDocument(path string, total int, terms map[string]int) (*domain.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: document with empty path", domain.ErrFormat)
	}
	tf := make(domain.TermFreq, len(terms))
	sum := 0
	for term, count := range terms {
		if term == "" {
			return nil, fmt.Errorf("%w: empty term in %s", domain.ErrFormat, path)
		}
		if count < 1 {
			return nil, fmt.Errorf("%w: term %q in %s has count %d", domain.ErrFormat, term, path, count)
		}
		tf[domain.Term(term)] = count
		sum += count
	}
	if sum != total {
		return nil, fmt.Errorf("%w: %s has total_tokens %d but term counts sum to %d", domain.ErrFormat, path, total, sum)
	}
	return &domain.Document{Path: path, Terms: tf, TotalTokens: total}, nil
}

type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(idx *domain.Index) ([]byte, error) {
	data, err := json.MarshalIndent(toFile(idx), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (JSONCodec) Decode(data []byte) (*domain.Index, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var f indexFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after index", domain.ErrFormat)
	}
	return fromFile(f)
}

type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Encode(idx *domain.Index) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toFile(idx)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAMLCodec) Decode(data []byte) (*domain.Index, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f indexFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFormat, err)
	}
	return fromFile(f)
}
