// Package extract turns documents on disk into the plain text the lexer
// consumes.
package extract

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"docseek/internal/domain"
	"docseek/internal/port"
)

// skippedElements hold text that is never part of the readable document.
var skippedElements = map[string]struct{}{
	"script": {},
	"style":  {},
}

// MarkupExtractor collects the character data of an XHTML, HTML or XML
// document in document order.
type MarkupExtractor struct{}

func NewMarkupExtractor() *MarkupExtractor {
	return &MarkupExtractor{}
}

func (e *MarkupExtractor) Extract(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", domain.NewIOError("open", path, err)
	}
	defer f.Close()

	text, err := ExtractMarkup(f)
	if err != nil {
		return "", domain.NewExtractionError(path, err)
	}
	return text, nil
}

// ExtractMarkup returns every non-blank text node of r joined by a single
// space, so adjacent nodes never merge into one token.
func ExtractMarkup(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var parts []string
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return strings.Join(parts, " "), nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if _, ok := skippedElements[string(name)]; ok {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if _, ok := skippedElements[string(name)]; ok && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text != "" {
				parts = append(parts, text)
			}
		}
	}
}

// PlainExtractor returns the file content unchanged.
type PlainExtractor struct{}

func (PlainExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", domain.NewIOError("read", path, err)
	}
	return string(data), nil
}

type Extractor = port.Extractor

// ByExtension dispatches to an extractor based on the file extension.
type ByExtension struct {
	markup Extractor
	plain  Extractor
}

func NewByExtension() *ByExtension {
	return &ByExtension{
		markup: NewMarkupExtractor(),
		plain:  PlainExtractor{},
	}
}

func (b *ByExtension) Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xhtml", ".html", ".htm", ".xml":
		return b.markup.Extract(path)
	default:
		return b.plain.Extract(path)
	}
}
