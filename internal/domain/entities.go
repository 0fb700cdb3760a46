package domain

import "sort"

// Term is a case-normalized token used as an index key.
type Term string

// TermFreq maps each term of a document to its occurrence count.
type TermFreq map[Term]int

type Document struct {
	Path        string
	Terms       TermFreq
	TotalTokens int
}

// UniqueTerms returns the number of distinct terms in the document.
func (d *Document) UniqueTerms() int {
	return len(d.Terms)
}

// Index maps a document path to its term statistics. Document frequency is
// always derived from Docs and never stored.
type Index struct {
	Docs map[string]*Document
}

func NewIndex() *Index {
	return &Index{Docs: make(map[string]*Document)}
}

// Len returns the number of documents.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.Docs)
}

// DocFreq returns the number of documents containing term at least once.
func (idx *Index) DocFreq(term Term) int {
	if idx == nil {
		return 0
	}
	n := 0
	for _, doc := range idx.Docs {
		if _, ok := doc.Terms[term]; ok {
			n++
		}
	}
	return n
}

// Paths returns the document paths in ascending order.
func (idx *Index) Paths() []string {
	if idx == nil {
		return nil
	}
	paths := make([]string, 0, len(idx.Docs))
	for p := range idx.Docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Equal reports whether both indexes hold the same documents with the same
// term counts and totals.
func (idx *Index) Equal(other *Index) bool {
	if idx.Len() != other.Len() {
		return false
	}
	if idx.Len() == 0 {
		return true
	}
	for path, doc := range idx.Docs {
		od, ok := other.Docs[path]
		if !ok || od.TotalTokens != doc.TotalTokens || len(od.Terms) != len(doc.Terms) {
			return false
		}
		for term, count := range doc.Terms {
			if od.Terms[term] != count {
				return false
			}
		}
	}
	return true
}

type DocStats struct {
	Path        string `json:"path"`
	UniqueTerms int    `json:"unique_terms"`
	TotalTokens int    `json:"total_tokens"`
}

type IndexStats struct {
	Documents   int        `json:"documents"`
	Terms       int        `json:"terms"`
	Tokens      int        `json:"tokens"`
	PerDocument []DocStats `json:"per_document,omitempty"`
}

// Stats summarizes the index without touching any source text. PerDocument
// is sorted by path.
func (idx *Index) Stats() IndexStats {
	stats := IndexStats{Documents: idx.Len()}
	vocab := make(map[Term]struct{})
	for _, path := range idx.Paths() {
		doc := idx.Docs[path]
		stats.Tokens += doc.TotalTokens
		for term := range doc.Terms {
			vocab[term] = struct{}{}
		}
		stats.PerDocument = append(stats.PerDocument, DocStats{
			Path:        path,
			UniqueTerms: doc.UniqueTerms(),
			TotalTokens: doc.TotalTokens,
		})
	}
	stats.Terms = len(vocab)
	return stats
}

type ScoredDoc struct {
	Path  string  `json:"path"`
	Score float64 `json:"score"`
}
