package retriever

import (
	"math"
	"sort"

	"docseek/internal/adapter/analyzer"
	"docseek/internal/domain"
)

type TFIDFRanker struct {
	smoothIDF bool
}

// NewTFIDFRanker returns a ranker using idf = ln(N/(1+df)), or
// ln((1+N)/(1+df)) when smoothIDF is set.
func NewTFIDFRanker(smoothIDF bool) *TFIDFRanker {
	return &TFIDFRanker{smoothIDF: smoothIDF}
}

// Rank scores every document of idx against query and returns at most
// limit results, best first. Ties are ordered by path. A limit <= 0
// returns every document. Rank only reads idx.
func (r *TFIDFRanker) Rank(idx *domain.Index, query string, limit int) []domain.ScoredDoc {
	terms := QueryTerms(query)
	if len(terms) == 0 || idx.Len() == 0 {
		return nil
	}

	n := idx.Len()
	idfs := make([]float64, len(terms))
	for i, term := range terms {
		idfs[i] = r.IDF(n, idx.DocFreq(term))
	}

	results := make([]domain.ScoredDoc, 0, n)
	for path, doc := range idx.Docs {
		score := 0.0
		for i, term := range terms {
			score += TF(doc, term) * idfs[i]
		}
		results = append(results, domain.ScoredDoc{Path: path, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Path < results[j].Path
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// IDF is the inverse document frequency of a term found in df of n
// documents.
func (r *TFIDFRanker) IDF(n, df int) float64 {
	if r.smoothIDF {
		return math.Log(float64(1+n) / float64(1+df))
	}
	return math.Log(float64(n) / float64(1+df))
}

// TF is the share of doc's tokens that are term; 0 for an empty document.
func TF(doc *domain.Document, term domain.Term) float64 {
	if doc.TotalTokens == 0 {
		return 0
	}
	return float64(doc.Terms[term]) / float64(doc.TotalTokens)
}

// QueryTerms normalizes query exactly like indexed text and drops repeats,
// keeping first-seen order.
func QueryTerms(query string) []domain.Term {
	var terms []domain.Term
	seen := make(map[domain.Term]struct{})
	for _, term := range analyzer.Terms(query) {
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

type TermScore struct {
	Term domain.Term `json:"term"`
	TF   float64     `json:"tf"`
	DF   int         `json:"df"`
	IDF  float64     `json:"idf"`
}

// Explain breaks the score of one document down per query term.
func (r *TFIDFRanker) Explain(idx *domain.Index, query, path string) []TermScore {
	doc, ok := idx.Docs[path]
	if !ok {
		return nil
	}
	terms := QueryTerms(query)
	out := make([]TermScore, 0, len(terms))
	for _, term := range terms {
		df := idx.DocFreq(term)
		out = append(out, TermScore{
			Term: term,
			TF:   TF(doc, term),
			DF:   df,
			IDF:  r.IDF(idx.Len(), df),
		})
	}
	return out
}
