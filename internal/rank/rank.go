// Package rank scores indexed publications against free-text queries using
// weighted per-field cosine similarity, and explains each score with a
// per-field contribution breakdown.
package rank

import (
	"log/slog"
	"math"
	"sort"

	"github.com/scholarseek/scholarseek/internal/index"
	"github.com/scholarseek/scholarseek/internal/normalize"
	"github.com/scholarseek/scholarseek/internal/pub"
)

// Result is one ranked document. Contributions holds the percentage of the
// total score attributable to each field; the percentages sum to 100 for any
// non-zero score and are all 0 when the score is 0.
type Result struct {
	DocID         string                  `json:"doc_id"`
	Score         float64                 `json:"score"`
	Contributions map[index.Field]float64 `json:"contributions"`
	Snippet       string                  `json:"snippet,omitempty"`
	Document      pub.Document            `json:"document"`
}

// Rank scores every candidate document against the query and returns the top
// topK results in descending score order, ties broken by document ID for
// determinism. topK <= 0 returns all candidates. A query that normalizes to
// zero tokens yields an empty result set, never an error. The index is not
// mutated; calling Rank twice against the same index returns identical
// results.
func Rank(idx *index.Index, n *normalize.Normalizer, weights index.Weights, query string, topK int) []Result {
	tokens := n.Normalize(query)
	if len(tokens) == 0 {
		slog.Debug("query normalized to zero tokens", "query", query)
		return []Result{}
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	// per-field query vectors using the document-frequency statistics fit at
	// build time; terms unseen in a field contribute zero weight
	queryVecs := make(map[index.Field]map[string]float64, len(index.Fields))
	queryNorms := make(map[index.Field]float64, len(index.Fields))
	for _, f := range index.Fields {
		vec := make(map[string]float64, len(counts))
		var sumSquares float64
		for term, tf := range counts {
			if idx.DocFrequency(f, term) == 0 {
				continue
			}
			w := float64(tf) * idx.IDF(f, term)
			if w == 0 {
				continue
			}
			vec[term] = w
			sumSquares += w * w
		}
		if len(vec) > 0 {
			queryVecs[f] = vec
			queryNorms[f] = math.Sqrt(sumSquares)
		}
	}

	// candidate set: documents containing at least one query term in any
	// field; everything else is excluded rather than scored as zero
	candidates := make(map[string]struct{})
	for _, f := range index.Fields {
		for term := range queryVecs[f] {
			for _, p := range idx.Postings(f, term) {
				candidates[p.DocID] = struct{}{}
			}
		}
	}
	if len(candidates) == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(candidates))
	for docID := range candidates {
		var score float64
		fieldScores := make(map[index.Field]float64, len(index.Fields))

		for _, f := range index.Fields {
			qv := queryVecs[f]
			if qv == nil {
				continue
			}
			cos := cosine(qv, queryNorms[f], idx.FieldVector(f, docID), idx.Norm(f, docID))
			if cos == 0 {
				continue
			}
			weighted := weights[f] * cos
			fieldScores[f] = weighted
			score += weighted
		}

		contributions := make(map[index.Field]float64, len(index.Fields))
		for _, f := range index.Fields {
			if score > 0 {
				contributions[f] = 100 * fieldScores[f] / score
			} else {
				contributions[f] = 0
			}
		}

		doc, _ := idx.Document(docID)
		results = append(results, Result{
			DocID:         docID,
			Score:         score,
			Contributions: contributions,
			Document:      doc,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	for i := range results {
		results[i].Snippet = Snippet(results[i].Document.Abstract, tokens, n)
	}

	slog.Debug("ranked query", "query", query, "candidates", len(candidates), "returned", len(results))
	return results
}

// cosine computes the normalized dot product of two sparse vectors.
func cosine(a map[string]float64, aNorm float64, b map[string]float64, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}

	// iterate over the smaller vector
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, av := range a {
		if bv, ok := b[term]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}
	return dot / (aNorm * bNorm)
}
