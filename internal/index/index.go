// Package index implements the five-field weighted TF-IDF index over crawled
// publications. Document frequencies are computed per field, so a term's
// rarity in titles is independent of its rarity in abstracts. Field weight
// multipliers are applied at scoring time, never baked into stored vectors,
// so they can change without a rebuild.
package index

import (
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/scholarseek/scholarseek/internal/normalize"
	"github.com/scholarseek/scholarseek/internal/pub"
)

// ErrEmptyCorpus is returned when a build pass receives no documents. An
// empty corpus must fail the pass rather than silently produce an empty
// index.
var ErrEmptyCorpus = errors.New("index: empty corpus")

// Field identifies one of the five indexed publication fields.
type Field string

const (
	FieldTitle    Field = "title"
	FieldAuthors  Field = "authors"
	FieldKeywords Field = "keywords"
	FieldYear     Field = "year"
	FieldAbstract Field = "abstract"
)

// Fields lists every indexed field in a stable order.
var Fields = []Field{FieldTitle, FieldAuthors, FieldKeywords, FieldYear, FieldAbstract}

// Weights maps each field to its score multiplier.
type Weights map[Field]float64

// DefaultWeights returns the standard field multiplier table.
func DefaultWeights() Weights {
	return Weights{
		FieldTitle:    3.0,
		FieldAuthors:  2.5,
		FieldKeywords: 2.0,
		FieldYear:     1.5,
		FieldAbstract: 1.0,
	}
}

// Posting records one (document, term, field) occurrence with its raw term
// frequency. One posting exists per unique combination.
type Posting struct {
	DocID    string
	TermFreq int
}

// Index is an immutable field-weighted TF-IDF index. Build once, read from
// any number of goroutines.
type Index struct {
	docs     map[string]pub.Document
	postings map[Field]map[string][]Posting
	docFreq  map[Field]map[string]int
	vectors  map[Field]map[string]map[string]float64
	norms    map[Field]map[string]float64
	total    int
}

// Build constructs the index in a single full pass over the corpus. Each
// document field is normalized with the shared pipeline, counted, and
// weighted with tf × log(N/df); df is floored at 1.
func Build(docs []pub.Document, n *normalize.Normalizer) (*Index, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	idx := &Index{
		docs:     make(map[string]pub.Document, len(docs)),
		postings: make(map[Field]map[string][]Posting, len(Fields)),
		docFreq:  make(map[Field]map[string]int, len(Fields)),
		vectors:  make(map[Field]map[string]map[string]float64, len(Fields)),
		norms:    make(map[Field]map[string]float64, len(Fields)),
	}
	for _, f := range Fields {
		idx.postings[f] = make(map[string][]Posting)
		idx.docFreq[f] = make(map[string]int)
		idx.vectors[f] = make(map[string]map[string]float64)
		idx.norms[f] = make(map[string]float64)
	}

	// first pass: term frequencies and per-field document frequencies
	termFreqs := make(map[Field]map[string]map[string]int, len(Fields))
	for _, f := range Fields {
		termFreqs[f] = make(map[string]map[string]int)
	}

	for _, doc := range docs {
		idx.docs[doc.ID] = doc
		for _, f := range Fields {
			tokens := n.Normalize(fieldText(doc, f))
			if len(tokens) == 0 {
				continue
			}

			counts := make(map[string]int, len(tokens))
			for _, tok := range tokens {
				counts[tok]++
			}
			termFreqs[f][doc.ID] = counts

			for term := range counts {
				idx.docFreq[f][term]++
			}
		}
	}
	idx.total = len(idx.docs)

	// second pass: postings, TF-IDF vectors, and vector norms
	for _, f := range Fields {
		for docID, counts := range termFreqs[f] {
			vec := make(map[string]float64, len(counts))
			var sumSquares float64

			for term, tf := range counts {
				idx.postings[f][term] = append(idx.postings[f][term], Posting{
					DocID:    docID,
					TermFreq: tf,
				})

				weight := float64(tf) * idx.IDF(f, term)
				if weight == 0 {
					continue // zero weights are omitted; vectors stay sparse
				}
				vec[term] = weight
				sumSquares += weight * weight
			}

			if len(vec) > 0 {
				idx.vectors[f][docID] = vec
				idx.norms[f][docID] = math.Sqrt(sumSquares)
			}
		}
	}

	slog.Debug("index built",
		"documents", idx.total,
		"titleTerms", len(idx.docFreq[FieldTitle]),
		"abstractTerms", len(idx.docFreq[FieldAbstract]))

	return idx, nil
}

// TotalDocuments returns the corpus size.
func (idx *Index) TotalDocuments() int {
	return idx.total
}

// Document looks up a stored document by identifier.
func (idx *Index) Document(id string) (pub.Document, bool) {
	doc, ok := idx.docs[id]
	return doc, ok
}

// Postings returns the posting list for a term within one field. The
// returned slice must not be mutated.
func (idx *Index) Postings(f Field, term string) []Posting {
	return idx.postings[f][term]
}

// DocFrequency returns how many documents contain term in field f.
func (idx *Index) DocFrequency(f Field, term string) int {
	return idx.docFreq[f][term]
}

// IDF returns log(N/df) for a term in a field, with df floored at 1 to avoid
// division by zero for out-of-corpus terms.
func (idx *Index) IDF(f Field, term string) float64 {
	df := idx.docFreq[f][term]
	if df < 1 {
		df = 1
	}
	return math.Log(float64(idx.total) / float64(df))
}

// FieldVector returns the sparse TF-IDF vector for one field of one
// document, or nil when the field is empty. The map must not be mutated.
func (idx *Index) FieldVector(f Field, docID string) map[string]float64 {
	return idx.vectors[f][docID]
}

// Norm returns the Euclidean norm of a document's field vector, or 0 when
// the field is empty.
func (idx *Index) Norm(f Field, docID string) float64 {
	return idx.norms[f][docID]
}

// fieldText renders the indexed text for one field of a document. List
// fields join their entries with spaces before normalization.
func fieldText(doc pub.Document, f Field) string {
	switch f {
	case FieldTitle:
		return doc.Title
	case FieldAuthors:
		return strings.Join(doc.Authors, " ")
	case FieldKeywords:
		return strings.Join(doc.Keywords, " ")
	case FieldYear:
		return doc.Year
	case FieldAbstract:
		return doc.Abstract
	default:
		return ""
	}
}
