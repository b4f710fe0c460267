package classifier

import (
	"math"
	"sort"
)

// maxVocabulary caps the feature vocabulary at the highest-corpus-frequency
// terms.
const maxVocabulary = 5000

// Vectorizer converts normalized token sequences into sparse TF-IDF feature
// vectors over a vocabulary fixed at fit time. Terms outside the vocabulary
// contribute zero weight; they are never an error.
type Vectorizer struct {
	// Terms maps feature index to term, in vocabulary order.
	Terms []string `json:"terms"`

	// IDF holds log(N/df) per feature index, df floored at 1.
	IDF []float64 `json:"idf"`

	// index is the reverse lookup, rebuilt after deserialization.
	index map[string]int
}

// FitVectorizer builds a vocabulary from the training token sequences,
// keeping the maxFeatures terms with the highest total corpus frequency.
// Ties are broken lexicographically for determinism. maxFeatures <= 0 uses
// the default cap.
func FitVectorizer(tokenDocs [][]string, maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = maxVocabulary
	}

	corpusFreq := make(map[string]int)
	docFreq := make(map[string]int)
	for _, tokens := range tokenDocs {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			corpusFreq[tok]++
			seen[tok] = struct{}{}
		}
		for tok := range seen {
			docFreq[tok]++
		}
	}

	type termFreq struct {
		term string
		freq int
	}
	ranked := make([]termFreq, 0, len(corpusFreq))
	for term, freq := range corpusFreq {
		ranked = append(ranked, termFreq{term: term, freq: freq})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].freq != ranked[j].freq {
			return ranked[i].freq > ranked[j].freq
		}
		return ranked[i].term < ranked[j].term
	})
	if len(ranked) > maxFeatures {
		ranked = ranked[:maxFeatures]
	}

	v := &Vectorizer{
		Terms: make([]string, len(ranked)),
		IDF:   make([]float64, len(ranked)),
		index: make(map[string]int, len(ranked)),
	}

	total := len(tokenDocs)
	for i, tf := range ranked {
		v.Terms[i] = tf.term
		v.index[tf.term] = i

		df := docFreq[tf.term]
		if df < 1 {
			df = 1
		}
		// smoothed so terms present in every document keep a small positive
		// weight instead of vanishing
		v.IDF[i] = math.Log(float64(total+1)/float64(df)) + 1
	}

	return v
}

// Size returns the number of vocabulary features.
func (v *Vectorizer) Size() int {
	return len(v.Terms)
}

// Transform converts a token sequence into a sparse feature vector of
// tf × idf weights. Out-of-vocabulary tokens are skipped.
func (v *Vectorizer) Transform(tokens []string) map[int]float64 {
	counts := make(map[int]int)
	for _, tok := range tokens {
		if i, ok := v.lookup(tok); ok {
			counts[i]++
		}
	}

	features := make(map[int]float64, len(counts))
	for i, tf := range counts {
		w := float64(tf) * v.IDF[i]
		if w > 0 {
			features[i] = w
		}
	}
	return features
}

// Term returns the vocabulary term at a feature index.
func (v *Vectorizer) Term(i int) string {
	return v.Terms[i]
}

// lookup resolves a term to its feature index, rebuilding the reverse index
// after deserialization if needed.
func (v *Vectorizer) lookup(term string) (int, bool) {
	if v.index == nil {
		v.index = make(map[string]int, len(v.Terms))
		for i, t := range v.Terms {
			v.index[t] = i
		}
	}
	i, ok := v.index[term]
	return i, ok
}
