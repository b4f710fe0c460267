package rank

import (
	"strings"

	prose "github.com/jdkato/prose/v2"

	"github.com/scholarseek/scholarseek/internal/normalize"
)

// fallbackWords caps the snippet length when no sentence matches the query.
const fallbackWords = 25

// Snippet returns a keyword-in-context excerpt from text: the first sentence
// containing a query lemma, with matching words wrapped in <mark> tags. When
// no sentence matches, the opening words of the text are returned unmarked.
// Empty text yields an empty snippet.
func Snippet(text string, queryLemmas []string, n *normalize.Normalizer) string {
	if strings.TrimSpace(text) == "" || len(queryLemmas) == 0 {
		return ""
	}

	qset := make(map[string]struct{}, len(queryLemmas))
	for _, lemma := range queryLemmas {
		qset[lemma] = struct{}{}
	}

	for _, sentence := range sentences(text) {
		if marked, matched := highlight(sentence, qset, n); matched {
			return marked
		}
	}

	// no match anywhere: return the opening of the text
	words := strings.Fields(text)
	if len(words) > fallbackWords {
		return strings.Join(words[:fallbackWords], " ") + "..."
	}
	return strings.Join(words, " ")
}

// sentences segments text with prose; on failure the whole text is treated
// as a single sentence.
func sentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return []string{text}
	}

	segs := doc.Sentences()
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.Text)
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// highlight wraps words whose lemma hits qset in <mark> tags and reports
// whether anything matched.
func highlight(sentence string, qset map[string]struct{}, n *normalize.Normalizer) (string, bool) {
	words := strings.Fields(sentence)
	matched := false

	for i, word := range words {
		for _, lemma := range n.Normalize(word) {
			if _, ok := qset[lemma]; ok {
				words[i] = "<mark>" + word + "</mark>"
				matched = true
				break
			}
		}
	}

	if !matched {
		return "", false
	}
	return strings.Join(words, " "), true
}
