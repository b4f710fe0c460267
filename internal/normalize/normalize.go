// Package normalize implements the shared text-normalization pipeline used by
// both the search index and the classifier. Query-time and train-time token
// streams must agree, so every caller goes through the same Normalizer.
//
// The pipeline runs four inspectable stages:
//  1. original text
//  2. lowercasing (plus URL/email masking)
//  3. tokenization with stop-word removal
//  4. dictionary lemmatization
//
// Each stage is exposed via Steps so the search and classifier UIs can show
// exactly how a token stream was derived.
package normalize

import (
	"regexp"
	"strings"
)

// Options fixes the normalizer configuration at construction time. A
// Normalizer is a pure function of its Options and input text.
type Options struct {
	Lowercase       bool
	MaskURLs        bool
	MaskEmails      bool
	RemoveStopwords bool
	Lemmatize       bool
}

// DefaultOptions returns the configuration used across the whole system.
func DefaultOptions() Options {
	return Options{
		Lowercase:       true,
		MaskURLs:        true,
		MaskEmails:      true,
		RemoveStopwords: true,
		Lemmatize:       true,
	}
}

// Step is one named intermediate output of the pipeline.
type Step struct {
	Name   string `json:"name"`
	Output string `json:"output"`
}

// Normalizer converts raw text into an ordered sequence of lemmas. Safe for
// concurrent use; all state is immutable after construction.
type Normalizer struct {
	opts    Options
	stop    map[string]struct{}
	lemmas  map[string]string
	tokenRe *regexp.Regexp
	urlRe   *regexp.Regexp
	emailRe *regexp.Regexp
}

// minTokenLen drops one-character fragments left over from tokenization.
const minTokenLen = 2

// New creates a Normalizer with the given options and the embedded stop-word
// set and lemma dictionary.
func New(opts Options) *Normalizer {
	return &Normalizer{
		opts:    opts,
		stop:    stopwords,
		lemmas:  lemmaDict,
		tokenRe: regexp.MustCompile(`[a-zA-Z0-9]+`),
		urlRe:   regexp.MustCompile(`https?://\S+`),
		emailRe: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	}
}

// Normalize runs the full pipeline and returns the ordered lemma sequence.
// Empty input yields an empty (non-nil) sequence, never an error.
func (n *Normalizer) Normalize(text string) []string {
	lowered := n.lower(n.mask(text))
	tokens := n.tokenize(lowered)
	return n.lemmatize(tokens)
}

// Steps returns every named intermediate stage for the given input, in
// pipeline order. The final stage's output joins the same lemma sequence that
// Normalize would return.
func (n *Normalizer) Steps(text string) []Step {
	steps := []Step{{Name: "original", Output: text}}

	masked := n.mask(text)
	lowered := n.lower(masked)
	steps = append(steps, Step{Name: "lowercased", Output: lowered})

	tokens := n.tokenize(lowered)
	steps = append(steps, Step{Name: "tokenized", Output: strings.Join(tokens, " ")})

	lemmas := n.lemmatize(tokens)
	steps = append(steps, Step{Name: "lemmatized", Output: strings.Join(lemmas, " ")})

	return steps
}

func (n *Normalizer) mask(text string) string {
	if n.opts.MaskURLs {
		text = n.urlRe.ReplaceAllString(text, " ")
	}
	if n.opts.MaskEmails {
		text = n.emailRe.ReplaceAllString(text, " ")
	}
	return text
}

func (n *Normalizer) lower(text string) string {
	if !n.opts.Lowercase {
		return text
	}
	return strings.ToLower(text)
}

// tokenize splits on non-alphanumeric boundaries and applies stop-word
// removal. Token order is preserved.
func (n *Normalizer) tokenize(text string) []string {
	raw := n.tokenRe.FindAllString(text, -1)

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < minTokenLen {
			continue
		}
		if n.opts.RemoveStopwords {
			if _, isStop := n.stop[tok]; isStop {
				continue
			}
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// lemmatize maps each token to its dictionary base form, falling back to the
// token itself when the dictionary has no entry.
func (n *Normalizer) lemmatize(tokens []string) []string {
	if !n.opts.Lemmatize {
		return tokens
	}
	lemmas := make([]string, len(tokens))
	for i, tok := range tokens {
		if base, ok := n.lemmas[tok]; ok {
			lemmas[i] = base
		} else {
			lemmas[i] = tok
		}
	}
	return lemmas
}
