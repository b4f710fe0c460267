// Package classifier implements multi-label text classification as a chain
// of binary Naive Bayes estimators. Each estimator consumes the TF-IDF
// features of the input plus the outcomes of every earlier label in the
// chain, which lets the model capture label co-occurrence that independent
// per-label classifiers miss.
package classifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/scholarseek/scholarseek/internal/normalize"
)

// DefaultAlpha is the Laplace smoothing constant.
const DefaultAlpha = 0.1

// Sample is one labelled training example.
type Sample struct {
	Text   string   `json:"text"`
	Labels []string `json:"labels"`
}

// TrainConfig tunes a training pass.
type TrainConfig struct {
	// MaxFeatures caps the vocabulary; <= 0 uses the 5,000-term default.
	MaxFeatures int

	// Alpha is the Laplace smoothing constant; <= 0 uses DefaultAlpha.
	Alpha float64
}

// Chain is a trained classifier chain: an ordered list of label estimators
// sharing one vectorizer. Immutable after training; safe for concurrent
// Predict calls.
type Chain struct {
	Labels     []string     `json:"labels"`
	Alpha      float64      `json:"alpha"`
	Vectorizer *Vectorizer  `json:"vectorizer"`
	Models     []LabelModel `json:"models"`
}

// ChainStep records one label's evaluation during a prediction pass.
type ChainStep struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
	Predicted   bool    `json:"predicted"`
}

// ChainState is the transient outcome of evaluating the chain for one input.
type ChainState struct {
	Steps []ChainStep `json:"steps"`
}

// AllProbabilities returns every label's probability keyed by label name.
func (s *ChainState) AllProbabilities() map[string]float64 {
	probs := make(map[string]float64, len(s.Steps))
	for _, step := range s.Steps {
		probs[step.Label] = step.Probability
	}
	return probs
}

// Train fits one binary estimator per label in chain order. Each estimator
// trains on the TF-IDF features concatenated with the ground-truth binary
// indicators of all earlier labels. labelOrder fixes the chain order; nil
// derives a sorted order from the samples.
func Train(samples []Sample, labelOrder []string, n *normalize.Normalizer, cfg TrainConfig) (*Chain, error) {
	if len(samples) == 0 {
		return nil, ErrNoTrainingData
	}

	if labelOrder == nil {
		labelOrder = collectLabels(samples)
	}
	if len(labelOrder) == 0 {
		return nil, ErrNoTrainingData
	}

	alpha := cfg.Alpha
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	// normalize every sample once; train-time and predict-time token streams
	// must agree
	tokenDocs := make([][]string, len(samples))
	for i, s := range samples {
		tokenDocs[i] = n.Normalize(s.Text)
	}

	vectorizer := FitVectorizer(tokenDocs, cfg.MaxFeatures)
	vocabSize := vectorizer.Size()

	base := make([]map[int]float64, len(samples))
	truth := make([][]bool, len(samples))
	for i := range samples {
		base[i] = vectorizer.Transform(tokenDocs[i])
		truth[i] = labelVector(samples[i].Labels, labelOrder)
	}

	chain := &Chain{
		Labels:     labelOrder,
		Alpha:      alpha,
		Vectorizer: vectorizer,
		Models:     make([]LabelModel, 0, len(labelOrder)),
	}

	for pos, label := range labelOrder {
		numFeatures := vocabSize + pos

		features := make([]map[int]float64, len(samples))
		targets := make([]bool, len(samples))
		for i := range samples {
			features[i] = withChainFeatures(base[i], truth[i][:pos], vocabSize)
			targets[i] = truth[i][pos]
		}

		model := trainLabelModel(label, features, targets, numFeatures, alpha)
		chain.Models = append(chain.Models, model)
		slog.Debug("trained label estimator", "label", label, "position", pos, "features", numFeatures)
	}

	return chain, nil
}

// Predict normalizes the text once, then evaluates each label's estimator in
// chain order, feeding every model's predicted binary outcome forward as a
// feature to the models after it. Ground truth is unavailable at inference
// time, so the predicted outcomes stand in for it.
func (c *Chain) Predict(text string, n *normalize.Normalizer) *ChainState {
	tokens := n.Normalize(text)
	base := c.Vectorizer.Transform(tokens)
	vocabSize := c.Vectorizer.Size()

	state := &ChainState{Steps: make([]ChainStep, 0, len(c.Models))}
	predicted := make([]bool, 0, len(c.Models))

	for _, model := range c.Models {
		features := withChainFeatures(base, predicted, vocabSize)
		p := model.probability(features)
		outcome := p >= 0.5

		state.Steps = append(state.Steps, ChainStep{
			Label:       model.Label,
			Probability: p,
			Predicted:   outcome,
		})
		predicted = append(predicted, outcome)
	}

	return state
}

// Feature is one term with its aggregate contribution to the predicted
// labels' log-likelihood.
type Feature struct {
	Term  string  `json:"term"`
	Score float64 `json:"score"`
}

// TopFeatures ranks the input terms by their contribution toward the labels
// predicted in state: for each term present in the input, the weighted
// log-likelihood ratio between presence and absence, summed over the
// predicted labels' estimators. Returns at most topN features.
func (c *Chain) TopFeatures(text string, state *ChainState, topN int, n *normalize.Normalizer) []Feature {
	if topN <= 0 {
		topN = 10
	}

	base := c.Vectorizer.Transform(n.Normalize(text))
	if len(base) == 0 {
		return []Feature{}
	}

	contrib := make(map[int]float64)
	for pos, step := range state.Steps {
		if !step.Predicted {
			continue
		}
		model := c.Models[pos]
		for j, x := range base {
			contrib[j] += x * (model.FeatureLogLik[1][j] - model.FeatureLogLik[0][j])
		}
	}
	if len(contrib) == 0 {
		// nothing predicted: fall back to raw feature weight so the UI can
		// still show what the input was made of
		for j, x := range base {
			contrib[j] = x
		}
	}

	features := make([]Feature, 0, len(contrib))
	for j, score := range contrib {
		features = append(features, Feature{Term: c.Vectorizer.Term(j), Score: score})
	}
	sort.Slice(features, func(i, j int) bool {
		if features[i].Score != features[j].Score {
			return features[i].Score > features[j].Score
		}
		return features[i].Term < features[j].Term
	})

	if len(features) > topN {
		features = features[:topN]
	}
	return features
}

// Encode serializes the chain for persistence.
func (c *Chain) Encode() ([]byte, error) {
	return json.Marshal(c)
}

// Decode deserializes a chain and rebuilds its vocabulary lookup so the
// result is ready for concurrent prediction.
func Decode(data []byte) (*Chain, error) {
	var c Chain
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding classifier model: %w", err)
	}
	if c.Vectorizer == nil || len(c.Models) == 0 {
		return nil, fmt.Errorf("decoding classifier model: incomplete model")
	}
	// force eager rebuild of the term index
	c.Vectorizer.lookup("")
	return &c, nil
}

// withChainFeatures copies a base vector and appends the binary outcomes of
// earlier labels at indices past the vocabulary. Absent labels stay implicit
// zeros to keep the vector sparse.
func withChainFeatures(base map[int]float64, outcomes []bool, vocabSize int) map[int]float64 {
	features := make(map[int]float64, len(base)+len(outcomes))
	for j, x := range base {
		features[j] = x
	}
	for k, present := range outcomes {
		if present {
			features[vocabSize+k] = 1.0
		}
	}
	return features
}

// labelVector converts a sample's label set into chain-ordered binaries.
func labelVector(labels []string, order []string) []bool {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	vec := make([]bool, len(order))
	for i, l := range order {
		_, vec[i] = set[l]
	}
	return vec
}

// collectLabels returns the sorted set of labels present in the samples.
func collectLabels(samples []Sample) []string {
	set := make(map[string]struct{})
	for _, s := range samples {
		for _, l := range s.Labels {
			set[l] = struct{}{}
		}
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
