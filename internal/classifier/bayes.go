package classifier

import "math"

// LabelModel is one binary multinomial Naive Bayes estimator in the chain.
// Feature space: the TF-IDF vocabulary followed by one chain feature per
// earlier label. Immutable after training.
type LabelModel struct {
	Label string `json:"label"`

	// LogPrior holds the log class priors for classes 0 (absent) and 1
	// (present).
	LogPrior [2]float64 `json:"log_prior"`

	// FeatureLogLik holds the Laplace-smoothed log likelihood of each
	// feature under each class.
	FeatureLogLik [2][]float64 `json:"feature_log_lik"`
}

// trainLabelModel fits a binary multinomial NB estimator. features holds one
// sparse vector per sample over numFeatures dimensions; targets marks the
// samples where the label is present. alpha is the Laplace smoothing
// constant.
func trainLabelModel(label string, features []map[int]float64, targets []bool, numFeatures int, alpha float64) LabelModel {
	m := LabelModel{Label: label}
	for c := 0; c < 2; c++ {
		m.FeatureLogLik[c] = make([]float64, numFeatures)
	}

	featureSums := [2][]float64{
		make([]float64, numFeatures),
		make([]float64, numFeatures),
	}
	classTotals := [2]float64{}
	classCounts := [2]float64{}

	for s, vec := range features {
		c := 0
		if targets[s] {
			c = 1
		}
		classCounts[c]++
		for j, x := range vec {
			featureSums[c][j] += x
			classTotals[c] += x
		}
	}

	n := classCounts[0] + classCounts[1]
	for c := 0; c < 2; c++ {
		// priors are smoothed so a label absent from the training set stays
		// finite instead of collapsing to -Inf
		m.LogPrior[c] = math.Log((classCounts[c] + alpha) / (n + 2*alpha))

		denom := classTotals[c] + alpha*float64(numFeatures)
		for j := 0; j < numFeatures; j++ {
			m.FeatureLogLik[c][j] = math.Log((featureSums[c][j] + alpha) / denom)
		}
	}

	return m
}

// probability returns P(label=1 | features) via the NB log-likelihood sum
// plus log-prior, normalized with log-sum-exp over the two class scores.
func (m LabelModel) probability(features map[int]float64) float64 {
	scores := [2]float64{m.LogPrior[0], m.LogPrior[1]}
	for j, x := range features {
		if j >= len(m.FeatureLogLik[0]) {
			continue
		}
		scores[0] += x * m.FeatureLogLik[0][j]
		scores[1] += x * m.FeatureLogLik[1][j]
	}
	return math.Exp(scores[1] - logSumExp(scores[0], scores[1]))
}

// logSumExp computes log(exp(a) + exp(b)) without overflow.
func logSumExp(a, b float64) float64 {
	max := a
	if b > max {
		max = b
	}
	return max + math.Log(math.Exp(a-max)+math.Exp(b-max))
}
