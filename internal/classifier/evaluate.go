package classifier

import (
	"math/rand"

	"github.com/scholarseek/scholarseek/internal/normalize"
)

// LabelMetrics summarizes per-label performance on a held-out set.
type LabelMetrics struct {
	Label     string  `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// SplitSamples deterministically shuffles the samples with the given seed
// and splits off testFraction of them for evaluation.
func SplitSamples(samples []Sample, testFraction float64, seed int64) (train, test []Sample) {
	if testFraction <= 0 || testFraction >= 1 || len(samples) < 2 {
		return samples, nil
	}

	shuffled := make([]Sample, len(samples))
	copy(shuffled, samples)
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	cut := int(float64(len(shuffled)) * testFraction)
	if cut < 1 {
		cut = 1
	}
	return shuffled[cut:], shuffled[:cut]
}

// Evaluate runs the chain over a held-out sample set and reports per-label
// precision, recall and F1 at the given threshold.
func Evaluate(c *Chain, samples []Sample, threshold float64, n *normalize.Normalizer) ([]LabelMetrics, error) {
	if threshold < 0 || threshold > 1 {
		return nil, ErrInvalidThreshold
	}

	type tally struct{ tp, fp, fn int }
	tallies := make(map[string]*tally, len(c.Labels))
	for _, label := range c.Labels {
		tallies[label] = &tally{}
	}

	for _, s := range samples {
		state := c.Predict(s.Text, n)
		decision, err := Decide(state, threshold)
		if err != nil {
			return nil, err
		}

		predicted := make(map[string]struct{}, len(decision.Labels))
		for _, l := range decision.Labels {
			predicted[l] = struct{}{}
		}
		actual := make(map[string]struct{}, len(s.Labels))
		for _, l := range s.Labels {
			actual[l] = struct{}{}
		}

		for _, label := range c.Labels {
			_, p := predicted[label]
			_, a := actual[label]
			switch {
			case p && a:
				tallies[label].tp++
			case p && !a:
				tallies[label].fp++
			case !p && a:
				tallies[label].fn++
			}
		}
	}

	metrics := make([]LabelMetrics, 0, len(c.Labels))
	for _, label := range c.Labels {
		t := tallies[label]
		m := LabelMetrics{Label: label, Support: t.tp + t.fn}
		if t.tp+t.fp > 0 {
			m.Precision = float64(t.tp) / float64(t.tp+t.fp)
		}
		if t.tp+t.fn > 0 {
			m.Recall = float64(t.tp) / float64(t.tp+t.fn)
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}
