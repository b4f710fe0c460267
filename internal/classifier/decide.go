package classifier

// Confidence tiers derived from the mean probability of the predicted
// labels.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// DefaultThreshold is the probability cutoff for including a label.
const DefaultThreshold = 0.30

// Decision is the outcome of thresholding a chain evaluation. An empty label
// set is a valid outcome: it means "uncertain", not an error.
type Decision struct {
	Labels     []string   `json:"labels"`
	Confidence Confidence `json:"confidence"`
}

// Decide converts chain probabilities into a label set. A label is included
// iff its probability >= threshold. Confidence comes from the mean
// probability of the included labels: high above 0.70, medium in
// [0.40, 0.70], low otherwise; an empty set is always low.
func Decide(state *ChainState, threshold float64) (Decision, error) {
	if threshold < 0 || threshold > 1 {
		return Decision{}, ErrInvalidThreshold
	}

	labels := make([]string, 0, len(state.Steps))
	var sum float64
	for _, step := range state.Steps {
		if step.Probability >= threshold {
			labels = append(labels, step.Label)
			sum += step.Probability
		}
	}

	if len(labels) == 0 {
		return Decision{Labels: []string{}, Confidence: ConfidenceLow}, nil
	}

	mean := sum / float64(len(labels))
	confidence := ConfidenceLow
	switch {
	case mean > 0.70:
		confidence = ConfidenceHigh
	case mean >= 0.40:
		confidence = ConfidenceMedium
	}

	return Decision{Labels: labels, Confidence: confidence}, nil
}
