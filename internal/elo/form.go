package elo

// NeutralForm is the midpoint of the per-match performance scale.
const NeutralForm = 1.5

// FormLength is the number of recent results kept per team.
const FormLength = 5

// FormWeights are applied positionally, most recent result first.
var FormWeights = [FormLength]float64{1.5, 1.3, 1.1, 0.9, 0.7}

// DefaultForm returns the history assumed for a team with no record.
func DefaultForm() []float64 {
	form := make([]float64, FormLength)
	for i := range form {
		form[i] = NeutralForm
	}
	return form
}

// WeightedForm collapses a form history into one recency-weighted score.
// Values and weights are paired from the front; entries beyond FormLength
// are ignored and a short history uses only the weights it reaches.
// An empty history scores as neutral.
//
// The mean is accumulated as deviations from the first entry so a constant
// history returns that constant exactly.
func WeightedForm(history []float64) float64 {
	if len(history) == 0 {
		return NeutralForm
	}
	anchor := history[0]
	var dev, weights float64
	for i, v := range history {
		if i >= FormLength {
			break
		}
		dev += (v - anchor) * FormWeights[i]
		weights += FormWeights[i]
	}
	return anchor + dev/weights
}
