package scoring

import "github.com/moodlog/internal/model"

const axisSpan = float64(model.MaxAxisValue - model.MinAxisValue)

// NormalizeSlotValue maps a 1..5 answer onto 0..100. Inverted axes (stress)
// map low answers to high scores.
func NormalizeSlotValue(value int, inverted bool) float64 {
	if inverted {
		return float64(model.MaxAxisValue-value) / axisSpan * 100
	}
	return float64(value-model.MinAxisValue) / axisSpan * 100
}

// NormalizeWeights rescales the weights so they sum to 1. A set summing to
// exactly zero falls back to the defaults.
func NormalizeWeights(w model.ScoringWeights) model.ScoringWeights {
	total := w.MoodWeight + w.EnergyWeight + w.StressWeight
	if total == 0 {
		return model.DefaultScoringWeights()
	}
	return model.ScoringWeights{
		MoodWeight:   w.MoodWeight / total,
		EnergyWeight: w.EnergyWeight / total,
		StressWeight: w.StressWeight / total,
	}
}

// ComputeSlotScore combines one record's axes into a 0..100 score. weights
// must already be normalized.
func ComputeSlotScore(mood, stress, energy int, weights model.ScoringWeights) float64 {
	return NormalizeSlotValue(mood, false)*weights.MoodWeight +
		NormalizeSlotValue(energy, false)*weights.EnergyWeight +
		NormalizeSlotValue(stress, true)*weights.StressWeight
}
