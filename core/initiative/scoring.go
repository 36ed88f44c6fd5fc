package initiative

import "github.com/pkg/errors"

// Pillars: the fixed scoring dimensions. Weights sum to 1.0 so that a perfect
// score of 5 on every pillar totals 100%.
const (
	PillarStrategicImpact = "Strategic Impact"
	PillarFeasibility     = "Feasibility & Practicality"
	PillarInnovation      = "Innovation & Originality"
	PillarFinancialValue  = "Financial & Value"
	PillarPoCReadiness    = "Proof of Concept Readiness"
)

const (
	minScore = 1
	maxScore = 5

	// scoreScale converts a weighted score to a percentage: 5 * 1.0 * 20 = 100.
	scoreScale = 20
)

var ErrInvalidScore = errors.New("score must be between 1 and 5")

var pillarWeights = map[string]float64{
	PillarStrategicImpact: 0.25,
	PillarFeasibility:     0.20,
	PillarInnovation:      0.15,
	PillarFinancialValue:  0.20,
	PillarPoCReadiness:    0.20,
}

// Pillars returns the fixed pillar set in display order.
func Pillars() []string {
	return []string{
		PillarStrategicImpact,
		PillarFeasibility,
		PillarInnovation,
		PillarFinancialValue,
		PillarPoCReadiness,
	}
}

// Weight returns the fixed weight of a pillar.
// An unrecognized category resolves to 0 and thus contributes nothing.
func Weight(category string) float64 {
	return pillarWeights[category]
}

// ScorePercentage converts a (category, score) pair into its weighted
// percentage contribution.
func ScorePercentage(category string, score int) (float64, error) {
	if score < minScore || score > maxScore {
		return 0, ErrInvalidScore
	}
	return float64(score) * Weight(category) * scoreScale, nil
}
