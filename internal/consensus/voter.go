// Package consensus combines per-strategy signals into one directional
// decision with a confidence score.
package consensus

import (
	"delta-trading-bot/internal/strategy"
)

// DefaultActivationThreshold is the minimum normalized winning score needed
// before a directional consensus activates.
const DefaultActivationThreshold = 0.5

// Result is the aggregated decision across all strategies. It is a
// deterministic function of the vote breakdown.
type Result struct {
	Direction  strategy.Direction
	Confidence float64 // max(upScore, downScore) normalized to [0,1]
	UpScore    float64 // normalized confidence-weighted UP score
	DownScore  float64 // normalized confidence-weighted DOWN score
	Breakdown  map[string]strategy.Signal
}

// Voter aggregates signals by confidence-weighted voting.
type Voter struct {
	activationThreshold float64
}

// NewVoter creates a voter. A threshold of 0 falls back to the default.
func NewVoter(activationThreshold float64) *Voter {
	if activationThreshold <= 0 {
		activationThreshold = DefaultActivationThreshold
	}
	return &Voter{activationThreshold: activationThreshold}
}

// Vote combines the signals. Each UP and DOWN vote is weighted by its
// confidence; scores are normalized by the number of voting strategies. The
// consensus is UP when the UP score beats the DOWN score and reaches the
// activation threshold, DOWN symmetrically, HOLD otherwise. A perfect tie of
// nonzero scores resolves to HOLD. Pure and deterministic given its inputs.
func (v *Voter) Vote(signals []strategy.Signal) Result {
	breakdown := make(map[string]strategy.Signal, len(signals))
	upScore := 0.0
	downScore := 0.0

	for _, sig := range signals {
		breakdown[sig.StrategyID] = sig
		switch sig.Direction {
		case strategy.DirectionUp:
			upScore += sig.Confidence
		case strategy.DirectionDown:
			downScore += sig.Confidence
		}
	}

	if n := len(signals); n > 0 {
		upScore /= float64(n)
		downScore /= float64(n)
	}

	direction := strategy.DirectionHold
	switch {
	case upScore > downScore && upScore >= v.activationThreshold:
		direction = strategy.DirectionUp
	case downScore > upScore && downScore >= v.activationThreshold:
		direction = strategy.DirectionDown
	}

	confidence := upScore
	if downScore > confidence {
		confidence = downScore
	}

	return Result{
		Direction:  direction,
		Confidence: confidence,
		UpScore:    upScore,
		DownScore:  downScore,
		Breakdown:  breakdown,
	}
}
