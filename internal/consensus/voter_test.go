package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"delta-trading-bot/internal/strategy"
)

func TestVoteUnanimousUp(t *testing.T) {
	assertion := assert.New(t)

	voter := NewVoter(0)
	result := voter.Vote([]strategy.Signal{
		{StrategyID: "trend", Direction: strategy.DirectionUp, Confidence: 0.8},
		{StrategyID: "risk_adjusted", Direction: strategy.DirectionUp, Confidence: 0.6},
		{StrategyID: "multi_timeframe", Direction: strategy.DirectionUp, Confidence: 1.0},
	})

	assertion.Equal(strategy.DirectionUp, result.Direction)
	assertion.InDelta(0.8, result.UpScore, 1e-9)
	assertion.Zero(result.DownScore)
	assertion.InDelta(0.8, result.Confidence, 1e-9)
}

func TestVoteBelowThresholdHolds(t *testing.T) {
	assertion := assert.New(t)

	voter := NewVoter(0)
	result := voter.Vote([]strategy.Signal{
		{StrategyID: "trend", Direction: strategy.DirectionUp, Confidence: 0.6},
		{StrategyID: "risk_adjusted", Direction: strategy.DirectionHold, Confidence: 0},
		{StrategyID: "multi_timeframe", Direction: strategy.DirectionHold, Confidence: 0},
		{StrategyID: "mean_reversion", Direction: strategy.DirectionHold, Confidence: 0},
		{StrategyID: "q_learning", Direction: strategy.DirectionHold, Confidence: 0},
	})

	// A single confident voter is diluted by four abstentions.
	assertion.Equal(strategy.DirectionHold, result.Direction)
	assertion.InDelta(0.12, result.UpScore, 1e-9)
}

func TestVoteTieHolds(t *testing.T) {
	assertion := assert.New(t)

	voter := NewVoter(0.1)
	result := voter.Vote([]strategy.Signal{
		{StrategyID: "trend", Direction: strategy.DirectionUp, Confidence: 0.9},
		{StrategyID: "mean_reversion", Direction: strategy.DirectionDown, Confidence: 0.9},
	})

	assertion.Equal(strategy.DirectionHold, result.Direction, "a perfect tie must not pick a side")
	assertion.Equal(result.UpScore, result.DownScore)
}

func TestVoteDownWins(t *testing.T) {
	assertion := assert.New(t)

	voter := NewVoter(0.5)
	result := voter.Vote([]strategy.Signal{
		{StrategyID: "trend", Direction: strategy.DirectionDown, Confidence: 0.9},
		{StrategyID: "risk_adjusted", Direction: strategy.DirectionDown, Confidence: 0.8},
		{StrategyID: "mean_reversion", Direction: strategy.DirectionUp, Confidence: 0.3},
	})

	assertion.Equal(strategy.DirectionDown, result.Direction)
	assertion.InDelta(result.DownScore, result.Confidence, 1e-9)
}

func TestVoteDeterministic(t *testing.T) {
	assertion := assert.New(t)

	signals := []strategy.Signal{
		{StrategyID: "trend", Direction: strategy.DirectionUp, Confidence: 0.7},
		{StrategyID: "q_learning", Direction: strategy.DirectionDown, Confidence: 0.2},
	}

	voter := NewVoter(0.3)
	first := voter.Vote(signals)
	for i := 0; i < 10; i++ {
		assertion.Equal(first, voter.Vote(signals), "identical inputs must produce identical results")
	}
}

func TestVoteEmptySignals(t *testing.T) {
	assertion := assert.New(t)

	result := NewVoter(0).Vote(nil)

	assertion.Equal(strategy.DirectionHold, result.Direction)
	assertion.Zero(result.Confidence)
}
