package strategy

import (
	"delta-trading-bot/internal/indicator"
)

// Strategy IDs reported in Signal.StrategyID and vote breakdowns.
const (
	TrendStrategyID          = "trend"
	RiskAdjustedStrategyID   = "risk_adjusted"
	MultiTimeframeStrategyID = "multi_timeframe"
	MeanReversionStrategyID  = "mean_reversion"
	QLearningStrategyID      = "q_learning"
)

// Direction is the directional component of a signal.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
	DirectionHold Direction = "HOLD"
)

// Signal is one strategy's directional opinion for a cycle.
type Signal struct {
	StrategyID string
	Direction  Direction
	Confidence float64 // in [0,1]
}

// AccountState is the read-only account context passed into Evaluate.
type AccountState struct {
	Balance   float64
	RecentPnL float64 // realized P&L of the most recent closed decision
}

// Strategy is the common contract for all signal generators. Evaluate must be
// a pure function of its inputs plus the strategy's own private state; it
// must not mutate the snapshot or the series. A strategy that cannot
// evaluate returns HOLD with confidence 0 rather than an error.
type Strategy interface {
	Name() string
	Evaluate(snapshot *indicator.Snapshot, series *indicator.PriceSeries, account AccountState) Signal
}

// hold builds the conservative fallback signal for a strategy.
func hold(strategyID string) Signal {
	return Signal{StrategyID: strategyID, Direction: DirectionHold, Confidence: 0}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
