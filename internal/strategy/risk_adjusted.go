package strategy

import (
	"delta-trading-bot/internal/indicator"
)

// RiskAdjustedStrategy applies the trend predictor's directional logic with a
// volatility penalty: the wider the ATR relative to price, the lower the
// confidence, modeling an uncertain market.
type RiskAdjustedStrategy struct {
	trend *TrendStrategy

	// maxNormalizedATR is the ATR/price ratio at which confidence is fully
	// discounted to zero.
	maxNormalizedATR float64
}

// NewRiskAdjustedStrategy creates a risk-adjusted predictor. A
// maxNormalizedATR of 0 falls back to 0.05 (5% of price).
func NewRiskAdjustedStrategy(config TrendConfig, maxNormalizedATR float64) *RiskAdjustedStrategy {
	if maxNormalizedATR <= 0 {
		maxNormalizedATR = 0.05
	}
	return &RiskAdjustedStrategy{
		trend:            NewTrendStrategy(config),
		maxNormalizedATR: maxNormalizedATR,
	}
}

func (s *RiskAdjustedStrategy) Name() string {
	return RiskAdjustedStrategyID
}

func (s *RiskAdjustedStrategy) Evaluate(snapshot *indicator.Snapshot, series *indicator.PriceSeries, account AccountState) Signal {
	base := s.trend.Evaluate(snapshot, series, account)
	if base.Direction == DirectionHold {
		return hold(RiskAdjustedStrategyID)
	}
	if snapshot.Price <= 0 {
		return hold(RiskAdjustedStrategyID)
	}

	normATR := snapshot.ATR / snapshot.Price
	penalty := clamp01(normATR / s.maxNormalizedATR)

	return Signal{
		StrategyID: RiskAdjustedStrategyID,
		Direction:  base.Direction,
		Confidence: clamp01(base.Confidence * (1 - penalty)),
	}
}
