package strategy

import (
	"delta-trading-bot/internal/indicator"
)

// TrendConfig tunes the trend predictor's scoring weights.
type TrendConfig struct {
	MomentumLookback int     // bars for the momentum term
	SMAWeight        float64 // weight of the price-vs-SMA term
	RSIWeight        float64 // weight of the RSI zone term (contrarian)
	MACDWeight       float64 // weight of the MACD sign term
	MomentumWeight   float64 // weight of the momentum term
}

// DefaultTrendConfig mirrors the tuned weights of the hybrid predictor.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		MomentumLookback: 10,
		SMAWeight:        0.25,
		RSIWeight:        -0.15,
		MACDWeight:       0.2,
		MomentumWeight:   0.2,
	}
}

// TrendStrategy maps RSI zone, MACD sign, price-vs-SMA ratio, and momentum
// into a directional score; confidence scales with the score's distance from
// neutral.
type TrendStrategy struct {
	config TrendConfig
}

// NewTrendStrategy creates a trend predictor with the given config.
func NewTrendStrategy(config TrendConfig) *TrendStrategy {
	return &TrendStrategy{config: config}
}

func (s *TrendStrategy) Name() string {
	return TrendStrategyID
}

// score computes the weighted directional score in roughly [-0.8, 0.8].
// Shared with the risk-adjusted variant.
func (s *TrendStrategy) score(snapshot *indicator.Snapshot, series *indicator.PriceSeries) (float64, bool) {
	if snapshot == nil || series.Len() < s.config.MomentumLookback+1 || snapshot.SMA == 0 {
		return 0, false
	}

	prices := series.Prices()
	price := prices[len(prices)-1]
	past := prices[len(prices)-1-s.config.MomentumLookback]
	if past == 0 {
		return 0, false
	}

	score := 0.0
	if price > snapshot.SMA {
		score += s.config.SMAWeight
	} else {
		score -= s.config.SMAWeight
	}
	if snapshot.RSI > 50 {
		score += s.config.RSIWeight
	} else {
		score -= s.config.RSIWeight
	}
	if snapshot.MACD > 0 {
		score += s.config.MACDWeight
	} else {
		score -= s.config.MACDWeight
	}
	if price > past {
		score += s.config.MomentumWeight
	} else {
		score -= s.config.MomentumWeight
	}

	return score, true
}

func (s *TrendStrategy) Evaluate(snapshot *indicator.Snapshot, series *indicator.PriceSeries, _ AccountState) Signal {
	score, ok := s.score(snapshot, series)
	if !ok {
		return hold(TrendStrategyID)
	}

	direction := DirectionUp
	if score < 0 {
		direction = DirectionDown
	} else if score == 0 {
		return hold(TrendStrategyID)
	}

	// Confidence scales with the score's distance from neutral; the maximum
	// attainable score is the sum of all weights.
	maxScore := s.config.SMAWeight + abs(s.config.RSIWeight) + s.config.MACDWeight + s.config.MomentumWeight
	return Signal{
		StrategyID: TrendStrategyID,
		Direction:  direction,
		Confidence: clamp01(abs(score) / maxScore),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
