package strategy

import (
	"delta-trading-bot/internal/indicator"
)

// MeanReversionConfig tunes the volatility/mean-reversion strategy.
type MeanReversionConfig struct {
	RSIOverbought float64 // RSI above this plus price over upper band → DOWN
	RSIOversold   float64 // RSI below this plus price under lower band → UP
	MinVolatility float64 // normalized volatility floor; below it the strategy is off
	MaxVolatility float64 // normalized volatility ceiling; above it the strategy is off
	VolPeriod     int     // bars for the volatility window
}

// DefaultMeanReversionConfig mirrors the volatility trader's band of
// 1.5%–5% normalized volatility.
func DefaultMeanReversionConfig() MeanReversionConfig {
	return MeanReversionConfig{
		RSIOverbought: 70,
		RSIOversold:   30,
		MinVolatility: 0.015,
		MaxVolatility: 0.05,
		VolPeriod:     20,
	}
}

// MeanReversionStrategy fades Bollinger band breaks confirmed by RSI
// extremes. It is only active when normalized volatility lies inside the
// configured band; outside it the market is either too quiet or too wild to
// fade, and the strategy holds.
type MeanReversionStrategy struct {
	config MeanReversionConfig
}

// NewMeanReversionStrategy creates a mean-reversion strategy.
func NewMeanReversionStrategy(config MeanReversionConfig) *MeanReversionStrategy {
	if config.VolPeriod <= 0 {
		config = DefaultMeanReversionConfig()
	}
	return &MeanReversionStrategy{config: config}
}

func (s *MeanReversionStrategy) Name() string {
	return MeanReversionStrategyID
}

func (s *MeanReversionStrategy) Evaluate(snapshot *indicator.Snapshot, series *indicator.PriceSeries, _ AccountState) Signal {
	if snapshot == nil || series.Len() < s.config.VolPeriod+1 {
		return hold(MeanReversionStrategyID)
	}
	if snapshot.BollingerUpper == snapshot.BollingerLower {
		return hold(MeanReversionStrategyID)
	}

	vol := indicator.NormalizedVolatility(series.Prices(), s.config.VolPeriod)
	if vol < s.config.MinVolatility || vol > s.config.MaxVolatility {
		return hold(MeanReversionStrategyID)
	}

	price := snapshot.Price
	bandWidth := snapshot.BollingerUpper - snapshot.BollingerLower

	if price > snapshot.BollingerUpper && snapshot.RSI > s.config.RSIOverbought {
		penetration := (price - snapshot.BollingerUpper) / bandWidth
		return Signal{
			StrategyID: MeanReversionStrategyID,
			Direction:  DirectionDown,
			Confidence: clamp01(0.5 + penetration),
		}
	}
	if price < snapshot.BollingerLower && snapshot.RSI < s.config.RSIOversold {
		penetration := (snapshot.BollingerLower - price) / bandWidth
		return Signal{
			StrategyID: MeanReversionStrategyID,
			Direction:  DirectionUp,
			Confidence: clamp01(0.5 + penetration),
		}
	}

	return hold(MeanReversionStrategyID)
}
