package strategy

import (
	"delta-trading-bot/internal/indicator"
)

// MultiTimeframeConfig tunes the confluence strategy's windows.
type MultiTimeframeConfig struct {
	Windows      []int   // window lengths in bars, short to long
	MinAgreement float64 // fraction of windows that must agree, (0,1]
}

// DefaultMultiTimeframeConfig uses short/medium/long windows over the same
// series with majority agreement.
func DefaultMultiTimeframeConfig() MultiTimeframeConfig {
	return MultiTimeframeConfig{
		Windows:      []int{20, 60, 180},
		MinAgreement: 2.0 / 3.0,
	}
}

// MultiTimeframeStrategy independently evaluates aggregated windows of one
// price series and reports a direction only if a minimum fraction of windows
// agree. Confidence is the fraction agreeing.
type MultiTimeframeStrategy struct {
	config MultiTimeframeConfig
}

// NewMultiTimeframeStrategy creates a confluence strategy with the given
// windows.
func NewMultiTimeframeStrategy(config MultiTimeframeConfig) *MultiTimeframeStrategy {
	if len(config.Windows) == 0 {
		config = DefaultMultiTimeframeConfig()
	}
	if config.MinAgreement <= 0 || config.MinAgreement > 1 {
		config.MinAgreement = 2.0 / 3.0
	}
	return &MultiTimeframeStrategy{config: config}
}

func (s *MultiTimeframeStrategy) Name() string {
	return MultiTimeframeStrategyID
}

// windowTrend compares the mean of a window's recent half against its earlier
// half: +1 for rising, -1 for falling, 0 for flat.
func windowTrend(prices []float64) int {
	half := len(prices) / 2
	if half == 0 {
		return 0
	}
	earlier := mean(prices[:half])
	recent := mean(prices[half:])
	switch {
	case recent > earlier:
		return 1
	case recent < earlier:
		return -1
	default:
		return 0
	}
}

func mean(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

func (s *MultiTimeframeStrategy) Evaluate(_ *indicator.Snapshot, series *indicator.PriceSeries, _ AccountState) Signal {
	longest := s.config.Windows[len(s.config.Windows)-1]
	if series.Len() < longest {
		return hold(MultiTimeframeStrategyID)
	}

	up, down := 0, 0
	for _, w := range s.config.Windows {
		switch windowTrend(series.Window(w)) {
		case 1:
			up++
		case -1:
			down++
		}
	}

	total := float64(len(s.config.Windows))
	upFrac := float64(up) / total
	downFrac := float64(down) / total

	switch {
	case upFrac >= s.config.MinAgreement && upFrac > downFrac:
		return Signal{StrategyID: MultiTimeframeStrategyID, Direction: DirectionUp, Confidence: upFrac}
	case downFrac >= s.config.MinAgreement && downFrac > upFrac:
		return Signal{StrategyID: MultiTimeframeStrategyID, Direction: DirectionDown, Confidence: downFrac}
	default:
		return hold(MultiTimeframeStrategyID)
	}
}
