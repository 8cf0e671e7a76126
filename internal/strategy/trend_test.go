package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"delta-trading-bot/internal/indicator"
)

func seriesFrom(prices []float64) *indicator.PriceSeries {
	s := indicator.NewPriceSeries("BTCUSD", 0)
	ts := time.Now()
	for i, p := range prices {
		s.Append(p, ts.Add(time.Duration(i)*time.Second))
	}
	return s
}

func linear(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestTrendStrategyBullish(t *testing.T) {
	assertion := assert.New(t)

	s := NewTrendStrategy(DefaultTrendConfig())
	series := seriesFrom(linear(100, 1, 40))
	snap := &indicator.Snapshot{Price: 139, SMA: 130, RSI: 80, MACD: 1.5}

	sig := s.Evaluate(snap, series, AccountState{})

	assertion.Equal(TrendStrategyID, sig.StrategyID)
	assertion.Equal(DirectionUp, sig.Direction)
	// score = .25 - .15 + .2 + .2 = 0.5 of a 0.8 maximum
	assertion.InDelta(0.625, sig.Confidence, 1e-9)
}

func TestTrendStrategyBearish(t *testing.T) {
	assertion := assert.New(t)

	s := NewTrendStrategy(DefaultTrendConfig())
	series := seriesFrom(linear(200, -1, 40))
	snap := &indicator.Snapshot{Price: 161, SMA: 170, RSI: 20, MACD: -1.5}

	sig := s.Evaluate(snap, series, AccountState{})

	assertion.Equal(DirectionDown, sig.Direction)
	assertion.InDelta(0.625, sig.Confidence, 1e-9)
}

func TestTrendStrategyInsufficientHistoryHolds(t *testing.T) {
	assertion := assert.New(t)

	s := NewTrendStrategy(DefaultTrendConfig())
	series := seriesFrom(linear(100, 1, 5))
	snap := &indicator.Snapshot{Price: 104, SMA: 102, RSI: 60, MACD: 1}

	sig := s.Evaluate(snap, series, AccountState{})

	assertion.Equal(DirectionHold, sig.Direction)
	assertion.Zero(sig.Confidence)
}

func TestRiskAdjustedDiscountsByVolatility(t *testing.T) {
	assertion := assert.New(t)

	series := seriesFrom(linear(100, 1, 40))
	snap := &indicator.Snapshot{Price: 139, SMA: 130, RSI: 80, MACD: 1.5, ATR: 0}

	base := NewTrendStrategy(DefaultTrendConfig()).Evaluate(snap, series, AccountState{})
	calm := NewRiskAdjustedStrategy(DefaultTrendConfig(), 0).Evaluate(snap, series, AccountState{})

	assertion.Equal(RiskAdjustedStrategyID, calm.StrategyID)
	assertion.Equal(base.Direction, calm.Direction)
	assertion.InDelta(base.Confidence, calm.Confidence, 1e-9, "zero ATR takes no discount")

	// ATR at half the 5% ceiling halves the confidence.
	snap.ATR = 139 * 0.025
	halved := NewRiskAdjustedStrategy(DefaultTrendConfig(), 0).Evaluate(snap, series, AccountState{})
	assertion.InDelta(base.Confidence*0.5, halved.Confidence, 1e-6)

	// ATR at or above the ceiling zeroes it.
	snap.ATR = 139 * 0.08
	wild := NewRiskAdjustedStrategy(DefaultTrendConfig(), 0).Evaluate(snap, series, AccountState{})
	assertion.Zero(wild.Confidence)
}

func TestRiskAdjustedHoldsWhenTrendHolds(t *testing.T) {
	assertion := assert.New(t)

	s := NewRiskAdjustedStrategy(DefaultTrendConfig(), 0)
	sig := s.Evaluate(&indicator.Snapshot{}, seriesFrom(linear(100, 1, 3)), AccountState{})

	assertion.Equal(DirectionHold, sig.Direction)
}
