package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func seriesFrom(prices []float64) *PriceSeries {
	s := NewPriceSeries("BTCUSD", 0)
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

func TestSMA(t *testing.T) {
	assertion := assert.New(t)

	assertion.Equal(3.0, SMA([]float64{1, 2, 3, 4, 5}, 5))
	assertion.Equal(4.0, SMA([]float64{1, 2, 3, 4, 5}, 3))
	assertion.Equal(0.0, SMA([]float64{1, 2}, 5), "short series yields zero")
}

func TestEMAFollowsTrend(t *testing.T) {
	assertion := assert.New(t)

	prices := linear(100, 1, 50)
	ema := EMA(prices, 10)

	// EMA lags a rising series but stays within its range.
	assertion.Greater(ema, prices[0])
	assertion.Less(ema, prices[len(prices)-1])
	assertion.Greater(ema, SMA(prices, 30), "EMA weights recent prices more than a long SMA")
}

func TestRSIAllGainsIsHundred(t *testing.T) {
	assertion := assert.New(t)

	rsi := RSI(linear(100, 1, 30), RSIPeriod)
	assertion.Equal(100.0, rsi)
}

func TestRSIAllLossesNearZero(t *testing.T) {
	assertion := assert.New(t)

	rsi := RSI(linear(200, -1, 30), RSIPeriod)
	assertion.InDelta(0.0, rsi, 1e-9)
}

func TestRSIBounded(t *testing.T) {
	assertion := assert.New(t)

	prices := []float64{100, 102, 101, 103, 99, 104, 98, 105, 101, 100,
		102, 103, 101, 99, 100, 104, 102, 101, 103, 100}
	rsi := RSI(prices, RSIPeriod)

	assertion.GreaterOrEqual(rsi, 0.0)
	assertion.LessOrEqual(rsi, 100.0)
}

func TestRSIShortSeriesIsNeutral(t *testing.T) {
	assertion := assert.New(t)
	assertion.Equal(50.0, RSI([]float64{1, 2, 3}, RSIPeriod))
}

func TestATRAlternatingDeltas(t *testing.T) {
	assertion := assert.New(t)

	// Alternating ±1 moves: every |delta| is 1, so ATR is exactly 1.
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i%2)
	}
	assertion.InDelta(1.0, ATR(prices, ATRPeriod), 1e-9)
}

func TestBollingerBandsFlatSeries(t *testing.T) {
	assertion := assert.New(t)

	upper, middle, lower := BollingerBands(linear(100, 0, 25), BollingerPeriod, BollingerStdDev)
	assertion.Equal(100.0, middle)
	assertion.Equal(upper, lower, "zero variance collapses the bands")
}

func TestBollingerBandsOrdering(t *testing.T) {
	assertion := assert.New(t)

	prices := []float64{100, 105, 95, 110, 90, 108, 92, 104, 96, 102,
		98, 106, 94, 103, 97, 101, 99, 107, 93, 100}
	upper, middle, lower := BollingerBands(prices, BollingerPeriod, BollingerStdDev)

	assertion.Greater(upper, middle)
	assertion.Greater(middle, lower)
}

func TestMACDRisingTrendPositive(t *testing.T) {
	assertion := assert.New(t)

	macd, signal := MACD(linear(100, 1, 60), MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	assertion.Greater(macd, 0.0)
	assertion.Greater(signal, 0.0)
}

func TestMACDShortSeriesZero(t *testing.T) {
	assertion := assert.New(t)

	macd, signal := MACD(linear(100, 1, 20), MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	assertion.Zero(macd)
	assertion.Zero(signal)
}

func TestComputeInsufficientHistory(t *testing.T) {
	assertion := assert.New(t)

	engine := NewEngine()
	_, err := engine.Compute(seriesFrom(linear(100, 1, MinHistory-1)))

	assertion.ErrorIs(err, ErrInsufficientHistory)
}

func TestComputeAtMinHistory(t *testing.T) {
	assertion := assert.New(t)

	engine := NewEngine()
	snap, err := engine.Compute(seriesFrom(linear(100, 1, MinHistory)))

	assertion.NoError(err)
	assertion.Equal(100.0+float64(MinHistory-1), snap.Price)
	assertion.Equal(100.0, snap.RSI, "monotonic rise pegs RSI")
	assertion.Greater(snap.MACD, 0.0)
	assertion.Greater(snap.BollingerUpper, snap.BollingerLower)
	assertion.InDelta(1.0, snap.ATR, 1e-9)
}

func TestNormalizedVolatility(t *testing.T) {
	assertion := assert.New(t)

	assertion.Zero(NormalizedVolatility(linear(100, 0, 30), 20), "flat series has no volatility")
	assertion.Zero(NormalizedVolatility(linear(100, 1, 30), 20), "constant deltas have zero stddev")

	noisy := make([]float64, 30)
	for i := range noisy {
		noisy[i] = 100 + float64((i%3)-1)*5
	}
	assertion.Greater(NormalizedVolatility(noisy, 20), 0.0)
}
