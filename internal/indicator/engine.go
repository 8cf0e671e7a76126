package indicator

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientHistory is returned when the price series is shorter than
// the largest lookback any indicator needs.
var ErrInsufficientHistory = errors.New("insufficient price history")

// Default indicator periods.
const (
	RSIPeriod        = 14
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
	BollingerPeriod  = 20
	BollingerStdDev  = 2.0
	ATRPeriod        = 14
	SMAPeriod        = 20
)

// MinHistory is the shortest series the engine accepts: the slow MACD EMA
// plus enough MACD points for a real signal-line EMA.
const MinHistory = MACDSlowPeriod + MACDSignalPeriod

// Snapshot holds one cycle's indicator values. It is immutable once computed;
// values are kept at full precision and only rounded at presentation
// boundaries.
type Snapshot struct {
	RSI            float64
	MACD           float64
	MACDSignal     float64
	BollingerUpper float64
	BollingerLower float64
	SMA            float64
	ATR            float64
	Price          float64
}

// Engine computes indicator snapshots from a price series.
type Engine struct{}

// NewEngine creates an indicator engine with the default periods.
func NewEngine() *Engine {
	return &Engine{}
}

// Compute derives a Snapshot from the series. Fails with
// ErrInsufficientHistory when fewer than MinHistory points are available.
func (e *Engine) Compute(series *PriceSeries) (*Snapshot, error) {
	prices := series.Prices()
	if len(prices) < MinHistory {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientHistory, len(prices), MinHistory)
	}

	macd, signal := MACD(prices, MACDFastPeriod, MACDSlowPeriod, MACDSignalPeriod)
	upper, _, lower := BollingerBands(prices, BollingerPeriod, BollingerStdDev)

	return &Snapshot{
		RSI:            RSI(prices, RSIPeriod),
		MACD:           macd,
		MACDSignal:     signal,
		BollingerUpper: upper,
		BollingerLower: lower,
		SMA:            SMA(prices, SMAPeriod),
		ATR:            ATR(prices, ATRPeriod),
		Price:          prices[len(prices)-1],
	}, nil
}

// SMA calculates the simple moving average over the last period prices.
func SMA(prices []float64, period int) float64 {
	if len(prices) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period)
}

// EMA calculates the exponential moving average over the series, seeded with
// the SMA of the first period prices and smoothed with weight 2/(period+1).
func EMA(prices []float64, period int) float64 {
	if len(prices) < period || period <= 0 {
		return 0
	}
	ema := SMA(prices[:period], period)
	multiplier := 2.0 / float64(period+1)
	for _, p := range prices[period:] {
		ema = (p * multiplier) + (ema * (1 - multiplier))
	}
	return ema
}

// emaSeries returns the EMA value at every index from period-1 onward.
func emaSeries(prices []float64, period int) []float64 {
	if len(prices) < period || period <= 0 {
		return nil
	}
	out := make([]float64, 0, len(prices)-period+1)
	ema := SMA(prices[:period], period)
	out = append(out, ema)
	multiplier := 2.0 / float64(period+1)
	for _, p := range prices[period:] {
		ema = (p * multiplier) + (ema * (1 - multiplier))
		out = append(out, ema)
	}
	return out
}

// RSI calculates the Relative Strength Index with Wilder smoothing. The
// average gain/loss is seeded from the first period deltas and then smoothed
// recursively over the remainder of the series. When the average loss is
// zero, RSI is 100.
func RSI(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 50.0
	}

	avgGain := 0.0
	avgLoss := 0.0
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACD calculates the MACD line (fast EMA minus slow EMA) and its signal
// line, an EMA of the MACD history over signalPeriod.
func MACD(prices []float64, fastPeriod, slowPeriod, signalPeriod int) (macd, signal float64) {
	if len(prices) < slowPeriod+signalPeriod {
		return 0, 0
	}

	fast := emaSeries(prices, fastPeriod)
	slow := emaSeries(prices, slowPeriod)

	// Align the two EMA series on the slow one's start.
	offset := len(fast) - len(slow)
	macdLine := make([]float64, len(slow))
	for i := range slow {
		macdLine[i] = fast[i+offset] - slow[i]
	}

	signalLine := emaSeries(macdLine, signalPeriod)
	return macdLine[len(macdLine)-1], signalLine[len(signalLine)-1]
}

// BollingerBands calculates the upper band, SMA center, and lower band over
// the last period prices.
func BollingerBands(prices []float64, period int, stdDevMultiplier float64) (upper, middle, lower float64) {
	if len(prices) < period {
		return 0, 0, 0
	}

	middle = SMA(prices, period)
	variance := 0.0
	for _, p := range prices[len(prices)-period:] {
		diff := p - middle
		variance += diff * diff
	}
	stdDev := math.Sqrt(variance / float64(period))

	return middle + stdDev*stdDevMultiplier, middle, middle - stdDev*stdDevMultiplier
}

// ATR calculates the Average True Range over the last period deltas. With
// close-only data the true range degenerates to the absolute close-to-close
// change.
func ATR(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 0
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += math.Abs(prices[i] - prices[i-1])
	}
	return sum / float64(period)
}

// NormalizedVolatility is the standard deviation of the last period deltas
// divided by the mean price over the same window. Strategies use it to gate
// on market regime.
func NormalizedVolatility(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 0
	}
	window := prices[len(prices)-period:]
	deltas := make([]float64, period-1)
	mean := 0.0
	for i := 1; i < len(window); i++ {
		deltas[i-1] = window[i] - window[i-1]
	}
	for _, p := range window {
		mean += p
	}
	mean /= float64(len(window))
	if mean == 0 {
		return 0
	}

	dMean := 0.0
	for _, d := range deltas {
		dMean += d
	}
	dMean /= float64(len(deltas))
	variance := 0.0
	for _, d := range deltas {
		diff := d - dMean
		variance += diff * diff
	}
	return math.Sqrt(variance/float64(len(deltas))) / mean
}
