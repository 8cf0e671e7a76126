package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"delta-trading-bot/internal/indicator"
)

// choppy builds a series whose normalized volatility lands inside the
// strategy's active band.
func choppy(base, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64((i%3)-1)*amplitude
	}
	return out
}

func TestMeanReversionFadesOverboughtBreak(t *testing.T) {
	assertion := assert.New(t)

	series := seriesFrom(choppy(100, 2, 40))
	snap := &indicator.Snapshot{
		Price:          108,
		RSI:            80,
		BollingerUpper: 105,
		BollingerLower: 95,
	}

	s := NewMeanReversionStrategy(DefaultMeanReversionConfig())
	sig := s.Evaluate(snap, series, AccountState{})

	assertion.Equal(MeanReversionStrategyID, sig.StrategyID)
	assertion.Equal(DirectionDown, sig.Direction)
	// 0.5 base plus 3/10 band penetration
	assertion.InDelta(0.8, sig.Confidence, 1e-9)
}

func TestMeanReversionFadesOversoldBreak(t *testing.T) {
	assertion := assert.New(t)

	series := seriesFrom(choppy(100, 2, 40))
	snap := &indicator.Snapshot{
		Price:          92,
		RSI:            20,
		BollingerUpper: 105,
		BollingerLower: 95,
	}

	s := NewMeanReversionStrategy(DefaultMeanReversionConfig())
	sig := s.Evaluate(snap, series, AccountState{})

	assertion.Equal(DirectionUp, sig.Direction)
	assertion.InDelta(0.8, sig.Confidence, 1e-9)
}

func TestMeanReversionRequiresRSIConfirmation(t *testing.T) {
	assertion := assert.New(t)

	series := seriesFrom(choppy(100, 2, 40))
	snap := &indicator.Snapshot{
		Price:          108,
		RSI:            55, // band broken but RSI not extreme
		BollingerUpper: 105,
		BollingerLower: 95,
	}

	s := NewMeanReversionStrategy(DefaultMeanReversionConfig())
	sig := s.Evaluate(snap, series, AccountState{})

	assertion.Equal(DirectionHold, sig.Direction)
}

func TestMeanReversionInactiveOutsideVolatilityBand(t *testing.T) {
	assertion := assert.New(t)

	snap := &indicator.Snapshot{
		Price:          108,
		RSI:            80,
		BollingerUpper: 105,
		BollingerLower: 95,
	}
	s := NewMeanReversionStrategy(DefaultMeanReversionConfig())

	// Flat market: volatility below the floor.
	quiet := s.Evaluate(snap, seriesFrom(linear(100, 0, 40)), AccountState{})
	assertion.Equal(DirectionHold, quiet.Direction)

	// Violent market: volatility above the ceiling.
	wild := s.Evaluate(snap, seriesFrom(choppy(100, 15, 40)), AccountState{})
	assertion.Equal(DirectionHold, wild.Direction)
}
