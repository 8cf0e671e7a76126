package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiTimeframeAgreementUp(t *testing.T) {
	assertion := assert.New(t)

	s := NewMultiTimeframeStrategy(DefaultMultiTimeframeConfig())
	sig := s.Evaluate(nil, seriesFrom(linear(100, 0.5, 200)), AccountState{})

	assertion.Equal(MultiTimeframeStrategyID, sig.StrategyID)
	assertion.Equal(DirectionUp, sig.Direction)
	assertion.InDelta(1.0, sig.Confidence, 1e-9, "every window agrees on a monotonic rise")
}

func TestMultiTimeframeAgreementDown(t *testing.T) {
	assertion := assert.New(t)

	s := NewMultiTimeframeStrategy(DefaultMultiTimeframeConfig())
	sig := s.Evaluate(nil, seriesFrom(linear(500, -0.5, 200)), AccountState{})

	assertion.Equal(DirectionDown, sig.Direction)
	assertion.InDelta(1.0, sig.Confidence, 1e-9)
}

func TestMultiTimeframeDisagreementHolds(t *testing.T) {
	assertion := assert.New(t)

	// Long decline with a recent sharp rally: the longest window still
	// points down while the shorter ones turn up, so unanimity never forms.
	prices := append(linear(300, -1, 180), linear(120, 8, 20)...)

	s := NewMultiTimeframeStrategy(MultiTimeframeConfig{
		Windows:      []int{20, 60, 180},
		MinAgreement: 1.0,
	})
	sig := s.Evaluate(nil, seriesFrom(prices), AccountState{})

	assertion.Equal(DirectionHold, sig.Direction)
}

func TestMultiTimeframeShortHistoryHolds(t *testing.T) {
	assertion := assert.New(t)

	s := NewMultiTimeframeStrategy(DefaultMultiTimeframeConfig())
	sig := s.Evaluate(nil, seriesFrom(linear(100, 1, 50)), AccountState{})

	assertion.Equal(DirectionHold, sig.Direction)
	assertion.Zero(sig.Confidence)
}
