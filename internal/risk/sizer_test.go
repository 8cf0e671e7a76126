package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"delta-trading-bot/internal/strategy"
)

func TestSizeWorkedExample(t *testing.T) {
	assertion := assert.New(t)

	sizer := NewSizer(SizerConfig{RiskPercentage: 1.0, MinQuantity: 0.01})

	// 1500 × 1% / 25 × 0.7 = 0.42, already on the 0.01 lot grid.
	sized, err := sizer.Size(1500, 25, 2000, strategy.DirectionUp)

	assertion.NoError(err)
	assertion.InDelta(0.42, sized.Quantity, 1e-9)
	assertion.InDelta(2000-37.5, sized.StopLoss, 1e-9)
	assertion.InDelta(2000+87.5, sized.TakeProfit, 1e-9)
}

func TestSizeFloorsToMinQuantity(t *testing.T) {
	assertion := assert.New(t)

	sizer := NewSizer(SizerConfig{RiskPercentage: 1.0, MinQuantity: 0.1})
	sized, err := sizer.Size(1500, 25, 2000, strategy.DirectionUp)

	assertion.NoError(err)
	assertion.InDelta(0.4, sized.Quantity, 1e-9, "0.42 floors to the 0.1 lot grid")
}

func TestSizeDownDirectionFlipsExits(t *testing.T) {
	assertion := assert.New(t)

	sizer := NewSizer(SizerConfig{RiskPercentage: 1.0, MinQuantity: 0.01})
	sized, err := sizer.Size(1500, 25, 2000, strategy.DirectionDown)

	assertion.NoError(err)
	assertion.InDelta(2000+37.5, sized.StopLoss, 1e-9)
	assertion.InDelta(2000-87.5, sized.TakeProfit, 1e-9)
}

func TestSizeCapsNotionalAtPositionLimit(t *testing.T) {
	assertion := assert.New(t)

	sizer := NewSizer(SizerConfig{RiskPercentage: 1.0, MinQuantity: 0.01, MaxPositionPct: 0.05})

	// A tiny ATR would size 10000 × 1% / 1 × 0.7 = 70 units; the 5% cap
	// allows at most 500 notional, 0.25 units at entry 2000.
	sized, err := sizer.Size(10000, 1, 2000, strategy.DirectionUp)

	assertion.NoError(err)
	assertion.InDelta(0.25, sized.Quantity, 1e-9)
	assertion.LessOrEqual(sized.Quantity*2000, 10000*0.05+1e-9)
}

func TestSizeCapBelowMinQuantityFails(t *testing.T) {
	assertion := assert.New(t)

	sizer := NewSizer(SizerConfig{RiskPercentage: 1.0, MinQuantity: 0.01, MaxPositionPct: 0.05})

	// 5% of 100 is 5 notional, 0.0025 units at entry 2000, under the lot minimum.
	_, err := sizer.Size(100, 0.001, 2000, strategy.DirectionUp)

	assertion.ErrorIs(err, ErrInsufficientBalance)
}

func TestSizeInsufficientBalance(t *testing.T) {
	assertion := assert.New(t)

	sizer := NewSizer(SizerConfig{RiskPercentage: 1.0, MinQuantity: 1.0})
	_, err := sizer.Size(100, 50, 2000, strategy.DirectionUp)

	assertion.ErrorIs(err, ErrInsufficientBalance)
}

func TestSizeRejectsDegenerateInputs(t *testing.T) {
	assertion := assert.New(t)

	sizer := NewSizer(SizerConfig{RiskPercentage: 1.0, MinQuantity: 0.01})

	_, err := sizer.Size(1500, 0, 2000, strategy.DirectionUp)
	assertion.ErrorIs(err, ErrInsufficientBalance, "zero ATR cannot size a position")

	_, err = sizer.Size(0, 25, 2000, strategy.DirectionUp)
	assertion.ErrorIs(err, ErrInsufficientBalance)
}

func TestSizerConfigValidate(t *testing.T) {
	assertion := assert.New(t)

	assertion.NoError(SizerConfig{RiskPercentage: 1, MinQuantity: 0.01}.Validate())
	assertion.Error(SizerConfig{RiskPercentage: 0, MinQuantity: 0.01}.Validate())
	assertion.Error(SizerConfig{RiskPercentage: 150, MinQuantity: 0.01}.Validate())
	assertion.Error(SizerConfig{RiskPercentage: 1, MinQuantity: 0}.Validate())
}

func TestValidateStops(t *testing.T) {
	assertion := assert.New(t)

	// The 1.5/3.5 ATR construction yields 2.33:1, above the 2.3 minimum.
	assertion.NoError(ValidateStops(2000, 2000-37.5, 2000+87.5))

	assertion.ErrorIs(ValidateStops(2000, 1990, 2010), ErrRiskRewardViolation)
	assertion.ErrorIs(ValidateStops(2000, 2000, 2100), ErrRiskRewardViolation)
}
