// Package risk computes volatility-aware position sizes and enforces the
// account's protective limits.
package risk

import (
	"errors"
	"fmt"
	"math"

	"delta-trading-bot/internal/strategy"
)

var (
	// ErrInsufficientBalance is returned when the computed quantity falls
	// below the minimum tradeable size. Recoverable: the cycle skips its
	// trading action.
	ErrInsufficientBalance = errors.New("insufficient balance for minimum quantity")

	// ErrRiskRewardViolation is returned for stop/target pairs below the
	// minimum reward:risk ratio. A configuration error, fatal at startup.
	ErrRiskRewardViolation = errors.New("reward:risk ratio below minimum")
)

// ATR multiples for protective exits. 3.5/1.5 enforces a minimum 2.33:1
// reward:risk ratio by construction.
const (
	StopLossATRMultiple   = 1.5
	TakeProfitATRMultiple = 3.5
	MinRewardRiskRatio    = 2.3
)

// DefaultSafetyFactor shrinks every position for safer execution.
const DefaultSafetyFactor = 0.7

// SizerConfig holds the position sizer's parameters.
type SizerConfig struct {
	RiskPercentage float64 // percent of balance risked per trade, (0,100]
	MinQuantity    float64 // exchange minimum quantity increment
	SafetyFactor   float64 // position shrink factor, defaults to 0.7
	MaxPositionPct float64 // cap on one order's notional as a fraction of balance; 0 disables
}

// Validate rejects unusable sizer parameters.
func (c SizerConfig) Validate() error {
	if c.RiskPercentage <= 0 || c.RiskPercentage > 100 {
		return fmt.Errorf("risk percentage must be in (0,100], got %f", c.RiskPercentage)
	}
	if c.MinQuantity <= 0 {
		return fmt.Errorf("min quantity must be positive, got %f", c.MinQuantity)
	}
	return nil
}

// Sized is one level's computed order size and protective exits.
type Sized struct {
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
}

// Sizer computes per-level order quantities and stop/target prices from
// balance and volatility.
type Sizer struct {
	config SizerConfig
}

// NewSizer creates a position sizer; the config must already be validated.
func NewSizer(config SizerConfig) *Sizer {
	if config.SafetyFactor <= 0 {
		config.SafetyFactor = DefaultSafetyFactor
	}
	return &Sizer{config: config}
}

// Size computes the order quantity for one entry:
// balance × risk% / ATR × safety factor, clamped so the order's notional
// stays under MaxPositionPct of balance, then floored to the exchange's
// minimum quantity increment. A small ATR would otherwise size an
// arbitrarily large position. Stops sit 1.5 ATR away from entry and targets
// 3.5 ATR, on the side matching the trade direction. Fails with
// ErrInsufficientBalance when the computed quantity is below the minimum
// tradeable size.
func (s *Sizer) Size(balance, atr, entry float64, direction strategy.Direction) (Sized, error) {
	if atr <= 0 || balance <= 0 {
		return Sized{}, fmt.Errorf("%w: balance %.2f, atr %.4f", ErrInsufficientBalance, balance, atr)
	}

	quantity := balance * (s.config.RiskPercentage / 100) / atr * s.config.SafetyFactor
	if s.config.MaxPositionPct > 0 && entry > 0 {
		if maxQty := balance * s.config.MaxPositionPct / entry; quantity > maxQty {
			quantity = maxQty
		}
	}
	quantity = math.Floor(quantity/s.config.MinQuantity) * s.config.MinQuantity
	if quantity < s.config.MinQuantity {
		return Sized{}, fmt.Errorf("%w: computed %.8f below minimum %.8f",
			ErrInsufficientBalance, quantity, s.config.MinQuantity)
	}

	var stopLoss, takeProfit float64
	switch direction {
	case strategy.DirectionDown:
		stopLoss = entry + atr*StopLossATRMultiple
		takeProfit = entry - atr*TakeProfitATRMultiple
	default:
		stopLoss = entry - atr*StopLossATRMultiple
		takeProfit = entry + atr*TakeProfitATRMultiple
	}

	return Sized{Quantity: quantity, StopLoss: stopLoss, TakeProfit: takeProfit}, nil
}

// ValidateStops rejects an externally supplied stop/target pair whose
// reward:risk ratio falls below the 2.3:1 minimum.
func ValidateStops(entry, stopLoss, takeProfit float64) error {
	risk := math.Abs(entry - stopLoss)
	if risk == 0 {
		return fmt.Errorf("%w: zero stop distance", ErrRiskRewardViolation)
	}
	reward := math.Abs(takeProfit - entry)
	ratio := reward / risk
	if ratio < MinRewardRiskRatio {
		return fmt.Errorf("%w: got %.2f, need %.2f", ErrRiskRewardViolation, ratio, MinRewardRiskRatio)
	}
	return nil
}
