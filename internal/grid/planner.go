// Package grid plans the ladder of buy/sell price levels around the current
// market price.
package grid

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"delta-trading-bot/internal/consensus"
	"delta-trading-bot/internal/strategy"
)

// ErrInvalidGridParameters is returned for non-positive level counts or
// widths outside (0,1). Configuration errors are fatal at startup, not
// per-cycle.
var ErrInvalidGridParameters = errors.New("invalid grid parameters")

// Side is the order side of a grid level.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Level is one rung of the grid. On the aggressive side StopLoss and
// TakeProfit carry the exit prices for the entry; on a mirrored take-profit
// side they are zero.
type Level struct {
	Index      int
	Side       Side
	Price      float64
	Quantity   float64
	StopLoss   float64
	TakeProfit float64
}

// Grid is the desired order ladder for one symbol in one cycle generation.
// At most one grid is active per symbol; a newly planned grid supersedes the
// prior one.
type Grid struct {
	Symbol     string
	Generation string
	Bias       strategy.Direction
	CreatedAt  time.Time
	Levels     []Level
}

// BuyLevels returns the BUY-side levels in index order.
func (g *Grid) BuyLevels() []Level {
	return g.side(SideBuy)
}

// SellLevels returns the SELL-side levels in index order.
func (g *Grid) SellLevels() []Level {
	return g.side(SideSell)
}

func (g *Grid) side(side Side) []Level {
	out := make([]Level, 0, len(g.Levels))
	for _, lvl := range g.Levels {
		if lvl.Side == side {
			out = append(out, lvl)
		}
	}
	return out
}

// Config holds the planner's static parameters.
type Config struct {
	Symbol   string
	Levels   int     // rungs per side
	Width    float64 // per-level spacing as a fraction of price, (0,1)
	TickSize float64 // exchange price increment
}

// Validate rejects unusable grid parameters.
func (c Config) Validate() error {
	if c.Levels <= 0 {
		return fmt.Errorf("%w: levels must be positive, got %d", ErrInvalidGridParameters, c.Levels)
	}
	if c.Width <= 0 || c.Width >= 1 {
		return fmt.Errorf("%w: width must be in (0,1), got %f", ErrInvalidGridParameters, c.Width)
	}
	return nil
}

// Planner computes grid ladders.
type Planner struct {
	config Config
}

// NewPlanner creates a planner; the config must already be validated.
func NewPlanner(config Config) *Planner {
	return &Planner{config: config}
}

// Plan builds the grid around price, biased by the consensus direction:
// UP populates the BUY side as aggressive entries with a mirrored
// take-profit SELL side, DOWN the symmetric opposite, and HOLD populates
// both sides symmetrically as a neutral grid. For each i in 1..N the buy
// price is price*(1-width*i) and the sell price price*(1+width*i), rounded
// to the tick size, so buy prices strictly decrease and sell prices
// strictly increase with the index.
//
// quantityFor supplies the per-level quantity and exit prices for an
// aggressive entry at the given price.
func (p *Planner) Plan(price float64, res consensus.Result, quantityFor func(entry float64, dir strategy.Direction) (qty, stopLoss, takeProfit float64)) (*Grid, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive, got %f", ErrInvalidGridParameters, price)
	}

	grid := &Grid{
		Symbol:     p.config.Symbol,
		Generation: uuid.NewString(),
		Bias:       res.Direction,
		CreatedAt:  time.Now(),
		Levels:     make([]Level, 0, 2*p.config.Levels),
	}

	for i := 1; i <= p.config.Levels; i++ {
		buyPrice := p.roundToTick(price * (1 - p.config.Width*float64(i)))
		sellPrice := p.roundToTick(price * (1 + p.config.Width*float64(i)))

		buy := Level{Index: i, Side: SideBuy, Price: buyPrice}
		sell := Level{Index: i, Side: SideSell, Price: sellPrice}

		switch res.Direction {
		case strategy.DirectionUp:
			// Aggressive BUY entries, SELL side mirrors as take-profit.
			qty, sl, tp := quantityFor(buyPrice, strategy.DirectionUp)
			buy.Quantity, buy.StopLoss, buy.TakeProfit = qty, sl, tp
			sell.Quantity = qty
		case strategy.DirectionDown:
			qty, sl, tp := quantityFor(sellPrice, strategy.DirectionDown)
			sell.Quantity, sell.StopLoss, sell.TakeProfit = qty, sl, tp
			buy.Quantity = qty
		default:
			// Neutral grid: both sides are live entries.
			buyQty, buySL, buyTP := quantityFor(buyPrice, strategy.DirectionUp)
			sellQty, sellSL, sellTP := quantityFor(sellPrice, strategy.DirectionDown)
			buy.Quantity, buy.StopLoss, buy.TakeProfit = buyQty, buySL, buyTP
			sell.Quantity, sell.StopLoss, sell.TakeProfit = sellQty, sellSL, sellTP
		}

		// A level the sizer could not fund is dropped rather than placed
		// with zero quantity.
		if buy.Quantity > 0 {
			grid.Levels = append(grid.Levels, buy)
		}
		if sell.Quantity > 0 {
			grid.Levels = append(grid.Levels, sell)
		}
	}

	return grid, nil
}

func (p *Planner) roundToTick(price float64) float64 {
	if p.config.TickSize <= 0 {
		return price
	}
	return math.Round(price/p.config.TickSize) * p.config.TickSize
}
