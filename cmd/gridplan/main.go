// gridplan prints the grid the planner would place for a given price and
// bias, without touching an exchange. Useful for sanity-checking grid and
// risk parameters before deploying them.
package main

import (
	"flag"
	"fmt"
	"os"

	"delta-trading-bot/internal/consensus"
	"delta-trading-bot/internal/grid"
	"delta-trading-bot/internal/risk"
	"delta-trading-bot/internal/strategy"
)

func main() {
	var (
		symbol   = flag.String("symbol", "BTCUSD", "trading symbol")
		price    = flag.Float64("price", 0, "current price (required)")
		levels   = flag.Int("levels", 5, "levels per side")
		width    = flag.Float64("width", 0.01, "fractional spacing between levels")
		tick     = flag.Float64("tick", 0.01, "price tick size")
		bias     = flag.String("bias", "HOLD", "consensus bias: UP, DOWN or HOLD")
		balance  = flag.Float64("balance", 10000, "account balance")
		atr      = flag.Float64("atr", 0, "average true range (required)")
		riskPct  = flag.Float64("risk", 1.0, "percent of balance risked per level")
		minQty   = flag.Float64("min-qty", 0.01, "exchange minimum quantity")
	)
	flag.Parse()

	if *price <= 0 || *atr <= 0 {
		fmt.Fprintln(os.Stderr, "both -price and -atr must be positive")
		flag.Usage()
		os.Exit(2)
	}

	gridCfg := grid.Config{Symbol: *symbol, Levels: *levels, Width: *width, TickSize: *tick}
	if err := gridCfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid grid parameters: %v\n", err)
		os.Exit(2)
	}

	sizerCfg := risk.SizerConfig{RiskPercentage: *riskPct, MinQuantity: *minQty}
	if err := sizerCfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid risk parameters: %v\n", err)
		os.Exit(2)
	}

	sizer := risk.NewSizer(sizerCfg)
	planner := grid.NewPlanner(gridCfg)

	res := consensus.Result{
		Direction:  strategy.Direction(*bias),
		Confidence: 1,
	}

	plan, err := planner.Plan(*price, res, func(entry float64, dir strategy.Direction) (float64, float64, float64) {
		sized, err := sizer.Size(*balance, *atr, entry, dir)
		if err != nil {
			return 0, 0, 0
		}
		return sized.Quantity, sized.StopLoss, sized.TakeProfit
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "planning failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s grid %s bias=%s price=%.2f\n", plan.Symbol, plan.Generation, plan.Bias, *price)
	fmt.Println("IDX  SIDE  PRICE        QTY       SL          TP")
	for _, lvl := range plan.Levels {
		fmt.Printf("%-4d %-5s %-12.2f %-9.4f %-11.2f %-11.2f\n",
			lvl.Index, lvl.Side, lvl.Price, lvl.Quantity, lvl.StopLoss, lvl.TakeProfit)
	}
}
