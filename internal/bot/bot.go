// Package bot runs the per-symbol decision cycle: fetch market state,
// compute indicators, fan out strategies, vote, plan the grid and reconcile
// orders against it.
package bot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"delta-trading-bot/config"
	"delta-trading-bot/internal/cache"
	"delta-trading-bot/internal/consensus"
	"delta-trading-bot/internal/database"
	"delta-trading-bot/internal/delta"
	"delta-trading-bot/internal/events"
	"delta-trading-bot/internal/grid"
	"delta-trading-bot/internal/indicator"
	"delta-trading-bot/internal/orders"
	"delta-trading-bot/internal/risk"
	"delta-trading-bot/internal/strategy"
)

// strategyWorkers bounds the strategy evaluation fan-out.
const strategyWorkers = 3

// streamPriceTTL is how long a streamed tick substitutes for a REST price
// fetch at the start of a cycle.
const streamPriceTTL = 10 * time.Second

// pendingDecision links a cycle's action to the state it was taken in, so
// the Q-learning strategy can be rewarded and the realized P&L booked once
// the outcome is observable. notional is the entry-side exposure the grid
// placed; zero for holds and dry runs. tradeID points at the open trade
// record, zero when persistence is off.
type pendingDecision struct {
	state     string
	action    strategy.Direction
	price     float64
	notional  float64
	tradeID   int64
	timestamp time.Time
}

// Bot drives one symbol. Construct with New, run with Start.
type Bot struct {
	symbol string
	cfg    *config.Config
	logger zerolog.Logger

	client    delta.ExchangeClient
	engine    *indicator.Engine
	series    *indicator.PriceSeries
	strats    []strategy.Strategy
	qStrat    *strategy.QLearningStrategy
	voter     *consensus.Voter
	planner   *grid.Planner
	sizer     *risk.Sizer
	riskMgr   *risk.Manager
	lifecycle *orders.LifecycleManager
	bus       *events.EventBus
	memo      *cache.TTLCache

	// Optional persistence; nil disables.
	store *cache.StateStore
	repo  *database.Repository

	mu           sync.RWMutex
	running      bool
	halted       bool
	authFailures int
	lastVote     *consensus.Result
	lastPrice    float64
	pending      *pendingDecision
	cyclesRun    int

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Deps carries the collaborators a Bot needs. Store and Repo may be nil.
type Deps struct {
	Client delta.ExchangeClient
	Bus    *events.EventBus
	Store  *cache.StateStore
	Repo   *database.Repository
	Logger zerolog.Logger
}

// New builds a bot for one symbol with the full strategy set. Configuration
// errors (grid geometry, risk parameters) surface here and are fatal.
func New(symbol string, cfg *config.Config, deps Deps) (*Bot, error) {
	gridCfg := grid.Config{
		Symbol:   symbol,
		Levels:   cfg.GridConfig.Levels,
		Width:    cfg.GridConfig.Width,
		TickSize: cfg.GridConfig.TickSize,
	}
	if err := gridCfg.Validate(); err != nil {
		return nil, err
	}

	sizerCfg := risk.SizerConfig{
		RiskPercentage: cfg.RiskConfig.RiskPercentage,
		MinQuantity:    cfg.RiskConfig.MinQuantity,
		SafetyFactor:   cfg.RiskConfig.SafetyFactor,
		MaxPositionPct: cfg.RiskConfig.MaxPositionPct,
	}
	if err := sizerCfg.Validate(); err != nil {
		return nil, err
	}

	qStrat := strategy.NewQLearningStrategy(strategy.DefaultQLearningConfig(), time.Now().UnixNano())
	strats := []strategy.Strategy{
		strategy.NewTrendStrategy(strategy.DefaultTrendConfig()),
		strategy.NewRiskAdjustedStrategy(strategy.DefaultTrendConfig(), 0),
		strategy.NewMultiTimeframeStrategy(strategy.DefaultMultiTimeframeConfig()),
		strategy.NewMeanReversionStrategy(strategy.DefaultMeanReversionConfig()),
		qStrat,
	}

	logger := deps.Logger.With().Str("component", "bot").Str("symbol", symbol).Logger()

	return &Bot{
		symbol:  symbol,
		cfg:     cfg,
		logger:  logger,
		client:  deps.Client,
		engine:  indicator.NewEngine(),
		series:  indicator.NewPriceSeries(symbol, 0),
		strats:  strats,
		qStrat:  qStrat,
		voter:   consensus.NewVoter(cfg.TradingConfig.ConfidenceGate),
		planner: grid.NewPlanner(gridCfg),
		sizer:   risk.NewSizer(sizerCfg),
		riskMgr: risk.NewManager(risk.ManagerConfig{
			MaxDailyLoss:    cfg.RiskConfig.MaxDailyLoss,
			MaxTradesPerDay: cfg.RiskConfig.MaxTradesPerDay,
		}, 0),
		lifecycle: orders.NewLifecycleManager(deps.Client, deps.Bus, deps.Logger, cfg.TradingConfig.PlacementWorkers),
		bus:       deps.Bus,
		memo:      cache.NewTTLCache(),
		store:     deps.Store,
		repo:      deps.Repo,
		stopCh:    make(chan struct{}),
	}, nil
}

// Start restores persisted state and launches the cycle loop.
func (b *Bot) Start(ctx context.Context) {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true
	b.mu.Unlock()

	b.restoreState(ctx)

	if b.bus != nil {
		b.bus.Publish(events.Event{
			Type: events.EventBotStarted,
			Data: map[string]interface{}{"symbol": b.symbol},
		})
	}

	b.wg.Add(1)
	go b.runLoop(ctx)

	b.logger.Info().Int("interval_s", b.cfg.TradingConfig.CycleInterval).Msg("Bot started")
}

// Stop halts the cycle loop and cancels open orders.
func (b *Bot) Stop(ctx context.Context) {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	b.mu.Unlock()

	close(b.stopCh)
	b.wg.Wait()

	if _, err := b.lifecycle.CancelAll(ctx, b.symbol); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to cancel orders on shutdown")
	}

	b.saveState(ctx)

	if b.bus != nil {
		b.bus.Publish(events.Event{
			Type: events.EventBotStopped,
			Data: map[string]interface{}{"symbol": b.symbol},
		})
	}

	b.logger.Info().Msg("Bot stopped")
}

// Halted reports whether the bot stopped itself after repeated auth failures.
func (b *Bot) Halted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.halted
}

// Status is a point-in-time view for the API layer.
type Status struct {
	Symbol         string            `json:"symbol"`
	Running        bool              `json:"running"`
	Halted         bool              `json:"halted"`
	CyclesRun      int               `json:"cycles_run"`
	LastPrice      float64           `json:"last_price"`
	LastATR        float64           `json:"last_atr,omitempty"`
	GridGeneration string            `json:"grid_generation,omitempty"`
	LastVote       *consensus.Result `json:"last_vote,omitempty"`
	OrderState     orders.State      `json:"order_state"`
	HistoryDepth   int               `json:"history_depth"`
}

// Status returns the bot's current state. Price, ATR and grid generation
// come from the per-cycle memo when a fresh entry exists.
func (b *Bot) Status() Status {
	b.mu.RLock()
	st := Status{
		Symbol:       b.symbol,
		Running:      b.running,
		Halted:       b.halted,
		CyclesRun:    b.cyclesRun,
		LastPrice:    b.lastPrice,
		LastVote:     b.lastVote,
		OrderState:   b.lifecycle.State(),
		HistoryDepth: b.series.Len(),
	}
	b.mu.RUnlock()

	if price, ok := b.memo.GetFloat(cache.KeyLastPrice); ok {
		st.LastPrice = price
	}
	if atr, ok := b.memo.GetFloat(cache.KeyLastATR); ok {
		st.LastATR = atr
	}
	if gen, ok := b.memo.Get(cache.KeyLastGrid); ok {
		st.GridGeneration, _ = gen.(string)
	}
	return st
}

// ActiveGrid exposes the current grid for the API layer.
func (b *Bot) ActiveGrid() *grid.Grid {
	return b.lifecycle.ActiveGrid()
}

// RiskSummary exposes the daily risk counters.
func (b *Bot) RiskSummary() (trades int, pnl float64) {
	return b.riskMgr.DailySummary()
}

func (b *Bot) runLoop(ctx context.Context) {
	defer b.wg.Done()

	interval := time.Duration(b.cfg.TradingConfig.CycleInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// First cycle runs immediately rather than waiting a full interval.
	b.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.stopCh:
			return
		case <-ticker.C:
			if b.Halted() {
				return
			}
			b.cycle(ctx)
		}
	}
}

// cycle executes one full decision pass. Errors never propagate out; the
// cycle is skipped or the bot halts, and the next tick starts clean.
func (b *Bot) cycle(ctx context.Context) {
	b.mu.Lock()
	b.cyclesRun++
	cycleNum := b.cyclesRun
	b.mu.Unlock()

	if b.bus != nil {
		b.bus.Publish(events.Event{
			Type: events.EventCycleStarted,
			Data: map[string]interface{}{"symbol": b.symbol, "cycle": cycleNum},
		})
	}

	price, balance, err := b.fetchMarket(ctx)
	if err != nil {
		b.handleCycleError("fetch", err)
		return
	}
	b.resetAuthFailures()

	if balance < b.cfg.TradingConfig.MinBalance {
		b.logger.Warn().Float64("balance", balance).
			Float64("min_balance", b.cfg.TradingConfig.MinBalance).
			Msg("Balance below minimum, skipping cycle")
		b.skipCycle("insufficient_balance")
		return
	}

	b.riskMgr.SetCapital(balance)
	b.series.Append(price, time.Now())
	b.memo.Set(cache.KeyLastPrice, price, time.Duration(b.cfg.TradingConfig.CycleInterval)*time.Second)

	b.mu.Lock()
	b.lastPrice = price
	b.mu.Unlock()

	snap, err := b.engine.Compute(b.series)
	if err != nil {
		if errors.Is(err, indicator.ErrInsufficientHistory) {
			b.logger.Debug().Int("have", b.series.Len()).Msg("Warming up history")
			b.skipCycle("insufficient_history")
			return
		}
		b.handleCycleError("indicators", err)
		return
	}
	b.memo.Set(cache.KeyLastATR, snap.ATR, time.Duration(b.cfg.TradingConfig.CycleInterval)*time.Second)

	b.rewardPrevious(ctx, snap, price)

	_, dailyPnL := b.riskMgr.DailySummary()
	account := strategy.AccountState{Balance: balance, RecentPnL: dailyPnL}
	signals := b.evaluateStrategies(snap, account)

	result := b.voter.Vote(signals)
	b.recordVote(ctx, result, price, signals)

	if ok, reason := b.riskMgr.CanTrade(); !ok {
		b.logger.Warn().Str("reason", reason).Msg("Risk manager blocked trading")
		b.skipCycle(reason)
		return
	}

	if result.Confidence < b.cfg.TradingConfig.ConfidenceGate {
		b.logger.Info().
			Str("direction", string(result.Direction)).
			Float64("confidence", result.Confidence).
			Msg("Consensus below confidence gate, holding")
		b.rememberDecision(snap, strategy.DirectionHold, price, 0, 0)
		return
	}

	if result.Direction == strategy.DirectionHold && b.lifecycle.State() == orders.StateGridActive {
		// An active grid rides out a HOLD untouched.
		b.rememberDecision(snap, strategy.DirectionHold, price, 0, 0)
		return
	}

	b.executeDecision(ctx, snap, result, price, balance)
}

// ObservePrice records a streamed tick so the next cycle can reuse it
// instead of polling the REST API.
func (b *Bot) ObservePrice(price float64) {
	b.memo.Set(cache.KeyStreamPrice, price, streamPriceTTL)
}

// fetchMarket retrieves price and balance in parallel and joins both before
// the cycle proceeds. A fresh streamed tick short-circuits the price fetch.
func (b *Bot) fetchMarket(ctx context.Context) (price, balance float64, err error) {
	var (
		wg         sync.WaitGroup
		priceErr   error
		balanceErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if streamed, ok := b.memo.GetFloat(cache.KeyStreamPrice); ok {
			price = streamed
			return
		}
		price, priceErr = b.client.GetPrice(ctx, b.symbol)
	}()
	go func() {
		defer wg.Done()
		balance, balanceErr = b.client.GetBalance(ctx)
	}()
	wg.Wait()

	if priceErr != nil {
		return 0, 0, priceErr
	}
	if balanceErr != nil {
		return 0, 0, balanceErr
	}
	return price, balance, nil
}

// evaluateStrategies fans the snapshot out to every strategy through a
// bounded worker pool and collects all signals before voting.
func (b *Bot) evaluateStrategies(snap *indicator.Snapshot, account strategy.AccountState) []strategy.Signal {
	stratChan := make(chan strategy.Strategy, len(b.strats))
	resultChan := make(chan strategy.Signal, len(b.strats))
	var wg sync.WaitGroup

	for i := 0; i < strategyWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range stratChan {
				resultChan <- s.Evaluate(snap, b.series, account)
			}
		}()
	}

	for _, s := range b.strats {
		stratChan <- s
	}
	close(stratChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	signals := make([]strategy.Signal, 0, len(b.strats))
	for sig := range resultChan {
		signals = append(signals, sig)
		if b.bus != nil {
			b.bus.PublishSignal(b.symbol, sig.StrategyID, string(sig.Direction), sig.Confidence)
		}
	}
	return signals
}

// rewardPrevious feeds the realized outcome of the last recorded decision
// back into the Q-learning table, books it against the daily loss limit,
// and closes the trade record it opened.
func (b *Bot) rewardPrevious(ctx context.Context, snap *indicator.Snapshot, price float64) {
	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	if pending == nil || pending.price == 0 {
		return
	}

	change := (price - pending.price) / pending.price
	var reward float64
	switch pending.action {
	case strategy.DirectionUp:
		reward = change
	case strategy.DirectionDown:
		reward = -change
	default:
		// Holding is penalized in proportion to the move it sat out.
		reward = -absFloat(change) * 0.1
	}

	if pending.notional > 0 && pending.action != strategy.DirectionHold {
		pnl := reward * pending.notional
		b.riskMgr.RecordPnL(pnl)
		if b.repo != nil && pending.tradeID != 0 {
			if err := b.repo.CloseTrade(ctx, pending.tradeID, pnl); err != nil {
				b.logger.Warn().Err(err).Int64("trade_id", pending.tradeID).Msg("Failed to close trade")
			}
		}
	}

	_, dailyPnL := b.riskMgr.DailySummary()
	nextState := b.qStrat.DiscretizeState(snap, b.series, strategy.AccountState{RecentPnL: dailyPnL})
	b.qStrat.Update(strategy.Outcome{
		State:     pending.state,
		Action:    pending.action,
		Reward:    reward,
		NextState: nextState,
	})

	if b.store != nil && b.qStrat.Updates()%10 == 0 {
		if err := b.store.SaveQTable(ctx, b.symbol, b.qStrat.Table()); err != nil && !errors.Is(err, cache.ErrStoreUnavailable) {
			b.logger.Warn().Err(err).Msg("Failed to persist q-table")
		}
	}
}

func (b *Bot) rememberDecision(snap *indicator.Snapshot, action strategy.Direction, price, notional float64, tradeID int64) {
	_, dailyPnL := b.riskMgr.DailySummary()
	state := b.qStrat.DiscretizeState(snap, b.series, strategy.AccountState{RecentPnL: dailyPnL})
	b.mu.Lock()
	b.pending = &pendingDecision{
		state:     state,
		action:    action,
		price:     price,
		notional:  notional,
		tradeID:   tradeID,
		timestamp: time.Now(),
	}
	b.mu.Unlock()
}

// executeDecision sizes, plans and reconciles a grid for an actionable vote.
func (b *Bot) executeDecision(ctx context.Context, snap *indicator.Snapshot, result consensus.Result, price, balance float64) {
	quantityFor := func(entry float64, dir strategy.Direction) (float64, float64, float64) {
		sized, err := b.sizer.Size(balance, snap.ATR, entry, dir)
		if err != nil {
			return 0, 0, 0
		}
		return sized.Quantity, sized.StopLoss, sized.TakeProfit
	}

	plan, err := b.planner.Plan(price, result, quantityFor)
	if err != nil {
		b.handleCycleError("planning", err)
		return
	}
	if len(plan.Levels) == 0 {
		b.logger.Warn().Msg("Sizing produced no placeable levels, skipping cycle")
		b.skipCycle("no_levels")
		return
	}

	if b.bus != nil {
		b.bus.PublishGridPlanned(b.symbol, plan.Generation, len(plan.Levels), string(plan.Bias))
	}
	b.memo.Set(cache.KeyLastGrid, plan.Generation, 0)

	if b.cfg.TradingConfig.DryRun {
		b.logger.Info().Str("generation", plan.Generation).Int("levels", len(plan.Levels)).
			Msg("Dry run: grid planned but not placed")
		b.rememberDecision(snap, result.Direction, price, 0, 0)
		return
	}

	report, err := b.lifecycle.Reconcile(ctx, plan)
	if err != nil {
		b.handleCycleError("reconcile", err)
		return
	}
	b.resetAuthFailures()
	b.riskMgr.RecordTrade()

	b.persistReconciliation(ctx, plan, report)
	tradeID := b.openTrade(ctx, snap, result, price, balance)
	b.rememberDecision(snap, result.Direction, price, entryNotional(plan, result.Direction), tradeID)

	if b.bus != nil {
		b.bus.Publish(events.Event{
			Type: events.EventCycleCompleted,
			Data: map[string]interface{}{
				"symbol":    b.symbol,
				"direction": string(result.Direction),
				"cancelled": len(report.Cancelled),
				"placed":    len(report.Placed),
				"failed":    len(report.Failed),
			},
		})
	}
}

// entryNotional sums the exposure of the grid's entry side. A biased grid
// enters on one side only; a neutral grid enters on both.
func entryNotional(plan *grid.Grid, direction strategy.Direction) float64 {
	total := 0.0
	for _, lvl := range plan.Levels {
		switch {
		case direction == strategy.DirectionUp && lvl.Side != grid.SideBuy:
		case direction == strategy.DirectionDown && lvl.Side != grid.SideSell:
		default:
			total += lvl.Price * lvl.Quantity
		}
	}
	return total
}

// openTrade records the placed grid as an open trade and returns its id,
// or zero when persistence is off or sizing at the reference price fails.
func (b *Bot) openTrade(ctx context.Context, snap *indicator.Snapshot, result consensus.Result, price, balance float64) int64 {
	if b.repo == nil {
		return 0
	}
	sized, err := b.sizer.Size(balance, snap.ATR, price, result.Direction)
	if err != nil {
		return 0
	}

	stopLoss, takeProfit := sized.StopLoss, sized.TakeProfit
	rec := &database.TradeRecord{
		Symbol:     b.symbol,
		Side:       tradeSide(result.Direction),
		EntryPrice: price,
		Quantity:   sized.Quantity,
		StopLoss:   &stopLoss,
		TakeProfit: &takeProfit,
		Status:     "OPEN",
	}
	if err := b.repo.CreateTrade(ctx, rec); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to persist trade")
		return 0
	}
	return rec.ID
}

func tradeSide(direction strategy.Direction) string {
	switch direction {
	case strategy.DirectionUp:
		return "long"
	case strategy.DirectionDown:
		return "short"
	default:
		return "neutral"
	}
}

// handleCycleError classifies a cycle failure. Auth errors accumulate and
// halt the bot once the configured threshold is crossed; everything else
// aborts only the current cycle.
func (b *Bot) handleCycleError(source string, err error) {
	if b.bus != nil {
		b.bus.PublishError(b.symbol, source, err)
	}

	if errors.Is(err, delta.ErrAuth) {
		b.mu.Lock()
		b.authFailures++
		failures := b.authFailures
		max := b.cfg.TradingConfig.MaxAuthFailures
		halt := failures >= max
		if halt {
			b.halted = true
		}
		b.mu.Unlock()

		if halt {
			b.logger.Error().Int("failures", failures).
				Msg("Consecutive auth failures exceeded limit, halting bot")
			if b.bus != nil {
				b.bus.Publish(events.Event{
					Type: events.EventBotHalted,
					Data: map[string]interface{}{"symbol": b.symbol, "auth_failures": failures},
				})
			}
			return
		}
		b.logger.Warn().Err(err).Int("failures", failures).Int("limit", max).Msg("Auth failure")
		return
	}

	b.logger.Warn().Err(err).Str("source", source).Msg("Cycle aborted")
}

func (b *Bot) resetAuthFailures() {
	b.mu.Lock()
	b.authFailures = 0
	b.mu.Unlock()
}

func (b *Bot) skipCycle(reason string) {
	if b.bus != nil {
		b.bus.Publish(events.Event{
			Type: events.EventCycleSkipped,
			Data: map[string]interface{}{"symbol": b.symbol, "reason": reason},
		})
	}
}

func (b *Bot) recordVote(ctx context.Context, result consensus.Result, price float64, signals []strategy.Signal) {
	b.mu.Lock()
	r := result
	b.lastVote = &r
	b.mu.Unlock()

	if b.bus != nil {
		b.bus.PublishConsensus(b.symbol, string(result.Direction), result.Confidence)
	}

	if b.store != nil {
		snap := cache.ConsensusSnapshot{
			Symbol:     b.symbol,
			Direction:  string(result.Direction),
			Confidence: result.Confidence,
			Price:      price,
			Timestamp:  time.Now(),
		}
		if err := b.store.SaveConsensus(ctx, snap); err != nil && !errors.Is(err, cache.ErrStoreUnavailable) {
			b.logger.Warn().Err(err).Msg("Failed to persist consensus")
		}
	}

	if b.repo != nil {
		for _, sig := range signals {
			rec := &database.SignalRecord{
				Symbol:     b.symbol,
				StrategyID: sig.StrategyID,
				Direction:  string(sig.Direction),
				Confidence: sig.Confidence,
				Price:      price,
			}
			if err := b.repo.CreateSignal(ctx, rec); err != nil {
				b.logger.Warn().Err(err).Msg("Failed to persist signal")
				break
			}
		}
		vote := &database.ConsensusRecord{
			Symbol:     b.symbol,
			Direction:  string(result.Direction),
			Confidence: result.Confidence,
			UpScore:    result.UpScore,
			DownScore:  result.DownScore,
			Price:      price,
		}
		if err := b.repo.CreateConsensus(ctx, vote); err != nil {
			b.logger.Warn().Err(err).Msg("Failed to persist consensus vote")
		}
	}
}

func (b *Bot) persistReconciliation(ctx context.Context, plan *grid.Grid, report *orders.Report) {
	if b.repo == nil {
		return
	}
	rec := &database.ReconciliationRecord{
		Symbol:     b.symbol,
		Generation: plan.Generation,
		Bias:       string(plan.Bias),
		Cancelled:  len(report.Cancelled),
		Placed:     len(report.Placed),
		Failed:     len(report.Failed),
	}
	if err := b.repo.CreateReconciliation(ctx, rec); err != nil {
		b.logger.Warn().Err(err).Msg("Failed to persist reconciliation run")
	}
}

func (b *Bot) restoreState(ctx context.Context) {
	if b.store == nil {
		return
	}
	table, err := b.store.LoadQTable(ctx, b.symbol)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) && !errors.Is(err, cache.ErrStoreUnavailable) {
			b.logger.Warn().Err(err).Msg("Failed to restore q-table")
		}
		return
	}
	b.qStrat.Restore(table, 0)
	b.logger.Info().Int("states", len(table)).Msg("Restored q-table")
}

func (b *Bot) saveState(ctx context.Context) {
	if b.store == nil {
		return
	}
	if err := b.store.SaveQTable(ctx, b.symbol, b.qStrat.Table()); err != nil && !errors.Is(err, cache.ErrStoreUnavailable) {
		b.logger.Warn().Err(err).Msg("Failed to save q-table")
	}
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
