// Package orders reconciles the live order book against the desired grid.
package orders

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"delta-trading-bot/internal/delta"
	"delta-trading-bot/internal/events"
	"delta-trading-bot/internal/grid"
)

// State describes where a symbol's order lifecycle currently is.
type State string

const (
	StateNoGrid      State = "NO_GRID"
	StateReconciling State = "RECONCILING"
	StateGridActive  State = "GRID_ACTIVE"
)

// priceTolerance absorbs float formatting differences when matching an open
// order against a desired level. Prices are tick-rounded on both sides, so
// anything tighter than half a satoshi is equality.
const priceTolerance = 1e-9

// DefaultPlacementWorkers bounds concurrent order placement.
const DefaultPlacementWorkers = 4

// OrderRef identifies one order a reconciliation pass touched. Cancelled
// entries carry the exchange order id; placed and failed entries carry the
// desired level, and failed entries the reason.
type OrderRef struct {
	OrderID  string  `json:"order_id,omitempty"`
	Side     string  `json:"side"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Reason   string  `json:"reason,omitempty"`
}

// Report lists exactly which orders a reconciliation pass cancelled, placed,
// and failed to act on.
type Report struct {
	Cancelled []OrderRef `json:"cancelled"`
	Placed    []OrderRef `json:"placed"`
	Failed    []OrderRef `json:"failed"`
}

// LifecycleManager owns a symbol's order state machine. Reconcile transitions
// NO_GRID or GRID_ACTIVE through RECONCILING and back to GRID_ACTIVE.
type LifecycleManager struct {
	client  delta.ExchangeClient
	bus     *events.EventBus
	logger  zerolog.Logger
	workers int

	mu     sync.RWMutex
	state  State
	active *grid.Grid
}

// NewLifecycleManager creates a manager in the NO_GRID state. A nil bus
// disables event publication. workers <= 0 uses DefaultPlacementWorkers.
func NewLifecycleManager(client delta.ExchangeClient, bus *events.EventBus, logger zerolog.Logger, workers int) *LifecycleManager {
	if workers <= 0 {
		workers = DefaultPlacementWorkers
	}
	return &LifecycleManager{
		client:  client,
		bus:     bus,
		logger:  logger.With().Str("component", "orders").Logger(),
		workers: workers,
		state:   StateNoGrid,
	}
}

// State returns the current lifecycle state.
func (m *LifecycleManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// ActiveGrid returns the grid from the last successful reconciliation, or nil.
func (m *LifecycleManager) ActiveGrid() *grid.Grid {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

func (m *LifecycleManager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// failPass returns the manager to NO_GRID after an aborted reconciliation.
// The previous grid is forgotten: its orders may be partially cancelled, so
// claiming it as active would misreport the book.
func (m *LifecycleManager) failPass() {
	m.mu.Lock()
	m.state = StateNoGrid
	m.active = nil
	m.mu.Unlock()
}

// Reconcile brings the exchange's open orders for the grid's symbol in line
// with the desired grid. Stale orders are cancelled first; only after every
// cancellation has resolved does placement of missing levels begin. Orders
// already matching a desired level are left untouched, so reconciling the
// same grid twice is a no-op.
//
// Per-order rejections are isolated and counted in the report. Network and
// auth errors abort the pass and are returned alongside the partial report.
func (m *LifecycleManager) Reconcile(ctx context.Context, g *grid.Grid) (*Report, error) {
	if g == nil || len(g.Levels) == 0 {
		return nil, fmt.Errorf("nothing to reconcile: empty grid")
	}

	m.setState(StateReconciling)
	report := &Report{}

	open, err := m.client.GetOpenOrders(ctx, g.Symbol)
	if err != nil {
		m.failPass()
		return report, fmt.Errorf("fetching open orders: %w", err)
	}

	desired := make([]grid.Level, len(g.Levels))
	copy(desired, g.Levels)

	// Match each open order against at most one desired level. Matched
	// levels are removed from the placement set; unmatched orders are stale.
	var stale []delta.OpenOrder
	for _, o := range open {
		matched := false
		for i, lvl := range desired {
			if ordersMatch(o, lvl) {
				desired = append(desired[:i], desired[i+1:]...)
				matched = true
				break
			}
		}
		if !matched {
			stale = append(stale, o)
		}
	}

	if err := m.cancelStale(ctx, g.Symbol, stale, report); err != nil {
		m.failPass()
		return report, err
	}

	if err := m.placeLevels(ctx, g, desired, report); err != nil {
		m.failPass()
		return report, err
	}

	m.mu.Lock()
	m.state = StateGridActive
	m.active = g
	m.mu.Unlock()

	m.logger.Info().
		Str("symbol", g.Symbol).
		Str("generation", g.Generation).
		Int("cancelled", len(report.Cancelled)).
		Int("placed", len(report.Placed)).
		Int("failed", len(report.Failed)).
		Msg("Reconciliation complete")

	return report, nil
}

// CancelAll removes every open order for the symbol and returns the manager
// to NO_GRID. Used on shutdown and when the bot halts.
func (m *LifecycleManager) CancelAll(ctx context.Context, symbol string) (*Report, error) {
	report := &Report{}

	open, err := m.client.GetOpenOrders(ctx, symbol)
	if err != nil {
		return report, fmt.Errorf("fetching open orders: %w", err)
	}

	if err := m.cancelStale(ctx, symbol, open, report); err != nil {
		return report, err
	}

	m.mu.Lock()
	m.state = StateNoGrid
	m.active = nil
	m.mu.Unlock()

	return report, nil
}

// cancelStale cancels every order in the list before returning. An order that
// disappeared between listing and cancellation counts as cancelled.
func (m *LifecycleManager) cancelStale(ctx context.Context, symbol string, stale []delta.OpenOrder, report *Report) error {
	for _, o := range stale {
		if err := ctx.Err(); err != nil {
			return err
		}

		ref := OrderRef{OrderID: o.OrderID, Side: o.Side, Price: o.Price, Quantity: o.Quantity}

		err := m.client.CancelOrder(ctx, o.OrderID)
		switch {
		case err == nil, errors.Is(err, delta.ErrOrderNotFound):
			report.Cancelled = append(report.Cancelled, ref)
			if m.bus != nil {
				m.bus.Publish(events.Event{
					Type: events.EventOrderCancelled,
					Data: map[string]interface{}{"symbol": symbol, "order_id": o.OrderID},
				})
			}
		case errors.Is(err, delta.ErrNetwork), errors.Is(err, delta.ErrAuth):
			ref.Reason = err.Error()
			report.Failed = append(report.Failed, ref)
			return fmt.Errorf("cancelling order %s: %w", o.OrderID, err)
		default:
			ref.Reason = err.Error()
			report.Failed = append(report.Failed, ref)
			m.logger.Warn().Err(err).Str("order_id", o.OrderID).Msg("Cancel failed")
		}
	}
	return nil
}

type placeResult struct {
	level grid.Level
	id    string
	err   error
}

// placeLevels submits the missing levels through a bounded worker pool and
// waits for every placement to resolve before returning.
func (m *LifecycleManager) placeLevels(ctx context.Context, g *grid.Grid, levels []grid.Level, report *Report) error {
	if len(levels) == 0 {
		return nil
	}

	levelChan := make(chan grid.Level, len(levels))
	resultChan := make(chan placeResult, len(levels))
	var wg sync.WaitGroup

	for i := 0; i < m.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for lvl := range levelChan {
				if err := ctx.Err(); err != nil {
					resultChan <- placeResult{level: lvl, err: err}
					continue
				}
				req := delta.OrderRequest{
					Symbol:   g.Symbol,
					Side:     wireSide(lvl.Side),
					Price:    lvl.Price,
					Quantity: lvl.Quantity,
				}
				id, err := m.client.PlaceOrder(ctx, req)
				resultChan <- placeResult{level: lvl, id: id, err: err}
			}
		}()
	}

	for _, lvl := range levels {
		levelChan <- lvl
	}
	close(levelChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var abortErr error
	for res := range resultChan {
		ref := OrderRef{
			Side:     string(res.level.Side),
			Price:    res.level.Price,
			Quantity: res.level.Quantity,
		}
		switch {
		case res.err == nil:
			ref.OrderID = res.id
			report.Placed = append(report.Placed, ref)
			if m.bus != nil {
				m.bus.Publish(events.Event{
					Type: events.EventOrderPlaced,
					Data: map[string]interface{}{
						"symbol":   g.Symbol,
						"order_id": res.id,
						"side":     string(res.level.Side),
						"price":    res.level.Price,
						"quantity": res.level.Quantity,
					},
				})
			}
		case errors.Is(res.err, delta.ErrNetwork), errors.Is(res.err, delta.ErrAuth):
			ref.Reason = res.err.Error()
			report.Failed = append(report.Failed, ref)
			if abortErr == nil {
				abortErr = res.err
			}
		default:
			ref.Reason = res.err.Error()
			report.Failed = append(report.Failed, ref)
			m.logger.Warn().Err(res.err).
				Str("side", string(res.level.Side)).
				Float64("price", res.level.Price).
				Msg("Placement failed")
			if m.bus != nil {
				m.bus.Publish(events.Event{
					Type: events.EventOrderFailed,
					Data: map[string]interface{}{
						"symbol": g.Symbol,
						"side":   string(res.level.Side),
						"price":  res.level.Price,
						"error":  res.err.Error(),
					},
				})
			}
		}
	}

	if abortErr != nil {
		return fmt.Errorf("placing grid orders: %w", abortErr)
	}
	return nil
}

// ordersMatch reports whether an open order already covers a desired level.
func ordersMatch(o delta.OpenOrder, lvl grid.Level) bool {
	if wireSide(lvl.Side) != o.Side {
		return false
	}
	return math.Abs(o.Price-lvl.Price) < priceTolerance &&
		math.Abs(o.Quantity-lvl.Quantity) < priceTolerance
}

// wireSide maps a grid side onto the exchange's lowercase order side.
func wireSide(s grid.Side) string {
	if s == grid.SideBuy {
		return delta.SideBuy
	}
	return delta.SideSell
}
