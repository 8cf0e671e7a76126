package database

import (
	"context"
	"fmt"
)

// Repository provides data access methods
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// HealthCheck verifies database connectivity
func (r *Repository) HealthCheck(ctx context.Context) error {
	return r.db.Pool.Ping(ctx)
}

// CreateSignal inserts a strategy signal.
func (r *Repository) CreateSignal(ctx context.Context, rec *SignalRecord) error {
	query := `
		INSERT INTO signals (symbol, strategy_id, direction, confidence, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		rec.Symbol, rec.StrategyID, rec.Direction, rec.Confidence, rec.Price,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create signal: %w", err)
	}
	return nil
}

// GetRecentSignals returns the most recent signals for a symbol.
func (r *Repository) GetRecentSignals(ctx context.Context, symbol string, limit int) ([]*SignalRecord, error) {
	query := `
		SELECT id, symbol, strategy_id, direction, confidence, price, created_at
		FROM signals
		WHERE symbol = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var records []*SignalRecord
	for rows.Next() {
		rec := &SignalRecord{}
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.StrategyID,
			&rec.Direction, &rec.Confidence, &rec.Price, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreateConsensus inserts a vote outcome.
func (r *Repository) CreateConsensus(ctx context.Context, rec *ConsensusRecord) error {
	query := `
		INSERT INTO consensus_votes (symbol, direction, confidence, up_score, down_score, price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		rec.Symbol, rec.Direction, rec.Confidence, rec.UpScore, rec.DownScore, rec.Price,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create consensus vote: %w", err)
	}
	return nil
}

// CreateTrade inserts a trade record.
func (r *Repository) CreateTrade(ctx context.Context, rec *TradeRecord) error {
	query := `
		INSERT INTO trades (symbol, side, entry_price, quantity, stop_loss, take_profit, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, opened_at`

	err := r.db.Pool.QueryRow(ctx, query,
		rec.Symbol, rec.Side, rec.EntryPrice, rec.Quantity,
		rec.StopLoss, rec.TakeProfit, rec.Status,
	).Scan(&rec.ID, &rec.OpenedAt)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}
	return nil
}

// CloseTrade marks a trade closed with its realized PnL.
func (r *Repository) CloseTrade(ctx context.Context, id int64, pnl float64) error {
	query := `
		UPDATE trades
		SET status = 'CLOSED', pnl = $2, closed_at = NOW()
		WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id, pnl); err != nil {
		return fmt.Errorf("failed to close trade: %w", err)
	}
	return nil
}

// GetTradeHistory returns recent trades for a symbol.
func (r *Repository) GetTradeHistory(ctx context.Context, symbol string, limit int) ([]*TradeRecord, error) {
	query := `
		SELECT id, symbol, side, entry_price, quantity, stop_loss, take_profit, pnl, status, opened_at, closed_at
		FROM trades
		WHERE symbol = $1
		ORDER BY opened_at DESC
		LIMIT $2`

	rows, err := r.db.Pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var records []*TradeRecord
	for rows.Next() {
		rec := &TradeRecord{}
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Side, &rec.EntryPrice,
			&rec.Quantity, &rec.StopLoss, &rec.TakeProfit, &rec.PnL,
			&rec.Status, &rec.OpenedAt, &rec.ClosedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CreateReconciliation inserts a reconciliation pass record.
func (r *Repository) CreateReconciliation(ctx context.Context, rec *ReconciliationRecord) error {
	query := `
		INSERT INTO reconciliation_runs (symbol, generation, bias, cancelled, placed, failed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		rec.Symbol, rec.Generation, rec.Bias, rec.Cancelled, rec.Placed, rec.Failed,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reconciliation run: %w", err)
	}
	return nil
}
