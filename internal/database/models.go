package database

import "time"

// SignalRecord is a persisted strategy signal.
type SignalRecord struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	StrategyID string    `json:"strategy_id"`
	Direction  string    `json:"direction"`
	Confidence float64   `json:"confidence"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConsensusRecord is a persisted vote outcome.
type ConsensusRecord struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	Direction  string    `json:"direction"`
	Confidence float64   `json:"confidence"`
	UpScore    float64   `json:"up_score"`
	DownScore  float64   `json:"down_score"`
	Price      float64   `json:"price"`
	CreatedAt  time.Time `json:"created_at"`
}

// TradeRecord is a persisted trade.
type TradeRecord struct {
	ID         int64      `json:"id"`
	Symbol     string     `json:"symbol"`
	Side       string     `json:"side"`
	EntryPrice float64    `json:"entry_price"`
	Quantity   float64    `json:"quantity"`
	StopLoss   *float64   `json:"stop_loss,omitempty"`
	TakeProfit *float64   `json:"take_profit,omitempty"`
	PnL        *float64   `json:"pnl,omitempty"`
	Status     string     `json:"status"`
	OpenedAt   time.Time  `json:"opened_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

// ReconciliationRecord is a persisted reconciliation pass.
type ReconciliationRecord struct {
	ID         int64     `json:"id"`
	Symbol     string    `json:"symbol"`
	Generation string    `json:"generation"`
	Bias       string    `json:"bias"`
	Cancelled  int       `json:"cancelled"`
	Placed     int       `json:"placed"`
	Failed     int       `json:"failed"`
	CreatedAt  time.Time `json:"created_at"`
}
