package risk

import (
	"fmt"
	"sync"
	"time"
)

// ManagerConfig holds the daily protective limits. The per-order notional
// cap lives in SizerConfig.
type ManagerConfig struct {
	MaxDailyLoss    float64 // fraction of capital, e.g. 0.05
	MaxTradesPerDay int
}

// DefaultManagerConfig mirrors the production limits: 5% daily loss cap,
// 5 trades per day.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxDailyLoss:    0.05,
		MaxTradesPerDay: 5,
	}
}

// Manager tracks daily P&L and trade counts and vetoes new grids when the
// account's daily limits are exhausted.
type Manager struct {
	mu          sync.RWMutex
	config      ManagerConfig
	capital     float64
	dailyPnL    float64
	tradesToday int
	dayStart    time.Time
}

// NewManager creates a risk manager for the given starting capital.
func NewManager(config ManagerConfig, capital float64) *Manager {
	if config.MaxTradesPerDay <= 0 {
		config = DefaultManagerConfig()
	}
	return &Manager{
		config:   config,
		capital:  capital,
		dayStart: time.Now().Truncate(24 * time.Hour),
	}
}

// CanTrade reports whether a new grid may be placed this cycle, with a
// reason when it may not.
func (m *Manager) CanTrade() (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetIfNewDay()

	if m.tradesToday >= m.config.MaxTradesPerDay {
		return false, fmt.Sprintf("max trades per day reached (%d)", m.config.MaxTradesPerDay)
	}
	if m.capital > 0 && m.dailyPnL <= -m.capital*m.config.MaxDailyLoss {
		return false, fmt.Sprintf("daily loss limit reached (%.2f)", m.dailyPnL)
	}
	return true, ""
}

// SetCapital updates the balance the daily loss limit is measured against.
func (m *Manager) SetCapital(capital float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.capital = capital
}

// RecordTrade counts one placed grid toward the daily trade budget.
func (m *Manager) RecordTrade() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetIfNewDay()
	m.tradesToday++
}

// RecordPnL applies a realized profit or loss to the daily tally.
func (m *Manager) RecordPnL(pnl float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetIfNewDay()
	m.dailyPnL += pnl
}

// DailySummary returns the current day's trade count and P&L.
func (m *Manager) DailySummary() (trades int, pnl float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tradesToday, m.dailyPnL
}

func (m *Manager) resetIfNewDay() {
	today := time.Now().Truncate(24 * time.Hour)
	if today.After(m.dayStart) {
		m.dayStart = today
		m.dailyPnL = 0
		m.tradesToday = 0
	}
}
