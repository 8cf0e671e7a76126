package delta

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockClient simulates the exchange with a random-walk price and an
// in-memory order book, so the bot can run without credentials.
type MockClient struct {
	mu         sync.RWMutex
	prices     map[string]float64
	balance    float64
	openOrders map[string]OpenOrder
	lastUpdate time.Time
	rng        *rand.Rand
}

// NewMockClient creates a simulated exchange seeded with realistic prices.
func NewMockClient(balance float64) *MockClient {
	if balance <= 0 {
		balance = 1000
	}
	return &MockClient{
		prices: map[string]float64{
			"BTCUSD": 104500.00,
			"ETHUSD": 3900.00,
			"SOLUSD": 220.00,
			"XRPUSD": 2.35,
		},
		balance:    balance,
		openOrders: make(map[string]OpenOrder),
		lastUpdate: time.Now(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// updatePrices adds small random variations to simulate market movement.
func (mc *MockClient) updatePrices() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if time.Since(mc.lastUpdate) < time.Second {
		return
	}
	for symbol, price := range mc.prices {
		// Random walk: -0.5% to +0.5% per tick.
		change := (mc.rng.Float64() - 0.5) * 0.01
		mc.prices[symbol] = price * (1 + change)
	}
	mc.lastUpdate = time.Now()
}

func (mc *MockClient) GetPrice(_ context.Context, symbol string) (float64, error) {
	mc.updatePrices()

	mc.mu.RLock()
	defer mc.mu.RUnlock()
	price, ok := mc.prices[symbol]
	if !ok {
		price = 100.0
	}
	return price, nil
}

func (mc *MockClient) GetBalance(_ context.Context) (float64, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.balance, nil
}

func (mc *MockClient) GetOpenOrders(_ context.Context, symbol string) ([]OpenOrder, error) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	orders := make([]OpenOrder, 0, len(mc.openOrders))
	for _, o := range mc.openOrders {
		if o.Symbol == symbol {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (mc *MockClient) PlaceOrder(_ context.Context, req OrderRequest) (string, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	id := uuid.NewString()
	mc.openOrders[id] = OpenOrder{
		OrderID:  id,
		Symbol:   req.Symbol,
		Side:     req.Side,
		Price:    req.Price,
		Quantity: req.Quantity,
		Status:   "open",
	}
	return id, nil
}

func (mc *MockClient) CancelOrder(_ context.Context, orderID string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, ok := mc.openOrders[orderID]; !ok {
		return ErrOrderNotFound
	}
	delete(mc.openOrders, orderID)
	return nil
}
