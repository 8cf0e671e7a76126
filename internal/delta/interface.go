package delta

import "context"

// ExchangeClient defines the exchange operations the trading core consumes.
// The HTTP client and the mock client both implement it.
type ExchangeClient interface {
	GetPrice(ctx context.Context, symbol string) (float64, error)
	GetBalance(ctx context.Context) (float64, error)
	GetOpenOrders(ctx context.Context, symbol string) ([]OpenOrder, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (string, error)
	CancelOrder(ctx context.Context, orderID string) error
}

// Ensure both Client and MockClient implement ExchangeClient.
var _ ExchangeClient = (*Client)(nil)
var _ ExchangeClient = (*MockClient)(nil)
