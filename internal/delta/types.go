package delta

// OpenOrder is an exchange-reported resting order. A read-only snapshot
// refreshed once per cycle; never owned by the core. The exchange reports
// numeric order ids; decoding into the string OrderID happens in the client.
type OpenOrder struct {
	OrderID  string
	Symbol   string
	Side     string
	Price    float64
	Quantity float64
	Status   string
}

// OrderRequest is a limit order placement request.
type OrderRequest struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// Ticker is the exchange's last-trade snapshot for one symbol.
type Ticker struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"last_price,string"`
}

// Order sides on the wire.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)
