package delta

import "errors"

// Error taxonomy for exchange operations. Network and auth failures abort
// the current cycle; order-level failures are isolated per order and
// recorded in the reconciliation report.
var (
	ErrNetwork       = errors.New("exchange network error")
	ErrAuth          = errors.New("exchange authentication error")
	ErrOrderRejected = errors.New("order rejected")
	ErrOrderNotFound = errors.New("order not found")
)
