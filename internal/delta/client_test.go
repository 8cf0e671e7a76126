package delta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetOpenOrdersDecodesNumericIDs(t *testing.T) {
	assertion := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assertion.Equal("/v2/orders", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"result":[
			{"id":12345,"product_symbol":"BTCUSD","side":"buy","limit_price":"2841.3","size":0.42,"state":"open"},
			{"id":12346,"product_symbol":"BTCUSD","side":"sell","limit_price":"2898.7","size":0.42,"state":"open"}
		]}`))
	}))
	defer server.Close()

	client := NewClient("key", "secret", server.URL)
	orders, err := client.GetOpenOrders(context.Background(), "BTCUSD")

	assertion.NoError(err)
	assertion.Len(orders, 2)
	assertion.Equal("12345", orders[0].OrderID)
	assertion.Equal("BTCUSD", orders[0].Symbol)
	assertion.Equal(SideBuy, orders[0].Side)
	assertion.InDelta(2841.3, orders[0].Price, 1e-9)
	assertion.InDelta(0.42, orders[0].Quantity, 1e-9)
	assertion.Equal("12346", orders[1].OrderID)
	assertion.Equal(SideSell, orders[1].Side)
}

func TestPlaceOrderReturnsStringifiedID(t *testing.T) {
	assertion := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"result":{"id":98765,"state":"open"}}`))
	}))
	defer server.Close()

	client := NewClient("key", "secret", server.URL)
	id, err := client.PlaceOrder(context.Background(), OrderRequest{
		Symbol: "BTCUSD", Side: SideBuy, Price: 2841.3, Quantity: 0.42,
	})

	assertion.NoError(err)
	assertion.Equal("98765", id)
}

func TestClientMapsStatusToErrorTaxonomy(t *testing.T) {
	assertion := assert.New(t)

	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuth},
		{"forbidden", http.StatusForbidden, ErrAuth},
		{"not found", http.StatusNotFound, ErrOrderNotFound},
		{"server error", http.StatusBadGateway, ErrNetwork},
		{"rejected", http.StatusBadRequest, ErrOrderRejected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client := NewClient("key", "secret", server.URL)
			_, err := client.GetOpenOrders(context.Background(), "BTCUSD")
			assertion.ErrorIs(err, tc.want)
		})
	}
}
