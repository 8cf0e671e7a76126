package delta

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// DefaultStreamURL is the production WebSocket endpoint.
const DefaultStreamURL = "wss://socket.delta.exchange"

// TickerUpdate is one price tick from the v2/ticker channel.
type TickerUpdate struct {
	Symbol    string  `json:"symbol"`
	LastPrice float64 `json:"close,string"`
	Timestamp int64   `json:"timestamp"`
}

// Stream subscribes to ticker updates over WebSocket and forwards fresh
// prices to a callback. The REST client remains the fallback when the stream
// has no recent tick.
type Stream struct {
	mu        sync.Mutex
	url       string
	symbols   []string
	onTick    func(TickerUpdate)
	logger    zerolog.Logger
	conn      *websocket.Conn
	running   bool
	stopChan  chan struct{}
	reconnect time.Duration
}

// NewStream creates a ticker stream for the given symbols.
func NewStream(url string, symbols []string, onTick func(TickerUpdate), logger zerolog.Logger) *Stream {
	if url == "" {
		url = DefaultStreamURL
	}
	return &Stream{
		url:       url,
		symbols:   symbols,
		onTick:    onTick,
		logger:    logger.With().Str("component", "stream").Logger(),
		stopChan:  make(chan struct{}),
		reconnect: 5 * time.Second,
	}
}

// Start connects and begins the read loop; reconnects with backoff until
// Stop is called or the context ends.
func (s *Stream) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.run(ctx)
}

// Stop closes the stream.
func (s *Stream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
	if s.conn != nil {
		s.conn.Close()
	}
}

func (s *Stream) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		default:
		}

		if err := s.connectAndRead(ctx); err != nil {
			s.logger.Warn().Err(err).Dur("retry_in", s.reconnect).Msg("stream disconnected")
		}

		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-time.After(s.reconnect):
		}
	}
}

func (s *Stream) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	subscribe := map[string]interface{}{
		"type": "subscribe",
		"payload": map[string]interface{}{
			"channels": []map[string]interface{}{
				{"name": "v2/ticker", "symbols": s.symbols},
			},
		},
	}
	if err := conn.WriteJSON(subscribe); err != nil {
		return err
	}
	s.logger.Info().Strs("symbols", s.symbols).Msg("ticker stream subscribed")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var update TickerUpdate
		if err := json.Unmarshal(raw, &update); err != nil || update.Symbol == "" || update.LastPrice <= 0 {
			continue
		}
		if s.onTick != nil {
			s.onTick(update)
		}
	}
}
