package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"delta-trading-bot/config"
)

// Key layouts for persisted bot state.
const (
	keyQTable        = "bot:%s:qtable"
	keyLastConsensus = "bot:%s:consensus"
)

// Default TTLs
const (
	QTableTTL    = 0 // Q-tables never expire; they are the bot's learned state
	ConsensusTTL = 24 * time.Hour
)

// ErrStoreUnavailable is returned while the circuit breaker is open.
var ErrStoreUnavailable = errors.New("redis unavailable (circuit breaker open)")

// ErrNotFound is returned on a cache miss.
var ErrNotFound = errors.New("key not found")

// StateStore persists bot state (Q-tables, last consensus snapshots) in Redis
// with graceful degradation. When Redis is unavailable operations return
// ErrStoreUnavailable and callers continue with in-memory state only.
type StateStore struct {
	client *redis.Client
	logger zerolog.Logger

	mu           sync.RWMutex
	healthy      bool
	failureCount int
	lastCheck    time.Time

	maxFailures   int
	checkInterval time.Duration
}

// NewStateStore connects to Redis and verifies connectivity. A failed initial
// ping returns the store in degraded mode rather than an error, so the bot can
// start without Redis.
func NewStateStore(cfg config.RedisConfig, logger zerolog.Logger) (*StateStore, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis is not enabled in configuration")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ss := &StateStore{
		client:        client,
		logger:        logger.With().Str("component", "state_store").Logger(),
		maxFailures:   3,
		checkInterval: 30 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		ss.logger.Warn().Err(err).Msg("Initial Redis connection failed, starting degraded")
		return ss, nil
	}

	ss.healthy = true
	ss.lastCheck = time.Now()
	ss.logger.Info().Str("address", cfg.Address).Msg("Redis connected")

	return ss, nil
}

// IsHealthy returns whether Redis is currently available.
func (ss *StateStore) IsHealthy() bool {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.healthy
}

func (ss *StateStore) recordFailure() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	ss.failureCount++
	if ss.failureCount >= ss.maxFailures {
		if ss.healthy {
			ss.logger.Warn().Int("failures", ss.failureCount).Msg("Circuit breaker OPEN: Redis marked unhealthy")
		}
		ss.healthy = false
	}
}

func (ss *StateStore) recordSuccess() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if !ss.healthy {
		ss.logger.Info().Msg("Circuit breaker CLOSED: Redis recovered")
	}
	ss.healthy = true
	ss.failureCount = 0
	ss.lastCheck = time.Now()
}

// checkHealth schedules a background ping when the breaker is open and the
// check interval has elapsed.
func (ss *StateStore) checkHealth() {
	ss.mu.RLock()
	shouldCheck := !ss.healthy && time.Since(ss.lastCheck) >= ss.checkInterval
	ss.mu.RUnlock()

	if !shouldCheck {
		return
	}

	go func() {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := ss.client.Ping(pingCtx).Err(); err == nil {
			ss.recordSuccess()
		}
	}()
}

func (ss *StateStore) get(ctx context.Context, key string) ([]byte, error) {
	ss.checkHealth()

	if !ss.IsHealthy() {
		return nil, ErrStoreUnavailable
	}

	result, err := ss.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		ss.recordFailure()
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	ss.recordSuccess()
	return result, nil
}

func (ss *StateStore) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	ss.checkHealth()

	if !ss.IsHealthy() {
		return ErrStoreUnavailable
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := ss.client.Set(ctx, key, data, ttl).Err(); err != nil {
		ss.recordFailure()
		return fmt.Errorf("redis set failed: %w", err)
	}

	ss.recordSuccess()
	return nil
}

// SaveQTable persists a symbol's Q-learning table.
func (ss *StateStore) SaveQTable(ctx context.Context, symbol string, table map[string]map[string]float64) error {
	return ss.set(ctx, fmt.Sprintf(keyQTable, symbol), table, QTableTTL)
}

// LoadQTable restores a symbol's Q-learning table. Returns ErrNotFound when
// no table has been saved yet.
func (ss *StateStore) LoadQTable(ctx context.Context, symbol string) (map[string]map[string]float64, error) {
	data, err := ss.get(ctx, fmt.Sprintf(keyQTable, symbol))
	if err != nil {
		return nil, err
	}

	var table map[string]map[string]float64
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal q-table: %w", err)
	}
	return table, nil
}

// ConsensusSnapshot is the persisted record of a cycle's vote outcome.
type ConsensusSnapshot struct {
	Symbol     string    `json:"symbol"`
	Direction  string    `json:"direction"`
	Confidence float64   `json:"confidence"`
	Price      float64   `json:"price"`
	Timestamp  time.Time `json:"timestamp"`
}

// SaveConsensus records the latest vote outcome for a symbol.
func (ss *StateStore) SaveConsensus(ctx context.Context, snap ConsensusSnapshot) error {
	return ss.set(ctx, fmt.Sprintf(keyLastConsensus, snap.Symbol), snap, ConsensusTTL)
}

// LoadConsensus returns the last persisted vote outcome for a symbol.
func (ss *StateStore) LoadConsensus(ctx context.Context, symbol string) (*ConsensusSnapshot, error) {
	data, err := ss.get(ctx, fmt.Sprintf(keyLastConsensus, symbol))
	if err != nil {
		return nil, err
	}

	var snap ConsensusSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal consensus snapshot: %w", err)
	}
	return &snap, nil
}

// Close releases the Redis connection.
func (ss *StateStore) Close() error {
	return ss.client.Close()
}
