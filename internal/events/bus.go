package events

import (
	"sync"
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventCycleStarted    EventType = "CYCLE_STARTED"
	EventCycleCompleted  EventType = "CYCLE_COMPLETED"
	EventCycleSkipped    EventType = "CYCLE_SKIPPED"
	EventSignalGenerated EventType = "SIGNAL_GENERATED"
	EventConsensusReached EventType = "CONSENSUS_REACHED"
	EventGridPlanned     EventType = "GRID_PLANNED"
	EventOrderPlaced     EventType = "ORDER_PLACED"
	EventOrderCancelled  EventType = "ORDER_CANCELLED"
	EventOrderFailed     EventType = "ORDER_FAILED"
	EventBotStarted      EventType = "BOT_STARTED"
	EventBotStopped      EventType = "BOT_STOPPED"
	EventBotHalted       EventType = "BOT_HALTED"
	EventError           EventType = "ERROR"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber is a function that handles events
type Subscriber func(Event)

// EventBus manages event publishing and subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]Subscriber),
		allSubs:     make([]Subscriber, 0),
	}
}

// Subscribe registers a subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for all events
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish sends an event to all subscribers. Subscribers run in their own
// goroutines so a slow handler cannot block the publisher.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if subs, ok := eb.subscribers[event.Type]; ok {
		for _, sub := range subs {
			go sub(event)
		}
	}

	for _, sub := range eb.allSubs {
		go sub(event)
	}
}

// PublishSignal publishes a strategy signal event
func (eb *EventBus) PublishSignal(symbol, strategyID, direction string, confidence float64) {
	eb.Publish(Event{
		Type: EventSignalGenerated,
		Data: map[string]interface{}{
			"symbol":      symbol,
			"strategy_id": strategyID,
			"direction":   direction,
			"confidence":  confidence,
		},
	})
}

// PublishConsensus publishes the outcome of a consensus vote
func (eb *EventBus) PublishConsensus(symbol, direction string, confidence float64) {
	eb.Publish(Event{
		Type: EventConsensusReached,
		Data: map[string]interface{}{
			"symbol":     symbol,
			"direction":  direction,
			"confidence": confidence,
		},
	})
}

// PublishGridPlanned publishes a grid planning event
func (eb *EventBus) PublishGridPlanned(symbol, generation string, levels int, bias string) {
	eb.Publish(Event{
		Type: EventGridPlanned,
		Data: map[string]interface{}{
			"symbol":     symbol,
			"generation": generation,
			"levels":     levels,
			"bias":       bias,
		},
	})
}

// PublishError publishes an error event
func (eb *EventBus) PublishError(symbol, source string, err error) {
	eb.Publish(Event{
		Type: EventError,
		Data: map[string]interface{}{
			"symbol": symbol,
			"source": source,
			"error":  err.Error(),
		},
	})
}
