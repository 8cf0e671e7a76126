package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeReceivesMatchingEvents(t *testing.T) {
	assertion := assert.New(t)

	bus := NewEventBus()
	received := make(chan Event, 1)
	bus.Subscribe(EventGridPlanned, func(e Event) { received <- e })

	bus.PublishGridPlanned("BTCUSD", "gen-1", 6, "UP")

	select {
	case e := <-received:
		assertion.Equal(EventGridPlanned, e.Type)
		assertion.Equal("BTCUSD", e.Data["symbol"])
		assertion.Equal("gen-1", e.Data["generation"])
		assertion.False(e.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the event")
	}
}

func TestSubscribeIgnoresOtherEvents(t *testing.T) {
	bus := NewEventBus()
	received := make(chan Event, 1)
	bus.Subscribe(EventBotHalted, func(e Event) { received <- e })

	bus.PublishSignal("BTCUSD", "trend", "UP", 0.6)

	select {
	case <-received:
		t.Fatal("subscriber received an event it never subscribed to")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	assertion := assert.New(t)

	bus := NewEventBus()
	var mu sync.Mutex
	var seen []EventType
	done := make(chan struct{}, 3)
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		seen = append(seen, e.Type)
		mu.Unlock()
		done <- struct{}{}
	})

	bus.PublishSignal("BTCUSD", "trend", "UP", 0.6)
	bus.PublishConsensus("BTCUSD", "UP", 0.7)
	bus.PublishError("BTCUSD", "reconcile", assert.AnError)

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("not all events were delivered")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assertion.ElementsMatch(
		[]EventType{EventSignalGenerated, EventConsensusReached, EventError}, seen)
}
