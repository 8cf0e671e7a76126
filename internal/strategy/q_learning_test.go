package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"delta-trading-bot/internal/indicator"
)

func TestQLearningUnseenStateHolds(t *testing.T) {
	assertion := assert.New(t)

	s := NewQLearningStrategy(DefaultQLearningConfig(), 1)
	series := seriesFrom(linear(100, 1, 40))
	snap := &indicator.Snapshot{RSI: 50}

	sig := s.Evaluate(snap, series, AccountState{})

	assertion.Equal(QLearningStrategyID, sig.StrategyID)
	assertion.Equal(DirectionHold, sig.Direction)
	assertion.Zero(sig.Confidence)
}

func TestQLearningLearnsFromOutcomes(t *testing.T) {
	assertion := assert.New(t)

	cfg := DefaultQLearningConfig()
	cfg.InitialEpsilon = 0 // no exploration, deterministic evaluation
	s := NewQLearningStrategy(cfg, 1)

	series := seriesFrom(choppy(100, 2, 40))
	snap := &indicator.Snapshot{RSI: 50}
	state := s.DiscretizeState(snap, series, AccountState{})
	assertion.NotEmpty(state)

	for i := 0; i < 20; i++ {
		s.Update(Outcome{State: state, Action: DirectionUp, Reward: 1.0, NextState: state})
	}
	assertion.Equal(20, s.Updates())

	sig := s.Evaluate(snap, series, AccountState{})
	assertion.Equal(DirectionUp, sig.Direction)
	assertion.Greater(sig.Confidence, 0.0)
}

func TestQLearningNegativeValuesHold(t *testing.T) {
	assertion := assert.New(t)

	cfg := DefaultQLearningConfig()
	cfg.InitialEpsilon = 0
	s := NewQLearningStrategy(cfg, 1)

	series := seriesFrom(choppy(100, 2, 40))
	snap := &indicator.Snapshot{RSI: 50}
	state := s.DiscretizeState(snap, series, AccountState{})

	s.Update(Outcome{State: state, Action: DirectionUp, Reward: -1.0, NextState: state})
	s.Update(Outcome{State: state, Action: DirectionDown, Reward: -1.0, NextState: state})

	sig := s.Evaluate(snap, series, AccountState{})
	assertion.Equal(DirectionHold, sig.Direction, "no action with positive value means hold")
}

func TestQLearningEpsilonDecays(t *testing.T) {
	assertion := assert.New(t)

	s := NewQLearningStrategy(DefaultQLearningConfig(), 1)
	series := seriesFrom(choppy(100, 2, 40))
	snap := &indicator.Snapshot{RSI: 50}
	state := s.DiscretizeState(snap, series, AccountState{})

	before := s.epsilon()
	for i := 0; i < 100; i++ {
		s.Update(Outcome{State: state, Action: DirectionUp, Reward: 0.1, NextState: state})
	}
	after := s.epsilon()

	assertion.Less(after, before)
	assertion.InDelta(before/2, after, 1e-9, "exploration halves after EpsilonDecay updates")
}

func TestQLearningTableRoundTrip(t *testing.T) {
	assertion := assert.New(t)

	cfg := DefaultQLearningConfig()
	cfg.InitialEpsilon = 0
	src := NewQLearningStrategy(cfg, 1)

	series := seriesFrom(choppy(100, 2, 40))
	snap := &indicator.Snapshot{RSI: 50}
	state := src.DiscretizeState(snap, series, AccountState{})
	for i := 0; i < 10; i++ {
		src.Update(Outcome{State: state, Action: DirectionDown, Reward: 1.0, NextState: state})
	}

	dst := NewQLearningStrategy(cfg, 1)
	dst.Restore(src.Table(), src.Updates())

	want := src.Evaluate(snap, series, AccountState{})
	got := dst.Evaluate(snap, series, AccountState{})

	assertion.Equal(want.Direction, got.Direction)
	assertion.InDelta(want.Confidence, got.Confidence, 1e-9)
	assertion.Equal(DirectionDown, got.Direction)
}

func TestQLearningDiscretization(t *testing.T) {
	assertion := assert.New(t)

	s := NewQLearningStrategy(DefaultQLearningConfig(), 1)
	series := seriesFrom(linear(100, 0, 40))

	assertion.Equal("high_low_pos",
		s.DiscretizeState(&indicator.Snapshot{RSI: 75}, series, AccountState{RecentPnL: 5}))
	assertion.Equal("low_low_neg",
		s.DiscretizeState(&indicator.Snapshot{RSI: 25}, series, AccountState{RecentPnL: -5}))
	assertion.Equal("mid_low_flat",
		s.DiscretizeState(&indicator.Snapshot{RSI: 50}, series, AccountState{}))
	assertion.Empty(s.DiscretizeState(nil, series, AccountState{}), "nil snapshot cannot be discretized")
}
