package strategy

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"delta-trading-bot/internal/indicator"
)

// QLearningConfig tunes the reinforcement-style action picker.
type QLearningConfig struct {
	LearningRate   float64 // step toward the observed reward
	Discount       float64 // weight of the best next-state value
	InitialEpsilon float64 // starting exploration probability
	EpsilonDecay   float64 // updates needed to halve exploration
	VolPeriod      int     // bars for the volatility bucket
}

// DefaultQLearningConfig matches the original Q-learner's tuning.
func DefaultQLearningConfig() QLearningConfig {
	return QLearningConfig{
		LearningRate:   0.1,
		Discount:       0.99,
		InitialEpsilon: 0.2,
		EpsilonDecay:   100,
		VolPeriod:      5,
	}
}

// Outcome is the realized result of a prior decision, fed back through
// Update once the trade's P&L is known.
type Outcome struct {
	State     string    // discretized state the decision was made in
	Action    Direction // the action that was taken
	Reward    float64   // signed realized P&L measure
	NextState string    // discretized state observed after the outcome
}

// QLearningStrategy maintains a private state→action value table keyed by a
// discretized market state. Evaluate picks the highest-value action with an
// exploration probability that decays as updates accumulate; Update applies
// standard incremental value averaging toward reward plus discounted best
// next value. The table is owned exclusively by this instance; Update is
// invoked only by the cycle driver after a trade's result is known.
type QLearningStrategy struct {
	mu      sync.Mutex
	config  QLearningConfig
	table   map[string]map[Direction]float64
	updates int
	rng     *rand.Rand
}

// NewQLearningStrategy creates a Q-learning strategy seeded for reproducible
// exploration in tests.
func NewQLearningStrategy(config QLearningConfig, seed int64) *QLearningStrategy {
	if config.LearningRate <= 0 {
		config = DefaultQLearningConfig()
	}
	return &QLearningStrategy{
		config: config,
		table:  make(map[string]map[Direction]float64),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (s *QLearningStrategy) Name() string {
	return QLearningStrategyID
}

// DiscretizeState quantizes the market into an RSI bucket, a volatility
// bucket, and the sign of recent P&L.
func (s *QLearningStrategy) DiscretizeState(snapshot *indicator.Snapshot, series *indicator.PriceSeries, account AccountState) string {
	if snapshot == nil || series.Len() < s.config.VolPeriod+1 {
		return ""
	}

	rsiBucket := "mid"
	if snapshot.RSI >= 70 {
		rsiBucket = "high"
	} else if snapshot.RSI <= 30 {
		rsiBucket = "low"
	}

	volBucket := "low"
	if indicator.NormalizedVolatility(series.Prices(), s.config.VolPeriod) > 0.02 {
		volBucket = "high"
	}

	pnlBucket := "flat"
	if account.RecentPnL > 0 {
		pnlBucket = "pos"
	} else if account.RecentPnL < 0 {
		pnlBucket = "neg"
	}

	return fmt.Sprintf("%s_%s_%s", rsiBucket, volBucket, pnlBucket)
}

func (s *QLearningStrategy) Evaluate(snapshot *indicator.Snapshot, series *indicator.PriceSeries, account AccountState) Signal {
	state := s.DiscretizeState(snapshot, series, account)
	if state == "" {
		return hold(QLearningStrategyID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	actions, seen := s.table[state]
	if !seen {
		// No history for this state yet: stay conservative.
		return hold(QLearningStrategyID)
	}

	if s.rng.Float64() < s.epsilon() {
		return s.explore(state)
	}

	best, second := bestActions(actions)
	if actions[best] <= 0 {
		return hold(QLearningStrategyID)
	}

	// Confidence reflects how far the best action's value stands above the
	// runner-up.
	gap := actions[best] - actions[second]
	return Signal{
		StrategyID: QLearningStrategyID,
		Direction:  best,
		Confidence: clamp01(gap / (math.Abs(actions[best]) + 1e-9)),
	}
}

// Update applies the value-averaging rule for an observed outcome.
func (s *QLearningStrategy) Update(outcome Outcome) {
	if outcome.State == "" || outcome.Action == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.ensureState(outcome.State)
	next := s.ensureState(outcome.NextState)

	maxNext := 0.0
	for _, v := range next {
		if v > maxNext {
			maxNext = v
		}
	}

	q := current[outcome.Action]
	current[outcome.Action] = q + s.config.LearningRate*(outcome.Reward+s.config.Discount*maxNext-q)
	s.updates++
}

// Updates returns how many outcomes have been learned from.
func (s *QLearningStrategy) Updates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Table returns a deep copy of the value table for persistence.
func (s *QLearningStrategy) Table() map[string]map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]map[string]float64, len(s.table))
	for state, actions := range s.table {
		out[state] = make(map[string]float64, len(actions))
		for action, v := range actions {
			out[state][string(action)] = v
		}
	}
	return out
}

// Restore replaces the value table from a persisted snapshot.
func (s *QLearningStrategy) Restore(table map[string]map[string]float64, updates int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = make(map[string]map[Direction]float64, len(table))
	for state, actions := range table {
		s.table[state] = make(map[Direction]float64, len(actions))
		for action, v := range actions {
			s.table[state][Direction(action)] = v
		}
	}
	s.updates = updates
}

// epsilon decays the exploration probability as experience accumulates.
func (s *QLearningStrategy) epsilon() float64 {
	return s.config.InitialEpsilon / (1 + float64(s.updates)/s.config.EpsilonDecay)
}

func (s *QLearningStrategy) explore(state string) Signal {
	actions := []Direction{DirectionUp, DirectionDown, DirectionHold}
	picked := actions[s.rng.Intn(len(actions))]
	if picked == DirectionHold {
		return hold(QLearningStrategyID)
	}
	return Signal{StrategyID: QLearningStrategyID, Direction: picked, Confidence: 0.1}
}

func (s *QLearningStrategy) ensureState(state string) map[Direction]float64 {
	if state == "" {
		state = "init"
	}
	actions, ok := s.table[state]
	if !ok {
		actions = map[Direction]float64{DirectionUp: 0, DirectionDown: 0, DirectionHold: 0}
		s.table[state] = actions
	}
	return actions
}

// bestActions returns the highest and second-highest valued actions,
// breaking ties in a fixed order so evaluation stays deterministic.
func bestActions(actions map[Direction]float64) (best, second Direction) {
	order := []Direction{DirectionUp, DirectionDown, DirectionHold}
	best, second = order[0], order[1]
	for _, d := range order[1:] {
		if actions[d] > actions[best] {
			second = best
			best = d
		} else if actions[d] > actions[second] || second == best {
			second = d
		}
	}
	return best, second
}
