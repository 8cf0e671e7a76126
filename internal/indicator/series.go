package indicator

import (
	"time"
)

// PricePoint is a single timestamped price observation.
type PricePoint struct {
	Price float64
	Time  time.Time
}

// PriceSeries holds a bounded, append-only window of prices for one symbol.
// The cycle driver owns the series and is its only writer; strategies and the
// indicator engine read it between cycle barriers and must not modify it.
type PriceSeries struct {
	symbol  string
	maxLen  int
	points  []PricePoint
}

// NewPriceSeries creates an empty series that keeps at most maxLen points.
func NewPriceSeries(symbol string, maxLen int) *PriceSeries {
	if maxLen <= 0 {
		maxLen = 500
	}
	return &PriceSeries{
		symbol: symbol,
		maxLen: maxLen,
		points: make([]PricePoint, 0, maxLen),
	}
}

// Symbol returns the symbol this series tracks.
func (s *PriceSeries) Symbol() string {
	return s.symbol
}

// Append adds a new observation, evicting the oldest once maxLen is exceeded.
func (s *PriceSeries) Append(price float64, t time.Time) {
	s.points = append(s.points, PricePoint{Price: price, Time: t})
	if len(s.points) > s.maxLen {
		s.points = s.points[len(s.points)-s.maxLen:]
	}
}

// Len returns the number of stored observations.
func (s *PriceSeries) Len() int {
	return len(s.points)
}

// Last returns the most recent price, or 0 if the series is empty.
func (s *PriceSeries) Last() float64 {
	if len(s.points) == 0 {
		return 0
	}
	return s.points[len(s.points)-1].Price
}

// Prices returns a copy of all stored prices, oldest first.
func (s *PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Price
	}
	return out
}

// Window returns a copy of the last n prices, oldest first. When fewer than n
// points exist, all of them are returned.
func (s *PriceSeries) Window(n int) []float64 {
	if n <= 0 {
		return nil
	}
	start := len(s.points) - n
	if start < 0 {
		start = 0
	}
	out := make([]float64, len(s.points)-start)
	for i, p := range s.points[start:] {
		out[i] = p.Price
	}
	return out
}
