package buffer

import (
	"math"
)

// Stats is a set of statistical properties of a stream of numbers.
type Stats struct {
	count          int
	first, last    float64
	min, max       float64
	mean, dSquared float64
	ema, w         float64
}

// NewStats creates a new Stats,
// the exponential moving average is calculated over the given span.
func NewStats(span int) *Stats {
	if span < 1 {
		span = 1
	}
	return &Stats{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
		w:   2 / float64(span+1),
	}
}

// Push adds another element to the set.
func (s *Stats) Push(v float64) {
	s.count++
	diff := (v - s.mean) / float64(s.count)
	mean := s.mean + diff
	squaredDiff := (v - mean) * (v - s.mean)
	s.dSquared += squaredDiff
	s.mean = mean

	if s.count == 1 {
		s.first = v
		s.ema = v
	} else {
		s.ema = v*s.w + s.ema*(1-s.w)
	}

	if s.min > v {
		s.min = v
	}

	if s.max < v {
		s.max = v
	}

	s.last = v
}

// Avg returns the average value of the set.
func (s Stats) Avg() float64 {
	return s.mean
}

// EMA is the exponential moving average of the set.
func (s Stats) EMA() float64 {
	return s.ema
}

// Count returns the number of elements.
func (s Stats) Count() int {
	return s.count
}

func (s Stats) First() float64 {
	return s.first
}

func (s Stats) Last() float64 {
	return s.last
}

func (s Stats) Min() float64 {
	if s.count == 0 {
		return 0
	}
	return s.min
}

func (s Stats) Max() float64 {
	if s.count == 0 {
		return 0
	}
	return s.max
}

// Diff returns the difference of the last and the first element.
func (s Stats) Diff() float64 {
	return s.last - s.first
}

// StDev is the standard deviation of the set.
func (s Stats) StDev() float64 {
	if s.count == 0 {
		return 0
	}
	return math.Sqrt(s.dSquared / float64(s.count))
}

// Summary is a serialisable view of the stats.
type Summary struct {
	Count int     `json:"count"`
	First float64 `json:"first"`
	Last  float64 `json:"last"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Avg   float64 `json:"avg"`
	EMA   float64 `json:"ema"`
	StDev float64 `json:"stdev"`
}

// Summary returns the current values of the stats.
func (s Stats) Summary() Summary {
	return Summary{
		Count: s.count,
		First: s.first,
		Last:  s.last,
		Min:   s.Min(),
		Max:   s.Max(),
		Avg:   s.mean,
		EMA:   s.ema,
		StDev: s.StDev(),
	}
}
