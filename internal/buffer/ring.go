package buffer

import (
	"gonum.org/v1/gonum/stat"
)

// Ring is a ring buffer keeping the last values pushed to it.
type Ring struct {
	index  int
	count  int
	values []float64
}

// NewRing creates a new ring with the given buffer size.
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{
		values: make([]float64, size),
	}
}

// Size returns the number of elements within the ring.
func (r *Ring) Size() int {
	if r.count < len(r.values) {
		return r.count
	}
	return len(r.values)
}

// Cap returns the maximum number of elements the ring keeps.
func (r *Ring) Cap() int {
	return len(r.values)
}

// Push adds an element to the ring, overwriting the oldest one when full.
func (r *Ring) Push(v float64) {
	r.values[r.index] = v
	r.index = r.next(r.index)
	r.count++
}

func (r *Ring) next(index int) int {
	return (index + 1) % len(r.values)
}

// Get returns the ring elements from the oldest to the latest.
func (r *Ring) Get() []float64 {
	l := r.Size()
	v := make([]float64, l)
	for i := 0; i < l; i++ {
		idx := i
		if r.count > len(r.values) {
			idx = (r.index + i) % len(r.values)
		}
		v[i] = r.values[idx]
	}
	return v
}

// Mean returns the mean and standard deviation of the elements in the ring.
func (r *Ring) Mean() (float64, float64) {
	values := r.Get()
	if len(values) == 0 {
		return 0, 0
	}
	if len(values) == 1 {
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}

// Window is a serialisable view of the ring contents.
type Window struct {
	Size  int     `json:"size"`
	Cap   int     `json:"cap"`
	Mean  float64 `json:"mean"`
	StDev float64 `json:"stdev"`
}

// Window returns the size, capacity, mean and standard deviation of the ring.
func (r *Ring) Window() Window {
	mean, std := r.Mean()
	return Window{
		Size:  r.Size(),
		Cap:   r.Cap(),
		Mean:  mean,
		StDev: std,
	}
}
