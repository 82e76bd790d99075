// Package basis implements families of piecewise-polynomial and orthogonal
// basis functions (piecewise linear, B-spline, Chebyshev), compact banded
// storage for their evaluations, and tensor-product composition of
// one-dimensional bases into multi-dimensional interpolation bases.
package basis

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/basisfun/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// evenTolFactor scales the mean absolute breakpoint value into the maximum
// deviation an evenly-spaced sequence may have from the exact linspace.
const evenTolFactor = 5e-15

// BreakSequence is a validated, sorted one-dimensional coordinate array.
// A sequence constructed with evenNum > 0 is stored as the exact linspace of
// that length, which lets Lookup compute interval indices arithmetically
// instead of by binary search.
type BreakSequence struct {
	vals    []float64
	evenNum int // 0 means irregular spacing
}

// NewBreakSequence validates breaks and returns the sequence. breaks must be
// sorted ascending with at least two points. With evenNum > 0, a two-point
// input is expanded to a uniform grid of evenNum points; longer inputs must
// already be that uniform grid within tolerance.
func NewBreakSequence(breaks []float64, evenNum int) (*BreakSequence, error) {
	const op = "NewBreakSequence"

	if len(breaks) < 2 {
		return nil, errors.NewBreaksError(op, "at least two breakpoints required", len(breaks))
	}
	for i := 1; i < len(breaks); i++ {
		if breaks[i] < breaks[i-1] {
			return nil, errors.NewBreaksError(op, "breakpoints must be sorted ascending", len(breaks))
		}
	}
	if breaks[0] == breaks[len(breaks)-1] {
		return nil, errors.NewBreaksError(op, "breakpoints span an empty interval", len(breaks))
	}

	if evenNum == 0 {
		vals := make([]float64, len(breaks))
		copy(vals, breaks)
		return &BreakSequence{vals: vals}, nil
	}

	if evenNum < 2 {
		return nil, errors.NewBreaksError(op, "evenNum must be 0 or at least 2", len(breaks))
	}
	if len(breaks) == 2 {
		vals := floats.Span(make([]float64, evenNum), breaks[0], breaks[1])
		return &BreakSequence{vals: vals, evenNum: evenNum}, nil
	}
	if len(breaks) != evenNum {
		return nil, errors.NewBreaksError(op, "breakpoint count does not match evenNum", len(breaks))
	}

	span := floats.Span(make([]float64, evenNum), breaks[0], breaks[len(breaks)-1])
	var meanAbs float64
	for _, v := range breaks {
		meanAbs += math.Abs(v)
	}
	meanAbs /= float64(len(breaks))
	tol := evenTolFactor * meanAbs
	for i, v := range breaks {
		if math.Abs(v-span[i]) > tol {
			return nil, errors.NewBreaksError(op, "breakpoints are not evenly spaced within tolerance", len(breaks))
		}
	}
	// Store the exact linspace so the O(1) lookup arithmetic is consistent
	// with the stored coordinates.
	return &BreakSequence{vals: span, evenNum: evenNum}, nil
}

// Len returns the number of breakpoints.
func (s *BreakSequence) Len() int { return len(s.vals) }

// EvenNum returns the evenly-spaced count, or 0 for irregular sequences.
func (s *BreakSequence) EvenNum() int { return s.evenNum }

// At returns the i-th breakpoint.
func (s *BreakSequence) At(i int) float64 { return s.vals[i] }

// Bounds returns the domain endpoints.
func (s *BreakSequence) Bounds() (float64, float64) {
	return s.vals[0], s.vals[len(s.vals)-1]
}

// Values returns the backing coordinate slice. Callers must not modify it.
func (s *BreakSequence) Values() []float64 { return s.vals }

// Lookup returns the index i of the interval containing x, so that
// vals[i] <= x < vals[i+1]. The right boundary maps to the last interval and
// out-of-range points clamp to the nearest valid interval.
func (s *BreakSequence) Lookup(x float64) int {
	if s.evenNum > 0 {
		n := len(s.vals)
		step := (s.vals[n-1] - s.vals[0]) / float64(n-1)
		i := int(math.Floor((x - s.vals[0]) / step))
		if i < 0 {
			i = 0
		}
		if i > n-2 {
			i = n - 2
		}
		return i
	}
	return lookup(s.vals, x)
}

// LookupAll returns Lookup for every query point.
func (s *BreakSequence) LookupAll(xs []float64) []int {
	ind := make([]int, len(xs))
	for i, x := range xs {
		ind[i] = s.Lookup(x)
	}
	return ind
}

// lookup returns the interval index for x on a sorted table that may carry
// repeated boundary knots, as the augmented knot sequences of the B-spline
// recursion do. Ties resolve to the rightmost index with table[i] <= x, then
// the result clamps into the first and last nondegenerate intervals so the
// recursion denominators table[i+1]-table[i] stay nonzero.
func lookup(table []float64, x float64) int {
	n := len(table)

	lo := 0
	for lo+1 < n && table[lo+1] == table[0] {
		lo++
	}
	firstOfLastRun := n - 1
	for firstOfLastRun > 0 && table[firstOfLastRun-1] == table[n-1] {
		firstOfLastRun--
	}
	hi := firstOfLastRun - 1

	idx := sort.SearchFloat64s(table, x)
	for idx < n && table[idx] == x {
		idx++
	}
	idx--

	if idx < lo {
		idx = lo
	}
	if idx > hi {
		idx = hi
	}
	return idx
}
