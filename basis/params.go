package basis

import (
	"github.com/YuminosukeSato/basisfun/pkg/errors"
)

// Family tags a one-dimensional basis family.
type Family int

const (
	// Linear is the piecewise-linear family on a breakpoint sequence.
	Linear Family = iota
	// Spline is the B-spline family of a given degree on a breakpoint
	// sequence.
	Spline
	// Chebyshev is the Chebyshev polynomial family on an interval.
	Chebyshev
)

// String returns the family name.
func (f Family) String() string {
	switch f {
	case Linear:
		return "linear"
	case Spline:
		return "spline"
	case Chebyshev:
		return "chebyshev"
	default:
		return "unknown"
	}
}

// Params describes one dimension of a basis: a family tag, the number of
// basis functions and the domain bounds, together with node generation,
// basis-matrix evaluation and derivative/integral operator construction.
// Implementations are immutable once constructed; operators that change the
// effective order return new Params rather than mutating the receiver.
type Params interface {
	// Family returns the family tag.
	Family() Family

	// Size returns the number of basis functions.
	Size() int

	// Bounds returns the domain endpoints [a, b].
	Bounds() (float64, float64)

	// Nodes returns the canonical interpolation nodes, one per basis
	// function, sorted ascending.
	Nodes() []float64

	// EvalBase evaluates the basis at the query points x for each requested
	// derivative (positive) or integral (negative) order, returning one
	// banded matrix per order. A nil x evaluates at Nodes(); no orders means
	// a single order-0 evaluation.
	EvalBase(x []float64, orders ...int) ([]*Banded, error)

	// DerivativeOp constructs the operators that map coefficients on this
	// basis to coefficients of its derivatives. ops[i-1] is the combined
	// operator for order i; the returned Params describe the basis the
	// final operator maps into.
	DerivativeOp(order int) (ops []*Banded, next Params, err error)
}

// NewParams constructs the Params variant for a family tag. breaks and
// evenNum follow NewBreakSequence; extra is the spline degree for Spline and
// the basis size for Chebyshev (which reads only the first and last break as
// its interval).
func NewParams(family Family, breaks []float64, evenNum, extra int) (Params, error) {
	switch family {
	case Linear:
		return NewLinParams(breaks, evenNum)
	case Spline:
		return NewSplineParams(breaks, evenNum, extra)
	case Chebyshev:
		if len(breaks) < 2 {
			return nil, errors.NewBreaksError("NewParams", "Chebyshev requires interval endpoints", len(breaks))
		}
		return NewChebParams(extra, breaks[0], breaks[len(breaks)-1])
	default:
		return nil, errors.NewValueError("NewParams", "unknown basis family")
	}
}

// defaultOrders normalizes the variadic order list of EvalBase.
func defaultOrders(orders []int) []int {
	if len(orders) == 0 {
		return []int{0}
	}
	return orders
}

func minMax(orders []int) (int, int) {
	lo, hi := orders[0], orders[0]
	for _, o := range orders[1:] {
		if o < lo {
			lo = o
		}
		if o > hi {
			hi = o
		}
	}
	return lo, hi
}
