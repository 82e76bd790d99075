package basis

import (
	"github.com/YuminosukeSato/basisfun/core/parallel"
	"github.com/YuminosukeSato/basisfun/pkg/errors"
)

// Query-point counts at or below this run sequentially.
const evalParallelThreshold = 1000

// LinParams is the piecewise-linear basis family: one hat function per
// breakpoint, so the basis size equals the breakpoint count and the nodes are
// the breakpoints themselves.
type LinParams struct {
	breaks *BreakSequence
}

// NewLinParams builds a piecewise-linear basis on the given breakpoints,
// which must be strictly increasing. evenNum follows NewBreakSequence.
func NewLinParams(breaks []float64, evenNum int) (*LinParams, error) {
	seq, err := NewBreakSequence(breaks, evenNum)
	if err != nil {
		return nil, err
	}
	for i := 1; i < seq.Len(); i++ {
		if seq.At(i) <= seq.At(i-1) {
			return nil, errors.NewBreaksError("NewLinParams", "breakpoints must be strictly increasing", seq.Len())
		}
	}
	return &LinParams{breaks: seq}, nil
}

// Family returns Linear.
func (p *LinParams) Family() Family { return Linear }

// Size returns the number of basis functions.
func (p *LinParams) Size() int { return p.breaks.Len() }

// Bounds returns the domain endpoints.
func (p *LinParams) Bounds() (float64, float64) { return p.breaks.Bounds() }

// Nodes returns the breakpoints.
func (p *LinParams) Nodes() []float64 {
	out := make([]float64, p.breaks.Len())
	copy(out, p.breaks.Values())
	return out
}

// EvalBase evaluates the basis at x for each requested order. Order 0 rows
// carry the two local hat weights; nonzero orders evaluate the re-derived
// basis and right-multiply the matching derivative or integral operator.
func (p *LinParams) EvalBase(x []float64, orders ...int) ([]*Banded, error) {
	const op = "LinParams.EvalBase"

	ords := defaultOrders(orders)
	if x == nil {
		x = p.Nodes()
	}
	if len(x) == 0 {
		return nil, errors.NewValueError(op, "empty query points")
	}

	out := make([]*Banded, len(ords))
	cache := make(map[int]*Banded, len(ords))
	for i, o := range ords {
		if b, ok := cache[o]; ok {
			out[i] = b
			continue
		}
		b, err := p.evalOrder(x, o)
		if err != nil {
			return nil, err
		}
		cache[o] = b
		out[i] = b
	}
	return out, nil
}

func (p *LinParams) evalOrder(x []float64, order int) (*Banded, error) {
	if order == 0 {
		return p.evalBase0(x), nil
	}
	ops, next, err := p.DerivativeOp(order)
	if err != nil {
		return nil, err
	}
	steps := order
	if steps < 0 {
		steps = -steps
	}
	b0 := next.(*LinParams).evalBase0(x)
	return b0.MulBanded(ops[steps-1])
}

// evalBase0 emits the two nonzero hat weights (1-z, z) per query point, where
// z is the fractional position inside the point's interval.
func (p *LinParams) evalBase0(x []float64) *Banded {
	n := p.breaks.Len()
	b := NewBanded(len(x), n, 2)
	parallel.ParallelizeWithThreshold(len(x), evalParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ind := p.breaks.Lookup(x[i])
			left, right := p.breaks.At(ind), p.breaks.At(ind+1)
			z := (x[i] - left) / (right - left)
			b.offsets[i] = ind
			b.data[2*i] = 1 - z
			b.data[2*i+1] = z
		}
	})
	return b
}

// DerivativeOp builds the derivative (order > 0) or integral (order < 0)
// operators. Each derivative step maps values on the current breakpoints to
// slopes on their midpoints, shrinking the break set by one; each integral
// step grows the break set by extrapolated boundary midpoints and builds a
// cumulative-sum operator normalized so the antiderivative vanishes at the
// original left endpoint. ops[i-1] is the combined operator for order i.
func (p *LinParams) DerivativeOp(order int) ([]*Banded, Params, error) {
	const op = "LinParams.DerivativeOp"

	if order == 0 {
		return nil, p, nil
	}

	cur := append([]float64(nil), p.breaks.Values()...)
	a := cur[0]

	if order > 0 {
		if order > len(cur)-2 {
			return nil, nil, errors.NewOrderError(op, order, len(cur)-2, "too few breakpoints remain for this derivative order")
		}
		ops := make([]*Banded, 0, order)
		var combined *Banded
		for j := 0; j < order; j++ {
			nn := len(cur)
			d := NewBanded(nn-1, nn, 2)
			for r := 0; r < nn-1; r++ {
				w := 1 / (cur[r+1] - cur[r])
				d.offsets[r] = r
				d.data[2*r] = -w
				d.data[2*r+1] = w
			}
			var err error
			if combined == nil {
				combined = d
			} else if combined, err = d.MulBanded(combined); err != nil {
				return nil, nil, err
			}
			ops = append(ops, combined)
			cur = midpoints(cur)
		}
		next := &LinParams{breaks: &BreakSequence{vals: cur}}
		return ops, next, nil
	}

	ops := make([]*Banded, 0, -order)
	var combined *Banded
	for j := 0; j < -order; j++ {
		newb := extendedMidpoints(cur)
		nn := len(cur)
		l := NewBanded(nn+1, nn, nn)
		for r := 1; r <= nn; r++ {
			for s := 0; s < r && s < nn; s++ {
				l.data[r*nn+s] = newb[s+1] - newb[s]
			}
		}

		// Normalize so the antiderivative is zero at the original left
		// endpoint: subtract the interpolated row at a from every row.
		ind := lookup(newb, a)
		z := (a - newb[ind]) / (newb[ind+1] - newb[ind])
		for s := 0; s < nn; s++ {
			ra := (1-z)*l.data[ind*nn+s] + z*l.data[(ind+1)*nn+s]
			for r := 0; r <= nn; r++ {
				l.data[r*nn+s] -= ra
			}
		}

		var err error
		if combined == nil {
			combined = l
		} else if combined, err = l.MulBanded(combined); err != nil {
			return nil, nil, err
		}
		ops = append(ops, combined)
		cur = newb
	}
	next := &LinParams{breaks: &BreakSequence{vals: cur}}
	return ops, next, nil
}

func midpoints(breaks []float64) []float64 {
	out := make([]float64, len(breaks)-1)
	for i := range out {
		out[i] = (breaks[i] + breaks[i+1]) / 2
	}
	return out
}

// extendedMidpoints returns the midpoints of breaks together with boundary
// points extrapolated half an interval beyond each end.
func extendedMidpoints(breaks []float64) []float64 {
	n := len(breaks)
	out := make([]float64, n+1)
	out[0] = (3*breaks[0] - breaks[1]) / 2
	for i := 0; i < n-1; i++ {
		out[i+1] = (breaks[i] + breaks[i+1]) / 2
	}
	out[n] = (3*breaks[n-1] - breaks[n-2]) / 2
	return out
}
