package basis

import (
	"github.com/YuminosukeSato/basisfun/core/parallel"
	"github.com/YuminosukeSato/basisfun/pkg/errors"
)

// SplineParams is the B-spline basis family of degree k on a breakpoint
// sequence. The basis size is len(breaks)+k-1; k=1 gives the piecewise-linear
// hat functions and k=3 the cubic splines.
type SplineParams struct {
	breaks *BreakSequence
	k      int
}

// NewSplineParams builds a degree-k B-spline basis on the given breakpoints.
// k must be at least 1; breaks must be sorted ascending. evenNum follows
// NewBreakSequence.
func NewSplineParams(breaks []float64, evenNum, k int) (*SplineParams, error) {
	if k < 1 {
		return nil, errors.NewOrderError("NewSplineParams", k, 1, "spline degree must be at least 1")
	}
	seq, err := NewBreakSequence(breaks, evenNum)
	if err != nil {
		return nil, err
	}
	return &SplineParams{breaks: seq, k: k}, nil
}

// Family returns Spline.
func (p *SplineParams) Family() Family { return Spline }

// Degree returns the spline degree k.
func (p *SplineParams) Degree() int { return p.k }

// Size returns the number of basis functions, len(breaks)+k-1.
func (p *SplineParams) Size() int { return p.breaks.Len() + p.k - 1 }

// Bounds returns the domain endpoints.
func (p *SplineParams) Bounds() (float64, float64) { return p.breaks.Bounds() }

// augmented returns the breakpoints padded with rep extra copies of each
// boundary.
func (p *SplineParams) augmented(rep int) []float64 {
	vals := p.breaks.Values()
	a, b := p.breaks.Bounds()
	aug := make([]float64, 0, len(vals)+2*rep)
	for i := 0; i < rep; i++ {
		aug = append(aug, a)
	}
	aug = append(aug, vals...)
	for i := 0; i < rep; i++ {
		aug = append(aug, b)
	}
	return aug
}

// Nodes returns the Greville abscissae: the sliding average of k consecutive
// augmented knots, with the boundary nodes snapped exactly to the domain
// endpoints.
func (p *SplineParams) Nodes() []float64 {
	aug := p.augmented(p.k)
	n := p.Size()
	a, b := p.breaks.Bounds()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for t := 1; t <= p.k; t++ {
			sum += aug[i+t]
		}
		out[i] = sum / float64(p.k)
	}
	out[0] = a
	out[n-1] = b
	return out
}

// EvalBase evaluates the basis at x for each requested order, all of which
// must be below the degree k. A single triangular Cox-de Boor accumulation
// serves every order: whenever the running degree reaches k-order for some
// requested order, the working buffer is sliced into a banded snapshot before
// the recursion continues. Positive orders right-multiply the chained
// difference operators, negative orders the chained integral operators; each
// chain is built once per call.
func (p *SplineParams) EvalBase(x []float64, orders ...int) ([]*Banded, error) {
	const op = "SplineParams.EvalBase"

	ords := defaultOrders(orders)
	for _, o := range ords {
		if o >= p.k {
			return nil, errors.NewOrderError(op, o, p.k-1, "derivative order must be below the spline degree")
		}
	}
	if x == nil {
		x = p.Nodes()
	}
	if len(x) == 0 {
		return nil, errors.NewValueError(op, "empty query points")
	}

	minOrder, maxOrder := minMax(ords)
	k, n, m := p.k, p.Size(), len(x)

	var derivOps, intOps []*Banded
	if maxOrder > 0 {
		var err error
		if derivOps, _, err = p.DerivativeOp(maxOrder); err != nil {
			return nil, err
		}
	}
	if minOrder < 0 {
		intOps = p.integralOp(-minOrder)
	}

	aug := p.augmented(k - minOrder)
	ind := make([]int, m)
	for i, xi := range x {
		ind[i] = lookup(aug, xi)
	}

	// bas[i] holds the running triangular recursion for point i; column jj
	// after stage j is the degree-j B-spline starting at knot ind[i]-j+jj.
	width := k - minOrder + 1
	bas := make([]float64, m*width)
	for i := 0; i < m; i++ {
		bas[i*width] = 1
	}

	out := make([]*Banded, len(ords))
	for j := 1; j <= k-minOrder; j++ {
		parallel.ParallelizeWithThreshold(m, evalParallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				row := bas[i*width : (i+1)*width]
				for jj := j - 1; jj >= 0; jj-- {
					b0 := aug[ind[i]+jj+1-j]
					b1 := aug[ind[i]+jj+1]
					temp := row[jj] / (b1 - b0)
					row[jj+1] += (x[i] - b0) * temp
					row[jj] = (b1 - x[i]) * temp
				}
			}
		})

		for oi, o := range ords {
			if o != k-j || out[oi] != nil {
				continue
			}
			snap := p.snapshot(bas, ind, m, width, j, minOrder, n-o)
			final, err := p.applyOp(snap, o, derivOps, intOps)
			if err != nil {
				return nil, err
			}
			out[oi] = final
			// Later rows requesting the same order share the snapshot.
			for oj := oi + 1; oj < len(ords); oj++ {
				if ords[oj] == o {
					out[oj] = final
				}
			}
		}
	}
	return out, nil
}

// snapshot copies the first j+1 recursion columns into a banded matrix of
// bandwidth j+1 over the cols basis functions of the degree k-order space.
func (p *SplineParams) snapshot(bas []float64, ind []int, m, width, j, minOrder, cols int) *Banded {
	shift := p.k - minOrder
	b := NewBanded(m, cols, j+1)
	for i := 0; i < m; i++ {
		b.setRow(i, ind[i]-shift, bas[i*width:i*width+j+1])
	}
	return b
}

func (p *SplineParams) applyOp(snap *Banded, order int, derivOps, intOps []*Banded) (*Banded, error) {
	switch {
	case order > 0:
		return snap.MulBanded(derivOps[order-1])
	case order < 0:
		return snap.MulBanded(intOps[-order-1])
	default:
		return snap, nil
	}
}

// DerivativeOp builds the banded difference operators mapping coefficients of
// the degree-k basis to coefficients of its derivatives. Each unit step has
// entries +/- degree/(knot gap) on the augmented breakpoints; higher orders
// chain the steps. ops[i-1] is the combined operator for order i. Negative
// order is rejected here: integration is only available through EvalBase.
func (p *SplineParams) DerivativeOp(order int) ([]*Banded, Params, error) {
	const op = "SplineParams.DerivativeOp"

	if order == 0 {
		return nil, p, nil
	}
	if order < 0 {
		return nil, nil, errors.NewOrderError(op, order, 0, "integral operators are not constructed for the spline family")
	}
	if order > p.k {
		return nil, nil, errors.NewOrderError(op, order, p.k, "derivative order exceeds the spline degree")
	}

	k, n := p.k, p.Size()
	aug := p.augmented(k)

	ops := make([]*Banded, 0, order)
	var combined *Banded
	for i := 1; i <= order; i++ {
		deg := k - i + 1
		m := n - i + 1
		d := NewBanded(m-1, m, 2)
		for r := 0; r < m-1; r++ {
			gap := aug[r+k+1] - aug[r+i]
			w := float64(deg) / gap
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
	}

	next := &SplineParams{breaks: p.breaks, k: k - order}
	return ops, next, nil
}

// integralOp builds the cumulative operators mapping coefficients of the
// degree-k basis to coefficients of its antiderivatives, normalized so each
// antiderivative vanishes at the left endpoint. ops[i-1] is the combined
// operator for i integration steps.
func (p *SplineParams) integralOp(steps int) []*Banded {
	vals := p.breaks.Values()
	a, b := p.breaks.Bounds()

	ops := make([]*Banded, 0, steps)
	var combined *Banded
	m := p.Size()
	for i := 1; i <= steps; i++ {
		deg := p.k + i - 1

		// Knot sequence of the degree deg+1 target space.
		t := make([]float64, 0, len(vals)+2*(deg+1))
		for r := 0; r <= deg; r++ {
			t = append(t, a)
		}
		t = append(t, vals...)
		for r := 0; r <= deg; r++ {
			t = append(t, b)
		}

		l := NewBanded(m+1, m, m)
		for s := 0; s < m; s++ {
			w := (t[s+deg+2] - t[s+1]) / float64(deg+1)
			for r := s + 1; r <= m; r++ {
				l.data[r*m+s] = w
			}
		}

		if combined == nil {
			combined = l
		} else {
			// Offsets are all zero, so the product cannot fail.
			combined, _ = l.MulBanded(combined)
		}
		ops = append(ops, combined)
		m++
	}
	return ops
}
