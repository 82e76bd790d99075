package basis

import (
	"math"

	"github.com/YuminosukeSato/basisfun/pkg/errors"
)

// ChebParams is the Chebyshev polynomial basis family: n polynomials
// T_0..T_{n-1} mapped onto the interval [a, b]. Unlike the piecewise
// families, every basis function is supported on the whole interval, so the
// evaluation rows are dense and wrapped as full-bandwidth banded matrices to
// keep the family contract uniform.
type ChebParams struct {
	n    int
	a, b float64
}

// NewChebParams builds an n-function Chebyshev basis on [a, b].
func NewChebParams(n int, a, b float64) (*ChebParams, error) {
	const op = "NewChebParams"
	if n < 2 {
		return nil, errors.NewValueError(op, "basis size must be at least 2")
	}
	if !(a < b) {
		return nil, errors.NewBreaksError(op, "interval endpoints must satisfy a < b", 2)
	}
	return &ChebParams{n: n, a: a, b: b}, nil
}

// Family returns Chebyshev.
func (p *ChebParams) Family() Family { return Chebyshev }

// Size returns the number of basis functions.
func (p *ChebParams) Size() int { return p.n }

// Bounds returns the interval endpoints.
func (p *ChebParams) Bounds() (float64, float64) { return p.a, p.b }

// Nodes returns the extended Chebyshev nodes: the Gauss-Chebyshev points
// stretched so the extreme nodes land exactly on the interval endpoints.
func (p *ChebParams) Nodes() []float64 {
	mid := (p.a + p.b) / 2
	half := (p.b - p.a) / 2
	stretch := 1 / math.Cos(math.Pi/(2*float64(p.n)))
	out := make([]float64, p.n)
	for i := 0; i < p.n; i++ {
		theta := math.Pi * (2*float64(i) + 1) / (2 * float64(p.n))
		out[i] = mid - half*stretch*math.Cos(theta)
	}
	out[0] = p.a
	out[p.n-1] = p.b
	return out
}

// EvalBase evaluates the basis at x for each requested order. Positive orders
// run the derivative recurrences of the Chebyshev three-term recurrence
// directly; negative orders evaluate the enlarged basis and right-multiply
// the chained integral operators.
func (p *ChebParams) EvalBase(x []float64, orders ...int) ([]*Banded, error) {
	const op = "ChebParams.EvalBase"

	ords := defaultOrders(orders)
	for _, o := range ords {
		if o >= p.n {
			return nil, errors.NewOrderError(op, o, p.n-1, "derivative order must be below the basis size")
		}
	}
	if x == nil {
		x = p.Nodes()
	}
	if len(x) == 0 {
		return nil, errors.NewValueError(op, "empty query points")
	}

	minOrder, _ := minMax(ords)
	var intOps []*Banded
	var enlarged *ChebParams
	if minOrder < 0 {
		intOps = p.integralOp(-minOrder)
		enlarged = &ChebParams{n: p.n - minOrder, a: p.a, b: p.b}
	}

	out := make([]*Banded, len(ords))
	cache := make(map[int]*Banded, len(ords))
	for i, o := range ords {
		if b, ok := cache[o]; ok {
			out[i] = b
			continue
		}
		var b *Banded
		var err error
		if o >= 0 {
			b = p.evalRecurrence(x, o)
		} else {
			base := enlarged.evalRecurrence(x, 0)
			if b, err = base.MulBanded(intOps[-o-1]); err != nil {
				return nil, err
			}
		}
		cache[o] = b
		out[i] = b
	}
	return out, nil
}

// evalRecurrence fills the order-d derivative values of T_0..T_{n-1} via
// T^(d)_j = 2d T^(d-1)_{j-1} + 2z T^(d)_{j-1} - T^(d)_{j-2} on the mapped
// coordinate z, then applies the chain-rule factor (2/(b-a))^d.
func (p *ChebParams) evalRecurrence(x []float64, d int) *Banded {
	n, m := p.n, len(x)
	out := NewBanded(m, n, n)
	scale := math.Pow(2/(p.b-p.a), float64(d))

	layers := make([][]float64, d+1)
	for l := range layers {
		layers[l] = make([]float64, n)
	}
	for i := 0; i < m; i++ {
		z := 2*(x[i]-p.a)/(p.b-p.a) - 1
		for l := 0; l <= d; l++ {
			lay := layers[l]
			lay[0] = 0
			if l == 0 {
				lay[0] = 1
			}
			if n > 1 {
				switch l {
				case 0:
					lay[1] = z
				case 1:
					lay[1] = 1
				default:
					lay[1] = 0
				}
			}
			for j := 2; j < n; j++ {
				lay[j] = 2*z*lay[j-1] - lay[j-2]
				if l > 0 {
					lay[j] += 2 * float64(l) * layers[l-1][j-1]
				}
			}
		}
		row := out.data[i*n : (i+1)*n]
		for j := 0; j < n; j++ {
			row[j] = scale * layers[d][j]
		}
	}
	return out
}

// DerivativeOp builds the coefficient-space operators: differentiation for
// positive order, integration with left-endpoint normalization for negative
// order. ops[i-1] is the combined operator for order i.
func (p *ChebParams) DerivativeOp(order int) ([]*Banded, Params, error) {
	const op = "ChebParams.DerivativeOp"

	if order == 0 {
		return nil, p, nil
	}
	if order >= p.n {
		return nil, nil, errors.NewOrderError(op, order, p.n-1, "derivative order must be below the basis size")
	}

	if order > 0 {
		ops := make([]*Banded, 0, order)
		var combined *Banded
		nn := p.n
		for i := 1; i <= order; i++ {
			d := p.diffStep(nn)
			var err error
			if combined == nil {
				combined = d
			} else if combined, err = d.MulBanded(combined); err != nil {
				return nil, nil, err
			}
			ops = append(ops, combined)
			nn--
		}
		next := &ChebParams{n: p.n - order, a: p.a, b: p.b}
		return ops, next, nil
	}

	ops := p.integralOp(-order)
	next := &ChebParams{n: p.n - order, a: p.a, b: p.b}
	return ops, next, nil
}

// diffStep maps nn Chebyshev coefficients on [a,b] to the nn-1 coefficients
// of the derivative: d_i = (4/(b-a)) * sum of j*c_j over j > i with j-i odd,
// halved for i = 0.
func (p *ChebParams) diffStep(nn int) *Banded {
	d := NewBanded(nn-1, nn, nn)
	scale := 4 / (p.b - p.a)
	for i := 0; i < nn-1; i++ {
		for j := i + 1; j < nn; j++ {
			if (j-i)%2 == 0 {
				continue
			}
			v := scale * float64(j)
			if i == 0 {
				v /= 2
			}
			d.data[i*nn+j] = v
		}
	}
	return d
}

// integralOp builds the cumulative coefficient-space operators. A single step
// uses the antiderivative identities int T_0 = T_1, int T_1 = (T_2+T_0)/4 and
// int T_j = T_{j+1}/(2(j+1)) - T_{j-1}/(2(j-1)) on the mapped coordinate,
// scaled by (b-a)/2, with the T_0 row adjusted so each antiderivative
// vanishes at the left endpoint (z = -1, where T_j = (-1)^j).
func (p *ChebParams) integralOp(steps int) []*Banded {
	ops := make([]*Banded, 0, steps)
	var combined *Banded
	nn := p.n
	for i := 1; i <= steps; i++ {
		l := NewBanded(nn+1, nn, nn)
		scale := (p.b - p.a) / 2
		for j := 0; j < nn; j++ {
			switch j {
			case 0:
				l.data[1*nn+0] = scale
			case 1:
				l.data[2*nn+1] = scale / 4
			default:
				l.data[(j+1)*nn+j] = scale / (2 * float64(j+1))
				l.data[(j-1)*nn+j] -= scale / (2 * float64(j-1))
			}
		}
		for j := 0; j < nn; j++ {
			var atA float64
			for r := 1; r <= nn; r++ {
				sign := 1.0
				if r%2 == 1 {
					sign = -1
				}
				atA += sign * l.data[r*nn+j]
			}
			l.data[j] = -atA
		}

		if combined == nil {
			combined = l
		} else {
			combined, _ = l.MulBanded(combined)
		}
		ops = append(ops, combined)
		nn++
	}
	return ops
}
