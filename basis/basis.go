package basis

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/basisfun/pkg/errors"
	"github.com/YuminosukeSato/basisfun/pkg/log"
)

// Basis is an ordered sequence of one-dimensional basis params, one per
// dimension, with cached per-dimension sizes and bounds. The total basis size
// is the product of the per-dimension sizes; point and basis-function
// indexing both run with the first dimension varying fastest.
type Basis struct {
	params []Params
	sizes  []int
	lo, hi []float64
}

// NewBasis composes one Params per dimension into a multi-dimensional basis.
func NewBasis(params ...Params) (*Basis, error) {
	if len(params) == 0 {
		return nil, errors.NewDimensionError("NewBasis", 1, 0, 1)
	}
	b := &Basis{
		params: append([]Params(nil), params...),
		sizes:  make([]int, len(params)),
		lo:     make([]float64, len(params)),
		hi:     make([]float64, len(params)),
	}
	for d, p := range params {
		b.sizes[d] = p.Size()
		b.lo[d], b.hi[d] = p.Bounds()
	}
	return b, nil
}

// NumDims returns the number of dimensions.
func (b *Basis) NumDims() int { return len(b.params) }

// Sizes returns the per-dimension basis sizes.
func (b *Basis) Sizes() []int { return append([]int(nil), b.sizes...) }

// Size returns the total basis size, the product of per-dimension sizes.
func (b *Basis) Size() int {
	total := 1
	for _, s := range b.sizes {
		total *= s
	}
	return total
}

// Params returns the params of dimension d.
func (b *Basis) Params(d int) Params { return b.params[d] }

// Bounds returns the per-dimension lower and upper domain bounds.
func (b *Basis) Bounds() ([]float64, []float64) {
	return append([]float64(nil), b.lo...), append([]float64(nil), b.hi...)
}

// Nodes returns the full Cartesian node grid (one point per row, first
// dimension fastest) together with the per-dimension node sequences.
func (b *Basis) Nodes() (*mat.Dense, [][]float64) {
	perDim := make([][]float64, b.NumDims())
	for d, p := range b.params {
		perDim[d] = p.Nodes()
	}
	return gridmake(perDim), perDim
}

// gridmake expands per-dimension coordinate vectors into the Cartesian
// product grid with the first dimension varying fastest.
func gridmake(cols [][]float64) *mat.Dense {
	total := 1
	for _, c := range cols {
		total *= len(c)
	}
	out := mat.NewDense(total, len(cols), nil)
	inner := 1
	for d, c := range cols {
		for p := 0; p < total; p++ {
			out.Set(p, d, c[(p/inner)%len(c)])
		}
		inner *= len(c)
	}
	return out
}

// normalizeOrders validates the requested multi-order rows against the
// basis dimensionality, defaulting to the single all-zero row.
func (b *Basis) normalizeOrders(op string, orders [][]int) ([][]int, error) {
	if len(orders) == 0 {
		return [][]int{make([]int, b.NumDims())}, nil
	}
	for _, row := range orders {
		if len(row) != b.NumDims() {
			return nil, errors.NewDimensionError(op, b.NumDims(), len(row), 1)
		}
	}
	return orders, nil
}

// evalDims runs one EvalBase call per dimension covering the unique orders
// that dimension needs across all requested rows, then distributes the
// results into the [row][dim] layout.
func (b *Basis) evalDims(op string, xs [][]float64, orders [][]int) ([][]*Banded, error) {
	n := b.NumDims()
	vals := make([][]*Banded, len(orders))
	for i := range vals {
		vals[i] = make([]*Banded, n)
	}
	for d := 0; d < n; d++ {
		var unique []int
		pos := make(map[int]int)
		for _, row := range orders {
			if _, ok := pos[row[d]]; !ok {
				pos[row[d]] = len(unique)
				unique = append(unique, row[d])
			}
		}
		bs, err := b.params[d].EvalBase(xs[d], unique...)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: dimension %d", op, d)
		}
		for i, row := range orders {
			vals[i][d] = bs[pos[row[d]]]
		}
	}
	return vals, nil
}

// EvalGrid evaluates the basis on the tensor grid spanned by the per-dim
// query vectors xs, producing the Tensor representation. A nil xs evaluates
// at the basis nodes.
func (b *Basis) EvalGrid(xs [][]float64, orders [][]int) (*BasisMatrix, error) {
	const op = "Basis.EvalGrid"

	ords, err := b.normalizeOrders(op, orders)
	if err != nil {
		return nil, err
	}
	if xs == nil {
		xs = make([][]float64, b.NumDims())
		for d, p := range b.params {
			xs[d] = p.Nodes()
		}
	}
	if len(xs) != b.NumDims() {
		return nil, errors.NewDimensionError(op, b.NumDims(), len(xs), 1)
	}

	vals, err := b.evalDims(op, xs, ords)
	if err != nil {
		return nil, err
	}
	points := make([]int, b.NumDims())
	total := 1
	for d, x := range xs {
		points[d] = len(x)
		total *= len(x)
	}
	slog.Debug("evaluated basis on grid",
		log.OperationKey, "evaluate",
		log.DimsKey, b.NumDims(),
		log.SizeKey, b.Size(),
		log.PointsKey, total,
		log.RepresentationKey, TensorRep.String(),
	)
	return &BasisMatrix{
		rep:    TensorRep,
		order:  copyOrders(ords),
		dims:   b.Sizes(),
		points: points,
		vals:   vals,
	}, nil
}

// EvalPoints evaluates the basis at scattered points, one per row of the
// m-by-NumDims matrix X, producing the Direct representation.
func (b *Basis) EvalPoints(X *mat.Dense, orders [][]int) (*BasisMatrix, error) {
	const op = "Basis.EvalPoints"

	ords, err := b.normalizeOrders(op, orders)
	if err != nil {
		return nil, err
	}
	m, c := X.Dims()
	if c != b.NumDims() {
		return nil, errors.NewShapeError(op, []int{m, b.NumDims()}, []int{m, c})
	}

	xs := make([][]float64, b.NumDims())
	for d := range xs {
		col := make([]float64, m)
		mat.Col(col, d, X)
		xs[d] = col
	}
	vals, err := b.evalDims(op, xs, ords)
	if err != nil {
		return nil, err
	}
	slog.Debug("evaluated basis at points",
		log.OperationKey, "evaluate",
		log.DimsKey, b.NumDims(),
		log.SizeKey, b.Size(),
		log.PointsKey, m,
		log.RepresentationKey, DirectRep.String(),
	)
	return &BasisMatrix{
		rep:    DirectRep,
		order:  copyOrders(ords),
		dims:   b.Sizes(),
		points: []int{m},
		vals:   vals,
	}, nil
}

func copyOrders(orders [][]int) [][]int {
	out := make([][]int, len(orders))
	for i, row := range orders {
		out[i] = append([]int(nil), row...)
	}
	return out
}
