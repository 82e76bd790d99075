package basis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/basisfun/pkg/errors"
)

func mustLin(t *testing.T, breaks []float64) Params {
	t.Helper()
	p, err := NewLinParams(breaks, 0)
	require.NoError(t, err)
	return p
}

func TestNewBasis(t *testing.T) {
	b, err := NewBasis(mustLin(t, []float64{0, 1, 2}), mustLin(t, []float64{0, 2}))
	require.NoError(t, err)

	assert.Equal(t, 2, b.NumDims())
	assert.Equal(t, []int{3, 2}, b.Sizes())
	assert.Equal(t, 6, b.Size())

	lo, hi := b.Bounds()
	assert.Equal(t, []float64{0, 0}, lo)
	assert.Equal(t, []float64{2, 2}, hi)

	_, err = NewBasis()
	assert.Error(t, err)
}

// The node grid runs with the first dimension varying fastest.
func TestBasisNodesGridOrder(t *testing.T) {
	b, err := NewBasis(mustLin(t, []float64{0, 1}), mustLin(t, []float64{0, 2}))
	require.NoError(t, err)

	grid, perDim := b.Nodes()
	require.Len(t, perDim, 2)

	want := [][]float64{
		{0, 0},
		{1, 0},
		{0, 2},
		{1, 2},
	}
	r, c := grid.Dims()
	require.Equal(t, 4, r)
	require.Equal(t, 2, c)
	for i, row := range want {
		for d, v := range row {
			assert.Equal(t, v, grid.At(i, d), "grid point (%d,%d)", i, d)
		}
	}
}

func TestBasisEvalGrid(t *testing.T) {
	b, err := NewBasis(mustLin(t, []float64{0, 1, 2}), mustLin(t, []float64{0, 2, 4}))
	require.NoError(t, err)

	bm, err := b.EvalGrid([][]float64{{0.5, 1.5}, {1, 2, 3}}, nil)
	require.NoError(t, err)

	assert.Equal(t, TensorRep, bm.Representation())
	assert.Equal(t, 6, bm.NumPoints())
	assert.Equal(t, [][]int{{0, 0}}, bm.Orders())

	v0, err := bm.Value(0, 0)
	require.NoError(t, err)
	r, c := v0.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)

	v1, err := bm.Value(0, 1)
	require.NoError(t, err)
	r, c = v1.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
}

func TestBasisEvalGridDefaultsToNodes(t *testing.T) {
	b, err := NewBasis(mustLin(t, []float64{0, 1, 2}), mustLin(t, []float64{0, 2}))
	require.NoError(t, err)

	bm, err := b.EvalGrid(nil, nil)
	require.NoError(t, err)

	// At the nodes each linear dimension evaluates to the identity, so the
	// expanded tensor product is the identity as well.
	exp, err := Convert(bm, ExpandedRep, nil)
	require.NoError(t, err)
	phi, err := exp.Expanded(0)
	require.NoError(t, err)

	n := b.Size()
	r, c := phi.Dims()
	require.Equal(t, n, r)
	require.Equal(t, n, c)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, phi.At(i, j), 1e-15, "mismatch at (%d,%d)", i, j)
		}
	}
}

func TestBasisEvalGridOrderValidation(t *testing.T) {
	b, err := NewBasis(mustLin(t, []float64{0, 1, 2}), mustLin(t, []float64{0, 2}))
	require.NoError(t, err)

	_, err = b.EvalGrid(nil, [][]int{{0, 0, 0}})
	require.Error(t, err)
	var dimErr *errors.DimensionError
	assert.True(t, errors.As(err, &dimErr))

	_, err = b.EvalGrid([][]float64{{0.5}}, nil)
	assert.Error(t, err)
}

func TestBasisEvalPoints(t *testing.T) {
	b, err := NewBasis(mustLin(t, []float64{0, 1, 2}), mustLin(t, []float64{0, 2, 4}))
	require.NoError(t, err)

	X := mat.NewDense(4, 2, []float64{
		0.5, 1,
		1.5, 3,
		0.2, 0.4,
		2, 4,
	})
	bm, err := b.EvalPoints(X, nil)
	require.NoError(t, err)

	assert.Equal(t, DirectRep, bm.Representation())
	assert.Equal(t, 4, bm.NumPoints())

	// Every dimension's rows are convex weights, so each row sums to one.
	for d := 0; d < 2; d++ {
		v, err := bm.Value(0, d)
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			sum := 0.0
			for j := 0; j < 3; j++ {
				sum += v.At(i, j)
			}
			assert.InDelta(t, 1.0, sum, 1e-14, "dim %d row %d", d, i)
		}
	}
}

func TestBasisEvalPointsShapeError(t *testing.T) {
	b, err := NewBasis(mustLin(t, []float64{0, 1, 2}), mustLin(t, []float64{0, 2}))
	require.NoError(t, err)

	X := mat.NewDense(3, 3, nil)
	_, err = b.EvalPoints(X, nil)
	require.Error(t, err)
	var shapeErr *errors.ShapeError
	assert.True(t, errors.As(err, &shapeErr))
}
