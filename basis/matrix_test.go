package basis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func twoDimBasis(t *testing.T) (*Basis, [][]float64) {
	t.Helper()
	p1, err := NewSplineParams([]float64{0, 1, 2}, 0, 2)
	require.NoError(t, err)
	p2, err := NewChebParams(3, 0, 1)
	require.NoError(t, err)
	b, err := NewBasis(p1, p2)
	require.NoError(t, err)
	xs := [][]float64{{0.25, 0.8, 1.5}, {0.3, 0.9}}
	return b, xs
}

func TestConvertTensorToDirect(t *testing.T) {
	b, xs := twoDimBasis(t)
	bm, err := b.EvalGrid(xs, nil)
	require.NoError(t, err)

	direct, err := Convert(bm, DirectRep, nil)
	require.NoError(t, err)
	assert.Equal(t, DirectRep, direct.Representation())
	assert.Equal(t, 6, direct.NumPoints())

	t1, err := bm.Value(0, 0)
	require.NoError(t, err)
	t2, err := bm.Value(0, 1)
	require.NoError(t, err)
	d1, err := direct.Value(0, 0)
	require.NoError(t, err)
	d2, err := direct.Value(0, 1)
	require.NoError(t, err)

	// Point p on the grid pairs source row p%3 of the first dimension with
	// source row p/3 of the second.
	m1 := len(xs[0])
	for p := 0; p < 6; p++ {
		for j := 0; j < b.Sizes()[0]; j++ {
			assert.Equal(t, t1.At(p%m1, j), d1.At(p, j), "dim 0 point %d col %d", p, j)
		}
		for j := 0; j < b.Sizes()[1]; j++ {
			assert.Equal(t, t2.At(p/m1, j), d2.At(p, j), "dim 1 point %d col %d", p, j)
		}
	}
}

// The expanded matrix on a tensor grid is the Kronecker product of the
// per-dimension evaluations, last dimension outermost.
func TestConvertExpandedMatchesKronecker(t *testing.T) {
	b, xs := twoDimBasis(t)
	bm, err := b.EvalGrid(xs, nil)
	require.NoError(t, err)

	exp, err := Convert(bm, ExpandedRep, nil)
	require.NoError(t, err)
	phi, err := exp.Expanded(0)
	require.NoError(t, err)

	t1, err := bm.Value(0, 0)
	require.NoError(t, err)
	t2, err := bm.Value(0, 1)
	require.NoError(t, err)

	var want mat.Dense
	want.Kronecker(t2.Dense(), t1.Dense())

	wr, wc := want.Dims()
	gr, gc := phi.Dims()
	require.Equal(t, wr, gr)
	require.Equal(t, wc, gc)
	for i := 0; i < wr; i++ {
		for j := 0; j < wc; j++ {
			assert.InDelta(t, want.At(i, j), phi.At(i, j), 1e-15, "mismatch at (%d,%d)", i, j)
		}
	}
}

func TestConvertOrderSubset(t *testing.T) {
	b, xs := twoDimBasis(t)
	orders := [][]int{{0, 0}, {1, 0}}
	bm, err := b.EvalGrid(xs, orders)
	require.NoError(t, err)
	require.Len(t, bm.Orders(), 2)

	exp, err := Convert(bm, ExpandedRep, [][]int{{1, 0}})
	require.NoError(t, err)
	require.Len(t, exp.Orders(), 1)
	assert.Equal(t, []int{1, 0}, exp.Orders()[0])

	phi, err := exp.Expanded(0)
	require.NoError(t, err)
	_, c := phi.Dims()
	assert.Equal(t, b.Size(), c)

	_, err = Convert(bm, ExpandedRep, [][]int{{0, 1}})
	assert.Error(t, err, "selecting a never-evaluated order row must fail")
}

func TestConvertBackwardRejected(t *testing.T) {
	b, xs := twoDimBasis(t)
	bm, err := b.EvalGrid(xs, nil)
	require.NoError(t, err)

	direct, err := Convert(bm, DirectRep, nil)
	require.NoError(t, err)

	_, err = Convert(direct, TensorRep, nil)
	assert.Error(t, err)
}

func TestBasisMatrixAccessors(t *testing.T) {
	b, xs := twoDimBasis(t)
	bm, err := b.EvalGrid(xs, nil)
	require.NoError(t, err)

	_, err = bm.Expanded(0)
	assert.Error(t, err, "tensor matrices carry no expanded form")

	_, err = bm.Value(3, 0)
	assert.Error(t, err)

	exp, err := Convert(bm, ExpandedRep, nil)
	require.NoError(t, err)
	_, err = exp.Value(0, 0)
	assert.Error(t, err, "expanded matrices carry no per-dimension values")
	_, err = exp.Expanded(5)
	assert.Error(t, err)
}
