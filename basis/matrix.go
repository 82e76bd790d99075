package basis

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/basisfun/core/parallel"
	"github.com/YuminosukeSato/basisfun/pkg/errors"
	"github.com/YuminosukeSato/basisfun/pkg/log"
)

// Representation tags the storage strategy of a BasisMatrix. Conversions move
// only forward, Tensor -> Direct -> Expanded; re-derive from Tensor when an
// earlier form is needed again.
type Representation int

const (
	// TensorRep keeps per-dimension evaluations on per-dimension point
	// vectors. Most compact; the canonical source for conversions.
	TensorRep Representation = iota
	// DirectRep row-expands every dimension's evaluation to the full point
	// count while keeping columns per-dimension.
	DirectRep
	// ExpandedRep holds one full row-wise Kronecker product per requested
	// order row: rows = total points, columns = total basis size.
	ExpandedRep
)

// String returns the representation name.
func (r Representation) String() string {
	switch r {
	case TensorRep:
		return "tensor"
	case DirectRep:
		return "direct"
	case ExpandedRep:
		return "expanded"
	default:
		return "unknown"
	}
}

// BasisMatrix holds basis evaluations for a set of requested multi-orders.
// order has one row per requested derivative-order combination and one column
// per dimension; the values are parallel to it, with per-entry shape
// depending on the representation.
type BasisMatrix struct {
	rep    Representation
	order  [][]int
	dims   []int // basis size per dimension
	points []int // query points per dimension (Tensor) or total (Direct/Expanded)
	vals   [][]*Banded
	dense  []*mat.Dense // Expanded only
}

// Representation returns the storage tag.
func (bm *BasisMatrix) Representation() Representation { return bm.rep }

// Orders returns the requested multi-order rows.
func (bm *BasisMatrix) Orders() [][]int { return copyOrders(bm.order) }

// NumPoints returns the total number of evaluation points.
func (bm *BasisMatrix) NumPoints() int {
	if bm.rep == TensorRep {
		total := 1
		for _, p := range bm.points {
			total *= p
		}
		return total
	}
	return bm.points[0]
}

// Value returns the per-dimension banded evaluation for a requested order row
// in the Tensor or Direct representation.
func (bm *BasisMatrix) Value(row, dim int) (*Banded, error) {
	if bm.rep == ExpandedRep {
		return nil, errors.NewValueError("BasisMatrix.Value", "expanded matrices have no per-dimension values")
	}
	if row < 0 || row >= len(bm.vals) {
		return nil, errors.NewDimensionError("BasisMatrix.Value", len(bm.vals), row, 0)
	}
	return bm.vals[row][dim], nil
}

// Expanded returns the fully expanded matrix for a requested order row.
func (bm *BasisMatrix) Expanded(row int) (*mat.Dense, error) {
	if bm.rep != ExpandedRep {
		return nil, errors.NewValueError("BasisMatrix.Expanded", "matrix is not in the expanded representation")
	}
	if row < 0 || row >= len(bm.dense) {
		return nil, errors.NewDimensionError("BasisMatrix.Expanded", len(bm.dense), row, 0)
	}
	return bm.dense[row], nil
}

// Convert produces a new BasisMatrix in the target representation, forward
// only. orders selects a subset of the requested order rows; nil keeps all.
// Requesting a row that was never evaluated fails with a DimensionError.
func Convert(bm *BasisMatrix, target Representation, orders [][]int) (*BasisMatrix, error) {
	const op = "Convert"

	if target < bm.rep {
		return nil, errors.NewValueError(op, "conversions only move tensor -> direct -> expanded; re-derive from the tensor form")
	}

	rows, err := bm.selectRows(op, orders)
	if err != nil {
		return nil, err
	}

	out := bm
	if target >= DirectRep && out.rep == TensorRep {
		if out, err = out.toDirect(rows); err != nil {
			return nil, err
		}
		rows = identityRows(len(rows))
	}
	if target == ExpandedRep && out.rep == DirectRep {
		if out, err = out.toExpanded(rows); err != nil {
			return nil, err
		}
		rows = identityRows(len(rows))
	}
	if out == bm && orders != nil {
		out = bm.subset(rows)
	}
	slog.Debug("converted basis matrix",
		log.OperationKey, "convert",
		log.RepresentationKey, target.String(),
		log.PointsKey, out.NumPoints(),
	)
	return out, nil
}

// selectRows maps requested order rows onto indices of bm.order.
func (bm *BasisMatrix) selectRows(op string, orders [][]int) ([]int, error) {
	if orders == nil {
		return identityRows(len(bm.order)), nil
	}
	rows := make([]int, len(orders))
	for i, want := range orders {
		if len(want) != len(bm.dims) {
			return nil, errors.NewDimensionError(op, len(bm.dims), len(want), 1)
		}
		found := -1
		for r, have := range bm.order {
			if equalInts(have, want) {
				found = r
				break
			}
		}
		if found < 0 {
			return nil, errors.Wrapf(
				errors.NewDimensionError(op, len(bm.order), i, 0),
				"requested order row %v was not evaluated", want)
		}
		rows[i] = found
	}
	return rows, nil
}

func (bm *BasisMatrix) subset(rows []int) *BasisMatrix {
	out := &BasisMatrix{
		rep:    bm.rep,
		dims:   append([]int(nil), bm.dims...),
		points: append([]int(nil), bm.points...),
	}
	for _, r := range rows {
		out.order = append(out.order, append([]int(nil), bm.order[r]...))
		if bm.rep == ExpandedRep {
			out.dense = append(out.dense, bm.dense[r])
		} else {
			out.vals = append(out.vals, bm.vals[r])
		}
	}
	return out
}

// toDirect row-expands every dimension's evaluation to the full point count,
// honoring the first-dimension-fastest Cartesian point layout.
func (bm *BasisMatrix) toDirect(rows []int) (*BasisMatrix, error) {
	total := bm.NumPoints()
	nd := len(bm.dims)

	out := &BasisMatrix{
		rep:    DirectRep,
		dims:   append([]int(nil), bm.dims...),
		points: []int{total},
	}
	tiled := make(map[[2]int]*Banded) // (row in bm, dim) -> tiled matrix
	inner := make([]int, nd)
	acc := 1
	for d := 0; d < nd; d++ {
		inner[d] = acc
		acc *= bm.points[d]
	}
	for _, r := range rows {
		dimVals := make([]*Banded, nd)
		for d := 0; d < nd; d++ {
			key := [2]int{r, d}
			t, ok := tiled[key]
			if !ok {
				t = tileBanded(bm.vals[r][d], inner[d], total)
				tiled[key] = t
			}
			dimVals[d] = t
		}
		out.order = append(out.order, append([]int(nil), bm.order[r]...))
		out.vals = append(out.vals, dimVals)
	}
	return out, nil
}

// tileBanded repeats the rows of src so that expanded row p reads source row
// (p/inner) mod src.rows.
func tileBanded(src *Banded, inner, total int) *Banded {
	out := NewBanded(total, src.cols, src.bandwidth)
	parallel.ParallelizeWithThreshold(total, evalParallelThreshold, func(start, end int) {
		for p := start; p < end; p++ {
			i := (p / inner) % src.rows
			out.offsets[p] = src.offsets[i]
			copy(out.data[p*out.bandwidth:(p+1)*out.bandwidth], src.data[i*src.bandwidth:(i+1)*src.bandwidth])
		}
	})
	return out
}

// toExpanded forms the full tensor-product matrix for each selected order
// row, accumulating the row-wise Kronecker product dimension by dimension
// from the last dimension to the first.
func (bm *BasisMatrix) toExpanded(rows []int) (*BasisMatrix, error) {
	nd := len(bm.dims)
	out := &BasisMatrix{
		rep:    ExpandedRep,
		dims:   append([]int(nil), bm.dims...),
		points: []int{bm.points[0]},
	}
	for _, r := range rows {
		acc := bm.vals[r][nd-1].Dense()
		for d := nd - 2; d >= 0; d-- {
			acc = rowKron(bm.vals[r][d], acc)
		}
		out.order = append(out.order, append([]int(nil), bm.order[r]...))
		out.dense = append(out.dense, acc)
	}
	return out, nil
}

// rowKron combines one dimension's banded evaluation with the accumulated
// expansion of the later dimensions: row p of the result is the Kronecker
// product of the two p-th rows, with the banded operand's columns varying
// fastest.
func rowKron(b *Banded, acc *mat.Dense) *mat.Dense {
	m, ca := acc.Dims()
	cb := b.cols
	out := mat.NewDense(m, cb*ca, nil)
	parallel.ParallelizeWithThreshold(m, evalParallelThreshold, func(start, end int) {
		for p := start; p < end; p++ {
			off := b.offsets[p]
			for ja := 0; ja < ca; ja++ {
				av := acc.At(p, ja)
				if av == 0 {
					continue
				}
				for t := 0; t < b.bandwidth; t++ {
					v := b.data[p*b.bandwidth+t]
					if v == 0 {
						continue
					}
					out.Set(p, off+t+cb*ja, v*av)
				}
			}
		}
	})
	return out
}

func identityRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
