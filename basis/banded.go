package basis

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/basisfun/pkg/errors"
)

// Banded is a compact representation of an m-by-n matrix in which row i has
// at most bandwidth contiguous nonzero columns starting at offsets[i]. Basis
// evaluations have exactly this structure: an evaluation row carries one
// weight per locally-supported basis function, and the support window slides
// with the query point.
//
// Invariant: 0 <= offsets[i] and offsets[i]+bandwidth <= cols for every row.
type Banded struct {
	rows, cols int
	bandwidth  int
	data       []float64 // rows*bandwidth, row-major
	offsets    []int     // starting column per row
}

// NewBanded allocates a zero banded matrix of the given shape.
func NewBanded(rows, cols, bandwidth int) *Banded {
	return &Banded{
		rows:      rows,
		cols:      cols,
		bandwidth: bandwidth,
		data:      make([]float64, rows*bandwidth),
		offsets:   make([]int, rows),
	}
}

// Dims returns the logical matrix dimensions.
func (b *Banded) Dims() (int, int) { return b.rows, b.cols }

// Bandwidth returns the number of stored columns per row.
func (b *Banded) Bandwidth() int { return b.bandwidth }

// Offset returns the starting column of row i.
func (b *Banded) Offset(i int) int { return b.offsets[i] }

// At returns the element at (i, j), including the implicit zeros outside the
// stored band.
func (b *Banded) At(i, j int) float64 {
	t := j - b.offsets[i]
	if t < 0 || t >= b.bandwidth {
		return 0
	}
	return b.data[i*b.bandwidth+t]
}

// setRow stores one evaluation row: the weight run vals begins at column off.
func (b *Banded) setRow(i, off int, vals []float64) {
	b.offsets[i] = off
	copy(b.data[i*b.bandwidth:(i+1)*b.bandwidth], vals)
}

// Dense materializes the full matrix.
func (b *Banded) Dense() *mat.Dense {
	d := mat.NewDense(b.rows, b.cols, nil)
	for i := 0; i < b.rows; i++ {
		off := b.offsets[i]
		for t := 0; t < b.bandwidth; t++ {
			d.Set(i, off+t, b.data[i*b.bandwidth+t])
		}
	}
	return d
}

// MulBanded returns the product b*o as a new banded matrix. The offsets of o
// must be nondecreasing, which holds for every operator matrix this package
// constructs; with that ordering each product row keeps a single contiguous
// band.
func (b *Banded) MulBanded(o *Banded) (*Banded, error) {
	const op = "Banded.MulBanded"

	if b.cols != o.rows {
		return nil, errors.NewDimensionError(op, b.cols, o.rows, 0)
	}
	for i := 1; i < o.rows; i++ {
		if o.offsets[i] < o.offsets[i-1] {
			return nil, errors.NewValueError(op, "right operand offsets must be nondecreasing")
		}
	}

	// First pass: the product band of row i spans from the band start of o's
	// row offsets[i] to the band end of o's row offsets[i]+bandwidth-1.
	width := 0
	for i := 0; i < b.rows; i++ {
		lo := o.offsets[b.offsets[i]]
		hi := o.offsets[b.offsets[i]+b.bandwidth-1] + o.bandwidth
		if w := hi - lo; w > width {
			width = w
		}
	}
	if width > o.cols {
		width = o.cols
	}

	out := NewBanded(b.rows, o.cols, width)
	for i := 0; i < b.rows; i++ {
		lo := o.offsets[b.offsets[i]]
		if lo+width > o.cols {
			lo = o.cols - width
		}
		out.offsets[i] = lo
		for t := 0; t < b.bandwidth; t++ {
			v := b.data[i*b.bandwidth+t]
			if v == 0 {
				continue
			}
			r := b.offsets[i] + t
			roff := o.offsets[r]
			for s := 0; s < o.bandwidth; s++ {
				out.data[i*width+(roff+s-lo)] += v * o.data[r*o.bandwidth+s]
			}
		}
	}
	return out, nil
}

// ToCOO exports the banded matrix to general row/column/value triplet form.
// The conversion is one-directional; there is no way back to the compact
// band layout.
func (b *Banded) ToCOO() *sparse.COO {
	rows := make([]int, 0, b.rows*b.bandwidth)
	cols := make([]int, 0, b.rows*b.bandwidth)
	data := make([]float64, 0, b.rows*b.bandwidth)
	for i := 0; i < b.rows; i++ {
		off := b.offsets[i]
		for t := 0; t < b.bandwidth; t++ {
			v := b.data[i*b.bandwidth+t]
			if v == 0 {
				continue
			}
			rows = append(rows, i)
			cols = append(cols, off+t)
			data = append(data, v)
		}
	}
	return sparse.NewCOO(b.rows, b.cols, rows, cols, data)
}

// ToCSR exports the banded matrix to compressed sparse row form, ready for
// gonum matrix products.
func (b *Banded) ToCSR() *sparse.CSR {
	return b.ToCOO().ToCSR()
}
