// Package interp pairs a composed basis with a coefficient vector and fits
// the coefficients to data by ordinary least squares on the fully expanded
// basis matrix. It is the consumer of the basis package's public contract:
// evaluate, convert, export to general sparse form, solve.
package interp

import (
	"log/slog"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/basisfun/basis"
	"github.com/YuminosukeSato/basisfun/pkg/errors"
	"github.com/YuminosukeSato/basisfun/pkg/log"
)

// Interpoland is a fitted interpolant: a basis and the coefficient vector of
// the function it represents. The zero value is unfitted; Fit or FitNodes
// must run before prediction.
type Interpoland struct {
	basis *basis.Basis
	coefs *mat.VecDense
}

// New creates an unfitted interpolant over the given basis.
func New(b *basis.Basis) *Interpoland {
	return &Interpoland{basis: b}
}

// NewFromValues creates an interpolant and fits it to function values sampled
// at the basis nodes, in grid order (first dimension fastest).
func NewFromValues(b *basis.Basis, y []float64) (*Interpoland, error) {
	ip := New(b)
	if err := ip.FitNodes(y); err != nil {
		return nil, err
	}
	return ip, nil
}

// Basis returns the underlying basis.
func (ip *Interpoland) Basis() *basis.Basis { return ip.basis }

// Coefs returns a copy of the fitted coefficients, or nil before fitting.
func (ip *Interpoland) Coefs() []float64 {
	if ip.coefs == nil {
		return nil
	}
	out := make([]float64, ip.coefs.Len())
	copy(out, ip.coefs.RawVector().Data)
	return out
}

// FitNodes fits the coefficients to values sampled at the basis node grid.
func (ip *Interpoland) FitNodes(y []float64) error {
	const op = "Interpoland.FitNodes"

	bm, err := ip.basis.EvalGrid(nil, nil)
	if err != nil {
		return err
	}
	return ip.solve(op, bm, y)
}

// Fit fits the coefficients to values y observed at the scattered points X,
// one point per row. Overdetermined systems resolve by least squares.
func (ip *Interpoland) Fit(X *mat.Dense, y []float64) error {
	const op = "Interpoland.Fit"

	m, _ := X.Dims()
	if m != len(y) {
		return errors.NewDimensionError(op, m, len(y), 0)
	}
	bm, err := ip.basis.EvalPoints(X, nil)
	if err != nil {
		return err
	}
	return ip.solve(op, bm, y)
}

func (ip *Interpoland) solve(op string, bm *basis.BasisMatrix, y []float64) error {
	exp, err := basis.Convert(bm, basis.ExpandedRep, nil)
	if err != nil {
		return err
	}
	phi, err := exp.Expanded(0)
	if err != nil {
		return err
	}
	m, n := phi.Dims()
	if m != len(y) {
		return errors.NewDimensionError(op, m, len(y), 0)
	}
	if m < n {
		return errors.NewValueError(op, "fewer data points than basis functions")
	}

	var coefs mat.VecDense
	if err := coefs.SolveVec(phi, mat.NewVecDense(m, y)); err != nil {
		return errors.Wrap(errors.ErrSingularMatrix, op)
	}
	if err := errors.CheckNumericalStability(op, coefs.RawVector().Data); err != nil {
		return err
	}
	ip.coefs = &coefs

	slog.Debug("fitted interpolant",
		log.OperationKey, "fit",
		log.DimsKey, ip.basis.NumDims(),
		log.SizeKey, n,
		log.PointsKey, m,
	)
	return nil
}

// Predict evaluates the interpolant at the points X, one per row.
func (ip *Interpoland) Predict(X *mat.Dense) ([]float64, error) {
	return ip.PredictDeriv(X, nil)
}

// PredictDeriv evaluates a derivative (or integral) of the interpolant at
// the points X; orders holds one order per dimension, nil meaning all zero.
// One-dimensional bases go through the compressed sparse row export; higher
// dimensions through the expanded matrix.
func (ip *Interpoland) PredictDeriv(X *mat.Dense, orders []int) ([]float64, error) {
	const op = "Interpoland.PredictDeriv"

	if ip.coefs == nil {
		return nil, errors.NewNotFittedError("Interpoland", "Predict")
	}
	m, _ := X.Dims()

	var ordRows [][]int
	if orders != nil {
		ordRows = [][]int{orders}
	}
	bm, err := ip.basis.EvalPoints(X, ordRows)
	if err != nil {
		return nil, err
	}

	var pred mat.Dense
	if ip.basis.NumDims() == 1 {
		bd, err := bm.Value(0, 0)
		if err != nil {
			return nil, err
		}
		pred.Mul(bd.ToCSR(), ip.coefs)
	} else {
		exp, err := basis.Convert(bm, basis.ExpandedRep, nil)
		if err != nil {
			return nil, err
		}
		phi, err := exp.Expanded(0)
		if err != nil {
			return nil, err
		}
		pred.Mul(phi, ip.coefs)
	}

	out := make([]float64, m)
	mat.Col(out, 0, &pred)
	return out, nil
}
