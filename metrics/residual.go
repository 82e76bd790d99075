// Package metrics provides residual metrics for assessing interpolation
// quality: how closely a fitted interpolant reproduces observed values.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/basisfun/pkg/errors"
)

// MSE computes the mean squared error between observed and predicted values.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MaxAbsError computes the largest absolute residual, the natural metric for
// interpolation on a compact interval.
func MaxAbsError(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MaxAbsError", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MaxAbsError", n, yPred.Len(), 0)
	}

	var maxAbs float64
	for i := 0; i < n; i++ {
		if d := math.Abs(yTrue.AtVec(i) - yPred.AtVec(i)); d > maxAbs {
			maxAbs = d
		}
	}
	return maxAbs, nil
}
