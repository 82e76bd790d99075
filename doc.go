// Package basisfun provides basis-function families for fitting and
// evaluating smooth functions on structured grids.
//
// The basis package implements piecewise-linear, B-spline and Chebyshev
// families on one-dimensional domains, compact banded storage for their
// evaluations, derivative and integral operators, and tensor-product
// composition of one-dimensional bases into multi-dimensional interpolation
// bases under three storage strategies (tensor, direct, expanded). The
// interp package pairs a basis with a coefficient vector and fits it to data
// by least squares.
//
// # Quick Start
//
// Fit a cubic spline interpolant on [0, 1] and evaluate its derivative:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/basisfun/basis"
//	    "github.com/YuminosukeSato/basisfun/interp"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    p, err := basis.NewSplineParams([]float64{0, 1}, 21, 3)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    b, _ := basis.NewBasis(p)
//
//	    nodes := p.Nodes()
//	    y := make([]float64, len(nodes))
//	    for i, x := range nodes {
//	        y[i] = x * x * x
//	    }
//	    ip, err := interp.NewFromValues(b, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    X := mat.NewDense(1, 1, []float64{0.5})
//	    dy, _ := ip.PredictDeriv(X, []int{1})
//	    fmt.Println(dy[0]) // ~0.75
//	}
package basisfun
