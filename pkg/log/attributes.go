// Package log defines standard attribute keys for basis evaluation and
// fitting operations. Using the same keys everywhere keeps the JSON logs
// filterable: every evaluation event carries the basis family, the number of
// query points and the requested derivative orders under fixed names.

package log

// Basis and operation context.
const (
	// FamilyKey identifies the basis family performing the operation.
	// Values: "linear", "spline", "chebyshev".
	FamilyKey = "basis.family"

	// DimsKey is the number of dimensions of a composed basis.
	DimsKey = "basis.dims"

	// SizeKey is the total number of basis functions.
	SizeKey = "basis.size"

	// OperationKey names the operation being performed.
	// Standard values: "evalbase", "evaluate", "convert", "fit", "predict".
	OperationKey = "basis.operation"
)

// Data shape.
const (
	// PointsKey is the number of query points.
	PointsKey = "data.points"

	// OrdersKey is the requested derivative/integral orders.
	OrdersKey = "eval.orders"

	// RepresentationKey is the BasisMatrix representation tag.
	// Values: "tensor", "direct", "expanded".
	RepresentationKey = "matrix.representation"
)
