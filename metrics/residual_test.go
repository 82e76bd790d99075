package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestMSE(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "perfect prediction",
			yTrue: []float64{1, 2, 3},
			yPred: []float64{1, 2, 3},
			want:  0,
		},
		{
			name:  "constant offset",
			yTrue: []float64{1, 2, 3, 4},
			yPred: []float64{2, 3, 4, 5},
			want:  1,
		},
		{
			name:  "mixed residuals",
			yTrue: []float64{0, 0},
			yPred: []float64{1, -3},
			want:  5,
		},
		{
			name:    "length mismatch",
			yTrue:   []float64{1, 2, 3},
			yPred:   []float64{1, 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MSE(
				mat.NewVecDense(len(tt.yTrue), tt.yTrue),
				mat.NewVecDense(len(tt.yPred), tt.yPred),
			)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-15)
		})
	}
}

func TestRMSE(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1, 2, 3, 4})
	yPred := mat.NewVecDense(4, []float64{3, 4, 5, 6})

	got, err := RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-15)
}

func TestMaxAbsError(t *testing.T) {
	yTrue := mat.NewVecDense(3, []float64{1, 2, 3})
	yPred := mat.NewVecDense(3, []float64{1.5, 1, 3.25})

	got, err := MaxAbsError(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-15)

	_, err = MaxAbsError(yTrue, mat.NewVecDense(2, []float64{1, 2}))
	assert.Error(t, err)
}
