package feature

import (
	"fmt"
	"math"

	"github.com/mindsage/mindsage/internal/model"
)

// FitScaler computes per-feature mean and population standard deviation
// over an encoded matrix. The parameters are frozen into the manifest and
// applied identically at serve time.
func FitScaler(matrix [][]float64) (model.ScalerParams, error) {
	if len(matrix) == 0 {
		return model.ScalerParams{}, fmt.Errorf("cannot fit scaler on an empty matrix")
	}

	cols := len(matrix[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)

	for _, row := range matrix {
		if len(row) != cols {
			return model.ScalerParams{}, fmt.Errorf("ragged matrix: row has %d columns, want %d", len(row), cols)
		}
		for j, v := range row {
			means[j] += v
		}
	}
	n := float64(len(matrix))
	for j := range means {
		means[j] /= n
	}

	for _, row := range matrix {
		for j, v := range row {
			d := v - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / n)
	}

	return model.ScalerParams{Means: means, Stds: stds}, nil
}

// Scale standardizes a vector elementwise as (x - mean) / std. Features
// whose training standard deviation is 0 pass through unscaled rather than
// dividing by zero.
func Scale(vec []float64, params model.ScalerParams) ([]float64, error) {
	if len(vec) != len(params.Means) || len(vec) != len(params.Stds) {
		return nil, fmt.Errorf("vector length %d does not match scaler parameter length %d", len(vec), len(params.Means))
	}

	out := make([]float64, len(vec))
	for i, v := range vec {
		if params.Stds[i] == 0 {
			out[i] = v
			continue
		}
		out[i] = (v - params.Means[i]) / params.Stds[i]
	}
	return out, nil
}

// ScaleMatrix standardizes every row of a matrix.
func ScaleMatrix(matrix [][]float64, params model.ScalerParams) ([][]float64, error) {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		scaled, err := Scale(row, params)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}
