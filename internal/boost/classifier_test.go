package boost

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticData builds a dataset where the label depends on feature 0 with
// a little noise and feature 1 is pure noise.
func syntheticData(n int, seed int64) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]int, n)
	for i := range x {
		signal := rng.NormFloat64()
		noise := rng.NormFloat64()
		x[i] = []float64{signal, noise}
		if signal+0.1*rng.NormFloat64() > 0 {
			y[i] = 1
		}
	}
	return x, y
}

func testParams() Params {
	p := DefaultParams()
	p.Rounds = 30
	p.MaxDepth = 3
	return p
}

func TestFitLearnsSeparableData(t *testing.T) {
	x, y := syntheticData(400, 7)

	clf, err := Fit(x, y, testParams())
	require.NoError(t, err)

	correct := 0
	for i := range x {
		pred, predErr := clf.Predict(x[i])
		require.NoError(t, predErr)
		if pred == y[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(x))
	assert.Greater(t, accuracy, 0.9, "accuracy %.3f", accuracy)
}

func TestPredictProbaSumsToOne(t *testing.T) {
	x, y := syntheticData(200, 11)
	clf, err := Fit(x, y, testParams())
	require.NoError(t, err)

	for i := range x {
		pNo, pYes, probaErr := clf.PredictProba(x[i])
		require.NoError(t, probaErr)
		assert.InDelta(t, 1, pNo+pYes, 1e-9)
		assert.GreaterOrEqual(t, pYes, 0.0)
		assert.LessOrEqual(t, pYes, 1.0)
	}
}

func TestFitIsDeterministic(t *testing.T) {
	x, y := syntheticData(200, 3)

	a, err := Fit(x, y, testParams())
	require.NoError(t, err)
	b, err := Fit(x, y, testParams())
	require.NoError(t, err)

	for i := range x {
		_, pa, _ := a.PredictProba(x[i])
		_, pb, _ := b.PredictProba(x[i])
		assert.Equal(t, pa, pb, "row %d", i)
	}
	assert.Equal(t, a.GlobalImportances(), b.GlobalImportances())
}

func TestGlobalImportances(t *testing.T) {
	x, y := syntheticData(400, 5)
	clf, err := Fit(x, y, testParams())
	require.NoError(t, err)

	imp := clf.GlobalImportances()
	require.Len(t, imp, 2)

	total := 0.0
	for _, w := range imp {
		assert.GreaterOrEqual(t, w, 0.0)
		total += w
	}
	assert.InDelta(t, 1, total, 1e-9)

	// The informative feature should dominate the noise feature.
	assert.Greater(t, imp[0], imp[1])
}

func TestImportancesAreCopied(t *testing.T) {
	x, y := syntheticData(100, 9)
	clf, err := Fit(x, y, testParams())
	require.NoError(t, err)

	imp := clf.GlobalImportances()
	imp[0] = math.Inf(1)
	assert.NotEqual(t, imp[0], clf.GlobalImportances()[0])
}

func TestMarshalLoadPreservesPredictions(t *testing.T) {
	x, y := syntheticData(150, 13)
	clf, err := Fit(x, y, testParams())
	require.NoError(t, err)

	data, err := clf.Marshal()
	require.NoError(t, err)

	loaded, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, clf.NumFeatures(), loaded.NumFeatures())
	assert.Equal(t, clf.GlobalImportances(), loaded.GlobalImportances())

	for i := 0; i < 20; i++ {
		_, want, _ := clf.PredictProba(x[i])
		_, got, _ := loaded.PredictProba(x[i])
		assert.Equal(t, want, got)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load([]byte("not json"))
	assert.Error(t, err)

	_, err = Load([]byte(`{"num_features":0}`))
	assert.Error(t, err)

	_, err = Load([]byte(`{"num_features":3,"importances":[0.5]}`))
	assert.Error(t, err)
}

func TestFitInputValidation(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    []int
	}{
		{name: "empty matrix", x: nil, y: nil},
		{name: "row label mismatch", x: [][]float64{{1}}, y: []int{0, 1}},
		{name: "ragged rows", x: [][]float64{{1, 2}, {1}}, y: []int{0, 1}},
		{name: "invalid label", x: [][]float64{{1}, {2}}, y: []int{0, 2}},
		{name: "single class", x: [][]float64{{1}, {2}}, y: []int{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.x, tt.y, testParams())
			assert.Error(t, err)
		})
	}
}

func TestPredictProbaWrongWidth(t *testing.T) {
	x, y := syntheticData(100, 1)
	clf, err := Fit(x, y, testParams())
	require.NoError(t, err)

	_, _, err = clf.PredictProba([]float64{1})
	assert.Error(t, err)
}

func TestScalePosWeightDefaultsToClassRatio(t *testing.T) {
	x, y := syntheticData(200, 21)
	clf, err := Fit(x, y, testParams())
	require.NoError(t, err)

	var pos, neg int
	for _, label := range y {
		if label == 1 {
			pos++
		} else {
			neg++
		}
	}
	assert.InDelta(t, float64(neg)/float64(pos), clf.Params().ScalePosWeight, 1e-12)
}
