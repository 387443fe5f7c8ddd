package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardScalerFitTransform(t *testing.T) {
	X := [][]float64{
		{1, 10},
		{2, 20},
		{3, 30},
	}

	scaler := &StandardScaler{}
	scaler.Fit(X)

	assert.InDelta(t, 2.0, scaler.Mean[0], 1e-9)
	assert.InDelta(t, 20.0, scaler.Mean[1], 1e-9)

	out := scaler.TransformAll(X)

	// Standardized columns have zero mean.
	for j := 0; j < 2; j++ {
		sum := 0.0
		for i := range out {
			sum += out[i][j]
		}
		assert.InDelta(t, 0.0, sum, 1e-9, "column %d", j)
	}

	// The middle row sits exactly on the mean.
	assert.InDelta(t, 0.0, out[1][0], 1e-9)
	assert.InDelta(t, 0.0, out[1][1], 1e-9)
}

func TestStandardScalerConstantFeature(t *testing.T) {
	scaler := &StandardScaler{}
	scaler.Fit([][]float64{{5}, {5}, {5}})

	// Constant features must not divide by zero.
	assert.Equal(t, 1.0, scaler.Scale[0])
	assert.InDelta(t, 0.0, scaler.Transform([]float64{5})[0], 1e-9)
}

func TestStandardScalerValidate(t *testing.T) {
	good := &StandardScaler{
		Mean:  make([]float64, NumIndicators),
		Scale: []float64{1, 1, 1, 1, 1, 1},
	}
	assert.NoError(t, good.Validate())

	short := &StandardScaler{Mean: []float64{0}, Scale: []float64{1}}
	assert.Error(t, short.Validate())

	zeroScale := &StandardScaler{
		Mean:  make([]float64, NumIndicators),
		Scale: make([]float64, NumIndicators),
	}
	assert.Error(t, zeroScale.Validate())
}

func TestSoftmaxProbabilitiesSumToOne(t *testing.T) {
	clf := NewSoftmaxClassifier(3, 2)
	clf.Weights = [][]float64{{1, -1}, {0.5, 0.5}, {-2, 3}}
	clf.Intercepts = []float64{0.1, -0.2, 0.3}

	for _, x := range [][]float64{{0, 0}, {1, 1}, {-5, 10}, {100, -100}} {
		p := clf.Probabilities(x)
		require.Len(t, p, 3)

		sum := 0.0
		for _, v := range p {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestSoftmaxZeroModelIsUniform(t *testing.T) {
	clf := NewSoftmaxClassifier(3, 2)
	p := clf.Probabilities([]float64{1, 2})
	for _, v := range p {
		assert.InDelta(t, 1.0/3.0, v, 1e-9)
	}
}

func TestSoftmaxFitSeparableClasses(t *testing.T) {
	// Three well-separated clusters on a line.
	var X [][]float64
	var y []int
	for i := 0; i < 30; i++ {
		offset := float64(i%10) * 0.02
		X = append(X, []float64{-1 + offset}, []float64{0 + offset}, []float64{1 + offset})
		y = append(y, 0, 1, 2)
	}

	clf := NewSoftmaxClassifier(3, 1)
	clf.Fit(X, y, DefaultFitOptions())

	assert.Equal(t, 0, clf.Predict([]float64{-1}))
	assert.Equal(t, 1, clf.Predict([]float64{0.05}))
	assert.Equal(t, 2, clf.Predict([]float64{1.1}))
}

func TestSoftmaxValidate(t *testing.T) {
	good := NewSoftmaxClassifier(3, NumIndicators)
	assert.NoError(t, good.Validate())

	wrongClasses := NewSoftmaxClassifier(2, NumIndicators)
	assert.Error(t, wrongClasses.Validate())

	wrongFeatures := NewSoftmaxClassifier(3, 4)
	assert.Error(t, wrongFeatures.Validate())
}
