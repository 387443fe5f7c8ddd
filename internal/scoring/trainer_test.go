package scoring

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStratifiedSplit(t *testing.T) {
	samples := NewGenerator(rand.NewSource(5)).Samples(2000)
	train, test := stratifiedSplit(samples, 0.2, rand.New(rand.NewSource(5)))

	assert.Equal(t, len(samples), len(train)+len(test))
	assert.InDelta(t, 0.2, float64(len(test))/float64(len(samples)), 0.01)

	// Class proportions must survive the split.
	fraction := func(set []SyntheticSample, label int) float64 {
		n := 0
		for _, s := range set {
			if s.Label == label {
				n++
			}
		}
		return float64(n) / float64(len(set))
	}
	for label := 0; label < 3; label++ {
		assert.InDelta(t, fraction(samples, label), fraction(train, label), 0.02,
			"train fraction for label %d", label)
		assert.InDelta(t, fraction(samples, label), fraction(test, label), 0.02,
			"test fraction for label %d", label)
	}
}

func TestTrainAccuracyFloor(t *testing.T) {
	// The rule engine's decision boundary is linear in the indicators, so
	// the classifier must recover it well beyond the sanity floor.
	samples := NewGenerator(rand.NewSource(42)).Samples(DefaultSampleCount)

	clf, scaler, report, err := Train(samples, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	require.NotNil(t, clf)
	require.NotNil(t, scaler)

	assert.Greater(t, report.Accuracy, 0.70, "held-out accuracy regressed")
	assert.Equal(t, DefaultSampleCount, report.Samples)
	assert.Equal(t, report.Samples, report.TrainSize+report.TestSize)
	assert.InDelta(t, 0.2, float64(report.TestSize)/float64(report.Samples), 0.01)

	for _, m := range report.PerClass {
		assert.Greater(t, m.Support, 0, "no held-out rows for %s", m.Category)
		assert.GreaterOrEqual(t, m.F1, 0.0)
		assert.LessOrEqual(t, m.F1, 1.0)
	}
}

func TestTrainRejectsTinyDatasets(t *testing.T) {
	samples := NewGenerator(rand.NewSource(6)).Samples(5)
	_, _, _, err := Train(samples, rand.New(rand.NewSource(6)))
	assert.Error(t, err)
}

func TestEvaluatePerfectClassifier(t *testing.T) {
	// A classifier evaluated against its own predictions must report
	// perfect per-class metrics.
	samples := NewGenerator(rand.NewSource(8)).Samples(1000)
	X, _ := featureMatrix(samples)

	scaler := &StandardScaler{}
	scaler.Fit(X)

	clf := NewSoftmaxClassifier(3, NumIndicators)
	clf.Fit(scaler.TransformAll(X), labelsOf(samples), DefaultFitOptions())

	selfLabels := make([]int, len(X))
	for i, row := range X {
		selfLabels[i] = clf.Predict(scaler.Transform(row))
	}

	report := evaluate(clf, scaler, X, selfLabels)
	assert.Equal(t, 1.0, report.Accuracy)
	for _, m := range report.PerClass {
		if m.Support > 0 {
			assert.Equal(t, 1.0, m.Precision, m.Category)
			assert.Equal(t, 1.0, m.Recall, m.Category)
		}
	}
}

func labelsOf(samples []SyntheticSample) []int {
	y := make([]int, len(samples))
	for i, s := range samples {
		y[i] = s.Label
	}
	return y
}
