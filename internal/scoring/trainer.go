package scoring

import (
	"fmt"
	"math/rand"
)

// ClassMetrics is the held-out evaluation breakdown for one risk tier.
type ClassMetrics struct {
	Category  RiskCategory `json:"category"`
	Precision float64      `json:"precision"`
	Recall    float64      `json:"recall"`
	F1        float64      `json:"f1"`
	Support   int          `json:"support"`
}

// TrainReport summarizes one training run.
type TrainReport struct {
	Samples   int             `json:"samples"`
	TrainSize int             `json:"train_size"`
	TestSize  int             `json:"test_size"`
	Accuracy  float64         `json:"accuracy"`
	PerClass  [3]ClassMetrics `json:"per_class"`
}

// Train fits a classifier and scaler on the given synthetic samples:
// stratified 80/20 split, scaler fit on the training partition, softmax
// regression fit on standardized training features, evaluation on the
// held-out partition.
func Train(samples []SyntheticSample, rng *rand.Rand) (*SoftmaxClassifier, *StandardScaler, TrainReport, error) {
	if len(samples) < 10 {
		return nil, nil, TrainReport{}, fmt.Errorf("need at least 10 samples to train, got %d", len(samples))
	}

	train, test := stratifiedSplit(samples, 0.2, rng)
	if len(test) == 0 {
		return nil, nil, TrainReport{}, fmt.Errorf("stratified split produced an empty test partition")
	}

	trainX, trainY := featureMatrix(train)
	testX, testY := featureMatrix(test)

	scaler := &StandardScaler{}
	scaler.Fit(trainX)

	clf := NewSoftmaxClassifier(3, NumIndicators)
	clf.Fit(scaler.TransformAll(trainX), trainY, DefaultFitOptions())

	report := evaluate(clf, scaler, testX, testY)
	report.Samples = len(samples)
	report.TrainSize = len(train)
	report.TestSize = len(test)

	return clf, scaler, report, nil
}

// stratifiedSplit shuffles each class independently and carves out testFrac
// of every class, preserving the label balance in both partitions.
func stratifiedSplit(samples []SyntheticSample, testFrac float64, rng *rand.Rand) (train, test []SyntheticSample) {
	byLabel := make(map[int][]int)
	for i, s := range samples {
		byLabel[s.Label] = append(byLabel[s.Label], i)
	}

	for label := 0; label < 3; label++ {
		idx := byLabel[label]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		cut := int(float64(len(idx)) * testFrac)
		for _, i := range idx[:cut] {
			test = append(test, samples[i])
		}
		for _, i := range idx[cut:] {
			train = append(train, samples[i])
		}
	}
	return train, test
}

func featureMatrix(samples []SyntheticSample) ([][]float64, []int) {
	X := make([][]float64, len(samples))
	y := make([]int, len(samples))
	for i, s := range samples {
		X[i] = s.Indicators.Vector()
		y[i] = s.Label
	}
	return X, y
}

// evaluate computes accuracy and a per-class precision/recall/F1 breakdown
// from the confusion matrix over the held-out partition.
func evaluate(clf *SoftmaxClassifier, scaler *StandardScaler, X [][]float64, y []int) TrainReport {
	var confusion [3][3]int // [actual][predicted]
	correct := 0
	for i, row := range X {
		pred := clf.Predict(scaler.Transform(row))
		confusion[y[i]][pred]++
		if pred == y[i] {
			correct++
		}
	}

	report := TrainReport{
		Accuracy: float64(correct) / float64(len(y)),
	}
	for k := 0; k < 3; k++ {
		var predicted, actual int
		for other := 0; other < 3; other++ {
			predicted += confusion[other][k]
			actual += confusion[k][other]
		}
		tp := confusion[k][k]

		var precision, recall, f1 float64
		if predicted > 0 {
			precision = float64(tp) / float64(predicted)
		}
		if actual > 0 {
			recall = float64(tp) / float64(actual)
		}
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}
		report.PerClass[k] = ClassMetrics{
			Category:  CategoryForLabel(k),
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   actual,
		}
	}
	return report
}
