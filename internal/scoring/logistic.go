package scoring

import (
	"fmt"
	"math"
)

// StandardScaler centers each feature to zero mean and unit variance.
// Parameters are fit on the training partition only and applied everywhere
// else, so no information leaks from held-out rows.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Fit computes per-feature mean and standard deviation from X.
func (s *StandardScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	features := len(X[0])
	s.Mean = make([]float64, features)
	s.Scale = make([]float64, features)

	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		s.Scale[j] = math.Sqrt(s.Scale[j] / n)
		// Constant features pass through unscaled.
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
}

// Transform standardizes a single feature vector.
func (s *StandardScaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out
}

// TransformAll standardizes every row of X.
func (s *StandardScaler) TransformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.Transform(row)
	}
	return out
}

// Validate checks that the scaler round-tripped with usable parameters.
func (s *StandardScaler) Validate() error {
	if len(s.Mean) != NumIndicators || len(s.Scale) != NumIndicators {
		return fmt.Errorf("scaler expects %d features, got mean=%d scale=%d",
			NumIndicators, len(s.Mean), len(s.Scale))
	}
	for j, v := range s.Scale {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("scaler has unusable scale for feature %d", j)
		}
	}
	return nil
}

// SoftmaxClassifier is a multinomial logistic regression model. Weights is
// indexed [class][feature].
type SoftmaxClassifier struct {
	Weights    [][]float64 `json:"weights"`
	Intercepts []float64   `json:"intercepts"`
	Classes    int         `json:"classes"`
}

// FitOptions controls the gradient descent fit.
type FitOptions struct {
	LearningRate float64
	Epochs       int
	L2           float64
}

// DefaultFitOptions converges comfortably on the standardized synthetic set.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		LearningRate: 0.5,
		Epochs:       400,
		L2:           1e-4,
	}
}

// NewSoftmaxClassifier allocates a zero-initialized classifier.
func NewSoftmaxClassifier(classes, features int) *SoftmaxClassifier {
	weights := make([][]float64, classes)
	for k := range weights {
		weights[k] = make([]float64, features)
	}
	return &SoftmaxClassifier{
		Weights:    weights,
		Intercepts: make([]float64, classes),
		Classes:    classes,
	}
}

// Fit trains the classifier with full-batch gradient descent on the
// cross-entropy loss. X must already be standardized.
func (c *SoftmaxClassifier) Fit(X [][]float64, y []int, opts FitOptions) {
	if len(X) == 0 {
		return
	}
	n := float64(len(X))
	features := len(X[0])

	gradW := make([][]float64, c.Classes)
	for k := range gradW {
		gradW[k] = make([]float64, features)
	}
	gradB := make([]float64, c.Classes)

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		for k := range gradW {
			for j := range gradW[k] {
				gradW[k][j] = 0
			}
			gradB[k] = 0
		}

		for i, row := range X {
			p := c.Probabilities(row)
			for k := 0; k < c.Classes; k++ {
				g := p[k]
				if y[i] == k {
					g -= 1
				}
				for j, v := range row {
					gradW[k][j] += g * v
				}
				gradB[k] += g
			}
		}

		for k := 0; k < c.Classes; k++ {
			for j := 0; j < features; j++ {
				grad := gradW[k][j]/n + opts.L2*c.Weights[k][j]
				c.Weights[k][j] -= opts.LearningRate * grad
			}
			c.Intercepts[k] -= opts.LearningRate * gradB[k] / n
		}
	}
}

// Probabilities returns the softmax class distribution for one standardized
// feature vector.
func (c *SoftmaxClassifier) Probabilities(x []float64) []float64 {
	logits := make([]float64, c.Classes)
	maxLogit := math.Inf(-1)
	for k := 0; k < c.Classes; k++ {
		z := c.Intercepts[k]
		for j, v := range x {
			z += c.Weights[k][j] * v
		}
		logits[k] = z
		if z > maxLogit {
			maxLogit = z
		}
	}

	// Subtract the max logit before exponentiating for numeric stability.
	sum := 0.0
	for k, z := range logits {
		e := math.Exp(z - maxLogit)
		logits[k] = e
		sum += e
	}
	for k := range logits {
		logits[k] /= sum
	}
	return logits
}

// Predict returns the most probable class label.
func (c *SoftmaxClassifier) Predict(x []float64) int {
	p := c.Probabilities(x)
	best := 0
	for k, v := range p {
		if v > p[best] {
			best = k
		}
	}
	return best
}

// Validate checks that the classifier round-tripped with usable parameters.
func (c *SoftmaxClassifier) Validate() error {
	if c.Classes != 3 || len(c.Weights) != 3 || len(c.Intercepts) != 3 {
		return fmt.Errorf("classifier expects 3 classes, got %d", c.Classes)
	}
	for k, row := range c.Weights {
		if len(row) != NumIndicators {
			return fmt.Errorf("classifier weights for class %d expect %d features, got %d",
				k, NumIndicators, len(row))
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("classifier weights for class %d are not finite", k)
			}
		}
	}
	return nil
}
