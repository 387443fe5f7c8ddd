package scoring

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
)

// ModelState tracks the explicit lifecycle of the trained model.
type ModelState int

const (
	ModelUntrained ModelState = iota
	ModelTrained
)

func (s ModelState) String() string {
	if s == ModelTrained {
		return "trained"
	}
	return "untrained"
}

// ModelContext owns the classifier and scaler for the lifetime of the
// process. It is created once, injected into every consumer, and guards
// the train-if-absent path so concurrent first predictions cannot race.
type ModelContext struct {
	mu    sync.RWMutex
	store *ArtifactStore

	defaultSamples int
	seed           int64

	model  *SoftmaxClassifier
	scaler *StandardScaler
	state  ModelState
}

// NewModelContext creates an untrained context. The seed drives both the
// synthetic data generator and the stratified split, so a training run is
// reproducible for a given (seed, sampleCount) pair.
func NewModelContext(store *ArtifactStore, defaultSamples int, seed int64) *ModelContext {
	if defaultSamples <= 0 {
		defaultSamples = DefaultSampleCount
	}
	return &ModelContext{
		store:          store,
		defaultSamples: defaultSamples,
		seed:           seed,
	}
}

// State reports the current lifecycle state.
func (m *ModelContext) State() ModelState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Load attempts to restore both artifacts. It returns true when both were
// loaded, false when either is missing, and an error when an artifact
// exists but is corrupted. Missing and corrupted are deliberately distinct
// outcomes: only the former is recoverable by training.
func (m *ModelContext) Load() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked()
}

func (m *ModelContext) loadLocked() (bool, error) {
	clf, err := m.store.LoadModel()
	if err != nil {
		if errors.Is(err, ErrArtifactNotFound) {
			return false, nil
		}
		return false, err
	}
	scaler, err := m.store.LoadScaler()
	if err != nil {
		if errors.Is(err, ErrArtifactNotFound) {
			return false, nil
		}
		return false, err
	}

	m.model = clf
	m.scaler = scaler
	m.state = ModelTrained
	return true, nil
}

// Train generates a fresh synthetic dataset, fits classifier and scaler,
// persists both artifacts, and swaps them into the context. Retraining
// overwrites any previous fit.
func (m *ModelContext) Train(sampleCount int) (TrainReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.trainLocked(sampleCount)
}

func (m *ModelContext) trainLocked(sampleCount int) (TrainReport, error) {
	if sampleCount <= 0 {
		sampleCount = m.defaultSamples
	}

	slog.Info("Training risk classifier", "samples", sampleCount, "seed", m.seed)

	gen := NewGenerator(rand.NewSource(m.seed))
	samples := gen.Samples(sampleCount)

	clf, scaler, report, err := Train(samples, rand.New(rand.NewSource(m.seed)))
	if err != nil {
		return TrainReport{}, fmt.Errorf("training failed: %w", err)
	}

	if err := m.store.SaveModel(clf); err != nil {
		return TrainReport{}, err
	}
	if err := m.store.SaveScaler(scaler); err != nil {
		return TrainReport{}, err
	}

	m.model = clf
	m.scaler = scaler
	m.state = ModelTrained

	slog.Info("Risk classifier trained",
		"accuracy", report.Accuracy,
		"train_size", report.TrainSize,
		"test_size", report.TestSize)

	return report, nil
}

// ensureReady lazily initializes the model: load persisted artifacts if
// they exist, train from scratch if they do not, fail loudly if an
// artifact is corrupted.
func (m *ModelContext) ensureReady() error {
	m.mu.RLock()
	ready := m.state == ModelTrained
	m.mu.RUnlock()
	if ready {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-check under the write lock; another caller may have won the race.
	if m.state == ModelTrained {
		return nil
	}

	loaded, err := m.loadLocked()
	if err != nil {
		return err
	}
	if loaded {
		slog.Info("Risk classifier restored from artifacts")
		return nil
	}

	slog.Info("No persisted risk classifier, training a fresh one")
	_, err = m.trainLocked(m.defaultSamples)
	return err
}

// Probabilities standardizes the indicator vector and returns the
// classifier's class distribution. Triggers lazy training on first use.
func (m *ModelContext) Probabilities(ind IndicatorSet) (ClassProbabilities, error) {
	if err := m.ensureReady(); err != nil {
		return ClassProbabilities{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p := m.model.Probabilities(m.scaler.Transform(ind.Vector()))
	return ClassProbabilities{
		LowRisk:    round4(p[0]),
		MediumRisk: round4(p[1]),
		HighRisk:   round4(p[2]),
	}, nil
}
