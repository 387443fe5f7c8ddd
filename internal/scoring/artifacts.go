package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	modelFileName  = "risk_model.json"
	scalerFileName = "risk_scaler.json"
)

// ErrArtifactNotFound means no artifact exists yet; callers recover by
// training. ErrArtifactCorrupted means an artifact exists but cannot be
// used; callers must not silently retrain over it.
var (
	ErrArtifactNotFound  = errors.New("model artifact not found")
	ErrArtifactCorrupted = errors.New("model artifact corrupted")
)

// ArtifactStore persists the classifier and scaler as two independent JSON
// files so either can be regenerated without disturbing the other.
type ArtifactStore struct {
	dataDir string
}

// NewArtifactStore creates a store rooted at dataDir.
func NewArtifactStore(dataDir string) *ArtifactStore {
	return &ArtifactStore{dataDir: dataDir}
}

// LoadModel reads the persisted classifier.
func (s *ArtifactStore) LoadModel() (*SoftmaxClassifier, error) {
	var clf SoftmaxClassifier
	if err := s.load(modelFileName, &clf); err != nil {
		return nil, err
	}
	if err := clf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactCorrupted, modelFileName, err)
	}
	return &clf, nil
}

// LoadScaler reads the persisted standardizer.
func (s *ArtifactStore) LoadScaler() (*StandardScaler, error) {
	var scaler StandardScaler
	if err := s.load(scalerFileName, &scaler); err != nil {
		return nil, err
	}
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrArtifactCorrupted, scalerFileName, err)
	}
	return &scaler, nil
}

// SaveModel persists the classifier, overwriting any previous fit.
func (s *ArtifactStore) SaveModel(clf *SoftmaxClassifier) error {
	return s.save(modelFileName, clf)
}

// SaveScaler persists the standardizer, overwriting any previous fit.
func (s *ArtifactStore) SaveScaler(scaler *StandardScaler) error {
	return s.save(scalerFileName, scaler)
}

func (s *ArtifactStore) load(name string, out interface{}) error {
	filePath := filepath.Join(s.dataDir, name)

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
		}
		return fmt.Errorf("failed to open artifact %s: %w", name, err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArtifactCorrupted, name, err)
	}
	return nil
}

func (s *ArtifactStore) save(name string, in interface{}) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	filePath := filepath.Join(s.dataDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create artifact %s: %w", name, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(in); err != nil {
		return fmt.Errorf("failed to encode artifact %s: %w", name, err)
	}
	return nil
}
