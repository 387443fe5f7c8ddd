package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStoreRoundTrip(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	clf := NewSoftmaxClassifier(3, NumIndicators)
	clf.Weights[0][0] = 1.25
	clf.Weights[2][5] = -0.75
	clf.Intercepts[1] = 0.5

	scaler := &StandardScaler{
		Mean:  []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
		Scale: []float64{1, 2, 3, 4, 5, 6},
	}

	require.NoError(t, store.SaveModel(clf))
	require.NoError(t, store.SaveScaler(scaler))

	loadedClf, err := store.LoadModel()
	require.NoError(t, err)
	assert.Equal(t, clf, loadedClf)

	loadedScaler, err := store.LoadScaler()
	require.NoError(t, err)
	assert.Equal(t, scaler, loadedScaler)
}

func TestArtifactStoreNotFound(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	_, err := store.LoadModel()
	assert.ErrorIs(t, err, ErrArtifactNotFound)

	_, err = store.LoadScaler()
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestArtifactStoreCorrupted(t *testing.T) {
	dir := t.TempDir()
	store := NewArtifactStore(dir)

	// Unparseable JSON must surface as corruption, not as missing.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "risk_model.json"), []byte("{not json"), 0644))
	_, err := store.LoadModel()
	assert.ErrorIs(t, err, ErrArtifactCorrupted)
	assert.NotErrorIs(t, err, ErrArtifactNotFound)

	// Parseable but structurally wrong artifacts are corrupted too.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "risk_scaler.json"), []byte(`{"mean":[1],"scale":[1]}`), 0644))
	_, err = store.LoadScaler()
	assert.ErrorIs(t, err, ErrArtifactCorrupted)
}

func TestArtifactStoreOverwrite(t *testing.T) {
	store := NewArtifactStore(t.TempDir())

	first := NewSoftmaxClassifier(3, NumIndicators)
	first.Intercepts[0] = 1
	require.NoError(t, store.SaveModel(first))

	second := NewSoftmaxClassifier(3, NumIndicators)
	second.Intercepts[0] = 2
	require.NoError(t, store.SaveModel(second))

	loaded, err := store.LoadModel()
	require.NoError(t, err)
	assert.Equal(t, 2.0, loaded.Intercepts[0])
}
