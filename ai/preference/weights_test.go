package preference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsEmptyMap(t *testing.T) {
	w, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, w)

	w, err = Load("")
	require.NoError(t, err)
	assert.Empty(t, w)
}

func TestLoadWeightFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := `
agents:
  context: 1.2
  wellness: 0.8
  financial: -0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	w, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, w, 2)
	assert.InDelta(t, 1.2, w["context"], 1e-9)
	assert.InDelta(t, 0.8, w["wellness"], 1e-9)
	// Negative weights are skipped, not clamped.
	_, ok := w["financial"]
	assert.False(t, ok)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agents: [not, a, map]"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	w := Weights{"boost": 1.5, "damp": 0.5, "huge": 10}

	tests := []struct {
		name       string
		agent      string
		confidence float64
		want       float64
	}{
		{"boost below cap", "boost", 0.5, 0.75},
		{"boost clamped", "boost", 0.9, 1.0},
		{"damped", "damp", 0.8, 0.4},
		{"clamped to one", "huge", 0.2, 1.0},
		{"no entry unchanged", "unknown", 0.42, 0.42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, w.Apply(tt.agent, tt.confidence), 1e-9)
		})
	}
}
