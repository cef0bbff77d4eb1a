package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devProfile(t *testing.T) *Profile {
	t.Helper()
	return &Profile{
		Mode:       "dev",
		Driver:     "sqlite",
		Data:       t.TempDir(),
		Classifier: "rules",
	}
}

func TestValidateDefaults(t *testing.T) {
	p := devProfile(t)
	require.NoError(t, p.Validate())

	assert.Equal(t, filepath.Join(p.Data, "aura_dev.db"), p.DSN)
	assert.Equal(t, filepath.Join(p.Data, "agent_weights.yaml"), p.WeightsPath)
	assert.Equal(t, 5, p.MaxInsights)
}

func TestValidateUnknownModeFallsBackToDemo(t *testing.T) {
	p := devProfile(t)
	p.Mode = "staging"
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
}

func TestValidateClassifier(t *testing.T) {
	p := devProfile(t)
	p.Classifier = "oracle"
	assert.Error(t, p.Validate())

	// LLM classifier without a key silently degrades to rules.
	p = devProfile(t)
	p.Classifier = "llm"
	require.NoError(t, p.Validate())
	assert.Equal(t, "rules", p.Classifier)

	p = devProfile(t)
	p.Classifier = "llm"
	p.LLMAPIKey = "sk-test"
	require.NoError(t, p.Validate())
	assert.Equal(t, "llm", p.Classifier)
}

func TestValidatePostgresRequiresDSN(t *testing.T) {
	p := devProfile(t)
	p.Driver = "postgres"
	assert.Error(t, p.Validate())

	p.DSN = "postgres://aura@localhost/aura"
	require.NoError(t, p.Validate())
}

func TestValidateUnsupportedDriver(t *testing.T) {
	p := devProfile(t)
	p.Driver = "oracle"
	assert.Error(t, p.Validate())
}

func TestIsLLMEnabled(t *testing.T) {
	assert.False(t, (&Profile{}).IsLLMEnabled())
	assert.True(t, (&Profile{LLMAPIKey: "sk-test"}).IsLLMEnabled())
}
