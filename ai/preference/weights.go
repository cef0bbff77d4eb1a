// Package preference loads the per-agent confidence weight map applied by
// the orchestrator. The map is read once at process start (or explicit
// reload), never mid-request.
package preference

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Weights maps agent identifiers to confidence multipliers (>= 0). Agents
// without an entry are unaffected by weighting.
type Weights map[string]float64

type weightFile struct {
	Agents map[string]float64 `yaml:"agents"`
}

// Load reads the weight file. An absent file yields an empty map and no
// error: running without weighting is the normal cold-start state.
func Load(path string) (Weights, error) {
	if path == "" {
		return Weights{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("preference: no weight file, weighting disabled", "path", path)
			return Weights{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read weight file %s", path)
	}

	var file weightFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse weight file %s", path)
	}

	weights := Weights{}
	for agent, w := range file.Agents {
		if w < 0 {
			slog.Warn("preference: ignoring negative weight", "agent", agent, "weight", w)
			continue
		}
		weights[agent] = w
	}
	slog.Info("preference: weights loaded", "path", path, "agents", len(weights))
	return weights, nil
}

// Apply multiplies the confidence by the agent's weight, clamped to 1.0.
// Agents with no registered weight pass through unchanged.
func (w Weights) Apply(agentID string, confidence float64) float64 {
	weight, ok := w[agentID]
	if !ok {
		return confidence
	}
	adjusted := confidence * weight
	if adjusted > 1.0 {
		return 1.0
	}
	return adjusted
}
