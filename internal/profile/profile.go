package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Profile is configuration to start the main server.
type Profile struct {
	// Unified LLM configuration (OpenAI-compatible protocol).
	// All providers (openai, deepseek, siliconflow, ollama, zai) use the same config.
	LLMProvider string // Provider identifier
	LLMAPIKey   string
	LLMBaseURL  string // Optional, has a default per provider
	LLMModel    string
	LLMTimeout  int     // Request timeout in seconds (default: 60)
	LLMRPS      float64 // Max LLM requests per second (default: 5)

	// Embedding configuration, used by the retrieval index.
	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingAPIKey   string
	EmbeddingBaseURL  string

	// Classifier selects the scenario detection strategy: "rules" or "llm".
	Classifier string

	// WeightsPath points to the per-agent feedback weight file (YAML).
	// Absent file means no weighting is applied.
	WeightsPath string

	// ScenarioRulesPath points to an optional custom scenario rule file (YAML
	// with CEL expressions). Absent file means built-in rules only.
	ScenarioRulesPath string

	Mode        string // prod, dev, demo
	Addr        string
	Port        int
	Data        string // data directory
	Driver      string // database driver: sqlite, postgres
	DSN         string
	Version     string
	MaxInsights int // cap on insights returned per request (default: 5)
}

// Provider default configurations for the LLM.
// Used when AURA_LLM_BASE_URL is not explicitly set.
var llmProviderDefaults = map[string]struct {
	BaseURL string
	Model   string
}{
	"openai": {
		BaseURL: "https://api.openai.com/v1",
		Model:   "gpt-4o-mini",
	},
	"deepseek": {
		BaseURL: "https://api.deepseek.com",
		Model:   "deepseek-chat",
	},
	"siliconflow": {
		BaseURL: "https://api.siliconflow.cn/v1",
		Model:   "Qwen/Qwen2.5-72B-Instruct",
	},
	"zai": {
		BaseURL: "https://open.bigmodel.cn/api/paas/v4",
		Model:   "glm-4-flash",
	},
	"ollama": {
		BaseURL: "http://localhost:11434/v1",
		Model:   "llama3.1",
	},
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMEnabled returns true if an LLM API key is configured. Without a key
// the service runs entirely on canned responses and rule-based detection.
func (p *Profile) IsLLMEnabled() bool {
	return p.LLMAPIKey != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.LLMProvider = getEnvOrDefault("AURA_LLM_PROVIDER", "openai")
	p.LLMAPIKey = getEnvOrDefault("AURA_LLM_API_KEY", "")
	p.LLMBaseURL = getEnvOrDefault("AURA_LLM_BASE_URL", "")
	p.LLMModel = getEnvOrDefault("AURA_LLM_MODEL", "")
	p.LLMTimeout = getEnvOrDefaultInt("AURA_LLM_TIMEOUT_SECONDS", 60)
	p.LLMRPS = getEnvOrDefaultFloat("AURA_LLM_RPS", 5)

	if _, ok := llmProviderDefaults[p.LLMProvider]; !ok {
		slog.Warn("unknown LLM provider, using default: openai", "provider", p.LLMProvider)
		p.LLMProvider = "openai"
	}
	if defaults, ok := llmProviderDefaults[p.LLMProvider]; ok {
		if p.LLMBaseURL == "" {
			p.LLMBaseURL = defaults.BaseURL
		}
		if p.LLMModel == "" {
			p.LLMModel = defaults.Model
		}
	}

	p.EmbeddingProvider = getEnvOrDefault("AURA_EMBEDDING_PROVIDER", p.LLMProvider)
	p.EmbeddingModel = getEnvOrDefault("AURA_EMBEDDING_MODEL", "text-embedding-3-small")
	p.EmbeddingAPIKey = getEnvOrDefault("AURA_EMBEDDING_API_KEY", p.LLMAPIKey)
	p.EmbeddingBaseURL = getEnvOrDefault("AURA_EMBEDDING_BASE_URL", p.LLMBaseURL)

	p.Classifier = getEnvOrDefault("AURA_CLASSIFIER", "rules")
	p.WeightsPath = getEnvOrDefault("AURA_WEIGHTS_PATH", "")
	p.ScenarioRulesPath = getEnvOrDefault("AURA_SCENARIO_RULES_PATH", "")
	p.MaxInsights = getEnvOrDefaultInt("AURA_MAX_INSIGHTS", 5)
}

// Validate checks the profile and fills derived defaults.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" && p.Mode != "demo" {
		p.Mode = "demo"
	}

	if p.Classifier != "rules" && p.Classifier != "llm" {
		return errors.Errorf("invalid classifier strategy %q, expected rules or llm", p.Classifier)
	}
	if p.Classifier == "llm" && !p.IsLLMEnabled() {
		slog.Warn("llm classifier requested without API key, falling back to rules")
		p.Classifier = "rules"
	}

	if p.MaxInsights <= 0 {
		p.MaxInsights = 5
	}

	if p.Data == "" {
		if p.Mode == "prod" {
			p.Data = "/var/opt/aura"
		} else {
			dir, err := os.Getwd()
			if err != nil {
				return errors.Wrap(err, "failed to get current working directory")
			}
			p.Data = dir
		}
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	switch p.Driver {
	case "sqlite":
		if p.DSN == "" {
			p.DSN = filepath.Join(p.Data, fmt.Sprintf("aura_%s.db", p.Mode))
		}
	case "postgres":
		if p.DSN == "" {
			return errors.New("dsn is required for postgres driver")
		}
	default:
		return errors.Errorf("unsupported database driver %q", p.Driver)
	}

	if p.WeightsPath == "" {
		p.WeightsPath = filepath.Join(p.Data, "agent_weights.yaml")
	}

	return nil
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}
	// Trim trailing "/" in case user supplies.
	dataDir = filepath.Clean(dataDir)

	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}

	return dataDir, nil
}
