package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// valid enumerated values
var (
	validLogFormats  = []string{"text", "json"}
	validLogLevels   = []string{"debug", "info", "warn", "error"}
	validPromptModes = []string{"summary", "raw"}
	validProviders   = []string{"claude", "gemini", "llama"}
)

type Config struct {
	DBPath                 string
	GitHubToken            string
	ListenAddr             string
	LogFormat              string
	LogLevel               string
	ModelAPI               string
	ModelID                string
	ModelMaxResponseTokens int
	ModelProvider          string
	ModelSkipSSLVerify     bool
	ModelTimeoutSeconds    int
	ModelUserKey           string
	PromptMode             string
	ApproachAnalysis       bool
}

// LLMEnabled reports whether an LLM provider is configured. The
// platform runs without one: prompt generation falls back to the naive
// heuristic and approach analysis is unavailable.
func (c *Config) LLMEnabled() bool {
	return c.ModelProvider != ""
}

// Load creates a new Config instance from environment variables and validates it
func Load() (*Config, error) {

	// Parse GitHub and service configuration
	gitHubToken := os.Getenv("AEP_GITHUB_TOKEN")
	listenAddr := getEnvOrDefault("AEP_LISTEN_ADDR", ":8080")
	dbPath := getEnvOrDefault("AEP_DB_PATH", "data/agent-eval")

	// Parse logging configuration
	logFormat := os.Getenv("AEP_LOG_FORMAT")
	logLevel := os.Getenv("AEP_LOG_LEVEL")

	// Parse model configuration; an empty provider disables the LLM layer
	modelProvider := os.Getenv("AEP_MODEL_PROVIDER")
	prefix := strings.ToUpper(modelProvider)
	modelAPI := os.Getenv(fmt.Sprintf("AEP_%s_MODEL_API", prefix))
	modelID := os.Getenv(fmt.Sprintf("AEP_%s_MODEL_ID", prefix))
	modelUserKey := os.Getenv(fmt.Sprintf("AEP_%s_USER_KEY", prefix))

	modelSkipSSL, err := parseBoolEnvOrDefault("AEP_MODEL_SKIP_SSL_VERIFY", false)
	if err != nil {
		return nil, err
	}

	modelMaxResponseTokens, err := parseIntEnvOrDefault("AEP_MODEL_MAX_RESPONSE_TOKENS", 2000, 1, 1000000000)
	if err != nil {
		return nil, err
	}
	modelTimeoutSeconds, err := parseIntEnvOrDefault("AEP_MODEL_TIMEOUT_SECONDS", 120, 1, 1000000000)
	if err != nil {
		return nil, err
	}

	// Parse prompt generation and evaluation options
	promptMode := getEnvOrDefault("AEP_PROMPT_MODE", "summary")

	approachAnalysis, err := parseBoolEnvOrDefault("AEP_APPROACH_ANALYSIS", false)
	if err != nil {
		return nil, err
	}

	// Build config struct
	cfg := &Config{
		DBPath:                 dbPath,
		GitHubToken:            gitHubToken,
		ListenAddr:             listenAddr,
		LogFormat:              logFormat,
		LogLevel:               logLevel,
		ModelAPI:               modelAPI,
		ModelID:                modelID,
		ModelMaxResponseTokens: modelMaxResponseTokens,
		ModelProvider:          modelProvider,
		ModelSkipSSLVerify:     modelSkipSSL,
		ModelTimeoutSeconds:    modelTimeoutSeconds,
		ModelUserKey:           modelUserKey,
		PromptMode:             promptMode,
		ApproachAnalysis:       approachAnalysis,
	}

	// Validate configuration
	if err := validateConfig(cfg, prefix); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// parseIntEnvOrDefault parses an integer environment variable with range validation or returns a default value if not set
func parseIntEnvOrDefault(key string, defaultVal, min, max int) (int, error) {
	str, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal, nil
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer, got: %s", key, str)
	}

	if val < min || val > max {
		return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, val)
	}

	return val, nil
}

// parseBoolEnvOrDefault parses a boolean environment variable or returns a default value if not set
func parseBoolEnvOrDefault(key string, defaultVal bool) (bool, error) {
	str, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal, nil
	}

	val, err := strconv.ParseBool(str)
	if err != nil {
		return false, fmt.Errorf("%s must be a valid boolean, got: %s", key, str)
	}

	return val, nil
}

// validateConfig performs all validation on the loaded configuration
func validateConfig(cfg *Config, modelProviderPrefix string) error {

	// Validate logging configuration
	if cfg.LogFormat != "" {
		if !slices.Contains(validLogFormats, strings.ToLower(cfg.LogFormat)) {
			return fmt.Errorf("AEP_LOG_FORMAT must be one of: %v; got: %s", validLogFormats, cfg.LogFormat)
		}
	}
	if cfg.LogLevel != "" {
		if !slices.Contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
			return fmt.Errorf("AEP_LOG_LEVEL must be one of: %v; got: %s", validLogLevels, cfg.LogLevel)
		}
	}

	// Validate prompt mode
	if !slices.Contains(validPromptModes, cfg.PromptMode) {
		return fmt.Errorf("AEP_PROMPT_MODE must be one of: %v; got: %s", validPromptModes, cfg.PromptMode)
	}

	// Validate model configuration when a provider is selected
	if cfg.ModelProvider != "" {
		if !slices.Contains(validProviders, cfg.ModelProvider) {
			return fmt.Errorf("AEP_MODEL_PROVIDER must be one of: %v; got: %s", validProviders, cfg.ModelProvider)
		}
		if cfg.ModelAPI == "" {
			return fmt.Errorf("AEP_%s_MODEL_API environment variable is required", modelProviderPrefix)
		}
		if cfg.ModelID == "" {
			return fmt.Errorf("AEP_%s_MODEL_ID environment variable is required", modelProviderPrefix)
		}
		if cfg.ModelUserKey == "" {
			return fmt.Errorf("AEP_%s_USER_KEY environment variable is required", modelProviderPrefix)
		}
	}

	// Approach analysis rides on the LLM layer
	if cfg.ApproachAnalysis && cfg.ModelProvider == "" {
		return fmt.Errorf("AEP_APPROACH_ANALYSIS requires AEP_MODEL_PROVIDER to be set")
	}

	return nil
}
