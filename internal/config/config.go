package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string

	SecretKey          string
	SessionDuration    time.Duration
	QuestionsSeedPath  string
	RateLimitPerMinute int
	TrustProxy         bool

	AWSRegion           string
	SESFromEmail        string
	SESFromName         string
	FeedbackNotifyEmail string

	DataDir string

	LLMProvider      string
	LLMModel         string
	LLMTimeout       time.Duration
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenAIAPIKey     string
	AnthropicAPIKey  string
	GeminiAPIKey     string

	Debug bool
}

// Load reads configuration from the environment, after applying a .env file
// when one is present in the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8000"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./assessment.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		SecretKey:          getEnv("SECRET_KEY", "your_jwt_secret"),
		SessionDuration:    time.Duration(getEnvInt("SESSION_DAYS", 7)) * 24 * time.Hour,
		QuestionsSeedPath:  getEnv("QUESTIONS_SEED_PATH", ""),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 20),
		TrustProxy:         getEnv("TRUST_PROXY", "") == "true",

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:        getEnv("SES_FROM_EMAIL", ""),
		SESFromName:         getEnv("SES_FROM_NAME", "Assessment"),
		FeedbackNotifyEmail: getEnv("FEEDBACK_NOTIFY_EMAIL", ""),

		DataDir: getEnv("DATA_DIR", "./data"),

		LLMProvider:      getEnv("LLM_PROVIDER", "openrouter"),
		LLMModel:         getEnv("LLM_MODEL", ""),
		LLMTimeout:       getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterModel:  getEnv("OPENROUTER_MODEL", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),

		Debug: getEnv("DEBUG", "") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
