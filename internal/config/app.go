package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"mindful-chat/internal/logger"
)

// AppConfig holds all application configuration
type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	LLM      LLMConfig
	Identity IdentityConfig
	Safety   SafetyConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// URL takes precedence when set; otherwise the DSN is assembled
	// from the discrete fields.
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	MigrationsPath string
}

// CORSConfig holds the allowed cross-origin request sources
type CORSConfig struct {
	AllowedOrigins []string
}

// LLMConfig holds completion provider configuration
type LLMConfig struct {
	APIKey string
	Model  string
}

// IdentityConfig holds the external identity provider key pair.
// The publishable key is the one handed to the web client; the secret
// key verifies the tokens it sends back.
type IdentityConfig struct {
	PublishableKey string
	SecretKey      []byte
}

// SafetyConfig holds the crisis short-circuit reply text
type SafetyConfig struct {
	CrisisMessage string
}

// defaultCrisisMessage is returned verbatim when input matches the
// crisis pattern set. Overridable per deployment via CRISIS_MESSAGE so
// regional helpline numbers can be substituted.
const defaultCrisisMessage = "It sounds like you are going through something very painful right now. " +
	"You deserve support, and you don't have to face this alone. " +
	"Please consider reaching out to a crisis line such as 988 (US) or your local emergency number. " +
	"I'm still here to listen if you want to keep talking."

// LoadConfig loads and validates application configuration from environment
func LoadConfig() (*AppConfig, error) {
	// A missing .env file is fine; containers set real environment variables.
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found, using environment variables only")
	}

	config := &AppConfig{}

	config.Server = ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}

	config.Database = DatabaseConfig{
		URL:            os.Getenv("DATABASE_URL"),
		Host:           getEnvOrDefault("DB_HOST", "localhost"),
		Port:           getEnvOrDefault("DB_PORT", "5432"),
		User:           getEnvOrDefault("DB_USER", "postgres"),
		Password:       getEnvOrDefault("DB_PASSWORD", "postgres"),
		Name:           getEnvOrDefault("DB_NAME", "mindfulchat"),
		SSLMode:        getEnvOrDefault("DB_SSLMODE", "disable"),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", "migrations"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: parseOrigins(getEnvOrDefault("CORS_ORIGIN", "*")),
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logger.Log.Warn("OPENAI_API_KEY environment variable not set")
	}
	config.LLM = LLMConfig{
		APIKey: apiKey,
		Model:  getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
	}

	secretKey := os.Getenv("IDENTITY_SECRET_KEY")
	if secretKey == "" {
		return nil, fmt.Errorf("IDENTITY_SECRET_KEY environment variable must be set")
	}
	if len(secretKey) < 32 {
		return nil, fmt.Errorf("IDENTITY_SECRET_KEY must be at least 32 characters (current length: %d)", len(secretKey))
	}
	config.Identity = IdentityConfig{
		PublishableKey: os.Getenv("IDENTITY_PUBLISHABLE_KEY"),
		SecretKey:      []byte(secretKey),
	}

	config.Safety = SafetyConfig{
		CrisisMessage: getEnvOrDefault("CRISIS_MESSAGE", defaultCrisisMessage),
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// parseOrigins splits a single origin or comma-separated origin list
func parseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
