package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// MinJWTSecretLength is the minimum required length for the JWT secret in production
	MinJWTSecretLength = 32
)

type Config struct {
	ServerPort  string
	Environment string
	// Database
	DBDriver         string // sqlite, postgres, libsql
	DBPath           string
	DatabaseURL      string
	TursoDatabaseURL string
	TursoAuthToken   string
	// Auth
	JWTSecret            string
	JWTExpiration        time.Duration
	ResetTokenExpiration time.Duration
	// Email (Resend)
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool // When true, emails are logged instead of sent
	// Logging
	LogLevel    string
	LogFormat   string // json, console
	LogOutput   string // stdout, file
	LogFilePath string
	// Jobs
	SituationCron string
	Timezone      string
	// Seed
	SeedOnStart   bool
	AdminEmail    string
	AdminPassword string
	// Other
	AllowedOrigins   []string
	AppURL           string
	MetricsNamespace string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", "development")
	jwtSecret := getEnv("JWT_SECRET", "")

	// Fatal in production if the secret is unusable
	if err := ValidateJWTSecret(jwtSecret, environment); err != nil {
		log.Fatalf("[CRITICAL] %v", err)
	}

	if jwtSecret == "" && environment != "production" {
		jwtSecret = GenerateSecureSecret()
		log.Println("[INFO] Generated temporary JWT secret for development. Set JWT_SECRET env var for persistence.")
	}

	driver := getEnv("DB_DRIVER", "")
	if driver == "" {
		driver = "sqlite"
		if os.Getenv("TURSO_DATABASE_URL") != "" {
			driver = "libsql"
		} else if os.Getenv("DATABASE_URL") != "" {
			driver = "postgres"
		}
	}

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		Environment:          environment,
		DBDriver:             driver,
		DBPath:               getEnv("DB_PATH", "db/app.db"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		TursoDatabaseURL:     getEnv("TURSO_DATABASE_URL", ""),
		TursoAuthToken:       getEnv("TURSO_AUTH_TOKEN", ""),
		JWTSecret:            jwtSecret,
		JWTExpiration:        getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
		ResetTokenExpiration: getEnvDuration("RESET_TOKEN_EXPIRATION", time.Hour),
		ResendAPIKey:         getEnv("RESEND_API_KEY", ""),
		EmailFrom:            getEnv("EMAIL_FROM", "noreply@gestion-personnel.local"),
		EmailFromName:        getEnv("EMAIL_FROM_NAME", "Gestion du Personnel"),
		EmailTestMode:        getEnvBool("EMAIL_TEST_MODE", true), // Default true for safety
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "json"),
		LogOutput:            getEnv("LOG_OUTPUT", "stdout"),
		LogFilePath:          getEnv("LOG_FILE_PATH", "logs/app.log"),
		SituationCron:        getEnv("SITUATION_CRON", "0 6 * * *"),
		Timezone:             getEnv("TIMEZONE", "Africa/Nouakchott"),
		SeedOnStart:          getEnvBool("SEED_ON_START", false),
		AdminEmail:           getEnv("ADMIN_EMAIL", "admin@gestion-personnel.local"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		AllowedOrigins:       strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		AppURL:               getEnv("APP_URL", "http://localhost:3000"),
		MetricsNamespace:     getEnv("METRICS_NAMESPACE", "personnel"),
	}
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		if defaultValue != "" {
			log.Printf("Using default value for %s: %s", key, defaultValue)
		}
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("[WARNING] Invalid duration for %s: %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// ValidateJWTSecret checks the signing secret. In production it must be at least
// 32 characters and not a known insecure default.
func ValidateJWTSecret(secret string, environment string) error {
	insecureDefaults := []string{
		"dev-secret-change-in-production",
		"change-me",
		"secret",
		"development",
		"test",
	}

	for _, insecure := range insecureDefaults {
		if strings.EqualFold(secret, insecure) {
			if environment == "production" {
				return fmt.Errorf("JWT_SECRET is set to an insecure default value. Generate one with: openssl rand -base64 32")
			}
			log.Printf("[WARNING] JWT_SECRET is set to an insecure default value. This is acceptable only in development.")
			return nil
		}
	}

	if environment == "production" && len(secret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production (current: %d)", MinJWTSecretLength, len(secret))
	}

	return nil
}

// GenerateSecureSecret generates a cryptographically secure random secret.
// Only used in development when no secret is provided.
func GenerateSecureSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Printf("[WARNING] Failed to generate secure secret: %v", err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
