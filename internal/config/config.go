package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	StorageModeMemory   = "memory"
	StorageModePostgres = "postgres"
	StorageModeSQLite   = "sqlite"
)

const (
	AIModeMock   = "mock"
	AIModeOpenAI = "openai"
	AIModeGemini = "gemini"
)

const DefaultOpenAIBaseURL = "https://api.openai.com/v1/chat/completions"

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PresignTTLSeconds int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTLSeconds,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

// Config holds the application configuration.
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Storage
	StorageMode       string // memory | postgres | sqlite
	SQLitePath        string
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string
	DatabaseURLPooled string
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Blob / reports
	Blob           BlobConfig
	ReportsMaxKeep int

	// Health data provider
	HealthDeniedTypes   []string
	HealthAutoAuthorize bool

	// AI
	AIMode           string // mock | openai | gemini
	AITimeoutSeconds int    // 0 = transport default
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	GeminiAPIKey     string
	GeminiModel      string

	// Metrics
	MetricsEnabled bool

	// Migrations
	RunMigrationsOnStartup bool
}

// Load reads configuration from environment variables.
func Load() *Config {
	// APP_ENV (fallback to ENV, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	port := envInt("PORT", 8080)

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	storageMode := parseStorageMode(os.Getenv("STORAGE_MODE"), runtimeDB)

	sqlitePath := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if sqlitePath == "" {
		sqlitePath = "alwell.db"
	}

	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)
	corsAllowCreds := os.Getenv("CORS_ALLOW_CREDENTIALS") == "1"

	// ---------- Rate Limiting ----------
	rateLimitRPS := envInt("RATE_LIMIT_RPS", 0)
	rateLimitBurst := envInt("RATE_LIMIT_BURST", 0)

	// ---------- Blob / S3 ----------
	blobMode := parseBlobMode("BLOB_MODE", BlobModeLocal)

	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	blobCfg := BlobConfig{
		Mode: blobMode,
		S3: S3Config{
			Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
			Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
			SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
			PresignTTLSeconds: s3PresignTTL,
		},
	}

	reportsMaxKeep := envInt("REPORTS_MAX_KEEP", 50)
	if reportsMaxKeep <= 0 {
		reportsMaxKeep = 50
	}

	// ---------- Health data ----------
	healthDenied := parseList(os.Getenv("HEALTH_DENIED_TYPES"))
	healthAutoAuthorize := true
	if raw := strings.TrimSpace(os.Getenv("HEALTH_AUTO_AUTHORIZE")); raw != "" {
		healthAutoAuthorize = parseBoolEnv("HEALTH_AUTO_AUTHORIZE")
	}

	// ---------- AI ----------
	aiMode := strings.ToLower(strings.TrimSpace(os.Getenv("AI_MODE")))
	if aiMode == "" {
		aiMode = AIModeMock
	}
	if aiMode != AIModeMock && aiMode != AIModeOpenAI && aiMode != AIModeGemini {
		log.Printf("WARNING: unknown AI_MODE=%q, fallback to mock", aiMode)
		aiMode = AIModeMock
	}

	aiTimeoutSeconds := envInt("AI_TIMEOUT_SECONDS", 0)
	if aiTimeoutSeconds < 0 {
		aiTimeoutSeconds = 0
	}

	openAIAPIKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	openAIModel := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if openAIModel == "" {
		openAIModel = "gpt-4"
	}
	openAIBaseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if openAIBaseURL == "" {
		openAIBaseURL = DefaultOpenAIBaseURL
	}

	geminiAPIKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	geminiModel := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if geminiModel == "" {
		geminiModel = "gemini-1.5-flash-latest"
	}

	metricsEnabled := true
	if raw := strings.TrimSpace(os.Getenv("METRICS_ENABLED")); raw != "" {
		metricsEnabled = parseBoolEnv("METRICS_ENABLED")
	}

	return &Config{
		Env:      env,
		Port:     port,
		LogLevel: logLevel,

		StorageMode:       storageMode,
		SQLitePath:        sqlitePath,
		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   corsOrigins,
		CORSAllowCredentials: corsAllowCreds,

		RateLimitRPS:   rateLimitRPS,
		RateLimitBurst: rateLimitBurst,

		Blob:           blobCfg,
		ReportsMaxKeep: reportsMaxKeep,

		HealthDeniedTypes:   healthDenied,
		HealthAutoAuthorize: healthAutoAuthorize,

		AIMode:           aiMode,
		AITimeoutSeconds: aiTimeoutSeconds,
		OpenAIAPIKey:     openAIAPIKey,
		OpenAIModel:      openAIModel,
		OpenAIBaseURL:    openAIBaseURL,
		GeminiAPIKey:     geminiAPIKey,
		GeminiModel:      geminiModel,

		MetricsEnabled: metricsEnabled,

		RunMigrationsOnStartup: runMigrationsOnStartup,
	}
}

// MissingAIKeys lists the env keys the selected AI_MODE needs but lacks.
func (c *Config) MissingAIKeys() []string {
	switch c.AIMode {
	case AIModeOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return []string{"OPENAI_API_KEY"}
		}
	case AIModeGemini:
		if strings.TrimSpace(c.GeminiAPIKey) == "" {
			return []string{"GEMINI_API_KEY"}
		}
	}
	return nil
}

// parseStorageMode resolves STORAGE_MODE; when unset, a configured database
// URL selects postgres and everything else runs in memory.
func parseStorageMode(raw, databaseURL string) string {
	mode := strings.ToLower(strings.TrimSpace(raw))
	if mode == "" {
		if databaseURL != "" {
			return StorageModePostgres
		}
		return StorageModeMemory
	}
	switch mode {
	case StorageModeMemory, StorageModePostgres, StorageModeSQLite:
		return mode
	default:
		log.Printf("WARNING: unknown STORAGE_MODE=%q, fallback to memory", mode)
		return StorageModeMemory
	}
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil
	}
	return parseList(raw)
}

func parseList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
		return defaultVal
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
